// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package jit

import (
	"fmt"

	asm "github.com/twitchyliquid64/golang-asm"
	"github.com/twitchyliquid64/golang-asm/obj"
	"github.com/twitchyliquid64/golang-asm/obj/x86"
)

// AMD64Backend emits native x86-64 code for three of the opcodes the
// Operation Table marks JIT-eligible: Add, Addi and Lui (BuildAdd,
// BuildAddi, BuildLui). It has no builder for the other eligible tags
// (Nop, Auipc, Lw, Sw, Jal) or for any other opcode; those run only
// through their interpreter handlers.
//
// Grounded on exec/internal/compile.AMD64Backend: the reserved/scratch
// register discipline (R10/R11 reserved for the WASM stack/locals
// pointers there; here R10 is reserved for the guest register file
// pointer, the RISC-V analogue), and the Scanner/supportedOpcodes gate
// that keeps a backend honest about what it can and can't lower.
type AMD64Backend struct{}

// ErrUnsupported names an opcode outside the backend's narrow coverage.
// None of the Build methods in this file return it; each lowers only its
// own opcode.
var ErrUnsupported = fmt.Errorf("jit: amd64 backend cannot lower this op")

// regFilePtr is the reserved register holding a *[32]uint32 to the
// guest integer register file, mirroring AMD64Backend's R11-for-locals
// convention.
const regFilePtr = x86.REG_R10

// BuildAdd emits "X[rd] = X[rs1] + X[rs2]" directly against the guest
// register file, the JIT-eligible ADD op from ops.Table.
func (b *AMD64Backend) BuildAdd(rd, rs1, rs2 uint8) ([]byte, error) {
	builder, err := asm.NewBuilder("amd64", 8)
	if err != nil {
		return nil, err
	}
	b.loadGuestReg(builder, x86.REG_AX, rs1)
	b.loadGuestReg(builder, x86.REG_BX, rs2)

	prog := builder.NewProg()
	prog.As = x86.AADDL
	prog.To.Type = obj.TYPE_REG
	prog.To.Reg = x86.REG_AX
	prog.From.Type = obj.TYPE_REG
	prog.From.Reg = x86.REG_BX
	builder.AddInstruction(prog)

	b.storeGuestReg(builder, rd, x86.REG_AX)
	b.ret(builder)
	return builder.Assemble(), nil
}

// BuildAddi emits "X[rd] = X[rs1] + imm", the JIT-eligible ADDI op.
func (b *AMD64Backend) BuildAddi(rd, rs1 uint8, imm int32) ([]byte, error) {
	builder, err := asm.NewBuilder("amd64", 8)
	if err != nil {
		return nil, err
	}
	b.loadGuestReg(builder, x86.REG_AX, rs1)

	prog := builder.NewProg()
	prog.As = x86.AADDL
	prog.To.Type = obj.TYPE_REG
	prog.To.Reg = x86.REG_AX
	prog.From.Type = obj.TYPE_CONST
	prog.From.Offset = int64(imm)
	builder.AddInstruction(prog)

	b.storeGuestReg(builder, rd, x86.REG_AX)
	b.ret(builder)
	return builder.Assemble(), nil
}

// BuildLui emits "X[rd] = imm", the JIT-eligible LUI op (the decoder
// already shifted the immediate into place, per isa.Inst.Imm).
func (b *AMD64Backend) BuildLui(rd uint8, imm int32) ([]byte, error) {
	builder, err := asm.NewBuilder("amd64", 4)
	if err != nil {
		return nil, err
	}
	prog := builder.NewProg()
	prog.As = x86.AMOVL
	prog.To.Type = obj.TYPE_REG
	prog.To.Reg = x86.REG_AX
	prog.From.Type = obj.TYPE_CONST
	prog.From.Offset = int64(imm)
	builder.AddInstruction(prog)

	b.storeGuestReg(builder, rd, x86.REG_AX)
	b.ret(builder)
	return builder.Assemble(), nil
}

// loadGuestReg emits "reg = regFile[idx]": movl reg, [regFilePtr+idx*4].
// x0 is never actually read at runtime (the interpreter already
// special-cases it), so the backend doesn't bother special-casing it
// either; the loaded zero is harmless.
func (b *AMD64Backend) loadGuestReg(builder *asm.Builder, reg int16, idx uint8) {
	prog := builder.NewProg()
	prog.As = x86.AMOVL
	prog.To.Type = obj.TYPE_REG
	prog.To.Reg = reg
	prog.From.Type = obj.TYPE_MEM
	prog.From.Reg = regFilePtr
	prog.From.Offset = int64(idx) * 4
	builder.AddInstruction(prog)
}

// storeGuestReg emits "regFile[idx] = reg", skipping the store entirely
// when idx == 0 since X0 is hardwired to zero (spec §4.6).
func (b *AMD64Backend) storeGuestReg(builder *asm.Builder, idx uint8, reg int16) {
	if idx == 0 {
		return
	}
	prog := builder.NewProg()
	prog.As = x86.AMOVL
	prog.From.Type = obj.TYPE_REG
	prog.From.Reg = reg
	prog.To.Type = obj.TYPE_MEM
	prog.To.Reg = regFilePtr
	prog.To.Offset = int64(idx) * 4
	builder.AddInstruction(prog)
}

func (b *AMD64Backend) ret(builder *asm.Builder) {
	prog := builder.NewProg()
	prog.As = obj.ARET
	builder.AddInstruction(prog)
}
