// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ops

import (
	"github.com/rv32/rv32engine/isa"
	"github.com/rv32/rv32engine/trap"
)

func init() {
	reg(isa.Ecall, hEcall, false)
	reg(isa.Ebreak, hEbreak, false)
	reg(isa.FenceI, hFenceI, false)
	reg(isa.Csrrw, hCsrrw, false)
	reg(isa.Csrrs, hCsrrs, false)
	reg(isa.Csrrc, hCsrrc, false)
	reg(isa.Csrrwi, hCsrrwi, false)
	reg(isa.Csrrsi, hCsrrsi, false)
	reg(isa.Csrrci, hCsrrci, false)
	reg(isa.Wfi, hPrivNop, false)
	reg(isa.Mret, hPrivNop, false)
	reg(isa.Uret, hPrivIllegal, false)
	reg(isa.Sret, hPrivIllegal, false)
	reg(isa.Hret, hPrivIllegal, false)
	reg(isa.Illegal, illegalHandler, false)
}

func illegalHandler(ctx *isa.Ctx, in *isa.Inst) (*isa.Inst, isa.Outcome) {
	// The decoded op doesn't retain the raw instruction word, so mtval is
	// left at 0 rather than carrying the faulting encoding; see SPEC_FULL.md.
	trap.Raise(ctx.Hart, trap.CauseIllegalInstruction, 0, ctx.Vec)
	return nil, isa.Trapped
}

// hPrivIllegal implements spec §9's directive for URET/SRET/HRET: the
// source never implements them; reimplementers must raise
// illegal-instruction rather than silently succeed.
func hPrivIllegal(ctx *isa.Ctx, in *isa.Inst) (*isa.Inst, isa.Outcome) {
	return illegalHandler(ctx, in)
}

// hPrivNop covers WFI and MRET: WFI may legally be implemented as a no-op
// in the absence of real interrupt timing (spec §1 non-goals); this
// engine treats MRET the same way since it takes no M-mode interrupts to
// return from.
func hPrivNop(ctx *isa.Ctx, in *isa.Inst) (*isa.Inst, isa.Outcome) {
	return linkedOrYield(ctx, in.PC+uint32(in.Len), in.BranchTaken)
}

func hFenceI(ctx *isa.Ctx, in *isa.Inst) (*isa.Inst, isa.Outcome) {
	if ctx.InvalidateBlocks != nil {
		ctx.InvalidateBlocks()
		// The linked successor belongs to the discarded blocks; yield so
		// the driver rebuilds it from memory.
		return linkedOrYield(ctx, in.PC+uint32(in.Len), nil)
	}
	return linkedOrYield(ctx, in.PC+uint32(in.Len), in.BranchTaken)
}

func hEcall(ctx *isa.Ctx, in *isa.Inst) (*isa.Inst, isa.Outcome) {
	ctx.Hart.SetPC(in.PC)
	if ctx.Hooks != nil {
		if err := ctx.Hooks.OnECall(ctx.Hart); err != nil {
			return ioFault(ctx, err)
		}
	}
	return nil, isa.Yield
}

func hEbreak(ctx *isa.Ctx, in *isa.Inst) (*isa.Inst, isa.Outcome) {
	ctx.Hart.SetPC(in.PC)
	if ctx.Hooks != nil {
		if err := ctx.Hooks.OnEBreak(ctx.Hart); err != nil {
			return ioFault(ctx, err)
		}
	}
	return nil, isa.Yield
}

func csrOp(ctx *isa.Ctx, in *isa.Inst, operand uint32, write bool, combine func(old, operand uint32) uint32) (*isa.Inst, isa.Outcome) {
	addr := uint16(in.Imm)
	old := ctx.Hart.CSR(addr)
	if write {
		ctx.Hart.SetCSR(addr, combine(old, operand))
	}
	if in.Rd != 0 {
		ctx.Hart.SetReg(int(in.Rd), old)
	}
	return linkedOrYield(ctx, in.PC+uint32(in.Len), in.BranchTaken)
}

func hCsrrw(ctx *isa.Ctx, in *isa.Inst) (*isa.Inst, isa.Outcome) {
	rs1 := ctx.Hart.Reg(int(in.Rs1))
	return csrOp(ctx, in, rs1, true, func(old, operand uint32) uint32 { return operand })
}

func hCsrrs(ctx *isa.Ctx, in *isa.Inst) (*isa.Inst, isa.Outcome) {
	rs1 := ctx.Hart.Reg(int(in.Rs1))
	return csrOp(ctx, in, rs1, in.Rs1 != 0, func(old, operand uint32) uint32 { return old | operand })
}

func hCsrrc(ctx *isa.Ctx, in *isa.Inst) (*isa.Inst, isa.Outcome) {
	rs1 := ctx.Hart.Reg(int(in.Rs1))
	return csrOp(ctx, in, rs1, in.Rs1 != 0, func(old, operand uint32) uint32 { return old &^ operand })
}

func hCsrrwi(ctx *isa.Ctx, in *isa.Inst) (*isa.Inst, isa.Outcome) {
	uimm := uint32(in.Rs1)
	return csrOp(ctx, in, uimm, true, func(old, operand uint32) uint32 { return operand })
}

func hCsrrsi(ctx *isa.Ctx, in *isa.Inst) (*isa.Inst, isa.Outcome) {
	uimm := uint32(in.Rs1)
	return csrOp(ctx, in, uimm, uimm != 0, func(old, operand uint32) uint32 { return old | operand })
}

func hCsrrci(ctx *isa.Ctx, in *isa.Inst) (*isa.Inst, isa.Outcome) {
	uimm := uint32(in.Rs1)
	return csrOp(ctx, in, uimm, uimm != 0, func(old, operand uint32) uint32 { return old &^ operand })
}
