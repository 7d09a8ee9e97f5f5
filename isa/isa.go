// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package isa holds the engine's shared data model: decoded operations,
// the immutable blocks they are grouped into, and the handler contract
// that ties decode, block-building and dispatch together.
package isa

import (
	"github.com/rv32/rv32engine/hart"
	"github.com/rv32/rv32engine/ioface"
	"github.com/rv32/rv32engine/trap"
)

// Tag identifies the semantic operation an Inst performs. Compressed
// encodings decode straight to the Tag of the base instruction they are
// equivalent to; Inst.Len distinguishes a 16-bit encoding from a 32-bit one.
type Tag uint16

const (
	Illegal Tag = iota
	Nop

	// RV32I
	Lui
	Auipc
	Jal
	Jalr
	Beq
	Bne
	Blt
	Bge
	Bltu
	Bgeu
	Lb
	Lh
	Lw
	Lbu
	Lhu
	Sb
	Sh
	Sw
	Addi
	Slti
	Sltiu
	Xori
	Ori
	Andi
	Slli
	Srli
	Srai
	Add
	Sub
	Sll
	Slt
	Sltu
	Xor
	Srl
	Sra
	Or
	And
	Fence
	FenceI
	Ecall
	Ebreak

	// Zicsr
	Csrrw
	Csrrs
	Csrrc
	Csrrwi
	Csrrsi
	Csrrci

	// Privileged (decoded, illegal unless trapped by design)
	Uret
	Sret
	Hret
	Mret
	Wfi

	// RV32M
	Mul
	Mulh
	Mulhsu
	Mulhu
	Div
	Divu
	Rem
	Remu

	// RV32A
	LrW
	ScW
	AmoswapW
	AmoaddW
	AmoxorW
	AmoandW
	AmoorW
	AmominW
	AmomaxW
	AmominuW
	AmomaxuW

	// RV32F
	Flw
	Fsw
	FmaddS
	FmsubS
	FnmsubS
	FnmaddS
	FaddS
	FsubS
	FmulS
	FdivS
	FsqrtS
	FsgnjS
	FsgnjnS
	FsgnjxS
	FminS
	FmaxS
	FcvtWS
	FcvtWuS
	FmvXW
	FeqS
	FltS
	FleS
	FclassS
	FcvtSW
	FcvtSWu
	FmvWX
)

// Outcome describes how control should flow after a handler runs. Go gives
// no guaranteed tail-call elimination, so handlers return the next
// instruction to run (a direct-threaded trampoline, per the engine's design
// notes) instead of recursing into it themselves.
type Outcome uint8

const (
	// Continue means `Next` holds the instruction to run immediately
	// following this one, either the next op in the block or the first
	// op of an already-linked successor block.
	Continue Outcome = iota
	// Yield means control returns to the dispatch driver: an unlinked
	// control transfer, an indirect jump awaiting BHT resolution, or an
	// ECALL/EBREAK whose hook has run. No handler yields for a hot
	// successor (the dispatcher checks that itself) or for a time slice.
	// The handler has already set PC.
	Yield
	// Trapped means the Trap Unit already ran and committed mepc/mcause/
	// mtval/PC; control returns to the driver.
	Trapped
	// IOFault means the IO facade signaled a host-side memory fault (out
	// of range access, physical-memory read failure); Ctx.IOErr holds the
	// underlying error. Per spec §7.2 the engine does not synthesize a
	// guest trap for this on its own; it surfaces the error to the driver.
	IOFault
	// Halt means a fatal engine invariant was violated; abort.
	Halt
)

// Ctx bundles the state a handler needs beyond the hart's own registers:
// the host-provided IO facade. It is passed by the dispatcher so handlers
// never need a direct reference to blockmap/blockcache/bht (which would
// create import cycles with this package).
type Ctx struct {
	Hart  *hart.Hart
	Mem   ioface.Memory
	Hooks ioface.Hooks
	// Vec is the trap vector traps are raised against; nil means the
	// engine's default policy applies (halt rather than vector into
	// M-mode code), per spec §4.8 and Config.TrapVector.
	Vec *trap.Vector
	// IOErr holds the error from the most recent IOFault outcome.
	IOErr error
	// InvalidateBlocks is invoked by FENCE.I. The dispatcher wires it to
	// the block cache/map's flush when Config.SelfModifyingCode is set;
	// nil makes FENCE.I a pure no-op.
	InvalidateBlocks func()
}

// Handler is the semantic body of one opcode: read operands, compute the
// RISC-V-defined result, write results, update PC, and report how control
// should continue.
type Handler func(ctx *Ctx, in *Inst) (next *Inst, outcome Outcome)

// Inst is a fully decoded RISC-V operation (32-bit or compressed 16-bit).
// Immediates are already sign-extended to 32 bits and shift amounts already
// masked to 5 bits by the decoder; rs3 is only meaningful for fused
// multiply-add float ops.
type Inst struct {
	Tag  Tag
	PC   uint32
	Rd   uint8
	Rs1  uint8
	Rs2  uint8
	Rs3  uint8
	Imm  int32
	Shamt uint8
	Rm   uint8 // rounding mode field, F extension
	Len  uint8 // 2 or 4

	Handler Handler

	// BranchTaken is the first op of the successor block reached when a
	// conditional branch is taken, or the sole successor for an
	// unconditional direct control transfer. Nil until linked.
	BranchTaken *Inst
	// BranchUntaken is the first op of the fall-through successor for a
	// conditional branch. Nil until linked (and always nil for anything
	// that isn't a conditional branch).
	BranchUntaken *Inst
	// BranchTable is populated only for computed jumps (JALR, C.JR,
	// C.JALR); it is an opaque pointer to a *bht.Table, typed as
	// interface{} here to avoid an isa<->bht import cycle.
	BranchTable interface{}

	// next is the following op within the same block, used by the block
	// builder while the block is still open; Block.Seal freezes it.
	next *Inst
}

// TerminatorClass classifies how a block ends.
type TerminatorClass uint8

const (
	StraightLine TerminatorClass = iota
	DirectBranch
	IndirectBranch
	Syscall
	TrapTerm
)

// IsTerminator reports whether tag ends a block.
func (t Tag) IsTerminator() bool {
	switch t {
	case Beq, Bne, Blt, Bge, Bltu, Bgeu,
		Jal, Jalr,
		Ecall, Ebreak, Uret, Sret, Hret, Mret, Wfi, FenceI,
		Csrrw, Csrrs, Csrrc, Csrrwi, Csrrsi, Csrrci,
		Illegal:
		return true
	default:
		return false
	}
}

// TerminatorClass reports the class of a terminator tag. Callers must only
// invoke this on a tag for which IsTerminator() is true.
func (t Tag) TerminatorClass() TerminatorClass {
	switch t {
	case Beq, Bne, Blt, Bge, Bltu, Bgeu, Jal:
		return DirectBranch
	case Jalr:
		return IndirectBranch
	case Ecall, Ebreak:
		return Syscall
	case Illegal:
		return TrapTerm
	default:
		return StraightLine
	}
}

// Block is a maximal straight-line run of decoded operations ending in
// exactly one control-transfer operation, which is always its last op.
type Block struct {
	EntryPC    uint32
	EndPC      uint32
	IRHead     *Inst
	Ops        []*Inst
	Term       TerminatorClass
	// Block carries no access counter: blockcache keeps hotness in its
	// own per-entry records.
}

// Terminator returns the block's last, control-transfer operation.
func (b *Block) Terminator() *Inst {
	return b.Ops[len(b.Ops)-1]
}

// Seal links each op's `next` pointer to the following op in the block,
// used by the dispatcher for intra-block tail-chaining, and records the
// terminator's class. Seal must be called exactly once, by the builder,
// before the block is published to the block map.
func (b *Block) Seal() {
	for i := 0; i+1 < len(b.Ops); i++ {
		b.Ops[i].next = b.Ops[i+1]
	}
	b.IRHead = b.Ops[0]
	b.Term = b.Terminator().Tag.TerminatorClass()
}

// Next returns the op following in within its block, or nil if in is the
// block's terminator.
func Next(in *Inst) *Inst {
	return in.next
}
