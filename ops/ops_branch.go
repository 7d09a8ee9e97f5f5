// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ops

import (
	"github.com/rv32/rv32engine/isa"
	"github.com/rv32/rv32engine/trap"
)

func init() {
	reg(isa.Beq, hBeq, false)
	reg(isa.Bne, hBne, false)
	reg(isa.Blt, hBlt, false)
	reg(isa.Bge, hBge, false)
	reg(isa.Bltu, hBltu, false)
	reg(isa.Bgeu, hBgeu, false)
	reg(isa.Jal, hJal, true)
	reg(isa.Jalr, hJalr, false)
}

// alignMask returns the mandatory alignment for a branch/jump target: 2
// bytes when compressed instructions are enabled, 4 otherwise (spec §4.6
// "Misalignment policy for branches/jumps").
func alignMask(compressed bool) uint32 {
	if compressed {
		return 1
	}
	return 3
}

func branch(ctx *isa.Ctx, in *isa.Inst, taken bool) (*isa.Inst, isa.Outcome) {
	var target uint32
	if taken {
		target = in.PC + uint32(in.Imm)
	} else {
		target = in.PC + uint32(in.Len)
	}
	if taken && target&alignMask(ctx.Hart.Compressed) != 0 {
		trap.Raise(ctx.Hart, trap.CauseInstrAddrMisaligned, target, ctx.Vec)
		return nil, isa.Trapped
	}
	if taken {
		return linkedOrYield(ctx, target, in.BranchTaken)
	}
	return linkedOrYield(ctx, target, in.BranchUntaken)
}

func hBeq(ctx *isa.Ctx, in *isa.Inst) (*isa.Inst, isa.Outcome) {
	return branch(ctx, in, ctx.Hart.Reg(int(in.Rs1)) == ctx.Hart.Reg(int(in.Rs2)))
}

func hBne(ctx *isa.Ctx, in *isa.Inst) (*isa.Inst, isa.Outcome) {
	return branch(ctx, in, ctx.Hart.Reg(int(in.Rs1)) != ctx.Hart.Reg(int(in.Rs2)))
}

func hBlt(ctx *isa.Ctx, in *isa.Inst) (*isa.Inst, isa.Outcome) {
	return branch(ctx, in, int32(ctx.Hart.Reg(int(in.Rs1))) < int32(ctx.Hart.Reg(int(in.Rs2))))
}

func hBge(ctx *isa.Ctx, in *isa.Inst) (*isa.Inst, isa.Outcome) {
	return branch(ctx, in, int32(ctx.Hart.Reg(int(in.Rs1))) >= int32(ctx.Hart.Reg(int(in.Rs2))))
}

func hBltu(ctx *isa.Ctx, in *isa.Inst) (*isa.Inst, isa.Outcome) {
	return branch(ctx, in, ctx.Hart.Reg(int(in.Rs1)) < ctx.Hart.Reg(int(in.Rs2)))
}

func hBgeu(ctx *isa.Ctx, in *isa.Inst) (*isa.Inst, isa.Outcome) {
	return branch(ctx, in, ctx.Hart.Reg(int(in.Rs1)) >= ctx.Hart.Reg(int(in.Rs2)))
}

func hJal(ctx *isa.Ctx, in *isa.Inst) (*isa.Inst, isa.Outcome) {
	target := in.PC + uint32(in.Imm)
	if target&alignMask(ctx.Hart.Compressed) != 0 {
		trap.Raise(ctx.Hart, trap.CauseInstrAddrMisaligned, target, ctx.Vec)
		return nil, isa.Trapped
	}
	if in.Rd != 0 {
		ctx.Hart.SetReg(int(in.Rd), in.PC+uint32(in.Len))
	}
	return linkedOrYield(ctx, target, in.BranchTaken)
}

func hJalr(ctx *isa.Ctx, in *isa.Inst) (*isa.Inst, isa.Outcome) {
	target := (ctx.Hart.Reg(int(in.Rs1)) + uint32(in.Imm)) &^ 1
	if target&alignMask(ctx.Hart.Compressed) != 0 {
		trap.Raise(ctx.Hart, trap.CauseInstrAddrMisaligned, target, ctx.Vec)
		return nil, isa.Trapped
	}
	if in.Rd != 0 {
		ctx.Hart.SetReg(int(in.Rd), in.PC+uint32(in.Len))
	}
	ctx.Hart.SetPC(target)
	// Indirect jump target is resolved by the dispatcher through the BHT
	// attached to this op (in.BranchTable), never statically linked.
	return nil, isa.Yield
}
