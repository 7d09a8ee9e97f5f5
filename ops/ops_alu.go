// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ops

import "github.com/rv32/rv32engine/isa"

func init() {
	reg(isa.Nop, hNop, true)
	reg(isa.Lui, hLui, true)
	reg(isa.Auipc, hAuipc, true)
	reg(isa.Addi, hAddi, true)
	reg(isa.Slti, hSlti, false)
	reg(isa.Sltiu, hSltiu, false)
	reg(isa.Xori, hXori, false)
	reg(isa.Ori, hOri, false)
	reg(isa.Andi, hAndi, false)
	reg(isa.Slli, hSlli, false)
	reg(isa.Srli, hSrli, false)
	reg(isa.Srai, hSrai, false)
	reg(isa.Add, hAdd, true)
	reg(isa.Sub, hSub, false)
	reg(isa.Sll, hSll, false)
	reg(isa.Slt, hSlt, false)
	reg(isa.Sltu, hSltu, false)
	reg(isa.Xor, hXor, false)
	reg(isa.Srl, hSrl, false)
	reg(isa.Sra, hSra, false)
	reg(isa.Or, hOr, false)
	reg(isa.And, hAnd, false)
	reg(isa.Fence, hNop, false)
}

func hNop(ctx *isa.Ctx, in *isa.Inst) (*isa.Inst, isa.Outcome) {
	return fallthroughNext(ctx, in)
}

func hLui(ctx *isa.Ctx, in *isa.Inst) (*isa.Inst, isa.Outcome) {
	ctx.Hart.SetReg(int(in.Rd), uint32(in.Imm))
	return fallthroughNext(ctx, in)
}

func hAuipc(ctx *isa.Ctx, in *isa.Inst) (*isa.Inst, isa.Outcome) {
	ctx.Hart.SetReg(int(in.Rd), in.PC+uint32(in.Imm))
	return fallthroughNext(ctx, in)
}

func hAddi(ctx *isa.Ctx, in *isa.Inst) (*isa.Inst, isa.Outcome) {
	v := ctx.Hart.Reg(int(in.Rs1)) + uint32(in.Imm)
	ctx.Hart.SetReg(int(in.Rd), v)
	return fallthroughNext(ctx, in)
}

func hSlti(ctx *isa.Ctx, in *isa.Inst) (*isa.Inst, isa.Outcome) {
	v := uint32(0)
	if int32(ctx.Hart.Reg(int(in.Rs1))) < in.Imm {
		v = 1
	}
	ctx.Hart.SetReg(int(in.Rd), v)
	return fallthroughNext(ctx, in)
}

func hSltiu(ctx *isa.Ctx, in *isa.Inst) (*isa.Inst, isa.Outcome) {
	v := uint32(0)
	if ctx.Hart.Reg(int(in.Rs1)) < uint32(in.Imm) {
		v = 1
	}
	ctx.Hart.SetReg(int(in.Rd), v)
	return fallthroughNext(ctx, in)
}

func hXori(ctx *isa.Ctx, in *isa.Inst) (*isa.Inst, isa.Outcome) {
	ctx.Hart.SetReg(int(in.Rd), ctx.Hart.Reg(int(in.Rs1))^uint32(in.Imm))
	return fallthroughNext(ctx, in)
}

func hOri(ctx *isa.Ctx, in *isa.Inst) (*isa.Inst, isa.Outcome) {
	ctx.Hart.SetReg(int(in.Rd), ctx.Hart.Reg(int(in.Rs1))|uint32(in.Imm))
	return fallthroughNext(ctx, in)
}

func hAndi(ctx *isa.Ctx, in *isa.Inst) (*isa.Inst, isa.Outcome) {
	ctx.Hart.SetReg(int(in.Rd), ctx.Hart.Reg(int(in.Rs1))&uint32(in.Imm))
	return fallthroughNext(ctx, in)
}

func hSlli(ctx *isa.Ctx, in *isa.Inst) (*isa.Inst, isa.Outcome) {
	ctx.Hart.SetReg(int(in.Rd), ctx.Hart.Reg(int(in.Rs1))<<(in.Shamt&0x1f))
	return fallthroughNext(ctx, in)
}

func hSrli(ctx *isa.Ctx, in *isa.Inst) (*isa.Inst, isa.Outcome) {
	ctx.Hart.SetReg(int(in.Rd), ctx.Hart.Reg(int(in.Rs1))>>(in.Shamt&0x1f))
	return fallthroughNext(ctx, in)
}

func hSrai(ctx *isa.Ctx, in *isa.Inst) (*isa.Inst, isa.Outcome) {
	v := int32(ctx.Hart.Reg(int(in.Rs1))) >> (in.Shamt & 0x1f)
	ctx.Hart.SetReg(int(in.Rd), uint32(v))
	return fallthroughNext(ctx, in)
}

func hAdd(ctx *isa.Ctx, in *isa.Inst) (*isa.Inst, isa.Outcome) {
	ctx.Hart.SetReg(int(in.Rd), ctx.Hart.Reg(int(in.Rs1))+ctx.Hart.Reg(int(in.Rs2)))
	return fallthroughNext(ctx, in)
}

func hSub(ctx *isa.Ctx, in *isa.Inst) (*isa.Inst, isa.Outcome) {
	ctx.Hart.SetReg(int(in.Rd), ctx.Hart.Reg(int(in.Rs1))-ctx.Hart.Reg(int(in.Rs2)))
	return fallthroughNext(ctx, in)
}

func hSll(ctx *isa.Ctx, in *isa.Inst) (*isa.Inst, isa.Outcome) {
	shamt := ctx.Hart.Reg(int(in.Rs2)) & 0x1f
	ctx.Hart.SetReg(int(in.Rd), ctx.Hart.Reg(int(in.Rs1))<<shamt)
	return fallthroughNext(ctx, in)
}

func hSlt(ctx *isa.Ctx, in *isa.Inst) (*isa.Inst, isa.Outcome) {
	v := uint32(0)
	if int32(ctx.Hart.Reg(int(in.Rs1))) < int32(ctx.Hart.Reg(int(in.Rs2))) {
		v = 1
	}
	ctx.Hart.SetReg(int(in.Rd), v)
	return fallthroughNext(ctx, in)
}

func hSltu(ctx *isa.Ctx, in *isa.Inst) (*isa.Inst, isa.Outcome) {
	v := uint32(0)
	if ctx.Hart.Reg(int(in.Rs1)) < ctx.Hart.Reg(int(in.Rs2)) {
		v = 1
	}
	ctx.Hart.SetReg(int(in.Rd), v)
	return fallthroughNext(ctx, in)
}

func hXor(ctx *isa.Ctx, in *isa.Inst) (*isa.Inst, isa.Outcome) {
	ctx.Hart.SetReg(int(in.Rd), ctx.Hart.Reg(int(in.Rs1))^ctx.Hart.Reg(int(in.Rs2)))
	return fallthroughNext(ctx, in)
}

func hSrl(ctx *isa.Ctx, in *isa.Inst) (*isa.Inst, isa.Outcome) {
	shamt := ctx.Hart.Reg(int(in.Rs2)) & 0x1f
	ctx.Hart.SetReg(int(in.Rd), ctx.Hart.Reg(int(in.Rs1))>>shamt)
	return fallthroughNext(ctx, in)
}

func hSra(ctx *isa.Ctx, in *isa.Inst) (*isa.Inst, isa.Outcome) {
	shamt := ctx.Hart.Reg(int(in.Rs2)) & 0x1f
	v := int32(ctx.Hart.Reg(int(in.Rs1))) >> shamt
	ctx.Hart.SetReg(int(in.Rd), uint32(v))
	return fallthroughNext(ctx, in)
}

func hOr(ctx *isa.Ctx, in *isa.Inst) (*isa.Inst, isa.Outcome) {
	ctx.Hart.SetReg(int(in.Rd), ctx.Hart.Reg(int(in.Rs1))|ctx.Hart.Reg(int(in.Rs2)))
	return fallthroughNext(ctx, in)
}

func hAnd(ctx *isa.Ctx, in *isa.Inst) (*isa.Inst, isa.Outcome) {
	ctx.Hart.SetReg(int(in.Rd), ctx.Hart.Reg(int(in.Rs1))&ctx.Hart.Reg(int(in.Rs2)))
	return fallthroughNext(ctx, in)
}
