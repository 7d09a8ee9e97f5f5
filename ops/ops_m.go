// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ops

import "github.com/rv32/rv32engine/isa"

func init() {
	reg(isa.Mul, hMul, false)
	reg(isa.Mulh, hMulh, false)
	reg(isa.Mulhsu, hMulhsu, false)
	reg(isa.Mulhu, hMulhu, false)
	reg(isa.Div, hDiv, false)
	reg(isa.Divu, hDivu, false)
	reg(isa.Rem, hRem, false)
	reg(isa.Remu, hRemu, false)
}

func hMul(ctx *isa.Ctx, in *isa.Inst) (*isa.Inst, isa.Outcome) {
	a := ctx.Hart.Reg(int(in.Rs1))
	b := ctx.Hart.Reg(int(in.Rs2))
	ctx.Hart.SetReg(int(in.Rd), a*b)
	return fallthroughNext(ctx, in)
}

func hMulh(ctx *isa.Ctx, in *isa.Inst) (*isa.Inst, isa.Outcome) {
	a := int64(int32(ctx.Hart.Reg(int(in.Rs1))))
	b := int64(int32(ctx.Hart.Reg(int(in.Rs2))))
	ctx.Hart.SetReg(int(in.Rd), uint32((a*b)>>32))
	return fallthroughNext(ctx, in)
}

func hMulhsu(ctx *isa.Ctx, in *isa.Inst) (*isa.Inst, isa.Outcome) {
	a := int64(int32(ctx.Hart.Reg(int(in.Rs1))))
	b := int64(ctx.Hart.Reg(int(in.Rs2)))
	ctx.Hart.SetReg(int(in.Rd), uint32((a*b)>>32))
	return fallthroughNext(ctx, in)
}

func hMulhu(ctx *isa.Ctx, in *isa.Inst) (*isa.Inst, isa.Outcome) {
	a := uint64(ctx.Hart.Reg(int(in.Rs1)))
	b := uint64(ctx.Hart.Reg(int(in.Rs2)))
	ctx.Hart.SetReg(int(in.Rd), uint32((a*b)>>32))
	return fallthroughNext(ctx, in)
}

// hDiv implements DIV per spec §4.6: division by zero yields all-ones
// (-1) rather than trapping, and the INT_MIN / -1 overflow case yields
// INT_MIN rather than trapping.
func hDiv(ctx *isa.Ctx, in *isa.Inst) (*isa.Inst, isa.Outcome) {
	a := int32(ctx.Hart.Reg(int(in.Rs1)))
	b := int32(ctx.Hart.Reg(int(in.Rs2)))
	var v int32
	switch {
	case b == 0:
		v = -1
	case a == int32(-1<<31) && b == -1:
		v = a
	default:
		v = a / b
	}
	ctx.Hart.SetReg(int(in.Rd), uint32(v))
	return fallthroughNext(ctx, in)
}

func hDivu(ctx *isa.Ctx, in *isa.Inst) (*isa.Inst, isa.Outcome) {
	a := ctx.Hart.Reg(int(in.Rs1))
	b := ctx.Hart.Reg(int(in.Rs2))
	var v uint32
	if b == 0 {
		v = 0xffffffff
	} else {
		v = a / b
	}
	ctx.Hart.SetReg(int(in.Rd), v)
	return fallthroughNext(ctx, in)
}

// hRem implements REM per spec §4.6: division by zero yields the dividend
// unchanged, and the INT_MIN / -1 overflow case yields 0.
func hRem(ctx *isa.Ctx, in *isa.Inst) (*isa.Inst, isa.Outcome) {
	a := int32(ctx.Hart.Reg(int(in.Rs1)))
	b := int32(ctx.Hart.Reg(int(in.Rs2)))
	var v int32
	switch {
	case b == 0:
		v = a
	case a == int32(-1<<31) && b == -1:
		v = 0
	default:
		v = a % b
	}
	ctx.Hart.SetReg(int(in.Rd), uint32(v))
	return fallthroughNext(ctx, in)
}

func hRemu(ctx *isa.Ctx, in *isa.Inst) (*isa.Inst, isa.Outcome) {
	a := ctx.Hart.Reg(int(in.Rs1))
	b := ctx.Hart.Reg(int(in.Rs2))
	var v uint32
	if b == 0 {
		v = a
	} else {
		v = a % b
	}
	ctx.Hart.SetReg(int(in.Rd), v)
	return fallthroughNext(ctx, in)
}
