// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ops

import (
	"math"

	"github.com/rv32/rv32engine/hart"
	"github.com/rv32/rv32engine/internal/softfloat"
	"github.com/rv32/rv32engine/isa"
	"github.com/rv32/rv32engine/trap"
)

func init() {
	reg(isa.Flw, hFlw, false)
	reg(isa.Fsw, hFsw, false)
	reg(isa.FmaddS, hFmaddS, false)
	reg(isa.FmsubS, hFmsubS, false)
	reg(isa.FnmsubS, hFnmsubS, false)
	reg(isa.FnmaddS, hFnmaddS, false)
	reg(isa.FaddS, hFaddS, false)
	reg(isa.FsubS, hFsubS, false)
	reg(isa.FmulS, hFmulS, false)
	reg(isa.FdivS, hFdivS, false)
	reg(isa.FsqrtS, hFsqrtS, false)
	reg(isa.FsgnjS, hFsgnjS, false)
	reg(isa.FsgnjnS, hFsgnjnS, false)
	reg(isa.FsgnjxS, hFsgnjxS, false)
	reg(isa.FminS, hFminS, false)
	reg(isa.FmaxS, hFmaxS, false)
	reg(isa.FcvtWS, hFcvtWS, false)
	reg(isa.FcvtWuS, hFcvtWuS, false)
	reg(isa.FmvXW, hFmvXW, false)
	reg(isa.FeqS, hFeqS, false)
	reg(isa.FltS, hFltS, false)
	reg(isa.FleS, hFleS, false)
	reg(isa.FclassS, hFclassS, false)
	reg(isa.FcvtSW, hFcvtSW, false)
	reg(isa.FcvtSWu, hFcvtSWu, false)
	reg(isa.FmvWX, hFmvWX, false)
}

func f32(bits uint32) float32 { return math.Float32frombits(bits) }
func bits32(v float32) uint32 { return math.Float32bits(v) }

// accumFlags ORs newly-raised exception flags into fflags (fcsr[4:0]),
// leaving the rounding-mode field (fcsr[7:5]) untouched.
func accumFlags(ctx *isa.Ctx, flags uint32) {
	if flags == 0 {
		return
	}
	cur := ctx.Hart.CSR(hart.CSRFcsr)
	ctx.Hart.SetCSR(hart.CSRFcsr, cur|(flags&0x1f))
}

func hFlw(ctx *isa.Ctx, in *isa.Inst) (*isa.Inst, isa.Outcome) {
	addr := ctx.Hart.Reg(int(in.Rs1)) + uint32(in.Imm)
	if addr&3 != 0 {
		trap.Raise(ctx.Hart, trap.CauseLoadAddrMisaligned, addr, ctx.Vec)
		return nil, isa.Trapped
	}
	v, err := ctx.Mem.ReadW(addr)
	if err != nil {
		return ioFault(ctx, err)
	}
	ctx.Hart.SetFReg(int(in.Rd), v)
	return fallthroughNext(ctx, in)
}

func hFsw(ctx *isa.Ctx, in *isa.Inst) (*isa.Inst, isa.Outcome) {
	addr := ctx.Hart.Reg(int(in.Rs1)) + uint32(in.Imm)
	if addr&3 != 0 {
		trap.Raise(ctx.Hart, trap.CauseStoreAddrMisaligned, addr, ctx.Vec)
		return nil, isa.Trapped
	}
	if err := ctx.Mem.WriteW(addr, ctx.Hart.FReg(int(in.Rs2))); err != nil {
		return ioFault(ctx, err)
	}
	return fallthroughNext(ctx, in)
}

func fma(ctx *isa.Ctx, in *isa.Inst, negA, negC bool) (*isa.Inst, isa.Outcome) {
	a := f32(ctx.Hart.FReg(int(in.Rs1)))
	b := f32(ctx.Hart.FReg(int(in.Rs2)))
	c := f32(ctx.Hart.FReg(int(in.Rs3)))
	if negA {
		a = -a
	}
	if negC {
		c = -c
	}
	r, flags := softfloat.FMA(a, b, c)
	accumFlags(ctx, flags)
	ctx.Hart.SetFReg(int(in.Rd), bits32(r))
	return fallthroughNext(ctx, in)
}

func hFmaddS(ctx *isa.Ctx, in *isa.Inst) (*isa.Inst, isa.Outcome) { return fma(ctx, in, false, false) }
func hFmsubS(ctx *isa.Ctx, in *isa.Inst) (*isa.Inst, isa.Outcome) { return fma(ctx, in, false, true) }
func hFnmsubS(ctx *isa.Ctx, in *isa.Inst) (*isa.Inst, isa.Outcome) {
	return fma(ctx, in, true, false)
}
func hFnmaddS(ctx *isa.Ctx, in *isa.Inst) (*isa.Inst, isa.Outcome) { return fma(ctx, in, true, true) }

func hFaddS(ctx *isa.Ctx, in *isa.Inst) (*isa.Inst, isa.Outcome) {
	r, flags := softfloat.Add(f32(ctx.Hart.FReg(int(in.Rs1))), f32(ctx.Hart.FReg(int(in.Rs2))))
	accumFlags(ctx, flags)
	ctx.Hart.SetFReg(int(in.Rd), bits32(r))
	return fallthroughNext(ctx, in)
}

func hFsubS(ctx *isa.Ctx, in *isa.Inst) (*isa.Inst, isa.Outcome) {
	r, flags := softfloat.Sub(f32(ctx.Hart.FReg(int(in.Rs1))), f32(ctx.Hart.FReg(int(in.Rs2))))
	accumFlags(ctx, flags)
	ctx.Hart.SetFReg(int(in.Rd), bits32(r))
	return fallthroughNext(ctx, in)
}

func hFmulS(ctx *isa.Ctx, in *isa.Inst) (*isa.Inst, isa.Outcome) {
	r, flags := softfloat.Mul(f32(ctx.Hart.FReg(int(in.Rs1))), f32(ctx.Hart.FReg(int(in.Rs2))))
	accumFlags(ctx, flags)
	ctx.Hart.SetFReg(int(in.Rd), bits32(r))
	return fallthroughNext(ctx, in)
}

func hFdivS(ctx *isa.Ctx, in *isa.Inst) (*isa.Inst, isa.Outcome) {
	r, flags := softfloat.Div(f32(ctx.Hart.FReg(int(in.Rs1))), f32(ctx.Hart.FReg(int(in.Rs2))))
	accumFlags(ctx, flags)
	ctx.Hart.SetFReg(int(in.Rd), bits32(r))
	return fallthroughNext(ctx, in)
}

func hFsqrtS(ctx *isa.Ctx, in *isa.Inst) (*isa.Inst, isa.Outcome) {
	r, flags := softfloat.Sqrt(f32(ctx.Hart.FReg(int(in.Rs1))))
	accumFlags(ctx, flags)
	ctx.Hart.SetFReg(int(in.Rd), bits32(r))
	return fallthroughNext(ctx, in)
}

func hFsgnjS(ctx *isa.Ctx, in *isa.Inst) (*isa.Inst, isa.Outcome) {
	a := ctx.Hart.FReg(int(in.Rs1))
	b := ctx.Hart.FReg(int(in.Rs2))
	ctx.Hart.SetFReg(int(in.Rd), (a&0x7fffffff)|(b&0x80000000))
	return fallthroughNext(ctx, in)
}

func hFsgnjnS(ctx *isa.Ctx, in *isa.Inst) (*isa.Inst, isa.Outcome) {
	a := ctx.Hart.FReg(int(in.Rs1))
	b := ctx.Hart.FReg(int(in.Rs2))
	ctx.Hart.SetFReg(int(in.Rd), (a&0x7fffffff)|(^b&0x80000000))
	return fallthroughNext(ctx, in)
}

func hFsgnjxS(ctx *isa.Ctx, in *isa.Inst) (*isa.Inst, isa.Outcome) {
	a := ctx.Hart.FReg(int(in.Rs1))
	b := ctx.Hart.FReg(int(in.Rs2))
	ctx.Hart.SetFReg(int(in.Rd), a^(b&0x80000000))
	return fallthroughNext(ctx, in)
}

func hFminS(ctx *isa.Ctx, in *isa.Inst) (*isa.Inst, isa.Outcome) {
	r, flags := softfloat.MinNum(f32(ctx.Hart.FReg(int(in.Rs1))), f32(ctx.Hart.FReg(int(in.Rs2))))
	accumFlags(ctx, flags)
	ctx.Hart.SetFReg(int(in.Rd), bits32(r))
	return fallthroughNext(ctx, in)
}

func hFmaxS(ctx *isa.Ctx, in *isa.Inst) (*isa.Inst, isa.Outcome) {
	r, flags := softfloat.MaxNum(f32(ctx.Hart.FReg(int(in.Rs1))), f32(ctx.Hart.FReg(int(in.Rs2))))
	accumFlags(ctx, flags)
	ctx.Hart.SetFReg(int(in.Rd), bits32(r))
	return fallthroughNext(ctx, in)
}

func hFcvtWS(ctx *isa.Ctx, in *isa.Inst) (*isa.Inst, isa.Outcome) {
	v, flags := softfloat.ToInt32(f32(ctx.Hart.FReg(int(in.Rs1))))
	accumFlags(ctx, flags)
	ctx.Hart.SetReg(int(in.Rd), uint32(v))
	return fallthroughNext(ctx, in)
}

func hFcvtWuS(ctx *isa.Ctx, in *isa.Inst) (*isa.Inst, isa.Outcome) {
	v, flags := softfloat.ToUint32(f32(ctx.Hart.FReg(int(in.Rs1))))
	accumFlags(ctx, flags)
	ctx.Hart.SetReg(int(in.Rd), v)
	return fallthroughNext(ctx, in)
}

func hFmvXW(ctx *isa.Ctx, in *isa.Inst) (*isa.Inst, isa.Outcome) {
	ctx.Hart.SetReg(int(in.Rd), ctx.Hart.FReg(int(in.Rs1)))
	return fallthroughNext(ctx, in)
}

func hFeqS(ctx *isa.Ctx, in *isa.Inst) (*isa.Inst, isa.Outcome) {
	eq, flags := softfloat.Eq(f32(ctx.Hart.FReg(int(in.Rs1))), f32(ctx.Hart.FReg(int(in.Rs2))))
	accumFlags(ctx, flags)
	v := uint32(0)
	if eq {
		v = 1
	}
	ctx.Hart.SetReg(int(in.Rd), v)
	return fallthroughNext(ctx, in)
}

func hFltS(ctx *isa.Ctx, in *isa.Inst) (*isa.Inst, isa.Outcome) {
	lt, flags := softfloat.Lt(f32(ctx.Hart.FReg(int(in.Rs1))), f32(ctx.Hart.FReg(int(in.Rs2))))
	accumFlags(ctx, flags)
	v := uint32(0)
	if lt {
		v = 1
	}
	ctx.Hart.SetReg(int(in.Rd), v)
	return fallthroughNext(ctx, in)
}

func hFleS(ctx *isa.Ctx, in *isa.Inst) (*isa.Inst, isa.Outcome) {
	le, flags := softfloat.Le(f32(ctx.Hart.FReg(int(in.Rs1))), f32(ctx.Hart.FReg(int(in.Rs2))))
	accumFlags(ctx, flags)
	v := uint32(0)
	if le {
		v = 1
	}
	ctx.Hart.SetReg(int(in.Rd), v)
	return fallthroughNext(ctx, in)
}

func hFclassS(ctx *isa.Ctx, in *isa.Inst) (*isa.Inst, isa.Outcome) {
	ctx.Hart.SetReg(int(in.Rd), softfloat.Classify(f32(ctx.Hart.FReg(int(in.Rs1)))))
	return fallthroughNext(ctx, in)
}

func hFcvtSW(ctx *isa.Ctx, in *isa.Inst) (*isa.Inst, isa.Outcome) {
	r := softfloat.FromInt32(int32(ctx.Hart.Reg(int(in.Rs1))))
	ctx.Hart.SetFReg(int(in.Rd), bits32(r))
	return fallthroughNext(ctx, in)
}

func hFcvtSWu(ctx *isa.Ctx, in *isa.Inst) (*isa.Inst, isa.Outcome) {
	r := softfloat.FromUint32(ctx.Hart.Reg(int(in.Rs1)))
	ctx.Hart.SetFReg(int(in.Rd), bits32(r))
	return fallthroughNext(ctx, in)
}

func hFmvWX(ctx *isa.Ctx, in *isa.Inst) (*isa.Inst, isa.Outcome) {
	ctx.Hart.SetFReg(int(in.Rd), ctx.Hart.Reg(int(in.Rs1)))
	return fallthroughNext(ctx, in)
}
