// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ops

import (
	"math"
	"testing"

	"github.com/rv32/rv32engine/isa"
)

func TestFaddSAddsFloats(t *testing.T) {
	ctx, h := newCtx(64)
	h.SetFReg(1, bits32(2.5))
	h.SetFReg(2, bits32(1.5))
	hFaddS(ctx, &isa.Inst{Rd: 3, Rs1: 1, Rs2: 2, PC: 0, Len: 4})
	if got := f32(h.FReg(3)); got != 4.0 {
		t.Fatalf("got %v, want 4.0", got)
	}
}

func TestFsubAndFmulS(t *testing.T) {
	ctx, h := newCtx(64)
	h.SetFReg(1, bits32(5.0))
	h.SetFReg(2, bits32(2.0))
	hFsubS(ctx, &isa.Inst{Rd: 3, Rs1: 1, Rs2: 2, PC: 0, Len: 4})
	if got := f32(h.FReg(3)); got != 3.0 {
		t.Fatalf("sub: got %v, want 3.0", got)
	}
	hFmulS(ctx, &isa.Inst{Rd: 4, Rs1: 1, Rs2: 2, PC: 0, Len: 4})
	if got := f32(h.FReg(4)); got != 10.0 {
		t.Fatalf("mul: got %v, want 10.0", got)
	}
}

func TestFdivSByZeroIsInfinity(t *testing.T) {
	ctx, h := newCtx(64)
	h.SetFReg(1, bits32(1.0))
	h.SetFReg(2, bits32(0.0))
	hFdivS(ctx, &isa.Inst{Rd: 3, Rs1: 1, Rs2: 2, PC: 0, Len: 4})
	if got := f32(h.FReg(3)); !math.IsInf(float64(got), 1) {
		t.Fatalf("got %v, want +Inf", got)
	}
}

func TestFsqrtSOfFour(t *testing.T) {
	ctx, h := newCtx(64)
	h.SetFReg(1, bits32(4.0))
	hFsqrtS(ctx, &isa.Inst{Rd: 2, Rs1: 1, PC: 0, Len: 4})
	if got := f32(h.FReg(2)); got != 2.0 {
		t.Fatalf("got %v, want 2.0", got)
	}
}

func TestFmaddSComputesABPlusC(t *testing.T) {
	ctx, h := newCtx(64)
	h.SetFReg(1, bits32(2.0))
	h.SetFReg(2, bits32(3.0))
	h.SetFReg(3, bits32(1.0))
	hFmaddS(ctx, &isa.Inst{Rd: 4, Rs1: 1, Rs2: 2, Rs3: 3, PC: 0, Len: 4})
	if got := f32(h.FReg(4)); got != 7.0 {
		t.Fatalf("got %v, want 7.0", got)
	}
}

func TestFsgnjVariants(t *testing.T) {
	ctx, h := newCtx(64)
	h.SetFReg(1, bits32(3.0))
	h.SetFReg(2, bits32(-1.0))

	hFsgnjS(ctx, &isa.Inst{Rd: 3, Rs1: 1, Rs2: 2, PC: 0, Len: 4})
	if got := f32(h.FReg(3)); got != -3.0 {
		t.Fatalf("fsgnj: got %v, want -3.0", got)
	}

	hFsgnjnS(ctx, &isa.Inst{Rd: 4, Rs1: 1, Rs2: 2, PC: 0, Len: 4})
	if got := f32(h.FReg(4)); got != 3.0 {
		t.Fatalf("fsgnjn: got %v, want 3.0", got)
	}

	hFsgnjxS(ctx, &isa.Inst{Rd: 5, Rs1: 1, Rs2: 2, PC: 0, Len: 4})
	if got := f32(h.FReg(5)); got != -3.0 {
		t.Fatalf("fsgnjx: got %v, want -3.0", got)
	}
}

func TestFeqFltFleS(t *testing.T) {
	ctx, h := newCtx(64)
	h.SetFReg(1, bits32(1.0))
	h.SetFReg(2, bits32(2.0))

	hFeqS(ctx, &isa.Inst{Rd: 3, Rs1: 1, Rs2: 1, PC: 0, Len: 4})
	if h.Reg(3) != 1 {
		t.Fatal("expected feq(x,x) to be true")
	}
	hFltS(ctx, &isa.Inst{Rd: 4, Rs1: 1, Rs2: 2, PC: 0, Len: 4})
	if h.Reg(4) != 1 {
		t.Fatal("expected flt(1,2) to be true")
	}
	hFleS(ctx, &isa.Inst{Rd: 5, Rs1: 2, Rs2: 2, PC: 0, Len: 4})
	if h.Reg(5) != 1 {
		t.Fatal("expected fle(2,2) to be true")
	}
}

func TestFcvtWSRoundTripsThroughInt(t *testing.T) {
	ctx, h := newCtx(64)
	h.SetFReg(1, bits32(-7.0))
	hFcvtWS(ctx, &isa.Inst{Rd: 2, Rs1: 1, PC: 0, Len: 4})
	if got := int32(h.Reg(2)); got != -7 {
		t.Fatalf("got %d, want -7", got)
	}
}

func TestFcvtSWConvertsIntToFloat(t *testing.T) {
	ctx, h := newCtx(64)
	h.SetReg(1, 0xfffffff7) // -9
	hFcvtSW(ctx, &isa.Inst{Rd: 2, Rs1: 1, PC: 0, Len: 4})
	if got := f32(h.FReg(2)); got != -9.0 {
		t.Fatalf("got %v, want -9.0", got)
	}
}

func TestFmvXWAndFmvWXRoundTripBits(t *testing.T) {
	ctx, h := newCtx(64)
	h.SetFReg(1, 0x12345678)
	hFmvXW(ctx, &isa.Inst{Rd: 2, Rs1: 1, PC: 0, Len: 4})
	if h.Reg(2) != 0x12345678 {
		t.Fatalf("fmv.x.w: got %#x, want 0x12345678", h.Reg(2))
	}

	h.SetReg(3, 0x89abcdef)
	hFmvWX(ctx, &isa.Inst{Rd: 4, Rs1: 3, PC: 0, Len: 4})
	if h.FReg(4) != 0x89abcdef {
		t.Fatalf("fmv.w.x: got %#x, want 0x89abcdef", h.FReg(4))
	}
}

func TestFlwFswRoundTripAndMisalignment(t *testing.T) {
	ctx, h := newCtx(64)
	h.SetFReg(1, bits32(42.0))
	h.SetReg(2, 0)
	hFsw(ctx, &isa.Inst{Rs1: 2, Rs2: 1, Imm: 0, PC: 0, Len: 4})

	h.SetReg(3, 0)
	hFlw(ctx, &isa.Inst{Rd: 4, Rs1: 3, Imm: 0, PC: 4, Len: 4})
	if got := f32(h.FReg(4)); got != 42.0 {
		t.Fatalf("got %v, want 42.0", got)
	}

	h.SetReg(5, 1) // misaligned
	_, outcome := hFlw(ctx, &isa.Inst{Rd: 6, Rs1: 5, Imm: 0, PC: 8, Len: 4})
	if outcome != isa.Trapped {
		t.Fatalf("got outcome %v, want Trapped", outcome)
	}
}

func TestFclassSIdentifiesNormalPositive(t *testing.T) {
	ctx, h := newCtx(64)
	h.SetFReg(1, bits32(1.0))
	hFclassS(ctx, &isa.Inst{Rd: 2, Rs1: 1, PC: 0, Len: 4})
	const classPosNormal = 1 << 6
	if h.Reg(2)&classPosNormal == 0 {
		t.Fatalf("got class bits %#x, want bit 6 (positive normal) set", h.Reg(2))
	}
}
