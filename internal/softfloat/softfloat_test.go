// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package softfloat

import (
	"math"
	"testing"
)

func TestArithmetic(t *testing.T) {
	if r, _ := Add(1.5, 2.5); r != 4 {
		t.Fatalf("Add: got %v, want 4", r)
	}
	if r, _ := Sub(5, 2); r != 3 {
		t.Fatalf("Sub: got %v, want 3", r)
	}
	if r, _ := Mul(3, 4); r != 12 {
		t.Fatalf("Mul: got %v, want 12", r)
	}
	if r, _ := Div(10, 2); r != 5 {
		t.Fatalf("Div: got %v, want 5", r)
	}
}

func TestDivByZeroRaisesDZ(t *testing.T) {
	r, flags := Div(1, 0)
	if !math.IsInf(float64(r), 1) {
		t.Fatalf("got %v, want +Inf", r)
	}
	if flags&FlagDZ == 0 {
		t.Fatal("expected FlagDZ to be raised")
	}
}

func TestSqrtOfNegativeIsInvalid(t *testing.T) {
	r, flags := Sqrt(-4)
	if !math.IsNaN(float64(r)) {
		t.Fatalf("got %v, want NaN", r)
	}
	if flags&FlagNV == 0 {
		t.Fatal("expected FlagNV to be raised")
	}
}

func TestFMANoIntermediateRounding(t *testing.T) {
	r, _ := FMA(2, 3, 1)
	if r != 7 {
		t.Fatalf("got %v, want 7", r)
	}
}

func TestEqLtLeWithNaN(t *testing.T) {
	nan := float32(math.NaN())
	if eq, _ := Eq(nan, 1); eq {
		t.Fatal("NaN should never equal anything")
	}
	if _, flags := Lt(nan, 1); flags&FlagNV == 0 {
		t.Fatal("FLT.S with a NaN operand should raise NV")
	}
	if _, flags := Le(nan, 1); flags&FlagNV == 0 {
		t.Fatal("FLE.S with a NaN operand should raise NV")
	}
}

func TestMinNumMaxNumTreatSignedZero(t *testing.T) {
	posZero := float32(0)
	negZero := float32(math.Float32frombits(0x80000000))

	if r, _ := MinNum(posZero, negZero); !signBit(r) {
		t.Fatalf("MinNum(+0,-0) = %v, want -0", r)
	}
	if r, _ := MaxNum(posZero, negZero); signBit(r) {
		t.Fatalf("MaxNum(+0,-0) = %v, want +0", r)
	}
}

func TestMinNumMaxNumPropagateNonNaN(t *testing.T) {
	nan := float32(math.NaN())
	if r, _ := MinNum(nan, 3); r != 3 {
		t.Fatalf("MinNum(NaN,3) = %v, want 3", r)
	}
	if r, _ := MaxNum(3, nan); r != 3 {
		t.Fatalf("MaxNum(3,NaN) = %v, want 3", r)
	}
}

func TestClassify(t *testing.T) {
	cases := []struct {
		name string
		v    float32
		want uint32
	}{
		{"+0", 0, ClassPosZero},
		{"-0", math.Float32frombits(0x80000000), ClassNegZero},
		{"+inf", float32(math.Inf(1)), ClassPosInf},
		{"-inf", float32(math.Inf(-1)), ClassNegInf},
		{"+normal", 1.5, ClassPosNormal},
		{"-normal", -1.5, ClassNegNormal},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := Classify(c.v); got != c.want {
				t.Fatalf("Classify(%v) = %#x, want %#x", c.v, got, c.want)
			}
		})
	}
}

func TestToInt32Saturates(t *testing.T) {
	if v, flags := ToInt32(float32(math.Inf(1))); v != math.MaxInt32 || flags&FlagNV == 0 {
		t.Fatalf("got (%d, %#x), want (%d, NV)", v, flags, math.MaxInt32)
	}
	if v, flags := ToInt32(float32(math.Inf(-1))); v != math.MinInt32 || flags&FlagNV == 0 {
		t.Fatalf("got (%d, %#x), want (%d, NV)", v, flags, math.MinInt32)
	}
	if v, _ := ToInt32(3.7); v != 4 {
		t.Fatalf("got %d, want 4 (round to nearest)", v)
	}
}

func TestToUint32RejectsNegative(t *testing.T) {
	v, flags := ToUint32(-1)
	if v != 0 || flags&FlagNV == 0 {
		t.Fatalf("got (%d, %#x), want (0, NV)", v, flags)
	}
}

func TestFromIntRoundTrip(t *testing.T) {
	if FromInt32(-5) != -5 {
		t.Fatal("FromInt32(-5) != -5")
	}
	if FromUint32(5) != 5 {
		t.Fatal("FromUint32(5) != 5")
	}
}
