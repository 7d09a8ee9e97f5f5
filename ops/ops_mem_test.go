// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ops

import (
	"testing"

	"github.com/rv32/rv32engine/hart"
	"github.com/rv32/rv32engine/isa"
)

func TestStoreThenLoadWordRoundTrip(t *testing.T) {
	ctx, h := newCtx(64)
	h.SetReg(1, 0) // base address
	h.SetReg(2, 0x12345678)

	sw := &isa.Inst{Rs1: 1, Rs2: 2, Imm: 0, PC: 0, Len: 4}
	if _, outcome := hSw(ctx, sw); outcome == isa.IOFault {
		t.Fatalf("store faulted: %v", ctx.IOErr)
	}

	lw := &isa.Inst{Rd: 3, Rs1: 1, Imm: 0, PC: 4, Len: 4}
	hLw(ctx, lw)
	if got := h.Reg(3); got != 0x12345678 {
		t.Fatalf("got %#x, want 0x12345678", got)
	}
}

func TestLoadByteSignExtends(t *testing.T) {
	ctx, h := newCtx(64)
	h.SetReg(1, 0)
	h.SetReg(2, 0xff) // -1 as a byte
	hSb(ctx, &isa.Inst{Rs1: 1, Rs2: 2, Imm: 0, PC: 0, Len: 4})

	lb := &isa.Inst{Rd: 3, Rs1: 1, Imm: 0, PC: 4, Len: 4}
	hLb(ctx, lb)
	if got := int32(h.Reg(3)); got != -1 {
		t.Fatalf("got %d, want -1", got)
	}

	lbu := &isa.Inst{Rd: 4, Rs1: 1, Imm: 0, PC: 8, Len: 4}
	hLbu(ctx, lbu)
	if got := h.Reg(4); got != 0xff {
		t.Fatalf("got %#x, want 0xff", got)
	}
}

func TestMisalignedWordLoadTraps(t *testing.T) {
	ctx, h := newCtx(64)
	h.SetReg(1, 1) // unaligned

	lw := &isa.Inst{Rd: 2, Rs1: 1, Imm: 0, PC: 0x40, Len: 4}
	_, outcome := hLw(ctx, lw)
	if outcome != isa.Trapped {
		t.Fatalf("got outcome %v, want Trapped", outcome)
	}
	if !h.Halted {
		t.Fatal("expected default trap policy (no vector) to halt the hart")
	}
	if h.CSR(hart.CSRMcause) != 4 { // CauseLoadAddrMisaligned
		t.Fatalf("got mcause %d, want 4", h.CSR(hart.CSRMcause))
	}
	if h.CSR(hart.CSRMtval) != 1 {
		t.Fatalf("got mtval %#x, want 1 (the faulting address)", h.CSR(hart.CSRMtval))
	}
}

func TestMisalignedWordStoreTraps(t *testing.T) {
	ctx, h := newCtx(64)
	h.SetReg(1, 2) // unaligned for a word store
	sw := &isa.Inst{Rs1: 1, Rs2: 0, Imm: 0, PC: 0, Len: 4}
	_, outcome := hSw(ctx, sw)
	if outcome != isa.Trapped {
		t.Fatalf("got outcome %v, want Trapped", outcome)
	}
	if h.CSR(hart.CSRMcause) != 6 { // CauseStoreAddrMisaligned
		t.Fatalf("got mcause %d, want 6", h.CSR(hart.CSRMcause))
	}
}

func TestOutOfBoundsAccessIsIOFault(t *testing.T) {
	ctx, _ := newCtx(4) // tiny image
	lw := &isa.Inst{Rd: 1, Rs1: 0, Imm: 1000, PC: 0, Len: 4}
	_, outcome := hLw(ctx, lw)
	if outcome != isa.IOFault {
		t.Fatalf("got outcome %v, want IOFault", outcome)
	}
	if ctx.IOErr == nil {
		t.Fatal("expected ctx.IOErr to carry the underlying memory error")
	}
}
