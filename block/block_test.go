// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package block

import (
	"errors"
	"testing"

	"github.com/rv32/rv32engine/decode"
	"github.com/rv32/rv32engine/isa"
	"github.com/rv32/rv32engine/memimage"
)

func encAddi(rd, rs1 uint32, imm int32) uint32 {
	return (uint32(imm)&0xfff)<<20 | rs1<<15 | rd<<7 | 0x13
}

func encJalr(rd, rs1 uint32, imm int32) uint32 {
	return (uint32(imm)&0xfff)<<20 | rs1<<15 | rd<<7 | 0x67
}

func putW(img *memimage.Image, addr uint32, w uint32) {
	if err := img.WriteW(addr, w); err != nil {
		panic(err)
	}
}

func TestBuildStopsAtTerminator(t *testing.T) {
	img := memimage.New(64)
	putW(img, 0x00, encAddi(1, 0, 1))
	putW(img, 0x04, encAddi(2, 0, 2))
	putW(img, 0x08, encJalr(0, 1, 0))
	putW(img, 0x0c, encAddi(3, 0, 3)) // must not be included: past the terminator

	b, err := Build(img, 0, decode.Config{}, 0)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(b.Ops) != 3 {
		t.Fatalf("got %d ops, want 3", len(b.Ops))
	}
	if b.EntryPC != 0 || b.EndPC != 0x0c {
		t.Fatalf("got entry=%#x end=%#x, want 0/0xc", b.EntryPC, b.EndPC)
	}
	if b.Terminator().Tag != isa.Jalr {
		t.Fatalf("got terminator tag %v, want Jalr", b.Terminator().Tag)
	}
}

func TestBuildAttachesHandlers(t *testing.T) {
	img := memimage.New(64)
	putW(img, 0x00, encJalr(0, 1, 0))

	b, err := Build(img, 0, decode.Config{}, 0)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if b.Ops[0].Handler == nil {
		t.Fatal("expected every op to have a non-nil handler attached")
	}
}

func TestBuildAttachesBHTOnlyToIndirectBranch(t *testing.T) {
	img := memimage.New(64)
	putW(img, 0x00, encAddi(1, 0, 1))
	putW(img, 0x04, encJalr(0, 1, 0))

	b, err := Build(img, 0, decode.Config{}, 4)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if b.Ops[0].BranchTable != nil {
		t.Fatal("a non-terminator op must not get a branch table")
	}
	if b.Ops[1].BranchTable == nil {
		t.Fatal("an indirect-branch terminator must get a branch table")
	}
}

func TestBuildSealsIntraBlockNextPointers(t *testing.T) {
	img := memimage.New(64)
	putW(img, 0x00, encAddi(1, 0, 1))
	putW(img, 0x04, encAddi(2, 0, 2))
	putW(img, 0x08, encJalr(0, 1, 0))

	b, err := Build(img, 0, decode.Config{}, 0)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if isa.Next(b.Ops[0]) != b.Ops[1] {
		t.Fatal("expected op 0's next to point at op 1 after Seal")
	}
	if isa.Next(b.Ops[1]) != b.Ops[2] {
		t.Fatal("expected op 1's next to point at op 2 after Seal")
	}
	if isa.Next(b.Ops[2]) != nil {
		t.Fatal("expected the terminator's next to be nil")
	}
	if b.IRHead != b.Ops[0] {
		t.Fatal("expected IRHead to be the first op")
	}
}

func TestBuildFetchFailureIsWrapped(t *testing.T) {
	img := memimage.New(4) // too small to hold any instruction at pc=0x1000
	_, err := Build(img, 0x1000, decode.Config{}, 0)
	if err == nil {
		t.Fatal("expected a fetch error")
	}
	if !errors.Is(err, ErrFetchFailed) {
		t.Fatalf("got %v, want an error wrapping ErrFetchFailed", err)
	}
}
