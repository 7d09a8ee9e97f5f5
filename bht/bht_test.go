// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bht

import (
	"testing"

	"github.com/rv32/rv32engine/isa"
)

func TestLookupMiss(t *testing.T) {
	tbl := NewTable(4)
	if _, ok := tbl.Lookup(0x1000); ok {
		t.Fatal("expected miss on empty table")
	}
}

func TestRecordThenLookupHits(t *testing.T) {
	tbl := NewTable(4)
	op := &isa.Inst{PC: 0x2000}
	tbl.Record(0x1000, op)

	got, ok := tbl.Lookup(0x1000)
	if !ok || got != op {
		t.Fatalf("got (%v, %v), want (%v, true)", got, ok, op)
	}
}

func TestRotatingReplacementEvictsOldestSlot(t *testing.T) {
	tbl := NewTable(2)
	a := &isa.Inst{PC: 1}
	b := &isa.Inst{PC: 2}
	c := &isa.Inst{PC: 3}

	tbl.Record(0xA, a)
	tbl.Record(0xB, b)
	// Table is full (size 2); the next Record rotates back to slot 0,
	// evicting 0xA regardless of how recently it was looked up (no LRU).
	tbl.Lookup(0xA)
	tbl.Record(0xC, c)

	if _, ok := tbl.Lookup(0xA); ok {
		t.Fatal("expected 0xA to be evicted by the rotating pointer, not kept by recency")
	}
	if got, ok := tbl.Lookup(0xB); !ok || got != b {
		t.Fatalf("expected 0xB to survive, got (%v, %v)", got, ok)
	}
	if got, ok := tbl.Lookup(0xC); !ok || got != c {
		t.Fatalf("expected 0xC present, got (%v, %v)", got, ok)
	}
}

func TestNewTableDefaultsSizeWhenInvalid(t *testing.T) {
	tbl := NewTable(0)
	if len(tbl.slots) != DefaultSize {
		t.Fatalf("got size %d, want default %d", len(tbl.slots), DefaultSize)
	}
}
