// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package bht implements the Branch History Table (spec §4.5): a small,
// fixed-size direct-mapped cache attached to each indirect-jump op
// (JALR, C.JR, C.JALR) that remembers recently observed computed-jump
// targets so the dispatcher can tail-chain into them without re-entering
// the block map on every iteration of, e.g., a virtual dispatch loop.
//
// Grounded on exec/internal/compile.BranchTable/Target, wagon's table of
// jump targets consulted by the br_table operator (exec/vm.go's
// ops.BrTable case): that table is a static compile-time array indexed
// by an immediate, generalized here into a small runtime cache indexed
// by a rotating replacement pointer, per spec §4.5's "linear scan...
// rotating replacement index."
package bht

import "github.com/rv32/rv32engine/isa"

// DefaultSize is the HISTORY_SIZE used when callers don't need a
// different capacity.
const DefaultSize = 4

type slot struct {
	pc    uint32
	op    *isa.Inst
	valid bool
}

// Table is a per-indirect-jump history of recently resolved targets.
type Table struct {
	slots []slot
	next  int
}

// NewTable returns a Table with size history slots; a size below 1 is
// replaced by DefaultSize.
func NewTable(size int) *Table {
	if size < 1 {
		size = DefaultSize
	}
	return &Table{slots: make([]slot, size)}
}

// Lookup performs the linear scan for pc, returning the recorded
// successor op on a hit.
func (t *Table) Lookup(pc uint32) (*isa.Inst, bool) {
	for i := range t.slots {
		if t.slots[i].valid && t.slots[i].pc == pc {
			return t.slots[i].op, true
		}
	}
	return nil, false
}

// Record stores (pc, op) at the table's current rotating index and
// advances it, per spec §4.5's replacement policy.
func (t *Table) Record(pc uint32, op *isa.Inst) {
	t.slots[t.next] = slot{pc: pc, op: op, valid: true}
	t.next = (t.next + 1) % len(t.slots)
}
