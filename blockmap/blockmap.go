// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package blockmap is the engine's unbounded, authoritative entry_pc ->
// *isa.Block store (spec §3/§4.2) and doubles as the Branch Linker
// (spec §4.4): once a block is built it resolves the block's statically
// known successors against blocks already resident in the map. It
// mirrors wagon's vm.compiledFuncs arena (exec/vm.go), generalized from
// a dense function-index slice to a PC-keyed map since RISC-V entry
// points are sparse, and never frees an entry once built (spec §9's
// "refer to successors by index into the arena" design note).
package blockmap

import (
	"sync"

	"github.com/rv32/rv32engine/block"
	"github.com/rv32/rv32engine/decode"
	"github.com/rv32/rv32engine/ioface"
	"github.com/rv32/rv32engine/isa"
)

// Map is the single authoritative store of built blocks, keyed by entry
// PC. A block is built at most once per PC (spec §4.2): concurrent
// GetOrBuild calls for the same unbuilt PC serialize on mu, and the
// second caller observes the first caller's finished block rather than
// building again.
type Map struct {
	mu     sync.RWMutex
	blocks map[uint32]*isa.Block
}

// New returns an empty Map.
func New() *Map {
	return &Map{blocks: make(map[uint32]*isa.Block)}
}

// Get returns the block resident at pc, if any.
func (m *Map) Get(pc uint32) (*isa.Block, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.blocks[pc]
	return b, ok
}

// Len reports how many blocks are currently resident.
func (m *Map) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.blocks)
}

// Flush discards every resident block. Used only when FENCE.I is
// configured to treat guest code as self-modifying; after a flush, the
// next GetOrBuild for any PC rebuilds from memory and relinks from
// scratch, since stale pointers into the old arena must never be reused.
func (m *Map) Flush() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blocks = make(map[uint32]*isa.Block)
}

// GetOrBuild returns the block resident at pc, building and linking it
// first if necessary. historySize sizes the BHT attached to any
// indirect-jump terminator the build produces (spec §4.5).
func (m *Map) GetOrBuild(mem ioface.Memory, pc uint32, cfg decode.Config, historySize int) (*isa.Block, error) {
	m.mu.RLock()
	b, ok := m.blocks[pc]
	m.mu.RUnlock()
	if ok {
		return b, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	// Re-check under the write lock: another goroutine may have built pc
	// while we waited, and spec §4.2 requires at most one build per PC.
	if b, ok := m.blocks[pc]; ok {
		return b, nil
	}
	nb, err := block.Build(mem, pc, cfg, historySize)
	if err != nil {
		return nil, err
	}
	m.blocks[pc] = nb
	m.link(nb)
	// nb's predecessors may have been waiting on this PC to resolve their
	// own static successors; a block only ever links forward at build
	// time, so a cheap retroactive pass isn't attempted here (spec §4.4
	// explicitly allows links to "remain null and be patched lazily on
	// first traversal").
	return nb, nil
}

// link resolves b's terminator's statically-known successors against
// blocks already resident in the map, per spec §4.4. Indirect jumps,
// syscalls and trap terminators are never statically linked.
func (m *Map) link(b *isa.Block) {
	term := b.Terminator()
	switch term.Tag.TerminatorClass() {
	case isa.DirectBranch:
		if term.Tag == isa.Jal {
			if succ, ok := m.blocks[term.PC+uint32(term.Imm)]; ok {
				term.BranchTaken = succ.IRHead
			}
			return
		}
		if succ, ok := m.blocks[term.PC+uint32(term.Imm)]; ok {
			term.BranchTaken = succ.IRHead
		}
		if succ, ok := m.blocks[term.PC+uint32(term.Len)]; ok {
			term.BranchUntaken = succ.IRHead
		}
	case isa.StraightLine:
		// FENCE.I, WFI, MRET and every Zicsr op still end the block (they
		// are terminators) but always fall through to exactly one
		// successor; link it through BranchTaken, matching how their
		// handlers consult it.
		if succ, ok := m.blocks[term.PC+uint32(term.Len)]; ok {
			term.BranchTaken = succ.IRHead
		}
	}
}
