// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package dispatch implements the Dispatcher (spec §4.7): the hot loop
// that ties the hart, IO facade, block map, block cache, branch history
// tables and trap unit together. Handlers tail-chain directly into the
// next operation (a direct-threaded trampoline — Go gives no guaranteed
// tail-call elimination, so the loop here is the only recursion-free
// place a long op chain runs); Run only regains control on an unlinked
// control transfer, an ECALL/EBREAK, a trap, a linked successor that has
// turned hot, a host IO fault, or a fatal engine error.
//
// Grounded on wagon's own driver, (*VM).ExecCode / (*VM).execCode
// (exec/vm.go): a flat `for` loop reading the next opcode from vm.ctx.pc
// and invoking vm.funcTable[op], generalized from a byte-opcode jump
// table walking one instruction at a time into a block-at-a-time loop
// that only re-enters per the suspension points spec §5 enumerates.
package dispatch

import (
	"errors"
	"fmt"

	"github.com/rv32/rv32engine/bht"
	"github.com/rv32/rv32engine/blockcache"
	"github.com/rv32/rv32engine/blockmap"
	"github.com/rv32/rv32engine/decode"
	"github.com/rv32/rv32engine/hart"
	"github.com/rv32/rv32engine/ioface"
	"github.com/rv32/rv32engine/isa"
	"github.com/rv32/rv32engine/trap"
)

// ErrEngineInvariant is returned when a handler reports isa.Halt: a
// decoder or block-builder bug produced something the dispatcher can't
// safely continue from (spec §7.3 "engine invariant violations").
var ErrEngineInvariant = errors.New("dispatch: engine invariant violated")

// Config holds the knobs spec §6 enumerates as external configuration.
type Config struct {
	Ext decode.Config

	// BlockCacheCapacity bounds the block cache (spec §4.3);
	// non-positive falls back to DefaultCacheCapacity.
	BlockCacheCapacity int
	// HotThreshold is the access count at which a cached block is
	// promoted to "hot".
	HotThreshold uint64
	// HistorySize sizes every indirect jump's BHT (spec §4.5).
	HistorySize int

	// TrapVector, if non-nil, redirects control on a trap instead of the
	// engine's default halt-with-diagnostic policy (spec §4.8).
	TrapVector *trap.Vector
	// SelfModifyingCode, when true, makes FENCE.I flush the block map
	// and block cache (spec's open question on FENCE.I semantics); when
	// false (the default), FENCE.I is a pure no-op since guest code is
	// assumed immutable for the run.
	SelfModifyingCode bool
}

const (
	// DefaultCacheCapacity is used when Config.BlockCacheCapacity <= 0.
	DefaultCacheCapacity = 256
	// DefaultHotThreshold is used when Config.HotThreshold == 0.
	DefaultHotThreshold = 64
)

// Engine owns the block map, block cache and IO facade for one run. A
// single Engine is meant to drive exactly one hart at a time (spec §5:
// "one hart per emulator instance"); reuse across harts is safe as long
// as runs don't overlap, since Run is not reentrant on the same Engine.
type Engine struct {
	Mem   ioface.Memory
	Hooks ioface.Hooks

	Map   *blockmap.Map
	Cache *blockcache.Cache

	cfg Config
}

// New constructs an Engine over mem/hooks with the given configuration.
func New(mem ioface.Memory, hooks ioface.Hooks, cfg Config) *Engine {
	if cfg.BlockCacheCapacity <= 0 {
		cfg.BlockCacheCapacity = DefaultCacheCapacity
	}
	if cfg.HotThreshold == 0 {
		cfg.HotThreshold = DefaultHotThreshold
	}
	if cfg.HistorySize <= 0 {
		cfg.HistorySize = bht.DefaultSize
	}
	return &Engine{
		Mem:   mem,
		Hooks: hooks,
		Map:   blockmap.New(),
		Cache: blockcache.New(cfg.BlockCacheCapacity, cfg.HotThreshold),
		cfg:   cfg,
	}
}

// Flush discards every resident block in both the map and the cache.
// Called by FENCE.I when Config.SelfModifyingCode is set.
func (e *Engine) Flush() {
	e.Map.Flush()
	e.Cache.Flush()
}

// Hot reports whether the block currently resident at pc has crossed
// the hotness threshold (spec §4.3/§4.4).
func (e *Engine) Hot(pc uint32) bool {
	return e.Cache.Hot(pc)
}

// fetchBlock returns the block for pc, consulting the cache first and
// falling back to the (possibly block-building) map on a miss, per
// spec §4.3: "the cache is purely a linking hint... on a miss, the
// dispatcher falls back to the block map."
func (e *Engine) fetchBlock(pc uint32) (*isa.Block, error) {
	if b, ok := e.Cache.Get(pc); ok {
		return b, nil
	}
	b, err := e.Map.GetOrBuild(e.Mem, pc, e.cfg.Ext, e.cfg.HistorySize)
	if err != nil {
		return nil, err
	}
	e.Cache.Put(pc, b)
	return b, nil
}

// resolveIndirect services a computed-jump yield: consult tbl for pc,
// or fetch/build the target block and record it on a miss, per spec
// §4.5.
func (e *Engine) resolveIndirect(tbl *bht.Table, pc uint32) (*isa.Inst, error) {
	if succ, ok := tbl.Lookup(pc); ok {
		// A BHT hit resolves straight to the cached successor without
		// ever touching fetchBlock/Cache.Get, the same bypass the
		// back-edge tail-chain has; bump the cache's hotness counter
		// here so a hot indirect-jump target still gets promoted.
		e.Cache.Touch(pc)
		return succ, nil
	}
	b, err := e.fetchBlock(pc)
	if err != nil {
		return nil, err
	}
	tbl.Record(pc, b.IRHead)
	return b.IRHead, nil
}

// Run drives h from its current PC until it halts or a host IO fault /
// engine invariant violation surfaces. It returns nil on a clean halt
// (h.Halted observed true), and otherwise the first error encountered.
func (e *Engine) Run(h *hart.Hart) error {
	ctx := &isa.Ctx{Hart: h, Mem: e.Mem, Hooks: e.Hooks, Vec: e.cfg.TrapVector}
	if e.cfg.SelfModifyingCode {
		ctx.InvalidateBlocks = e.Flush
	}

	for !h.Halted {
		blk, err := e.fetchBlock(h.PC())
		if err != nil {
			return err
		}
		cur := blk.IRHead
		var executed uint64
		for cur != nil {
			isTerm := cur.Tag.IsTerminator()
			if isTerm {
				// Commit the ops run so far, so ECALL/EBREAK hooks and CSR
				// reads inside the terminator see an up-to-date cycle count.
				h.AddCycles(executed)
				executed = 0
			}
			next, outcome := cur.Handler(ctx, cur)
			executed++
			switch outcome {
			case isa.Continue:
				// A terminator reporting Continue means this is a direct
				// tail-chain into an already-linked successor block's
				// head (spec §4.4); that crossing never otherwise visits
				// fetchBlock/Cache.Get, so the hotness counter is bumped
				// here instead. If the successor has crossed the hot
				// threshold, exit back to the outer loop rather than
				// keep tail-chaining through it directly.
				if isTerm && e.Cache.Touch(h.PC()) {
					h.AddCycles(executed)
					executed = 0
					cur = nil
					continue
				}
				cur = next
			case isa.Yield:
				h.AddCycles(executed)
				executed = 0
				if tbl, ok := cur.BranchTable.(*bht.Table); ok {
					cur, err = e.resolveIndirect(tbl, h.PC())
					if err != nil {
						return err
					}
					continue
				}
				cur = nil
			case isa.Trapped:
				h.AddCycles(executed)
				executed = 0
				cur = nil
			case isa.IOFault:
				h.AddCycles(executed)
				return fmt.Errorf("dispatch: io fault at pc=%#x: %w", h.PC(), ctx.IOErr)
			case isa.Halt:
				h.AddCycles(executed)
				return fmt.Errorf("%w: pc=%#x", ErrEngineInvariant, h.PC())
			default:
				h.AddCycles(executed)
				return fmt.Errorf("%w: unknown outcome %d at pc=%#x", ErrEngineInvariant, outcome, h.PC())
			}
		}
	}
	return nil
}
