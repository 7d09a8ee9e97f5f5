// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package blockcache implements the bounded, frequency-promoted block
// cache (spec §4.3): a linking hint atop blockmap's unbounded store.
// Eviction never frees block storage (the block stays resident in
// blockmap; only the cache's fast-path pointer to it is dropped), and a
// cache miss simply falls back to the block map, so correctness never
// depends on what the cache currently holds.
//
// No wagon package caches anything analogous — WebAssembly functions are
// all compiled up front — so this is grounded on the general
// profiling-gate shape of exec/internal/compile/backend_amd64.go's
// scanner.supportedOpcodes/CompilationCandidate (a record of "this span
// of code is eligible for promotion"), generalized from a one-shot
// ahead-of-time scan into an online frequency-counted cache.
package blockcache

import (
	"container/list"
	"sync"

	"github.com/rv32/rv32engine/isa"
)

type entry struct {
	pc          uint32
	block       *isa.Block
	accessCount uint64
	hot         bool
	elem        *list.Element
}

// Cache is a bounded map from entry PC to *isa.Block with hotness
// tracking. The zero value is not usable; construct with New.
type Cache struct {
	mu           sync.Mutex
	capacity     int
	hotThreshold uint64
	items        map[uint32]*entry
	// order records insertion order, used only to break eviction ties
	// among equally-cold entries (FIFO among non-hot entries, per spec
	// §4.3's "evict the least-frequently-used entry" with no mandated
	// recency policy).
	order *list.List
}

// New returns a Cache bounded to capacity entries, promoting an entry to
// "hot" once it has been fetched hotThreshold times.
func New(capacity int, hotThreshold uint64) *Cache {
	if capacity < 1 {
		capacity = 1
	}
	return &Cache{
		capacity:     capacity,
		hotThreshold: hotThreshold,
		items:        make(map[uint32]*entry),
		order:        list.New(),
	}
}

// Get returns the cached block for pc, if present, bumping its access
// count and hotness.
func (c *Cache) Get(pc uint32) (*isa.Block, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.items[pc]
	if !ok {
		return nil, false
	}
	e.accessCount++
	if e.accessCount >= c.hotThreshold {
		e.hot = true
	}
	return e.block, true
}

// Touch bumps the access count and hotness of the cache entry at pc, if
// one is resident, without performing a full Get (no block is returned).
// The dispatcher calls this when it tail-chains directly into an
// already-linked successor block's head, a path that never goes through
// fetchBlock/Get — without this, a self-looping block's back edge would
// never accumulate hits and could never be promoted hot (spec §4.3/§4.4).
// Reports whether pc is hot after the bump; a PC not currently cached
// reports false.
func (c *Cache) Touch(pc uint32) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.items[pc]
	if !ok {
		return false
	}
	e.accessCount++
	if e.accessCount >= c.hotThreshold {
		e.hot = true
	}
	return e.hot
}

// Hot reports whether pc's cached entry has crossed the hotness
// threshold. A PC not currently cached is never hot.
func (c *Cache) Hot(pc uint32) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.items[pc]
	return ok && e.hot
}

// Put inserts b into the cache under its entry PC, evicting the
// coldest non-hot entry first if the cache is already at capacity. A PC
// already cached is left untouched (its existing access history is not
// discarded just because the block map rebuilt the same block).
func (c *Cache) Put(pc uint32, b *isa.Block) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.items[pc]; ok {
		return
	}
	if len(c.items) >= c.capacity {
		c.evictLocked()
	}
	e := &entry{pc: pc, block: b}
	e.elem = c.order.PushBack(e)
	c.items[pc] = e
}

// evictLocked drops the least-frequently-used non-hot entry, breaking
// ties by insertion order (earliest inserted evicts first). If every
// resident entry is hot, the oldest hot entry is evicted rather than
// refusing the insert — the cache is a hint, never an oracle, and
// blockmap still holds the block either way.
func (c *Cache) evictLocked() {
	var victim *entry
	for e := c.order.Front(); e != nil; e = e.Next() {
		ent := e.Value.(*entry)
		if victim == nil || (!ent.hot && (victim.hot || ent.accessCount < victim.accessCount)) {
			victim = ent
		}
	}
	if victim == nil {
		return
	}
	delete(c.items, victim.pc)
	c.order.Remove(victim.elem)
}

// Len reports how many entries are currently cached.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Flush empties the cache. Used by FENCE.I when the engine is configured
// to treat guest code as self-modifying.
func (c *Cache) Flush() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[uint32]*entry)
	c.order = list.New()
}
