// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dispatch

import (
	"testing"

	"github.com/rv32/rv32engine/decode"
	"github.com/rv32/rv32engine/hart"
	"github.com/rv32/rv32engine/ioface"
	"github.com/rv32/rv32engine/memimage"
)

func encAddi(rd, rs1 uint32, imm int32) uint32 {
	return (uint32(imm)&0xfff)<<20 | rs1<<15 | rd<<7 | 0x13
}

func encBlt(rs1, rs2 uint32, imm int32) uint32 {
	u := uint32(imm) & 0x1fff
	bit12 := (u >> 12) & 1
	bit11 := (u >> 11) & 1
	bits10_5 := (u >> 5) & 0x3f
	bits4_1 := (u >> 1) & 0xf
	const funct3 = 0x4
	return bit12<<31 | bits10_5<<25 | rs2<<20 | rs1<<15 | funct3<<12 | bits4_1<<8 | bit11<<7 | 0x63
}

const encEcall = 0x73

func putW(img *memimage.Image, addr uint32, w uint32) {
	if err := img.WriteW(addr, w); err != nil {
		panic(err)
	}
}

type exitHooks struct{ exited bool }

func (h *exitHooks) OnECall(ha ioface.HartAccess) error {
	if ha.Reg(17) == 93 {
		h.exited = true
		ha.Halt()
	}
	return nil
}

func (h *exitHooks) OnEBreak(ha ioface.HartAccess) error {
	ha.Halt()
	return nil
}

func TestRunStraightLineProgramHaltsOnEcall(t *testing.T) {
	img := memimage.New(1 << 16)
	putW(img, 0x00, encAddi(10, 0, 5)) // a0 = 5
	putW(img, 0x04, encAddi(17, 0, 93))
	putW(img, 0x08, encEcall)

	hooks := &exitHooks{}
	h := hart.New(0, false, img, hooks, nil)
	eng := New(img, hooks, Config{Ext: decode.Config{}})

	if err := eng.Run(h); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !h.Halted {
		t.Fatal("expected hart to halt")
	}
	if got := h.Reg(10); got != 5 {
		t.Fatalf("a0 = %d, want 5", got)
	}
}

func TestRunLoopWithBranchLinking(t *testing.T) {
	img := memimage.New(1 << 16)
	putW(img, 0x00, encAddi(1, 0, 0))  // x1 = 0
	putW(img, 0x04, encAddi(2, 0, 3))  // x2 = 3
	putW(img, 0x08, encAddi(1, 1, 1))  // loop: x1 += 1
	putW(img, 0x0c, encBlt(1, 2, -4))  // blt x1, x2, loop
	putW(img, 0x10, encAddi(17, 0, 93))
	putW(img, 0x14, encEcall)

	hooks := &exitHooks{}
	h := hart.New(0, false, img, hooks, nil)
	eng := New(img, hooks, Config{Ext: decode.Config{}, HotThreshold: 2})

	if err := eng.Run(h); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !hooks.exited {
		t.Fatal("expected the ecall exit hook to fire")
	}
	if got := h.Reg(1); got != 3 {
		t.Fatalf("x1 = %d, want 3", got)
	}
	if eng.Map.Len() == 0 {
		t.Fatal("expected at least one block resident in the block map")
	}
	if h.Cycle() == 0 {
		t.Fatal("expected Run to have committed a non-zero executed-op count to the hart's cycle counter")
	}
}

// TestRunPromotesHotLoopBlockViaBackEdge drives enough loop iterations
// through a self-linked back edge (the entry at 0x08 is its own
// BranchTaken target once blockmap links it) that the loop body's
// dispatcher-side Touch calls, not Cache.Get, cross HotThreshold — since
// the tail-chained back edge never revisits fetchBlock. This exercises
// spec §8 scenario 2: the loop's entry PC becomes hot without ever going
// through the cache's normal Get path.
func TestRunPromotesHotLoopBlockViaBackEdge(t *testing.T) {
	img := memimage.New(1 << 16)
	putW(img, 0x00, encAddi(1, 0, 0))   // x1 = 0
	putW(img, 0x04, encAddi(2, 0, 10))  // x2 = 10
	putW(img, 0x08, encAddi(1, 1, 1))   // loop: x1 += 1
	putW(img, 0x0c, encBlt(1, 2, -4))   // blt x1, x2, loop
	putW(img, 0x10, encAddi(17, 0, 93))
	putW(img, 0x14, encEcall)

	hooks := &exitHooks{}
	h := hart.New(0, false, img, hooks, nil)
	eng := New(img, hooks, Config{Ext: decode.Config{}, HotThreshold: 2})

	if err := eng.Run(h); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := h.Reg(1); got != 10 {
		t.Fatalf("x1 = %d, want 10", got)
	}
	if !eng.Hot(0x08) {
		t.Fatal("expected the loop's entry pc to be promoted hot via the dispatcher's back-edge Touch, not just Cache.Get")
	}
}

func TestFlushClearsMapAndCache(t *testing.T) {
	img := memimage.New(1 << 16)
	putW(img, 0x00, encAddi(17, 0, 93))
	putW(img, 0x04, encEcall)

	hooks := &exitHooks{}
	h := hart.New(0, false, img, hooks, nil)
	eng := New(img, hooks, Config{Ext: decode.Config{}})
	if err := eng.Run(h); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if eng.Map.Len() == 0 {
		t.Fatal("expected a resident block before flush")
	}
	eng.Flush()
	if eng.Map.Len() != 0 || eng.Cache.Len() != 0 {
		t.Fatal("expected Flush to empty both the map and the cache")
	}
}
