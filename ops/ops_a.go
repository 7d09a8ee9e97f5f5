// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ops

import "github.com/rv32/rv32engine/isa"

func init() {
	reg(isa.LrW, hLrW, false)
	reg(isa.ScW, hScW, false)
	reg(isa.AmoswapW, amoHandler(func(old, rs2 uint32) uint32 { return rs2 }), false)
	reg(isa.AmoaddW, amoHandler(func(old, rs2 uint32) uint32 { return old + rs2 }), false)
	reg(isa.AmoxorW, amoHandler(func(old, rs2 uint32) uint32 { return old ^ rs2 }), false)
	reg(isa.AmoandW, amoHandler(func(old, rs2 uint32) uint32 { return old & rs2 }), false)
	reg(isa.AmoorW, amoHandler(func(old, rs2 uint32) uint32 { return old | rs2 }), false)
	reg(isa.AmominW, amoHandler(func(old, rs2 uint32) uint32 {
		if int32(old) < int32(rs2) {
			return old
		}
		return rs2
	}), false)
	reg(isa.AmomaxW, amoHandler(func(old, rs2 uint32) uint32 {
		if int32(old) > int32(rs2) {
			return old
		}
		return rs2
	}), false)
	reg(isa.AmominuW, amoHandler(func(old, rs2 uint32) uint32 {
		if old < rs2 {
			return old
		}
		return rs2
	}), false)
	reg(isa.AmomaxuW, amoHandler(func(old, rs2 uint32) uint32 {
		if old > rs2 {
			return old
		}
		return rs2
	}), false)
}

// hLrW loads reserved. The engine is single-threaded, so there is no
// actual reservation to track; the load always succeeds and SC.W below
// always succeeds in turn.
func hLrW(ctx *isa.Ctx, in *isa.Inst) (*isa.Inst, isa.Outcome) {
	addr := ctx.Hart.Reg(int(in.Rs1))
	v, err := ctx.Mem.ReadW(addr)
	if err != nil {
		return ioFault(ctx, err)
	}
	ctx.Hart.SetReg(int(in.Rd), v)
	return fallthroughNext(ctx, in)
}

// hScW always succeeds (returns 0 in rd), matching the single-hart
// reservation model used by hLrW.
func hScW(ctx *isa.Ctx, in *isa.Inst) (*isa.Inst, isa.Outcome) {
	addr := ctx.Hart.Reg(int(in.Rs1))
	if err := ctx.Mem.WriteW(addr, ctx.Hart.Reg(int(in.Rs2))); err != nil {
		return ioFault(ctx, err)
	}
	ctx.Hart.SetReg(int(in.Rd), 0)
	return fallthroughNext(ctx, in)
}

// amoHandler builds an atomic read-modify-write handler: load the old
// word, compute the new word with combine, store it, and return the old
// word in rd.
func amoHandler(combine func(old, rs2 uint32) uint32) isa.Handler {
	return func(ctx *isa.Ctx, in *isa.Inst) (*isa.Inst, isa.Outcome) {
		addr := ctx.Hart.Reg(int(in.Rs1))
		old, err := ctx.Mem.ReadW(addr)
		if err != nil {
			return ioFault(ctx, err)
		}
		rs2 := ctx.Hart.Reg(int(in.Rs2))
		if err := ctx.Mem.WriteW(addr, combine(old, rs2)); err != nil {
			return ioFault(ctx, err)
		}
		ctx.Hart.SetReg(int(in.Rd), old)
		return fallthroughNext(ctx, in)
	}
}
