// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ops is the engine's Operation Table (spec §4): for every opcode
// tag, a semantic handler plus a flag marking it JIT-eligible. The block
// builder attaches handlers from it; the narrow backend in internal/jit
// has builders for only Add, Addi and Lui among the eligible tags, and
// nothing in the engine consults the flag at run time.
package ops

import "github.com/rv32/rv32engine/isa"

// Entry pairs a semantic handler with its JIT eligibility, mirroring the
// teacher's pairing of a semantic body with an abstract emitter recipe
// (spec §9's "shared table driving interpreter and JIT" design note).
type Entry struct {
	Handler     isa.Handler
	JITEligible bool
}

// Table is the static opcode -> (handler, jit-support) mapping.
var Table map[isa.Tag]Entry

func reg(tag isa.Tag, h isa.Handler, jit bool) {
	if Table == nil {
		Table = make(map[isa.Tag]Entry)
	}
	Table[tag] = Entry{Handler: h, JITEligible: jit}
}

// Lookup returns the handler for tag, or the illegal-instruction handler
// if tag has no table entry (an engine invariant violation, since the
// decoder never emits a tag without one — see isa.Illegal's own entry).
func Lookup(tag isa.Tag) isa.Handler {
	if e, ok := Table[tag]; ok {
		return e.Handler
	}
	return illegalHandler
}

// JITEligible reports whether tag's table entry advertises JIT support.
func JITEligible(tag isa.Tag) bool {
	e, ok := Table[tag]
	return ok && e.JITEligible
}

// fallthroughNext advances PC by the instruction length and hands control
// to the next op within the block, or yields to the driver if this was
// the last op built so far (the block ends here, or a successor is not
// yet linked).
func fallthroughNext(ctx *isa.Ctx, in *isa.Inst) (*isa.Inst, isa.Outcome) {
	ctx.Hart.SetPC(in.PC + uint32(in.Len))
	if nx := isa.Next(in); nx != nil {
		return nx, isa.Continue
	}
	return nil, isa.Yield
}

// linkedOrYield sets PC to target and tail-chains into link if the block
// linker already resolved it, otherwise yields so the driver can resolve
// and resume.
func linkedOrYield(ctx *isa.Ctx, target uint32, link *isa.Inst) (*isa.Inst, isa.Outcome) {
	ctx.Hart.SetPC(target)
	if link != nil {
		return link, isa.Continue
	}
	return nil, isa.Yield
}
