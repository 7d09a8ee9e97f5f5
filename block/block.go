// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package block implements the Block Builder (spec §4.2): it walks guest
// memory starting at an entry PC, decoding and fetching a handler for one
// instruction at a time, and stops at the first control-transfer
// operation, producing a single straight-line isa.Block. It mirrors the
// way wagon's disasm.Disassemble walks a function body linearly and
// attaches a handler-equivalent (an opcode's operator metadata) to each
// decoded instruction before compile.Compile ever sees branch targets.
package block

import (
	"errors"
	"fmt"

	"github.com/rv32/rv32engine/bht"
	"github.com/rv32/rv32engine/decode"
	"github.com/rv32/rv32engine/ioface"
	"github.com/rv32/rv32engine/isa"
	"github.com/rv32/rv32engine/ops"
)

// ErrFetchFailed is wrapped with the failing PC when the builder can't
// read guest memory for the next instruction.
var ErrFetchFailed = errors.New("block: instruction fetch failed")

// Build decodes and links a maximal straight-line run of instructions
// starting at entryPC, stopping at (and including) the first op for
// which Tag.IsTerminator() is true. It never follows the control
// transfer itself; cross-block linking is blockmap's job. Every
// indirect-jump terminator (JALR, and their compressed equivalents once
// decoded to the same tag) is given a fresh per-op Branch History Table
// of historySize entries (spec §4.5); historySize <= 0 falls back to
// bht.DefaultSize.
func Build(mem ioface.Memory, entryPC uint32, cfg decode.Config, historySize int) (*isa.Block, error) {
	b := &isa.Block{EntryPC: entryPC}
	pc := entryPC
	for {
		in, err := decode.FetchDecode(mem, pc, cfg)
		if err != nil {
			return nil, fmt.Errorf("%w: pc=%#x: %v", ErrFetchFailed, pc, err)
		}
		in.Handler = ops.Lookup(in.Tag)
		if in.Tag.IsTerminator() && in.Tag.TerminatorClass() == isa.IndirectBranch {
			in.BranchTable = bht.NewTable(historySize)
		}
		b.Ops = append(b.Ops, in)
		pc += uint32(in.Len)
		if in.Tag.IsTerminator() {
			break
		}
	}
	b.EndPC = pc
	b.Seal()
	return b, nil
}
