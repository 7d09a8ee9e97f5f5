// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command rv32dump statically decodes a flat RISC-V RV32 image starting
// at an entry PC and prints the block structure the Block Builder would
// produce, without running anything. Grounded on cmd/wasm-dump/main.go's
// shape: a flag-driven, no-execution inspection tool over the same
// input the run command accepts.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/rv32/rv32engine/block"
	"github.com/rv32/rv32engine/decode"
	"github.com/rv32/rv32engine/isa"
	"github.com/rv32/rv32engine/memimage"
)

func init() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: rv32dump [options] image.bin

ex:
 $> rv32dump -entry 0 ./image.bin

options:
`)
		flag.PrintDefaults()
		os.Exit(1)
	}
}

func main() {
	log.SetPrefix("rv32dump: ")
	log.SetFlags(0)

	entry := flag.Uint("entry", 0, "entry PC to start disassembling from")
	memSize := flag.Uint("mem", 1<<20, "flat memory image size in bytes")
	maxBlocks := flag.Uint("max-blocks", 16, "maximum number of blocks to follow via static successors")
	extM := flag.Bool("m", true, "enable the M extension")
	extA := flag.Bool("a", true, "enable the A extension")
	extF := flag.Bool("f", true, "enable the F extension")
	extC := flag.Bool("c", true, "enable the C extension")

	flag.Parse()
	if flag.NArg() < 1 {
		flag.Usage()
	}

	cfg := decode.Config{M: *extM, A: *extA, F: *extF, C: *extC, Zicsr: true, Zifencei: true}
	if err := process(os.Stdout, flag.Arg(0), uint32(*entry), int(*memSize), int(*maxBlocks), cfg); err != nil {
		log.Fatal(err)
	}
}

func process(w io.Writer, fname string, entry uint32, memSize, maxBlocks int, cfg decode.Config) error {
	data, err := os.ReadFile(fname)
	if err != nil {
		return fmt.Errorf("rv32dump: %w", err)
	}
	img := memimage.New(memSize)
	if err := img.Load(0, data); err != nil {
		return fmt.Errorf("rv32dump: %w", err)
	}

	seen := map[uint32]bool{}
	queue := []uint32{entry}
	for i := 0; i < maxBlocks && len(queue) > 0; i++ {
		pc := queue[0]
		queue = queue[1:]
		if seen[pc] {
			continue
		}
		seen[pc] = true

		b, err := block.Build(img, pc, cfg, 0)
		if err != nil {
			fmt.Fprintf(w, "block %#010x: build error: %v\n", pc, err)
			continue
		}
		fmt.Fprintf(w, "block %#010x..%#010x (%d ops, term=%d):\n", b.EntryPC, b.EndPC, len(b.Ops), b.Term)
		for _, op := range b.Ops {
			fmt.Fprintf(w, "  %#010x: tag=%-3d rd=x%-2d rs1=x%-2d rs2=x%-2d imm=%d len=%d\n",
				op.PC, op.Tag, op.Rd, op.Rs1, op.Rs2, op.Imm, op.Len)
		}
		term := b.Terminator()
		if term.Tag.TerminatorClass() == isa.DirectBranch {
			queue = append(queue, term.PC+uint32(term.Imm))
			if term.Tag != isa.Jal {
				queue = append(queue, term.PC+uint32(term.Len))
			}
		}
	}
	return nil
}
