// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rv32/rv32engine/block"
	"github.com/rv32/rv32engine/decode"
	"github.com/rv32/rv32engine/isa"
	"github.com/rv32/rv32engine/memimage"
)

// newDisasmCmd builds the "disasm" subcommand: static block-structure
// disassembly, equivalent to the standalone rv32dump tool but reachable
// as "rv32ctl disasm".
func newDisasmCmd() *cobra.Command {
	var entry, memSize, maxBlocks uint
	cmd := &cobra.Command{
		Use:   "disasm [image.bin]",
		Short: "Statically print the block structure of a program image",
		Args:  cobra.ExactArgs(1),
	}
	getExt := commonExtFlags(cmd)
	cmd.Flags().UintVar(&entry, "entry", 0, "entry PC to start disassembling from")
	cmd.Flags().UintVar(&memSize, "mem", 1<<20, "flat memory image size in bytes")
	cmd.Flags().UintVar(&maxBlocks, "max-blocks", 16, "maximum number of blocks to follow via static successors")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		ext := getExt()
		cfg := decode.Config{M: ext.m, A: ext.a, F: ext.f, C: ext.c, Zicsr: true, Zifencei: true}
		return disasm(os.Stdout, args[0], uint32(entry), int(memSize), int(maxBlocks), cfg)
	}
	return cmd
}

func disasm(w *os.File, fname string, entry uint32, memSize, maxBlocks int, cfg decode.Config) error {
	data, err := os.ReadFile(fname)
	if err != nil {
		return fmt.Errorf("rv32ctl disasm: %w", err)
	}
	img := memimage.New(memSize)
	if err := img.Load(0, data); err != nil {
		return fmt.Errorf("rv32ctl disasm: %w", err)
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
