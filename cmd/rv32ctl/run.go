// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rv32/rv32engine/decode"
	"github.com/rv32/rv32engine/dispatch"
	"github.com/rv32/rv32engine/hart"
	"github.com/rv32/rv32engine/ioface"
	"github.com/rv32/rv32engine/memimage"
)

// newRunCmd builds the "run" subcommand: run a program image to
// completion and print the final register file, equivalent to the
// standalone rv32run tool but reachable as "rv32ctl run".
func newRunCmd() *cobra.Command {
	var entry, memSize uint
	cmd := &cobra.Command{
		Use:   "run [image.bin]",
		Short: "Run a program image to completion",
		Args:  cobra.ExactArgs(1),
	}
	getExt := commonExtFlags(cmd)
	cmd.Flags().UintVar(&entry, "entry", 0, "entry PC, in the loaded image's address space")
	cmd.Flags().UintVar(&memSize, "mem", 1<<20, "flat memory image size in bytes")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		ext := getExt()
		cfg := decode.Config{M: ext.m, A: ext.a, F: ext.f, C: ext.c, Zicsr: true, Zifencei: true}
		return runImage(os.Stdout, args[0], uint32(entry), int(memSize), cfg)
	}
	return cmd
}

type ctlHooks struct{}

// OnECall implements the same "a7 == 93 halts" convention rv32run uses.
func (ctlHooks) OnECall(h ioface.HartAccess) error {
	if h.Reg(17) == 93 {
		h.Halt()
	}
	return nil
}

func (ctlHooks) OnEBreak(h ioface.HartAccess) error {
	h.Halt()
	return nil
}

func runImage(w *os.File, fname string, entry uint32, memSize int, cfg decode.Config) error {
	data, err := os.ReadFile(fname)
	if err != nil {
		return fmt.Errorf("rv32ctl run: %w", err)
	}
	img := memimage.New(memSize)
	if err := img.Load(0, data); err != nil {
		return fmt.Errorf("rv32ctl run: %w", err)
	}

	h := hart.New(entry, cfg.C, img, ctlHooks{}, nil)
	eng := dispatch.New(img, ctlHooks{}, dispatch.Config{Ext: cfg})

	if err := eng.Run(h); err != nil {
		return fmt.Errorf("rv32ctl run: %w", err)
	}

	fmt.Fprintf(w, "pc=%#010x a0=%#010x exit_a7=%#x cycles=%d\n", h.PC(), h.Reg(10), h.Reg(17), h.Cycle())
	for i := 0; i < 32; i += 4 {
		fmt.Fprintf(w, "x%-2d=%#010x x%-2d=%#010x x%-2d=%#010x x%-2d=%#010x\n",
			i, h.Reg(i), i+1, h.Reg(i+1), i+2, h.Reg(i+2), i+3, h.Reg(i+3))
	}
	return nil
}
