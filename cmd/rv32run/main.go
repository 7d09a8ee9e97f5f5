// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command rv32run loads a flat RISC-V RV32 program image and runs it to
// completion, printing the final register file. Flag parsing and the
// open-file-then-dispatch shape are grounded on cmd/wasm-run/main.go.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"

	"github.com/rv32/rv32engine/decode"
	"github.com/rv32/rv32engine/dispatch"
	"github.com/rv32/rv32engine/hart"
	"github.com/rv32/rv32engine/internal/rvlog"
	"github.com/rv32/rv32engine/ioface"
	"github.com/rv32/rv32engine/memimage"
)

func main() {
	log.SetPrefix("rv32run: ")
	log.SetFlags(0)

	entry := flag.Uint("entry", 0, "entry PC, in the loaded image's address space")
	memSize := flag.Uint("mem", 1<<20, "flat memory image size in bytes")
	verbose := flag.Bool("v", false, "enable verbose (debug-level) logging")
	extM := flag.Bool("m", true, "enable the M extension")
	extA := flag.Bool("a", true, "enable the A extension")
	extF := flag.Bool("f", true, "enable the F extension")
	extC := flag.Bool("c", true, "enable the C extension")

	flag.Parse()
	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := rvlog.New(os.Stderr, level)

	if err := run(os.Stdout, flag.Arg(0), uint32(*entry), int(*memSize), decode.Config{
		M: *extM, A: *extA, F: *extF, C: *extC, Zicsr: true, Zifencei: true,
	}, logger); err != nil {
		log.Fatal(err)
	}
}

type exitHooks struct{}

// OnECall implements the minimal RISC-V "exit syscall" convention many
// bare-metal RV32 test binaries use: a7 == 93 halts the hart, a0 is the
// exit code. Anything else is a silent no-op; a real host would install
// its own ioface.Hooks instead of this CLI default.
func (exitHooks) OnECall(h ioface.HartAccess) error {
	if h.Reg(17) == 93 {
		h.Halt()
	}
	return nil
}

func (exitHooks) OnEBreak(h ioface.HartAccess) error {
	h.Halt()
	return nil
}

func run(w io.Writer, fname string, entry uint32, memSize int, cfg decode.Config, logger interface {
	Info(string, ...any)
}) error {
	data, err := os.ReadFile(fname)
	if err != nil {
		return fmt.Errorf("rv32run: %w", err)
	}
	img := memimage.New(memSize)
	if err := img.Load(0, data); err != nil {
		return fmt.Errorf("rv32run: %w", err)
	}

	h := hart.New(entry, cfg.C, img, exitHooks{}, nil)
	eng := dispatch.New(img, exitHooks{}, dispatch.Config{Ext: cfg})

	if err := eng.Run(h); err != nil {
		return fmt.Errorf("rv32run: %w", err)
	}

	logger.Info("run complete", "pc", h.PC(), "cycles", h.Cycle())
	fmt.Fprintf(w, "pc=%#010x a0=%#010x exit_a7=%#x\n", h.PC(), h.Reg(10), h.Reg(17))
	for i := 0; i < 32; i += 4 {
		fmt.Fprintf(w, "x%-2d=%#010x x%-2d=%#010x x%-2d=%#010x x%-2d=%#010x\n",
			i, h.Reg(i), i+1, h.Reg(i+1), i+2, h.Reg(i+2), i+3, h.Reg(i+3))
	}
	return nil
}
