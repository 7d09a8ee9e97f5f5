// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command rv32ctl is a cobra-based inspector over the engine: a single
// binary with subcommands for static disassembly, running a program to
// completion, and reporting block map/cache occupancy and entry-block
// hotness after a run.
// Grounded on oisee-z80-optimizer/cmd/z80opt/main.go's shape: one root
// cobra.Command with flag-bearing leaf subcommands, each a thin RunE
// wrapper over library code that does the actual work.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:   "rv32ctl",
		Short: "Inspect and run flat RISC-V RV32 program images",
	}

	root.AddCommand(newDisasmCmd(), newRunCmd(), newBlocksCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// commonExtFlags registers the extension-enable flags shared by every
// subcommand that decodes guest code, and returns a closure that builds
// a decode.Config from their current values.
func commonExtFlags(cmd *cobra.Command) func() extFlags {
	f := &extFlags{}
	cmd.Flags().BoolVar(&f.m, "m", true, "enable the M extension")
	cmd.Flags().BoolVar(&f.a, "a", true, "enable the A extension")
	cmd.Flags().BoolVar(&f.f, "f", true, "enable the F extension")
	cmd.Flags().BoolVar(&f.c, "c", true, "enable the C extension")
	return func() extFlags { return *f }
}

type extFlags struct {
	m, a, f, c bool
}
