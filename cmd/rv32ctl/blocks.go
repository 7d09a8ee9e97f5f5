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
	"github.com/rv32/rv32engine/memimage"
)

// newBlocksCmd builds the "blocks" subcommand: run a program image to
// completion and report block map/cache occupancy, giving a rough read
// on hotness promotion and cache pressure (spec §4.3/§4.4) without
// requiring a profiler.
func newBlocksCmd() *cobra.Command {
	var entry, memSize, cacheCap uint
	var hotThreshold uint64
	cmd := &cobra.Command{
		Use:   "blocks [image.bin]",
		Short: "Run a program image and report block map/cache statistics",
		Args:  cobra.ExactArgs(1),
	}
	getExt := commonExtFlags(cmd)
	cmd.Flags().UintVar(&entry, "entry", 0, "entry PC, in the loaded image's address space")
	cmd.Flags().UintVar(&memSize, "mem", 1<<20, "flat memory image size in bytes")
	cmd.Flags().UintVar(&cacheCap, "cache-capacity", dispatch.DefaultCacheCapacity, "block cache capacity")
	cmd.Flags().Uint64Var(&hotThreshold, "hot-threshold", dispatch.DefaultHotThreshold, "access count at which a cached block is promoted to hot")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		ext := getExt()
		cfg := decode.Config{M: ext.m, A: ext.a, F: ext.f, C: ext.c, Zicsr: true, Zifencei: true}
		return blockStats(os.Stdout, args[0], uint32(entry), int(memSize), int(cacheCap), hotThreshold, cfg)
	}
	return cmd
}

func blockStats(w *os.File, fname string, entry uint32, memSize, cacheCap int, hotThreshold uint64, cfg decode.Config) error {
	data, err := os.ReadFile(fname)
	if err != nil {
		return fmt.Errorf("rv32ctl blocks: %w", err)
	}
	img := memimage.New(memSize)
	if err := img.Load(0, data); err != nil {
		return fmt.Errorf("rv32ctl blocks: %w", err)
	}

	h := hart.New(entry, cfg.C, img, ctlHooks{}, nil)
	eng := dispatch.New(img, ctlHooks{}, dispatch.Config{
		Ext:                cfg,
		BlockCacheCapacity: cacheCap,
		HotThreshold:       hotThreshold,
	})

	if err := eng.Run(h); err != nil {
		return fmt.Errorf("rv32ctl blocks: %w", err)
	}

	fmt.Fprintf(w, "blocks resident in map:   %d\n", eng.Map.Len())
	fmt.Fprintf(w, "blocks resident in cache: %d (capacity %d, hot threshold %d)\n",
		eng.Cache.Len(), cacheCap, hotThreshold)
	fmt.Fprintf(w, "entry block hot: %v\n", eng.Hot(entry))
	return nil
}
