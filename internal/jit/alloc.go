// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package jit

import (
	"fmt"

	"github.com/edsrzf/mmap-go"
)

// minAllocSize and allocationAlignment mirror
// exec/internal/compile/allocator_test.go's MMapAllocator: code units are
// bump-allocated out of minAllocSize-byte mmap'd pages, 8-byte aligned,
// so a small unit never costs a full mmap syscall of its own.
const (
	minAllocSize        = 32 * 1024
	allocationAlignment = 8
)

type region struct {
	mem       mmap.MMap
	consumed  uint32
	remaining uint32
}

// CodeAllocator bump-allocates executable pages for compiled units,
// grounded on compile.MMapAllocator's pattern over github.com/edsrzf/mmap-go
// (that implementation wasn't itself present in the retrieved source, only
// its test; the bump-allocation shape here reproduces what the test
// observes: consumed/remaining byte counters advancing per allocation,
// falling back to a dedicated mapping for anything bigger than a page).
type CodeAllocator struct {
	regions []*region
	last    *region
}

// AllocateExec copies code into an executable page and returns a view
// of it. The returned slice must not be written to
// after this call; mmap-go maps pages with RDWR|EXEC to let a backend
// write generated code in place, which is acceptable here only because
// callers finish emitting entirely before CodeAllocator runs.
func (a *CodeAllocator) AllocateExec(code []byte) ([]byte, error) {
	n := uint32(len(code))
	aligned := (n + allocationAlignment - 1) &^ (allocationAlignment - 1)

	if a.last == nil || a.last.remaining < aligned {
		size := uint32(minAllocSize)
		if aligned > size {
			size = aligned
		}
		m, err := mmap.MapRegion(nil, int(size), mmap.RDWR|mmap.EXEC, mmap.ANON, 0)
		if err != nil {
			return nil, fmt.Errorf("jit: mmap executable region: %w", err)
		}
		r := &region{mem: m, remaining: size}
		a.regions = append(a.regions, r)
		a.last = r
	}

	r := a.last
	start := r.consumed
	copy(r.mem[start:], code)
	r.consumed += aligned
	r.remaining -= aligned
	return r.mem[start : start+n], nil
}

// Close unmaps every region this allocator ever handed out. Must only be
// called once every CodeUnit built from this allocator is done running.
func (a *CodeAllocator) Close() error {
	var firstErr error
	for _, r := range a.regions {
		if err := r.mem.Unmap(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	a.regions = nil
	a.last = nil
	return firstErr
}
