// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package jit

import "testing"

// These tests check only that the backend assembles non-empty machine code
// without error and that CodeAllocator places it correctly; actually
// invoking the generated code needs a calling-convention trampoline
// (compile/native_exec.go's jitcall, a hand-written .s stub) that this
// narrow, unwired-into-dispatch backend doesn't carry.

func TestBuildAddEmitsCode(t *testing.T) {
	b := &AMD64Backend{}
	code, err := b.BuildAdd(3, 1, 2)
	if err != nil {
		t.Fatalf("BuildAdd: %v", err)
	}
	if len(code) == 0 {
		t.Fatal("expected non-empty machine code")
	}
}

func TestBuildAddiEmitsCode(t *testing.T) {
	b := &AMD64Backend{}
	code, err := b.BuildAddi(2, 1, 42)
	if err != nil {
		t.Fatalf("BuildAddi: %v", err)
	}
	if len(code) == 0 {
		t.Fatal("expected non-empty machine code")
	}
}

func TestBuildLuiEmitsCode(t *testing.T) {
	b := &AMD64Backend{}
	code, err := b.BuildLui(5, 0x1000)
	if err != nil {
		t.Fatalf("BuildLui: %v", err)
	}
	if len(code) == 0 {
		t.Fatal("expected non-empty machine code")
	}
}

func TestStoreGuestRegSkipsX0(t *testing.T) {
	b := &AMD64Backend{}
	withX0, err := b.BuildAdd(0, 1, 2)
	if err != nil {
		t.Fatalf("BuildAdd: %v", err)
	}
	withRd, err := b.BuildAdd(3, 1, 2)
	if err != nil {
		t.Fatalf("BuildAdd: %v", err)
	}
	if len(withX0) >= len(withRd) {
		t.Fatal("expected the rd=x0 encoding to omit the store and be shorter")
	}
}

func TestCodeAllocatorPlacesAndReturnsExactSlice(t *testing.T) {
	a := &CodeAllocator{}
	defer a.Close()

	code := []byte{0x90, 0x90, 0x90, 0xc3} // nop nop nop ret
	placed, err := a.AllocateExec(code)
	if err != nil {
		t.Fatalf("AllocateExec: %v", err)
	}
	if len(placed) != len(code) {
		t.Fatalf("got len %d, want %d", len(placed), len(code))
	}
	for i, b := range code {
		if placed[i] != b {
			t.Fatalf("byte %d: got %#x, want %#x", i, placed[i], b)
		}
	}
}

func TestCodeAllocatorReusesRegionUntilExhausted(t *testing.T) {
	a := &CodeAllocator{}
	defer a.Close()

	first, err := a.AllocateExec([]byte{0xc3})
	if err != nil {
		t.Fatalf("AllocateExec: %v", err)
	}
	second, err := a.AllocateExec([]byte{0xc3})
	if err != nil {
		t.Fatalf("AllocateExec: %v", err)
	}
	if len(a.regions) != 1 {
		t.Fatalf("got %d regions, want 1 (both allocations should share the first page)", len(a.regions))
	}
	if &first[0] == &second[0] {
		t.Fatal("expected distinct byte offsets within the shared region")
	}
}

func TestCodeAllocatorStartsNewRegionWhenOversized(t *testing.T) {
	a := &CodeAllocator{}
	defer a.Close()

	big := make([]byte, minAllocSize+1)
	if _, err := a.AllocateExec(big); err != nil {
		t.Fatalf("AllocateExec: %v", err)
	}
	if len(a.regions) != 1 {
		t.Fatalf("got %d regions, want 1", len(a.regions))
	}
}
