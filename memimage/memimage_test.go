// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package memimage

import (
	"errors"
	"testing"
)

func TestReadWriteWRoundTrip(t *testing.T) {
	img := New(16)
	if err := img.WriteW(0, 0xdeadbeef); err != nil {
		t.Fatalf("WriteW: %v", err)
	}
	got, err := img.ReadW(0)
	if err != nil {
		t.Fatalf("ReadW: %v", err)
	}
	if got != 0xdeadbeef {
		t.Fatalf("got %#x, want 0xdeadbeef", got)
	}
}

func TestLittleEndianByteOrder(t *testing.T) {
	img := New(16)
	if err := img.WriteW(0, 0x01020304); err != nil {
		t.Fatalf("WriteW: %v", err)
	}
	b0, _ := img.ReadB(0)
	b1, _ := img.ReadB(1)
	b2, _ := img.ReadB(2)
	b3, _ := img.ReadB(3)
	if b0 != 0x04 || b1 != 0x03 || b2 != 0x02 || b3 != 0x01 {
		t.Fatalf("got bytes %#x %#x %#x %#x, want 04 03 02 01", b0, b1, b2, b3)
	}
}

func TestOutOfBoundsAccessErrors(t *testing.T) {
	img := New(4)
	if _, err := img.ReadW(2); !errors.Is(err, ErrOutOfBounds) {
		t.Fatalf("ReadW past end: got %v, want ErrOutOfBounds", err)
	}
	if err := img.WriteB(10, 1); !errors.Is(err, ErrOutOfBounds) {
		t.Fatalf("WriteB past end: got %v, want ErrOutOfBounds", err)
	}
}

func TestLoadGrowsImage(t *testing.T) {
	img := New(4)
	data := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	if err := img.Load(4, data); err != nil {
		t.Fatalf("Load: %v", err)
	}
	got, err := img.ReadW(4)
	if err != nil {
		t.Fatalf("ReadW after grow: %v", err)
	}
	want := uint32(1) | uint32(2)<<8 | uint32(3)<<16 | uint32(4)<<24
	if got != want {
		t.Fatalf("got %#x, want %#x", got, want)
	}
}

func TestHalfWordRoundTrip(t *testing.T) {
	img := New(16)
	if err := img.WriteH(2, 0xbeef); err != nil {
		t.Fatalf("WriteH: %v", err)
	}
	got, err := img.ReadH(2)
	if err != nil {
		t.Fatalf("ReadH: %v", err)
	}
	if got != 0xbeef {
		t.Fatalf("got %#x, want 0xbeef", got)
	}
}
