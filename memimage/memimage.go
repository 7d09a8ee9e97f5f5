// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package memimage provides the default flat 32-bit memory image the
// command-line tools use to host a guest program (spec §6: "a 32-bit
// flat memory image; entry PC is supplied by the host. The engine does
// not read ELF"). It implements ioface.Memory directly over a []byte,
// grounded on exec/memory.go's linear-memory bounds checking
// (vm.inBounds / ErrOutOfBoundsMemoryAccess), generalized from a
// WebAssembly-page-granular memory to a single flat byte slice sized at
// construction time.
package memimage

import (
	"encoding/binary"
	"fmt"
)

// ErrOutOfBounds is returned by any access whose address range falls
// outside the image.
var ErrOutOfBounds = fmt.Errorf("memimage: out of bounds memory access")

// Image is a flat, little-endian, bounds-checked byte array.
type Image struct {
	bytes []byte
}

// New returns an Image of the given size, zero-initialized.
func New(size int) *Image {
	return &Image{bytes: make([]byte, size)}
}

// Load copies data into the image starting at addr, growing the
// backing array if necessary. Intended for the CLI to seed a program
// image before a run starts; not part of ioface.Memory.
func (m *Image) Load(addr uint32, data []byte) error {
	end := uint64(addr) + uint64(len(data))
	if end > uint64(len(m.bytes)) {
		grown := make([]byte, end)
		copy(grown, m.bytes)
		m.bytes = grown
	}
	copy(m.bytes[addr:], data)
	return nil
}

func (m *Image) inBounds(addr uint32, width uint32) bool {
	end := uint64(addr) + uint64(width)
	return end <= uint64(len(m.bytes))
}

func (m *Image) ReadB(addr uint32) (uint8, error) {
	if !m.inBounds(addr, 1) {
		return 0, fmt.Errorf("%w: read8 at %#x", ErrOutOfBounds, addr)
	}
	return m.bytes[addr], nil
}

func (m *Image) ReadH(addr uint32) (uint16, error) {
	if !m.inBounds(addr, 2) {
		return 0, fmt.Errorf("%w: read16 at %#x", ErrOutOfBounds, addr)
	}
	return binary.LittleEndian.Uint16(m.bytes[addr:]), nil
}

func (m *Image) ReadW(addr uint32) (uint32, error) {
	if !m.inBounds(addr, 4) {
		return 0, fmt.Errorf("%w: read32 at %#x", ErrOutOfBounds, addr)
	}
	return binary.LittleEndian.Uint32(m.bytes[addr:]), nil
}

func (m *Image) WriteB(addr uint32, v uint8) error {
	if !m.inBounds(addr, 1) {
		return fmt.Errorf("%w: write8 at %#x", ErrOutOfBounds, addr)
	}
	m.bytes[addr] = v
	return nil
}

func (m *Image) WriteH(addr uint32, v uint16) error {
	if !m.inBounds(addr, 2) {
		return fmt.Errorf("%w: write16 at %#x", ErrOutOfBounds, addr)
	}
	binary.LittleEndian.PutUint16(m.bytes[addr:], v)
	return nil
}

func (m *Image) WriteW(addr uint32, v uint32) error {
	if !m.inBounds(addr, 4) {
		return fmt.Errorf("%w: write32 at %#x", ErrOutOfBounds, addr)
	}
	binary.LittleEndian.PutUint32(m.bytes[addr:], v)
	return nil
}
