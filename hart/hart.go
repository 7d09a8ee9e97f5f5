// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package hart holds the emulated CPU context: the register file, CSRs,
// program counter and cycle counter, plus the host-provided IO facade
// reference. Everything here is plain mutable data synchronously owned by
// whichever goroutine is running the dispatcher (see spec §5) — nothing in
// this package takes a lock.
package hart

import (
	"io"
	"log/slog"

	"github.com/rv32/rv32engine/ioface"
)

// Machine-mode CSR addresses this engine implements (RISC-V privileged
// spec v20211203, the minimal subset needed for U-mode-with-traps per
// the engine's scope).
const (
	CSRFFlags  uint16 = 0x001
	CSRFrm     uint16 = 0x002
	CSRFcsr    uint16 = 0x003
	CSRCycle   uint16 = 0xC00
	CSRCycleH  uint16 = 0xC80
	CSRMstatus uint16 = 0x300
	CSRMisa    uint16 = 0x301
	CSRMtvec   uint16 = 0x305
	CSRMepc    uint16 = 0x341
	CSRMcause  uint16 = 0x342
	CSRMtval   uint16 = 0x343
	CSRMhartid uint16 = 0xF14
)

// mstatus bit positions relevant to the minimal M-mode trap machinery this
// engine carries.
const (
	MstatusMIE  uint32 = 1 << 3
	MstatusMPIE uint32 = 1 << 7
)

const numCSR = 1 << 12

// Hart is the emulated CPU: register file, optional float file, PC, CSRs,
// cycle counter and status flags. It is the exclusive owner of its own
// mutation; the dispatcher is the only caller that mutates it while running.
type Hart struct {
	X [32]uint32
	F [32]uint32 // single-precision bit patterns; no D extension, so F registers are 32 bits wide and FMV.W.X/FMV.X.W move raw bits without NaN-boxing.

	pc    uint32
	cycle uint64
	csr   [numCSR]uint32

	Compressed bool // EXT_C: affects the minimum instruction alignment a jump/branch target must satisfy
	Halted     bool

	Mem   ioface.Memory
	Hooks ioface.Hooks
	Log   *slog.Logger
}

// New constructs a Hart at the given entry PC. mem and hooks must be
// non-nil; log may be nil, in which case a discard logger is installed.
func New(entry uint32, compressed bool, mem ioface.Memory, hooks ioface.Hooks, log *slog.Logger) *Hart {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	h := &Hart{
		pc:         entry,
		Compressed: compressed,
		Mem:        mem,
		Hooks:      hooks,
		Log:        log,
	}
	h.csr[CSRMisa] = misaValue(compressed)
	return h
}

func misaValue(compressed bool) uint32 {
	const base = uint32(1<<8 | 1<<12 | 1<<0 | 1<<5) // I, M, A, F bits; engine enables per Config, misa just advertises the full build
	v := uint32(1<<30) | base                       // MXL=1 (32-bit) in bits [31:30]
	if compressed {
		v |= 1 << 2
	}
	return v
}

// PC returns the program counter.
func (h *Hart) PC() uint32 { return h.pc }

// SetPC sets the program counter.
func (h *Hart) SetPC(pc uint32) { h.pc = pc }

// Cycle returns the committed cycle counter.
func (h *Hart) Cycle() uint64 { return h.cycle }

// AddCycles advances the cycle counter; called by the dispatcher on every
// yield so the observable count is monotonic at every return (spec §4.7).
func (h *Hart) AddCycles(n uint64) { h.cycle += n }

// Reg returns X[i]; X[0] always reads as zero.
func (h *Hart) Reg(i int) uint32 {
	if i == 0 {
		return 0
	}
	return h.X[i&31]
}

// SetReg writes X[i]; writes to X[0] are discarded.
func (h *Hart) SetReg(i int, v uint32) {
	if i == 0 {
		return
	}
	h.X[i&31] = v
}

// FReg returns F[i].
func (h *Hart) FReg(i int) uint32 { return h.F[i&31] }

// SetFReg writes F[i]. Unlike X, F[0] is an ordinary register.
func (h *Hart) SetFReg(i int, v uint32) { h.F[i&31] = v }

// CSR reads a control/status register by its 12-bit address.
func (h *Hart) CSR(addr uint16) uint32 {
	switch addr {
	case CSRCycle:
		return uint32(h.cycle)
	case CSRCycleH:
		return uint32(h.cycle >> 32)
	default:
		return h.csr[addr&0xFFF]
	}
}

// SetCSR writes a control/status register. Writes to the read-only cycle
// shadows are ignored, matching real hardware (cycle is mcycle-derived and
// not writable through the unprivileged view this engine exposes).
func (h *Hart) SetCSR(addr uint16, v uint32) {
	switch addr {
	case CSRCycle, CSRCycleH:
		return
	default:
		h.csr[addr&0xFFF] = v
	}
}

// Halt marks the hart halted; the dispatcher checks this after every yield
// and stops driving the hart once set. Hooks may call this directly (e.g.
// an exit syscall) via the ioface.HartAccess view.
func (h *Hart) Halt() { h.Halted = true }
