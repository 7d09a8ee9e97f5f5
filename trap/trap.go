// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package trap implements the Trap Unit (spec §4.8/§7): it commits the
// architectural fault state (mepc, mcause, mtval, mstatus) and decides
// whether control vectors into a configured trap handler or halts with a
// diagnostic, since this is U-mode emulation with only the minimal
// M-mode machinery needed to take a trap.
package trap

import "github.com/rv32/rv32engine/hart"

// Standard mcause codes for the exceptions this engine can raise (RISC-V
// privileged spec v20211203, table 3.6; the interrupt bit is always 0
// here since this engine raises no asynchronous interrupts).
const (
	CauseInstrAddrMisaligned uint32 = 0
	CauseIllegalInstruction  uint32 = 2
	CauseBreakpoint          uint32 = 3
	CauseLoadAddrMisaligned  uint32 = 4
	CauseStoreAddrMisaligned uint32 = 6
	CauseECallFromUMode      uint32 = 8
)

// Vector optionally redirects control on a trap. When nil, the default
// policy applies: surface the trap to the host by halting with a
// diagnostic rather than vectoring into M-mode code (spec §4.8).
type Vector struct {
	Addr uint32
}

// Raise commits hart fault state for cause at the faulting PC, with tval
// carrying the faulting address or instruction word per RISC-V convention.
// If vec is non-nil, PC is redirected there and mstatus's MPIE/MIE bits
// are updated per the machine-mode trap-entry sequence; otherwise the hart
// is halted so the host can inspect the diagnostic CSRs.
func Raise(h *hart.Hart, cause, tval uint32, vec *Vector) {
	h.SetCSR(hart.CSRMepc, h.PC())
	h.SetCSR(hart.CSRMcause, cause)
	h.SetCSR(hart.CSRMtval, tval)

	status := h.CSR(hart.CSRMstatus)
	if status&hart.MstatusMIE != 0 {
		status |= hart.MstatusMPIE
	} else {
		status &^= hart.MstatusMPIE
	}
	status &^= hart.MstatusMIE
	h.SetCSR(hart.CSRMstatus, status)

	if vec != nil {
		h.SetPC(vec.Addr)
		return
	}
	h.Halted = true
}
