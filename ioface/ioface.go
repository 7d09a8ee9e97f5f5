// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ioface defines the contract the host must provide for the engine
// to touch guest memory and to be notified of ecall/ebreak: the engine
// itself owns no memory array and runs no syscalls.
package ioface

import "errors"

// ErrUnmapped may be returned by a Memory implementation to signal that an
// address is outside any mapped region. The engine does not itself
// synthesize a guest trap from this error; per the external-interface
// contract, reads to unmapped regions may instead simply return zero and
// writes may be silent no-ops, at the host's discretion.
var ErrUnmapped = errors.New("ioface: unmapped address")

// HartAccess is the view of hart state a Hooks implementation receives: full
// read/write access to registers, CSRs and PC, since a syscall handler
// ordinarily needs to both read arguments and write a return value. It is
// satisfied structurally by *hart.Hart; this package intentionally does not
// import hart, so that hart can hold a Memory/Hooks field without a cycle.
type HartAccess interface {
	PC() uint32
	SetPC(pc uint32)
	Cycle() uint64
	Reg(i int) uint32
	SetReg(i int, v uint32)
	FReg(i int) uint32
	SetFReg(i int, v uint32)
	CSR(addr uint16) uint32
	SetCSR(addr uint16, v uint32)
	Halt()
}

// Memory is the host-provided 32-bit flat address space. Addresses are
// unsigned 32-bit. Reads to unmapped regions should return zero and a nil
// error; writes to unmapped regions should be no-ops returning a nil error,
// unless the host wants the engine to treat the access as a trap, in which
// case it returns a non-nil error (surfaced to the driver per the error
// taxonomy, not synthesized into a guest trap by the engine).
type Memory interface {
	ReadB(addr uint32) (uint8, error)
	ReadH(addr uint32) (uint16, error)
	ReadW(addr uint32) (uint32, error)
	WriteB(addr uint32, v uint8) error
	WriteH(addr uint32, v uint16) error
	WriteW(addr uint32, v uint32) error
}

// Hooks is invoked by the engine on ECALL/EBREAK. By the time either method
// is called, hart state is fully committed: PC points at the faulting
// instruction and the cycle counter is up to date.
type Hooks interface {
	OnECall(h HartAccess) error
	OnEBreak(h HartAccess) error
}
