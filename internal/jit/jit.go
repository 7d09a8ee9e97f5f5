// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package jit specifies the engine's abstract JIT emitter contract
// (spec §9's "shared table driving interpreter and JIT" design note).
// The full tier-1 x86-64 code generator is explicitly out of scope
// (spec §1: "the backend itself is out of scope") — only its abstract
// instruction template is, and this package models that template as a
// Go interface plus a narrow AMD64 backend that actually emits machine
// code for the handful of opcodes the Operation Table (package ops)
// marks JIT-eligible. Every opcode not covered by Emitter falls back to
// the interpreter; there is no requirement that the JIT ever run.
package jit

// Reg is an abstract integer register operand: either a guest X register
// index or a scratch register the backend is free to allocate however
// it likes.
type Reg uint8

// Op enumerates the abstract recipe spec §9 names as the JIT backend's
// public contract: ld, st, alu32, jcc, set_jmp_off, jmp_off, cond/end,
// call, exit, mem.
type Op uint8

const (
	OpLd Op = iota
	OpSt
	OpAlu32
	OpJcc
	OpSetJmpOff
	OpJmpOff
	OpCond
	OpEnd
	OpCall
	OpExit
	OpMem
)

// Alu32Kind narrows OpAlu32 to the specific ALU operation to perform;
// the recipe itself is generic over which 32-bit integer op runs.
type Alu32Kind uint8

const (
	AluAdd Alu32Kind = iota
	AluSub
	AluAnd
	AluOr
	AluXor
)

// Emitter is the abstract instruction sink a JIT backend exposes. A
// backend need not support every opcode tag; this package has no
// compile driver over it, and ops without native code run through their
// interpreter handlers.
type Emitter interface {
	// Ld emits "load guest register src into scratch/dst".
	Ld(dst, src Reg)
	// St emits "store scratch/src into guest register dst".
	St(dst, src Reg)
	// Alu32 emits a 32-bit ALU op combining a and b into dst.
	Alu32(kind Alu32Kind, dst, a, b Reg)
	// Imm32 emits "load a 32-bit immediate into dst", the recipe's ld
	// variant for constants (LUI/AUIPC/ADDI's immediate operand).
	Imm32(dst Reg, v int32)
	// Mem emits a guest memory access (width in bytes, 1/2/4; store
	// when isStore is true) through the IO facade trampoline.
	Mem(width int, isStore bool, addr, value Reg)
	// Jcc/SetJmpOff/JmpOff/Cond/End implement the control-flow half of
	// the recipe: conditional and unconditional jumps within the
	// emitted unit, with two-pass offset patching exactly like
	// compile.Compile's OpJmp/OpJmpNz/patchOffset dance.
	Jcc(cond Alu32Kind, a, b Reg)
	SetJmpOff()
	JmpOff()
	Cond()
	End()
	// Call emits a call out to a host trampoline (ECALL/EBREAK hooks).
	Call(target uintptr)
	// Exit emits the unit's return to the interpreter trampoline.
	Exit()
}

// CodeUnit is a finished, runnable compiled unit.
type CodeUnit interface {
	// Invoke runs the compiled code over the given register file,
	// returning the exit PC.
	Invoke(regs *[32]uint32) (exitPC uint32)
}
