// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package decode is the engine's pure decoder: a side-effect-free function
// from a raw 16- or 32-bit instruction word plus its PC to a fully
// populated isa.Inst. It never touches a Hart or the IO facade; the block
// builder is the one that drives fetch through the IO facade and hands
// decode its raw words.
package decode

import "github.com/rv32/rv32engine/isa"

// Config mirrors the subset of the engine's extension toggles the decoder
// needs: when an extension is disabled, the opcodes it would otherwise
// recognize decode to Illegal instead.
type Config struct {
	M        bool
	A        bool
	F        bool
	C        bool
	Zicsr    bool
	Zifencei bool
}

func signExtend(v uint32, bits uint) int32 {
	shift := 32 - bits
	return int32(v<<shift) >> shift
}

func illegal(pc uint32, len uint8) *isa.Inst {
	return &isa.Inst{Tag: isa.Illegal, PC: pc, Len: len}
}

// IsCompressed reports whether the low 2 bits of a word identify a 16-bit
// compressed encoding (quadrants 0, 1, 2 — quadrant 3, "11", is always a
// 32-bit instruction).
func IsCompressed(low16 uint16) bool {
	return low16&0x3 != 3
}

// Decode decodes a 32-bit instruction word fetched from pc.
func Decode(word uint32, pc uint32, cfg Config) *isa.Inst {
	in := &isa.Inst{PC: pc, Len: 4}

	opcode := word & 0x7f
	funct3 := (word >> 12) & 0x7
	funct7 := (word >> 25) & 0x7f
	rd := uint8((word >> 7) & 0x1f)
	rs1 := uint8((word >> 15) & 0x1f)
	rs2 := uint8((word >> 20) & 0x1f)
	rs3 := uint8((word >> 27) & 0x1f)

	iImm := signExtend(word>>20, 12)
	sImm := signExtend(((word>>25)<<5)|((word>>7)&0x1f), 12)
	bImm := signExtend(
		(((word>>31)&1)<<12)|(((word>>7)&1)<<11)|(((word>>25)&0x3f)<<5)|(((word>>8)&0xf)<<1),
		13,
	)
	uImm := int32(word & 0xfffff000)
	jImm := signExtend(
		(((word>>31)&1)<<20)|(((word>>12)&0xff)<<12)|(((word>>20)&1)<<11)|(((word>>21)&0x3ff)<<1),
		21,
	)
	shamt := uint8((word >> 20) & 0x1f)

	switch opcode {
	case 0x37: // LUI
		in.Tag, in.Rd, in.Imm = isa.Lui, rd, uImm
	case 0x17: // AUIPC
		in.Tag, in.Rd, in.Imm = isa.Auipc, rd, uImm
	case 0x6f: // JAL
		in.Tag, in.Rd, in.Imm = isa.Jal, rd, jImm
	case 0x67: // JALR
		if funct3 != 0 {
			return illegal(pc, 4)
		}
		in.Tag, in.Rd, in.Rs1, in.Imm = isa.Jalr, rd, rs1, iImm
	case 0x63: // BRANCH
		tag, ok := branchTag(funct3)
		if !ok {
			return illegal(pc, 4)
		}
		in.Tag, in.Rs1, in.Rs2, in.Imm = tag, rs1, rs2, bImm
	case 0x03: // LOAD
		tag, ok := loadTag(funct3)
		if !ok {
			return illegal(pc, 4)
		}
		in.Tag, in.Rd, in.Rs1, in.Imm = tag, rd, rs1, iImm
	case 0x23: // STORE
		tag, ok := storeTag(funct3)
		if !ok {
			return illegal(pc, 4)
		}
		in.Tag, in.Rs1, in.Rs2, in.Imm = tag, rs1, rs2, sImm
	case 0x13: // OP-IMM
		switch funct3 {
		case 0x0:
			in.Tag, in.Rd, in.Rs1, in.Imm = isa.Addi, rd, rs1, iImm
		case 0x2:
			in.Tag, in.Rd, in.Rs1, in.Imm = isa.Slti, rd, rs1, iImm
		case 0x3:
			in.Tag, in.Rd, in.Rs1, in.Imm = isa.Sltiu, rd, rs1, iImm
		case 0x4:
			in.Tag, in.Rd, in.Rs1, in.Imm = isa.Xori, rd, rs1, iImm
		case 0x6:
			in.Tag, in.Rd, in.Rs1, in.Imm = isa.Ori, rd, rs1, iImm
		case 0x7:
			in.Tag, in.Rd, in.Rs1, in.Imm = isa.Andi, rd, rs1, iImm
		case 0x1:
			if funct7 != 0 {
				return illegal(pc, 4)
			}
			in.Tag, in.Rd, in.Rs1, in.Shamt = isa.Slli, rd, rs1, shamt
		case 0x5:
			switch funct7 {
			case 0x00:
				in.Tag, in.Rd, in.Rs1, in.Shamt = isa.Srli, rd, rs1, shamt
			case 0x20:
				in.Tag, in.Rd, in.Rs1, in.Shamt = isa.Srai, rd, rs1, shamt
			default:
				return illegal(pc, 4)
			}
		}
	case 0x33: // OP
		switch {
		case funct7 == 0x00:
			tag, ok := opTag(funct3)
			if !ok {
				return illegal(pc, 4)
			}
			in.Tag, in.Rd, in.Rs1, in.Rs2 = tag, rd, rs1, rs2
		case funct7 == 0x20:
			switch funct3 {
			case 0x0:
				in.Tag, in.Rd, in.Rs1, in.Rs2 = isa.Sub, rd, rs1, rs2
			case 0x5:
				in.Tag, in.Rd, in.Rs1, in.Rs2 = isa.Sra, rd, rs1, rs2
			default:
				return illegal(pc, 4)
			}
		case funct7 == 0x01:
			if !cfg.M {
				return illegal(pc, 4)
			}
			tag, ok := mulDivTag(funct3)
			if !ok {
				return illegal(pc, 4)
			}
			in.Tag, in.Rd, in.Rs1, in.Rs2 = tag, rd, rs1, rs2
		default:
			return illegal(pc, 4)
		}
	case 0x0f: // MISC-MEM
		switch funct3 {
		case 0x0:
			in.Tag = isa.Fence
		case 0x1:
			if !cfg.Zifencei {
				return illegal(pc, 4)
			}
			in.Tag = isa.FenceI
		default:
			return illegal(pc, 4)
		}
	case 0x73: // SYSTEM
		decodeSystem(word, in, cfg)
		if in.Tag == isa.Illegal {
			return illegal(pc, 4)
		}
	case 0x2f: // AMO
		if !cfg.A {
			return illegal(pc, 4)
		}
		if funct3 != 0x2 {
			return illegal(pc, 4)
		}
		tag, ok := amoTag(word >> 27)
		if !ok {
			return illegal(pc, 4)
		}
		in.Tag, in.Rd, in.Rs1, in.Rs2 = tag, rd, rs1, rs2
	case 0x07: // LOAD-FP
		if !cfg.F || funct3 != 0x2 {
			return illegal(pc, 4)
		}
		in.Tag, in.Rd, in.Rs1, in.Imm = isa.Flw, rd, rs1, iImm
	case 0x27: // STORE-FP
		if !cfg.F || funct3 != 0x2 {
			return illegal(pc, 4)
		}
		in.Tag, in.Rs1, in.Rs2, in.Imm = isa.Fsw, rs1, rs2, sImm
	case 0x43, 0x47, 0x4b, 0x4f: // FMADD/FMSUB/FNMSUB/FNMADD
		if !cfg.F {
			return illegal(pc, 4)
		}
		in.Tag = fusedTag(opcode)
		in.Rd, in.Rs1, in.Rs2, in.Rs3, in.Rm = rd, rs1, rs2, rs3, uint8(funct3)
	case 0x53: // OP-FP
		if !cfg.F {
			return illegal(pc, 4)
		}
		if !decodeOpFP(word, in, funct7, funct3, uint32(rd), uint32(rs1), uint32(rs2)) {
			return illegal(pc, 4)
		}
	default:
		return illegal(pc, 4)
	}
	return in
}

func branchTag(funct3 uint32) (isa.Tag, bool) {
	switch funct3 {
	case 0x0:
		return isa.Beq, true
	case 0x1:
		return isa.Bne, true
	case 0x4:
		return isa.Blt, true
	case 0x5:
		return isa.Bge, true
	case 0x6:
		return isa.Bltu, true
	case 0x7:
		return isa.Bgeu, true
	}
	return 0, false
}

func loadTag(funct3 uint32) (isa.Tag, bool) {
	switch funct3 {
	case 0x0:
		return isa.Lb, true
	case 0x1:
		return isa.Lh, true
	case 0x2:
		return isa.Lw, true
	case 0x4:
		return isa.Lbu, true
	case 0x5:
		return isa.Lhu, true
	}
	return 0, false
}

func storeTag(funct3 uint32) (isa.Tag, bool) {
	switch funct3 {
	case 0x0:
		return isa.Sb, true
	case 0x1:
		return isa.Sh, true
	case 0x2:
		return isa.Sw, true
	}
	return 0, false
}

func opTag(funct3 uint32) (isa.Tag, bool) {
	switch funct3 {
	case 0x0:
		return isa.Add, true
	case 0x1:
		return isa.Sll, true
	case 0x2:
		return isa.Slt, true
	case 0x3:
		return isa.Sltu, true
	case 0x4:
		return isa.Xor, true
	case 0x5:
		return isa.Srl, true
	case 0x6:
		return isa.Or, true
	case 0x7:
		return isa.And, true
	}
	return 0, false
}

func mulDivTag(funct3 uint32) (isa.Tag, bool) {
	switch funct3 {
	case 0x0:
		return isa.Mul, true
	case 0x1:
		return isa.Mulh, true
	case 0x2:
		return isa.Mulhsu, true
	case 0x3:
		return isa.Mulhu, true
	case 0x4:
		return isa.Div, true
	case 0x5:
		return isa.Divu, true
	case 0x6:
		return isa.Rem, true
	case 0x7:
		return isa.Remu, true
	}
	return 0, false
}

func amoTag(funct5 uint32) (isa.Tag, bool) {
	switch funct5 & 0x1f {
	case 0x02:
		return isa.LrW, true
	case 0x03:
		return isa.ScW, true
	case 0x01:
		return isa.AmoswapW, true
	case 0x00:
		return isa.AmoaddW, true
	case 0x04:
		return isa.AmoxorW, true
	case 0x0c:
		return isa.AmoandW, true
	case 0x08:
		return isa.AmoorW, true
	case 0x10:
		return isa.AmominW, true
	case 0x14:
		return isa.AmomaxW, true
	case 0x18:
		return isa.AmominuW, true
	case 0x1c:
		return isa.AmomaxuW, true
	}
	return 0, false
}

func fusedTag(opcode uint32) isa.Tag {
	switch opcode {
	case 0x43:
		return isa.FmaddS
	case 0x47:
		return isa.FmsubS
	case 0x4b:
		return isa.FnmsubS
	default:
		return isa.FnmaddS
	}
}

func decodeOpFP(word uint32, in *isa.Inst, funct7, funct3, rd, rs1, rs2 uint32) bool {
	in.Rd, in.Rs1, in.Rs2, in.Rm = uint8(rd), uint8(rs1), uint8(rs2), uint8(funct3)
	switch funct7 {
	case 0x00:
		in.Tag = isa.FaddS
	case 0x04:
		in.Tag = isa.FsubS
	case 0x08:
		in.Tag = isa.FmulS
	case 0x0c:
		in.Tag = isa.FdivS
	case 0x2c:
		if rs2 != 0 {
			return false
		}
		in.Tag = isa.FsqrtS
	case 0x10:
		switch funct3 {
		case 0x0:
			in.Tag = isa.FsgnjS
		case 0x1:
			in.Tag = isa.FsgnjnS
		case 0x2:
			in.Tag = isa.FsgnjxS
		default:
			return false
		}
	case 0x14:
		switch funct3 {
		case 0x0:
			in.Tag = isa.FminS
		case 0x1:
			in.Tag = isa.FmaxS
		default:
			return false
		}
	case 0x60:
		switch rs2 {
		case 0:
			in.Tag = isa.FcvtWS
		case 1:
			in.Tag = isa.FcvtWuS
		default:
			return false
		}
	case 0x70:
		if rs2 != 0 {
			return false
		}
		switch funct3 {
		case 0x0:
			in.Tag = isa.FmvXW
		case 0x1:
			in.Tag = isa.FclassS
		default:
			return false
		}
	case 0x50:
		switch funct3 {
		case 0x2:
			in.Tag = isa.FeqS
		case 0x1:
			in.Tag = isa.FltS
		case 0x0:
			in.Tag = isa.FleS
		default:
			return false
		}
	case 0x68:
		switch rs2 {
		case 0:
			in.Tag = isa.FcvtSW
		case 1:
			in.Tag = isa.FcvtSWu
		default:
			return false
		}
	case 0x78:
		if rs2 != 0 || funct3 != 0 {
			return false
		}
		in.Tag = isa.FmvWX
	default:
		return false
	}
	return true
}

func decodeSystem(word uint32, in *isa.Inst, cfg Config) {
	funct3 := (word >> 12) & 0x7
	rd := uint8((word >> 7) & 0x1f)
	rs1 := uint8((word >> 15) & 0x1f)
	csr := uint16((word >> 20) & 0xfff)

	if funct3 == 0 {
		switch word >> 20 {
		case 0x0:
			in.Tag = isa.Ecall
		case 0x1:
			in.Tag = isa.Ebreak
		case 0x002:
			in.Tag = isa.Uret
		case 0x102:
			in.Tag = isa.Sret
		case 0x202:
			in.Tag = isa.Hret
		case 0x302:
			in.Tag = isa.Mret
		case 0x105:
			in.Tag = isa.Wfi
		default:
			in.Tag = isa.Illegal
		}
		return
	}

	if !cfg.Zicsr {
		in.Tag = isa.Illegal
		return
	}
	switch funct3 {
	case 0x1:
		in.Tag = isa.Csrrw
	case 0x2:
		in.Tag = isa.Csrrs
	case 0x3:
		in.Tag = isa.Csrrc
	case 0x5:
		in.Tag = isa.Csrrwi
	case 0x6:
		in.Tag = isa.Csrrsi
	case 0x7:
		in.Tag = isa.Csrrci
	default:
		in.Tag = isa.Illegal
		return
	}
	in.Rd = rd
	in.Rs1 = rs1 // for immediate forms this holds the 5-bit unsigned immediate, interpreted by the handler
	in.Imm = int32(csr)
}
