// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package decode

import "github.com/rv32/rv32engine/isa"

// creg expands a compressed 3-bit register field (x8-x15) to a full index.
func creg(bits uint16) uint8 { return uint8(bits&0x7) + 8 }

func cSignExtend(v uint32, bits uint) int32 {
	shift := 32 - bits
	return int32(v<<shift) >> shift
}

// DecodeC decodes a 16-bit compressed instruction word fetched from pc.
func DecodeC(word uint16, pc uint32, cfg Config) *isa.Inst {
	in := &isa.Inst{PC: pc, Len: 2}
	w := uint32(word)
	op := word & 0x3
	funct3 := (word >> 13) & 0x7

	switch op {
	case 0x0:
		switch funct3 {
		case 0x0: // C.ADDI4SPN
			nzuimm := ((w >> 7) & 0xf) << 6
			nzuimm |= ((w >> 11) & 0x3) << 4
			nzuimm |= ((w >> 5) & 0x1) << 3
			nzuimm |= ((w >> 6) & 0x1) << 2
			if nzuimm == 0 {
				return illegal(pc, 2)
			}
			in.Tag, in.Rd, in.Rs1, in.Imm = isa.Addi, creg(word>>2), 2, int32(nzuimm)
		case 0x2: // C.LW
			off := cLoadStoreOffset(w)
			in.Tag, in.Rd, in.Rs1, in.Imm = isa.Lw, creg(word>>2), creg(word>>7), int32(off)
		case 0x3: // C.FLW
			if !cfg.F {
				return illegal(pc, 2)
			}
			off := cLoadStoreOffset(w)
			in.Tag, in.Rd, in.Rs1, in.Imm = isa.Flw, creg(word>>2), creg(word>>7), int32(off)
		case 0x6: // C.SW
			off := cLoadStoreOffset(w)
			in.Tag, in.Rs1, in.Rs2, in.Imm = isa.Sw, creg(word>>7), creg(word>>2), int32(off)
		case 0x7: // C.FSW
			if !cfg.F {
				return illegal(pc, 2)
			}
			off := cLoadStoreOffset(w)
			in.Tag, in.Rs1, in.Rs2, in.Imm = isa.Fsw, creg(word>>7), creg(word>>2), int32(off)
		default:
			return illegal(pc, 2)
		}
	case 0x1:
		switch funct3 {
		case 0x0: // C.ADDI (incl. C.NOP)
			imm := cAddiImm(w)
			rd := uint8((w >> 7) & 0x1f)
			in.Tag, in.Rd, in.Rs1, in.Imm = isa.Addi, rd, rd, imm
		case 0x1: // C.JAL (rd = x1)
			in.Tag, in.Rd, in.Imm = isa.Jal, 1, cJImm(w)
		case 0x2: // C.LI
			imm := cAddiImm(w)
			in.Tag, in.Rd, in.Rs1, in.Imm = isa.Addi, uint8((w>>7)&0x1f), 0, imm
		case 0x3:
			rd := uint8((w >> 7) & 0x1f)
			if rd == 2 { // C.ADDI16SP
				imm := cAddi16spImm(w)
				if imm == 0 {
					return illegal(pc, 2)
				}
				in.Tag, in.Rd, in.Rs1, in.Imm = isa.Addi, 2, 2, imm
			} else { // C.LUI
				v6 := ((w >> 12) & 1 << 5) | ((w >> 2) & 0x1f)
				imm := cSignExtend(v6, 6) << 12
				if imm == 0 || rd == 0 {
					return illegal(pc, 2)
				}
				in.Tag, in.Rd, in.Imm = isa.Lui, rd, imm
			}
		case 0x4:
			funct2 := (w >> 10) & 0x3
			rd := creg(word >> 7)
			switch funct2 {
			case 0x0: // C.SRLI
				if (w>>12)&1 != 0 {
					return illegal(pc, 2)
				}
				in.Tag, in.Rd, in.Rs1, in.Shamt = isa.Srli, rd, rd, uint8((w>>2)&0x1f)
			case 0x1: // C.SRAI
				if (w>>12)&1 != 0 {
					return illegal(pc, 2)
				}
				in.Tag, in.Rd, in.Rs1, in.Shamt = isa.Srai, rd, rd, uint8((w>>2)&0x1f)
			case 0x2: // C.ANDI
				imm := cAddiImm(w)
				in.Tag, in.Rd, in.Rs1, in.Imm = isa.Andi, rd, rd, imm
			case 0x3:
				if (w>>12)&1 != 0 {
					return illegal(pc, 2) // RV64/128 *W ops, reserved here
				}
				rs2 := creg(word >> 2)
				switch (w >> 5) & 0x3 {
				case 0x0:
					in.Tag, in.Rd, in.Rs1, in.Rs2 = isa.Sub, rd, rd, rs2
				case 0x1:
					in.Tag, in.Rd, in.Rs1, in.Rs2 = isa.Xor, rd, rd, rs2
				case 0x2:
					in.Tag, in.Rd, in.Rs1, in.Rs2 = isa.Or, rd, rd, rs2
				case 0x3:
					in.Tag, in.Rd, in.Rs1, in.Rs2 = isa.And, rd, rd, rs2
				}
			}
		case 0x5: // C.J
			in.Tag, in.Imm = isa.Jal, cJImm(w)
			in.Rd = 0
		case 0x6: // C.BEQZ
			in.Tag, in.Rs1, in.Rs2, in.Imm = isa.Beq, creg(word>>7), 0, cBImm(w)
		case 0x7: // C.BNEZ
			in.Tag, in.Rs1, in.Rs2, in.Imm = isa.Bne, creg(word>>7), 0, cBImm(w)
		}
	case 0x2:
		switch funct3 {
		case 0x0: // C.SLLI
			if (w>>12)&1 != 0 {
				return illegal(pc, 2)
			}
			rd := uint8((w >> 7) & 0x1f)
			in.Tag, in.Rd, in.Rs1, in.Shamt = isa.Slli, rd, rd, uint8((w>>2)&0x1f)
		case 0x2: // C.LWSP
			rd := uint8((w >> 7) & 0x1f)
			if rd == 0 {
				return illegal(pc, 2)
			}
			off := cSPLoadOffset(w)
			in.Tag, in.Rd, in.Rs1, in.Imm = isa.Lw, rd, 2, int32(off)
		case 0x3: // C.FLWSP
			if !cfg.F {
				return illegal(pc, 2)
			}
			rd := uint8((w >> 7) & 0x1f)
			off := cSPLoadOffset(w)
			in.Tag, in.Rd, in.Rs1, in.Imm = isa.Flw, rd, 2, int32(off)
		case 0x4:
			rd := uint8((w >> 7) & 0x1f)
			rs2 := uint8((w >> 2) & 0x1f)
			bit12 := (w >> 12) & 1
			switch {
			case bit12 == 0 && rs2 == 0: // C.JR
				if rd == 0 {
					return illegal(pc, 2)
				}
				in.Tag, in.Rs1, in.Imm = isa.Jalr, rd, 0
				in.Rd = 0
			case bit12 == 0: // C.MV
				in.Tag, in.Rd, in.Rs1, in.Rs2 = isa.Add, rd, 0, rs2
			case bit12 == 1 && rd == 0 && rs2 == 0: // C.EBREAK
				in.Tag = isa.Ebreak
			case bit12 == 1 && rs2 == 0: // C.JALR
				in.Tag, in.Rd, in.Rs1, in.Imm = isa.Jalr, 1, rd, 0
			default: // C.ADD
				in.Tag, in.Rd, in.Rs1, in.Rs2 = isa.Add, rd, rd, rs2
			}
		case 0x6: // C.SWSP
			rs2 := uint8((w >> 2) & 0x1f)
			off := cSPStoreOffset(w)
			in.Tag, in.Rs1, in.Rs2, in.Imm = isa.Sw, 2, rs2, int32(off)
		case 0x7: // C.FSWSP
			if !cfg.F {
				return illegal(pc, 2)
			}
			rs2 := uint8((w >> 2) & 0x1f)
			off := cSPStoreOffset(w)
			in.Tag, in.Rs1, in.Rs2, in.Imm = isa.Fsw, 2, rs2, int32(off)
		default:
			return illegal(pc, 2)
		}
	}
	return in
}

// cLoadStoreOffset decodes the C.LW/C.SW/C.FLW/C.FSW scaled-word offset:
// offset[5:3|2|6] = inst[12:10|6|5].
func cLoadStoreOffset(w uint32) uint32 {
	off := ((w >> 10) & 0x7) << 3
	off |= ((w >> 6) & 0x1) << 2
	off |= ((w >> 5) & 0x1) << 6
	return off
}

// cAddiImm decodes the common 6-bit sign-extended immediate shared by
// C.ADDI, C.LI and C.ANDI: imm[5]=inst[12], imm[4:0]=inst[6:2].
func cAddiImm(w uint32) int32 {
	v := ((w >> 12) & 1 << 5) | ((w >> 2) & 0x1f)
	return cSignExtend(v, 6)
}

// cJImm decodes the C.J/C.JAL offset: offset[11|4|9:8|10|6|7|3:1|5] =
// inst[12|11|10:9|8|7|6|5:3|2].
func cJImm(w uint32) int32 {
	v := ((w >> 12) & 1) << 11
	v |= ((w >> 11) & 1) << 4
	v |= ((w >> 9) & 0x3) << 8
	v |= ((w >> 8) & 1) << 10
	v |= ((w >> 7) & 1) << 6
	v |= ((w >> 6) & 1) << 7
	v |= ((w >> 3) & 0x7) << 1
	v |= ((w >> 2) & 1) << 5
	return cSignExtend(v, 12)
}

// cBImm decodes the C.BEQZ/C.BNEZ offset: offset[8|4:3|7:6|2:1|5] =
// inst[12|11:10|6:5|4:3|2].
func cBImm(w uint32) int32 {
	v := ((w >> 12) & 1) << 8
	v |= ((w >> 10) & 0x3) << 3
	v |= ((w >> 5) & 0x3) << 6
	v |= ((w >> 3) & 0x3) << 1
	v |= ((w >> 2) & 1) << 5
	return cSignExtend(v, 9)
}

// cAddi16spImm decodes C.ADDI16SP: nzimm[9|4|6|8:7|5] =
// inst[12|6|5|4:3|2].
func cAddi16spImm(w uint32) int32 {
	v := ((w >> 12) & 1) << 9
	v |= ((w >> 6) & 1) << 4
	v |= ((w >> 5) & 1) << 6
	v |= ((w >> 3) & 0x3) << 7
	v |= ((w >> 2) & 1) << 5
	return cSignExtend(v, 10)
}

// cSPLoadOffset decodes C.LWSP/C.FLWSP: offset[5|4:2|7:6] =
// inst[12|6:4|3:2].
func cSPLoadOffset(w uint32) uint32 {
	off := ((w >> 12) & 1) << 5
	off |= ((w >> 4) & 0x7) << 2
	off |= ((w >> 2) & 0x3) << 6
	return off
}

// cSPStoreOffset decodes C.SWSP/C.FSWSP: offset[5:2|7:6] = inst[12:9|8:7].
func cSPStoreOffset(w uint32) uint32 {
	off := ((w >> 9) & 0xf) << 2
	off |= ((w >> 7) & 0x3) << 6
	return off
}
