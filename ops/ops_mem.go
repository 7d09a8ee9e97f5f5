// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ops

import (
	"github.com/rv32/rv32engine/isa"
	"github.com/rv32/rv32engine/trap"
)

func init() {
	reg(isa.Lb, hLb, false)
	reg(isa.Lh, hLh, false)
	reg(isa.Lw, hLw, true)
	reg(isa.Lbu, hLbu, false)
	reg(isa.Lhu, hLhu, false)
	reg(isa.Sb, hSb, false)
	reg(isa.Sh, hSh, false)
	reg(isa.Sw, hSw, true)
}

func ioFault(ctx *isa.Ctx, err error) (*isa.Inst, isa.Outcome) {
	ctx.IOErr = err
	return nil, isa.IOFault
}

func hLb(ctx *isa.Ctx, in *isa.Inst) (*isa.Inst, isa.Outcome) {
	addr := ctx.Hart.Reg(int(in.Rs1)) + uint32(in.Imm)
	v, err := ctx.Mem.ReadB(addr)
	if err != nil {
		return ioFault(ctx, err)
	}
	ctx.Hart.SetReg(int(in.Rd), uint32(int32(int8(v))))
	return fallthroughNext(ctx, in)
}

func hLbu(ctx *isa.Ctx, in *isa.Inst) (*isa.Inst, isa.Outcome) {
	addr := ctx.Hart.Reg(int(in.Rs1)) + uint32(in.Imm)
	v, err := ctx.Mem.ReadB(addr)
	if err != nil {
		return ioFault(ctx, err)
	}
	ctx.Hart.SetReg(int(in.Rd), uint32(v))
	return fallthroughNext(ctx, in)
}

func hLh(ctx *isa.Ctx, in *isa.Inst) (*isa.Inst, isa.Outcome) {
	addr := ctx.Hart.Reg(int(in.Rs1)) + uint32(in.Imm)
	if addr&1 != 0 {
		trap.Raise(ctx.Hart, trap.CauseLoadAddrMisaligned, addr, ctx.Vec)
		return nil, isa.Trapped
	}
	v, err := ctx.Mem.ReadH(addr)
	if err != nil {
		return ioFault(ctx, err)
	}
	ctx.Hart.SetReg(int(in.Rd), uint32(int32(int16(v))))
	return fallthroughNext(ctx, in)
}

func hLhu(ctx *isa.Ctx, in *isa.Inst) (*isa.Inst, isa.Outcome) {
	addr := ctx.Hart.Reg(int(in.Rs1)) + uint32(in.Imm)
	if addr&1 != 0 {
		trap.Raise(ctx.Hart, trap.CauseLoadAddrMisaligned, addr, ctx.Vec)
		return nil, isa.Trapped
	}
	v, err := ctx.Mem.ReadH(addr)
	if err != nil {
		return ioFault(ctx, err)
	}
	ctx.Hart.SetReg(int(in.Rd), uint32(v))
	return fallthroughNext(ctx, in)
}

func hLw(ctx *isa.Ctx, in *isa.Inst) (*isa.Inst, isa.Outcome) {
	addr := ctx.Hart.Reg(int(in.Rs1)) + uint32(in.Imm)
	if addr&3 != 0 {
		trap.Raise(ctx.Hart, trap.CauseLoadAddrMisaligned, addr, ctx.Vec)
		return nil, isa.Trapped
	}
	v, err := ctx.Mem.ReadW(addr)
	if err != nil {
		return ioFault(ctx, err)
	}
	ctx.Hart.SetReg(int(in.Rd), v)
	return fallthroughNext(ctx, in)
}

func hSb(ctx *isa.Ctx, in *isa.Inst) (*isa.Inst, isa.Outcome) {
	addr := ctx.Hart.Reg(int(in.Rs1)) + uint32(in.Imm)
	if err := ctx.Mem.WriteB(addr, uint8(ctx.Hart.Reg(int(in.Rs2)))); err != nil {
		return ioFault(ctx, err)
	}
	return fallthroughNext(ctx, in)
}

func hSh(ctx *isa.Ctx, in *isa.Inst) (*isa.Inst, isa.Outcome) {
	addr := ctx.Hart.Reg(int(in.Rs1)) + uint32(in.Imm)
	if addr&1 != 0 {
		trap.Raise(ctx.Hart, trap.CauseStoreAddrMisaligned, addr, ctx.Vec)
		return nil, isa.Trapped
	}
	if err := ctx.Mem.WriteH(addr, uint16(ctx.Hart.Reg(int(in.Rs2)))); err != nil {
		return ioFault(ctx, err)
	}
	return fallthroughNext(ctx, in)
}

func hSw(ctx *isa.Ctx, in *isa.Inst) (*isa.Inst, isa.Outcome) {
	addr := ctx.Hart.Reg(int(in.Rs1)) + uint32(in.Imm)
	if addr&3 != 0 {
		trap.Raise(ctx.Hart, trap.CauseStoreAddrMisaligned, addr, ctx.Vec)
		return nil, isa.Trapped
	}
	if err := ctx.Mem.WriteW(addr, ctx.Hart.Reg(int(in.Rs2))); err != nil {
		return ioFault(ctx, err)
	}
	return fallthroughNext(ctx, in)
}
