// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ops

import (
	"errors"

	"github.com/rv32/rv32engine/hart"
	"github.com/rv32/rv32engine/ioface"
	"github.com/rv32/rv32engine/isa"
	"github.com/rv32/rv32engine/memimage"
)

var errBoom = errors.New("ops test: boom")

type testHooks struct {
	ecalled, ebroke bool
	err             error
}

func (h *testHooks) OnECall(ioface.HartAccess) error {
	h.ecalled = true
	return h.err
}

func (h *testHooks) OnEBreak(ioface.HartAccess) error {
	h.ebroke = true
	return h.err
}

// newCtx builds a minimal Ctx + Hart over a flat memory image, enough to
// invoke a single handler in isolation without going through block.Build.
func newCtx(memSize int) (*isa.Ctx, *hart.Hart) {
	img := memimage.New(memSize)
	hooks := &testHooks{}
	h := hart.New(0, false, img, hooks, nil)
	ctx := &isa.Ctx{Hart: h, Mem: img, Hooks: hooks}
	return ctx, h
}
