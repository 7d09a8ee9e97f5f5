// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package decode

import (
	"github.com/rv32/rv32engine/ioface"
	"github.com/rv32/rv32engine/isa"
)

// FetchDecode reads one instruction from mem at pc and decodes it,
// consulting cfg.C to decide whether to read 16 or 32 bits. A read
// failure is returned verbatim so the block builder can abort the
// partial block it is constructing (spec §4.2: "a read failure aborts
// the build and the partial block is discarded").
func FetchDecode(mem ioface.Memory, pc uint32, cfg Config) (*isa.Inst, error) {
	low, err := mem.ReadH(pc)
	if err != nil {
		return nil, err
	}
	if cfg.C && IsCompressed(low) {
		return DecodeC(low, pc, cfg), nil
	}
	word, err := mem.ReadW(pc)
	if err != nil {
		return nil, err
	}
	return Decode(word, pc, cfg), nil
}
