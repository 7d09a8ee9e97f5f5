// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rvlog

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestNewLoggerWritesFormattedLine(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, slog.LevelInfo)
	log.Info("block evicted", "pc", "0x100")

	out := buf.String()
	if !strings.Contains(out, "block evicted") {
		t.Fatalf("got %q, missing message", out)
	}
	if !strings.Contains(out, "pc=0x100") {
		t.Fatalf("got %q, missing attr", out)
	}
	if !strings.Contains(out, "INFO:") {
		t.Fatalf("got %q, missing level", out)
	}
}

func TestLevelFilteringSuppressesBelowThreshold(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, slog.LevelWarn)
	log.Info("should not appear")
	if buf.Len() != 0 {
		t.Fatalf("got %q, want no output below the configured level", buf.String())
	}
	log.Warn("should appear")
	if buf.Len() == 0 {
		t.Fatal("expected output at or above the configured level")
	}
}

func TestHandleIsSafeWithNilWriter(t *testing.T) {
	h := NewHandler(nil, nil)
	log := slog.New(h)
	log.Info("dropped silently")
}

func TestWithAttrsPreservesGroupedFields(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, slog.LevelInfo)
	sub := log.With("hart", 0)
	sub.Info("trap raised", "cause", 2)

	out := buf.String()
	if !strings.Contains(out, "hart=0") || !strings.Contains(out, "cause=2") {
		t.Fatalf("got %q, missing attrs from With()", out)
	}
}
