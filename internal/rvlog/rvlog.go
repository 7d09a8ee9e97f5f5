// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package rvlog is a small wrapper around log/slog used by the
// command-line drivers, giving their logging one line format and one
// concurrency-safe writer. The engine packages themselves do not log.
package rvlog

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
)

// Handler formats records as "<time> <level>: <message> <attrs...>" and
// serializes writes with a mutex, since the dispatcher and a concurrently
// running host goroutine (e.g. a device model polling hart state) may both
// log through the same *slog.Logger.
type Handler struct {
	out   io.Writer
	h     slog.Handler
	mu    *sync.Mutex
	debug bool
	attrs []slog.Attr
}

func (h *Handler) Enabled(ctx context.Context, level slog.Level) bool {
	if h.debug && level >= slog.LevelDebug {
		return true
	}
	return h.h.Enabled(ctx, level)
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := append(append([]slog.Attr{}, h.attrs...), attrs...)
	return &Handler{out: h.out, h: h.h.WithAttrs(attrs), mu: h.mu, debug: h.debug, attrs: merged}
}

func (h *Handler) WithGroup(name string) slog.Handler {
	return &Handler{out: h.out, h: h.h.WithGroup(name), mu: h.mu, debug: h.debug, attrs: h.attrs}
}

func (h *Handler) Handle(ctx context.Context, r slog.Record) error {
	formattedTime := r.Time.Format("2006/01/02 15:04:05")
	strs := []string{formattedTime, r.Level.String() + ":", r.Message}

	for _, a := range h.attrs {
		strs = append(strs, a.Key+"="+a.Value.String())
	}

	if r.NumAttrs() != 0 {
		r.Attrs(func(a slog.Attr) bool {
			strs = append(strs, a.Key+"="+a.Value.String())
			return true
		})
	}
	b := []byte(strings.Join(strs, " ") + "\n")

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.out == nil {
		return nil
	}
	_, err := h.out.Write(b)
	return err
}

// SetDebug toggles whether debug-level records pass Enabled.
func (h *Handler) SetDebug(debug bool) { h.debug = debug }

// NewHandler builds a Handler writing to w. opts.Level controls the
// minimum level passed through; a nil opts uses slog's default (Info).
func NewHandler(w io.Writer, opts *slog.HandlerOptions) *Handler {
	if opts == nil {
		opts = &slog.HandlerOptions{}
	}
	return &Handler{
		out: w,
		h:   slog.NewTextHandler(w, opts),
		mu:  &sync.Mutex{},
	}
}

// New is a convenience constructor returning a ready-to-use *slog.Logger.
func New(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(NewHandler(w, &slog.HandlerOptions{Level: level}))
}
