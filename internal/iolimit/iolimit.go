// Package iolimit bounds what the dispatcher retains from collaborator
// output and how long scripted filters may run.
package iolimit

import (
	"bytes"
	"context"
	"time"
)

// ExcerptWriter retains the first capKB kilobytes written to it and silently
// drops the rest, recording that truncation happened. Write never fails, so
// the writer is safe to place inside an io.MultiWriter tee alongside the
// real destination.
type ExcerptWriter struct {
	buf       bytes.Buffer
	capBytes  int
	truncated bool
}

// NewExcerptWriter creates an ExcerptWriter with the provided capKB
// capacity. A zero or negative capKB defaults to 8 KiB.
func NewExcerptWriter(capKB int) *ExcerptWriter {
	if capKB <= 0 {
		capKB = 8
	}
	return &ExcerptWriter{capBytes: capKB * 1024}
}

// Write retains p up to the remaining capacity and reports the full length
// as written so upstream tees are never interrupted.
func (w *ExcerptWriter) Write(p []byte) (int, error) {
	remaining := w.capBytes - w.buf.Len()
	switch {
	case remaining <= 0:
		w.truncated = true
	case len(p) > remaining:
		_, _ = w.buf.Write(p[:remaining])
		w.truncated = true
	default:
		_, _ = w.buf.Write(p)
	}
	return len(p), nil
}

// String returns the retained excerpt.
func (w *ExcerptWriter) String() string { return w.buf.String() }

// Truncated reports whether any write exceeded the cap.
func (w *ExcerptWriter) Truncated() bool { return w.truncated }

// WithWallTimeout returns a derived context that is canceled after wallMS
// milliseconds. If wallMS <= 0, a conservative default of 1000ms is used.
func WithWallTimeout(parent context.Context, wallMS int) (context.Context, context.CancelFunc) {
	if wallMS <= 0 {
		wallMS = 1000
	}
	return context.WithTimeout(parent, time.Duration(wallMS)*time.Millisecond)
}
