// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers shared across stages.
package httputil

import (
	"context"
	"io"
	"strings"
	"time"
)

// Pacer enforces a minimum spacing between successive calls to a
// third-party API. This is throttling to respect published rate limits,
// not a retry mechanism: a Pacer never re-issues anything.
type Pacer struct {
	delay time.Duration
	last  time.Time
	now   func() time.Time
}

// NewPacer returns a Pacer enforcing the given spacing. A zero or
// negative delay disables pacing.
func NewPacer(delay time.Duration) *Pacer {
	return &Pacer{delay: delay, now: time.Now}
}

// Wait blocks until the configured spacing has elapsed since the last
// call to Wait. The first call returns immediately. If the context is
// cancelled during the wait, Wait returns ctx.Err().
func (p *Pacer) Wait(ctx context.Context) error {
	defer func() { p.last = p.now() }()

	if p.delay <= 0 || p.last.IsZero() {
		return ctx.Err()
	}

	remaining := p.delay - p.now().Sub(p.last)
	if remaining <= 0 {
		return ctx.Err()
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(remaining):
		return nil
	}
}

// BodySnippet reads up to max bytes from r and returns them as a trimmed
// string. Used to cap error body excerpts surfaced to users.
func BodySnippet(r io.Reader, max int) string {
	data, _ := io.ReadAll(io.LimitReader(r, int64(max)))
	return strings.TrimSpace(string(data))
}
