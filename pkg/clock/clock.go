// Package clock provides an injectable time source so that code which stamps
// timestamps or evaluates expiry windows can be tested deterministically.
package clock

import "time"

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// Real returns a Clock backed by the system time.
func Real() Clock { return realClock{} }

// Fixed is a Clock pinned to a single instant. Tests may reassign T between
// calls to move time forward.
type Fixed struct {
	T time.Time
}

// Now returns the pinned instant.
func (f *Fixed) Now() time.Time { return f.T }

// NewFixed creates a Fixed clock pinned to t.
func NewFixed(t time.Time) *Fixed { return &Fixed{T: t} }
