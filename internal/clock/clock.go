// Package clock provides an injectable wall-clock so scheduling and
// stats code can be tested deterministically.
package clock

import "time"

// Clock yields the current UTC time.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

// System returns the real wall clock.
func System() Clock { return systemClock{} }

// Fixed returns a clock frozen at t (normalized to UTC).
func Fixed(t time.Time) Clock { return fixedClock{t.UTC()} }

type fixedClock struct{ t time.Time }

func (f fixedClock) Now() time.Time { return f.t }
