package sounding

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// clock is a package-level time source so tests can freeze time via SetClock.
// Production code uses the real clock; tests inject a fake for deterministic
// retrieval timestamps and download URLs.
var clock = clockwork.NewRealClock()

// SetClock swaps the time source. Pass nil to reset to real time.
func SetClock(c clockwork.Clock) {
	if c == nil {
		clock = clockwork.NewRealClock()
		return
	}
	clock = c
}

// Now returns the current time from the package clock. Readers that need a
// default observation time (e.g. the remote station query with no -t flag)
// derive it from here rather than calling time.Now directly.
func Now() time.Time {
	return clock.Now()
}
