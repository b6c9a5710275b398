package domain

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// clock stamps Dataset.GeneratedAt and published records.
var clock = clockwork.NewRealClock()

// SetClock replaces the clock behind Now; nil restores wall-clock time.
// Tests use it with clockwork.NewFakeClockAt to get stable timestamps.
func SetClock(c clockwork.Clock) {
	if c == nil {
		c = clockwork.NewRealClock()
	}
	clock = c
}

// Now returns the current time in UTC.
func Now() time.Time {
	return clock.Now().UTC()
}
