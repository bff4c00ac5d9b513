// Package simclock provides the simulated calendar that stamps generated
// records. It starts at the real current time and only moves forward in
// whole days, so months of growth can be observed in minutes.
package simclock

import (
	"time"

	"k8s.io/utils/clock"
)

// DateLayout renders dates as DD/MM/YYYY.
const DateLayout = "02/01/2006"

// Clock holds the current simulated time. It is owned by a single loop and
// is not safe for concurrent mutation.
type Clock struct {
	source clock.PassiveClock
	now    time.Time
}

// New returns a Clock that reads real time from source on Init.
func New(source clock.PassiveClock) *Clock {
	return &Clock{source: source}
}

// Init sets the simulated time to the real current time.
func (c *Clock) Init() {
	c.now = c.source.Now()
}

// Increment advances the simulated time by one calendar day.
func (c *Clock) Increment() {
	c.now = c.now.AddDate(0, 0, 1)
}

// Now returns the current simulated time.
func (c *Clock) Now() time.Time {
	return c.now
}

// Format renders the current simulated date as DD/MM/YYYY.
func (c *Clock) Format() string {
	return c.now.Format(DateLayout)
}
