package provider

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"
)

// Throttle guards an operation by a minimum interval between attempts
type Throttle struct {
	mux      sync.Mutex
	clock    clock.Clock
	interval time.Duration
	updated  time.Time
}

// NewThrottle creates a throttle with the given minimum interval
func NewThrottle(interval time.Duration) *Throttle {
	return &Throttle{
		clock:    clock.New(),
		interval: interval,
	}
}

// WithClock replaces the throttle's clock
func (t *Throttle) WithClock(clock clock.Clock) *Throttle {
	t.clock = clock
	return t
}

// Allow returns true if the guarded operation may run and records the attempt.
// Forced attempts are always allowed and restart the interval.
func (t *Throttle) Allow(force bool) bool {
	t.mux.Lock()
	defer t.mux.Unlock()

	if !force && !t.mustUpdate() {
		return false
	}

	t.updated = t.clock.Now()
	return true
}

// Remaining returns the time until the next unforced attempt is allowed
func (t *Throttle) Remaining() time.Duration {
	t.mux.Lock()
	defer t.mux.Unlock()

	if t.mustUpdate() {
		return 0
	}

	return t.interval - t.clock.Since(t.updated)
}

func (t *Throttle) mustUpdate() bool {
	return t.updated.IsZero() || t.clock.Since(t.updated) > t.interval
}
