package testing

import (
	"sync"
	"time"

	"github.com/go-drift/dialtimer/pkg/clock"
)

// FakeClock provides a controllable millisecond counter for deterministic
// controller and animation tests. All methods are safe for concurrent use.
type FakeClock struct {
	mu  sync.Mutex
	now clock.Millis
}

// NewFakeClock returns a FakeClock reading a fixed, non-zero value.
func NewFakeClock() *FakeClock {
	return &FakeClock{now: 1_000}
}

// NewFakeClockAt returns a FakeClock reading now. Start just below
// [clock.Max] to run a scenario across the counter wrap.
func NewFakeClockAt(now clock.Millis) *FakeClock {
	return &FakeClock{now: now}
}

// Millis returns the current fake counter value.
func (c *FakeClock) Millis() clock.Millis {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the counter forward by d, wrapping like the hardware does.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = clock.Add(c.now, clock.FromDuration(d))
}

// Set sets the counter to an exact value.
func (c *FakeClock) Set(now clock.Millis) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}
