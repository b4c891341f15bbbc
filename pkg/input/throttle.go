package input

import "github.com/go-drift/dialtimer/pkg/clock"

// Throttle accepts at most one event per window.
type Throttle struct {
	window clock.Millis
	last   clock.Millis
	armed  bool
}

// NewThrottle returns a throttle with the given spacing.
func NewThrottle(window clock.Millis) *Throttle {
	return &Throttle{window: window}
}

// Allow reports whether an event at now is accepted, and if so starts a new
// window.
func (t *Throttle) Allow(now clock.Millis) bool {
	if t.armed && !clock.Reached(t.last, now, t.window) {
		return false
	}
	t.last = now
	t.armed = true
	return true
}

// Reset makes the next event pass.
func (t *Throttle) Reset() {
	t.armed = false
}
