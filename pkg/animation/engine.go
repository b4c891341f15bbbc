// Package animation provides the interpolation engine that drives every
// visual transition on the dial.
//
// # Core Components
//
//   - [Engine]: a fixed pool of in-place float interpolations, keyed by the
//     address of the field being driven and advanced explicitly with a
//     counter timestamp.
//
//   - [Curve]: easing functions that transform linear progress into
//     natural-feeling motion. Includes [Linear] and the [CubicBezier] family
//     ([Ease], [EaseIn], [EaseOut], [EaseInOut]).
//
//   - Lerp helpers ([LerpFloat64], [LerpColor]) for mapping a driven value
//     onto other ranges.
//
// # Basic Usage
//
//	var sweep float64
//	var eng animation.Engine
//	eng.Start(&sweep, sweep, 0.5, now, 450, animation.EaseOut)
//	// every tick
//	eng.Update(now)
//	render(sweep)
//
// The engine never blocks and never fails towards its caller. When the pool
// is full the driven value snaps to its target and the event is reported
// through pkg/errors.
package animation

import (
	stderrors "errors"
	"math"

	"github.com/go-drift/dialtimer/pkg/clock"
	"github.com/go-drift/dialtimer/pkg/errors"
)

// PoolSize is the number of interpolations that can run concurrently.
const PoolSize = 6

// Epsilon is the tolerance below which two endpoint values, or a progress
// value and 1, are treated as equal.
const Epsilon = 1e-6

// ErrPoolExhausted is reported when Start finds no free slot.
var ErrPoolExhausted = stderrors.New("animation pool exhausted")

type entry struct {
	target   *float64
	from     float64
	to       float64
	start    clock.Millis
	duration clock.Millis
	curve    Curve
}

// Engine drives up to PoolSize float fields towards their targets.
// The zero value is ready to use. An Engine is not safe for concurrent use;
// it belongs to the tick loop.
type Engine struct {
	slots [PoolSize]entry
}

// Start animates *target from from to to, beginning at start and lasting
// duration milliseconds. Any entry already driving target is cancelled.
//
// When the endpoints are equal, the duration is zero or the pool is full,
// *target is set to to immediately and no entry is kept. Start reports
// whether an entry was kept. A start later than the next Update holds
// *target at from until the counter reaches it.
func (e *Engine) Start(target *float64, from, to float64, start, duration clock.Millis, curve Curve) bool {
	if target == nil {
		return false
	}
	e.Cancel(target)

	if duration == 0 || math.Abs(to-from) <= Epsilon {
		*target = to
		return false
	}

	slot := e.free()
	if slot == nil {
		*target = to
		errors.Report(&errors.DeviceError{
			Op:   "animation.Start",
			Kind: errors.KindAnimation,
			Err:  ErrPoolExhausted,
		})
		return false
	}

	if curve == nil {
		curve = Linear
	}
	*slot = entry{
		target:   target,
		from:     from,
		to:       to,
		start:    start,
		duration: duration,
		curve:    curve,
	}
	*target = from
	return true
}

// Update advances every active entry to now and frees the ones that finished.
func (e *Engine) Update(now clock.Millis) {
	for i := range e.slots {
		s := &e.slots[i]
		if s.target == nil {
			continue
		}

		if clock.Before(now, s.start) {
			*s.target = s.from
			continue
		}
		elapsed := clock.ElapsedSince(s.start, now)
		if elapsed >= s.duration {
			*s.target = s.to
			*s = entry{}
			continue
		}

		t := float64(elapsed) / float64(s.duration)
		if t >= 1-Epsilon {
			*s.target = s.to
			*s = entry{}
			continue
		}

		eased := clampUnit(s.curve.Transform(t))
		*s.target = clampBetween(LerpFloat64(s.from, s.to, eased), s.from, s.to)
	}
}

// Cancel removes the entry driving target, leaving its current value.
func (e *Engine) Cancel(target *float64) {
	for i := range e.slots {
		if e.slots[i].target == target {
			e.slots[i] = entry{}
		}
	}
}

// CancelAll removes every entry.
func (e *Engine) CancelAll() {
	for i := range e.slots {
		e.slots[i] = entry{}
	}
}

// IsActive reports whether an entry is currently driving target.
func (e *Engine) IsActive(target *float64) bool {
	if target == nil {
		return false
	}
	for i := range e.slots {
		if e.slots[i].target == target {
			return true
		}
	}
	return false
}

// Active returns the number of entries in flight.
func (e *Engine) Active() int {
	n := 0
	for i := range e.slots {
		if e.slots[i].target != nil {
			n++
		}
	}
	return n
}

// Target returns the value target is heading to, and whether it is animating.
func (e *Engine) Target(target *float64) (float64, bool) {
	for i := range e.slots {
		if target != nil && e.slots[i].target == target {
			return e.slots[i].to, true
		}
	}
	return 0, false
}

func (e *Engine) free() *entry {
	for i := range e.slots {
		if e.slots[i].target == nil {
			return &e.slots[i]
		}
	}
	return nil
}

func clampBetween(v, a, b float64) float64 {
	lo, hi := math.Min(a, b), math.Max(a, b)
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
