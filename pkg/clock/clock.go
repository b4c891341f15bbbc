// Package clock provides wraparound-safe arithmetic over a free-running
// millisecond counter.
//
// Device firmware counts milliseconds in a 32-bit register that wraps roughly
// every 49.7 days. Every duration comparison in the controller goes through
// [ElapsedSince] so a session that straddles the wrap still measures correctly.
// Only a single wrap per interval is supported.
package clock

import (
	"math"
	"time"
)

// Millis is a reading of the free-running millisecond counter. It is also
// used for millisecond durations.
type Millis uint32

// Max is the largest representable counter value.
const Max Millis = math.MaxUint32

// ElapsedSince returns the number of milliseconds between reference and now,
// assuming now was sampled after reference and the counter wrapped at most
// once in between.
func ElapsedSince(reference, now Millis) Millis {
	if now >= reference {
		return now - reference
	}
	return (Max - reference) + 1 + now
}

// Before reports whether a is earlier than b. The readings must lie within
// half the counter range of each other.
func Before(a, b Millis) bool {
	return int32(a-b) < 0
}

// Add returns t advanced by d, wrapping at Max.
func Add(t, d Millis) Millis {
	return t + d
}

// Reached reports whether at least d milliseconds have passed between
// reference and now.
func Reached(reference, now, d Millis) bool {
	return ElapsedSince(reference, now) >= d
}

// FromDuration converts a duration to counter milliseconds, saturating at
// Max and flooring negative durations at zero.
func FromDuration(d time.Duration) Millis {
	ms := d.Milliseconds()
	if ms <= 0 {
		return 0
	}
	if ms >= int64(Max) {
		return Max
	}
	return Millis(ms)
}

// Duration converts a millisecond count to a time.Duration.
func (m Millis) Duration() time.Duration {
	return time.Duration(m) * time.Millisecond
}

// Source provides counter readings. Production code uses [NewSystem];
// tests inject a fake that can be positioned near the wrap point.
type Source interface {
	Millis() Millis
}

// System derives counter readings from the monotonic wall clock.
type System struct {
	start  time.Time
	offset Millis
}

// NewSystem returns a source whose counter reads zero now.
func NewSystem() *System {
	return &System{start: time.Now()}
}

// NewSystemAt returns a source whose counter reads offset now. Useful for
// exercising the wrap on real hardware timing.
func NewSystemAt(offset Millis) *System {
	return &System{start: time.Now(), offset: offset}
}

// Millis returns the current counter value.
func (s *System) Millis() Millis {
	// Truncation to 32 bits is the wrap.
	return s.offset + Millis(uint64(time.Since(s.start).Milliseconds()))
}
