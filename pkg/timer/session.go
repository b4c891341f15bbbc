package timer

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/go-drift/dialtimer/pkg/clock"
)

// Mode is the controller lifecycle state.
type Mode int

const (
	Configuring Mode = iota
	Running
	Paused
	TimedOut
	Sleeping
)

func (m Mode) String() string {
	switch m {
	case Configuring:
		return "configuring"
	case Running:
		return "running"
	case Paused:
		return "paused"
	case TimedOut:
		return "timed-out"
	case Sleeping:
		return "sleeping"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Session is one countdown.
//
// StartEpoch is the counter reading the countdown is measured from. Resuming
// shifts it forward by the paused interval, so elapsed time is always the
// active time since the countdown began.
type Session struct {
	ID         uuid.UUID
	Duration   clock.Millis
	StartEpoch clock.Millis
	PausedAt   clock.Millis
	Paused     bool
}

func newSession(duration, now clock.Millis) Session {
	return Session{
		ID:         uuid.New(),
		Duration:   duration,
		StartEpoch: now,
	}
}

// Elapsed returns the active time at now, clamped to Duration. While paused
// the clock is frozen at PausedAt.
func (s Session) Elapsed(now clock.Millis) clock.Millis {
	if s.Paused {
		now = s.PausedAt
	}
	elapsed := clock.ElapsedSince(s.StartEpoch, now)
	if elapsed > s.Duration {
		return s.Duration
	}
	return elapsed
}

// Remaining returns the time left at now, in [0, Duration].
func (s Session) Remaining(now clock.Millis) clock.Millis {
	return s.Duration - s.Elapsed(now)
}

// RemainingMinutes rounds the time left up to whole minutes.
func (s Session) RemainingMinutes(now clock.Millis) int {
	return int((s.Remaining(now) + minute - 1) / minute)
}

func (s *Session) pause(now clock.Millis) {
	if s.Paused {
		return
	}
	s.PausedAt = now
	s.Paused = true
}

func (s *Session) resume(now clock.Millis) {
	if !s.Paused {
		return
	}
	s.StartEpoch = clock.Add(s.StartEpoch, clock.ElapsedSince(s.PausedAt, now))
	s.PausedAt = 0
	s.Paused = false
}
