// Package input turns rotary and button activity into per-tick snapshots.
//
// Producers (an encoder interrupt, a terminal event loop) write into a
// [Mailbox] from any goroutine. The tick loop drains it with [Mailbox.Take],
// which swaps the counters atomically, so edges arriving between ticks are
// coalesced rather than lost or double counted.
package input

import "sync/atomic"

// Snapshot is the input observed since the previous Take.
type Snapshot struct {
	// Steps is the net signed rotation, positive clockwise.
	Steps int
	// Pressed reports at least one debounced button press.
	Pressed bool
}

// Empty reports whether nothing happened.
func (s Snapshot) Empty() bool {
	return s.Steps == 0 && !s.Pressed
}

// Mailbox is a single-consumer handoff between input producers and the
// tick loop.
type Mailbox struct {
	steps   atomic.Int64
	presses atomic.Uint32
	wake    chan struct{}
}

// NewMailbox returns an empty mailbox.
func NewMailbox() *Mailbox {
	return &Mailbox{wake: make(chan struct{}, 1)}
}

// AddSteps records n rotary detents.
func (m *Mailbox) AddSteps(n int) {
	if n == 0 {
		return
	}
	m.steps.Add(int64(n))
	m.signal()
}

// Press records a button press.
func (m *Mailbox) Press() {
	m.presses.Add(1)
	m.signal()
}

// Take drains the mailbox.
func (m *Mailbox) Take() Snapshot {
	return Snapshot{
		Steps:   int(m.steps.Swap(0)),
		Pressed: m.presses.Swap(0) > 0,
	}
}

// Wake returns a channel that receives after input arrives. Signals are
// coalesced: many events may produce a single receive.
func (m *Mailbox) Wake() <-chan struct{} {
	return m.wake
}

// Drain discards a pending wake signal.
func (m *Mailbox) Drain() {
	select {
	case <-m.wake:
	default:
	}
}

func (m *Mailbox) signal() {
	select {
	case m.wake <- struct{}{}:
	default:
	}
}
