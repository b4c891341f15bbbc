// Package power defines the low-power collaborator the controller hands
// the device to while Sleeping.
package power

import (
	"context"
	"errors"
)

// ErrNoWake is returned when low power ends without a wake event, for
// example because the context was cancelled.
var ErrNoWake = errors.New("power: no wake event")

// Manager suspends and resumes the device.
type Manager interface {
	// EnterLowPower suspends the display and blocks until a wake condition
	// occurs or ctx is done.
	EnterLowPower(ctx context.Context) error

	// ResumeFromLowPower brings the display back after EnterLowPower returns.
	ResumeFromLowPower() error
}

// Waker is a source of wake signals, typically an input mailbox.
type Waker interface {
	Wake() <-chan struct{}
}

// Simulated is a Manager that sleeps until its Waker signals. Hooks let a
// host back-end dim or restore its screen.
type Simulated struct {
	Waker    Waker
	OnSleep  func()
	OnResume func()

	sleeps int
}

// NewSimulated returns a manager woken by w.
func NewSimulated(w Waker) *Simulated {
	return &Simulated{Waker: w}
}

// EnterLowPower blocks until the waker signals or ctx is done.
func (s *Simulated) EnterLowPower(ctx context.Context) error {
	s.sleeps++
	if s.OnSleep != nil {
		s.OnSleep()
	}
	if s.Waker == nil {
		<-ctx.Done()
		return errors.Join(ErrNoWake, ctx.Err())
	}
	select {
	case <-s.Waker.Wake():
		return nil
	case <-ctx.Done():
		return errors.Join(ErrNoWake, ctx.Err())
	}
}

// ResumeFromLowPower runs the resume hook.
func (s *Simulated) ResumeFromLowPower() error {
	if s.OnResume != nil {
		s.OnResume()
	}
	return nil
}

// Sleeps returns how many times the device entered low power.
func (s *Simulated) Sleeps() int {
	return s.sleeps
}
