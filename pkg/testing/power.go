package testing

import (
	"context"
	"sync"
)

// FakePower is a power manager that wakes immediately. Set Err or ResumeErr
// to exercise failure handling.
type FakePower struct {
	mu        sync.Mutex
	enters    int
	resumes   int
	Err       error
	ResumeErr error
	// OnEnter runs inside EnterLowPower, before it returns. Tests use it to
	// queue the wake input.
	OnEnter func()
}

// EnterLowPower records the call and returns Err.
func (p *FakePower) EnterLowPower(ctx context.Context) error {
	p.mu.Lock()
	p.enters++
	fn := p.OnEnter
	p.mu.Unlock()
	if fn != nil {
		fn()
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return p.Err
}

// ResumeFromLowPower records the call and returns ResumeErr.
func (p *FakePower) ResumeFromLowPower() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.resumes++
	return p.ResumeErr
}

// Enters returns how many times EnterLowPower was called.
func (p *FakePower) Enters() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.enters
}

// Resumes returns how many times ResumeFromLowPower was called.
func (p *FakePower) Resumes() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.resumes
}
