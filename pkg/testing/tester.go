package testing

import (
	"context"
	"time"

	"github.com/go-drift/dialtimer/pkg/display"
	"github.com/go-drift/dialtimer/pkg/input"
	"github.com/go-drift/dialtimer/pkg/timer"
)

// DefaultPanelSize is the side of the square test panel in pixels.
const DefaultPanelSize = 120

// TestingT is the subset of *testing.T used by the harness, allowing test
// doubles to intercept failures.
type TestingT interface {
	Helper()
	Fatalf(format string, args ...any)
	Errorf(format string, args ...any)
	Name() string
}

// DeviceTester wires a controller to fakes: a FakeClock, a FakePower that
// wakes immediately, and a Recorder in front of a Raster.
type DeviceTester struct {
	Clock      *FakeClock
	Power      *FakePower
	Mailbox    *input.Mailbox
	Raster     *display.Raster
	Recorder   *display.Recorder
	Controller *timer.Controller

	tick        time.Duration
	transitions []timer.Transition
}

// NewDeviceTester builds a controller from cfg with the clock at its
// default reading.
func NewDeviceTester(t TestingT, cfg timer.Config, opts ...timer.Option) *DeviceTester {
	t.Helper()
	return NewDeviceTesterAt(t, NewFakeClock(), cfg, opts...)
}

// NewDeviceTesterAt builds a controller reading clk.
func NewDeviceTesterAt(t TestingT, clk *FakeClock, cfg timer.Config, opts ...timer.Option) *DeviceTester {
	t.Helper()
	d := &DeviceTester{
		Clock:   clk,
		Power:   &FakePower{},
		Mailbox: input.NewMailbox(),
		Raster:  display.NewRaster(DefaultPanelSize, DefaultPanelSize),
		tick:    cfg.Tick,
	}
	d.Recorder = display.Wrap(d.Raster)

	all := []timer.Option{
		timer.WithPower(d.Power),
		timer.WithTransitionHook(func(tr timer.Transition) {
			d.transitions = append(d.transitions, tr)
		}),
	}
	c, err := timer.New(cfg, clk, d.Recorder, d.Mailbox, append(all, opts...)...)
	if err != nil {
		t.Fatalf("timer.New: %v", err)
		return d
	}
	d.Controller = c
	return d
}

// Tick runs one controller tick without moving the clock.
func (d *DeviceTester) Tick() {
	d.Controller.Tick(context.Background())
}

// Advance moves the clock forward by total, ticking at the configured
// period along the way and once more at the end.
func (d *DeviceTester) Advance(total time.Duration) {
	for total > 0 {
		step := min(d.tick, total)
		d.Clock.Advance(step)
		total -= step
		d.Tick()
	}
}

// Turn queues rotary steps for the next tick.
func (d *DeviceTester) Turn(steps int) {
	d.Mailbox.AddSteps(steps)
}

// Press queues a button press for the next tick.
func (d *DeviceTester) Press() {
	d.Mailbox.Press()
}

// Mode returns the controller mode.
func (d *DeviceTester) Mode() timer.Mode {
	return d.Controller.Mode()
}

// Transitions returns the mode changes observed so far.
func (d *DeviceTester) Transitions() []timer.Transition {
	out := make([]timer.Transition, len(d.transitions))
	copy(out, d.transitions)
	return out
}

// Visited returns the sequence of modes entered, in order.
func (d *DeviceTester) Visited() []timer.Mode {
	modes := make([]timer.Mode, 0, len(d.transitions))
	for _, tr := range d.transitions {
		modes = append(modes, tr.To)
	}
	return modes
}
