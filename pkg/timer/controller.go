// Package timer implements the countdown controller: the mode state machine
// that turns input snapshots and counter readings into sessions, animations
// and dial frames.
//
// A [Controller] owns all mutable device state. It is driven by one
// goroutine calling [Controller.Tick] (or [Controller.Run]); input producers
// only touch the [input.Mailbox].
//
//	Configuring --window--> Running --press--> Paused --press--> Running
//	     |                     |                  |
//	     +--zero selected--> TimedOut <--expiry---+--idle
//	                           |
//	                       Sleeping --wake--> Configuring
package timer

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"

	"github.com/google/uuid"

	"github.com/go-drift/dialtimer/pkg/animation"
	"github.com/go-drift/dialtimer/pkg/clock"
	"github.com/go-drift/dialtimer/pkg/dial"
	"github.com/go-drift/dialtimer/pkg/display"
	"github.com/go-drift/dialtimer/pkg/errors"
	"github.com/go-drift/dialtimer/pkg/graphics"
	"github.com/go-drift/dialtimer/pkg/input"
	"github.com/go-drift/dialtimer/pkg/power"
)

// Chime plays the timeout tone. Play must not block the tick.
type Chime interface {
	Play()
}

type silentChime struct{}

func (silentChime) Play() {}

// Transition describes one mode change.
type Transition struct {
	From    Mode
	To      Mode
	At      clock.Millis
	Session uuid.UUID
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the structured logger. The default discards.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithChime sets the timeout tone player.
func WithChime(ch Chime) Option {
	return func(c *Controller) {
		if ch != nil {
			c.chime = ch
		}
	}
}

// WithPower sets the low-power collaborator. The default sleeps until the
// mailbox receives input.
func WithPower(m power.Manager) Option {
	return func(c *Controller) {
		if m != nil {
			c.power = m
		}
	}
}

// WithTransitionHook registers fn to be called after every mode change.
func WithTransitionHook(fn func(Transition)) Option {
	return func(c *Controller) {
		c.hooks = append(c.hooks, fn)
	}
}

// Controller is the device brain. It is not safe for concurrent use: every
// method must be called from the goroutine that ticks it.
type Controller struct {
	cfg      Config
	clock    clock.Source
	display  display.Display
	renderer *dial.Renderer
	inbox    *input.Mailbox
	power    power.Manager
	chime    Chime
	logger   *slog.Logger
	hooks    []func(Transition)

	anim     animation.Engine
	selector *input.Selector
	throttle *input.Throttle

	mode       Mode
	session    Session
	hasSession bool

	// Configuring
	dialFraction float64
	windowStart  clock.Millis

	// Running
	lastRepaint clock.Millis

	// Paused
	blinkLevel      float64
	blinkOn         bool
	blinkPhaseStart clock.Millis

	// TimedOut
	timeoutCycle      int
	timeoutOn         bool
	timeoutPhaseStart clock.Millis
}

// New returns a controller in Configuring with the first preset selected.
// The dial is laid out to fit d.
func New(cfg Config, src clock.Source, d display.Display, inbox *input.Mailbox, opts ...Option) (*Controller, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	selector, err := input.NewSelector(cfg.Presets, cfg.AllowZero)
	if err != nil {
		return nil, err
	}
	w, h := d.Size()
	layout := dial.LayoutFor(w, h)
	if !layout.Valid() {
		return nil, &errors.DeviceError{
			Op:   "timer.New",
			Kind: errors.KindRender,
			Err:  fmt.Errorf("panel %dx%d is too small for the dial", w, h),
		}
	}
	if inbox == nil {
		inbox = input.NewMailbox()
	}

	c := &Controller{
		cfg:      cfg,
		clock:    src,
		display:  d,
		renderer: dial.NewRenderer(d, layout, cfg.Palette),
		inbox:    inbox,
		chime:    silentChime{},
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		selector: selector,
		throttle: input.NewThrottle(ms(cfg.SelectThrottle)),
	}
	c.power = power.NewSimulated(inbox)
	for _, opt := range opts {
		opt(c)
	}

	now := c.clock.Millis()
	c.enterConfiguring(now, false)
	return c, nil
}

// Mode returns the current mode.
func (c *Controller) Mode() Mode {
	return c.mode
}

// Session returns the active countdown, if any.
func (c *Controller) Session() (Session, bool) {
	return c.session, c.hasSession
}

// Selected returns the selected preset in minutes.
func (c *Controller) Selected() int {
	return c.selector.Minutes()
}

// Renderer exposes the dial renderer, mostly for repaint statistics.
func (c *Controller) Renderer() *dial.Renderer {
	return c.renderer
}

// Mailbox returns the input mailbox producers write to.
func (c *Controller) Mailbox() *input.Mailbox {
	return c.inbox
}

// Status is a snapshot of the controller for display and logging.
type Status struct {
	Mode      Mode
	Selected  int
	Now       clock.Millis
	Duration  clock.Millis
	Remaining clock.Millis
	Session   uuid.UUID
}

// Status returns the current state.
func (c *Controller) Status() Status {
	now := c.clock.Millis()
	st := Status{Mode: c.mode, Selected: c.selector.Minutes(), Now: now}
	if c.hasSession {
		st.Duration = c.session.Duration
		st.Remaining = c.session.Remaining(now)
		st.Session = c.session.ID
	}
	return st
}

// Tick runs one cooperative step: drain input, advance animations, then
// update the current mode. While Sleeping, Tick blocks in the power
// manager until a wake event or until ctx is done.
func (c *Controller) Tick(ctx context.Context) {
	if c.mode == Sleeping {
		c.sleep(ctx)
		c.flush()
		return
	}

	now := c.clock.Millis()
	c.poll(now)
	c.anim.Update(now)
	c.update(now)
	c.flush()
}

// Select moves the selection by delta presets, subject to the throttle and
// the running-select policy.
func (c *Controller) Select(delta int) {
	if delta == 0 {
		return
	}
	c.handleSelect(delta, c.clock.Millis())
}

// SelectMinutes selects the preset nearest to minutes and re-enters
// Configuring. It bypasses the throttle. While a countdown is active it
// follows the running-select policy.
func (c *Controller) SelectMinutes(minutes int) {
	now := c.clock.Millis()
	if !c.acceptsSelection() {
		c.logger.Debug("selection ignored", "mode", c.mode.String(), "minutes", minutes)
		return
	}
	c.selector.Set(minutes)
	c.enterConfiguring(now, true)
}

// Press delivers a button press.
func (c *Controller) Press() {
	c.handlePress(c.clock.Millis())
}

// Pause pauses a running countdown. It is a no-op in any other mode.
func (c *Controller) Pause() {
	if c.mode != Running {
		return
	}
	c.enterPaused(c.clock.Millis())
}

// Resume continues a paused countdown. It is a no-op in any other mode.
func (c *Controller) Resume() {
	if c.mode != Paused {
		return
	}
	c.resume(c.clock.Millis())
}

// Invalidate forces a full repaint on the next frame.
func (c *Controller) Invalidate() {
	c.renderer.Invalidate()
}

func (c *Controller) poll(now clock.Millis) {
	snap := c.inbox.Take()
	if snap.Steps != 0 {
		c.handleSelect(snap.Steps, now)
	}
	if snap.Pressed {
		c.handlePress(now)
	}
}

// handleSelect applies one coalesced rotation. Only its direction matters:
// an accepted change moves one preset.
func (c *Controller) handleSelect(steps int, now clock.Millis) {
	if !c.acceptsSelection() {
		c.logger.Debug("selection ignored", "mode", c.mode.String(), "steps", steps)
		return
	}
	if !c.throttle.Allow(now) {
		c.logger.Debug("selection throttled", "steps", steps, "now_ms", uint32(now))
		return
	}
	dir := 1
	if steps < 0 {
		dir = -1
	}
	c.selector.Step(dir)
	c.enterConfiguring(now, true)
}

func (c *Controller) acceptsSelection() bool {
	switch c.mode {
	case Configuring, TimedOut:
		return true
	case Running, Paused:
		return c.cfg.RunningSelect == SelectReconfigure
	default:
		return false
	}
}

func (c *Controller) handlePress(now clock.Millis) {
	switch c.mode {
	case Configuring:
		minutes := c.selector.Minutes()
		if minutes == 0 {
			c.enterTimedOut(now)
			return
		}
		// An about-to-start countdown pauses with zero progress.
		c.session = newSession(minuteMillis(minutes), now)
		c.hasSession = true
		c.enterPaused(now)
	case Running:
		c.enterPaused(now)
	case Paused:
		c.resume(now)
	case TimedOut:
		c.enterConfiguring(now, false)
	}
}

func (c *Controller) update(now clock.Millis) {
	switch c.mode {
	case Configuring:
		c.updateConfiguring(now)
	case Running:
		c.updateRunning(now)
	case Paused:
		c.updatePaused(now)
	case TimedOut:
		c.updateTimedOut(now)
	}
}

func (c *Controller) setMode(m Mode, now clock.Millis) {
	from := c.mode
	c.mode = m
	var id uuid.UUID
	if c.hasSession {
		id = c.session.ID
	}
	if from == m {
		c.logger.Debug("mode re-entered", "mode", m.String(), "now_ms", uint32(now))
		return
	}
	c.logger.Info("mode transition",
		"from", from.String(),
		"to", m.String(),
		"session", id.String(),
		"now_ms", uint32(now),
	)
	t := Transition{From: from, To: m, At: now, Session: id}
	for _, fn := range c.hooks {
		fn(t)
	}
}

func (c *Controller) flush() {
	if f, ok := c.display.(display.Flusher); ok {
		f.Flush()
	}
}

func (c *Controller) frame(fraction float64, tint graphics.Color) dial.Frame {
	return dial.Frame{
		Fraction:  fraction,
		FullScale: ms(c.cfg.FullScale),
		Tint:      tint,
	}
}

// fractionFor maps a selection onto the dial. Zero is the immediate-timeout
// sentinel and shows a full dial.
func (c *Controller) fractionFor(minutes int) float64 {
	if minutes == 0 {
		return 1
	}
	return math.Min(1, float64(minuteMillis(minutes))/float64(ms(c.cfg.FullScale)))
}

// remainingFraction maps a session's remaining time onto the dial.
func (c *Controller) remainingFraction(now clock.Millis) float64 {
	full := ms(c.cfg.FullScale)
	if full == 0 {
		return 0
	}
	return math.Min(1, float64(c.session.Remaining(now))/float64(full))
}

func minuteMillis(minutes int) clock.Millis {
	return clock.Millis(minutes) * minute
}
