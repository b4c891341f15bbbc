package timer

import (
	"context"
	"strconv"

	"github.com/go-drift/dialtimer/pkg/animation"
	"github.com/go-drift/dialtimer/pkg/clock"
	"github.com/go-drift/dialtimer/pkg/errors"
)

// enterConfiguring targets the dial at the selected preset and opens the
// center-display window. With preserve the sweep starts from what the dial
// currently shows, otherwise from empty.
func (c *Controller) enterConfiguring(now clock.Millis, preserve bool) {
	from := 0.0
	if preserve {
		from = c.dialFraction
		if c.hasSession && (c.mode == Running || c.mode == Paused) {
			from = c.remainingFraction(now)
		}
	}

	c.anim.Cancel(&c.blinkLevel)
	c.blinkLevel = 0
	c.anim.Start(&c.dialFraction, from, c.fractionFor(c.selector.Minutes()), now, ms(c.cfg.Sweep), animation.EaseOut)
	c.windowStart = now
	c.session = Session{}
	c.hasSession = false

	c.setMode(Configuring, now)
	c.renderConfiguring()
}

func (c *Controller) updateConfiguring(now clock.Millis) {
	if !clock.Reached(c.windowStart, now, ms(c.cfg.CenterWindow)) {
		c.renderConfiguring()
		return
	}
	minutes := c.selector.Minutes()
	if minutes == 0 {
		c.enterTimedOut(now)
		return
	}
	c.session = newSession(minuteMillis(minutes), now)
	c.hasSession = true
	c.enterRunning(now)
}

func (c *Controller) renderConfiguring() {
	f := c.frame(c.dialFraction, c.cfg.Palette.Running)
	f.Text = strconv.Itoa(c.selector.Minutes())
	c.renderer.Render(f)
}

func (c *Controller) enterRunning(now clock.Millis) {
	c.anim.Cancel(&c.dialFraction)
	c.anim.Cancel(&c.blinkLevel)
	c.blinkLevel = 0
	c.lastRepaint = now
	c.setMode(Running, now)
	c.renderRunning(now)
}

// updateRunning repaints at the run cadence rather than every tick.
func (c *Controller) updateRunning(now clock.Millis) {
	if c.session.Remaining(now) == 0 {
		c.enterTimedOut(now)
		return
	}
	if clock.Reached(c.lastRepaint, now, ms(c.cfg.RunRepaint)) {
		c.lastRepaint = now
		c.renderRunning(now)
	}
}

func (c *Controller) renderRunning(now clock.Millis) {
	c.dialFraction = c.remainingFraction(now)
	c.renderer.Render(c.frame(c.dialFraction, c.cfg.Palette.Running))
}

func (c *Controller) enterPaused(now clock.Millis) {
	c.session.pause(now)
	c.blinkOn = true
	c.blinkLevel = 0
	c.anim.Start(&c.blinkLevel, 0, 1, now, ms(c.cfg.BlinkFade), animation.EaseOut)
	c.blinkPhaseStart = now
	c.setMode(Paused, now)
	c.renderPaused(now)
}

// updatePaused runs the blink as alternating fade-up and fade-down phases,
// each followed by a hold, until the idle timeout abandons the session.
func (c *Controller) updatePaused(now clock.Millis) {
	if clock.Reached(c.session.PausedAt, now, ms(c.cfg.PauseIdle)) {
		c.logger.Info("pause idle timeout", "session", c.session.ID.String(), "now_ms", uint32(now))
		c.enterTimedOut(now)
		return
	}

	phase := ms(c.cfg.BlinkFade + c.cfg.BlinkHold)
	if !c.anim.IsActive(&c.blinkLevel) && clock.Reached(c.blinkPhaseStart, now, phase) {
		c.blinkOn = !c.blinkOn
		target := 0.0
		if c.blinkOn {
			target = 1
		}
		c.anim.Start(&c.blinkLevel, c.blinkLevel, target, now, ms(c.cfg.BlinkFade), animation.EaseOut)
		c.blinkPhaseStart = now
	}
	c.renderPaused(now)
}

func (c *Controller) renderPaused(now clock.Millis) {
	c.dialFraction = c.remainingFraction(now)
	f := c.frame(c.dialFraction, c.cfg.Palette.Paused)
	f.Blink = c.blinkLevel
	f.Text = strconv.Itoa(c.session.RemainingMinutes(now))
	c.renderer.Render(f)
}

func (c *Controller) resume(now clock.Millis) {
	c.session.resume(now)
	c.enterRunning(now)
}

// enterTimedOut starts the blink sequence. The session, if any, is kept
// until the next Configuring so its outcome stays observable. With no
// blinks configured the device goes straight to sleep.
func (c *Controller) enterTimedOut(now clock.Millis) {
	c.anim.CancelAll()
	c.dialFraction = 0
	c.blinkLevel = 0
	c.timeoutCycle = 0
	c.timeoutOn = false
	c.timeoutPhaseStart = now
	c.setMode(TimedOut, now)
	if c.cfg.TimeoutBlinks == 0 {
		c.enterSleeping(now)
		return
	}
	c.timeoutOn = true
	c.chime.Play()
	c.renderTimedOut()
}

// updateTimedOut steps the on/off blink sub-states. A selection arriving
// between phases is handled by poll before this runs.
func (c *Controller) updateTimedOut(now clock.Millis) {
	phase := c.cfg.TimeoutOff
	if c.timeoutOn {
		phase = c.cfg.TimeoutOn
	}
	if clock.Reached(c.timeoutPhaseStart, now, ms(phase)) {
		c.timeoutPhaseStart = now
		if c.timeoutOn {
			c.timeoutOn = false
		} else {
			c.timeoutCycle++
			if c.timeoutCycle >= c.cfg.TimeoutBlinks {
				c.enterSleeping(now)
				return
			}
			c.timeoutOn = true
			c.chime.Play()
		}
	}
	c.renderTimedOut()
}

func (c *Controller) renderTimedOut() {
	f := c.frame(0, c.cfg.Palette.Running)
	if c.timeoutOn {
		f.Blink = 1
		f.Text = "0"
	}
	c.renderer.Render(f)
}

func (c *Controller) enterSleeping(now clock.Millis) {
	c.anim.CancelAll()
	c.renderer.Clear()
	// Only input arriving from here on may wake the device.
	c.inbox.Drain()
	c.setMode(Sleeping, now)
}

// sleep blocks in the power manager. A wake event re-enters Configuring; the
// event itself is consumed. A zero selection returns to the home preset so
// the device does not time out again on its own. A power failure is
// reported and treated as a wake so the device stays usable.
func (c *Controller) sleep(ctx context.Context) {
	err := c.power.EnterLowPower(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		c.report("power.EnterLowPower", err)
	}
	if err := c.power.ResumeFromLowPower(); err != nil {
		c.report("power.ResumeFromLowPower", err)
	}

	c.inbox.Take()
	if c.selector.Minutes() == 0 {
		c.selector.Home()
	}
	c.throttle.Reset()
	c.renderer.Invalidate()
	c.enterConfiguring(c.clock.Millis(), false)
}

func (c *Controller) report(op string, err error) {
	errors.Report(&errors.DeviceError{
		Op:   op,
		Kind: errors.KindPower,
		Err:  err,
		Mode: c.mode.String(),
	})
}
