package timer

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-drift/dialtimer/pkg/clock"
	"github.com/go-drift/dialtimer/pkg/dial"
)

const minute clock.Millis = 60 * 1000

// maxSpan bounds every configured duration well inside one counter wrap.
const maxSpan = 24 * time.Hour

// SelectPolicy decides what a selection change does while a countdown is
// running or paused.
type SelectPolicy int

const (
	// SelectIgnore drops selection changes until the countdown ends.
	SelectIgnore SelectPolicy = iota
	// SelectReconfigure abandons the countdown and re-enters Configuring.
	SelectReconfigure
)

func (p SelectPolicy) String() string {
	switch p {
	case SelectIgnore:
		return "ignore"
	case SelectReconfigure:
		return "reconfigure"
	default:
		return fmt.Sprintf("SelectPolicy(%d)", int(p))
	}
}

// ParseSelectPolicy parses "ignore" or "reconfigure".
func ParseSelectPolicy(s string) (SelectPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ignore", "":
		return SelectIgnore, nil
	case "reconfigure":
		return SelectReconfigure, nil
	default:
		return SelectIgnore, fmt.Errorf("unknown running-select policy %q", s)
	}
}

// Config holds every timing constant of the controller.
type Config struct {
	// FullScale is the duration represented by a full turn of the dial.
	FullScale time.Duration
	// Presets are the selectable minute values, ascending. The device boots
	// on the first non-zero one.
	Presets []int
	// AllowZero makes the zero preset reachable by cycling.
	AllowZero bool
	// RunningSelect applies to selection changes while Running or Paused.
	RunningSelect SelectPolicy

	CenterWindow   time.Duration
	SelectThrottle time.Duration
	RunRepaint     time.Duration
	PauseIdle      time.Duration
	Sweep          time.Duration
	BlinkFade      time.Duration
	BlinkHold      time.Duration

	// TimeoutBlinks is the number of on/off blinks before sleeping. Zero
	// sleeps at once, without a chime.
	TimeoutBlinks int
	TimeoutOn     time.Duration
	TimeoutOff    time.Duration

	// Tick is the Run loop period.
	Tick time.Duration

	Palette dial.Palette
}

// DefaultConfig returns the stock device configuration.
func DefaultConfig() Config {
	return Config{
		FullScale:      60 * time.Minute,
		Presets:        []int{0, 1, 2, 3, 4, 5, 10, 15, 20, 30, 45, 60},
		AllowZero:      true,
		RunningSelect:  SelectIgnore,
		CenterWindow:   2 * time.Second,
		SelectThrottle: 120 * time.Millisecond,
		RunRepaint:     time.Second,
		PauseIdle:      10 * time.Minute,
		Sweep:          450 * time.Millisecond,
		BlinkFade:      350 * time.Millisecond,
		BlinkHold:      250 * time.Millisecond,
		TimeoutBlinks:  6,
		TimeoutOn:      300 * time.Millisecond,
		TimeoutOff:     300 * time.Millisecond,
		Tick:           20 * time.Millisecond,
		Palette:        dial.DefaultPalette,
	}
}

// Validate reports every invalid field.
func (c Config) Validate() error {
	var errs []error
	if c.FullScale <= 0 || c.FullScale > maxSpan {
		errs = append(errs, fmt.Errorf("full scale %v out of range (0, %v]", c.FullScale, maxSpan))
	}
	if len(c.Presets) == 0 {
		errs = append(errs, errors.New("no presets"))
	}
	for _, m := range c.Presets {
		if time.Duration(m)*time.Minute > maxSpan {
			errs = append(errs, fmt.Errorf("preset %d minutes exceeds %v", m, maxSpan))
		}
	}
	for _, f := range []struct {
		name string
		d    time.Duration
	}{
		{"center window", c.CenterWindow},
		{"select throttle", c.SelectThrottle},
		{"run repaint", c.RunRepaint},
		{"pause idle", c.PauseIdle},
		{"sweep", c.Sweep},
		{"blink fade", c.BlinkFade},
		{"blink hold", c.BlinkHold},
		{"timeout on", c.TimeoutOn},
		{"timeout off", c.TimeoutOff},
	} {
		if f.d < 0 || f.d > maxSpan {
			errs = append(errs, fmt.Errorf("%s %v out of range [0, %v]", f.name, f.d, maxSpan))
		}
	}
	if c.TimeoutBlinks < 0 {
		errs = append(errs, fmt.Errorf("timeout blinks %d is negative", c.TimeoutBlinks))
	}
	if c.Tick <= 0 {
		errs = append(errs, fmt.Errorf("tick %v must be positive", c.Tick))
	}
	return errors.Join(errs...)
}

func ms(d time.Duration) clock.Millis {
	return clock.FromDuration(d)
}
