// Package config loads the optional dialtimer.yaml and resolves it onto the
// controller configuration.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"

	"github.com/go-drift/dialtimer/pkg/dial"
	"github.com/go-drift/dialtimer/pkg/graphics"
	"github.com/go-drift/dialtimer/pkg/timer"
)

// FileName is the default configuration file looked up in the working
// directory.
const FileName = "dialtimer.yaml"

// DefaultPanelSize is the framebuffer side when the file does not set one.
const DefaultPanelSize = 120

const maxPanelSize = 1024

// Config represents the optional dialtimer.yaml. Every field is optional;
// unset fields keep their defaults.
type Config struct {
	Device  DeviceConfig  `yaml:"device"`
	Timer   TimerConfig   `yaml:"timer"`
	Timeout TimeoutConfig `yaml:"timeout"`
	Colors  ColorsConfig  `yaml:"colors"`
}

// DeviceConfig describes the hardware the file targets.
type DeviceConfig struct {
	Name     string `yaml:"name,omitempty"`
	Firmware string `yaml:"firmware,omitempty"`
	Panel    *int   `yaml:"panel,omitempty"`
}

// TimerConfig holds selection and countdown timing.
type TimerConfig struct {
	FullScale      *Duration `yaml:"full_scale,omitempty"`
	Presets        []int     `yaml:"presets,omitempty"`
	AllowZero      *bool     `yaml:"allow_zero,omitempty"`
	RunningSelect  string    `yaml:"running_select,omitempty"`
	CenterWindow   *Duration `yaml:"center_window,omitempty"`
	SelectThrottle *Duration `yaml:"select_throttle,omitempty"`
	RunRepaint     *Duration `yaml:"run_repaint,omitempty"`
	PauseIdle      *Duration `yaml:"pause_idle,omitempty"`
	Sweep          *Duration `yaml:"sweep,omitempty"`
	BlinkFade      *Duration `yaml:"blink_fade,omitempty"`
	BlinkHold      *Duration `yaml:"blink_hold,omitempty"`
	Tick           *Duration `yaml:"tick,omitempty"`
}

// TimeoutConfig holds the timeout blink sequence.
type TimeoutConfig struct {
	Blinks *int      `yaml:"blinks,omitempty"`
	On     *Duration `yaml:"on,omitempty"`
	Off    *Duration `yaml:"off,omitempty"`
	Chime  *bool     `yaml:"chime,omitempty"`
}

// ColorsConfig overrides the dial palette.
type ColorsConfig struct {
	Background *Color `yaml:"background,omitempty"`
	Running    *Color `yaml:"running,omitempty"`
	Paused     *Color `yaml:"paused,omitempty"`
	Pointer    *Color `yaml:"pointer,omitempty"`
	Blink      *Color `yaml:"blink,omitempty"`
	Text       *Color `yaml:"text,omitempty"`
}

// Duration is a time.Duration written as a Go duration string ("450ms").
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	v, err := time.ParseDuration(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*d = Duration(v)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// Color is a graphics.Color written as "#RRGGBB" or "#RRGGBBAA".
type Color graphics.Color

// UnmarshalYAML implements yaml.Unmarshaler.
func (c *Color) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	v, err := graphics.ParseHex(s)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*c = Color(v)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (c Color) MarshalYAML() (any, error) {
	return graphics.Color(c).Hex(), nil
}

// Resolved contains resolved configuration values.
type Resolved struct {
	// Path is the file the values came from, empty when none was found.
	Path      string
	Name      string
	Firmware  string
	PanelSize int
	Chime     bool
	Timer     timer.Config
}

// LoadOptional reads path if present. A missing file yields an empty
// Config.
func LoadOptional(path string) (*Config, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, false, nil
		}
		return nil, false, fmt.Errorf("failed to read %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, false, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return cfg, true, nil
}

// Parse decodes a dialtimer.yaml document. Unknown keys are rejected.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return &cfg, nil
}

// Resolve loads path (if present), overlays it on the defaults and
// validates the result.
func Resolve(path string) (*Resolved, error) {
	cfg, found, err := LoadOptional(path)
	if err != nil {
		return nil, err
	}
	r, err := cfg.Resolve()
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", path, err)
	}
	if found {
		r.Path = path
	}
	return r, nil
}

// Resolve overlays c on the defaults and validates the result.
func (c *Config) Resolve() (*Resolved, error) {
	firmware, err := resolveFirmware(c.Device.Firmware)
	if err != nil {
		return nil, err
	}

	r := &Resolved{
		Name:      strings.TrimSpace(c.Device.Name),
		Firmware:  firmware,
		PanelSize: DefaultPanelSize,
		Chime:     true,
		Timer:     timer.DefaultConfig(),
	}
	if r.Name == "" {
		r.Name = "dialtimer"
	}
	if c.Device.Panel != nil {
		r.PanelSize = *c.Device.Panel
	}
	if c.Timeout.Chime != nil {
		r.Chime = *c.Timeout.Chime
	}

	t := &r.Timer
	tc := c.Timer
	setDuration(&t.FullScale, tc.FullScale)
	if len(tc.Presets) > 0 {
		t.Presets = append([]int(nil), tc.Presets...)
	}
	if tc.AllowZero != nil {
		t.AllowZero = *tc.AllowZero
	}
	if tc.RunningSelect != "" {
		p, err := timer.ParseSelectPolicy(tc.RunningSelect)
		if err != nil {
			return nil, err
		}
		t.RunningSelect = p
	}
	setDuration(&t.CenterWindow, tc.CenterWindow)
	setDuration(&t.SelectThrottle, tc.SelectThrottle)
	setDuration(&t.RunRepaint, tc.RunRepaint)
	setDuration(&t.PauseIdle, tc.PauseIdle)
	setDuration(&t.Sweep, tc.Sweep)
	setDuration(&t.BlinkFade, tc.BlinkFade)
	setDuration(&t.BlinkHold, tc.BlinkHold)
	setDuration(&t.Tick, tc.Tick)

	if c.Timeout.Blinks != nil {
		t.TimeoutBlinks = *c.Timeout.Blinks
	}
	setDuration(&t.TimeoutOn, c.Timeout.On)
	setDuration(&t.TimeoutOff, c.Timeout.Off)

	setColor(&t.Palette.Background, c.Colors.Background)
	setColor(&t.Palette.Running, c.Colors.Running)
	setColor(&t.Palette.Paused, c.Colors.Paused)
	setColor(&t.Palette.Pointer, c.Colors.Pointer)
	setColor(&t.Palette.Blink, c.Colors.Blink)
	setColor(&t.Palette.Text, c.Colors.Text)

	var errs []error
	if r.PanelSize > maxPanelSize || !dial.LayoutFor(r.PanelSize, r.PanelSize).Valid() {
		errs = append(errs, fmt.Errorf("panel size %d cannot hold the dial", r.PanelSize))
	}
	if err := t.Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := validatePresets(t.Presets); err != nil {
		errs = append(errs, err)
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return r, nil
}

// File renders r back into a fully populated Config.
func (r *Resolved) File() *Config {
	t := r.Timer
	panel := r.PanelSize
	blinks := t.TimeoutBlinks
	chime := r.Chime
	allowZero := t.AllowZero
	return &Config{
		Device: DeviceConfig{Name: r.Name, Firmware: r.Firmware, Panel: &panel},
		Timer: TimerConfig{
			FullScale:      dur(t.FullScale),
			Presets:        t.Presets,
			AllowZero:      &allowZero,
			RunningSelect:  t.RunningSelect.String(),
			CenterWindow:   dur(t.CenterWindow),
			SelectThrottle: dur(t.SelectThrottle),
			RunRepaint:     dur(t.RunRepaint),
			PauseIdle:      dur(t.PauseIdle),
			Sweep:          dur(t.Sweep),
			BlinkFade:      dur(t.BlinkFade),
			BlinkHold:      dur(t.BlinkHold),
			Tick:           dur(t.Tick),
		},
		Timeout: TimeoutConfig{
			Blinks: &blinks,
			On:     dur(t.TimeoutOn),
			Off:    dur(t.TimeoutOff),
			Chime:  &chime,
		},
		Colors: colorsOf(t.Palette),
	}
}

// Marshal encodes c as YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// resolveFirmware canonicalizes the firmware version. Only the v1 line is
// supported.
func resolveFirmware(v string) (string, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return "", nil
	}
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	if !semver.IsValid(v) {
		return "", fmt.Errorf("invalid firmware version %q", v)
	}
	if semver.Major(v) != "v1" {
		return "", fmt.Errorf("unsupported firmware %s: want v1.x", v)
	}
	return semver.Canonical(v), nil
}

func validatePresets(presets []int) error {
	for i, m := range presets {
		if m < 0 {
			return fmt.Errorf("preset %d is negative", m)
		}
		if i > 0 && m <= presets[i-1] {
			return fmt.Errorf("presets must be strictly ascending: %d after %d", m, presets[i-1])
		}
	}
	return nil
}

func setDuration(dst *time.Duration, v *Duration) {
	if v != nil {
		*dst = time.Duration(*v)
	}
}

func setColor(dst *graphics.Color, v *Color) {
	if v != nil {
		*dst = graphics.Color(*v)
	}
}

func dur(d time.Duration) *Duration {
	v := Duration(d)
	return &v
}

func colorsOf(p dial.Palette) ColorsConfig {
	c := func(v graphics.Color) *Color {
		out := Color(v)
		return &out
	}
	return ColorsConfig{
		Background: c(p.Background),
		Running:    c(p.Running),
		Paused:     c(p.Paused),
		Pointer:    c(p.Pointer),
		Blink:      c(p.Blink),
		Text:       c(p.Text),
	}
}
