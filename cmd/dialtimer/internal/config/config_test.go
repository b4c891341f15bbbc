package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-drift/dialtimer/pkg/graphics"
	"github.com/go-drift/dialtimer/pkg/timer"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestResolve_MissingFileUsesDefaults(t *testing.T) {
	r, err := Resolve(filepath.Join(t.TempDir(), FileName))
	require.NoError(t, err)

	assert.Empty(t, r.Path)
	assert.Equal(t, "dialtimer", r.Name)
	assert.Equal(t, DefaultPanelSize, r.PanelSize)
	assert.True(t, r.Chime)
	assert.Equal(t, timer.DefaultConfig(), r.Timer)
}

func TestResolve_EmptyFile(t *testing.T) {
	r, err := Resolve(writeFile(t, ""))
	require.NoError(t, err)
	assert.NotEmpty(t, r.Path)
	assert.Equal(t, timer.DefaultConfig(), r.Timer)
}

func TestResolve_OverlaysFile(t *testing.T) {
	path := writeFile(t, `
device:
  name: kitchen
  firmware: 1.4.2
  panel: 240
timer:
  full_scale: 30m
  presets: [0, 5, 10, 25]
  allow_zero: false
  running_select: reconfigure
  center_window: 1500ms
  tick: 10ms
timeout:
  blinks: 3
  on: 200ms
  chime: false
colors:
  running: "#00FF00"
`)
	r, err := Resolve(path)
	require.NoError(t, err)

	assert.Equal(t, path, r.Path)
	assert.Equal(t, "kitchen", r.Name)
	assert.Equal(t, "v1.4.2", r.Firmware)
	assert.Equal(t, 240, r.PanelSize)
	assert.False(t, r.Chime)

	cfg := r.Timer
	assert.Equal(t, 30*time.Minute, cfg.FullScale)
	assert.Equal(t, []int{0, 5, 10, 25}, cfg.Presets)
	assert.False(t, cfg.AllowZero)
	assert.Equal(t, timer.SelectReconfigure, cfg.RunningSelect)
	assert.Equal(t, 1500*time.Millisecond, cfg.CenterWindow)
	assert.Equal(t, 10*time.Millisecond, cfg.Tick)
	assert.Equal(t, 3, cfg.TimeoutBlinks)
	assert.Equal(t, 200*time.Millisecond, cfg.TimeoutOn)
	assert.Equal(t, graphics.RGB(0, 255, 0), cfg.Palette.Running)

	// Untouched fields keep their defaults.
	def := timer.DefaultConfig()
	assert.Equal(t, def.Sweep, cfg.Sweep)
	assert.Equal(t, def.TimeoutOff, cfg.TimeoutOff)
	assert.Equal(t, def.Palette.Background, cfg.Palette.Background)
}

func TestResolve_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"unknown key", "timer:\n  fullscale: 30m\n", "fullscale"},
		{"bad duration", "timer:\n  sweep: fast\n", "invalid duration"},
		{"bad color", "colors:\n  text: teal\n", "invalid color"},
		{"bad firmware", "device:\n  firmware: one\n", "invalid firmware"},
		{"future firmware", "device:\n  firmware: v2.0.0\n", "unsupported firmware"},
		{"bad policy", "timer:\n  running_select: restart\n", "running-select"},
		{"descending presets", "timer:\n  presets: [10, 5]\n", "ascending"},
		{"tiny panel", "device:\n  panel: 32\n", "panel size 32"},
		{"zero tick", "timer:\n  tick: 0s\n", "tick"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Resolve(writeFile(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestFile_RoundTrip(t *testing.T) {
	r, err := (&Config{}).Resolve()
	require.NoError(t, err)
	r.Firmware = "v1.0.0"

	data, err := r.File().Marshal()
	require.NoError(t, err)
	assert.Contains(t, string(data), "sweep: 450ms")
	assert.Contains(t, string(data), "#101014")

	parsed, err := Parse(data)
	require.NoError(t, err)
	back, err := parsed.Resolve()
	require.NoError(t, err)
	assert.Equal(t, r, back)
}
