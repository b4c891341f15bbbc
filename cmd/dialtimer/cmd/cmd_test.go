package cmd

import (
	"bytes"
	"context"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-drift/dialtimer/pkg/timer"
)

// executeCmd runs the root command with a config path that does not exist,
// so defaults apply, and captures its output.
func executeCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(append([]string{"--config", filepath.Join(t.TempDir(), "none.yaml")}, args...))
	err := root.Execute()
	return buf.String(), err
}

func newTestSimulation(t *testing.T) (*Simulation, *bytes.Buffer) {
	t.Helper()
	out := new(bytes.Buffer)
	sim, err := NewSimulation(timer.DefaultConfig(), 120, out, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	return sim, out
}

func runScript(t *testing.T, sim *Simulation, src string) {
	t.Helper()
	steps, err := ParseScript(src)
	require.NoError(t, err)
	require.NoError(t, sim.Run(context.Background(), steps))
}

func TestSimulation_StartsCountdown(t *testing.T) {
	sim, out := newTestSimulation(t)
	runScript(t, sim, "select 25; wait 2s; status")

	assert.Equal(t, timer.Running, sim.Controller().Mode())
	assert.Contains(t, out.String(), "configuring -> running")
	assert.Contains(t, out.String(), "remaining=30m0s of 30m0s")
}

func TestSimulation_PauseAndResume(t *testing.T) {
	sim, _ := newTestSimulation(t)
	runScript(t, sim, "select 1; wait 2s; wait 30s; press; wait 5s")
	require.Equal(t, timer.Paused, sim.Controller().Mode())
	assert.EqualValues(t, 30_000, sim.Controller().Status().Remaining)

	runScript(t, sim, "press; wait 30s")
	assert.Equal(t, timer.TimedOut, sim.Controller().Mode())
}

func TestSimulation_TimeoutSleepAndWake(t *testing.T) {
	sim, out := newTestSimulation(t)
	runScript(t, sim, "select 0; wait 2s; wait 4s")
	require.Equal(t, timer.Sleeping, sim.Controller().Mode())
	assert.Equal(t, 6, sim.Chimes())

	// Waiting while asleep neither blocks nor wakes.
	runScript(t, sim, "wait 1m")
	require.Equal(t, timer.Sleeping, sim.Controller().Mode())

	runScript(t, sim, "press")
	assert.Equal(t, timer.Configuring, sim.Controller().Mode())
	assert.Contains(t, out.String(), "sleeping    -> configuring")
	assert.NotContains(t, out.String(), "-> running")
}

func TestSimulation_SelectWakesSleepingDevice(t *testing.T) {
	sim, _ := newTestSimulation(t)
	runScript(t, sim, "select 0; wait 6s; select 5")
	assert.Equal(t, timer.Configuring, sim.Controller().Mode())
	assert.Equal(t, 5, sim.Controller().Selected())
}

func TestSimulation_CancelledContext(t *testing.T) {
	sim, _ := newTestSimulation(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	steps, err := ParseScript("select 5")
	require.NoError(t, err)
	assert.ErrorIs(t, sim.Run(ctx, steps), context.Canceled)
}

func TestSimulateCmd_WritesPNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dial.png")
	out, err := executeCmd(t, "simulate", "--script", "select 15; wait 3s", "--png", path)
	require.NoError(t, err)
	assert.Contains(t, out, "status: mode=running selected=15m")

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 120, img.Bounds().Dx())
}

func TestSimulateCmd_Errors(t *testing.T) {
	_, err := executeCmd(t, "simulate")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty script")

	_, err = executeCmd(t, "simulate", "--script", "dance")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown command")
}

func TestConfigCmd_PrintsDefaults(t *testing.T) {
	out, err := executeCmd(t, "config")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "# defaults"))
	assert.Contains(t, out, "sweep: 450ms")
	assert.Contains(t, out, "running_select: ignore")
}

func TestConfigCmd_ReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dialtimer.yaml")
	require.NoError(t, os.WriteFile(path, []byte("timer:\n  sweep: 200ms\n"), 0o644))

	root := NewRootCmd()
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetArgs([]string{"config", "--config", path})
	require.NoError(t, root.Execute())
	assert.Contains(t, buf.String(), "# resolved from "+path)
	assert.Contains(t, buf.String(), "sweep: 200ms")
}

func TestRootCmd_Version(t *testing.T) {
	out, err := executeCmd(t, "--version")
	require.NoError(t, err)
	assert.Contains(t, out, Version)
}
