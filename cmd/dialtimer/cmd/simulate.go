package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/go-drift/dialtimer/cmd/dialtimer/internal/config"
	"github.com/go-drift/dialtimer/pkg/audio"
	"github.com/go-drift/dialtimer/pkg/clock"
	"github.com/go-drift/dialtimer/pkg/display"
	"github.com/go-drift/dialtimer/pkg/input"
	"github.com/go-drift/dialtimer/pkg/timer"
)

func newSimulateCmd(opts *rootOptions) *cobra.Command {
	var (
		script     string
		scriptFile string
		pngPath    string
		verbose    bool
	)

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run a scripted session headlessly",
		Long: `Drive the controller on a simulated clock and print every mode transition.

Script statements are separated by ';' or newlines:
  select <minutes>   snap to the nearest preset
  turn <steps>       rotate the knob
  press              press the button
  wait <duration>    let time pass ("3s", "1m30s")
  status             print the controller state`,
		Example: `  dialtimer simulate --script "select 25; wait 3s; press; wait 30s; status"
  dialtimer simulate --file morning.dial --png final.png`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			src := script
			if scriptFile != "" {
				data, err := os.ReadFile(scriptFile)
				if err != nil {
					return fmt.Errorf("failed to read script: %w", err)
				}
				src = string(data)
			}
			steps, err := ParseScript(src)
			if err != nil {
				return err
			}
			if len(steps) == 0 {
				return fmt.Errorf("empty script: pass --script or --file")
			}

			resolved, err := config.Resolve(opts.configPath)
			if err != nil {
				return err
			}

			level := slog.LevelWarn
			if verbose {
				level = slog.LevelDebug
			}
			logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
			restore := installErrorLog(logger, verbose)
			defer restore()

			sim, err := NewSimulation(resolved.Timer, resolved.PanelSize, cmd.OutOrStdout(), logger)
			if err != nil {
				return err
			}
			if err := sim.Run(cmd.Context(), steps); err != nil {
				return err
			}
			sim.PrintStatus()

			if pngPath != "" {
				f, err := os.Create(pngPath)
				if err != nil {
					return fmt.Errorf("failed to create %s: %w", pngPath, err)
				}
				defer f.Close()
				if err := sim.Raster().WritePNG(f); err != nil {
					return fmt.Errorf("failed to write %s: %w", pngPath, err)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&script, "script", "s", "", "Inline script")
	cmd.Flags().StringVarP(&scriptFile, "file", "f", "", "Read the script from a file")
	cmd.Flags().StringVar(&pngPath, "png", "", "Write the final framebuffer as PNG")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Log render and input decisions")

	return cmd
}

// manualClock is a counter moved only by the simulation.
type manualClock struct {
	now clock.Millis
}

func (c *manualClock) Millis() clock.Millis { return c.now }

// Simulation runs a controller against a manual clock and an in-memory
// framebuffer.
type Simulation struct {
	clock  *manualClock
	raster *display.Raster
	inbox  *input.Mailbox
	chime  *audio.Silent
	ctrl   *timer.Controller
	tick   time.Duration
	out    io.Writer
	start  clock.Millis
}

// NewSimulation builds a controller on a size by size framebuffer. Mode
// transitions are printed to out as they happen.
func NewSimulation(cfg timer.Config, size int, out io.Writer, logger *slog.Logger) (*Simulation, error) {
	s := &Simulation{
		clock:  &manualClock{},
		raster: display.NewRaster(size, size),
		inbox:  input.NewMailbox(),
		chime:  &audio.Silent{},
		tick:   cfg.Tick,
		out:    out,
	}
	ctrl, err := timer.New(cfg, s.clock, s.raster, s.inbox,
		timer.WithLogger(logger),
		timer.WithChime(s.chime),
		timer.WithTransitionHook(s.printTransition),
	)
	if err != nil {
		return nil, err
	}
	s.ctrl = ctrl
	return s, nil
}

// Controller returns the simulated controller.
func (s *Simulation) Controller() *timer.Controller {
	return s.ctrl
}

// Raster returns the framebuffer.
func (s *Simulation) Raster() *display.Raster {
	return s.raster
}

// Chimes returns how many timeout tones sounded.
func (s *Simulation) Chimes() int {
	return s.chime.Plays()
}

// Elapsed returns the simulated time since the start.
func (s *Simulation) Elapsed() time.Duration {
	return clock.ElapsedSince(s.start, s.clock.now).Duration()
}

// Run executes steps in order.
func (s *Simulation) Run(ctx context.Context, steps []Step) error {
	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return err
		}
		switch step.Kind {
		case StepSelect:
			s.wakeIfAsleep(ctx)
			s.ctrl.SelectMinutes(step.Value)
		case StepTurn:
			s.inbox.AddSteps(step.Value)
			s.ctrl.Tick(ctx)
		case StepPress:
			s.inbox.Press()
			s.ctrl.Tick(ctx)
		case StepWait:
			s.wait(ctx, step.Wait)
		case StepStatus:
			s.PrintStatus()
		}
	}
	return nil
}

// wait advances the clock in tick steps. A sleeping device is not ticked:
// it would block until input arrives.
func (s *Simulation) wait(ctx context.Context, d time.Duration) {
	for d > 0 {
		step := min(s.tick, d)
		s.clock.now = clock.Add(s.clock.now, clock.FromDuration(step))
		d -= step
		if s.ctrl.Mode() == timer.Sleeping {
			continue
		}
		s.ctrl.Tick(ctx)
	}
}

// wakeIfAsleep presses the button to wake the device. The press itself is
// consumed by the wake.
func (s *Simulation) wakeIfAsleep(ctx context.Context) {
	if s.ctrl.Mode() != timer.Sleeping {
		return
	}
	s.inbox.Press()
	s.ctrl.Tick(ctx)
}

func (s *Simulation) printTransition(tr timer.Transition) {
	at := clock.ElapsedSince(s.start, tr.At).Duration()
	fmt.Fprintf(s.out, "%9s  %-11s -> %-11s", formatElapsed(at), tr.From, tr.To)
	if tr.To == timer.Running || tr.To == timer.Paused {
		fmt.Fprintf(s.out, "  session=%s", tr.Session.String()[:8])
	}
	fmt.Fprintln(s.out)
}

// PrintStatus writes one status line.
func (s *Simulation) PrintStatus() {
	st := s.ctrl.Status()
	fmt.Fprintf(s.out, "%9s  status: mode=%s selected=%dm", formatElapsed(s.Elapsed()), st.Mode, st.Selected)
	if st.Duration > 0 {
		fmt.Fprintf(s.out, " remaining=%s of %s", st.Remaining.Duration(), st.Duration.Duration())
	}
	fmt.Fprintf(s.out, " chimes=%d\n", s.Chimes())
}

func formatElapsed(d time.Duration) string {
	return fmt.Sprintf("%.3fs", d.Seconds())
}
