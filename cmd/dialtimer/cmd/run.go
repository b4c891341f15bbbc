package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/go-drift/dialtimer/cmd/dialtimer/internal/config"
	"github.com/go-drift/dialtimer/pkg/audio"
	"github.com/go-drift/dialtimer/pkg/clock"
	deverrors "github.com/go-drift/dialtimer/pkg/errors"
	"github.com/go-drift/dialtimer/pkg/input"
	"github.com/go-drift/dialtimer/pkg/power"
	"github.com/go-drift/dialtimer/pkg/terminal"
	"github.com/go-drift/dialtimer/pkg/timer"
)

func newRunCmd(opts *rootOptions) *cobra.Command {
	var (
		logFile string
		debug   bool
		mute    bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the timer in this terminal",
		Long: `Run the dial in the terminal.

Keys:
  Right, l, +, wheel up      next preset
  Left, h, -, wheel down     previous preset
  Space, Enter, click        button (pause, resume, dismiss)
  q, Esc, Ctrl-C             quit

The terminal belongs to the dial while it runs, so logs go to --log-file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !interactive() {
				return fmt.Errorf("run needs an interactive terminal; use \"dialtimer simulate\" instead")
			}
			resolved, err := config.Resolve(opts.configPath)
			if err != nil {
				return err
			}

			logger, closeLog, err := openLog(logFile, debug)
			if err != nil {
				return err
			}
			defer closeLog()
			restore := installErrorLog(logger, debug)
			defer restore()

			chime := openChime(resolved.Chime && !mute, logger)
			if s, ok := chime.(*audio.Speaker); ok {
				defer s.Close()
			}
			return runDevice(cmd.Context(), resolved, logger, chime)
		},
	}

	cmd.Flags().StringVar(&logFile, "log-file", "", "Write logs to this file")
	cmd.Flags().BoolVar(&debug, "debug", false, "Log at debug level")
	cmd.Flags().BoolVar(&mute, "mute", false, "Disable the timeout chime")

	return cmd
}

func runDevice(ctx context.Context, resolved *config.Resolved, logger *slog.Logger, chime timer.Chime) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("creating screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("initializing screen: %w", err)
	}
	defer screen.Fini()
	screen.EnableMouse()
	screen.HideCursor()

	panel := terminal.NewPanel(screen, resolved.PanelSize)
	inbox := input.NewMailbox()

	pm := power.NewSimulated(inbox)
	pm.OnSleep = func() { panel.SetDimmed(true) }
	pm.OnResume = func() { panel.SetDimmed(false) }

	ctrl, err := timer.New(resolved.Timer, clock.NewSystem(), panel, inbox,
		timer.WithLogger(logger),
		timer.WithChime(chime),
		timer.WithPower(pm),
	)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		defer cancel()
		// A pump panic stops the device so the screen is restored.
		guard := deverrors.Guard{Op: "terminal.Pump"}
		defer guard.Recover()
		if err := terminal.Pump(screen, panel, inbox); err != nil && !errors.Is(err, terminal.ErrQuit) {
			logger.Error("input pump failed", "error", err)
		}
	}()

	if err := ctrl.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func interactive() bool {
	in, out := os.Stdin.Fd(), os.Stdout.Fd()
	return (isatty.IsTerminal(in) || isatty.IsCygwinTerminal(in)) &&
		(isatty.IsTerminal(out) || isatty.IsCygwinTerminal(out))
}

// openLog returns a logger writing to path, or a discarding one when path
// is empty.
func openLog(path string, debug bool) (*slog.Logger, func(), error) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	if path == "" {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	logger := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: level}))
	return logger, func() { f.Close() }, nil
}

// openChime opens the speaker. Audio is optional: without a device the
// timer runs silently.
func openChime(enabled bool, logger *slog.Logger) timer.Chime {
	if !enabled {
		return &audio.Silent{}
	}
	s, err := audio.NewSpeaker(audio.DefaultTone)
	if err != nil {
		logger.Warn("audio unavailable, chime disabled", "error", err)
		return &audio.Silent{}
	}
	return s
}
