// Package cmd implements the dialtimer CLI commands.
//
// The root command dispatches to run (interactive terminal device),
// simulate (headless scripted run) and config (print resolved settings).
package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/go-drift/dialtimer/cmd/dialtimer/internal/config"
	"github.com/go-drift/dialtimer/pkg/errors"
)

// Version information set at build time.
var (
	Version   = "0.1.0-dev"
	BuildTime = "unknown"
)

type rootOptions struct {
	configPath string
}

// NewRootCmd creates the top-level "dialtimer" command.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:   "dialtimer",
		Short: "Single-knob countdown timer with a radial dial",
		Long: `dialtimer is a one-knob countdown timer. Turn to pick a preset, wait for
the dial to settle and the countdown starts. Press to pause and resume.

Settings are read from dialtimer.yaml in the working directory, or from
the file given with --config.`,
		Version:       fmt.Sprintf("%s (built %s)", Version, BuildTime),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", config.FileName, "Configuration file")

	root.AddCommand(
		newRunCmd(opts),
		newSimulateCmd(opts),
		newConfigCmd(opts),
	)
	return root
}

// installErrorLog routes device error reports to logger and returns a
// function restoring the previous handler.
func installErrorLog(logger *slog.Logger, verbose bool) func() {
	prev := errors.SetHandler(&errors.LogHandler{Logger: logger, Verbose: verbose})
	return func() { errors.SetHandler(prev) }
}
