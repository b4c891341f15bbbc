package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-drift/dialtimer/cmd/dialtimer/internal/config"
)

func newConfigCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the resolved configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			resolved, err := config.Resolve(opts.configPath)
			if err != nil {
				return err
			}
			data, err := resolved.File().Marshal()
			if err != nil {
				return fmt.Errorf("failed to encode config: %w", err)
			}
			out := cmd.OutOrStdout()
			if resolved.Path != "" {
				fmt.Fprintf(out, "# resolved from %s\n", resolved.Path)
			} else {
				fmt.Fprintln(out, "# defaults (no config file found)")
			}
			_, err = out.Write(data)
			return err
		},
	}
}
