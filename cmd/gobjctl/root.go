package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	flags := globalFlags{}

	cmd := &cobra.Command{
		Use:           "gobjctl",
		Short:         "Inspect and maintain a gobj store directory",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	cmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "path to a TOML engine config (defaults to an in-memory backend)")
	cmd.PersistentFlags().StringVar(&flags.schemaPath, "schema", "", "path to a TOML class schema (required by commands that touch classes)")

	cmd.AddCommand(newRebuildCmd(&flags))
	cmd.AddCommand(newStatsCmd(&flags))
	cmd.AddCommand(newGetCmd(&flags))

	return cmd
}
