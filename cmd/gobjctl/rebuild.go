package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRebuildCmd(flags *globalFlags) *cobra.Command {
	var sync bool

	cmd := &cobra.Command{
		Use:   "rebuild",
		Short: "Rebuild secondary indexes for every class declared in --schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			eng, err := openEngine(*flags)
			if err != nil {
				return err
			}
			if len(eng.classes) == 0 {
				return fmt.Errorf("no classes declared; pass --schema")
			}
			if err := eng.manager.Rebuild(sync); err != nil {
				return fmt.Errorf("rebuild failed: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "rebuilt indexes for %d class(es)\n", len(eng.classes))
			return nil
		},
	}

	cmd.Flags().BoolVar(&sync, "sync", false, "sync the backend once the rebuild has finished")
	return cmd
}
