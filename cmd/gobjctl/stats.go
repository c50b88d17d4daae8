package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newStatsCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats [class...]",
		Short: "Report object counts and index bucket sizes for declared classes",
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := openEngine(*flags)
			if err != nil {
				return err
			}
			names := args
			if len(names) == 0 {
				for name := range eng.classes {
					names = append(names, name)
				}
			}
			out := cmd.OutOrStdout()
			for _, name := range names {
				class, err := eng.class(name)
				if err != nil {
					return err
				}
				count, err := class.Count()
				if err != nil {
					return fmt.Errorf("counting %s: %w", name, err)
				}
				fmt.Fprintf(out, "%s: %d object(s)\n", name, count)
				for indexName := range class.Descriptor().IndexBy {
					keys, err := eng.manager.Bucket(name, indexName).Keys()
					if err != nil {
						return fmt.Errorf("listing index %s/%s: %w", name, indexName, err)
					}
					fmt.Fprintf(out, "  index %s: %d key(s)\n", indexName, len(keys))
				}
			}
			return nil
		},
	}
	return cmd
}
