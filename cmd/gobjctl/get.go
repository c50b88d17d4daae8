package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oba-ldap/gobj/errs"
)

func newGetCmd(flags *globalFlags) *cobra.Command {
	var depth int

	cmd := &cobra.Command{
		Use:   "get <class> <oid>",
		Short: "Fetch one object and print it as JSON",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := openEngine(*flags)
			if err != nil {
				return err
			}
			class, err := eng.class(args[0])
			if err != nil {
				return err
			}
			obj, err := class.Get(args[1])
			if err != nil {
				if errs.Is(err, errs.NotFound) {
					return fmt.Errorf("%s/%s: not found", args[0], args[1])
				}
				return err
			}
			exported, err := obj.Export(depth)
			if err != nil {
				return fmt.Errorf("exporting %s/%s: %w", args[0], args[1], err)
			}
			encoded, err := json.MarshalIndent(exported, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(encoded))
			return nil
		},
	}

	cmd.Flags().IntVar(&depth, "depth", 1, "relation export depth")
	return cmd
}
