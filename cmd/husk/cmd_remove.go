package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/odvcencio/husk/pkg/shadow"
)

func newRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove RELATIVE_PATH [BIG_TREE]",
		Short: "Excise the entry at a path from a composite tree",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := openDatabase()
			if err != nil {
				return err
			}

			relPath, err := shadow.ParsePath(args[0])
			if err != nil {
				return err
			}
			bigSpec := "HEAD"
			if len(args) > 1 {
				bigSpec = args[1]
			}
			bigTree, err := d.ResolveTreeish(bigSpec)
			if err != nil {
				return err
			}

			newTree, err := d.Remove(bigTree, relPath)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), newTree)
			return nil
		},
	}
}
