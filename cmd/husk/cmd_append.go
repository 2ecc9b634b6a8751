package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/odvcencio/husk/pkg/shadow"
)

func newAppendCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "append MODE OBJECT RELATIVE_PATH [BIG_TREE]",
		Short: "Graft an object into a composite tree at a path",
		Args:  cobra.RangeArgs(3, 4),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := openDatabase()
			if err != nil {
				return err
			}

			mode := args[0]
			obj, err := d.ResolveTreeish(args[1])
			if err != nil {
				return err
			}
			relPath, err := shadow.ParsePath(args[2])
			if err != nil {
				return err
			}
			bigSpec := "HEAD"
			if len(args) > 3 {
				bigSpec = args[3]
			}
			bigTree, err := d.ResolveTreeish(bigSpec)
			if err != nil {
				return err
			}

			newTree, err := d.Append(bigTree, relPath, mode, obj, force)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), newTree)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "replace RELATIVE_PATH if it exists")
	return cmd
}
