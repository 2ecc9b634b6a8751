package main

import (
	"github.com/spf13/cobra"
)

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check [TREE]",
		Short: "Verify the structure and readability of a tree",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := openDatabase()
			if err != nil {
				return err
			}
			tree, err := d.ResolveTreeish(treeArg(args))
			if err != nil {
				return err
			}
			return d.Check(tree)
		},
	}
}

// treeArg returns the optional tree argument, defaulting to HEAD.
func treeArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return "HEAD"
}
