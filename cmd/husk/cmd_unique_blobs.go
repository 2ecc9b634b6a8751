package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/odvcencio/husk/pkg/shadow"
)

func newUniqueBlobsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unique-blobs [TREE]",
		Short: "List each distinct blob with the first path that reaches it",
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
			return d.UniqueShadows(tree, func(path shadow.Path, sh shadow.Shadow) error {
				_, err := fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", sh.ContentHash, path)
				return err
			})
		},
	}
}
