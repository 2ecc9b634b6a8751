package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/odvcencio/husk/pkg/shadow"
)

func newCheckBlobsCmd() *cobra.Command {
	var deep bool
	cmd := &cobra.Command{
		Use:   "check-blobs [TREE]",
		Short: "Report tree blobs missing or corrupt in the substance store",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := openDatabase()
			if err != nil {
				return err
			}
			sub, err := openSubstance(d)
			if err != nil {
				return err
			}
			tree, err := d.ResolveTreeish(treeArg(args))
			if err != nil {
				return err
			}
			return d.UniqueShadows(tree, func(path shadow.Path, sh shadow.Shadow) error {
				if !sub.HaveBlob(sh.ContentHash) {
					fmt.Fprintf(cmd.OutOrStdout(), "missing blob: %s %s\n", sh.ContentHash, path)
					return nil
				}
				if deep {
					if err := sub.CheckBlob(sh.ContentHash); err != nil {
						fmt.Fprintf(cmd.OutOrStdout(), "invalid blob: %s %s\n", sh.ContentHash, path)
					}
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&deep, "deep", false, "re-hash stored bytes instead of only checking presence")
	return cmd
}
