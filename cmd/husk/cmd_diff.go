package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/odvcencio/husk/pkg/db"
	"github.com/odvcencio/husk/pkg/object"
)

func newDiffCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "diff [TREE_A] [TREE_B]",
		Short: "Shallow-diff two trees (default: HEAD^ against HEAD)",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := openDatabase()
			if err != nil {
				return err
			}

			specA, specB := "HEAD^", "HEAD"
			switch len(args) {
			case 1:
				specA, specB = "HEAD", args[0]
			case 2:
				specA, specB = args[0], args[1]
			}

			treeA, err := resolveDiffTree(d, specA)
			if err != nil {
				return err
			}
			treeB, err := resolveDiffTree(d, specB)
			if err != nil {
				return err
			}

			return d.ShallowDiff(treeA, treeB, func(diff db.Difference) error {
				marker := "-"
				if diff.Side == db.SideB {
					marker = "+"
				}
				_, err := fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", marker, diff)
				return err
			})
		},
	}
}

// resolveDiffTree adds "HEAD^" (first parent of HEAD) on top of the usual
// treeish forms.
func resolveDiffTree(d *db.Database, spec string) (object.Hash, error) {
	if spec == "HEAD^" {
		head, err := d.ResolveRef("HEAD")
		if err != nil {
			return "", err
		}
		if head == "" {
			return "", fmt.Errorf("resolve %q: unborn HEAD", spec)
		}
		commit, err := d.Store.ReadCommit(head)
		if err != nil {
			return "", err
		}
		if len(commit.Parents) == 0 {
			return "", fmt.Errorf("resolve %q: HEAD has no parent", spec)
		}
		parent, err := d.Store.ReadCommit(commit.Parents[0])
		if err != nil {
			return "", err
		}
		return parent.TreeHash, nil
	}
	return d.ResolveTreeish(spec)
}
