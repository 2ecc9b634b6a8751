package main

import (
	"github.com/spf13/cobra"
)

func newStoreSnapshotCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "store-snapshot TREE SUBJECT",
		Short: "Store a planted tree's unique blobs into the substance store",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := openDatabase()
			if err != nil {
				return err
			}
			sub, err := openSubstance(d)
			if err != nil {
				return err
			}
			tree, err := d.ResolveTreeish(args[0])
			if err != nil {
				return err
			}
			return d.StoreSnapshot(sub, tree, args[1])
		},
	}
}
