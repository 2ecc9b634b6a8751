package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/odvcencio/husk/pkg/snapshot"
)

func newPlantSnapshotCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "plant-snapshot SNAPSHOT",
		Short: "Plant a snapshot directory as a shadow tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := openDatabase()
			if err != nil {
				return err
			}
			mode, tree, err := d.PlantSnapshot(snapshot.New(args[0]))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s,%s\n", mode, tree)
			return nil
		},
	}
}
