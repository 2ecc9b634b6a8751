package main

import (
	"github.com/spf13/cobra"

	"github.com/odvcencio/husk/pkg/snapshot"
)

func newTakeSnapshotCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "take-snapshot SUBJECT OUT",
		Short: "Scan a directory into a snapshot directory",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return snapshot.New(args[1]).Take(args[0])
		},
	}
}
