package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/odvcencio/husk/pkg/snapshot"
)

func newSha256SumCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sha256sum PATH",
		Short: "Print a file's digest in the digests stream format",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			digest, err := snapshot.DigestFile(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s *%s\n", digest, args[0])
			return nil
		},
	}
}
