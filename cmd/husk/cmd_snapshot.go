package main

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/odvcencio/husk/pkg/object"
	"github.com/odvcencio/husk/pkg/shadow"
	"github.com/odvcencio/husk/pkg/snapshot"
)

func newSnapshotCmd() *cobra.Command {
	var (
		force       bool
		removeAfter bool
		snapshotDir string
	)
	cmd := &cobra.Command{
		Use:   "snapshot SUBJECT RELATIVE_PATH",
		Short: "Scan a directory and graft it into HEAD as a shadow tree",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			subject := args[0]
			relPath, err := shadow.ParsePath(args[1])
			if err != nil {
				return err
			}
			if relPath.IsRoot() {
				return fmt.Errorf("relative path must not be the root")
			}

			d, err := openDatabase()
			if err != nil {
				return err
			}
			sub, err := openSubstance(d)
			if err != nil {
				return err
			}

			snap := snapshot.New(snapshotDir)
			log.Info().Str("subject", subject).Str("snapshot", snap.Dir()).Msg("taking snapshot")
			if err := snap.Take(subject); err != nil {
				return err
			}

			log.Info().Msg("planting snapshot")
			mode, tree, err := d.PlantSnapshot(snap)
			if err != nil {
				return err
			}
			log.Info().Str("mode", mode).Str("tree", string(tree)).Msg("planted")

			log.Info().Msg("storing snapshot")
			if err := d.StoreSnapshot(sub, tree, subject); err != nil {
				return err
			}

			parent, err := d.ResolveRef("HEAD")
			if err != nil {
				return err
			}
			bigTree := object.Hash("")
			if parent != "" {
				commit, err := d.Store.ReadCommit(parent)
				if err != nil {
					return err
				}
				bigTree = commit.TreeHash
			} else {
				bigTree, err = d.EmptyTreeHash()
				if err != nil {
					return err
				}
			}

			log.Info().Str("big_tree", string(bigTree)).Str("path", relPath.String()).Msg("appending snapshot")
			newBigTree, err := d.Append(bigTree, relPath, mode, tree, force)
			if err != nil {
				return err
			}

			commit, err := d.CommitSimple(fmt.Sprintf("snapshot %s", relPath), newBigTree, parent)
			if err != nil {
				return err
			}
			log.Info().Str("commit", string(commit)).Msg("merging --ff-only into HEAD")
			if err := d.SafeMerge(commit); err != nil {
				return err
			}

			if removeAfter {
				if err := snap.Remove(); err != nil {
					return err
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), commit)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "replace RELATIVE_PATH if it exists")
	cmd.Flags().BoolVar(&removeAfter, "rm", false, "remove the snapshot directory on success")
	cmd.Flags().StringVarP(&snapshotDir, "snapshot-dir", "d", "tmp.snapshot", "where to write the scan output")
	return cmd
}
