package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	flagVerbosity    int
	flagSubstanceDir string
)

func main() {
	root := &cobra.Command{
		Use:   "husk",
		Short: "Deduplicated filesystem snapshots as shadow trees",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			applyVerbosity(flagVerbosity)
		},
	}
	root.PersistentFlags().CountVarP(&flagVerbosity, "verbose", "v", "increase verbosity (repeatable)")
	root.PersistentFlags().StringVar(&flagSubstanceDir, "substance-dir", "", "override the substance directory")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newInitCmd())
	root.AddCommand(newSnapshotCmd())
	root.AddCommand(newTakeSnapshotCmd())
	root.AddCommand(newPlantSnapshotCmd())
	root.AddCommand(newStoreSnapshotCmd())
	root.AddCommand(newCheckCmd())
	root.AddCommand(newUniqueBlobsCmd())
	root.AddCommand(newCheckBlobsCmd())
	root.AddCommand(newDiffCmd())
	root.AddCommand(newAppendCmd())
	root.AddCommand(newRemoveCmd())
	root.AddCommand(newSha256SumCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func applyVerbosity(v int) {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	switch v {
	case 0:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case 1:
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.TraceLevel)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("husk 0.1.0-dev")
		},
	}
}
