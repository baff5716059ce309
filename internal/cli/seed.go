package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/evcraddock/campsite-finder/internal/db"
)

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load the stock campsite directory",
		Long:  "Load the stock campsites and their comments into an empty database. A database that already has campsites is left alone.",
		Args:  cobra.NoArgs,
		RunE:  runSeed,
	}
}

func runSeed(cmd *cobra.Command, args []string) error {
	database, err := openDB()
	if err != nil {
		return err
	}
	defer closeDB(database)

	seeded, err := db.Seed(database)
	if err != nil {
		return err
	}

	if seeded {
		fmt.Fprintln(cmd.OutOrStdout(), "Loaded stock campsites.")
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), "Database already has campsites; nothing to do.")
	}
	return nil
}
