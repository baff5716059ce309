// Package cli defines the cobra command tree for campsite-finder.
package cli

import (
	"database/sql"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/evcraddock/campsite-finder/internal/client"
	"github.com/evcraddock/campsite-finder/internal/db"
)

var (
	flagFormat string
	flagDB     string
)

// NewRootCmd creates the root cobra command with global flags.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "cf",
		Short:         "Browse campsites and share reviews",
		Long:          "A campsite directory. Browse campsites, read visitor comments, and leave a rated review from the CLI or web UI.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&flagFormat, "format", "text", "output format (text|json)")
	root.PersistentFlags().StringVar(&flagDB, "db", "", "SQLite database path (default: ~/.campsite-finder/campsites.db)")

	root.AddCommand(
		newListCmd(),
		newShowCmd(),
		newCommentCmd(),
		newCommentsCmd(),
		newSeedCmd(),
		newServeCmd(),
		newConfigCmd(),
		newVersionCmd(),
	)

	return root
}

// openDB opens the SQLite database using the --db flag or default path.
// Used by serve and seed; every other command talks to the API.
func openDB() (*sql.DB, error) {
	path := flagDB
	if path == "" {
		var err error
		path, err = db.DefaultPath()
		if err != nil {
			return nil, err
		}
	}
	return db.Open(path)
}

// newAPIClient creates an HTTP client for the campsite-finder API.
func newAPIClient() *client.Client {
	return client.New(getServerURL())
}

// isJSON returns true if the --format flag is set to json.
func isJSON() bool {
	return flagFormat == "json"
}

// closeDB closes the database, logging any error.
func closeDB(database *sql.DB) {
	if err := database.Close(); err != nil {
		slog.Warn("closing database", "error", err)
	}
}
