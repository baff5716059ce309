package cli

import (
	"errors"
	"io/fs"
	"log/slog"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/evcraddock/campsite-finder/internal/db"
	"github.com/evcraddock/campsite-finder/internal/logging"
	"github.com/evcraddock/campsite-finder/internal/web"
)

func newServeCmd() *cobra.Command {
	var (
		port int
		seed bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the web UI",
		Long:  "Start an HTTP server for the web UI and JSON API. Settings come from CF_* environment variables, read from .env when present.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, port, seed)
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "port to listen on (default: CF_PORT or 8080)")
	cmd.Flags().BoolVar(&seed, "seed", false, "load the stock campsites into an empty database")

	return cmd
}

func runServe(cmd *cobra.Command, port int, seed bool) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	cfg := web.ConfigFromEnv()
	if cmd.Flags().Changed("port") {
		cfg.Port = port
	}
	logging.Setup(cfg.DevMode)

	database, err := openDB()
	if err != nil {
		return err
	}
	defer closeDB(database)

	if seed {
		seeded, err := db.Seed(database)
		if err != nil {
			return err
		}
		slog.Info("seed", "loaded", seeded)
	}

	srv, err := web.NewServer(database, cfg)
	if err != nil {
		return err
	}
	return srv.ListenAndServe(cfg.Port)
}
