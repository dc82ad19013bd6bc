// Package cli implements the tripctl commands.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/pkordes/dfw-explorer/internal/app"
	"github.com/pkordes/dfw-explorer/internal/config"
	"github.com/pkordes/dfw-explorer/internal/logging"
	"github.com/pkordes/dfw-explorer/internal/repo"
	"github.com/pkordes/dfw-explorer/internal/service"
	"github.com/pkordes/dfw-explorer/internal/source"
)

// VersionInfo is stamped into the binary at build time.
type VersionInfo struct {
	Version string
	Commit  string
}

// env holds the dependencies built once per invocation.
type env struct {
	cfg     config.Config
	places  *source.Fetcher
	trips   *service.TripService
	exports *service.ExportService
	shares  *service.ShareService
	asJSON  bool
	closers []func()
}

func (e *env) close() {
	for i := len(e.closers) - 1; i >= 0; i-- {
		e.closers[i]()
	}
	e.closers = nil
}

// NewRootCommand builds the tripctl command tree.
func NewRootCommand(info VersionInfo) *cobra.Command {
	e := &env{}
	var (
		store      string
		storePath  string
		primaryURL string
		logLevel   string
	)

	cmd := &cobra.Command{
		Use:           "tripctl",
		Short:         "DFW Explorer trip planner",
		Long:          "Browse places around Dallas-Fort Worth and manage trips from the command line. Trips are kept in the same store the API server uses.",
		SilenceErrors: true,
		SilenceUsage:  true,
		Version:       fmt.Sprintf("%s.%s", info.Version, info.Commit),

		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			config.LoadEnvFiles()
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if store != "" {
				if !config.ValidStoreDriver(store) {
					return fmt.Errorf("unknown store %q", store)
				}
				cfg.StoreDriver = store
			}
			if storePath != "" {
				cfg.StorePath = storePath
			}
			if primaryURL != "" {
				cfg.PrimaryURL = primaryURL
				if cfg.ImageBaseURL == "" {
					cfg.ImageBaseURL = primaryURL
				}
			}
			return e.init(cmd.Context(), cfg, cmd.ErrOrStderr(), logLevel)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&store, "store", "", "trip store: memory, file, postgres or badger (default from STORE_DRIVER)")
	flags.StringVar(&storePath, "store-path", "", "file or directory for the file and badger stores")
	flags.StringVar(&primaryURL, "primary-url", "", "base URL of the live places API")
	flags.StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	flags.BoolVar(&e.asJSON, "json", false, "print JSON instead of tables")

	cmd.AddCommand(newPlacesCommand(e))
	cmd.AddCommand(newBrowseCommand(e))
	cmd.AddCommand(newTripsCommand(e))
	cmd.AddCommand(newExportCommand(e))
	cmd.AddCommand(newImportCommand(e))
	cmd.AddCommand(newShareCommand(e))

	return cmd
}

func (e *env) init(ctx context.Context, cfg config.Config, stderr io.Writer, level string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	log, closeLog := logging.New(logging.Options{Level: level, Stdout: stderr, File: cfg.LogFile})
	e.closers = append(e.closers, func() { _ = closeLog() })

	kv, closeStore, err := app.OpenStore(ctx, cfg, log)
	if err != nil {
		e.close()
		return err
	}
	e.closers = append(e.closers, closeStore)

	tripRepo := repo.NewTripRepo(kv, log)
	e.cfg = cfg
	e.places = app.NewFetcher(cfg, &http.Client{}, log)
	e.trips = service.NewTripService(tripRepo)
	e.exports = service.NewExportService(tripRepo, cfg.MaxImportBytes)
	e.shares = service.NewShareService(e.trips, e.places, cfg.PublicURL, log)
	return nil
}

// run wraps a command body so the store and log file are released however
// the command ends.
func (e *env) run(fn func(cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		defer e.close()
		return fn(cmd, args)
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
