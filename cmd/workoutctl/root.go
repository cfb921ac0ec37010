package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/claude/workoutapi/internal/config"
	"github.com/claude/workoutapi/internal/storage"
	"github.com/spf13/cobra"
)

var (
	configPath     string
	migrationsPath string
)

var rootCmd = &cobra.Command{
	Use:   "workoutctl",
	Short: "Administer the workout datastore",
	Long: `workoutctl works directly against the datastore configured for workoutapi.

COMMANDS:

  import <file>   Replace the datastore contents with a JSON document
  export          Write the datastore contents as a JSON document
  mcp             Serve the workout catalog over MCP on stdin/stdout

The JSON document has two top-level arrays, "workouts" and "records".
Stop the API server before importing: it keeps the document in memory and
will overwrite the import on its next write.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "path to config file")
	rootCmd.PersistentFlags().StringVar(&migrationsPath, "migrations", "migrations", "postgres migrations directory")

	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(mcpCmd)
}

// openDB loads the config and opens the configured datastore. Logs go to
// stderr so stdout stays clean for export and MCP.
func openDB(ctx context.Context) (*storage.DB, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	return openConfiguredDB(ctx, cfg, newLogger(os.Stderr, cfg.Log.SlogLevel()))
}

func openConfiguredDB(ctx context.Context, cfg *config.Config, log *slog.Logger) (*storage.DB, error) {
	p, err := cfg.OpenPersister(ctx, migrationsPath)
	if err != nil {
		return nil, fmt.Errorf("opening %s storage: %w", cfg.Storage.Backend, err)
	}
	db, err := storage.New(ctx, p, log)
	if err != nil {
		p.Close()
		return nil, err
	}
	return db, nil
}

func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
