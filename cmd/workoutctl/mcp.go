package main

import (
	"log/slog"
	"os"

	"github.com/claude/workoutapi/internal/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
)

var mcpRemote string

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the workout catalog over MCP (stdio)",
	Long: `Start a Model Context Protocol server on stdin/stdout.

By default it opens the configured datastore directly; the MCP tools never
write. With --remote it reads through the REST API of a running workoutapi
server instead. Use --remote while that server is up.

TOOLS:

  list_workouts         List workouts, optionally by exact mode
  get_workout           Fetch one workout by ID
  get_workout_records   List records logged against a workout

EXAMPLES:

  workoutctl mcp
  workoutctl mcp --remote http://workouts:3000`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		log := newLogger(os.Stderr, slog.LevelInfo)

		var ds mcp.DataSource
		if mcpRemote != "" {
			ds = mcp.NewHTTPClient(mcpRemote)
			log.Info("mcp using remote data source", "url", mcpRemote)
		} else {
			db, err := openDB(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()
			ds = db
		}

		return server.ServeStdio(mcp.New(ds, Version, log))
	},
}

func init() {
	mcpCmd.Flags().StringVar(&mcpRemote, "remote", "", "base URL of a running workoutapi server")
}
