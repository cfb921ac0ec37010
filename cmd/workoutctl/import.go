package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/claude/workoutapi/internal/models"
	"github.com/claude/workoutapi/internal/storage"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var importDryRun bool

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Replace the datastore with a JSON document",
	Long: `Read a JSON document and write it to the configured backend, replacing
everything currently stored. Workout names must be unique within the file.

EXAMPLES:

  workoutctl import data/db.json
  workoutctl import backup.json --dry-run`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("reading %s: %w", args[0], err)
		}
		doc, err := models.DecodeDocument(data)
		if err != nil {
			return fmt.Errorf("parsing %s: %w", args[0], err)
		}

		ctx := cmd.Context()
		db, err := openDB(ctx)
		if err != nil {
			return err
		}
		defer db.Close()

		return runImport(ctx, db, doc, importDryRun, cmd.OutOrStdout())
	},
}

func init() {
	importCmd.Flags().BoolVar(&importDryRun, "dry-run", false, "report counts without writing")
}

func runImport(ctx context.Context, db *storage.DB, doc *models.Document, dryRun bool, out io.Writer) error {
	before := db.Snapshot()

	if dryRun {
		color.New(color.FgYellow).Fprintln(out, "Dry run, nothing written")
	} else if err := db.ReplaceDocument(ctx, doc); err != nil {
		return err
	}

	faint := color.New(color.Faint)
	color.New(color.FgGreen, color.Bold).Fprintf(out, "✓ %d workouts, %d records\n", len(doc.Workouts), len(doc.Records))
	faint.Fprintf(out, "  replaced %d workouts, %d records\n", len(before.Workouts), len(before.Records))
	return nil
}
