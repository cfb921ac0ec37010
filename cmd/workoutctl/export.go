package main

import (
	"fmt"
	"io"
	"os"

	"github.com/claude/workoutapi/internal/models"
	"github.com/claude/workoutapi/internal/storage"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var exportOutput string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the datastore as a JSON document",
	Long: `Write every workout and record in the configured backend as an indented
JSON document, in the same layout the json backend stores.

EXAMPLES:

  workoutctl export                  # Print to stdout
  workoutctl export -o backup.json   # Save to file`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB(cmd.Context())
		if err != nil {
			return err
		}
		defer db.Close()

		if exportOutput == "" {
			return runExport(db, cmd.OutOrStdout())
		}

		f, err := os.Create(exportOutput)
		if err != nil {
			return fmt.Errorf("creating %s: %w", exportOutput, err)
		}
		if err := runExport(db, f); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		color.New(color.FgGreen).Fprintf(cmd.ErrOrStderr(), "✓ exported to %s\n", exportOutput)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "write to file instead of stdout")
}

func runExport(db *storage.DB, out io.Writer) error {
	data, err := models.EncodeDocument(db.Snapshot())
	if err != nil {
		return err
	}
	_, err = out.Write(append(data, '\n'))
	return err
}
