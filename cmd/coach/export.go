// ABOUTME: CLI commands for exporting, importing and migrating coach data.
// ABOUTME: Supports JSON, YAML, and Markdown export formats.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/harperreed/coach/internal/config"
	"github.com/harperreed/coach/internal/logging"
	"github.com/harperreed/coach/internal/storage"
	"github.com/spf13/cobra"
)

var (
	exportOutput string
	importFormat string
	migrateFrom  string
)

var exportCmd = &cobra.Command{
	Use:   "export <format>",
	Short: "Export coach data",
	Long: `Export coach data in various formats.

FORMATS:

  json       Full snapshot (suitable for backup/restore)
  yaml       Full snapshot, human-readable
  markdown   Trainer report with notes, clients and workouts

EXAMPLES:

  coach export json                  # Export all data as JSON
  coach export json -o backup.json   # Save to file
  coach export yaml
  coach export markdown -o report.md`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"json", "yaml", "markdown"},
	RunE: func(cmd *cobra.Command, args []string) error {
		format := args[0]

		var data []byte
		var err error

		switch format {
		case "json":
			data, err = store.ExportJSON()
		case "yaml", "yml":
			data, err = store.ExportYAML()
		case "markdown", "md":
			var md string
			md, err = store.ExportMarkdown(trainerID)
			data = []byte(md)
		default:
			return fmt.Errorf("unknown format: %s (use json, yaml, or markdown)", format)
		}

		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}

		out := cmd.OutOrStdout()
		if exportOutput != "" {
			if err := os.WriteFile(exportOutput, data, 0600); err != nil {
				return fmt.Errorf("failed to write file: %w", err)
			}
			success(out, "Exported to %s", exportOutput)
		} else {
			fmt.Fprintln(out, string(data))
		}

		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Replace coach data with a snapshot",
	Long: `Import a JSON or YAML snapshot written by 'coach export'.

The import replaces every row in the store in one transaction. If any row
fails to insert, nothing changes. The format is taken from the file
extension unless --format is given.

EXAMPLES:

  coach import backup.json
  coach import backup.txt --format yaml`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		filename := args[0]

		data, err := os.ReadFile(filename)
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}

		format := importFormat
		if format == "" {
			format = strings.TrimPrefix(filepath.Ext(filename), ".")
		}

		snap, err := storage.ParseSnapshot(data, format)
		if err != nil {
			return fmt.Errorf("import failed: %w", err)
		}
		if err := store.Restore(snap); err != nil {
			return fmt.Errorf("import failed: %w", err)
		}
		if _, err := storage.EnsureDefaultTrainer(store); err != nil {
			return fmt.Errorf("failed to bootstrap: %w", err)
		}

		c := snap.Counts()
		success(cmd.OutOrStdout(), "Imported %d rows from %s", c.Total(), filename)
		return nil
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Copy another coach database into this one",
	Long: `Copy every row of another coach database into this one, replacing
what is here. Rows in the source are not changed.

USAGE:

  coach migrate --from ~/old/coach.db
  coach --db ~/new/coach.db migrate --from ~/old/coach.db`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if migrateFrom == "" {
			return fmt.Errorf("--from is required")
		}
		from := config.ExpandPath(migrateFrom)
		if _, err := os.Stat(from); err != nil {
			return fmt.Errorf("source database not found: %s", from)
		}
		if filepath.Clean(from) == filepath.Clean(store.Path()) {
			return fmt.Errorf("source and destination are the same database")
		}

		src := storage.New(from, storage.WithLogger(logging.Component(logger, "migrate")))
		if err := src.Initialize(); err != nil {
			return fmt.Errorf("failed to open source: %w", err)
		}
		defer src.Close()

		counts, err := storage.MigrateData(src, store)
		if err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		if _, err := storage.EnsureDefaultTrainer(store); err != nil {
			return fmt.Errorf("failed to bootstrap: %w", err)
		}

		out := cmd.OutOrStdout()
		success(out, "Migrated %d rows from %s", counts.Total(), from)
		printCounts(out, counts)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (default: stdout)")
	importCmd.Flags().StringVar(&importFormat, "format", "", "json or yaml (default: from file extension)")
	migrateCmd.Flags().StringVar(&migrateFrom, "from", "", "path of the source database")

	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(migrateCmd)
}
