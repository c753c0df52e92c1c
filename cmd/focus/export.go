// ABOUTME: CLI commands for exporting and importing focus data.
// ABOUTME: JSON round-trips the session log; Markdown renders shareable tables.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	exportOutput string
	exportSince  string
)

var exportCmd = &cobra.Command{
	Use:   "export <format>",
	Short: "Export focus data",
	Long: `Export the session log in various formats.

FORMATS:

  json       Full JSON export (suitable for backup/restore)
  markdown   Markdown tables (for documentation/sharing)

Only sessions are exported. Stats, streaks, and achievements are
derived from the session log and get rebuilt on import.

EXAMPLES:

  focus export json                        # Export all sessions as JSON
  focus export json -o backup.json         # Save to file
  focus export markdown --since 2025-01-01 # Sessions from 2025 onward`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"json", "markdown"},
	RunE: func(cmd *cobra.Command, args []string) error {
		format := args[0]

		var data []byte
		var err error

		switch format {
		case "json":
			data, err = repo.ExportJSON()
		case "markdown":
			var since *time.Time
			if exportSince != "" {
				t, perr := time.Parse("2006-01-02", exportSince)
				if perr != nil {
					return fmt.Errorf("invalid date format: %s (use YYYY-MM-DD)", exportSince)
				}
				since = &t
			}
			var md string
			md, err = repo.ExportMarkdown(since)
			data = []byte(md)
		default:
			return fmt.Errorf("unknown format: %s (use json or markdown)", format)
		}

		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}

		if exportOutput != "" {
			if err := os.WriteFile(exportOutput, data, 0600); err != nil {
				return fmt.Errorf("failed to write file: %w", err)
			}
			color.Green("✓ Exported to %s", exportOutput)
		} else {
			fmt.Println(string(data))
		}

		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import focus sessions from JSON",
	Long: `Import sessions from a previously exported JSON file.

Each session is replayed through the normal write path, so stats,
streaks, and achievements are recomputed as the import runs.
Duplicate entries (same ID) will cause an error.

EXAMPLES:

  focus import backup.json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		filename := args[0]

		data, err := os.ReadFile(filename)
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}

		if err := repo.ImportJSON(data, cfg.DailyGoal()); err != nil {
			return fmt.Errorf("import failed: %w", err)
		}

		color.Green("✓ Imported from %s", filename)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (default: stdout)")
	exportCmd.Flags().StringVar(&exportSince, "since", "", "only include sessions since date (YYYY-MM-DD)")

	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
}
