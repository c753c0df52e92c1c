// ABOUTME: Maintenance commands: init, rebuild, reset, and schema inspection.
// ABOUTME: Rebuild replays the session log; reset wipes everything behind a flag.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var resetForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the focus database",
	Long: `Open the database, apply any pending migrations, and report the
schema version. Safe to run repeatedly.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		version, err := repo.SchemaVersion()
		if err != nil {
			return fmt.Errorf("failed to read schema version: %w", err)
		}
		history, err := repo.MigrationHistory()
		if err != nil {
			return fmt.Errorf("failed to read migration history: %w", err)
		}

		color.Green("✓ Database ready (schema v%d)", version)
		faint := color.New(color.Faint)
		for _, h := range history {
			faint.Printf("  %s\n", h)
		}
		return nil
	},
}

var rebuildCmd = &cobra.Command{
	Use:   "rebuild",
	Short: "Rebuild derived data from the session log",
	Long: `Recompute daily stats, the streak, and locked achievement progress
by replaying every recorded session. Unlocked achievements are kept.

Use this after restoring a database or when stats look inconsistent.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := repo.RebuildDerived(cfg.DailyGoal()); err != nil {
			return fmt.Errorf("rebuild failed: %w", err)
		}
		streak, err := repo.GetStreak()
		if err != nil {
			return fmt.Errorf("failed to read streak: %w", err)
		}
		color.Green("✓ Derived data rebuilt")
		fmt.Printf("  streak %d day(s), best %d\n", streak.CurrentStreak, streak.BestStreak)
		return nil
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete all focus data",
	Long: `Drop every table and re-initialize an empty database.

CAUTION:

  This permanently deletes all sessions, stats, and achievement
  progress. There is no undo. Requires --force.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !resetForce {
			return fmt.Errorf("refusing to reset without --force")
		}
		if err := repo.Reset(); err != nil {
			return fmt.Errorf("reset failed: %w", err)
		}
		color.Yellow("✗ All focus data deleted")
		return nil
	},
}

func init() {
	resetCmd.Flags().BoolVar(&resetForce, "force", false, "confirm deleting all data")
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(rebuildCmd)
	rootCmd.AddCommand(resetCmd)
}
