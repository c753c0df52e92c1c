// ABOUTME: Root Cobra command for focus CLI.
// ABOUTME: Handles store lifecycle via PersistentPre/PostRunE.
package main

import (
	"fmt"

	"github.com/harperreed/focus/internal/config"
	"github.com/harperreed/focus/internal/models"
	"github.com/harperreed/focus/internal/storage"
	"github.com/spf13/cobra"
)

var (
	cfg  *config.Config
	repo storage.Repository
)

var rootCmd = &cobra.Command{
	Use:   "focus",
	Short: "Focus session tracker with streaks and achievements",
	Long: `Focus tracks timed focus sessions and derives streaks, stats,
and achievements from the session log.

PRESETS:

  quick     10 minutes
  standard  25 minutes
  deep      50 minutes

QUICK START:

  $ focus record standard                 # Log a completed 25-minute session
  $ focus record deep --abandoned -m 12   # Log a deep session cut short at 12 min
  $ focus sessions                        # See recent sessions
  $ focus stats                           # Daily stats and streak
  $ focus awards                          # Achievement gallery

STREAKS:

  A day counts toward your streak once it meets the daily goal
  (by default, one completed session). Configure the goal in
  ~/.config/focus/config.json with daily_goal_sessions and
  daily_goal_minutes.

DATA STORAGE:

  Sessions are stored in SQLite at ~/.local/share/focus/focus.db.
  The session log is append-only; stats, streaks, and achievement
  progress are derived from it and can be rebuilt with 'focus rebuild'.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" || cmd.Name() == "help" {
			return nil
		}

		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		repo, err = cfg.OpenStorage()
		if err != nil {
			return fmt.Errorf("failed to open storage: %w", err)
		}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if repo != nil {
			return repo.Close()
		}
		return nil
	},
}

// recordOpts builds the write options from the loaded config.
func recordOpts(allowOverrun bool) storage.RecordOpts {
	goal := models.DefaultDailyGoal
	if cfg != nil {
		goal = cfg.DailyGoal()
	}
	return storage.RecordOpts{Goal: goal, AllowOverrun: allowOverrun}
}
