// ABOUTME: CLI command for completing a previously abandoned session.
// ABOUTME: The transition is one-way; completed sessions cannot be completed again.
package main

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	completeAt      string
	completeMinutes int
	completeOverrun bool
)

var completeCmd = &cobra.Command{
	Use:   "complete <session-id>",
	Short: "Mark an abandoned session as completed",
	Long: `Mark an earlier session as completed, correcting its focused minutes.

Examples:
  focus complete 7f3a2b1c --minutes 25
  focus complete 7f3a2b1c -m 25 --at "2024-12-14 07:30"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		completedAt := time.Now()
		if completeAt != "" {
			t, err := parseTime(completeAt)
			if err != nil {
				return fmt.Errorf("invalid timestamp: %s", completeAt)
			}
			completedAt = t
		}

		id, err := resolveSessionID(args[0])
		if err != nil {
			return err
		}
		sess, err := repo.GetSession(id)
		if err != nil {
			return fmt.Errorf("failed to load session: %w", err)
		}

		minutes := completeMinutes
		if !cmd.Flags().Changed("minutes") {
			minutes = sess.Preset.PlannedMinutes()
		}

		if err := repo.CompleteSession(id, completedAt, minutes, recordOpts(completeOverrun)); err != nil {
			return fmt.Errorf("failed to complete session: %w", err)
		}

		color.Green("✓ Completed %s session", sess.Preset)
		fmt.Printf("  %s %d min on %s\n",
			color.New(color.Faint).Sprint(sess.ID.String()[:8]),
			minutes, sess.DateKey)

		return nil
	},
}

func init() {
	completeCmd.Flags().StringVar(&completeAt, "at", "", "completion timestamp (YYYY-MM-DD HH:MM)")
	completeCmd.Flags().IntVarP(&completeMinutes, "minutes", "m", 0, "focused minutes (defaults to the preset's planned minutes)")
	completeCmd.Flags().BoolVar(&completeOverrun, "allow-overrun", false, "allow minutes beyond the preset's planned length")
	rootCmd.AddCommand(completeCmd)
}
