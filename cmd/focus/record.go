// ABOUTME: CLI command for recording focus sessions.
// ABOUTME: Handles completed and abandoned sessions plus backfilled timestamps.
package main

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/harperreed/focus/internal/models"
	"github.com/spf13/cobra"
)

var (
	recordAt        string
	recordMinutes   int
	recordAbandoned bool
	recordOverrun   bool
)

var recordCmd = &cobra.Command{
	Use:     "record <preset>",
	Aliases: []string{"r"},
	Short:   "Record a focus session",
	Long: `Record a finished focus session. By default the session is marked
completed with the preset's full planned minutes.

Examples:
  focus record standard
  focus record deep --at "2024-12-14 07:00"
  focus record quick --abandoned --minutes 4
  focus record standard --minutes 30 --allow-overrun`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !models.IsValidPreset(args[0]) {
			return fmt.Errorf("unknown preset: %s\nValid presets: quick, standard, deep", args[0])
		}
		preset := models.Preset(args[0])

		startedAt := time.Now()
		if recordAt != "" {
			t, err := parseTime(recordAt)
			if err != nil {
				return fmt.Errorf("invalid timestamp: %s", recordAt)
			}
			startedAt = t
		}

		sess := models.NewSession(preset, startedAt)
		if recordAbandoned {
			if cmd.Flags().Changed("minutes") {
				sess.WithMinutes(recordMinutes)
			}
		} else {
			minutes := preset.PlannedMinutes()
			if cmd.Flags().Changed("minutes") {
				minutes = recordMinutes
			}
			sess.WithCompleted(startedAt.Add(time.Duration(minutes)*time.Minute), minutes)
		}

		if err := repo.RecordSession(sess, recordOpts(recordOverrun)); err != nil {
			return fmt.Errorf("failed to record session: %w", err)
		}

		state := "completed"
		if recordAbandoned {
			state = "abandoned"
		}
		color.Green("✓ Recorded %s session (%s)", preset, state)
		fmt.Printf("  %s %d min on %s\n",
			color.New(color.Faint).Sprint(sess.ID.String()[:8]),
			sess.TotalMinutes, sess.DateKey)

		return nil
	},
}

func init() {
	recordCmd.Flags().StringVar(&recordAt, "at", "", "start timestamp (YYYY-MM-DD HH:MM)")
	recordCmd.Flags().IntVarP(&recordMinutes, "minutes", "m", 0, "focused minutes (defaults to the preset's planned minutes)")
	recordCmd.Flags().BoolVar(&recordAbandoned, "abandoned", false, "record the session as abandoned")
	recordCmd.Flags().BoolVar(&recordOverrun, "allow-overrun", false, "allow minutes beyond the preset's planned length")
	rootCmd.AddCommand(recordCmd)
}
