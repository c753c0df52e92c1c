// ABOUTME: CLI command for listing focus sessions.
// ABOUTME: Supports preset and date-range filters plus pagination.
package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/harperreed/focus/internal/models"
	"github.com/harperreed/focus/internal/storage"
	"github.com/spf13/cobra"
)

var (
	sessionsPreset string
	sessionsFrom   string
	sessionsTo     string
	sessionsLimit  int
	sessionsOffset int
)

var sessionsCmd = &cobra.Command{
	Use:     "sessions",
	Aliases: []string{"ls", "l"},
	Short:   "List focus sessions",
	Long: `List recorded focus sessions in chronological order.

OUTPUT FORMAT:

  Each line shows: ID  START  PRESET  MINUTES  STATE

  The ID is an 8-character prefix you can use with 'focus complete'.

EXAMPLES:

  focus sessions                       # Recent sessions (all presets)
  focus sessions --preset deep         # Only deep sessions
  focus sessions --from 2025-03-01 --to 2025-03-31
  focus sessions -n 50 --offset 50     # Second page of 50`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var filter storage.ListFilter
		if sessionsPreset != "" {
			if !models.IsValidPreset(sessionsPreset) {
				return fmt.Errorf("unknown preset: %s", sessionsPreset)
			}
			filter.Preset = models.Preset(sessionsPreset)
		}
		if sessionsFrom != "" {
			t, err := parseTime(sessionsFrom)
			if err != nil {
				return fmt.Errorf("invalid --from: %s", sessionsFrom)
			}
			filter.From = t
		}
		if sessionsTo != "" {
			t, err := parseTime(sessionsTo)
			if err != nil {
				return fmt.Errorf("invalid --to: %s", sessionsTo)
			}
			filter.To = t
		}
		filter.Limit = sessionsLimit
		filter.Offset = sessionsOffset

		sessions, err := repo.ListSessions(filter)
		if err != nil {
			return fmt.Errorf("failed to list sessions: %w", err)
		}

		if len(sessions) == 0 {
			fmt.Println("No sessions found.")
			return nil
		}

		faint := color.New(color.Faint)
		for _, s := range sessions {
			state := "abandoned"
			if s.WasCompleted {
				state = "completed"
			}
			fmt.Printf("%s %s %s %3d min  %s\n",
				faint.Sprint(s.ID.String()[:8]),
				faint.Sprint(s.StartedAt.Format("2006-01-02 15:04")),
				padRight(string(s.Preset), 10),
				s.TotalMinutes,
				state)
		}

		return nil
	},
}

// resolveSessionID expands an ID prefix to a full session ID. Full UUIDs pass
// through untouched.
func resolveSessionID(idOrPrefix string) (string, error) {
	if len(idOrPrefix) == 36 {
		return idOrPrefix, nil
	}
	sessions, err := repo.ListSessions(storage.ListFilter{})
	if err != nil {
		return "", err
	}
	var match string
	for _, s := range sessions {
		if strings.HasPrefix(s.ID.String(), idOrPrefix) {
			if match != "" {
				return "", fmt.Errorf("ambiguous session id prefix: %s", idOrPrefix)
			}
			match = s.ID.String()
		}
	}
	if match == "" {
		return "", fmt.Errorf("session not found: %s", idOrPrefix)
	}
	return match, nil
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

func padRight(s string, length int) string {
	if len(s) >= length {
		return s
	}
	return s + strings.Repeat(" ", length-len(s))
}

func parseTime(s string) (time.Time, error) {
	formats := []string{
		"2006-01-02 15:04",
		"2006-01-02T15:04",
		"2006-01-02",
		time.RFC3339,
	}
	for _, f := range formats {
		if t, err := time.Parse(f, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time format")
}

func init() {
	sessionsCmd.Flags().StringVarP(&sessionsPreset, "preset", "p", "", "filter by preset (quick, standard, deep)")
	sessionsCmd.Flags().StringVar(&sessionsFrom, "from", "", "earliest start time (YYYY-MM-DD)")
	sessionsCmd.Flags().StringVar(&sessionsTo, "to", "", "latest start time (YYYY-MM-DD)")
	sessionsCmd.Flags().IntVarP(&sessionsLimit, "limit", "n", 20, "max number of results")
	sessionsCmd.Flags().IntVar(&sessionsOffset, "offset", 0, "number of results to skip")
	rootCmd.AddCommand(sessionsCmd)
}
