// ABOUTME: CLI command for focus statistics.
// ABOUTME: Shows summary, streak, and daily/weekly/monthly/preset breakdowns.
package main

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/harperreed/focus/internal/models"
	"github.com/spf13/cobra"
)

var statsDays int

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show focus statistics",
	Long: `Show a summary of your focus history: totals, completion rate,
streak, and recent daily stats.

Use the subcommands for period breakdowns:

  focus stats            # Summary, streak, last 7 days
  focus stats weekly     # Per ISO week
  focus stats monthly    # Per month
  focus stats presets    # Per preset`,
	RunE: func(cmd *cobra.Command, args []string) error {
		sum, err := repo.Summary()
		if err != nil {
			return fmt.Errorf("failed to load summary: %w", err)
		}
		streak, err := repo.GetStreak()
		if err != nil {
			return fmt.Errorf("failed to load streak: %w", err)
		}

		bold := color.New(color.Bold)
		bold.Println("Focus summary")
		fmt.Printf("  Sessions   %d (%d completed, %d%%)\n",
			sum.TotalSessions, sum.CompletedSessions, sum.CompletionRate())
		fmt.Printf("  Minutes    %d\n", sum.TotalMinutes)
		fmt.Printf("  Streak     %d day(s), best %d\n", streak.CurrentStreak, streak.BestStreak)
		if streak.CurrentStreak > 0 {
			fmt.Printf("  Since      %s\n", streak.StreakStartDate)
		}

		from := models.DateKeyOf(time.Now().AddDate(0, 0, -(statsDays - 1)))
		daily, err := repo.GetDailyStats(from, "")
		if err != nil {
			return fmt.Errorf("failed to load daily stats: %w", err)
		}
		if len(daily) == 0 {
			return nil
		}

		fmt.Println()
		bold.Printf("Last %d days\n", statsDays)
		faint := color.New(color.Faint)
		for _, d := range daily {
			goal := " "
			if d.MetGoal {
				goal = color.GreenString("✓")
			}
			fmt.Printf("  %s %s  %d/%d sessions %3d min  q%d s%d d%d\n",
				goal, faint.Sprint(d.DateKey),
				d.CompletedSessions, d.TotalSessions, d.TotalMinutes,
				d.QuickSessions, d.StandardSessions, d.DeepSessions)
		}
		return nil
	},
}

var statsWeeklyCmd = &cobra.Command{
	Use:   "weekly",
	Short: "Show per-week statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		weeks, err := repo.GetWeeklyStats()
		if err != nil {
			return fmt.Errorf("failed to load weekly stats: %w", err)
		}
		printPeriods(weeks)
		return nil
	},
}

var statsMonthlyCmd = &cobra.Command{
	Use:   "monthly",
	Short: "Show per-month statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		months, err := repo.GetMonthlyStats()
		if err != nil {
			return fmt.Errorf("failed to load monthly stats: %w", err)
		}
		printPeriods(months)
		return nil
	},
}

var statsPresetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "Show per-preset statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		presets, err := repo.GetPresetStats()
		if err != nil {
			return fmt.Errorf("failed to load preset stats: %w", err)
		}
		if len(presets) == 0 {
			fmt.Println("No sessions recorded yet.")
			return nil
		}
		faint := color.New(color.Faint)
		for _, p := range presets {
			fmt.Printf("%s %s %d/%d sessions %4d min\n",
				faint.Sprintf("%2d min", p.Preset.PlannedMinutes()),
				padRight(string(p.Preset), 10),
				p.CompletedSessions, p.TotalSessions, p.TotalMinutes)
		}
		return nil
	},
}

func printPeriods(periods []models.PeriodStat) {
	if len(periods) == 0 {
		fmt.Println("No sessions recorded yet.")
		return
	}
	faint := color.New(color.Faint)
	for _, p := range periods {
		fmt.Printf("%s %d/%d sessions %4d min\n",
			faint.Sprint(padRight(p.Key, 10)),
			p.CompletedSessions, p.TotalSessions, p.TotalMinutes)
	}
}

func init() {
	statsCmd.Flags().IntVarP(&statsDays, "days", "d", 7, "number of recent days to show")
	statsCmd.AddCommand(statsWeeklyCmd)
	statsCmd.AddCommand(statsMonthlyCmd)
	statsCmd.AddCommand(statsPresetsCmd)
	rootCmd.AddCommand(statsCmd)
}
