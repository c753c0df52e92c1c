// ABOUTME: CLI command for the achievement gallery.
// ABOUTME: Shows unlocked and in-progress awards plus the next closest one.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var awardsCmd = &cobra.Command{
	Use:     "awards",
	Aliases: []string{"achievements"},
	Short:   "Show the achievement gallery",
	Long: `Show every visible achievement with its progress. Hidden awards
appear only once unlocked.

Examples:
  focus awards
  focus awards next`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rows, err := repo.GetAchievementProgress()
		if err != nil {
			return fmt.Errorf("failed to load achievements: %w", err)
		}
		unlocked, total, err := repo.UnlockedCount()
		if err != nil {
			return fmt.Errorf("failed to count awards: %w", err)
		}

		bold := color.New(color.Bold)
		faint := color.New(color.Faint)
		bold.Printf("Awards (%d/%d unlocked)\n", unlocked, total)

		var category string
		for _, r := range rows {
			if string(r.Definition.Category) != category {
				category = string(r.Definition.Category)
				fmt.Println()
				faint.Println(category)
			}
			if r.Progress.Unlocked {
				fmt.Printf("  %s %s %s  %s\n",
					r.Definition.Icon,
					color.GreenString("✓"),
					padRight(r.Definition.Name, 24),
					faint.Sprint(r.Progress.UnlockedAt.Format("2006-01-02")))
			} else {
				fmt.Printf("  %s   %s  %s\n",
					r.Definition.Icon,
					padRight(r.Definition.Name, 24),
					faint.Sprintf("%d/%d", r.Progress.CurrentProgress, r.Definition.CriteriaValue))
			}
		}
		return nil
	},
}

var awardsNextCmd = &cobra.Command{
	Use:   "next",
	Short: "Show the closest locked achievement",
	RunE: func(cmd *cobra.Command, args []string) error {
		next, pct, err := repo.GetNextAchievableAward()
		if err != nil {
			return fmt.Errorf("failed to find next award: %w", err)
		}
		if next == nil {
			fmt.Println("Everything unlocked. Nothing left to chase.")
			return nil
		}
		fmt.Printf("%s %s (%d%%)\n", next.Definition.Icon, next.Definition.Name, pct)
		fmt.Printf("  %s\n", color.New(color.Faint).Sprint(next.Definition.Description))
		return nil
	},
}

func init() {
	awardsCmd.AddCommand(awardsNextCmd)
	rootCmd.AddCommand(awardsCmd)
}
