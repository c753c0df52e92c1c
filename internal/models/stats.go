// ABOUTME: Aggregate stat rows derived from focus sessions.
// ABOUTME: DailyStat and StreakState are stored; period/preset stats are read projections.
package models

import "time"

// DailyGoal is the user's target for a single calendar date. A date meets the
// goal when both minimums hold over its completed sessions.
type DailyGoal struct {
	MinSessions int
	MinMinutes  int
}

// DefaultDailyGoal keeps a streak alive with a single completed session.
var DefaultDailyGoal = DailyGoal{MinSessions: 1, MinMinutes: 0}

// Met reports whether the given completed-session count and focused minutes
// satisfy the goal.
func (g DailyGoal) Met(completedSessions, totalMinutes int) bool {
	if g.MinSessions <= 0 && g.MinMinutes <= 0 {
		return completedSessions > 0
	}
	return completedSessions >= g.MinSessions && totalMinutes >= g.MinMinutes
}

// DailyStat is the stored aggregate for one calendar date.
type DailyStat struct {
	DateKey           string
	TotalSessions     int
	CompletedSessions int
	TotalMinutes      int
	QuickSessions     int
	StandardSessions  int
	DeepSessions      int
	MetGoal           bool
	UpdatedAt         time.Time
}

// PresetCount returns the stored count for the given preset.
func (d *DailyStat) PresetCount(p Preset) int {
	switch p {
	case PresetQuick:
		return d.QuickSessions
	case PresetStandard:
		return d.StandardSessions
	case PresetDeep:
		return d.DeepSessions
	}
	return 0
}

// CheckInvariants verifies the row's internal consistency.
func (d *DailyStat) CheckInvariants() bool {
	if d.CompletedSessions > d.TotalSessions {
		return false
	}
	return d.QuickSessions+d.StandardSessions+d.DeepSessions == d.TotalSessions
}

// StreakState is the single logical row tracking consecutive qualifying days.
type StreakState struct {
	CurrentStreak   int
	BestStreak      int
	LastActiveDate  string // dateKey of the most recent qualifying day, "" if none
	StreakStartDate string // dateKey where the current run began, "" if none
	UpdatedAt       time.Time
}

// PeriodStat is a read-only projection grouped on weekKey or monthKey.
type PeriodStat struct {
	Key               string
	TotalSessions     int
	CompletedSessions int
	TotalMinutes      int
}

// PresetStat is a read-only projection grouped on preset.
type PresetStat struct {
	Preset            Preset
	TotalSessions     int
	CompletedSessions int
	TotalMinutes      int
}

// Summary is an overall rollup for display surfaces.
type Summary struct {
	TotalSessions     int
	CompletedSessions int
	TotalMinutes      int
	CurrentStreak     int
	BestStreak        int
}

// CompletionRate returns the completion percentage in [0,100], 0 when empty.
func (s Summary) CompletionRate() int {
	if s.TotalSessions == 0 {
		return 0
	}
	return s.CompletedSessions * 100 / s.TotalSessions
}
