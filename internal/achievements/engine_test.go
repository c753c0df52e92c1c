// ABOUTME: Tests for the achievement evaluation engine.
// ABOUTME: Covers every criteria type, rate floors, unlock permanence, next-achievable ranking.
package achievements

import (
	"testing"
	"time"

	"github.com/harperreed/focus/internal/models"
)

func defsByID(t *testing.T) ([]models.AchievementDefinition, map[string]models.AchievementDefinition) {
	t.Helper()
	defs, err := Catalog()
	if err != nil {
		t.Fatalf("Catalog failed: %v", err)
	}
	byID := make(map[string]models.AchievementDefinition, len(defs))
	for _, d := range defs {
		byID[d.ID] = d
	}
	return defs, byID
}

func emptyProgress(defs []models.AchievementDefinition) map[string]*models.AchievementProgress {
	m := make(map[string]*models.AchievementProgress, len(defs))
	for _, d := range defs {
		m[d.ID] = &models.AchievementProgress{AchievementID: d.ID}
	}
	return m
}

func TestThresholdUnlock(t *testing.T) {
	defs, _ := defsByID(t)
	progress := emptyProgress(defs)
	now := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)

	snap := &Snapshot{TotalSessions: 1, CompletedSessions: 1, CompletedDeep: 1, TotalMinutes: 50}
	Evaluate(defs, progress, snap, now)

	first := progress["first_session"]
	if !first.Unlocked || first.CurrentProgress != 1 {
		t.Errorf("first_session = %+v, want unlocked at 1", first)
	}
	deep := progress["first_deep"]
	if !deep.Unlocked {
		t.Errorf("first_deep should unlock after one completed deep session")
	}
	if deep.UnlockedAt == nil || !deep.UnlockedAt.Equal(now) {
		t.Errorf("first_deep UnlockedAt = %v, want %v", deep.UnlockedAt, now)
	}
	if p := progress["sessions_10"]; p.Unlocked || p.CurrentProgress != 1 {
		t.Errorf("sessions_10 = %+v, want locked with progress 1", p)
	}
}

func TestCumulativeClampsAtTarget(t *testing.T) {
	defs, _ := defsByID(t)
	progress := emptyProgress(defs)

	snap := &Snapshot{TotalSessions: 130, CompletedSessions: 120, TotalMinutes: 900}
	Evaluate(defs, progress, snap, time.Now())

	century := progress["sessions_100"]
	if !century.Unlocked || century.CurrentProgress != 100 {
		t.Errorf("sessions_100 = %+v, want unlocked clamped at 100", century)
	}
	if p := progress["minutes_1000"]; p.Unlocked || p.CurrentProgress != 900 {
		t.Errorf("minutes_1000 = %+v, want locked at 900", p)
	}
}

func TestStreakUnlock(t *testing.T) {
	defs, _ := defsByID(t)
	progress := emptyProgress(defs)

	Evaluate(defs, progress, &Snapshot{CurrentStreak: 3, BestStreak: 3}, time.Now())
	if !progress["streak_3"].Unlocked {
		t.Error("streak_3 should unlock at currentStreak=3")
	}
	if progress["streak_7"].Unlocked {
		t.Error("streak_7 should stay locked at currentStreak=3")
	}
	if progress["streak_7"].CurrentProgress != 3 {
		t.Errorf("streak_7 progress = %d, want 3", progress["streak_7"].CurrentProgress)
	}

	// Streak breaks afterwards; the unlock survives and progress on locked
	// streak awards tracks the current streak back down.
	Evaluate(defs, progress, &Snapshot{CurrentStreak: 1, BestStreak: 3}, time.Now())
	if !progress["streak_3"].Unlocked {
		t.Error("streak_3 unlock must be permanent")
	}
	if progress["streak_7"].CurrentProgress != 1 {
		t.Errorf("streak_7 progress = %d, want 1", progress["streak_7"].CurrentProgress)
	}
}

func TestRateRequiresSampleFloor(t *testing.T) {
	defs, _ := defsByID(t)
	progress := emptyProgress(defs)

	// 8 sessions at 100% completion: below the floor of 10, stays locked.
	Evaluate(defs, progress, &Snapshot{TotalSessions: 8, CompletedSessions: 8}, time.Now())
	r := progress["rate_80"]
	if r.Unlocked {
		t.Error("rate_80 must stay locked below the sample floor")
	}
	if r.CurrentProgress != 100 {
		t.Errorf("rate_80 progress = %d, want 100", r.CurrentProgress)
	}

	// 6 of 8 completed is 75%: also locked, and progress reflects the rate.
	progress = emptyProgress(defs)
	Evaluate(defs, progress, &Snapshot{TotalSessions: 8, CompletedSessions: 6}, time.Now())
	if progress["rate_80"].Unlocked {
		t.Error("rate_80 must stay locked at 75% under the floor")
	}
	if progress["rate_80"].CurrentProgress != 75 {
		t.Errorf("rate_80 progress = %d, want 75", progress["rate_80"].CurrentProgress)
	}

	// 9 of 10 completed: floor met, 90% >= 80%.
	Evaluate(defs, progress, &Snapshot{TotalSessions: 10, CompletedSessions: 9}, time.Now())
	if !progress["rate_80"].Unlocked {
		t.Error("rate_80 should unlock at 90% over 10 sessions")
	}
	if progress["rate_90"].Unlocked {
		t.Error("rate_90 floor is 25 sessions")
	}
}

func TestPatternEvaluators(t *testing.T) {
	defs, _ := defsByID(t)

	morning := models.NewSession(models.PresetStandard, time.Date(2025, 3, 8, 7, 30, 0, 0, time.UTC))
	morning.WithCompleted(morning.StartedAt.Add(25*time.Minute), 25)
	night := models.NewSession(models.PresetStandard, time.Date(2025, 3, 8, 22, 15, 0, 0, time.UTC))
	night.WithCompleted(night.StartedAt.Add(25*time.Minute), 25)
	abandonedMorning := models.NewSession(models.PresetStandard, time.Date(2025, 3, 8, 7, 30, 0, 0, time.UTC))

	tests := []struct {
		name     string
		snap     *Snapshot
		unlocked []string
		locked   []string
	}{
		{
			name:     "early bird",
			snap:     &Snapshot{Session: morning},
			unlocked: []string{"early_bird"},
			locked:   []string{"night_owl", "perfect_day"},
		},
		{
			name:     "abandoned session earns nothing",
			snap:     &Snapshot{Session: abandonedMorning},
			locked:   []string{"early_bird", "night_owl"},
		},
		{
			name:     "night owl",
			snap:     &Snapshot{Session: night},
			unlocked: []string{"night_owl"},
			locked:   []string{"early_bird"},
		},
		{
			name:     "perfect day needs four completions",
			snap:     &Snapshot{DaySessions: 4, DayCompleted: 4},
			unlocked: []string{"perfect_day"},
		},
		{
			name:   "perfect day spoiled by one abandonment",
			snap:   &Snapshot{DaySessions: 5, DayCompleted: 4},
			locked: []string{"perfect_day"},
		},
		{
			name:     "marathon day",
			snap:     &Snapshot{DayMinutes: 120},
			unlocked: []string{"marathon_day"},
		},
		{
			name: "variety day",
			snap: &Snapshot{DayPresets: map[models.Preset]bool{
				models.PresetQuick: true, models.PresetStandard: true, models.PresetDeep: true,
			}},
			unlocked: []string{"variety_day"},
		},
		{
			name:     "weekend warrior",
			snap:     &Snapshot{WeekendComplete: true},
			unlocked: []string{"weekend_warrior"},
		},
		{
			name:     "clean week",
			snap:     &Snapshot{GoalRunLength: 7},
			unlocked: []string{"clean_week"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			progress := emptyProgress(defs)
			Evaluate(defs, progress, tt.snap, time.Now())
			for _, id := range tt.unlocked {
				if !progress[id].Unlocked {
					t.Errorf("%s should be unlocked", id)
				}
			}
			for _, id := range tt.locked {
				if progress[id].Unlocked {
					t.Errorf("%s should be locked", id)
				}
			}
		})
	}
}

func TestCleanWeekTracksRunLength(t *testing.T) {
	defs, _ := defsByID(t)
	progress := emptyProgress(defs)

	Evaluate(defs, progress, &Snapshot{GoalRunLength: 4}, time.Now())
	if p := progress["clean_week"]; p.Unlocked || p.CurrentProgress != 4 {
		t.Errorf("clean_week = %+v, want locked at 4", p)
	}
}

func TestUnlockedRowsAreTerminal(t *testing.T) {
	defs, _ := defsByID(t)
	progress := emptyProgress(defs)
	t0 := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	Evaluate(defs, progress, &Snapshot{TotalSessions: 1, CompletedSessions: 1}, t0)
	first := progress["first_session"]
	if !first.Unlocked {
		t.Fatal("first_session should be unlocked")
	}

	// Later evaluations must not move UnlockedAt or progress.
	changed := Evaluate(defs, progress, &Snapshot{TotalSessions: 2, CompletedSessions: 2}, t0.Add(time.Hour))
	for _, p := range changed {
		if p.AchievementID == "first_session" {
			t.Error("unlocked row reported as changed")
		}
	}
	if !first.UnlockedAt.Equal(t0) {
		t.Errorf("UnlockedAt moved to %v", first.UnlockedAt)
	}
	if first.CurrentProgress != 1 {
		t.Errorf("progress moved to %d", first.CurrentProgress)
	}
}

func TestEvaluateReturnsOnlyChangedRows(t *testing.T) {
	defs, _ := defsByID(t)
	progress := emptyProgress(defs)
	snap := &Snapshot{TotalSessions: 5, CompletedSessions: 5}

	Evaluate(defs, progress, snap, time.Now())
	changed := Evaluate(defs, progress, snap, time.Now())
	if len(changed) != 0 {
		t.Errorf("identical snapshot produced %d changed rows", len(changed))
	}
}

func TestNextAchievable(t *testing.T) {
	defs, _ := defsByID(t)
	progress := emptyProgress(defs)

	// 5 of 10 sessions toward sessions_10 beats every other ratio.
	progress["sessions_10"].CurrentProgress = 5
	def, p := NextAchievable(defs, progress)
	if def == nil || def.ID != "sessions_10" {
		t.Fatalf("next = %v, want sessions_10", def)
	}
	if p.CurrentProgress != 5 {
		t.Errorf("progress = %d, want 5", p.CurrentProgress)
	}

	// Ties break by sort order: all zeros ranks first_session first.
	progress = emptyProgress(defs)
	def, _ = NextAchievable(defs, progress)
	if def == nil || def.ID != "first_session" {
		t.Fatalf("next = %v, want first_session on tie", def)
	}

	// Hidden definitions never surface.
	progress = emptyProgress(defs)
	progress["sessions_500"].CurrentProgress = 499
	def, _ = NextAchievable(defs, progress)
	if def != nil && def.ID == "sessions_500" {
		t.Error("hidden definition surfaced as next achievable")
	}
}
