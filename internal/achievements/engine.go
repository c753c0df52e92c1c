// ABOUTME: Pure achievement evaluation engine over derived counters.
// ABOUTME: One evaluator per criteria type; unlocking is a one-way transition.
package achievements

import (
	"time"

	"github.com/harperreed/focus/internal/models"
)

// Snapshot carries every derived counter an evaluator may consume. The store
// computes it inside the same transaction as the triggering write, so
// evaluation over the same session history always sees the same numbers.
type Snapshot struct {
	TotalSessions     int
	CompletedSessions int
	TotalMinutes      int
	CompletedDeep     int
	CurrentStreak     int
	BestStreak        int

	// The session that triggered evaluation.
	Session *models.FocusSession

	// Facts about the triggering session's calendar date.
	DaySessions  int
	DayCompleted int
	DayMinutes   int
	DayPresets   map[models.Preset]bool // presets with a completed session that day

	// Consecutive goal-met days ending at the session's date.
	GoalRunLength int

	// Completed sessions exist on both Saturday and Sunday of the
	// session's ISO week.
	WeekendComplete bool
}

// rateFloors is the minimum sample size per rate definition. The floor is part
// of each definition's semantics rather than a stored column.
var rateFloors = map[string]int{
	"rate_80": 10,
	"rate_90": 25,
	"rate_95": 50,
}

const defaultRateFloor = 10

// Evaluate runs every definition against the snapshot and returns the progress
// rows that changed. Already-unlocked rows are terminal and never touched.
func Evaluate(defs []models.AchievementDefinition, progress map[string]*models.AchievementProgress, snap *Snapshot, now time.Time) []*models.AchievementProgress {
	var changed []*models.AchievementProgress
	for i := range defs {
		def := &defs[i]
		p := progress[def.ID]
		if p == nil {
			p = &models.AchievementProgress{AchievementID: def.ID}
			progress[def.ID] = p
		}
		if p.Unlocked {
			continue
		}

		value, satisfied := evaluateOne(def, snap)
		if value == p.CurrentProgress && !satisfied {
			continue
		}

		p.CurrentProgress = value
		p.ProgressUpdatedAt = now
		if satisfied {
			p.Unlocked = true
			ts := now
			p.UnlockedAt = &ts
		}
		changed = append(changed, p)
	}
	return changed
}

// evaluateOne returns the stored progress value and whether the criteria is met.
func evaluateOne(def *models.AchievementDefinition, snap *Snapshot) (int, bool) {
	switch def.CriteriaType {
	case models.CriteriaThreshold, models.CriteriaCumulative:
		counter := counterFor(def, snap)
		return clamp(counter, def.CriteriaValue), counter >= def.CriteriaValue
	case models.CriteriaStreak:
		return clamp(snap.CurrentStreak, def.CriteriaValue), snap.CurrentStreak >= def.CriteriaValue
	case models.CriteriaRate:
		floor, ok := rateFloors[def.ID]
		if !ok {
			floor = defaultRateFloor
		}
		pct := 0
		if snap.TotalSessions > 0 {
			pct = snap.CompletedSessions * 100 / snap.TotalSessions
		}
		if pct > 100 {
			pct = 100
		}
		return pct, snap.TotalSessions >= floor && pct >= def.CriteriaValue
	case models.CriteriaPattern:
		return evaluatePattern(def, snap)
	}
	return 0, false
}

// counterFor selects the running total a threshold or cumulative definition
// tracks, based on the counted unit and the definition family.
func counterFor(def *models.AchievementDefinition, snap *Snapshot) int {
	switch def.ID {
	case "first_deep", "deep_10", "deep_50":
		return snap.CompletedDeep
	case "minutes_1000", "minutes_5000":
		return snap.TotalMinutes
	}
	if def.CriteriaUnit == "minutes" {
		return snap.TotalMinutes
	}
	return snap.TotalSessions
}

// evaluatePattern holds the bespoke logic for pattern definitions, keyed by id.
// Unknown ids stay locked at zero, so catalog additions are safe on old data.
func evaluatePattern(def *models.AchievementDefinition, snap *Snapshot) (int, bool) {
	s := snap.Session
	switch def.ID {
	case "perfect_day":
		ok := snap.DaySessions >= 4 && snap.DayCompleted == snap.DaySessions
		return boolProgress(ok), ok
	case "clean_week":
		return clamp(snap.GoalRunLength, def.CriteriaValue), snap.GoalRunLength >= def.CriteriaValue
	case "early_bird":
		ok := s != nil && s.WasCompleted && s.StartedAt.Hour() < 9
		return boolProgress(ok), ok
	case "night_owl":
		ok := s != nil && s.WasCompleted && s.StartedAt.Hour() >= 22
		return boolProgress(ok), ok
	case "marathon_day":
		ok := snap.DayMinutes >= 120
		return boolProgress(ok), ok
	case "variety_day":
		ok := snap.DayPresets[models.PresetQuick] &&
			snap.DayPresets[models.PresetStandard] &&
			snap.DayPresets[models.PresetDeep]
		return boolProgress(ok), ok
	case "weekend_warrior":
		return boolProgress(snap.WeekendComplete), snap.WeekendComplete
	}
	return 0, false
}

func boolProgress(ok bool) int {
	if ok {
		return 1
	}
	return 0
}

func clamp(v, max int) int {
	if v > max {
		return max
	}
	if v < 0 {
		return 0
	}
	return v
}

// NextAchievable picks the locked, visible definition closest to unlocking:
// highest progress ratio, ties broken by lowest sort order. Returns nil when
// everything visible is unlocked.
func NextAchievable(defs []models.AchievementDefinition, progress map[string]*models.AchievementProgress) (*models.AchievementDefinition, *models.AchievementProgress) {
	var bestDef *models.AchievementDefinition
	var bestProg *models.AchievementProgress
	bestRatio := -1.0
	for i := range defs {
		def := &defs[i]
		p := progress[def.ID]
		if p == nil {
			p = &models.AchievementProgress{AchievementID: def.ID}
		}
		if p.Unlocked || def.Hidden {
			continue
		}
		r := p.Ratio(def)
		if r > bestRatio || (r == bestRatio && bestDef != nil && def.SortOrder < bestDef.SortOrder) {
			bestDef, bestProg, bestRatio = def, p, r
		}
	}
	return bestDef, bestProg
}
