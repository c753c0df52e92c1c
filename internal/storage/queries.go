// ABOUTME: Read-only query facade consumed by presentation collaborators.
// ABOUTME: Period stats come from views over sessions; nothing here mutates state.
package storage

import (
	"database/sql"
	"fmt"

	"github.com/harperreed/focus/internal/achievements"
	"github.com/harperreed/focus/internal/models"
)

// AchievementStatus pairs a definition with its progress row.
type AchievementStatus struct {
	Definition models.AchievementDefinition
	Progress   models.AchievementProgress
}

// GetDailyStats returns stored daily aggregates between the two date keys,
// inclusive, ordered by date. Rows are checked against their invariants; a
// violation surfaces as a ConsistencyError so the caller can RebuildDerived.
func (s *Store) GetDailyStats(fromKey, toKey string) ([]models.DailyStat, error) {
	query := `
		SELECT date_key, total_sessions, completed_sessions, total_minutes,
		       quick_sessions, standard_sessions, deep_sessions, met_goal, updated_at
		FROM daily_stats`
	var args []any
	switch {
	case fromKey != "" && toKey != "":
		query += " WHERE date_key >= ? AND date_key <= ?"
		args = append(args, fromKey, toKey)
	case fromKey != "":
		query += " WHERE date_key >= ?"
		args = append(args, fromKey)
	case toKey != "":
		query += " WHERE date_key <= ?"
		args = append(args, toKey)
	}
	query += " ORDER BY date_key ASC"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, storageErr("daily stats", err)
	}
	defer rows.Close()

	var stats []models.DailyStat
	for rows.Next() {
		var d models.DailyStat
		var metGoal int
		var updatedAt string
		if err := rows.Scan(&d.DateKey, &d.TotalSessions, &d.CompletedSessions, &d.TotalMinutes,
			&d.QuickSessions, &d.StandardSessions, &d.DeepSessions, &metGoal, &updatedAt); err != nil {
			return nil, storageErr("scan daily stat", err)
		}
		d.MetGoal = metGoal != 0
		if t, perr := parseTime(updatedAt); perr == nil {
			d.UpdatedAt = t
		}
		if !d.CheckInvariants() {
			return nil, &ConsistencyError{Table: "daily_stats", Detail: "counts disagree for " + d.DateKey}
		}
		stats = append(stats, d)
	}
	return stats, rows.Err()
}

// GetWeeklyStats returns per-ISO-week aggregates computed from sessions.
func (s *Store) GetWeeklyStats() ([]models.PeriodStat, error) {
	return s.periodStats("weekly_stats")
}

// GetMonthlyStats returns per-month aggregates computed from sessions.
func (s *Store) GetMonthlyStats() ([]models.PeriodStat, error) {
	return s.periodStats("monthly_stats")
}

func (s *Store) periodStats(view string) ([]models.PeriodStat, error) {
	rows, err := s.db.Query(fmt.Sprintf(`
		SELECT key, total_sessions, completed_sessions, total_minutes
		FROM %s ORDER BY key ASC`, view))
	if err != nil {
		return nil, storageErr(view, err)
	}
	defer rows.Close()

	var stats []models.PeriodStat
	for rows.Next() {
		var p models.PeriodStat
		if err := rows.Scan(&p.Key, &p.TotalSessions, &p.CompletedSessions, &p.TotalMinutes); err != nil {
			return nil, storageErr(view, err)
		}
		stats = append(stats, p)
	}
	return stats, rows.Err()
}

// GetPresetStats returns per-preset aggregates computed from sessions.
func (s *Store) GetPresetStats() ([]models.PresetStat, error) {
	rows, err := s.db.Query(`
		SELECT preset, total_sessions, completed_sessions, total_minutes
		FROM preset_stats ORDER BY preset ASC`)
	if err != nil {
		return nil, storageErr("preset stats", err)
	}
	defer rows.Close()

	var stats []models.PresetStat
	for rows.Next() {
		var p models.PresetStat
		var preset string
		if err := rows.Scan(&preset, &p.TotalSessions, &p.CompletedSessions, &p.TotalMinutes); err != nil {
			return nil, storageErr("preset stats", err)
		}
		p.Preset = models.Preset(preset)
		stats = append(stats, p)
	}
	return stats, rows.Err()
}

// GetStreak returns the singleton streak record.
func (s *Store) GetStreak() (*models.StreakState, error) {
	var st models.StreakState
	var updatedAt string
	err := s.db.QueryRow(`
		SELECT current_streak, best_streak, last_active_date, streak_start_date, updated_at
		FROM streak_state WHERE id = 1`).Scan(
		&st.CurrentStreak, &st.BestStreak, &st.LastActiveDate, &st.StreakStartDate, &updatedAt)
	if err != nil {
		return nil, storageErr("read streak", err)
	}
	if st.CurrentStreak < 0 || st.BestStreak < st.CurrentStreak {
		return nil, &ConsistencyError{Table: "streak_state", Detail: "best below current"}
	}
	if t, perr := parseTime(updatedAt); perr == nil {
		st.UpdatedAt = t
	}
	return &st, nil
}

// Summary returns the overall rollup used by display surfaces.
func (s *Store) Summary() (*models.Summary, error) {
	var sum models.Summary
	err := s.db.QueryRow(`
		SELECT COUNT(*), COALESCE(SUM(was_completed), 0), COALESCE(SUM(total_minutes), 0)
		FROM sessions`).Scan(&sum.TotalSessions, &sum.CompletedSessions, &sum.TotalMinutes)
	if err != nil {
		return nil, storageErr("summary", err)
	}
	st, err := s.GetStreak()
	if err != nil {
		return nil, err
	}
	sum.CurrentStreak = st.CurrentStreak
	sum.BestStreak = st.BestStreak
	return &sum, nil
}

// GetAchievementProgress returns every definition joined with its progress in
// sort order. Hidden definitions stay out of the listing until unlocked.
func (s *Store) GetAchievementProgress() ([]AchievementStatus, error) {
	rows, err := s.db.Query(`
		SELECT d.id, d.category, d.name, d.description, d.icon,
		       d.criteria_type, d.criteria_value, d.criteria_unit, d.sort_order, d.hidden,
		       p.current_progress, p.unlocked, p.unlocked_at, p.progress_updated_at
		FROM achievement_definitions d
		JOIN achievement_progress p ON p.achievement_id = d.id
		WHERE d.hidden = 0 OR p.unlocked = 1
		ORDER BY d.sort_order ASC`)
	if err != nil {
		return nil, storageErr("achievement progress", err)
	}
	defer rows.Close()

	var out []AchievementStatus
	for rows.Next() {
		var st AchievementStatus
		var category, criteriaType string
		var hidden, unlocked int
		var unlockedAt sql.NullString
		var updatedAt string
		if err := rows.Scan(
			&st.Definition.ID, &category, &st.Definition.Name, &st.Definition.Description,
			&st.Definition.Icon, &criteriaType, &st.Definition.CriteriaValue,
			&st.Definition.CriteriaUnit, &st.Definition.SortOrder, &hidden,
			&st.Progress.CurrentProgress, &unlocked, &unlockedAt, &updatedAt,
		); err != nil {
			return nil, storageErr("scan achievement", err)
		}
		st.Definition.Category = models.Category(category)
		st.Definition.CriteriaType = models.CriteriaType(criteriaType)
		st.Definition.Hidden = hidden != 0
		st.Progress.AchievementID = st.Definition.ID
		st.Progress.Unlocked = unlocked != 0
		if unlockedAt.Valid {
			if t, perr := parseTime(unlockedAt.String); perr == nil {
				st.Progress.UnlockedAt = &t
			}
		}
		if t, perr := parseTime(updatedAt); perr == nil {
			st.Progress.ProgressUpdatedAt = t
		}
		if st.Progress.Unlocked && st.Progress.UnlockedAt == nil {
			return nil, &ConsistencyError{Table: "achievement_progress", Detail: "unlocked without timestamp: " + st.Definition.ID}
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

// GetNextAchievableAward returns the locked, visible achievement closest to
// unlocking, with its progress percentage. Returns nil when nothing is left.
func (s *Store) GetNextAchievableAward() (*AchievementStatus, int, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, 0, storageErr("begin next award", err)
	}
	defer tx.Rollback()

	progress, err := progressMapTx(tx)
	if err != nil {
		return nil, 0, err
	}
	def, p := achievements.NextAchievable(s.defs, progress)
	if def == nil {
		return nil, 0, nil
	}
	pct := int(p.Ratio(def) * 100)
	return &AchievementStatus{Definition: *def, Progress: *p}, pct, nil
}

// UnlockedCount returns unlocked and total visible award counts. Hidden
// definitions join the total only once unlocked.
func (s *Store) UnlockedCount() (unlocked, total int, err error) {
	err = s.db.QueryRow(`
		SELECT COALESCE(SUM(p.unlocked), 0),
		       COUNT(*)
		FROM achievement_definitions d
		JOIN achievement_progress p ON p.achievement_id = d.id
		WHERE d.hidden = 0 OR p.unlocked = 1`).Scan(&unlocked, &total)
	if err != nil {
		return 0, 0, storageErr("unlocked count", err)
	}
	return unlocked, total, nil
}
