// ABOUTME: Aggregate maintainer: daily-stat upserts, streak state machine, rebuilds.
// ABOUTME: Weekly/monthly/preset stats stay read-side views and are never maintained here.
package storage

import (
	"database/sql"
	"time"

	"github.com/harperreed/focus/internal/achievements"
	"github.com/harperreed/focus/internal/models"
)

// upsertDailyTx folds one new session into its date's aggregate row and
// returns whether this write made the day meet the goal for the first time.
func (s *Store) upsertDailyTx(tx *sql.Tx, sess *models.FocusSession, goal models.DailyGoal, now time.Time) (bool, error) {
	stat, err := dailyStatTx(tx, sess.DateKey)
	if err != nil {
		return false, err
	}
	metBefore := stat.MetGoal

	stat.TotalSessions++
	stat.TotalMinutes += sess.TotalMinutes
	if sess.WasCompleted {
		stat.CompletedSessions++
	}
	switch sess.Preset {
	case models.PresetQuick:
		stat.QuickSessions++
	case models.PresetStandard:
		stat.StandardSessions++
	case models.PresetDeep:
		stat.DeepSessions++
	}
	stat.MetGoal = goal.Met(stat.CompletedSessions, stat.TotalMinutes)

	if err := writeDailyTx(tx, stat, now); err != nil {
		return false, err
	}
	return stat.MetGoal && !metBefore, nil
}

// adjustDailyTx applies an abandoned-to-completed transition to the day's
// aggregate: one more completion plus the focused-minute delta.
func (s *Store) adjustDailyTx(tx *sql.Tx, sess *models.FocusSession, minuteDelta int, goal models.DailyGoal, now time.Time) (bool, error) {
	stat, err := dailyStatTx(tx, sess.DateKey)
	if err != nil {
		return false, err
	}
	metBefore := stat.MetGoal

	stat.CompletedSessions++
	stat.TotalMinutes += minuteDelta
	stat.MetGoal = goal.Met(stat.CompletedSessions, stat.TotalMinutes)

	if err := writeDailyTx(tx, stat, now); err != nil {
		return false, err
	}
	return stat.MetGoal && !metBefore, nil
}

func dailyStatTx(tx *sql.Tx, dateKey string) (*models.DailyStat, error) {
	stat := &models.DailyStat{DateKey: dateKey}
	var metGoal int
	var updatedAt string
	err := tx.QueryRow(`
		SELECT total_sessions, completed_sessions, total_minutes,
		       quick_sessions, standard_sessions, deep_sessions, met_goal, updated_at
		FROM daily_stats WHERE date_key = ?`, dateKey).Scan(
		&stat.TotalSessions, &stat.CompletedSessions, &stat.TotalMinutes,
		&stat.QuickSessions, &stat.StandardSessions, &stat.DeepSessions, &metGoal, &updatedAt)
	if err == sql.ErrNoRows {
		return stat, nil
	}
	if err != nil {
		return nil, storageErr("read daily stat", err)
	}
	stat.MetGoal = metGoal != 0
	return stat, nil
}

func writeDailyTx(tx *sql.Tx, stat *models.DailyStat, now time.Time) error {
	_, err := tx.Exec(`
		INSERT INTO daily_stats
			(date_key, total_sessions, completed_sessions, total_minutes,
			 quick_sessions, standard_sessions, deep_sessions, met_goal, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(date_key) DO UPDATE SET
			total_sessions = excluded.total_sessions,
			completed_sessions = excluded.completed_sessions,
			total_minutes = excluded.total_minutes,
			quick_sessions = excluded.quick_sessions,
			standard_sessions = excluded.standard_sessions,
			deep_sessions = excluded.deep_sessions,
			met_goal = excluded.met_goal,
			updated_at = excluded.updated_at`,
		stat.DateKey, stat.TotalSessions, stat.CompletedSessions, stat.TotalMinutes,
		stat.QuickSessions, stat.StandardSessions, stat.DeepSessions,
		boolToInt(stat.MetGoal), formatTime(now))
	return storageErr("write daily stat", err)
}

// qualifyDayTx advances the streak for a date whose goal was just met for the
// first time. Dates older than the last active date mean a backfill; the
// incremental rules cannot apply, so the streak is rebuilt from daily_stats.
func (s *Store) qualifyDayTx(tx *sql.Tx, dateKey string, now time.Time) error {
	st, err := streakTx(tx)
	if err != nil {
		return err
	}

	if st.LastActiveDate != "" && dateKey < st.LastActiveDate {
		return s.rebuildStreakTx(tx, now)
	}

	switch {
	case dateKey == st.LastActiveDate:
		// Goal already met today; nothing moves.
		return nil
	case st.LastActiveDate != "" && prevDateKey(dateKey) == st.LastActiveDate:
		st.CurrentStreak++
	default:
		st.CurrentStreak = 1
		st.StreakStartDate = dateKey
	}
	if st.CurrentStreak > st.BestStreak {
		st.BestStreak = st.CurrentStreak
	}
	st.LastActiveDate = dateKey

	return writeStreakTx(tx, st, now)
}

// rebuildStreakTx re-derives the whole streak record from the daily_stats
// table. Used for backfills and consistency recovery.
func (s *Store) rebuildStreakTx(tx *sql.Tx, now time.Time) error {
	rows, err := tx.Query(`SELECT date_key FROM daily_stats WHERE met_goal = 1 ORDER BY date_key`)
	if err != nil {
		return storageErr("rebuild streak", err)
	}
	defer rows.Close()

	var current, best int
	var last, runStart string
	for rows.Next() {
		var day string
		if err := rows.Scan(&day); err != nil {
			return storageErr("rebuild streak", err)
		}
		if last != "" && prevDateKey(day) == last {
			current++
		} else {
			current = 1
			runStart = day
		}
		if current > best {
			best = current
		}
		last = day
	}
	if err := rows.Err(); err != nil {
		return storageErr("rebuild streak", err)
	}

	st, err := streakTx(tx)
	if err != nil {
		return err
	}
	// bestStreak never decreases, even across a rebuild.
	if st.BestStreak > best {
		best = st.BestStreak
	}
	st.CurrentStreak = current
	st.BestStreak = best
	st.LastActiveDate = last
	st.StreakStartDate = runStart
	return writeStreakTx(tx, st, now)
}

func streakTx(tx *sql.Tx) (*models.StreakState, error) {
	var st models.StreakState
	var updatedAt string
	err := tx.QueryRow(`
		SELECT current_streak, best_streak, last_active_date, streak_start_date, updated_at
		FROM streak_state WHERE id = 1`).Scan(
		&st.CurrentStreak, &st.BestStreak, &st.LastActiveDate, &st.StreakStartDate, &updatedAt)
	if err != nil {
		return nil, storageErr("read streak", err)
	}
	if t, perr := parseTime(updatedAt); perr == nil {
		st.UpdatedAt = t
	}
	return &st, nil
}

func writeStreakTx(tx *sql.Tx, st *models.StreakState, now time.Time) error {
	_, err := tx.Exec(`
		UPDATE streak_state
		SET current_streak = ?, best_streak = ?, last_active_date = ?, streak_start_date = ?, updated_at = ?
		WHERE id = 1`,
		st.CurrentStreak, st.BestStreak, st.LastActiveDate, st.StreakStartDate, formatTime(now))
	return storageErr("write streak", err)
}

// prevDateKey returns the date key of the day before key. Malformed keys map
// to an empty string, which never matches.
func prevDateKey(key string) string {
	t, err := time.Parse("2006-01-02", key)
	if err != nil {
		return ""
	}
	return t.AddDate(0, 0, -1).Format("2006-01-02")
}

// evaluateTx re-runs the achievement engine against the store's current state
// and persists any progress changes. asOf, when non-empty, bounds the session
// counters to starts at or before it; replays use this so each step sees only
// history up to its own session.
func (s *Store) evaluateTx(tx *sql.Tx, sess *models.FocusSession, asOf string, now time.Time) error {
	snap, err := s.snapshotTx(tx, sess, asOf)
	if err != nil {
		return err
	}
	progress, err := progressMapTx(tx)
	if err != nil {
		return err
	}
	changed := achievements.Evaluate(s.defs, progress, snap, now)
	for _, p := range changed {
		if _, err := tx.Exec(`
			UPDATE achievement_progress
			SET current_progress = ?, unlocked = ?, unlocked_at = ?, progress_updated_at = ?
			WHERE achievement_id = ?`,
			p.CurrentProgress, boolToInt(p.Unlocked), formatTimePtr(p.UnlockedAt),
			formatTime(p.ProgressUpdatedAt), p.AchievementID,
		); err != nil {
			return storageErr("save progress", err)
		}
	}
	return nil
}

// snapshotTx computes every derived counter the evaluators consume.
func (s *Store) snapshotTx(tx *sql.Tx, sess *models.FocusSession, asOf string) (*achievements.Snapshot, error) {
	snap := &achievements.Snapshot{Session: sess}

	bound := " "
	var boundArgs []any
	if asOf != "" {
		bound = " WHERE started_at <= ? "
		boundArgs = []any{asOf}
	}

	err := tx.QueryRow(`
		SELECT COUNT(*), COALESCE(SUM(was_completed), 0), COALESCE(SUM(total_minutes), 0)
		FROM sessions`+bound, boundArgs...).Scan(
		&snap.TotalSessions, &snap.CompletedSessions, &snap.TotalMinutes)
	if err != nil {
		return nil, storageErr("snapshot totals", err)
	}

	deepCond := "WHERE preset = 'deep' AND was_completed = 1"
	if asOf != "" {
		deepCond += " AND started_at <= ?"
	}
	if err := tx.QueryRow(`SELECT COUNT(*) FROM sessions `+deepCond, boundArgs...).Scan(&snap.CompletedDeep); err != nil {
		return nil, storageErr("snapshot deep", err)
	}

	st, err := streakTx(tx)
	if err != nil {
		return nil, err
	}
	snap.CurrentStreak = st.CurrentStreak
	snap.BestStreak = st.BestStreak

	day, err := dailyStatTx(tx, sess.DateKey)
	if err != nil {
		return nil, err
	}
	snap.DaySessions = day.TotalSessions
	snap.DayCompleted = day.CompletedSessions
	snap.DayMinutes = day.TotalMinutes

	snap.DayPresets = make(map[models.Preset]bool, 3)
	presetCond := "WHERE date_key = ? AND was_completed = 1"
	presetArgs := []any{sess.DateKey}
	if asOf != "" {
		presetCond += " AND started_at <= ?"
		presetArgs = append(presetArgs, asOf)
	}
	rows, err := tx.Query(`SELECT DISTINCT preset FROM sessions `+presetCond, presetArgs...)
	if err != nil {
		return nil, storageErr("snapshot presets", err)
	}
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			rows.Close()
			return nil, storageErr("snapshot presets", err)
		}
		snap.DayPresets[models.Preset(p)] = true
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, storageErr("snapshot presets", err)
	}

	if snap.GoalRunLength, err = goalRunLengthTx(tx, sess.DateKey); err != nil {
		return nil, err
	}
	if snap.WeekendComplete, err = weekendCompleteTx(tx, sess.StartedAt); err != nil {
		return nil, err
	}
	return snap, nil
}

// goalRunLengthTx counts consecutive goal-met days ending at dateKey.
func goalRunLengthTx(tx *sql.Tx, dateKey string) (int, error) {
	rows, err := tx.Query(`
		SELECT date_key FROM daily_stats
		WHERE met_goal = 1 AND date_key <= ?
		ORDER BY date_key DESC`, dateKey)
	if err != nil {
		return 0, storageErr("goal run", err)
	}
	defer rows.Close()

	run := 0
	expect := dateKey
	for rows.Next() {
		var day string
		if err := rows.Scan(&day); err != nil {
			return 0, storageErr("goal run", err)
		}
		if day != expect {
			break
		}
		run++
		expect = prevDateKey(day)
	}
	return run, rows.Err()
}

// weekendCompleteTx reports completed sessions on both the Saturday and the
// Sunday of t's ISO week.
func weekendCompleteTx(tx *sql.Tx, t time.Time) (bool, error) {
	// Monday of t's ISO week.
	offset := int(t.Weekday())
	if offset == 0 {
		offset = 7 // Sunday closes the ISO week
	}
	monday := t.AddDate(0, 0, 1-offset)
	satKey := models.DateKeyOf(monday.AddDate(0, 0, 5))
	sunKey := models.DateKeyOf(monday.AddDate(0, 0, 6))

	var n int
	err := tx.QueryRow(`
		SELECT COUNT(*) FROM daily_stats
		WHERE date_key IN (?, ?) AND completed_sessions > 0`, satKey, sunKey).Scan(&n)
	if err != nil {
		return false, storageErr("weekend check", err)
	}
	return n == 2, nil
}

func progressMapTx(tx *sql.Tx) (map[string]*models.AchievementProgress, error) {
	rows, err := tx.Query(`
		SELECT achievement_id, current_progress, unlocked, unlocked_at, progress_updated_at
		FROM achievement_progress`)
	if err != nil {
		return nil, storageErr("read progress", err)
	}
	defer rows.Close()

	m := make(map[string]*models.AchievementProgress)
	for rows.Next() {
		p, err := scanProgress(rows)
		if err != nil {
			return nil, storageErr("scan progress", err)
		}
		m[p.AchievementID] = p
	}
	return m, rows.Err()
}

func scanProgress(row rowScanner) (*models.AchievementProgress, error) {
	var p models.AchievementProgress
	var unlocked int
	var unlockedAt sql.NullString
	var updatedAt string
	if err := row.Scan(&p.AchievementID, &p.CurrentProgress, &unlocked, &unlockedAt, &updatedAt); err != nil {
		return nil, err
	}
	p.Unlocked = unlocked != 0
	if unlockedAt.Valid {
		if t, err := parseTime(unlockedAt.String); err == nil {
			p.UnlockedAt = &t
		}
	}
	if t, err := parseTime(updatedAt); err == nil {
		p.ProgressUpdatedAt = t
	}
	return &p, nil
}

// RebuildDerived re-derives daily stats, the streak record, and all locked
// achievement progress by replaying the session log in order. Unlocked rows
// are terminal and survive untouched. This is the recovery path after a
// ConsistencyError and the safety valve after large backfills.
func (s *Store) RebuildDerived(goal models.DailyGoal) error {
	now := time.Now()

	tx, err := s.db.Begin()
	if err != nil {
		return storageErr("begin rebuild", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM daily_stats`); err != nil {
		return storageErr("clear daily stats", err)
	}
	if _, err := tx.Exec(`
		UPDATE streak_state
		SET current_streak = 0, best_streak = 0, last_active_date = '', streak_start_date = '', updated_at = ?
		WHERE id = 1`, formatTime(now)); err != nil {
		return storageErr("clear streak", err)
	}
	if _, err := tx.Exec(`
		UPDATE achievement_progress SET current_progress = 0, progress_updated_at = ?
		WHERE unlocked = 0`, formatTime(now)); err != nil {
		return storageErr("clear progress", err)
	}

	rows, err := tx.Query(`
		SELECT id, preset, started_at, ends_at, completed_at, was_completed, total_minutes,
		       date_key, week_key, month_key, created_at
		FROM sessions ORDER BY started_at ASC, created_at ASC`)
	if err != nil {
		return storageErr("read sessions", err)
	}
	var sessions []*models.FocusSession
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			rows.Close()
			return storageErr("scan session", err)
		}
		sessions = append(sessions, sess)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return storageErr("read sessions", err)
	}

	for _, sess := range sessions {
		newlyMet, err := s.upsertDailyTx(tx, sess, goal, now)
		if err != nil {
			return err
		}
		if newlyMet {
			if err := s.qualifyDayTx(tx, sess.DateKey, now); err != nil {
				return err
			}
		}
		if err := s.evaluateTx(tx, sess, formatTime(sess.StartedAt), now); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return storageErr("commit rebuild", err)
	}
	return nil
}
