// ABOUTME: Session store: append-only focus-session rows, the source of truth.
// ABOUTME: Recording a session updates aggregates and achievements in one transaction.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/harperreed/focus/internal/models"
)

// defaultListLimit bounds ListSessions when the caller does not paginate.
const defaultListLimit = 500

// RecordOpts carries the caller-supplied context for a write. The daily goal
// is owned by the settings subsystem and only read here.
type RecordOpts struct {
	Goal         models.DailyGoal
	AllowOverrun bool
}

// ListFilter selects sessions for ListSessions. Zero values mean no filter.
type ListFilter struct {
	From   time.Time
	To     time.Time
	Preset models.Preset
	Limit  int
	Offset int
}

// RecordSession validates and persists a session, then updates the daily
// aggregate, the streak, and achievement progress in the same transaction.
// Derived keys are recomputed from StartedAt; anything the caller set there
// is discarded.
func (s *Store) RecordSession(sess *models.FocusSession, opts RecordOpts) error {
	if err := sess.Validate(); err != nil {
		return &ValidationError{Reason: err.Error()}
	}
	if sess.ExceedsPlanned() && !opts.AllowOverrun {
		return &ValidationError{Reason: fmt.Sprintf(
			"%d minutes exceeds the %s preset's planned %d",
			sess.TotalMinutes, sess.Preset, sess.Preset.PlannedMinutes())}
	}
	sess.ComputeKeys()
	if sess.CreatedAt.IsZero() {
		sess.CreatedAt = time.Now()
	}
	now := time.Now()

	tx, err := s.db.Begin()
	if err != nil {
		return storageErr("begin record", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`
		INSERT INTO sessions
			(id, preset, started_at, ends_at, completed_at, was_completed, total_minutes,
			 date_key, week_key, month_key, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sess.ID.String(), string(sess.Preset),
		formatTime(sess.StartedAt), formatTime(sess.EndsAt), formatTimePtr(sess.CompletedAt),
		boolToInt(sess.WasCompleted), sess.TotalMinutes,
		sess.DateKey, sess.WeekKey, sess.MonthKey, formatTime(sess.CreatedAt),
	); err != nil {
		return storageErr("insert session", err)
	}

	newlyMet, err := s.upsertDailyTx(tx, sess, opts.Goal, now)
	if err != nil {
		return err
	}
	if newlyMet {
		if err := s.qualifyDayTx(tx, sess.DateKey, now); err != nil {
			return err
		}
	}
	if err := s.evaluateTx(tx, sess, "", now); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return storageErr("commit record", err)
	}
	return nil
}

// CompleteSession performs the one-way abandoned-to-completed transition on an
// existing session, adjusting aggregates and re-evaluating achievements in
// the same transaction. A session can only transition once.
func (s *Store) CompleteSession(id string, completedAt time.Time, minutes int, opts RecordOpts) error {
	sess, err := s.GetSession(id)
	if err != nil {
		return err
	}
	if sess.WasCompleted {
		return &ValidationError{Reason: "session already completed"}
	}
	if minutes < 0 {
		return &ValidationError{Reason: "total_minutes must be >= 0"}
	}
	minuteDelta := minutes - sess.TotalMinutes
	sess.WithCompleted(completedAt, minutes)
	if sess.ExceedsPlanned() && !opts.AllowOverrun {
		return &ValidationError{Reason: fmt.Sprintf(
			"%d minutes exceeds the %s preset's planned %d",
			minutes, sess.Preset, sess.Preset.PlannedMinutes())}
	}
	now := time.Now()

	tx, err := s.db.Begin()
	if err != nil {
		return storageErr("begin complete", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(`
		UPDATE sessions SET completed_at = ?, was_completed = 1, total_minutes = ?
		WHERE id = ? AND was_completed = 0`,
		formatTime(completedAt), minutes, sess.ID.String())
	if err != nil {
		return storageErr("complete session", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &ValidationError{Reason: "session already completed"}
	}

	newlyMet, err := s.adjustDailyTx(tx, sess, minuteDelta, opts.Goal, now)
	if err != nil {
		return err
	}
	if newlyMet {
		if err := s.qualifyDayTx(tx, sess.DateKey, now); err != nil {
			return err
		}
	}
	if err := s.evaluateTx(tx, sess, "", now); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return storageErr("commit complete", err)
	}
	return nil
}

// GetSession retrieves a session by id. Returns ErrNotFound when absent.
func (s *Store) GetSession(id string) (*models.FocusSession, error) {
	row := s.db.QueryRow(`
		SELECT id, preset, started_at, ends_at, completed_at, was_completed, total_minutes,
		       date_key, week_key, month_key, created_at
		FROM sessions WHERE id = ?`, id)
	sess, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, storageErr("get session", err)
	}
	return sess, nil
}

// ListSessions returns sessions matching the filter, ordered by start time
// ascending. Results are always bounded; page with Limit and Offset.
func (s *Store) ListSessions(f ListFilter) ([]*models.FocusSession, error) {
	var conds []string
	var args []any
	if !f.From.IsZero() {
		conds = append(conds, "started_at >= ?")
		args = append(args, formatTime(f.From))
	}
	if !f.To.IsZero() {
		conds = append(conds, "started_at <= ?")
		args = append(args, formatTime(f.To))
	}
	if f.Preset != "" {
		if !models.IsValidPreset(string(f.Preset)) {
			return nil, &ValidationError{Reason: fmt.Sprintf("unknown preset: %q", f.Preset)}
		}
		conds = append(conds, "preset = ?")
		args = append(args, string(f.Preset))
	}

	query := `
		SELECT id, preset, started_at, ends_at, completed_at, was_completed, total_minutes,
		       date_key, week_key, month_key, created_at
		FROM sessions`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY started_at ASC, created_at ASC LIMIT ? OFFSET ?"
	limit := f.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	args = append(args, limit, f.Offset)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, storageErr("list sessions", err)
	}
	defer rows.Close()

	var sessions []*models.FocusSession
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, storageErr("scan session", err)
		}
		sessions = append(sessions, sess)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list sessions", err)
	}
	return sessions, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (*models.FocusSession, error) {
	var sess models.FocusSession
	var idStr, preset, startedAt, endsAt, createdAt string
	var completedAt sql.NullString
	var wasCompleted int

	err := row.Scan(&idStr, &preset, &startedAt, &endsAt, &completedAt, &wasCompleted,
		&sess.TotalMinutes, &sess.DateKey, &sess.WeekKey, &sess.MonthKey, &createdAt)
	if err != nil {
		return nil, err
	}

	if sess.ID, err = uuid.Parse(idStr); err != nil {
		return nil, err
	}
	sess.Preset = models.Preset(preset)
	if sess.StartedAt, err = parseTime(startedAt); err != nil {
		return nil, err
	}
	if sess.EndsAt, err = parseTime(endsAt); err != nil {
		return nil, err
	}
	if sess.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if completedAt.Valid {
		t, err := parseTime(completedAt.String)
		if err != nil {
			return nil, err
		}
		sess.CompletedAt = &t
	}
	sess.WasCompleted = wasCompleted != 0
	return &sess, nil
}

func formatTime(t time.Time) string {
	return t.Format(time.RFC3339)
}

func formatTimePtr(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format(time.RFC3339)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}
