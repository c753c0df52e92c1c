// ABOUTME: Shared test helpers for store tests.
// ABOUTME: Provides isolated store instances and canned session builders.
package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/harperreed/focus/internal/models"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "focus.db")
	s, err := Open(dbPath)
	if err != nil {
		t.Fatalf("failed to open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// completedSession builds a session that ran its full planned duration.
func completedSession(preset models.Preset, start time.Time) *models.FocusSession {
	minutes := preset.PlannedMinutes()
	s := models.NewSession(preset, start)
	s.WithCompleted(start.Add(time.Duration(minutes)*time.Minute), minutes)
	return s
}

// abandonedSession builds a session given up after the given minutes.
func abandonedSession(preset models.Preset, start time.Time, minutes int) *models.FocusSession {
	return models.NewSession(preset, start).WithMinutes(minutes)
}

func mustRecord(t *testing.T, s *Store, sess *models.FocusSession) {
	t.Helper()
	if err := s.RecordSession(sess, RecordOpts{Goal: models.DefaultDailyGoal}); err != nil {
		t.Fatalf("RecordSession failed: %v", err)
	}
}

func progressFor(t *testing.T, s *Store, id string) *models.AchievementProgress {
	t.Helper()
	tx, err := s.db.Begin()
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	defer tx.Rollback()
	m, err := progressMapTx(tx)
	if err != nil {
		t.Fatalf("progressMapTx failed: %v", err)
	}
	p, ok := m[id]
	if !ok {
		t.Fatalf("no progress row for %s", id)
	}
	return p
}

// day returns 10am UTC on the given date, a convenient session start.
func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 10, 0, 0, 0, time.UTC)
}
