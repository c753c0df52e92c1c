// ABOUTME: Export and import for the focus session log.
// ABOUTME: Only sessions travel; derived state is recomputed on import.
package storage

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/harperreed/focus/internal/models"
)

// ExportData is the portable format for focus data. It carries the session
// log only: stats, streaks, and achievement progress are derived and get
// rebuilt on the importing side.
type ExportData struct {
	Version    string                 `json:"version"`
	ExportedAt time.Time              `json:"exported_at"`
	Tool       string                 `json:"tool"`
	Sessions   []*models.FocusSession `json:"sessions"`
}

// GetAllData retrieves the full session log for export.
func (s *Store) GetAllData() (*ExportData, error) {
	var sessions []*models.FocusSession
	offset := 0
	for {
		page, err := s.ListSessions(ListFilter{Limit: defaultListLimit, Offset: offset})
		if err != nil {
			return nil, fmt.Errorf("list sessions: %w", err)
		}
		sessions = append(sessions, page...)
		if len(page) < defaultListLimit {
			break
		}
		offset += defaultListLimit
	}

	return &ExportData{
		Version:    "1.0",
		ExportedAt: time.Now(),
		Tool:       "focus",
		Sessions:   sessions,
	}, nil
}

// ImportData replays exported sessions through the normal write path, so
// daily stats, the streak, and achievements come out the same as if the
// sessions had been recorded live.
func (s *Store) ImportData(data *ExportData, goal models.DailyGoal) error {
	for _, sess := range data.Sessions {
		opts := RecordOpts{Goal: goal, AllowOverrun: true}
		if err := s.RecordSession(sess, opts); err != nil {
			return fmt.Errorf("import session %s: %w", sess.ID, err)
		}
	}
	return nil
}

// ExportJSON exports the session log as JSON.
func (s *Store) ExportJSON() ([]byte, error) {
	data, err := s.GetAllData()
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(data, "", "  ")
}

// ImportJSON imports sessions from JSON bytes.
func (s *Store) ImportJSON(data []byte, goal models.DailyGoal) error {
	var exportData ExportData
	if err := json.Unmarshal(data, &exportData); err != nil {
		return fmt.Errorf("unmarshal JSON: %w", err)
	}
	return s.ImportData(&exportData, goal)
}

// ExportMarkdown renders the session log and daily stats as Markdown.
func (s *Store) ExportMarkdown(since *time.Time) (string, error) {
	var filter ListFilter
	if since != nil {
		filter.From = *since
	}
	sessions, err := s.ListSessions(filter)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	now := time.Now()

	sb.WriteString(fmt.Sprintf("# Focus Export - %s\n\n", now.Format("2006-01-02")))
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", now.Format(time.RFC3339)))

	sb.WriteString("## Sessions\n\n")
	sb.WriteString("| Start | Preset | Minutes | State |\n")
	sb.WriteString("|-------|--------|---------|-------|\n")
	for _, sess := range sessions {
		state := "abandoned"
		if sess.WasCompleted {
			state = "completed"
		}
		sb.WriteString(fmt.Sprintf("| %s | %s | %d | %s |\n",
			sess.StartedAt.Format("2006-01-02 15:04"),
			sess.Preset, sess.TotalMinutes, state))
	}

	fromKey := ""
	if since != nil {
		fromKey = models.DateKeyOf(*since)
	}
	daily, err := s.GetDailyStats(fromKey, "")
	if err != nil {
		return "", err
	}
	if len(daily) > 0 {
		sb.WriteString("\n## Daily Stats\n\n")
		sb.WriteString("| Date | Completed | Total | Minutes | Goal |\n")
		sb.WriteString("|------|-----------|-------|---------|------|\n")
		for _, d := range daily {
			goal := ""
			if d.MetGoal {
				goal = "met"
			}
			sb.WriteString(fmt.Sprintf("| %s | %d | %d | %d | %s |\n",
				d.DateKey, d.CompletedSessions, d.TotalSessions, d.TotalMinutes, goal))
		}
	}

	return sb.String(), nil
}
