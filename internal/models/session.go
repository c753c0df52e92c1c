// ABOUTME: FocusSession model and Preset enum for focus tracking.
// ABOUTME: Derived calendar keys (date/week/month) are pure functions of StartedAt.
package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Preset identifies a focus-session preset with a fixed planned duration.
type Preset string

const (
	PresetQuick    Preset = "quick"
	PresetStandard Preset = "standard"
	PresetDeep     Preset = "deep"
)

// PresetMinutes maps each preset to its canonical planned duration.
var PresetMinutes = map[Preset]int{
	PresetQuick:    10,
	PresetStandard: 25,
	PresetDeep:     50,
}

// AllPresets returns all valid presets in canonical order.
var AllPresets = []Preset{PresetQuick, PresetStandard, PresetDeep}

// IsValidPreset checks if a string is a valid preset name.
func IsValidPreset(s string) bool {
	_, ok := PresetMinutes[Preset(s)]
	return ok
}

// PlannedMinutes returns the preset's canonical duration, or 0 if unknown.
func (p Preset) PlannedMinutes() int {
	return PresetMinutes[p]
}

// FocusSession represents one timed work interval. Sessions are append-only;
// the only permitted edit is the one-way abandoned-to-completed transition.
type FocusSession struct {
	ID           uuid.UUID  `json:"id"`
	Preset       Preset     `json:"preset"`
	StartedAt    time.Time  `json:"started_at"`
	EndsAt       time.Time  `json:"ends_at"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"` // nil while abandoned
	WasCompleted bool       `json:"was_completed"`
	TotalMinutes int        `json:"total_minutes"`
	CreatedAt    time.Time  `json:"created_at"`

	// Derived from StartedAt on write; never settable by callers.
	DateKey  string `json:"-"`
	WeekKey  string `json:"-"`
	MonthKey string `json:"-"`
}

// NewSession creates a new FocusSession with generated UUID, planned end time
// and current timestamp. The session starts in the abandoned (incomplete) state.
func NewSession(preset Preset, startedAt time.Time) *FocusSession {
	return &FocusSession{
		ID:        uuid.New(),
		Preset:    preset,
		StartedAt: startedAt,
		EndsAt:    startedAt.Add(time.Duration(preset.PlannedMinutes()) * time.Minute),
		CreatedAt: time.Now(),
	}
}

// WithCompleted marks the session completed at t with the given focused minutes.
func (s *FocusSession) WithCompleted(t time.Time, minutes int) *FocusSession {
	s.CompletedAt = &t
	s.WasCompleted = true
	s.TotalMinutes = minutes
	return s
}

// WithMinutes sets the focused minutes without completing the session.
func (s *FocusSession) WithMinutes(minutes int) *FocusSession {
	s.TotalMinutes = minutes
	return s
}

// Validate checks the session for structural problems before it is persisted.
func (s *FocusSession) Validate() error {
	if !IsValidPreset(string(s.Preset)) {
		return fmt.Errorf("unknown preset: %q", s.Preset)
	}
	if s.StartedAt.IsZero() {
		return fmt.Errorf("started_at is required")
	}
	if s.EndsAt.Before(s.StartedAt) {
		return fmt.Errorf("ends_at %s is before started_at %s",
			s.EndsAt.Format(time.RFC3339), s.StartedAt.Format(time.RFC3339))
	}
	if s.TotalMinutes < 0 {
		return fmt.Errorf("total_minutes must be >= 0, got %d", s.TotalMinutes)
	}
	if s.WasCompleted && s.CompletedAt == nil {
		return fmt.Errorf("completed session missing completed_at")
	}
	return nil
}

// ExceedsPlanned reports whether the recorded minutes overrun the preset's
// planned duration.
func (s *FocusSession) ExceedsPlanned() bool {
	return s.TotalMinutes > s.Preset.PlannedMinutes()
}

// DateKeyOf returns the calendar-date grouping key for t (2006-01-02).
func DateKeyOf(t time.Time) string {
	return t.Format("2006-01-02")
}

// WeekKeyOf returns the ISO year-week grouping key for t (2006-W02).
func WeekKeyOf(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%04d-W%02d", year, week)
}

// MonthKeyOf returns the year-month grouping key for t (2006-01).
func MonthKeyOf(t time.Time) string {
	return t.Format("2006-01")
}

// ComputeKeys sets the derived grouping keys from StartedAt, overwriting
// anything a caller may have put there.
func (s *FocusSession) ComputeKeys() {
	s.DateKey = DateKeyOf(s.StartedAt)
	s.WeekKey = WeekKeyOf(s.StartedAt)
	s.MonthKey = MonthKeyOf(s.StartedAt)
}
