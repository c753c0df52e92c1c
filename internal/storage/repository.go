// ABOUTME: Repository interface for the focus engine.
// ABOUTME: Defines the contract collaborators consume; allows swapping implementations.
package storage

import (
	"time"

	"github.com/harperreed/focus/internal/models"
)

// Repository is the full surface the engine exposes to collaborators: the
// write path for the timer subsystem and the read facade for presentation.
type Repository interface {
	// Write path (timer subsystem)
	RecordSession(sess *models.FocusSession, opts RecordOpts) error
	CompleteSession(id string, completedAt time.Time, minutes int, opts RecordOpts) error

	// Session reads
	GetSession(id string) (*models.FocusSession, error)
	ListSessions(f ListFilter) ([]*models.FocusSession, error)

	// Aggregate reads
	GetDailyStats(fromKey, toKey string) ([]models.DailyStat, error)
	GetWeeklyStats() ([]models.PeriodStat, error)
	GetMonthlyStats() ([]models.PeriodStat, error)
	GetPresetStats() ([]models.PresetStat, error)
	GetStreak() (*models.StreakState, error)
	Summary() (*models.Summary, error)

	// Achievement reads
	GetAchievementProgress() ([]AchievementStatus, error)
	GetNextAchievableAward() (*AchievementStatus, int, error)
	UnlockedCount() (unlocked, total int, err error)
	Definitions() []models.AchievementDefinition

	// Export and import
	ExportJSON() ([]byte, error)
	ImportJSON(data []byte, goal models.DailyGoal) error
	ExportMarkdown(since *time.Time) (string, error)

	// Recovery and lifecycle
	RebuildDerived(goal models.DailyGoal) error
	Reset() error
	SchemaVersion() (int, error)
	MigrationHistory() ([]string, error)
	Close() error
}

var _ Repository = (*Store)(nil)
