// ABOUTME: Achievement definition and per-achievement progress models.
// ABOUTME: Definitions are seeded and immutable; progress unlocks are one-way.
package models

import "time"

// Category groups achievements in the gallery.
type Category string

const (
	CategoryCommitment  Category = "commitment"
	CategoryConsistency Category = "consistency"
	CategoryCompletion  Category = "completion"
	CategoryDepth       Category = "depth"
	CategoryMilestone   Category = "milestone"
)

// ValidCategories is the canonical set of accepted category strings.
var ValidCategories = map[Category]bool{
	CategoryCommitment:  true,
	CategoryConsistency: true,
	CategoryCompletion:  true,
	CategoryDepth:       true,
	CategoryMilestone:   true,
}

// CriteriaType selects the evaluation strategy for a definition.
type CriteriaType string

const (
	CriteriaThreshold  CriteriaType = "threshold"
	CriteriaCumulative CriteriaType = "cumulative"
	CriteriaStreak     CriteriaType = "streak"
	CriteriaRate       CriteriaType = "rate"
	CriteriaPattern    CriteriaType = "pattern"
)

// ValidCriteriaTypes is the canonical set of accepted criteria type strings.
var ValidCriteriaTypes = map[CriteriaType]bool{
	CriteriaThreshold:  true,
	CriteriaCumulative: true,
	CriteriaStreak:     true,
	CriteriaRate:       true,
	CriteriaPattern:    true,
}

// AchievementDefinition is one seeded, immutable award rule. The icon is an
// opaque identifier handed to the presentation layer.
type AchievementDefinition struct {
	ID            string
	Category      Category
	Name          string
	Description   string
	Icon          string
	CriteriaType  CriteriaType
	CriteriaValue int
	CriteriaUnit  string
	SortOrder     int
	Hidden        bool
}

// AchievementProgress tracks a single definition's state. Unlocking is a
// one-way transition; UnlockedAt is set exactly once when it happens.
type AchievementProgress struct {
	AchievementID     string
	CurrentProgress   int
	Unlocked          bool
	UnlockedAt        *time.Time
	ProgressUpdatedAt time.Time
}

// Ratio returns progress toward the criteria as a fraction in [0,1].
func (p *AchievementProgress) Ratio(def *AchievementDefinition) float64 {
	if def.CriteriaValue <= 0 {
		return 0
	}
	r := float64(p.CurrentProgress) / float64(def.CriteriaValue)
	if r > 1 {
		return 1
	}
	return r
}
