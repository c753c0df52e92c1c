// ABOUTME: Tests for achievement definition and progress models.
// ABOUTME: Validates enum sets and progress ratio computation.
package models

import "testing"

func TestValidCategoryAndCriteriaSets(t *testing.T) {
	for _, c := range []Category{
		CategoryCommitment, CategoryConsistency, CategoryCompletion,
		CategoryDepth, CategoryMilestone,
	} {
		if !ValidCategories[c] {
			t.Errorf("category %s missing from ValidCategories", c)
		}
	}
	for _, ct := range []CriteriaType{
		CriteriaThreshold, CriteriaCumulative, CriteriaStreak,
		CriteriaRate, CriteriaPattern,
	} {
		if !ValidCriteriaTypes[ct] {
			t.Errorf("criteria type %s missing from ValidCriteriaTypes", ct)
		}
	}
	if ValidCategories["speed"] {
		t.Error("unexpected category accepted")
	}
	if ValidCriteriaTypes["random"] {
		t.Error("unexpected criteria type accepted")
	}
}

func TestProgressRatio(t *testing.T) {
	def := &AchievementDefinition{ID: "sessions_10", CriteriaValue: 10}

	tests := []struct {
		name     string
		progress int
		want     float64
	}{
		{"empty", 0, 0},
		{"halfway", 5, 0.5},
		{"complete", 10, 1},
		{"over target clamps", 15, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &AchievementProgress{AchievementID: def.ID, CurrentProgress: tt.progress}
			if got := p.Ratio(def); got != tt.want {
				t.Errorf("Ratio() = %f, want %f", got, tt.want)
			}
		})
	}

	zeroDef := &AchievementDefinition{ID: "broken", CriteriaValue: 0}
	p := &AchievementProgress{CurrentProgress: 3}
	if got := p.Ratio(zeroDef); got != 0 {
		t.Errorf("Ratio with zero criteria = %f, want 0", got)
	}
}
