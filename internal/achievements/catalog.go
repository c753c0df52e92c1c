// ABOUTME: Embedded seed catalog of achievement definitions.
// ABOUTME: Parsed from catalog.yaml and validated before seeding the store.
package achievements

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/harperreed/focus/internal/models"
)

//go:embed catalog.yaml
var catalogYAML []byte

type catalogEntry struct {
	ID            string `yaml:"id"`
	Category      string `yaml:"category"`
	Name          string `yaml:"name"`
	Description   string `yaml:"description"`
	Icon          string `yaml:"icon"`
	CriteriaType  string `yaml:"criteria_type"`
	CriteriaValue int    `yaml:"criteria_value"`
	CriteriaUnit  string `yaml:"criteria_unit"`
	SortOrder     int    `yaml:"sort_order"`
	Hidden        bool   `yaml:"hidden"`
}

// Catalog returns all seed definitions in catalog order. The result is freshly
// allocated on each call; callers may mutate it.
func Catalog() ([]models.AchievementDefinition, error) {
	var entries []catalogEntry
	if err := yaml.Unmarshal(catalogYAML, &entries); err != nil {
		return nil, fmt.Errorf("parse achievement catalog: %w", err)
	}

	defs := make([]models.AchievementDefinition, 0, len(entries))
	seen := make(map[string]bool, len(entries))
	for i, e := range entries {
		if e.ID == "" {
			return nil, fmt.Errorf("catalog entry %d: missing id", i)
		}
		if seen[e.ID] {
			return nil, fmt.Errorf("catalog entry %q: duplicate id", e.ID)
		}
		seen[e.ID] = true
		if !models.ValidCategories[models.Category(e.Category)] {
			return nil, fmt.Errorf("catalog entry %q: unknown category %q", e.ID, e.Category)
		}
		if !models.ValidCriteriaTypes[models.CriteriaType(e.CriteriaType)] {
			return nil, fmt.Errorf("catalog entry %q: unknown criteria type %q", e.ID, e.CriteriaType)
		}
		if e.CriteriaValue <= 0 {
			return nil, fmt.Errorf("catalog entry %q: criteria_value must be positive", e.ID)
		}
		if e.Name == "" {
			return nil, fmt.Errorf("catalog entry %q: missing name", e.ID)
		}
		defs = append(defs, models.AchievementDefinition{
			ID:            e.ID,
			Category:      models.Category(e.Category),
			Name:          e.Name,
			Description:   e.Description,
			Icon:          e.Icon,
			CriteriaType:  models.CriteriaType(e.CriteriaType),
			CriteriaValue: e.CriteriaValue,
			CriteriaUnit:  e.CriteriaUnit,
			SortOrder:     e.SortOrder,
			Hidden:        e.Hidden,
		})
	}
	return defs, nil
}
