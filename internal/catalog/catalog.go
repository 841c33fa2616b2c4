// Package catalog holds the fixed set of usage categories subscriptions are
// evaluated against.
package catalog

import (
	"errors"
	"fmt"

	"github.com/jueunk617/subscription-keep-or-cut/internal/model"
)

var ErrUnknownCategory = errors.New("unknown category")

// entries is ordered by category id.
var entries = []model.Category{
	{ID: 1, Name: "OTT", ReferenceValue: 1800, Unit: model.UnitMinutes, Type: model.TypeContent},
	{ID: 2, Name: "MUSIC", ReferenceValue: 1500, Unit: model.UnitMinutes, Type: model.TypeContent},
	{ID: 3, Name: "EBOOK", ReferenceValue: 300, Unit: model.UnitMinutes, Type: model.TypeContent},
	{ID: 4, Name: "AI_TOOL", ReferenceValue: 12, Unit: model.UnitDays, Type: model.TypeProductivity},
	{ID: 5, Name: "WORK_TOOL", ReferenceValue: 20, Unit: model.UnitDays, Type: model.TypeProductivity},
	{ID: 6, Name: "CLOUD", ReferenceValue: 25, Unit: model.UnitDays, Type: model.TypeProductivity},
}

// All returns a copy of every catalog entry in id order
func All() []model.Category {
	out := make([]model.Category, len(entries))
	copy(out, entries)
	return out
}

// Lookup returns the catalog entry with the given name
func Lookup(name string) (model.Category, error) {
	for _, c := range entries {
		if c.Name == name {
			return c, nil
		}
	}
	return model.Category{}, fmt.Errorf("%w: %s", ErrUnknownCategory, name)
}

// Verify checks persisted categories against the catalog. Any category that
// is missing from the catalog or differs from its entry is a deployment
// mismatch and is reported as an error.
func Verify(categories []model.Category) error {
	for _, c := range categories {
		want, err := Lookup(c.Name)
		if err != nil {
			return err
		}
		if c.ID != want.ID || c.ReferenceValue != want.ReferenceValue || c.Unit != want.Unit || c.Type != want.Type {
			return fmt.Errorf("category %s does not match catalog: got %+v, want %+v", c.Name, c, want)
		}
	}
	if len(categories) != len(entries) {
		return fmt.Errorf("expected %d categories, found %d", len(entries), len(categories))
	}
	return nil
}
