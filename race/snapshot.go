package race

import (
	"cmp"
	"slices"

	"github.com/grovetools/carbon/pkg/models"
)

// BuildSnapshot ranks the countries that have a non-null carbon value for
// year, largest first. Countries without a record for the year, or with a
// null value, are left out rather than shown as zero. Equal values keep
// store order.
func BuildSnapshot(store *Store, year int) []models.VisibleEntry {
	visible := make([]models.VisibleEntry, 0, store.Len())
	for pair := store.series.Oldest(); pair != nil; pair = pair.Next() {
		record, ok := pair.Value.Find(year)
		if !ok || record.Carbon == nil {
			continue
		}
		visible = append(visible, models.VisibleEntry{
			Country: pair.Key,
			Carbon:  *record.Carbon,
		})
	}

	slices.SortStableFunc(visible, func(a, b models.VisibleEntry) int {
		return cmp.Compare(b.Carbon, a.Carbon)
	})
	return visible
}

// MaxTarget is the value the scale converges to for a snapshot: the
// largest carbon value, never less than 1.
func MaxTarget(visible []models.VisibleEntry) float64 {
	target := 1.0
	for _, v := range visible {
		if v.Carbon > target {
			target = v.Carbon
		}
	}
	return target
}

// IDs returns the identity keys of a snapshot in rank order.
func IDs(visible []models.VisibleEntry) []string {
	ids := make([]string, len(visible))
	for i, v := range visible {
		ids[i] = v.Country
	}
	return ids
}
