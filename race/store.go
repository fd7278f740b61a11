// Package race is the presentation-state engine of the bar-chart race: it
// loads per-country emissions, advances a year cursor on a timer, ranks the
// countries for the current year and animates the shared scale and the
// rank reorders.
package race

import (
	"github.com/grovetools/carbon/pkg/models"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Store maps a country's display name to its emissions series. Iteration
// follows insertion order (roster order, or cached order), which is the
// order ties keep in a snapshot.
type Store struct {
	series *orderedmap.OrderedMap[string, models.Series]
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{series: orderedmap.New[string, models.Series]()}
}

// FromEntries rebuilds a store from its cached form.
func FromEntries(entries []models.StoreEntry) *Store {
	s := NewStore()
	for _, e := range entries {
		s.Set(e.Name, e.Series)
	}
	return s
}

// Set records a series. A nil series is stored as empty so a country whose
// fetch failed is still present. Re-setting a name keeps its position.
func (s *Store) Set(name string, series models.Series) {
	if series == nil {
		series = models.Series{}
	}
	s.series.Set(name, series)
}

// Get returns the series recorded for name.
func (s *Store) Get(name string) (models.Series, bool) {
	return s.series.Get(name)
}

// Len is the number of countries held, including those with empty series.
func (s *Store) Len() int {
	return s.series.Len()
}

// Names returns the keys in store order.
func (s *Store) Names() []string {
	names := make([]string, 0, s.series.Len())
	for pair := s.series.Oldest(); pair != nil; pair = pair.Next() {
		names = append(names, pair.Key)
	}
	return names
}

// Entries returns the store as (name, series) pairs in store order.
func (s *Store) Entries() []models.StoreEntry {
	entries := make([]models.StoreEntry, 0, s.series.Len())
	for pair := s.series.Oldest(); pair != nil; pair = pair.Next() {
		entries = append(entries, models.StoreEntry{Name: pair.Key, Series: pair.Value})
	}
	return entries
}

// Bounds returns the smallest and largest year of any record, whether or
// not its carbon value is set. ok is false when the store has no records.
func (s *Store) Bounds() (minYear, maxYear int, ok bool) {
	for pair := s.series.Oldest(); pair != nil; pair = pair.Next() {
		for _, r := range pair.Value {
			if !ok {
				minYear, maxYear, ok = r.Year, r.Year, true
				continue
			}
			if r.Year < minYear {
				minYear = r.Year
			}
			if r.Year > maxYear {
				maxYear = r.Year
			}
		}
	}
	return minYear, maxYear, ok
}

// Records counts the records held for all countries.
func (s *Store) Records() int {
	n := 0
	for pair := s.series.Oldest(); pair != nil; pair = pair.Next() {
		n += len(pair.Value)
	}
	return n
}
