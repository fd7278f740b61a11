package models

import (
	"encoding/json"
	"fmt"
)

// YearRecord is one year of footprint data for a country. Only Year and
// Carbon are read by the race; the rest is carried through the cache.
type YearRecord struct {
	Year          int      `json:"year"`
	CountryCode   int      `json:"countryCode,omitempty"`
	CountryName   string   `json:"countryName,omitempty"`
	ShortName     string   `json:"shortName,omitempty"`
	ISOA2         string   `json:"isoa2,omitempty"`
	Record        string   `json:"record,omitempty"`
	CropLand      *float64 `json:"cropLand,omitempty"`
	GrazingLand   *float64 `json:"grazingLand,omitempty"`
	ForestLand    *float64 `json:"forestLand,omitempty"`
	FishingGround *float64 `json:"fishingGround,omitempty"`
	BuiltupLand   *float64 `json:"builtupLand,omitempty"`
	Carbon        *float64 `json:"carbon"`
	Value         *float64 `json:"value,omitempty"`
	Score         string   `json:"score,omitempty"`
}

// Float returns a pointer to v, for building records in code.
func Float(v float64) *float64 {
	return &v
}

// Series is one country's records in arrival order. It is not sorted by
// year and is empty when the fetch for the country failed.
type Series []YearRecord

// Find returns the first record for year.
func (s Series) Find(year int) (YearRecord, bool) {
	for _, r := range s {
		if r.Year == year {
			return r, true
		}
	}
	return YearRecord{}, false
}

// VisibleEntry is one bar of a snapshot.
type VisibleEntry struct {
	Country string  `json:"country"`
	Carbon  float64 `json:"carbon"`
}

// StoreEntry is a (displayName, series) pair. It serializes as a two
// element JSON array so the cached payload reads [["US", [...]], ...].
type StoreEntry struct {
	Name   string
	Series Series
}

// MarshalJSON implements json.Marshaler.
func (e StoreEntry) MarshalJSON() ([]byte, error) {
	series := e.Series
	if series == nil {
		series = Series{}
	}
	return json.Marshal([2]interface{}{e.Name, series})
}

// UnmarshalJSON implements json.Unmarshaler.
func (e *StoreEntry) UnmarshalJSON(data []byte) error {
	var pair []json.RawMessage
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("store entry: expected [name, series], got %d elements", len(pair))
	}
	if err := json.Unmarshal(pair[0], &e.Name); err != nil {
		return fmt.Errorf("store entry name: %w", err)
	}
	var series Series
	if err := json.Unmarshal(pair[1], &series); err != nil {
		return fmt.Errorf("store entry %q series: %w", e.Name, err)
	}
	if series == nil {
		series = Series{}
	}
	e.Series = series
	return nil
}

// CachedStore is the payload persisted inside the cache envelope. Year
// bounds are optional; readers fall back to configured defaults.
type CachedStore struct {
	Data    []StoreEntry `json:"data"`
	MinYear *int         `json:"minYear,omitempty"`
	MaxYear *int         `json:"maxYear,omitempty"`
}
