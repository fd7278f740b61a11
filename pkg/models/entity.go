package models

// Entity is a tracked country as returned by the roster endpoint.
type Entity struct {
	CountryCode string  `json:"countryCode"`
	CountryName string  `json:"countryName"`
	ISOA2       string  `json:"isoa2,omitempty"`
	Score       string  `json:"score,omitempty"`
	ShortName   string  `json:"shortName"`
	Version     *string `json:"version,omitempty"`
}

// Identifier is the key the per-country series endpoint is addressed by.
func (e Entity) Identifier() string {
	return e.CountryCode
}

// DisplayName is the key the emissions store is indexed by. Falls back to
// the long name when the roster omits a short one.
func (e Entity) DisplayName() string {
	if e.ShortName != "" {
		return e.ShortName
	}
	return e.CountryName
}
