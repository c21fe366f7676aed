package worldbank

// Observation is one opaque record of a series response. Fields are never
// interpreted, only carried through to persistence.
type Observation map[string]any

// SeriesKey identifies one (country, indicator) time series.
type SeriesKey struct {
	Country   string
	Indicator string
}

// ResultSet is the in-memory aggregate of all fetched series. A key is
// present only if its series is non-empty.
type ResultSet map[SeriesKey][]Observation
