package domain

import "context"

// Source identifies which tier of the resolution chain produced a coordinate.
type Source string

const (
	SourceCache     Source = "cache"
	SourceNominatim Source = "nominatim"
	SourceOpenCage  Source = "opencage"
	SourceFallback  Source = "fallback"
)

// Point is a WGS-84 latitude/longitude pair.
type Point struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// ResolvedLocation is the outcome of resolving free-text input to a
// coordinate. Approximate is true exactly when Source is SourceFallback,
// and MatchedKey is set only in that case.
type ResolvedLocation struct {
	Point
	Name        string `json:"name"` // normalized query text
	Source      Source `json:"source"`
	Approximate bool   `json:"approximate"`
	MatchedKey  string `json:"matched_key,omitempty"`
}

// Geocoder is a single remote geocoding provider. The boolean reports
// whether the provider produced a match; a returned error covers transport
// and decoding failures, which callers treat as a miss for that tier.
type Geocoder interface {
	Geocode(ctx context.Context, query string) (Point, bool, error)
}
