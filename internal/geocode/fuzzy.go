package geocode

import (
	"github.com/agnivade/levenshtein"

	"github.com/couchcryptid/flood-risk-service/internal/domain"
)

// Manila, the hard-coded last-resort coordinate.
var defaultFallback = domain.Point{Lat: 14.5995, Lon: 120.9842}

// DefaultFallbackKey is the sentinel matched key reported when no cache
// entry clears the similarity threshold.
const DefaultFallbackKey = "manila"

// Matcher performs fuzzy closest-key lookup over the cache. It is the
// resolver's last line of defense and never fails: when the cache is empty
// or nothing clears the threshold it returns the default point.
type Matcher struct {
	store     *Store
	threshold float64 // minimum 0-1 similarity to accept a match
}

// NewMatcher creates a Matcher over store accepting matches with similarity
// of at least threshold.
func NewMatcher(store *Store, threshold float64) *Matcher {
	return &Matcher{store: store, threshold: threshold}
}

// Closest returns the coordinates of the cache key most similar to the
// normalized input, or the default point with DefaultFallbackKey when
// nothing qualifies.
func (m *Matcher) Closest(key string) (domain.Point, string) {
	key = NormalizeKey(key)

	var (
		best      string
		bestScore float64
		found     bool
	)
	for candidate := range m.store.Snapshot() {
		score := similarity(key, candidate)
		if score >= m.threshold && (!found || score > bestScore) {
			best = candidate
			bestScore = score
			found = true
		}
	}

	if !found {
		return defaultFallback, DefaultFallbackKey
	}
	p, _ := m.store.Get(best)
	return p, best
}

// similarity derives a 0-1 ratio from edit distance: identical strings
// score 1, fully dissimilar strings score 0.
func similarity(a, b string) float64 {
	if a == b {
		return 1
	}
	longest := max(len([]rune(a)), len([]rune(b)))
	if longest == 0 {
		return 1
	}
	dist := levenshtein.ComputeDistance(a, b)
	return 1 - float64(dist)/float64(longest)
}
