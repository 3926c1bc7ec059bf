package geocode

import (
	"encoding/json"
	"log/slog"
	"os"
	"sync"

	"github.com/couchcryptid/flood-risk-service/internal/domain"
)

// Store is a JSON-file-backed location cache keyed by normalized location
// strings. The file is human-inspectable and written through on every Put.
//
// I/O failures never propagate: a failed read behaves like an empty cache
// and a failed write is logged and dropped, because by the time a write
// happens resolution has already succeeded upstream. A mutex serializes all
// access so concurrent resolutions cannot corrupt the backing file.
type Store struct {
	path   string
	logger *slog.Logger

	mu      sync.Mutex
	entries map[string]domain.Point
}

// OpenStore loads the cache file at path, starting empty when the file is
// missing or unreadable.
func OpenStore(path string, logger *slog.Logger) *Store {
	s := &Store{
		path:    path,
		logger:  logger,
		entries: make(map[string]domain.Point),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn("cache file unreadable, starting empty", "path", path, "error", err)
		}
		return s
	}
	if err := json.Unmarshal(data, &s.entries); err != nil {
		logger.Warn("cache file corrupt, starting empty", "path", path, "error", err)
		s.entries = make(map[string]domain.Point)
	}
	return s
}

// Get returns the cached coordinate for key, normalizing first.
func (s *Store) Get(key string) (domain.Point, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.entries[NormalizeKey(key)]
	return p, ok
}

// Put upserts a coordinate under the normalized key and persists the whole
// cache. Write failures are logged and otherwise ignored.
func (s *Store) Put(key string, p domain.Point) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[NormalizeKey(key)] = p
	s.persistLocked()
}

// Snapshot returns a copy of all entries, for the fuzzy matcher.
func (s *Store) Snapshot() map[string]domain.Point {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]domain.Point, len(s.entries))
	for k, v := range s.entries {
		out[k] = v
	}
	return out
}

// Len reports the number of cached locations.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *Store) persistLocked() {
	data, err := json.MarshalIndent(s.entries, "", "    ")
	if err != nil {
		s.logger.Warn("cache marshal failed", "error", err)
		return
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		s.logger.Warn("cache write failed", "path", s.path, "error", err)
	}
}
