package geocode

import (
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/flood-risk-service/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func tempStore(t *testing.T) *Store {
	t.Helper()
	return OpenStore(filepath.Join(t.TempDir(), "cache.json"), discardLogger())
}

func TestStore_PutGet(t *testing.T) {
	s := tempStore(t)

	s.Put("marikina", domain.Point{Lat: 14.6507, Lon: 121.1029})

	p, ok := s.Get("marikina")
	require.True(t, ok)
	assert.Equal(t, 14.6507, p.Lat)
	assert.Equal(t, 121.1029, p.Lon)
}

func TestStore_NormalizesKeys(t *testing.T) {
	s := tempStore(t)

	s.Put("  Barangay Lahug  ", domain.Point{Lat: 10.33, Lon: 123.9})

	p, ok := s.Get("brgy lahug")
	require.True(t, ok)
	assert.Equal(t, 10.33, p.Lat)

	_, ok = s.Get("somewhere else")
	assert.False(t, ok)
}

func TestStore_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")

	s1 := OpenStore(path, discardLogger())
	s1.Put("manila", domain.Point{Lat: 14.5995, Lon: 120.9842})

	s2 := OpenStore(path, discardLogger())
	p, ok := s2.Get("manila")
	require.True(t, ok)
	assert.Equal(t, 14.5995, p.Lat)
	assert.Equal(t, 1, s2.Len())
}

func TestStore_FileIsHumanInspectable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	s := OpenStore(path, discardLogger())
	s.Put("cebu city", domain.Point{Lat: 10.3157, Lon: 123.8854})

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded map[string]domain.Point
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Contains(t, decoded, "cebu city")
}

func TestStore_MissingFileStartsEmpty(t *testing.T) {
	s := OpenStore(filepath.Join(t.TempDir(), "nope", "cache.json"), discardLogger())
	assert.Equal(t, 0, s.Len())
	_, ok := s.Get("anything")
	assert.False(t, ok)
}

func TestStore_CorruptFileStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	require.NoError(t, os.WriteFile(path, []byte("not-json{{{"), 0o644))

	s := OpenStore(path, discardLogger())
	assert.Equal(t, 0, s.Len())
}

func TestStore_WriteFailureIsSwallowed(t *testing.T) {
	// Directory path makes the write fail; Put must not panic and the
	// in-memory entry must still be readable.
	dir := t.TempDir()
	s := OpenStore(dir, discardLogger())

	s.Put("davao", domain.Point{Lat: 7.19, Lon: 125.46})

	p, ok := s.Get("davao")
	require.True(t, ok)
	assert.Equal(t, 7.19, p.Lat)
}

func TestStore_ConcurrentPuts(t *testing.T) {
	s := tempStore(t)

	var wg sync.WaitGroup
	keys := []string{"a", "b", "c", "d", "e", "f", "g", "h"}
	for i, key := range keys {
		wg.Add(1)
		go func(key string, i int) {
			defer wg.Done()
			s.Put(key, domain.Point{Lat: float64(i), Lon: float64(i)})
		}(key, i)
	}
	wg.Wait()

	assert.Equal(t, len(keys), s.Len())
	for i, key := range keys {
		p, ok := s.Get(key)
		require.True(t, ok, "key %q", key)
		assert.Equal(t, float64(i), p.Lat)
	}
}

func TestStore_Snapshot(t *testing.T) {
	s := tempStore(t)
	s.Put("manila", domain.Point{Lat: 14.5995, Lon: 120.9842})

	snap := s.Snapshot()
	snap["mutation"] = domain.Point{}

	assert.Equal(t, 1, s.Len(), "snapshot must be a copy")
}
