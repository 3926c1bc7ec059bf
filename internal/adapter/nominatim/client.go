// Package nominatim implements the primary geocoding tier against the
// OpenStreetMap Nominatim search API (free, unauthenticated, rate-limited
// to roughly one request per second, hence the resolver's politeness delay).
package nominatim

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/couchcryptid/flood-risk-service/internal/domain"
)

// Client implements domain.Geocoder using Nominatim, scoped to the Philippines.
type Client struct {
	baseURL     string
	userAgent   string
	countryCode string
	httpClient  *http.Client
	logger      *slog.Logger
}

// NewClient creates a Nominatim client. Nominatim requires an identifying
// User-Agent on every request.
func NewClient(timeout time.Duration, userAgent string, logger *slog.Logger) *Client {
	return &Client{
		baseURL:     "https://nominatim.openstreetmap.org/search",
		userAgent:   userAgent,
		countryCode: "ph",
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// result is a single Nominatim search hit. Coordinates arrive as strings.
type result struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// Geocode looks up query scoped to the Philippines. An empty result set is
// a miss, not an error.
func (c *Client) Geocode(ctx context.Context, query string) (domain.Point, bool, error) {
	params := url.Values{
		"q":            {query + ", Philippines"},
		"format":       {"json"},
		"limit":        {"1"},
		"countrycodes": {c.countryCode},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return domain.Point{}, false, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.Point{}, false, fmt.Errorf("nominatim request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.Point{}, false, fmt.Errorf("nominatim API error: status %d", resp.StatusCode)
	}

	var results []result
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return domain.Point{}, false, fmt.Errorf("decode response: %w", err)
	}
	if len(results) == 0 {
		return domain.Point{}, false, nil
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return domain.Point{}, false, fmt.Errorf("parse lat %q: %w", results[0].Lat, err)
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return domain.Point{}, false, fmt.Errorf("parse lon %q: %w", results[0].Lon, err)
	}

	return domain.Point{Lat: lat, Lon: lon}, true, nil
}
