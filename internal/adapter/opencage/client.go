// Package opencage implements the secondary geocoding tier against the
// OpenCage geocoding API. A credential is required; the resolver skips this
// tier entirely when none is configured.
package opencage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/couchcryptid/flood-risk-service/internal/domain"
)

// Client implements domain.Geocoder using OpenCage, scoped to the Philippines.
type Client struct {
	apiKey      string
	baseURL     string
	countryCode string
	httpClient  *http.Client
	logger      *slog.Logger
}

// NewClient creates an OpenCage client with the given credential.
func NewClient(apiKey string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		apiKey:      apiKey,
		baseURL:     "https://api.opencagedata.com/geocode/v1/json",
		countryCode: "ph",
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// OpenCage API response types.

type response struct {
	Results []result `json:"results"`
}

type result struct {
	Geometry geometry `json:"geometry"`
}

type geometry struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Geocode looks up query scoped to the Philippines. An empty result set is
// a miss, not an error.
func (c *Client) Geocode(ctx context.Context, query string) (domain.Point, bool, error) {
	params := url.Values{
		"q":              {query + ", Philippines"},
		"key":            {c.apiKey},
		"limit":          {"1"},
		"countrycode":    {c.countryCode},
		"no_annotations": {"1"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return domain.Point{}, false, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.Point{}, false, fmt.Errorf("opencage request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.Point{}, false, fmt.Errorf("opencage API error: status %d", resp.StatusCode)
	}

	var decoded response
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return domain.Point{}, false, fmt.Errorf("decode response: %w", err)
	}
	if len(decoded.Results) == 0 {
		return domain.Point{}, false, nil
	}

	geo := decoded.Results[0].Geometry
	return domain.Point{Lat: geo.Lat, Lon: geo.Lng}, true, nil
}
