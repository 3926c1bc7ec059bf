package georisk

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

// floodSuscLevels maps MGB zone codes to the 1-4 scale.
var floodSuscLevels = map[string]int{
	"VHF": 4,
	"HF":  3,
	"MF":  2,
	"LF":  1,
}

// SusceptibilityClient queries the MGB Detailed Flood Susceptibility
// FeatureServer with a point-in-polygon lookup.
type SusceptibilityClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewSusceptibilityClient creates a client for the MGB flood susceptibility layer.
func NewSusceptibilityClient(timeout time.Duration, logger *slog.Logger) *SusceptibilityClient {
	return &SusceptibilityClient{
		baseURL: "https://controlmap.mgb.gov.ph/arcgis/rest/services/GeospatialDataInventory/GDI_Detailed_Flood_Susceptibility/FeatureServer/0/query",
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

type queryResponse struct {
	Features []feature `json:"features"`
}

type feature struct {
	Attributes attributes `json:"attributes"`
}

type attributes struct {
	FloodSusc string `json:"FloodSusc"`
}

// FetchSusceptibility returns the flood susceptibility zone at (lat, lon).
// It never fails: no polygon match, an unknown code, or any query failure
// yields the conservative default of level 2.
func (c *SusceptibilityClient) FetchSusceptibility(ctx context.Context, lat, lon float64) domain.Susceptibility {
	code, err := c.fetch(ctx, lat, lon)
	if err != nil {
		c.logger.Warn("mgb susceptibility query failed, using default", "lat", lat, "lon", lon, "error", err)
		return domain.DefaultSusceptibility()
	}
	if code == "" {
		c.logger.Info("mgb susceptibility: no polygon at point, using default", "lat", lat, "lon", lon)
		return domain.DefaultSusceptibility()
	}

	level, ok := floodSuscLevels[code]
	if !ok {
		c.logger.Warn("mgb susceptibility: unknown zone code, using default level", "code", code)
		return domain.Susceptibility{
			Level:  domain.DefaultSusceptibilityLevel,
			Label:  "Unknown",
			Source: domain.SusceptibilitySourceMGB,
		}
	}

	return domain.Susceptibility{
		Level:  level,
		Label:  domain.SusceptibilityLabels[level],
		Source: domain.SusceptibilitySourceMGB,
	}
}

func (c *SusceptibilityClient) fetch(ctx context.Context, lat, lon float64) (string, error) {
	params := url.Values{
		"geometry":       {pointGeometry(lat, lon)},
		"geometryType":   {"esriGeometryPoint"},
		"inSR":           {"4326"},
		"spatialRel":     {"esriSpatialRelIntersects"},
		"outFields":      {"FloodSusc"},
		"returnGeometry": {"false"},
		"f":              {"json"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("query request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("mgb API error: status %d", resp.StatusCode)
	}

	var decoded queryResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(decoded.Features) == 0 {
		return "", nil
	}

	return decoded.Features[0].Attributes.FloodSusc, nil
}
