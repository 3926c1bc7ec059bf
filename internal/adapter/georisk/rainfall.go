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

// pixelValueField is the raster attribute carrying forecast rainfall in mm.
const pixelValueField = "Classify.Pixel Value"

// RainfallClient queries the PAGASA Rainfall_Forecast raster layer via the
// ArcGIS Identify operation.
type RainfallClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewRainfallClient creates a client for the GeoRisk portal rainfall layer.
func NewRainfallClient(timeout time.Duration, logger *slog.Logger) *RainfallClient {
	return &RainfallClient{
		baseURL: "https://portal.georisk.gov.ph/arcgis/rest/services/PAGASA/Rainfall_Forecast/MapServer/identify",
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

type identifyResponse struct {
	Results []identifyResult `json:"results"`
}

type identifyResult struct {
	Attributes map[string]any `json:"attributes"`
}

// FetchRainfall returns the official rainfall forecast at (lat, lon). It
// never fails: any transport or decoding problem is logged and converted to
// an unavailable forecast.
func (c *RainfallClient) FetchRainfall(ctx context.Context, lat, lon float64) domain.RainfallForecast {
	forecast, err := c.fetch(ctx, lat, lon)
	if err != nil {
		c.logger.Warn("pagasa rainfall query failed", "lat", lat, "lon", lon, "error", err)
		return domain.RainfallForecast{ClassLabel: "Unavailable"}
	}
	return forecast
}

func (c *RainfallClient) fetch(ctx context.Context, lat, lon float64) (domain.RainfallForecast, error) {
	// Identify requires a small mapExtent around the point.
	const delta = 0.01
	extent := fmt.Sprintf("%v,%v,%v,%v", lon-delta, lat-delta, lon+delta, lat+delta)

	params := url.Values{
		"geometry":       {pointGeometry(lat, lon)},
		"geometryType":   {"esriGeometryPoint"},
		"sr":             {"4326"},
		"layers":         {"all"},
		"tolerance":      {"5"},
		"mapExtent":      {extent},
		"imageDisplay":   {"800,600,96"},
		"returnGeometry": {"false"},
		"f":              {"json"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return domain.RainfallForecast{}, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.RainfallForecast{}, fmt.Errorf("identify request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.RainfallForecast{}, fmt.Errorf("georisk API error: status %d", resp.StatusCode)
	}

	var decoded identifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return domain.RainfallForecast{}, fmt.Errorf("decode response: %w", err)
	}

	if len(decoded.Results) == 0 {
		c.logger.Info("pagasa rainfall: no data at point", "lat", lat, "lon", lon)
		return domain.RainfallForecast{ClassLabel: "No data"}, nil
	}

	pixel, ok := coerceFloat(decoded.Results[0].Attributes[pixelValueField])
	if !ok {
		return domain.RainfallForecast{}, fmt.Errorf("missing %q attribute", pixelValueField)
	}

	// Classify from the pixel value with the legend thresholds; the "Class
	// value" field in the response is unreliable.
	class, label := domain.ClassifyPagasaClass(pixel)

	return domain.RainfallForecast{
		RainfallMM: pixel,
		Class:      class,
		ClassLabel: label,
		Available:  true,
	}, nil
}
