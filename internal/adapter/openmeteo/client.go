// Package openmeteo implements the secondary rainfall signal against the
// free Open-Meteo hourly forecast API.
package openmeteo

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

// Client fetches hourly precipitation forecasts.
type Client struct {
	baseURL       string
	timezone      string
	forecastHours int
	httpClient    *http.Client
	logger        *slog.Logger
}

// NewClient creates an Open-Meteo client requesting 12 hours of
// precipitation in Manila local time.
func NewClient(timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		baseURL:       "https://api.open-meteo.com/v1/forecast",
		timezone:      "Asia/Manila",
		forecastHours: 12,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

type response struct {
	Hourly hourly `json:"hourly"`
}

type hourly struct {
	Precipitation []float64 `json:"precipitation"`
}

// FetchHourly returns near-term rainfall aggregates at (lat, lon). It never
// fails: any transport or decoding problem is logged and converted to an
// unavailable forecast so the rest of the pipeline still works.
func (c *Client) FetchHourly(ctx context.Context, lat, lon float64) domain.HourlyForecast {
	forecast, err := c.fetch(ctx, lat, lon)
	if err != nil {
		c.logger.Warn("open-meteo query failed", "lat", lat, "lon", lon, "error", err)
		return domain.HourlyForecast{}
	}
	return forecast
}

func (c *Client) fetch(ctx context.Context, lat, lon float64) (domain.HourlyForecast, error) {
	params := url.Values{
		"latitude":       {strconv.FormatFloat(lat, 'f', -1, 64)},
		"longitude":      {strconv.FormatFloat(lon, 'f', -1, 64)},
		"hourly":         {"precipitation"},
		"forecast_hours": {strconv.Itoa(c.forecastHours)},
		"timezone":       {c.timezone},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return domain.HourlyForecast{}, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.HourlyForecast{}, fmt.Errorf("forecast request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.HourlyForecast{}, fmt.Errorf("open-meteo API error: status %d", resp.StatusCode)
	}

	var decoded response
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return domain.HourlyForecast{}, fmt.Errorf("decode response: %w", err)
	}

	values := decoded.Hourly.Precipitation
	h6 := values
	if len(h6) > 6 {
		h6 = h6[:6]
	}
	h3 := values
	if len(h3) > 3 {
		h3 = h3[:3]
	}

	return domain.HourlyForecast{
		Rain6hMM:     sum(h6),
		Rain3hMM:     sum(h3),
		PeakHourlyMM: peak(h6),
		Hourly:       values,
		Available:    true,
	}, nil
}

func sum(values []float64) float64 {
	var total float64
	for _, v := range values {
		total += v
	}
	return total
}

func peak(values []float64) float64 {
	var highest float64
	for _, v := range values {
		if v > highest {
			highest = v
		}
	}
	return highest
}
