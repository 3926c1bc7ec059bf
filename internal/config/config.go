package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Location resolution.
	CachePath          string
	GeocodeTimeout     time.Duration
	GeocodeDelay       time.Duration // politeness delay between geocode tiers
	FuzzyThreshold     float64       // 0-1 similarity cutoff for the fallback matcher
	NominatimUserAgent string
	OpenCageAPIKey     string // secondary geocoding is skipped when empty

	// Forecast and susceptibility fetches.
	ForecastTimeout time.Duration

	// Kafka alert publishing (feature-flagged via ALERTS_ENABLED / KAFKA_BROKERS).
	AlertsEnabled    bool
	KafkaBrokers     []string
	KafkaAlertsTopic string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	geocodeTimeout, err := parseDuration("GEOCODE_TIMEOUT", "5s")
	if err != nil {
		return nil, err
	}
	geocodeDelay, err := parseDelay()
	if err != nil {
		return nil, err
	}
	forecastTimeout, err := parseDuration("FORECAST_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	fuzzyThreshold, err := parseFuzzyThreshold()
	if err != nil {
		return nil, err
	}

	brokers := parseBrokers(os.Getenv("KAFKA_BROKERS"))
	alertsEnabled := len(brokers) > 0
	if v := os.Getenv("ALERTS_ENABLED"); v != "" {
		alertsEnabled = v == "true"
	}

	cfg := &Config{
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		CachePath:          envOrDefault("CACHE_PATH", "locations_cache.json"),
		GeocodeTimeout:     geocodeTimeout,
		GeocodeDelay:       geocodeDelay,
		FuzzyThreshold:     fuzzyThreshold,
		NominatimUserAgent: envOrDefault("NOMINATIM_USER_AGENT", "flood-risk-service/1.0"),
		OpenCageAPIKey:     os.Getenv("OPENCAGE_API_KEY"),

		ForecastTimeout: forecastTimeout,

		AlertsEnabled:    alertsEnabled,
		KafkaBrokers:     brokers,
		KafkaAlertsTopic: envOrDefault("KAFKA_ALERTS_TOPIC", "flood-risk-alerts"),
	}

	if cfg.CachePath == "" {
		return nil, errors.New("CACHE_PATH is required")
	}
	if cfg.AlertsEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("ALERTS_ENABLED is true but KAFKA_BROKERS is not set")
	}
	if cfg.AlertsEnabled && cfg.KafkaAlertsTopic == "" {
		return nil, errors.New("ALERTS_ENABLED is true but KAFKA_ALERTS_TOPIC is empty")
	}

	return cfg, nil
}

func envOrDefault(name, def string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return def
}

func parseDuration(name, def string) (time.Duration, error) {
	d, err := time.ParseDuration(envOrDefault(name, def))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", name)
	}
	return d, nil
}

// parseDelay allows zero: tests and batch tooling may disable the
// politeness delay outright.
func parseDelay() (time.Duration, error) {
	d, err := time.ParseDuration(envOrDefault("GEOCODE_DELAY", "200ms"))
	if err != nil || d < 0 {
		return 0, errors.New("invalid GEOCODE_DELAY")
	}
	return d, nil
}

func parseFuzzyThreshold() (float64, error) {
	v, err := strconv.ParseFloat(envOrDefault("FUZZY_THRESHOLD", "0.5"), 64)
	if err != nil || v <= 0 || v > 1 {
		return 0, errors.New("invalid FUZZY_THRESHOLD")
	}
	return v, nil
}

func parseBrokers(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	brokers := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			brokers = append(brokers, p)
		}
	}
	return brokers
}
