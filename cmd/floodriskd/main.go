package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/couchcryptid/flood-risk-service/internal/adapter/georisk"
	httpadapter "github.com/couchcryptid/flood-risk-service/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/flood-risk-service/internal/adapter/kafka"
	"github.com/couchcryptid/flood-risk-service/internal/adapter/nominatim"
	"github.com/couchcryptid/flood-risk-service/internal/adapter/opencage"
	"github.com/couchcryptid/flood-risk-service/internal/adapter/openmeteo"
	"github.com/couchcryptid/flood-risk-service/internal/config"
	"github.com/couchcryptid/flood-risk-service/internal/domain"
	"github.com/couchcryptid/flood-risk-service/internal/geocode"
	"github.com/couchcryptid/flood-risk-service/internal/observability"
	"github.com/couchcryptid/flood-risk-service/internal/pipeline"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	store := geocode.OpenStore(cfg.CachePath, logger)
	metrics.CacheEntries.Set(float64(store.Len()))
	matcher := geocode.NewMatcher(store, cfg.FuzzyThreshold)

	primary := nominatim.NewClient(cfg.GeocodeTimeout, cfg.NominatimUserAgent, logger)

	// Secondary geocoding is feature-flagged on the credential.
	var secondary domain.Geocoder
	if cfg.OpenCageAPIKey != "" {
		secondary = opencage.NewClient(cfg.OpenCageAPIKey, cfg.GeocodeTimeout, logger)
		logger.Info("opencage geocoding enabled")
	} else {
		logger.Info("opencage geocoding disabled, no credential")
	}

	resolver := geocode.NewResolver(store, matcher, primary, secondary, cfg.GeocodeDelay, logger, metrics)

	rainfall := georisk.NewRainfallClient(cfg.ForecastTimeout, logger)
	susceptibility := georisk.NewSusceptibilityClient(cfg.ForecastTimeout, logger)
	hourly := openmeteo.NewClient(cfg.ForecastTimeout, logger)

	var alerts pipeline.AlertPublisher
	var alertWriter *kafkaadapter.Writer
	if cfg.AlertsEnabled {
		alertWriter = kafkaadapter.NewWriter(cfg, logger)
		alerts = alertWriter
		logger.Info("alert publishing enabled", "topic", cfg.KafkaAlertsTopic)
	} else {
		logger.Info("alert publishing disabled")
	}

	p := pipeline.New(resolver, rainfall, hourly, susceptibility, alerts, logger, metrics)

	srv := httpadapter.NewServer(cfg.HTTPAddr, p, p, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if alertWriter != nil {
		if err := alertWriter.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
