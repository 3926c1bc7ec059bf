// Command floodrisk-cli simulates the SMS conversation loop locally:
// type a location for an assessment, then menu commands (1-5, WHY, STOP)
// just like over SMS. Type quit or exit to leave.
package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/couchcryptid/flood-risk-service/internal/adapter/georisk"
	"github.com/couchcryptid/flood-risk-service/internal/adapter/nominatim"
	"github.com/couchcryptid/flood-risk-service/internal/adapter/opencage"
	"github.com/couchcryptid/flood-risk-service/internal/adapter/openmeteo"
	"github.com/couchcryptid/flood-risk-service/internal/config"
	"github.com/couchcryptid/flood-risk-service/internal/domain"
	"github.com/couchcryptid/flood-risk-service/internal/geocode"
	"github.com/couchcryptid/flood-risk-service/internal/observability"
	"github.com/couchcryptid/flood-risk-service/internal/pipeline"
)

const cliSender = "cli"

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetricsForTesting()

	store := geocode.OpenStore(cfg.CachePath, logger)
	matcher := geocode.NewMatcher(store, cfg.FuzzyThreshold)

	primary := nominatim.NewClient(cfg.GeocodeTimeout, cfg.NominatimUserAgent, logger)
	var secondary domain.Geocoder
	if cfg.OpenCageAPIKey != "" {
		secondary = opencage.NewClient(cfg.OpenCageAPIKey, cfg.GeocodeTimeout, logger)
	}
	resolver := geocode.NewResolver(store, matcher, primary, secondary, cfg.GeocodeDelay, logger, metrics)

	rainfall := georisk.NewRainfallClient(cfg.ForecastTimeout, logger)
	susceptibility := georisk.NewSusceptibilityClient(cfg.ForecastTimeout, logger)
	hourly := openmeteo.NewClient(cfg.ForecastTimeout, logger)

	// No alert publishing from the CLI.
	p := pipeline.New(resolver, rainfall, hourly, susceptibility, nil, logger, metrics)

	fmt.Println("=== Flood Risk Assistant (CLI) ===")
	fmt.Println("Type a location to get started, or a command (1-5, WHY, STOP).")
	fmt.Println("Type 'quit' or 'exit' to leave.")
	fmt.Println()

	ctx := context.Background()
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			fmt.Println("\nBye!")
			return
		}
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			fmt.Println("Send a location (e.g. 'Marikina') to get a flood risk assessment.")
			continue
		}
		if lower := strings.ToLower(text); lower == "quit" || lower == "exit" {
			fmt.Println("Bye!")
			return
		}

		reply := p.HandleMessage(ctx, cliSender, text)
		fmt.Printf("\n%s\n\n", reply)
	}
}
