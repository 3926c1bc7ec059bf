// Package pipeline orchestrates the resolve, fetch, fuse flow and routes
// the SMS-style conversation around it.
package pipeline

import (
	"context"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/couchcryptid/flood-risk-service/internal/domain"
	"github.com/couchcryptid/flood-risk-service/internal/observability"
	"github.com/couchcryptid/flood-risk-service/internal/sms"
)

// LocationResolver turns free-text input into coordinates. It always
// produces a result.
type LocationResolver interface {
	Resolve(ctx context.Context, raw string) domain.ResolvedLocation
}

// RainfallSource fetches the authoritative rainfall forecast for a point.
// Implementations fail open to an unavailable forecast.
type RainfallSource interface {
	FetchRainfall(ctx context.Context, lat, lon float64) domain.RainfallForecast
}

// HourlySource fetches the secondary hourly rainfall forecast for a point.
type HourlySource interface {
	FetchHourly(ctx context.Context, lat, lon float64) domain.HourlyForecast
}

// SusceptibilitySource fetches the flood susceptibility zone for a point.
type SusceptibilitySource interface {
	FetchSusceptibility(ctx context.Context, lat, lon float64) domain.Susceptibility
}

// AlertPublisher forwards completed assessments downstream.
type AlertPublisher interface {
	Publish(ctx context.Context, alert domain.AlertEvent) error
}

// menuCommands is the set of inputs treated as commands, not locations.
var menuCommands = map[string]struct{}{
	"1": {}, "2": {}, "3": {}, "4": {}, "5": {},
	"flood": {}, "prep": {}, "travel": {}, "farm": {},
	"why": {}, "loc": {}, "stop": {},
}

// Pipeline runs assessments and the conversation around them.
type Pipeline struct {
	resolver       LocationResolver
	rainfall       RainfallSource
	hourly         HourlySource
	susceptibility SusceptibilitySource
	alerts         AlertPublisher // nil disables publishing
	sessions       *SessionStore
	logger         *slog.Logger
	metrics        *observability.Metrics
}

// New wires the pipeline. Pass a nil alerts publisher to disable alert publishing.
func New(resolver LocationResolver, rainfall RainfallSource, hourly HourlySource, susceptibility SusceptibilitySource, alerts AlertPublisher, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		resolver:       resolver,
		rainfall:       rainfall,
		hourly:         hourly,
		susceptibility: susceptibility,
		alerts:         alerts,
		sessions:       NewSessionStore(),
		logger:         logger,
		metrics:        metrics,
	}
}

// CheckReadiness reports service readiness. Resolution is a total function
// over its inputs, so the pipeline is ready as soon as it is wired.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	return nil
}

// Assess runs the full flood-risk flow for a resolved coordinate. The three
// signal fetches are independent and run concurrently; each fails open, so
// Assess always returns a verdict.
func (p *Pipeline) Assess(ctx context.Context, loc domain.ResolvedLocation) domain.RiskAssessment {
	var (
		pagasa  domain.RainfallForecast
		hourly  domain.HourlyForecast
		suscept domain.Susceptibility
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		pagasa = p.rainfall.FetchRainfall(gctx, loc.Lat, loc.Lon)
		return nil
	})
	g.Go(func() error {
		hourly = p.hourly.FetchHourly(gctx, loc.Lat, loc.Lon)
		return nil
	})
	g.Go(func() error {
		suscept = p.susceptibility.FetchSusceptibility(gctx, loc.Lat, loc.Lon)
		return nil
	})
	g.Wait() //nolint:errcheck // fetchers fail open, never error

	p.countSignal("pagasa", pagasa.Available)
	p.countSignal("open-meteo", hourly.Available)
	p.countSignal("mgb", suscept.Source == domain.SusceptibilitySourceMGB)

	assessment := domain.AssessRisk(suscept, pagasa, hourly)

	p.metrics.Assessments.WithLabelValues(string(assessment.Tier)).Inc()
	p.logger.Info("risk assessed",
		"location", loc.Name,
		"tier", assessment.Tier,
		"score", assessment.Score,
		"susceptibility", assessment.Susceptibility.Level,
		"rain_trigger", assessment.RainTrigger,
		"rain_source", assessment.RainSource,
	)

	p.publishAlert(ctx, loc, assessment)
	return assessment
}

// HandleMessage routes one inbound message: menu commands act on the
// sender's stored session, anything else is treated as a location. The
// returned string is the full reply text.
func (p *Pipeline) HandleMessage(ctx context.Context, sender, body string) string {
	text := strings.ToLower(strings.TrimSpace(body))

	if text == "" {
		p.metrics.MessagesHandled.WithLabelValues("empty").Inc()
		return sms.FormatOnboarding()
	}

	if _, ok := menuCommands[text]; ok {
		p.metrics.MessagesHandled.WithLabelValues("command").Inc()
		return p.handleCommand(sender, text)
	}

	p.metrics.MessagesHandled.WithLabelValues("location").Inc()
	loc := p.resolver.Resolve(ctx, body)
	assessment := p.Assess(ctx, loc)
	p.sessions.Put(sender, Session{Location: loc, Assessment: assessment})
	return sms.FormatAssessment(assessment, loc)
}

func (p *Pipeline) handleCommand(sender, cmd string) string {
	// STOP works without a session.
	if cmd == "stop" {
		p.sessions.Delete(sender)
		return sms.FormatStop()
	}

	session, ok := p.sessions.Get(sender)
	if !ok {
		return sms.FormatNoSession()
	}

	switch cmd {
	case "1", "flood":
		return sms.FormatAssessment(session.Assessment, session.Location)
	case "2", "prep":
		return sms.FormatHomePrep(session.Assessment, session.Location.Name)
	case "3", "travel":
		return sms.FormatTravel(session.Assessment, session.Location.Name)
	case "4", "farm":
		return sms.FormatFarmer(session.Assessment, session.Location.Name)
	case "5", "loc":
		return sms.FormatNewLocation()
	case "why":
		return sms.FormatWhy(session.Assessment, session.Location.Name)
	default:
		return sms.FormatNoSession()
	}
}

func (p *Pipeline) countSignal(signal string, available bool) {
	outcome := "ok"
	if !available {
		outcome = "unavailable"
	}
	p.metrics.SignalFetches.WithLabelValues(signal, outcome).Inc()
}

func (p *Pipeline) publishAlert(ctx context.Context, loc domain.ResolvedLocation, assessment domain.RiskAssessment) {
	if p.alerts == nil {
		return
	}
	alert := domain.AlertEvent{Location: loc, Assessment: assessment}
	if err := p.alerts.Publish(ctx, alert); err != nil {
		p.metrics.AlertPublishErrors.Inc()
		p.logger.Warn("alert publish failed", "location", loc.Name, "error", err)
		return
	}
	p.metrics.AlertsPublished.Inc()
}
