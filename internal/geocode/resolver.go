package geocode

import (
	"context"
	"log/slog"
	"time"

	"github.com/couchcryptid/flood-risk-service/internal/domain"
	"github.com/couchcryptid/flood-risk-service/internal/observability"
)

// Resolver turns free-text location input into coordinates through an
// ordered chain of tiers: cache, Nominatim, OpenCage, fuzzy fallback. The
// first tier to answer wins, provider hits are persisted back to the cache,
// and the fallback guarantees Resolve always returns a value.
type Resolver struct {
	store     *Store
	matcher   *Matcher
	primary   domain.Geocoder
	secondary domain.Geocoder // nil when no OpenCage credential is configured
	delay     time.Duration   // politeness delay toward the primary provider
	logger    *slog.Logger
	metrics   *observability.Metrics
}

// NewResolver wires the resolution chain. Pass a nil secondary geocoder to
// skip the OpenCage tier entirely.
func NewResolver(store *Store, matcher *Matcher, primary, secondary domain.Geocoder, delay time.Duration, logger *slog.Logger, metrics *observability.Metrics) *Resolver {
	return &Resolver{
		store:     store,
		matcher:   matcher,
		primary:   primary,
		secondary: secondary,
		delay:     delay,
		logger:    logger,
		metrics:   metrics,
	}
}

// tier is one step of the resolution chain. Keeping the chain as an
// explicit ordered slice makes the precedence testable per tier.
type tier struct {
	source domain.Source
	lookup func(ctx context.Context, key string) (domain.Point, bool)
}

func (r *Resolver) tiers() []tier {
	tiers := []tier{
		{domain.SourceCache, r.fromCache},
		{domain.SourceNominatim, r.fromPrimary},
	}
	if r.secondary != nil {
		tiers = append(tiers, tier{domain.SourceOpenCage, r.fromSecondary})
	}
	return tiers
}

// Resolve maps raw input to a coordinate. It has no failure mode: any
// transport error, timeout, or malformed response is treated as a miss for
// that tier, and the fuzzy fallback answers when everything else misses.
func (r *Resolver) Resolve(ctx context.Context, raw string) domain.ResolvedLocation {
	key := NormalizeKey(raw)
	start := time.Now()

	for _, t := range r.tiers() {
		pt, ok := t.lookup(ctx, key)
		if !ok {
			continue
		}
		if t.source != domain.SourceCache {
			r.store.Put(key, pt)
			r.metrics.CacheEntries.Set(float64(r.store.Len()))
		}
		r.observe(key, t.source, start)
		return domain.ResolvedLocation{Point: pt, Name: key, Source: t.source}
	}

	pt, matched := r.matcher.Closest(key)
	r.observe(key, domain.SourceFallback, start)
	return domain.ResolvedLocation{
		Point:       pt,
		Name:        key,
		Source:      domain.SourceFallback,
		Approximate: true,
		MatchedKey:  matched,
	}
}

func (r *Resolver) observe(key string, source domain.Source, start time.Time) {
	r.metrics.Resolutions.WithLabelValues(string(source)).Inc()
	r.metrics.ResolveDuration.Observe(time.Since(start).Seconds())
	r.logger.Info("location resolved", "key", key, "source", source)
}

func (r *Resolver) fromCache(_ context.Context, key string) (domain.Point, bool) {
	return r.store.Get(key)
}

func (r *Resolver) fromPrimary(ctx context.Context, key string) (domain.Point, bool) {
	return r.query(ctx, r.primary, domain.SourceNominatim, key)
}

// fromSecondary sleeps the politeness delay before the call so the free
// primary provider is never hammered back to back.
func (r *Resolver) fromSecondary(ctx context.Context, key string) (domain.Point, bool) {
	clock.Sleep(r.delay)
	return r.query(ctx, r.secondary, domain.SourceOpenCage, key)
}

func (r *Resolver) query(ctx context.Context, g domain.Geocoder, source domain.Source, key string) (domain.Point, bool) {
	pt, ok, err := g.Geocode(ctx, key)
	if err != nil {
		r.metrics.GeocodeErrors.WithLabelValues(string(source)).Inc()
		r.logger.Warn("geocode provider failed", "provider", source, "key", key, "error", err)
		return domain.Point{}, false
	}
	return pt, ok
}
