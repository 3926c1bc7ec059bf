package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// resolution and assessment pipeline.
type Metrics struct {
	// Location resolution metrics.
	Resolutions     *prometheus.CounterVec // label: source={cache,nominatim,opencage,fallback}
	ResolveDuration prometheus.Histogram
	GeocodeErrors   *prometheus.CounterVec // label: provider
	CacheEntries    prometheus.Gauge

	// Signal and assessment metrics.
	SignalFetches *prometheus.CounterVec // labels: signal={pagasa,open-meteo,mgb}, outcome={ok,unavailable}
	Assessments   *prometheus.CounterVec // label: tier

	// Conversation and alert metrics.
	MessagesHandled    *prometheus.CounterVec // label: kind={location,command,empty}
	AlertsPublished    prometheus.Counter
	AlertPublishErrors prometheus.Counter
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.Resolutions,
		m.ResolveDuration,
		m.GeocodeErrors,
		m.CacheEntries,
		m.SignalFetches,
		m.Assessments,
		m.MessagesHandled,
		m.AlertsPublished,
		m.AlertPublishErrors,
	)
	return m
}

// NewMetricsForTesting creates Metrics with an unregistered set to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		Resolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "flood_risk",
			Name:      "resolutions_total",
			Help:      "Location resolutions by resolution tier.",
		}, []string{"source"}),
		ResolveDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "flood_risk",
			Name:      "resolve_duration_seconds",
			Help:      "Duration of a full location resolution.",
			Buckets:   []float64{0.001, 0.01, 0.1, 0.5, 1, 2.5, 5, 10, 15},
		}),
		GeocodeErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "flood_risk",
			Name:      "geocode_errors_total",
			Help:      "Geocode provider failures treated as misses.",
		}, []string{"provider"}),
		CacheEntries: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "flood_risk",
			Name:      "cache_entries",
			Help:      "Locations currently in the coordinate cache.",
		}),
		SignalFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "flood_risk",
			Name:      "signal_fetches_total",
			Help:      "Forecast and susceptibility fetches by signal and outcome.",
		}, []string{"signal", "outcome"}),
		Assessments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "flood_risk",
			Name:      "assessments_total",
			Help:      "Completed risk assessments by tier.",
		}, []string{"tier"}),
		MessagesHandled: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "flood_risk",
			Name:      "messages_handled_total",
			Help:      "Inbound messages by kind.",
		}, []string{"kind"}),
		AlertsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "flood_risk",
			Name:      "alerts_published_total",
			Help:      "Assessments published to the alerts topic.",
		}),
		AlertPublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "flood_risk",
			Name:      "alert_publish_errors_total",
			Help:      "Failed alert publishes.",
		}),
	}
}
