package telemetry

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Set by the linker at build time
var (
	Version   = "dev"
	GitCommit = "unknown"
)

// Metrics holds the service collectors on a private registry
type Metrics struct {
	SearchesTotal      *prometheus.CounterVec
	SearchTrainsListed prometheus.Histogram
	LiveTicksTotal     prometheus.Counter
	LiveSessionsActive prometheus.Gauge
	LiveEventErrors    prometheus.Counter

	registry *prometheus.Registry
}

// NewMetrics registers the service collectors plus Go, process and build info collectors
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	metrics := &Metrics{
		SearchesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "railtracker_searches_total",
				Help: "Route searches served, by where the answer came from",
			},
			[]string{"source"},
		),
		SearchTrainsListed: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "railtracker_search_trains_listed",
				Help:    "Number of trains listed per search",
				Buckets: []float64{4, 5, 6},
			},
		),
		LiveTicksTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "railtracker_live_ticks_total",
				Help: "Ticks applied across all live sessions",
			},
		),
		LiveSessionsActive: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "railtracker_live_sessions_active",
				Help: "Live tracking sessions with a running ticker",
			},
		),
		LiveEventErrors: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "railtracker_live_event_errors_total",
				Help: "Live updates that could not be published",
			},
		),
		registry: registry,
	}

	buildInfo := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "railtracker_build_info",
			Help: "Build metadata",
		},
		[]string{"version", "git_commit"},
	)

	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		buildInfo,
		metrics.SearchesTotal,
		metrics.SearchTrainsListed,
		metrics.LiveTicksTotal,
		metrics.LiveSessionsActive,
		metrics.LiveEventErrors,
	)

	buildInfo.WithLabelValues(Version, GitCommit).Set(1)

	return metrics
}

// Handler exposes the registry in the Prometheus text format
func (metrics *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(metrics.registry, promhttp.HandlerOpts{})
}
