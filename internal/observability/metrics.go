package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors for the dashboard service.
type Metrics struct {
	// Upstream advisory backend.
	UpstreamRequests *prometheus.CounterVec   // labels: endpoint={summary,latest}, outcome={success,error,circuit_open}
	UpstreamDuration *prometheus.HistogramVec // labels: endpoint
	CacheLookups     *prometheus.CounterVec   // labels: result={hit,miss,stale}

	// Rendering.
	DashboardsRendered prometheus.Counter
	InsightsExtracted  prometheus.Histogram
	RefreshRuns        *prometheus.CounterVec // labels: outcome={success,error}
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.UpstreamRequests,
		m.UpstreamDuration,
		m.CacheLookups,
		m.DashboardsRendered,
		m.InsightsExtracted,
		m.RefreshRuns,
	)
	return m
}

// NewMetricsForTesting creates unregistered Metrics so tests can build many instances.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		UpstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "agriweather",
			Name:      "upstream_requests_total",
			Help:      "Advisory backend requests by endpoint and outcome.",
		}, []string{"endpoint", "outcome"}),
		UpstreamDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "agriweather",
			Name:      "upstream_request_duration_seconds",
			Help:      "Advisory backend request duration including retries.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"endpoint"}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "agriweather",
			Name:      "payload_cache_lookups_total",
			Help:      "Payload cache lookups by result.",
		}, []string{"result"}),
		DashboardsRendered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "agriweather",
			Name:      "dashboards_rendered_total",
			Help:      "Dashboards built from advisory payloads.",
		}),
		InsightsExtracted: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "agriweather",
			Name:      "insights_per_dashboard",
			Help:      "Number of insight lines extracted per rendered dashboard.",
			Buckets:   []float64{0, 1, 2, 3, 5, 8, 13},
		}),
		RefreshRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "agriweather",
			Name:      "latest_refresh_runs_total",
			Help:      "Scheduled refreshes of the default-location advisory by outcome.",
		}, []string{"outcome"}),
	}
}
