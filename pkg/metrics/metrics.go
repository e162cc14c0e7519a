package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	ManifestDocumentsTotal *prometheus.CounterVec
	TelemetryInitTotal     *prometheus.CounterVec
	TelemetryCommandsTotal *prometheus.CounterVec

	SiteCheckPagesTotal *prometheus.CounterVec
	SiteCheckDuration   prometheus.Histogram

	once sync.Once
)

// Init registers all collectors with the default registry. Safe to call more than once.
func Init() {
	once.Do(register)
}

func register() {
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	ManifestDocumentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "manifest_documents_total",
			Help: "Total number of generated manifest documents.",
		},
		[]string{"document"}, // sitemap, robots
	)

	TelemetryInitTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "telemetry_init_total",
			Help: "Telemetry initialization attempts by outcome.",
		},
		[]string{"outcome"},
	)

	TelemetryCommandsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "telemetry_commands_total",
			Help: "Tagging commands by kind and delivery status.",
		},
		[]string{"kind", "status"}, // status: sent, failed, dropped
	)

	SiteCheckPagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sitecheck_pages_total",
			Help: "Pages checked by the site checker.",
		},
		[]string{"status"}, // ok, issues, failed
	)

	SiteCheckDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "sitecheck_duration_seconds",
			Help:    "Duration of a single page render and check.",
			Buckets: []float64{0.5, 1, 2, 5, 10, 30, 60},
		},
	)
}
