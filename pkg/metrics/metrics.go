// Package metrics exposes Prometheus metrics for the catalog service.
//
// Example:
//
//	import "github.com/yeisme/mediavault/pkg/metrics"
//
//	err := metrics.InitMetrics(config.Metrics)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	metrics.RequestCounter.WithLabelValues("GET", "/api/v1/search").Inc()
//	metrics.IngestOutcomes.WithLabelValues("primary", "inserted").Inc()
package metrics

import (
	"net/http"
	_ "net/http/pprof" // registers pprof endpoints on the default mux

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/yeisme/mediavault/pkg/configs"
)

var (
	// RequestCounter counts HTTP requests.
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint"},
	)

	// RequestDuration observes HTTP request latency.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	// ActiveConnections tracks in-flight requests.
	ActiveConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "active_connections",
			Help: "Number of active connections",
		},
	)

	// IngestOutcomes counts catalog insert results per partition and outcome
	// (inserted, duplicate, store_full, failed).
	IngestOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_ingest_outcomes_total",
			Help: "Catalog ingest results by partition and outcome",
		},
		[]string{"partition", "outcome"},
	)

	// SearchResults observes how many records a search matched before
	// pagination.
	SearchResults = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "catalog_search_results",
			Help:    "Matched records per search before pagination",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250, 500},
		},
		[]string{"partition"},
	)

	// ReorganizeOps counts move/copy/bulk operations by kind and result.
	ReorganizeOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_reorganize_operations_total",
			Help: "Catalog reorganize operations by kind and result",
		},
		[]string{"kind", "result"},
	)

	// OverflowActive reports whether ingest is currently writing to the
	// overflow store (0 or 1).
	OverflowActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "catalog_overflow_active",
			Help: "Whether ingest currently targets the overflow store",
		},
	)

	registry = prometheus.NewRegistry()
)

// InitMetrics registers collectors according to configuration.
func InitMetrics(config configs.MetricsConfig) error {
	if !config.Enabled {
		return nil
	}

	if config.RuntimeMetrics {
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	registry.MustRegister(
		RequestCounter, RequestDuration, ActiveConnections,
		IngestOutcomes, SearchResults, ReorganizeOps, OverflowActive,
	)

	return nil
}

// StartMetricsServer mounts the metrics (and optionally pprof) endpoints on
// the debug engine.
func StartMetricsServer(config configs.MetricsConfig, debugEngine *gin.Engine) error {
	if !config.Enabled {
		return nil
	}

	debugEngine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	if config.Pprof {
		debugEngine.GET("/debug/pprof/*any", gin.WrapH(http.DefaultServeMux))
	}

	return nil
}

// GetRegistry returns the Prometheus registry.
func GetRegistry() *prometheus.Registry {
	return registry
}

// NewCounter creates and registers a counter vector.
func NewCounter(name, help string, labels []string) *prometheus.CounterVec {
	counter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: name,
			Help: help,
		},
		labels,
	)
	registry.MustRegister(counter)

	return counter
}

// NewGauge creates and registers a gauge vector.
func NewGauge(name, help string, labels []string) *prometheus.GaugeVec {
	gauge := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: name,
			Help: help,
		},
		labels,
	)
	registry.MustRegister(gauge)

	return gauge
}

// NewHistogram creates and registers a histogram vector.
func NewHistogram(name, help string, labels []string) *prometheus.HistogramVec {
	histogram := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    name,
			Help:    help,
			Buckets: prometheus.DefBuckets,
		},
		labels,
	)
	registry.MustRegister(histogram)

	return histogram
}
