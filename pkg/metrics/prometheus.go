// Package metrics provides Prometheus metrics for the zrinyi results merger.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// defaultLatencyBuckets covers millisecond latencies from a cache hit to a
// slow download.
var defaultLatencyBuckets = []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000, 30000} //nolint:gochecknoglobals // read-only bucket layout

// Fetch sources used as label values.
const (
	SourceCache    = "cache"
	SourceDownload = "download"
)

// Manager manages all Prometheus metrics for the merger.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	customLabels     map[string]string
	metricPrefix     string
	registry         prometheus.Registerer

	// Ingestion
	regionsFetched   *prometheus.CounterVec
	regionsMissing   prometheus.Counter
	recordsExtracted prometheus.Counter
	malformedLines   prometheus.Counter
	fetchLatency     prometheus.Histogram
	fetchErrors      *prometheus.CounterVec

	// Ranking
	pipelineDuration prometheus.Histogram
	leaderboardSize  prometheus.Gauge
	schoolCount      prometheus.Gauge
	lastRunUnix      prometheus.Gauge

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorRateByEndpoint *prometheus.CounterVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "zrinyi",
		subsystem:        "results",
		histogramBuckets: defaultLatencyBuckets,
		enabled:          true,
		customLabels:     make(map[string]string),
		metricPrefix:     "",
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) name(n string) string {
	if m.metricPrefix == "" {
		return n
	}
	return m.metricPrefix + "_" + n
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	auto := promauto.With(m.registry)
	constLabels := prometheus.Labels(m.customLabels)

	m.regionsFetched = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("regions_fetched_total"),
		Help:        "Region sheets obtained, by source (cache or download)",
		ConstLabels: constLabels,
	}, []string{"source"})

	m.regionsMissing = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("regions_missing_total"),
		Help:        "Regions that produced no data",
		ConstLabels: constLabels,
	})

	m.recordsExtracted = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("records_extracted_total"),
		Help:        "Competitor records extracted from region sheets",
		ConstLabels: constLabels,
	})

	m.malformedLines = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("malformed_lines_total"),
		Help:        "Data lines rejected by the record extractor",
		ConstLabels: constLabels,
	})

	m.fetchLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("fetch_latency_milliseconds"),
		Help:        "Latency of region sheet retrieval in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: constLabels,
	})

	m.fetchErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("fetch_errors_total"),
		Help:        "Region retrieval failures by kind",
		ConstLabels: constLabels,
	}, []string{"kind"})

	m.pipelineDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("pipeline_duration_milliseconds"),
		Help:        "Duration of a full fetch, rank and aggregate run in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: constLabels,
	})

	m.leaderboardSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("leaderboard_size"),
		Help:        "Number of competitors in the merged leaderboard",
		ConstLabels: constLabels,
	})

	m.schoolCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("schools"),
		Help:        "Number of schools in the school ranking",
		ConstLabels: constLabels,
	})

	m.lastRunUnix = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("last_run_unix"),
		Help:        "Unix time of the last completed run",
		ConstLabels: constLabels,
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("http_requests_total"),
		Help:        "Total number of HTTP requests by endpoint and method",
		ConstLabels: constLabels,
	}, []string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("http_request_duration_milliseconds"),
		Help:        "HTTP request duration in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: constLabels,
	}, []string{"endpoint", "method", "status_code"})

	m.errorRateByEndpoint = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("http_errors_total"),
		Help:        "HTTP errors by endpoint, method and error type",
		ConstLabels: constLabels,
	}, []string{"endpoint", "method", "error_type"})
}

// Ingestion Metrics Functions.

// RecordRegionFetched increments the fetched counter for the given source.
func RecordRegionFetched(source string) {
	if !globalManager.enabled {
		return
	}
	globalManager.regionsFetched.WithLabelValues(source).Inc()
}

// RecordRegionMissing increments the missing region counter.
func RecordRegionMissing() {
	if !globalManager.enabled {
		return
	}
	globalManager.regionsMissing.Inc()
}

// RecordRecordsExtracted adds n extracted records.
func RecordRecordsExtracted(n int) {
	if !globalManager.enabled || n <= 0 {
		return
	}
	globalManager.recordsExtracted.Add(float64(n))
}

// RecordMalformedLine increments the malformed line counter.
func RecordMalformedLine() {
	if !globalManager.enabled {
		return
	}
	globalManager.malformedLines.Inc()
}

// RecordFetchLatency records retrieval latency in milliseconds.
func RecordFetchLatency(latencyMs float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.fetchLatency.Observe(latencyMs)
}

// RecordFetchError increments the fetch error counter for kind.
func RecordFetchError(kind string) {
	if !globalManager.enabled {
		return
	}
	globalManager.fetchErrors.WithLabelValues(kind).Inc()
}

// Ranking Metrics Functions.

// RecordPipelineDuration records the duration of a run in milliseconds.
func RecordPipelineDuration(durationMs float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.pipelineDuration.Observe(durationMs)
	globalManager.lastRunUnix.Set(float64(time.Now().Unix()))
}

// UpdateLeaderboardSize sets the number of ranked competitors.
func UpdateLeaderboardSize(n int) {
	if !globalManager.enabled {
		return
	}
	globalManager.leaderboardSize.Set(float64(n))
}

// UpdateSchoolCount sets the number of ranked schools.
func UpdateSchoolCount(n int) {
	if !globalManager.enabled {
		return
	}
	globalManager.schoolCount.Set(float64(n))
}

// HTTP Metrics Functions.

// RecordHTTPRequest increments the HTTP request counter.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	if !globalManager.enabled {
		return
	}
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	if !globalManager.enabled {
		return
	}
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
