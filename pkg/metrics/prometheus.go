// Package metrics provides Prometheus metrics for the rankdesk console.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the console.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Import flow metrics
	importRuns       *prometheus.CounterVec
	recordsWritten   *prometheus.CounterVec
	recordsSkipped   *prometheus.CounterVec
	itemFailures     prometheus.Counter
	resolverMisses   prometheus.Counter
	upsetsDetected   prometheus.Counter
	rosterRefreshes  prometheus.Counter
	statsRecomputed  prometheus.Counter

	// External request metrics
	backendRequestDuration *prometheus.HistogramVec
	bracketRequestDuration *prometheus.HistogramVec

	// Status server metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "rankdesk",
		subsystem:        "console",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.importRuns = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "import_runs_total",
		Help:      "Import runs by source (sheet, bracket) and outcome.",
	}, []string{"source", "status"})

	m.recordsWritten = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "ledger_records_written_total",
		Help:      "History records created, by record kind.",
	}, []string{"kind"})

	m.recordsSkipped = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "ledger_records_skipped_total",
		Help:      "Rows skipped without a write, by reason (duplicate, unresolved).",
	}, []string{"reason"})

	m.itemFailures = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "item_failures_total",
		Help:      "Per-item failures that did not abort the batch.",
	})

	m.resolverMisses = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "resolver_misses_total",
		Help:      "Raw names that matched no roster member.",
	})

	m.upsetsDetected = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "upsets_detected_total",
		Help:      "Giant-killing upsets detected in bracket imports.",
	})

	m.rosterRefreshes = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "roster_refreshes_total",
		Help:      "Full roster fetches from the backend.",
	})

	m.statsRecomputed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "member_stats_recomputed_total",
		Help:      "Member pages patched by the recompute flow.",
	})

	m.backendRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "backend_request_duration_seconds",
		Help:      "Document-store request latency by operation and status.",
		Buckets:   m.histogramBuckets,
	}, []string{"operation", "status"})

	m.bracketRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "bracket_request_duration_seconds",
		Help:      "Bracket API request latency by operation and status.",
		Buckets:   m.histogramBuckets,
	}, []string{"operation", "status"})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_requests_total",
		Help:      "Status server requests by endpoint, method and code.",
	}, []string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_request_duration_ms",
		Help:      "Status server request duration in milliseconds.",
		Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
	}, []string{"endpoint", "method", "status_code"})
}

// RecordImportRun counts one finished import run.
func RecordImportRun(source, status string) {
	globalManager.importRuns.WithLabelValues(source, status).Inc()
}

// RecordLedgerWrite counts a created history record.
func RecordLedgerWrite(kind string) {
	globalManager.recordsWritten.WithLabelValues(kind).Inc()
}

// RecordLedgerSkip counts a row skipped without a write.
func RecordLedgerSkip(reason string) {
	globalManager.recordsSkipped.WithLabelValues(reason).Inc()
}

// RecordItemFailure counts a tolerated per-item failure.
func RecordItemFailure() {
	globalManager.itemFailures.Inc()
}

// RecordResolverMiss counts a raw name with no roster match.
func RecordResolverMiss() {
	globalManager.resolverMisses.Inc()
}

// RecordUpsetDetected counts one detected giant-killing upset.
func RecordUpsetDetected() {
	globalManager.upsetsDetected.Inc()
}

// RecordRosterRefresh counts a full roster fetch.
func RecordRosterRefresh() {
	globalManager.rosterRefreshes.Inc()
}

// RecordStatsRecomputed counts a patched member page.
func RecordStatsRecomputed() {
	globalManager.statsRecomputed.Inc()
}

// ObserveBackendRequest records one document-store request latency.
func ObserveBackendRequest(operation, status string, seconds float64) {
	globalManager.backendRequestDuration.WithLabelValues(operation, status).Observe(seconds)
}

// ObserveBracketRequest records one bracket API request latency.
func ObserveBracketRequest(operation, status string, seconds float64) {
	globalManager.bracketRequestDuration.WithLabelValues(operation, status).Observe(seconds)
}

// RecordHTTPRequest records a status server request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records status server request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// GetRegistry returns the custom registry used by the global manager.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
