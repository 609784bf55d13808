// Package metrics provides Prometheus metrics for the beerboard service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Refresh outcomes used as label values.
const (
	OutcomeSuccess     = "success"
	OutcomeFetchError  = "fetch_error"
	OutcomeCancelled   = "cancelled"
	OutcomeUnavailable = "unavailable"
	OutcomeUnchanged   = "unchanged"
)

// Manager owns every Prometheus collector of the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// Refresh pipeline
	refreshes        *prometheus.CounterVec
	refreshLatency   prometheus.Histogram
	fetchLatency     prometheus.Histogram
	aggregateLatency prometheus.Histogram
	fetchErrors      *prometheus.CounterVec
	breakerState     *prometheus.GaugeVec

	// Snapshot contents
	rowsIngested     prometheus.Gauge
	entriesTotal     prometheus.Gauge
	membersTotal     prometheus.Gauge
	beersTotal       prometheus.Gauge
	snapshotLastUnix prometheus.Gauge
	snapshotAge      prometheus.Gauge
	snapshotCount    prometheus.Counter

	// Refresh queue
	queueSize          prometheus.Gauge
	queueCapacity      prometheus.Gauge
	queueEnqueued      prometheus.Counter
	queueDequeued      prometheus.Counter
	queueEnqueueErrors prometheus.Counter

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	httpErrors          *prometheus.CounterVec
	rateLimited         *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // metrics registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "beerboard",
		subsystem:        "dashboard",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels}
}

func (m *Manager) histogramOpts(name, help string, buckets []float64) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, Buckets: buckets, ConstLabels: m.constLabels}
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every collector
	auto := promauto.With(m.registry)

	m.refreshes = auto.NewCounterVec(m.counterOpts("refreshes_total", "Snapshot refresh attempts by reason and outcome"),
		[]string{"reason", "outcome"})
	m.refreshLatency = auto.NewHistogram(m.histogramOpts("refresh_latency_milliseconds",
		"End-to-end refresh latency in milliseconds (fetch plus aggregation)", m.histogramBuckets))
	m.fetchLatency = auto.NewHistogram(m.histogramOpts("fetch_latency_milliseconds",
		"Spreadsheet fetch latency in milliseconds", m.histogramBuckets))
	m.aggregateLatency = auto.NewHistogram(m.histogramOpts("aggregate_latency_milliseconds",
		"Aggregation pass latency in milliseconds", m.histogramBuckets))
	m.fetchErrors = auto.NewCounterVec(m.counterOpts("fetch_errors_total", "Spreadsheet fetch failures by source and kind"),
		[]string{"source", "kind"})
	m.breakerState = auto.NewGaugeVec(m.gaugeOpts("circuit_breaker_state",
		"Circuit breaker state (0 closed, 1 half-open, 2 open)"), []string{"name"})

	m.rowsIngested = auto.NewGauge(m.gaugeOpts("rows_ingested", "Spreadsheet rows in the current snapshot, header included"))
	m.entriesTotal = auto.NewGauge(m.gaugeOpts("entries", "Parsed entries in the current snapshot"))
	m.membersTotal = auto.NewGauge(m.gaugeOpts("members", "Distinct members in the current snapshot"))
	m.beersTotal = auto.NewGauge(m.gaugeOpts("beers", "Total beers in the current snapshot"))
	m.snapshotLastUnix = auto.NewGauge(m.gaugeOpts("snapshot_last_unix", "Unix timestamp of the last published snapshot"))
	m.snapshotAge = auto.NewGauge(m.gaugeOpts("snapshot_age_seconds", "Seconds since the current snapshot was fetched"))
	m.snapshotCount = auto.NewCounter(m.counterOpts("snapshots_published_total", "Snapshots published"))

	m.queueSize = auto.NewGauge(m.gaugeOpts("refresh_queue_size", "Pending refresh requests"))
	m.queueCapacity = auto.NewGauge(m.gaugeOpts("refresh_queue_capacity", "Refresh queue capacity"))
	m.queueEnqueued = auto.NewCounter(m.counterOpts("refresh_queue_enqueue_total", "Refresh requests enqueued"))
	m.queueDequeued = auto.NewCounter(m.counterOpts("refresh_queue_dequeue_total", "Refresh requests dequeued"))
	m.queueEnqueueErrors = auto.NewCounter(m.counterOpts("refresh_queue_enqueue_errors_total",
		"Refresh requests rejected because the queue was full or closed"))

	m.httpRequests = auto.NewCounterVec(m.counterOpts("http_requests_total", "HTTP requests by endpoint, method and status"),
		[]string{"endpoint", "method", "status_code"})
	m.httpRequestDuration = auto.NewHistogramVec(m.histogramOpts("http_request_duration_milliseconds",
		"HTTP request duration in milliseconds", m.histogramBuckets), []string{"endpoint", "method", "status_code"})
	m.httpErrors = auto.NewCounterVec(m.counterOpts("http_errors_total", "HTTP error responses by endpoint and error type"),
		[]string{"endpoint", "method", "error_type"})
	m.rateLimited = auto.NewCounterVec(m.counterOpts("rate_limited_total", "Requests rejected by a rate limiter"),
		[]string{"limiter"})

	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts("system_memory_usage_bytes", "Heap memory in use in bytes"))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts("system_goroutine_count", "Number of goroutines"))
	m.systemGCPauseTime = auto.NewHistogram(m.histogramOpts("system_gc_pause_time_milliseconds", "GC pause time in milliseconds",
		[]float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000}))
}

// RecordRefresh counts a refresh attempt.
func RecordRefresh(reason, outcome string) {
	globalManager.refreshes.WithLabelValues(reason, outcome).Inc()
}

// RecordRefreshLatency records end-to-end refresh latency in milliseconds.
func RecordRefreshLatency(latencyMs float64) {
	globalManager.refreshLatency.Observe(latencyMs)
}

// RecordFetchLatency records a spreadsheet fetch latency in milliseconds.
func RecordFetchLatency(latencyMs float64) {
	globalManager.fetchLatency.Observe(latencyMs)
}

// RecordAggregateLatency records an aggregation pass latency in milliseconds.
func RecordAggregateLatency(latencyMs float64) {
	globalManager.aggregateLatency.Observe(latencyMs)
}

// RecordFetchError counts a fetch failure.
func RecordFetchError(source, kind string) {
	globalManager.fetchErrors.WithLabelValues(source, kind).Inc()
}

// UpdateBreakerState publishes a circuit breaker state.
func UpdateBreakerState(name string, state float64) {
	globalManager.breakerState.WithLabelValues(name).Set(state)
}

// RecordSnapshot publishes the shape of a freshly replaced snapshot.
func RecordSnapshot(rows, entries, members, beers int, publishedUnix int64) {
	globalManager.rowsIngested.Set(float64(rows))
	globalManager.entriesTotal.Set(float64(entries))
	globalManager.membersTotal.Set(float64(members))
	globalManager.beersTotal.Set(float64(beers))
	globalManager.snapshotLastUnix.Set(float64(publishedUnix))
	globalManager.snapshotCount.Inc()
}

// UpdateSnapshotAge sets the age of the current snapshot.
func UpdateSnapshotAge(seconds float64) {
	globalManager.snapshotAge.Set(seconds)
}

// UpdateQueueSize sets the current queue size.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// UpdateQueueCapacity sets the queue capacity.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// RecordQueueEnqueue increments the enqueue counter.
func RecordQueueEnqueue() {
	globalManager.queueEnqueued.Inc()
}

// RecordQueueDequeue increments the dequeue counter.
func RecordQueueDequeue() {
	globalManager.queueDequeued.Inc()
}

// RecordQueueEnqueueError increments the enqueue error counter.
func RecordQueueEnqueueError() {
	globalManager.queueEnqueueErrors.Inc()
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration in milliseconds.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordHTTPError records an error response.
func RecordHTTPError(endpoint, method, errorType string) {
	globalManager.httpErrors.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordRateLimited counts a request rejected by the named limiter.
func RecordRateLimited(limiter string) {
	globalManager.rateLimited.WithLabelValues(limiter).Inc()
}

// UpdateSystemMemoryUsage sets heap memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
