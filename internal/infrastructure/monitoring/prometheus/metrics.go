package prometheus

import (
	"fmt"
	"sync"
	"time"
)

// AppMetrics holds every metric the service exposes, grouped by layer.
type AppMetrics struct {
	// HTTP layer
	HTTPRequestsTotal   CounterVec
	HTTPRequestDuration HistogramVec
	HTTPActiveRequests  GaugeVec

	// Query layer
	QueryGenerateLatency HistogramVec
	QueryParseLatency    HistogramVec
	QueryConvertLatency  HistogramVec
	QueryCacheHits       CounterVec
	QueryCacheMisses     CounterVec
	QueryConvertLossy    CounterVec
	QueryDetectTotal     CounterVec

	// Infrastructure layer
	CacheOperationDuration HistogramVec
	CacheErrors            CounterVec

	// System health
	ServiceUptime     GaugeVec
	HealthCheckStatus GaugeVec
	ErrorsTotal       CounterVec
}

var (
	DefaultHTTPDurationBuckets  = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}
	DefaultQueryDurationBuckets = []float64{.001, .0025, .005, .01, .025, .05, .1, .25, .5, 1, 10}
	DefaultCacheDurationBuckets = []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .5}
)

// NewAppMetrics registers all service metrics against the collector and
// returns the populated struct.  Safe to call more than once with the same
// collector; registration is idempotent.
func NewAppMetrics(collector MetricsCollector) *AppMetrics {
	m := &AppMetrics{}

	// HTTP
	m.HTTPRequestsTotal = collector.RegisterCounter("http_requests_total", "Total HTTP requests", "method", "path", "status_code")
	m.HTTPRequestDuration = collector.RegisterHistogram("http_request_duration_seconds", "HTTP request duration", DefaultHTTPDurationBuckets, "method", "path")
	m.HTTPActiveRequests = collector.RegisterGauge("http_active_requests", "In-flight HTTP requests", "method", "path")

	// Query
	m.QueryGenerateLatency = collector.RegisterHistogram("query_generate_latency", "Query generation latency", DefaultQueryDurationBuckets, "dialect")
	m.QueryParseLatency = collector.RegisterHistogram("query_parse_latency", "Query parse latency", DefaultQueryDurationBuckets, "dialect")
	m.QueryConvertLatency = collector.RegisterHistogram("query_convert_latency", "Query conversion latency", DefaultQueryDurationBuckets, "source", "target")
	m.QueryCacheHits = collector.RegisterCounter("query_cache_hits", "Query response cache hits", "method")
	m.QueryCacheMisses = collector.RegisterCounter("query_cache_misses", "Query response cache misses", "method")
	m.QueryConvertLossy = collector.RegisterCounter("query_convert_lossy", "Conversions that produced a warning", "source", "target")
	m.QueryDetectTotal = collector.RegisterCounter("query_detect_total", "Dialect detections by outcome", "dialect")

	// Infrastructure
	m.CacheOperationDuration = collector.RegisterHistogram("cache_operation_duration_seconds", "Cache operation duration", DefaultCacheDurationBuckets, "operation")
	m.CacheErrors = collector.RegisterCounter("cache_errors_total", "Cache operation errors", "operation")

	// System health
	m.ServiceUptime = collector.RegisterGauge("service_uptime_seconds", "Service uptime", "service")
	m.HealthCheckStatus = collector.RegisterGauge("health_check_status", "Health check status (1=up, 0=down)", "component")
	m.ErrorsTotal = collector.RegisterCounter("errors_total", "Total errors", "component", "error_type")

	return m
}

// ─────────────────────────────────────────────────────────────────────────────
// Recorder — name-keyed adapter for application services
// ─────────────────────────────────────────────────────────────────────────────

// Recorder dispatches name-keyed counter increments and histogram
// observations to their registered vectors.  Application services record
// metrics through this narrow surface so they stay decoupled from the
// prometheus client and from the metric catalogue above.  Unknown names are
// dropped silently.
type Recorder struct {
	mu         sync.RWMutex
	counters   map[string]CounterVec
	histograms map[string]HistogramVec
}

// NewRecorder builds a Recorder over the query-layer metrics in m.
func NewRecorder(m *AppMetrics) *Recorder {
	return &Recorder{
		counters: map[string]CounterVec{
			"query_cache_hits":    m.QueryCacheHits,
			"query_cache_misses":  m.QueryCacheMisses,
			"query_convert_lossy": m.QueryConvertLossy,
			"query_detect_total":  m.QueryDetectTotal,
			"errors_total":        m.ErrorsTotal,
		},
		histograms: map[string]HistogramVec{
			"query_generate_latency": m.QueryGenerateLatency,
			"query_parse_latency":    m.QueryParseLatency,
			"query_convert_latency":  m.QueryConvertLatency,
		},
	}
}

// IncCounter increments the counter registered under name with the given
// label set.  The labels must match the registered label names exactly.
func (r *Recorder) IncCounter(name string, labels map[string]string) {
	r.mu.RLock()
	vec, ok := r.counters[name]
	r.mu.RUnlock()
	if !ok {
		return
	}
	vec.With(labels).Inc()
}

// ObserveHistogram records value into the histogram registered under name.
func (r *Recorder) ObserveHistogram(name string, value float64, labels map[string]string) {
	r.mu.RLock()
	vec, ok := r.histograms[name]
	r.mu.RUnlock()
	if !ok {
		return
	}
	vec.With(labels).Observe(value)
}

// ─────────────────────────────────────────────────────────────────────────────
// Recording helpers
// ─────────────────────────────────────────────────────────────────────────────

// RecordHTTPRequest records one completed HTTP request.
func RecordHTTPRequest(metrics *AppMetrics, method, path string, statusCode int, duration time.Duration) {
	status := fmt.Sprintf("%d", statusCode)
	metrics.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	metrics.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordCacheOperation records the duration and outcome of one cache call.
func RecordCacheOperation(metrics *AppMetrics, operation string, duration time.Duration, err error) {
	metrics.CacheOperationDuration.WithLabelValues(operation).Observe(duration.Seconds())
	if err != nil {
		metrics.CacheErrors.WithLabelValues(operation).Inc()
	}
}

// RecordError increments the generic error counter for a component.
func RecordError(metrics *AppMetrics, component, errorType string) {
	metrics.ErrorsTotal.WithLabelValues(component, errorType).Inc()
}

//Personal.AI order the ending
