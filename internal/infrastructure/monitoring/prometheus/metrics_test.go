package prometheus

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAppMetrics(t *testing.T) (*AppMetrics, MetricsCollector) {
	t.Helper()
	c := newTestCollector(t)
	return NewAppMetrics(c), c
}

func TestNewAppMetrics_RegistersAll(t *testing.T) {
	m, _ := newTestAppMetrics(t)
	require.NotNil(t, m.HTTPRequestsTotal)
	require.NotNil(t, m.QueryGenerateLatency)
	require.NotNil(t, m.QueryCacheHits)
	require.NotNil(t, m.QueryDetectTotal)
	require.NotNil(t, m.ErrorsTotal)
}

func TestNewAppMetrics_DoubleRegistrationIsSafe(t *testing.T) {
	c := newTestCollector(t)
	m1 := NewAppMetrics(c)
	m2 := NewAppMetrics(c)

	m1.QueryCacheHits.WithLabelValues("generate").Inc()
	m2.QueryCacheHits.WithLabelValues("generate").Inc()

	body := scrapeMetrics(t, c)
	assert.Contains(t, body, `patquery_query_cache_hits{method="generate"} 2`)
}

func TestRecorder_IncCounter(t *testing.T) {
	m, c := newTestAppMetrics(t)
	r := NewRecorder(m)

	r.IncCounter("query_cache_hits", map[string]string{"method": "generate"})
	r.IncCounter("query_detect_total", map[string]string{"dialect": "uspto"})

	body := scrapeMetrics(t, c)
	assert.Contains(t, body, `patquery_query_cache_hits{method="generate"} 1`)
	assert.Contains(t, body, `patquery_query_detect_total{dialect="uspto"} 1`)
}

func TestRecorder_ObserveHistogram(t *testing.T) {
	m, c := newTestAppMetrics(t)
	r := NewRecorder(m)

	r.ObserveHistogram("query_generate_latency", 0.002, map[string]string{"dialect": "google"})
	r.ObserveHistogram("query_convert_latency", 0.004, map[string]string{"source": "google", "target": "uspto"})

	body := scrapeMetrics(t, c)
	assert.Contains(t, body, `patquery_query_generate_latency_count{dialect="google"} 1`)
	assert.Contains(t, body, `patquery_query_convert_latency_count{source="google",target="uspto"} 1`)
}

func TestRecorder_UnknownNameIsDropped(t *testing.T) {
	m, _ := newTestAppMetrics(t)
	r := NewRecorder(m)

	// Neither call may panic.
	r.IncCounter("no_such_counter", map[string]string{"k": "v"})
	r.ObserveHistogram("no_such_histogram", 1, nil)
}

func TestRecordHTTPRequest(t *testing.T) {
	m, c := newTestAppMetrics(t)

	RecordHTTPRequest(m, "POST", "/api/v1/query/generate", 200, 12*time.Millisecond)

	body := scrapeMetrics(t, c)
	assert.Contains(t, body, `patquery_http_requests_total{method="POST",path="/api/v1/query/generate",status_code="200"} 1`)
	assert.Contains(t, body, `patquery_http_request_duration_seconds_count{method="POST",path="/api/v1/query/generate"} 1`)
}

func TestRecordCacheOperation(t *testing.T) {
	m, c := newTestAppMetrics(t)

	RecordCacheOperation(m, "get", time.Millisecond, nil)
	RecordCacheOperation(m, "get", time.Millisecond, errors.New("conn refused"))

	body := scrapeMetrics(t, c)
	assert.Contains(t, body, `patquery_cache_operation_duration_seconds_count{operation="get"} 2`)
	assert.Contains(t, body, `patquery_cache_errors_total{operation="get"} 1`)
}

func TestRecordError(t *testing.T) {
	m, c := newTestAppMetrics(t)

	RecordError(m, "redis", "timeout")

	body := scrapeMetrics(t, c)
	assert.Contains(t, body, `patquery_errors_total{component="redis",error_type="timeout"} 1`)
}

//Personal.AI order the ending
