package delivery

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"metricsbridge/internal/domain"
	"metricsbridge/internal/usecase"
	"metricsbridge/pkg/logger"
	"metricsbridge/pkg/metrics"
)

type fakeCollector struct {
	last   usecase.CollectRequest
	record *domain.CombinedRecord
	panic  bool
}

func (f *fakeCollector) Collect(ctx context.Context, req usecase.CollectRequest) *domain.CombinedRecord {
	if f.panic {
		panic("collector exploded")
	}
	f.last = req
	return f.record
}

func (f *fakeCollector) Window() domain.ReportWindow {
	return domain.WindowLast7Days
}

func newTestRouter(t *testing.T, collector MetricsCollector) http.Handler {
	t.Helper()

	reg := prometheus.NewRegistry()
	log := logger.Nop()
	m := metrics.New(reg)

	handlers := NewHTTPHandlers(collector, Defaults{PropertyID: "p-default", CustomerID: "c-default"}, "test", log)
	return NewHTTPRouter(handlers, log, m, reg, 5*time.Second).SetupRoutes()
}

func sampleRecord() *domain.CombinedRecord {
	return &domain.CombinedRecord{
		GoogleAnalytics: domain.NewSuccessMetrics(domain.SourceAnalytics, "p1", map[string]float64{domain.MetricSessions: 100}, nil),
		GoogleAds:       domain.NewSkippedMetrics(domain.SourceAds, "no id"),
		Sessions:        100,
		Metadata:        domain.Metadata{"ga_property": "p1"},
		Timestamp:       time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC),
		Status:          domain.CombinedSuccess,
	}
}

func TestGetMetricsUsesDefaults(t *testing.T) {
	collector := &fakeCollector{record: sampleRecord()}
	router := newTestRouter(t, collector)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	req.Header.Set("X-Request-ID", "req-42")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "req-42", rec.Header().Get("X-Request-ID"))
	assert.Equal(t, "p-default", collector.last.PropertyID)
	assert.Equal(t, "c-default", collector.last.CustomerID)
	assert.Equal(t, "req-42", collector.last.Metadata["request_id"])

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "success", body["status"])
	assert.Equal(t, 100.0, body["sessions"])
	assert.Contains(t, body, "google_analytics")
	assert.Contains(t, body, "google_ads")
}

func TestGetMetricsQueryOverrides(t *testing.T) {
	collector := &fakeCollector{record: sampleRecord()}
	router := newTestRouter(t, collector)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics?property_id=p2&customer_id=111-222-3333", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "p2", collector.last.PropertyID)
	assert.Equal(t, "111-222-3333", collector.last.CustomerID)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestGetMetricsPanicBecomes500(t *testing.T) {
	router := newTestRouter(t, &fakeCollector{panic: true})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Internal server error", body["error"])
	assert.NotEmpty(t, body["request_id"])
}

func TestHealthAndInfo(t *testing.T) {
	router := newTestRouter(t, &fakeCollector{record: sampleRecord()})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var info map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &info))
	assert.Equal(t, "metricsbridge", info["service"])
	assert.Equal(t, "last_7_days", info["report_window"])
}

func TestPrometheusEndpoint(t *testing.T) {
	router := newTestRouter(t, &fakeCollector{record: sampleRecord()})

	// generate one observation first
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics/prometheus", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `http_requests_total{endpoint="/health",method="GET",status_code="200"} 1`)
}
