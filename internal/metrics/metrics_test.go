package metrics

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, m *ScreeningMetrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	return string(body)
}

func TestRecordsScreeningSeries(t *testing.T) {
	m := New("cv-screener")

	m.StartRequest()
	m.FinishRequest(http.MethodPost, "/api/v1/process-cvs", http.StatusOK, 120*time.Millisecond)
	m.ObserveBatch(3, 2*time.Second, nil)
	m.ObserveBatch(0, time.Second, errors.New("boom"))
	m.RecordDocument("ranked")
	m.RecordDocument("skipped_type")
	m.RecordFallback("analysis")
	m.RecordModelCall("generate", "success")
	m.RecordModelCall("generate", "circuit_open")

	out := scrape(t, m)

	assert.Contains(t, out, `cvs_http_requests_total{method="POST",path="/api/v1/process-cvs",service="cv-screener",status="200"} 1`)
	assert.Contains(t, out, `cvs_http_in_flight_requests{service="cv-screener"} 0`)
	assert.Contains(t, out, `cvs_screening_batches_total{service="cv-screener",status="success"} 1`)
	assert.Contains(t, out, `cvs_screening_batches_total{service="cv-screener",status="error"} 1`)
	assert.Contains(t, out, `cvs_screening_batch_candidates_count{service="cv-screener"} 1`)
	assert.Contains(t, out, `cvs_screening_documents_total{outcome="skipped_type",service="cv-screener"} 1`)
	assert.Contains(t, out, `cvs_screening_fallbacks_total{service="cv-screener",stage="analysis"} 1`)
	assert.Contains(t, out, `cvs_model_calls_total{operation="generate",service="cv-screener",status="success"} 1`)
	assert.Contains(t, out, `cvs_model_calls_total{operation="generate",service="cv-screener",status="circuit_open"} 1`)
}

func TestNilMetricsAreNoOps(t *testing.T) {
	var m *ScreeningMetrics

	assert.NotPanics(t, func() {
		m.StartRequest()
		m.FinishRequest(http.MethodGet, "/", http.StatusOK, time.Millisecond)
		m.ObserveBatch(1, time.Second, nil)
		m.RecordDocument("ranked")
		m.RecordFallback("profile")
		m.RecordModelCall("embed", "error")
	})

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
