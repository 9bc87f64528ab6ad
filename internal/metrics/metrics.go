package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ScreeningMetrics holds the HTTP and pipeline collectors on a private
// registry. All methods are safe on a nil receiver.
type ScreeningMetrics struct {
	registry *prometheus.Registry

	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestInFlight prometheus.Gauge

	batchTotal      *prometheus.CounterVec
	batchDuration   prometheus.Histogram
	batchCandidates prometheus.Histogram
	documentsTotal  *prometheus.CounterVec
	fallbacksTotal  *prometheus.CounterVec
	modelCallsTotal *prometheus.CounterVec
}

func New(service string) *ScreeningMetrics {
	registry := prometheus.NewRegistry()
	constLabels := prometheus.Labels{"service": service}

	requestTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   "cvs",
			Subsystem:   "http",
			Name:        "requests_total",
			Help:        "Total HTTP requests processed.",
			ConstLabels: constLabels,
		},
		[]string{"method", "path", "status"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace:   "cvs",
			Subsystem:   "http",
			Name:        "request_duration_seconds",
			Help:        "HTTP request duration in seconds.",
			Buckets:     prometheus.DefBuckets,
			ConstLabels: constLabels,
		},
		[]string{"method", "path"},
	)
	requestInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace:   "cvs",
			Subsystem:   "http",
			Name:        "in_flight_requests",
			Help:        "Number of in-flight HTTP requests.",
			ConstLabels: constLabels,
		},
	)
	batchTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   "cvs",
			Subsystem:   "screening",
			Name:        "batches_total",
			Help:        "Total screening batches by status.",
			ConstLabels: constLabels,
		},
		[]string{"status"},
	)
	batchDuration := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace:   "cvs",
			Subsystem:   "screening",
			Name:        "batch_duration_seconds",
			Help:        "Screening batch duration in seconds.",
			Buckets:     []float64{0.5, 1, 2, 5, 10, 20, 30, 60, 120, 300},
			ConstLabels: constLabels,
		},
	)
	batchCandidates := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace:   "cvs",
			Subsystem:   "screening",
			Name:        "batch_candidates",
			Help:        "Ranked candidates per successful batch.",
			Buckets:     []float64{1, 2, 5, 10, 20, 50, 100},
			ConstLabels: constLabels,
		},
	)
	documentsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   "cvs",
			Subsystem:   "screening",
			Name:        "documents_total",
			Help:        "Uploaded documents by outcome.",
			ConstLabels: constLabels,
		},
		[]string{"outcome"},
	)
	fallbacksTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   "cvs",
			Subsystem:   "screening",
			Name:        "fallbacks_total",
			Help:        "Fallback values substituted by pipeline stage.",
			ConstLabels: constLabels,
		},
		[]string{"stage"},
	)
	modelCallsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   "cvs",
			Subsystem:   "model",
			Name:        "calls_total",
			Help:        "Model endpoint calls by operation and status.",
			ConstLabels: constLabels,
		},
		[]string{"operation", "status"},
	)

	registry.MustRegister(
		requestTotal,
		requestDuration,
		requestInFlight,
		batchTotal,
		batchDuration,
		batchCandidates,
		documentsTotal,
		fallbacksTotal,
		modelCallsTotal,
	)

	return &ScreeningMetrics{
		registry:        registry,
		requestTotal:    requestTotal,
		requestDuration: requestDuration,
		requestInFlight: requestInFlight,
		batchTotal:      batchTotal,
		batchDuration:   batchDuration,
		batchCandidates: batchCandidates,
		documentsTotal:  documentsTotal,
		fallbacksTotal:  fallbacksTotal,
		modelCallsTotal: modelCallsTotal,
	}
}

func (m *ScreeningMetrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *ScreeningMetrics) StartRequest() {
	if m == nil {
		return
	}
	m.requestInFlight.Inc()
}

func (m *ScreeningMetrics) FinishRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.requestInFlight.Dec()
	m.requestTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

func (m *ScreeningMetrics) ObserveBatch(candidates int, duration time.Duration, err error) {
	if m == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	m.batchTotal.WithLabelValues(status).Inc()
	m.batchDuration.Observe(duration.Seconds())
	if err == nil {
		m.batchCandidates.Observe(float64(candidates))
	}
}

// RecordDocument counts an uploaded document under outcome: "ranked",
// "skipped_type" or "skipped_extraction".
func (m *ScreeningMetrics) RecordDocument(outcome string) {
	if m == nil {
		return
	}
	m.documentsTotal.WithLabelValues(outcome).Inc()
}

func (m *ScreeningMetrics) RecordFallback(stage string) {
	if m == nil {
		return
	}
	m.fallbacksTotal.WithLabelValues(stage).Inc()
}

// RecordModelCall counts one model call; status is success, error or
// circuit_open.
func (m *ScreeningMetrics) RecordModelCall(operation, status string) {
	if m == nil {
		return
	}
	m.modelCallsTotal.WithLabelValues(operation, status).Inc()
}
