package service

import (
	"fmt"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation and provides lightweight snapshots for API consumption.
type MetricsService struct {
	registry         *prometheus.Registry
	handler          http.Handler
	requestDuration  *prometheus.HistogramVec
	requestTotal     *prometheus.CounterVec
	storeDuration    *prometheus.HistogramVec
	storeFallbacks   prometheus.Counter
	feedbackAttempts *prometheus.CounterVec
	feedbackJobs     *prometheus.CounterVec

	requestCount         uint64
	requestDurationTotal uint64
	storeOpCount         uint64
	storeFallbackCount   uint64
	feedbackCount        uint64
}

// MetricsSnapshot summarises counters for the health endpoint.
type MetricsSnapshot struct {
	RequestsTotal            uint64    `json:"requests_total"`
	AverageRequestDurationMs float64   `json:"average_request_duration_ms"`
	StoreOperations          uint64    `json:"store_operations"`
	StoreReadFallbacks       uint64    `json:"store_read_fallbacks"`
	FeedbackAttempts         uint64    `json:"feedback_attempts"`
	Goroutines               int       `json:"goroutines"`
	GeneratedAt              time.Time `json:"generated_at"`
}

// NewMetricsService registers core Prometheus collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	storeDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "store_operation_duration_seconds",
		Help:    "Duration of document store operations",
		Buckets: prometheus.DefBuckets,
	}, []string{"op", "result"})

	storeFallbacks := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "store_read_fallbacks_total",
		Help: "Documents that could not be decoded and were replaced by their default",
	})

	feedbackAttempts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "feedback_provider_attempts_total",
		Help: "Calls to the generative provider by model and outcome",
	}, []string{"model", "outcome"})

	feedbackJobs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "feedback_jobs_total",
		Help: "Asynchronous feedback jobs by final status",
	}, []string{"status"})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, storeDuration, storeFallbacks, feedbackAttempts, feedbackJobs, goroutines)

	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	return &MetricsService{
		registry:         registry,
		handler:          handler,
		requestDuration:  requestDuration,
		requestTotal:     requestTotal,
		storeDuration:    storeDuration,
		storeFallbacks:   storeFallbacks,
		feedbackAttempts: feedbackAttempts,
		feedbackJobs:     feedbackJobs,
	}
}

// Registry exposes the underlying registry for tests.
func (m *MetricsService) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records request metrics and aggregates simple stats for snapshots.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
	atomic.AddUint64(&m.requestCount, 1)
	atomic.AddUint64(&m.requestDurationTotal, uint64(duration.Nanoseconds()))
}

// ObserveStoreOp implements kvstore.Observer.
func (m *MetricsService) ObserveStoreOp(op, result string, seconds float64) {
	if m == nil {
		return
	}
	m.storeDuration.WithLabelValues(op, result).Observe(seconds)
	atomic.AddUint64(&m.storeOpCount, 1)
	if op == "decode" && result == "fallback" {
		m.storeFallbacks.Inc()
		atomic.AddUint64(&m.storeFallbackCount, 1)
	}
}

// ObserveFeedbackAttempt counts one provider call.
func (m *MetricsService) ObserveFeedbackAttempt(model, outcome string) {
	if m == nil {
		return
	}
	m.feedbackAttempts.WithLabelValues(model, outcome).Inc()
	atomic.AddUint64(&m.feedbackCount, 1)
}

// ObserveFeedbackJob counts a finished asynchronous feedback job.
func (m *MetricsService) ObserveFeedbackJob(status string) {
	if m == nil {
		return
	}
	m.feedbackJobs.WithLabelValues(status).Inc()
}

// Snapshot returns aggregated counters.
func (m *MetricsService) Snapshot() MetricsSnapshot {
	if m == nil {
		return MetricsSnapshot{}
	}
	requests := atomic.LoadUint64(&m.requestCount)
	reqDuration := atomic.LoadUint64(&m.requestDurationTotal)

	var avgRequestMs float64
	if requests > 0 {
		avgRequestMs = float64(reqDuration) / float64(requests) / float64(time.Millisecond)
	}

	return MetricsSnapshot{
		RequestsTotal:            requests,
		AverageRequestDurationMs: avgRequestMs,
		StoreOperations:          atomic.LoadUint64(&m.storeOpCount),
		StoreReadFallbacks:       atomic.LoadUint64(&m.storeFallbackCount),
		FeedbackAttempts:         atomic.LoadUint64(&m.feedbackCount),
		Goroutines:               runtime.NumGoroutine(),
		GeneratedAt:              time.Now().UTC(),
	}
}
