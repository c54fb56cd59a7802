// Package metrics exposes the Prometheus instrumentation used by the
// dashboard API and the push worker. Each process owns a private
// registry so the metrics endpoint only ever reports its own series.
package metrics

import (
	"bufio"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "taxdash"

// HTTPServerMetrics instruments the public HTTP surface of the API,
// the derivation engine, and the upstream Tax Engine client.
type HTTPServerMetrics struct {
	registry *prometheus.Registry

	requestsTotal    *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
	requestsInFlight prometheus.Gauge

	derivationsTotal   *prometheus.CounterVec
	derivationDuration prometheus.Histogram
	notificationsTotal *prometheus.CounterVec
	completionPercent  prometheus.Histogram

	upstreamTotal    *prometheus.CounterVec
	upstreamDuration *prometheus.HistogramVec
}

func NewHTTPServerMetrics() *HTTPServerMetrics {
	registry := prometheus.NewRegistry()

	m := &HTTPServerMetrics{
		registry: registry,
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests processed by the dashboard API.",
		}, []string{"method", "path", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Latency of HTTP requests.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "path"}),
		requestsInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_in_flight",
			Help:      "HTTP requests currently being served.",
		}),
		derivationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "derivation",
			Name:      "runs_total",
			Help:      "Dashboard derivations, by outcome.",
		}, []string{"outcome"}),
		derivationDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "derivation",
			Name:      "duration_seconds",
			Help:      "Time spent fetching records and deriving a dashboard.",
			Buckets:   prometheus.DefBuckets,
		}),
		notificationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "derivation",
			Name:      "notifications_total",
			Help:      "Notifications emitted by derived dashboards.",
		}, []string{"category", "severity"}),
		completionPercent: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "derivation",
			Name:      "completion_percent",
			Help:      "Completion percentage of derived dashboards.",
			Buckets:   []float64{0, 25, 50, 75, 100},
		}),
		upstreamTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "upstream",
			Name:      "requests_total",
			Help:      "Requests sent to the Tax Engine platform API.",
		}, []string{"operation", "outcome"}),
		upstreamDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "upstream",
			Name:      "request_duration_seconds",
			Help:      "Latency of Tax Engine platform API requests.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
	}

	registry.MustRegister(
		m.requestsTotal,
		m.requestDuration,
		m.requestsInFlight,
		m.derivationsTotal,
		m.derivationDuration,
		m.notificationsTotal,
		m.completionPercent,
		m.upstreamTotal,
		m.upstreamDuration,
	)
	return m
}

// Handler serves the registry for scraping.
func (m *HTTPServerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Middleware records request count, latency and in-flight gauge for
// every request passing through it.
func (m *HTTPServerMetrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		path := normalizePath(r.URL.Path)
		recorder := &statusRecorder{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		m.requestsInFlight.Inc()
		defer m.requestsInFlight.Dec()

		next.ServeHTTP(recorder, r)

		m.requestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(recorder.statusCode)).Inc()
		m.requestDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
	})
}

// RecordDerivation tracks one dashboard derivation. Notification counts
// are recorded separately per category via RecordNotification.
func (m *HTTPServerMetrics) RecordDerivation(outcome string, completionPercent int, duration time.Duration) {
	m.derivationsTotal.WithLabelValues(outcome).Inc()
	m.derivationDuration.Observe(duration.Seconds())
	if outcome == "success" {
		m.completionPercent.Observe(float64(completionPercent))
	}
}

func (m *HTTPServerMetrics) RecordNotification(category, severity string) {
	m.notificationsTotal.WithLabelValues(category, severity).Inc()
}

// RecordUpstreamRequest implements the Tax Engine client observer.
func (m *HTTPServerMetrics) RecordUpstreamRequest(operation string, duration time.Duration, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	m.upstreamTotal.WithLabelValues(operation, outcome).Inc()
	m.upstreamDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// normalizePath collapses request paths onto the route they matched so
// the path label stays low-cardinality.
func normalizePath(path string) string {
	switch {
	case path == "/healthz" || path == "/metrics":
		return path
	case strings.HasPrefix(path, "/v1/dashboard"):
		return "/v1/dashboard"
	case strings.HasPrefix(path, "/v1/documents/upload"):
		return "/v1/documents/upload"
	case strings.HasPrefix(path, "/v1/documents"):
		return "/v1/documents"
	case strings.HasPrefix(path, "/v1/forms"):
		return "/v1/forms"
	case strings.HasPrefix(path, "/v1/payments"):
		return "/v1/payments"
	case strings.HasPrefix(path, "/v1/calculator"):
		return "/v1/calculator"
	default:
		return "other"
	}
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (w *statusRecorder) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *statusRecorder) Flush() {
	flusher, ok := w.ResponseWriter.(http.Flusher)
	if ok {
		flusher.Flush()
	}
}

func (w *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hijacker, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not implement http.Hijacker")
	}
	return hijacker.Hijack()
}

func (w *statusRecorder) Push(target string, opts *http.PushOptions) error {
	pusher, ok := w.ResponseWriter.(http.Pusher)
	if !ok {
		return http.ErrNotSupported
	}
	return pusher.Push(target, opts)
}
