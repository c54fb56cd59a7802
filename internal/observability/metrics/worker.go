package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// WorkerMetrics instruments the push worker: record-update events
// consumed, dashboard snapshots published, and upstream fetches made on
// behalf of users.
type WorkerMetrics struct {
	registry *prometheus.Registry

	pushesTotal    *prometheus.CounterVec
	pushDuration   prometheus.Histogram
	pushesInFlight prometheus.Gauge

	upstreamTotal    *prometheus.CounterVec
	upstreamDuration *prometheus.HistogramVec
}

func NewWorkerMetrics() *WorkerMetrics {
	registry := prometheus.NewRegistry()

	m := &WorkerMetrics{
		registry: registry,
		pushesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "worker",
			Name:      "pushes_total",
			Help:      "Dashboard pushes attempted, by outcome.",
		}, []string{"outcome"}),
		pushDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "worker",
			Name:      "push_duration_seconds",
			Help:      "Time from record-update event to published snapshot.",
			Buckets:   prometheus.DefBuckets,
		}),
		pushesInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "worker",
			Name:      "pushes_in_flight",
			Help:      "Dashboard pushes currently in progress.",
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
		m.pushesTotal,
		m.pushDuration,
		m.pushesInFlight,
		m.upstreamTotal,
		m.upstreamDuration,
	)
	return m
}

func (m *WorkerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *WorkerMetrics) PushStarted()  { m.pushesInFlight.Inc() }
func (m *WorkerMetrics) PushFinished() { m.pushesInFlight.Dec() }

func (m *WorkerMetrics) RecordPush(outcome string, duration time.Duration) {
	m.pushesTotal.WithLabelValues(outcome).Inc()
	m.pushDuration.Observe(duration.Seconds())
}

// RecordUpstreamRequest implements the Tax Engine client observer.
func (m *WorkerMetrics) RecordUpstreamRequest(operation string, duration time.Duration, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	m.upstreamTotal.WithLabelValues(operation, outcome).Inc()
	m.upstreamDuration.WithLabelValues(operation).Observe(duration.Seconds())
}
