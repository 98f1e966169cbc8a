package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// RequestMetrics records HTTP request outcomes.
type RequestMetrics struct {
	duration *prometheus.HistogramVec
	inflight prometheus.Gauge
}

// NewRequestMetrics registers the HTTP metrics on the provided registerer.
func NewRequestMetrics(reg prometheus.Registerer) *RequestMetrics {
	if reg == nil {
		return &RequestMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})
	inflight := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "http_requests_in_flight",
		Help: "Requests currently being served.",
	})
	reg.MustRegister(duration, inflight)
	return &RequestMetrics{duration: duration, inflight: inflight}
}

// ObserveRequest records a completed request.
func (r *RequestMetrics) ObserveRequest(method, path, status string, elapsed time.Duration) {
	if r == nil || r.duration == nil {
		return
	}
	r.duration.WithLabelValues(normalizeLabel(method), normalizeLabel(path), normalizeLabel(status)).Observe(elapsed.Seconds())
}

// IncInflight marks a request as started.
func (r *RequestMetrics) IncInflight() {
	if r == nil || r.inflight == nil {
		return
	}
	r.inflight.Inc()
}

// DecInflight marks a request as finished.
func (r *RequestMetrics) DecInflight() {
	if r == nil || r.inflight == nil {
		return
	}
	r.inflight.Dec()
}
