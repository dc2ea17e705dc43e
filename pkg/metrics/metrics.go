package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
)

// HTTPMetrics records request metadata for the API surface.
type HTTPMetrics struct {
	duration *prometheus.HistogramVec
	requests *prometheus.CounterVec
}

// NewHTTPMetrics registers the HTTP metrics on the provided registerer.
func NewHTTPMetrics(reg prometheus.Registerer) *HTTPMetrics {
	if reg == nil {
		return &HTTPMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route", "method"})
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "HTTP requests partitioned by route, method and status.",
	}, []string{"route", "method", "status"})
	reg.MustRegister(duration, requests)
	return &HTTPMetrics{
		duration: duration,
		requests: requests,
	}
}

// Middleware instruments handlers using the chi route pattern as the label so
// path parameters do not explode cardinality.
func (m *HTTPMetrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m == nil || m.duration == nil {
			next.ServeHTTP(w, r)
			return
		}
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)

		route := chi.RouteContext(r.Context()).RoutePattern()
		m.duration.WithLabelValues(normalizeLabel(route), r.Method).Observe(time.Since(start).Seconds())
		m.requests.WithLabelValues(normalizeLabel(route), r.Method, strconv.Itoa(recorder.status)).Inc()
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// DeploymentMetrics records deployment lifecycle counters.
type DeploymentMetrics struct {
	created  prometheus.Counter
	returned prometheus.Counter
	conflict prometheus.Counter
}

// NewDeploymentMetrics registers the deployment metrics on the provided registerer.
func NewDeploymentMetrics(reg prometheus.Registerer) *DeploymentMetrics {
	if reg == nil {
		return &DeploymentMetrics{}
	}
	created := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "deployments_created_total",
		Help: "Assignments successfully created.",
	})
	returned := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "deployments_returned_total",
		Help: "Assignments successfully returned.",
	})
	conflict := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "deployments_conflicts_total",
		Help: "Assignment creations rejected because the equipment was already out.",
	})
	reg.MustRegister(created, returned, conflict)
	return &DeploymentMetrics{
		created:  created,
		returned: returned,
		conflict: conflict,
	}
}

// IncCreated increments the created counter.
func (d *DeploymentMetrics) IncCreated() {
	if d == nil || d.created == nil {
		return
	}
	d.created.Inc()
}

// IncReturned increments the returned counter.
func (d *DeploymentMetrics) IncReturned() {
	if d == nil || d.returned == nil {
		return
	}
	d.returned.Inc()
}

// IncConflict increments the open-assignment conflict counter.
func (d *DeploymentMetrics) IncConflict() {
	if d == nil || d.conflict == nil {
		return
	}
	d.conflict.Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
