package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records HTTP traffic and inventory events.
type Metrics struct {
	requests       *prometheus.CounterVec
	duration       *prometheus.HistogramVec
	issuesReported prometheus.Counter
	exports        *prometheus.CounterVec
}

// New registers the inventory metrics on the provided registerer.
// A nil registerer yields a collector whose methods do nothing.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		return &Metrics{}
	}
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "HTTP requests served, by method, route and status code.",
	}, []string{"method", "route", "status"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})
	issuesReported := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "inventory_issues_reported_total",
		Help: "Issues logged against equipment.",
	})
	exports := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "inventory_exports_total",
		Help: "Spare-part summary downloads, by file format.",
	}, []string{"format"})
	reg.MustRegister(requests, duration, issuesReported, exports)
	return &Metrics{
		requests:       requests,
		duration:       duration,
		issuesReported: issuesReported,
		exports:        exports,
	}
}

// ObserveRequest records one served request.
func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if m == nil || m.requests == nil {
		return
	}
	route = normalizeRoute(route)
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.duration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// IncIssuesReported counts a newly logged issue.
func (m *Metrics) IncIssuesReported() {
	if m == nil || m.issuesReported == nil {
		return
	}
	m.issuesReported.Inc()
}

// IncExports counts a summary download in the given format.
func (m *Metrics) IncExports(format string) {
	if m == nil || m.exports == nil {
		return
	}
	m.exports.WithLabelValues(format).Inc()
}

// normalizeRoute keeps label cardinality bounded for unmatched paths.
func normalizeRoute(route string) string {
	if route == "" {
		return "unmatched"
	}
	return route
}
