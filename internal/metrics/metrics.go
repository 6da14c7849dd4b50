// Package metrics holds the Prometheus collectors for the router and the
// HTTP API.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics is safe to use as a nil pointer; every method is then a no-op.
type Metrics struct {
	registry *prometheus.Registry

	RouterCalls  *prometheus.CounterVec
	PathHops     prometheus.Histogram
	HTTPRequests *prometheus.CounterVec
}

// New registers the collectors on a fresh registry, together with the Go
// runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		RouterCalls: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "router_calls_total",
				Help: "Router entry point calls by operation and result",
			},
			[]string{"op", "result"}, // result: ok, error
		),
		PathHops: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "router_path_hops",
				Help:    "Number of pools traversed by executed swaps",
				Buckets: prometheus.LinearBuckets(1, 1, 7),
			},
		),
		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "HTTP requests by route and status code",
			},
			[]string{"route", "status"},
		),
	}
}

// ObserveCall records the outcome of a router entry point.
func (m *Metrics) ObserveCall(op string, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.RouterCalls.WithLabelValues(op, result).Inc()
}

func (m *Metrics) ObserveHops(n int) {
	if m == nil {
		return
	}
	m.PathHops.Observe(float64(n))
}

func (m *Metrics) ObserveRequest(route string, status int) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(route, strconv.Itoa(status)).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }
