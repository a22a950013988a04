// Package metrics holds the Prometheus collectors exported at /metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry        *prometheus.Registry
	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	renewals        *prometheus.CounterVec
}

// New creates a registry with process/go collectors plus the service's own.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: reg,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "locallibrary",
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "locallibrary",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		renewals: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "locallibrary",
			Name:      "renewals_total",
			Help:      "Loan renewal attempts by outcome.",
		}, []string{"outcome"}),
	}
	reg.MustRegister(m.requests, m.requestDuration, m.renewals)
	return m
}

func (m *Metrics) ObserveRequest(method, route string, status int, d time.Duration) {
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// RenewalOutcome counts one renewal attempt.
func (m *Metrics) RenewalOutcome(outcome string) {
	m.renewals.WithLabelValues(outcome).Inc()
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Requests exposes the request counter for inspection in tests.
func (m *Metrics) Requests() *prometheus.CounterVec {
	return m.requests
}

// Renewals exposes the renewal outcome counter for inspection in tests.
func (m *Metrics) Renewals() *prometheus.CounterVec {
	return m.renewals
}
