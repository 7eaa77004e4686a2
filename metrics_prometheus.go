//go:build prometheus

package goweb

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for the connection loop, gated behind the same
// +build prometheus pattern as shockwave/pkg/shockwave/buffer_pool_prometheus.go
// so the core carries zero Prometheus footprint unless the embedding
// application opts in (SPEC_FULL.md §2.3).
var (
	connectionsAccepted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "goweb",
		Name:      "connections_accepted_total",
		Help:      "Total number of accepted connections.",
	})

	connectionsClosed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "goweb",
		Name:      "connections_closed_total",
		Help:      "Total number of closed connections.",
	})

	requestsHandled = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "goweb",
		Name:      "requests_handled_total",
		Help:      "Total number of handled requests, by status class.",
	}, []string{"status_class"})

	requestDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "goweb",
		Name:      "request_duration_seconds",
		Help:      "Request handling latency in seconds.",
	})
)

func metricsConnectionAccepted() { connectionsAccepted.Inc() }
func metricsConnectionClosed()   { connectionsClosed.Inc() }

func metricsRequestHandled(status Status, seconds float64) {
	class := "5xx"
	switch {
	case status < 200:
		class = "1xx"
	case status < 300:
		class = "2xx"
	case status < 400:
		class = "3xx"
	case status < 500:
		class = "4xx"
	}
	requestsHandled.WithLabelValues(class).Inc()
	requestDuration.Observe(seconds)
}
