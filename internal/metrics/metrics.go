// Package metrics holds the Prometheus collectors of the trip search service.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Resolution sources recorded by Resolutions.
const (
	SourceBrowse   = "browse"
	SourceRemote   = "remote"
	SourceFallback = "fallback"
)

// Build outcomes recorded by Builds.
const (
	OutcomeOK      = "ok"
	OutcomeInvalid = "invalid"
)

// Metrics holds all collectors, registered on their own registry so tests can
// create as many instances as they like.
type Metrics struct {
	registry *prometheus.Registry

	Resolutions      *prometheus.CounterVec
	SuggestLatency   prometheus.Histogram
	StaleSuggestions prometheus.Counter
	Builds           *prometheus.CounterVec
	ValidationErrors *prometheus.CounterVec
	ActiveSessions   prometheus.Gauge
	HTTPRequests     *prometheus.CounterVec
	HTTPDuration     *prometheus.HistogramVec
}

// New creates and registers the collectors under namespace.
func New(namespace string) *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		Resolutions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "location_resolutions_total",
			Help:      "Location lookups by the source that produced the result.",
		}, []string{"source"}),
		SuggestLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "suggestion_service_seconds",
			Help:      "Latency of calls to the location suggestion service.",
			Buckets:   prometheus.DefBuckets,
		}),
		StaleSuggestions: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stale_suggestions_total",
			Help:      "Suggestion results discarded because a newer lookup was issued for the same field.",
		}),
		Builds: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_builds_total",
			Help:      "Search request builds by outcome.",
		}, []string{"outcome", "trip_type"}),
		ValidationErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_validation_errors_total",
			Help:      "Validation messages returned by the search builder.",
		}, []string{"message"}),
		ActiveSessions: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_sessions",
			Help:      "Search sessions currently held in memory.",
		}),
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route pattern and status code.",
		}, []string{"method", "route", "status"}),
		HTTPDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route pattern.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
