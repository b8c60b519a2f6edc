// Package metrics declares the Prometheus instruments exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// OfferSearches counts offer-search requests by outcome: "ok",
	// "empty", "auth_error", "upstream_error", "bad_request".
	OfferSearches = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "offer_searches_total",
		Help: "Offer search requests by outcome.",
	}, []string{"outcome"})

	// Reservations counts confirmed seat reservations.
	Reservations = promauto.NewCounter(prometheus.CounterOpts{
		Name: "reservations_total",
		Help: "Confirmed seat reservations.",
	})

	// UpstreamErrors counts upstream failures by kind ("auth", "request").
	UpstreamErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "upstream_errors_total",
		Help: "Upstream flight API failures by kind.",
	}, []string{"kind"})

	// UpstreamLatency observes the wall time of full offer searches,
	// token fetch included.
	UpstreamLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "upstream_search_duration_seconds",
		Help:    "Duration of upstream offer searches.",
		Buckets: prometheus.DefBuckets,
	})
)
