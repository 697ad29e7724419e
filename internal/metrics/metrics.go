// Package metrics holds the process-wide Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "querynet_http_requests_total",
		Help: "HTTP requests by route, method and status code.",
	}, []string{"route", "method", "status"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "querynet_http_request_duration_seconds",
		Help:    "HTTP request latency by route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route", "method"})

	// outcome is one of added, retracted, flipped.
	Votes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "querynet_votes_total",
		Help: "Votes applied by target kind and outcome.",
	}, []string{"target", "outcome"})

	Acceptances = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "querynet_acceptances_total",
		Help: "Accept-answer requests by outcome.",
	}, []string{"outcome"})

	NotificationsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "querynet_notifications_created_total",
		Help: "Notifications persisted by type.",
	}, []string{"type"})

	SideEffectFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "querynet_side_effect_failures_total",
		Help: "Best-effort side effects that failed and were dropped.",
	}, []string{"effect"})

	RateLimited = promauto.NewCounter(prometheus.CounterOpts{
		Name: "querynet_rate_limited_total",
		Help: "Requests rejected by the per-IP rate limiter.",
	})
)
