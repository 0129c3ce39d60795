// Package metrics declares the Prometheus collectors. Collectors register
// with the default registry on package init.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "signalhub"

var (
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	RequestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	SignalsComputed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "signals_computed_total",
			Help:      "Composite signals computed, by rating",
		},
		[]string{"rating"},
	)

	IndicatorFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "indicator_failures_total",
			Help:      "Indicator calculations that failed inside a composite run",
		},
		[]string{"indicator"},
	)

	NotificationsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_total",
			Help:      "Notification dispatch attempts, by channel and result",
		},
		[]string{"channel", "result"},
	)

	MarketFetches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "market_fetches_total",
			Help:      "Candle fetches, by source",
		},
		[]string{"source"},
	)

	AlertLatency = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "alert_processing_seconds",
			Help:      "Time from alert receipt to composite result",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
	)
)

// Result labels.
const (
	ResultOK    = "ok"
	ResultError = "error"
)

// Source labels.
const (
	SourceCache     = "cache"
	SourceExchange  = "exchange"
	SourceSynthetic = "synthetic"
	SourceFallback  = "fallback"
)
