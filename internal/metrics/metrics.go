package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	VerificationRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "verification_requests_total",
			Help: "Total number of verification code requests by outcome",
		},
		[]string{"outcome"},
	)

	VerificationChecksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "verification_checks_total",
			Help: "Total number of verification code checks by outcome",
		},
		[]string{"outcome"},
	)

	CleanupRowsDeleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cleanup_rows_deleted_total",
			Help: "Rows removed by the retention sweeper, per table",
		},
		[]string{"table"},
	)
)
