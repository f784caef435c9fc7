package ats

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome label values for ats_requests_total.
const (
	outcomeOK             = "ok"
	outcomeNotFound       = "not_found"
	outcomeUpstreamError  = "upstream_error"
	outcomeTransportError = "transport_error"
	outcomeDecodeError    = "decode_error"
)

var (
	atsRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ats_requests_total",
			Help: "Outbound ATS requests by operation and outcome.",
		},
		[]string{"operation", "outcome"},
	)

	atsLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ats_request_duration_seconds",
			Help:    "Duration of outbound ATS requests in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)
)

func observe(operation, outcome string, seconds float64) {
	atsRequests.WithLabelValues(operation, outcome).Inc()
	atsLatency.WithLabelValues(operation).Observe(seconds)
}
