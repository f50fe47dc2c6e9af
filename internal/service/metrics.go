package service

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	upstreamRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "eathaven_upstream_request_duration_seconds",
			Help:    "Latency of calls to the inference API",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 30, 60},
		},
		[]string{"provider", "outcome"},
	)

	modelOutputRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eathaven_model_output_rejected_total",
			Help: "Model answers that could not be returned to the caller",
		},
		[]string{"reason"},
	)
)

func observeUpstream(provider string, err error, elapsed time.Duration) {
	upstreamRequestDuration.WithLabelValues(provider, upstreamOutcome(err)).Observe(elapsed.Seconds())
}

func upstreamOutcome(err error) string {
	var upstreamErr *UpstreamError
	switch {
	case err == nil:
		return "ok"
	case errors.As(err, &upstreamErr):
		return "status_error"
	case errors.Is(err, ErrEmptyCompletion):
		return "empty"
	default:
		return "transport_error"
	}
}
