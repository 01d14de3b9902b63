package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// TransferMetrics tracks money-movement outcomes.
type TransferMetrics struct {
	outcomes             *prometheus.CounterVec
	duration             prometheus.Histogram
	compensationFailures prometheus.Counter
}

// NewTransferMetrics registers the transfer metrics on the provided registerer.
func NewTransferMetrics(reg prometheus.Registerer) *TransferMetrics {
	if reg == nil {
		return &TransferMetrics{}
	}
	outcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "transfer_outcomes_total",
		Help: "Transfer attempts by final outcome.",
	}, []string{"outcome"})
	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "transfer_duration_seconds",
		Help:    "End-to-end duration of a transfer attempt.",
		Buckets: prometheus.DefBuckets,
	})
	compensationFailures := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "transfer_compensation_failures_total",
		Help: "Compensating deposits that the backend rejected.",
	})
	reg.MustRegister(outcomes, duration, compensationFailures)
	return &TransferMetrics{
		outcomes:             outcomes,
		duration:             duration,
		compensationFailures: compensationFailures,
	}
}

// ObserveOutcome counts one finished transfer attempt.
func (t *TransferMetrics) ObserveOutcome(outcome string, elapsed time.Duration) {
	if t == nil || t.outcomes == nil {
		return
	}
	t.outcomes.WithLabelValues(normalizeLabel(outcome)).Inc()
	t.duration.Observe(elapsed.Seconds())
}

// IncCompensationFailure counts a rejected compensating deposit.
func (t *TransferMetrics) IncCompensationFailure() {
	if t == nil || t.compensationFailures == nil {
		return
	}
	t.compensationFailures.Inc()
}
