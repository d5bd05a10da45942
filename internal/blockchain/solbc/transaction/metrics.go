// internal/blockchain/solbc/transaction/metrics.go
package transaction

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	submitted         prometheus.Counter
	outcomes          *prometheus.CounterVec
	durationHistogram prometheus.Histogram
}

// NewMetrics creates the pipeline collectors and registers them on reg when it is non-nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		submitted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "launchpad_tx_submitted_total",
			Help: "Total number of transactions handed to the network",
		}),
		outcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "launchpad_tx_outcome_total",
			Help: "Transactions by terminal confirmation status",
		}, []string{"status"}),
		durationHistogram: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "launchpad_tx_confirmation_seconds",
			Help:    "Time from submission to a terminal confirmation status",
			Buckets: prometheus.ExponentialBuckets(0.25, 2, 10),
		}),
	}
	if reg != nil {
		reg.MustRegister(m.submitted, m.outcomes, m.durationHistogram)
	}
	return m
}

func (m *Metrics) TrackSubmitted() {
	m.submitted.Inc()
}

func (m *Metrics) TrackOutcome(status ConfirmStatus, start time.Time) {
	m.outcomes.WithLabelValues(status.String()).Inc()
	m.durationHistogram.Observe(time.Since(start).Seconds())
}
