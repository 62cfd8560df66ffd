package consumption

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
)

// Outcome labels for the attempts counter.
const (
	OutcomeCommitted    = "committed"
	OutcomePreviewed    = "previewed"
	OutcomeShortage     = "shortage"
	OutcomeUnresolved   = "unresolved"
	OutcomeInvalid      = "invalid"
	OutcomeCommitFailed = "commit_failed"
	OutcomeCanceled     = "canceled"
	OutcomeError        = "error"
)

// Metrics holds the engine's Prometheus collectors. A nil *Metrics records
// nothing.
type Metrics struct {
	attempts *prometheus.CounterVec
	retries  *prometheus.CounterVec
	duration *prometheus.HistogramVec
	consumed *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer, namespace string) *Metrics {
	m := &Metrics{
		attempts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "consumption_attempts_total",
				Help:      "Consumption requests by kind and outcome",
			},
			[]string{"kind", "outcome"},
		),
		retries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "consumption_commit_retries_total",
				Help:      "Commits replanned after a batch changed underneath them",
			},
			[]string{"kind"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "consumption_duration_seconds",
				Help:      "Time from request to result, locks included",
				Buckets:   prometheus.ExponentialBuckets(0.001, 2, 14),
			},
			[]string{"kind"},
		),
		consumed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "consumed_quantity_total",
				Help:      "Quantity drawn from batches, in each item's unit",
			},
			[]string{"unit"},
		),
	}

	reg.MustRegister(m.attempts, m.retries, m.duration, m.consumed)
	return m
}

func (m *Metrics) observe(kind Kind, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.attempts.WithLabelValues(string(kind), outcome).Inc()
	m.duration.WithLabelValues(string(kind)).Observe(elapsed.Seconds())
}

func (m *Metrics) retried(kind Kind) {
	if m == nil {
		return
	}
	m.retries.WithLabelValues(string(kind)).Inc()
}

func (m *Metrics) recordConsumed(result *Result) {
	if m == nil {
		return
	}
	for _, it := range result.Items {
		total := decimal.Zero
		for _, a := range it.Allocations {
			total = total.Add(a.QuantityConsumed)
		}
		f, _ := total.Float64()
		unit := it.Unit
		if unit == "" {
			unit = "none"
		}
		m.consumed.WithLabelValues(unit).Add(f)
	}
}
