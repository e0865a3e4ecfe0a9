package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// SettlementMetrics records settlement and tier-transition outcomes.
type SettlementMetrics struct {
	duration    *prometheus.HistogramVec
	outcomes    *prometheus.CounterVec
	transitions *prometheus.CounterVec
}

// NewSettlementMetrics registers the procurement metrics on the provided registerer.
func NewSettlementMetrics(reg prometheus.Registerer) *SettlementMetrics {
	if reg == nil {
		return &SettlementMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "settlement_duration_seconds",
		Help:    "Duration of settlement attempts in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})
	outcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "settlement_outcomes_total",
		Help: "Settlement attempts by outcome.",
	}, []string{"outcome"})
	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "request_transitions_total",
		Help: "Purchase request state transitions by tier and result.",
	}, []string{"tier", "result"})
	reg.MustRegister(duration, outcomes, transitions)
	return &SettlementMetrics{
		duration:    duration,
		outcomes:    outcomes,
		transitions: transitions,
	}
}

// ObserveSettlement records one settlement attempt with its duration.
func (m *SettlementMetrics) ObserveSettlement(outcome string, elapsed time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	label := normalizeLabel(outcome)
	m.duration.WithLabelValues(label).Observe(elapsed.Seconds())
	m.outcomes.WithLabelValues(label).Inc()
}

// IncTransition counts a tier transition attempt.
func (m *SettlementMetrics) IncTransition(tier, result string) {
	if m == nil || m.transitions == nil {
		return
	}
	m.transitions.WithLabelValues(normalizeLabel(tier), normalizeLabel(result)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
