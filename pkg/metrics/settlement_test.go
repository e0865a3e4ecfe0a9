package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveSettlementCountsOutcomes(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewSettlementMetrics(reg)

	m.ObserveSettlement("approved", 25*time.Millisecond)
	m.ObserveSettlement("approved", 40*time.Millisecond)
	m.ObserveSettlement("insufficient_stock", 5*time.Millisecond)

	if got := testutil.ToFloat64(m.outcomes.WithLabelValues("approved")); got != 2 {
		t.Fatalf("expected 2 approved outcomes, got %v", got)
	}
	if got := testutil.ToFloat64(m.outcomes.WithLabelValues("insufficient_stock")); got != 1 {
		t.Fatalf("expected 1 insufficient_stock outcome, got %v", got)
	}
}

func TestIncTransitionNormalizesEmptyLabels(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewSettlementMetrics(reg)

	m.IncTransition("", "advanced")
	if got := testutil.ToFloat64(m.transitions.WithLabelValues("unknown", "advanced")); got != 1 {
		t.Fatalf("expected normalized label count 1, got %v", got)
	}
}

func TestNilRegistererIsSafe(t *testing.T) {
	m := NewSettlementMetrics(nil)
	m.ObserveSettlement("approved", time.Millisecond)
	m.IncTransition("dm", "advanced")
}
