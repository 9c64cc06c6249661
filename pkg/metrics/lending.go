package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// LendingMetrics records counters for the sample lending lifecycle.
type LendingMetrics struct {
	requestsCreated    *prometheus.CounterVec
	requestDecisions   *prometheus.CounterVec
	returnsRecorded    prometheus.Counter
	overReturnRejected prometheus.Counter
	receivedMarked     prometheus.Counter
}

// NewLendingMetrics registers the lending metrics on the provided registerer.
func NewLendingMetrics(reg prometheus.Registerer) *LendingMetrics {
	if reg == nil {
		return &LendingMetrics{}
	}
	requestsCreated := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "shoe_requests_created_total",
		Help: "Shoe requests created, by source.",
	}, []string{"source"})
	requestDecisions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "shoe_request_decisions_total",
		Help: "Approve/reject decisions applied to shoe requests.",
	}, []string{"decision"})
	returnsRecorded := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "shoe_returns_recorded_total",
		Help: "Return rows recorded against ledger entries.",
	})
	overReturnRejected := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "shoe_returns_over_return_rejected_total",
		Help: "Return attempts rejected for exceeding the allocated quantity.",
	})
	receivedMarked := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "event_shoe_variants_received_total",
		Help: "Ledger entries flipped to received by warehouse check-in.",
	})
	reg.MustRegister(requestsCreated, requestDecisions, returnsRecorded, overReturnRejected, receivedMarked)
	return &LendingMetrics{
		requestsCreated:    requestsCreated,
		requestDecisions:   requestDecisions,
		returnsRecorded:    returnsRecorded,
		overReturnRejected: overReturnRejected,
		receivedMarked:     receivedMarked,
	}
}

// IncRequestCreated increments the creation counter for the given source
// ("single" or "batch").
func (m *LendingMetrics) IncRequestCreated(source string) {
	if m == nil || m.requestsCreated == nil {
		return
	}
	m.requestsCreated.WithLabelValues(normalizeLabel(source)).Inc()
}

// IncDecision increments the decision counter ("approved" or "rejected").
func (m *LendingMetrics) IncDecision(decision string) {
	if m == nil || m.requestDecisions == nil {
		return
	}
	m.requestDecisions.WithLabelValues(normalizeLabel(decision)).Inc()
}

// IncReturnRecorded increments the recorded-returns counter.
func (m *LendingMetrics) IncReturnRecorded() {
	if m == nil || m.returnsRecorded == nil {
		return
	}
	m.returnsRecorded.Inc()
}

// IncOverReturnRejected increments the over-return rejection counter.
func (m *LendingMetrics) IncOverReturnRejected() {
	if m == nil || m.overReturnRejected == nil {
		return
	}
	m.overReturnRejected.Inc()
}

// AddReceivedMarked adds the number of ledger entries flipped by one
// warehouse check-in.
func (m *LendingMetrics) AddReceivedMarked(n int64) {
	if m == nil || m.receivedMarked == nil || n <= 0 {
		return
	}
	m.receivedMarked.Add(float64(n))
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
