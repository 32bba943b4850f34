package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the identity lifecycle coordinator.
// Compensation counters matter most operationally: a rising failure count
// means orphaned credentials are accumulating and need reconciliation.
type Metrics struct {
	Operations    *prometheus.CounterVec
	Compensations *prometheus.CounterVec
	Duration      *prometheus.HistogramVec
}

// Outcome labels for Operations.
const (
	OutcomeSuccess        = "success"
	OutcomeFailure        = "failure"
	OutcomePartialFailure = "partial_failure"
)

// New creates a Metrics instance with all coordinator metrics registered.
func New() *Metrics {
	return &Metrics{
		Operations: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "dojoroll_lifecycle_operations_total",
			Help: "Lifecycle operations by operation and outcome",
		}, []string{"operation", "outcome"}),
		Compensations: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "dojoroll_lifecycle_compensations_total",
			Help: "Compensating actions by operation and result",
		}, []string{"operation", "result"}),
		Duration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "dojoroll_lifecycle_operation_duration_seconds",
			Help:    "Duration of lifecycle operations",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"operation"}),
	}
}

// ObserveOperation records one finished operation.
func (m *Metrics) ObserveOperation(operation, outcome string, start time.Time) {
	if m == nil {
		return
	}
	m.Operations.WithLabelValues(operation, outcome).Inc()
	m.Duration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

// ObserveCompensation records a compensating action and whether it restored
// the prior state.
func (m *Metrics) ObserveCompensation(operation string, ok bool) {
	if m == nil {
		return
	}
	result := "restored"
	if !ok {
		result = "failed"
	}
	m.Compensations.WithLabelValues(operation, result).Inc()
}
