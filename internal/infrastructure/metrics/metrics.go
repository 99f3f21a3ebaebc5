package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for dispatch, request decisions and the
// best-effort side effects around them. A nil *Metrics is a no-op.
type Metrics struct {
	// Per-donor dispatch results: created, existing, failed
	DispatchOutcome *prometheus.CounterVec

	// Duration of one full fan-out
	DispatchLatency prometheus.Histogram

	// Lifecycle writes by target status and result: applied, conflict
	RequestTransition *prometheus.CounterVec

	// Eligibility verdicts persisted
	EligibilityEvaluation *prometheus.CounterVec

	// Side effects that failed without failing the operation
	NotificationFailures prometheus.Counter
	EventPublishFailures prometheus.Counter
}

// New registers all metrics on reg
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		DispatchOutcome: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "blood_donor_dispatch_outcomes_total",
			Help: "Per-donor request dispatch outcomes",
		}, []string{"outcome"}),

		DispatchLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "blood_donor_dispatch_duration_seconds",
			Help:    "Duration of a request batch fan-out",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),

		RequestTransition: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "blood_donor_request_transitions_total",
			Help: "Blood request lifecycle writes by target status and result",
		}, []string{"status", "result"}),

		EligibilityEvaluation: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "blood_donor_eligibility_evaluations_total",
			Help: "Persisted eligibility evaluations by verdict",
		}, []string{"eligible"}),

		NotificationFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "blood_donor_notification_failures_total",
			Help: "Acceptance notifications that could not be written",
		}),

		EventPublishFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "blood_donor_event_publish_failures_total",
			Help: "Subscriber events that could not be published",
		}),
	}
}

func (m *Metrics) IncrementDispatch(outcome string) {
	if m != nil {
		m.DispatchOutcome.WithLabelValues(outcome).Inc()
	}
}

func (m *Metrics) ObserveDispatchLatency(d time.Duration) {
	if m != nil {
		m.DispatchLatency.Observe(d.Seconds())
	}
}

func (m *Metrics) IncrementTransition(status, result string) {
	if m != nil {
		m.RequestTransition.WithLabelValues(status, result).Inc()
	}
}

func (m *Metrics) IncrementEligibility(eligible bool) {
	if m != nil {
		m.EligibilityEvaluation.WithLabelValues(strconv.FormatBool(eligible)).Inc()
	}
}

func (m *Metrics) IncrementNotificationFailure() {
	if m != nil {
		m.NotificationFailures.Inc()
	}
}

func (m *Metrics) IncrementEventPublishFailure() {
	if m != nil {
		m.EventPublishFailures.Inc()
	}
}
