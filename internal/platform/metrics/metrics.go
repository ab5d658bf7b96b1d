package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the admission workflow.
type Metrics struct {
	// Transition outcomes by action and result ("ok", "rejected", "invariant")
	Transitions *prometheus.CounterVec

	// Transition latency by action
	TransitionLatency *prometheus.HistogramVec

	// Document verdicts by status
	DocumentReviews *prometheus.CounterVec

	// Referral bind attempts by result ("bound", "collision", "exhausted")
	ReferralBinds *prometheus.CounterVec

	// Outbox deliveries by result ("delivered", "failed", "dropped")
	OutboxDeliveries *prometheus.CounterVec
}

// New creates a Metrics instance with all workflow metrics registered on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Transitions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "admissions_workflow_transitions_total",
			Help: "Workflow transition attempts by action and result",
		}, []string{"action", "result"}),

		TransitionLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "admissions_workflow_transition_duration_seconds",
			Help:    "Duration of workflow transitions including persistence",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"action"}),

		DocumentReviews: f.NewCounterVec(prometheus.CounterOpts{
			Name: "admissions_document_reviews_total",
			Help: "Document verdicts recorded by status",
		}, []string{"status"}),

		ReferralBinds: f.NewCounterVec(prometheus.CounterOpts{
			Name: "admissions_referral_binds_total",
			Help: "Referral code bind attempts by result",
		}, []string{"result"}),

		OutboxDeliveries: f.NewCounterVec(prometheus.CounterOpts{
			Name: "admissions_outbox_deliveries_total",
			Help: "Workflow event deliveries by result",
		}, []string{"result"}),
	}
}

// ObserveTransition records the outcome and duration of one transition.
func (m *Metrics) ObserveTransition(action, result string, d time.Duration) {
	if m != nil {
		m.Transitions.WithLabelValues(action, result).Inc()
		m.TransitionLatency.WithLabelValues(action).Observe(d.Seconds())
	}
}

// IncrementDocumentReview records a document verdict.
func (m *Metrics) IncrementDocumentReview(status string) {
	if m != nil {
		m.DocumentReviews.WithLabelValues(status).Inc()
	}
}

// IncrementReferralBind records a referral bind attempt.
func (m *Metrics) IncrementReferralBind(result string) {
	if m != nil {
		m.ReferralBinds.WithLabelValues(result).Inc()
	}
}

// IncrementOutbox records an outbox delivery outcome.
func (m *Metrics) IncrementOutbox(result string) {
	if m != nil {
		m.OutboxDeliveries.WithLabelValues(result).Inc()
	}
}
