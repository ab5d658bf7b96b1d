package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_CountsByLabel(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveTransition("APPROVE", "ok", 10*time.Millisecond)
	m.ObserveTransition("APPROVE", "ok", 5*time.Millisecond)
	m.ObserveTransition("REJECT", "rejected", time.Millisecond)
	m.IncrementReferralBind("collision")
	m.IncrementOutbox("failed")
	m.IncrementDocumentReview("APPROVED")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Transitions.WithLabelValues("APPROVE", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Transitions.WithLabelValues("REJECT", "rejected")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ReferralBinds.WithLabelValues("collision")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.OutboxDeliveries.WithLabelValues("failed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DocumentReviews.WithLabelValues("APPROVED")))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveTransition("SUBMIT", "ok", time.Second)
		m.IncrementReferralBind("bound")
		m.IncrementOutbox("delivered")
		m.IncrementDocumentReview("PENDING")
	})
}
