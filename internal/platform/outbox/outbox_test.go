package outbox_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/SscSPs/admission_workflow_app/internal/core/domain"
	"github.com/SscSPs/admission_workflow_app/internal/platform/metrics"
	"github.com/SscSPs/admission_workflow_app/internal/platform/outbox"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.WorkflowEvent
	failOn string
}

func (p *recordingPublisher) Publish(_ context.Context, event domain.WorkflowEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if event.EventID == p.failOn {
		return errors.New("broker unavailable")
	}
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) delivered() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	ids := make([]string, len(p.events))
	for i, e := range p.events {
		ids[i] = e.EventID
	}
	return ids
}

func TestOutbox_NotifyDropsWhenFull(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	box := outbox.New(1, m)

	box.Notify(context.Background(), domain.WorkflowEvent{EventID: "e1"})
	box.Notify(context.Background(), domain.WorkflowEvent{EventID: "e2"})

	assert.Equal(t, 1, box.Pending())
	assert.Equal(t, 1.0, testutil.ToFloat64(m.OutboxDeliveries.WithLabelValues("dropped")))
}

func TestWorker_FailedDeliveryDoesNotStopWorker(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	box := outbox.New(8, m)
	pub := &recordingPublisher{failOn: "e2"}

	for _, id := range []string{"e1", "e2", "e3"} {
		box.Notify(context.Background(), domain.WorkflowEvent{EventID: id, ApplicationID: "app-1"})
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- outbox.NewWorker(pub, box.Events(), nil, m).Run(ctx) }()

	require.Eventually(t, func() bool { return len(pub.delivered()) == 2 }, time.Second, 5*time.Millisecond)
	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)

	assert.Equal(t, []string{"e1", "e3"}, pub.delivered())
	assert.Equal(t, 1.0, testutil.ToFloat64(m.OutboxDeliveries.WithLabelValues("failed")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.OutboxDeliveries.WithLabelValues("delivered")))
}

func TestWorker_DrainsQueueOnShutdown(t *testing.T) {
	box := outbox.New(8, nil)
	pub := &recordingPublisher{}
	box.Notify(context.Background(), domain.WorkflowEvent{EventID: "e1"})
	box.Notify(context.Background(), domain.WorkflowEvent{EventID: "e2"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := outbox.NewWorker(pub, box.Events(), nil, nil).Run(ctx)

	assert.ErrorIs(t, err, context.Canceled)
	assert.ElementsMatch(t, []string{"e1", "e2"}, pub.delivered())
	assert.Zero(t, box.Pending())
}

func TestLogPublisher_NeverFails(t *testing.T) {
	assert.NoError(t, outbox.NewLogPublisher(nil).Publish(context.Background(), domain.WorkflowEvent{EventID: "e1"}))
}
