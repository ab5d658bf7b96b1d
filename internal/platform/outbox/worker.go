package outbox

import (
	"context"
	"log/slog"
	"time"

	"github.com/SscSPs/admission_workflow_app/internal/core/domain"
	"github.com/SscSPs/admission_workflow_app/internal/platform/metrics"
)

const drainTimeout = 5 * time.Second

// Worker consumes queued events and hands them to a Publisher. A failed delivery is logged and
// counted; the worker keeps going.
type Worker struct {
	publisher Publisher
	inbox     <-chan domain.WorkflowEvent
	logger    *slog.Logger
	metrics   *metrics.Metrics
}

func NewWorker(publisher Publisher, inbox <-chan domain.WorkflowEvent, logger *slog.Logger, m *metrics.Metrics) *Worker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Worker{publisher: publisher, inbox: inbox, logger: logger, metrics: m}
}

// Run delivers events until ctx is done, then flushes whatever is still queued.
func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.drain(context.WithoutCancel(ctx))
			return ctx.Err()
		case event := <-w.inbox:
			w.deliver(ctx, event)
		}
	}
}

func (w *Worker) drain(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, drainTimeout)
	defer cancel()
	for {
		select {
		case event := <-w.inbox:
			w.deliver(ctx, event)
		default:
			return
		}
	}
}

func (w *Worker) deliver(ctx context.Context, event domain.WorkflowEvent) {
	if err := w.publisher.Publish(ctx, event); err != nil {
		w.metrics.IncrementOutbox("failed")
		w.logger.Error("Failed to publish workflow event",
			slog.String("error", err.Error()),
			slog.String("event_id", event.EventID),
			slog.String("application_id", event.ApplicationID),
			slog.String("action", string(event.Action)))
		return
	}
	w.metrics.IncrementOutbox("delivered")
}
