// Package outbox delivers committed workflow events to an external publisher. Enqueueing never blocks
// the caller and delivery failures never reach workflow state.
package outbox

import (
	"context"
	"log/slog"

	"github.com/SscSPs/admission_workflow_app/internal/core/domain"
	portssvc "github.com/SscSPs/admission_workflow_app/internal/core/ports/services"
	"github.com/SscSPs/admission_workflow_app/internal/middleware"
	"github.com/SscSPs/admission_workflow_app/internal/platform/metrics"
)

// DefaultBuffer is the queue depth used when none is configured.
const DefaultBuffer = 256

// Publisher delivers one event to its destination.
type Publisher interface {
	Publish(ctx context.Context, event domain.WorkflowEvent) error
}

// Outbox is a bounded in-process queue of committed events.
type Outbox struct {
	events  chan domain.WorkflowEvent
	metrics *metrics.Metrics
}

var _ portssvc.WorkflowNotifier = (*Outbox)(nil)

// New creates an outbox holding up to buffer undelivered events.
func New(buffer int, m *metrics.Metrics) *Outbox {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	return &Outbox{events: make(chan domain.WorkflowEvent, buffer), metrics: m}
}

// Notify enqueues event. When the queue is full the event is dropped and logged.
func (o *Outbox) Notify(ctx context.Context, event domain.WorkflowEvent) {
	select {
	case o.events <- event:
	default:
		o.metrics.IncrementOutbox("dropped")
		middleware.GetLoggerFromCtx(ctx).Warn("Outbox full, dropping workflow event",
			slog.String("event_id", event.EventID),
			slog.String("application_id", event.ApplicationID),
			slog.String("action", string(event.Action)))
	}
}

// Pending returns the number of queued events.
func (o *Outbox) Pending() int {
	return len(o.events)
}

// Events exposes the queue to a Worker.
func (o *Outbox) Events() <-chan domain.WorkflowEvent {
	return o.events
}
