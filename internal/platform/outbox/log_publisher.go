package outbox

import (
	"context"
	"log/slog"

	"github.com/SscSPs/admission_workflow_app/internal/core/domain"
)

// LogPublisher writes events to a logger. It is used when no broker is configured.
type LogPublisher struct {
	logger *slog.Logger
}

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(_ context.Context, event domain.WorkflowEvent) error {
	p.logger.Info("Workflow event",
		slog.String("event_id", event.EventID),
		slog.String("action", string(event.Action)),
		slog.String("application_id", event.ApplicationID),
		slog.String("from_status", string(event.FromStatus)),
		slog.String("to_status", string(event.ToStatus)),
		slog.Int64("version", event.Version))
	return nil
}
