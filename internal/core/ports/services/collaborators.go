package services

import (
	"context"

	"github.com/SscSPs/admission_workflow_app/internal/core/domain"
)

// DocumentRequirements tells the workflow which document types must be approved before an
// application can be approved.
type DocumentRequirements interface {
	RequiredDocumentTypes(ctx context.Context, app *domain.Application) ([]domain.DocumentType, error)
}

// PayloadValidator deep-validates payload content. The workflow itself only checks presence.
type PayloadValidator interface {
	ValidatePayload(payload domain.Payload) error
}

// WorkflowNotifier receives committed transitions for asynchronous delivery. Implementations must
// not block and must not report delivery failures back to the caller.
type WorkflowNotifier interface {
	Notify(ctx context.Context, event domain.WorkflowEvent)
}
