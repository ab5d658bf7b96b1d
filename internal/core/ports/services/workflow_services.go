package services

import (
	"context"

	"github.com/SscSPs/admission_workflow_app/internal/core/domain"
	"github.com/SscSPs/admission_workflow_app/internal/dto"
)

// WorkflowTransitionSvc defines the state machine operations on an application.
// Every method loads the aggregate, applies one transition and persists it atomically.
type WorkflowTransitionSvc interface {
	// Submit moves a complete DRAFT to SUBMITTED.
	Submit(ctx context.Context, applicationID string, actor domain.Actor, req dto.SubmitApplicationRequest) (*domain.Application, error)

	// BeginReview moves a SUBMITTED application to UNDER_REVIEW.
	BeginReview(ctx context.Context, applicationID string, reviewer domain.Actor) (*domain.Application, error)

	// Approve accepts an application under review once all required documents are approved.
	Approve(ctx context.Context, applicationID string, reviewer domain.Actor, req dto.ReviewActionRequest) (*domain.Application, error)

	// Reject rejects an application with a catalog reason and structured details.
	Reject(ctx context.Context, applicationID string, reviewer domain.Actor, req dto.RejectApplicationRequest) (*domain.Application, error)

	// Resubmit returns a REJECTED application to SUBMITTED on behalf of its owner.
	Resubmit(ctx context.Context, applicationID string, actor domain.Actor, req dto.ResubmitApplicationRequest) (*domain.Application, error)

	// Cancel ends a non-final application.
	Cancel(ctx context.Context, applicationID string, actor domain.Actor, req dto.CancelApplicationRequest) (*domain.Application, error)
}

// WorkflowNotesSvc defines audit note operations
type WorkflowNotesSvc interface {
	// AddAdminNote appends a reviewer note without changing status.
	AddAdminNote(ctx context.Context, applicationID string, reviewer domain.Actor, req dto.AddAdminNoteRequest) (*domain.Application, error)
}

// WorkflowSvcFacade combines all workflow service interfaces
type WorkflowSvcFacade interface {
	WorkflowTransitionSvc
	WorkflowNotesSvc
}
