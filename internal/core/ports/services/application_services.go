package services

import (
	"context"

	"github.com/SscSPs/admission_workflow_app/internal/core/domain"
	"github.com/SscSPs/admission_workflow_app/internal/dto"
)

// ApplicationReaderSvc defines read operations for applications
type ApplicationReaderSvc interface {
	// GetApplication returns the aggregate if the actor owns it or is a reviewer.
	GetApplication(ctx context.Context, applicationID string, actor domain.Actor) (*domain.Application, error)

	// ListApplications returns a page of applications for reviewers.
	ListApplications(ctx context.Context, actor domain.Actor, params dto.ListApplicationsParams) (*dto.ListApplicationsResponse, error)
}

// ApplicationWriterSvc defines applicant-side edits of a draft
type ApplicationWriterSvc interface {
	// CreateDraft creates a new DRAFT owned by the actor.
	CreateDraft(ctx context.Context, actor domain.Actor, req dto.CreateApplicationRequest) (*domain.Application, error)

	// UpdatePayload overwrites the supplied payload sections.
	UpdatePayload(ctx context.Context, applicationID string, actor domain.Actor, req dto.UpdatePayloadRequest) (*domain.Application, error)

	// AttachDocument attaches or replaces the document of one type.
	AttachDocument(ctx context.Context, applicationID string, actor domain.Actor, documentType domain.DocumentType, req dto.AttachDocumentRequest) (*domain.Application, error)
}

// ApplicationSvcFacade combines all application service interfaces
type ApplicationSvcFacade interface {
	ApplicationReaderSvc
	ApplicationWriterSvc
}
