package services

import (
	"context"

	"github.com/SscSPs/admission_workflow_app/internal/core/domain"
	"github.com/SscSPs/admission_workflow_app/internal/dto"
)

// LedgerSvcFacade defines the document review ledger operations
type LedgerSvcFacade interface {
	// SetDocumentStatus records a verdict on one document and returns the recounted aggregate.
	SetDocumentStatus(ctx context.Context, applicationID string, documentType domain.DocumentType, reviewer domain.Actor, req dto.SetDocumentStatusRequest) (*domain.Application, error)
}
