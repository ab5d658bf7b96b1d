package services

import (
	"context"
	"fmt"

	"github.com/SscSPs/admission_workflow_app/internal/core/domain"
	portssvc "github.com/SscSPs/admission_workflow_app/internal/core/ports/services"
)

// StaticDocumentRequirements requires the same document types of every application.
type StaticDocumentRequirements struct {
	types []domain.DocumentType
}

var _ portssvc.DocumentRequirements = (*StaticDocumentRequirements)(nil)

// NewStaticDocumentRequirements parses configured names, which may be enum values or display labels.
// An empty list means every attached document is required.
func NewStaticDocumentRequirements(names []string) (*StaticDocumentRequirements, error) {
	types := make([]domain.DocumentType, 0, len(names))
	for _, n := range names {
		t, err := domain.ParseDocumentType(n)
		if err != nil {
			return nil, fmt.Errorf("invalid required document type: %w", err)
		}
		types = append(types, t)
	}
	return &StaticDocumentRequirements{types: types}, nil
}

func (r *StaticDocumentRequirements) RequiredDocumentTypes(_ context.Context, _ *domain.Application) ([]domain.DocumentType, error) {
	return append([]domain.DocumentType(nil), r.types...), nil
}
