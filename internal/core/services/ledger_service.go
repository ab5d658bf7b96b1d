package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/admission_workflow_app/internal/apperrors"
	"github.com/SscSPs/admission_workflow_app/internal/core/domain"
	portsrepo "github.com/SscSPs/admission_workflow_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/admission_workflow_app/internal/core/ports/services"
	"github.com/SscSPs/admission_workflow_app/internal/dto"
)

// ledgerService records reviewer verdicts on documents. It shares the per-application guard with the
// workflow so a recount can never interleave with a transition.
type ledgerService struct {
	BaseService
	repo portsrepo.ApplicationRepositoryFacade
}

func NewLedgerService(repo portsrepo.ApplicationRepositoryFacade, options ...ServiceOption) portssvc.LedgerSvcFacade {
	return &ledgerService{BaseService: newBaseService(options...), repo: repo}
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

func (s *ledgerService) SetDocumentStatus(ctx context.Context, applicationID string, documentType domain.DocumentType, reviewer domain.Actor, req dto.SetDocumentStatusRequest) (*domain.Application, error) {
	if !reviewer.IsReviewer() {
		return nil, fmt.Errorf("%w: only reviewers can review documents", apperrors.ErrForbidden)
	}

	_, app, err := s.mutateApplication(ctx, s.repo, applicationID, func(app *domain.Application, now time.Time) error {
		return app.SetDocumentStatus(documentType, req.Status, reviewer.UserID, req.Remarks, now)
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncrementDocumentReview(string(req.Status))
	s.LogInfo(ctx, "Document reviewed",
		slog.String("application_id", applicationID),
		slog.String("document_type", string(documentType)),
		slog.String("document_status", string(req.Status)),
		slog.String("reviewer_id", reviewer.UserID),
		slog.Int("approved", app.DocumentCounts.Approved),
		slog.Int("pending", app.DocumentCounts.Pending),
		slog.Int("rejected", app.DocumentCounts.Rejected))
	return app, nil
}
