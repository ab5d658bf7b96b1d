package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/admission_workflow_app/internal/apperrors"
	"github.com/SscSPs/admission_workflow_app/internal/core/domain"
	portsrepo "github.com/SscSPs/admission_workflow_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/admission_workflow_app/internal/core/ports/services"
	"github.com/SscSPs/admission_workflow_app/internal/dto"
	"github.com/SscSPs/admission_workflow_app/internal/utils/pagination"
)

// applicationService handles applicant-side management of applications.
type applicationService struct {
	BaseService
	repo      portsrepo.ApplicationRepositoryFacade
	validator portssvc.PayloadValidator
}

// NewApplicationService creates a new application service. validator may be nil, in which case payload
// content is not checked.
func NewApplicationService(repo portsrepo.ApplicationRepositoryFacade, validator portssvc.PayloadValidator, options ...ServiceOption) portssvc.ApplicationSvcFacade {
	return &applicationService{
		BaseService: newBaseService(options...),
		repo:        repo,
		validator:   validator,
	}
}

// Ensure applicationService implements the ApplicationSvcFacade interface
var _ portssvc.ApplicationSvcFacade = (*applicationService)(nil)

func (s *applicationService) validatePayload(ctx context.Context, payload domain.Payload) error {
	if s.validator == nil {
		return nil
	}
	if err := s.validator.ValidatePayload(payload); err != nil {
		s.LogWarn(ctx, err, "Payload failed validation")
		return err
	}
	return nil
}

func (s *applicationService) CreateDraft(ctx context.Context, actor domain.Actor, req dto.CreateApplicationRequest) (*domain.Application, error) {
	payload := req.ToDomain()
	if err := s.validatePayload(ctx, payload); err != nil {
		return nil, err
	}

	app := domain.NewDraft(s.newID(), actor.UserID, payload, s.now())
	if err := s.repo.CreateApplication(ctx, app); err != nil {
		s.LogError(ctx, err, "Failed to create application", slog.String("owner_id", actor.UserID))
		return nil, fmt.Errorf("failed to create application: %w", err)
	}

	s.LogInfo(ctx, "Application draft created",
		slog.String("application_id", app.ApplicationID),
		slog.String("owner_id", app.OwnerID))
	return app, nil
}

func (s *applicationService) GetApplication(ctx context.Context, applicationID string, actor domain.Actor) (*domain.Application, error) {
	app, err := s.repo.FindApplicationByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if !app.IsOwnedBy(actor.UserID) && !actor.IsReviewer() {
		s.LogWarn(ctx, apperrors.ErrForbidden, "Application read denied",
			slog.String("application_id", applicationID),
			slog.String("actor_id", actor.UserID))
		return nil, fmt.Errorf("%w: application %s belongs to another applicant", apperrors.ErrForbidden, applicationID)
	}
	return app, nil
}

// ListApplications returns the reviewer queue. Applicants only ever see their own applications.
func (s *applicationService) ListApplications(ctx context.Context, actor domain.Actor, params dto.ListApplicationsParams) (*dto.ListApplicationsResponse, error) {
	filter := portsrepo.ApplicationFilter{
		Limit:     pagination.ClampLimit(params.Limit),
		NextToken: params.NextToken,
	}
	if params.Status != "" {
		status := domain.ApplicationStatus(strings.ToUpper(strings.TrimSpace(params.Status)))
		if !status.IsValid() {
			return nil, fmt.Errorf("%w: unknown status %q", apperrors.ErrValidation, params.Status)
		}
		filter.Status = &status
	}
	switch {
	case !actor.IsReviewer():
		owner := actor.UserID
		filter.OwnerID = &owner
	case params.OwnerID != "":
		owner := params.OwnerID
		filter.OwnerID = &owner
	}
	if filter.NextToken != nil {
		if _, err := pagination.DecodeToken(*filter.NextToken); err != nil {
			return nil, err
		}
	}

	apps, next, err := s.repo.ListApplications(ctx, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to list applications", slog.String("actor_id", actor.UserID))
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	resp := dto.ToListApplicationsResponse(apps, next)
	return &resp, nil
}

func (s *applicationService) UpdatePayload(ctx context.Context, applicationID string, actor domain.Actor, req dto.UpdatePayloadRequest) (*domain.Application, error) {
	update := req.ToDomain()
	if err := s.validatePayload(ctx, update); err != nil {
		return nil, err
	}

	_, app, err := s.mutateApplication(ctx, s.repo, applicationID, func(app *domain.Application, now time.Time) error {
		return app.UpdatePayload(actor.UserID, update, now)
	})
	if err != nil {
		return nil, err
	}
	s.LogInfo(ctx, "Application payload updated",
		slog.String("application_id", applicationID),
		slog.String("actor_id", actor.UserID))
	return app, nil
}

func (s *applicationService) AttachDocument(ctx context.Context, applicationID string, actor domain.Actor, documentType domain.DocumentType, req dto.AttachDocumentRequest) (*domain.Application, error) {
	_, app, err := s.mutateApplication(ctx, s.repo, applicationID, func(app *domain.Application, now time.Time) error {
		if !app.IsOwnedBy(actor.UserID) {
			return fmt.Errorf("%w: only the owner can attach documents", apperrors.ErrForbidden)
		}
		return app.AttachDocument(documentType, req.FileRef, actor.UserID, now)
	})
	if err != nil {
		return nil, err
	}
	s.LogInfo(ctx, "Document attached",
		slog.String("application_id", applicationID),
		slog.String("document_type", string(documentType)),
		slog.Int("documents_total", app.DocumentCounts.Total))
	return app, nil
}
