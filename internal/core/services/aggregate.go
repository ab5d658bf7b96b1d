package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/admission_workflow_app/internal/apperrors"
	"github.com/SscSPs/admission_workflow_app/internal/core/domain"
	portsrepo "github.com/SscSPs/admission_workflow_app/internal/core/ports/repositories"
)

// applicationMutation is applied to a private copy of the aggregate. Returning an error discards the copy.
type applicationMutation func(app *domain.Application, now time.Time) error

// mutateApplication loads applicationID under the per-application guard, applies fn to a copy,
// verifies the aggregate and persists it with a version check. It returns the state before and after.
func (s *BaseService) mutateApplication(ctx context.Context, repo portsrepo.ApplicationRepositoryFacade, applicationID string, fn applicationMutation) (before, after *domain.Application, err error) {
	unlock := s.guard.Lock(applicationID)
	defer unlock()

	before, err = repo.FindApplicationByID(ctx, applicationID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to load application", slog.String("application_id", applicationID))
		}
		return nil, nil, err
	}

	app := before.Clone()
	now := s.now()
	if err := fn(app, now); err != nil {
		if apperrors.IsInvariantFailure(err) {
			s.LogError(ctx, err, "Application invariant violated during mutation",
				slog.String("application_id", applicationID),
				slog.String("status", string(before.Status)),
				slog.Int64("version", before.Version))
		}
		return before, nil, err
	}
	if err := app.CheckInvariants(); err != nil {
		s.LogError(ctx, err, "Application failed invariant check before save",
			slog.String("application_id", applicationID),
			slog.String("from_status", string(before.Status)),
			slog.String("to_status", string(app.Status)),
			slog.Any("document_counts", app.DocumentCounts))
		return before, nil, err
	}

	freshCode := before.ApplicationCode == nil && app.ApplicationCode != nil
	if err := s.persistApplication(ctx, repo, app, freshCode); err != nil {
		return before, nil, err
	}
	return before, app, nil
}

// persistApplication saves app. A freshly assigned application code that collides is redrawn a
// bounded number of times.
func (s *BaseService) persistApplication(ctx context.Context, repo portsrepo.ApplicationRepositoryFacade, app *domain.Application, freshCode bool) error {
	for attempt := 1; ; attempt++ {
		err := repo.UpdateApplication(ctx, app)
		if err == nil {
			return nil
		}
		if errors.Is(err, apperrors.ErrConcurrentModification) {
			s.LogError(ctx, err, "Application was modified concurrently",
				slog.String("application_id", app.ApplicationID),
				slog.Int64("version", app.Version))
			return err
		}
		if !freshCode || !errors.Is(err, apperrors.ErrDuplicate) {
			s.LogError(ctx, err, "Failed to save application", slog.String("application_id", app.ApplicationID))
			return fmt.Errorf("failed to save application %s: %w", app.ApplicationID, err)
		}
		if attempt == maxApplicationCodeAttempts {
			err = fmt.Errorf("%w: application code collided %d times: %v", apperrors.ErrInvariantViolation, attempt, err)
			s.LogError(ctx, err, "Could not allocate application code", slog.String("application_id", app.ApplicationID))
			return err
		}
		code := s.newAppNo(s.now())
		s.LogDebug(ctx, "Application code collided, drawing another", slog.String("application_id", app.ApplicationID))
		app.ApplicationCode = &code
	}
}

// workflowEvent describes the committed change from before to after.
func (s *BaseService) workflowEvent(action domain.WorkflowAction, actorID string, before, after *domain.Application) domain.WorkflowEvent {
	event := domain.WorkflowEvent{
		EventID:       s.newID(),
		Action:        action,
		ApplicationID: after.ApplicationID,
		OwnerID:       after.OwnerID,
		ActorID:       actorID,
		FromStatus:    before.Status,
		ToStatus:      after.Status,
		Version:       after.Version,
		OccurredAt:    after.LastUpdatedAt,
	}
	if after.ApplicationCode != nil {
		event.ApplicationCode = *after.ApplicationCode
	}
	return event
}
