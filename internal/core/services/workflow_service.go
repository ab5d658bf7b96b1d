package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/admission_workflow_app/internal/apperrors"
	"github.com/SscSPs/admission_workflow_app/internal/core/domain"
	portsrepo "github.com/SscSPs/admission_workflow_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/admission_workflow_app/internal/core/ports/services"
	"github.com/SscSPs/admission_workflow_app/internal/core/referral"
	"github.com/SscSPs/admission_workflow_app/internal/core/rejection"
	"github.com/SscSPs/admission_workflow_app/internal/dto"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// workflowService drives applications through the admission state machine.
type workflowService struct {
	BaseService
	repo         portsrepo.ApplicationRepositoryFacade
	referrals    portssvc.ReferralReaderSvc
	requirements portssvc.DocumentRequirements
	notifier     portssvc.WorkflowNotifier
}

// NewWorkflowService creates a new workflow service. referrals, requirements and notifier may be nil:
// referral codes are then rejected, every attached document is required, and no events are emitted.
func NewWorkflowService(
	repo portsrepo.ApplicationRepositoryFacade,
	referrals portssvc.ReferralReaderSvc,
	requirements portssvc.DocumentRequirements,
	notifier portssvc.WorkflowNotifier,
	options ...ServiceOption,
) portssvc.WorkflowSvcFacade {
	return &workflowService{
		BaseService:  newBaseService(options...),
		repo:         repo,
		referrals:    referrals,
		requirements: requirements,
		notifier:     notifier,
	}
}

var _ portssvc.WorkflowSvcFacade = (*workflowService)(nil)

// transition runs one state change: span, guard, mutation, save, then notification of the committed
// result.
func (s *workflowService) transition(ctx context.Context, action domain.WorkflowAction, applicationID string, actor domain.Actor, fn applicationMutation) (*domain.Application, error) {
	ctx, span := s.tracer.Start(ctx, "workflow."+strings.ToLower(string(action)),
		trace.WithAttributes(
			attribute.String("application.id", applicationID),
			attribute.String("actor.id", actor.UserID),
			attribute.String("actor.role", string(actor.Role)),
		))
	defer span.End()
	start := time.Now()

	before, after, err := s.mutateApplication(ctx, s.repo, applicationID, fn)
	if err != nil {
		result := "rejected"
		if apperrors.IsInvariantFailure(err) {
			result = "invariant"
			span.SetStatus(codes.Error, "invariant failure")
		}
		span.RecordError(err)
		s.metrics.ObserveTransition(string(action), result, time.Since(start))
		if !apperrors.IsInvariantFailure(err) {
			s.LogWarn(ctx, err, "Workflow transition refused",
				slog.String("action", string(action)),
				slog.String("application_id", applicationID),
				slog.String("actor_id", actor.UserID))
		}
		return nil, err
	}
	s.metrics.ObserveTransition(string(action), "ok", time.Since(start))
	span.SetAttributes(
		attribute.String("application.from_status", string(before.Status)),
		attribute.String("application.to_status", string(after.Status)),
	)

	s.LogInfo(ctx, "Workflow transition committed",
		slog.String("action", string(action)),
		slog.String("application_id", applicationID),
		slog.String("actor_id", actor.UserID),
		slog.String("from_status", string(before.Status)),
		slog.String("to_status", string(after.Status)),
		slog.Int64("version", after.Version))

	if s.notifier != nil {
		s.notifier.Notify(ctx, s.workflowEvent(action, actor.UserID, before, after))
	}
	return after, nil
}

func requireReviewer(actor domain.Actor, action domain.WorkflowAction) error {
	if !actor.IsReviewer() {
		return fmt.Errorf("%w: only reviewers can %s applications", apperrors.ErrForbidden, strings.ToLower(string(action)))
	}
	return nil
}

// resolveReferral turns a supplied code into referral info. It runs before any state is touched.
func (s *workflowService) resolveReferral(ctx context.Context, actor domain.Actor, code *string) (*domain.ReferralInfo, error) {
	if code == nil || strings.TrimSpace(*code) == "" {
		return nil, nil
	}
	normalized := referral.Normalize(*code)
	if s.referrals == nil {
		return nil, fmt.Errorf("%w: referral code %s", apperrors.ErrNotFound, normalized)
	}
	referrerID, err := s.referrals.Validate(ctx, normalized)
	if err != nil {
		return nil, err
	}
	if referrerID == actor.UserID {
		return nil, fmt.Errorf("%w: an applicant cannot refer their own application", apperrors.ErrValidation)
	}
	return &domain.ReferralInfo{Code: normalized, ReferrerID: referrerID, AppliedAt: s.now()}, nil
}

func (s *workflowService) Submit(ctx context.Context, applicationID string, actor domain.Actor, req dto.SubmitApplicationRequest) (*domain.Application, error) {
	info, err := s.resolveReferral(ctx, actor, req.ReferralCode)
	if err != nil {
		s.LogWarn(ctx, err, "Referral code rejected on submit",
			slog.String("application_id", applicationID),
			slog.String("actor_id", actor.UserID))
		return nil, err
	}
	return s.transition(ctx, domain.ActionSubmit, applicationID, actor, func(app *domain.Application, now time.Time) error {
		code := ""
		if app.ApplicationCode == nil {
			code = s.newAppNo(now)
		}
		return app.Submit(actor.UserID, code, info, now)
	})
}

func (s *workflowService) BeginReview(ctx context.Context, applicationID string, reviewer domain.Actor) (*domain.Application, error) {
	if err := requireReviewer(reviewer, domain.ActionBeginReview); err != nil {
		return nil, err
	}
	return s.transition(ctx, domain.ActionBeginReview, applicationID, reviewer, func(app *domain.Application, now time.Time) error {
		return app.BeginReview(reviewer.UserID, now)
	})
}

func (s *workflowService) Approve(ctx context.Context, applicationID string, reviewer domain.Actor, req dto.ReviewActionRequest) (*domain.Application, error) {
	if err := requireReviewer(reviewer, domain.ActionApprove); err != nil {
		return nil, err
	}
	return s.transition(ctx, domain.ActionApprove, applicationID, reviewer, func(app *domain.Application, now time.Time) error {
		var required []domain.DocumentType
		if s.requirements != nil {
			var err error
			required, err = s.requirements.RequiredDocumentTypes(ctx, app)
			if err != nil {
				return fmt.Errorf("failed to resolve required documents: %w", err)
			}
		}
		return app.Approve(reviewer.UserID, required, req.Remarks, now)
	})
}

func (s *workflowService) Reject(ctx context.Context, applicationID string, reviewer domain.Actor, req dto.RejectApplicationRequest) (*domain.Application, error) {
	if err := requireReviewer(reviewer, domain.ActionReject); err != nil {
		return nil, err
	}
	reason, err := rejection.Resolve(req.ReasonCode)
	if err != nil {
		s.LogWarn(ctx, err, "Unknown rejection reason",
			slog.String("application_id", applicationID),
			slog.String("reason_code", req.ReasonCode))
		return nil, err
	}
	details, err := domain.NormalizeRejectionDetails(req.DetailInputs())
	if err != nil {
		return nil, err
	}
	return s.transition(ctx, domain.ActionReject, applicationID, reviewer, func(app *domain.Application, now time.Time) error {
		return app.Reject(reviewer.UserID, reason, strings.TrimSpace(req.Message), details, now)
	})
}

func (s *workflowService) Resubmit(ctx context.Context, applicationID string, actor domain.Actor, req dto.ResubmitApplicationRequest) (*domain.Application, error) {
	return s.transition(ctx, domain.ActionResubmit, applicationID, actor, func(app *domain.Application, now time.Time) error {
		return app.Resubmit(actor.UserID, req.Note, now)
	})
}

func (s *workflowService) Cancel(ctx context.Context, applicationID string, actor domain.Actor, req dto.CancelApplicationRequest) (*domain.Application, error) {
	return s.transition(ctx, domain.ActionCancel, applicationID, actor, func(app *domain.Application, now time.Time) error {
		return app.Cancel(actor, strings.TrimSpace(req.Reason), now)
	})
}

func (s *workflowService) AddAdminNote(ctx context.Context, applicationID string, reviewer domain.Actor, req dto.AddAdminNoteRequest) (*domain.Application, error) {
	if !reviewer.IsReviewer() {
		return nil, fmt.Errorf("%w: only reviewers can add admin notes", apperrors.ErrForbidden)
	}
	_, app, err := s.mutateApplication(ctx, s.repo, applicationID, func(app *domain.Application, now time.Time) error {
		return app.AddNote(reviewer.UserID, req.Note, now)
	})
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) && !apperrors.IsInvariantFailure(err) {
			s.LogWarn(ctx, err, "Admin note refused", slog.String("application_id", applicationID))
		}
		return nil, err
	}
	s.LogInfo(ctx, "Admin note added",
		slog.String("application_id", applicationID),
		slog.String("author_id", reviewer.UserID))
	return app, nil
}
