package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SscSPs/admission_workflow_app/internal/apperrors"
	"github.com/SscSPs/admission_workflow_app/internal/core/domain"
	portsrepo "github.com/SscSPs/admission_workflow_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/admission_workflow_app/internal/core/ports/services"
	"github.com/SscSPs/admission_workflow_app/internal/core/referral"
	"github.com/SscSPs/admission_workflow_app/internal/dto"
)

// referralService allocates and resolves referral codes. Uniqueness is enforced by the store's
// atomic BindCode; this service only walks the candidate sequence.
type referralService struct {
	BaseService
	repo portsrepo.ReferralCodeRepositoryFacade
}

func NewReferralService(repo portsrepo.ReferralCodeRepositoryFacade, options ...ServiceOption) portssvc.ReferralSvcFacade {
	return &referralService{BaseService: newBaseService(options...), repo: repo}
}

var _ portssvc.ReferralSvcFacade = (*referralService)(nil)

func (s *referralService) GenerateCode(ctx context.Context, actor domain.Actor, req dto.GenerateReferralCodeRequest) (*domain.ReferralBinding, error) {
	existing, err := s.repo.FindBindingByAccount(ctx, actor.UserID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		s.LogError(ctx, err, "Failed to look up referral code for account", slog.String("account_id", actor.UserID))
		return nil, fmt.Errorf("failed to look up referral code: %w", err)
	}

	tag, err := referral.RoleTagFor(actor.Role)
	if err != nil {
		return nil, err
	}
	now := s.now()
	year := req.Year
	if year == 0 {
		year = now.Year()
	}

	for attempt, code := range referral.Candidates(req.DisplayName, req.PhoneNumber, tag, year, now) {
		binding := domain.ReferralBinding{Code: code, AccountID: actor.UserID, RoleTag: tag, BoundAt: now}
		err := s.repo.BindCode(ctx, binding)
		switch {
		case err == nil:
			s.metrics.IncrementReferralBind("bound")
			s.LogInfo(ctx, "Referral code bound",
				slog.String("account_id", actor.UserID),
				slog.String("code", code),
				slog.Int("attempt", attempt))
			return &binding, nil
		case errors.Is(err, apperrors.ErrCodeAlreadyInUse):
			s.metrics.IncrementReferralBind("collision")
			s.LogDebug(ctx, "Referral code candidate taken", slog.String("code", code), slog.Int("attempt", attempt))
		case errors.Is(err, apperrors.ErrDuplicate):
			// A concurrent request for the same account won.
			return s.repo.FindBindingByAccount(ctx, actor.UserID)
		default:
			s.LogError(ctx, err, "Failed to bind referral code", slog.String("account_id", actor.UserID), slog.String("code", code))
			return nil, fmt.Errorf("failed to bind referral code: %w", err)
		}
	}

	s.metrics.IncrementReferralBind("exhausted")
	err = fmt.Errorf("%w: no free code for account %s after %d candidates",
		apperrors.ErrCodeGenerationExhausted, actor.UserID, 1+referral.MaxDeterministicAttempts+referral.MaxFallbackAttempts)
	s.LogError(ctx, err, "Referral code generation exhausted",
		slog.String("account_id", actor.UserID),
		slog.String("role_tag", tag))
	return nil, err
}

func (s *referralService) Bind(ctx context.Context, actor domain.Actor, code string) (*domain.ReferralBinding, error) {
	if err := referral.ValidateFormat(code); err != nil {
		return nil, err
	}
	tag, err := referral.RoleTagFor(actor.Role)
	if err != nil {
		return nil, err
	}
	binding := domain.ReferralBinding{Code: referral.Normalize(code), AccountID: actor.UserID, RoleTag: tag, BoundAt: s.now()}
	if err := s.repo.BindCode(ctx, binding); err != nil {
		switch {
		case errors.Is(err, apperrors.ErrCodeAlreadyInUse):
			s.metrics.IncrementReferralBind("collision")
			s.LogWarn(ctx, err, "Referral code already bound", slog.String("code", binding.Code))
			return nil, err
		case errors.Is(err, apperrors.ErrDuplicate):
			return nil, fmt.Errorf("%w: account already holds a referral code", apperrors.ErrDuplicate)
		}
		s.LogError(ctx, err, "Failed to bind referral code", slog.String("account_id", actor.UserID))
		return nil, fmt.Errorf("failed to bind referral code: %w", err)
	}
	s.metrics.IncrementReferralBind("bound")
	return s.repo.FindBindingByCode(ctx, binding.Code)
}

func (s *referralService) Validate(ctx context.Context, code string) (string, error) {
	if err := referral.ValidateFormat(code); err != nil {
		return "", fmt.Errorf("%w: referral code %q", apperrors.ErrNotFound, code)
	}
	binding, err := s.repo.FindBindingByCode(ctx, referral.Normalize(code))
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to resolve referral code")
		}
		return "", err
	}
	return binding.AccountID, nil
}
