package repositories

import (
	"context"

	"github.com/SscSPs/admission_workflow_app/internal/core/domain"
)

// ReferralCodeReader defines read operations for referral code bindings
type ReferralCodeReader interface {
	// FindBindingByCode returns the binding for a normalized code, or apperrors.ErrNotFound.
	FindBindingByCode(ctx context.Context, code string) (*domain.ReferralBinding, error)

	// FindBindingByAccount returns the code bound to an account, or apperrors.ErrNotFound.
	FindBindingByAccount(ctx context.Context, accountID string) (*domain.ReferralBinding, error)
}

// ReferralCodeWriter defines write operations for referral code bindings
type ReferralCodeWriter interface {
	// BindCode atomically claims binding.Code for binding.AccountID. Rebinding the same pair is a no-op.
	// A code held by another account yields apperrors.ErrCodeAlreadyInUse; an account that already
	// holds a different code yields apperrors.ErrDuplicate.
	BindCode(ctx context.Context, binding domain.ReferralBinding) error
}

// ReferralCodeRepositoryFacade combines all referral repository interfaces
type ReferralCodeRepositoryFacade interface {
	ReferralCodeReader
	ReferralCodeWriter
}
