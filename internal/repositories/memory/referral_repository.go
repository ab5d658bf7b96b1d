package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/SscSPs/admission_workflow_app/internal/apperrors"
	"github.com/SscSPs/admission_workflow_app/internal/core/domain"
	portsrepo "github.com/SscSPs/admission_workflow_app/internal/core/ports/repositories"
)

// ReferralCodeRepository keeps referral bindings behind one mutex, which makes BindCode a single
// check-and-set.
type ReferralCodeRepository struct {
	mu        sync.Mutex
	byCode    map[string]domain.ReferralBinding
	byAccount map[string]string
}

func NewReferralCodeRepository() *ReferralCodeRepository {
	return &ReferralCodeRepository{
		byCode:    make(map[string]domain.ReferralBinding),
		byAccount: make(map[string]string),
	}
}

var _ portsrepo.ReferralCodeRepositoryFacade = (*ReferralCodeRepository)(nil)

func (r *ReferralCodeRepository) BindCode(_ context.Context, binding domain.ReferralBinding) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, taken := r.byCode[binding.Code]; taken {
		if existing.AccountID == binding.AccountID {
			return nil
		}
		return fmt.Errorf("%w: %s", apperrors.ErrCodeAlreadyInUse, binding.Code)
	}
	if code, has := r.byAccount[binding.AccountID]; has {
		return fmt.Errorf("%w: account %s already holds referral code %s", apperrors.ErrDuplicate, binding.AccountID, code)
	}
	r.byCode[binding.Code] = binding
	r.byAccount[binding.AccountID] = binding.Code
	return nil
}

func (r *ReferralCodeRepository) FindBindingByCode(_ context.Context, code string) (*domain.ReferralBinding, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.byCode[code]
	if !ok {
		return nil, apperrors.NewNotFoundError("referral code " + code)
	}
	return &b, nil
}

func (r *ReferralCodeRepository) FindBindingByAccount(_ context.Context, accountID string) (*domain.ReferralBinding, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	code, ok := r.byAccount[accountID]
	if !ok {
		return nil, apperrors.NewNotFoundError("referral code for account " + accountID)
	}
	b := r.byCode[code]
	return &b, nil
}
