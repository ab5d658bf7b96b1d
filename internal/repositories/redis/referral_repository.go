// Package redis keeps referral code bindings in Redis so several instances share one code namespace.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/admission_workflow_app/internal/apperrors"
	"github.com/SscSPs/admission_workflow_app/internal/core/domain"
	portsrepo "github.com/SscSPs/admission_workflow_app/internal/core/ports/repositories"
	"github.com/redis/go-redis/v9"
)

const (
	codeKeyPrefix    = "referral:code:"
	accountKeyPrefix = "referral:account:"
)

// Bind outcomes returned by bindScript.
const (
	bindOK       = 0
	bindCodeUsed = 1
	bindAccount  = 2
)

// bindScript claims KEYS[1] (code hash) and KEYS[2] (account pointer) in one step.
// ARGV: account id, code, role tag, bound at.
var bindScript = redis.NewScript(`
local holder = redis.call('HGET', KEYS[1], 'account_id')
if holder then
  if holder == ARGV[1] then
    return 0
  end
  return 1
end
if redis.call('EXISTS', KEYS[2]) == 1 then
  return 2
end
redis.call('HSET', KEYS[1], 'account_id', ARGV[1], 'role_tag', ARGV[3], 'bound_at', ARGV[4])
redis.call('SET', KEYS[2], ARGV[2])
return 0
`)

// ReferralCodeRepository is a Redis-backed referral registry. The bind is a Lua script, so the
// check and both writes execute atomically on the server. Both keys must live on one node.
type ReferralCodeRepository struct {
	client redis.UniversalClient
}

func NewReferralCodeRepository(client redis.UniversalClient) *ReferralCodeRepository {
	return &ReferralCodeRepository{client: client}
}

var _ portsrepo.ReferralCodeRepositoryFacade = (*ReferralCodeRepository)(nil)

func (r *ReferralCodeRepository) BindCode(ctx context.Context, binding domain.ReferralBinding) error {
	res, err := bindScript.Run(ctx, r.client,
		[]string{codeKeyPrefix + binding.Code, accountKeyPrefix + binding.AccountID},
		binding.AccountID, binding.Code, binding.RoleTag, binding.BoundAt.UTC().Format(time.RFC3339Nano),
	).Int()
	if err != nil {
		return apperrors.NewAppError(500, "failed to bind referral code", err)
	}
	switch res {
	case bindOK:
		return nil
	case bindCodeUsed:
		return fmt.Errorf("%w: %s", apperrors.ErrCodeAlreadyInUse, binding.Code)
	case bindAccount:
		return fmt.Errorf("%w: account %s already holds a referral code", apperrors.ErrDuplicate, binding.AccountID)
	}
	return apperrors.NewAppError(500, "unexpected referral bind result", fmt.Errorf("result %d", res))
}

func (r *ReferralCodeRepository) FindBindingByCode(ctx context.Context, code string) (*domain.ReferralBinding, error) {
	fields, err := r.client.HGetAll(ctx, codeKeyPrefix+code).Result()
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to read referral code", err)
	}
	if len(fields) == 0 {
		return nil, apperrors.NewNotFoundError("referral code " + code)
	}
	boundAt, err := time.Parse(time.RFC3339Nano, fields["bound_at"])
	if err != nil {
		return nil, apperrors.NewAppError(500, "corrupt referral code "+code, err)
	}
	return &domain.ReferralBinding{
		Code:      code,
		AccountID: fields["account_id"],
		RoleTag:   fields["role_tag"],
		BoundAt:   boundAt,
	}, nil
}

func (r *ReferralCodeRepository) FindBindingByAccount(ctx context.Context, accountID string) (*domain.ReferralBinding, error) {
	code, err := r.client.Get(ctx, accountKeyPrefix+accountID).Result()
	if errors.Is(err, redis.Nil) {
		return nil, apperrors.NewNotFoundError("referral code for account " + accountID)
	}
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to read referral account", err)
	}
	return r.FindBindingByCode(ctx, code)
}
