package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/admission_workflow_app/internal/apperrors"
	"github.com/SscSPs/admission_workflow_app/internal/core/domain"
	portsrepo "github.com/SscSPs/admission_workflow_app/internal/core/ports/repositories"
	"github.com/SscSPs/admission_workflow_app/internal/models"
	"github.com/SscSPs/admission_workflow_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxReferralCodeRepository relies on the primary key on code and the unique constraint on
// account_id. A bind is a single INSERT ... ON CONFLICT DO NOTHING.
type PgxReferralCodeRepository struct {
	BaseRepository
}

func newPgxReferralCodeRepository(pool *pgxpool.Pool) *PgxReferralCodeRepository {
	return &PgxReferralCodeRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ReferralCodeRepositoryFacade = (*PgxReferralCodeRepository)(nil)

const referralSelectQuery = `SELECT code, account_id, role_tag, bound_at FROM referral_codes `

// querier is satisfied by both the pool and a transaction.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func findBinding(ctx context.Context, q querier, filter string, arg any) (*domain.ReferralBinding, error) {
	rows, err := q.Query(ctx, referralSelectQuery+filter, arg)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query referral codes", err)
	}
	m, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.ReferralCode])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("referral code for %v", arg))
		}
		return nil, apperrors.NewAppError(500, "failed to collect referral code row", err)
	}
	b := mapping.ToDomainReferralBinding(m)
	return &b, nil
}

func (r *PgxReferralCodeRepository) FindBindingByCode(ctx context.Context, code string) (*domain.ReferralBinding, error) {
	return findBinding(ctx, r.Pool, "WHERE code = $1", code)
}

func (r *PgxReferralCodeRepository) FindBindingByAccount(ctx context.Context, accountID string) (*domain.ReferralBinding, error) {
	return findBinding(ctx, r.Pool, "WHERE account_id = $1", accountID)
}

func (r *PgxReferralCodeRepository) BindCode(ctx context.Context, binding domain.ReferralBinding) (err error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = r.Rollback(ctx, tx)
		}
	}()

	m := mapping.ToModelReferralCode(binding)
	result, err := tx.Exec(ctx, `
		INSERT INTO referral_codes (code, account_id, role_tag, bound_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT DO NOTHING;
	`, m.Code, m.AccountID, m.RoleTag, m.BoundAt)
	if err != nil {
		return apperrors.NewAppError(500, "failed to bind referral code", err)
	}

	if result.RowsAffected() == 0 {
		existing, findErr := findBinding(ctx, tx, "WHERE code = $1", binding.Code)
		switch {
		case findErr == nil && existing.AccountID == binding.AccountID:
			// same pair, nothing to do
		case findErr == nil:
			return fmt.Errorf("%w: %s", apperrors.ErrCodeAlreadyInUse, binding.Code)
		case errors.Is(findErr, apperrors.ErrNotFound):
			return fmt.Errorf("%w: account %s already holds a referral code", apperrors.ErrDuplicate, binding.AccountID)
		default:
			return findErr
		}
	}

	return r.Commit(ctx, tx)
}
