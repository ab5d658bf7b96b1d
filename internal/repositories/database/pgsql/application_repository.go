package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/SscSPs/admission_workflow_app/internal/apperrors"
	"github.com/SscSPs/admission_workflow_app/internal/core/domain"
	portsrepo "github.com/SscSPs/admission_workflow_app/internal/core/ports/repositories"
	"github.com/SscSPs/admission_workflow_app/internal/models"
	"github.com/SscSPs/admission_workflow_app/internal/utils/mapping"
	"github.com/SscSPs/admission_workflow_app/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxApplicationRepository stores each application as one row with JSONB columns for its embedded
// collections.
type PgxApplicationRepository struct {
	BaseRepository
}

func newPgxApplicationRepository(pool *pgxpool.Pool) *PgxApplicationRepository {
	return &PgxApplicationRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ApplicationRepositoryFacade = (*PgxApplicationRepository)(nil)

const applicationCodeConstraint = "applications_application_code_key"

var FULL_APPLICATION_SELECT_QUERY = `
SELECT
	a.application_id, a.application_code, a.owner_id, a.status, a.stage,
	a.payload, a.documents, a.document_counts, a.review_info, a.workflow_history, a.admin_notes,
	a.referral_info, a.submitted_at, a.resubmission_count,
	a.created_at, a.created_by, a.last_updated_at, a.last_updated_by, a.version
FROM applications a
`

// getApplications private func to run the select query with filters
func (r *PgxApplicationRepository) getApplications(ctx context.Context, filterQuery string, args ...any) ([]domain.Application, error) {
	rows, err := r.Pool.Query(ctx, FULL_APPLICATION_SELECT_QUERY+filterQuery, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query applications", err)
	}
	defer rows.Close()

	modelApps, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Application])
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to collect application rows", err)
	}
	apps, err := mapping.ToDomainApplicationSlice(modelApps)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to decode application rows", err)
	}
	return apps, nil
}

func (r *PgxApplicationRepository) FindApplicationByID(ctx context.Context, applicationID string) (*domain.Application, error) {
	apps, err := r.getApplications(ctx, "WHERE a.application_id = $1", applicationID)
	if err != nil {
		return nil, err
	}
	if len(apps) == 0 {
		return nil, apperrors.NewNotFoundError("application " + applicationID)
	}
	return &apps[0], nil
}

func (r *PgxApplicationRepository) ListApplications(ctx context.Context, filter portsrepo.ApplicationFilter) ([]domain.Application, *string, error) {
	var (
		conditions []string
		args       []any
	)
	addArg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Status != nil {
		conditions = append(conditions, "a.status = "+addArg(string(*filter.Status)))
	}
	if filter.OwnerID != nil {
		conditions = append(conditions, "a.owner_id = "+addArg(*filter.OwnerID))
	}
	if filter.NextToken != nil && *filter.NextToken != "" {
		cursor, err := pagination.DecodeToken(*filter.NextToken)
		if err != nil {
			return nil, nil, err
		}
		conditions = append(conditions, fmt.Sprintf("(a.created_at, a.application_id) > (%s, %s)", addArg(cursor.CreatedAt), addArg(cursor.ID)))
	}

	limit := pagination.ClampLimit(filter.Limit)
	query := ""
	if len(conditions) > 0 {
		query = "WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY a.created_at, a.application_id LIMIT " + addArg(limit+1)

	apps, err := r.getApplications(ctx, query, args...)
	if err != nil {
		return nil, nil, err
	}
	if len(apps) <= limit {
		return apps, nil, nil
	}
	apps = apps[:limit]
	last := apps[len(apps)-1]
	next := pagination.EncodeToken(last.CreatedAt, last.ApplicationID)
	return apps, &next, nil
}

func (r *PgxApplicationRepository) CreateApplication(ctx context.Context, app *domain.Application) error {
	m, err := mapping.ToModelApplication(app)
	if err != nil {
		return apperrors.NewAppError(500, "failed to encode application "+app.ApplicationID, err)
	}
	query := `
		INSERT INTO applications (
			application_id, application_code, owner_id, status, stage,
			payload, documents, document_counts, review_info, workflow_history, admin_notes,
			referral_info, submitted_at, resubmission_count,
			created_at, created_by, last_updated_at, last_updated_by, version
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, 1);
	`
	_, err = r.Pool.Exec(ctx, query,
		m.ApplicationID, m.ApplicationCode, m.OwnerID, m.Status, m.Stage,
		m.Payload, m.Documents, m.DocumentCounts, m.ReviewInfo, m.WorkflowHistory, m.AdminNotes,
		m.ReferralInfo, m.SubmittedAt, m.ResubmissionCount,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return translateWriteError(err, app.ApplicationID)
	}
	app.Version = 1
	return nil
}

func (r *PgxApplicationRepository) UpdateApplication(ctx context.Context, app *domain.Application) error {
	m, err := mapping.ToModelApplication(app)
	if err != nil {
		return apperrors.NewAppError(500, "failed to encode application "+app.ApplicationID, err)
	}
	query := `
		UPDATE applications
		SET application_code = $2, status = $3, stage = $4,
			payload = $5, documents = $6, document_counts = $7, review_info = $8,
			workflow_history = $9, admin_notes = $10, referral_info = $11,
			submitted_at = $12, resubmission_count = $13,
			last_updated_at = $14, last_updated_by = $15, version = version + 1
		WHERE application_id = $1 AND version = $16;
	`
	result, err := r.Pool.Exec(ctx, query,
		m.ApplicationID, m.ApplicationCode, m.Status, m.Stage,
		m.Payload, m.Documents, m.DocumentCounts, m.ReviewInfo,
		m.WorkflowHistory, m.AdminNotes, m.ReferralInfo,
		m.SubmittedAt, m.ResubmissionCount,
		m.LastUpdatedAt, m.LastUpdatedBy, m.Version,
	)
	if err != nil {
		return translateWriteError(err, app.ApplicationID)
	}

	if result.RowsAffected() == 0 {
		var exists bool
		if err := r.Pool.QueryRow(ctx, "SELECT EXISTS (SELECT 1 FROM applications WHERE application_id = $1)", app.ApplicationID).Scan(&exists); err != nil {
			return apperrors.NewAppError(500, "failed to check application "+app.ApplicationID, err)
		}
		if !exists {
			return apperrors.NewNotFoundError("application " + app.ApplicationID)
		}
		return apperrors.NewConflictError(fmt.Sprintf("optimistic locking failed: application %s is no longer at version %d", app.ApplicationID, app.Version))
	}

	app.Version++
	return nil
}

func translateWriteError(err error, applicationID string) error {
	switch code, constraint := pgErrorCode(err); {
	case code == pgUniqueViolation && constraint == applicationCodeConstraint:
		return fmt.Errorf("%w: application code already used", apperrors.ErrDuplicate)
	case code == pgUniqueViolation:
		return fmt.Errorf("%w: application %s", apperrors.ErrDuplicate, applicationID)
	case code == pgCheckViolation:
		return fmt.Errorf("%w: row for application %s rejected by constraint %s", apperrors.ErrInvariantViolation, applicationID, constraint)
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return apperrors.NewAppError(500, "failed to write application "+applicationID, err)
}
