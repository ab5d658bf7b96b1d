package pgsql

import (
	portsrepo "github.com/SscSPs/admission_workflow_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		ApplicationRepo: newPgxApplicationRepository(dbPool),
		ReferralRepo:    newPgxReferralCodeRepository(dbPool),
	}
}
