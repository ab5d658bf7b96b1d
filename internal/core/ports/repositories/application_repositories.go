package repositories

import (
	"context"

	"github.com/SscSPs/admission_workflow_app/internal/core/domain"
)

// ApplicationFilter narrows a listing of applications.
type ApplicationFilter struct {
	Status    *domain.ApplicationStatus
	OwnerID   *string
	Limit     int
	NextToken *string
}

// ApplicationReader defines read operations for application aggregates
type ApplicationReader interface {
	// FindApplicationByID loads the whole aggregate, documents and history included.
	FindApplicationByID(ctx context.Context, applicationID string) (*domain.Application, error)

	// ListApplications returns a page of applications ordered by creation time, and a token for the next page.
	ListApplications(ctx context.Context, filter ApplicationFilter) ([]domain.Application, *string, error)
}

// ApplicationWriter defines write operations for application aggregates
type ApplicationWriter interface {
	// CreateApplication inserts a new aggregate at version 1.
	CreateApplication(ctx context.Context, app *domain.Application) error

	// UpdateApplication replaces the stored aggregate if it is still at app.Version, then bumps app.Version.
	// A stale version yields apperrors.ErrConcurrentModification; an application code that is already
	// used by another application yields apperrors.ErrDuplicate.
	UpdateApplication(ctx context.Context, app *domain.Application) error
}

// ApplicationRepositoryFacade combines all application repository interfaces
type ApplicationRepositoryFacade interface {
	ApplicationReader
	ApplicationWriter
}
