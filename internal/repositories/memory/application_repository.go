// Package memory holds process-local repositories. They copy aggregates on the way in and out, so
// callers never share state with the store.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/SscSPs/admission_workflow_app/internal/apperrors"
	"github.com/SscSPs/admission_workflow_app/internal/core/domain"
	portsrepo "github.com/SscSPs/admission_workflow_app/internal/core/ports/repositories"
	"github.com/SscSPs/admission_workflow_app/internal/utils/pagination"
)

// ApplicationRepository stores application aggregates in a map.
type ApplicationRepository struct {
	mu    sync.RWMutex
	apps  map[string]*domain.Application
	codes map[string]string
}

func NewApplicationRepository() *ApplicationRepository {
	return &ApplicationRepository{
		apps:  make(map[string]*domain.Application),
		codes: make(map[string]string),
	}
}

var _ portsrepo.ApplicationRepositoryFacade = (*ApplicationRepository)(nil)

func (r *ApplicationRepository) CreateApplication(_ context.Context, app *domain.Application) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.apps[app.ApplicationID]; exists {
		return fmt.Errorf("%w: application %s", apperrors.ErrDuplicate, app.ApplicationID)
	}
	if err := r.claimCode(app); err != nil {
		return err
	}
	app.Version = 1
	r.apps[app.ApplicationID] = app.Clone()
	return nil
}

func (r *ApplicationRepository) UpdateApplication(_ context.Context, app *domain.Application) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.apps[app.ApplicationID]
	if !ok {
		return apperrors.NewNotFoundError("application " + app.ApplicationID)
	}
	if stored.Version != app.Version {
		return apperrors.NewConflictError(fmt.Sprintf("application %s is at version %d, not %d", app.ApplicationID, stored.Version, app.Version))
	}
	if err := r.claimCode(app); err != nil {
		return err
	}
	app.Version++
	r.apps[app.ApplicationID] = app.Clone()
	return nil
}

// claimCode reserves app's application code. Caller holds the write lock.
func (r *ApplicationRepository) claimCode(app *domain.Application) error {
	if app.ApplicationCode == nil {
		return nil
	}
	if owner, taken := r.codes[*app.ApplicationCode]; taken && owner != app.ApplicationID {
		return fmt.Errorf("%w: application code %s", apperrors.ErrDuplicate, *app.ApplicationCode)
	}
	r.codes[*app.ApplicationCode] = app.ApplicationID
	return nil
}

func (r *ApplicationRepository) FindApplicationByID(_ context.Context, applicationID string) (*domain.Application, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	app, ok := r.apps[applicationID]
	if !ok {
		return nil, apperrors.NewNotFoundError("application " + applicationID)
	}
	return app.Clone(), nil
}

func (r *ApplicationRepository) ListApplications(_ context.Context, filter portsrepo.ApplicationFilter) ([]domain.Application, *string, error) {
	var cursor *pagination.Cursor
	if filter.NextToken != nil && *filter.NextToken != "" {
		c, err := pagination.DecodeToken(*filter.NextToken)
		if err != nil {
			return nil, nil, err
		}
		cursor = &c
	}
	limit := pagination.ClampLimit(filter.Limit)

	r.mu.RLock()
	matched := make([]domain.Application, 0, len(r.apps))
	for _, app := range r.apps {
		if filter.Status != nil && app.Status != *filter.Status {
			continue
		}
		if filter.OwnerID != nil && app.OwnerID != *filter.OwnerID {
			continue
		}
		if cursor != nil && !cursor.After(app.CreatedAt, app.ApplicationID) {
			continue
		}
		matched = append(matched, *app.Clone())
	}
	r.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].ApplicationID < matched[j].ApplicationID
		}
		return matched[i].CreatedAt.Before(matched[j].CreatedAt)
	})

	if len(matched) <= limit {
		return matched, nil, nil
	}
	page := matched[:limit]
	last := page[len(page)-1]
	next := pagination.EncodeToken(last.CreatedAt, last.ApplicationID)
	return page, &next, nil
}
