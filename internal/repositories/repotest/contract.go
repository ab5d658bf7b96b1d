// Package repotest holds behaviour checks every repository implementation must pass.
package repotest

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/SscSPs/admission_workflow_app/internal/apperrors"
	"github.com/SscSPs/admission_workflow_app/internal/core/domain"
	portsrepo "github.com/SscSPs/admission_workflow_app/internal/core/ports/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

// ReferralCodeContract checks bind semantics. fresh must return an empty store.
func ReferralCodeContract(t *testing.T, fresh func(t *testing.T) portsrepo.ReferralCodeRepositoryFacade) {
	t.Run("bind and find", func(t *testing.T) {
		ctx := context.Background()
		repo := fresh(t)
		binding := domain.ReferralBinding{Code: "neh78a24", AccountID: "agent-1", RoleTag: "a", BoundAt: t0}

		require.NoError(t, repo.BindCode(ctx, binding))
		require.NoError(t, repo.BindCode(ctx, binding))

		byCode, err := repo.FindBindingByCode(ctx, "neh78a24")
		require.NoError(t, err)
		assert.Equal(t, "agent-1", byCode.AccountID)
		assert.Equal(t, "a", byCode.RoleTag)
		assert.True(t, t0.Equal(byCode.BoundAt))

		byAccount, err := repo.FindBindingByAccount(ctx, "agent-1")
		require.NoError(t, err)
		assert.Equal(t, "neh78a24", byAccount.Code)
	})

	t.Run("conflicts", func(t *testing.T) {
		ctx := context.Background()
		repo := fresh(t)
		require.NoError(t, repo.BindCode(ctx, domain.ReferralBinding{Code: "neh78a24", AccountID: "agent-1", RoleTag: "a", BoundAt: t0}))

		err := repo.BindCode(ctx, domain.ReferralBinding{Code: "neh78a24", AccountID: "agent-2", RoleTag: "a", BoundAt: t0})
		assert.ErrorIs(t, err, apperrors.ErrCodeAlreadyInUse)

		err = repo.BindCode(ctx, domain.ReferralBinding{Code: "zzz00a24", AccountID: "agent-1", RoleTag: "a", BoundAt: t0})
		assert.ErrorIs(t, err, apperrors.ErrDuplicate)

		_, err = repo.FindBindingByCode(ctx, "zzz00a24")
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
		_, err = repo.FindBindingByAccount(ctx, "agent-2")
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})

	t.Run("concurrent binds of one code have one winner", func(t *testing.T) {
		ctx := context.Background()
		repo := fresh(t)
		const contenders = 20
		var (
			wins, inUse atomic.Int32
			wg          sync.WaitGroup
		)
		for i := 0; i < contenders; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				err := repo.BindCode(ctx, domain.ReferralBinding{Code: "hot00a24", AccountID: fmt.Sprintf("agent-%d", i), RoleTag: "a", BoundAt: t0})
				switch {
				case err == nil:
					wins.Add(1)
				case assert.ErrorIs(t, err, apperrors.ErrCodeAlreadyInUse):
					inUse.Add(1)
				}
			}()
		}
		wg.Wait()
		assert.Equal(t, int32(1), wins.Load())
		assert.Equal(t, int32(contenders-1), inUse.Load())
	})
}

// ApplicationContract checks aggregate persistence. fresh must return an empty store.
func ApplicationContract(t *testing.T, fresh func(t *testing.T) portsrepo.ApplicationRepositoryFacade) {
	t.Run("round trip", func(t *testing.T) {
		ctx := context.Background()
		repo := fresh(t)
		app := domain.NewDraft("0b6f1f9e-54a5-4e47-9fb5-0c1f2a000001", "owner-1", domain.Payload{
			Guardian: &domain.GuardianDetails{Name: "Ravi Sharma", Relation: "Father", Phone: "9876500000"},
		}, t0)
		require.NoError(t, app.AttachDocument(domain.DocAadharCard, "files/aadhar.pdf", "owner-1", t0))
		require.NoError(t, app.AddNote("reviewer-1", "checked", t0))
		require.NoError(t, repo.CreateApplication(ctx, app))
		assert.Equal(t, int64(1), app.Version)

		got, err := repo.FindApplicationByID(ctx, app.ApplicationID)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusDraft, got.Status)
		assert.Equal(t, domain.StageDraft, got.Stage)
		assert.Equal(t, "Ravi Sharma", got.Payload.Guardian.Name)
		assert.Nil(t, got.Payload.Personal)
		require.Len(t, got.Documents, 1)
		assert.Equal(t, domain.DocumentPending, got.Documents[0].Status)
		assert.Equal(t, domain.DocumentCounts{Total: 1, Pending: 1}, got.DocumentCounts)
		require.Len(t, got.AdminNotes, 1)
		assert.Empty(t, got.WorkflowHistory)
		assert.True(t, t0.Equal(got.CreatedAt))
		assert.Equal(t, int64(1), got.Version)
		assert.NoError(t, got.CheckInvariants())

		_, err = repo.FindApplicationByID(ctx, "0b6f1f9e-54a5-4e47-9fb5-0c1f2a00ffff")
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})

	t.Run("stale version", func(t *testing.T) {
		ctx := context.Background()
		repo := fresh(t)
		app := domain.NewDraft("0b6f1f9e-54a5-4e47-9fb5-0c1f2a000002", "owner-1", domain.Payload{}, t0)
		require.NoError(t, repo.CreateApplication(ctx, app))

		a, err := repo.FindApplicationByID(ctx, app.ApplicationID)
		require.NoError(t, err)
		b, err := repo.FindApplicationByID(ctx, app.ApplicationID)
		require.NoError(t, err)

		require.NoError(t, a.AddNote("r", "first", t0))
		require.NoError(t, repo.UpdateApplication(ctx, a))
		assert.Equal(t, int64(2), a.Version)

		require.NoError(t, b.AddNote("r", "second", t0))
		assert.ErrorIs(t, repo.UpdateApplication(ctx, b), apperrors.ErrConcurrentModification)
	})

	t.Run("application code unique", func(t *testing.T) {
		ctx := context.Background()
		repo := fresh(t)
		code := "ADM-24-CONTRA"
		ids := []string{"0b6f1f9e-54a5-4e47-9fb5-0c1f2a000003", "0b6f1f9e-54a5-4e47-9fb5-0c1f2a000004"}
		for _, id := range ids {
			require.NoError(t, repo.CreateApplication(ctx, domain.NewDraft(id, "owner-1", domain.Payload{}, t0)))
		}
		first, _ := repo.FindApplicationByID(ctx, ids[0])
		first.ApplicationCode = &code
		require.NoError(t, repo.UpdateApplication(ctx, first))

		second, _ := repo.FindApplicationByID(ctx, ids[1])
		second.ApplicationCode = &code
		assert.ErrorIs(t, repo.UpdateApplication(ctx, second), apperrors.ErrDuplicate)
	})

	t.Run("list pages in creation order", func(t *testing.T) {
		ctx := context.Background()
		repo := fresh(t)
		var want []string
		for i := 0; i < 3; i++ {
			id := fmt.Sprintf("0b6f1f9e-54a5-4e47-9fb5-0c1f2a0001%02d", i)
			want = append(want, id)
			require.NoError(t, repo.CreateApplication(ctx, domain.NewDraft(id, "owner-9", domain.Payload{}, t0.Add(time.Duration(i)*time.Second))))
		}
		owner := "owner-9"

		page, next, err := repo.ListApplications(ctx, portsrepo.ApplicationFilter{OwnerID: &owner, Limit: 2})
		require.NoError(t, err)
		require.Len(t, page, 2)
		require.NotNil(t, next)
		assert.Equal(t, want[:2], []string{page[0].ApplicationID, page[1].ApplicationID})

		page, next, err = repo.ListApplications(ctx, portsrepo.ApplicationFilter{OwnerID: &owner, Limit: 2, NextToken: next})
		require.NoError(t, err)
		require.Len(t, page, 1)
		assert.Nil(t, next)
		assert.Equal(t, want[2], page[0].ApplicationID)
	})
}
