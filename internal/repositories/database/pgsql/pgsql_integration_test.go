//go:build integration

package pgsql_test

import (
	"context"
	"testing"

	portsrepo "github.com/SscSPs/admission_workflow_app/internal/core/ports/repositories"
	"github.com/SscSPs/admission_workflow_app/internal/repositories/database/pgsql"
	"github.com/SscSPs/admission_workflow_app/internal/repositories/repotest"
	"github.com/SscSPs/admission_workflow_app/internal/testutil/containers"
	"github.com/stretchr/testify/require"
)

const migrationsURL = "file://../../../../migrations"

func TestPostgresRepositories(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	pg := containers.NewPostgresContainer(t, migrationsURL)
	repos := pgsql.NewRepositoryProvider(pg.Pool)

	truncate := func(t *testing.T) {
		require.NoError(t, pg.TruncateTables(context.Background(), "applications", "referral_codes"))
	}

	t.Run("applications", func(t *testing.T) {
		repotest.ApplicationContract(t, func(t *testing.T) portsrepo.ApplicationRepositoryFacade {
			truncate(t)
			return repos.ApplicationRepo
		})
	})
	t.Run("referral codes", func(t *testing.T) {
		repotest.ReferralCodeContract(t, func(t *testing.T) portsrepo.ReferralCodeRepositoryFacade {
			truncate(t)
			return repos.ReferralRepo
		})
	})
}
