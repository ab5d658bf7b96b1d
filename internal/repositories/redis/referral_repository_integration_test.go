//go:build integration

package redis_test

import (
	"context"
	"testing"

	portsrepo "github.com/SscSPs/admission_workflow_app/internal/core/ports/repositories"
	redisrepo "github.com/SscSPs/admission_workflow_app/internal/repositories/redis"
	"github.com/SscSPs/admission_workflow_app/internal/repositories/repotest"
	"github.com/SscSPs/admission_workflow_app/internal/testutil/containers"
	"github.com/stretchr/testify/require"
)

func TestRedisReferralCodeRepository(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	rc := containers.NewRedisContainer(t)

	repotest.ReferralCodeContract(t, func(t *testing.T) portsrepo.ReferralCodeRepositoryFacade {
		require.NoError(t, rc.FlushAll(context.Background()))
		return redisrepo.NewReferralCodeRepository(rc.Client)
	})
}
