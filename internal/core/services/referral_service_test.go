package services_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/SscSPs/admission_workflow_app/internal/apperrors"
	"github.com/SscSPs/admission_workflow_app/internal/core/domain"
	portssvc "github.com/SscSPs/admission_workflow_app/internal/core/ports/services"
	"github.com/SscSPs/admission_workflow_app/internal/core/referral"
	"github.com/SscSPs/admission_workflow_app/internal/core/services"
	"github.com/SscSPs/admission_workflow_app/internal/dto"
	"github.com/SscSPs/admission_workflow_app/internal/platform/metrics"
	"github.com/SscSPs/admission_workflow_app/internal/repositories/memory"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"golang.org/x/sync/errgroup"
)

// --- Test Suite ---
type ReferralServiceTestSuite struct {
	suite.Suite
	ctx     context.Context
	repo    *MockReferralRepository
	metrics *metrics.Metrics
	service portssvc.ReferralSvcFacade
}

func (suite *ReferralServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.repo = new(MockReferralRepository)
	suite.metrics = metrics.New(prometheus.NewRegistry())
	suite.service = services.NewReferralService(suite.repo, services.WithClock(fixedClock), services.WithMetrics(suite.metrics))
}

func (suite *ReferralServiceTestSuite) TestGenerateCode_ReturnsExistingBinding() {
	existing := &domain.ReferralBinding{Code: "neh78a24", AccountID: agent.UserID, RoleTag: referral.TagAgent, BoundAt: fixedNow}
	suite.repo.On("FindBindingByAccount", suite.ctx, agent.UserID).Return(existing, nil).Once()

	got, err := suite.service.GenerateCode(suite.ctx, agent, dto.GenerateReferralCodeRequest{DisplayName: "Neha"})

	suite.Require().NoError(err)
	suite.Equal(existing, got)
	suite.repo.AssertNotCalled(suite.T(), "BindCode", mock.Anything, mock.Anything)
}

func (suite *ReferralServiceTestSuite) TestGenerateCode_SkipsTakenCandidates() {
	suite.repo.On("FindBindingByAccount", suite.ctx, agent.UserID).Return(nil, apperrors.NewNotFoundError("none")).Once()
	suite.repo.On("BindCode", suite.ctx, mock.MatchedBy(func(b domain.ReferralBinding) bool { return b.Code == "neh78a24" })).
		Return(fmt.Errorf("%w: neh78a24", apperrors.ErrCodeAlreadyInUse)).Once()
	suite.repo.On("BindCode", suite.ctx, mock.MatchedBy(func(b domain.ReferralBinding) bool { return b.Code == "neh78a241" })).
		Return(nil).Once()

	got, err := suite.service.GenerateCode(suite.ctx, agent, dto.GenerateReferralCodeRequest{DisplayName: "Neha Verma", PhoneNumber: "98123 45678"})

	suite.Require().NoError(err)
	suite.Equal("neh78a241", got.Code)
	suite.Equal(agent.UserID, got.AccountID)
	suite.Equal(referral.TagAgent, got.RoleTag)
	suite.Equal(1.0, testutil.ToFloat64(suite.metrics.ReferralBinds.WithLabelValues("collision")))
	suite.Equal(1.0, testutil.ToFloat64(suite.metrics.ReferralBinds.WithLabelValues("bound")))
	suite.repo.AssertExpectations(suite.T())
}

func (suite *ReferralServiceTestSuite) TestGenerateCode_Exhausted() {
	suite.repo.On("FindBindingByAccount", suite.ctx, agent.UserID).Return(nil, apperrors.NewNotFoundError("none")).Once()
	suite.repo.On("BindCode", suite.ctx, mock.AnythingOfType("domain.ReferralBinding")).
		Return(apperrors.ErrCodeAlreadyInUse)

	got, err := suite.service.GenerateCode(suite.ctx, agent, dto.GenerateReferralCodeRequest{DisplayName: "Neha"})

	suite.Nil(got)
	suite.ErrorIs(err, apperrors.ErrCodeGenerationExhausted)
	suite.True(apperrors.IsInvariantFailure(err))
	suite.repo.AssertNumberOfCalls(suite.T(), "BindCode", 1+referral.MaxDeterministicAttempts+referral.MaxFallbackAttempts)
	suite.Equal(1.0, testutil.ToFloat64(suite.metrics.ReferralBinds.WithLabelValues("exhausted")))
}

func (suite *ReferralServiceTestSuite) TestGenerateCode_ConcurrentRequestForSameAccount() {
	winner := &domain.ReferralBinding{Code: "neh00a24", AccountID: agent.UserID, RoleTag: referral.TagAgent, BoundAt: fixedNow}
	suite.repo.On("FindBindingByAccount", suite.ctx, agent.UserID).Return(nil, apperrors.NewNotFoundError("none")).Once()
	suite.repo.On("BindCode", suite.ctx, mock.AnythingOfType("domain.ReferralBinding")).
		Return(fmt.Errorf("%w: account holds a code", apperrors.ErrDuplicate)).Once()
	suite.repo.On("FindBindingByAccount", suite.ctx, agent.UserID).Return(winner, nil).Once()

	got, err := suite.service.GenerateCode(suite.ctx, agent, dto.GenerateReferralCodeRequest{DisplayName: "Neha"})

	suite.Require().NoError(err)
	suite.Equal(winner, got)
}

func (suite *ReferralServiceTestSuite) TestGenerateCode_StoreError() {
	suite.repo.On("FindBindingByAccount", suite.ctx, agent.UserID).Return(nil, assert.AnError).Once()

	_, err := suite.service.GenerateCode(suite.ctx, agent, dto.GenerateReferralCodeRequest{DisplayName: "Neha"})

	suite.ErrorIs(err, assert.AnError)
	suite.Contains(err.Error(), "failed to look up referral code")
}

func (suite *ReferralServiceTestSuite) TestBind() {
	stored := &domain.ReferralBinding{Code: "promo2024", AccountID: agent.UserID, RoleTag: referral.TagAgent, BoundAt: fixedNow}
	suite.repo.On("BindCode", suite.ctx, domain.ReferralBinding{Code: "promo2024", AccountID: agent.UserID, RoleTag: referral.TagAgent, BoundAt: fixedNow}).
		Return(nil).Once()
	suite.repo.On("FindBindingByCode", suite.ctx, "promo2024").Return(stored, nil).Once()

	got, err := suite.service.Bind(suite.ctx, agent, " PROMO2024 ")

	suite.Require().NoError(err)
	suite.Equal(stored, got)
	suite.repo.AssertExpectations(suite.T())
}

func (suite *ReferralServiceTestSuite) TestBind_Errors() {
	_, err := suite.service.Bind(suite.ctx, agent, "no")
	suite.ErrorIs(err, apperrors.ErrValidation)

	suite.repo.On("BindCode", suite.ctx, mock.AnythingOfType("domain.ReferralBinding")).
		Return(fmt.Errorf("%w: promo2024", apperrors.ErrCodeAlreadyInUse)).Once()
	_, err = suite.service.Bind(suite.ctx, agent, "promo2024")
	suite.ErrorIs(err, apperrors.ErrCodeAlreadyInUse)
}

func (suite *ReferralServiceTestSuite) TestValidate() {
	suite.repo.On("FindBindingByCode", suite.ctx, "neh78a24").
		Return(&domain.ReferralBinding{Code: "neh78a24", AccountID: agent.UserID}, nil).Once()

	referrer, err := suite.service.Validate(suite.ctx, "NEH78A24")
	suite.Require().NoError(err)
	suite.Equal(agent.UserID, referrer)

	_, err = suite.service.Validate(suite.ctx, "!!")
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.repo.AssertNumberOfCalls(suite.T(), "FindBindingByCode", 1)
}

func TestReferralServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ReferralServiceTestSuite))
}

func TestGenerateCode_ConcurrentAccountsGetDistinctCodes(t *testing.T) {
	ctx := context.Background()
	svc := services.NewReferralService(memory.NewReferralCodeRepository(), services.WithClock(fixedClock))
	candidates := 1 + referral.MaxDeterministicAttempts + referral.MaxFallbackAttempts
	accounts := candidates + 3

	var (
		mu        sync.Mutex
		codes     = map[string]string{}
		exhausted int
		g         errgroup.Group
	)
	for i := 0; i < accounts; i++ {
		actor := domain.Actor{UserID: fmt.Sprintf("agent-%02d", i), Role: domain.ActorAgent}
		g.Go(func() error {
			b, err := svc.GenerateCode(ctx, actor, dto.GenerateReferralCodeRequest{DisplayName: "Neha Verma", PhoneNumber: "9812345678"})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				if other, dup := codes[b.Code]; dup {
					return fmt.Errorf("code %s bound to %s and %s", b.Code, other, actor.UserID)
				}
				codes[b.Code] = actor.UserID
			case apperrors.IsInvariantFailure(err):
				exhausted++
			default:
				return err
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	assert.Len(t, codes, candidates)
	assert.Equal(t, accounts-candidates, exhausted)
}
