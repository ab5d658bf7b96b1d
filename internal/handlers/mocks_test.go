package handlers_test

import (
	"context"

	"github.com/SscSPs/admission_workflow_app/internal/core/domain"
	portssvc "github.com/SscSPs/admission_workflow_app/internal/core/ports/services"
	"github.com/SscSPs/admission_workflow_app/internal/dto"
	"github.com/stretchr/testify/mock"
)

// --- Mock ApplicationService ---
type MockApplicationService struct {
	mock.Mock
}

func appResult(args mock.Arguments) (*domain.Application, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Application), args.Error(1)
}

func (m *MockApplicationService) GetApplication(ctx context.Context, applicationID string, actor domain.Actor) (*domain.Application, error) {
	return appResult(m.Called(ctx, applicationID, actor))
}
func (m *MockApplicationService) ListApplications(ctx context.Context, actor domain.Actor, params dto.ListApplicationsParams) (*dto.ListApplicationsResponse, error) {
	args := m.Called(ctx, actor, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListApplicationsResponse), args.Error(1)
}
func (m *MockApplicationService) CreateDraft(ctx context.Context, actor domain.Actor, req dto.CreateApplicationRequest) (*domain.Application, error) {
	return appResult(m.Called(ctx, actor, req))
}
func (m *MockApplicationService) UpdatePayload(ctx context.Context, applicationID string, actor domain.Actor, req dto.UpdatePayloadRequest) (*domain.Application, error) {
	return appResult(m.Called(ctx, applicationID, actor, req))
}
func (m *MockApplicationService) AttachDocument(ctx context.Context, applicationID string, actor domain.Actor, documentType domain.DocumentType, req dto.AttachDocumentRequest) (*domain.Application, error) {
	return appResult(m.Called(ctx, applicationID, actor, documentType, req))
}

// --- Mock WorkflowService ---
type MockWorkflowService struct {
	mock.Mock
}

func (m *MockWorkflowService) Submit(ctx context.Context, applicationID string, actor domain.Actor, req dto.SubmitApplicationRequest) (*domain.Application, error) {
	return appResult(m.Called(ctx, applicationID, actor, req))
}
func (m *MockWorkflowService) BeginReview(ctx context.Context, applicationID string, reviewer domain.Actor) (*domain.Application, error) {
	return appResult(m.Called(ctx, applicationID, reviewer))
}
func (m *MockWorkflowService) Approve(ctx context.Context, applicationID string, reviewer domain.Actor, req dto.ReviewActionRequest) (*domain.Application, error) {
	return appResult(m.Called(ctx, applicationID, reviewer, req))
}
func (m *MockWorkflowService) Reject(ctx context.Context, applicationID string, reviewer domain.Actor, req dto.RejectApplicationRequest) (*domain.Application, error) {
	return appResult(m.Called(ctx, applicationID, reviewer, req))
}
func (m *MockWorkflowService) Resubmit(ctx context.Context, applicationID string, actor domain.Actor, req dto.ResubmitApplicationRequest) (*domain.Application, error) {
	return appResult(m.Called(ctx, applicationID, actor, req))
}
func (m *MockWorkflowService) Cancel(ctx context.Context, applicationID string, actor domain.Actor, req dto.CancelApplicationRequest) (*domain.Application, error) {
	return appResult(m.Called(ctx, applicationID, actor, req))
}
func (m *MockWorkflowService) AddAdminNote(ctx context.Context, applicationID string, reviewer domain.Actor, req dto.AddAdminNoteRequest) (*domain.Application, error) {
	return appResult(m.Called(ctx, applicationID, reviewer, req))
}

// --- Mock LedgerService ---
type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) SetDocumentStatus(ctx context.Context, applicationID string, documentType domain.DocumentType, reviewer domain.Actor, req dto.SetDocumentStatusRequest) (*domain.Application, error) {
	return appResult(m.Called(ctx, applicationID, documentType, reviewer, req))
}

// --- Mock ReferralService ---
type MockReferralService struct {
	mock.Mock
}

func (m *MockReferralService) GenerateCode(ctx context.Context, actor domain.Actor, req dto.GenerateReferralCodeRequest) (*domain.ReferralBinding, error) {
	args := m.Called(ctx, actor, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReferralBinding), args.Error(1)
}
func (m *MockReferralService) Bind(ctx context.Context, actor domain.Actor, code string) (*domain.ReferralBinding, error) {
	args := m.Called(ctx, actor, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReferralBinding), args.Error(1)
}
func (m *MockReferralService) Validate(ctx context.Context, code string) (string, error) {
	args := m.Called(ctx, code)
	return args.String(0), args.Error(1)
}

// Ensure mocks implement the interfaces
var (
	_ portssvc.ApplicationSvcFacade = (*MockApplicationService)(nil)
	_ portssvc.WorkflowSvcFacade    = (*MockWorkflowService)(nil)
	_ portssvc.LedgerSvcFacade      = (*MockLedgerService)(nil)
	_ portssvc.ReferralSvcFacade    = (*MockReferralService)(nil)
)
