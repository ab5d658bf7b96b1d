package services_test

import (
	"context"
	"sync"
	"time"

	"github.com/SscSPs/admission_workflow_app/internal/core/domain"
	portsrepo "github.com/SscSPs/admission_workflow_app/internal/core/ports/repositories"
	"github.com/SscSPs/admission_workflow_app/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// --- Mock ApplicationRepository ---
type MockApplicationRepository struct {
	mock.Mock
}

func (m *MockApplicationRepository) FindApplicationByID(ctx context.Context, applicationID string) (*domain.Application, error) {
	args := m.Called(ctx, applicationID)
	var app *domain.Application
	if args.Get(0) != nil {
		app = args.Get(0).(*domain.Application).Clone()
	}
	return app, args.Error(1)
}

func (m *MockApplicationRepository) ListApplications(ctx context.Context, filter portsrepo.ApplicationFilter) ([]domain.Application, *string, error) {
	args := m.Called(ctx, filter)
	var apps []domain.Application
	if args.Get(0) != nil {
		apps = args.Get(0).([]domain.Application)
	}
	var next *string
	if args.Get(1) != nil {
		next = args.Get(1).(*string)
	}
	return apps, next, args.Error(2)
}

func (m *MockApplicationRepository) CreateApplication(ctx context.Context, app *domain.Application) error {
	args := m.Called(ctx, app)
	return args.Error(0)
}

func (m *MockApplicationRepository) UpdateApplication(ctx context.Context, app *domain.Application) error {
	args := m.Called(ctx, app)
	return args.Error(0)
}

// --- Mock ReferralCodeRepository ---
type MockReferralRepository struct {
	mock.Mock
}

func (m *MockReferralRepository) BindCode(ctx context.Context, binding domain.ReferralBinding) error {
	args := m.Called(ctx, binding)
	return args.Error(0)
}

func (m *MockReferralRepository) FindBindingByCode(ctx context.Context, code string) (*domain.ReferralBinding, error) {
	args := m.Called(ctx, code)
	var b *domain.ReferralBinding
	if args.Get(0) != nil {
		b = args.Get(0).(*domain.ReferralBinding)
	}
	return b, args.Error(1)
}

func (m *MockReferralRepository) FindBindingByAccount(ctx context.Context, accountID string) (*domain.ReferralBinding, error) {
	args := m.Called(ctx, accountID)
	var b *domain.ReferralBinding
	if args.Get(0) != nil {
		b = args.Get(0).(*domain.ReferralBinding)
	}
	return b, args.Error(1)
}

// --- Mock PayloadValidator ---
type MockPayloadValidator struct {
	mock.Mock
}

func (m *MockPayloadValidator) ValidatePayload(payload domain.Payload) error {
	args := m.Called(payload)
	return args.Error(0)
}

// recordingNotifier keeps every event it is handed.
type recordingNotifier struct {
	mu     sync.Mutex
	events []domain.WorkflowEvent
}

func (n *recordingNotifier) Notify(_ context.Context, event domain.WorkflowEvent) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
}

func (n *recordingNotifier) actions() []domain.WorkflowAction {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]domain.WorkflowAction, len(n.events))
	for i, e := range n.events {
		out[i] = e.Action
	}
	return out
}

// --- Fixtures ---

var (
	fixedNow  = time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	applicant = domain.Actor{UserID: "applicant-1", Role: domain.ActorApplicant}
	reviewer  = domain.Actor{UserID: "reviewer-1", Role: domain.ActorReviewer}
	agent     = domain.Actor{UserID: "agent-1", Role: domain.ActorAgent}
)

func fixedClock() time.Time { return fixedNow }

func completePayloadRequest() dto.PayloadRequest {
	return dto.PayloadRequest{
		PersonalDetails: &domain.PersonalDetails{
			FullName:    "Aarav Sharma",
			DateOfBirth: time.Date(2006, 3, 14, 0, 0, 0, 0, time.UTC),
			Gender:      "MALE",
			Nationality: "Indian",
		},
		ContactDetails: &domain.ContactDetails{
			Email:       "aarav@example.com",
			Phone:       "9876543210",
			AddressLine: "12 MG Road",
			City:        "Pune",
			State:       "Maharashtra",
			PostalCode:  "411001",
		},
		CourseSelection:  &domain.CourseSelection{ProgramCode: "BSC01", ProgramName: "B.Sc. Physics", Session: "2024-25", Mode: "REGULAR"},
		GuardianDetails:  &domain.GuardianDetails{Name: "Ravi Sharma", Relation: "Father", Phone: "9876500000"},
		FinancialDetails: &domain.FinancialDetails{AnnualFamilyIncome: decimal.NewFromInt(450000), Currency: "INR"},
	}
}

// storedApp builds a DRAFT, SUBMITTED or UNDER_REVIEW aggregate as the store would return it.
func storedApp(status domain.ApplicationStatus) *domain.Application {
	app := domain.NewDraft("app-1", applicant.UserID, completePayloadRequest().ToDomain(), fixedNow)
	_ = app.AttachDocument(domain.DocAadharCard, "files/aadhar.pdf", applicant.UserID, fixedNow)
	app.Version = 2
	if status == domain.StatusDraft {
		return app
	}
	_ = app.Submit(applicant.UserID, "", nil, fixedNow)
	app.Version = 3
	if status == domain.StatusUnderReview {
		_ = app.BeginReview(reviewer.UserID, fixedNow)
		app.Version = 4
	}
	return app
}
