package domain_test

import (
	"testing"
	"time"

	"github.com/SscSPs/admission_workflow_app/internal/apperrors"
	"github.com/SscSPs/admission_workflow_app/internal/core/domain"
	"github.com/SscSPs/admission_workflow_app/internal/core/rejection"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	ownerID    = "applicant-1"
	reviewerID = "reviewer-1"
)

var t0 = time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

func fullPayload() domain.Payload {
	return domain.Payload{
		Personal: &domain.PersonalDetails{
			FullName:    "Aarav Sharma",
			DateOfBirth: time.Date(2006, 3, 14, 0, 0, 0, 0, time.UTC),
			Gender:      "MALE",
			Nationality: "Indian",
		},
		Contact: &domain.ContactDetails{
			Email:       "aarav@example.com",
			Phone:       "9876543210",
			AddressLine: "12 MG Road",
			City:        "Pune",
			State:       "Maharashtra",
			PostalCode:  "411001",
		},
		Course:   &domain.CourseSelection{ProgramCode: "BSC01", ProgramName: "B.Sc. Physics", Session: "2024-25", Mode: "REGULAR"},
		Guardian: &domain.GuardianDetails{Name: "Ravi Sharma", Relation: "Father", Phone: "9876500000"},
		Financial: &domain.FinancialDetails{
			AnnualFamilyIncome: decimal.NewFromInt(450000),
			Currency:           "INR",
		},
	}
}

// submittedApp returns an application with two documents that has just been submitted.
func submittedApp(t *testing.T) *domain.Application {
	t.Helper()
	app := domain.NewDraft("app-1", ownerID, fullPayload(), t0)
	require.NoError(t, app.AttachDocument(domain.DocAadharCard, "files/aadhar.pdf", ownerID, t0))
	require.NoError(t, app.AttachDocument(domain.DocPhotograph, "files/photo.jpg", ownerID, t0))
	require.NoError(t, app.Submit(ownerID, "ADM-24-000001", nil, t0.Add(time.Minute)))
	return app
}

func underReviewApp(t *testing.T) *domain.Application {
	t.Helper()
	app := submittedApp(t)
	require.NoError(t, app.BeginReview(reviewerID, t0.Add(2*time.Minute)))
	return app
}

func assertStagesPaired(t *testing.T, app *domain.Application) {
	t.Helper()
	stage, ok := domain.StageFor(app.Status)
	require.True(t, ok)
	assert.Equal(t, stage, app.Stage)
	for _, e := range app.WorkflowHistory {
		s, ok := domain.StageFor(e.Status)
		require.True(t, ok)
		assert.Equal(t, s, e.Stage, "history entry %s", e.Action)
	}
	assert.NoError(t, app.CheckInvariants())
}

func TestNewDraft(t *testing.T) {
	app := domain.NewDraft("app-1", ownerID, domain.Payload{}, t0)

	assert.Equal(t, domain.StatusDraft, app.Status)
	assert.Equal(t, domain.StageDraft, app.Stage)
	assert.Nil(t, app.ApplicationCode)
	assert.Empty(t, app.WorkflowHistory)
	assert.Equal(t, domain.DocumentCounts{}, app.DocumentCounts)
	assertStagesPaired(t, app)
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to domain.ApplicationStatus
		want     bool
	}{
		{domain.StatusDraft, domain.StatusSubmitted, true},
		{domain.StatusDraft, domain.StatusUnderReview, false},
		{domain.StatusSubmitted, domain.StatusUnderReview, true},
		{domain.StatusSubmitted, domain.StatusApproved, false},
		{domain.StatusSubmitted, domain.StatusRejected, true},
		{domain.StatusUnderReview, domain.StatusApproved, true},
		{domain.StatusUnderReview, domain.StatusRejected, true},
		{domain.StatusRejected, domain.StatusSubmitted, true},
		{domain.StatusRejected, domain.StatusCancelled, false},
		{domain.StatusApproved, domain.StatusRejected, false},
		{domain.StatusCancelled, domain.StatusDraft, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, domain.CanTransition(tt.from, tt.to))
		})
	}
	assert.True(t, domain.StatusApproved.IsTerminal())
	assert.True(t, domain.StatusCancelled.IsTerminal())
	assert.False(t, domain.StatusRejected.IsTerminal())
}

func TestSubmit_IncompleteListsMissingSections(t *testing.T) {
	payload := fullPayload()
	payload.Guardian = nil
	payload.Financial = nil
	app := domain.NewDraft("app-1", ownerID, payload, t0)

	err := app.Submit(ownerID, "ADM-24-000001", nil, t0)

	require.ErrorIs(t, err, apperrors.ErrIncompleteApplication)
	assert.Contains(t, err.Error(), "guardianDetails, financialDetails, documents")
	assert.Equal(t, domain.StatusDraft, app.Status)
	assert.Nil(t, app.ApplicationCode)
	assert.Empty(t, app.WorkflowHistory)
}

func TestSubmit_OnlyOwner(t *testing.T) {
	app := domain.NewDraft("app-1", ownerID, fullPayload(), t0)
	require.NoError(t, app.AttachDocument(domain.DocAadharCard, "files/aadhar.pdf", ownerID, t0))

	err := app.Submit("someone-else", "ADM-24-000001", nil, t0)

	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	assert.Equal(t, domain.StatusDraft, app.Status)
}

func TestSubmit_AssignsCodeAndReferral(t *testing.T) {
	app := domain.NewDraft("app-1", ownerID, fullPayload(), t0)
	require.NoError(t, app.AttachDocument(domain.DocAadharCard, "files/aadhar.pdf", ownerID, t0))
	ref := &domain.ReferralInfo{Code: "nee10a24", ReferrerID: "agent-1", AppliedAt: t0}

	require.NoError(t, app.Submit(ownerID, "ADM-24-000001", ref, t0))

	require.NotNil(t, app.ApplicationCode)
	assert.Equal(t, "ADM-24-000001", *app.ApplicationCode)
	require.NotNil(t, app.ReferralInfo)
	assert.Equal(t, "agent-1", app.ReferralInfo.ReferrerID)
	require.NotNil(t, app.SubmittedAt)
	require.Len(t, app.WorkflowHistory, 1)
	assert.Equal(t, domain.ActionSubmit, app.WorkflowHistory[0].Action)
	assertStagesPaired(t, app)
}

func TestApprove_RequiresApprovedDocuments(t *testing.T) {
	app := underReviewApp(t)
	require.NoError(t, app.SetDocumentStatus(domain.DocAadharCard, domain.DocumentApproved, reviewerID, "", t0))

	err := app.Approve(reviewerID, nil, "", t0)

	require.ErrorIs(t, err, apperrors.ErrDocumentsNotVerified)
	assert.Contains(t, err.Error(), string(domain.DocPhotograph))
	assert.Equal(t, domain.StatusUnderReview, app.Status)
	assert.Len(t, app.WorkflowHistory, 2)
}

func TestApprove_RequiredSubsetOnly(t *testing.T) {
	app := underReviewApp(t)
	require.NoError(t, app.SetDocumentStatus(domain.DocAadharCard, domain.DocumentApproved, reviewerID, "", t0))

	require.NoError(t, app.Approve(reviewerID, []domain.DocumentType{domain.DocAadharCard}, "looks good", t0))

	assert.Equal(t, domain.StatusApproved, app.Status)
	assert.True(t, app.ReviewInfo.OverallApproved)
	assert.False(t, app.ReviewInfo.CanResubmit)
	require.NotNil(t, app.ReviewInfo.ReviewedBy)
	assert.Equal(t, reviewerID, *app.ReviewInfo.ReviewedBy)
	assert.Equal(t, "looks good", app.WorkflowHistory[len(app.WorkflowHistory)-1].Remarks)
	assertStagesPaired(t, app)
}

func TestApprove_MissingRequiredDocument(t *testing.T) {
	app := underReviewApp(t)
	require.NoError(t, app.SetDocumentStatus(domain.DocAadharCard, domain.DocumentApproved, reviewerID, "", t0))
	require.NoError(t, app.SetDocumentStatus(domain.DocPhotograph, domain.DocumentApproved, reviewerID, "", t0))

	err := app.Approve(reviewerID, []domain.DocumentType{domain.DocTenthMarksheet}, "", t0)

	require.ErrorIs(t, err, apperrors.ErrDocumentsNotVerified)
	assert.Contains(t, err.Error(), string(domain.DocTenthMarksheet))
}

func TestApprove_FromSubmittedIsInvalid(t *testing.T) {
	app := submittedApp(t)

	err := app.Approve(reviewerID, nil, "", t0)

	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
	assert.Equal(t, domain.StatusSubmitted, app.Status)
}

func TestRejectAndResubmit(t *testing.T) {
	app := underReviewApp(t)
	reason, err := rejection.Resolve("document_unclear")
	require.NoError(t, err)
	details, err := domain.NormalizeRejectionDetails([]domain.RejectionDetailInput{{Text: "Photo is blurred"}})
	require.NoError(t, err)

	require.NoError(t, app.Reject(reviewerID, reason, "Please re-upload", details, t0.Add(3*time.Minute)))

	assert.Equal(t, domain.StatusRejected, app.Status)
	assert.Equal(t, domain.StageRejected, app.Stage)
	require.NotNil(t, app.ReviewInfo.RejectionReason)
	assert.Equal(t, "DOCUMENT_UNCLEAR", *app.ReviewInfo.RejectionReason)
	assert.Equal(t, string(rejection.CategoryDocument), app.ReviewInfo.RejectionCategory)
	assert.Equal(t, rejection.CatalogVersion, app.ReviewInfo.CatalogVersion)
	assert.False(t, app.ReviewInfo.Verification.Documents)
	assert.True(t, app.ReviewInfo.Verification.Personal)
	assert.True(t, app.ReviewInfo.CanResubmit)

	require.NoError(t, app.Resubmit(ownerID, "", t0.Add(4*time.Minute)))

	assert.Equal(t, domain.StatusSubmitted, app.Status)
	require.Len(t, app.WorkflowHistory, 4)
	assert.Equal(t, []domain.WorkflowAction{domain.ActionSubmit, domain.ActionBeginReview, domain.ActionReject, domain.ActionResubmit},
		[]domain.WorkflowAction{app.WorkflowHistory[0].Action, app.WorkflowHistory[1].Action, app.WorkflowHistory[2].Action, app.WorkflowHistory[3].Action})
	require.Len(t, app.AdminNotes, 1)
	assert.Equal(t, domain.NoteKindResubmission, app.AdminNotes[0].Kind)
	assert.Equal(t, domain.DefaultResubmissionNote, app.AdminNotes[0].Note)
	assert.Equal(t, 1, app.ResubmissionCount)
	assert.False(t, app.ReviewInfo.CanResubmit)
	require.NotNil(t, app.ReviewInfo.RejectionReason, "rejection stays on record")
	assert.Equal(t, "ADM-24-000001", *app.ApplicationCode)
	assertStagesPaired(t, app)
}

func TestResubmit_OwnershipCheckedFirst(t *testing.T) {
	app := submittedApp(t)

	assert.ErrorIs(t, app.Resubmit("someone-else", "", t0), apperrors.ErrForbidden)
	assert.ErrorIs(t, app.Resubmit(ownerID, "", t0), apperrors.ErrInvalidTransition)
}

func TestReject_FromSubmitted(t *testing.T) {
	app := submittedApp(t)
	reason, err := rejection.Resolve("MISSING_DOCUMENT")
	require.NoError(t, err)

	require.NoError(t, app.Reject(reviewerID, reason, "Aadhar card not uploaded", nil, t0.Add(time.Minute)))

	assert.Equal(t, domain.StatusRejected, app.Status)
	assert.Equal(t, domain.StageRejected, app.Stage)
	assert.True(t, app.ReviewInfo.CanResubmit)
	require.Len(t, app.WorkflowHistory, 2)
	assert.Equal(t, domain.ActionSubmit, app.WorkflowHistory[0].Action)
	assert.Equal(t, domain.ActionReject, app.WorkflowHistory[1].Action)
	assertStagesPaired(t, app)
}

func TestCancel(t *testing.T) {
	t.Run("owner cancels draft", func(t *testing.T) {
		app := domain.NewDraft("app-1", ownerID, domain.Payload{}, t0)
		require.NoError(t, app.Cancel(domain.Actor{UserID: ownerID, Role: domain.ActorApplicant}, "changed my mind", t0))
		assert.Equal(t, domain.StatusCancelled, app.Status)
		assert.Equal(t, domain.StageCancelled, app.Stage)
	})
	t.Run("reviewer cancels under review", func(t *testing.T) {
		app := underReviewApp(t)
		require.NoError(t, app.Cancel(domain.Actor{UserID: reviewerID, Role: domain.ActorReviewer}, "", t0))
		assert.Equal(t, domain.StatusCancelled, app.Status)
	})
	t.Run("stranger forbidden", func(t *testing.T) {
		app := submittedApp(t)
		err := app.Cancel(domain.Actor{UserID: "x", Role: domain.ActorApplicant}, "", t0)
		assert.ErrorIs(t, err, apperrors.ErrForbidden)
	})
	t.Run("rejected cannot be cancelled", func(t *testing.T) {
		app := underReviewApp(t)
		reason, _ := rejection.Resolve("OTHER")
		require.NoError(t, app.Reject(reviewerID, reason, "", nil, t0))
		err := app.Cancel(domain.Actor{UserID: ownerID, Role: domain.ActorApplicant}, "", t0)
		assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
		assert.Equal(t, domain.StatusRejected, app.Status)
	})
}

func TestWorkflowHistory_IsAppendOnly(t *testing.T) {
	app := domain.NewDraft("app-1", ownerID, fullPayload(), t0)
	require.NoError(t, app.AttachDocument(domain.DocAadharCard, "files/aadhar.pdf", ownerID, t0))
	reason, _ := rejection.Resolve("NAME_MISMATCH")

	steps := []func() error{
		func() error { return app.Submit(ownerID, "ADM-24-000001", nil, t0) },
		func() error { return app.BeginReview(reviewerID, t0) },
		func() error { return app.Approve(reviewerID, nil, "", t0) }, // refused, document pending
		func() error { return app.Reject(reviewerID, reason, "name differs", nil, t0) },
		func() error { return app.Resubmit(ownerID, "fixed spelling", t0) },
		func() error { return app.BeginReview(reviewerID, t0) },
	}
	for i, step := range steps {
		prefix := append([]domain.WorkflowEntry(nil), app.WorkflowHistory...)
		_ = step()
		require.GreaterOrEqual(t, len(app.WorkflowHistory), len(prefix), "step %d", i)
		assert.Equal(t, prefix, app.WorkflowHistory[:len(prefix)], "step %d rewrote history", i)
	}
	assert.Len(t, app.WorkflowHistory, 5)
	assertStagesPaired(t, app)
}

func TestAddNote(t *testing.T) {
	app := submittedApp(t)
	history := len(app.WorkflowHistory)

	require.NoError(t, app.AddNote(reviewerID, "  call guardian  ", t0))
	assert.ErrorIs(t, app.AddNote(reviewerID, " ", t0), apperrors.ErrValidation)

	require.Len(t, app.AdminNotes, 1)
	assert.Equal(t, "call guardian", app.AdminNotes[0].Note)
	assert.Equal(t, domain.NoteKindNote, app.AdminNotes[0].Kind)
	assert.Len(t, app.WorkflowHistory, history)
}

func TestUpdatePayload(t *testing.T) {
	app := domain.NewDraft("app-1", ownerID, domain.Payload{}, t0)
	update := fullPayload()

	require.NoError(t, app.UpdatePayload(ownerID, domain.Payload{Contact: update.Contact}, t0.Add(time.Hour)))
	assert.NotNil(t, app.Payload.Contact)
	assert.Nil(t, app.Payload.Personal)
	assert.Equal(t, t0.Add(time.Hour), app.LastUpdatedAt)

	assert.ErrorIs(t, app.UpdatePayload("x", update, t0), apperrors.ErrForbidden)

	sub := submittedApp(t)
	assert.ErrorIs(t, sub.UpdatePayload(ownerID, update, t0), apperrors.ErrInvalidTransition)
}

func TestCheckInvariants_DetectsCorruption(t *testing.T) {
	t.Run("stage mismatch", func(t *testing.T) {
		app := submittedApp(t)
		app.Stage = domain.StageApproved
		assert.ErrorIs(t, app.CheckInvariants(), apperrors.ErrInvariantViolation)
	})
	t.Run("stale counts", func(t *testing.T) {
		app := submittedApp(t)
		app.DocumentCounts.Approved++
		assert.ErrorIs(t, app.CheckInvariants(), apperrors.ErrInvariantViolation)
	})
	t.Run("unknown status", func(t *testing.T) {
		app := submittedApp(t)
		app.Status = "ARCHIVED"
		assert.ErrorIs(t, app.CheckInvariants(), apperrors.ErrInvariantViolation)
	})
}

func TestClone_IsIndependent(t *testing.T) {
	app := underReviewApp(t)
	clone := app.Clone()

	require.NoError(t, clone.SetDocumentStatus(domain.DocAadharCard, domain.DocumentApproved, reviewerID, "ok", t0))
	require.NoError(t, clone.AddNote(reviewerID, "note", t0))
	*clone.ApplicationCode = "ADM-24-ZZZZZZ"
	clone.Payload.Contact.City = "Mumbai"

	assert.Equal(t, domain.DocumentPending, app.Documents[0].Status)
	assert.Empty(t, app.AdminNotes)
	assert.Equal(t, "ADM-24-000001", *app.ApplicationCode)
	assert.Equal(t, "Pune", app.Payload.Contact.City)
	assert.Equal(t, 0, app.DocumentCounts.Approved)
}
