package domain_test

import (
	"testing"

	"github.com/SscSPs/admission_workflow_app/internal/apperrors"
	"github.com/SscSPs/admission_workflow_app/internal/core/domain"
	"github.com/SscSPs/admission_workflow_app/internal/core/rejection"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustReason(t *testing.T, id string) rejection.Entry {
	t.Helper()
	e, err := rejection.Resolve(id)
	require.NoError(t, err)
	return e
}

func TestNormalizeRejectionDetails(t *testing.T) {
	got, err := domain.NormalizeRejectionDetails([]domain.RejectionDetailInput{
		{Text: "  Photo is blurred "},
		{Issue: "Name differs", DocumentType: "Aadhar Card", ActionRequired: "Upload corrected card", Priority: "medium"},
		{Issue: "Minor", Priority: "LOW"},
	})
	require.NoError(t, err)

	assert.Equal(t, []domain.RejectionDetail{
		{Issue: "Photo is blurred", DocumentType: domain.DefaultDetailDocumentType, Priority: domain.PriorityHigh},
		{Issue: "Name differs", DocumentType: "Aadhar Card", ActionRequired: "Upload corrected card", Priority: domain.PriorityMedium},
		{Issue: "Minor", DocumentType: domain.DefaultDetailDocumentType, Priority: domain.PriorityLow},
	}, got)
}

func TestNormalizeRejectionDetails_Invalid(t *testing.T) {
	_, err := domain.NormalizeRejectionDetails([]domain.RejectionDetailInput{{Text: " "}})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = domain.NormalizeRejectionDetails([]domain.RejectionDetailInput{{Issue: "x", Priority: "urgent"}})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	got, err := domain.NormalizeRejectionDetails(nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestReject_VerificationFlagsFollowCategory(t *testing.T) {
	tests := []struct {
		reason string
		check  func(t *testing.T, f domain.VerificationFlags)
	}{
		{"MISSING_DOCUMENT", func(t *testing.T, f domain.VerificationFlags) {
			assert.False(t, f.Documents)
			assert.True(t, f.Academic)
		}},
		{"DOB_MISMATCH", func(t *testing.T, f domain.VerificationFlags) {
			assert.False(t, f.Personal)
			assert.False(t, f.Guardian)
			assert.True(t, f.Documents)
		}},
		{"INSUFFICIENT_MARKS", func(t *testing.T, f domain.VerificationFlags) {
			assert.False(t, f.Academic)
			assert.True(t, f.Personal)
		}},
		{"DUPLICATE_APPLICATION", func(t *testing.T, f domain.VerificationFlags) {
			assert.True(t, f.Documents && f.Personal && f.Academic && f.Guardian && f.Financial)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.reason, func(t *testing.T) {
			app := submittedApp(t)
			require.NoError(t, app.Reject(reviewerID, mustReason(t, tt.reason), "", nil, t0))
			tt.check(t, app.ReviewInfo.Verification)
			assert.False(t, app.ReviewInfo.OverallApproved)
		})
	}
}
