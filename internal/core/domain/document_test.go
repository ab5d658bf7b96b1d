package domain_test

import (
	"testing"

	"github.com/SscSPs/admission_workflow_app/internal/apperrors"
	"github.com/SscSPs/admission_workflow_app/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttachDocument_ReplacesSameType(t *testing.T) {
	app := domain.NewDraft("app-1", ownerID, domain.Payload{}, t0)

	require.NoError(t, app.AttachDocument(domain.DocAadharCard, "files/v1.pdf", ownerID, t0))
	require.NoError(t, app.AttachDocument(domain.DocTenthMarksheet, "files/tenth.pdf", ownerID, t0))
	require.NoError(t, app.AttachDocument(domain.DocAadharCard, "files/v2.pdf", ownerID, t0))

	require.Len(t, app.Documents, 2)
	doc, ok := app.Document(domain.DocAadharCard)
	require.True(t, ok)
	assert.Equal(t, "files/v2.pdf", doc.FileRef)
	assert.Equal(t, domain.DocumentCounts{Total: 2, Pending: 2}, app.DocumentCounts)
}

func TestAttachDocument_Rejections(t *testing.T) {
	app := domain.NewDraft("app-1", ownerID, domain.Payload{}, t0)

	assert.ErrorIs(t, app.AttachDocument("PASSPORT", "files/p.pdf", ownerID, t0), apperrors.ErrValidation)
	assert.ErrorIs(t, app.AttachDocument(domain.DocPhotograph, "  ", ownerID, t0), apperrors.ErrValidation)

	sub := submittedApp(t)
	assert.ErrorIs(t, sub.AttachDocument(domain.DocOther, "files/o.pdf", ownerID, t0), apperrors.ErrInvalidTransition)
}

func TestAttachDocument_ReplacementAfterRejectionResetsReview(t *testing.T) {
	app := underReviewApp(t)
	require.NoError(t, app.SetDocumentStatus(domain.DocPhotograph, domain.DocumentRejected, reviewerID, "blurred", t0))
	reason := mustReason(t, "DOCUMENT_UNCLEAR")
	require.NoError(t, app.Reject(reviewerID, reason, "", nil, t0))

	require.NoError(t, app.AttachDocument(domain.DocPhotograph, "files/photo-v2.jpg", ownerID, t0))

	doc, _ := app.Document(domain.DocPhotograph)
	assert.Equal(t, domain.DocumentPending, doc.Status)
	assert.Nil(t, doc.ReviewedBy)
	assert.Nil(t, doc.ReviewedAt)
	assert.Empty(t, doc.Remarks)
	assert.Equal(t, domain.DocumentCounts{Total: 2, Pending: 2}, app.DocumentCounts)
}

func TestSetDocumentStatus_Recounts(t *testing.T) {
	app := underReviewApp(t)

	require.NoError(t, app.SetDocumentStatus(domain.DocAadharCard, domain.DocumentApproved, reviewerID, "", t0))
	assert.Equal(t, domain.DocumentCounts{Total: 2, Approved: 1, Pending: 1}, app.DocumentCounts)

	require.NoError(t, app.SetDocumentStatus(domain.DocPhotograph, domain.DocumentRejected, reviewerID, "cropped", t0))
	assert.Equal(t, domain.DocumentCounts{Total: 2, Approved: 1, Rejected: 1}, app.DocumentCounts)

	require.NoError(t, app.SetDocumentStatus(domain.DocPhotograph, domain.DocumentApproved, reviewerID, "", t0))
	assert.Equal(t, domain.DocumentCounts{Total: 2, Approved: 2}, app.DocumentCounts)

	doc, _ := app.Document(domain.DocPhotograph)
	require.NotNil(t, doc.ReviewedBy)
	assert.Equal(t, reviewerID, *doc.ReviewedBy)
	assert.NoError(t, app.CheckInvariants())
}

func TestSetDocumentStatus_Errors(t *testing.T) {
	app := submittedApp(t)

	assert.ErrorIs(t, app.SetDocumentStatus(domain.DocTenthMarksheet, domain.DocumentApproved, reviewerID, "", t0), apperrors.ErrDocumentNotFound)
	assert.ErrorIs(t, app.SetDocumentStatus(domain.DocAadharCard, "MAYBE", reviewerID, "", t0), apperrors.ErrValidation)

	draft := domain.NewDraft("app-2", ownerID, domain.Payload{}, t0)
	require.NoError(t, draft.AttachDocument(domain.DocAadharCard, "files/a.pdf", ownerID, t0))
	assert.ErrorIs(t, draft.SetDocumentStatus(domain.DocAadharCard, domain.DocumentApproved, reviewerID, "", t0), apperrors.ErrInvalidTransition)
}

func TestDocumentCounts_Verify(t *testing.T) {
	assert.NoError(t, domain.DocumentCounts{Total: 3, Approved: 1, Rejected: 1, Pending: 1}.Verify(3))
	assert.ErrorIs(t, domain.DocumentCounts{Total: 2, Approved: 2}.Verify(3), apperrors.ErrInvariantViolation)
	assert.ErrorIs(t, domain.DocumentCounts{Total: 3, Approved: 1}.Verify(3), apperrors.ErrInvariantViolation)
}

func TestParseDocumentType(t *testing.T) {
	tests := map[string]domain.DocumentType{
		"AADHAR_CARD":    domain.DocAadharCard,
		"aadhar card":    domain.DocAadharCard,
		"10th Marksheet": domain.DocTenthMarksheet,
		" photograph ":   domain.DocPhotograph,
	}
	for in, want := range tests {
		got, err := domain.ParseDocumentType(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := domain.ParseDocumentType("passport")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.Equal(t, "12th Marksheet", domain.DocTwelfthMarksheet.Label())
}
