package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/admission_workflow_app/internal/apperrors"
	"github.com/SscSPs/admission_workflow_app/internal/core/rejection"
)

// Defaults applied when a rejection detail leaves them out.
const (
	DefaultDetailDocumentType = "General"
	DefaultDetailPriority     = PriorityHigh
)

// DetailPriority ranks how urgently the applicant should act on a rejection detail.
type DetailPriority string

const (
	PriorityHigh   DetailPriority = "High"
	PriorityMedium DetailPriority = "Medium"
	PriorityLow    DetailPriority = "Low"
)

func parsePriority(s string) (DetailPriority, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return DefaultDetailPriority, nil
	case "high":
		return PriorityHigh, nil
	case "medium":
		return PriorityMedium, nil
	case "low":
		return PriorityLow, nil
	}
	return "", fmt.Errorf("%w: unknown priority %q", apperrors.ErrValidation, s)
}

// RejectionDetail is one structured problem the applicant has to fix.
type RejectionDetail struct {
	Issue          string         `json:"issue"`
	DocumentType   string         `json:"documentType"`
	ActionRequired string         `json:"actionRequired"`
	Priority       DetailPriority `json:"priority"`
}

// RejectionDetailInput is a detail as supplied by the reviewer. Text carries the string shorthand form.
type RejectionDetailInput struct {
	Text           string
	Issue          string
	DocumentType   string
	ActionRequired string
	Priority       string
}

// NormalizeRejectionDetails promotes shorthand entries and fills in defaults.
func NormalizeRejectionDetails(in []RejectionDetailInput) ([]RejectionDetail, error) {
	out := make([]RejectionDetail, 0, len(in))
	for i, d := range in {
		issue := strings.TrimSpace(d.Issue)
		if issue == "" {
			issue = strings.TrimSpace(d.Text)
		}
		if issue == "" {
			return nil, fmt.Errorf("%w: rejection detail %d has no issue", apperrors.ErrValidation, i)
		}
		docType := strings.TrimSpace(d.DocumentType)
		if docType == "" {
			docType = DefaultDetailDocumentType
		}
		priority, err := parsePriority(d.Priority)
		if err != nil {
			return nil, fmt.Errorf("rejection detail %d: %w", i, err)
		}
		out = append(out, RejectionDetail{
			Issue:          issue,
			DocumentType:   docType,
			ActionRequired: strings.TrimSpace(d.ActionRequired),
			Priority:       priority,
		})
	}
	return out, nil
}

// VerificationFlags records which payload sections the reviewer considers verified.
type VerificationFlags struct {
	Documents bool `json:"documentsVerified"`
	Personal  bool `json:"personalInfoVerified"`
	Academic  bool `json:"academicInfoVerified"`
	Guardian  bool `json:"guardianInfoVerified"`
	Financial bool `json:"financialInfoVerified"`
}

func allVerified() VerificationFlags {
	return VerificationFlags{Documents: true, Personal: true, Academic: true, Guardian: true, Financial: true}
}

// flagsForRejection clears the section the rejection category points at.
func flagsForRejection(c rejection.Category) VerificationFlags {
	f := allVerified()
	switch c {
	case rejection.CategoryDocument:
		f.Documents = false
	case rejection.CategoryPersonal:
		f.Personal = false
		f.Guardian = false
	case rejection.CategoryAcademic:
		f.Academic = false
	}
	return f
}

// ReviewInfo is the reviewer-facing outcome of the latest review.
type ReviewInfo struct {
	ReviewedBy        *string           `json:"reviewedBy,omitempty"`
	ReviewedAt        *time.Time        `json:"reviewedAt,omitempty"`
	RejectionReason   *string           `json:"rejectionReason,omitempty"`
	RejectionCategory string            `json:"rejectionCategory,omitempty"`
	RejectionMessage  string            `json:"rejectionMessage,omitempty"`
	RejectionDetails  []RejectionDetail `json:"rejectionDetails,omitempty"`
	CatalogVersion    string            `json:"catalogVersion,omitempty"`
	Verification      VerificationFlags `json:"verification"`
	OverallApproved   bool              `json:"overallApproved"`
	CanResubmit       bool              `json:"canResubmit"`
}

func (r ReviewInfo) clone() ReviewInfo {
	out := r
	if r.ReviewedBy != nil {
		v := *r.ReviewedBy
		out.ReviewedBy = &v
	}
	if r.ReviewedAt != nil {
		v := *r.ReviewedAt
		out.ReviewedAt = &v
	}
	if r.RejectionReason != nil {
		v := *r.RejectionReason
		out.RejectionReason = &v
	}
	out.RejectionDetails = append([]RejectionDetail(nil), r.RejectionDetails...)
	return out
}
