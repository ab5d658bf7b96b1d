package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/admission_workflow_app/internal/apperrors"
)

// DocumentType identifies a kind of supporting document. At most one document per type is attached.
type DocumentType string

const (
	DocAadharCard           DocumentType = "AADHAR_CARD"
	DocPhotograph           DocumentType = "PHOTOGRAPH"
	DocTenthMarksheet       DocumentType = "TENTH_MARKSHEET"
	DocTwelfthMarksheet     DocumentType = "TWELFTH_MARKSHEET"
	DocTransferCertificate  DocumentType = "TRANSFER_CERTIFICATE"
	DocCasteCertificate     DocumentType = "CASTE_CERTIFICATE"
	DocIncomeCertificate    DocumentType = "INCOME_CERTIFICATE"
	DocMigrationCertificate DocumentType = "MIGRATION_CERTIFICATE"
	DocOther                DocumentType = "OTHER"
)

var documentTypeLabels = map[DocumentType]string{
	DocAadharCard:           "Aadhar Card",
	DocPhotograph:           "Photograph",
	DocTenthMarksheet:       "10th Marksheet",
	DocTwelfthMarksheet:     "12th Marksheet",
	DocTransferCertificate:  "Transfer Certificate",
	DocCasteCertificate:     "Caste Certificate",
	DocIncomeCertificate:    "Income Certificate",
	DocMigrationCertificate: "Migration Certificate",
	DocOther:                "Other",
}

// Label returns the display name of the document type.
func (t DocumentType) Label() string {
	if l, ok := documentTypeLabels[t]; ok {
		return l
	}
	return string(t)
}

// IsValid reports whether t is one of the known document types.
func (t DocumentType) IsValid() bool {
	_, ok := documentTypeLabels[t]
	return ok
}

// ParseDocumentType accepts either the enum value or the display label, case-insensitively.
func ParseDocumentType(s string) (DocumentType, error) {
	s = strings.TrimSpace(s)
	for t, label := range documentTypeLabels {
		if strings.EqualFold(s, string(t)) || strings.EqualFold(s, label) {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: unknown document type %q", apperrors.ErrValidation, s)
}

// DocumentStatus is the verification state of one document.
type DocumentStatus string

const (
	DocumentPending  DocumentStatus = "PENDING"
	DocumentApproved DocumentStatus = "APPROVED"
	DocumentRejected DocumentStatus = "REJECTED"
)

// IsValid reports whether s is a known document status.
func (s DocumentStatus) IsValid() bool {
	switch s {
	case DocumentPending, DocumentApproved, DocumentRejected:
		return true
	}
	return false
}

// Document is a supporting file attached to an application. The file itself lives in external storage;
// only the reference is kept here.
type Document struct {
	DocumentType DocumentType   `json:"documentType"`
	FileRef      string         `json:"fileRef"`
	Status       DocumentStatus `json:"status"`
	ReviewedBy   *string        `json:"reviewedBy,omitempty"`
	ReviewedAt   *time.Time     `json:"reviewedAt,omitempty"`
	Remarks      string         `json:"remarks,omitempty"`
	UploadedAt   time.Time      `json:"uploadedAt"`
}

// DocumentCounts is the aggregate view of the document ledger.
type DocumentCounts struct {
	Total    int `json:"total"`
	Approved int `json:"approved"`
	Rejected int `json:"rejected"`
	Pending  int `json:"pending"`
}

// CountDocuments recounts the aggregate from scratch.
func CountDocuments(docs []Document) DocumentCounts {
	c := DocumentCounts{Total: len(docs)}
	for _, d := range docs {
		switch d.Status {
		case DocumentApproved:
			c.Approved++
		case DocumentRejected:
			c.Rejected++
		case DocumentPending:
			c.Pending++
		}
	}
	return c
}

// Verify checks the aggregate against the number of documents it claims to describe.
func (c DocumentCounts) Verify(documents int) error {
	if c.Total != documents {
		return fmt.Errorf("%w: document total %d does not match %d documents", apperrors.ErrInvariantViolation, c.Total, documents)
	}
	if c.Approved+c.Rejected+c.Pending != c.Total {
		return fmt.Errorf("%w: document counts %d+%d+%d do not sum to total %d",
			apperrors.ErrInvariantViolation, c.Approved, c.Rejected, c.Pending, c.Total)
	}
	return nil
}

func (a *Application) documentIndex(t DocumentType) int {
	for i := range a.Documents {
		if a.Documents[i].DocumentType == t {
			return i
		}
	}
	return -1
}

// Document returns a copy of the document of type t.
func (a *Application) Document(t DocumentType) (Document, bool) {
	i := a.documentIndex(t)
	if i < 0 {
		return Document{}, false
	}
	return a.Documents[i], true
}

// recountDocuments recomputes the aggregate and verifies it. Every ledger mutation ends here.
func (a *Application) recountDocuments() error {
	counts := CountDocuments(a.Documents)
	if err := counts.Verify(len(a.Documents)); err != nil {
		return err
	}
	a.DocumentCounts = counts
	return nil
}

// AttachDocument adds a document or replaces the existing one of the same type. A replacement starts
// over as PENDING with no reviewer attribution.
func (a *Application) AttachDocument(t DocumentType, fileRef, actorID string, now time.Time) error {
	if !t.IsValid() {
		return fmt.Errorf("%w: unknown document type %q", apperrors.ErrValidation, t)
	}
	if strings.TrimSpace(fileRef) == "" {
		return fmt.Errorf("%w: file reference is required", apperrors.ErrValidation)
	}
	if !a.Status.AcceptsApplicantEdits() {
		return fmt.Errorf("%w: documents cannot be attached while application is %s", apperrors.ErrInvalidTransition, a.Status)
	}

	doc := Document{
		DocumentType: t,
		FileRef:      fileRef,
		Status:       DocumentPending,
		UploadedAt:   now,
	}
	if i := a.documentIndex(t); i >= 0 {
		a.Documents[i] = doc
	} else {
		a.Documents = append(a.Documents, doc)
	}
	if err := a.recountDocuments(); err != nil {
		return err
	}
	a.touch(actorID, now)
	return nil
}

// SetDocumentStatus records a reviewer's verdict on one document and recounts the ledger.
func (a *Application) SetDocumentStatus(t DocumentType, status DocumentStatus, reviewerID, remarks string, now time.Time) error {
	if !status.IsValid() {
		return fmt.Errorf("%w: unknown document status %q", apperrors.ErrValidation, status)
	}
	if a.Status != StatusSubmitted && a.Status != StatusUnderReview {
		return fmt.Errorf("%w: documents cannot be reviewed while application is %s", apperrors.ErrInvalidTransition, a.Status)
	}
	i := a.documentIndex(t)
	if i < 0 {
		return fmt.Errorf("%w: %s", apperrors.ErrDocumentNotFound, t)
	}

	reviewer := reviewerID
	reviewedAt := now
	a.Documents[i].Status = status
	a.Documents[i].ReviewedBy = &reviewer
	a.Documents[i].ReviewedAt = &reviewedAt
	a.Documents[i].Remarks = remarks

	if err := a.recountDocuments(); err != nil {
		return err
	}
	a.touch(reviewerID, now)
	return nil
}

// UnverifiedRequiredDocuments returns the required types that are missing or not APPROVED.
func (a *Application) UnverifiedRequiredDocuments(required []DocumentType) []DocumentType {
	var out []DocumentType
	for _, t := range required {
		d, ok := a.Document(t)
		if !ok || d.Status != DocumentApproved {
			out = append(out, t)
		}
	}
	return out
}
