package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/SscSPs/admission_workflow_app/internal/core/domain"
)

// --- Application request DTOs ---

// PayloadRequest carries any subset of payload sections. Absent sections are left untouched.
type PayloadRequest struct {
	PersonalDetails  *domain.PersonalDetails  `json:"personalDetails"`
	ContactDetails   *domain.ContactDetails   `json:"contactDetails"`
	CourseSelection  *domain.CourseSelection  `json:"courseSelection"`
	GuardianDetails  *domain.GuardianDetails  `json:"guardianDetails"`
	FinancialDetails *domain.FinancialDetails `json:"financialDetails"`
}

// ToDomain converts the request into a domain payload.
func (r PayloadRequest) ToDomain() domain.Payload {
	return domain.Payload{
		Personal:  r.PersonalDetails,
		Contact:   r.ContactDetails,
		Course:    r.CourseSelection,
		Guardian:  r.GuardianDetails,
		Financial: r.FinancialDetails,
	}
}

// CreateApplicationRequest starts a new draft, optionally pre-filled.
type CreateApplicationRequest struct {
	PayloadRequest
}

// UpdatePayloadRequest overwrites the supplied payload sections of a draft.
type UpdatePayloadRequest struct {
	PayloadRequest
}

// AttachDocumentRequest points at a file already stored by the upload service.
type AttachDocumentRequest struct {
	FileRef string `json:"fileRef" binding:"required"`
}

// SubmitApplicationRequest submits a draft, optionally attributing it to a referral code.
type SubmitApplicationRequest struct {
	ReferralCode *string `json:"referralCode"`
}

// ReviewActionRequest carries optional reviewer remarks.
type ReviewActionRequest struct {
	Remarks string `json:"remarks"`
}

// SetDocumentStatusRequest records a verdict on one document.
type SetDocumentStatusRequest struct {
	Status  domain.DocumentStatus `json:"status" binding:"required,oneof=PENDING APPROVED REJECTED"`
	Remarks string                `json:"remarks"`
}

// RejectionDetailRequest accepts either a bare string or a structured object.
type RejectionDetailRequest struct {
	domain.RejectionDetailInput
}

// UnmarshalJSON promotes the string shorthand into the Text field.
func (r *RejectionDetailRequest) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		r.RejectionDetailInput = domain.RejectionDetailInput{Text: s}
		return nil
	}
	var obj struct {
		Issue          string `json:"issue"`
		DocumentType   string `json:"documentType"`
		ActionRequired string `json:"actionRequired"`
		Priority       string `json:"priority"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("rejection detail must be a string or an object: %w", err)
	}
	r.RejectionDetailInput = domain.RejectionDetailInput{
		Issue:          obj.Issue,
		DocumentType:   obj.DocumentType,
		ActionRequired: obj.ActionRequired,
		Priority:       obj.Priority,
	}
	return nil
}

// RejectApplicationRequest rejects an application with a catalog reason.
type RejectApplicationRequest struct {
	ReasonCode string                   `json:"reasonCode" binding:"required"`
	Message    string                   `json:"message"`
	Details    []RejectionDetailRequest `json:"details"`
}

// DetailInputs unwraps the request details for the domain layer.
func (r RejectApplicationRequest) DetailInputs() []domain.RejectionDetailInput {
	out := make([]domain.RejectionDetailInput, len(r.Details))
	for i, d := range r.Details {
		out[i] = d.RejectionDetailInput
	}
	return out
}

// ResubmitApplicationRequest resubmits a rejected application.
type ResubmitApplicationRequest struct {
	Note string `json:"note"`
}

// CancelApplicationRequest cancels a non-final application.
type CancelApplicationRequest struct {
	Reason string `json:"reason"`
}

// AddAdminNoteRequest appends a reviewer note.
type AddAdminNoteRequest struct {
	Note string `json:"note" binding:"required"`
}

// ListApplicationsParams defines query parameters for listing applications.
type ListApplicationsParams struct {
	Status    string  `form:"status"`
	OwnerID   string  `form:"ownerID"`
	Limit     int     `form:"limit,default=20" binding:"omitempty,min=1,max=100"`
	NextToken *string `form:"nextToken"`
}

// --- Application response DTOs ---

// ApplicationResponse is the full aggregate as returned by the API.
type ApplicationResponse struct {
	ApplicationID     string                   `json:"applicationID"`
	ApplicationCode   *string                  `json:"applicationCode,omitempty"`
	OwnerID           string                   `json:"ownerID"`
	Status            domain.ApplicationStatus `json:"status"`
	Stage             domain.ApplicationStage  `json:"stage"`
	PersonalDetails   *domain.PersonalDetails  `json:"personalDetails,omitempty"`
	ContactDetails    *domain.ContactDetails   `json:"contactDetails,omitempty"`
	CourseSelection   *domain.CourseSelection  `json:"courseSelection,omitempty"`
	GuardianDetails   *domain.GuardianDetails  `json:"guardianDetails,omitempty"`
	FinancialDetails  *domain.FinancialDetails `json:"financialDetails,omitempty"`
	Documents         []DocumentResponse       `json:"documents"`
	DocumentCounts    domain.DocumentCounts    `json:"documentCounts"`
	ReviewInfo        domain.ReviewInfo        `json:"reviewInfo"`
	WorkflowHistory   []domain.WorkflowEntry   `json:"workflowHistory"`
	AdminNotes        []domain.AdminNote       `json:"adminNotes"`
	ReferralInfo      *domain.ReferralInfo     `json:"referralInfo,omitempty"`
	SubmittedAt       *time.Time               `json:"submittedAt,omitempty"`
	ResubmissionCount int                      `json:"resubmissionCount"`
	Version           int64                    `json:"version"`
	CreatedAt         time.Time                `json:"createdAt"`
	LastUpdatedAt     time.Time                `json:"lastUpdatedAt"`
}

// DocumentResponse is one document with its display label.
type DocumentResponse struct {
	DocumentType domain.DocumentType   `json:"documentType"`
	Label        string                `json:"label"`
	FileRef      string                `json:"fileRef"`
	Status       domain.DocumentStatus `json:"status"`
	ReviewedBy   *string               `json:"reviewedBy,omitempty"`
	ReviewedAt   *time.Time            `json:"reviewedAt,omitempty"`
	Remarks      string                `json:"remarks,omitempty"`
	UploadedAt   time.Time             `json:"uploadedAt"`
}

// LedgerResponse is returned after a document review.
type LedgerResponse struct {
	Document       DocumentResponse      `json:"document"`
	DocumentCounts domain.DocumentCounts `json:"documentCounts"`
	Version        int64                 `json:"version"`
}

// ApplicationSummary is the compact listing form.
type ApplicationSummary struct {
	ApplicationID   string                   `json:"applicationID"`
	ApplicationCode *string                  `json:"applicationCode,omitempty"`
	OwnerID         string                   `json:"ownerID"`
	Status          domain.ApplicationStatus `json:"status"`
	Stage           domain.ApplicationStage  `json:"stage"`
	DocumentCounts  domain.DocumentCounts    `json:"documentCounts"`
	SubmittedAt     *time.Time               `json:"submittedAt,omitempty"`
	LastUpdatedAt   time.Time                `json:"lastUpdatedAt"`
}

// ListApplicationsResponse wraps a page of applications.
type ListApplicationsResponse struct {
	Applications []ApplicationSummary `json:"applications"`
	NextToken    *string              `json:"nextToken,omitempty"`
}

// ToDocumentResponse converts a domain.Document to DTO.
func ToDocumentResponse(d domain.Document) DocumentResponse {
	return DocumentResponse{
		DocumentType: d.DocumentType,
		Label:        d.DocumentType.Label(),
		FileRef:      d.FileRef,
		Status:       d.Status,
		ReviewedBy:   d.ReviewedBy,
		ReviewedAt:   d.ReviewedAt,
		Remarks:      d.Remarks,
		UploadedAt:   d.UploadedAt,
	}
}

// ToApplicationResponse converts a domain.Application to DTO.
func ToApplicationResponse(a *domain.Application) ApplicationResponse {
	docs := make([]DocumentResponse, len(a.Documents))
	for i, d := range a.Documents {
		docs[i] = ToDocumentResponse(d)
	}
	return ApplicationResponse{
		ApplicationID:     a.ApplicationID,
		ApplicationCode:   a.ApplicationCode,
		OwnerID:           a.OwnerID,
		Status:            a.Status,
		Stage:             a.Stage,
		PersonalDetails:   a.Payload.Personal,
		ContactDetails:    a.Payload.Contact,
		CourseSelection:   a.Payload.Course,
		GuardianDetails:   a.Payload.Guardian,
		FinancialDetails:  a.Payload.Financial,
		Documents:         docs,
		DocumentCounts:    a.DocumentCounts,
		ReviewInfo:        a.ReviewInfo,
		WorkflowHistory:   a.WorkflowHistory,
		AdminNotes:        a.AdminNotes,
		ReferralInfo:      a.ReferralInfo,
		SubmittedAt:       a.SubmittedAt,
		ResubmissionCount: a.ResubmissionCount,
		Version:           a.Version,
		CreatedAt:         a.CreatedAt,
		LastUpdatedAt:     a.LastUpdatedAt,
	}
}

// ToApplicationSummary converts a domain.Application to its listing form.
func ToApplicationSummary(a domain.Application) ApplicationSummary {
	return ApplicationSummary{
		ApplicationID:   a.ApplicationID,
		ApplicationCode: a.ApplicationCode,
		OwnerID:         a.OwnerID,
		Status:          a.Status,
		Stage:           a.Stage,
		DocumentCounts:  a.DocumentCounts,
		SubmittedAt:     a.SubmittedAt,
		LastUpdatedAt:   a.LastUpdatedAt,
	}
}

// ToListApplicationsResponse converts a page of applications to DTO.
func ToListApplicationsResponse(apps []domain.Application, nextToken *string) ListApplicationsResponse {
	list := make([]ApplicationSummary, len(apps))
	for i, a := range apps {
		list[i] = ToApplicationSummary(a)
	}
	return ListApplicationsResponse{Applications: list, NextToken: nextToken}
}
