package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/admission_workflow_app/internal/apperrors"
	"github.com/SscSPs/admission_workflow_app/internal/core/rejection"
)

// ApplicationStatus is the workflow state of an application.
type ApplicationStatus string

const (
	StatusDraft       ApplicationStatus = "DRAFT"
	StatusSubmitted   ApplicationStatus = "SUBMITTED"
	StatusUnderReview ApplicationStatus = "UNDER_REVIEW"
	StatusApproved    ApplicationStatus = "APPROVED"
	StatusRejected    ApplicationStatus = "REJECTED"
	StatusCancelled   ApplicationStatus = "CANCELLED"
)

// ApplicationStage is the display label shown for a status.
type ApplicationStage string

const (
	StageDraft                ApplicationStage = "DRAFT"
	StageSubmitted            ApplicationStage = "SUBMITTED"
	StageDocumentVerification ApplicationStage = "DOCUMENT_VERIFICATION"
	StageApproved             ApplicationStage = "APPROVED"
	StageRejected             ApplicationStage = "REJECTED"
	StageCancelled            ApplicationStage = "CANCELLED"
)

// stageByStatus is the only source of legal status/stage pairs.
var stageByStatus = map[ApplicationStatus]ApplicationStage{
	StatusDraft:       StageDraft,
	StatusSubmitted:   StageSubmitted,
	StatusUnderReview: StageDocumentVerification,
	StatusApproved:    StageApproved,
	StatusRejected:    StageRejected,
	StatusCancelled:   StageCancelled,
}

var transitions = map[ApplicationStatus][]ApplicationStatus{
	StatusDraft:       {StatusSubmitted, StatusCancelled},
	StatusSubmitted:   {StatusUnderReview, StatusRejected, StatusCancelled},
	StatusUnderReview: {StatusApproved, StatusRejected, StatusCancelled},
	StatusRejected:    {StatusSubmitted},
}

// StageFor returns the stage paired with status.
func StageFor(status ApplicationStatus) (ApplicationStage, bool) {
	s, ok := stageByStatus[status]
	return s, ok
}

// IsValid reports whether s is a known status.
func (s ApplicationStatus) IsValid() bool {
	_, ok := stageByStatus[s]
	return ok
}

// IsTerminal reports whether no transition leaves s.
func (s ApplicationStatus) IsTerminal() bool {
	return len(transitions[s]) == 0
}

// AcceptsApplicantEdits reports whether the applicant may change payload and documents in s.
func (s ApplicationStatus) AcceptsApplicantEdits() bool {
	return s == StatusDraft || s == StatusRejected
}

// CanTransition reports whether from -> to is an edge of the workflow.
func CanTransition(from, to ApplicationStatus) bool {
	for _, t := range transitions[from] {
		if t == to {
			return true
		}
	}
	return false
}

// Application is one admission submission together with its documents, review outcome and audit trail.
// It is persisted and loaded as a single aggregate.
type Application struct {
	ApplicationID     string            `json:"applicationID"`
	ApplicationCode   *string           `json:"applicationCode,omitempty"`
	OwnerID           string            `json:"ownerID"`
	Status            ApplicationStatus `json:"status"`
	Stage             ApplicationStage  `json:"stage"`
	Payload           Payload           `json:"payload"`
	Documents         []Document        `json:"documents"`
	DocumentCounts    DocumentCounts    `json:"documentCounts"`
	ReviewInfo        ReviewInfo        `json:"reviewInfo"`
	WorkflowHistory   []WorkflowEntry   `json:"workflowHistory"`
	AdminNotes        []AdminNote       `json:"adminNotes"`
	ReferralInfo      *ReferralInfo     `json:"referralInfo,omitempty"`
	SubmittedAt       *time.Time        `json:"submittedAt,omitempty"`
	ResubmissionCount int               `json:"resubmissionCount"`
	AuditFields
}

// NewDraft creates an empty DRAFT owned by ownerID.
func NewDraft(applicationID, ownerID string, payload Payload, now time.Time) *Application {
	return &Application{
		ApplicationID:   applicationID,
		OwnerID:         ownerID,
		Status:          StatusDraft,
		Stage:           StageDraft,
		Payload:         payload.clone(),
		Documents:       []Document{},
		WorkflowHistory: []WorkflowEntry{},
		AdminNotes:      []AdminNote{},
		AuditFields: AuditFields{
			CreatedAt:     now,
			CreatedBy:     ownerID,
			LastUpdatedAt: now,
			LastUpdatedBy: ownerID,
		},
	}
}

// CheckInvariants verifies the status/stage pairing and the document ledger.
func (a *Application) CheckInvariants() error {
	stage, ok := stageByStatus[a.Status]
	if !ok {
		return fmt.Errorf("%w: unknown status %q", apperrors.ErrInvariantViolation, a.Status)
	}
	if stage != a.Stage {
		return fmt.Errorf("%w: status %s paired with stage %s", apperrors.ErrInvariantViolation, a.Status, a.Stage)
	}
	if a.DocumentCounts != CountDocuments(a.Documents) {
		return fmt.Errorf("%w: stored document counts are stale", apperrors.ErrInvariantViolation)
	}
	return a.DocumentCounts.Verify(len(a.Documents))
}

// IsOwnedBy reports whether userID owns the application.
func (a *Application) IsOwnedBy(userID string) bool {
	return a.OwnerID == userID
}

// moveTo is the only place status and stage change. Both are assigned together and the transition is
// recorded in the history.
func (a *Application) moveTo(to ApplicationStatus, action WorkflowAction, actorID, remarks string, now time.Time) error {
	if !CanTransition(a.Status, to) {
		return fmt.Errorf("%w: cannot %s an application that is %s", apperrors.ErrInvalidTransition, strings.ToLower(string(action)), a.Status)
	}
	stage, ok := stageByStatus[to]
	if !ok {
		return fmt.Errorf("%w: no stage for status %s", apperrors.ErrInvariantViolation, to)
	}
	a.Status, a.Stage = to, stage
	a.WorkflowHistory = append(a.WorkflowHistory, WorkflowEntry{
		Stage:     stage,
		Status:    to,
		Actor:     actorID,
		Action:    action,
		Remarks:   remarks,
		Timestamp: now,
	})
	a.touch(actorID, now)
	return nil
}

func (a *Application) requireStatus(action WorkflowAction, allowed ...ApplicationStatus) error {
	for _, s := range allowed {
		if a.Status == s {
			return nil
		}
	}
	return fmt.Errorf("%w: cannot %s an application that is %s", apperrors.ErrInvalidTransition, strings.ToLower(string(action)), a.Status)
}

// MissingForSubmission lists what blocks submission: absent payload sections and, when nothing is
// attached, "documents".
func (a *Application) MissingForSubmission() []string {
	var missing []string
	for _, s := range a.Payload.MissingSections() {
		missing = append(missing, string(s))
	}
	if len(a.Documents) == 0 {
		missing = append(missing, "documents")
	}
	return missing
}

// Submit moves a complete DRAFT to SUBMITTED. code is assigned only if the application has none yet.
func (a *Application) Submit(actorID, code string, referral *ReferralInfo, now time.Time) error {
	if !a.IsOwnedBy(actorID) {
		return fmt.Errorf("%w: only the owner can submit an application", apperrors.ErrForbidden)
	}
	if err := a.requireStatus(ActionSubmit, StatusDraft); err != nil {
		return err
	}
	if missing := a.MissingForSubmission(); len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", apperrors.ErrIncompleteApplication, strings.Join(missing, ", "))
	}
	if err := a.moveTo(StatusSubmitted, ActionSubmit, actorID, "", now); err != nil {
		return err
	}
	if a.ApplicationCode == nil && code != "" {
		c := code
		a.ApplicationCode = &c
	}
	if referral != nil {
		r := *referral
		a.ReferralInfo = &r
	}
	submittedAt := now
	a.SubmittedAt = &submittedAt
	return nil
}

// BeginReview moves a SUBMITTED application into review.
func (a *Application) BeginReview(reviewerID string, now time.Time) error {
	if err := a.requireStatus(ActionBeginReview, StatusSubmitted); err != nil {
		return err
	}
	return a.moveTo(StatusUnderReview, ActionBeginReview, reviewerID, "", now)
}

// Approve accepts an application whose required documents are all APPROVED. When required is empty,
// every attached document counts as required.
func (a *Application) Approve(reviewerID string, required []DocumentType, remarks string, now time.Time) error {
	if err := a.requireStatus(ActionApprove, StatusUnderReview); err != nil {
		return err
	}
	if len(required) == 0 {
		for _, d := range a.Documents {
			required = append(required, d.DocumentType)
		}
	}
	if pending := a.UnverifiedRequiredDocuments(required); len(pending) > 0 {
		names := make([]string, len(pending))
		for i, t := range pending {
			names[i] = string(t)
		}
		return fmt.Errorf("%w: %s", apperrors.ErrDocumentsNotVerified, strings.Join(names, ", "))
	}
	if err := a.moveTo(StatusApproved, ActionApprove, reviewerID, remarks, now); err != nil {
		return err
	}
	reviewer := reviewerID
	reviewedAt := now
	a.ReviewInfo.ReviewedBy = &reviewer
	a.ReviewInfo.ReviewedAt = &reviewedAt
	a.ReviewInfo.Verification = allVerified()
	a.ReviewInfo.OverallApproved = true
	a.ReviewInfo.CanResubmit = false
	return nil
}

// Reject records a structured rejection. The reason must already be resolved against the catalog.
func (a *Application) Reject(reviewerID string, reason rejection.Entry, message string, details []RejectionDetail, now time.Time) error {
	if err := a.requireStatus(ActionReject, StatusSubmitted, StatusUnderReview); err != nil {
		return err
	}
	if err := a.moveTo(StatusRejected, ActionReject, reviewerID, message, now); err != nil {
		return err
	}
	reviewer := reviewerID
	reviewedAt := now
	reasonID := reason.ID
	a.ReviewInfo.ReviewedBy = &reviewer
	a.ReviewInfo.ReviewedAt = &reviewedAt
	a.ReviewInfo.RejectionReason = &reasonID
	a.ReviewInfo.RejectionCategory = string(reason.Category)
	a.ReviewInfo.RejectionMessage = message
	a.ReviewInfo.RejectionDetails = append([]RejectionDetail{}, details...)
	a.ReviewInfo.CatalogVersion = rejection.CatalogVersion
	a.ReviewInfo.Verification = flagsForRejection(reason.Category)
	a.ReviewInfo.OverallApproved = false
	a.ReviewInfo.CanResubmit = true
	return nil
}

// DefaultResubmissionNote is written when the applicant gives no note of their own.
const DefaultResubmissionNote = "Application resubmitted after rejection"

// Resubmit returns a REJECTED application to SUBMITTED. The rejection stays in reviewInfo and history.
func (a *Application) Resubmit(actorID, note string, now time.Time) error {
	if !a.IsOwnedBy(actorID) {
		return fmt.Errorf("%w: only the owner can resubmit an application", apperrors.ErrForbidden)
	}
	if err := a.requireStatus(ActionResubmit, StatusRejected); err != nil {
		return err
	}
	note = strings.TrimSpace(note)
	if note == "" {
		note = DefaultResubmissionNote
	}
	if err := a.moveTo(StatusSubmitted, ActionResubmit, actorID, note, now); err != nil {
		return err
	}
	a.AdminNotes = append(a.AdminNotes, AdminNote{
		Note:      note,
		Author:    actorID,
		Timestamp: now,
		Kind:      NoteKindResubmission,
	})
	submittedAt := now
	a.SubmittedAt = &submittedAt
	a.ResubmissionCount++
	a.ReviewInfo.CanResubmit = false
	return nil
}

// Cancel ends a non-final application. The owner or a reviewer may cancel.
func (a *Application) Cancel(actor Actor, reason string, now time.Time) error {
	if !a.IsOwnedBy(actor.UserID) && !actor.IsReviewer() {
		return fmt.Errorf("%w: only the owner or a reviewer can cancel an application", apperrors.ErrForbidden)
	}
	if err := a.requireStatus(ActionCancel, StatusDraft, StatusSubmitted, StatusUnderReview); err != nil {
		return err
	}
	return a.moveTo(StatusCancelled, ActionCancel, actor.UserID, reason, now)
}

// AddNote appends an ordinary admin note.
func (a *Application) AddNote(authorID, note string, now time.Time) error {
	note = strings.TrimSpace(note)
	if note == "" {
		return fmt.Errorf("%w: note is required", apperrors.ErrValidation)
	}
	a.AdminNotes = append(a.AdminNotes, AdminNote{Note: note, Author: authorID, Timestamp: now, Kind: NoteKindNote})
	a.touch(authorID, now)
	return nil
}

// UpdatePayload merges the given sections into the payload while the applicant may still edit.
func (a *Application) UpdatePayload(actorID string, update Payload, now time.Time) error {
	if !a.IsOwnedBy(actorID) {
		return fmt.Errorf("%w: only the owner can edit an application", apperrors.ErrForbidden)
	}
	if !a.Status.AcceptsApplicantEdits() {
		return fmt.Errorf("%w: application cannot be edited while %s", apperrors.ErrInvalidTransition, a.Status)
	}
	a.Payload.Merge(update)
	a.touch(actorID, now)
	return nil
}

// Clone returns a deep copy so callers can mutate without affecting shared state.
func (a *Application) Clone() *Application {
	if a == nil {
		return nil
	}
	out := *a
	if a.ApplicationCode != nil {
		v := *a.ApplicationCode
		out.ApplicationCode = &v
	}
	out.Payload = a.Payload.clone()
	out.Documents = make([]Document, len(a.Documents))
	for i, d := range a.Documents {
		if d.ReviewedBy != nil {
			v := *d.ReviewedBy
			d.ReviewedBy = &v
		}
		if d.ReviewedAt != nil {
			v := *d.ReviewedAt
			d.ReviewedAt = &v
		}
		out.Documents[i] = d
	}
	out.ReviewInfo = a.ReviewInfo.clone()
	out.WorkflowHistory = append([]WorkflowEntry{}, a.WorkflowHistory...)
	out.AdminNotes = append([]AdminNote{}, a.AdminNotes...)
	if a.ReferralInfo != nil {
		v := *a.ReferralInfo
		out.ReferralInfo = &v
	}
	if a.SubmittedAt != nil {
		v := *a.SubmittedAt
		out.SubmittedAt = &v
	}
	return &out
}
