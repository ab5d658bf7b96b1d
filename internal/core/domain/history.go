package domain

import "time"

// WorkflowAction names the operation that produced a history entry.
type WorkflowAction string

const (
	ActionSubmit      WorkflowAction = "SUBMIT"
	ActionBeginReview WorkflowAction = "BEGIN_REVIEW"
	ActionApprove     WorkflowAction = "APPROVE"
	ActionReject      WorkflowAction = "REJECT"
	ActionResubmit    WorkflowAction = "RESUBMIT"
	ActionCancel      WorkflowAction = "CANCEL"
)

// WorkflowEntry is one append-only record of a transition.
type WorkflowEntry struct {
	Stage     ApplicationStage  `json:"stage"`
	Status    ApplicationStatus `json:"status"`
	Actor     string            `json:"actor"`
	Action    WorkflowAction    `json:"action"`
	Remarks   string            `json:"remarks,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
}

// NoteKind distinguishes reviewer notes from notices the system writes.
type NoteKind string

const (
	NoteKindNote         NoteKind = "NOTE"
	NoteKindResubmission NoteKind = "RESUBMISSION"
)

// AdminNote is an append-only note on an application.
type AdminNote struct {
	Note      string    `json:"note"`
	Author    string    `json:"author"`
	Timestamp time.Time `json:"timestamp"`
	Kind      NoteKind  `json:"kind"`
}

// ReferralInfo attributes an application to the account whose referral code was used.
type ReferralInfo struct {
	Code       string    `json:"code"`
	ReferrerID string    `json:"referrerID"`
	AppliedAt  time.Time `json:"appliedAt"`
}
