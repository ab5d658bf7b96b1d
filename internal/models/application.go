package models

import "time"

// Application is one row of the applications table. The embedded collections are JSONB columns; the
// row is always read and written as a whole.
type Application struct {
	ApplicationID     string     `db:"application_id"`
	ApplicationCode   *string    `db:"application_code"`
	OwnerID           string     `db:"owner_id"`
	Status            string     `db:"status"`
	Stage             string     `db:"stage"`
	Payload           []byte     `db:"payload"`
	Documents         []byte     `db:"documents"`
	DocumentCounts    []byte     `db:"document_counts"`
	ReviewInfo        []byte     `db:"review_info"`
	WorkflowHistory   []byte     `db:"workflow_history"`
	AdminNotes        []byte     `db:"admin_notes"`
	ReferralInfo      []byte     `db:"referral_info"` // NULL when not referred
	SubmittedAt       *time.Time `db:"submitted_at"`
	ResubmissionCount int        `db:"resubmission_count"`
	AuditFields
}
