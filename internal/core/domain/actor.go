package domain

// ActorRole is the role claim of the account performing an operation.
type ActorRole string

const (
	ActorApplicant ActorRole = "APPLICANT"
	ActorReviewer  ActorRole = "REVIEWER"
	ActorAdmin     ActorRole = "ADMIN"
	ActorAgent     ActorRole = "AGENT"
	ActorStaff     ActorRole = "STAFF"
)

// Actor identifies who is invoking an operation.
type Actor struct {
	UserID string    `json:"userID"`
	Role   ActorRole `json:"role"`
}

// IsReviewer reports whether the actor may review applications.
func (a Actor) IsReviewer() bool {
	return a.Role == ActorReviewer || a.Role == ActorAdmin
}
