package domain

import "time"

// WorkflowEvent describes a committed transition. Events are handed to notification delivery only after
// the aggregate write succeeded.
type WorkflowEvent struct {
	EventID         string            `json:"eventID"`
	Action          WorkflowAction    `json:"action"`
	ApplicationID   string            `json:"applicationID"`
	ApplicationCode string            `json:"applicationCode,omitempty"`
	OwnerID         string            `json:"ownerID"`
	ActorID         string            `json:"actorID"`
	FromStatus      ApplicationStatus `json:"fromStatus"`
	ToStatus        ApplicationStatus `json:"toStatus"`
	Version         int64             `json:"version"`
	OccurredAt      time.Time         `json:"occurredAt"`
}
