package domain

import "time"

// ReferralBinding ties a referral code to exactly one account. Bindings are never reassigned.
type ReferralBinding struct {
	Code      string    `json:"code"`
	AccountID string    `json:"accountID"`
	RoleTag   string    `json:"roleTag"`
	BoundAt   time.Time `json:"boundAt"`
}
