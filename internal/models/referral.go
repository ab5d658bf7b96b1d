package models

import "time"

// ReferralCode is one row of the referral_codes table.
type ReferralCode struct {
	Code      string    `db:"code"`       // Primary Key
	AccountID string    `db:"account_id"` // Unique
	RoleTag   string    `db:"role_tag"`
	BoundAt   time.Time `db:"bound_at"`
}
