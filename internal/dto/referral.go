package dto

import (
	"time"

	"github.com/SscSPs/admission_workflow_app/internal/core/domain"
)

// GenerateReferralCodeRequest asks for the caller's referral code to be generated and bound.
type GenerateReferralCodeRequest struct {
	DisplayName string `json:"displayName" binding:"required"`
	PhoneNumber string `json:"phoneNumber"`
	Year        int    `json:"year" binding:"omitempty,min=2000,max=2099"`
}

// BindReferralCodeRequest binds an explicitly chosen code to the caller.
type BindReferralCodeRequest struct {
	Code string `json:"code" binding:"required"`
}

// ReferralCodeResponse describes a bound referral code.
type ReferralCodeResponse struct {
	Code      string    `json:"code"`
	AccountID string    `json:"accountID"`
	RoleTag   string    `json:"roleTag"`
	BoundAt   time.Time `json:"boundAt"`
}

// ValidateReferralCodeResponse names the account a code refers to.
type ValidateReferralCodeResponse struct {
	Code       string `json:"code"`
	ReferrerID string `json:"referrerID"`
}

// ToReferralCodeResponse converts a domain.ReferralBinding to DTO.
func ToReferralCodeResponse(b *domain.ReferralBinding) ReferralCodeResponse {
	return ReferralCodeResponse{
		Code:      b.Code,
		AccountID: b.AccountID,
		RoleTag:   b.RoleTag,
		BoundAt:   b.BoundAt,
	}
}
