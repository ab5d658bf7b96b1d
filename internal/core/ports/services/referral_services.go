package services

import (
	"context"

	"github.com/SscSPs/admission_workflow_app/internal/core/domain"
	"github.com/SscSPs/admission_workflow_app/internal/dto"
)

// ReferralWriterSvc defines referral code allocation
type ReferralWriterSvc interface {
	// GenerateCode returns the account's code, generating and binding one if it has none.
	GenerateCode(ctx context.Context, actor domain.Actor, req dto.GenerateReferralCodeRequest) (*domain.ReferralBinding, error)

	// Bind claims a specific code for an account.
	Bind(ctx context.Context, actor domain.Actor, code string) (*domain.ReferralBinding, error)
}

// ReferralReaderSvc defines referral code lookups
type ReferralReaderSvc interface {
	// Validate returns the referring account id for code.
	Validate(ctx context.Context, code string) (string, error)
}

// ReferralSvcFacade combines all referral service interfaces
type ReferralSvcFacade interface {
	ReferralWriterSvc
	ReferralReaderSvc
}
