package services

import (
	portsrepo "github.com/SscSPs/admission_workflow_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/admission_workflow_app/internal/core/ports/services"
)

// Collaborators are the external dependencies of the workflow core.
type Collaborators struct {
	Validator    portssvc.PayloadValidator
	Requirements portssvc.DocumentRequirements
	Notifier     portssvc.WorkflowNotifier
}

// NewServiceContainer creates a new service container with properly initialized dependencies.
// All services that mutate applications share one guard.
func NewServiceContainer(repos portsrepo.RepositoryProvider, collab Collaborators, options ...ServiceOption) *portssvc.ServiceContainer {
	options = append([]ServiceOption{WithGuard(NewApplicationGuard())}, options...)

	container := &portssvc.ServiceContainer{}
	container.Referral = NewReferralService(repos.ReferralRepo, options...)
	container.Application = NewApplicationService(repos.ApplicationRepo, collab.Validator, options...)
	container.Ledger = NewLedgerService(repos.ApplicationRepo, options...)
	container.Workflow = NewWorkflowService(repos.ApplicationRepo, container.Referral, collab.Requirements, collab.Notifier, options...)
	return container
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.ApplicationSvcFacade = (*applicationService)(nil)
	_ portssvc.WorkflowSvcFacade    = (*workflowService)(nil)
	_ portssvc.LedgerSvcFacade      = (*ledgerService)(nil)
	_ portssvc.ReferralSvcFacade    = (*referralService)(nil)
)
