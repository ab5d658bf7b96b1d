package mapping

import (
	"encoding/json"
	"fmt"

	"github.com/SscSPs/admission_workflow_app/internal/core/domain"
	"github.com/SscSPs/admission_workflow_app/internal/models"
)

// ToModelApplication converts a domain Application to a model Application
func ToModelApplication(d *domain.Application) (models.Application, error) {
	m := models.Application{
		ApplicationID:     d.ApplicationID,
		ApplicationCode:   d.ApplicationCode,
		OwnerID:           d.OwnerID,
		Status:            string(d.Status),
		Stage:             string(d.Stage),
		SubmittedAt:       d.SubmittedAt,
		ResubmissionCount: d.ResubmissionCount,
		AuditFields:       ToModelAuditFields(d.AuditFields),
	}

	documents := d.Documents
	if documents == nil {
		documents = []domain.Document{}
	}
	history := d.WorkflowHistory
	if history == nil {
		history = []domain.WorkflowEntry{}
	}
	notes := d.AdminNotes
	if notes == nil {
		notes = []domain.AdminNote{}
	}

	columns := []struct {
		name string
		src  any
		dst  *[]byte
	}{
		{"payload", d.Payload, &m.Payload},
		{"documents", documents, &m.Documents},
		{"document_counts", d.DocumentCounts, &m.DocumentCounts},
		{"review_info", d.ReviewInfo, &m.ReviewInfo},
		{"workflow_history", history, &m.WorkflowHistory},
		{"admin_notes", notes, &m.AdminNotes},
	}
	for _, c := range columns {
		b, err := json.Marshal(c.src)
		if err != nil {
			return models.Application{}, fmt.Errorf("failed to encode %s: %w", c.name, err)
		}
		*c.dst = b
	}
	if d.ReferralInfo != nil {
		b, err := json.Marshal(d.ReferralInfo)
		if err != nil {
			return models.Application{}, fmt.Errorf("failed to encode referral_info: %w", err)
		}
		m.ReferralInfo = b
	}
	return m, nil
}

// ToDomainApplication converts a model Application to a domain Application
func ToDomainApplication(m models.Application) (*domain.Application, error) {
	d := &domain.Application{
		ApplicationID:     m.ApplicationID,
		ApplicationCode:   m.ApplicationCode,
		OwnerID:           m.OwnerID,
		Status:            domain.ApplicationStatus(m.Status),
		Stage:             domain.ApplicationStage(m.Stage),
		SubmittedAt:       m.SubmittedAt,
		ResubmissionCount: m.ResubmissionCount,
		Documents:         []domain.Document{},
		WorkflowHistory:   []domain.WorkflowEntry{},
		AdminNotes:        []domain.AdminNote{},
		AuditFields:       ToDomainAuditFields(m.AuditFields),
	}

	columns := []struct {
		name string
		src  []byte
		dst  any
	}{
		{"payload", m.Payload, &d.Payload},
		{"documents", m.Documents, &d.Documents},
		{"document_counts", m.DocumentCounts, &d.DocumentCounts},
		{"review_info", m.ReviewInfo, &d.ReviewInfo},
		{"workflow_history", m.WorkflowHistory, &d.WorkflowHistory},
		{"admin_notes", m.AdminNotes, &d.AdminNotes},
	}
	for _, c := range columns {
		if len(c.src) == 0 {
			continue
		}
		if err := json.Unmarshal(c.src, c.dst); err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", c.name, err)
		}
	}
	if len(m.ReferralInfo) > 0 {
		var info domain.ReferralInfo
		if err := json.Unmarshal(m.ReferralInfo, &info); err != nil {
			return nil, fmt.Errorf("failed to decode referral_info: %w", err)
		}
		d.ReferralInfo = &info
	}
	return d, nil
}

// ToDomainApplicationSlice converts a slice of model Applications to a slice of domain Applications
func ToDomainApplicationSlice(ms []models.Application) ([]domain.Application, error) {
	ds := make([]domain.Application, len(ms))
	for i, m := range ms {
		d, err := ToDomainApplication(m)
		if err != nil {
			return nil, fmt.Errorf("application %s: %w", m.ApplicationID, err)
		}
		ds[i] = *d
	}
	return ds, nil
}

// ToModelReferralCode converts a domain ReferralBinding to a model ReferralCode
func ToModelReferralCode(d domain.ReferralBinding) models.ReferralCode {
	return models.ReferralCode{
		Code:      d.Code,
		AccountID: d.AccountID,
		RoleTag:   d.RoleTag,
		BoundAt:   d.BoundAt,
	}
}

// ToDomainReferralBinding converts a model ReferralCode to a domain ReferralBinding
func ToDomainReferralBinding(m models.ReferralCode) domain.ReferralBinding {
	return domain.ReferralBinding{
		Code:      m.Code,
		AccountID: m.AccountID,
		RoleTag:   m.RoleTag,
		BoundAt:   m.BoundAt,
	}
}
