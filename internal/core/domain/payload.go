package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PayloadSection names one structured record of an application payload.
type PayloadSection string

const (
	SectionPersonal  PayloadSection = "personalDetails"
	SectionContact   PayloadSection = "contactDetails"
	SectionCourse    PayloadSection = "courseSelection"
	SectionGuardian  PayloadSection = "guardianDetails"
	SectionFinancial PayloadSection = "financialDetails"
)

// RequiredSections lists the payload sections that must be present before submission, in display order.
var RequiredSections = []PayloadSection{
	SectionPersonal,
	SectionContact,
	SectionCourse,
	SectionGuardian,
	SectionFinancial,
}

// PersonalDetails describes the applicant.
type PersonalDetails struct {
	FullName    string    `json:"fullName" validate:"required,min=2,max=120"`
	DateOfBirth time.Time `json:"dateOfBirth" validate:"required"`
	Gender      string    `json:"gender" validate:"required,oneof=MALE FEMALE OTHER"`
	Nationality string    `json:"nationality" validate:"required"`
	Category    string    `json:"category" validate:"omitempty,oneof=GENERAL OBC SC ST EWS"`
}

// ContactDetails holds how the applicant can be reached.
type ContactDetails struct {
	Email       string `json:"email" validate:"required,email"`
	Phone       string `json:"phone" validate:"required,numeric,min=10,max=15"`
	AddressLine string `json:"addressLine" validate:"required"`
	City        string `json:"city" validate:"required"`
	State       string `json:"state" validate:"required"`
	PostalCode  string `json:"postalCode" validate:"required,numeric,len=6"`
}

// CourseSelection is the program the applicant is applying for.
type CourseSelection struct {
	ProgramCode string `json:"programCode" validate:"required,alphanum,max=20"`
	ProgramName string `json:"programName" validate:"required"`
	Session     string `json:"session" validate:"required"`
	Mode        string `json:"mode" validate:"required,oneof=REGULAR DISTANCE ONLINE"`
}

// GuardianDetails describes the applicant's parent or guardian.
type GuardianDetails struct {
	Name       string `json:"name" validate:"required"`
	Relation   string `json:"relation" validate:"required"`
	Phone      string `json:"phone" validate:"required,numeric,min=10,max=15"`
	Occupation string `json:"occupation"`
}

// FinancialDetails captures household income for fee and scholarship decisions.
type FinancialDetails struct {
	AnnualFamilyIncome   decimal.Decimal `json:"annualFamilyIncome"`
	Currency             string          `json:"currency" validate:"required,iso4217"`
	ScholarshipRequested bool            `json:"scholarshipRequested"`
}

// Payload is the set of structured records an applicant fills in.
type Payload struct {
	Personal  *PersonalDetails  `json:"personalDetails,omitempty"`
	Contact   *ContactDetails   `json:"contactDetails,omitempty"`
	Course    *CourseSelection  `json:"courseSelection,omitempty"`
	Guardian  *GuardianDetails  `json:"guardianDetails,omitempty"`
	Financial *FinancialDetails `json:"financialDetails,omitempty"`
}

// MissingSections returns the required sections that are absent, in RequiredSections order.
// Only presence is checked here; field content belongs to the payload validator.
func (p Payload) MissingSections() []PayloadSection {
	present := map[PayloadSection]bool{
		SectionPersonal:  p.Personal != nil,
		SectionContact:   p.Contact != nil,
		SectionCourse:    p.Course != nil,
		SectionGuardian:  p.Guardian != nil,
		SectionFinancial: p.Financial != nil,
	}
	var missing []PayloadSection
	for _, s := range RequiredSections {
		if !present[s] {
			missing = append(missing, s)
		}
	}
	return missing
}

// Merge overwrites the sections set in other and keeps the rest.
func (p *Payload) Merge(other Payload) {
	if other.Personal != nil {
		v := *other.Personal
		p.Personal = &v
	}
	if other.Contact != nil {
		v := *other.Contact
		p.Contact = &v
	}
	if other.Course != nil {
		v := *other.Course
		p.Course = &v
	}
	if other.Guardian != nil {
		v := *other.Guardian
		p.Guardian = &v
	}
	if other.Financial != nil {
		v := *other.Financial
		p.Financial = &v
	}
}

func (p Payload) clone() Payload {
	var out Payload
	out.Merge(p)
	return out
}
