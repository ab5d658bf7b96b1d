// Package rejection holds the fixed taxonomy of reasons a reviewer can cite when rejecting an
// application. The catalog is code, not data: changing it means shipping a new CatalogVersion.
package rejection

import (
	"fmt"
	"strings"

	"github.com/SscSPs/admission_workflow_app/internal/apperrors"
)

// CatalogVersion identifies the taxonomy revision recorded alongside every rejection.
const CatalogVersion = "2024.1"

// Category groups related rejection reasons.
type Category string

const (
	CategoryDocument Category = "DOCUMENT_ISSUES"
	CategoryPersonal Category = "PERSONAL_INFO_ISSUES"
	CategoryAcademic Category = "ACADEMIC_ISSUES"
	CategoryOther    Category = "OTHER"
)

var categoryTitles = map[Category]string{
	CategoryDocument: "Document Issues",
	CategoryPersonal: "Personal Information Issues",
	CategoryAcademic: "Academic Issues",
	CategoryOther:    "Other",
}

// Title returns the display name of the category.
func (c Category) Title() string {
	return categoryTitles[c]
}

// Entry is one rejection reason.
type Entry struct {
	ID          string   `json:"id"`
	Category    Category `json:"category"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Examples    []string `json:"examples"`
}

func (e Entry) clone() Entry {
	e.Examples = append([]string(nil), e.Examples...)
	return e
}

var categoryOrder = []Category{CategoryDocument, CategoryPersonal, CategoryAcademic, CategoryOther}

var entries = []Entry{
	{
		ID:          "MISSING_DOCUMENT",
		Category:    CategoryDocument,
		Title:       "Missing Document",
		Description: "A required document has not been uploaded.",
		Examples:    []string{"Aadhar Card not uploaded", "12th marksheet missing"},
	},
	{
		ID:          "INVALID_DOCUMENT",
		Category:    CategoryDocument,
		Title:       "Invalid Document",
		Description: "The uploaded file is not the document that was requested.",
		Examples:    []string{"Uploaded admit card instead of marksheet", "Document belongs to another person"},
	},
	{
		ID:          "DOCUMENT_UNCLEAR",
		Category:    CategoryDocument,
		Title:       "Document Not Readable",
		Description: "The document is blurred, cropped or otherwise unreadable.",
		Examples:    []string{"Photo is blurred", "Marksheet scan is cut off"},
	},
	{
		ID:          "DOCUMENT_EXPIRED",
		Category:    CategoryDocument,
		Title:       "Document Expired",
		Description: "The document is no longer valid.",
		Examples:    []string{"Income certificate older than one year"},
	},
	{
		ID:          "NAME_MISMATCH",
		Category:    CategoryPersonal,
		Title:       "Name Mismatch",
		Description: "The name on the application does not match the name on the documents.",
		Examples:    []string{"Spelling differs between Aadhar Card and marksheet"},
	},
	{
		ID:          "DOB_MISMATCH",
		Category:    CategoryPersonal,
		Title:       "Date of Birth Mismatch",
		Description: "The date of birth does not match the supporting documents.",
		Examples:    []string{"DOB on form differs from 10th marksheet"},
	},
	{
		ID:          "INCOMPLETE_PERSONAL_INFO",
		Category:    CategoryPersonal,
		Title:       "Incomplete Personal Information",
		Description: "Personal or guardian details are incomplete.",
		Examples:    []string{"Guardian phone number missing"},
	},
	{
		ID:          "INVALID_CONTACT",
		Category:    CategoryPersonal,
		Title:       "Invalid Contact Details",
		Description: "The phone number or email address could not be verified.",
		Examples:    []string{"Phone number unreachable", "Email bounced"},
	},
	{
		ID:          "ELIGIBILITY_NOT_MET",
		Category:    CategoryAcademic,
		Title:       "Eligibility Criteria Not Met",
		Description: "The applicant does not meet the eligibility criteria for the program.",
		Examples:    []string{"Required subject not studied in 12th"},
	},
	{
		ID:          "INSUFFICIENT_MARKS",
		Category:    CategoryAcademic,
		Title:       "Insufficient Marks",
		Description: "The qualifying marks are below the program cut-off.",
		Examples:    []string{"Aggregate below 50%"},
	},
	{
		ID:          "COURSE_UNAVAILABLE",
		Category:    CategoryAcademic,
		Title:       "Course Unavailable",
		Description: "The selected course or session is not open for admission.",
		Examples:    []string{"Seats filled for the selected session"},
	},
	{
		ID:          "DUPLICATE_APPLICATION",
		Category:    CategoryOther,
		Title:       "Duplicate Application",
		Description: "Another application exists for the same applicant and program.",
		Examples:    []string{"Applicant already applied with a different account"},
	},
	{
		ID:          "OTHER",
		Category:    CategoryOther,
		Title:       "Other",
		Description: "Any other reason, explained in the rejection message.",
		Examples:    []string{"See reviewer remarks"},
	},
}

var byID = func() map[string]Entry {
	m := make(map[string]Entry, len(entries))
	for _, e := range entries {
		if _, dup := m[e.ID]; dup {
			panic("rejection: duplicate catalog id " + e.ID)
		}
		if _, ok := categoryTitles[e.Category]; !ok {
			panic("rejection: unknown category for " + e.ID)
		}
		m[e.ID] = e
	}
	return m
}()

// Resolve looks up a reason by id. Lookup ignores surrounding whitespace and case.
func Resolve(reasonCode string) (Entry, error) {
	e, ok := byID[strings.ToUpper(strings.TrimSpace(reasonCode))]
	if !ok {
		return Entry{}, fmt.Errorf("%w: %q", apperrors.ErrUnknownRejectionReason, reasonCode)
	}
	return e.clone(), nil
}

// Categories returns the categories in display order.
func Categories() []Category {
	return append([]Category(nil), categoryOrder...)
}

// ByCategory returns the entries of one category in catalog order.
func ByCategory(c Category) []Entry {
	var out []Entry
	for _, e := range entries {
		if e.Category == c {
			out = append(out, e.clone())
		}
	}
	return out
}

// All returns every entry in catalog order.
func All() []Entry {
	out := make([]Entry, len(entries))
	for i, e := range entries {
		out[i] = e.clone()
	}
	return out
}
