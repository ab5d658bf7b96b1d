// Package validation checks payload content with go-playground/validator. The workflow itself only
// checks that sections are present.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/SscSPs/admission_workflow_app/internal/apperrors"
	"github.com/SscSPs/admission_workflow_app/internal/core/domain"
	portssvc "github.com/SscSPs/admission_workflow_app/internal/core/ports/services"
	"github.com/go-playground/validator/v10"
)

// PayloadValidator validates the `validate` tags of payload records.
type PayloadValidator struct {
	validate *validator.Validate
}

var _ portssvc.PayloadValidator = (*PayloadValidator)(nil)

func NewPayloadValidator() *PayloadValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterStructValidation(validateFinancialDetails, domain.FinancialDetails{})
	return &PayloadValidator{validate: v}
}

func validateFinancialDetails(sl validator.StructLevel) {
	fd := sl.Current().Interface().(domain.FinancialDetails)
	if fd.AnnualFamilyIncome.IsNegative() {
		sl.ReportError(fd.AnnualFamilyIncome, "annualFamilyIncome", "AnnualFamilyIncome", "gte0", "")
	}
}

// ValidatePayload validates every section that is present. Absent sections are not an error here.
func (pv *PayloadValidator) ValidatePayload(payload domain.Payload) error {
	sections := []struct {
		name  domain.PayloadSection
		value any
		set   bool
	}{
		{domain.SectionPersonal, payload.Personal, payload.Personal != nil},
		{domain.SectionContact, payload.Contact, payload.Contact != nil},
		{domain.SectionCourse, payload.Course, payload.Course != nil},
		{domain.SectionGuardian, payload.Guardian, payload.Guardian != nil},
		{domain.SectionFinancial, payload.Financial, payload.Financial != nil},
	}

	var problems []string
	for _, s := range sections {
		if !s.set {
			continue
		}
		if err := pv.validate.Struct(s.value); err != nil {
			problems = append(problems, describe(s.name, err)...)
		}
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", apperrors.ErrValidation, strings.Join(problems, "; "))
	}
	return nil
}

func describe(section domain.PayloadSection, err error) []string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{fmt.Sprintf("%s: %v", section, err)}
	}
	out := make([]string, len(verrs))
	for i, fe := range verrs {
		out[i] = fmt.Sprintf("%s.%s failed %s", section, fe.Field(), fe.Tag())
	}
	return out
}
