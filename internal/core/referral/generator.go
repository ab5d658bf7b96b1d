// Package referral builds the short codes that attribute applications to referring accounts.
//
// Codes are deterministic: the same inputs always produce the same candidate sequence. A candidate
// that is already taken moves generation to the next one; the sequence is bounded by
// MaxDeterministicAttempts variations of the base code followed by MaxFallbackAttempts
// timestamp-derived codes.
package referral

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/SscSPs/admission_workflow_app/internal/apperrors"
	"github.com/SscSPs/admission_workflow_app/internal/core/domain"
)

const (
	// MaxDeterministicAttempts is the number of variations tried after the base code.
	MaxDeterministicAttempts = 5
	// MaxFallbackAttempts is the number of timestamp-derived codes tried once variations run out.
	MaxFallbackAttempts = 3

	namePrefixLen = 3
	nameFiller    = 'x'
	noPhoneDigits = "00"
	fallbackLen   = 8
	minCodeLen    = 4
	maxCodeLen    = 16
)

// Role tags, one letter each.
const (
	TagStudent = "s"
	TagAgent   = "a"
	TagStaff   = "t"
	TagAdmin   = "d"
)

// RoleTagFor maps an account role to its one-letter tag.
func RoleTagFor(role domain.ActorRole) (string, error) {
	switch role {
	case domain.ActorApplicant:
		return TagStudent, nil
	case domain.ActorAgent:
		return TagAgent, nil
	case domain.ActorStaff, domain.ActorReviewer:
		return TagStaff, nil
	case domain.ActorAdmin:
		return TagAdmin, nil
	}
	return "", fmt.Errorf("%w: no referral tag for role %q", apperrors.ErrValidation, role)
}

// BaseCode builds the deterministic code: three name letters, two phone digits, the role tag and the
// two-digit year.
func BaseCode(displayName, phoneNumber, roleTag string, year int) string {
	var b strings.Builder
	for _, r := range strings.ToLower(displayName) {
		if b.Len() == namePrefixLen {
			break
		}
		if r < unicode.MaxASCII && unicode.IsLetter(r) {
			b.WriteRune(r)
		}
	}
	for b.Len() < namePrefixLen {
		b.WriteRune(nameFiller)
	}

	b.WriteString(lastTwoDigits(phoneNumber))
	b.WriteString(strings.ToLower(roleTag))
	b.WriteString(fmt.Sprintf("%02d", ((year%100)+100)%100))
	return b.String()
}

func lastTwoDigits(phone string) string {
	var digits []rune
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			digits = append(digits, r)
		}
	}
	switch len(digits) {
	case 0:
		return noPhoneDigits
	case 1:
		return "0" + string(digits)
	}
	return string(digits[len(digits)-2:])
}

// Variation returns the attempt-th deterministic variant of base, for attempt in
// 1..MaxDeterministicAttempts.
func Variation(base string, attempt int) string {
	return base + strconv.Itoa(attempt)
}

// FallbackCode derives a code from the clock and the role tag.
func FallbackCode(roleTag string, at time.Time, attempt int) string {
	stamp := strconv.FormatInt(at.UnixMilli()+int64(attempt), 36)
	if len(stamp) > fallbackLen {
		stamp = stamp[len(stamp)-fallbackLen:]
	}
	return strings.ToLower(roleTag) + stamp
}

// Candidates returns every code generation may try, in order: base, variations, fallbacks.
func Candidates(displayName, phoneNumber, roleTag string, year int, now time.Time) []string {
	base := BaseCode(displayName, phoneNumber, roleTag, year)
	out := make([]string, 0, 1+MaxDeterministicAttempts+MaxFallbackAttempts)
	out = append(out, base)
	for i := 1; i <= MaxDeterministicAttempts; i++ {
		out = append(out, Variation(base, i))
	}
	for i := 0; i < MaxFallbackAttempts; i++ {
		out = append(out, FallbackCode(roleTag, now, i))
	}
	return out
}

// Normalize returns the canonical form used for storage and lookup.
func Normalize(code string) string {
	return strings.ToLower(strings.TrimSpace(code))
}

// ValidateFormat checks that code is a plausible referral code.
func ValidateFormat(code string) error {
	c := Normalize(code)
	if len(c) < minCodeLen || len(c) > maxCodeLen {
		return fmt.Errorf("%w: referral code must be %d-%d characters", apperrors.ErrValidation, minCodeLen, maxCodeLen)
	}
	for _, r := range c {
		if !(r >= 'a' && r <= 'z') && !(r >= '0' && r <= '9') {
			return fmt.Errorf("%w: referral code must be alphanumeric", apperrors.ErrValidation)
		}
	}
	return nil
}
