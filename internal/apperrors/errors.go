package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrForbidden indicates that the actor is not allowed to perform the operation.
var ErrForbidden = errors.New("forbidden")

// Workflow caller errors. These are expected outcomes and are surfaced verbatim to the API layer.
var (
	ErrIncompleteApplication  = errors.New("application is incomplete")
	ErrInvalidTransition      = errors.New("invalid status transition")
	ErrUnknownRejectionReason = errors.New("unknown rejection reason")
	ErrDocumentNotFound       = errors.New("document not found")
	ErrDocumentsNotVerified   = errors.New("required documents are not verified")
	ErrCodeAlreadyInUse       = errors.New("referral code already in use")
)

// Invariant failures. They should not happen under correct concurrent usage; callers log them with
// full context and report a generic failure.
var (
	ErrInvariantViolation      = errors.New("invariant violation")
	ErrConcurrentModification  = errors.New("concurrent modification")
	ErrCodeGenerationExhausted = errors.New("referral code generation exhausted")
)

// IsInvariantFailure reports whether err belongs to the invariant failure tier.
func IsInvariantFailure(err error) bool {
	return errors.Is(err, ErrInvariantViolation) ||
		errors.Is(err, ErrConcurrentModification) ||
		errors.Is(err, ErrCodeGenerationExhausted)
}

// AppError carries an HTTP-ish status code alongside the wrapped cause.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates an AppError wrapping err.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewNotFoundError creates a 404 AppError that matches ErrNotFound.
func NewNotFoundError(message string) *AppError {
	return &AppError{Code: 404, Message: message, Err: ErrNotFound}
}

// NewConflictError creates a 409 AppError that matches ErrConcurrentModification.
func NewConflictError(message string) *AppError {
	return &AppError{Code: 409, Message: message, Err: ErrConcurrentModification}
}
