package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/admission_workflow_app/internal/apperrors"
	"github.com/gin-gonic/gin"
)

const (
	msgConcurrentModification = "The application was changed by someone else. Reload and retry."
	msgInternal               = "Internal server error"
)

// statusForError maps a service error to an HTTP status. The second result reports whether the
// error message may be shown to the caller.
func statusForError(err error) (int, bool) {
	switch {
	case errors.Is(err, apperrors.ErrConcurrentModification):
		return http.StatusConflict, false
	case apperrors.IsInvariantFailure(err):
		return http.StatusInternalServerError, false
	case errors.Is(err, apperrors.ErrValidation),
		errors.Is(err, apperrors.ErrUnknownRejectionReason):
		return http.StatusBadRequest, true
	case errors.Is(err, apperrors.ErrForbidden):
		return http.StatusForbidden, true
	case errors.Is(err, apperrors.ErrNotFound),
		errors.Is(err, apperrors.ErrDocumentNotFound):
		return http.StatusNotFound, true
	case errors.Is(err, apperrors.ErrIncompleteApplication),
		errors.Is(err, apperrors.ErrDocumentsNotVerified):
		return http.StatusUnprocessableEntity, true
	case errors.Is(err, apperrors.ErrInvalidTransition),
		errors.Is(err, apperrors.ErrCodeAlreadyInUse),
		errors.Is(err, apperrors.ErrDuplicate):
		return http.StatusConflict, true
	default:
		return http.StatusInternalServerError, false
	}
}

// respondError writes the error response for err. Caller errors are returned verbatim, everything
// else gets a generic message and is logged at error level.
func respondError(c *gin.Context, logger *slog.Logger, err error, op string) {
	status, visible := statusForError(err)
	if visible {
		logger.Warn(op+" rejected", slog.String("error", err.Error()), slog.Int("status", status))
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	logger.Error(op+" failed", slog.String("error", err.Error()), slog.Int("status", status))
	msg := msgInternal
	if status == http.StatusConflict {
		msg = msgConcurrentModification
	}
	c.JSON(status, gin.H{"error": msg})
}
