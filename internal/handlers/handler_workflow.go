package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/SscSPs/admission_workflow_app/internal/core/domain"
	portssvc "github.com/SscSPs/admission_workflow_app/internal/core/ports/services"
	"github.com/SscSPs/admission_workflow_app/internal/dto"
	"github.com/SscSPs/admission_workflow_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// workflowHandler handles status transitions of an application.
type workflowHandler struct {
	workflowService portssvc.WorkflowSvcFacade
}

func newWorkflowHandler(ws portssvc.WorkflowSvcFacade) *workflowHandler {
	return &workflowHandler{workflowService: ws}
}

// registerWorkflowRoutes registers transition routes. Reviewer-only transitions are guarded by
// RequireReviewer on top of the checks the workflow itself performs.
func registerWorkflowRoutes(rg *gin.RouterGroup, workflowService portssvc.WorkflowSvcFacade) {
	h := newWorkflowHandler(workflowService)

	app := rg.Group("/applications/:applicationID")
	{
		app.POST("/submit", h.submit)
		app.POST("/resubmit", h.resubmit)
		app.POST("/cancel", h.cancel)
	}

	review := app.Group("", middleware.RequireReviewer())
	{
		review.POST("/review", h.beginReview)
		review.POST("/approve", h.approve)
		review.POST("/reject", h.reject)
		review.POST("/notes", h.addNote)
	}
}

// bindOptionalJSON binds the body into obj unless the body is empty.
func bindOptionalJSON(c *gin.Context, obj any) error {
	if err := c.ShouldBindJSON(obj); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// transitionCall runs one workflow operation with the shared request plumbing.
func (h *workflowHandler) transitionCall(c *gin.Context, op string, req any, call func(applicationID string, actor domain.Actor) (*domain.Application, error)) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}
	applicationID := c.Param("applicationID")
	logger = logger.With(slog.String("application_id", applicationID))

	if req != nil {
		if err := bindOptionalJSON(c, req); err != nil {
			logger.Warn("Failed to bind JSON for "+op, slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
			return
		}
	}

	app, err := call(applicationID, actor)
	if err != nil {
		respondError(c, logger, err, op)
		return
	}

	logger.Info(op+" completed", slog.String("status", string(app.Status)), slog.Int64("version", app.Version))
	c.JSON(http.StatusOK, dto.ToApplicationResponse(app))
}

// submit godoc
// @Summary Submit an application
// @Description Moves a complete DRAFT to SUBMITTED and assigns its application code. An optional referral code attributes the application.
// @Tags workflow
// @Accept  json
// @Produce  json
// @Param   applicationID path string true "Application ID"
// @Param   submit body dto.SubmitApplicationRequest false "Referral code"
// @Success 200 {object} dto.ApplicationResponse
// @Failure 400 {object} map[string]string "Invalid referral code"
// @Failure 403 {object} map[string]string "Only the owner can submit"
// @Failure 404 {object} map[string]string "Application or referral code not found"
// @Failure 409 {object} map[string]string "Invalid transition or concurrent modification"
// @Failure 422 {object} map[string]string "Application is incomplete"
// @Security BearerAuth
// @Router /applications/{applicationID}/submit [post]
func (h *workflowHandler) submit(c *gin.Context) {
	var req dto.SubmitApplicationRequest
	h.transitionCall(c, "Submit", &req, func(id string, actor domain.Actor) (*domain.Application, error) {
		return h.workflowService.Submit(c.Request.Context(), id, actor, req)
	})
}

// beginReview godoc
// @Summary Start reviewing an application
// @Description Moves a SUBMITTED application to UNDER_REVIEW
// @Tags workflow
// @Produce  json
// @Param   applicationID path string true "Application ID"
// @Success 200 {object} dto.ApplicationResponse
// @Failure 403 {object} map[string]string "Reviewer role required"
// @Failure 404 {object} map[string]string "Application not found"
// @Failure 409 {object} map[string]string "Invalid transition or concurrent modification"
// @Security BearerAuth
// @Router /applications/{applicationID}/review [post]
func (h *workflowHandler) beginReview(c *gin.Context) {
	h.transitionCall(c, "BeginReview", nil, func(id string, actor domain.Actor) (*domain.Application, error) {
		return h.workflowService.BeginReview(c.Request.Context(), id, actor)
	})
}

// approve godoc
// @Summary Approve an application
// @Description Approves an application under review once every required document is approved
// @Tags workflow
// @Accept  json
// @Produce  json
// @Param   applicationID path string true "Application ID"
// @Param   approval body dto.ReviewActionRequest false "Reviewer remarks"
// @Success 200 {object} dto.ApplicationResponse
// @Failure 403 {object} map[string]string "Reviewer role required"
// @Failure 404 {object} map[string]string "Application not found"
// @Failure 409 {object} map[string]string "Invalid transition or concurrent modification"
// @Failure 422 {object} map[string]string "Required documents are not verified"
// @Security BearerAuth
// @Router /applications/{applicationID}/approve [post]
func (h *workflowHandler) approve(c *gin.Context) {
	var req dto.ReviewActionRequest
	h.transitionCall(c, "Approve", &req, func(id string, actor domain.Actor) (*domain.Application, error) {
		return h.workflowService.Approve(c.Request.Context(), id, actor, req)
	})
}

// reject godoc
// @Summary Reject an application
// @Description Rejects an application with a reason from the rejection catalog. Details may be strings or objects.
// @Tags workflow
// @Accept  json
// @Produce  json
// @Param   applicationID path string true "Application ID"
// @Param   rejection body dto.RejectApplicationRequest true "Reason code, message and details"
// @Success 200 {object} dto.ApplicationResponse
// @Failure 400 {object} map[string]string "Unknown reason or invalid details"
// @Failure 403 {object} map[string]string "Reviewer role required"
// @Failure 404 {object} map[string]string "Application not found"
// @Failure 409 {object} map[string]string "Invalid transition or concurrent modification"
// @Security BearerAuth
// @Router /applications/{applicationID}/reject [post]
func (h *workflowHandler) reject(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.RejectApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for Reject", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	h.transitionCall(c, "Reject", nil, func(id string, actor domain.Actor) (*domain.Application, error) {
		return h.workflowService.Reject(c.Request.Context(), id, actor, req)
	})
}

// resubmit godoc
// @Summary Resubmit a rejected application
// @Description Returns a REJECTED application to SUBMITTED. History is kept.
// @Tags workflow
// @Accept  json
// @Produce  json
// @Param   applicationID path string true "Application ID"
// @Param   resubmission body dto.ResubmitApplicationRequest false "Optional note"
// @Success 200 {object} dto.ApplicationResponse
// @Failure 403 {object} map[string]string "Only the owner can resubmit"
// @Failure 404 {object} map[string]string "Application not found"
// @Failure 409 {object} map[string]string "Invalid transition or concurrent modification"
// @Security BearerAuth
// @Router /applications/{applicationID}/resubmit [post]
func (h *workflowHandler) resubmit(c *gin.Context) {
	var req dto.ResubmitApplicationRequest
	h.transitionCall(c, "Resubmit", &req, func(id string, actor domain.Actor) (*domain.Application, error) {
		return h.workflowService.Resubmit(c.Request.Context(), id, actor, req)
	})
}

// cancel godoc
// @Summary Cancel an application
// @Description Cancels a non-final application. Allowed for the owner and reviewers.
// @Tags workflow
// @Accept  json
// @Produce  json
// @Param   applicationID path string true "Application ID"
// @Param   cancellation body dto.CancelApplicationRequest false "Optional reason"
// @Success 200 {object} dto.ApplicationResponse
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Application not found"
// @Failure 409 {object} map[string]string "Invalid transition or concurrent modification"
// @Security BearerAuth
// @Router /applications/{applicationID}/cancel [post]
func (h *workflowHandler) cancel(c *gin.Context) {
	var req dto.CancelApplicationRequest
	h.transitionCall(c, "Cancel", &req, func(id string, actor domain.Actor) (*domain.Application, error) {
		return h.workflowService.Cancel(c.Request.Context(), id, actor, req)
	})
}

// addNote godoc
// @Summary Add an admin note
// @Description Appends a reviewer note without changing status
// @Tags workflow
// @Accept  json
// @Produce  json
// @Param   applicationID path string true "Application ID"
// @Param   note body dto.AddAdminNoteRequest true "Note"
// @Success 200 {object} dto.ApplicationResponse
// @Failure 400 {object} map[string]string "Note is required"
// @Failure 403 {object} map[string]string "Reviewer role required"
// @Failure 404 {object} map[string]string "Application not found"
// @Security BearerAuth
// @Router /applications/{applicationID}/notes [post]
func (h *workflowHandler) addNote(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.AddAdminNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for AddAdminNote", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	h.transitionCall(c, "AddAdminNote", nil, func(id string, actor domain.Actor) (*domain.Application, error) {
		return h.workflowService.AddAdminNote(c.Request.Context(), id, actor, req)
	})
}
