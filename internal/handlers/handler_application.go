package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/admission_workflow_app/internal/core/domain"
	portssvc "github.com/SscSPs/admission_workflow_app/internal/core/ports/services"
	"github.com/SscSPs/admission_workflow_app/internal/dto"
	"github.com/SscSPs/admission_workflow_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// applicationHandler handles HTTP requests that create and edit applications.
type applicationHandler struct {
	applicationService portssvc.ApplicationSvcFacade
}

// newApplicationHandler creates a new applicationHandler.
func newApplicationHandler(as portssvc.ApplicationSvcFacade) *applicationHandler {
	return &applicationHandler{
		applicationService: as,
	}
}

// registerApplicationRoutes registers the applicant-facing application routes.
func registerApplicationRoutes(rg *gin.RouterGroup, applicationService portssvc.ApplicationSvcFacade) {
	h := newApplicationHandler(applicationService)

	applications := rg.Group("/applications")
	{
		applications.POST("", h.createApplication)
		applications.GET("", h.listApplications)
		applications.GET("/:applicationID", h.getApplication)
		applications.PUT("/:applicationID/payload", h.updatePayload)
		applications.PUT("/:applicationID/documents/:documentType", h.attachDocument)
	}
}

// requireActor returns the authenticated actor or writes a 401.
func requireActor(c *gin.Context, logger *slog.Logger) (domain.Actor, bool) {
	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		logger.Error("Actor not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return domain.Actor{}, false
	}
	return actor, true
}

// createApplication godoc
// @Summary Create a new application draft
// @Description Creates a DRAFT owned by the caller, optionally pre-filled with payload sections
// @Tags applications
// @Accept  json
// @Produce  json
// @Param   application body dto.CreateApplicationRequest false "Initial payload sections"
// @Success 201 {object} dto.ApplicationResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to create application"
// @Security BearerAuth
// @Router /applications [post]
func (h *applicationHandler) createApplication(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}

	var req dto.CreateApplicationRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			logger.Warn("Failed to bind JSON for CreateApplication", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
			return
		}
	}

	app, err := h.applicationService.CreateDraft(c.Request.Context(), actor, req)
	if err != nil {
		respondError(c, logger, err, "CreateApplication")
		return
	}

	logger.Info("Application draft created", slog.String("application_id", app.ApplicationID))
	c.JSON(http.StatusCreated, dto.ToApplicationResponse(app))
}

// getApplication godoc
// @Summary Get an application by ID
// @Description Returns the full application. Applicants may only read their own.
// @Tags applications
// @Produce  json
// @Param   applicationID path string true "Application ID"
// @Success 200 {object} dto.ApplicationResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Application not found"
// @Failure 500 {object} map[string]string "Failed to retrieve application"
// @Security BearerAuth
// @Router /applications/{applicationID} [get]
func (h *applicationHandler) getApplication(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}
	applicationID := c.Param("applicationID")
	logger = logger.With(slog.String("application_id", applicationID))

	app, err := h.applicationService.GetApplication(c.Request.Context(), applicationID, actor)
	if err != nil {
		respondError(c, logger, err, "GetApplication")
		return
	}

	c.JSON(http.StatusOK, dto.ToApplicationResponse(app))
}

// listApplications godoc
// @Summary List applications
// @Description Reviewers page through all applications, applicants only see their own
// @Tags applications
// @Produce  json
// @Param   status query string false "Filter by status"
// @Param   ownerID query string false "Filter by owner (reviewers only)"
// @Param   limit query int false "Limit number of results" default(20)
// @Param   nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.ListApplicationsResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list applications"
// @Security BearerAuth
// @Router /applications [get]
func (h *applicationHandler) listApplications(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}

	var params dto.ListApplicationsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for ListApplications", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	resp, err := h.applicationService.ListApplications(c.Request.Context(), actor, params)
	if err != nil {
		respondError(c, logger, err, "ListApplications")
		return
	}

	logger.Info("Applications listed", slog.Int("count", len(resp.Applications)))
	c.JSON(http.StatusOK, resp)
}

// updatePayload godoc
// @Summary Update application payload
// @Description Overwrites the supplied payload sections of a DRAFT or REJECTED application
// @Tags applications
// @Accept  json
// @Produce  json
// @Param   applicationID path string true "Application ID"
// @Param   payload body dto.UpdatePayloadRequest true "Payload sections"
// @Success 200 {object} dto.ApplicationResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Application not found"
// @Failure 409 {object} map[string]string "Application is not editable or was modified concurrently"
// @Security BearerAuth
// @Router /applications/{applicationID}/payload [put]
func (h *applicationHandler) updatePayload(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}
	applicationID := c.Param("applicationID")
	logger = logger.With(slog.String("application_id", applicationID))

	var req dto.UpdatePayloadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdatePayload", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	app, err := h.applicationService.UpdatePayload(c.Request.Context(), applicationID, actor, req)
	if err != nil {
		respondError(c, logger, err, "UpdatePayload")
		return
	}

	c.JSON(http.StatusOK, dto.ToApplicationResponse(app))
}

// attachDocument godoc
// @Summary Attach a document
// @Description Attaches or replaces the document of one type. Replacing resets its review.
// @Tags applications
// @Accept  json
// @Produce  json
// @Param   applicationID path string true "Application ID"
// @Param   documentType path string true "Document type, e.g. PHOTOGRAPH"
// @Param   document body dto.AttachDocumentRequest true "Stored file reference"
// @Success 200 {object} dto.ApplicationResponse
// @Failure 400 {object} map[string]string "Invalid input format or unknown document type"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Application not found"
// @Failure 409 {object} map[string]string "Documents cannot be changed in the current status"
// @Security BearerAuth
// @Router /applications/{applicationID}/documents/{documentType} [put]
func (h *applicationHandler) attachDocument(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}
	applicationID := c.Param("applicationID")
	logger = logger.With(slog.String("application_id", applicationID))

	docType, err := domain.ParseDocumentType(c.Param("documentType"))
	if err != nil {
		respondError(c, logger, err, "AttachDocument")
		return
	}

	var req dto.AttachDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for AttachDocument", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	app, err := h.applicationService.AttachDocument(c.Request.Context(), applicationID, actor, docType, req)
	if err != nil {
		respondError(c, logger, err, "AttachDocument")
		return
	}

	logger.Info("Document attached", slog.String("document_type", string(docType)))
	c.JSON(http.StatusOK, dto.ToApplicationResponse(app))
}
