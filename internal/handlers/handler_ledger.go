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

type ledgerHandler struct {
	ledgerService portssvc.LedgerSvcFacade
}

func newLedgerHandler(ls portssvc.LedgerSvcFacade) *ledgerHandler {
	return &ledgerHandler{ledgerService: ls}
}

func registerLedgerRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerSvcFacade) {
	h := newLedgerHandler(ledgerService)
	rg.PATCH("/applications/:applicationID/documents/:documentType/status", middleware.RequireReviewer(), h.setDocumentStatus)
}

// setDocumentStatus godoc
// @Summary Record a document verdict
// @Description Sets the review status of one document and returns the recounted document totals
// @Tags ledger
// @Accept  json
// @Produce  json
// @Param   applicationID path string true "Application ID"
// @Param   documentType path string true "Document type, e.g. PHOTOGRAPH"
// @Param   verdict body dto.SetDocumentStatusRequest true "New status and remarks"
// @Success 200 {object} dto.LedgerResponse
// @Failure 400 {object} map[string]string "Invalid status or document type"
// @Failure 403 {object} map[string]string "Reviewer role required"
// @Failure 404 {object} map[string]string "Application or document not found"
// @Failure 409 {object} map[string]string "Documents cannot be reviewed in the current status"
// @Security BearerAuth
// @Router /applications/{applicationID}/documents/{documentType}/status [patch]
func (h *ledgerHandler) setDocumentStatus(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}
	applicationID := c.Param("applicationID")
	logger = logger.With(slog.String("application_id", applicationID))

	docType, err := domain.ParseDocumentType(c.Param("documentType"))
	if err != nil {
		respondError(c, logger, err, "SetDocumentStatus")
		return
	}

	var req dto.SetDocumentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for SetDocumentStatus", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	app, err := h.ledgerService.SetDocumentStatus(c.Request.Context(), applicationID, docType, actor, req)
	if err != nil {
		respondError(c, logger, err, "SetDocumentStatus")
		return
	}

	doc, _ := app.Document(docType)
	logger.Info("Document reviewed", slog.String("document_type", string(docType)), slog.String("status", string(doc.Status)))
	c.JSON(http.StatusOK, dto.LedgerResponse{
		Document:       dto.ToDocumentResponse(doc),
		DocumentCounts: app.DocumentCounts,
		Version:        app.Version,
	})
}
