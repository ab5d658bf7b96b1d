package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/admission_workflow_app/internal/core/ports/services"
	"github.com/SscSPs/admission_workflow_app/internal/dto"
	"github.com/SscSPs/admission_workflow_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// referralHandler handles referral code allocation and lookup.
type referralHandler struct {
	referralService portssvc.ReferralSvcFacade
}

func newReferralHandler(rs portssvc.ReferralSvcFacade) *referralHandler {
	return &referralHandler{referralService: rs}
}

func registerReferralRoutes(rg *gin.RouterGroup, referralService portssvc.ReferralSvcFacade) {
	h := newReferralHandler(referralService)

	referrals := rg.Group("/referrals")
	{
		referrals.POST("", h.generateCode)
		referrals.POST("/bind", h.bindCode)
		referrals.GET("/:code", h.validateCode)
	}
}

// generateCode godoc
// @Summary Get or generate the caller's referral code
// @Description Returns the code bound to the caller, generating and binding a new one if none exists
// @Tags referrals
// @Accept  json
// @Produce  json
// @Param   request body dto.GenerateReferralCodeRequest true "Name and phone used to derive the code"
// @Success 200 {object} dto.ReferralCodeResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to generate referral code"
// @Security BearerAuth
// @Router /referrals [post]
func (h *referralHandler) generateCode(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}

	var req dto.GenerateReferralCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for GenerateReferralCode", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	binding, err := h.referralService.GenerateCode(c.Request.Context(), actor, req)
	if err != nil {
		respondError(c, logger, err, "GenerateReferralCode")
		return
	}

	logger.Info("Referral code issued", slog.String("code", binding.Code))
	c.JSON(http.StatusOK, dto.ToReferralCodeResponse(binding))
}

// bindCode godoc
// @Summary Claim a specific referral code
// @Description Binds the given code to the caller. Rebinding the caller's own code is a no-op.
// @Tags referrals
// @Accept  json
// @Produce  json
// @Param   request body dto.BindReferralCodeRequest true "Code to claim"
// @Success 200 {object} dto.ReferralCodeResponse
// @Failure 400 {object} map[string]string "Invalid code format"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 409 {object} map[string]string "Code already in use or caller already holds a code"
// @Security BearerAuth
// @Router /referrals/bind [post]
func (h *referralHandler) bindCode(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}

	var req dto.BindReferralCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for BindReferralCode", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	binding, err := h.referralService.Bind(c.Request.Context(), actor, req.Code)
	if err != nil {
		respondError(c, logger, err, "BindReferralCode")
		return
	}

	c.JSON(http.StatusOK, dto.ToReferralCodeResponse(binding))
}

// validateCode godoc
// @Summary Validate a referral code
// @Description Returns the account the code refers to
// @Tags referrals
// @Produce  json
// @Param   code path string true "Referral code"
// @Success 200 {object} dto.ValidateReferralCodeResponse
// @Failure 404 {object} map[string]string "Unknown referral code"
// @Security BearerAuth
// @Router /referrals/{code} [get]
func (h *referralHandler) validateCode(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	code := c.Param("code")

	referrerID, err := h.referralService.Validate(c.Request.Context(), code)
	if err != nil {
		respondError(c, logger, err, "ValidateReferralCode")
		return
	}

	c.JSON(http.StatusOK, dto.ValidateReferralCodeResponse{Code: code, ReferrerID: referrerID})
}
