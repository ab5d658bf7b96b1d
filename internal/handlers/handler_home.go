package handlers

import (
	"net/http"

	"github.com/SscSPs/admission_workflow_app/internal/dto"
	"github.com/gin-gonic/gin"
)

// getHome godoc
// @Summary Show the status of server.
// @Description get the status of server.
// @Tags root
// @Accept */*
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router / [get]
func getHome(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"message": "Admissions Workflow API v1"})
}

// listRejectionReasons godoc
// @Summary List rejection reasons
// @Description Returns the rejection catalog grouped by category
// @Tags catalog
// @Produce json
// @Success 200 {object} dto.RejectionCatalogResponse
// @Security BearerAuth
// @Router /rejection-reasons [get]
func listRejectionReasons(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, dto.ToRejectionCatalogResponse())
}

func registerCatalogRoutes(group *gin.RouterGroup) {
	group.GET("/rejection-reasons", listRejectionReasons)
}
