package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yigit/projecttracker/internal/app/models/dto"
)

// Health answers the liveness probe
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.HealthResponse}
// @Router /health [get]
func Health(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.HealthResponse{Status: "ok"}, ""))
}
