package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/yigit/projecttracker/internal/app/models/dto"
	"github.com/yigit/projecttracker/internal/app/services"
	"github.com/yigit/projecttracker/internal/middleware"
)

// SupervisorController handles supervisor profile endpoints
type SupervisorController struct {
	userService *services.UserService
	logger      zerolog.Logger
}

// NewSupervisorController creates a new SupervisorController
func NewSupervisorController(userService *services.UserService, logger zerolog.Logger) *SupervisorController {
	return &SupervisorController{
		userService: userService,
		logger:      logger,
	}
}

// GetSupervisors lists every supervisor
// @Summary List supervisors
// @Tags supervisors
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.UserResponse} "Supervisors retrieved successfully"
// @Failure 401 {object} dto.ErrorResponse "Not authorized to access this route"
// @Router /supervisors [get]
func (c *SupervisorController) GetSupervisors(ctx *gin.Context) {
	supervisors, err := c.userService.ListSupervisors(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewUserResponses(supervisors), "Supervisors retrieved successfully"))
}

// GetSupervisor returns one supervisor
// @Summary Get supervisor
// @Tags supervisors
// @Produce json
// @Security BearerAuth
// @Param id path string true "Supervisor ID"
// @Success 200 {object} dto.APIResponse{data=dto.UserResponse} "Supervisor retrieved successfully"
// @Failure 404 {object} dto.ErrorResponse "Supervisor not found"
// @Router /supervisors/{id} [get]
func (c *SupervisorController) GetSupervisor(ctx *gin.Context) {
	supervisor, err := c.userService.GetSupervisor(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewUserResponse(supervisor), "Supervisor retrieved successfully"))
}

// UpdateSupervisor edits a supervisor profile
// @Summary Update supervisor
// @Tags supervisors
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Supervisor ID"
// @Param request body dto.UpdateSupervisorRequest true "Fields to change"
// @Success 200 {object} dto.APIResponse{data=dto.UserResponse} "Supervisor updated successfully"
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Failure 403 {object} dto.ErrorResponse "Not authorized to update this supervisor"
// @Failure 404 {object} dto.ErrorResponse "Supervisor not found"
// @Router /supervisors/{id} [put]
func (c *SupervisorController) UpdateSupervisor(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}

	var req dto.UpdateSupervisorRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.RespondBindError(ctx, err)
		return
	}

	supervisor, err := c.userService.UpdateSupervisor(ctx.Request.Context(), actor, ctx.Param("id"), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewUserResponse(supervisor), "Supervisor updated successfully"))
}

// DeleteSupervisor removes the caller's own supervisor account
// @Summary Delete supervisor
// @Tags supervisors
// @Produce json
// @Security BearerAuth
// @Param id path string true "Supervisor ID"
// @Success 200 {object} dto.APIResponse "Supervisor deleted successfully"
// @Failure 403 {object} dto.ErrorResponse "Not authorized to delete this supervisor"
// @Failure 404 {object} dto.ErrorResponse "Supervisor not found"
// @Router /supervisors/{id} [delete]
func (c *SupervisorController) DeleteSupervisor(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}

	if err := c.userService.DeleteSupervisor(ctx.Request.Context(), actor, ctx.Param("id")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Str("supervisorID", ctx.Param("id")).Msg("Supervisor deleted")
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.EmptyData{}, "Supervisor deleted successfully"))
}
