package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/yigit/projecttracker/internal/app/models/dto"
	"github.com/yigit/projecttracker/internal/app/services"
	"github.com/yigit/projecttracker/internal/middleware"
)

// AdminController handles the administrative endpoints. Every route is gated to admins.
type AdminController struct {
	adminService   *services.AdminService
	authService    *services.AuthService
	userService    *services.UserService
	projectService *services.ProjectService
	logger         zerolog.Logger
}

// NewAdminController creates a new AdminController
func NewAdminController(svc *services.Services, logger zerolog.Logger) *AdminController {
	return &AdminController{
		adminService:   svc.Admin,
		authService:    svc.Auth,
		userService:    svc.Users,
		projectService: svc.Projects,
		logger:         logger,
	}
}

// AssignStudent adds a student to a supervisor's list
// @Summary Assign student to supervisor
// @Description Idempotent: assigning an already assigned student changes nothing.
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.AssignStudentRequest true "Assignment"
// @Success 200 {object} dto.APIResponse{data=dto.AssignmentResponse} "Student assigned to supervisor successfully"
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Failure 404 {object} dto.ErrorResponse "Student or supervisor not found"
// @Router /admin/assign-student [post]
func (c *AdminController) AssignStudent(ctx *gin.Context) {
	var req dto.AssignStudentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.RespondBindError(ctx, err)
		return
	}

	supervisor, err := c.adminService.AssignStudent(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(
		dto.NewAssignmentResponse(req.StudentID, supervisor),
		"Student assigned to supervisor successfully",
	))
}

// GetUsers lists every account
// @Summary List users
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.UserResponse} "Users retrieved successfully"
// @Failure 403 {object} dto.ErrorResponse "Role not allowed"
// @Router /admin/users [get]
func (c *AdminController) GetUsers(ctx *gin.Context) {
	users, err := c.userService.ListUsers(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewUserResponses(users), "Users retrieved successfully"))
}

// CreateAdmin creates another admin account
// @Summary Create admin
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateAdminRequest true "Admin account"
// @Success 201 {object} dto.APIResponse{data=dto.AuthUser} "Admin created successfully"
// @Failure 400 {object} dto.ErrorResponse "User already exists"
// @Router /admin/create-admin [post]
func (c *AdminController) CreateAdmin(ctx *gin.Context) {
	var req dto.CreateAdminRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.RespondBindError(ctx, err)
		return
	}

	admin, err := c.authService.CreateAdmin(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(dto.AuthUser{
		ID:    admin.ID,
		Name:  admin.Name,
		Email: admin.Email,
		Role:  admin.Role,
	}, "Admin created successfully"))
}

// GetProjects lists projects with the same filters as the public listing
// @Summary List all projects
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param status query string false "Project status" Enums(pending, approved, rejected)
// @Param studentId query string false "Student ID"
// @Param supervisorId query string false "Supervisor ID"
// @Success 200 {object} dto.APIResponse{data=[]dto.ProjectResponse} "Projects retrieved successfully"
// @Router /admin/projects [get]
func (c *AdminController) GetProjects(ctx *gin.Context) {
	listProjects(ctx, c.projectService, c.logger)
}

// UpdateProjectStatus overrides a project's status
// @Summary Override project status
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Project ID"
// @Param request body dto.ProjectStatusRequest true "New status"
// @Success 200 {object} dto.APIResponse{data=dto.ProjectResponse} "Project status updated successfully"
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Failure 404 {object} dto.ErrorResponse "Project not found"
// @Router /admin/projects/{id}/status [put]
func (c *AdminController) UpdateProjectStatus(ctx *gin.Context) {
	var req dto.ProjectStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.RespondBindError(ctx, err)
		return
	}

	project, err := c.projectService.OverrideStatus(ctx.Request.Context(), ctx.Param("id"), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(project, "Project status updated successfully"))
}

// DeleteUser removes any account together with its projects
// @Summary Delete user
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} dto.APIResponse "User deleted successfully"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Router /admin/users/{id} [delete]
func (c *AdminController) DeleteUser(ctx *gin.Context) {
	if err := c.adminService.DeleteUser(ctx.Request.Context(), ctx.Param("id")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Str("userID", ctx.Param("id")).Msg("User deleted by admin")
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.EmptyData{}, "User deleted successfully"))
}

// GetStats returns the dashboard counters
// @Summary Statistics
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=models.Stats} "Stats retrieved successfully"
// @Router /admin/stats [get]
func (c *AdminController) GetStats(ctx *gin.Context) {
	stats, err := c.adminService.Stats(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(stats, "Stats retrieved successfully"))
}
