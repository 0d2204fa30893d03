package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/yigit/projecttracker/internal/app/models/dto"
	"github.com/yigit/projecttracker/internal/app/services"
	"github.com/yigit/projecttracker/internal/middleware"
)

// ProjectController handles project endpoints
type ProjectController struct {
	projectService *services.ProjectService
	logger         zerolog.Logger
}

// NewProjectController creates a new ProjectController
func NewProjectController(projectService *services.ProjectService, logger zerolog.Logger) *ProjectController {
	return &ProjectController{
		projectService: projectService,
		logger:         logger,
	}
}

// CreateProject handles project submission
// @Summary Submit a project
// @Description Creates a pending project for the authenticated student under an existing supervisor
// @Tags projects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateProjectRequest true "Project proposal"
// @Success 201 {object} dto.APIResponse{data=dto.ProjectResponse} "Project created successfully"
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Failure 401 {object} dto.ErrorResponse "Not authorized to access this route"
// @Failure 403 {object} dto.ErrorResponse "Role not allowed"
// @Failure 404 {object} dto.ErrorResponse "Student or supervisor not found"
// @Router /projects [post]
func (c *ProjectController) CreateProject(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}

	var req dto.CreateProjectRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		c.logger.Warn().Err(err).Msg("Invalid project payload")
		middleware.RespondBindError(ctx, err)
		return
	}

	project, err := c.projectService.Create(ctx.Request.Context(), actor, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(project, "Project created successfully"))
}

// GetProjects lists projects
// @Summary List projects
// @Description Lists projects with optional filters. Student and supervisor are populated.
// @Tags projects
// @Produce json
// @Security BearerAuth
// @Param status query string false "Project status" Enums(pending, approved, rejected)
// @Param studentId query string false "Student ID"
// @Param supervisorId query string false "Supervisor ID"
// @Success 200 {object} dto.APIResponse{data=[]dto.ProjectResponse} "Projects retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid status filter"
// @Failure 401 {object} dto.ErrorResponse "Not authorized to access this route"
// @Router /projects [get]
func (c *ProjectController) GetProjects(ctx *gin.Context) {
	listProjects(ctx, c.projectService, c.logger)
}

// listProjects serves both the general and the admin project listing
func listProjects(ctx *gin.Context, projectService *services.ProjectService, logger zerolog.Logger) {
	var query dto.ProjectListQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		logger.Warn().Err(err).Msg("Invalid project filters")
		middleware.RespondBindError(ctx, err)
		return
	}

	filter, err := services.FilterFromQuery(query)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	projects, err := projectService.List(ctx.Request.Context(), filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(projects, "Projects retrieved successfully"))
}

// GetProject returns one project
// @Summary Get project
// @Tags projects
// @Produce json
// @Security BearerAuth
// @Param id path string true "Project ID"
// @Success 200 {object} dto.APIResponse{data=dto.ProjectResponse} "Project retrieved successfully"
// @Failure 401 {object} dto.ErrorResponse "Not authorized to access this route"
// @Failure 404 {object} dto.ErrorResponse "Project not found"
// @Router /projects/{id} [get]
func (c *ProjectController) GetProject(ctx *gin.Context) {
	project, err := c.projectService.Get(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(project, "Project retrieved successfully"))
}

// UpdateProject edits project content
// @Summary Update project
// @Description Updates title, description, proposal and documentation. Allowed for the owning student, the assigned supervisor and admins.
// @Tags projects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Project ID"
// @Param request body dto.UpdateProjectRequest true "Fields to change"
// @Success 200 {object} dto.APIResponse{data=dto.ProjectResponse} "Project updated successfully"
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Failure 403 {object} dto.ErrorResponse "Not authorized to update this project"
// @Failure 404 {object} dto.ErrorResponse "Project not found"
// @Router /projects/{id} [put]
func (c *ProjectController) UpdateProject(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}

	var req dto.UpdateProjectRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.RespondBindError(ctx, err)
		return
	}

	project, err := c.projectService.Update(ctx.Request.Context(), actor, ctx.Param("id"), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(project, "Project updated successfully"))
}

// ReviewProject records the supervisor's decision
// @Summary Review project
// @Description Sets the status and optionally the due date and feedback. Only the assigned supervisor may review.
// @Tags projects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Project ID"
// @Param request body dto.ReviewProjectRequest true "Review decision"
// @Success 200 {object} dto.APIResponse{data=dto.ProjectResponse} "Project reviewed successfully"
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Failure 403 {object} dto.ErrorResponse "Not authorized to review this project"
// @Failure 404 {object} dto.ErrorResponse "Project not found"
// @Router /projects/{id}/review [put]
func (c *ProjectController) ReviewProject(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}

	var req dto.ReviewProjectRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.RespondBindError(ctx, err)
		return
	}

	project, err := c.projectService.Review(ctx.Request.Context(), actor, ctx.Param("id"), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(project, "Project reviewed successfully"))
}

// UploadDocumentation sets the documentation of the caller's project
// @Summary Update documentation
// @Tags projects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Project ID"
// @Param request body dto.DocumentationRequest true "Documentation"
// @Success 200 {object} dto.APIResponse{data=dto.ProjectResponse} "Documentation updated successfully"
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Failure 403 {object} dto.ErrorResponse "Not authorized to update documentation for this project"
// @Failure 404 {object} dto.ErrorResponse "Project not found"
// @Router /projects/{id}/documentation [put]
func (c *ProjectController) UploadDocumentation(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}

	var req dto.DocumentationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.RespondBindError(ctx, err)
		return
	}

	project, err := c.projectService.UpdateDocumentation(ctx.Request.Context(), actor, ctx.Param("id"), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(project, "Documentation updated successfully"))
}

// DeleteProject removes the caller's project
// @Summary Delete project
// @Tags projects
// @Produce json
// @Security BearerAuth
// @Param id path string true "Project ID"
// @Success 200 {object} dto.APIResponse "Project deleted successfully"
// @Failure 403 {object} dto.ErrorResponse "Not authorized to delete this project"
// @Failure 404 {object} dto.ErrorResponse "Project not found"
// @Router /projects/{id} [delete]
func (c *ProjectController) DeleteProject(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}

	if err := c.projectService.Delete(ctx.Request.Context(), actor, ctx.Param("id")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Str("projectID", ctx.Param("id")).Str("userID", actor.ID).Msg("Project deleted")
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.EmptyData{}, "Project deleted successfully"))
}

// GetMyProjects lists the authenticated student's projects
// @Summary My projects
// @Tags projects
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.ProjectResponse} "Projects retrieved successfully"
// @Failure 401 {object} dto.ErrorResponse "Not authorized to access this route"
// @Failure 403 {object} dto.ErrorResponse "Role not allowed"
// @Router /projects/students/me/projects [get]
func (c *ProjectController) GetMyProjects(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}

	projects, err := c.projectService.ListForStudent(ctx.Request.Context(), actor)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(projects, "Projects retrieved successfully"))
}

// GetSupervisedProjects lists the projects supervised by the caller
// @Summary Supervised projects
// @Tags projects
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.ProjectResponse} "Projects retrieved successfully"
// @Failure 401 {object} dto.ErrorResponse "Not authorized to access this route"
// @Failure 403 {object} dto.ErrorResponse "Role not allowed"
// @Router /projects/supervisors/me/projects [get]
func (c *ProjectController) GetSupervisedProjects(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}

	projects, err := c.projectService.ListForSupervisor(ctx.Request.Context(), actor)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(projects, "Projects retrieved successfully"))
}
