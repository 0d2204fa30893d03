package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/yigit/projecttracker/internal/app/models/dto"
	"github.com/yigit/projecttracker/internal/app/services"
	"github.com/yigit/projecttracker/internal/middleware"
)

// StudentController handles student profile endpoints
type StudentController struct {
	userService *services.UserService
	logger      zerolog.Logger
}

// NewStudentController creates a new StudentController
func NewStudentController(userService *services.UserService, logger zerolog.Logger) *StudentController {
	return &StudentController{
		userService: userService,
		logger:      logger,
	}
}

// GetStudents lists every student
// @Summary List students
// @Tags students
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.UserResponse} "Students retrieved successfully"
// @Failure 401 {object} dto.ErrorResponse "Not authorized to access this route"
// @Failure 403 {object} dto.ErrorResponse "Role not allowed"
// @Router /students [get]
func (c *StudentController) GetStudents(ctx *gin.Context) {
	students, err := c.userService.ListStudents(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewUserResponses(students), "Students retrieved successfully"))
}

// GetStudent returns one student
// @Summary Get student
// @Tags students
// @Produce json
// @Security BearerAuth
// @Param id path string true "Student ID"
// @Success 200 {object} dto.APIResponse{data=dto.UserResponse} "Student retrieved successfully"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /students/{id} [get]
func (c *StudentController) GetStudent(ctx *gin.Context) {
	student, err := c.userService.GetStudent(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewUserResponse(student), "Student retrieved successfully"))
}

// UpdateStudent edits a student profile
// @Summary Update student
// @Tags students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Student ID"
// @Param request body dto.UpdateStudentRequest true "Fields to change"
// @Success 200 {object} dto.APIResponse{data=dto.UserResponse} "Student updated successfully"
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Failure 403 {object} dto.ErrorResponse "Not authorized to update this student"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /students/{id} [put]
func (c *StudentController) UpdateStudent(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}

	var req dto.UpdateStudentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.RespondBindError(ctx, err)
		return
	}

	student, err := c.userService.UpdateStudent(ctx.Request.Context(), actor, ctx.Param("id"), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewUserResponse(student), "Student updated successfully"))
}

// DeleteStudent removes the caller's own student account
// @Summary Delete student
// @Tags students
// @Produce json
// @Security BearerAuth
// @Param id path string true "Student ID"
// @Success 200 {object} dto.APIResponse "Student deleted successfully"
// @Failure 403 {object} dto.ErrorResponse "Not authorized to delete this student"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /students/{id} [delete]
func (c *StudentController) DeleteStudent(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}

	if err := c.userService.DeleteStudent(ctx.Request.Context(), actor, ctx.Param("id")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Str("studentID", ctx.Param("id")).Msg("Student deleted")
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.EmptyData{}, "Student deleted successfully"))
}
