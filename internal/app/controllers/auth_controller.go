// Package controllers handles HTTP request handling
package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/rs/zerolog"

	"github.com/yigit/projecttracker/internal/app/models"
	"github.com/yigit/projecttracker/internal/app/models/dto"
	"github.com/yigit/projecttracker/internal/app/services"
	"github.com/yigit/projecttracker/internal/middleware"
	"github.com/yigit/projecttracker/internal/pkg/apperrors"
)

// AuthController handles authentication related operations
type AuthController struct {
	authService *services.AuthService
	logger      zerolog.Logger
}

// NewAuthController creates a new AuthController
func NewAuthController(authService *services.AuthService, logger zerolog.Logger) *AuthController {
	return &AuthController{
		authService: authService,
		logger:      logger,
	}
}

// Register handles user registration
// @Summary Register a new user
// @Description Creates a student or supervisor account and returns its access token. Admin accounts cannot self-register.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "User registration information"
// @Success 201 {object} dto.APIResponse{data=dto.AuthResponse} "Registration successful"
// @Failure 400 {object} dto.ErrorResponse "Validation failed or duplicate email, studentId or staffId"
// @Failure 403 {object} dto.ErrorResponse "Admin accounts can only be created by existing admins"
// @Failure 500 {object} dto.ErrorResponse "Server Error"
// @Router /auth/register [post]
func (c *AuthController) Register(ctx *gin.Context) {
	// The role is inspected before the full payload so admin attempts are refused outright.
	var probe dto.RoleProbe
	if err := ctx.ShouldBindBodyWith(&probe, binding.JSON); err != nil {
		c.logger.Warn().Err(err).Msg("Invalid registration request payload")
		middleware.RespondBindError(ctx, err)
		return
	}
	if probe.Role == models.RoleAdmin {
		c.logger.Warn().Msg("Rejected admin self-registration")
		middleware.HandleAPIError(ctx, apperrors.ErrAdminRegistration)
		return
	}

	var req dto.RegisterRequest
	if err := ctx.ShouldBindBodyWith(&req, binding.JSON); err != nil {
		c.logger.Warn().Err(err).Msg("Invalid registration request payload")
		middleware.RespondBindError(ctx, err)
		return
	}

	resp, err := c.authService.Register(ctx.Request.Context(), &req)
	if err != nil {
		c.logger.Warn().Err(err).Str("role", string(req.Role)).Msg("Registration failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(resp, "Registration successful"))
}

// Login handles user login
// @Summary User login
// @Description Authenticates a user of the given type and returns an access token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login credentials"
// @Success 200 {object} dto.APIResponse{data=dto.AuthResponse} "Login successful"
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Failure 401 {object} dto.ErrorResponse "Invalid credentials"
// @Failure 500 {object} dto.ErrorResponse "Server Error"
// @Router /auth/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		c.logger.Warn().Err(err).Msg("Invalid login request payload")
		middleware.RespondBindError(ctx, err)
		return
	}

	resp, err := c.authService.Login(ctx.Request.Context(), &req)
	if err != nil {
		c.logger.Warn().Err(err).Msg("Login failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp, "Login successful"))
}

// Me returns the authenticated user
// @Summary Current user
// @Description Returns the profile of the token subject
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.UserResponse} "User retrieved successfully"
// @Failure 401 {object} dto.ErrorResponse "Not authorized to access this route"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Router /auth/me [get]
func (c *AuthController) Me(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}

	user, err := c.authService.Me(ctx.Request.Context(), actor.ID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewUserResponse(user), "User retrieved successfully"))
}
