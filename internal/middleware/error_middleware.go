package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yigit/projecttracker/internal/app/models/dto"
	"github.com/yigit/projecttracker/internal/pkg/apperrors"
	"github.com/yigit/projecttracker/internal/pkg/logger"
)

// ServerErrorMessage hides the cause of unexpected failures from clients
const ServerErrorMessage = "Server Error"

// HandleAPIError translates a service error into the error envelope
func HandleAPIError(c *gin.Context, err error) {
	var verr *apperrors.ValidationError
	var custom *apperrors.CustomError

	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(verr.Error(), dto.ValidationDetails(verr)...))
	case errors.Is(err, apperrors.ErrValidationFailed):
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.ValidationFailedMessage,
			dto.NewErrorDetail(dto.ErrorCodeValidationFailed, err.Error())))
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, dto.NewErrorResponse("Invalid credentials",
			dto.NewErrorDetail(dto.ErrorCodeInvalidCredentials, "Invalid credentials")))
	case errors.Is(err, apperrors.ErrTokenExpired):
		c.JSON(http.StatusUnauthorized, dto.NewErrorResponse(NotAuthorizedMessage,
			dto.NewErrorDetail(dto.ErrorCodeExpiredToken, "Token has expired")))
	case apperrors.Is(err, apperrors.ErrTokenInvalid, apperrors.ErrInvalidFormat):
		c.JSON(http.StatusUnauthorized, dto.NewErrorResponse(NotAuthorizedMessage,
			dto.NewErrorDetail(dto.ErrorCodeInvalidToken, "Invalid token")))
	case errors.Is(err, apperrors.ErrAdminRegistration):
		c.JSON(http.StatusForbidden, dto.NewErrorResponse("Admin accounts can only be created by existing admins",
			dto.NewErrorDetail(dto.ErrorCodeForbidden, "Admin accounts can only be created by existing admins")))
	case errors.Is(err, apperrors.ErrPermissionDenied):
		message := "Permission denied"
		if errors.As(err, &custom) && custom.Message != "" {
			message = custom.Message
		}
		c.JSON(http.StatusForbidden, dto.NewErrorResponse(message,
			dto.NewErrorDetail(dto.ErrorCodeForbidden, message)))
	case errors.Is(err, apperrors.ErrResourceNotFound):
		message := "Resource not found"
		if errors.As(err, &custom) && custom.Message != "" {
			message = custom.Message
		}
		c.JSON(http.StatusNotFound, dto.NewErrorResponse(message,
			dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, message)))
	default:
		logger.Error().Err(err).Str("path", c.Request.URL.Path).Msg("Unhandled error")
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse(ServerErrorMessage,
			dto.NewErrorDetail(dto.ErrorCodeInternalServer, ServerErrorMessage)))
	}
}

// Recovery turns a panic into the generic 500 envelope
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logger.Error().Interface("panic", recovered).Str("path", c.Request.URL.Path).Msg("Recovered from panic")
		c.AbortWithStatusJSON(http.StatusInternalServerError, dto.NewErrorResponse(ServerErrorMessage,
			dto.NewErrorDetail(dto.ErrorCodeInternalServer, ServerErrorMessage)))
	})
}

// NoRoute answers unknown paths with the 404 envelope
func NoRoute() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusNotFound, dto.NewErrorResponse("Route not found",
			dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, "Route not found")))
	}
}
