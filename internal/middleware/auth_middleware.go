package middleware

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	appauth "github.com/yigit/projecttracker/internal/app/auth"
	"github.com/yigit/projecttracker/internal/app/models"
	"github.com/yigit/projecttracker/internal/app/models/dto"
	"github.com/yigit/projecttracker/internal/pkg/apperrors"
	"github.com/yigit/projecttracker/internal/pkg/auth"
)

// Context keys set by JWTAuth
const (
	ContextUserID = "userID"
	ContextRole   = "role"
)

// NotAuthorizedMessage is returned for every authentication failure
const NotAuthorizedMessage = "Not authorized to access this route"

// AuthMiddleware for authentication and authorization
type AuthMiddleware struct {
	jwtService *auth.JWTService
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(jwtService *auth.JWTService) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
	}
}

// JWTAuth requires an "Authorization: Bearer <token>" header carrying a valid token
func (m *AuthMiddleware) JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := auth.ExtractBearerToken(c.GetHeader("Authorization"))
		if err != nil {
			abortUnauthorized(c, dto.ErrorCodeUnauthorized, "Authorization header missing or malformed")
			return
		}

		claims, err := m.jwtService.ValidateToken(tokenString)
		if err != nil {
			code, detail := dto.ErrorCodeInvalidToken, "Invalid token"
			if errors.Is(err, apperrors.ErrTokenExpired) {
				code, detail = dto.ErrorCodeExpiredToken, "Token has expired"
			}
			abortUnauthorized(c, code, detail)
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextRole, models.Role(claims.Role))
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, code dto.ErrorCode, detail string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized,
		dto.NewErrorResponse(NotAuthorizedMessage, dto.NewErrorDetail(code, detail)))
}

// RoleRequired admits the request when the authenticated role is one of roles
func (m *AuthMiddleware) RoleRequired(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := GetActor(c)
		if !ok {
			abortUnauthorized(c, dto.ErrorCodeUnauthorized, "User role not found")
			return
		}

		for _, role := range roles {
			if actor.Role == role {
				c.Next()
				return
			}
		}

		message := fmt.Sprintf("User role %s is not authorized to access this route", actor.Role)
		c.AbortWithStatusJSON(http.StatusForbidden,
			dto.NewErrorResponse(message, dto.NewErrorDetail(dto.ErrorCodeForbidden, message)))
	}
}

// GetActor returns the caller established by JWTAuth
func GetActor(c *gin.Context) (appauth.Actor, bool) {
	userID := c.GetString(ContextUserID)
	role, ok := c.Get(ContextRole)
	if userID == "" || !ok {
		return appauth.Actor{}, false
	}

	r, ok := role.(models.Role)
	if !ok {
		return appauth.Actor{}, false
	}
	return appauth.Actor{ID: userID, Role: r}, true
}
