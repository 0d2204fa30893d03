package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/projecttracker/internal/app/models"
	"github.com/yigit/projecttracker/internal/app/models/dto"
	"github.com/yigit/projecttracker/internal/pkg/apperrors"
	"github.com/yigit/projecttracker/internal/pkg/auth"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) dto.ErrorResponse {
	t.Helper()
	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	return resp
}

func newProtectedRouter(m *AuthMiddleware, roles ...models.Role) *gin.Engine {
	r := gin.New()
	handlers := []gin.HandlerFunc{m.JWTAuth()}
	if len(roles) > 0 {
		handlers = append(handlers, m.RoleRequired(roles...))
	}
	handlers = append(handlers, func(c *gin.Context) {
		actor, ok := GetActor(c)
		if !ok {
			c.Status(http.StatusTeapot)
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": actor.ID, "role": actor.Role})
	})
	r.GET("/protected", handlers...)
	return r
}

func TestJWTAuth(t *testing.T) {
	jwtService := auth.NewJWTService(auth.JWTConfig{SecretKey: "middleware-secret", TokenExp: time.Hour})
	other := auth.NewJWTService(auth.JWTConfig{SecretKey: "other-secret", TokenExp: time.Hour})
	router := newProtectedRouter(NewAuthMiddleware(jwtService))

	valid, err := jwtService.GenerateToken("user-1", string(models.RoleStudent))
	require.NoError(t, err)
	forged, err := other.GenerateToken("user-1", string(models.RoleAdmin))
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"valid bearer token", "Bearer " + valid, http.StatusOK},
		{"missing header", "", http.StatusUnauthorized},
		{"missing scheme", valid, http.StatusUnauthorized},
		{"wrong scheme", "Token " + valid, http.StatusUnauthorized},
		{"garbage token", "Bearer not-a-token", http.StatusUnauthorized},
		{"foreign signature", "Bearer " + forged, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			require.Equal(t, tt.status, rec.Code)
			if tt.status == http.StatusUnauthorized {
				assert.Equal(t, NotAuthorizedMessage, decodeError(t, rec).Message)
				return
			}

			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, "user-1", body["id"])
			assert.Equal(t, "student", body["role"])
		})
	}
}

func TestRoleRequired(t *testing.T) {
	jwtService := auth.NewJWTService(auth.JWTConfig{SecretKey: "middleware-secret", TokenExp: time.Hour})
	router := newProtectedRouter(NewAuthMiddleware(jwtService), models.RoleSupervisor, models.RoleAdmin)

	tests := []struct {
		role   models.Role
		status int
	}{
		{models.RoleSupervisor, http.StatusOK},
		{models.RoleAdmin, http.StatusOK},
		{models.RoleStudent, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			token, err := jwtService.GenerateToken("user-2", string(tt.role))
			require.NoError(t, err)

			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			require.Equal(t, tt.status, rec.Code)
			if tt.status == http.StatusForbidden {
				assert.Equal(t,
					fmt.Sprintf("User role %s is not authorized to access this route", tt.role),
					decodeError(t, rec).Message)
			}
		})
	}
}

func TestHandleAPIError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
		field   string
	}{
		{
			name:    "domain validation",
			err:     apperrors.NewValidationError("email", "User already exists"),
			status:  http.StatusBadRequest,
			message: "User already exists",
			field:   "email",
		},
		{
			name:    "duplicate key",
			err:     fmt.Errorf("error creating user: %w", apperrors.NewDuplicateError("studentId")),
			status:  http.StatusBadRequest,
			message: "studentId already exists",
			field:   "studentId",
		},
		{
			name:    "invalid credentials",
			err:     apperrors.ErrInvalidCredentials,
			status:  http.StatusUnauthorized,
			message: "Invalid credentials",
		},
		{
			name:    "invalid token",
			err:     fmt.Errorf("%w: bad signature", apperrors.ErrTokenInvalid),
			status:  http.StatusUnauthorized,
			message: NotAuthorizedMessage,
		},
		{
			name:    "admin registration",
			err:     apperrors.ErrAdminRegistration,
			status:  http.StatusForbidden,
			message: "Admin accounts can only be created by existing admins",
		},
		{
			name:    "ownership",
			err:     apperrors.NewForbiddenError("Not authorized to update this project"),
			status:  http.StatusForbidden,
			message: "Not authorized to update this project",
		},
		{
			name:    "not found",
			err:     fmt.Errorf("lookup: %w", apperrors.ErrProjectNotFound),
			status:  http.StatusNotFound,
			message: "Project not found",
		},
		{
			name:    "unknown fault",
			err:     errors.New("connection reset by peer"),
			status:  http.StatusInternalServerError,
			message: ServerErrorMessage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(rec)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			HandleAPIError(c, tt.err)

			require.Equal(t, tt.status, rec.Code)
			resp := decodeError(t, rec)
			assert.Equal(t, tt.message, resp.Message)
			assert.NotContains(t, rec.Body.String(), "connection reset")
			if tt.field != "" {
				require.Len(t, resp.Errors, 1)
				assert.Equal(t, tt.field, resp.Errors[0].Field)
			}
		})
	}
}

func TestRecovery(t *testing.T) {
	r := gin.New()
	r.Use(Recovery())
	r.GET("/panic", func(c *gin.Context) { panic("boom") })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/panic", nil))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, ServerErrorMessage, decodeError(t, rec).Message)
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	r := gin.New()
	r.Use(RequestLogger(zerolog.New(&buf)))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ping", nil))

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "GET", entry["method"])
	assert.Equal(t, "/ping", entry["path"])
	assert.EqualValues(t, http.StatusNoContent, entry["status"])
}
