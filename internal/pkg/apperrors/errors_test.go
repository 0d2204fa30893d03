package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCustomErrorWrapsSentinel(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
		message  string
	}{
		{"not found", NewResourceNotFoundError("Project not found"), ErrResourceNotFound, "Project not found"},
		{"forbidden", NewForbiddenError("Not authorized"), ErrPermissionDenied, "Not authorized"},
		{"custom", NewCustomError(ErrInvalidCredentials, ""), ErrInvalidCredentials, "invalid credentials"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := fmt.Errorf("loading: %w", tt.err)
			assert.ErrorIs(t, wrapped, tt.sentinel)
			assert.Equal(t, tt.message, tt.err.Error())

			var custom *CustomError
			assert.True(t, errors.As(wrapped, &custom))
		})
	}
}

func TestValidationError(t *testing.T) {
	verr := &ValidationError{}
	assert.NoError(t, verr.OrNil())

	verr.Add("email", "User already exists").Add("password", "Password must be at least 8 characters")
	err := verr.OrNil()
	assert.ErrorIs(t, err, ErrValidationFailed)
	assert.Equal(t, "User already exists, Password must be at least 8 characters", err.Error())
	assert.True(t, Is(err, ErrResourceNotFound, ErrValidationFailed))
}
