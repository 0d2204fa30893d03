package services

import (
	"strings"

	"github.com/yigit/projecttracker/internal/app/models"
	"github.com/yigit/projecttracker/internal/app/models/dto"
	"github.com/yigit/projecttracker/internal/pkg/apperrors"
	"github.com/yigit/projecttracker/internal/pkg/validation"
)

// validateUserFields checks the shared user field rules on already trimmed values
func validateUserFields(u *models.User, verr *apperrors.ValidationError) {
	if !validation.NewStringValidation(u.Name).
		WithMinLength(validation.NameMinLength).
		WithMaxLength(validation.NameMaxLength).
		Validate() {
		verr.Add("name", "Name must be between 2 and 50 characters")
	}

	if !validation.NewStringValidation(u.Email).WithPattern(validation.CompiledPatterns.Email).Validate() {
		verr.Add("email", "Please provide a valid email")
	}

	if !validation.NewStringValidation(u.Contact).
		WithRequired(false).
		WithPattern(validation.CompiledPatterns.Contact).
		Validate() {
		verr.Add("contact", "Please provide a valid 10-digit contact number")
	}

	if !validation.NewStringValidation(u.Bio).WithRequired(false).WithMaxLength(validation.BioMaxLength).Validate() {
		verr.Add("bio", "Bio cannot be more than 500 characters")
	}
}

// validatePassword checks the plain-text password before hashing
func validatePassword(password string, verr *apperrors.ValidationError) {
	if len([]rune(password)) < validation.PasswordMinLength {
		verr.Add("password", "Password must be at least 8 characters")
	}
	if len(password) > validation.PasswordMaxBytes {
		verr.Add("password", "Password cannot be longer than 72 bytes")
	}
}

// validateYear checks the student year of study
func validateYear(year int, verr *apperrors.ValidationError) {
	if !validation.InRange(year, validation.YearMin, validation.YearMax) {
		verr.Add("year", "Year must be between 1 and 4")
	}
}

func trimmed(p *string) string {
	return strings.TrimSpace(*p)
}

// applyProfileUpdate copies the non-nil fields of req onto u
func applyProfileUpdate(u *models.User, req dto.ProfileUpdate) {
	if req.Name != nil {
		u.Name = trimmed(req.Name)
	}
	if req.Email != nil {
		u.Email = validation.NormalizeEmail(*req.Email)
	}
	if req.Contact != nil {
		u.Contact = trimmed(req.Contact)
	}
	if req.Department != nil {
		u.Department = trimmed(req.Department)
	}
	if req.Bio != nil {
		u.Bio = trimmed(req.Bio)
	}
	if req.Picture != nil {
		u.Picture = trimmed(req.Picture)
		if u.Picture == "" {
			u.Picture = validation.DefaultPicture
		}
	}
}
