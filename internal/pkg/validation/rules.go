package validation

import (
	"regexp"
	"strings"
)

// Validation rule patterns
var (
	// EmailPattern matches the loose "something@something.tld" shape accepted for accounts
	EmailPattern = `.+@.+\..+`

	// ContactPattern is a ten digit phone number
	ContactPattern = `^\d{10}$`

	// PasswordMinLength is the minimum accepted password length
	PasswordMinLength = 8

	// PasswordMaxBytes is the longest input bcrypt accepts
	PasswordMaxBytes = 72

	// Name length limits
	NameMinLength = 2
	NameMaxLength = 50

	// BioMaxLength limits the free-text biography
	BioMaxLength = 500

	// Student year limits
	YearMin = 1
	YearMax = 4

	// ProjectTitleMinLength is the minimum project title length
	ProjectTitleMinLength = 2

	// DefaultPicture is stored when a user registers without a picture
	DefaultPicture = "https://example.com/default-profile-picture.png"
)

// CompiledPatterns caches compiled regex patterns
var CompiledPatterns = struct {
	Email   *regexp.Regexp
	Contact *regexp.Regexp
}{
	Email:   regexp.MustCompile(EmailPattern),
	Contact: regexp.MustCompile(ContactPattern),
}

// NormalizeEmail trims and lower-cases an email address
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// StringValidation describes the constraints on a single string field
type StringValidation struct {
	Value    string
	MinLen   int
	MaxLen   int
	Required bool
	Pattern  *regexp.Regexp
}

// NewStringValidation creates a new string validation
func NewStringValidation(value string) *StringValidation {
	return &StringValidation{
		Value:    strings.TrimSpace(value),
		Required: true,
	}
}

// WithMinLength sets minimum length
func (v *StringValidation) WithMinLength(min int) *StringValidation {
	v.MinLen = min
	return v
}

// WithMaxLength sets maximum length
func (v *StringValidation) WithMaxLength(max int) *StringValidation {
	v.MaxLen = max
	return v
}

// WithPattern sets regex pattern
func (v *StringValidation) WithPattern(pattern *regexp.Regexp) *StringValidation {
	v.Pattern = pattern
	return v
}

// WithRequired sets if field is required
func (v *StringValidation) WithRequired(required bool) *StringValidation {
	v.Required = required
	return v
}

// Validate performs validation
func (v *StringValidation) Validate() bool {
	if v.Value == "" {
		return !v.Required
	}

	length := len([]rune(v.Value))
	if v.MinLen > 0 && length < v.MinLen {
		return false
	}
	if v.MaxLen > 0 && length > v.MaxLen {
		return false
	}

	if v.Pattern != nil && !v.Pattern.MatchString(v.Value) {
		return false
	}

	return true
}

// InRange reports whether value lies within [min, max]
func InRange(value, min, max int) bool {
	return value >= min && value <= max
}
