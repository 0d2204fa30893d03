package validation

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringValidation(t *testing.T) {
	tests := []struct {
		name  string
		rule  *StringValidation
		valid bool
	}{
		{"trimmed name too short", NewStringValidation("  a ").WithMinLength(NameMinLength), false},
		{"name in range", NewStringValidation("Ada").WithMinLength(NameMinLength).WithMaxLength(NameMaxLength), true},
		{"multibyte counted as runes", NewStringValidation("Çağ").WithMinLength(3).WithMaxLength(3), true},
		{"empty optional", NewStringValidation("").WithRequired(false), true},
		{"empty required", NewStringValidation(""), false},
		{"contact pattern", NewStringValidation("0123456789").WithPattern(CompiledPatterns.Contact), true},
		{"contact too short", NewStringValidation("12345").WithPattern(CompiledPatterns.Contact), false},
		{"email pattern", NewStringValidation("a@b.co").WithPattern(CompiledPatterns.Email), true},
		{"email without dot", NewStringValidation("a@b").WithPattern(CompiledPatterns.Email), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, tt.rule.Validate())
		})
	}
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "ada@uni.edu", NormalizeEmail("  Ada@Uni.EDU "))
}

func TestRegister_CustomTagsAndJSONNames(t *testing.T) {
	v := validator.New()
	require.NoError(t, Register(v))

	type payload struct {
		Email   string `json:"email" validate:"required,looseemail"`
		Contact string `json:"contact" validate:"omitempty,contact"`
	}

	assert.NoError(t, v.Struct(payload{Email: "a@b.io", Contact: "0123456789"}))
	assert.NoError(t, v.Struct(payload{Email: "a@b.io"}))

	err := v.Struct(payload{Email: "nope", Contact: "12"})
	require.Error(t, err)

	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	fields := []string{verrs[0].Field(), verrs[1].Field()}
	assert.ElementsMatch(t, []string{"email", "contact"}, fields)
}
