package dto

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"

	"github.com/go-playground/validator/v10"
	"github.com/yigit/projecttracker/internal/pkg/apperrors"
)

// ValidationFailedMessage is the envelope message for every 400 response
const ValidationFailedMessage = "Validation failed"

// HandleValidationError converts a binding error into the 400 envelope
func HandleValidationError(err error) *ErrorResponse {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		details := make([]ErrorDetail, 0, len(verrs))
		for _, fe := range verrs {
			details = append(details,
				NewErrorDetail(ErrorCodeValidationFailed, formatFieldError(fe)).WithField(fe.Field()))
		}
		return NewErrorResponse(ValidationFailedMessage, details...)
	}

	var appErr *apperrors.ValidationError
	if errors.As(err, &appErr) {
		return NewErrorResponse(ValidationFailedMessage, ValidationDetails(appErr)...)
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &typeErr):
		return NewErrorResponse(ValidationFailedMessage,
			NewErrorDetail(ErrorCodeInvalidRequest, fmt.Sprintf("%s has an invalid type", typeErr.Field)).
				WithField(typeErr.Field))
	case errors.As(err, &syntaxErr):
		return NewErrorResponse(ValidationFailedMessage,
			NewErrorDetail(ErrorCodeInvalidRequest, "Malformed JSON body"))
	}

	return NewErrorResponse(ValidationFailedMessage,
		NewErrorDetail(ErrorCodeInvalidRequest, "Invalid request format"))
}

// ValidationDetails lists the field messages of a domain validation error
func ValidationDetails(err *apperrors.ValidationError) []ErrorDetail {
	details := make([]ErrorDetail, 0, len(err.Fields))
	for _, f := range err.Fields {
		details = append(details, NewErrorDetail(ErrorCodeValidationFailed, f.Message).WithField(f.Field))
	}
	return details
}

// formatFieldError creates a human-readable validation error message
func formatFieldError(e validator.FieldError) string {
	unit := ""
	if e.Kind() == reflect.String {
		unit = " characters"
	}

	switch e.Tag() {
	case "required":
		return e.Field() + " is required"
	case "min":
		return e.Field() + " must be at least " + e.Param() + unit
	case "max":
		return e.Field() + " must be at most " + e.Param() + unit
	case "email", "looseemail":
		return "Please provide a valid email"
	case "contact":
		return "Please provide a valid 10-digit contact number"
	case "oneof":
		return e.Field() + " must be one of: " + e.Param()
	case "gt":
		return e.Field() + " must be greater than " + e.Param()
	default:
		return e.Field() + " validation failed: " + e.Tag()
	}
}
