package dto

import (
	"encoding/json"
	"errors"

	"github.com/go-playground/validator/v10"
)

// HandleValidationError converts a binding or validation error into an ErrorDetail
func HandleValidationError(err error) *ErrorDetail {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		var fields FieldErrors
		for _, fe := range verrs {
			fields.Add(fe.Field(), FormatFieldError(fe))
		}
		detail := NewErrorDetail(ErrorCodeValidationFailed, "Validation failed").WithDetails(fields.Errors)
		if len(verrs) == 1 {
			detail.WithField(verrs[0].Field())
		}
		return detail
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
		return NewErrorDetail(ErrorCodeValidationFailed, "Invalid request format").WithDetails(err.Error())
	}

	return NewErrorDetail(ErrorCodeValidationFailed, "Invalid request").WithDetails(err.Error())
}

// FormatFieldError creates a human-readable validation error message
func FormatFieldError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return e.Field() + " is required"
	case "min":
		return e.Field() + " must be at least " + e.Param()
	case "max":
		return e.Field() + " must be at most " + e.Param()
	case "email":
		return e.Field() + " must be a valid email address"
	case "oneof":
		return e.Field() + " must be one of: " + e.Param()
	case "hhmm":
		return e.Field() + " must be a 24-hour HH:MM time"
	case "weekday":
		return e.Field() + " must be a weekday name (Monday..Sunday)"
	case "url":
		return e.Field() + " must be a valid URL"
	case "dive":
		return e.Field() + " contains an invalid item"
	default:
		return e.Field() + " validation failed: " + e.Tag()
	}
}
