package dto

import "time"

// ErrorCode is the machine-readable code carried by every error response
type ErrorCode string

const (
	// auth
	ErrorCodeInvalidCredentials ErrorCode = "AUTH_001"
	ErrorCodeInvalidToken       ErrorCode = "AUTH_005"
	ErrorCodeExpiredToken       ErrorCode = "AUTH_006"
	ErrorCodeUnauthorized       ErrorCode = "AUTH_008"
	ErrorCodeForbidden          ErrorCode = "AUTH_009"

	// resources
	ErrorCodeResourceNotFound      ErrorCode = "RES_001"
	ErrorCodeResourceAlreadyExists ErrorCode = "RES_002"
	ErrorCodeConflict              ErrorCode = "RES_004"

	// input
	ErrorCodeValidationFailed ErrorCode = "VAL_001"
	ErrorCodeInvalidTime      ErrorCode = "VAL_002"
	ErrorCodeInvalidPushToken ErrorCode = "VAL_003"
	ErrorCodeInvalidState     ErrorCode = "VAL_004"

	// server side
	ErrorCodeInternalServer      ErrorCode = "SRV_001"
	ErrorCodeDatabaseUnavailable ErrorCode = "SRV_002"
)

// ErrorDetail is the error half of an ErrorResponse
type ErrorDetail struct {
	Code    ErrorCode   `json:"code" example:"VAL_002"`
	Message string      `json:"message" example:"startTime must be HH:MM"`
	Field   string      `json:"field,omitempty" example:"startTime"`
	Details interface{} `json:"details,omitempty"`
}

// ErrorResponse is the body of every non-2xx reply
type ErrorResponse struct {
	Success   bool         `json:"success" example:"false"`
	Error     *ErrorDetail `json:"error"`
	Timestamp time.Time    `json:"timestamp" example:"2025-04-23T12:01:05.123Z"`
}

func NewErrorDetail(code ErrorCode, message string) *ErrorDetail {
	return &ErrorDetail{Code: code, Message: message}
}

func (e *ErrorDetail) WithField(field string) *ErrorDetail {
	e.Field = field
	return e
}

func (e *ErrorDetail) WithDetails(details interface{}) *ErrorDetail {
	e.Details = details
	return e
}

func NewErrorResponse(detail *ErrorDetail) *ErrorResponse {
	return &ErrorResponse{Error: detail, Timestamp: time.Now()}
}

// FieldErrors collects one ErrorDetail per rejected request field
type FieldErrors struct {
	Errors []ErrorDetail `json:"errors"`
}

func (f *FieldErrors) Add(field, message string) {
	f.Errors = append(f.Errors, ErrorDetail{Code: ErrorCodeValidationFailed, Message: message, Field: field})
}
