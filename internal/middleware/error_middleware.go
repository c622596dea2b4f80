package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/academy/internal/app/models/dto"
	"github.com/yigit/academy/internal/pkg/apperrors"
	"github.com/yigit/academy/internal/pkg/dberrors"
	"github.com/yigit/academy/internal/pkg/logger"
)

type errorMapping struct {
	targets []error
	status  int
	code    dto.ErrorCode
	message string
	// match is consulted when none of the targets hit
	match func(error) bool
}

// checked in order, the first match wins
var errorMappings = []errorMapping{
	{[]error{
		apperrors.ErrUserNotFound, apperrors.ErrCourseNotFound, apperrors.ErrScheduledClassNotFound,
		apperrors.ErrEnrollmentNotFound, apperrors.ErrVideoNotFound, apperrors.ErrCommentNotFound,
		apperrors.ErrEBookNotFound, apperrors.ErrResourceNotFound,
	}, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Resource not found", nil},
	{[]error{apperrors.ErrPermissionDenied}, http.StatusForbidden, dto.ErrorCodeForbidden, "Permission denied", nil},
	{[]error{apperrors.ErrInvalidCredentials}, http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials, "Invalid credentials", nil},
	{[]error{apperrors.ErrTokenExpired}, http.StatusUnauthorized, dto.ErrorCodeExpiredToken, "Token expired", nil},
	{[]error{apperrors.ErrTokenInvalid, apperrors.ErrUnauthenticated}, http.StatusUnauthorized, dto.ErrorCodeInvalidToken, "Authentication required", nil},
	{[]error{apperrors.ErrInvalidTimeFormat, apperrors.ErrInvalidWeekday}, http.StatusBadRequest, dto.ErrorCodeInvalidTime, "Invalid schedule time", nil},
	{[]error{apperrors.ErrInvalidPushToken}, http.StatusBadRequest, dto.ErrorCodeInvalidPushToken, "Invalid push token", nil},
	{[]error{apperrors.ErrInvalidClassTransition}, http.StatusBadRequest, dto.ErrorCodeInvalidState, "Invalid state change", nil},
	{[]error{apperrors.ErrValidationFailed, apperrors.ErrBadRequest}, http.StatusBadRequest, dto.ErrorCodeValidationFailed, "Validation failed", nil},
	{[]error{apperrors.ErrEmailAlreadyExists, apperrors.ErrResourceAlreadyExists}, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, "Resource already exists", nil},
	{[]error{apperrors.ErrCourseAlreadyCompleted, apperrors.ErrDuplicateSubmission, apperrors.ErrConflict}, http.StatusConflict, dto.ErrorCodeConflict, "Conflict", nil},
	{nil, http.StatusServiceUnavailable, dto.ErrorCodeDatabaseUnavailable, "Database unavailable", dberrors.IsUnavailable},
}

func (m errorMapping) matches(err error) bool {
	for _, target := range m.targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return m.match != nil && m.match(err)
}

// HandleAPIError handles common API errors and returns appropriate responses
func HandleAPIError(c *gin.Context, err error) {
	for _, m := range errorMappings {
		if !m.matches(err) {
			continue
		}
		detail := dto.NewErrorDetail(m.code, m.message)
		if m.status >= http.StatusInternalServerError {
			// connection strings stay out of responses
			logger.Error().Err(err).Str("path", c.FullPath()).Msg("Database unavailable")
		} else {
			detail.WithDetails(err.Error())
		}
		c.JSON(m.status, dto.NewErrorResponse(detail))
		return
	}

	logger.Error().Err(err).Str("path", c.FullPath()).Str("method", c.Request.Method).Msg("Unhandled API error")
	c.JSON(http.StatusInternalServerError, dto.NewErrorResponse(
		dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error"),
	))
}
