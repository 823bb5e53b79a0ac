package middleware

import (
	"errors"
	"net/http"

	"github.com/empatecerca/api/internal/app/models/dto"
	"github.com/empatecerca/api/internal/pkg/apperrors"
	"github.com/empatecerca/api/internal/pkg/logger"
	"github.com/gin-gonic/gin"
)

// errorMapping is the HTTP rendering of one sentinel error
type errorMapping struct {
	target  error
	status  int
	code    dto.ErrorCode
	message string
}

// errorMappings is checked in order; specific sentinels come before the generic ones they may wrap
var errorMappings = []errorMapping{
	// Authentication
	{apperrors.ErrInvalidCredentials, http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials, "Invalid credentials"},
	{apperrors.ErrTokenExpired, http.StatusUnauthorized, dto.ErrorCodeExpiredToken, "Token expired"},
	{apperrors.ErrInvalidFormat, http.StatusUnauthorized, dto.ErrorCodeInvalidToken, "Invalid token format"},
	{apperrors.ErrTokenInvalid, http.StatusUnauthorized, dto.ErrorCodeInvalidToken, "Invalid token"},
	{apperrors.ErrTokenNotFound, http.StatusUnauthorized, dto.ErrorCodeTokenNotFound, "Token not found"},
	{apperrors.ErrTokenRevoked, http.StatusUnauthorized, dto.ErrorCodeInvalidToken, "Token revoked"},
	{apperrors.ErrAccountDisabled, http.StatusForbidden, dto.ErrorCodeAccountDisabled, "Account is disabled"},
	{apperrors.ErrRecipientNotAllowed, http.StatusForbidden, dto.ErrorCodeForbidden, "Recipient is not an allowed contact"},
	{apperrors.ErrPermissionDenied, http.StatusForbidden, dto.ErrorCodeForbidden, "Permission denied"},

	// Validation
	{apperrors.ErrInvalidPassword, http.StatusBadRequest, dto.ErrorCodeInvalidPassword, "Invalid password"},
	{apperrors.ErrValidationFailed, http.StatusBadRequest, dto.ErrorCodeValidationFailed, "Validation failed"},
	{apperrors.ErrBadRequest, http.StatusBadRequest, dto.ErrorCodeBadRequest, "Bad request"},

	// Not found
	{apperrors.ErrUserNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "User not found"},
	{apperrors.ErrVolunteerNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Volunteer not found"},
	{apperrors.ErrTutorNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Tutor not found"},
	{apperrors.ErrStudentNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Student not found"},
	{apperrors.ErrGroupNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Group not found"},
	{apperrors.ErrDisciplineNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Discipline not found"},
	{apperrors.ErrProgressNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Progress record not found"},
	{apperrors.ErrAnnouncementNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Announcement not found"},
	{apperrors.ErrMessageNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Message not found"},
	{apperrors.ErrResourceNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Resource not found"},
	{apperrors.ErrNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Resource not found"},

	// Conflicts
	{apperrors.ErrEmailAlreadyExists, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, "Email already exists"},
	{apperrors.ErrDNIAlreadyExists, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, "DNI already exists"},
	{apperrors.ErrDisciplineAlreadyExists, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, "Discipline already exists"},
	{apperrors.ErrResourceAlreadyExists, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, "Resource already exists"},
	{apperrors.ErrGroupFull, http.StatusConflict, dto.ErrorCodeConflict, "Group has reached its maximum number of members"},
	{apperrors.ErrGroupCapacityTooLow, http.StatusConflict, dto.ErrorCodeConflict, "Max members cannot be lower than the current member count"},
	{apperrors.ErrDisciplineMismatch, http.StatusConflict, dto.ErrorCodeConflict, "Student discipline does not match the group discipline"},
	{apperrors.ErrDisciplineInUse, http.StatusConflict, dto.ErrorCodeConflict, "Discipline is still in use"},
	{apperrors.ErrTutorHasStudents, http.StatusConflict, dto.ErrorCodeConflict, "Tutor has students and cannot be deleted"},
	{apperrors.ErrConflict, http.StatusConflict, dto.ErrorCodeConflict, "Conflict"},
}

// HandleAPIError writes the error envelope for err. A CustomError message
// replaces the default message and its details are passed through.
func HandleAPIError(c *gin.Context, err error) {
	status, detail := errorDetailFor(err)
	if status == http.StatusInternalServerError {
		logger.Error().Err(err).Str("path", c.Request.URL.Path).Msg("Unhandled API error")
	}
	c.AbortWithStatusJSON(status, dto.NewErrorResponse(detail))
}

func errorDetailFor(err error) (int, *dto.ErrorDetail) {
	for _, m := range errorMappings {
		if !errors.Is(err, m.target) {
			continue
		}

		detail := dto.NewErrorDetail(m.code, m.message)
		var custom *apperrors.CustomError
		if errors.As(err, &custom) {
			if custom.Message != "" {
				detail.Message = custom.Message
			}
			if custom.Code != "" {
				detail.Code = dto.ErrorCode(custom.Code)
			}
			if custom.Details != nil {
				detail.Details = custom.Details
			}
		}
		if m.status < http.StatusInternalServerError {
			detail.Severity = dto.ErrorSeverityWarning
		}
		return m.status, detail
	}

	return http.StatusInternalServerError, dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error")
}
