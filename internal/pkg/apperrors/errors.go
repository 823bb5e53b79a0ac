package apperrors

import "errors"

// Common errors
var (
	// Resource errors
	ErrNotFound              = errors.New("not found")
	ErrResourceNotFound      = errors.New("resource not found")
	ErrResourceAlreadyExists = errors.New("resource already exists")
	ErrConflict              = errors.New("conflict")

	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrTokenNotFound      = errors.New("token not found")
	ErrTokenRevoked       = errors.New("token revoked")
	ErrAccountDisabled    = errors.New("account is disabled")
	ErrInvalidFormat      = errors.New("invalid token format")

	// Authorization errors
	ErrPermissionDenied = errors.New("permission denied")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrInvalidPassword  = errors.New("invalid password")
	ErrBadRequest       = errors.New("bad request")

	// Account errors
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrDNIAlreadyExists   = errors.New("dni already exists")
)

// Volunteer and tutor errors
var (
	ErrVolunteerNotFound = errors.New("volunteer not found")
	ErrTutorNotFound     = errors.New("tutor not found")
	ErrTutorHasStudents  = errors.New("tutor has students and cannot be deleted")
)

// Student and group errors
var (
	ErrStudentNotFound     = errors.New("student not found")
	ErrGroupNotFound       = errors.New("group not found")
	ErrGroupFull           = errors.New("group has reached its maximum number of members")
	ErrGroupCapacityTooLow = errors.New("max members cannot be lower than the current member count")
	ErrDisciplineMismatch  = errors.New("student discipline does not match the group discipline")
)

// Discipline errors
var (
	ErrDisciplineNotFound      = errors.New("discipline not found")
	ErrDisciplineAlreadyExists = errors.New("discipline with this name already exists")
	ErrDisciplineInUse         = errors.New("discipline is referenced by volunteers, groups or students")
)

// Progress, rating, announcement and message errors
var (
	ErrProgressNotFound     = errors.New("progress record not found")
	ErrAnnouncementNotFound = errors.New("announcement not found")
	ErrMessageNotFound      = errors.New("message not found")
	ErrRecipientNotAllowed  = errors.New("recipient is not an allowed contact")
)

// NewResourceNotFoundError creates a new custom error for resource not found with a message
func NewResourceNotFoundError(message string) error {
	return &CustomError{
		Err:     ErrResourceNotFound,
		Message: message,
	}
}

// NewConflictError creates a new custom error for conflict situations with a message
func NewConflictError(message string) error {
	return &CustomError{
		Err:     ErrConflict,
		Message: message,
	}
}

// NewForbiddenError creates a new custom error for permission denied with a message
func NewForbiddenError(message string) error {
	return &CustomError{
		Err:     ErrPermissionDenied,
		Message: message,
	}
}

// NewBadRequestError creates a new custom error for bad request with a message
func NewBadRequestError(message string) error {
	return &CustomError{
		Err:     ErrBadRequest,
		Message: message,
	}
}

// Is returns whether target matches any of the errors in errList
func Is(err, target error, errList ...error) bool {
	if errors.Is(err, target) {
		return true
	}

	for _, e := range errList {
		if errors.Is(err, e) {
			return true
		}
	}

	return false
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
	Code    string
	Details map[string]interface{}
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewCustomError creates a CustomError with underlying error
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{
		Err:     err,
		Message: message,
	}
}

// WithDetails adds context details to the error
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	e.Details = details
	return e
}

// WithCode adds an error code
func (e *CustomError) WithCode(code string) *CustomError {
	e.Code = code
	return e
}
