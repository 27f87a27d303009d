package errors

import "fmt"

// AppError represents a custom application error
type AppError struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
	Status  int               `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Common error codes
const (
	ErrCodeInvalidCredentials = "INVALID_CREDENTIALS"
	ErrCodeRateLimitExceeded  = "RATE_LIMIT_EXCEEDED"
	ErrCodeValidationFailed   = "VALIDATION_FAILED"
	ErrCodeInternalError      = "INTERNAL_ERROR"
	ErrCodeUnauthorized       = "UNAUTHORIZED"
	ErrCodeForbidden          = "FORBIDDEN"
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeBadRequest         = "BAD_REQUEST"
)

// NewAppError creates a new application error
func NewAppError(code, message string, status int) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Status:  status,
	}
}

// NotFound creates a 404 error for the named resource
func NotFound(message string) *AppError {
	return NewAppError(ErrCodeNotFound, message, 404)
}

// BadRequest creates a 400 error
func BadRequest(message string) *AppError {
	return NewAppError(ErrCodeBadRequest, message, 400)
}

// Validation creates a 422 error carrying per-field messages
func Validation(message string, fields map[string]string) *AppError {
	return &AppError{
		Code:    ErrCodeValidationFailed,
		Message: message,
		Fields:  fields,
		Status:  422,
	}
}

// Common errors
var (
	ErrInvalidCredentials = NewAppError(ErrCodeInvalidCredentials, "Invalid email or password", 401)
	ErrRateLimitExceeded  = NewAppError(ErrCodeRateLimitExceeded, "Too many login attempts", 429)
	ErrUnauthorized       = NewAppError(ErrCodeUnauthorized, "Authentication required", 401)
	ErrForbidden          = NewAppError(ErrCodeForbidden, "Access denied", 403)
	ErrInternal           = NewAppError(ErrCodeInternalError, "Internal server error", 500)
)
