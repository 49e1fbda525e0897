package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrValidation is returned when request input is malformed or missing.
	ErrValidation = errors.New("validation failed")
	// ErrDuplicateAccount is returned when the email or phone is already registered.
	ErrDuplicateAccount = errors.New("account already exists")
	// ErrNotFound is returned when no matching record exists.
	ErrNotFound = errors.New("not found")
	// ErrAuthenticationRequired is returned when the session is missing, invalid or expired.
	ErrAuthenticationRequired = errors.New("authentication required")
	// ErrInsufficientPermissions is returned when the authenticated role does not qualify.
	ErrInsufficientPermissions = errors.New("insufficient permissions")
	// ErrInvalidCredentials is returned when the supplied password does not match.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP is the single translation from domain errors to HTTP
// errors. Every handler goes through this function so that 401/403/500
// behavior is identical across the whole surface.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrValidation):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "VALIDATION_FAILED")
	case errors.Is(err, ErrDuplicateAccount):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "DUPLICATE_ACCOUNT")
	case errors.Is(err, ErrInvalidCredentials):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_CREDENTIALS")
	case errors.Is(err, ErrNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "NOT_FOUND")
	case errors.Is(err, ErrAuthenticationRequired):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "AUTHENTICATION_REQUIRED")
	case errors.Is(err, ErrInsufficientPermissions):
		return NewHTTPError(http.StatusForbidden, err.Error(), "INSUFFICIENT_PERMISSIONS")
	default:
		// No internal detail leaks to the client; callers log the cause.
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
