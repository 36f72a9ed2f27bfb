// Package errors defines the API error taxonomy.
//
// Client-visible messages are fixed, detail-free strings; anything learned
// from upstream or from request internals stays in server-side logs only.
package errors

import "net/http"

// APIError represents a client-visible error with an HTTP status, a stable
// machine-readable code, and a fixed message.
type APIError struct {
	HTTPStatus int    `json:"-"`
	Code       string `json:"code"`
	Message    string `json:"message"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return e.Message
}

// Predefined errors. The messages for ErrInvalidRequest, ErrBadGateway and
// ErrInternalServer are part of the external interface and must not change.
var (
	ErrBadRequest      = &APIError{HTTPStatus: http.StatusBadRequest, Code: "BAD_REQUEST", Message: "Invalid request parameters"}
	ErrInvalidJSON     = &APIError{HTTPStatus: http.StatusBadRequest, Code: "INVALID_JSON", Message: "Invalid JSON format"}
	ErrInvalidRequest  = &APIError{HTTPStatus: http.StatusBadRequest, Code: "INVALID_REQUEST", Message: "Invalid messages format"}
	ErrUnauthorized    = &APIError{HTTPStatus: http.StatusUnauthorized, Code: "UNAUTHORIZED", Message: "Unauthorized"}
	ErrTooManyRequests = &APIError{HTTPStatus: http.StatusTooManyRequests, Code: "TOO_MANY_REQUESTS", Message: "Too many concurrent requests"}
	ErrInternalServer  = &APIError{HTTPStatus: http.StatusInternalServerError, Code: "INTERNAL_SERVER_ERROR", Message: "Server error"}
	ErrBadGateway      = &APIError{HTTPStatus: http.StatusBadGateway, Code: "BAD_GATEWAY", Message: "Upstream error"}
)

// NewAPIError creates a new APIError based on a predefined error, but with a
// custom message.
func NewAPIError(base *APIError, message string) *APIError {
	return &APIError{
		HTTPStatus: base.HTTPStatus,
		Code:       base.Code,
		Message:    message,
	}
}
