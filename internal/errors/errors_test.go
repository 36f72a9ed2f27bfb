package errors

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestAPIError_Error tests the Error method implementation
func TestAPIError_Error(t *testing.T) {
	tests := []struct {
		name     string
		apiError *APIError
		expected string
	}{
		{
			name:     "standard error",
			apiError: ErrBadRequest,
			expected: "Invalid request parameters",
		},
		{
			name:     "custom error",
			apiError: &APIError{HTTPStatus: 500, Code: "TEST", Message: "Test message"},
			expected: "Test message",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.apiError.Error())
		})
	}
}

// TestPredefinedErrors tests all predefined error constants
func TestPredefinedErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        *APIError
		statusCode int
		code       string
	}{
		{"ErrBadRequest", ErrBadRequest, http.StatusBadRequest, "BAD_REQUEST"},
		{"ErrInvalidJSON", ErrInvalidJSON, http.StatusBadRequest, "INVALID_JSON"},
		{"ErrInvalidRequest", ErrInvalidRequest, http.StatusBadRequest, "INVALID_REQUEST"},
		{"ErrUnauthorized", ErrUnauthorized, http.StatusUnauthorized, "UNAUTHORIZED"},
		{"ErrTooManyRequests", ErrTooManyRequests, http.StatusTooManyRequests, "TOO_MANY_REQUESTS"},
		{"ErrInternalServer", ErrInternalServer, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"},
		{"ErrBadGateway", ErrBadGateway, http.StatusBadGateway, "BAD_GATEWAY"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.statusCode, tt.err.HTTPStatus)
			assert.Equal(t, tt.code, tt.err.Code)
			assert.NotEmpty(t, tt.err.Message)
		})
	}
}

// TestClientVisibleMessages pins the messages that are part of the external
// interface contract.
func TestClientVisibleMessages(t *testing.T) {
	assert.Equal(t, "Invalid messages format", ErrInvalidRequest.Message)
	assert.Equal(t, "Upstream error", ErrBadGateway.Message)
	assert.Equal(t, "Server error", ErrInternalServer.Message)
}

// TestNewAPIError tests creating a new API error with custom message
func TestNewAPIError(t *testing.T) {
	customMsg := "Custom error message"
	err := NewAPIError(ErrBadRequest, customMsg)

	assert.Equal(t, ErrBadRequest.HTTPStatus, err.HTTPStatus)
	assert.Equal(t, ErrBadRequest.Code, err.Code)
	assert.Equal(t, customMsg, err.Message)
}
