// Package response provides standardized response helpers.
package response

import (
	"net/http"

	app_errors "chatgate/internal/errors"

	"github.com/gin-gonic/gin"
)

// ErrorResponse defines the JSON error response structure.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Success sends a JSON success response.
func Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, data)
}

// Error sends a JSON error response using an APIError. Used before the
// response has entered streaming mode.
func Error(c *gin.Context, apiErr *app_errors.APIError) {
	c.JSON(apiErr.HTTPStatus, ErrorResponse{Error: apiErr.Message})
}

// PlainError sends a plain-text error response using an APIError. Used for
// failures of the streaming path, whose success responses are plain text.
func PlainError(c *gin.Context, apiErr *app_errors.APIError) {
	c.String(apiErr.HTTPStatus, apiErr.Message)
}
