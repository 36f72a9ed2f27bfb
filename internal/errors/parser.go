package errors

import (
	"encoding/json"
	"strings"
)

// upstreamErrorBody covers the error body shapes seen across upstream
// providers. Fields are probed in order of specificity.
type upstreamErrorBody struct {
	Error    json.RawMessage `json:"error"`
	ErrorMsg string          `json:"error_msg"`
	Message  string          `json:"message"`
}

type nestedError struct {
	Message string `json:"message"`
}

// ParseUpstreamError extracts a human-readable message from an upstream error
// body. The result is for server-side logging only; it is never returned to
// the client. Unparseable bodies are returned as-is so no detail is lost.
func ParseUpstreamError(body []byte) string {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return ""
	}

	var parsed upstreamErrorBody
	if err := json.Unmarshal(body, &parsed); err != nil {
		return trimmed
	}

	if len(parsed.Error) > 0 {
		// error may be an object with a message, or a bare string
		var nested nestedError
		if err := json.Unmarshal(parsed.Error, &nested); err == nil && nested.Message != "" {
			return strings.TrimSpace(nested.Message)
		}
		var plain string
		if err := json.Unmarshal(parsed.Error, &plain); err == nil && plain != "" {
			return strings.TrimSpace(plain)
		}
	}

	if parsed.ErrorMsg != "" {
		return strings.TrimSpace(parsed.ErrorMsg)
	}
	if parsed.Message != "" {
		return strings.TrimSpace(parsed.Message)
	}

	return trimmed
}
