// Package middleware provides HTTP middleware for the application
package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	app_errors "chatgate/internal/errors"
	"chatgate/internal/response"
	"chatgate/internal/types"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// RequestIDKey is the context key under which the request id is stored.
const RequestIDKey = "request_id"

// RequestIDHeader is the header used to propagate the request id.
const RequestIDHeader = "X-Request-ID"

// RequestID assigns every request an identifier. An incoming X-Request-ID is
// honored so callers can correlate across hops; otherwise a new one is minted.
// The id is echoed back on the response and stored in the gin context.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}

		c.Set(RequestIDKey, requestID)
		c.Header(RequestIDHeader, requestID)
		c.Next()
	}
}

// GetRequestID returns the request id stored by the RequestID middleware.
func GetRequestID(c *gin.Context) string {
	if id, exists := c.Get(RequestIDKey); exists {
		if s, ok := id.(string); ok {
			return s
		}
	}
	return ""
}

// Logger creates a high-performance logging middleware
func Logger(config types.LogConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		latency := time.Since(start)
		method := c.Request.Method
		statusCode := c.Writer.Status()

		requestInfo := ""
		if id := GetRequestID(c); id != "" {
			requestInfo = " - [" + id + "]"
		}

		// Filter health check and other monitoring endpoint logs to reduce noise
		if isMonitoringEndpoint(path) {
			if statusCode >= 400 {
				logrus.Warnf("%s %s - %d - %v", method, path, statusCode, latency)
			}
			return
		}

		// Choose log level based on status code
		if statusCode >= 500 {
			logrus.Errorf("%s %s - %d - %v%s", method, path, statusCode, latency, requestInfo)
		} else if statusCode >= 400 {
			logrus.Warnf("%s %s - %d - %v%s", method, path, statusCode, latency, requestInfo)
		} else {
			logrus.Infof("%s %s - %d - %v%s", method, path, statusCode, latency, requestInfo)
		}
	}
}

// CORS creates a CORS middleware with efficient preflight handling
func CORS(config types.CORSConfig) gin.HandlerFunc {
	// Pre-compute joined strings for better performance
	allowedMethods := strings.Join(config.AllowedMethods, ", ")
	allowedHeaders := strings.Join(config.AllowedHeaders, ", ")

	// Create a map for faster origin lookup
	allowedOriginsMap := make(map[string]bool, len(config.AllowedOrigins))
	hasWildcard := false
	for _, origin := range config.AllowedOrigins {
		if origin == "*" {
			hasWildcard = true
		} else {
			allowedOriginsMap[origin] = true
		}
	}
	// Clear map only when wildcard is used without credentials.
	// When credentials are allowed, we still need the explicit allowlist for origin validation.
	if hasWildcard && !config.AllowCredentials {
		allowedOriginsMap = nil
	}
	if config.AllowCredentials && len(config.AllowedOrigins) == 1 && config.AllowedOrigins[0] == "*" {
		logrus.Warn("CORS configuration uses AllowedOrigins=['*'] with AllowCredentials=true; this blocks all credentialed CORS requests. Configure explicit origins instead.")
	}

	return func(c *gin.Context) {
		if !config.Enabled {
			c.Next()
			return
		}

		origin := c.Request.Header.Get("Origin")

		// Fast path: handle preflight requests immediately
		if c.Request.Method == "OPTIONS" {
			if isOriginAllowed(origin, hasWildcard, config.AllowCredentials, allowedOriginsMap) {
				setAllowOriginHeader(c, origin, hasWildcard, config.AllowCredentials)
				c.Header("Access-Control-Allow-Methods", allowedMethods)
				c.Header("Access-Control-Allow-Headers", allowedHeaders)
				if config.AllowCredentials {
					c.Header("Access-Control-Allow-Credentials", "true")
				}
				// Cache preflight responses to reduce requests
				c.Header("Access-Control-Max-Age", "86400")
			}

			c.AbortWithStatus(204)
			return
		}

		if isOriginAllowed(origin, hasWildcard, config.AllowCredentials, allowedOriginsMap) {
			setAllowOriginHeader(c, origin, hasWildcard, config.AllowCredentials)
			c.Header("Access-Control-Allow-Methods", allowedMethods)
			c.Header("Access-Control-Allow-Headers", allowedHeaders)
			if config.AllowCredentials {
				c.Header("Access-Control-Allow-Credentials", "true")
			}
		}

		c.Next()
	}
}

// isOriginAllowed checks if the origin is allowed based on CORS configuration
func isOriginAllowed(origin string, hasWildcard, allowCredentials bool, allowedOriginsMap map[string]bool) bool {
	if hasWildcard && !allowCredentials {
		// Wildcard is only valid when credentials are not allowed
		return true
	}
	// Origin must be in the explicit allowlist when credentials are enabled
	return allowedOriginsMap[origin]
}

// setAllowOriginHeader sets the Access-Control-Allow-Origin header and Vary header if needed
func setAllowOriginHeader(c *gin.Context, origin string, hasWildcard, allowCredentials bool) {
	if hasWildcard && !allowCredentials {
		c.Header("Access-Control-Allow-Origin", "*")
	} else {
		c.Header("Access-Control-Allow-Origin", origin)
		// Ensure caches differentiate responses by origin when echoing specific origins
		addVaryOriginHeader(c)
	}
}

// addVaryOriginHeader adds "Origin" to the Vary header if not already present
func addVaryOriginHeader(c *gin.Context) {
	vary := c.Writer.Header().Get("Vary")
	if vary == "" {
		c.Header("Vary", "Origin")
		return
	}

	varyHeaders := strings.Split(vary, ",")
	for _, h := range varyHeaders {
		if strings.TrimSpace(h) == "Origin" {
			return
		}
	}

	c.Header("Vary", vary+", Origin")
}

// Recovery creates a recovery middleware with custom error handling.
// If the panic fires mid-stream the response headers are already out, so the
// handler only writes an error body when nothing has been written yet.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logrus.Errorf("Panic recovered: %v", recovered)
		if !c.Writer.Written() {
			response.PlainError(c, app_errors.ErrInternalServer)
		}
		c.Abort()
	})
}

// RateLimiter creates a simple rate limiting middleware
func RateLimiter(config types.PerformanceConfig) gin.HandlerFunc {
	// Simple semaphore-based rate limiting
	semaphore := make(chan struct{}, config.MaxConcurrentRequests)

	return func(c *gin.Context) {
		select {
		case semaphore <- struct{}{}:
			defer func() { <-semaphore }()
			c.Next()
		default:
			response.Error(c, app_errors.ErrTooManyRequests)
			c.Abort()
		}
	}
}

// ErrorHandler creates an error handling middleware
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		// Handle any errors that occurred during request processing
		if len(c.Errors) > 0 && !c.Writer.Written() {
			err := c.Errors.Last().Err

			var apiErr *app_errors.APIError
			if errors.As(err, &apiErr) {
				response.Error(c, apiErr)
				return
			}

			logrus.Errorf("Unhandled error: %v", err)
			response.Error(c, app_errors.ErrInternalServer)
		}
	}
}

// isMonitoringEndpoint checks if the path is a monitoring endpoint
func isMonitoringEndpoint(path string) bool {
	monitoringPaths := []string{"/health", "/metrics"}
	for _, monitoringPath := range monitoringPaths {
		if path == monitoringPath {
			return true
		}
	}
	return false
}

// StaticCache creates a middleware for caching static resources
func StaticCache() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path

		if isStaticResource(path) {
			c.Header("Cache-Control", "public, max-age=2592000, immutable")
			c.Header("Expires", time.Now().AddDate(1, 0, 0).UTC().Format("Mon, 02 Jan 2006 15:04:05 GMT"))
		}

		c.Next()
	}
}

// isStaticResource checks if the path is a static resource.
func isStaticResource(path string) bool {
	staticPrefixes := []string{"/assets/"}
	staticSuffixes := []string{
		".js", ".css", ".ico", ".png", ".jpg", ".jpeg",
		".gif", ".svg", ".woff", ".woff2", ".ttf", ".eot",
		".webp", ".avif", ".map",
	}

	for _, prefix := range staticPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}

	for _, suffix := range staticSuffixes {
		if strings.HasSuffix(path, suffix) {
			return true
		}
	}

	return false
}

// SecurityHeaders creates a middleware to add security-related headers
func SecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Prevent MIME type sniffing attacks
		c.Header("X-Content-Type-Options", "nosniff")

		// Control referrer information leakage
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")

		// Restrict browser features to prevent abuse
		c.Header("Permissions-Policy", "camera=(), microphone=(), geolocation=(), payment=(), usb=()")

		// Prevent clickjacking attacks while allowing same-origin embedding if needed
		c.Header("X-Frame-Options", "SAMEORIGIN")

		c.Next()
	}
}

// RequestBodySizeLimit creates a middleware to limit request body size.
// Chat requests are small; anything over the limit is rejected before the
// handler reads it.
func RequestBodySizeLimit(maxBytes int64) gin.HandlerFunc {
	if maxBytes <= 0 {
		maxBytes = 1 << 20 // 1MB default
	}

	return func(c *gin.Context) {
		// Early rejection: check Content-Length header before reading body
		if c.Request.ContentLength > maxBytes && c.Request.ContentLength != -1 {
			logrus.WithFields(logrus.Fields{
				"path":           c.Request.URL.Path,
				"content_length": c.Request.ContentLength,
				"max_bytes":      maxBytes,
			}).Warn("Request body size exceeds limit")
			c.AbortWithStatus(http.StatusRequestEntityTooLarge)
			return
		}

		// Wrap request body with size limiter
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()

		for _, err := range c.Errors {
			var mbErr *http.MaxBytesError
			if errors.As(err.Err, &mbErr) {
				logrus.WithFields(logrus.Fields{
					"path":           c.Request.URL.Path,
					"content_length": c.Request.ContentLength,
					"max_bytes":      maxBytes,
				}).Warn("Request body exceeded limit during processing")
				c.AbortWithStatus(http.StatusRequestEntityTooLarge)
				break
			}
		}
	}
}
