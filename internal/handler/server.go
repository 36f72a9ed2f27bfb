// Package handler provides HTTP handlers outside the streaming pipeline.
package handler

import (
	"net/http"
	"time"

	"chatgate/internal/types"
	"chatgate/internal/version"

	"github.com/gin-gonic/gin"
)

// Server contains the thin endpoint handlers.
type Server struct {
	configManager types.ConfigManager
	startTime     time.Time
}

// NewServer creates a new handler server.
func NewServer(configManager types.ConfigManager) *Server {
	return &Server{
		configManager: configManager,
		startTime:     time.Now(),
	}
}

// Health serves GET /health. The body is the fixed liveness contract.
func (s *Server) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// Info serves GET /api/info with non-sensitive build and config facts.
func (s *Server) Info(c *gin.Context) {
	chat := s.configManager.GetChatConfig()
	filter := s.configManager.GetFilterConfig()
	c.JSON(http.StatusOK, gin.H{
		"version":        version.Version,
		"uptime":         time.Since(s.startTime).Round(time.Second).String(),
		"allowed_models": chat.AllowedModels,
		"default_model":  chat.DefaultModel,
		"filter_mode":    filter.Mode,
	})
}
