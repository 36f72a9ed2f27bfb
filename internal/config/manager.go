// Package config provides environment based configuration management
package config

import (
	"fmt"
	"time"

	"chatgate/internal/types"
	"chatgate/internal/utils"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Constants for default configuration values
const (
	defaultUpstreamURL        = "https://api.anthropic.com/v1/messages"
	defaultUpstreamAPIVersion = "2023-06-01"
	defaultModel              = "claude-3-5-haiku-20241022"
	defaultTemperature        = 0.3
	defaultMaxTokens          = 800
	defaultProbeReply         = "I'm %s, an AI assistant built by %s. How can I help you today?"
)

// Manager implements the ConfigManager interface.
// The snapshot is built once at startup (or on ReloadConfig) and read-only
// afterwards, so accessors need no locking.
type Manager struct {
	config *Config
}

// Config represents the application configuration loaded from environment variables.
type Config struct {
	Server      types.ServerConfig      `json:"server"`
	Upstream    types.UpstreamConfig    `json:"upstream"`
	Chat        types.ChatConfig        `json:"chat"`
	Filter      types.FilterConfig      `json:"filter"`
	CORS        types.CORSConfig        `json:"cors"`
	Performance types.PerformanceConfig `json:"performance"`
	Log         types.LogConfig         `json:"log"`
	Static      types.StaticConfig      `json:"static"`
}

// NewManager creates a new configuration manager and loads the environment.
func NewManager() (types.ConfigManager, error) {
	if err := godotenv.Load(); err != nil {
		logrus.Debug("No .env file found, using environment variables")
	}

	manager := &Manager{}
	if err := manager.ReloadConfig(); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	return manager, nil
}

// ReloadConfig re-reads the environment and replaces the current snapshot.
func (m *Manager) ReloadConfig() error {
	config := &Config{
		Server: types.ServerConfig{
			Port:                    utils.ParseInteger("PORT", 3001),
			Host:                    utils.ParseString("HOST", "0.0.0.0"),
			ReadTimeout:             utils.ParseInteger("SERVER_READ_TIMEOUT", 60),
			WriteTimeout:            utils.ParseInteger("SERVER_WRITE_TIMEOUT", 600),
			IdleTimeout:             utils.ParseInteger("SERVER_IDLE_TIMEOUT", 120),
			GracefulShutdownTimeout: utils.ParseInteger("SERVER_GRACEFUL_SHUTDOWN_TIMEOUT", 10),
		},
		Upstream: types.UpstreamConfig{
			URL:                   utils.ParseString("UPSTREAM_URL", defaultUpstreamURL),
			APIKey:                utils.ParseString("UPSTREAM_API_KEY", ""),
			APIVersion:            utils.ParseString("UPSTREAM_VERSION", defaultUpstreamAPIVersion),
			ConnectTimeout:        time.Duration(utils.ParseInteger("UPSTREAM_CONNECT_TIMEOUT", 15)) * time.Second,
			ResponseHeaderTimeout: time.Duration(utils.ParseInteger("UPSTREAM_RESPONSE_HEADER_TIMEOUT", 60)) * time.Second,
			IdleConnTimeout:       time.Duration(utils.ParseInteger("UPSTREAM_IDLE_CONN_TIMEOUT", 120)) * time.Second,
			MaxIdleConns:          utils.ParseInteger("UPSTREAM_MAX_IDLE_CONNS", 100),
			MaxIdleConnsPerHost:   utils.ParseInteger("UPSTREAM_MAX_IDLE_CONNS_PER_HOST", 50),
		},
		Chat: types.ChatConfig{
			AllowedModels:       utils.ParseArray("ALLOWED_MODELS", []string{defaultModel}),
			DefaultModel:        utils.ParseString("DEFAULT_MODEL", ""),
			DefaultSystemPrompt: utils.ParseString("DEFAULT_SYSTEM_PROMPT", ""),
			DefaultTemperature:  utils.ParseFloat("DEFAULT_TEMPERATURE", defaultTemperature),
			DefaultMaxTokens:    utils.ParseInteger("DEFAULT_MAX_TOKENS", defaultMaxTokens),
		},
		Filter: types.FilterConfig{
			Mode:           utils.ParseString("FILTER_MODE", "rebrand"),
			BrandName:      utils.ParseString("BRAND_NAME", "Nova"),
			BrandMaker:     utils.ParseString("BRAND_MAKER", "Nova Labs"),
			ProbeIntercept: utils.ParseBoolean("PROBE_INTERCEPT", true),
			ProbeReply:     utils.ParseString("PROBE_REPLY", ""),
		},
		CORS: types.CORSConfig{
			Enabled:          utils.ParseBoolean("ENABLE_CORS", true),
			AllowedOrigins:   utils.ParseArray("ALLOWED_ORIGINS", []string{"*"}),
			AllowedMethods:   utils.ParseArray("ALLOWED_METHODS", []string{"GET", "POST", "OPTIONS"}),
			AllowedHeaders:   utils.ParseArray("ALLOWED_HEADERS", []string{"*"}),
			AllowCredentials: utils.ParseBoolean("ALLOW_CREDENTIALS", false),
		},
		Performance: types.PerformanceConfig{
			MaxConcurrentRequests: utils.ParseInteger("MAX_CONCURRENT_REQUESTS", 100),
			MaxRequestBodyBytes:   int64(utils.ParseInteger("MAX_REQUEST_BODY_BYTES", 1<<20)),
		},
		Log: types.LogConfig{
			Level:      utils.ParseString("LOG_LEVEL", "info"),
			Format:     utils.ParseString("LOG_FORMAT", "text"),
			EnableFile: utils.ParseBoolean("LOG_ENABLE_FILE", false),
			FilePath:   utils.ParseString("LOG_FILE_PATH", "./data/logs/app.log"),
		},
		Static: types.StaticConfig{
			Dir: utils.ParseString("STATIC_DIR", "./web/dist"),
		},
	}

	// The default model falls back to the first allowed model.
	if config.Chat.DefaultModel == "" {
		config.Chat.DefaultModel = config.Chat.AllowedModels[0]
	}
	config.Chat.AllowedModelsMap = make(map[string]struct{}, len(config.Chat.AllowedModels))
	for _, model := range config.Chat.AllowedModels {
		config.Chat.AllowedModelsMap[model] = struct{}{}
	}

	if config.Filter.ProbeReply == "" {
		config.Filter.ProbeReply = fmt.Sprintf(defaultProbeReply, config.Filter.BrandName, config.Filter.BrandMaker)
	}

	m.config = config

	if err := m.Validate(); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	return nil
}

// Validate checks the configuration for invalid values.
func (m *Manager) Validate() error {
	config := m.config

	if config.Server.Port < 1 || config.Server.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", config.Server.Port)
	}

	if config.Upstream.URL == "" {
		return fmt.Errorf("UPSTREAM_URL is required")
	}

	if config.Upstream.APIKey == "" {
		return fmt.Errorf("UPSTREAM_API_KEY is required")
	}

	if len(config.Chat.AllowedModels) == 0 {
		return fmt.Errorf("ALLOWED_MODELS cannot be empty")
	}

	if _, ok := config.Chat.AllowedModelsMap[config.Chat.DefaultModel]; !ok {
		return fmt.Errorf("DEFAULT_MODEL %q is not in ALLOWED_MODELS", config.Chat.DefaultModel)
	}

	if config.Filter.Mode != "redact" && config.Filter.Mode != "rebrand" {
		return fmt.Errorf("FILTER_MODE must be \"redact\" or \"rebrand\", got %q", config.Filter.Mode)
	}

	if config.Performance.MaxConcurrentRequests < 1 {
		return fmt.Errorf("max concurrent requests cannot be less than 1, got %d", config.Performance.MaxConcurrentRequests)
	}

	if config.Performance.MaxRequestBodyBytes < 1024 {
		return fmt.Errorf("max request body bytes cannot be less than 1024, got %d", config.Performance.MaxRequestBodyBytes)
	}

	return nil
}

// IsDebugMode returns whether debug logging is enabled.
func (m *Manager) IsDebugMode() bool {
	return m.config.Log.Level == "debug"
}

// GetEffectiveServerConfig returns the server configuration.
func (m *Manager) GetEffectiveServerConfig() types.ServerConfig {
	return m.config.Server
}

// GetUpstreamConfig returns the upstream API configuration.
func (m *Manager) GetUpstreamConfig() types.UpstreamConfig {
	return m.config.Upstream
}

// GetChatConfig returns the chat normalization configuration.
func (m *Manager) GetChatConfig() types.ChatConfig {
	return m.config.Chat
}

// GetFilterConfig returns the content filter configuration.
func (m *Manager) GetFilterConfig() types.FilterConfig {
	return m.config.Filter
}

// GetCORSConfig returns the CORS configuration.
func (m *Manager) GetCORSConfig() types.CORSConfig {
	return m.config.CORS
}

// GetPerformanceConfig returns the performance configuration.
func (m *Manager) GetPerformanceConfig() types.PerformanceConfig {
	return m.config.Performance
}

// GetLogConfig returns the logging configuration.
func (m *Manager) GetLogConfig() types.LogConfig {
	return m.config.Log
}

// GetStaticConfig returns the static asset configuration.
func (m *Manager) GetStaticConfig() types.StaticConfig {
	return m.config.Static
}

// DisplayServerConfig logs the effective configuration at startup.
func (m *Manager) DisplayServerConfig() {
	config := m.config

	logrus.Info("")
	logrus.Info("======= Server Configuration =======")
	logrus.Infof("  Listen Address: %s:%d", config.Server.Host, config.Server.Port)
	logrus.Infof("  Upstream URL: %s", config.Upstream.URL)
	logrus.Infof("  Upstream API Key: %s", utils.MaskAPIKey(config.Upstream.APIKey))
	logrus.Infof("  Allowed Models: %v", config.Chat.AllowedModels)
	logrus.Infof("  Default Model: %s", config.Chat.DefaultModel)
	logrus.Infof("  Filter Mode: %s (brand: %s / %s)", config.Filter.Mode, config.Filter.BrandName, config.Filter.BrandMaker)
	logrus.Infof("  Probe Intercept: %v", config.Filter.ProbeIntercept)
	logrus.Infof("  CORS Enabled: %v", config.CORS.Enabled)
	logrus.Infof("  Max Concurrent Requests: %d", config.Performance.MaxConcurrentRequests)
	logrus.Infof("  Log Level: %s", config.Log.Level)
	logrus.Info("====================================")
	logrus.Info("")
}
