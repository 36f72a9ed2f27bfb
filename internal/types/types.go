// Package types defines the configuration contracts shared across the application.
package types

import "time"

// ConfigManager defines the interface for configuration management.
// Implementations materialize one immutable snapshot at startup; no other
// component reads process environment state directly.
type ConfigManager interface {
	GetEffectiveServerConfig() ServerConfig
	GetUpstreamConfig() UpstreamConfig
	GetChatConfig() ChatConfig
	GetFilterConfig() FilterConfig
	GetCORSConfig() CORSConfig
	GetPerformanceConfig() PerformanceConfig
	GetLogConfig() LogConfig
	GetStaticConfig() StaticConfig
	IsDebugMode() bool
	Validate() error
	DisplayServerConfig()
	ReloadConfig() error
}

// ServerConfig represents server configuration
type ServerConfig struct {
	Port                    int    `json:"port"`
	Host                    string `json:"host"`
	ReadTimeout             int    `json:"read_timeout"`
	WriteTimeout            int    `json:"write_timeout"`
	IdleTimeout             int    `json:"idle_timeout"`
	GracefulShutdownTimeout int    `json:"graceful_shutdown_timeout"`
}

// UpstreamConfig represents the upstream chat-completion API configuration.
type UpstreamConfig struct {
	URL                   string        `json:"url"`
	APIKey                string        `json:"-"`
	APIVersion            string        `json:"api_version"`
	ConnectTimeout        time.Duration `json:"connect_timeout"`
	ResponseHeaderTimeout time.Duration `json:"response_header_timeout"`
	IdleConnTimeout       time.Duration `json:"idle_conn_timeout"`
	MaxIdleConns          int           `json:"max_idle_conns"`
	MaxIdleConnsPerHost   int           `json:"max_idle_conns_per_host"`
}

// ChatConfig holds request normalization defaults and limits.
type ChatConfig struct {
	AllowedModels       []string            `json:"allowed_models"`
	AllowedModelsMap    map[string]struct{} `json:"-"`
	DefaultModel        string              `json:"default_model"`
	DefaultSystemPrompt string              `json:"default_system_prompt"`
	DefaultTemperature  float64             `json:"default_temperature"`
	DefaultMaxTokens    int                 `json:"default_max_tokens"`
}

// FilterConfig holds content rewriting and identity-probe policy settings.
type FilterConfig struct {
	Mode           string `json:"mode"` // "redact" or "rebrand"
	BrandName      string `json:"brand_name"`
	BrandMaker     string `json:"brand_maker"`
	ProbeIntercept bool   `json:"probe_intercept"`
	ProbeReply     string `json:"probe_reply"`
}

// CORSConfig represents CORS configuration
type CORSConfig struct {
	Enabled          bool     `json:"enabled"`
	AllowedOrigins   []string `json:"allowed_origins"`
	AllowedMethods   []string `json:"allowed_methods"`
	AllowedHeaders   []string `json:"allowed_headers"`
	AllowCredentials bool     `json:"allow_credentials"`
}

// PerformanceConfig represents performance configuration
type PerformanceConfig struct {
	MaxConcurrentRequests int   `json:"max_concurrent_requests"`
	MaxRequestBodyBytes   int64 `json:"max_request_body_bytes"`
}

// LogConfig represents logging configuration
type LogConfig struct {
	Level      string `json:"level"`
	Format     string `json:"format"`
	EnableFile bool   `json:"enable_file"`
	FilePath   string `json:"file_path"`
}

// StaticConfig represents the browser client asset configuration.
type StaticConfig struct {
	Dir string `json:"dir"`
}
