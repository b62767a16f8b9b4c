// Package config provides centralized configuration management for the application.
// It loads configuration from environment variables with sensible defaults and
// validates all settings on startup to fail fast on misconfiguration.
package config

import (
	"net"
	"strconv"
	"time"
)

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Server  ServerConfig
	Import  ImportConfig
	Package PackageConfig
	Rate    RateLimitConfig
	Logging LoggingConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" envDefault:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" envDefault:"8080"`

	// ReadTimeout is the maximum duration for reading request body (default: 15s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" envDefault:"15s"`

	// WriteTimeout is the maximum duration for writing a response (default: 60s)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" envDefault:"60s"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" envDefault:"60s"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"30s"`

	// RequestTimeout is the middleware timeout for requests (default: 60s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" envDefault:"60s"`

	// TrustedProxies lists proxy CIDRs whose X-Real-IP / X-Forwarded-For
	// headers are believed. Empty means client headers are ignored.
	TrustedProxies []string `env:"SERVER_TRUSTED_PROXIES" envSeparator:","`
}

// ImportConfig holds payroll import settings.
type ImportConfig struct {
	// MaxFileSize is the maximum allowed upload size in bytes (default: 20MB)
	MaxFileSize int64 `env:"IMPORT_MAX_FILE_SIZE" envDefault:"20971520"`

	// Encoding is the character set of uploaded files: utf-8, windows-1252,
	// iso-8859-1 or utf-16 (default: utf-8)
	Encoding string `env:"IMPORT_ENCODING" envDefault:"utf-8"`

	// ValidatePPSN enables the PPS number format check (default: true)
	ValidatePPSN bool `env:"IMPORT_VALIDATE_PPSN" envDefault:"true"`

	// StrictMode drops rows with an invalid PPSN or salary (default: false)
	StrictMode bool `env:"IMPORT_STRICT_MODE" envDefault:"false"`
}

// PackageConfig holds archive packaging settings.
type PackageConfig struct {
	// SubmissionsDir is where archives are written. Empty means
	// <working directory>/.worm/submissions.
	SubmissionsDir string `env:"PACKAGE_SUBMISSIONS_DIR"`

	// MaxConcurrent is the maximum number of parallel archive writes (default: 4)
	MaxConcurrent int `env:"PACKAGE_MAX_CONCURRENT" envDefault:"4"`

	// MaxWaitTime is how long to wait for a packaging slot (default: 10s)
	MaxWaitTime time.Duration `env:"PACKAGE_MAX_WAIT_TIME" envDefault:"10s"`
}

// RateLimitConfig holds rate limiting settings per time window.
type RateLimitConfig struct {
	// Enabled controls whether rate limiting is active (default: true)
	Enabled bool `env:"RATE_LIMIT_ENABLED" envDefault:"true"`

	// RequestsPerMinute is the default rate limit per IP (default: 100)
	RequestsPerMinute int `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" envDefault:"100"`

	// UploadLimit is requests per minute for import and packaging endpoints (default: 10)
	UploadLimit int `env:"RATE_LIMIT_UPLOAD" envDefault:"10"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" envDefault:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" envDefault:"text"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}
