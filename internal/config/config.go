// Package config provides centralized configuration management for the application.
// It loads configuration from environment variables with sensible defaults and
// validates all settings on startup to fail fast on misconfiguration.
package config

import (
	"strconv"
	"time"

	"github.com/JonMunkholm/bdcrecon/internal/core"
)

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Upload    UploadConfig
	Rate      RateLimitConfig
	Security  SecurityConfig
	Logging   LoggingConfig
	Reconcile ReconcileConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" default:"8080"`

	// ReadTimeout is the maximum duration for reading request body (default: 60s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" default:"60s"`

	// WriteTimeout is the maximum duration for writing response (default: 0, the
	// report download is bounded by RequestTimeout instead)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"0s"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout is the middleware timeout for requests (default: 5m)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"5m"`
}

// DatabaseConfig holds the optional run history database settings.
type DatabaseConfig struct {
	// URL is the PostgreSQL connection string. Empty disables run history.
	// Supports both DATABASE_URL and DB_URL env vars for compatibility
	URL string `env:"DATABASE_URL" envAlt:"DB_URL"`

	// MaxConns is the maximum number of connections in the pool (default: 4)
	MaxConns int `env:"DB_MAX_CONNS" default:"4"`

	// MinConns is the minimum number of connections to keep open (default: 0)
	MinConns int `env:"DB_MIN_CONNS" default:"0"`

	// MaxConnLifetime is the maximum lifetime of a connection (default: 1h)
	MaxConnLifetime time.Duration `env:"DB_MAX_CONN_LIFETIME" default:"1h"`

	// MaxConnIdleTime is the maximum idle time before a connection is closed (default: 30m)
	MaxConnIdleTime time.Duration `env:"DB_MAX_CONN_IDLE_TIME" default:"30m"`
}

// Enabled reports whether a history database is configured.
func (c *DatabaseConfig) Enabled() bool {
	return c.URL != ""
}

// UploadConfig holds the settings of uploaded exports and web runs.
type UploadConfig struct {
	// MaxFileSize is the maximum size of one uploaded export in bytes (default: 50MB)
	MaxFileSize int64 `env:"UPLOAD_MAX_FILE_SIZE" default:"52428800"`

	// MaxConcurrent is the maximum number of parallel reconciliations (default: 5)
	MaxConcurrent int `env:"UPLOAD_MAX_CONCURRENT" default:"5"`

	// MaxWaitTime is how long to wait for a run slot (default: 30s)
	MaxWaitTime time.Duration `env:"UPLOAD_MAX_WAIT_TIME" default:"30s"`

	// Timeout is the maximum duration of a single web run (default: 2m)
	Timeout time.Duration `env:"UPLOAD_TIMEOUT" default:"2m"`

	// WorkDir is where uploads and reports are staged; empty uses the system
	// temp directory
	WorkDir string `env:"UPLOAD_WORK_DIR"`

	// StaleAfter is the age past which a leftover run directory is removed (default: 1h)
	StaleAfter time.Duration `env:"UPLOAD_STALE_AFTER" default:"1h"`

	// CleanupInterval is how often leftover run directories are swept (default: 15m)
	CleanupInterval time.Duration `env:"UPLOAD_CLEANUP_INTERVAL" default:"15m"`
}

// RateLimitConfig holds rate limiting settings per time window.
type RateLimitConfig struct {
	// Enabled controls whether rate limiting is active (default: true)
	Enabled bool `env:"RATE_LIMIT_ENABLED" default:"true"`

	// RequestsPerMinute is the default rate limit per IP (default: 100)
	RequestsPerMinute int `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" default:"100"`

	// UploadLimit is requests per minute for the reconcile endpoint (default: 10)
	UploadLimit int `env:"RATE_LIMIT_UPLOAD" default:"10"`
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	// TrustedProxies is a comma-separated list of trusted proxy CIDRs
	TrustedProxies []string `env:"TRUSTED_PROXIES"`

	// EnableCSP enables Content-Security-Policy headers (default: true)
	EnableCSP bool `env:"SECURITY_ENABLE_CSP" default:"true"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// ReconcileConfig holds the report settings.
type ReconcileConfig struct {
	// CoverSheet adds the "Page de garde" rules sheet (default: true)
	CoverSheet bool `env:"RECON_COVER_SHEET" default:"true"`

	// Text overrides the wording written into the Global sheet.
	Text LiteralConfig `envPrefix:"RECON_LITERAL_"`
}

// LiteralConfig mirrors core.Literals. Empty values keep the finance team's
// wording.
type LiteralConfig struct {
	RegulCASupplier string `env:"REGUL_CA_SUPPLIER"`
	RegulCA         string `env:"REGUL_CA"`
	RegulCAMarker   string `env:"REGUL_CA_MARKER"`
	UnknownSF       string `env:"UNKNOWN_SF"`
	NoPayment       string `env:"NO_PAYMENT"`
	MissingDate     string `env:"MISSING_DATE"`

	// PaymentsFormat must contain a single %d verb
	PaymentsFormat string `env:"PAYMENTS_FORMAT"`
	Placeholder    string `env:"PLACEHOLDER"`
}

// Literals returns the unified table texts with defaults filled in.
func (c *ReconcileConfig) Literals() core.Literals {
	t := c.Text
	return core.Literals{
		RegulCASupplier: t.RegulCASupplier,
		RegulCA:         t.RegulCA,
		RegulCAMarker:   t.RegulCAMarker,
		UnknownSF:       t.UnknownSF,
		NoPayment:       t.NoPayment,
		MissingDate:     t.MissingDate,
		PaymentsFormat:  t.PaymentsFormat,
		Placeholder:     t.Placeholder,
	}.WithDefaults()
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}
