package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"strconv"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	// AnyOrigin in CORS_ALLOWED_ORIGINS permits every origin.
	AnyOrigin = "*"
)

// Config holds all configuration for the StratIQ AI service
type Config struct {
	// Server configuration
	Host        string `env:"HOST" envDefault:"0.0.0.0"`
	HTTPPort    int    `env:"PORT" envDefault:"8000"`
	GRPCPort    int    `env:"GRPC_PORT" envDefault:"0"`
	Environment string `env:"APP_ENV" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	MetricsEnabled bool  `env:"METRICS_ENABLED" envDefault:"true"`
	MaxBodyBytes   int64 `env:"HTTP_MAX_BODY_BYTES" envDefault:"1048576"`

	// Cross-origin policy
	CORS CORSConfig

	// Timeouts
	Timeouts TimeoutConfig
}

// CORSConfig holds the cross-origin policy.
// An empty AllowedOrigins list is resolved against the environment by Load.
type CORSConfig struct {
	AllowedOrigins   []string      `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`
	AllowedMethods   []string      `env:"CORS_ALLOWED_METHODS" envSeparator:"," envDefault:"*"`
	AllowedHeaders   []string      `env:"CORS_ALLOWED_HEADERS" envSeparator:"," envDefault:"*"`
	AllowCredentials bool          `env:"CORS_ALLOW_CREDENTIALS" envDefault:"true"`
	MaxAge           time.Duration `env:"CORS_MAX_AGE" envDefault:"10m"`
}

// TimeoutConfig holds various timeout configurations
type TimeoutConfig struct {
	Read     time.Duration `env:"TIMEOUT_READ" envDefault:"15s"`
	Write    time.Duration `env:"TIMEOUT_WRITE" envDefault:"15s"`
	Idle     time.Duration `env:"TIMEOUT_IDLE" envDefault:"60s"`
	Shutdown time.Duration `env:"TIMEOUT_SHUTDOWN" envDefault:"30s"`
}

// LoadDotEnv loads variables from the given files (".env" when none are given)
// into the process environment. Variables already set are never overridden and
// missing files are skipped.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}

	for _, file := range files {
		if err := godotenv.Load(file); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load %s: %w", file, err)
		}
	}

	return nil
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// applyDefaults fills values whose default depends on other settings.
func (c *Config) applyDefaults() {
	if len(c.CORS.AllowedOrigins) == 0 && c.Environment == EnvDevelopment {
		c.CORS.AllowedOrigins = []string{AnyOrigin}
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	// Validate server ports
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}
	if c.GRPCPort < 0 || c.GRPCPort > 65535 {
		return fmt.Errorf("invalid gRPC port: %d", c.GRPCPort)
	}
	if c.GRPCPort == c.HTTPPort {
		return fmt.Errorf("gRPC port %d collides with HTTP port", c.GRPCPort)
	}

	switch c.Environment {
	case EnvDevelopment, EnvProduction:
	default:
		return fmt.Errorf("invalid environment: %s (must be development or production)", c.Environment)
	}

	// Validate log level
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.LogLevel)
	}

	if c.MaxBodyBytes <= 0 {
		return fmt.Errorf("max body bytes must be positive")
	}

	if c.CORS.MaxAge < 0 {
		return fmt.Errorf("CORS max age must not be negative")
	}

	if c.Timeouts.Shutdown <= 0 {
		return fmt.Errorf("shutdown timeout must be positive")
	}

	return nil
}

// AllowsAnyOrigin reports whether the CORS policy admits every origin.
func (c *Config) AllowsAnyOrigin() bool {
	for _, origin := range c.CORS.AllowedOrigins {
		if origin == AnyOrigin {
			return true
		}
	}
	return false
}

// IsProduction reports whether the service runs with production defaults.
func (c *Config) IsProduction() bool {
	return c.Environment == EnvProduction
}

// GetHTTPAddr returns the HTTP server address
func (c *Config) GetHTTPAddr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.HTTPPort))
}

// GetGRPCAddr returns the gRPC server address
func (c *Config) GetGRPCAddr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.GRPCPort))
}
