package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configKeys = []string{
	"HOST", "PORT", "GRPC_PORT", "APP_ENV", "LOG_LEVEL",
	"METRICS_ENABLED", "HTTP_MAX_BODY_BYTES",
	"CORS_ALLOWED_ORIGINS", "CORS_ALLOWED_METHODS", "CORS_ALLOWED_HEADERS",
	"CORS_ALLOW_CREDENTIALS", "CORS_MAX_AGE",
	"TIMEOUT_READ", "TIMEOUT_WRITE", "TIMEOUT_IDLE", "TIMEOUT_SHUTDOWN",
}

// unsetEnv removes keys for the duration of the test.
func unsetEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, key := range keys {
		if prev, ok := os.LookupEnv(key); ok {
			require.NoError(t, os.Unsetenv(key))
			t.Cleanup(func() { _ = os.Setenv(key, prev) })
		}
	}
}

func TestLoad_Defaults(t *testing.T) {
	unsetEnv(t, configKeys...)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Host)
	assert.Equal(t, 8000, cfg.HTTPPort)
	assert.Equal(t, 0, cfg.GRPCPort)
	assert.Equal(t, EnvDevelopment, cfg.Environment)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.True(t, cfg.MetricsEnabled)
	assert.Equal(t, int64(1<<20), cfg.MaxBodyBytes)
	assert.Equal(t, "0.0.0.0:8000", cfg.GetHTTPAddr())

	assert.Equal(t, []string{AnyOrigin}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, []string{"*"}, cfg.CORS.AllowedMethods)
	assert.Equal(t, []string{"*"}, cfg.CORS.AllowedHeaders)
	assert.True(t, cfg.CORS.AllowCredentials)
	assert.Equal(t, 10*time.Minute, cfg.CORS.MaxAge)
	assert.True(t, cfg.AllowsAnyOrigin())

	assert.Equal(t, 30*time.Second, cfg.Timeouts.Shutdown)
}

func TestLoad_Overrides(t *testing.T) {
	unsetEnv(t, configKeys...)
	t.Setenv("PORT", "9001")
	t.Setenv("GRPC_PORT", "9002")
	t.Setenv("HOST", "127.0.0.1")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("METRICS_ENABLED", "false")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://app.stratiq.io,https://admin.stratiq.io")
	t.Setenv("CORS_ALLOW_CREDENTIALS", "false")
	t.Setenv("TIMEOUT_SHUTDOWN", "5s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9001, cfg.HTTPPort)
	assert.Equal(t, "127.0.0.1:9002", cfg.GetGRPCAddr())
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.False(t, cfg.MetricsEnabled)
	assert.Equal(t, []string{"https://app.stratiq.io", "https://admin.stratiq.io"}, cfg.CORS.AllowedOrigins)
	assert.False(t, cfg.CORS.AllowCredentials)
	assert.False(t, cfg.AllowsAnyOrigin())
	assert.Equal(t, 5*time.Second, cfg.Timeouts.Shutdown)
}

func TestLoad_ProductionDeniesCrossOriginByDefault(t *testing.T) {
	unsetEnv(t, configKeys...)
	t.Setenv("APP_ENV", "production")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Empty(t, cfg.CORS.AllowedOrigins)
	assert.False(t, cfg.AllowsAnyOrigin())
}

func TestLoad_ProductionKeepsExplicitOrigins(t *testing.T) {
	unsetEnv(t, configKeys...)
	t.Setenv("APP_ENV", "production")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://app.stratiq.io")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"https://app.stratiq.io"}, cfg.CORS.AllowedOrigins)
}

func TestLoad_InvalidPort(t *testing.T) {
	unsetEnv(t, configKeys...)
	t.Setenv("PORT", "not-a-port")

	_, err := Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Host:         "0.0.0.0",
			HTTPPort:     8000,
			Environment:  EnvDevelopment,
			LogLevel:     "info",
			MaxBodyBytes: 1024,
			Timeouts:     TimeoutConfig{Shutdown: time.Second},
		}
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "port zero", mutate: func(c *Config) { c.HTTPPort = 0 }, errMsg: "invalid HTTP port"},
		{name: "port too large", mutate: func(c *Config) { c.HTTPPort = 70000 }, errMsg: "invalid HTTP port"},
		{name: "negative grpc port", mutate: func(c *Config) { c.GRPCPort = -1 }, errMsg: "invalid gRPC port"},
		{name: "port collision", mutate: func(c *Config) { c.GRPCPort = 8000 }, errMsg: "collides"},
		{name: "unknown environment", mutate: func(c *Config) { c.Environment = "staging" }, errMsg: "invalid environment"},
		{name: "unknown log level", mutate: func(c *Config) { c.LogLevel = "trace" }, errMsg: "invalid log level"},
		{name: "zero body cap", mutate: func(c *Config) { c.MaxBodyBytes = 0 }, errMsg: "max body bytes"},
		{name: "negative max age", mutate: func(c *Config) { c.CORS.MaxAge = -time.Second }, errMsg: "max age"},
		{name: "zero shutdown timeout", mutate: func(c *Config) { c.Timeouts.Shutdown = 0 }, errMsg: "shutdown timeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	const key = "STRATIQ_DOTENV_PROBE"
	unsetEnv(t, key)
	t.Cleanup(func() { _ = os.Unsetenv(key) })

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(key+"=from-file\n"), 0o600))

	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, "from-file", os.Getenv(key))
}

func TestLoadDotEnv_DoesNotOverrideProcessEnv(t *testing.T) {
	const key = "STRATIQ_DOTENV_PROBE"
	t.Setenv(key, "from-process")

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(key+"=from-file\n"), 0o600))

	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, "from-process", os.Getenv(key))
}

func TestLoadDotEnv_MissingFileIsSkipped(t *testing.T) {
	assert.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), "absent.env")))
}
