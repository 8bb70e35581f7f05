package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		GoEnv:            "development",
		HTTPPort:         8080,
		StorageDriver:    StorageDriverMemory,
		DBMaxConns:       10,
		IDSpace:          1 << 31,
		IDMaxAttempts:    32,
		IDReservationTTL: 30 * time.Second,
		RequestTimeout:   5 * time.Second,
		RateLimitRPS:     50,
		RateLimitBurst:   100,
		LogLevel:         "info",
		LogFormat:        "json",
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	for _, key := range []string{"HTTP_PORT", "STORAGE_DRIVER", "ID_SPACE", "ID_MAX_ATTEMPTS", "REQUEST_TIMEOUT", "LOG_FORMAT", "REDIS_URL"} {
		t.Setenv(key, "")
	}

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.HTTPPort)
	assert.Equal(t, StorageDriverPostgres, cfg.StorageDriver)
	assert.Equal(t, int64(1<<31-1), cfg.IDSpace)
	assert.Equal(t, 32, cfg.IDMaxAttempts)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Empty(t, cfg.RedisURL)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig_FromEnv(t *testing.T) {
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("ID_SPACE", "100000")
	t.Setenv("REQUEST_TIMEOUT", "250ms")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.HTTPPort)
	assert.Equal(t, StorageDriverMemory, cfg.StorageDriver)
	assert.Equal(t, int64(100000), cfg.IDSpace)
	assert.Equal(t, 250*time.Millisecond, cfg.RequestTimeout)
	assert.Equal(t, "redis://localhost:6379/0", cfg.RedisURL)
}

func TestLoadConfig_InvalidValues(t *testing.T) {
	t.Run("InvalidInt", func(t *testing.T) {
		t.Setenv("HTTP_PORT", "eighty")
		_, err := LoadConfig()
		assert.ErrorContains(t, err, "HTTP_PORT")
	})

	t.Run("InvalidDuration", func(t *testing.T) {
		t.Setenv("REQUEST_TIMEOUT", "soon")
		_, err := LoadConfig()
		assert.ErrorContains(t, err, "REQUEST_TIMEOUT")
	})

	t.Run("InvalidInt64", func(t *testing.T) {
		t.Setenv("ID_SPACE", "huge")
		_, err := LoadConfig()
		assert.ErrorContains(t, err, "ID_SPACE")
	})
}

func TestValidate(t *testing.T) {
	assert.NoError(t, validConfig().Validate())

	tests := []struct {
		name   string
		mutate func(c *Config)
		want   string
	}{
		{"PortOutOfRange", func(c *Config) { c.HTTPPort = 70000 }, "HTTP_PORT"},
		{"UnknownDriver", func(c *Config) { c.StorageDriver = "sqlite" }, "STORAGE_DRIVER"},
		{"PostgresWithoutURL", func(c *Config) { c.StorageDriver = StorageDriverPostgres; c.DatabaseURL = "" }, "DATABASE_URL"},
		{"TinyIDSpace", func(c *Config) { c.IDSpace = 10 }, "ID_SPACE"},
		{"NoAttempts", func(c *Config) { c.IDMaxAttempts = 0 }, "ID_MAX_ATTEMPTS"},
		{"NoTimeout", func(c *Config) { c.RequestTimeout = 0 }, "REQUEST_TIMEOUT"},
		{"BadLogLevel", func(c *Config) { c.LogLevel = "verbose" }, "LOG_LEVEL"},
		{"BadLogFormat", func(c *Config) { c.LogFormat = "xml" }, "LOG_FORMAT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	cfg := validConfig()
	cfg.HTTPPort = 0
	cfg.LogFormat = "xml"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP_PORT")
	assert.Contains(t, err.Error(), "LOG_FORMAT")
}
