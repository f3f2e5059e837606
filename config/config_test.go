package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"TAX_ADDR", "TAX_SCHEDULE", "TAX_CACHE_BACKEND", "TAX_REDIS_ADDR",
		"TAX_HISTORY_BACKEND", "TAX_HISTORY_PATH", "LOG_LEVEL", "TAX_RATE_LIMIT", "LOG_JSON",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("XDG_DATA_HOME", t.TempDir())

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)

	def := DefaultConfig()
	assert.Equal(t, def, cfg)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "simplified", cfg.Tax.Schedule)
	assert.Equal(t, "none", cfg.Cache.Backend)
	assert.Equal(t, 10*time.Minute, cfg.Cache.TTL.Duration)
}

func TestLoad_FileAndEnvOverrides(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[server]
addr = ":9090"
read_timeout = "5s"

[tax]
schedule = "detailed"

[cache]
backend = "memory"
ttl = "30s"

[log]
level = "debug"
`), 0o600))

	t.Setenv("TAX_ADDR", ":7070")
	t.Setenv("TAX_RATE_LIMIT", "0")
	t.Setenv("LOG_JSON", "true")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":7070", cfg.Server.Addr)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout.Duration)
	assert.Equal(t, 15*time.Second, cfg.Server.WriteTimeout.Duration)
	assert.Equal(t, "detailed", cfg.Tax.Schedule)
	assert.Equal(t, "memory", cfg.Cache.Backend)
	assert.Equal(t, 30*time.Second, cfg.Cache.TTL.Duration)
	assert.Equal(t, 0, cfg.RateLimit.Capacity)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Log.JSON)
}

func TestLoad_BadEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("TAX_RATE_LIMIT", "lots")

	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	assert.ErrorContains(t, err, "TAX_RATE_LIMIT")
}

func TestSaveRoundTrip(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "sub", "config.toml")

	cfg := DefaultConfig()
	cfg.History.Backend = "sqlite"
	cfg.History.Path = "/var/lib/tax/history.db"
	cfg.RateLimit.Refill = Duration{90 * time.Second}
	require.NoError(t, Save(path, cfg))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"defaults", func(*Config) {}, ""},
		{"unknown cache", func(c *Config) { c.Cache.Backend = "memcached" }, "cache.backend"},
		{"unknown history", func(c *Config) { c.History.Backend = "postgres" }, "history.backend"},
		{"sqlite without path", func(c *Config) { c.History.Backend = "sqlite"; c.History.Path = "" }, "history.path"},
		{"negative capacity", func(c *Config) { c.RateLimit.Capacity = -1 }, "rate_limit.capacity"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.errMsg)
		})
	}
}
