package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "en", cfg.Wikipedia.Language)
	assert.Equal(t, 20, cfg.RateLimit.Capacity)
	assert.Equal(t, 10.0, cfg.RateLimit.RefillRate)
	assert.Equal(t, "REJECT", cfg.RateLimit.Strategy)
	assert.Equal(t, 30*time.Second, cfg.RateLimit.MaxWait)
	assert.Equal(t, 8000, cfg.Server.Port)

	require.NoError(t, cfg.Validate())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("LIBRARIAN_WIKIPEDIA_LANGUAGE", "de")
	t.Setenv("LIBRARIAN_RATE_CAPACITY", "50")
	t.Setenv("LIBRARIAN_RATE_REFILL_RATE", "2.5")
	t.Setenv("LIBRARIAN_RATE_STRATEGY", "wait")
	t.Setenv("LIBRARIAN_RATE_MAX_WAIT", "7.5")
	t.Setenv("LIBRARIAN_SERVER_PORT", "9090")
	t.Setenv("LIBRARIAN_LOG_LEVEL", "debug")

	cfg := DefaultConfig()
	cfg.LoadFromEnv()

	assert.Equal(t, "de", cfg.Wikipedia.Language)
	assert.Equal(t, 50, cfg.RateLimit.Capacity)
	assert.Equal(t, 2.5, cfg.RateLimit.RefillRate)
	assert.Equal(t, "WAIT", cfg.RateLimit.Strategy)
	assert.Equal(t, 7500*time.Millisecond, cfg.RateLimit.MaxWait)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadFromEnvInvalidValuesKeepDefaults(t *testing.T) {
	t.Setenv("LIBRARIAN_RATE_CAPACITY", "not-a-number")
	t.Setenv("LIBRARIAN_RATE_REFILL_RATE", "-3")
	t.Setenv("LIBRARIAN_RATE_STRATEGY", "MAYBE")
	t.Setenv("LIBRARIAN_RATE_MAX_WAIT", "soon")
	t.Setenv("LIBRARIAN_SERVER_PORT", "99999")

	cfg := DefaultConfig()
	cfg.LoadFromEnv()

	assert.Equal(t, 20, cfg.RateLimit.Capacity)
	assert.Equal(t, 10.0, cfg.RateLimit.RefillRate)
	assert.Equal(t, "REJECT", cfg.RateLimit.Strategy)
	assert.Equal(t, 30*time.Second, cfg.RateLimit.MaxWait)
	assert.Equal(t, 8000, cfg.Server.Port)

	require.NoError(t, cfg.Validate())
}

func TestLoadFromEnvZeroCapacityRejected(t *testing.T) {
	t.Setenv("LIBRARIAN_RATE_CAPACITY", "0")

	cfg := DefaultConfig()
	cfg.LoadFromEnv()

	assert.Equal(t, 20, cfg.RateLimit.Capacity)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := `
wikipedia:
  language: fr
rate_limit:
  capacity: 5
  refill_rate: 1.0
  strategy: WAIT
server:
  port: 8080
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg := DefaultConfig()
	require.NoError(t, cfg.LoadFromFile(path))

	assert.Equal(t, "fr", cfg.Wikipedia.Language)
	assert.Equal(t, 5, cfg.RateLimit.Capacity)
	assert.Equal(t, 1.0, cfg.RateLimit.RefillRate)
	assert.Equal(t, "WAIT", cfg.RateLimit.Strategy)
	assert.Equal(t, 8080, cfg.Server.Port)
	// Untouched fields keep their defaults
	assert.Equal(t, 3, cfg.Wikipedia.MaxRetries)
}

func TestLoadFromFileMissingExplicitPath(t *testing.T) {
	cfg := DefaultConfig()
	err := cfg.LoadFromFile("/nonexistent/config.yaml")
	assert.Error(t, err)
}

func TestParseSeconds(t *testing.T) {
	tests := []struct {
		input   string
		want    time.Duration
		wantErr bool
	}{
		{"30", 30 * time.Second, false},
		{"7.5", 7500 * time.Millisecond, false},
		{"0", 0, false},
		{"500ms", 500 * time.Millisecond, false},
		{"2m", 2 * time.Minute, false},
		{"soon", 0, true},
	}

	for _, tt := range tests {
		got, err := parseSeconds(tt.input)
		if tt.wantErr {
			assert.Error(t, err, "input %q", tt.input)
			continue
		}
		assert.NoError(t, err, "input %q", tt.input)
		assert.Equal(t, tt.want, got, "input %q", tt.input)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		valid  bool
	}{
		{"defaults", func(c *Config) {}, true},
		{"empty language", func(c *Config) { c.Wikipedia.Language = "" }, false},
		{"zero capacity", func(c *Config) { c.RateLimit.Capacity = 0 }, false},
		{"negative refill rate", func(c *Config) { c.RateLimit.RefillRate = -1 }, false},
		{"unknown strategy", func(c *Config) { c.RateLimit.Strategy = "THROTTLE" }, false},
		{"negative max wait", func(c *Config) { c.RateLimit.MaxWait = -time.Second }, false},
		{"port too high", func(c *Config) { c.Server.Port = 70000 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}
