package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration options for the librarian service
type Config struct {
	// Wikipedia API settings
	Wikipedia WikipediaConfig `yaml:"wikipedia" json:"wikipedia"`

	// Rate limiting configuration for outbound Wikipedia calls
	RateLimit RateLimitConfig `yaml:"rate_limit" json:"rate_limit"`

	// HTTP server settings
	Server ServerConfig `yaml:"server" json:"server"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// WikipediaConfig holds Wikipedia-specific configuration
type WikipediaConfig struct {
	Language       string        `yaml:"language" json:"language"`
	UserAgent      string        `yaml:"user_agent" json:"user_agent"`
	RequestTimeout time.Duration `yaml:"request_timeout" json:"request_timeout"`
	MaxRetries     int           `yaml:"max_retries" json:"max_retries"`
}

// RateLimitConfig holds token bucket configuration.
// Strategy is kept as a string here so the file/env layer stays free of
// package dependencies; pkg/ratelimit parses it into its closed enum.
type RateLimitConfig struct {
	Capacity   int           `yaml:"capacity" json:"capacity"`
	RefillRate float64       `yaml:"refill_rate" json:"refill_rate"`
	Strategy   string        `yaml:"strategy" json:"strategy"`
	MaxWait    time.Duration `yaml:"max_wait" json:"max_wait"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string        `yaml:"host" json:"host"`
	Port            int           `yaml:"port" json:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout" json:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout" json:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" json:"shutdown_timeout"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level" json:"level"`
	Pretty bool   `yaml:"pretty" json:"pretty"`
}

// DefaultConfig returns a Config instance with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Wikipedia: WikipediaConfig{
			Language:       "en",
			UserAgent:      "Librarian/1.0 (https://github.com/user/librarian)",
			RequestTimeout: 30 * time.Second,
			MaxRetries:     3,
		},
		RateLimit: RateLimitConfig{
			Capacity:   20,
			RefillRate: 10.0,
			Strategy:   "REJECT",
			MaxWait:    30 * time.Second,
		},
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8000,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Pretty: true,
		},
	}
}

// Load builds the effective configuration: defaults, then an optional
// YAML file, then environment variables (highest precedence).
// A .env file in the working directory is honored if present.
func Load(path string) (*Config, error) {
	// Missing .env is the normal case, not an error
	_ = godotenv.Load()

	cfg := DefaultConfig()
	if err := cfg.LoadFromFile(path); err != nil {
		return nil, err
	}
	cfg.LoadFromEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromFile loads configuration from a YAML file.
// An empty path falls back to default locations; a missing file is not an error.
func (c *Config) LoadFromFile(path string) error {
	if path == "" {
		path = c.findConfigFile()
		if path == "" {
			return nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return nil
}

// findConfigFile checks default config file locations
func (c *Config) findConfigFile() string {
	candidates := []string{
		".librarian.yaml",
		".librarian.yml",
	}

	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates,
			filepath.Join(home, ".librarian.yaml"),
			filepath.Join(home, ".config", "librarian", "config.yaml"),
		)
	}

	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}

	return ""
}

// LoadFromEnv loads configuration from environment variables.
// Invalid values are logged as warnings and the current value is kept;
// bad rate-limit settings must never prevent startup.
func (c *Config) LoadFromEnv() {
	// Wikipedia settings
	if lang := os.Getenv("LIBRARIAN_WIKIPEDIA_LANGUAGE"); lang != "" {
		c.Wikipedia.Language = lang
	}
	if ua := os.Getenv("LIBRARIAN_USER_AGENT"); ua != "" {
		c.Wikipedia.UserAgent = ua
	}

	// Rate limiting
	if raw := os.Getenv("LIBRARIAN_RATE_CAPACITY"); raw != "" {
		if val, err := strconv.Atoi(raw); err == nil && val > 0 {
			c.RateLimit.Capacity = val
		} else {
			log.Warn().Str("value", raw).Int("default", c.RateLimit.Capacity).
				Msg("invalid LIBRARIAN_RATE_CAPACITY, using default")
		}
	}
	if raw := os.Getenv("LIBRARIAN_RATE_REFILL_RATE"); raw != "" {
		if val, err := strconv.ParseFloat(raw, 64); err == nil && val > 0 {
			c.RateLimit.RefillRate = val
		} else {
			log.Warn().Str("value", raw).Float64("default", c.RateLimit.RefillRate).
				Msg("invalid LIBRARIAN_RATE_REFILL_RATE, using default")
		}
	}
	if raw := os.Getenv("LIBRARIAN_RATE_STRATEGY"); raw != "" {
		switch strings.ToUpper(raw) {
		case "REJECT", "WAIT":
			c.RateLimit.Strategy = strings.ToUpper(raw)
		default:
			log.Warn().Str("value", raw).Str("default", c.RateLimit.Strategy).
				Msg("invalid LIBRARIAN_RATE_STRATEGY, using default")
		}
	}
	if raw := os.Getenv("LIBRARIAN_RATE_MAX_WAIT"); raw != "" {
		if val, err := parseSeconds(raw); err == nil && val >= 0 {
			c.RateLimit.MaxWait = val
		} else {
			log.Warn().Str("value", raw).Dur("default", c.RateLimit.MaxWait).
				Msg("invalid LIBRARIAN_RATE_MAX_WAIT, using default")
		}
	}

	// Server settings
	if raw := os.Getenv("LIBRARIAN_SERVER_PORT"); raw != "" {
		if val, err := strconv.Atoi(raw); err == nil && val > 0 && val < 65536 {
			c.Server.Port = val
		} else {
			log.Warn().Str("value", raw).Int("default", c.Server.Port).
				Msg("invalid LIBRARIAN_SERVER_PORT, using default")
		}
	}
	if host := os.Getenv("LIBRARIAN_SERVER_HOST"); host != "" {
		c.Server.Host = host
	}

	// Logging level
	if level := os.Getenv("LIBRARIAN_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
}

// parseSeconds accepts either a plain number of seconds ("30", "7.5")
// or a Go duration string ("30s", "500ms").
func parseSeconds(raw string) (time.Duration, error) {
	if secs, err := strconv.ParseFloat(raw, 64); err == nil {
		return time.Duration(secs * float64(time.Second)), nil
	}
	return time.ParseDuration(raw)
}

// Validate checks the configuration for invalid values
func (c *Config) Validate() error {
	if c.Wikipedia.Language == "" {
		return errors.New("wikipedia language cannot be empty")
	}
	if c.Wikipedia.RequestTimeout <= 0 {
		return errors.New("wikipedia request timeout must be positive")
	}
	if c.RateLimit.Capacity <= 0 {
		return errors.New("rate limit capacity must be positive")
	}
	if c.RateLimit.RefillRate <= 0 {
		return errors.New("rate limit refill rate must be positive")
	}
	if c.RateLimit.Strategy != "REJECT" && c.RateLimit.Strategy != "WAIT" {
		return fmt.Errorf("unknown rate limit strategy: %s", c.RateLimit.Strategy)
	}
	if c.RateLimit.MaxWait < 0 {
		return errors.New("rate limit max wait cannot be negative")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	return nil
}
