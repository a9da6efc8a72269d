package config

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds all configuration for the tmplrender command
type Config struct {
	// Fetch configuration
	FetchTimeout       time.Duration `env:"FETCH_TIMEOUT" envDefault:"10s"`
	MaxTemplateBytes   int64         `env:"MAX_TEMPLATE_BYTES" envDefault:"10485760"`
	ExternalIncludeURL string        `env:"EXTERNAL_INCLUDE_URL" envDefault:""`

	// Redis configuration, an empty address disables the template store
	RedisAddr      string `env:"REDIS_ADDR" envDefault:""`
	RedisPassword  string `env:"REDIS_PASS" envDefault:""`
	RedisDB        int    `env:"REDIS_DB" envDefault:"0"`
	RedisKeyPrefix string `env:"REDIS_KEY_PREFIX" envDefault:"template:"`

	// Predicates, as "name=expression;name=expression" CEL definitions
	CELPredicates string `env:"CEL_PREDICATES" envDefault:""`

	// Output configuration
	OutputLayout string `env:"OUTPUT_LAYOUT" envDefault:""`

	// HTTP server configuration (serve mode)
	HTTPPort int `env:"HTTP_PORT" envDefault:"8080"`

	// Logging configuration
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.FetchTimeout <= 0 {
		return fmt.Errorf("FETCH_TIMEOUT must be positive")
	}

	if c.MaxTemplateBytes <= 0 {
		return fmt.Errorf("MAX_TEMPLATE_BYTES must be positive")
	}

	if c.RedisDB < 0 {
		return fmt.Errorf("REDIS_DB must be non-negative")
	}

	if c.RedisAddr != "" && c.RedisKeyPrefix == "" {
		return fmt.Errorf("REDIS_KEY_PREFIX is required when REDIS_ADDR is set")
	}

	if c.HTTPPort <= 0 || c.HTTPPort > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}

	if _, err := c.Predicates(); err != nil {
		return err
	}

	if !isValidLogLevel(c.LogLevel) {
		return fmt.Errorf("LOG_LEVEL must be one of: debug, info, warn, error")
	}

	return nil
}

// RedisEnabled reports whether a Redis template store is configured
func (c *Config) RedisEnabled() bool {
	return c.RedisAddr != ""
}

// Predicates parses CEL_PREDICATES into name → expression
func (c *Config) Predicates() (map[string]string, error) {
	predicates := make(map[string]string)
	for _, def := range strings.Split(c.CELPredicates, ";") {
		def = strings.TrimSpace(def)
		if def == "" {
			continue
		}
		name, expr, ok := strings.Cut(def, "=")
		name = strings.TrimSpace(name)
		expr = strings.TrimSpace(expr)
		if !ok || name == "" || expr == "" {
			return nil, fmt.Errorf("CEL_PREDICATES entry %q must follow syntax name=expression", def)
		}
		predicates[name] = expr
	}
	return predicates, nil
}

// isValidLogLevel checks if the log level is valid
func isValidLogLevel(level string) bool {
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	return validLevels[level]
}

// String returns a string representation of the config (without sensitive data)
func (c *Config) String() string {
	names := []string{}
	if predicates, err := c.Predicates(); err == nil {
		for name := range predicates {
			names = append(names, name)
		}
		sort.Strings(names)
	}

	return fmt.Sprintf(
		"Config{FetchTimeout=%s, MaxTemplateBytes=%d, ExternalIncludeURL=%s, RedisAddr=%s, RedisDB=%d, "+
			"RedisKeyPrefix=%s, Predicates=%v, OutputLayout=%s, HTTPPort=%d, LogLevel=%s}",
		c.FetchTimeout,
		c.MaxTemplateBytes,
		c.ExternalIncludeURL,
		c.RedisAddr,
		c.RedisDB,
		c.RedisKeyPrefix,
		names,
		c.OutputLayout,
		c.HTTPPort,
		c.LogLevel,
	)
}
