package config

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"
)

// Config represents the recall configuration stored as memory-config.toml in
// the memory directory. Every component receives it by value; only the cmd
// layer loads it from disk.
type Config struct {
	Version                int          `toml:"version" mapstructure:"version"`
	Enabled                bool         `toml:"enabled" mapstructure:"enabled"`
	MinMessages            int          `toml:"min_messages" mapstructure:"min_messages"`
	Categories             []string     `toml:"categories" mapstructure:"categories"`
	SynthesisIntervalHours int          `toml:"synthesis_interval_hours" mapstructure:"synthesis_interval_hours"`
	MaxMemoriesPerCategory int          `toml:"max_memories_per_category" mapstructure:"max_memories_per_category"`
	CleanupAfterDays       int          `toml:"cleanup_after_days" mapstructure:"cleanup_after_days"`
	Oracle                 OracleConfig `toml:"oracle" mapstructure:"oracle"`
}

// OracleConfig selects the summarization backend used as the primary
// extraction tier.
type OracleConfig struct {
	// Provider is one of "auto", "anthropic", "openai", "ollama", "claude"
	// or "none".
	Provider       string `toml:"provider" mapstructure:"provider"`
	Model          string `toml:"model,omitempty" mapstructure:"model"`
	BaseURL        string `toml:"base_url,omitempty" mapstructure:"base_url"`
	TimeoutSeconds int    `toml:"timeout_seconds" mapstructure:"timeout_seconds"`
}

// SynthesisInterval is the minimum time between scheduled synthesis runs.
func (c Config) SynthesisInterval() time.Duration {
	return time.Duration(c.SynthesisIntervalHours) * time.Hour
}

// Retention is how long session records survive synthesis cleanup.
func (c Config) Retention() time.Duration {
	return time.Duration(c.CleanupAfterDays) * 24 * time.Hour
}

// OracleTimeout bounds a single oracle call.
func (c Config) OracleTimeout() time.Duration {
	if c.Oracle.TimeoutSeconds <= 0 {
		return defaultOracleTimeoutSeconds * time.Second
	}
	return time.Duration(c.Oracle.TimeoutSeconds) * time.Second
}

// configKeyInfo maps a user-facing dotted key name to a getter and setter on *Config.
type configKeyInfo struct {
	get func(c *Config) string
	set func(c *Config, v string) error
}

func intKey(name string, field func(c *Config) *int) configKeyInfo {
	return configKeyInfo{
		get: func(c *Config) string { return strconv.Itoa(*field(c)) },
		set: func(c *Config, v string) error {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("invalid value for %s: %w", name, err)
			}
			if n < 0 {
				return fmt.Errorf("invalid value for %s: must not be negative", name)
			}
			*field(c) = n
			return nil
		},
	}
}

// configKeys is the authoritative map of all supported config keys.
// Keys use dotted notation matching the TOML layout.
var configKeys = map[string]configKeyInfo{
	"enabled": {
		get: func(c *Config) string { return strconv.FormatBool(c.Enabled) },
		set: func(c *Config, v string) error {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("invalid value for enabled: %w", err)
			}
			c.Enabled = b
			return nil
		},
	},
	"min_messages": intKey("min_messages", func(c *Config) *int { return &c.MinMessages }),
	"categories": {
		get: func(c *Config) string { return strings.Join(c.Categories, ",") },
		set: func(c *Config, v string) error {
			c.Categories = []string{}
			for part := range strings.SplitSeq(v, ",") {
				part = strings.TrimSpace(part)
				if part != "" {
					c.Categories = append(c.Categories, part)
				}
			}
			return nil
		},
	},
	"synthesis_interval_hours":  intKey("synthesis_interval_hours", func(c *Config) *int { return &c.SynthesisIntervalHours }),
	"max_memories_per_category": intKey("max_memories_per_category", func(c *Config) *int { return &c.MaxMemoriesPerCategory }),
	"cleanup_after_days":        intKey("cleanup_after_days", func(c *Config) *int { return &c.CleanupAfterDays }),
	"oracle.provider": {
		get: func(c *Config) string { return c.Oracle.Provider },
		set: func(c *Config, v string) error {
			if !slices.Contains(OracleProviders, v) {
				return fmt.Errorf("invalid value for oracle.provider: %q (available: %s)", v, strings.Join(OracleProviders, ", "))
			}
			c.Oracle.Provider = v
			return nil
		},
	},
	"oracle.model": {
		get: func(c *Config) string { return c.Oracle.Model },
		set: func(c *Config, v string) error { c.Oracle.Model = v; return nil },
	},
	"oracle.base_url": {
		get: func(c *Config) string { return c.Oracle.BaseURL },
		set: func(c *Config, v string) error { c.Oracle.BaseURL = v; return nil },
	},
	"oracle.timeout_seconds": intKey("oracle.timeout_seconds", func(c *Config) *int { return &c.Oracle.TimeoutSeconds }),
}

// OracleProviders lists the accepted oracle.provider values.
var OracleProviders = []string{"auto", "anthropic", "openai", "ollama", "claude", "none"}
