package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. RECALL_MIN_MESSAGES or
// RECALL_ORACLE_PROVIDER.
const EnvPrefix = "RECALL"

// Loader wraps a *viper.Viper configured for recall.
//
// Config precedence (highest to lowest):
//  1. CLI flags (once bound via BindRegisteredFlags)
//  2. Environment variables (RECALL_MIN_MESSAGES, RECALL_ORACLE_PROVIDER, etc.)
//  3. memory-config.toml values
//  4. Defaults from NewDefaultConfig()
type Loader struct {
	v *viper.Viper

	// readErr holds a parse failure of the config file. The loader still
	// works, falling back to defaults and environment values.
	readErr error
}

// NewLoader registers defaults, reads path if it exists and binds RECALL_
// environment variables.
func NewLoader(path string) *Loader {
	return newLoader(path, true)
}

func newLoader(path string, env bool) *Loader {
	v := viper.New()
	setViperDefaults(v)

	l := &Loader{v: v}

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			v.SetConfigType("toml")
			if err := v.ReadInConfig(); err != nil {
				l.readErr = fmt.Errorf("reading config %s: %w", path, err)
				l.v = viper.New()
				setViperDefaults(l.v)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			l.readErr = fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	if env {
		l.v.SetEnvPrefix(EnvPrefix)
		l.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		l.v.AutomaticEnv()
	}

	return l
}

// Viper exposes the underlying viper instance for flag binding.
func (l *Loader) Viper() *viper.Viper {
	return l.v
}

// Config unmarshals the merged settings. When the config file could not be
// parsed the returned Config holds defaults plus overrides, and the error
// describes the parse failure so callers can warn and continue.
func (l *Loader) Config() (Config, error) {
	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return NewDefaultConfig(), fmt.Errorf("decoding config: %w", err)
	}

	if cfg.Version != 0 && cfg.Version != CurrentV {
		return NewDefaultConfig(), fmt.Errorf("unsupported config version %d (expected %d)", cfg.Version, CurrentV)
	}

	return cfg, l.readErr
}

// setViperDefaults registers defaults from NewDefaultConfig() into viper
// using dotted-key notation. This keeps defaults.go as the single source of truth.
func setViperDefaults(v *viper.Viper) {
	d := NewDefaultConfig()

	v.SetDefault("version", d.Version)
	v.SetDefault("enabled", d.Enabled)
	v.SetDefault("min_messages", d.MinMessages)
	v.SetDefault("categories", d.Categories)
	v.SetDefault("synthesis_interval_hours", d.SynthesisIntervalHours)
	v.SetDefault("max_memories_per_category", d.MaxMemoriesPerCategory)
	v.SetDefault("cleanup_after_days", d.CleanupAfterDays)

	// Oracle
	v.SetDefault("oracle.provider", d.Oracle.Provider)
	v.SetDefault("oracle.model", d.Oracle.Model)
	v.SetDefault("oracle.base_url", d.Oracle.BaseURL)
	v.SetDefault("oracle.timeout_seconds", d.Oracle.TimeoutSeconds)
}
