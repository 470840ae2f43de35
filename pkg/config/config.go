// Package config loads and persists the recall configuration file.
//
// Load is the only read path: it merges memory-config.toml over the built-in
// defaults key by key and applies RECALL_ environment overrides. Save and
// SetConfigValue are used by the control-plane commands; the extraction and
// synthesis pipeline never writes configuration.
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

const (
	// v0 is the first version of the config
	v0 = 0

	// CurrentV is the currently supported version, points to v0
	CurrentV = v0
)

// Load reads the configuration at path. A missing file yields defaults.
// A file that cannot be parsed yields defaults plus a non-nil error; hook
// callers warn and carry on with the returned Config.
func Load(path string) (Config, error) {
	return NewLoader(path).Config()
}

// LoadFile is Load without environment overrides. Control-plane commands use
// it so that a transient RECALL_ variable is never written back to disk.
func LoadFile(path string) (Config, error) {
	return newLoader(path, false).Config()
}

// Save persists cfg as TOML at path, creating the parent directory.
func Save(path string, cfg Config) error {
	if path == "" {
		return fmt.Errorf("cannot save config: empty target path")
	}

	// A nil slice is omitted by the encoder and would read back as the
	// default category set rather than "unrestricted".
	if cfg.Categories == nil {
		cfg.Categories = []string{}
	}

	var buf bytes.Buffer
	encoder := toml.NewEncoder(&buf)
	if err := encoder.Encode(cfg); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// ValidConfigKeys returns all supported configuration key names in the order
// they appear in the TOML file.
func ValidConfigKeys() []string {
	ordered := []string{
		"enabled",
		"min_messages",
		"categories",
		"synthesis_interval_hours",
		"max_memories_per_category",
		"cleanup_after_days",
		"oracle.provider",
		"oracle.model",
		"oracle.base_url",
		"oracle.timeout_seconds",
	}

	result := make([]string, 0, len(ordered))
	for _, k := range ordered {
		if _, ok := configKeys[k]; ok {
			result = append(result, k)
		}
	}
	return result
}

// IsValidConfigKey returns true if the given key is a supported configuration key.
func IsValidConfigKey(key string) bool {
	_, ok := configKeys[key]
	return ok
}

// SetConfigValue loads the file at path, sets key to value, and saves it.
// Returns an error if the key is not a valid config key.
func SetConfigValue(path, key, value string) error {
	info, ok := configKeys[key]
	if !ok {
		return fmt.Errorf("unknown config key: %q", key)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		return err
	}

	if err := info.set(&cfg, value); err != nil {
		return err
	}

	return Save(path, cfg)
}

// GetConfigValue returns the effective string value of key, including
// environment overrides.
func GetConfigValue(path, key string) (string, error) {
	info, ok := configKeys[key]
	if !ok {
		return "", fmt.Errorf("unknown config key: %q", key)
	}

	cfg, err := Load(path)
	if err != nil {
		return "", err
	}

	return info.get(&cfg), nil
}
