package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Load resolves the configuration for a run. An explicit path must exist.
// With no path, DefaultConfigPath is used when present and built-in
// defaults otherwise.
func Load(path string) (*Config, error) {
	if path != "" {
		return LoadFile(path)
	}

	if _, err := os.Stat(DefaultConfigPath); err == nil {
		return LoadFile(DefaultConfigPath)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to stat %s: %w", DefaultConfigPath, err)
	}

	cfg := Default()
	applyEnv(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// LoadFile reads and parses the configuration from a YAML file.
func LoadFile(path string) (*Config, error) {
	// #nosec G304
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML bytes, applies defaults and environment overrides,
// and validates the result.
func Parse(data []byte) (*Config, error) {
	var rawConfig map[string]interface{}
	if err := yaml.Unmarshal(data, &rawConfig); err != nil {
		return nil, fmt.Errorf("failed to unmarshal yaml: %w", err)
	}

	var cfg Config
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:  mapstructure.StringToTimeDurationHookFunc(),
		ErrorUnused: true,
		Result:      &cfg,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create decoder: %w", err)
	}
	if err := decoder.Decode(rawConfig); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	applyDefaults(&cfg)
	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// applyEnv reads secrets that never live in the config file, and the
// metadata retry count so a flaky image can opt in without a config file.
func applyEnv(cfg *Config) {
	cfg.Metadata.Retries = parseInt("NODEINIT_METADATA_RETRIES", cfg.Metadata.Retries)
	if v := os.Getenv("NODEINIT_S3_ACCESS_KEY"); v != "" {
		cfg.Shipping.AccessKey = v
	}
	if v := os.Getenv("NODEINIT_S3_SECRET_KEY"); v != "" {
		cfg.Shipping.SecretKey = v
	}
}
