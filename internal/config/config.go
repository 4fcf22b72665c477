// Package config assembles the service configuration from an optional
// YAML file with environment variables layered on top. Environment wins,
// so a container can override any file setting.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Port string `yaml:"port"`

	// Claude transformations
	AnthropicAPIKey  string `yaml:"anthropic_api_key"`
	AnthropicModel   string `yaml:"anthropic_model"`
	AnthropicBaseURL string `yaml:"anthropic_base_url"`

	// Preloaded transcript library
	LibraryDir string `yaml:"library_dir"`

	// Upload limits
	MaxUploadBytes int64 `yaml:"max_upload_bytes"`
}

// defaultConfigFile is tried when CONFIG_FILE is unset; missing is fine.
const defaultConfigFile = "config.yaml"

// Load builds the configuration: defaults, then the YAML file, then
// environment overrides. A CONFIG_FILE that cannot be read or parsed is an
// error; the implicit default file is only an error when malformed.
func Load() (Config, error) {
	cfg := Config{
		Port:           "8090",
		AnthropicModel: "claude-sonnet-4-5-20250929",
		LibraryDir:     "transcripts",
		MaxUploadBytes: 10485760, // 10MB
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return cfg, err
		}
	} else if err := loadFile(defaultConfigFile, &cfg); err != nil && !os.IsNotExist(err) {
		return cfg, err
	}

	cfg.Port = envOr("PORT", cfg.Port)
	cfg.AnthropicAPIKey = envOr("ANTHROPIC_API_KEY", cfg.AnthropicAPIKey)
	cfg.AnthropicModel = envOr("ANTHROPIC_MODEL", cfg.AnthropicModel)
	cfg.AnthropicBaseURL = envOr("ANTHROPIC_BASE_URL", cfg.AnthropicBaseURL)
	cfg.LibraryDir = envOr("LIBRARY_DIR", cfg.LibraryDir)
	cfg.MaxUploadBytes = envInt64("MAX_UPLOAD_BYTES", cfg.MaxUploadBytes)

	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 10485760
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func (c Config) Validate() error {
	if c.AnthropicAPIKey == "" {
		return fmt.Errorf("ANTHROPIC_API_KEY is required")
	}
	if c.Port == "" {
		return fmt.Errorf("port must not be empty")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}
