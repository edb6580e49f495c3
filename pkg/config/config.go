// Package config resolves runtime configuration from defaults, an optional
// YAML config file, a .env file, and environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all runtime configuration for the REPL.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string

	Stream      bool
	Verbose     bool
	AutoEval    string
	HistoryFile string
}

// fileConfig mirrors the optional YAML config file.
type fileConfig struct {
	Model    string `yaml:"model"`
	BaseURL  string `yaml:"base_url"`
	AutoEval string `yaml:"auto_eval"`
	Stream   *bool  `yaml:"stream"`
}

// DefaultConfig returns a baseline configuration without side effects.
func DefaultConfig() Config {
	return Config{
		Model:       "gpt-4o-mini",
		Stream:      true,
		Verbose:     false,
		AutoEval:    "always",
		HistoryFile: defaultHistoryFile(),
	}
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "replgpt", "config.yaml")
}

func defaultHistoryFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".replgpt_history")
}

// Load resolves configuration. A missing config file is not an error; a
// present but malformed one is.
func Load(path string) (Config, error) {
	_ = godotenv.Load()

	cfg := DefaultConfig()

	if path == "" {
		path = DefaultPath()
	}
	if path != "" {
		if err := applyFile(&cfg, path); err != nil {
			return Config{}, err
		}
	}

	if v := strings.TrimSpace(os.Getenv("OPENAI_API_KEY")); v != "" {
		cfg.APIKey = v
	}
	if v := strings.TrimSpace(os.Getenv("OPENAI_BASE_URL")); v != "" {
		cfg.BaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv("OPENAI_MODEL")); v != "" {
		cfg.Model = v
	}

	return Normalize(cfg)
}

func applyFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config file %s: %w", path, err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	if v := strings.TrimSpace(fc.Model); v != "" {
		cfg.Model = v
	}
	if v := strings.TrimSpace(fc.BaseURL); v != "" {
		cfg.BaseURL = v
	}
	if v := strings.TrimSpace(fc.AutoEval); v != "" {
		cfg.AutoEval = v
	}
	if fc.Stream != nil {
		cfg.Stream = *fc.Stream
	}
	return nil
}

// Normalize sanitizes configuration values and applies defaults.
func Normalize(cfg Config) (Config, error) {
	cfg.APIKey = strings.TrimSpace(cfg.APIKey)
	cfg.BaseURL = strings.TrimSpace(cfg.BaseURL)
	cfg.Model = strings.TrimSpace(cfg.Model)
	cfg.AutoEval = strings.ToLower(strings.TrimSpace(cfg.AutoEval))

	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}
	switch cfg.AutoEval {
	case "":
		cfg.AutoEval = "always"
	case "always", "never", "infer":
	default:
		return Config{}, fmt.Errorf("invalid auto_eval %q: want always, never, or infer", cfg.AutoEval)
	}
	return cfg, nil
}

// Validate checks startup requirements. A missing API key is the one fatal
// configuration error.
func Validate(cfg Config) error {
	if cfg.APIKey == "" {
		return errors.New("OPENAI_API_KEY is not set")
	}
	return nil
}
