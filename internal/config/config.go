// Package config holds the tool configuration: translation defaults,
// dictionary persistence and logging, loaded from YAML with environment
// overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all logicle configuration.
type Config struct {
	// Language forces the surface language (en, fr, it, es); empty means
	// detect from the document's introducer phrases.
	Language string `yaml:"language"`

	// DefaultKB names anonymous knowledge-base blocks.
	DefaultKB string `yaml:"default_kb"`

	// Target is the default output dialect when a document carries no
	// target pragma.
	Target string `yaml:"target"`

	Store   StoreConfig   `yaml:"store"`
	Eval    EvalConfig    `yaml:"eval"`
	Logging LoggingConfig `yaml:"logging"`
}

// StoreConfig configures dictionary persistence.
type StoreConfig struct {
	// Persist enables saving parsed dictionaries.
	Persist bool `yaml:"persist"`
	// Path is the SQLite database file.
	Path string `yaml:"path"`
}

// EvalConfig configures query evaluation.
type EvalConfig struct {
	Timeout string `yaml:"timeout"`
}

// LoggingConfig configures the logger.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text or json
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		DefaultKB: "the_kb",
		Target:    "prolog",
		Store: StoreConfig{
			Persist: false,
			Path:    "logicle.db",
		},
		Eval: EvalConfig{
			Timeout: "30s",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads configuration from a YAML file, falling back to defaults
// when the file does not exist, then applies environment overrides.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration to a YAML file.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Validate rejects values that would otherwise fail deep inside a
// translation.
func (c *Config) Validate() error {
	switch c.Language {
	case "", "en", "fr", "it", "es":
	default:
		return fmt.Errorf("unsupported language %q", c.Language)
	}
	if c.Eval.Timeout != "" {
		if _, err := time.ParseDuration(c.Eval.Timeout); err != nil {
			return fmt.Errorf("invalid eval timeout %q: %w", c.Eval.Timeout, err)
		}
	}
	return nil
}

// EvalTimeout parses the evaluation timeout, defaulting to 30 seconds.
func (c *Config) EvalTimeout() time.Duration {
	d, err := time.ParseDuration(c.Eval.Timeout)
	if err != nil || d <= 0 {
		return 30 * time.Second
	}
	return d
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("LOGICLE_LANGUAGE"); v != "" {
		c.Language = v
	}
	if v := os.Getenv("LOGICLE_TARGET"); v != "" {
		c.Target = v
	}
	if v := os.Getenv("LOGICLE_STORE_PATH"); v != "" {
		c.Store.Path = v
		c.Store.Persist = true
	}
	if v := os.Getenv("LOGICLE_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
}
