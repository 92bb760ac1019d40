package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure for the efdget tool.
// All configuration is loaded from YAML and can be overridden by
// environment variables.
type Config struct {
	Creds   CredsConfig   `yaml:"creds"`
	EFD     EFDConfig     `yaml:"efd"`
	Logging LoggingConfig `yaml:"logging"`
}

// CredsConfig selects where deployment credentials come from.
type CredsConfig struct {
	// Service is the credential service endpoint. Empty selects the
	// public service.
	Service string `yaml:"service"`

	// File is a local credentials file used instead of the service when
	// set.
	File string `yaml:"file"`

	// EnvVar names an environment variable that overrides File.
	EnvVar string `yaml:"env_var"`
}

// EFDConfig contains deployment selection and query settings.
type EFDConfig struct {
	// Deployment is the default EFD instance to connect to.
	Deployment string `yaml:"deployment"`

	// Database is the database queried. Empty selects the standard name.
	Database string `yaml:"database"`

	// TimeoutSeconds bounds each query round trip.
	TimeoutSeconds int `yaml:"timeout_seconds"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// Load reads a configuration file and applies environment overrides.
//
// Environment variables take precedence over file values:
// EFD_DEPLOYMENT, EFD_DATABASE, EFD_CREDS_SERVICE, EFD_CREDS_FILE,
// EFD_LOG_LEVEL.
//
// Parameters:
//   - path: Path to the YAML configuration file; empty skips the file and
//     uses defaults plus environment overrides
//
// Returns:
//   - *Config: Loaded and validated configuration
//   - error: If the file cannot be read, parsed, or validation fails
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

// defaultConfig returns a Config with sensible defaults.
func defaultConfig() *Config {
	return &Config{
		EFD: EFDConfig{
			Deployment:     "usdf_efd",
			TimeoutSeconds: 900,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the
// configuration. Environment variables follow the pattern: EFD_SECTION_KEY.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("EFD_DEPLOYMENT"); v != "" {
		cfg.EFD.Deployment = v
	}
	if v := os.Getenv("EFD_DATABASE"); v != "" {
		cfg.EFD.Database = v
	}
	if v := os.Getenv("EFD_CREDS_SERVICE"); v != "" {
		cfg.Creds.Service = v
	}
	if v := os.Getenv("EFD_CREDS_FILE"); v != "" {
		cfg.Creds.File = v
	}
	if v := os.Getenv("EFD_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}

// Validate checks the configuration for errors.
//
// Returns:
//   - error: Description of validation failure, or nil if valid
func (c *Config) Validate() error {
	var errs []string

	if c.EFD.Deployment == "" {
		errs = append(errs, "efd.deployment is required")
	}
	if c.EFD.TimeoutSeconds < 0 {
		errs = append(errs, "efd.timeout_seconds must not be negative")
	}

	switch strings.ToLower(c.Logging.Level) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, "logging.level must be one of debug, info, warn, error")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}
	return nil
}

// GetQueryTimeout returns the query timeout as a Duration.
func (c *Config) GetQueryTimeout() time.Duration {
	return time.Duration(c.EFD.TimeoutSeconds) * time.Second
}
