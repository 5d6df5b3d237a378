// Package config provides configuration loading, validation and change
// watching for netaudit.
package config

import "fmt"

// Config is the root configuration.
type Config struct {
	// Logging configures the structured-log subsystem.
	Logging LoggingConfig `yaml:"logging,omitempty"`

	// Audit configures the external audit transport.
	Audit AuditConfig `yaml:"audit,omitempty"`
}

// LoggingConfig configures the structured-log subsystem.
type LoggingConfig struct {
	// Level is the minimum log level (debug, info, warn, error).
	Level string `yaml:"level,omitempty"`

	// Format is the log output format (json, console).
	Format string `yaml:"format,omitempty"`

	// Output is the output destination (stdout, stderr).
	Output string `yaml:"output,omitempty"`
}

// AuditConfig configures the external audit transport.
type AuditConfig struct {
	// Enabled controls whether events are delivered to the kernel
	// audit subsystem. Toggling it at runtime opens or closes the
	// transport without a restart.
	Enabled bool `yaml:"enabled"`
}

// DefaultConfig returns a configuration with default values.
func DefaultConfig() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stderr",
		},
		Audit: AuditConfig{
			Enabled: true,
		},
	}
}

// ValidateConfig validates the configuration.
func ValidateConfig(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("configuration is nil")
	}

	if err := cfg.Logging.Validate(); err != nil {
		return fmt.Errorf("logging: %w", err)
	}

	return nil
}

// Validate validates the logging configuration.
func (c *LoggingConfig) Validate() error {
	switch c.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid level: %s", c.Level)
	}

	switch c.Format {
	case "", "json", "console":
	default:
		return fmt.Errorf("invalid format: %s (must be 'json' or 'console')", c.Format)
	}

	switch c.Output {
	case "", "stdout", "stderr":
	default:
		return fmt.Errorf("invalid output: %s (must be 'stdout' or 'stderr')", c.Output)
	}

	return nil
}
