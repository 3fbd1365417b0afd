package batch

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the batch run configuration.
type Config struct {
	// Workers is the number of documents parsed concurrently.
	Workers int `yaml:"workers" json:"workers"`

	// OutputDir receives one JSON file per parsed document.
	OutputDir string `yaml:"output_dir" json:"output_dir"`

	// Pattern is the glob matched against file names in the input
	// directory.
	Pattern string `yaml:"pattern,omitempty" json:"pattern,omitempty"`

	// FailFast stops scheduling new documents after the first failure.
	FailFast bool `yaml:"fail_fast,omitempty" json:"fail_fast,omitempty"`

	// LogLevel sets the logrus level (debug, info, warn, error).
	LogLevel string `yaml:"log_level,omitempty" json:"log_level,omitempty"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Workers:   4,
		OutputDir: "out",
		Pattern:   "*.html",
		LogLevel:  "info",
	}
}

// LoadConfig reads a YAML batch configuration, filling in defaults for
// omitted fields.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read batch config: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse batch config: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks the configuration for usable values.
func (c *Config) Validate() error {
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}
	if c.OutputDir == "" {
		return fmt.Errorf("output_dir is required")
	}
	if c.Pattern == "" {
		c.Pattern = "*.html"
	}
	switch c.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log_level %q", c.LogLevel)
	}
	return nil
}
