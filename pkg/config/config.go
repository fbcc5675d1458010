// Package config provides configuration for nimbus conversion runs.
// A single Config describes one conversion: where the schema and records
// come from, how keys are flattened, and how the columnar output is written.
package config

import (
	"github.com/ajitpratap0/nimbus/pkg/errors"
)

// Config describes one conversion run
type Config struct {
	// Name identifies the run (e.g. the stream or table name)
	Name string `yaml:"name" json:"name"`

	// Separator joins path segments in flattened column names
	Separator string `yaml:"separator" json:"separator"`

	// SchemaPath is the JSON schema document to flatten
	SchemaPath string `yaml:"schema_path" json:"schema_path"`

	// Input is the line-delimited JSON record source, "-" for stdin
	Input string `yaml:"input" json:"input"`

	// Output is the columnar output file
	Output string `yaml:"output" json:"output"`

	// Format selects the columnar output format (parquet or arrow)
	Format string `yaml:"format" json:"format"`

	// Compression selects the Parquet codec (snappy, zstd, gzip, lz4, brotli, none)
	Compression string `yaml:"compression" json:"compression"`

	// BatchSize controls how many rows are buffered per record batch
	BatchSize int `yaml:"batch_size" json:"batch_size"`

	// Logging configures the logger
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// LoggingConfig configures structured logging
type LoggingConfig struct {
	Level       string `yaml:"level" json:"level"`
	Encoding    string `yaml:"encoding" json:"encoding"`
	Development bool   `yaml:"development" json:"development"`
}

// New returns a Config with defaults applied
func New(name string) *Config {
	return &Config{
		Name:        name,
		Separator:   "__",
		Input:       "-",
		Format:      "parquet",
		Compression: "snappy",
		BatchSize:   10000,
		Logging: LoggingConfig{
			Level:    "info",
			Encoding: "json",
		},
	}
}

// Validate checks the configuration for consistency
func (c *Config) Validate() error {
	if c.Separator == "" {
		return errors.New(errors.ErrorTypeConfig, "separator must not be empty")
	}
	if c.SchemaPath == "" {
		return errors.New(errors.ErrorTypeConfig, "schema_path is required")
	}
	if c.Output == "" {
		return errors.New(errors.ErrorTypeConfig, "output is required")
	}
	if c.Format != "parquet" && c.Format != "arrow" {
		return errors.Newf(errors.ErrorTypeConfig, "unknown output format %q", c.Format)
	}
	if c.BatchSize <= 0 {
		return errors.New(errors.ErrorTypeConfig, "batch_size must be positive")
	}
	return nil
}
