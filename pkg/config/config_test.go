package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ajitpratap0/nimbus/pkg/errors"
)

func TestNewDefaults(t *testing.T) {
	cfg := New("events")

	if cfg.Separator != "__" {
		t.Errorf("expected default separator __, got %q", cfg.Separator)
	}
	if cfg.Format != "parquet" {
		t.Errorf("expected default format parquet, got %q", cfg.Format)
	}
	if cfg.BatchSize != 10000 {
		t.Errorf("expected default batch size 10000, got %d", cfg.BatchSize)
	}
}

func TestValidate(t *testing.T) {
	valid := New("events")
	valid.SchemaPath = "schema.json"
	valid.Output = "out.parquet"

	if err := valid.Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty separator", func(c *Config) { c.Separator = "" }},
		{"missing schema", func(c *Config) { c.SchemaPath = "" }},
		{"missing output", func(c *Config) { c.Output = "" }},
		{"unknown format", func(c *Config) { c.Format = "orc" }},
		{"bad batch size", func(c *Config) { c.BatchSize = 0 }},
	}

	for _, tc := range cases {
		cfg := New("events")
		cfg.SchemaPath = "schema.json"
		cfg.Output = "out.parquet"
		tc.mutate(cfg)

		err := cfg.Validate()
		if err == nil {
			t.Errorf("%s: expected validation error", tc.name)
			continue
		}
		if !errors.IsType(err, errors.ErrorTypeConfig) {
			t.Errorf("%s: expected config error type, got %v", tc.name, err)
		}
	}
}

func TestLoadWithEnvSubstitution(t *testing.T) {
	t.Setenv("NIMBUS_TEST_OUTPUT", "events.parquet")

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte("name: events\nschema_path: schema.json\noutput: ${NIMBUS_TEST_OUTPUT}\n")
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatal(err)
	}

	cfg := New("default")
	if err := Load(path, cfg); err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Output != "events.parquet" {
		t.Errorf("expected env-substituted output, got %q", cfg.Output)
	}
	if cfg.Name != "events" {
		t.Errorf("expected name from file, got %q", cfg.Name)
	}
	// Untouched keys keep their defaults
	if cfg.Format != "parquet" {
		t.Errorf("expected default format preserved, got %q", cfg.Format)
	}
}

func TestLoadMissingFile(t *testing.T) {
	err := Load(filepath.Join(t.TempDir(), "absent.yaml"), New("x"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !errors.IsType(err, errors.ErrorTypeFile) {
		t.Errorf("expected file error type, got %v", err)
	}
}
