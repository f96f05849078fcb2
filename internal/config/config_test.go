package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Version != 1 {
		t.Errorf("Version = %d, want 1", cfg.Version)
	}

	if cfg.Analysis.Workers != 0 {
		t.Errorf("Analysis.Workers = %d, want 0 (one per CPU)", cfg.Analysis.Workers)
	}
	if cfg.Analysis.Dialect != "" {
		t.Errorf("Analysis.Dialect = %q, want auto-detection", cfg.Analysis.Dialect)
	}

	if cfg.Output.Format != "human" {
		t.Errorf("Output.Format = %q, want %q", cfg.Output.Format, "human")
	}
	if cfg.Output.Sort != "paths" {
		t.Errorf("Output.Sort = %q, want %q", cfg.Output.Sort, "paths")
	}

	if !cfg.Store.Enabled {
		t.Error("Store should be enabled by default")
	}
	if cfg.Store.Path != ".scalyze/metrics.db" {
		t.Errorf("Store.Path = %q, want %q", cfg.Store.Path, ".scalyze/metrics.db")
	}

	if cfg.Baseline.Path != ".scalyze/baseline.yml" {
		t.Errorf("Baseline.Path = %q, want %q", cfg.Baseline.Path, ".scalyze/baseline.yml")
	}

	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "info")
	}
	if cfg.Logging.Remote.Enabled {
		t.Error("Remote logging should be disabled by default")
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"version 0", func(c *Config) { c.Version = 0 }, true},
		{"version 2", func(c *Config) { c.Version = 2 }, true},
		{"json format", func(c *Config) { c.Output.Format = "json" }, false},
		{"bad format", func(c *Config) { c.Output.Format = "xml" }, true},
		{"fail on high", func(c *Config) { c.Report.FailOn = "high" }, false},
		{"fail on low", func(c *Config) { c.Report.FailOn = "low" }, true},
		{"negative workers", func(c *Config) { c.Analysis.Workers = -1 }, true},
		{"pinned dialect", func(c *Config) { c.Analysis.Dialect = "2.12" }, false},
		{"unknown dialect", func(c *Config) { c.Analysis.Dialect = "4.0" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr && err == nil {
				t.Error("Validate() should return an error")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Validate() returned unexpected error: %v", err)
			}
		})
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	// Missing config falls back to defaults
	if cfg.Version != 1 {
		t.Errorf("Version = %d, want 1", cfg.Version)
	}
	if cfg.Output.Format != "human" {
		t.Errorf("Output.Format = %q, want %q", cfg.Output.Format, "human")
	}
}

func TestLoadConfig_PartialFileKeepsDefaults(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, ".scalyze")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	partial := `{"version": 1, "analysis": {"workers": 8}}`
	if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte(partial), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(root)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Analysis.Workers != 8 {
		t.Errorf("Analysis.Workers = %d, want 8", cfg.Analysis.Workers)
	}
	// Unspecified sections keep their defaults
	if cfg.Store.Path != ".scalyze/metrics.db" {
		t.Errorf("Store.Path = %q, want default", cfg.Store.Path)
	}
	if cfg.Output.Format != "human" {
		t.Errorf("Output.Format = %q, want default", cfg.Output.Format)
	}
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, ".scalyze")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte("{nope"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadConfig(root); err == nil {
		t.Error("LoadConfig should fail on malformed JSON")
	}
}

func TestConfig_SaveRoundTrip(t *testing.T) {
	root := t.TempDir()

	cfg := DefaultConfig()
	cfg.Analysis.Workers = 4
	cfg.Output.Format = "json"
	cfg.Logging.Remote.Endpoint = "http://loki:3100/loki/api/v1/push"

	if err := cfg.Save(root); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := LoadConfig(root)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if loaded.Analysis.Workers != 4 {
		t.Errorf("Analysis.Workers = %d, want 4", loaded.Analysis.Workers)
	}
	if loaded.Output.Format != "json" {
		t.Errorf("Output.Format = %q, want %q", loaded.Output.Format, "json")
	}
	if loaded.Logging.Remote.Endpoint != cfg.Logging.Remote.Endpoint {
		t.Errorf("Remote.Endpoint = %q, want %q", loaded.Logging.Remote.Endpoint, cfg.Logging.Remote.Endpoint)
	}
}

func TestConfigError_Message(t *testing.T) {
	err := &ConfigError{Field: "output.format", Message: "must be human or json"}
	want := "config error in field 'output.format': must be human or json"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}
