package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"scalyze/internal/dialect"
)

// Config represents the complete scalyze configuration (v1 schema)
type Config struct {
	Version  int    `json:"version" mapstructure:"version"`
	RepoRoot string `json:"repoRoot" mapstructure:"repoRoot"`

	Analysis AnalysisConfig `json:"analysis" mapstructure:"analysis"`
	Output   OutputConfig   `json:"output" mapstructure:"output"`
	Report   ReportConfig   `json:"report" mapstructure:"report"`
	Store    StoreConfig    `json:"store" mapstructure:"store"`
	Baseline BaselineConfig `json:"baseline" mapstructure:"baseline"`
	Logging  LoggingConfig  `json:"logging" mapstructure:"logging"`
}

// AnalysisConfig controls file analysis and dialect detection
type AnalysisConfig struct {
	// Workers is the batch worker count; 0 means one per CPU
	Workers int `json:"workers" mapstructure:"workers"`
	// Dialect pins the grammar revision; empty means per-file detection
	Dialect string `json:"dialect" mapstructure:"dialect"`
	// Tuning is the path of a detection tuning profile (TOML)
	Tuning string `json:"tuning" mapstructure:"tuning"`
	// Exclude lists extra directory names skipped during discovery
	Exclude []string `json:"exclude" mapstructure:"exclude"`
}

// OutputConfig contains default output settings for the CLI
type OutputConfig struct {
	Format string `json:"format" mapstructure:"format"`
	Sort   string `json:"sort" mapstructure:"sort"`
	Limit  int    `json:"limit" mapstructure:"limit"`
}

// ReportConfig contains risk classification settings
type ReportConfig struct {
	// Profile is the path of a threshold profile (TOML); empty uses the
	// built-in thresholds
	Profile string `json:"profile" mapstructure:"profile"`
	// FailOn makes analyze exit non-zero at this risk level: medium or high
	FailOn string `json:"failOn" mapstructure:"failOn"`
}

// StoreConfig contains metric history storage settings
type StoreConfig struct {
	Enabled bool   `json:"enabled" mapstructure:"enabled"`
	Path    string `json:"path" mapstructure:"path"`
}

// BaselineConfig contains suppression baseline settings
type BaselineConfig struct {
	Path string `json:"path" mapstructure:"path"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level      string          `json:"level" mapstructure:"level"`
	File       string          `json:"file" mapstructure:"file"`
	MaxSize    string          `json:"maxSize" mapstructure:"maxSize"`
	MaxBackups int             `json:"maxBackups" mapstructure:"maxBackups"`
	Remote     RemoteLogConfig `json:"remote" mapstructure:"remote"`
}

// RemoteLogConfig configures shipping logs to a Loki endpoint, typically
// from CI runs
type RemoteLogConfig struct {
	Enabled       bool              `json:"enabled" mapstructure:"enabled"`
	Endpoint      string            `json:"endpoint" mapstructure:"endpoint"`
	Labels        map[string]string `json:"labels" mapstructure:"labels"`
	BatchSize     int               `json:"batchSize" mapstructure:"batchSize"`
	FlushInterval string            `json:"flushInterval" mapstructure:"flushInterval"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version:  1,
		RepoRoot: ".",
		Analysis: AnalysisConfig{
			Workers: 0,
			Dialect: "",
			Exclude: []string{},
		},
		Output: OutputConfig{
			Format: "human",
			Sort:   "paths",
			Limit:  0,
		},
		Report: ReportConfig{
			Profile: "",
			FailOn:  "",
		},
		Store: StoreConfig{
			Enabled: true,
			Path:    ".scalyze/metrics.db",
		},
		Baseline: BaselineConfig{
			Path: ".scalyze/baseline.yml",
		},
		Logging: LoggingConfig{
			Level:      "info",
			MaxBackups: 3,
		},
	}
}

// LoadConfig loads configuration from .scalyze/config.json. A missing file
// yields the defaults; a present file is merged over them.
func LoadConfig(repoRoot string) (*Config, error) {
	v := viper.New()

	v.SetDefault("version", 1)
	v.SetDefault("repoRoot", ".")

	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(filepath.Join(repoRoot, ".scalyze"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes the configuration to .scalyze/config.json
func (c *Config) Save(repoRoot string) error {
	dir := filepath.Join(repoRoot, ".scalyze")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(filepath.Join(dir, "config.json"), data, 0644)
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Version != 1 {
		return &ConfigError{Field: "version", Message: "unsupported config version"}
	}

	switch c.Output.Format {
	case "", "human", "json":
	default:
		return &ConfigError{Field: "output.format", Message: "must be human or json"}
	}

	switch c.Report.FailOn {
	case "", "medium", "high":
	default:
		return &ConfigError{Field: "report.failOn", Message: "must be medium or high"}
	}

	if c.Analysis.Workers < 0 {
		return &ConfigError{Field: "analysis.workers", Message: "must not be negative"}
	}

	if c.Analysis.Dialect != "" {
		if _, err := dialect.Parse(c.Analysis.Dialect); err != nil {
			return &ConfigError{Field: "analysis.dialect", Message: err.Error()}
		}
	}

	return nil
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error in field '" + e.Field + "': " + e.Message
}
