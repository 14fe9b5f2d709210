// Package config loads rootmodel.yaml and applies environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vvka-141/rootmodel/pkg/rootmodel"
)

// ErrConfigNotFound is returned when the config file does not exist.
// Callers can check for this with errors.Is(err, config.ErrConfigNotFound).
var ErrConfigNotFound = errors.New("config file not found")

// Output formats accepted by the load command.
const (
	OutputSummary = "summary"
	OutputJSON    = "json"
	OutputYAML    = "yaml"
)

// Environment variables that override file values.
const (
	EnvPostgresDSN = rootmodel.EnvPrefix + "POSTGRES_DSN"
	EnvS3Endpoint  = rootmodel.EnvPrefix + "S3_ENDPOINT"
	EnvS3Region    = rootmodel.EnvPrefix + "S3_REGION"
)

type S3Config struct {
	Region    string `yaml:"region,omitempty"`
	Endpoint  string `yaml:"endpoint,omitempty"`
	PathStyle bool   `yaml:"path_style,omitempty"`
}

type ExportConfig struct {
	SQLite   string `yaml:"sqlite,omitempty"`
	Postgres string `yaml:"postgres,omitempty"`
}

type ProjectConfig struct {
	Mode             string       `yaml:"mode,omitempty"`
	Temporal         bool         `yaml:"temporal"`
	Strict           bool         `yaml:"strict"`
	Output           string       `yaml:"output,omitempty"`
	LogFormat        string       `yaml:"log_format,omitempty"`
	ExtraDateLayouts []string     `yaml:"extra_date_layouts,omitempty"`
	S3               S3Config     `yaml:"s3"`
	Export           ExportConfig `yaml:"export"`
	MetricsFile      string       `yaml:"metrics_file,omitempty"`
}

// Default returns the configuration used when no file is present.
func Default() *ProjectConfig {
	return &ProjectConfig{Output: OutputSummary, LogFormat: "text"}
}

// Load reads rootmodel.yaml from dir.
func Load(dir string) (*ProjectConfig, error) {
	return LoadFile(filepath.Join(dir, rootmodel.ConfigFileName))
}

// LoadFile reads a config file. Unset fields take their defaults.
func LoadFile(path string) (*ProjectConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", rootmodel.ErrInvalidConfig, path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// AssemblyMode returns the configured mode. An explicit mode takes
// precedence over the temporal switch.
func (c *ProjectConfig) AssemblyMode() rootmodel.Mode {
	if strings.TrimSpace(c.Mode) != "" {
		if m, err := rootmodel.ParseMode(c.Mode); err == nil {
			return m
		}
	}
	return rootmodel.ModeFromFlag(c.Temporal)
}

// ApplyEnv overrides values from environment variables read through getenv.
func (c *ProjectConfig) ApplyEnv(getenv func(string) string) {
	if v := getenv(EnvPostgresDSN); v != "" {
		c.Export.Postgres = v
	}
	if v := getenv(EnvS3Endpoint); v != "" {
		c.S3.Endpoint = v
	}
	if v := getenv(EnvS3Region); v != "" {
		c.S3.Region = v
	}
}

// Validate checks enumerated fields.
func (c *ProjectConfig) Validate() error {
	switch strings.ToLower(c.Output) {
	case OutputSummary, OutputJSON, OutputYAML:
	default:
		return fmt.Errorf("%w: output must be summary, json or yaml, got %q", rootmodel.ErrInvalidConfig, c.Output)
	}
	if _, err := rootmodel.ParseMode(c.Mode); err != nil {
		return err
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("%w: log_format must be text or json, got %q", rootmodel.ErrInvalidConfig, c.LogFormat)
	}
	return nil
}
