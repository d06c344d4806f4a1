// Package config loads cursor-chat-browser settings from an optional YAML or
// TOML file and the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// DefaultFileName is looked up in the home directory when no --config is given
const DefaultFileName = ".cursor-chat-browser.yaml"

// Defaults
const (
	DefaultAddr         = "127.0.0.1:3000"
	DefaultExportFormat = "md"
	DefaultOutputDir    = "."
	DefaultQueryTimeout = 10 * time.Second
)

// Environment variables that override file values
const (
	EnvWorkspacePath = "WORKSPACE_PATH"
	EnvGlobalStorage = "CURSOR_GLOBAL_STORAGE"
	EnvAddr          = "CURSOR_CHAT_ADDR"
)

var exportFormats = map[string]bool{
	"md": true, "markdown": true, "html": true, "pdf": true,
	"json": true, "yaml": true, "jsonl": true,
}

// Config holds the settings shared by the CLI and the HTTP server
type Config struct {
	WorkspacePath     string       `yaml:"workspace_path" toml:"workspace_path"`
	GlobalStoragePath string       `yaml:"global_storage_path" toml:"global_storage_path"`
	QueryTimeout      Duration     `yaml:"query_timeout" toml:"query_timeout"`
	Timezone          string       `yaml:"timezone" toml:"timezone"`
	Verbose           bool         `yaml:"verbose" toml:"verbose"`
	Server            ServerConfig `yaml:"server" toml:"server"`
	Export            ExportConfig `yaml:"export" toml:"export"`
}

// ServerConfig configures the HTTP surface
type ServerConfig struct {
	Addr string `yaml:"addr" toml:"addr"`
}

// ExportConfig holds export defaults for the CLI
type ExportConfig struct {
	Format    string `yaml:"format" toml:"format"`
	OutputDir string `yaml:"output_dir" toml:"output_dir"`
}

// Duration is a time.Duration written as a string such as "10s"
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", text, err)
	}
	d.Duration = parsed
	return nil
}

// MarshalText implements encoding.TextMarshaler
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns a Config with every default applied
func Default() *Config {
	return &Config{
		QueryTimeout: Duration{DefaultQueryTimeout},
		Server:       ServerConfig{Addr: DefaultAddr},
		Export: ExportConfig{
			Format:    DefaultExportFormat,
			OutputDir: DefaultOutputDir,
		},
	}
}

// DefaultPath returns ~/.cursor-chat-browser.yaml
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, DefaultFileName), nil
}

// Load reads the config file at path, applies defaults and environment
// overrides, and validates the result. An empty path loads the default file
// if it exists; an explicit path must exist.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		defaultPath, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = defaultPath
	}

	cfg := Default()
	if err := LoadFile(cfg, path); err != nil {
		if !explicit && os.IsNotExist(err) {
			cfg.ApplyEnvOverrides()
			return cfg, cfg.Validate()
		}
		return nil, err
	}

	cfg.SetDefaults()
	cfg.ApplyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile decodes path into cfg, choosing the format by file extension
func LoadFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return fmt.Errorf("failed to parse TOML config %s: %w", path, err)
		}
	case ".yaml", ".yml", "":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("failed to parse YAML config %s: %w", path, err)
		}
	default:
		return fmt.Errorf("unsupported config format %q (use .yaml, .yml or .toml)", filepath.Ext(path))
	}
	return nil
}

// SetDefaults fills fields left empty by the config file
func (c *Config) SetDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultAddr
	}
	if c.Export.Format == "" {
		c.Export.Format = DefaultExportFormat
	}
	if c.Export.OutputDir == "" {
		c.Export.OutputDir = DefaultOutputDir
	}
}

// ApplyEnvOverrides overrides config values with environment variables
func (c *Config) ApplyEnvOverrides() {
	if val := os.Getenv(EnvWorkspacePath); val != "" {
		c.WorkspacePath = val
	}
	if val := os.Getenv(EnvGlobalStorage); val != "" {
		c.GlobalStoragePath = val
	}
	if val := os.Getenv(EnvAddr); val != "" {
		c.Server.Addr = val
	}
}

// Validate checks the values that cannot be corrected silently
func (c *Config) Validate() error {
	if c.QueryTimeout.Duration < 0 {
		return fmt.Errorf("query_timeout must not be negative, got %s", c.QueryTimeout.Duration)
	}
	if !exportFormats[strings.ToLower(c.Export.Format)] {
		return fmt.Errorf("export.format %q is not supported", c.Export.Format)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location returns the time zone used when rendering dates. An empty
// timezone means the local zone.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}
