// Package config loads the olistflow CLI configuration.
//
// It layers the shared pipeline settings from internal/config with
// CLI-only fields (state path, output mode, logging, dashboard).
package config

import (
	intconfig "github.com/leapstack-labs/olistflow/internal/config"
	"github.com/leapstack-labs/olistflow/pkg/core"
)

// TargetConfig is an alias for the shared target configuration.
type TargetConfig = core.TargetConfig

// UIConfig holds configuration for the dashboard server.
type UIConfig struct {
	Host     string `koanf:"host" yaml:"host"`
	Port     int    `koanf:"port" yaml:"port"`
	AutoOpen bool   `koanf:"auto_open" yaml:"auto_open"`
	Watch    bool   `koanf:"watch" yaml:"watch"`
	// SessionSecret signs dashboard cookies. Empty means a random secret
	// per process.
	SessionSecret string `koanf:"session_secret" yaml:"session_secret,omitempty"`
}

// DefaultUIConfig returns a UIConfig with default values.
func DefaultUIConfig() *UIConfig {
	return &UIConfig{
		Host:     DefaultUIHost,
		Port:     DefaultUIPort,
		AutoOpen: true,
		Watch:    true,
	}
}

// GetUIConfig returns the UI config with defaults applied for any unset values.
func (c *Config) GetUIConfig() *UIConfig {
	if c.UI == nil {
		return DefaultUIConfig()
	}
	ui := c.UI
	if ui.Port == 0 {
		ui.Port = DefaultUIPort
	}
	if ui.Host == "" {
		ui.Host = DefaultUIHost
	}
	return ui
}

// Config holds all CLI configuration options.
type Config struct {
	DatasetDir   string                    `koanf:"dataset_dir" yaml:"dataset_dir"`
	ExportDir    string                    `koanf:"export_dir" yaml:"export_dir"`
	StatePath    string                    `koanf:"state_path" yaml:"state_path"`
	Environment  string                    `koanf:"environment" yaml:"environment"`
	Verbose      bool                      `koanf:"verbose" yaml:"-"`
	OutputFormat string                    `koanf:"output" yaml:"-"`
	LogFormat    string                    `koanf:"log_format" yaml:"-"`
	Sources      []intconfig.Source        `koanf:"sources" yaml:"sources,omitempty"`
	Holidays     *intconfig.HolidaysConfig `koanf:"holidays" yaml:"holidays"`
	Target       *TargetConfig             `koanf:"target" yaml:"target"`
	UI           *UIConfig                 `koanf:"ui" yaml:"ui"`

	// ProjectRoot is the directory relative paths were resolved against.
	ProjectRoot string `koanf:"-" yaml:"-"`
}

// Pipeline returns the settings the pipeline engine needs.
func (c *Config) Pipeline() *intconfig.PipelineConfig {
	p := &intconfig.PipelineConfig{
		DatasetDir: c.DatasetDir,
		ExportDir:  c.ExportDir,
		Sources:    c.Sources,
		Holidays:   c.Holidays,
		Target:     c.Target,
	}
	intconfig.ApplyDefaults(p)
	return p
}

// Default configuration values.
const (
	DefaultDatasetDir = intconfig.DefaultDatasetDir
	DefaultExportDir  = intconfig.DefaultExportDir
	DefaultStateFile  = ".olistflow/state.db"
	DefaultEnv        = "default"
	DefaultOutput     = "auto" // Auto-detect: TTY=text, non-TTY=markdown
	DefaultLogFormat  = "text"
	DefaultUIHost     = "127.0.0.1"
	DefaultUIPort     = 8765
)

// Default returns the configuration used when no file, env or flag sets
// anything.
func Default() *Config {
	cfg := &Config{
		DatasetDir:   DefaultDatasetDir,
		ExportDir:    DefaultExportDir,
		StatePath:    DefaultStateFile,
		Environment:  DefaultEnv,
		OutputFormat: DefaultOutput,
		LogFormat:    DefaultLogFormat,
		Holidays:     &intconfig.HolidaysConfig{},
		Target:       &TargetConfig{},
		UI:           DefaultUIConfig(),
	}
	intconfig.ApplyHolidaysDefaults(cfg.Holidays)
	intconfig.ApplyTargetDefaults(cfg.Target)
	return cfg
}
