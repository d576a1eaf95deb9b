package config

import (
	"time"
)

// Config is the root configuration structure
type Config struct {
	Version       int              `yaml:"version"`
	Posture       Posture          `yaml:"posture"`
	Scan          *ScanOverride    `yaml:"scan,omitempty"`
	Tools         ToolsConfig      `yaml:"tools"`
	Screenshots   ScreenshotConfig `yaml:"screenshots"`
	Output        OutputConfig     `yaml:"output"`
	Logging       LoggingConfig    `yaml:"logging"`
	PlatformsFile string           `yaml:"platforms_file,omitempty"`
}

// ScanOverride allows overriding posture defaults
type ScanOverride struct {
	Workers        *int      `yaml:"workers,omitempty"`
	RequestTimeout *Duration `yaml:"request_timeout,omitempty"`
	HostSpacing    *Duration `yaml:"host_spacing,omitempty"`
	UserAgent      string    `yaml:"user_agent,omitempty"`
	MaxBodyBytes   *int64    `yaml:"max_body_bytes,omitempty"`
}

// ToolsConfig holds the external discovery tool settings
type ToolsConfig struct {
	Enabled        bool              `yaml:"enabled"`
	Timeout        Duration          `yaml:"timeout"`
	EmailTimeout   Duration          `yaml:"email_timeout"`
	SiteTimeout    Duration          `yaml:"site_timeout"`
	EmailProviders []string          `yaml:"email_providers,omitempty"`
	Disabled       []string          `yaml:"disabled,omitempty"`
	Binaries       map[string]string `yaml:"binaries,omitempty"` // tool name -> executable path
}

// ScreenshotConfig holds the evidence capture settings
type ScreenshotConfig struct {
	Enabled bool     `yaml:"enabled"`
	Browser string   `yaml:"browser,omitempty"` // empty = first of the known browsers in PATH
	Timeout Duration `yaml:"timeout"`
	Window  string   `yaml:"window"`
}

// OutputConfig controls where and what a run writes
type OutputConfig struct {
	BaseDir      string `yaml:"base_dir"`
	FailureLimit int    `yaml:"failure_limit"`
	EvidenceDB   bool   `yaml:"evidence_db"`
	Metrics      bool   `yaml:"metrics"`
}

// LoggingConfig holds logger settings
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Duration wraps time.Duration for YAML unmarshaling
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler
func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Duration returns the underlying time.Duration
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}
