// Package config provides configuration management for handlescope.
//
// Config file locations (priority order):
//  1. --config flag
//  2. $HANDLESCOPE_CONFIG
//  3. ./handlescope.yaml
//  4. $XDG_CONFIG_HOME/handlescope/config.yaml
//  5. ~/.config/handlescope/config.yaml
//  6. /etc/handlescope/config.yaml
//
// Environment overrides are applied on top of the file, and command line
// flags on top of both.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment variables that override file settings
const (
	EnvWorkers   = "HANDLESCOPE_WORKERS"
	EnvLogLevel  = "HANDLESCOPE_LOG_LEVEL"
	EnvOutputDir = "HANDLESCOPE_OUTPUT_DIR"
)

// Defaults not covered by a posture profile
const (
	DefaultBaseDir      = "investigations"
	DefaultFailureLimit = 50
	DefaultToolTimeout  = 5 * time.Minute
	DefaultEmailTimeout = 60 * time.Second
	DefaultSiteTimeout  = 10 * time.Second
	DefaultShotTimeout  = 30 * time.Second
	DefaultWindow       = "1920,1080"
	DefaultMaxBodyBytes = int64(2 << 20)
	DefaultLogLevel     = "info"
	DefaultLogFormat    = "console"
	maxWorkers          = 200
)

// Load finds and loads the config file, or returns defaults if none found
func Load() (*Config, string, error) {
	path := FindConfigPath()
	if path == "" {
		return DefaultConfig(), "", nil
	}
	return LoadFromPath(path)
}

// LoadExplicit loads path when it is set and falls back to Load otherwise
func LoadExplicit(path string) (*Config, string, error) {
	if path == "" {
		return Load()
	}
	return LoadFromPath(path)
}

// LoadFromPath loads config from a specific path. Keys missing from the
// file keep their default values.
func LoadFromPath(path string) (*Config, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, fmt.Errorf("read config: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, path, err
	}
	return cfg, path, nil
}

// Parse decodes YAML config data over the defaults
func Parse(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes config to the specified path
func (c *Config) Save(path string) error {
	if err := EnsureConfigDir(path); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0o644)
}

// DefaultConfig returns sensible defaults for a new installation
func DefaultConfig() *Config {
	return &Config{
		Version: 1,
		Posture: PostureBalanced,
		Tools: ToolsConfig{
			Enabled:        true,
			Timeout:        Duration(DefaultToolTimeout),
			EmailTimeout:   Duration(DefaultEmailTimeout),
			SiteTimeout:    Duration(DefaultSiteTimeout),
			EmailProviders: []string{"gmail.com", "yahoo.com", "outlook.com"},
		},
		Screenshots: ScreenshotConfig{
			Enabled: true,
			Timeout: Duration(DefaultShotTimeout),
			Window:  DefaultWindow,
		},
		Output: OutputConfig{
			BaseDir:      DefaultBaseDir,
			FailureLimit: DefaultFailureLimit,
			EvidenceDB:   true,
			Metrics:      true,
		},
		Logging: LoggingConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}

// applyDefaults fills in values a file zeroed out explicitly
func (c *Config) applyDefaults() {
	if c.Version == 0 {
		c.Version = 1
	}
	if c.Posture == "" {
		c.Posture = PostureBalanced
	}
	c.Posture = Posture(strings.ToLower(string(c.Posture)))
	if c.Tools.Timeout <= 0 {
		c.Tools.Timeout = Duration(DefaultToolTimeout)
	}
	if c.Tools.EmailTimeout <= 0 {
		c.Tools.EmailTimeout = Duration(DefaultEmailTimeout)
	}
	if c.Tools.SiteTimeout <= 0 {
		c.Tools.SiteTimeout = Duration(DefaultSiteTimeout)
	}
	if c.Screenshots.Timeout <= 0 {
		c.Screenshots.Timeout = Duration(DefaultShotTimeout)
	}
	if c.Screenshots.Window == "" {
		c.Screenshots.Window = DefaultWindow
	}
	if c.Output.BaseDir == "" {
		c.Output.BaseDir = DefaultBaseDir
	}
	if c.Logging.Level == "" {
		c.Logging.Level = DefaultLogLevel
	}
	if c.Logging.Format == "" {
		c.Logging.Format = DefaultLogFormat
	}
}

// Validate rejects settings no run could use
func (c *Config) Validate() error {
	if !c.Posture.Valid() {
		return fmt.Errorf("unknown posture %q (want stealth, cautious, balanced or aggressive)", c.Posture)
	}
	if c.Scan != nil && c.Scan.Workers != nil {
		if w := *c.Scan.Workers; w < 1 || w > maxWorkers {
			return fmt.Errorf("scan.workers must be between 1 and %d, got %d", maxWorkers, w)
		}
	}
	if c.Scan != nil && c.Scan.MaxBodyBytes != nil && *c.Scan.MaxBodyBytes <= 0 {
		return fmt.Errorf("scan.max_body_bytes must be positive")
	}
	if c.Output.FailureLimit < 0 {
		return fmt.Errorf("output.failure_limit must not be negative")
	}
	switch strings.ToLower(c.Logging.Format) {
	case "console", "json":
	default:
		return fmt.Errorf("unknown logging.format %q (want console or json)", c.Logging.Format)
	}
	return nil
}

// ApplyEnv overlays the HANDLESCOPE_* environment variables read through
// lookup (os.LookupEnv in production)
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvWorkers); ok && v != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%s: %w", EnvWorkers, err)
		}
		c.SetWorkers(n)
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.Logging.Level = v
	}
	if v, ok := lookup(EnvOutputDir); ok && v != "" {
		c.Output.BaseDir = v
	}
	return c.Validate()
}

// SetWorkers overrides the posture's worker count
func (c *Config) SetWorkers(n int) {
	if c.Scan == nil {
		c.Scan = &ScanOverride{}
	}
	c.Scan.Workers = &n
}

// ScanSettings is the resolved sweep configuration
type ScanSettings struct {
	ScanProfile
	UserAgent    string
	MaxBodyBytes int64
}

// EffectiveScan returns the posture profile with overrides applied
func (c *Config) EffectiveScan() ScanSettings {
	s := ScanSettings{
		ScanProfile:  c.Posture.GetProfile(),
		MaxBodyBytes: DefaultMaxBodyBytes,
	}
	if c.Scan == nil {
		return s
	}

	if c.Scan.Workers != nil {
		s.Workers = *c.Scan.Workers
	}
	if c.Scan.RequestTimeout != nil {
		s.RequestTimeout = c.Scan.RequestTimeout.Duration()
	}
	if c.Scan.HostSpacing != nil {
		s.HostSpacing = c.Scan.HostSpacing.Duration()
	}
	if c.Scan.MaxBodyBytes != nil {
		s.MaxBodyBytes = *c.Scan.MaxBodyBytes
	}
	s.UserAgent = c.Scan.UserAgent

	return s
}

// ToolDisabled reports whether name is listed in tools.disabled
func (c *Config) ToolDisabled(name string) bool {
	for _, d := range c.Tools.Disabled {
		if strings.EqualFold(d, name) {
			return true
		}
	}
	return false
}

// Summary returns a human-readable config summary
func (c *Config) Summary() string {
	scan := c.EffectiveScan()

	summary := fmt.Sprintf("Posture: %s (%s)\n", c.Posture, scan.ScanProfile)
	summary += fmt.Sprintf("Tools: %t, Screenshots: %t, Output: %s\n",
		c.Tools.Enabled, c.Screenshots.Enabled, c.Output.BaseDir)
	if len(c.Tools.Disabled) > 0 {
		summary += fmt.Sprintf("Disabled tools: %s\n", strings.Join(c.Tools.Disabled, ", "))
	}
	if c.PlatformsFile != "" {
		summary += fmt.Sprintf("Platforms file: %s\n", c.PlatformsFile)
	}
	return strings.TrimSuffix(summary, "\n")
}
