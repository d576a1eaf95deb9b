package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestParsePosture(t *testing.T) {
	tests := []struct {
		input string
		want  Posture
	}{
		{"stealth", PostureStealth},
		{"Cautious", PostureCautious},
		{"balanced", PostureBalanced},
		{" aggressive ", PostureAggressive},
		{"invalid", PostureBalanced}, // Default
		{"", PostureBalanced},        // Default
	}

	for _, tt := range tests {
		if got := ParsePosture(tt.input); got != tt.want {
			t.Errorf("ParsePosture(%q) = %s, want %s", tt.input, got, tt.want)
		}
	}
}

func TestPostureGetProfile(t *testing.T) {
	postures := []Posture{PostureStealth, PostureCautious, PostureBalanced, PostureAggressive}

	for _, p := range postures {
		profile := p.GetProfile()
		if profile.Workers < 5 || profile.Workers > 25 {
			t.Errorf("Posture(%s).GetProfile().Workers = %d, want 5..25", p, profile.Workers)
		}
		if profile.RequestTimeout == 0 {
			t.Errorf("Posture(%s).GetProfile().RequestTimeout should not be 0", p)
		}
	}

	stealth := PostureStealth.GetProfile()
	aggressive := PostureAggressive.GetProfile()

	if stealth.HostSpacing <= aggressive.HostSpacing {
		t.Error("Stealth should space requests wider than aggressive")
	}
	if stealth.Workers >= aggressive.Workers {
		t.Error("Stealth should use fewer workers than aggressive")
	}

	if got := Posture("bogus").GetProfile(); got != PostureBalanced.GetProfile() {
		t.Errorf("unknown posture profile = %v, want balanced", got)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Version != 1 {
		t.Errorf("Version = %d, want 1", cfg.Version)
	}
	if cfg.Posture != PostureBalanced {
		t.Errorf("Posture = %s, want %s", cfg.Posture, PostureBalanced)
	}
	if !cfg.Tools.Enabled || !cfg.Screenshots.Enabled {
		t.Error("Tools and screenshots should be enabled by default")
	}
	if cfg.Output.BaseDir != DefaultBaseDir {
		t.Errorf("Output.BaseDir = %s, want %s", cfg.Output.BaseDir, DefaultBaseDir)
	}
	if got := strings.Join(cfg.Tools.EmailProviders, ","); got != "gmail.com,yahoo.com,outlook.com" {
		t.Errorf("EmailProviders = %s", got)
	}

	scan := cfg.EffectiveScan()
	if scan.Workers != 15 {
		t.Errorf("Workers = %d, want 15", scan.Workers)
	}
	if scan.RequestTimeout != 10*time.Second {
		t.Errorf("RequestTimeout = %s, want 10s", scan.RequestTimeout)
	}
	if scan.HostSpacing != 300*time.Millisecond {
		t.Errorf("HostSpacing = %s, want 300ms", scan.HostSpacing)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error: %v", err)
	}
}

func TestEffectiveScan(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Posture = PostureStealth

	// Without overrides, should match posture profile
	scan := cfg.EffectiveScan()
	expected := PostureStealth.GetProfile()
	if scan.ScanProfile != expected {
		t.Errorf("EffectiveScan() = %v, want %v", scan.ScanProfile, expected)
	}

	// With override
	spacing := 2 * time.Second
	cfg.Scan = &ScanOverride{
		HostSpacing: (*Duration)(&spacing),
		UserAgent:   "handlescope-test",
	}
	cfg.SetWorkers(3)
	scan = cfg.EffectiveScan()

	if scan.HostSpacing != spacing {
		t.Errorf("HostSpacing = %s, want %s (override)", scan.HostSpacing, spacing)
	}
	if scan.Workers != 3 {
		t.Errorf("Workers = %d, want 3 (override)", scan.Workers)
	}
	if scan.UserAgent != "handlescope-test" {
		t.Errorf("UserAgent = %q", scan.UserAgent)
	}
	// Other fields should still be from posture
	if scan.RequestTimeout != expected.RequestTimeout {
		t.Errorf("RequestTimeout = %s, want %s (posture default)", scan.RequestTimeout, expected.RequestTimeout)
	}
	if scan.MaxBodyBytes != DefaultMaxBodyBytes {
		t.Errorf("MaxBodyBytes = %d, want %d", scan.MaxBodyBytes, DefaultMaxBodyBytes)
	}
}

func TestParse_PartialFileKeepsDefaults(t *testing.T) {
	data := []byte(`
posture: aggressive
scan:
  request_timeout: 4s
tools:
  disabled: [Maigret]
  email_providers: [proton.me]
screenshots:
  enabled: false
`)

	cfg, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	if cfg.Posture != PostureAggressive {
		t.Errorf("Posture = %s, want aggressive", cfg.Posture)
	}
	if got := cfg.EffectiveScan().RequestTimeout; got != 4*time.Second {
		t.Errorf("RequestTimeout = %s, want 4s", got)
	}
	if got := cfg.EffectiveScan().Workers; got != 25 {
		t.Errorf("Workers = %d, want 25 (aggressive)", got)
	}
	if !cfg.Tools.Enabled {
		t.Error("Tools.Enabled should keep its default")
	}
	if cfg.Screenshots.Enabled {
		t.Error("Screenshots.Enabled should be false")
	}
	if cfg.Screenshots.Window != DefaultWindow {
		t.Errorf("Window = %q, want default", cfg.Screenshots.Window)
	}
	if len(cfg.Tools.EmailProviders) != 1 || cfg.Tools.EmailProviders[0] != "proton.me" {
		t.Errorf("EmailProviders = %v, want [proton.me]", cfg.Tools.EmailProviders)
	}
	if !cfg.ToolDisabled("maigret") || cfg.ToolDisabled("sherlock") {
		t.Errorf("ToolDisabled mismatch for %v", cfg.Tools.Disabled)
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"posture", "posture: reckless\n"},
		{"workers", "scan:\n  workers: 0\n"},
		{"duration", "tools:\n  timeout: soon\n"},
		{"failure limit", "output:\n  failure_limit: -1\n"},
		{"log format", "logging:\n  format: xml\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.data)); err == nil {
				t.Errorf("Parse(%q) should fail", tt.data)
			}
		})
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		EnvWorkers:   "7",
		EnvLogLevel:  "debug",
		EnvOutputDir: "/tmp/cases",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg := DefaultConfig()
	if err := cfg.ApplyEnv(lookup); err != nil {
		t.Fatalf("ApplyEnv() error: %v", err)
	}
	if got := cfg.EffectiveScan().Workers; got != 7 {
		t.Errorf("Workers = %d, want 7", got)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %s, want debug", cfg.Logging.Level)
	}
	if cfg.Output.BaseDir != "/tmp/cases" {
		t.Errorf("Output.BaseDir = %s", cfg.Output.BaseDir)
	}

	env[EnvWorkers] = "many"
	if err := DefaultConfig().ApplyEnv(lookup); err == nil {
		t.Error("ApplyEnv() should reject a non-numeric worker count")
	}
}

func TestSaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.Posture = PostureCautious
	cfg.PlatformsFile = "platforms.yaml"
	cfg.Tools.Binaries = map[string]string{"blackbird": "/opt/blackbird/blackbird.py"}
	cfg.SetWorkers(12)

	if err := cfg.Save(configPath); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	loaded, path, err := LoadFromPath(configPath)
	if err != nil {
		t.Fatalf("LoadFromPath() error: %v", err)
	}
	if path != configPath {
		t.Errorf("path = %s, want %s", path, configPath)
	}

	if loaded.Posture != PostureCautious {
		t.Errorf("Posture = %s, want %s", loaded.Posture, PostureCautious)
	}
	if loaded.PlatformsFile != "platforms.yaml" {
		t.Errorf("PlatformsFile = %s", loaded.PlatformsFile)
	}
	if loaded.Tools.Binaries["blackbird"] != "/opt/blackbird/blackbird.py" {
		t.Errorf("Tools.Binaries = %v", loaded.Tools.Binaries)
	}
	if loaded.Tools.Timeout.Duration() != DefaultToolTimeout {
		t.Errorf("Tools.Timeout = %s, want %s", loaded.Tools.Timeout.Duration(), DefaultToolTimeout)
	}
	if got := loaded.EffectiveScan().Workers; got != 12 {
		t.Errorf("Workers = %d, want 12", got)
	}
}

func TestLoadFromPath_Missing(t *testing.T) {
	if _, _, err := LoadFromPath(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("LoadFromPath() should fail for a missing file")
	}
}

func TestFindConfigPath(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, ConfigFileName)

	cfg := DefaultConfig()
	if err := cfg.Save(configPath); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	t.Chdir(tmpDir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "xdg"))

	// Should find config in working directory
	if found := FindConfigPath(); found == "" {
		t.Error("FindConfigPath() should find config in working directory")
	}

	// Explicit path doesn't exist, should fall back
	t.Setenv(EnvConfigPath, "/nonexistent/path.yaml")
	if found := FindConfigPath(); found == "" {
		t.Error("FindConfigPath() should fall back when env path doesn't exist")
	}

	// Explicit path wins when it exists
	explicit := filepath.Join(tmpDir, "explicit.yaml")
	if err := os.WriteFile(explicit, []byte("posture: stealth\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvConfigPath, explicit)
	if found := FindConfigPath(); found != explicit {
		t.Errorf("FindConfigPath() = %s, want %s", found, explicit)
	}

	loaded, _, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if loaded.Posture != PostureStealth {
		t.Errorf("Posture = %s, want stealth", loaded.Posture)
	}
}

func TestDuration(t *testing.T) {
	d := Duration(5 * time.Minute)

	if d.Duration() != 5*time.Minute {
		t.Errorf("Duration() = %s, want 5m", d.Duration())
	}

	marshaled, err := d.MarshalYAML()
	if err != nil {
		t.Fatalf("MarshalYAML() error: %v", err)
	}
	if marshaled != "5m0s" {
		t.Errorf("MarshalYAML() = %v, want 5m0s", marshaled)
	}
}

func TestSummary(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Tools.Disabled = []string{"holehe"}

	summary := cfg.Summary()
	for _, want := range []string{"Posture: balanced", "workers=15", "Disabled tools: holehe"} {
		if !strings.Contains(summary, want) {
			t.Errorf("Summary() = %q, missing %q", summary, want)
		}
	}
}
