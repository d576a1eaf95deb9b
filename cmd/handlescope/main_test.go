package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"handlescope/internal/config"
	"handlescope/internal/loader"
	"handlescope/internal/registry"
	"handlescope/internal/report"
)

// isolate keeps the test away from any config on the machine
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "xdg"))
	for _, env := range []string{config.EnvConfigPath, config.EnvWorkers, config.EnvLogLevel, config.EnvOutputDir} {
		t.Setenv(env, "")
	}
	return dir
}

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRun_UsageErrors(t *testing.T) {
	isolate(t)

	tests := []struct {
		name string
		args []string
	}{
		{"no username", nil},
		{"blank username", []string{"  "}},
		{"two usernames", []string{"alice", "bob"}},
		{"unknown flag", []string{"--bogus", "alice"}},
		{"bad posture", []string{"--posture", "reckless", "alice"}},
		{"bad workers", []string{"--workers", "0", "alice"}},
		{"missing config", []string{"--config", "/nonexistent/handlescope.yaml", "alice"}},
		{"missing platforms file", []string{"platforms", "--platforms-file", "/nonexistent/p.yaml"}},
		{"platforms with args", []string{"platforms", "extra"}},
		{"verify without dir", []string{"verify"}},
		{"verify missing dir", []string{"verify", "/nonexistent/octocat_20260101_000000"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, stderr := runCLI(t, tt.args...)
			assert.Equal(t, exitUsage, code, stderr)
			assert.Contains(t, stderr, "Error:")
		})
	}
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, exitOK, exitCode(nil))
	assert.Equal(t, exitUsage, exitCode(fmt.Errorf("wrapped: %w", usagef("bad"))))
	assert.Equal(t, exitFailed, exitCode(fmt.Errorf("report.json: %w", report.ErrWrite)))
}

func TestPlatformsCmd(t *testing.T) {
	isolate(t)

	code, out, _ := runCLI(t, "platforms")
	require.Equal(t, exitOK, code)
	assert.Contains(t, out, "GitHub")
	assert.Contains(t, out, "json_api")
	assert.Contains(t, out, fmt.Sprintf("%d platforms", registry.Default().Len()))
}

func TestPlatformsCmd_ExportRoundTrips(t *testing.T) {
	isolate(t)

	code, out, _ := runCLI(t, "platforms", "--export")
	require.Equal(t, exitOK, code)

	overlay, err := loader.ParseYAML([]byte(out))
	require.NoError(t, err)
	assert.Len(t, overlay.Platforms, registry.Default().Len())
}

func TestToolsCmd(t *testing.T) {
	isolate(t)

	code, out, _ := runCLI(t, "tools")
	require.Equal(t, exitOK, code)
	for _, name := range []string{"sherlock", "maigret", "blackbird", "holehe", "chromium"} {
		assert.Contains(t, out, name)
	}
}

// writeOverlay disables every built-in platform and adds one served by srv
func writeOverlay(t *testing.T, dir, serverURL string) string {
	t.Helper()
	y := loader.PlatformsYAML{
		Version: "1",
		Platforms: []*loader.PlatformYAML{
			{Label: "Localhub", URL: serverURL + "/{username}"},
			{Label: "Nowhere", URL: serverURL + "/missing/{username}"},
		},
	}
	for _, p := range registry.Default().Platforms() {
		y.Disabled = append(y.Disabled, p.Label)
	}
	data, err := yaml.Marshal(y)
	require.NoError(t, err)

	path := filepath.Join(dir, "platforms.yaml")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestRun_EndToEnd(t *testing.T) {
	dir := isolate(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/octocat" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprintf(w, "<html><head><title>octocat on Localhub</title></head><body><h1>octocat</h1><p>%s</p></body></html>",
			strings.Repeat("Repositories, stars and followers. ", 20))
	}))
	defer srv.Close()

	overlay := writeOverlay(t, dir, srv.URL)
	out := filepath.Join(dir, "cases")

	code, stdout, stderr := runCLI(t,
		"--platforms-file", overlay,
		"--output", out,
		"--no-osint-tools",
		"--no-screenshots",
		"--workers", "2",
		"octocat",
	)
	require.Equal(t, exitOK, code, stderr)
	assert.Contains(t, stdout, "[+] Localhub")
	assert.Contains(t, stdout, "Investigation complete")

	runs, err := filepath.Glob(filepath.Join(out, "octocat_*"))
	require.NoError(t, err)
	require.Len(t, runs, 1)

	data, err := os.ReadFile(filepath.Join(runs[0], report.JSONReportFile))
	require.NoError(t, err)
	var doc struct {
		Username       string `json:"username"`
		TotalPlatforms int    `json:"total_platforms"`
		Records        []struct {
			Platform string `json:"platform"`
			URL      string `json:"url"`
			Title    string `json:"title"`
		} `json:"records"`
	}
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "octocat", doc.Username)
	assert.Equal(t, 2, doc.TotalPlatforms)
	require.Len(t, doc.Records, 1)
	assert.Equal(t, "Localhub", doc.Records[0].Platform)
	assert.Equal(t, srv.URL+"/octocat", doc.Records[0].URL)
	assert.Equal(t, "octocat on Localhub", doc.Records[0].Title)

	urls, err := os.ReadFile(filepath.Join(runs[0], report.URLListFile))
	require.NoError(t, err)
	assert.Equal(t, srv.URL+"/octocat\n", string(urls))

	for _, name := range []string{report.FullReportFile, report.YAMLReportFile, report.EvidenceDBFile, report.MetricsFile, report.ManifestFile} {
		assert.FileExists(t, filepath.Join(runs[0], name))
	}
	bad, err := report.VerifyManifest(runs[0])
	require.NoError(t, err)
	assert.Empty(t, bad)

	code, stdout, stderr = runCLI(t, "verify", runs[0])
	require.Equal(t, exitOK, code, stderr)
	assert.Contains(t, stdout, "octocat: run ")
	assert.Contains(t, stdout, "1 records")
	assert.Contains(t, stdout, "verified")

	require.NoError(t, os.WriteFile(filepath.Join(runs[0], report.URLListFile), []byte("https://elsewhere.example/octocat\n"), 0o644))
	code, stdout, _ = runCLI(t, "verify", runs[0])
	assert.Equal(t, exitFailed, code)
	assert.Contains(t, stdout, "[!] "+report.URLListFile)
	assert.NotContains(t, stdout, "verified")
}

func TestRun_ReportWriteFailureExitsOne(t *testing.T) {
	dir := isolate(t)

	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()
	overlay := writeOverlay(t, dir, srv.URL)

	// the output base is a file, so the run directory cannot be created
	base := filepath.Join(dir, "occupied")
	require.NoError(t, os.WriteFile(base, []byte("x"), 0o644))

	code, _, stderr := runCLI(t, "--platforms-file", overlay, "--output", base, "--no-osint-tools", "--no-screenshots", "octocat")
	assert.Equal(t, exitFailed, code)
	assert.Contains(t, stderr, "report write failed")
}
