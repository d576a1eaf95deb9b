package evidence

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"handlescope/internal/runner"
	"handlescope/internal/runner/runnertest"
)

func TestFileName(t *testing.T) {
	tests := map[string]string{
		"GitHub":         "GitHub.png",
		"Twitter/X":      "Twitter_X.png",
		"Epic Games":     "Epic_Games.png",
		"Dev.to":         "Dev.to.png",
		"../../etc/pwn":  "_.._etc_pwn.png",
		"":               "profile.png",
		"Plenty of Fish": "Plenty_of_Fish.png",
	}
	for in, want := range tests {
		assert.Equal(t, want, FileName(in), in)
	}
}

// fakeBrowser writes a PNG to the path given in --screenshot
func fakeBrowser(args []string) (*runner.Result, error) {
	for _, a := range args {
		if path, ok := strings.CutPrefix(a, "--screenshot="); ok {
			if err := os.WriteFile(path, []byte("\x89PNG"), 0o644); err != nil {
				return nil, err
			}
		}
	}
	return &runner.Result{}, nil
}

func TestChromeCapturer_Capture(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "screenshots")
	fake := runnertest.NewFake()
	fake.Install("chromium", fakeBrowser)

	c, err := NewChromeCapturer(fake, ChromeConfig{Dir: dir, UserAgent: "UA"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "chromium", c.Browser())

	path, ok := c.Capture(context.Background(), "https://github.com/octocat", "GitHub")
	require.True(t, ok)
	assert.Equal(t, filepath.Join(dir, "GitHub.png"), path)
	assert.FileExists(t, path)

	calls := fake.CallsTo("chromium")
	require.Len(t, calls, 1)
	args := calls[0].Args
	assert.Equal(t, "https://github.com/octocat", args[len(args)-1])
	assert.Contains(t, args, "--user-agent=UA")
	assert.Contains(t, args, "--headless=new")
}

func TestChromeCapturer_FallbackBrowser(t *testing.T) {
	fake := runnertest.NewFake()
	fake.Install("google-chrome", fakeBrowser)

	c, err := NewChromeCapturer(fake, ChromeConfig{Dir: t.TempDir()}, nil)
	require.NoError(t, err)
	assert.Equal(t, "google-chrome", c.Browser())
}

func TestChromeCapturer_NoBrowser(t *testing.T) {
	_, err := NewChromeCapturer(runnertest.NewFake(), ChromeConfig{Dir: t.TempDir()}, nil)
	assert.ErrorIs(t, err, runner.ErrNotFound)
}

func TestChromeCapturer_Failures(t *testing.T) {
	tests := map[string]func([]string) (*runner.Result, error){
		"timeout":   func([]string) (*runner.Result, error) { return nil, runner.ErrTimeout },
		"exit code": func([]string) (*runner.Result, error) { return &runner.Result{ExitCode: 1}, nil },
		"no file":   func([]string) (*runner.Result, error) { return &runner.Result{}, nil },
		"error":     func([]string) (*runner.Result, error) { return nil, errors.New("crash") },
	}
	for name, handler := range tests {
		t.Run(name, func(t *testing.T) {
			fake := runnertest.NewFake()
			fake.Install("chromium", handler)
			c, err := NewChromeCapturer(fake, ChromeConfig{Dir: t.TempDir()}, nil)
			require.NoError(t, err)

			path, ok := c.Capture(context.Background(), "https://example.com/x", "Example")
			assert.False(t, ok)
			assert.Empty(t, path)
		})
	}
}

func TestNop(t *testing.T) {
	path, ok := Nop{}.Capture(context.Background(), "https://example.com", "Example")
	assert.False(t, ok)
	assert.Empty(t, path)
}
