// Package evidence captures screenshots of confirmed profile pages.
package evidence

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"handlescope/internal/runner"
)

// Capturer renders a page to an image file. ok is false when no image was
// produced; capture problems never abort a run.
type Capturer interface {
	Capture(ctx context.Context, url, label string) (path string, ok bool)
}

// Nop never captures anything
type Nop struct{}

// Capture implements Capturer
func (Nop) Capture(context.Context, string, string) (string, bool) {
	return "", false
}

// Browsers are tried in order when no browser is configured
var Browsers = []string{"chromium", "chromium-browser", "google-chrome", "google-chrome-stable"}

// ChromeConfig holds headless browser settings
type ChromeConfig struct {
	Browser   string
	Dir       string
	Timeout   time.Duration
	Window    string
	UserAgent string
}

// ChromeCapturer drives a headless Chromium through the process runner
type ChromeCapturer struct {
	runner  runner.Runner
	cfg     ChromeConfig
	browser string
	log     *zap.Logger
}

// NewChromeCapturer finds a browser and prepares cfg.Dir. It returns an
// error wrapping runner.ErrNotFound when no browser is installed.
func NewChromeCapturer(r runner.Runner, cfg ChromeConfig, log *zap.Logger) (*ChromeCapturer, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.Window == "" {
		cfg.Window = "1920,1080"
	}

	candidates := Browsers
	if cfg.Browser != "" {
		candidates = []string{cfg.Browser}
	}
	browser := ""
	for _, name := range candidates {
		if _, err := r.LookPath(name); err == nil {
			browser = name
			break
		}
	}
	if browser == "" {
		return nil, fmt.Errorf("headless browser: %w", runner.ErrNotFound)
	}

	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create screenshot dir: %w", err)
	}

	return &ChromeCapturer{runner: r, cfg: cfg, browser: browser, log: log}, nil
}

// Browser returns the executable in use
func (c *ChromeCapturer) Browser() string {
	return c.browser
}

// Capture implements Capturer
func (c *ChromeCapturer) Capture(ctx context.Context, url, label string) (string, bool) {
	path := filepath.Join(c.cfg.Dir, FileName(label))

	args := []string{
		"--headless=new",
		"--no-sandbox",
		"--disable-dev-shm-usage",
		"--disable-gpu",
		"--hide-scrollbars",
		"--disable-blink-features=AutomationControlled",
		"--window-size=" + c.cfg.Window,
		"--screenshot=" + path,
	}
	if c.cfg.UserAgent != "" {
		args = append(args, "--user-agent="+c.cfg.UserAgent)
	}
	args = append(args, url)

	res, err := c.runner.Run(ctx, c.cfg.Timeout, c.browser, args...)
	if err != nil {
		c.log.Warn("Screenshot failed",
			zap.String("platform", label),
			zap.String("url", url),
			zap.Error(err),
		)
		return "", false
	}
	if res.ExitCode != 0 {
		c.log.Warn("Screenshot browser exited non-zero",
			zap.String("platform", label),
			zap.Int("exit_code", res.ExitCode),
		)
		return "", false
	}
	if info, err := os.Stat(path); err != nil || info.Size() == 0 {
		c.log.Warn("Screenshot not written", zap.String("platform", label), zap.String("path", path))
		return "", false
	}
	return path, true
}

// FileName turns a platform label into a safe PNG file name
func FileName(label string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(label) {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	name := strings.Trim(b.String(), ".")
	if name == "" {
		name = "profile"
	}
	return name + ".png"
}
