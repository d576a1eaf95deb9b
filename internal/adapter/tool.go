package adapter

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"go.uber.org/zap"

	"handlescope/internal/domain"
	"handlescope/internal/runner"
)

// tool holds what every executable-backed adapter shares
type tool struct {
	name string
	opts options
}

func newTool(name string, opts []Option) tool {
	return tool{name: name, opts: applyOptions(opts)}
}

// Name implements Adapter
func (t tool) Name() string {
	return t.name
}

// Available implements Adapter
func (t tool) Available() bool {
	_, err := t.opts.runner.LookPath(t.binary())
	return err == nil
}

// Path returns the resolved executable, empty when it is not installed
func (t tool) Path() string {
	path, err := t.opts.runner.LookPath(t.binary())
	if err != nil {
		return ""
	}
	return path
}

// binary is the executable launched for this tool
func (t tool) binary() string {
	if path, ok := t.opts.binaries[t.name]; ok {
		return path
	}
	return t.name
}

func (t tool) source() domain.Source {
	return domain.ToolSource(t.name)
}

// workDir returns the directory raw output goes to. Without a configured
// output directory a temporary one is used and removed by cleanup.
func (t tool) workDir() (dir string, cleanup func(), err error) {
	if t.opts.outputDir != "" {
		if err := os.MkdirAll(t.opts.outputDir, 0o755); err != nil {
			return "", nil, fmt.Errorf("create output dir: %w", err)
		}
		return t.opts.outputDir, func() {}, nil
	}
	dir, err = os.MkdirTemp("", "handlescope-"+t.name+"-")
	if err != nil {
		return "", nil, fmt.Errorf("create temp dir: %w", err)
	}
	return dir, func() { _ = os.RemoveAll(dir) }, nil
}

func (t tool) run(ctx context.Context, timeout time.Duration, args ...string) (*runner.Result, error) {
	t.opts.log.Info("Running tool",
		zap.String("tool", t.name),
		zap.Strings("args", args),
		zap.Duration("timeout", timeout),
	)
	res, err := t.opts.runner.Run(ctx, timeout, t.binary(), args...)
	if err != nil {
		return res, fmt.Errorf("%s: %w", t.name, err)
	}
	t.opts.log.Debug("Tool finished",
		zap.String("tool", t.name),
		zap.Int("exit_code", res.ExitCode),
		zap.Duration("duration", res.Duration),
	)
	return res, nil
}

// readOutput returns the file the tool wrote, falling back to what it
// printed when the file is missing
func readOutput(path string, res *runner.Result) (string, error) {
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		return string(data), nil
	case os.IsNotExist(err):
		return string(res.Output()), nil
	default:
		return "", fmt.Errorf("read %s: %v: %w", filepath.Base(path), err, ErrParse)
	}
}

// checkParsed flags a run that failed without producing anything usable
func (t tool) checkParsed(res *runner.Result, records []*domain.IdentityRecord) error {
	if len(records) == 0 && res.ExitCode != 0 {
		return fmt.Errorf("%s exited %d without results: %w", t.name, res.ExitCode, ErrParse)
	}
	return nil
}

func seconds(d time.Duration) string {
	return strconv.Itoa(int(d.Round(time.Second) / time.Second))
}
