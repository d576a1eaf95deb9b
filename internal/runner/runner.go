// Package runner executes external discovery programs with a bounded wall
// clock. It is shared by the tool adapters and the screenshot capturer.
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"
)

var (
	// ErrNotFound is returned when the executable is not in PATH
	ErrNotFound = errors.New("executable not found")
	// ErrTimeout is returned when the program outlives its timeout
	ErrTimeout = errors.New("execution timed out")
)

// Result holds everything a program wrote before it exited
type Result struct {
	Path     string
	Stdout   []byte
	Stderr   []byte
	ExitCode int
	Duration time.Duration
}

// Output returns stdout followed by stderr. Several tools print their
// findings on stderr, so parsers look at both.
func (r *Result) Output() []byte {
	if len(r.Stderr) == 0 {
		return r.Stdout
	}
	out := make([]byte, 0, len(r.Stdout)+len(r.Stderr)+1)
	out = append(out, r.Stdout...)
	out = append(out, '\n')
	out = append(out, r.Stderr...)
	return out
}

// Runner locates and runs external programs
type Runner interface {
	// LookPath resolves name to an executable path or returns ErrNotFound
	LookPath(name string) (string, error)
	// Run executes name with args, killing it after timeout
	Run(ctx context.Context, timeout time.Duration, name string, args ...string) (*Result, error)
}

// Exec is the os/exec backed Runner
type Exec struct {
	// Dir is the working directory for launched programs (empty = inherit)
	Dir string
}

// NewExec creates a Runner that launches real processes
func NewExec() *Exec {
	return &Exec{}
}

// LookPath resolves name in PATH
func (e *Exec) LookPath(name string) (string, error) {
	path, err := exec.LookPath(name)
	if err != nil {
		return "", fmt.Errorf("%s: %w", name, ErrNotFound)
	}
	return path, nil
}

// Run executes the program and captures its output. A non-zero exit status
// is not an error: tools exit non-zero for "nothing found" and still print
// usable output. Only a missing binary, a launch failure or a timeout fail.
func (e *Exec) Run(ctx context.Context, timeout time.Duration, name string, args ...string) (*Result, error) {
	path, err := e.LookPath(name)
	if err != nil {
		return nil, err
	}

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Dir = e.Dir
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = 2 * time.Second

	start := time.Now()
	runErr := cmd.Run()
	result := &Result{
		Path:     path,
		Stdout:   stdout.Bytes(),
		Stderr:   stderr.Bytes(),
		Duration: time.Since(start),
	}
	if cmd.ProcessState != nil {
		result.ExitCode = cmd.ProcessState.ExitCode()
	}

	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return result, fmt.Errorf("%s after %s: %w", name, timeout, ErrTimeout)
	}
	if ctx.Err() != nil {
		return result, fmt.Errorf("%s: %w", name, ctx.Err())
	}

	var exitErr *exec.ExitError
	if runErr != nil && !errors.As(runErr, &exitErr) {
		return result, fmt.Errorf("run %s: %w", name, runErr)
	}
	return result, nil
}

// Detect returns the subset of names that resolve in PATH, keyed by name
func Detect(r Runner, names ...string) map[string]string {
	found := make(map[string]string, len(names))
	for _, name := range names {
		if path, err := r.LookPath(name); err == nil {
			found[name] = path
		}
	}
	return found
}
