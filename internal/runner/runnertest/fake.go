// Package runnertest provides an in-memory runner.Runner for tests.
package runnertest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"handlescope/internal/runner"
)

// Call is one invocation recorded by Fake
type Call struct {
	Name    string
	Args    []string
	Timeout time.Duration
}

// Fake is an in-memory runner.Runner for tests. Installed programs are registered
// with a handler that produces their result.
type Fake struct {
	mu       sync.Mutex
	programs map[string]func(args []string) (*runner.Result, error)
	calls    []Call
}

// NewFake creates an empty fake runner
func NewFake() *Fake {
	return &Fake{programs: make(map[string]func(args []string) (*runner.Result, error))}
}

// Install registers a program handler
func (f *Fake) Install(name string, handler func(args []string) (*runner.Result, error)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.programs[name] = handler
}

// InstallOutput registers a program that always prints stdout
func (f *Fake) InstallOutput(name, stdout string) {
	f.Install(name, func([]string) (*runner.Result, error) {
		return &runner.Result{Path: "/usr/bin/" + name, Stdout: []byte(stdout)}, nil
	})
}

// LookPath implements runner.Runner
func (f *Fake) LookPath(name string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.programs[name]; !ok {
		return "", fmt.Errorf("%s: %w", name, runner.ErrNotFound)
	}
	return "/usr/bin/" + name, nil
}

// Run implements runner.Runner
func (f *Fake) Run(ctx context.Context, timeout time.Duration, name string, args ...string) (*runner.Result, error) {
	f.mu.Lock()
	handler, ok := f.programs[name]
	f.calls = append(f.calls, Call{Name: name, Args: append([]string(nil), args...), Timeout: timeout})
	f.mu.Unlock()

	if !ok {
		return nil, fmt.Errorf("%s: %w", name, runner.ErrNotFound)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return handler(args)
}

// Calls returns the recorded invocations
func (f *Fake) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

// CallsTo returns the recorded invocations of one program
func (f *Fake) CallsTo(name string) []Call {
	var out []Call
	for _, c := range f.Calls() {
		if c.Name == name {
			out = append(out, c)
		}
	}
	return out
}

// String summarises the recorded calls for test failure messages
func (c Call) String() string {
	return c.Name + " " + strings.Join(c.Args, " ")
}
