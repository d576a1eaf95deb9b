package adapter

import (
	"time"

	"go.uber.org/zap"

	"handlescope/internal/runner"
)

const (
	// DefaultTimeout bounds one run of a URL discovery tool
	DefaultTimeout = 5 * time.Minute
	// DefaultEmailTimeout bounds one holehe run for a single address
	DefaultEmailTimeout = 60 * time.Second
	// DefaultSiteTimeout is passed to tools that take a per-site timeout
	DefaultSiteTimeout = 10 * time.Second
)

// DefaultEmailProviders are the domains combined with the username for holehe
var DefaultEmailProviders = []string{"gmail.com", "yahoo.com", "outlook.com"}

// options shared by every adapter
type options struct {
	runner       runner.Runner
	timeout      time.Duration
	emailTimeout time.Duration
	siteTimeout  time.Duration
	outputDir    string
	providers    []string
	binaries     map[string]string
	log          *zap.Logger
}

func defaultOptions() options {
	return options{
		runner:       runner.NewExec(),
		timeout:      DefaultTimeout,
		emailTimeout: DefaultEmailTimeout,
		siteTimeout:  DefaultSiteTimeout,
		providers:    DefaultEmailProviders,
		log:          zap.NewNop(),
	}
}

// Option is a functional option for configuring adapters
type Option func(*options)

// WithRunner sets the process runner
func WithRunner(r runner.Runner) Option {
	return func(o *options) {
		if r != nil {
			o.runner = r
		}
	}
}

// WithTimeout sets the wall clock limit for one tool invocation
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// WithEmailTimeout sets the wall clock limit for one holehe address check
func WithEmailTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.emailTimeout = d
		}
	}
}

// WithSiteTimeout sets the per-site timeout passed to the tool itself
func WithSiteTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.siteTimeout = d
		}
	}
}

// WithOutputDir sets where tools write their raw output.
// Empty means a temporary directory removed after parsing.
func WithOutputDir(dir string) Option {
	return func(o *options) {
		o.outputDir = dir
	}
}

// WithProviders sets the email domains checked by holehe
func WithProviders(providers ...string) Option {
	return func(o *options) {
		if len(providers) > 0 {
			o.providers = providers
		}
	}
}

// WithBinary points the named tool at an explicit executable instead of
// resolving its name in PATH
func WithBinary(name, path string) Option {
	return func(o *options) {
		if path == "" {
			return
		}
		if o.binaries == nil {
			o.binaries = make(map[string]string)
		}
		o.binaries[name] = path
	}
}

// WithLogger sets the logger
func WithLogger(log *zap.Logger) Option {
	return func(o *options) {
		if log != nil {
			o.log = log
		}
	}
}

func applyOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
