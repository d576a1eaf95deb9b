package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"handlescope/internal/adapter"
	"handlescope/internal/config"
	"handlescope/internal/events"
	"handlescope/internal/evidence"
	"handlescope/internal/loader"
	"handlescope/internal/logging"
	"handlescope/internal/metrics"
	"handlescope/internal/probe"
	"handlescope/internal/ratelimit"
	"handlescope/internal/registry"
	"handlescope/internal/report"
	"handlescope/internal/runner"
	"handlescope/internal/scan"
)

// flags shared by the root command and its subcommands
type flags struct {
	configPath    string
	platformsFile string
	posture       string
	output        string
	workers       int
	noScreenshots bool
	noTools       bool
	debug         bool
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	f := &flags{}
	cmd := &cobra.Command{
		Use:   "handlescope <username>",
		Short: "Find where a username is registered",
		Long: `handlescope probes a built-in table of platforms for a username, runs the
OSINT tools it finds installed (sherlock, maigret, blackbird, holehe), merges
everything into one deduplicated set and writes the reports to
investigations/<username>_<timestamp>/.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 || strings.TrimSpace(args[0]) == "" {
				return usagef("expected exactly one username, got %d argument(s)", len(args))
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(cmd, f, args[0], stdout)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError{err: err}
	})

	pf := cmd.PersistentFlags()
	pf.StringVar(&f.configPath, "config", "", "config file (default: $HANDLESCOPE_CONFIG, ./handlescope.yaml, ~/.config/handlescope/config.yaml)")
	pf.StringVar(&f.platformsFile, "platforms-file", "", "YAML file adding, replacing or disabling platforms")
	pf.BoolVar(&f.debug, "debug", false, "enable debug logging")

	fl := cmd.Flags()
	fl.StringVar(&f.posture, "posture", "", "stealth, cautious, balanced or aggressive")
	fl.StringVarP(&f.output, "output", "o", "", "base directory for investigations")
	fl.IntVarP(&f.workers, "workers", "w", 0, "probe worker count (overrides posture)")
	fl.BoolVar(&f.noScreenshots, "no-screenshots", false, "skip the screenshot pass")
	fl.BoolVar(&f.noTools, "no-osint-tools", false, "skip the external OSINT tools")

	cmd.AddCommand(newPlatformsCmd(f, stdout), newToolsCmd(f, stdout), newVerifyCmd(stdout))
	return cmd
}

// loadConfig resolves file, environment and flags, in that order
func loadConfig(cmd *cobra.Command, f *flags) (*config.Config, string, error) {
	cfg, path, err := config.LoadExplicit(f.configPath)
	if err != nil {
		return nil, path, usageError{err: err}
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, path, usageError{err: err}
	}

	changed := cmd.Flags().Changed
	if changed("posture") {
		p := config.Posture(strings.ToLower(f.posture))
		if !p.Valid() {
			return nil, path, usagef("unknown posture %q", f.posture)
		}
		cfg.Posture = p
	}
	if changed("workers") {
		cfg.SetWorkers(f.workers)
	}
	if changed("output") {
		cfg.Output.BaseDir = f.output
	}
	if f.noScreenshots {
		cfg.Screenshots.Enabled = false
	}
	if f.noTools {
		cfg.Tools.Enabled = false
	}
	if f.platformsFile != "" {
		cfg.PlatformsFile = f.platformsFile
	}
	if f.debug {
		cfg.Logging.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return nil, path, usageError{err: err}
	}
	return cfg, path, nil
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	return logging.New(logging.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format})
}

// loadPlatforms returns the built-in table with the configured overlay applied
func loadPlatforms(cfg *config.Config) (*registry.Registry, error) {
	platforms := registry.Default()
	if cfg.PlatformsFile == "" {
		return platforms, nil
	}
	overlay, err := loader.LoadYAML(cfg.PlatformsFile)
	if err != nil {
		return nil, usageError{err: err}
	}
	if err := platforms.Apply(overlay); err != nil {
		return nil, usageError{err: fmt.Errorf("apply %s: %w", cfg.PlatformsFile, err)}
	}
	return platforms, nil
}

// toolOptions maps the tools section onto adapter options
func toolOptions(cfg *config.Config, outputDir string, log *zap.Logger) []adapter.Option {
	opts := []adapter.Option{
		adapter.WithLogger(log),
		adapter.WithOutputDir(outputDir),
		adapter.WithTimeout(cfg.Tools.Timeout.Duration()),
		adapter.WithEmailTimeout(cfg.Tools.EmailTimeout.Duration()),
		adapter.WithSiteTimeout(cfg.Tools.SiteTimeout.Duration()),
		adapter.WithProviders(cfg.Tools.EmailProviders...),
	}
	for name, path := range cfg.Tools.Binaries {
		opts = append(opts, adapter.WithBinary(name, path))
	}
	return opts
}

func newToolRegistry(cfg *config.Config, outputDir string, log *zap.Logger) *adapter.Registry {
	tools := adapter.NewDefaultRegistry(log, toolOptions(cfg, outputDir, log)...)
	tools.Disable(cfg.Tools.Disabled...)
	return tools
}

func runScan(cmd *cobra.Command, f *flags, username string, stdout io.Writer) error {
	ctx := cmd.Context()
	username = strings.TrimSpace(username)

	cfg, cfgPath, err := loadConfig(cmd, f)
	if err != nil {
		return err
	}
	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()
	if cfgPath != "" {
		log.Debug("Config loaded", zap.String("path", cfgPath), zap.String("summary", cfg.Summary()))
	}

	platforms, err := loadPlatforms(cfg)
	if err != nil {
		return err
	}

	ws, err := report.NewWorkspace(cfg.Output.BaseDir, username, time.Now())
	if err != nil {
		return err
	}

	var rec *metrics.Recorder
	if cfg.Output.Metrics {
		rec = metrics.New()
	}

	bus := events.NewBus()
	progress := make(chan events.Event, 256)
	bus.Subscribe(progress)
	printed := make(chan struct{})
	go func() {
		defer close(printed)
		printProgress(stdout, progress)
	}()

	settings := cfg.EffectiveScan()
	limiter := ratelimit.New(settings.HostSpacing)
	prober := probe.New(
		probe.Config{
			Timeout:      settings.RequestTimeout,
			UserAgent:    settings.UserAgent,
			MaxBodyBytes: settings.MaxBodyBytes,
		},
		limiter,
		probe.NewClassifier(platforms.Signatures()),
		log,
	)

	opts := []scan.Option{
		scan.WithWorkers(settings.Workers),
		scan.WithMetrics(rec),
		scan.WithEventBus(bus),
		scan.WithLogger(log),
	}
	if cfg.Tools.Enabled {
		tools := newToolRegistry(cfg, ws.ToolOutput, log)
		tools.SetMetrics(rec)
		tools.SetEventBus(bus)
		opts = append(opts, scan.WithTools(tools))
	}
	browser := ""
	if cfg.Screenshots.Enabled {
		capturer, err := evidence.NewChromeCapturer(runner.NewExec(), evidence.ChromeConfig{
			Browser:   cfg.Screenshots.Browser,
			Dir:       ws.Screenshots,
			Timeout:   cfg.Screenshots.Timeout.Duration(),
			Window:    cfg.Screenshots.Window,
			UserAgent: settings.UserAgent,
		}, log)
		if err != nil {
			log.Warn("Screenshots disabled", zap.Error(err))
		} else {
			browser = capturer.Browser()
			opts = append(opts, scan.WithCapturer(capturer))
		}
	}

	printBanner(stdout, bannerInfo{
		Username:  username,
		Platforms: platforms.Len(),
		Posture:   cfg.Posture,
		Settings:  settings,
		Tools:     cfg.Tools.Enabled,
		Browser:   browser,
		Dir:       ws.Root,
	})

	inv, err := scan.New(platforms, prober, opts...).Run(ctx, username)
	close(progress)
	<-printed
	if err != nil {
		return usageError{err: err}
	}
	log.Debug("Sweep finished", zap.Int("hosts", limiter.Hosts()))
	if n := bus.Dropped(); n > 0 {
		log.Warn("Progress output fell behind", zap.Int("dropped_events", n))
	}
	if ctx.Err() != nil {
		log.Warn("Scan interrupted, writing partial results", zap.Error(ctx.Err()))
	}

	artifacts, err := report.NewEmitter(ws, report.Options{
		FailureLimit: cfg.Output.FailureLimit,
		EvidenceDB:   cfg.Output.EvidenceDB,
		Metrics:      rec,
	}, log).Emit(context.WithoutCancel(ctx), inv)
	if err != nil {
		return err
	}

	printSummary(stdout, inv, artifacts)
	return nil
}
