// Package scan runs one investigation: the direct probe sweep and the
// external tools side by side, then the merge and the screenshot pass.
package scan

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"handlescope/internal/adapter"
	"handlescope/internal/domain"
	"handlescope/internal/events"
	"handlescope/internal/evidence"
	"handlescope/internal/merge"
	"handlescope/internal/metrics"
	"handlescope/internal/probe"
	"handlescope/internal/registry"
)

// DefaultWorkers is the size of the probe worker pool
const DefaultWorkers = 15

// ErrEmptyUsername is returned by Run when there is nothing to look for
var ErrEmptyUsername = errors.New("username is required")

// Prober checks one platform. *probe.Prober implements it.
type Prober interface {
	Probe(ctx context.Context, pp domain.PlatformProbe) probe.Outcome
}

// Tools runs the external discovery tools. *adapter.Registry implements it.
type Tools interface {
	Available() []string
	Run(ctx context.Context, username string) []adapter.Batch
}

// Scanner coordinates one run
type Scanner struct {
	platforms *registry.Registry
	prober    Prober
	tools     Tools
	capturer  evidence.Capturer
	workers   int
	metrics   *metrics.Recorder
	events    *events.Bus
	log       *zap.Logger
}

// Option configures a Scanner
type Option func(*Scanner)

// WithWorkers sets the probe worker pool size
func WithWorkers(n int) Option {
	return func(s *Scanner) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithTools enables the external tool adapters. Without it only the
// direct sweep runs.
func WithTools(t Tools) Option {
	return func(s *Scanner) {
		s.tools = t
	}
}

// WithCapturer enables the screenshot pass
func WithCapturer(c evidence.Capturer) Option {
	return func(s *Scanner) {
		s.capturer = c
	}
}

// WithMetrics sets the run metrics recorder
func WithMetrics(m *metrics.Recorder) Option {
	return func(s *Scanner) {
		s.metrics = m
	}
}

// WithEventBus sets where progress events go
func WithEventBus(bus *events.Bus) Option {
	return func(s *Scanner) {
		s.events = bus
	}
}

// WithLogger sets the logger
func WithLogger(log *zap.Logger) Option {
	return func(s *Scanner) {
		if log != nil {
			s.log = log
		}
	}
}

// New creates a scanner over the given platform table
func New(platforms *registry.Registry, prober Prober, opts ...Option) *Scanner {
	s := &Scanner{
		platforms: platforms,
		prober:    prober,
		workers:   DefaultWorkers,
		log:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run investigates username. The only error is an empty username: probe
// failures end up in the investigation and tool failures are logged.
func (s *Scanner) Run(ctx context.Context, username string) (*domain.Investigation, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, ErrEmptyUsername
	}

	inv := domain.NewInvestigation(username, uuid.NewString())
	probes := s.platforms.Build(username)
	inv.PlatformCount = len(probes)
	if s.tools != nil {
		inv.AvailableTools = append(inv.AvailableTools, s.tools.Available()...)
	}

	s.log.Info("Scan started",
		zap.String("username", username),
		zap.String("run_id", inv.RunID),
		zap.Int("platforms", len(probes)),
		zap.Int("workers", s.workers),
		zap.Strings("tools", inv.AvailableTools),
	)
	s.events.Publish(events.Event{Type: events.EventScanStarted, Target: username, Count: len(probes)})

	// Tools run beside the sweep; their batches wait for the barrier below.
	var (
		batches []adapter.Batch
		toolsWG sync.WaitGroup
	)
	if s.tools != nil && len(inv.AvailableTools) > 0 {
		toolsWG.Add(1)
		go func() {
			defer toolsWG.Done()
			batches = s.tools.Run(ctx, username)
		}()
	}

	direct, failures := s.sweep(ctx, probes)
	s.events.Publish(events.Event{Type: events.EventSweepFinished, Count: len(direct)})

	toolsWG.Wait()

	m := merge.New(s.log)
	m.Add(direct...)
	for _, b := range batches {
		m.Add(b.Records...)
	}
	inv.Records = m.Records()
	inv.Failures = failures
	s.metrics.ObserveMerge(m.Len(), m.Duplicates())
	s.events.Publish(events.Event{Type: events.EventRecordsMerged, Count: m.Len()})

	if s.capturer != nil {
		s.captureEvidence(ctx, inv)
	}

	inv.FinishedAt = time.Now()
	s.metrics.ObserveScan(inv.Duration())
	s.events.Publish(events.Event{Type: events.EventScanFinished, Target: username, Count: len(inv.Records)})
	s.log.Info("Scan complete",
		zap.String("username", username),
		zap.Int("records", len(inv.Records)),
		zap.Int("duplicates", m.Duplicates()),
		zap.Int("failures", len(inv.Failures)),
		zap.Duration("duration", inv.Duration()),
	)
	return inv, nil
}

// sweep probes every platform on a fixed worker pool. Workers hand their
// outcomes to this goroutine, which is the only one touching the results.
func (s *Scanner) sweep(ctx context.Context, probes []domain.PlatformProbe) ([]*domain.IdentityRecord, []*domain.FailureRecord) {
	jobs := make(chan domain.PlatformProbe, len(probes))
	for _, pp := range probes {
		jobs <- pp
	}
	close(jobs)

	results := make(chan probe.Outcome, s.workers)

	var wg sync.WaitGroup
	for i := 0; i < s.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for pp := range jobs {
				results <- s.probeOne(ctx, pp)
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	records := make([]*domain.IdentityRecord, 0)
	failures := make([]*domain.FailureRecord, 0)
	for out := range results {
		switch {
		case out.Record != nil:
			records = append(records, out.Record)
			s.metrics.ObserveProbe(metrics.OutcomeFound, "", out.Duration)
			s.events.Publish(events.Event{
				Type:     events.EventProfileFound,
				Platform: out.Record.Platform,
				Target:   out.Record.URL,
			})
		case out.Failure != nil:
			failures = append(failures, out.Failure)
			s.metrics.ObserveProbe(metrics.OutcomeFailed, string(out.Failure.Reason), out.Duration)
			s.events.Publish(events.Event{
				Type:     events.EventProbeFailed,
				Platform: out.Failure.Platform,
				Target:   out.Failure.Target,
				Detail:   string(out.Failure.Reason),
			})
		default:
			s.metrics.ObserveProbe(metrics.OutcomeAbsent, "", out.Duration)
		}
	}
	return records, failures
}

// probeOne runs a single probe. A panic is logged and turned into a failure
// for that platform only.
func (s *Scanner) probeOne(ctx context.Context, pp domain.PlatformProbe) (out probe.Outcome) {
	start := time.Now()
	defer func() {
		if p := recover(); p != nil {
			s.log.Error("Probe panicked",
				zap.String("platform", pp.Label),
				zap.Any("panic", p),
				zap.ByteString("stack", debug.Stack()),
			)
			out = probe.Outcome{
				Probe:    pp,
				Failure:  domain.NewFailure(pp.Label, pp.Target(), domain.FailureValidationFailed, fmt.Sprintf("panic: %v", p)),
				Duration: time.Since(start),
			}
		}
	}()
	return s.prober.Probe(ctx, pp)
}

// captureEvidence screenshots every directly confirmed profile, one at a time
func (s *Scanner) captureEvidence(ctx context.Context, inv *domain.Investigation) {
	for _, r := range ScreenshotTargets(inv.Records) {
		if ctx.Err() != nil {
			s.log.Warn("Screenshot pass interrupted", zap.Error(ctx.Err()))
			return
		}
		path, ok := s.capturer.Capture(ctx, r.URL, r.Platform)
		s.metrics.ObserveScreenshot(ok)
		if !ok {
			continue
		}
		r.EvidencePath = path
		s.events.Publish(events.Event{
			Type:     events.EventScreenshotCaptured,
			Platform: r.Platform,
			Target:   path,
		})
	}
}

// ScreenshotTargets returns the records the screenshot pass visits: profile
// URLs the direct prober confirmed
func ScreenshotTargets(records []*domain.IdentityRecord) []*domain.IdentityRecord {
	var out []*domain.IdentityRecord
	for _, r := range records {
		if r.Kind == domain.RecordProfileURL && r.Source.IsDirect() && r.URL != "" {
			out = append(out, r)
		}
	}
	return out
}
