package adapter

import (
	"context"
	"fmt"
	"runtime/debug"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"handlescope/internal/domain"
	"handlescope/internal/events"
	"handlescope/internal/metrics"
)

// Batch is what one adapter produced during a run
type Batch struct {
	Tool     string
	Records  []*domain.IdentityRecord
	Err      error
	Duration time.Duration
}

// Registry manages the registered adapters and runs them together
type Registry struct {
	mu       sync.RWMutex
	adapters map[string]Adapter
	disabled map[string]bool
	log      *zap.Logger
	metrics  *metrics.Recorder
	events   *events.Bus
}

// NewRegistry creates a new adapter registry
func NewRegistry(log *zap.Logger) *Registry {
	if log == nil {
		log = zap.NewNop()
	}
	return &Registry{
		adapters: make(map[string]Adapter),
		disabled: make(map[string]bool),
		log:      log,
	}
}

// NewDefaultRegistry registers sherlock, maigret, blackbird and holehe
func NewDefaultRegistry(log *zap.Logger, opts ...Option) *Registry {
	r := NewRegistry(log)
	for _, a := range []Adapter{
		NewSherlock(opts...),
		NewMaigret(opts...),
		NewBlackbird(opts...),
		NewHolehe(opts...),
	} {
		_ = r.Register(a)
	}
	return r
}

// SetMetrics attaches a metrics recorder
func (r *Registry) SetMetrics(m *metrics.Recorder) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.metrics = m
}

// SetEventBus attaches a progress event bus
func (r *Registry) SetEventBus(bus *events.Bus) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = bus
}

// Register adds an adapter to the registry
func (r *Registry) Register(a Adapter) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := a.Name()
	if _, exists := r.adapters[name]; exists {
		return fmt.Errorf("adapter %s already registered", name)
	}
	r.adapters[name] = a
	r.log.Debug("Registered adapter", zap.String("adapter", name))
	return nil
}

// Disable skips the named adapters in Run. Names are case-insensitive.
func (r *Registry) Disable(names ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range names {
		r.disabled[strings.ToLower(strings.TrimSpace(n))] = true
	}
}

// Names returns every registered adapter name, sorted
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.adapters))
	for name := range r.adapters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Available returns the sorted names of enabled adapters whose tool is installed
func (r *Registry) Available() []string {
	var names []string
	for _, info := range r.ListAdapters() {
		if info.Available && info.Enabled {
			names = append(names, info.Name)
		}
	}
	return names
}

// ListAdapters returns information about registered adapters, sorted by name
func (r *Registry) ListAdapters() []AdapterInfo {
	infos := make([]AdapterInfo, 0)
	for _, name := range r.Names() {
		r.mu.RLock()
		a := r.adapters[name]
		enabled := !r.disabled[name]
		r.mu.RUnlock()

		info := AdapterInfo{
			Name:      name,
			Available: a.Available(),
			Enabled:   enabled,
		}
		if l, ok := a.(locator); ok && info.Available {
			info.Path = l.Path()
		}
		infos = append(infos, info)
	}
	return infos
}

// Run executes every enabled, available adapter concurrently and returns
// one batch per adapter ordered by name. A failing or panicking adapter
// yields an empty batch carrying the error; Run itself never fails.
func (r *Registry) Run(ctx context.Context, username string) []Batch {
	names := r.Available()

	var (
		mu      sync.Mutex
		batches = make([]Batch, 0, len(names))
		g       errgroup.Group
	)
	for _, name := range names {
		r.mu.RLock()
		a := r.adapters[name]
		r.mu.RUnlock()

		g.Go(func() error {
			b := r.runOne(ctx, a, username)
			mu.Lock()
			batches = append(batches, b)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	sort.Slice(batches, func(i, j int) bool { return batches[i].Tool < batches[j].Tool })
	return batches
}

func (r *Registry) runOne(ctx context.Context, a Adapter, username string) (b Batch) {
	name := a.Name()
	b.Tool = name
	start := time.Now()

	r.mu.RLock()
	bus, rec := r.events, r.metrics
	r.mu.RUnlock()

	bus.Publish(events.Event{Type: events.EventAdapterStarted, Tool: name})

	defer func() {
		if p := recover(); p != nil {
			r.log.Error("Adapter panicked",
				zap.String("adapter", name),
				zap.Any("panic", p),
				zap.ByteString("stack", debug.Stack()),
			)
			b.Records = nil
			b.Err = fmt.Errorf("adapter %s panicked: %v", name, p)
		}
		b.Duration = time.Since(start)
		rec.ObserveAdapter(name, len(b.Records), b.Duration, b.Err)
		bus.Publish(events.Event{
			Type:   events.EventAdapterFinished,
			Tool:   name,
			Count:  len(b.Records),
			Detail: errDetail(b.Err),
		})
	}()

	records, err := a.Discover(ctx, username)
	if err != nil {
		r.log.Warn("Adapter failed, continuing without its results",
			zap.String("adapter", name),
			zap.Error(err),
		)
		b.Err = err
		return b
	}

	b.Records = records
	r.log.Info("Adapter finished",
		zap.String("adapter", name),
		zap.Int("records", len(records)),
	)
	return b
}

func errDetail(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
