// Package merge deduplicates identity records from the direct prober and the
// external tool adapters while keeping track of which sources agreed.
package merge

import (
	"sort"
	"strings"

	"go.uber.org/zap"

	"handlescope/internal/domain"
)

// Merger folds records into a deduplicated collection. It is not safe for
// concurrent use: callers feed it from a single goroutine once all producers
// have finished.
type Merger struct {
	log        *zap.Logger
	byKey      map[string]*domain.IdentityRecord
	direct     map[string]*domain.IdentityRecord
	records    []*domain.IdentityRecord
	duplicates int
}

// New creates an empty merger
func New(log *zap.Logger) *Merger {
	if log == nil {
		log = zap.NewNop()
	}
	return &Merger{
		log:    log,
		byKey:  make(map[string]*domain.IdentityRecord),
		direct: make(map[string]*domain.IdentityRecord),
	}
}

// Key returns the deduplication key of a record. Email accounts and profile
// URLs live in separate key spaces so they are never compared.
func Key(r *domain.IdentityRecord) string {
	if r.Kind == domain.RecordEmailAccount {
		return "email:" + r.Email
	}
	return "url:" + Normalize(r.URL)
}

// Add merges records in the order given. The first record seen for a key is
// authoritative: later duplicates only contribute their source to FoundBy.
func (m *Merger) Add(records ...*domain.IdentityRecord) {
	for _, r := range records {
		if r == nil {
			continue
		}
		m.add(r)
	}
}

func (m *Merger) add(r *domain.IdentityRecord) {
	key := Key(r)

	existing, ok := m.byKey[key]
	if !ok && r.Source.IsDirect() {
		// one direct record per platform, whatever URL it carries
		existing, ok = m.direct[r.Platform]
	}
	if ok {
		existing.AddSource(r.Source)
		m.duplicates++
		m.log.Debug("Merged duplicate record",
			zap.String("platform", existing.Platform),
			zap.String("key", key),
			zap.String("source", string(r.Source)),
		)
		return
	}

	m.byKey[key] = r
	if r.Source.IsDirect() {
		m.direct[r.Platform] = r
	}
	m.records = append(m.records, r)
}

// Duplicates returns how many records were folded into an existing one
func (m *Merger) Duplicates() int {
	return m.duplicates
}

// Len returns the number of distinct records
func (m *Merger) Len() int {
	return len(m.records)
}

// Records returns the merged collection sorted by platform label
func (m *Merger) Records() []*domain.IdentityRecord {
	out := make([]*domain.IdentityRecord, len(m.records))
	copy(out, m.records)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := strings.ToLower(out[i].Platform), strings.ToLower(out[j].Platform)
		if a != b {
			return a < b
		}
		return Key(out[i]) < Key(out[j])
	})
	return out
}

// Merge is a convenience for merging batches in order
func Merge(log *zap.Logger, batches ...[]*domain.IdentityRecord) []*domain.IdentityRecord {
	m := New(log)
	for _, batch := range batches {
		m.Add(batch...)
	}
	return m.Records()
}
