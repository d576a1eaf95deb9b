package domain

import (
	"sort"
	"time"
)

// Investigation is the aggregate produced by one run
type Investigation struct {
	Username       string            `json:"username" yaml:"username"`
	RunID          string            `json:"run_id" yaml:"run_id"`
	StartedAt      time.Time         `json:"started_at" yaml:"started_at"`
	FinishedAt     time.Time         `json:"finished_at" yaml:"finished_at"`
	PlatformCount  int               `json:"total_platforms" yaml:"total_platforms"`
	AvailableTools []string          `json:"available_tools" yaml:"available_tools"`
	Records        []*IdentityRecord `json:"records" yaml:"records"`
	Failures       []*FailureRecord  `json:"failures" yaml:"failures"`
	OutputDir      string            `json:"output_dir,omitempty" yaml:"output_dir,omitempty"`
}

// NewInvestigation creates an empty investigation for username
func NewInvestigation(username, runID string) *Investigation {
	return &Investigation{
		Username:       username,
		RunID:          runID,
		StartedAt:      time.Now(),
		AvailableTools: make([]string, 0),
		Records:        make([]*IdentityRecord, 0),
		Failures:       make([]*FailureRecord, 0),
	}
}

// Duration returns how long the run took
func (inv *Investigation) Duration() time.Duration {
	if inv.FinishedAt.IsZero() {
		return time.Since(inv.StartedAt)
	}
	return inv.FinishedAt.Sub(inv.StartedAt)
}

// SourceCounts counts records per reporting source. A record found by
// several sources counts once for each of them.
func (inv *Investigation) SourceCounts() map[Source]int {
	counts := make(map[Source]int)
	for _, r := range inv.Records {
		for _, s := range r.Sources() {
			counts[s]++
		}
	}
	return counts
}

// RecordsBySource returns the records whose original source is s
func (inv *Investigation) RecordsBySource(s Source) []*IdentityRecord {
	var out []*IdentityRecord
	for _, r := range inv.Records {
		if r.Source == s {
			out = append(out, r)
		}
	}
	return out
}

// FailureCounts counts failures per reason
func (inv *Investigation) FailureCounts() map[FailureReason]int {
	counts := make(map[FailureReason]int)
	for _, f := range inv.Failures {
		counts[f.Reason]++
	}
	return counts
}

// HasTool reports whether the named tool was available for this run
func (inv *Investigation) HasTool(name string) bool {
	i := sort.SearchStrings(inv.AvailableTools, name)
	return i < len(inv.AvailableTools) && inv.AvailableTools[i] == name
}
