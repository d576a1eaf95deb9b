// Package codec serializes investigation reports.
package codec

import (
	"io"
	"sort"
	"time"

	"handlescope/internal/domain"
)

// Importer reads a report document back from a serialized form
type Importer interface {
	Parse(r io.Reader) (*Document, error)
	Format() string
}

// Exporter writes a report document
type Exporter interface {
	Export(doc *Document, w io.Writer) error
	Format() string
}

// Counts summarises an investigation
type Counts struct {
	Records     int                          `json:"records" yaml:"records"`
	Direct      int                          `json:"direct" yaml:"direct"`
	Verified    int                          `json:"verified" yaml:"verified"`
	Emails      int                          `json:"email_accounts" yaml:"email_accounts"`
	Screenshots int                          `json:"screenshots" yaml:"screenshots"`
	PerSource   map[domain.Source]int        `json:"per_source" yaml:"per_source"`
	Failures    map[domain.FailureReason]int `json:"failures" yaml:"failures"`
}

// Document is the machine-readable report of one investigation
type Document struct {
	Username          string                   `json:"username" yaml:"username"`
	RunID             string                   `json:"run_id" yaml:"run_id"`
	StartedAt         time.Time                `json:"started_at" yaml:"started_at"`
	FinishedAt        time.Time                `json:"finished_at" yaml:"finished_at"`
	DurationSeconds   float64                  `json:"duration_seconds" yaml:"duration_seconds"`
	TotalPlatforms    int                      `json:"total_platforms" yaml:"total_platforms"`
	AvailableTools    []string                 `json:"available_tools" yaml:"available_tools"`
	Counts            Counts                   `json:"counts" yaml:"counts"`
	Records           []*domain.IdentityRecord `json:"records" yaml:"records"`
	Failures          []*domain.FailureRecord  `json:"failures" yaml:"failures"`
	FailuresTotal     int                      `json:"failures_total" yaml:"failures_total"`
	FailuresTruncated bool                     `json:"failures_truncated" yaml:"failures_truncated"`
}

// NewDocument builds the report for inv. At most failureLimit failures are
// listed; a limit of zero or less lists them all.
func NewDocument(inv *domain.Investigation, failureLimit int) *Document {
	doc := &Document{
		Username:        inv.Username,
		RunID:           inv.RunID,
		StartedAt:       inv.StartedAt,
		FinishedAt:      inv.FinishedAt,
		DurationSeconds: inv.Duration().Seconds(),
		TotalPlatforms:  inv.PlatformCount,
		AvailableTools:  append([]string{}, inv.AvailableTools...),
		Records:         append([]*domain.IdentityRecord{}, inv.Records...),
		FailuresTotal:   len(inv.Failures),
		Counts: Counts{
			Records:   len(inv.Records),
			PerSource: inv.SourceCounts(),
			Failures:  inv.FailureCounts(),
		},
	}

	for _, r := range inv.Records {
		if r.Source.IsDirect() {
			doc.Counts.Direct++
		}
		if r.IsVerified() {
			doc.Counts.Verified++
		}
		if r.Kind == domain.RecordEmailAccount {
			doc.Counts.Emails++
		}
		if r.EvidencePath != "" {
			doc.Counts.Screenshots++
		}
	}

	failures := append([]*domain.FailureRecord{}, inv.Failures...)
	sort.SliceStable(failures, func(i, j int) bool {
		return failures[i].Platform < failures[j].Platform
	})
	if failureLimit > 0 && len(failures) > failureLimit {
		failures = failures[:failureLimit]
		doc.FailuresTruncated = true
	}
	doc.Failures = failures

	return doc
}
