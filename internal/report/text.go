package report

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"

	"handlescope/internal/codec"
	"handlescope/internal/domain"
)

const rule = "================================================================================"

// TextWriter renders the human-readable FULL_REPORT.txt
type TextWriter struct{}

// Write renders doc to w
func (TextWriter) Write(doc *codec.Document, w io.Writer) error {
	var b strings.Builder

	b.WriteString(rule + "\n")
	b.WriteString("HANDLESCOPE - USERNAME INVESTIGATION REPORT\n")
	b.WriteString(rule + "\n\n")

	fmt.Fprintf(&b, "Target Username:         %s\n", doc.Username)
	fmt.Fprintf(&b, "Run ID:                  %s\n", doc.RunID)
	fmt.Fprintf(&b, "Started:                 %s\n", doc.StartedAt.Format(time.DateTime))
	fmt.Fprintf(&b, "Duration:                %s\n", time.Duration(doc.DurationSeconds*float64(time.Second)).Round(time.Millisecond))
	fmt.Fprintf(&b, "Total Platforms Scanned: %s\n", humanize.Comma(int64(doc.TotalPlatforms)))
	fmt.Fprintf(&b, "Profiles Found (Direct): %s\n", humanize.Comma(int64(doc.Counts.Direct)))
	for _, src := range sortedSources(doc.Counts.PerSource) {
		if src.IsTool() {
			fmt.Fprintf(&b, "Reported by %-12s %s\n", src.ToolName()+":", humanize.Comma(int64(doc.Counts.PerSource[src])))
		}
	}
	fmt.Fprintf(&b, "Total Unique Records:    %s\n", humanize.Comma(int64(doc.Counts.Records)))
	fmt.Fprintf(&b, "Verified by API:         %s\n", humanize.Comma(int64(doc.Counts.Verified)))
	fmt.Fprintf(&b, "Screenshots:             %s\n", humanize.Comma(int64(doc.Counts.Screenshots)))
	fmt.Fprintf(&b, "Available OSINT Tools:   %s\n", toolList(doc.AvailableTools))

	b.WriteString("\n" + rule + "\n")
	b.WriteString("DISCOVERED PROFILES\n")
	b.WriteString(rule + "\n\n")
	profiles, emails := splitRecords(doc.Records)
	if len(profiles) == 0 {
		b.WriteString("No profiles found.\n")
	} else {
		b.WriteString(profileTable(profiles))
		b.WriteString("\n")
	}

	if len(emails) > 0 {
		b.WriteString("\n" + rule + "\n")
		b.WriteString("EMAIL ACCOUNTS\n")
		b.WriteString(rule + "\n\n")
		b.WriteString(emailTable(emails))
		b.WriteString("\n")
	}

	if doc.FailuresTotal > 0 {
		b.WriteString("\n" + rule + "\n")
		fmt.Fprintf(&b, "FAILED CHECKS (%s)\n", humanize.Comma(int64(doc.FailuresTotal)))
		b.WriteString(rule + "\n\n")
		b.WriteString(failureTable(doc.Failures))
		b.WriteString("\n")
		if doc.FailuresTruncated {
			fmt.Fprintf(&b, "... %d more not shown\n", doc.FailuresTotal-len(doc.Failures))
		}
	}

	b.WriteString("\n" + rule + "\n")
	b.WriteString("END OF REPORT\n")
	b.WriteString(rule + "\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func newTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.Style().Options.SeparateRows = false
	return t
}

func profileTable(records []*domain.IdentityRecord) string {
	t := newTable()
	t.AppendHeader(table.Row{"#", "Platform", "URL", "Found By", "Status", "Size", "Evidence"})
	for i, r := range records {
		t.AppendRow(table.Row{
			i + 1,
			r.Platform,
			r.URL,
			sourceList(r.Sources()),
			status(r),
			size(r),
			r.EvidencePath,
		})
	}
	return t.Render()
}

func emailTable(records []*domain.IdentityRecord) string {
	t := newTable()
	t.AppendHeader(table.Row{"#", "Provider", "Email", "Found By", "Registered On"})
	for i, r := range records {
		t.AppendRow(table.Row{i + 1, r.Platform, r.Email, sourceList(r.Sources()), strings.Join(r.Services, ", ")})
	}
	return t.Render()
}

func failureTable(failures []*domain.FailureRecord) string {
	t := newTable()
	t.AppendHeader(table.Row{"Platform", "Reason", "Target", "Detail"})
	for _, f := range failures {
		detail := f.Detail
		if f.StatusCode != nil {
			detail = strings.TrimSpace(fmt.Sprintf("HTTP %d %s", *f.StatusCode, detail))
		}
		t.AppendRow(table.Row{f.Platform, string(f.Reason), f.Target, detail})
	}
	return t.Render()
}

func splitRecords(records []*domain.IdentityRecord) (profiles, emails []*domain.IdentityRecord) {
	for _, r := range records {
		if r.Kind == domain.RecordEmailAccount {
			emails = append(emails, r)
		} else {
			profiles = append(profiles, r)
		}
	}
	return profiles, emails
}

func status(r *domain.IdentityRecord) string {
	switch {
	case r.StatusCode == nil:
		return "-"
	case r.IsVerified():
		return fmt.Sprintf("%d (verified)", *r.StatusCode)
	default:
		return fmt.Sprintf("%d", *r.StatusCode)
	}
}

func size(r *domain.IdentityRecord) string {
	if r.ContentLength == nil || *r.ContentLength < 0 {
		return "-"
	}
	return humanize.Bytes(uint64(*r.ContentLength))
}

func sourceList(sources []domain.Source) string {
	parts := make([]string, len(sources))
	for i, s := range sources {
		if name := s.ToolName(); name != "" {
			parts[i] = name
		} else {
			parts[i] = string(s)
		}
	}
	return strings.Join(parts, ", ")
}

func toolList(tools []string) string {
	if len(tools) == 0 {
		return "none"
	}
	return strings.Join(tools, ", ")
}

func sortedSources(m map[domain.Source]int) []domain.Source {
	out := make([]domain.Source, 0, len(m))
	for s := range m {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
