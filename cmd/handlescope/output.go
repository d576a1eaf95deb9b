package main

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"

	"handlescope/internal/config"
	"handlescope/internal/domain"
	"handlescope/internal/events"
	"handlescope/internal/report"
)

type bannerInfo struct {
	Username  string
	Platforms int
	Posture   config.Posture
	Settings  config.ScanSettings
	Tools     bool
	Browser   string
	Dir       string
}

func printBanner(w io.Writer, b bannerInfo) {
	fmt.Fprintf(w, "[*] Target:      %s\n", b.Username)
	fmt.Fprintf(w, "[*] Platforms:   %d (%s posture, %d workers, %s host spacing)\n",
		b.Platforms, b.Posture, b.Settings.Workers, b.Settings.HostSpacing)
	if b.Tools {
		fmt.Fprintln(w, "[*] OSINT tools: enabled")
	} else {
		fmt.Fprintln(w, "[*] OSINT tools: disabled")
	}
	if b.Browser != "" {
		fmt.Fprintf(w, "[*] Screenshots: %s\n", b.Browser)
	} else {
		fmt.Fprintln(w, "[*] Screenshots: off")
	}
	fmt.Fprintf(w, "[*] Output:      %s\n\n", b.Dir)
}

// printProgress writes one line per interesting event until ch is closed
func printProgress(w io.Writer, ch <-chan events.Event) {
	for e := range ch {
		switch e.Type {
		case events.EventProfileFound:
			fmt.Fprintf(w, "[+] %-20s %s\n", e.Platform, e.Target)
		case events.EventAdapterStarted:
			fmt.Fprintf(w, "[>] %s started\n", e.Tool)
		case events.EventAdapterFinished:
			if e.Detail != "" {
				fmt.Fprintf(w, "[!] %s failed: %s\n", e.Tool, e.Detail)
			} else {
				fmt.Fprintf(w, "[>] %s finished: %d result(s)\n", e.Tool, e.Count)
			}
		case events.EventSweepFinished:
			fmt.Fprintf(w, "[*] Direct checks done: %d profile(s)\n", e.Count)
		case events.EventScreenshotCaptured:
			fmt.Fprintf(w, "[~] Screenshot %s\n", e.Platform)
		}
	}
}

func printSummary(w io.Writer, inv *domain.Investigation, a *report.Artifacts) {
	counts := inv.SourceCounts()

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.SetTitle("Investigation complete")
	t.AppendRow(table.Row{"Platforms scanned", humanize.Comma(int64(inv.PlatformCount))})
	t.AppendRow(table.Row{"Profiles found (direct)", counts[domain.SourceDirect]})
	for _, tool := range inv.AvailableTools {
		t.AppendRow(table.Row{"Reported by " + tool, counts[domain.ToolSource(tool)]})
	}
	t.AppendRow(table.Row{"Unique records", len(inv.Records)})
	t.AppendRow(table.Row{"Failed checks", len(inv.Failures)})
	t.AppendRow(table.Row{"Duration", inv.Duration().Round(time.Millisecond)})
	t.AppendSeparator()
	for _, row := range []struct{ label, path string }{
		{"Full report", a.FullReport},
		{"JSON report", a.JSONReport},
		{"YAML report", a.YAMLReport},
		{"URL list", a.URLList},
		{"Evidence DB", a.EvidenceDB},
		{"Metrics", a.Metrics},
		{"Manifest", a.Manifest},
		{"Screenshots", a.Screenshots},
		{"OSINT results", a.ToolOutput},
	} {
		if row.path != "" {
			t.AppendRow(table.Row{row.label, row.path})
		}
	}
	t.Render()
}
