// Package report lays out the per-run output directory and writes every
// artifact of an investigation into it.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Artifact file and directory names inside a run directory
const (
	FullReportFile = "FULL_REPORT.txt"
	JSONReportFile = "report.json"
	YAMLReportFile = "report.yaml"
	URLListFile    = "all_urls.txt"
	EvidenceDBFile = "evidence.db"
	MetricsFile    = "metrics.prom"
	ManifestFile   = "MANIFEST.b2sum"

	ScreenshotsDir = "screenshots"
	ToolOutputDir  = "osint_results"

	timestampLayout = "20060102_150405"
)

// Workspace is the directory tree of one run:
// <base>/<username>_<YYYYMMDD_HHMMSS>/{screenshots,osint_results}
type Workspace struct {
	Root        string
	Screenshots string
	ToolOutput  string
}

// NewWorkspace creates the run directory for username under base
func NewWorkspace(base, username string, at time.Time) (*Workspace, error) {
	root := filepath.Join(base, DirName(username, at))
	ws := &Workspace{
		Root:        root,
		Screenshots: filepath.Join(root, ScreenshotsDir),
		ToolOutput:  filepath.Join(root, ToolOutputDir),
	}
	for _, dir := range []string{ws.Root, ws.Screenshots, ws.ToolOutput} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create %s: %v: %w", dir, err, ErrWrite)
		}
	}
	return ws, nil
}

// Path returns name joined to the run directory
func (w *Workspace) Path(name string) string {
	return filepath.Join(w.Root, name)
}

// DirName is the run directory name for username started at the given time.
// Characters that are unsafe in a path component become underscores.
func DirName(username string, at time.Time) string {
	return safeComponent(username) + "_" + at.Format(timestampLayout)
}

func safeComponent(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '.', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	out := strings.Trim(b.String(), ".")
	if out == "" {
		return "user"
	}
	return out
}
