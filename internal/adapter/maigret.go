package adapter

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"handlescope/internal/domain"
)

// Maigret runs maigret with a report folder and reads its text reports
// together with what it printed.
type Maigret struct {
	tool
}

// NewMaigret creates a maigret adapter
func NewMaigret(opts ...Option) *Maigret {
	return &Maigret{tool: newTool("maigret", opts)}
}

// Discover implements Adapter
func (m *Maigret) Discover(ctx context.Context, username string) ([]*domain.IdentityRecord, error) {
	if !m.Available() {
		return nil, nil
	}

	dir, cleanup, err := m.workDir()
	if err != nil {
		return nil, err
	}
	defer cleanup()

	reportDir := filepath.Join(dir, "maigret")
	res, err := m.run(ctx, m.opts.timeout,
		username,
		"--folderoutput", reportDir,
		"--timeout", seconds(m.opts.siteTimeout),
		"--txt",
	)
	if err != nil {
		return nil, err
	}

	var text strings.Builder
	text.Write(res.Output())
	for _, path := range m.reports(reportDir) {
		data, err := os.ReadFile(path)
		if err != nil {
			m.opts.log.Warn("Unreadable maigret report", zap.String("path", path), zap.Error(err))
			continue
		}
		text.WriteByte('\n')
		text.Write(data)
	}

	records := ProfileRecords(text.String(), m.source())
	return records, m.checkParsed(res, records)
}

// reports lists the .txt reports under dir in name order
func (m *Maigret) reports(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var paths []string
	for _, e := range entries {
		if !e.IsDir() && strings.EqualFold(filepath.Ext(e.Name()), ".txt") {
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(paths)
	return paths
}
