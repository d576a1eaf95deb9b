package adapter

import (
	"context"
	"path/filepath"

	"handlescope/internal/domain"
)

// Sherlock runs sherlock and reads the result file it writes
type Sherlock struct {
	tool
}

// NewSherlock creates a sherlock adapter
func NewSherlock(opts ...Option) *Sherlock {
	return &Sherlock{tool: newTool("sherlock", opts)}
}

// Discover implements Adapter
func (s *Sherlock) Discover(ctx context.Context, username string) ([]*domain.IdentityRecord, error) {
	if !s.Available() {
		return nil, nil
	}

	dir, cleanup, err := s.workDir()
	if err != nil {
		return nil, err
	}
	defer cleanup()

	outFile := filepath.Join(dir, "sherlock_results.txt")
	res, err := s.run(ctx, s.opts.timeout,
		username,
		"--output", outFile,
		"--timeout", seconds(s.opts.siteTimeout),
	)
	if err != nil {
		return nil, err
	}

	text, err := readOutput(outFile, res)
	if err != nil {
		return nil, err
	}

	records := ProfileRecords(text, s.source())
	return records, s.checkParsed(res, records)
}
