package adapter

import (
	"context"

	"handlescope/internal/domain"
)

// Blackbird runs blackbird and scrapes its console output
type Blackbird struct {
	tool
}

// NewBlackbird creates a blackbird adapter
func NewBlackbird(opts ...Option) *Blackbird {
	return &Blackbird{tool: newTool("blackbird", opts)}
}

// Discover implements Adapter
func (b *Blackbird) Discover(ctx context.Context, username string) ([]*domain.IdentityRecord, error) {
	if !b.Available() {
		return nil, nil
	}

	res, err := b.run(ctx, b.opts.timeout, "--username", username)
	if err != nil {
		return nil, err
	}

	records := ProfileRecords(string(res.Output()), b.source())
	return records, b.checkParsed(res, records)
}
