package adapter

import (
	"context"
	"errors"

	"handlescope/internal/domain"
)

// ErrParse is returned when a tool ran but its output could not be understood
var ErrParse = errors.New("unparseable tool output")

// Adapter defines the interface for external discovery tools
type Adapter interface {
	// Name returns the unique identifier for this adapter, also the
	// executable name and the suffix of its record source
	Name() string

	// Available reports whether the tool is installed
	Available() bool

	// Discover runs the tool for username. An unavailable tool returns
	// no records and no error.
	Discover(ctx context.Context, username string) ([]*domain.IdentityRecord, error)
}

// AdapterInfo provides read-only information about an adapter
type AdapterInfo struct {
	Name      string `json:"name"`
	Path      string `json:"path,omitempty"`
	Available bool   `json:"available"`
	Enabled   bool   `json:"enabled"`
}

// locator is implemented by adapters that can report their executable
type locator interface {
	Path() string
}
