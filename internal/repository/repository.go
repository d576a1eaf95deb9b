package repository

import (
	"context"
	"errors"

	"handlescope/internal/domain"
)

// ErrNotFound is returned when a run is not in the store
var ErrNotFound = errors.New("investigation not found")

// Repository persists investigations
type Repository interface {
	// SaveInvestigation writes the run with its records and failures.
	// Saving the same run id again replaces the earlier copy.
	SaveInvestigation(ctx context.Context, inv *domain.Investigation) error

	// GetInvestigation loads a run by id
	GetInvestigation(ctx context.Context, runID string) (*domain.Investigation, error)

	// Close releases resources
	Close() error
}
