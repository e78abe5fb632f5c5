package storage

import (
	"context"

	"github.com/mdrysdale/cgtcalc/internal/cgt"
)

// Storage is the interface for persisting capital-gains runs.
type Storage interface {
	// StoreRun stores the results of one pipeline run under a run ID.
	StoreRun(ctx context.Context, runID string, gains []cgt.CapitalGains) error

	// Close closes the storage connection.
	Close() error
}
