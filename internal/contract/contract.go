// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"time"

	"github.com/huangsam/forecast/schema"
)

// StoreManager defines the interface for managing the history store.
// This allows the storage layer to be mocked for testing.
type StoreManager interface {
	GetHistoryStore() HistoryStore
}

// HistoryStore defines the interface for tracking simulation runs and their trajectories.
type HistoryStore interface {
	// BeginRun registers a new run and returns its unique ID
	BeginRun(startedAt time.Time, meta schema.RunMeta, configParams map[string]any) (int64, error)

	// RecordSamples stores the trajectory of a run
	RecordSamples(runID int64, samples []schema.Sample) error

	// EndRun updates the run with completion data
	EndRun(runID int64, finishedAt time.Time, finalValue float64, sampleCount int) error

	// GetStatus returns status information about the history store
	GetStatus() (schema.HistoryStatus, error)

	// GetAllRuns returns every recorded run ordered by ID
	GetAllRuns() ([]schema.RunRecord, error)

	// GetAllSamples returns every recorded sample ordered by run and sequence
	GetAllSamples() ([]schema.SampleRecord, error)

	// Close closes the underlying connection
	Close() error
}
