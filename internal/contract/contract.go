// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"
	"time"

	"github.com/huangsam/gradestat/schema"
)

// RecordSource yields raw grade records from some input.
// This allows the pipeline to be tested without touching the filesystem.
type RecordSource interface {
	// Records calls fn once per data row, in file order. A non-nil error from fn stops the read.
	Records(ctx context.Context, fn func(schema.RawRecord) error) error

	// Describe returns a short human-readable name of the input.
	Describe() string
}

// StoreManager defines the interface for managing the run history store.
// This allows the store layer to be mocked for testing.
type StoreManager interface {
	GetRunStore() RunStore
}

// RunStore defines the interface for tracking build runs and their published summaries.
type RunStore interface {
	// BeginRun creates a new run and returns its unique ID
	BeginRun(startTime time.Time, inputPath string, configParams map[string]any) (int64, error)

	// RecordSummary stores one published course summary for a run
	RecordSummary(runID int64, summary schema.CourseSummary) error

	// EndRun updates the run with completion data
	EndRun(runID int64, endTime time.Time, stats schema.RunStats) error

	// GetStatus returns status information about the run store
	GetStatus() (schema.RunStoreStatus, error)

	// GetAllRuns returns every run row in ID order
	GetAllRuns() ([]schema.RunRecord, error)

	// GetAllCourseResults returns every recorded summary row in run order
	GetAllCourseResults() ([]schema.CourseRunRecord, error)

	// Close closes the underlying connection
	Close() error
}
