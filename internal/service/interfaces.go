// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/nikhith-dev/salesflow/internal/model"
)

// Extractor supplies one complete raw batch from a tabular source.
type Extractor interface {
	Extract(ctx context.Context) (model.RawBatch, error)
}

// SummaryFilter defines filtering options for summary queries.
type SummaryFilter struct {
	Date      *time.Time
	ProductID string
	Limit     int
}

// Storage defines the contract for our persistence layer.
type Storage interface {
	// Schema management
	Migrate(ctx context.Context) error

	// Record operations. SaveRecords persists the whole batch in one
	// transaction: either every record commits or none does, so a
	// retried run never re-persists rows from a failed attempt. The
	// optional onProgress callback reports rows staged so far.
	SaveRecords(ctx context.Context, records []model.EnrichedRecord, onProgress func(done, total int)) error
	CountRecords(ctx context.Context) (int, error)

	// Summary operations: RebuildSummary fully replaces the daily
	// per-product aggregate from the persisted record set.
	RebuildSummary(ctx context.Context) error
	GetSummaries(ctx context.Context, filter SummaryFilter) ([]model.DailySummary, error)

	Close() error
}

// RetryOptions configures retry behavior for pipeline runs.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
