// Package pipeline orchestrates one ETL run: extract, transform, load,
// and summary rebuild, executed in sequence as one atomic unit of work.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/nikhith-dev/salesflow/internal/common"
	"github.com/nikhith-dev/salesflow/internal/etl"
	"github.com/nikhith-dev/salesflow/internal/service"
)

// Runner executes the full pipeline against one extractor and one store.
type Runner struct {
	extractor      service.Extractor
	storage        service.Storage
	now            func() time.Time
	onLoadProgress func(done, total int)
	retry          service.RetryOptions
}

// Config holds configuration options for the pipeline runner.
type Config struct {
	Now            func() time.Time
	OnLoadProgress func(done, total int)
	Retry          service.RetryOptions
}

// DefaultConfig returns the default configuration: one retry after five
// minutes.
func DefaultConfig() Config {
	return Config{
		Retry: service.RetryOptions{
			MaxAttempts:  2,
			InitialDelay: 5 * time.Minute,
			MaxDelay:     5 * time.Minute,
			Multiplier:   1.0,
		},
	}
}

// RunStats summarizes one completed pipeline run.
type RunStats struct {
	Started  time.Time
	Duration time.Duration
	RawRows  int
	Loaded   int
	Dropped  int
}

// New creates a pipeline runner with the default configuration.
func New(extractor service.Extractor, storage service.Storage) *Runner {
	return NewWithConfig(extractor, storage, DefaultConfig())
}

// NewWithConfig creates a pipeline runner with custom configuration.
func NewWithConfig(extractor service.Extractor, storage service.Storage, config Config) *Runner {
	if config.Now == nil {
		config.Now = time.Now
	}
	return &Runner{
		extractor:      extractor,
		storage:        storage,
		now:            config.Now,
		onLoadProgress: config.OnLoadProgress,
		retry:          config.Retry,
	}
}

// Run executes the pipeline, retrying the whole unit on transient
// failure. Structural failures (missing required columns) are not
// retried; re-running cannot succeed until the input changes.
func (r *Runner) Run(ctx context.Context) (*RunStats, error) {
	var stats *RunStats

	err := common.WithRetry(ctx, func() error {
		var runErr error
		stats, runErr = r.runOnce(ctx)
		return runErr
	}, r.retry)
	if err != nil {
		return nil, err
	}

	return stats, nil
}

func (r *Runner) runOnce(ctx context.Context) (*RunStats, error) {
	started := r.now()
	slog.Info("Starting pipeline run")

	batch, err := r.extractor.Extract(ctx)
	if err != nil {
		return nil, fmt.Errorf("extract failed: %w", err)
	}

	records, err := etl.Transform(batch, r.now())
	if err != nil {
		return nil, fmt.Errorf("transform failed: %w", err)
	}

	// One SaveRecords call per attempt: the load commits as a single
	// transaction, so a retried run never duplicates rows persisted by
	// a failed attempt.
	if err := r.storage.SaveRecords(ctx, records, r.onLoadProgress); err != nil {
		return nil, fmt.Errorf("load failed: %w", err)
	}

	if err := r.storage.RebuildSummary(ctx); err != nil {
		return nil, fmt.Errorf("summary rebuild failed: %w", err)
	}

	stats := &RunStats{
		Started:  started,
		Duration: r.now().Sub(started),
		RawRows:  len(batch.Rows),
		Loaded:   len(records),
		Dropped:  len(batch.Rows) - len(records),
	}

	slog.Info("Pipeline run complete",
		"raw_rows", stats.RawRows,
		"loaded", stats.Loaded,
		"dropped", stats.Dropped,
		"duration", stats.Duration)

	return stats, nil
}
