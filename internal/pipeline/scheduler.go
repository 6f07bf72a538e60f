package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// Scheduler runs the pipeline on a recurring cron schedule. Failed runs
// are logged and left to the next scheduled invocation; the Runner's own
// retry policy already handled transient failures within the run.
type Scheduler struct {
	runner *Runner
	cron   *cron.Cron
}

// NewScheduler creates a scheduler around the given runner.
func NewScheduler(runner *Runner) *Scheduler {
	return &Scheduler{
		runner: runner,
		cron:   cron.New(),
	}
}

// Start registers the schedule and blocks until the context is
// canceled, then waits for any in-flight run to finish.
func (s *Scheduler) Start(ctx context.Context, spec string) error {
	_, err := s.cron.AddFunc(spec, func() {
		stats, runErr := s.runner.Run(ctx)
		if runErr != nil {
			slog.Error("Scheduled pipeline run failed", "error", runErr)
			return
		}
		slog.Info("Scheduled pipeline run finished",
			"loaded", stats.Loaded,
			"dropped", stats.Dropped,
			"duration", stats.Duration)
	})
	if err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", spec, err)
	}

	slog.Info("Scheduler started", "schedule", spec)
	s.cron.Start()

	<-ctx.Done()

	stopped := s.cron.Stop()
	<-stopped.Done()

	return nil
}
