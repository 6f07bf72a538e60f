package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/nikhith-dev/salesflow/internal/extract"
	"github.com/nikhith-dev/salesflow/internal/pipeline"
)

func runCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the ETL pipeline once",
		Long: `Execute one complete pipeline run: read the raw sales export,
sanitize and enrich it, compute the grouped analytics, load the result
into the database, and rebuild the daily summary.`,
		RunE: runPipeline,
	}

	cmd.Flags().StringP("input", "i", "", "path to the raw sales CSV export")
	cmd.Flags().Bool("progress", true, "show a progress bar while loading")

	return cmd
}

func runPipeline(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	input, err := inputPath(cmd)
	if err != nil {
		return err
	}
	showProgress, _ := cmd.Flags().GetBool("progress")

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	config := pipeline.DefaultConfig()
	config.Retry = retryOptions()

	var bar *progressbar.ProgressBar
	if showProgress {
		config.OnLoadProgress = func(done, total int) {
			if bar == nil {
				bar = progressbar.NewOptions(total,
					progressbar.OptionSetWriter(os.Stderr),
					progressbar.OptionShowCount(),
					progressbar.OptionShowElapsedTimeOnFinish(),
					progressbar.OptionSetWidth(40),
					progressbar.OptionSetDescription("Loading records..."),
				)
			}
			_ = bar.Set(done)
		}
	}

	runner := pipeline.NewWithConfig(extract.NewCSVReader(input), store, config)

	stats, err := runner.Run(ctx)
	if err != nil {
		return fmt.Errorf("pipeline run failed: %w", err)
	}
	if bar != nil {
		_ = bar.Finish()
		fmt.Fprintln(os.Stderr)
	}

	slog.Info("Run finished",
		"input", input,
		"raw_rows", stats.RawRows,
		"loaded", stats.Loaded,
		"dropped", stats.Dropped,
		"duration", stats.Duration)

	return nil
}
