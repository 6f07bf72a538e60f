package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/nikhith-dev/salesflow/internal/extract"
	"github.com/nikhith-dev/salesflow/internal/pipeline"
)

func scheduleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Run the ETL pipeline on a recurring cron schedule",
		Long: `Start a long-running scheduler that executes a full pipeline run on
the given cron schedule until interrupted.`,
		RunE: runSchedule,
	}

	cmd.Flags().StringP("input", "i", "", "path to the raw sales CSV export")
	cmd.Flags().String("cron", "0 2 * * *", "cron schedule (standard 5-field syntax)")

	return cmd
}

func runSchedule(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	input, err := inputPath(cmd)
	if err != nil {
		return err
	}
	cronSpec, _ := cmd.Flags().GetString("cron")
	if !cmd.Flags().Changed("cron") && viper.IsSet("schedule.cron") {
		cronSpec = viper.GetString("schedule.cron")
	}

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	config := pipeline.DefaultConfig()
	config.Retry = retryOptions()

	runner := pipeline.NewWithConfig(extract.NewCSVReader(input), store, config)

	return pipeline.NewScheduler(runner).Start(ctx, cronSpec)
}
