package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/nikhith-dev/salesflow/internal/common"
	"github.com/nikhith-dev/salesflow/internal/service"
	"github.com/nikhith-dev/salesflow/internal/storage"
)

// initStorage opens the configured database and brings the schema up to
// date.
func initStorage(ctx context.Context) (service.Storage, error) {
	dbPath := expandPath(viper.GetString("database.path"))

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// expandPath expands ~ and environment variables in a file path.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[2:])
		}
	} else if path == "~" {
		if home, err := os.UserHomeDir(); err == nil {
			path = home
		}
	}
	return os.ExpandEnv(path)
}

// inputPath resolves the raw export path from the --input flag, falling
// back to the input.path config key.
func inputPath(cmd *cobra.Command) (string, error) {
	path, _ := cmd.Flags().GetString("input")
	if path == "" {
		path = viper.GetString("input.path")
	}
	if path == "" {
		return "", fmt.Errorf("%w: no input file given (use --input or set input.path)", common.ErrMissingConfig)
	}
	return expandPath(path), nil
}

// retryOptions builds the pipeline retry policy from config.
func retryOptions() service.RetryOptions {
	delay := viper.GetDuration("retry.delay")
	return service.RetryOptions{
		MaxAttempts:  viper.GetInt("retry.max_attempts"),
		InitialDelay: delay,
		MaxDelay:     delay,
		Multiplier:   1.0,
	}
}
