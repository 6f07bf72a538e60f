package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// ExpectedSchemaVersion is the latest schema version that the application
// expects. If the database cannot be migrated to this version, it's a
// fatal error.
const ExpectedSchemaVersion = 2

// Migration represents a database schema migration.
type Migration struct {
	Up          func(*sql.Tx) error
	Description string
	Version     int
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Sales table",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS sales (
					order_id INTEGER PRIMARY KEY AUTOINCREMENT,
					order_date DATETIME NOT NULL,
					product_id TEXT NOT NULL,
					quantity INTEGER NOT NULL,
					sales_amount REAL NOT NULL,
					total_price REAL NOT NULL,
					year INTEGER,
					month INTEGER,
					day INTEGER,
					high_value_order BOOLEAN,
					revenue_category TEXT,
					day_of_week TEXT,
					avg_price_per_unit REAL,
					is_weekend BOOLEAN,
					cum_sales_qty INTEGER,
					cum_sales_amount REAL,
					daily_sales_rank INTEGER,
					month_name TEXT,
					sales_growth REAL,
					is_first_sale BOOLEAN,
					increasing_sales BOOLEAN,
					repeat_buyer_flag BOOLEAN,
					customer_id TEXT,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE INDEX idx_sales_order_date ON sales(order_date)`,
				`CREATE INDEX idx_sales_product ON sales(product_id)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
	{
		Version:     2,
		Description: "Daily per-product summary table",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`
				CREATE TABLE IF NOT EXISTS sales_summary (
					summary_date DATETIME NOT NULL,
					product_id TEXT NOT NULL,
					total_quantity INTEGER NOT NULL,
					total_sales REAL NOT NULL,
					average_price REAL,
					high_value_orders INTEGER,
					weekend_sales REAL,
					repeat_buyer_orders INTEGER,
					PRIMARY KEY (summary_date, product_id)
				)
			`)
			return err
		},
	},
}

// Migrate applies all pending database migrations.
func (s *SQLiteStorage) Migrate(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	var currentVersion int
	err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&currentVersion)
	if err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}

	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		tx, txErr := s.db.BeginTx(ctx, nil)
		if txErr != nil {
			return fmt.Errorf("failed to begin transaction: %w", txErr)
		}

		if upErr := migration.Up(tx); upErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", migration.Version, upErr)
		}

		if _, execErr := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", migration.Version)); execErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to update schema version: %w", execErr)
		}

		if commitErr := tx.Commit(); commitErr != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, commitErr)
		}

		slog.Info("Applied migration",
			"version", migration.Version,
			"description", migration.Description)
	}

	var finalVersion int
	err = s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&finalVersion)
	if err != nil {
		return fmt.Errorf("failed to verify final schema version: %w", err)
	}

	if finalVersion != ExpectedSchemaVersion {
		return fmt.Errorf("database schema version mismatch: expected %d, got %d", ExpectedSchemaVersion, finalVersion)
	}

	return nil
}
