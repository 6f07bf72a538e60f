package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/nikhith-dev/salesflow/internal/model"
)

// SaveRecords persists a batch of enriched records in one transaction.
// Rows append to the sales table; the surrogate order_id is assigned by
// the database. A failure mid-batch rolls back every row, so a retried
// load starts from a clean slate. onProgress, when non-nil, is invoked
// after each row is staged.
func (s *SQLiteStorage) SaveRecords(ctx context.Context, records []model.EnrichedRecord, onProgress func(done, total int)) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateRecords(records); err != nil {
		return err
	}
	if len(records) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO sales (
			order_date, product_id, quantity, sales_amount, total_price,
			year, month, day, high_value_order, revenue_category,
			day_of_week, avg_price_per_unit, is_weekend, cum_sales_qty, cum_sales_amount,
			daily_sales_rank, month_name, sales_growth, is_first_sale, increasing_sales,
			repeat_buyer_flag, customer_id
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i, rec := range records {
		customerID := sql.NullString{String: rec.CustomerID, Valid: rec.CustomerID != ""}

		if _, err := stmt.ExecContext(ctx,
			rec.OrderDate, rec.ProductID, rec.Quantity, rec.SalesAmount, rec.TotalPrice,
			rec.Year, rec.Month, rec.Day, rec.HighValueOrder, string(rec.RevenueCategory),
			rec.DayOfWeek, rec.AvgPricePerUnit, rec.IsWeekend, rec.CumSalesQty, rec.CumSalesAmount,
			rec.DailySalesRank, rec.MonthName, rec.SalesGrowth, rec.IsFirstSale, rec.IncreasingSales,
			rec.RepeatBuyerFlag, customerID,
		); err != nil {
			return fmt.Errorf("failed to insert record for product %s: %w", rec.ProductID, err)
		}

		if onProgress != nil {
			onProgress(i+1, len(records))
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit records: %w", err)
	}

	slog.Debug("Saved records", "count", len(records))

	return nil
}

// CountRecords returns the number of persisted sales rows.
func (s *SQLiteStorage) CountRecords(ctx context.Context) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}

	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM sales").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count records: %w", err)
	}
	return count, nil
}
