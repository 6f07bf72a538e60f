package storage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nikhith-dev/salesflow/internal/model"
	"github.com/nikhith-dev/salesflow/internal/service"
)

// RebuildSummary rematerializes the daily per-product aggregate from the
// persisted sales table. Prior summary contents are fully replaced; this
// is a complete recompute, not an incremental update.
func (s *SQLiteStorage) RebuildSummary(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM sales_summary"); err != nil {
		return fmt.Errorf("failed to clear summary: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO sales_summary (
			summary_date, product_id, total_quantity, total_sales,
			average_price, high_value_orders, weekend_sales, repeat_buyer_orders
		)
		SELECT
			order_date AS summary_date,
			product_id,
			SUM(quantity) AS total_quantity,
			SUM(total_price) AS total_sales,
			AVG(avg_price_per_unit) AS average_price,
			SUM(CASE WHEN high_value_order THEN 1 ELSE 0 END) AS high_value_orders,
			SUM(CASE WHEN is_weekend THEN total_price ELSE 0 END) AS weekend_sales,
			SUM(CASE WHEN repeat_buyer_flag THEN 1 ELSE 0 END) AS repeat_buyer_orders
		FROM sales
		GROUP BY order_date, product_id
	`); err != nil {
		return fmt.Errorf("failed to rebuild summary: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit summary: %w", err)
	}

	slog.Debug("Rebuilt sales summary")

	return nil
}

// GetSummaries returns summary rows matching the filter, ordered by
// (summary_date, product_id).
func (s *SQLiteStorage) GetSummaries(ctx context.Context, filter service.SummaryFilter) ([]model.DailySummary, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `
		SELECT summary_date, product_id, total_quantity, total_sales,
		       average_price, high_value_orders, weekend_sales, repeat_buyer_orders
		FROM sales_summary
		WHERE 1=1
	`
	var args []any

	if filter.Date != nil {
		query += " AND date(summary_date) = date(?)"
		args = append(args, *filter.Date)
	}
	if filter.ProductID != "" {
		query += " AND product_id = ?"
		args = append(args, filter.ProductID)
	}

	query += " ORDER BY summary_date, product_id"

	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query summaries: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var summaries []model.DailySummary
	for rows.Next() {
		var sum model.DailySummary
		if err := rows.Scan(
			&sum.SummaryDate, &sum.ProductID, &sum.TotalQuantity, &sum.TotalSales,
			&sum.AveragePrice, &sum.HighValueOrders, &sum.WeekendSales, &sum.RepeatBuyerOrders,
		); err != nil {
			return nil, fmt.Errorf("failed to scan summary: %w", err)
		}
		summaries = append(summaries, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate summaries: %w", err)
	}

	return summaries, nil
}
