// Package etl implements the batch transformation pipeline: sanitization,
// per-record enrichment, grouped analytics, and final assembly.
package etl

import (
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/nikhith-dev/salesflow/internal/common"
	"github.com/nikhith-dev/salesflow/internal/model"
)

// Bounds for outlier rejection, applied to the raw per-unit values
// before total_price exists.
const (
	maxQuantity    = 1000
	maxSalesAmount = 10000.0
)

// requiredColumns must all be present in the batch for sanitization to
// proceed; their absence is a structural failure, not a data-quality one.
var requiredColumns = []string{model.ColOrderDate, model.ColProductID, model.ColSalesAmount}

// dateLayouts are the order_date formats accepted from the source, tried
// in order. Anything else drops the record.
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// Sanitize cleans one raw batch into a CleanBatch. Filtering happens in a
// fixed step order, each step operating on the survivors of the previous;
// input order is preserved so downstream re-sorts are deterministic.
// Malformed records are dropped silently. The only error is a missing
// required column, which makes the whole batch unprocessable.
func Sanitize(batch model.RawBatch, now time.Time) (model.CleanBatch, error) {
	for _, col := range requiredColumns {
		if !batch.HasColumn(col) {
			return model.CleanBatch{}, fmt.Errorf("%w: %s", common.ErrSchemaMismatch, col)
		}
	}

	out := model.CleanBatch{
		HasCustomerDim: batch.HasColumn(model.ColCustomerID),
	}

	// Cutoff evaluated once for the whole run, not per record.
	cutoff := now.AddDate(-2, 0, 0)

	seen := make(map[model.RawRecord]struct{}, len(batch.Rows))
	dropped := 0

	for _, row := range batch.Rows {
		// Exact full-row duplicates collapse to the first occurrence.
		if _, dup := seen[row]; dup {
			dropped++
			continue
		}
		seen[row] = struct{}{}

		// Missing required fields. Normalization (trim, upper) happens
		// here so the clean record invariant holds on exit; the
		// enricher's own upper-casing is idempotent on top.
		productID := strings.ToUpper(strings.TrimSpace(row.ProductID))
		if row.OrderDate == "" || productID == "" || row.SalesAmount == "" {
			dropped++
			continue
		}

		orderDate, ok := parseOrderDate(row.OrderDate)
		if !ok {
			dropped++
			continue
		}

		quantity := parseQuantity(row.Quantity)
		salesAmount := parseSalesAmount(row.SalesAmount)

		if salesAmount <= 0 || quantity <= 0 {
			dropped++
			continue
		}
		if salesAmount > maxSalesAmount || quantity > maxQuantity {
			dropped++
			continue
		}
		if orderDate.Before(cutoff) {
			dropped++
			continue
		}

		out.Records = append(out.Records, model.CleanRecord{
			OrderDate:   orderDate,
			ProductID:   productID,
			CustomerID:  row.CustomerID,
			Quantity:    quantity,
			SalesAmount: salesAmount,
		})
	}

	slog.Debug("Sanitized batch",
		"input", len(batch.Rows),
		"survived", len(out.Records),
		"dropped", dropped,
		"has_customer_dim", out.HasCustomerDim)

	return out, nil
}

func parseOrderDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// parseQuantity coerces a numeric-like cell to an integer, truncating
// fractional values toward zero. Unparsable values become 0 and fall to
// the non-positive filter.
func parseQuantity(value string) int {
	f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return int(math.Trunc(f))
}

// parseSalesAmount coerces a numeric-like cell to a float. Unparsable
// values become 0.0 and fall to the non-positive filter.
func parseSalesAmount(value string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0.0
	}
	return f
}
