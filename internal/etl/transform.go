package etl

import (
	"log/slog"
	"time"

	"github.com/nikhith-dev/salesflow/internal/model"
)

// Transform runs the full batch pipeline: sanitize, enrich, compute
// grouped analytics, and assemble the final record set. The result is
// emitted under order B (product_id asc, order_date asc, stable), the
// ordering most of the analytics fields are defined against, so a fixed
// input always reproduces the same output sequence.
//
// An empty batch transforms to an empty result without error; the only
// failure mode is a required column missing from the batch entirely.
func Transform(batch model.RawBatch, now time.Time) ([]model.EnrichedRecord, error) {
	clean, err := Sanitize(batch, now)
	if err != nil {
		return nil, err
	}

	enriched := Enrich(clean)
	ComputeAnalytics(enriched, clean.HasCustomerDim)

	out := make([]model.EnrichedRecord, 0, len(enriched))
	for _, idx := range orderByProductDate(enriched) {
		out = append(out, enriched[idx])
	}

	slog.Info("Transformed batch",
		"raw", len(batch.Rows),
		"enriched", len(out),
		"has_customer_dim", clean.HasCustomerDim)

	return out, nil
}
