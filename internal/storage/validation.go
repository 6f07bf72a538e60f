package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/nikhith-dev/salesflow/internal/model"
)

// Validation errors.
var (
	ErrNilContext    = errors.New("context cannot be nil")
	ErrEmptyString   = errors.New("string parameter cannot be empty")
	ErrInvalidRecord = errors.New("invalid record")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateRecords rejects records that violate the clean-batch
// invariants; anything caught here indicates a transform bug, not bad
// source data.
func validateRecords(records []model.EnrichedRecord) error {
	for i, rec := range records {
		if rec.ProductID == "" {
			return fmt.Errorf("%w at index %d: empty product_id", ErrInvalidRecord, i)
		}
		if rec.OrderDate.IsZero() {
			return fmt.Errorf("%w at index %d: zero order_date", ErrInvalidRecord, i)
		}
		if rec.Quantity < 1 || rec.SalesAmount <= 0 {
			return fmt.Errorf("%w at index %d: non-positive quantity or amount", ErrInvalidRecord, i)
		}
	}
	return nil
}
