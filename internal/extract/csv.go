// Package extract reads raw sales batches from tabular sources.
package extract

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/nikhith-dev/salesflow/internal/model"
)

// naTokens are cell values treated as missing, matching what typical
// exports write for null cells.
var naTokens = map[string]bool{
	"":     true,
	"na":   true,
	"n/a":  true,
	"nan":  true,
	"null": true,
	"none": true,
}

// CSVReader implements the extract collaborator for headered CSV files.
type CSVReader struct {
	path string
}

// NewCSVReader creates a reader for the given CSV file path.
func NewCSVReader(path string) *CSVReader {
	return &CSVReader{path: path}
}

// Extract reads the whole file into one RawBatch.
func (r *CSVReader) Extract(ctx context.Context) (model.RawBatch, error) {
	f, err := os.Open(r.path)
	if err != nil {
		return model.RawBatch{}, fmt.Errorf("failed to open input file: %w", err)
	}
	defer func() { _ = f.Close() }()

	batch, err := r.Parse(ctx, f)
	if err != nil {
		return model.RawBatch{}, fmt.Errorf("failed to parse %s: %w", r.path, err)
	}
	return batch, nil
}

// Parse reads headered CSV content into a RawBatch. The header row
// defines which columns the batch carries; unknown columns are ignored
// and short rows pad missing cells as empty. No cleaning happens here —
// cells are handed to the sanitizer as-is beyond missing-token mapping.
func (r *CSVReader) Parse(ctx context.Context, reader io.Reader) (model.RawBatch, error) {
	cr := csv.NewReader(reader)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return model.RawBatch{Columns: map[string]bool{}}, nil
	}
	if err != nil {
		return model.RawBatch{}, fmt.Errorf("failed to read header: %w", err)
	}

	columns := make(map[string]bool, len(header))
	position := make(map[int]string, len(header))
	for i, name := range header {
		col := model.NormalizeColumn(name)
		switch col {
		case model.ColOrderDate, model.ColProductID, model.ColQuantity,
			model.ColSalesAmount, model.ColCustomerID:
			columns[col] = true
			position[i] = col
		default:
			slog.Debug("Ignoring unknown column", "column", name)
		}
	}

	batch := model.RawBatch{Columns: columns}

	for {
		select {
		case <-ctx.Done():
			return model.RawBatch{}, ctx.Err()
		default:
		}

		cells, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return model.RawBatch{}, fmt.Errorf("failed to read row: %w", err)
		}

		var row model.RawRecord
		for i, cell := range cells {
			col, ok := position[i]
			if !ok {
				continue
			}
			if naTokens[strings.ToLower(strings.TrimSpace(cell))] {
				continue
			}
			switch col {
			case model.ColOrderDate:
				row.OrderDate = cell
			case model.ColProductID:
				row.ProductID = cell
			case model.ColQuantity:
				row.Quantity = cell
			case model.ColSalesAmount:
				row.SalesAmount = cell
			case model.ColCustomerID:
				row.CustomerID = cell
			}
		}
		batch.Rows = append(batch.Rows, row)
	}

	slog.Debug("Extracted batch", "rows", len(batch.Rows), "columns", len(columns))

	return batch, nil
}
