package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nikhith-dev/salesflow/internal/model"
)

// Helper function to create test storage.
func createTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store, err := NewSQLiteStorage(dbPath)
	require.NoError(t, err)

	require.NoError(t, store.Migrate(context.Background()))

	t.Cleanup(func() { _ = store.Close() })
	return store
}

// Helper function to create a fully-populated enriched record.
func testRecord(date time.Time, product string, qty int, amount float64) model.EnrichedRecord {
	totalPrice := float64(qty) * amount
	return model.EnrichedRecord{
		OrderDate:       date,
		ProductID:       product,
		CustomerID:      "C1",
		Quantity:        qty,
		SalesAmount:     amount,
		TotalPrice:      totalPrice,
		Year:            date.Year(),
		Month:           int(date.Month()),
		Day:             date.Day(),
		MonthName:       date.Month().String(),
		DayOfWeek:       date.Weekday().String(),
		IsWeekend:       date.Weekday() == time.Saturday || date.Weekday() == time.Sunday,
		RevenueCategory: model.RevenueLow,
		AvgPricePerUnit: amount,
		CumSalesQty:     qty,
		CumSalesAmount:  totalPrice,
		DailySalesRank:  1,
		FirstSaleDate:   date,
		IsFirstSale:     true,
	}
}

func TestNewSQLiteStorageInvalidPath(t *testing.T) {
	_, err := NewSQLiteStorage("")
	assert.Error(t, err)
}

func TestMigrateIsIdempotent(t *testing.T) {
	store := createTestStorage(t)
	require.NoError(t, store.Migrate(context.Background()))
}

func TestSaveRecordsAndCount(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	date := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	records := []model.EnrichedRecord{
		testRecord(date, "P1", 5, 10),
		testRecord(date.AddDate(0, 0, 1), "P2", 2, 20),
	}

	require.NoError(t, store.SaveRecords(ctx, records, nil))

	count, err := store.CountRecords(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	// Appends, does not replace.
	require.NoError(t, store.SaveRecords(ctx, records[:1], nil))
	count, err = store.CountRecords(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestSaveRecordsReportsProgress(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	date := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	records := []model.EnrichedRecord{
		testRecord(date, "P1", 5, 10),
		testRecord(date, "P2", 2, 20),
		testRecord(date.AddDate(0, 0, 1), "P1", 1, 10),
	}

	var seen []int
	require.NoError(t, store.SaveRecords(ctx, records, func(done, total int) {
		assert.Equal(t, len(records), total)
		seen = append(seen, done)
	}))

	assert.Equal(t, []int{1, 2, 3}, seen)
}

func TestSaveRecordsEmptySlice(t *testing.T) {
	store := createTestStorage(t)
	require.NoError(t, store.SaveRecords(context.Background(), nil, nil))
}

func TestSaveRecordsRejectsInvalid(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()
	date := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		mutate func(*model.EnrichedRecord)
		name   string
	}{
		{name: "empty product", mutate: func(r *model.EnrichedRecord) { r.ProductID = "" }},
		{name: "zero date", mutate: func(r *model.EnrichedRecord) { r.OrderDate = time.Time{} }},
		{name: "zero quantity", mutate: func(r *model.EnrichedRecord) { r.Quantity = 0 }},
		{name: "negative amount", mutate: func(r *model.EnrichedRecord) { r.SalesAmount = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := testRecord(date, "P1", 1, 10)
			tt.mutate(&rec)
			err := store.SaveRecords(ctx, []model.EnrichedRecord{rec}, nil)
			assert.ErrorIs(t, err, ErrInvalidRecord)
		})
	}

	// Nothing was persisted.
	count, err := store.CountRecords(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestSaveRecordsPersistsColumns(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	date := time.Date(2025, 6, 7, 0, 0, 0, 0, time.UTC) // Saturday
	rec := testRecord(date, "P1", 2, 600)
	rec.RevenueCategory = model.RevenueVeryHigh
	rec.HighValueOrder = true
	rec.SalesGrowth = 0.25
	rec.RepeatBuyerFlag = true

	require.NoError(t, store.SaveRecords(ctx, []model.EnrichedRecord{rec}, nil))

	var (
		product, category, dayOfWeek, customer string
		highValue, isWeekend, repeat           bool
		growth                                 float64
		rank                                   int
	)
	row := store.db.QueryRowContext(ctx, `
		SELECT product_id, revenue_category, day_of_week, customer_id,
		       high_value_order, is_weekend, repeat_buyer_flag,
		       sales_growth, daily_sales_rank
		FROM sales
	`)
	require.NoError(t, row.Scan(&product, &category, &dayOfWeek, &customer,
		&highValue, &isWeekend, &repeat, &growth, &rank))

	assert.Equal(t, "P1", product)
	assert.Equal(t, "Very High", category)
	assert.Equal(t, "Saturday", dayOfWeek)
	assert.Equal(t, "C1", customer)
	assert.True(t, highValue)
	assert.True(t, isWeekend)
	assert.True(t, repeat)
	assert.InDelta(t, 0.25, growth, 0.0001)
	assert.Equal(t, 1, rank)
}

func TestSaveRecordsNullCustomer(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	rec := testRecord(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), "P1", 1, 10)
	rec.CustomerID = ""
	require.NoError(t, store.SaveRecords(ctx, []model.EnrichedRecord{rec}, nil))

	var nullCustomers int
	err := store.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM sales WHERE customer_id IS NULL").Scan(&nullCustomers)
	require.NoError(t, err)
	assert.Equal(t, 1, nullCustomers)
}
