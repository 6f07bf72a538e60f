package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nikhith-dev/salesflow/internal/model"
	"github.com/nikhith-dev/salesflow/internal/service"
)

func TestRebuildSummaryAggregates(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	saturday := time.Date(2025, 6, 7, 0, 0, 0, 0, time.UTC)
	monday := time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC)

	recA1 := testRecord(saturday, "P1", 2, 600) // total 1200, weekend
	recA1.HighValueOrder = true
	recA1.RepeatBuyerFlag = true
	recA2 := testRecord(saturday, "P1", 1, 100) // total 100, weekend
	recB := testRecord(monday, "P1", 4, 50)     // total 200, weekday
	recC := testRecord(saturday, "P2", 1, 30)   // different product

	require.NoError(t, store.SaveRecords(ctx, []model.EnrichedRecord{recA1, recA2, recB, recC}, nil))
	require.NoError(t, store.RebuildSummary(ctx))

	summaries, err := store.GetSummaries(ctx, service.SummaryFilter{})
	require.NoError(t, err)
	require.Len(t, summaries, 3)

	// Ordered by (summary_date, product_id).
	p1Sat, p2Sat, p1Mon := summaries[0], summaries[1], summaries[2]

	assert.Equal(t, "P1", p1Sat.ProductID)
	assert.Equal(t, 3, p1Sat.TotalQuantity)
	assert.InDelta(t, 1300.0, p1Sat.TotalSales, 0.0001)
	assert.InDelta(t, 350.0, p1Sat.AveragePrice, 0.0001) // mean of 600 and 100
	assert.Equal(t, 1, p1Sat.HighValueOrders)
	assert.InDelta(t, 1300.0, p1Sat.WeekendSales, 0.0001)
	assert.Equal(t, 1, p1Sat.RepeatBuyerOrders)

	assert.Equal(t, "P2", p2Sat.ProductID)
	assert.Equal(t, 1, p2Sat.TotalQuantity)

	assert.Equal(t, "P1", p1Mon.ProductID)
	assert.InDelta(t, 200.0, p1Mon.TotalSales, 0.0001)
	assert.Zero(t, p1Mon.WeekendSales)
	assert.Zero(t, p1Mon.HighValueOrders)
}

func TestRebuildSummaryReplacesPriorContents(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	date := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, store.SaveRecords(ctx, []model.EnrichedRecord{testRecord(date, "P1", 1, 10)}, nil))

	require.NoError(t, store.RebuildSummary(ctx))
	require.NoError(t, store.RebuildSummary(ctx))

	summaries, err := store.GetSummaries(ctx, service.SummaryFilter{})
	require.NoError(t, err)
	assert.Len(t, summaries, 1, "rebuild must replace, not accumulate")
}

func TestRebuildSummaryEmptySales(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	require.NoError(t, store.RebuildSummary(ctx))

	summaries, err := store.GetSummaries(ctx, service.SummaryFilter{})
	require.NoError(t, err)
	assert.Empty(t, summaries)
}

func TestGetSummariesFilters(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	day1 := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	day2 := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	require.NoError(t, store.SaveRecords(ctx, []model.EnrichedRecord{
		testRecord(day1, "P1", 1, 10),
		testRecord(day1, "P2", 1, 10),
		testRecord(day2, "P1", 1, 10),
	}, nil))
	require.NoError(t, store.RebuildSummary(ctx))

	byProduct, err := store.GetSummaries(ctx, service.SummaryFilter{ProductID: "P1"})
	require.NoError(t, err)
	assert.Len(t, byProduct, 2)

	byDate, err := store.GetSummaries(ctx, service.SummaryFilter{Date: &day1})
	require.NoError(t, err)
	assert.Len(t, byDate, 2)

	limited, err := store.GetSummaries(ctx, service.SummaryFilter{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}
