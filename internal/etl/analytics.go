package etl

import (
	"sort"

	"github.com/nikhith-dev/salesflow/internal/model"
)

// The grouped computations each need the batch viewed under a specific
// ordering. Rather than re-sorting the collection in place between
// steps, each ordering is an index view over the immutable base slice:
//
//	order A: (order_date asc, product_id asc) — dense rank per day
//	order B: (product_id asc, order_date asc) — all per-product scans
//
// Both sorts are stable so records tied on the full key keep their
// insertion order, which makes every sequential computation
// deterministic for a fixed input.

// orderByProductDate returns record indices under order B.
func orderByProductDate(records []model.EnrichedRecord) []int {
	idxs := make([]int, len(records))
	for i := range idxs {
		idxs[i] = i
	}
	sort.SliceStable(idxs, func(a, b int) bool {
		ra, rb := records[idxs[a]], records[idxs[b]]
		if ra.ProductID != rb.ProductID {
			return ra.ProductID < rb.ProductID
		}
		return ra.OrderDate.Before(rb.OrderDate)
	})
	return idxs
}

// orderByDateProduct returns record indices under order A.
func orderByDateProduct(records []model.EnrichedRecord) []int {
	idxs := make([]int, len(records))
	for i := range idxs {
		idxs[i] = i
	}
	sort.SliceStable(idxs, func(a, b int) bool {
		ra, rb := records[idxs[a]], records[idxs[b]]
		if !ra.OrderDate.Equal(rb.OrderDate) {
			return ra.OrderDate.Before(rb.OrderDate)
		}
		return ra.ProductID < rb.ProductID
	})
	return idxs
}

// ComputeAnalytics fills in every grouped-analytics field on the records
// in place. Records are only appended to, never re-ordered; callers that
// need a specific emission order sort afterwards.
//
// When hasCustomerDim is false the customer computations are skipped
// entirely: repeat_buyer_flag stays false and customer_daily_purchases
// stays zero for every record.
func ComputeAnalytics(records []model.EnrichedRecord, hasCustomerDim bool) {
	if len(records) == 0 {
		return
	}

	orderB := orderByProductDate(records)
	forEachRun(orderB, func(i int) string { return records[i].ProductID }, func(group []int) {
		computeProductGroup(records, group)
	})

	orderA := orderByDateProduct(records)
	forEachRun(orderA, func(i int) string { return model.DateKey(records[i].OrderDate) }, func(group []int) {
		rankDay(records, group)
	})

	if hasCustomerDim {
		computeCustomerDaily(records)
	}
}

// forEachRun invokes fn on each maximal run of consecutive indices
// sharing a key. The index slice must already be sorted so that equal
// keys are contiguous.
func forEachRun(idxs []int, key func(int) string, fn func(group []int)) {
	start := 0
	for i := 1; i <= len(idxs); i++ {
		if i == len(idxs) || key(idxs[i]) != key(idxs[start]) {
			fn(idxs[start:i])
			start = i
		}
	}
}

// computeProductGroup runs every per-product sequential computation over
// one product group, ordered by date: cumulative sums, lag-1 growth,
// trailing 3-record rolling mean, and the first-sale flag. A group of
// size 1 yields the no-prior sentinels (growth 0, nil windows,
// is_first_sale true) without special-casing.
func computeProductGroup(records []model.EnrichedRecord, group []int) {
	// Group is date-ascending, so the first record carries the minimum.
	firstSaleDate := records[group[0]].OrderDate

	var cumQty int
	var cumAmount float64
	var window []float64
	var prevAvg *float64

	for pos, idx := range group {
		rec := &records[idx]

		cumQty += rec.Quantity
		cumAmount += rec.TotalPrice
		rec.CumSalesQty = cumQty
		rec.CumSalesAmount = cumAmount

		rec.FirstSaleDate = firstSaleDate
		rec.IsFirstSale = rec.OrderDate.Equal(firstSaleDate)

		if pos > 0 {
			prev := records[group[pos-1]].TotalPrice
			rec.PrevDaySales = &prev
			if prev != 0 {
				rec.SalesGrowth = (rec.TotalPrice - prev) / prev
			}
		}

		window = append(window, rec.TotalPrice)
		if len(window) > 3 {
			window = window[1:]
		}
		if len(window) == 3 {
			avg := (window[0] + window[1] + window[2]) / 3
			rec.Sales3DayAvg = &avg
		}
		rec.PrevSales3DayAvg = prevAvg
		if rec.Sales3DayAvg != nil && prevAvg != nil {
			rec.IncreasingSales = *rec.Sales3DayAvg > *prevAvg
		}
		prevAvg = rec.Sales3DayAvg
	}
}

// rankDay assigns the dense rank of total_price, descending, within one
// order_date group: rank 1 is the day's highest total_price, ties share
// a rank, and the next distinct value takes the next integer.
func rankDay(records []model.EnrichedRecord, group []int) {
	prices := make([]float64, 0, len(group))
	seen := make(map[float64]bool, len(group))
	for _, idx := range group {
		p := records[idx].TotalPrice
		if !seen[p] {
			seen[p] = true
			prices = append(prices, p)
		}
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(prices)))

	rank := make(map[float64]int, len(prices))
	for i, p := range prices {
		rank[p] = i + 1
	}
	for _, idx := range group {
		records[idx].DailySalesRank = rank[records[idx].TotalPrice]
	}
}

type customerDay struct {
	customerID string
	day        string
}

// computeCustomerDaily counts records per (customer_id, order_date) and
// flags customers with more than one purchase in a day.
func computeCustomerDaily(records []model.EnrichedRecord) {
	counts := make(map[customerDay]int, len(records))
	for i := range records {
		counts[customerDay{records[i].CustomerID, model.DateKey(records[i].OrderDate)}]++
	}
	for i := range records {
		rec := &records[i]
		rec.CustomerDailyPurchases = counts[customerDay{rec.CustomerID, model.DateKey(rec.OrderDate)}]
		rec.RepeatBuyerFlag = rec.CustomerDailyPurchases > 1
	}
}
