package model

import "time"

// DailySummary is one row of the per-product daily aggregate, keyed by
// (SummaryDate, ProductID). It is materialized from the persisted record
// set, not the in-memory one, and fully replaced on each pipeline run.
type DailySummary struct {
	SummaryDate       time.Time
	ProductID         string
	TotalQuantity     int
	TotalSales        float64
	AveragePrice      float64
	HighValueOrders   int
	WeekendSales      float64
	RepeatBuyerOrders int
}
