// Package model defines the record types that flow through the ETL pipeline.
package model

import (
	"strings"
	"time"
)

// Column names expected from the tabular source.
const (
	ColOrderDate   = "order_date"
	ColProductID   = "product_id"
	ColQuantity    = "quantity"
	ColSalesAmount = "sales_amount"
	ColCustomerID  = "customer_id"
)

// UnknownCustomer is the sentinel stored when a record in a batch that
// carries the customer dimension has no customer_id of its own.
const UnknownCustomer = "Unknown"

// RawRecord is one row exactly as ingested. Every field is the raw cell
// text; the empty string means the cell was missing. The struct is
// comparable so exact-duplicate rows can be detected with a map lookup.
type RawRecord struct {
	OrderDate   string
	ProductID   string
	Quantity    string
	SalesAmount string
	CustomerID  string
}

// RawBatch is one complete ingested batch: the rows plus the set of
// columns the source actually carried. Column presence is batch-level
// information a single row cannot express (a row with an empty
// customer_id cell is different from a source with no customer_id
// column at all).
type RawBatch struct {
	Columns map[string]bool
	Rows    []RawRecord
}

// HasColumn reports whether the source carried the named column.
func (b RawBatch) HasColumn(name string) bool {
	return b.Columns[name]
}

// CleanRecord is a RawRecord that survived sanitization.
// Invariants: Quantity in [1,1000], SalesAmount in (0,10000], OrderDate
// parsed and within the trailing two-year window of the pipeline run.
// CustomerID may still be empty; the Unknown fill happens at enrichment.
type CleanRecord struct {
	OrderDate   time.Time
	ProductID   string
	CustomerID  string
	Quantity    int
	SalesAmount float64
}

// CleanBatch is the sanitizer's output: the surviving records in input
// order plus the customer-dimension capability flag, resolved once at
// sanitizer entry.
type CleanBatch struct {
	Records        []CleanRecord
	HasCustomerDim bool
}

// RevenueCategory bins a record's total price.
type RevenueCategory string

// Revenue category bins on total_price at thresholds 100/500/1000.
const (
	RevenueLow      RevenueCategory = "Low"
	RevenueMedium   RevenueCategory = "Medium"
	RevenueHigh     RevenueCategory = "High"
	RevenueVeryHigh RevenueCategory = "Very High"
)

// EnrichedRecord is a CleanRecord plus all derived and grouped-analytics
// fields.
//
// Pointer-typed fields are trailing-window or lag values; nil means the
// window or lag is undefined because not enough prior records exist
// within the group.
type EnrichedRecord struct {
	OrderDate   time.Time
	ProductID   string
	CustomerID  string
	Quantity    int
	SalesAmount float64

	// Per-record derivations (Enricher).
	TotalPrice      float64
	Year            int
	Month           int
	Day             int
	MonthName       string
	DayOfWeek       string
	IsWeekend       bool
	RevenueCategory RevenueCategory
	HighValueOrder  bool
	AvgPricePerUnit float64

	// Grouped analytics (per product group, ordered by date).
	CumSalesQty      int
	CumSalesAmount   float64
	DailySalesRank   int
	Sales3DayAvg     *float64
	PrevSales3DayAvg *float64
	IncreasingSales  bool
	PrevDaySales     *float64
	SalesGrowth      float64
	FirstSaleDate    time.Time
	IsFirstSale      bool

	// Customer dimension; zero-valued when the batch has no customer_id
	// column.
	CustomerDailyPurchases int
	RepeatBuyerFlag        bool
}

// DateKey returns the record's order date in a form usable as a map key
// for same-day grouping. Two records share a key iff their order dates
// compare equal to the second, which covers every format the sanitizer
// accepts.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02 15:04:05")
}

// NormalizeColumn canonicalizes a source header name for comparison
// against the Col* constants.
func NormalizeColumn(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
