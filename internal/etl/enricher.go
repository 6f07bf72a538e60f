package etl

import (
	"strings"
	"time"

	"github.com/nikhith-dev/salesflow/internal/model"
)

// Enrich derives the per-record fields for every clean record. It is a
// pure per-record function with no cross-record dependency, so the input
// order carries through unchanged.
func Enrich(batch model.CleanBatch) []model.EnrichedRecord {
	out := make([]model.EnrichedRecord, len(batch.Records))
	for i, rec := range batch.Records {
		out[i] = enrichRecord(rec, batch.HasCustomerDim)
	}
	return out
}

func enrichRecord(rec model.CleanRecord, hasCustomerDim bool) model.EnrichedRecord {
	totalPrice := float64(rec.Quantity) * rec.SalesAmount
	weekday := rec.OrderDate.Weekday()

	customerID := rec.CustomerID
	if hasCustomerDim && customerID == "" {
		customerID = model.UnknownCustomer
	}

	avgPricePerUnit := rec.SalesAmount
	if rec.Quantity != 0 {
		avgPricePerUnit = totalPrice / float64(rec.Quantity)
	}

	return model.EnrichedRecord{
		OrderDate:   rec.OrderDate,
		ProductID:   strings.ToUpper(rec.ProductID),
		CustomerID:  customerID,
		Quantity:    rec.Quantity,
		SalesAmount: rec.SalesAmount,

		TotalPrice:      totalPrice,
		Year:            rec.OrderDate.Year(),
		Month:           int(rec.OrderDate.Month()),
		Day:             rec.OrderDate.Day(),
		MonthName:       rec.OrderDate.Month().String(),
		DayOfWeek:       weekday.String(),
		IsWeekend:       weekday == time.Saturday || weekday == time.Sunday,
		RevenueCategory: binRevenue(totalPrice),
		HighValueOrder:  totalPrice > 1000,
		AvgPricePerUnit: avgPricePerUnit,
	}
}

// binRevenue buckets total_price into revenue categories. Bins are
// exclusive-lower/inclusive-upper; total_price is always > 0 upstream so
// everything lands in a bucket.
func binRevenue(totalPrice float64) model.RevenueCategory {
	switch {
	case totalPrice <= 100:
		return model.RevenueLow
	case totalPrice <= 500:
		return model.RevenueMedium
	case totalPrice <= 1000:
		return model.RevenueHigh
	default:
		return model.RevenueVeryHigh
	}
}
