package utils

import (
	"math"
	"time"

	"wardrobe-rental-backend/internal/domain"
)

const dayDuration = 24 * time.Hour

// RentalDays returns the number of charged days between start and end, counting
// both boundary days: max(1, ceil((end-start)/1 day) + 1).
func RentalDays(start, end time.Time) int {
	diff := end.Sub(start)
	days := int(math.Ceil(float64(diff)/float64(dayDuration))) + 1
	if days < 1 {
		days = 1
	}
	return days
}

// CalculateLinePrice prices a single rented item. It fails soft: a missing
// lease price, or missing dates for a per-day lease, yields 0 so that an
// incomplete draft can still be saved.
func CalculateLinePrice(lease domain.LeasePrice, start, end *time.Time) float64 {
	if lease == nil {
		return 0
	}

	var price float64
	switch p := lease.(type) {
	case domain.FixedPrice:
		price = p.Value
	case domain.PerDayPrice:
		if start == nil || end == nil {
			return 0
		}
		price = float64(RentalDays(*start, *end)) * p.Rate
	case domain.RangePrice:
		// The upper bound is informational; bookings are charged the lower bound.
		price = p.Min
	}

	if price < 0 {
		return 0
	}
	return price
}

// CalculateTermsPrice is CalculateLinePrice over the stored lease form.
func CalculateTermsPrice(terms domain.LeaseTerms, start, end *time.Time) float64 {
	lease, ok := terms.Variant()
	if !ok {
		return 0
	}
	return CalculateLinePrice(lease, start, end)
}
