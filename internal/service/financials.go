package service

import (
	"wardrobe-rental-backend/internal/domain"
	"wardrobe-rental-backend/internal/utils"
)

// ComputeTotals derives a booking's money fields. Due may go negative when the
// customer has paid more than the total; that overpayment is kept as is.
// Every field is rounded to cents.
func ComputeTotals(items []domain.LineItem, deliveryCharge, otherCharges float64, advances []domain.Advance) domain.BookingTotals {
	var t domain.BookingTotals
	for _, li := range items {
		t.TotalRent += li.CalculatedPrice
	}
	t.TotalRent = utils.RoundMoney(t.TotalRent)
	t.TotalCharges = utils.RoundMoney(deliveryCharge + otherCharges)
	t.TotalAmount = utils.RoundMoney(t.TotalRent + t.TotalCharges)
	for _, a := range advances {
		t.TotalAdvance += a.Amount
	}
	t.TotalAdvance = utils.RoundMoney(t.TotalAdvance)
	t.DueAmount = utils.RoundMoney(t.TotalAmount - t.TotalAdvance)
	return t
}

// ApplyTotals recomputes b.Totals in place from its current lines, charges and advances.
func ApplyTotals(b *domain.Booking) {
	b.Totals = ComputeTotals(b.Items, b.DeliveryCharge, b.OtherCharges, b.Advances)
}
