package service

import (
	"fmt"

	"wardrobe-rental-backend/internal/domain"
)

var transitions = map[domain.BookingStatus][]domain.BookingStatus{
	domain.BookingStatusDraft: {
		domain.BookingStatusWaitingForDelivery,
	},
	domain.BookingStatusWaitingForDelivery: {
		domain.BookingStatusWaitingForReturn,
		domain.BookingStatusPostponed,
	},
	domain.BookingStatusWaitingForReturn: {
		domain.BookingStatusCompleted,
		domain.BookingStatusPostponed,
	},
	domain.BookingStatusPostponed: {
		domain.BookingStatusWaitingForDelivery,
		domain.BookingStatusWaitingForReturn,
	},
}

// CanTransition reports whether a manual status change from -> to is allowed.
func CanTransition(from, to domain.BookingStatus) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// AllowedTransitions lists the statuses reachable from s.
func AllowedTransitions(s domain.BookingStatus) []domain.BookingStatus {
	return append([]domain.BookingStatus(nil), transitions[s]...)
}

func checkTransition(from, to domain.BookingStatus) error {
	if !to.Valid() {
		return fmt.Errorf("%w: unknown status %q", domain.ErrInvalidInput, to)
	}
	if !CanTransition(from, to) {
		return fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, from, to)
	}
	return nil
}

// ValidateForPublish checks everything a booking needs before it can leave Draft.
func ValidateForPublish(b *domain.Booking) error {
	errs := domain.ValidationErrors{}

	if b.CustomerID == "" {
		errs.Add("customerId", "customer is required")
	}

	if len(b.Items) == 0 {
		errs.Add("items", "at least one item is required")
	}
	for i, li := range b.Items {
		if li.ItemID == "" {
			errs.Add("items", fmt.Sprintf("line %d has no item", i+1))
			break
		}
		if _, ok := li.Lease.Variant(); !ok {
			errs.Add("items", fmt.Sprintf("line %d (%s) has no price", i+1, li.ItemID))
			break
		}
	}

	if b.DeliveryDate == nil {
		errs.Add("deliveryDate", "delivery date is required")
	}
	if b.ReturnDate == nil {
		errs.Add("returnDate", "return date is required")
	}
	if b.DeliveryDate != nil && b.ReturnDate != nil && b.ReturnDate.Before(*b.DeliveryDate) {
		errs.Add("returnDate", "return date must be on or after delivery date")
	}

	if b.StartDate == nil {
		errs.Add("startDate", "start date is required")
	}
	if b.EndDate == nil {
		errs.Add("endDate", "end date is required")
	}
	if b.StartDate != nil && b.EndDate != nil && b.EndDate.Before(*b.StartDate) {
		errs.Add("endDate", "end date must be on or after start date")
	}

	return errs.Err()
}

// ValidateDraft accepts any booking with at least one filled-in field.
func ValidateDraft(b *domain.Booking) error {
	if b.CustomerID != "" || len(b.Items) > 0 ||
		b.DeliveryDate != nil || b.ReturnDate != nil ||
		b.StartDate != nil || b.EndDate != nil ||
		b.DeliveryCharge != 0 || b.OtherCharges != 0 ||
		len(b.Advances) > 0 || b.Notes != "" {
		return nil
	}
	return domain.ValidationErrors{"booking": "a draft needs at least one field"}
}

// ValidateForStatus applies the validation policy of the status b is in.
func ValidateForStatus(b *domain.Booking) error {
	if b.Status == domain.BookingStatusDraft {
		return ValidateDraft(b)
	}
	return ValidateForPublish(b)
}
