package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"wardrobe-rental-backend/internal/domain"
)

type AvailabilityOptions struct {
	// ExcludeBookingID skips the booking being edited so it cannot conflict with itself.
	ExcludeBookingID string
	// IncludeCompleted keeps Completed bookings in the scan. Off by default:
	// a returned item no longer occupies its old window.
	IncludeCompleted bool
}

type Conflict struct {
	BookingID  string               `json:"booking_id"`
	CustomerID string               `json:"customer_id"`
	ItemID     string               `json:"item_id"`
	StartDate  time.Time            `json:"start_date"`
	EndDate    time.Time            `json:"end_date"`
	Status     domain.BookingStatus `json:"status"`
}

type AvailabilityResult struct {
	ItemID    string     `json:"item_id"`
	Available bool       `json:"available"`
	Conflicts []Conflict `json:"conflicts,omitempty"`
}

// AvailabilityError reports every conflicting booking found for a candidate booking.
type AvailabilityError struct {
	Conflicts []Conflict
}

func (e *AvailabilityError) Error() string {
	ids := make([]string, 0, len(e.Conflicts))
	for _, c := range e.Conflicts {
		ids = append(ids, fmt.Sprintf("%s (booking %s)", c.ItemID, c.BookingID))
	}
	return fmt.Sprintf("%s: %s", domain.ErrUnavailable, strings.Join(ids, ", "))
}

func (e *AvailabilityError) Unwrap() error { return domain.ErrUnavailable }

// AsAvailabilityError unwraps err into an *AvailabilityError.
func AsAvailabilityError(err error) (*AvailabilityError, bool) {
	var ae *AvailabilityError
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

// Overlaps uses strict inequalities, so windows that only touch at a boundary
// (one ends the day the next starts) do not overlap.
func Overlaps(start, end, otherStart, otherEnd time.Time) bool {
	return start.Before(otherEnd) && end.After(otherStart)
}

// CheckAvailability scans every booking for one that references itemID and
// overlaps [start, end]. The scan is a linear pass over bookings and their line
// items, O(bookings x items-per-booking); no index is assumed. Bookings without
// both rental dates never block.
func CheckAvailability(itemID string, start, end time.Time, bookings map[string]domain.Booking, opts AvailabilityOptions) AvailabilityResult {
	result := AvailabilityResult{ItemID: itemID, Available: true}

	for id, b := range bookings {
		if id == opts.ExcludeBookingID && opts.ExcludeBookingID != "" {
			continue
		}
		if b.Status == domain.BookingStatusCompleted && !opts.IncludeCompleted {
			continue
		}
		if b.StartDate == nil || b.EndDate == nil {
			continue
		}
		if !b.HasItem(itemID) {
			continue
		}
		if Overlaps(start, end, *b.StartDate, *b.EndDate) {
			result.Conflicts = append(result.Conflicts, Conflict{
				BookingID:  id,
				CustomerID: b.CustomerID,
				ItemID:     itemID,
				StartDate:  *b.StartDate,
				EndDate:    *b.EndDate,
				Status:     b.Status,
			})
		}
	}

	if len(result.Conflicts) > 0 {
		result.Available = false
		sort.Slice(result.Conflicts, func(i, j int) bool {
			return result.Conflicts[i].StartDate.Before(result.Conflicts[j].StartDate)
		})
	}
	return result
}

// CheckItemsAvailability checks each distinct item id and returns nil when all
// of them are free, or an *AvailabilityError listing every conflict.
func CheckItemsAvailability(itemIDs []string, start, end time.Time, bookings map[string]domain.Booking, opts AvailabilityOptions) error {
	var conflicts []Conflict
	for _, itemID := range itemIDs {
		res := CheckAvailability(itemID, start, end, bookings, opts)
		conflicts = append(conflicts, res.Conflicts...)
	}
	if len(conflicts) == 0 {
		return nil
	}
	return &AvailabilityError{Conflicts: conflicts}
}
