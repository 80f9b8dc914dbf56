package service

import (
	"context"
	"fmt"
	"sort"

	"wardrobe-rental-backend/internal/domain"
	"wardrobe-rental-backend/internal/logger"
	"wardrobe-rental-backend/internal/repository"
)

// ActivePolicy names which bookings count toward a customer's activeBookings.
type ActivePolicy string

const (
	ActiveExcludesCompleted             ActivePolicy = "exclude-completed"
	ActiveExcludesCompletedAndPostponed ActivePolicy = "exclude-completed-and-postponed"
)

// ActivePredicate returns the single predicate used everywhere a booking is
// classified as active.
func ActivePredicate(policy ActivePolicy) (func(domain.Booking) bool, error) {
	switch policy {
	case "", ActiveExcludesCompleted:
		return func(b domain.Booking) bool {
			return b.Status != domain.BookingStatusCompleted
		}, nil
	case ActiveExcludesCompletedAndPostponed:
		return func(b domain.Booking) bool {
			return b.Status != domain.BookingStatusCompleted && b.Status != domain.BookingStatusPostponed
		}, nil
	default:
		return nil, fmt.Errorf("%w: unknown active booking policy %q", domain.ErrInvalidInput, policy)
	}
}

// DeriveStats recomputes a customer's counters from scratch over the snapshot.
// Overpaid bookings (negative due) do not reduce the outstanding total.
func DeriveStats(customerID string, bookings map[string]domain.Booking, isActive func(domain.Booking) bool) domain.CustomerStats {
	var s domain.CustomerStats
	for _, b := range bookings {
		if b.CustomerID != customerID {
			continue
		}
		s.TotalBookings++
		s.TotalSpent += b.Totals.TotalAmount
		if b.Totals.DueAmount > 0 {
			s.TotalOutstanding += b.Totals.DueAmount
		}
		if isActive(b) {
			s.ActiveBookings++
		}
	}
	return s
}

type customerStatsService struct {
	bookingRepo  repository.BookingRepository
	customerRepo repository.CustomerRepository
	isActive     func(domain.Booking) bool
}

func NewCustomerStatsService(
	bookingRepo repository.BookingRepository,
	customerRepo repository.CustomerRepository,
	policy ActivePolicy,
) (CustomerStatsService, error) {
	isActive, err := ActivePredicate(policy)
	if err != nil {
		return nil, err
	}
	return &customerStatsService{
		bookingRepo:  bookingRepo,
		customerRepo: customerRepo,
		isActive:     isActive,
	}, nil
}

// Recompute reads a fresh booking snapshot and overwrites the customer's four
// counters. Running it twice over the same snapshot writes the same values.
func (s *customerStatsService) Recompute(ctx context.Context, customerID string) (*domain.CustomerStats, error) {
	logger.EnterMethod("customerStatsService.Recompute", "customerID", customerID)

	if customerID == "" {
		return nil, fmt.Errorf("%w: customer id is required", domain.ErrInvalidInput)
	}

	bookings, err := s.bookingRepo.ListAll(ctx)
	if err != nil {
		logger.ExitMethodWithError("customerStatsService.Recompute", err, "customerID", customerID)
		return nil, fmt.Errorf("failed to load bookings: %w", err)
	}

	stats := DeriveStats(customerID, bookings, s.isActive)
	if err := s.customerRepo.UpdateStats(ctx, customerID, stats); err != nil {
		logger.ExitMethodWithError("customerStatsService.Recompute", err, "customerID", customerID)
		return nil, fmt.Errorf("failed to update customer stats: %w", err)
	}

	logger.ExitMethod("customerStatsService.Recompute",
		"customerID", customerID,
		"totalBookings", stats.TotalBookings,
		"activeBookings", stats.ActiveBookings)
	return &stats, nil
}

// RecomputeAll repairs drift for every customer from one booking snapshot. It
// keeps going past a failed customer and returns the first error with the
// count of customers that were written.
func (s *customerStatsService) RecomputeAll(ctx context.Context) (int, error) {
	logger.EnterMethod("customerStatsService.RecomputeAll")

	customers, err := s.customerRepo.ListAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load customers: %w", err)
	}
	bookings, err := s.bookingRepo.ListAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load bookings: %w", err)
	}

	ids := make([]string, 0, len(customers))
	for id := range customers {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var firstErr error
	updated := 0
	for _, id := range ids {
		stats := DeriveStats(id, bookings, s.isActive)
		if stats == customers[id].Stats {
			continue
		}
		if err := s.customerRepo.UpdateStats(ctx, id, stats); err != nil {
			logger.Error("Failed to repair customer stats", "customerID", id, "error", err)
			if firstErr == nil {
				firstErr = fmt.Errorf("failed to update stats for customer %s: %w", id, err)
			}
			continue
		}
		updated++
	}

	logger.ExitMethod("customerStatsService.RecomputeAll", "customers", len(ids), "updated", updated)
	return updated, firstErr
}
