package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"wardrobe-rental-backend/internal/domain"
	"wardrobe-rental-backend/internal/logger"
	"wardrobe-rental-backend/internal/repository"
	"wardrobe-rental-backend/internal/utils"
)

// LineRequest asks for one item on a booking. Lease, when set, overrides the
// lease snapshot for this booking only.
type LineRequest struct {
	ItemID string             `json:"item_id"`
	Lease  *domain.LeaseTerms `json:"lease,omitempty"`
}

// BookingInput holds the editable fields of a booking.
type BookingInput struct {
	CustomerID     string
	Items          []LineRequest
	DeliveryDate   *time.Time
	ReturnDate     *time.Time
	StartDate      *time.Time
	EndDate        *time.Time
	DeliveryCharge float64
	OtherCharges   float64
	// On update a nil Advances keeps the recorded payments; an empty slice
	// clears them.
	Advances []domain.Advance
	Notes    string
}

type CreateBookingRequest struct {
	BookingInput
	AsDraft               bool
	SkipAvailabilityCheck bool
}

type UpdateBookingRequest struct {
	BookingInput
	SkipAvailabilityCheck bool
}

type QuoteRequest struct {
	BookingInput
	ExcludeBookingID string
}

// Quote is a priced booking that was never written.
type Quote struct {
	Items        []domain.LineItem    `json:"items"`
	Totals       domain.BookingTotals `json:"totals"`
	RentalDays   int                  `json:"rental_days,omitempty"`
	Availability []AvailabilityResult `json:"availability,omitempty"`
}

type bookingService struct {
	bookingRepo repository.BookingRepository
	itemRepo    repository.ItemRepository
	statsSvc    CustomerStatsService
	metrics     Metrics
	opts        EngineOptions

	now   func() time.Time
	newID func() string
}

func NewBookingService(
	bookingRepo repository.BookingRepository,
	itemRepo repository.ItemRepository,
	statsSvc CustomerStatsService,
	metrics Metrics,
	opts EngineOptions,
) BookingService {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	return &bookingService{
		bookingRepo: bookingRepo,
		itemRepo:    itemRepo,
		statsSvc:    statsSvc,
		metrics:     metrics,
		opts:        opts,
		now:         func() time.Time { return time.Now().UTC() },
		newID:       uuid.NewString,
	}
}

func (s *bookingService) Create(ctx context.Context, req CreateBookingRequest) (*domain.Booking, error) {
	logger.EnterMethod("bookingService.Create", "customerID", req.CustomerID, "items", len(req.Items), "asDraft", req.AsDraft)

	items, err := s.itemRepo.ListAll(ctx)
	if err != nil {
		logger.ExitMethodWithError("bookingService.Create", err)
		return nil, fmt.Errorf("failed to load items: %w", err)
	}

	b, err := s.compose(req.BookingInput, items, nil)
	if err != nil {
		logger.ExitMethodWithError("bookingService.Create", err)
		return nil, err
	}
	b.Status = domain.BookingStatusWaitingForDelivery
	if req.AsDraft {
		b.Status = domain.BookingStatusDraft
	}
	if err := ValidateForStatus(b); err != nil {
		logger.ExitMethodWithError("bookingService.Create", err)
		return nil, err
	}

	if !req.SkipAvailabilityCheck {
		bookings, err := s.bookingRepo.ListAll(ctx)
		if err != nil {
			logger.ExitMethodWithError("bookingService.Create", err)
			return nil, fmt.Errorf("failed to load bookings: %w", err)
		}
		if err := s.checkBookingAvailability(b, bookings, ""); err != nil {
			logger.ExitMethodWithError("bookingService.Create", err)
			return nil, err
		}
	}

	now := s.now()
	b.ID = s.newID()
	b.CreatedAt = now
	b.UpdatedAt = now

	if err := s.bookingRepo.Create(ctx, b); err != nil {
		logger.ExitMethodWithError("bookingService.Create", err)
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}
	s.metrics.BookingWritten("create")

	s.refreshStats(ctx, b.CustomerID)

	logger.ExitMethod("bookingService.Create", "bookingID", b.ID, "status", b.Status, "totalAmount", b.Totals.TotalAmount)
	return b, nil
}

func (s *bookingService) Update(ctx context.Context, id string, req UpdateBookingRequest) (*domain.Booking, error) {
	logger.EnterMethod("bookingService.Update", "bookingID", id)

	existing, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		logger.ExitMethodWithError("bookingService.Update", err, "bookingID", id)
		return nil, err
	}

	items, err := s.itemRepo.ListAll(ctx)
	if err != nil {
		logger.ExitMethodWithError("bookingService.Update", err, "bookingID", id)
		return nil, fmt.Errorf("failed to load items: %w", err)
	}

	in := req.BookingInput
	if in.Advances == nil {
		in.Advances = existing.Advances
	}
	b, err := s.compose(in, items, existing.Items)
	if err != nil {
		logger.ExitMethodWithError("bookingService.Update", err, "bookingID", id)
		return nil, err
	}
	b.ID = existing.ID
	b.Status = existing.Status
	b.CreatedAt = existing.CreatedAt

	if err := ValidateForStatus(b); err != nil {
		logger.ExitMethodWithError("bookingService.Update", err, "bookingID", id)
		return nil, err
	}

	if !req.SkipAvailabilityCheck && windowOrItemsChanged(existing, b) {
		bookings, err := s.bookingRepo.ListAll(ctx)
		if err != nil {
			logger.ExitMethodWithError("bookingService.Update", err, "bookingID", id)
			return nil, fmt.Errorf("failed to load bookings: %w", err)
		}
		if err := s.checkBookingAvailability(b, bookings, id); err != nil {
			logger.ExitMethodWithError("bookingService.Update", err, "bookingID", id)
			return nil, err
		}
	}

	b.UpdatedAt = s.now()
	if err := s.bookingRepo.Replace(ctx, b); err != nil {
		logger.ExitMethodWithError("bookingService.Update", err, "bookingID", id)
		return nil, fmt.Errorf("failed to update booking: %w", err)
	}
	s.metrics.BookingWritten("update")

	s.refreshStats(ctx, b.CustomerID, existing.CustomerID)

	logger.ExitMethod("bookingService.Update", "bookingID", id, "totalAmount", b.Totals.TotalAmount)
	return b, nil
}

func (s *bookingService) Delete(ctx context.Context, id string) error {
	logger.EnterMethod("bookingService.Delete", "bookingID", id)

	existing, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		logger.ExitMethodWithError("bookingService.Delete", err, "bookingID", id)
		return err
	}

	if err := s.bookingRepo.Delete(ctx, id); err != nil {
		logger.ExitMethodWithError("bookingService.Delete", err, "bookingID", id)
		return fmt.Errorf("failed to delete booking: %w", err)
	}
	s.metrics.BookingWritten("delete")

	s.refreshStats(ctx, existing.CustomerID)

	logger.ExitMethod("bookingService.Delete", "bookingID", id)
	return nil
}

// SetStatus is the only way a booking's status changes after creation.
// Setting the current status again is a no-op and writes nothing.
func (s *bookingService) SetStatus(ctx context.Context, id string, status domain.BookingStatus) (*domain.Booking, error) {
	logger.EnterMethod("bookingService.SetStatus", "bookingID", id, "status", status)

	b, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		logger.ExitMethodWithError("bookingService.SetStatus", err, "bookingID", id)
		return nil, err
	}
	if b.Status == status {
		logger.ExitMethod("bookingService.SetStatus", "bookingID", id, "changed", false)
		return b, nil
	}

	if err := checkTransition(b.Status, status); err != nil {
		logger.ExitMethodWithError("bookingService.SetStatus", err, "bookingID", id, "from", b.Status)
		return nil, err
	}
	if b.Status == domain.BookingStatusDraft {
		if err := ValidateForPublish(b); err != nil {
			logger.ExitMethodWithError("bookingService.SetStatus", err, "bookingID", id)
			return nil, err
		}
	}

	now := s.now()
	if err := s.bookingRepo.Update(ctx, id, domain.BookingPatch{Status: &status, UpdatedAt: now}); err != nil {
		logger.ExitMethodWithError("bookingService.SetStatus", err, "bookingID", id)
		return nil, fmt.Errorf("failed to update booking status: %w", err)
	}
	s.metrics.BookingWritten("status")

	from := b.Status
	b.Status = status
	b.UpdatedAt = now

	s.refreshStats(ctx, b.CustomerID)

	logger.ExitMethod("bookingService.SetStatus", "bookingID", id, "from", from, "to", status)
	return b, nil
}

func (s *bookingService) AddAdvance(ctx context.Context, id string, amount float64, date time.Time, note string) (*domain.Booking, error) {
	logger.EnterMethod("bookingService.AddAdvance", "bookingID", id, "amount", amount)

	if amount <= 0 {
		err := domain.ValidationErrors{"amount": "advance amount must be greater than zero"}
		logger.ExitMethodWithError("bookingService.AddAdvance", err, "bookingID", id)
		return nil, err
	}

	b, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		logger.ExitMethodWithError("bookingService.AddAdvance", err, "bookingID", id)
		return nil, err
	}

	now := s.now()
	if date.IsZero() {
		date = now
	}
	b.Advances = append(b.Advances, domain.Advance{
		ID:     s.newID(),
		Amount: amount,
		Date:   date,
		Note:   note,
	})
	ApplyTotals(b)
	b.UpdatedAt = now

	patch := domain.BookingPatch{Advances: b.Advances, Totals: &b.Totals, UpdatedAt: now}
	if err := s.bookingRepo.Update(ctx, id, patch); err != nil {
		logger.ExitMethodWithError("bookingService.AddAdvance", err, "bookingID", id)
		return nil, fmt.Errorf("failed to record advance: %w", err)
	}
	s.metrics.BookingWritten("advance")

	s.refreshStats(ctx, b.CustomerID)

	logger.ExitMethod("bookingService.AddAdvance", "bookingID", id, "dueAmount", b.Totals.DueAmount)
	return b, nil
}

func (s *bookingService) Quote(ctx context.Context, req QuoteRequest) (*Quote, error) {
	logger.EnterMethod("bookingService.Quote", "items", len(req.Items))

	items, err := s.itemRepo.ListAll(ctx)
	if err != nil {
		logger.ExitMethodWithError("bookingService.Quote", err)
		return nil, fmt.Errorf("failed to load items: %w", err)
	}
	b, err := s.compose(req.BookingInput, items, nil)
	if err != nil {
		logger.ExitMethodWithError("bookingService.Quote", err)
		return nil, err
	}

	q := &Quote{Items: b.Items, Totals: b.Totals}
	if b.StartDate != nil && b.EndDate != nil {
		q.RentalDays = utils.RentalDays(*b.StartDate, *b.EndDate)

		bookings, err := s.bookingRepo.ListAll(ctx)
		if err != nil {
			logger.ExitMethodWithError("bookingService.Quote", err)
			return nil, fmt.Errorf("failed to load bookings: %w", err)
		}
		opts := s.availabilityOptions(req.ExcludeBookingID)
		for _, itemID := range b.ItemIDs() {
			q.Availability = append(q.Availability, CheckAvailability(itemID, *b.StartDate, *b.EndDate, bookings, opts))
		}
	}

	logger.ExitMethod("bookingService.Quote", "totalAmount", q.Totals.TotalAmount)
	return q, nil
}

func (s *bookingService) CheckAvailability(ctx context.Context, itemID string, start, end time.Time, excludeBookingID string) (*AvailabilityResult, error) {
	logger.EnterMethod("bookingService.CheckAvailability", "itemID", itemID, "start", start, "end", end)

	if end.Before(start) {
		err := domain.ValidationErrors{"endDate": "end date must be on or after start date"}
		logger.ExitMethodWithError("bookingService.CheckAvailability", err, "itemID", itemID)
		return nil, err
	}

	bookings, err := s.bookingRepo.ListAll(ctx)
	if err != nil {
		logger.ExitMethodWithError("bookingService.CheckAvailability", err, "itemID", itemID)
		return nil, fmt.Errorf("failed to load bookings: %w", err)
	}

	res := CheckAvailability(itemID, start, end, bookings, s.availabilityOptions(excludeBookingID))
	logger.ExitMethod("bookingService.CheckAvailability", "itemID", itemID, "available", res.Available, "conflicts", len(res.Conflicts))
	return &res, nil
}

func (s *bookingService) Get(ctx context.Context, id string) (*domain.Booking, error) {
	return s.bookingRepo.GetByID(ctx, id)
}

// List returns bookings newest first.
func (s *bookingService) List(ctx context.Context, filter domain.BookingFilter) ([]domain.Booking, error) {
	logger.EnterMethod("bookingService.List", "customerID", filter.CustomerID, "status", filter.Status)

	all, err := s.bookingRepo.ListAll(ctx)
	if err != nil {
		logger.ExitMethodWithError("bookingService.List", err)
		return nil, fmt.Errorf("failed to load bookings: %w", err)
	}

	out := make([]domain.Booking, 0, len(all))
	for id, b := range all {
		if filter.CustomerID != "" && b.CustomerID != filter.CustomerID {
			continue
		}
		if filter.Status != "" && b.Status != filter.Status {
			continue
		}
		b.ID = id
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})

	logger.ExitMethod("bookingService.List", "count", len(out))
	return out, nil
}

// compose builds a priced booking from input against the item snapshot. Every
// line is repriced, so CalculatedPrice always matches the line's lease and the
// booking's rental window. Lines whose item appears in prior keep that line's
// lease, partner and share snapshot instead of the item's current terms.
func (s *bookingService) compose(in BookingInput, items map[string]domain.Item, prior []domain.LineItem) (*domain.Booking, error) {
	errs := domain.ValidationErrors{}

	b := &domain.Booking{
		CustomerID:     in.CustomerID,
		DeliveryDate:   in.DeliveryDate,
		ReturnDate:     in.ReturnDate,
		StartDate:      in.StartDate,
		EndDate:        in.EndDate,
		DeliveryCharge: in.DeliveryCharge,
		OtherCharges:   in.OtherCharges,
		Notes:          in.Notes,
		Items:          make([]domain.LineItem, 0, len(in.Items)),
	}

	snapshots := make(map[string]domain.LineItem, len(prior))
	for _, li := range prior {
		if _, seen := snapshots[li.ItemID]; !seen {
			snapshots[li.ItemID] = li
		}
	}

	for i, lr := range in.Items {
		line, ok := snapshots[lr.ItemID]
		if ok {
			line.OwnerSharePercent = SharePercentOf(line)
		} else {
			item, found := items[lr.ItemID]
			if !found {
				errs.Add("items", fmt.Sprintf("line %d: unknown item %q", i+1, lr.ItemID))
				continue
			}
			line = domain.LineItem{
				ItemID:         lr.ItemID,
				ItemName:       item.Name,
				Lease:          item.Lease,
				IsCollaborated: item.IsCollaborated,
				OwnerID:        item.OwnerID,
			}
			if item.IsCollaborated {
				line.OwnerSharePercent = item.OwnerSharePercent
			}
		}
		if lr.Lease != nil {
			v, valid := lr.Lease.Variant()
			if !valid {
				errs.Add("items", fmt.Sprintf("line %d: lease override needs a known mode and its price", i+1))
				continue
			}
			line.Lease = domain.TermsOf(v)
		}
		line.CalculatedPrice = utils.CalculateTermsPrice(line.Lease, b.StartDate, b.EndDate)
		line.OwnerShare = lineShare(line)
		b.Items = append(b.Items, line)
	}

	if in.DeliveryCharge < 0 {
		errs.Add("deliveryCharge", "delivery charge cannot be negative")
	}
	if in.OtherCharges < 0 {
		errs.Add("otherCharges", "other charges cannot be negative")
	}

	for _, a := range in.Advances {
		if a.Amount < 0 {
			errs.Add("advances", "advance amounts cannot be negative")
		}
		if a.ID == "" {
			a.ID = s.newID()
		}
		b.Advances = append(b.Advances, a)
	}

	if err := errs.Err(); err != nil {
		return nil, err
	}

	ApplyTotals(b)
	return b, nil
}

func (s *bookingService) availabilityOptions(excludeID string) AvailabilityOptions {
	return AvailabilityOptions{ExcludeBookingID: excludeID, IncludeCompleted: s.opts.IncludeCompleted}
}

func (s *bookingService) checkBookingAvailability(b *domain.Booking, bookings map[string]domain.Booking, excludeID string) error {
	if b.StartDate == nil || b.EndDate == nil {
		return nil
	}
	err := CheckItemsAvailability(b.ItemIDs(), *b.StartDate, *b.EndDate, bookings, s.availabilityOptions(excludeID))
	if ae, ok := AsAvailabilityError(err); ok {
		for _, c := range ae.Conflicts {
			s.metrics.AvailabilityConflict(c.ItemID)
		}
	}
	return err
}

// refreshStats recomputes stats for each distinct customer after a booking
// write. A failure here leaves the booking written; stats catch up on the next
// write or the nightly repair job.
func (s *bookingService) refreshStats(ctx context.Context, customerIDs ...string) {
	seen := make(map[string]bool, len(customerIDs))
	for _, id := range customerIDs {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		if _, err := s.statsSvc.Recompute(ctx, id); err != nil {
			s.metrics.StatsRecomputeFailed()
			if errors.Is(err, domain.ErrNotFound) {
				logger.Warn("Customer missing during stats recompute", "customerID", id)
				continue
			}
			logger.Error("Failed to recompute customer stats", "customerID", id, "error", err)
		}
	}
}

func windowOrItemsChanged(before, after *domain.Booking) bool {
	if !sameTime(before.StartDate, after.StartDate) || !sameTime(before.EndDate, after.EndDate) {
		return true
	}
	prev, next := before.ItemIDs(), after.ItemIDs()
	if len(prev) != len(next) {
		return true
	}
	set := make(map[string]bool, len(prev))
	for _, id := range prev {
		set[id] = true
	}
	for _, id := range next {
		if !set[id] {
			return true
		}
	}
	return false
}

func sameTime(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}
