package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"wardrobe-rental-backend/internal/domain"
	"wardrobe-rental-backend/internal/utils"
)

var fixedNow = time.Date(2024, 1, 1, 9, 30, 0, 0, time.UTC)

type bookingFixture struct {
	bookingRepo *MockBookingRepo
	itemRepo    *MockItemRepo
	statsSvc    *MockStatsService
	svc         *bookingService
}

func newBookingFixture(opts EngineOptions) *bookingFixture {
	f := &bookingFixture{
		bookingRepo: new(MockBookingRepo),
		itemRepo:    new(MockItemRepo),
		statsSvc:    new(MockStatsService),
	}
	f.svc = NewBookingService(f.bookingRepo, f.itemRepo, f.statsSvc, nil, opts).(*bookingService)
	f.svc.now = func() time.Time { return fixedNow }
	seq := 0
	f.svc.newID = func() string {
		seq++
		return fmt.Sprintf("id-%d", seq)
	}
	return f
}

func floatPtr(f float64) *float64 { return &f }

func catalog() map[string]domain.Item {
	return map[string]domain.Item{
		"lehenga": {
			Name:  "Bridal Lehenga",
			Lease: domain.LeaseTerms{Mode: domain.LeaseModePerDay, RentPerDay: floatPtr(10)},
		},
		"saree": {
			Name:              "Silk Saree",
			Lease:             domain.LeaseTerms{Mode: domain.LeaseModeFixed, Price: floatPtr(70)},
			IsCollaborated:    true,
			OwnerID:           strPtr("p1"),
			OwnerSharePercent: 50,
		},
		"gown": {
			Name:  "Evening Gown",
			Lease: domain.LeaseTerms{Mode: domain.LeaseModeRange, MinPrice: floatPtr(40), MaxPrice: floatPtr(90)},
		},
	}
}

func publishInput(itemIDs ...string) BookingInput {
	in := BookingInput{
		CustomerID:     "c1",
		DeliveryDate:   day(2024, 1, 1),
		ReturnDate:     day(2024, 1, 4),
		StartDate:      day(2024, 1, 1),
		EndDate:        day(2024, 1, 3),
		DeliveryCharge: 20,
	}
	for _, id := range itemIDs {
		in.Items = append(in.Items, LineRequest{ItemID: id})
	}
	return in
}

func TestBookingService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		f := newBookingFixture(EngineOptions{})
		f.itemRepo.On("ListAll", ctx).Return(catalog(), nil)
		f.bookingRepo.On("ListAll", ctx).Return(map[string]domain.Booking{}, nil)
		f.bookingRepo.On("Create", ctx, mock.AnythingOfType("*domain.Booking")).Return(nil)
		f.statsSvc.On("Recompute", ctx, "c1").Return(&domain.CustomerStats{}, nil)

		in := publishInput("lehenga", "saree")
		in.Advances = []domain.Advance{{Amount: 50, Date: fixedNow}}

		b, err := f.svc.Create(ctx, CreateBookingRequest{BookingInput: in})
		require.NoError(t, err)

		assert.Equal(t, "id-2", b.ID, "advance id is assigned first")
		assert.Equal(t, domain.BookingStatusWaitingForDelivery, b.Status)
		assert.Equal(t, fixedNow, b.CreatedAt)
		require.Len(t, b.Items, 2)
		assert.Equal(t, 30.0, b.Items[0].CalculatedPrice)
		assert.Equal(t, "Bridal Lehenga", b.Items[0].ItemName)
		assert.Equal(t, 70.0, b.Items[1].CalculatedPrice)
		assert.True(t, b.Items[1].IsCollaborated)
		assert.Equal(t, 35.0, b.Items[1].OwnerShare)

		assert.Equal(t, 100.0, b.Totals.TotalRent)
		assert.Equal(t, 120.0, b.Totals.TotalAmount)
		assert.Equal(t, 70.0, b.Totals.DueAmount)
		assert.Equal(t, "id-1", b.Advances[0].ID)

		f.statsSvc.AssertCalled(t, "Recompute", ctx, "c1")
	})

	t.Run("Every saved line matches its lease price", func(t *testing.T) {
		f := newBookingFixture(EngineOptions{})
		f.itemRepo.On("ListAll", ctx).Return(catalog(), nil)
		f.bookingRepo.On("ListAll", ctx).Return(map[string]domain.Booking{}, nil)
		f.bookingRepo.On("Create", ctx, mock.AnythingOfType("*domain.Booking")).Return(nil)
		f.statsSvc.On("Recompute", ctx, "c1").Return(&domain.CustomerStats{}, nil)

		b, err := f.svc.Create(ctx, CreateBookingRequest{BookingInput: publishInput("lehenga", "saree", "gown")})
		require.NoError(t, err)
		for _, li := range b.Items {
			assert.Equal(t, utils.CalculateTermsPrice(li.Lease, b.StartDate, b.EndDate), li.CalculatedPrice, li.ItemID)
		}
		assert.Equal(t, 40.0, b.Items[2].CalculatedPrice, "range charges the lower bound")
	})

	t.Run("Lease override reprices the line", func(t *testing.T) {
		f := newBookingFixture(EngineOptions{})
		f.itemRepo.On("ListAll", ctx).Return(catalog(), nil)
		f.bookingRepo.On("ListAll", ctx).Return(map[string]domain.Booking{}, nil)
		f.bookingRepo.On("Create", ctx, mock.AnythingOfType("*domain.Booking")).Return(nil)
		f.statsSvc.On("Recompute", ctx, "c1").Return(&domain.CustomerStats{}, nil)

		in := publishInput()
		in.Items = []LineRequest{{
			ItemID: "lehenga",
			Lease:  &domain.LeaseTerms{Mode: domain.LeaseModeFixed, Price: floatPtr(55)},
		}}
		b, err := f.svc.Create(ctx, CreateBookingRequest{BookingInput: in})
		require.NoError(t, err)
		assert.Equal(t, 55.0, b.Items[0].CalculatedPrice)
	})

	t.Run("Lease override without its price is rejected", func(t *testing.T) {
		f := newBookingFixture(EngineOptions{})
		f.itemRepo.On("ListAll", ctx).Return(catalog(), nil)

		in := publishInput()
		in.Items = []LineRequest{{ItemID: "lehenga", Lease: &domain.LeaseTerms{Mode: domain.LeaseModePerDay}}}

		_, err := f.svc.Create(ctx, CreateBookingRequest{BookingInput: in})
		var verrs domain.ValidationErrors
		require.ErrorAs(t, err, &verrs)
		assert.Contains(t, verrs["items"], "lease override")
		f.bookingRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Conflict writes nothing", func(t *testing.T) {
		f := newBookingFixture(EngineOptions{})
		existing := map[string]domain.Booking{
			"b1": bookingWith("c9", domain.BookingStatusWaitingForReturn, day(2023, 12, 30), day(2024, 1, 2), "lehenga"),
		}
		f.itemRepo.On("ListAll", ctx).Return(catalog(), nil)
		f.bookingRepo.On("ListAll", ctx).Return(existing, nil)

		_, err := f.svc.Create(ctx, CreateBookingRequest{BookingInput: publishInput("lehenga")})
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrUnavailable)
		ae, ok := AsAvailabilityError(err)
		require.True(t, ok)
		assert.Equal(t, "b1", ae.Conflicts[0].BookingID)

		f.bookingRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		f.statsSvc.AssertNotCalled(t, "Recompute", mock.Anything, mock.Anything)
	})

	t.Run("Skip availability check", func(t *testing.T) {
		f := newBookingFixture(EngineOptions{})
		f.itemRepo.On("ListAll", ctx).Return(catalog(), nil)
		f.bookingRepo.On("Create", ctx, mock.AnythingOfType("*domain.Booking")).Return(nil)
		f.statsSvc.On("Recompute", ctx, "c1").Return(&domain.CustomerStats{}, nil)

		_, err := f.svc.Create(ctx, CreateBookingRequest{BookingInput: publishInput("lehenga"), SkipAvailabilityCheck: true})
		require.NoError(t, err)
		f.bookingRepo.AssertNotCalled(t, "ListAll", mock.Anything)
	})

	t.Run("Draft with only a customer", func(t *testing.T) {
		f := newBookingFixture(EngineOptions{})
		f.itemRepo.On("ListAll", ctx).Return(catalog(), nil)
		f.bookingRepo.On("ListAll", ctx).Return(map[string]domain.Booking{}, nil)
		f.bookingRepo.On("Create", ctx, mock.AnythingOfType("*domain.Booking")).Return(nil)
		f.statsSvc.On("Recompute", ctx, "c1").Return(&domain.CustomerStats{}, nil)

		b, err := f.svc.Create(ctx, CreateBookingRequest{BookingInput: BookingInput{CustomerID: "c1"}, AsDraft: true})
		require.NoError(t, err)
		assert.Equal(t, domain.BookingStatusDraft, b.Status)
		assert.Zero(t, b.Totals.TotalAmount)
	})

	t.Run("Incomplete booking fails validation", func(t *testing.T) {
		f := newBookingFixture(EngineOptions{})
		f.itemRepo.On("ListAll", ctx).Return(catalog(), nil)

		_, err := f.svc.Create(ctx, CreateBookingRequest{BookingInput: BookingInput{CustomerID: "c1"}})
		var verrs domain.ValidationErrors
		require.ErrorAs(t, err, &verrs)
		assert.Contains(t, verrs, "items")
		assert.Contains(t, verrs, "startDate")
		f.bookingRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Unknown item", func(t *testing.T) {
		f := newBookingFixture(EngineOptions{})
		f.itemRepo.On("ListAll", ctx).Return(catalog(), nil)

		_, err := f.svc.Create(ctx, CreateBookingRequest{BookingInput: publishInput("tuxedo")})
		var verrs domain.ValidationErrors
		require.ErrorAs(t, err, &verrs)
		assert.Contains(t, verrs["items"], "tuxedo")
	})

	t.Run("Store failure skips stats", func(t *testing.T) {
		f := newBookingFixture(EngineOptions{})
		f.itemRepo.On("ListAll", ctx).Return(catalog(), nil)
		f.bookingRepo.On("ListAll", ctx).Return(map[string]domain.Booking{}, nil)
		f.bookingRepo.On("Create", ctx, mock.AnythingOfType("*domain.Booking")).Return(errors.New("deadline exceeded"))

		_, err := f.svc.Create(ctx, CreateBookingRequest{BookingInput: publishInput("saree")})
		assert.Error(t, err)
		f.statsSvc.AssertNotCalled(t, "Recompute", mock.Anything, mock.Anything)
	})

	t.Run("Stats failure still returns booking", func(t *testing.T) {
		f := newBookingFixture(EngineOptions{})
		metrics := new(MockMetrics)
		f.svc.metrics = metrics
		metrics.On("BookingWritten", "create").Return()
		metrics.On("StatsRecomputeFailed").Return()

		f.itemRepo.On("ListAll", ctx).Return(catalog(), nil)
		f.bookingRepo.On("ListAll", ctx).Return(map[string]domain.Booking{}, nil)
		f.bookingRepo.On("Create", ctx, mock.AnythingOfType("*domain.Booking")).Return(nil)
		f.statsSvc.On("Recompute", ctx, "c1").Return(nil, errors.New("permission denied"))

		b, err := f.svc.Create(ctx, CreateBookingRequest{BookingInput: publishInput("saree")})
		require.NoError(t, err)
		assert.NotNil(t, b)
		metrics.AssertCalled(t, "StatsRecomputeFailed")
	})
}

func storedBooking() *domain.Booking {
	b := &domain.Booking{
		ID:           "b1",
		CustomerID:   "c1",
		DeliveryDate: day(2024, 1, 1),
		ReturnDate:   day(2024, 1, 6),
		StartDate:    day(2024, 1, 1),
		EndDate:      day(2024, 1, 5),
		Items: []domain.LineItem{{
			ItemID:          "lehenga",
			ItemName:        "Bridal Lehenga",
			Lease:           domain.LeaseTerms{Mode: domain.LeaseModePerDay, RentPerDay: floatPtr(10)},
			CalculatedPrice: 50,
		}},
		Status:    domain.BookingStatusWaitingForDelivery,
		CreatedAt: time.Date(2023, 12, 20, 0, 0, 0, 0, time.UTC),
	}
	ApplyTotals(b)
	return b
}

// threeDayBooking is lehenga at 10/day over Jan 1-3 with 20 delivery.
func threeDayBooking() *domain.Booking {
	b := storedBooking()
	b.ReturnDate = day(2024, 1, 4)
	b.EndDate = day(2024, 1, 3)
	b.DeliveryCharge = 20
	b.Items[0].CalculatedPrice = 30
	ApplyTotals(b)
	return b
}

// raisedCatalog is the catalog after the lehenga rate went up and the saree
// stopped being a partner piece.
func raisedCatalog() map[string]domain.Item {
	items := catalog()
	lehenga := items["lehenga"]
	lehenga.Lease = domain.LeaseTerms{Mode: domain.LeaseModePerDay, RentPerDay: floatPtr(50)}
	items["lehenga"] = lehenga
	saree := items["saree"]
	saree.IsCollaborated = false
	saree.OwnerID = nil
	saree.OwnerSharePercent = 0
	items["saree"] = saree
	return items
}

func TestBookingService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("Own booking does not conflict", func(t *testing.T) {
		f := newBookingFixture(EngineOptions{})
		existing := storedBooking()
		f.bookingRepo.On("GetByID", ctx, "b1").Return(existing, nil)
		f.itemRepo.On("ListAll", ctx).Return(catalog(), nil)
		f.bookingRepo.On("ListAll", ctx).Return(map[string]domain.Booking{"b1": *existing}, nil)
		f.bookingRepo.On("Replace", ctx, mock.AnythingOfType("*domain.Booking")).Return(nil)
		f.statsSvc.On("Recompute", ctx, "c1").Return(&domain.CustomerStats{}, nil)

		in := publishInput("lehenga")
		in.EndDate = day(2024, 1, 4)

		b, err := f.svc.Update(ctx, "b1", UpdateBookingRequest{BookingInput: in})
		require.NoError(t, err)
		assert.Equal(t, "b1", b.ID)
		assert.Equal(t, existing.CreatedAt, b.CreatedAt)
		assert.Equal(t, domain.BookingStatusWaitingForDelivery, b.Status)
		assert.Equal(t, 40.0, b.Items[0].CalculatedPrice)
		assert.Equal(t, fixedNow, b.UpdatedAt)
	})

	t.Run("Unchanged window skips availability", func(t *testing.T) {
		f := newBookingFixture(EngineOptions{})
		existing := storedBooking()
		f.bookingRepo.On("GetByID", ctx, "b1").Return(existing, nil)
		f.itemRepo.On("ListAll", ctx).Return(catalog(), nil)
		f.bookingRepo.On("Replace", ctx, mock.AnythingOfType("*domain.Booking")).Return(nil)
		f.statsSvc.On("Recompute", ctx, "c1").Return(&domain.CustomerStats{}, nil)

		in := publishInput("lehenga")
		in.ReturnDate = existing.ReturnDate
		in.EndDate = existing.EndDate
		in.Notes = "blouse alteration"

		_, err := f.svc.Update(ctx, "b1", UpdateBookingRequest{BookingInput: in})
		require.NoError(t, err)
		f.bookingRepo.AssertNotCalled(t, "ListAll", mock.Anything)
	})

	t.Run("Customer change recomputes both", func(t *testing.T) {
		f := newBookingFixture(EngineOptions{})
		existing := storedBooking()
		f.bookingRepo.On("GetByID", ctx, "b1").Return(existing, nil)
		f.itemRepo.On("ListAll", ctx).Return(catalog(), nil)
		f.bookingRepo.On("ListAll", ctx).Return(map[string]domain.Booking{"b1": *existing}, nil)
		f.bookingRepo.On("Replace", ctx, mock.AnythingOfType("*domain.Booking")).Return(nil)
		f.statsSvc.On("Recompute", ctx, "c2").Return(&domain.CustomerStats{}, nil)
		f.statsSvc.On("Recompute", ctx, "c1").Return(&domain.CustomerStats{}, nil)

		in := publishInput("saree")
		in.CustomerID = "c2"

		_, err := f.svc.Update(ctx, "b1", UpdateBookingRequest{BookingInput: in})
		require.NoError(t, err)
		f.statsSvc.AssertCalled(t, "Recompute", ctx, "c1")
		f.statsSvc.AssertCalled(t, "Recompute", ctx, "c2")
	})

	t.Run("Notes-only edit keeps the priced snapshot", func(t *testing.T) {
		f := newBookingFixture(EngineOptions{})
		existing := threeDayBooking()
		f.bookingRepo.On("GetByID", ctx, "b1").Return(existing, nil)
		f.itemRepo.On("ListAll", ctx).Return(raisedCatalog(), nil)
		f.bookingRepo.On("Replace", ctx, mock.AnythingOfType("*domain.Booking")).Return(nil)
		f.statsSvc.On("Recompute", ctx, "c1").Return(&domain.CustomerStats{}, nil)

		in := publishInput("lehenga")
		in.Notes = "deliver after 6pm"

		b, err := f.svc.Update(ctx, "b1", UpdateBookingRequest{BookingInput: in})
		require.NoError(t, err)
		assert.Equal(t, 30.0, b.Items[0].CalculatedPrice)
		assert.Equal(t, floatPtr(10), b.Items[0].Lease.RentPerDay)
		assert.Equal(t, 50.0, b.Totals.TotalAmount)
	})

	t.Run("Date change reprices with the captured rate", func(t *testing.T) {
		f := newBookingFixture(EngineOptions{})
		existing := threeDayBooking()
		f.bookingRepo.On("GetByID", ctx, "b1").Return(existing, nil)
		f.itemRepo.On("ListAll", ctx).Return(raisedCatalog(), nil)
		f.bookingRepo.On("ListAll", ctx).Return(map[string]domain.Booking{"b1": *existing}, nil)
		f.bookingRepo.On("Replace", ctx, mock.AnythingOfType("*domain.Booking")).Return(nil)
		f.statsSvc.On("Recompute", ctx, "c1").Return(&domain.CustomerStats{}, nil)

		in := publishInput("lehenga")
		in.EndDate = day(2024, 1, 4)

		b, err := f.svc.Update(ctx, "b1", UpdateBookingRequest{BookingInput: in})
		require.NoError(t, err)
		assert.Equal(t, 40.0, b.Items[0].CalculatedPrice)
	})

	t.Run("Captured partner share survives item changes", func(t *testing.T) {
		f := newBookingFixture(EngineOptions{})
		existing := threeDayBooking()
		existing.Items = []domain.LineItem{{
			ItemID:          "saree",
			ItemName:        "Silk Saree",
			Lease:           domain.LeaseTerms{Mode: domain.LeaseModeFixed, Price: floatPtr(70)},
			CalculatedPrice: 70,
			IsCollaborated:  true,
			OwnerID:         strPtr("p1"),
			OwnerShare:      35,
		}}
		f.bookingRepo.On("GetByID", ctx, "b1").Return(existing, nil)
		f.itemRepo.On("ListAll", ctx).Return(raisedCatalog(), nil)
		f.bookingRepo.On("Replace", ctx, mock.AnythingOfType("*domain.Booking")).Return(nil)
		f.statsSvc.On("Recompute", ctx, "c1").Return(&domain.CustomerStats{}, nil)

		b, err := f.svc.Update(ctx, "b1", UpdateBookingRequest{BookingInput: publishInput("saree")})
		require.NoError(t, err)
		li := b.Items[0]
		assert.Equal(t, 70.0, li.CalculatedPrice)
		assert.True(t, li.IsCollaborated)
		assert.Equal(t, "p1", *li.OwnerID)
		assert.Equal(t, 50.0, li.OwnerSharePercent)
		assert.Equal(t, 35.0, li.OwnerShare)
	})

	t.Run("Omitted advances are kept", func(t *testing.T) {
		f := newBookingFixture(EngineOptions{})
		existing := threeDayBooking()
		existing.Advances = []domain.Advance{{ID: "a1", Amount: 25, Date: fixedNow}}
		ApplyTotals(existing)
		f.bookingRepo.On("GetByID", ctx, "b1").Return(existing, nil)
		f.itemRepo.On("ListAll", ctx).Return(catalog(), nil)
		f.bookingRepo.On("Replace", ctx, mock.AnythingOfType("*domain.Booking")).Return(nil)
		f.statsSvc.On("Recompute", ctx, "c1").Return(&domain.CustomerStats{}, nil)

		b, err := f.svc.Update(ctx, "b1", UpdateBookingRequest{BookingInput: publishInput("lehenga")})
		require.NoError(t, err)
		require.Len(t, b.Advances, 1)
		assert.Equal(t, "a1", b.Advances[0].ID)
		assert.Equal(t, 25.0, b.Totals.DueAmount)
	})

	t.Run("Empty advances clear payments", func(t *testing.T) {
		f := newBookingFixture(EngineOptions{})
		existing := threeDayBooking()
		existing.Advances = []domain.Advance{{ID: "a1", Amount: 25, Date: fixedNow}}
		f.bookingRepo.On("GetByID", ctx, "b1").Return(existing, nil)
		f.itemRepo.On("ListAll", ctx).Return(catalog(), nil)
		f.bookingRepo.On("Replace", ctx, mock.AnythingOfType("*domain.Booking")).Return(nil)
		f.statsSvc.On("Recompute", ctx, "c1").Return(&domain.CustomerStats{}, nil)

		in := publishInput("lehenga")
		in.Advances = []domain.Advance{}

		b, err := f.svc.Update(ctx, "b1", UpdateBookingRequest{BookingInput: in})
		require.NoError(t, err)
		assert.Empty(t, b.Advances)
		assert.Equal(t, 50.0, b.Totals.DueAmount)
	})

	t.Run("Not found", func(t *testing.T) {
		f := newBookingFixture(EngineOptions{})
		f.bookingRepo.On("GetByID", ctx, "missing").Return(nil, domain.ErrNotFound)

		_, err := f.svc.Update(ctx, "missing", UpdateBookingRequest{BookingInput: publishInput("lehenga")})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestBookingService_Delete(t *testing.T) {
	ctx := context.Background()
	f := newBookingFixture(EngineOptions{})
	f.bookingRepo.On("GetByID", ctx, "b1").Return(storedBooking(), nil)
	f.bookingRepo.On("Delete", ctx, "b1").Return(nil)
	f.statsSvc.On("Recompute", ctx, "c1").Return(&domain.CustomerStats{}, nil)

	require.NoError(t, f.svc.Delete(ctx, "b1"))
	f.statsSvc.AssertCalled(t, "Recompute", ctx, "c1")
}

func TestBookingService_SetStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("Valid transition patches status only", func(t *testing.T) {
		f := newBookingFixture(EngineOptions{})
		f.bookingRepo.On("GetByID", ctx, "b1").Return(storedBooking(), nil)
		status := domain.BookingStatusWaitingForReturn
		f.bookingRepo.On("Update", ctx, "b1", domain.BookingPatch{Status: &status, UpdatedAt: fixedNow}).Return(nil)
		f.statsSvc.On("Recompute", ctx, "c1").Return(&domain.CustomerStats{}, nil)

		b, err := f.svc.SetStatus(ctx, "b1", status)
		require.NoError(t, err)
		assert.Equal(t, status, b.Status)
	})

	t.Run("Same status writes nothing", func(t *testing.T) {
		f := newBookingFixture(EngineOptions{})
		f.bookingRepo.On("GetByID", ctx, "b1").Return(storedBooking(), nil)

		b, err := f.svc.SetStatus(ctx, "b1", domain.BookingStatusWaitingForDelivery)
		require.NoError(t, err)
		assert.Equal(t, domain.BookingStatusWaitingForDelivery, b.Status)
		f.bookingRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Invalid transition", func(t *testing.T) {
		f := newBookingFixture(EngineOptions{})
		f.bookingRepo.On("GetByID", ctx, "b1").Return(storedBooking(), nil)

		_, err := f.svc.SetStatus(ctx, "b1", domain.BookingStatusCompleted)
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
		f.bookingRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Incomplete draft cannot be published", func(t *testing.T) {
		f := newBookingFixture(EngineOptions{})
		draft := &domain.Booking{ID: "d1", CustomerID: "c1", Status: domain.BookingStatusDraft}
		f.bookingRepo.On("GetByID", ctx, "d1").Return(draft, nil)

		_, err := f.svc.SetStatus(ctx, "d1", domain.BookingStatusWaitingForDelivery)
		var verrs domain.ValidationErrors
		assert.ErrorAs(t, err, &verrs)
	})
}

func TestBookingService_AddAdvance(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		f := newBookingFixture(EngineOptions{})
		f.bookingRepo.On("GetByID", ctx, "b1").Return(storedBooking(), nil)
		f.bookingRepo.On("Update", ctx, "b1", mock.MatchedBy(func(p domain.BookingPatch) bool {
			return p.Status == nil && len(p.Advances) == 1 && p.Totals != nil && p.Totals.DueAmount == 30
		})).Return(nil)
		f.statsSvc.On("Recompute", ctx, "c1").Return(&domain.CustomerStats{}, nil)

		b, err := f.svc.AddAdvance(ctx, "b1", 20, time.Time{}, "cash")
		require.NoError(t, err)
		assert.Equal(t, 20.0, b.Totals.TotalAdvance)
		assert.Equal(t, 30.0, b.Totals.DueAmount)
		assert.Equal(t, fixedNow, b.Advances[0].Date)
		assert.Equal(t, "id-1", b.Advances[0].ID)
	})

	t.Run("Non-positive amount", func(t *testing.T) {
		f := newBookingFixture(EngineOptions{})
		_, err := f.svc.AddAdvance(ctx, "b1", 0, fixedNow, "")
		var verrs domain.ValidationErrors
		require.ErrorAs(t, err, &verrs)
		assert.Contains(t, verrs, "amount")
	})
}

func TestBookingService_Quote(t *testing.T) {
	ctx := context.Background()
	f := newBookingFixture(EngineOptions{})
	existing := map[string]domain.Booking{
		"b1": bookingWith("c9", domain.BookingStatusWaitingForDelivery, day(2024, 1, 2), day(2024, 1, 8), "saree"),
	}
	f.itemRepo.On("ListAll", ctx).Return(catalog(), nil)
	f.bookingRepo.On("ListAll", ctx).Return(existing, nil)

	q, err := f.svc.Quote(ctx, QuoteRequest{BookingInput: publishInput("lehenga", "saree")})
	require.NoError(t, err)
	assert.Equal(t, 3, q.RentalDays)
	assert.Equal(t, 120.0, q.Totals.TotalAmount)
	require.Len(t, q.Availability, 2)
	assert.True(t, q.Availability[0].Available)
	assert.False(t, q.Availability[1].Available)

	f.bookingRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestBookingService_CheckAvailability(t *testing.T) {
	ctx := context.Background()
	existing := map[string]domain.Booking{
		"b1": bookingWith("c1", domain.BookingStatusCompleted, day(2024, 1, 1), day(2024, 1, 5), "lehenga"),
	}

	f := newBookingFixture(EngineOptions{IncludeCompleted: true})
	f.bookingRepo.On("ListAll", ctx).Return(existing, nil)
	res, err := f.svc.CheckAvailability(ctx, "lehenga", *day(2024, 1, 3), *day(2024, 1, 4), "")
	require.NoError(t, err)
	assert.False(t, res.Available)

	_, err = f.svc.CheckAvailability(ctx, "lehenga", *day(2024, 1, 4), *day(2024, 1, 3), "")
	var verrs domain.ValidationErrors
	assert.ErrorAs(t, err, &verrs)
}

func TestBookingService_List(t *testing.T) {
	ctx := context.Background()
	f := newBookingFixture(EngineOptions{})

	older := bookingWith("c1", domain.BookingStatusCompleted, nil, nil)
	older.CreatedAt = fixedNow.Add(-time.Hour)
	newer := bookingWith("c1", domain.BookingStatusDraft, nil, nil)
	newer.CreatedAt = fixedNow
	other := bookingWith("c2", domain.BookingStatusDraft, nil, nil)

	f.bookingRepo.On("ListAll", ctx).Return(map[string]domain.Booking{"old": older, "new": newer, "x": other}, nil)

	list, err := f.svc.List(ctx, domain.BookingFilter{CustomerID: "c1"})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "new", list[0].ID)
	assert.Equal(t, "old", list[1].ID)

	list, err = f.svc.List(ctx, domain.BookingFilter{Status: domain.BookingStatusDraft})
	require.NoError(t, err)
	assert.Len(t, list, 2)
}
