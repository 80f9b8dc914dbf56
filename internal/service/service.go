package service

import (
	"context"
	"time"

	"wardrobe-rental-backend/internal/domain"
)

type BookingService interface {
	Create(ctx context.Context, req CreateBookingRequest) (*domain.Booking, error)
	Update(ctx context.Context, id string, req UpdateBookingRequest) (*domain.Booking, error)
	Delete(ctx context.Context, id string) error
	SetStatus(ctx context.Context, id string, status domain.BookingStatus) (*domain.Booking, error)
	AddAdvance(ctx context.Context, id string, amount float64, date time.Time, note string) (*domain.Booking, error)
	Quote(ctx context.Context, req QuoteRequest) (*Quote, error)
	CheckAvailability(ctx context.Context, itemID string, start, end time.Time, excludeBookingID string) (*AvailabilityResult, error)
	Get(ctx context.Context, id string) (*domain.Booking, error)
	List(ctx context.Context, filter domain.BookingFilter) ([]domain.Booking, error)
}

type CustomerStatsService interface {
	Recompute(ctx context.Context, customerID string) (*domain.CustomerStats, error)
	RecomputeAll(ctx context.Context) (int, error)
}

type CustomerService interface {
	CreateCustomer(ctx context.Context, c *domain.Customer) error
	GetCustomer(ctx context.Context, id string) (*domain.Customer, error)
	ListCustomers(ctx context.Context) ([]domain.Customer, error)
}

type ItemService interface {
	CreateItem(ctx context.Context, item *domain.Item) error
	GetItem(ctx context.Context, id string) (*domain.Item, error)
	ListItems(ctx context.Context, category string) ([]domain.Item, error)
	DeleteItem(ctx context.Context, id string) error
}

type PartnerService interface {
	GetPayout(ctx context.Context, partnerID string) (*domain.PartnerPayout, error)
}

type ReminderService interface {
	SendDue(ctx context.Context, kind ReminderKind) (int, error)
}

// Metrics is the slice of instrumentation the services report to.
type Metrics interface {
	BookingWritten(op string)
	StatsRecomputeFailed()
	AvailabilityConflict(itemID string)
	ReminderSent(kind string, err error)
}

type nopMetrics struct{}

func (nopMetrics) BookingWritten(string)       {}
func (nopMetrics) StatsRecomputeFailed()       {}
func (nopMetrics) AvailabilityConflict(string) {}
func (nopMetrics) ReminderSent(string, error)  {}

// EngineOptions carries the two configurable booking policies.
type EngineOptions struct {
	ActivePolicy     ActivePolicy
	IncludeCompleted bool
}
