package repository

import (
	"context"

	"wardrobe-rental-backend/internal/domain"
)

// BookingRepository is the booking half of the persistence collaborator.
// ListAll returns a fresh snapshot keyed by booking id.
type BookingRepository interface {
	ListAll(ctx context.Context) (map[string]domain.Booking, error)
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	Create(ctx context.Context, booking *domain.Booking) error
	Replace(ctx context.Context, booking *domain.Booking) error
	Update(ctx context.Context, id string, patch domain.BookingPatch) error
	Delete(ctx context.Context, id string) error
}

type ItemRepository interface {
	ListAll(ctx context.Context) (map[string]domain.Item, error)
	GetByID(ctx context.Context, id string) (*domain.Item, error)
	Create(ctx context.Context, item *domain.Item) error
	Delete(ctx context.Context, id string) error
}

// CustomerRepository.UpdateStats is the only way the stats counters are written.
type CustomerRepository interface {
	ListAll(ctx context.Context) (map[string]domain.Customer, error)
	GetByID(ctx context.Context, id string) (*domain.Customer, error)
	Create(ctx context.Context, customer *domain.Customer) error
	UpdateStats(ctx context.Context, id string, stats domain.CustomerStats) error
}

// Store bundles the three repositories a backend provides.
type Store interface {
	Bookings() BookingRepository
	Items() ItemRepository
	Customers() CustomerRepository
	Close() error
}
