package http

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"wardrobe-rental-backend/internal/domain"
	"wardrobe-rental-backend/internal/service"
)

type MockBookingService struct{ mock.Mock }

func (m *MockBookingService) Create(ctx context.Context, req service.CreateBookingRequest) (*domain.Booking, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingService) Update(ctx context.Context, id string, req service.UpdateBookingRequest) (*domain.Booking, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingService) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockBookingService) SetStatus(ctx context.Context, id string, status domain.BookingStatus) (*domain.Booking, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingService) AddAdvance(ctx context.Context, id string, amount float64, date time.Time, note string) (*domain.Booking, error) {
	args := m.Called(ctx, id, amount, date, note)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingService) Quote(ctx context.Context, req service.QuoteRequest) (*service.Quote, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Quote), args.Error(1)
}

func (m *MockBookingService) CheckAvailability(ctx context.Context, itemID string, start, end time.Time, excludeBookingID string) (*service.AvailabilityResult, error) {
	args := m.Called(ctx, itemID, start, end, excludeBookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.AvailabilityResult), args.Error(1)
}

func (m *MockBookingService) Get(ctx context.Context, id string) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingService) List(ctx context.Context, filter domain.BookingFilter) ([]domain.Booking, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}

type MockItemService struct{ mock.Mock }

func (m *MockItemService) CreateItem(ctx context.Context, item *domain.Item) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockItemService) GetItem(ctx context.Context, id string) (*domain.Item, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Item), args.Error(1)
}

func (m *MockItemService) ListItems(ctx context.Context, category string) ([]domain.Item, error) {
	args := m.Called(ctx, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Item), args.Error(1)
}

func (m *MockItemService) DeleteItem(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockCustomerService struct{ mock.Mock }

func (m *MockCustomerService) CreateCustomer(ctx context.Context, c *domain.Customer) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCustomerService) GetCustomer(ctx context.Context, id string) (*domain.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Customer), args.Error(1)
}

func (m *MockCustomerService) ListCustomers(ctx context.Context) ([]domain.Customer, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Customer), args.Error(1)
}

type MockStatsService struct{ mock.Mock }

func (m *MockStatsService) Recompute(ctx context.Context, customerID string) (*domain.CustomerStats, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CustomerStats), args.Error(1)
}

func (m *MockStatsService) RecomputeAll(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

type MockPartnerService struct{ mock.Mock }

func (m *MockPartnerService) GetPayout(ctx context.Context, partnerID string) (*domain.PartnerPayout, error) {
	args := m.Called(ctx, partnerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PartnerPayout), args.Error(1)
}

type recordingObserver struct {
	routes   []string
	statuses []int
}

func (o *recordingObserver) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	o.routes = append(o.routes, method+" "+route)
	o.statuses = append(o.statuses, status)
}
