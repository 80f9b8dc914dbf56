package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"wardrobe-rental-backend/internal/domain"
	"wardrobe-rental-backend/internal/logger"
	"wardrobe-rental-backend/internal/repository"
)

type itemService struct {
	itemRepo repository.ItemRepository
}

func NewItemService(itemRepo repository.ItemRepository) ItemService {
	return &itemService{itemRepo: itemRepo}
}

func (s *itemService) CreateItem(ctx context.Context, item *domain.Item) error {
	logger.EnterMethod("itemService.CreateItem", "name", item.Name)

	if err := validateItem(item); err != nil {
		logger.ExitMethodWithError("itemService.CreateItem", err)
		return err
	}

	now := time.Now().UTC()
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	item.CreatedAt = now
	item.UpdatedAt = now

	if err := s.itemRepo.Create(ctx, item); err != nil {
		logger.ExitMethodWithError("itemService.CreateItem", err)
		return fmt.Errorf("failed to create item: %w", err)
	}

	logger.ExitMethod("itemService.CreateItem", "itemID", item.ID)
	return nil
}

func (s *itemService) GetItem(ctx context.Context, id string) (*domain.Item, error) {
	return s.itemRepo.GetByID(ctx, id)
}

// ListItems returns items sorted by name, optionally narrowed to one category.
func (s *itemService) ListItems(ctx context.Context, category string) ([]domain.Item, error) {
	all, err := s.itemRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load items: %w", err)
	}
	out := make([]domain.Item, 0, len(all))
	for id, it := range all {
		if category != "" && !strings.EqualFold(it.Category, category) {
			continue
		}
		it.ID = id
		out = append(out, it)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// DeleteItem removes the item record. Bookings keep their line snapshots.
func (s *itemService) DeleteItem(ctx context.Context, id string) error {
	logger.EnterMethod("itemService.DeleteItem", "itemID", id)
	if err := s.itemRepo.Delete(ctx, id); err != nil {
		logger.ExitMethodWithError("itemService.DeleteItem", err, "itemID", id)
		return err
	}
	logger.ExitMethod("itemService.DeleteItem", "itemID", id)
	return nil
}

func validateItem(item *domain.Item) error {
	errs := domain.ValidationErrors{}
	if strings.TrimSpace(item.Name) == "" {
		errs.Add("name", "name is required")
	}
	if strings.TrimSpace(item.Category) == "" {
		errs.Add("category", "category is required")
	}
	if _, ok := item.Lease.Variant(); !ok {
		errs.Add("lease", "a lease mode with its price is required")
	}
	switch item.Size.Kind {
	case "", domain.SizeKindFree:
	case domain.SizeKindFixed:
		if item.Size.Value == "" {
			errs.Add("size", "fixed size needs a value")
		}
	case domain.SizeKindRange:
		if item.Size.Min == "" || item.Size.Max == "" {
			errs.Add("size", "size range needs min and max")
		}
	default:
		errs.Add("size", fmt.Sprintf("unknown size kind %q", item.Size.Kind))
	}
	if item.IsCollaborated {
		if item.OwnerID == nil || *item.OwnerID == "" {
			errs.Add("ownerId", "collaborated items need an owner")
		}
		if item.OwnerSharePercent < 0 || item.OwnerSharePercent > 100 {
			errs.Add("ownerSharePercent", "owner share must be between 0 and 100")
		}
	}
	return errs.Err()
}

type customerService struct {
	customerRepo repository.CustomerRepository
}

func NewCustomerService(customerRepo repository.CustomerRepository) CustomerService {
	return &customerService{customerRepo: customerRepo}
}

// CreateCustomer starts every customer with zeroed stats; only the stats
// recompute writes them afterwards.
func (s *customerService) CreateCustomer(ctx context.Context, c *domain.Customer) error {
	logger.EnterMethod("customerService.CreateCustomer", "name", c.Name)

	errs := domain.ValidationErrors{}
	if strings.TrimSpace(c.Name) == "" {
		errs.Add("name", "name is required")
	}
	if strings.TrimSpace(c.Phone) == "" {
		errs.Add("phone", "phone is required")
	}
	if err := errs.Err(); err != nil {
		logger.ExitMethodWithError("customerService.CreateCustomer", err)
		return err
	}

	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	c.Stats = domain.CustomerStats{}
	c.CreatedAt = time.Now().UTC()

	if err := s.customerRepo.Create(ctx, c); err != nil {
		logger.ExitMethodWithError("customerService.CreateCustomer", err)
		return fmt.Errorf("failed to create customer: %w", err)
	}
	logger.ExitMethod("customerService.CreateCustomer", "customerID", c.ID)
	return nil
}

func (s *customerService) GetCustomer(ctx context.Context, id string) (*domain.Customer, error) {
	return s.customerRepo.GetByID(ctx, id)
}

func (s *customerService) ListCustomers(ctx context.Context) ([]domain.Customer, error) {
	all, err := s.customerRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load customers: %w", err)
	}
	out := make([]domain.Customer, 0, len(all))
	for id, c := range all {
		c.ID = id
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}
