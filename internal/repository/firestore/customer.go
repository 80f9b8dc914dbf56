package firestore

import (
	"context"

	fs "cloud.google.com/go/firestore"

	"wardrobe-rental-backend/internal/domain"
	"wardrobe-rental-backend/internal/logger"
)

type customerRepository struct {
	col *fs.CollectionRef
}

func setCustomerID(c *domain.Customer, id string) { c.ID = id }

func (r *customerRepository) ListAll(ctx context.Context) (map[string]domain.Customer, error) {
	return loadAll(ctx, r.col, setCustomerID)
}

func (r *customerRepository) GetByID(ctx context.Context, id string) (*domain.Customer, error) {
	return loadOne(ctx, r.col, "customer", id, setCustomerID)
}

func (r *customerRepository) Create(ctx context.Context, c *domain.Customer) error {
	logger.ExternalServiceCall("firestore", "customers.Create", "customerID", c.ID)
	_, err := r.col.Doc(c.ID).Create(ctx, c)
	logger.ExternalServiceResult("firestore", "customers.Create", err, "customerID", c.ID)
	return mapErr(err, "customer", c.ID)
}

// UpdateStats writes only the stats map of the customer document. Update fails
// with NotFound when the customer was deleted in the meantime.
func (r *customerRepository) UpdateStats(ctx context.Context, id string, stats domain.CustomerStats) error {
	logger.ExternalServiceCall("firestore", "customers.UpdateStats", "customerID", id)
	_, err := r.col.Doc(id).Update(ctx, []fs.Update{{Path: "stats", Value: stats}})
	logger.ExternalServiceResult("firestore", "customers.UpdateStats", err, "customerID", id)
	return mapErr(err, "customer", id)
}
