package firestore

import (
	"context"

	fs "cloud.google.com/go/firestore"

	"wardrobe-rental-backend/internal/domain"
	"wardrobe-rental-backend/internal/logger"
)

type itemRepository struct {
	col *fs.CollectionRef
}

func setItemID(it *domain.Item, id string) { it.ID = id }

func (r *itemRepository) ListAll(ctx context.Context) (map[string]domain.Item, error) {
	return loadAll(ctx, r.col, setItemID)
}

func (r *itemRepository) GetByID(ctx context.Context, id string) (*domain.Item, error) {
	return loadOne(ctx, r.col, "item", id, setItemID)
}

func (r *itemRepository) Create(ctx context.Context, it *domain.Item) error {
	logger.ExternalServiceCall("firestore", "inventory.Create", "itemID", it.ID)
	_, err := r.col.Doc(it.ID).Create(ctx, it)
	logger.ExternalServiceResult("firestore", "inventory.Create", err, "itemID", it.ID)
	return mapErr(err, "item", it.ID)
}

func (r *itemRepository) Delete(ctx context.Context, id string) error {
	logger.ExternalServiceCall("firestore", "inventory.Delete", "itemID", id)
	_, err := r.col.Doc(id).Delete(ctx, fs.Exists)
	logger.ExternalServiceResult("firestore", "inventory.Delete", err, "itemID", id)
	return mapErr(err, "item", id)
}
