package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"wardrobe-rental-backend/internal/domain"
	"wardrobe-rental-backend/internal/logger"
	"wardrobe-rental-backend/internal/repository"
)

var itemColumns = []string{
	"id", "name", "category", "color", "size", "lease",
	"is_available", "is_collaborated", "owner_id", "owner_share_percent",
	"image_url", "created_at", "updated_at",
}

type itemRepository struct {
	db *sql.DB
}

func NewItemRepository(db *sql.DB) repository.ItemRepository {
	return &itemRepository{db: db}
}

func (r *itemRepository) ListAll(ctx context.Context) (map[string]domain.Item, error) {
	query, args, err := psql.Select(itemColumns...).From("items").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	logger.DatabaseCall("items.ListAll", query)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.DatabaseResult("items.ListAll", 0, err)
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]domain.Item)
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		out[it.ID] = *it
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	logger.DatabaseResult("items.ListAll", int64(len(out)), nil)
	return out, nil
}

func (r *itemRepository) GetByID(ctx context.Context, id string) (*domain.Item, error) {
	query, args, err := psql.Select(itemColumns...).From("items").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	it, err := scanItem(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("item %s: %w", id, domain.ErrNotFound)
	}
	return it, err
}

func (r *itemRepository) Create(ctx context.Context, it *domain.Item) error {
	size, err := json.Marshal(it.Size)
	if err != nil {
		return fmt.Errorf("failed to encode size: %w", err)
	}
	lease, err := json.Marshal(it.Lease)
	if err != nil {
		return fmt.Errorf("failed to encode lease: %w", err)
	}

	query, args, err := psql.Insert("items").Columns(itemColumns...).Values(
		it.ID, it.Name, it.Category, it.Color, size, lease,
		it.Available, it.IsCollaborated, nullString(it.OwnerID), it.OwnerSharePercent,
		it.ImageURL, it.CreatedAt, it.UpdatedAt,
	).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	logger.DatabaseCall("items.Create", query, "itemID", it.ID)
	res, err := r.db.ExecContext(ctx, query, args...)
	logger.DatabaseResult("items.Create", rowsAffected(res), err, "itemID", it.ID)
	return err
}

func (r *itemRepository) Delete(ctx context.Context, id string) error {
	query, args, err := psql.Delete("items").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	logger.DatabaseCall("items.Delete", query, "itemID", id)
	res, err := r.db.ExecContext(ctx, query, args...)
	n := rowsAffected(res)
	logger.DatabaseResult("items.Delete", n, err, "itemID", id)
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("item %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

func scanItem(row rowScanner) (*domain.Item, error) {
	var (
		it          domain.Item
		size, lease []byte
		owner       sql.NullString
	)
	err := row.Scan(
		&it.ID, &it.Name, &it.Category, &it.Color, &size, &lease,
		&it.Available, &it.IsCollaborated, &owner, &it.OwnerSharePercent,
		&it.ImageURL, &it.CreatedAt, &it.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(size) > 0 {
		if err := json.Unmarshal(size, &it.Size); err != nil {
			return nil, fmt.Errorf("item %s: failed to decode size: %w", it.ID, err)
		}
	}
	if len(lease) > 0 {
		if err := json.Unmarshal(lease, &it.Lease); err != nil {
			return nil, fmt.Errorf("item %s: failed to decode lease: %w", it.ID, err)
		}
	}
	it.OwnerID = stringPtr(owner)
	return &it, nil
}
