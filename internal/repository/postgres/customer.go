package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"wardrobe-rental-backend/internal/domain"
	"wardrobe-rental-backend/internal/logger"
	"wardrobe-rental-backend/internal/repository"
)

var customerColumns = []string{
	"id", "name", "phone", "email", "address", "city", "notes",
	"total_spent", "total_bookings", "active_bookings", "total_outstanding",
	"created_at",
}

type customerRepository struct {
	db *sql.DB
}

func NewCustomerRepository(db *sql.DB) repository.CustomerRepository {
	return &customerRepository{db: db}
}

func (r *customerRepository) ListAll(ctx context.Context) (map[string]domain.Customer, error) {
	query, args, err := psql.Select(customerColumns...).From("customers").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	logger.DatabaseCall("customers.ListAll", query)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.DatabaseResult("customers.ListAll", 0, err)
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]domain.Customer)
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		out[c.ID] = *c
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	logger.DatabaseResult("customers.ListAll", int64(len(out)), nil)
	return out, nil
}

func (r *customerRepository) GetByID(ctx context.Context, id string) (*domain.Customer, error) {
	query, args, err := psql.Select(customerColumns...).From("customers").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	c, err := scanCustomer(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("customer %s: %w", id, domain.ErrNotFound)
	}
	return c, err
}

func (r *customerRepository) Create(ctx context.Context, c *domain.Customer) error {
	query, args, err := psql.Insert("customers").Columns(customerColumns...).Values(
		c.ID, c.Name, c.Phone, c.Email, c.Address, c.City, c.Notes,
		c.Stats.TotalSpent, c.Stats.TotalBookings, c.Stats.ActiveBookings, c.Stats.TotalOutstanding,
		c.CreatedAt,
	).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	logger.DatabaseCall("customers.Create", query, "customerID", c.ID)
	res, err := r.db.ExecContext(ctx, query, args...)
	logger.DatabaseResult("customers.Create", rowsAffected(res), err, "customerID", c.ID)
	return err
}

// UpdateStats overwrites the four counters and nothing else.
func (r *customerRepository) UpdateStats(ctx context.Context, id string, stats domain.CustomerStats) error {
	query, args, err := psql.Update("customers").
		Set("total_spent", stats.TotalSpent).
		Set("total_bookings", stats.TotalBookings).
		Set("active_bookings", stats.ActiveBookings).
		Set("total_outstanding", stats.TotalOutstanding).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	logger.DatabaseCall("customers.UpdateStats", query, "customerID", id)
	res, err := r.db.ExecContext(ctx, query, args...)
	n := rowsAffected(res)
	logger.DatabaseResult("customers.UpdateStats", n, err, "customerID", id)
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("customer %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

func scanCustomer(row rowScanner) (*domain.Customer, error) {
	var c domain.Customer
	err := row.Scan(
		&c.ID, &c.Name, &c.Phone, &c.Email, &c.Address, &c.City, &c.Notes,
		&c.Stats.TotalSpent, &c.Stats.TotalBookings, &c.Stats.ActiveBookings, &c.Stats.TotalOutstanding,
		&c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
