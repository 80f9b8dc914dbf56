package postgres

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	_ "github.com/lib/pq"

	"wardrobe-rental-backend/internal/logger"
	"wardrobe-rental-backend/internal/repository"
)

//go:embed schema.sql
var schema string

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

type Store struct {
	db        *sql.DB
	bookings  repository.BookingRepository
	items     repository.ItemRepository
	customers repository.CustomerRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:        db,
		bookings:  NewBookingRepository(db),
		items:     NewItemRepository(db),
		customers: NewCustomerRepository(db),
	}
}

// Open connects with the lib/pq driver and checks the connection.
func Open(ctx context.Context, dsn string, maxOpen, maxIdle int, maxLifetime time.Duration) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxIdle)
	db.SetConnMaxLifetime(maxLifetime)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

// Migrate creates the tables if they do not exist yet.
func Migrate(ctx context.Context, db *sql.DB) error {
	logger.DatabaseCall("migrate", "schema.sql")
	_, err := db.ExecContext(ctx, schema)
	logger.DatabaseResult("migrate", 0, err)
	if err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

func (s *Store) Bookings() repository.BookingRepository { return s.bookings }

func (s *Store) Items() repository.ItemRepository { return s.items }

func (s *Store) Customers() repository.CustomerRepository { return s.customers }

func (s *Store) Close() error { return s.db.Close() }

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func stringPtr(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}
