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

var bookingColumns = []string{
	"id", "customer_id", "items",
	"delivery_date", "return_date", "start_date", "end_date",
	"delivery_charge", "other_charges", "advances",
	"total_rent", "total_charges", "total_amount", "total_advance", "due_amount",
	"status", "notes", "created_at", "updated_at",
}

type bookingRepository struct {
	db *sql.DB
}

func NewBookingRepository(db *sql.DB) repository.BookingRepository {
	return &bookingRepository{db: db}
}

func (r *bookingRepository) ListAll(ctx context.Context) (map[string]domain.Booking, error) {
	query, args, err := psql.Select(bookingColumns...).From("bookings").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	logger.DatabaseCall("bookings.ListAll", query)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.DatabaseResult("bookings.ListAll", 0, err)
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]domain.Booking)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out[b.ID] = *b
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	logger.DatabaseResult("bookings.ListAll", int64(len(out)), nil)
	return out, nil
}

func (r *bookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	query, args, err := psql.Select(bookingColumns...).From("bookings").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	logger.DatabaseCall("bookings.GetByID", query, "bookingID", id)
	b, err := scanBooking(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("booking %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		logger.DatabaseResult("bookings.GetByID", 0, err, "bookingID", id)
		return nil, err
	}
	return b, nil
}

func (r *bookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	values, err := bookingValues(b)
	if err != nil {
		return err
	}
	query, args, err := psql.Insert("bookings").Columns(bookingColumns...).Values(values...).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	logger.DatabaseCall("bookings.Create", query, "bookingID", b.ID)
	res, err := r.db.ExecContext(ctx, query, args...)
	logger.DatabaseResult("bookings.Create", rowsAffected(res), err, "bookingID", b.ID)
	return err
}

func (r *bookingRepository) Replace(ctx context.Context, b *domain.Booking) error {
	values, err := bookingValues(b)
	if err != nil {
		return err
	}

	update := psql.Update("bookings")
	// Skip id; created_at is kept as written at creation.
	for i, col := range bookingColumns {
		if col == "id" || col == "created_at" {
			continue
		}
		update = update.Set(col, values[i])
	}
	query, args, err := update.Where(squirrel.Eq{"id": b.ID}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	return r.exec(ctx, "bookings.Replace", b.ID, query, args)
}

func (r *bookingRepository) Update(ctx context.Context, id string, patch domain.BookingPatch) error {
	update := psql.Update("bookings").Set("updated_at", patch.UpdatedAt)
	if patch.Status != nil {
		update = update.Set("status", string(*patch.Status))
	}
	if patch.Advances != nil {
		advances, err := json.Marshal(patch.Advances)
		if err != nil {
			return fmt.Errorf("failed to encode advances: %w", err)
		}
		update = update.Set("advances", advances)
	}
	if t := patch.Totals; t != nil {
		update = update.
			Set("total_rent", t.TotalRent).
			Set("total_charges", t.TotalCharges).
			Set("total_amount", t.TotalAmount).
			Set("total_advance", t.TotalAdvance).
			Set("due_amount", t.DueAmount)
	}

	query, args, err := update.Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}
	return r.exec(ctx, "bookings.Update", id, query, args)
}

func (r *bookingRepository) Delete(ctx context.Context, id string) error {
	query, args, err := psql.Delete("bookings").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}
	return r.exec(ctx, "bookings.Delete", id, query, args)
}

// exec runs a single-row write and maps zero affected rows to ErrNotFound.
func (r *bookingRepository) exec(ctx context.Context, op, id, query string, args []interface{}) error {
	logger.DatabaseCall(op, query, "bookingID", id)
	res, err := r.db.ExecContext(ctx, query, args...)
	n := rowsAffected(res)
	logger.DatabaseResult(op, n, err, "bookingID", id)
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("booking %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var (
		b                              domain.Booking
		items, advances                []byte
		delivery, returned, start, end sql.NullTime
		status                         string
	)
	err := row.Scan(
		&b.ID, &b.CustomerID, &items,
		&delivery, &returned, &start, &end,
		&b.DeliveryCharge, &b.OtherCharges, &advances,
		&b.Totals.TotalRent, &b.Totals.TotalCharges, &b.Totals.TotalAmount, &b.Totals.TotalAdvance, &b.Totals.DueAmount,
		&status, &b.Notes, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(items) > 0 {
		if err := json.Unmarshal(items, &b.Items); err != nil {
			return nil, fmt.Errorf("booking %s: failed to decode items: %w", b.ID, err)
		}
	}
	if len(advances) > 0 {
		if err := json.Unmarshal(advances, &b.Advances); err != nil {
			return nil, fmt.Errorf("booking %s: failed to decode advances: %w", b.ID, err)
		}
	}
	b.DeliveryDate = timePtr(delivery)
	b.ReturnDate = timePtr(returned)
	b.StartDate = timePtr(start)
	b.EndDate = timePtr(end)
	b.Status = domain.BookingStatus(status)
	return &b, nil
}

// bookingValues follows the order of bookingColumns.
func bookingValues(b *domain.Booking) ([]interface{}, error) {
	items := b.Items
	if items == nil {
		items = []domain.LineItem{}
	}
	itemsJSON, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("failed to encode items: %w", err)
	}
	advances := b.Advances
	if advances == nil {
		advances = []domain.Advance{}
	}
	advancesJSON, err := json.Marshal(advances)
	if err != nil {
		return nil, fmt.Errorf("failed to encode advances: %w", err)
	}

	return []interface{}{
		b.ID, b.CustomerID, itemsJSON,
		nullTime(b.DeliveryDate), nullTime(b.ReturnDate), nullTime(b.StartDate), nullTime(b.EndDate),
		b.DeliveryCharge, b.OtherCharges, advancesJSON,
		b.Totals.TotalRent, b.Totals.TotalCharges, b.Totals.TotalAmount, b.Totals.TotalAdvance, b.Totals.DueAmount,
		string(b.Status), b.Notes, b.CreatedAt, b.UpdatedAt,
	}, nil
}

func rowsAffected(res sql.Result) int64 {
	if res == nil {
		return 0
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0
	}
	return n
}
