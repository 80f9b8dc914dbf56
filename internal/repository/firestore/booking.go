package firestore

import (
	"context"

	fs "cloud.google.com/go/firestore"

	"wardrobe-rental-backend/internal/domain"
	"wardrobe-rental-backend/internal/logger"
)

type bookingRepository struct {
	col *fs.CollectionRef
}

func setBookingID(b *domain.Booking, id string) { b.ID = id }

func (r *bookingRepository) ListAll(ctx context.Context) (map[string]domain.Booking, error) {
	return loadAll(ctx, r.col, setBookingID)
}

func (r *bookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	return loadOne(ctx, r.col, "booking", id, setBookingID)
}

func (r *bookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	logger.ExternalServiceCall("firestore", "bookings.Create", "bookingID", b.ID)
	_, err := r.col.Doc(b.ID).Create(ctx, b)
	logger.ExternalServiceResult("firestore", "bookings.Create", err, "bookingID", b.ID)
	return mapErr(err, "booking", b.ID)
}

func (r *bookingRepository) Replace(ctx context.Context, b *domain.Booking) error {
	logger.ExternalServiceCall("firestore", "bookings.Replace", "bookingID", b.ID)
	_, err := r.col.Doc(b.ID).Set(ctx, b)
	logger.ExternalServiceResult("firestore", "bookings.Replace", err, "bookingID", b.ID)
	return mapErr(err, "booking", b.ID)
}

func (r *bookingRepository) Update(ctx context.Context, id string, patch domain.BookingPatch) error {
	updates := patchUpdates(patch)

	logger.ExternalServiceCall("firestore", "bookings.Update", "bookingID", id, "fields", len(updates))
	_, err := r.col.Doc(id).Update(ctx, updates)
	logger.ExternalServiceResult("firestore", "bookings.Update", err, "bookingID", id)
	return mapErr(err, "booking", id)
}

func (r *bookingRepository) Delete(ctx context.Context, id string) error {
	logger.ExternalServiceCall("firestore", "bookings.Delete", "bookingID", id)
	_, err := r.col.Doc(id).Delete(ctx, fs.Exists)
	logger.ExternalServiceResult("firestore", "bookings.Delete", err, "bookingID", id)
	return mapErr(err, "booking", id)
}

// patchUpdates lists the field paths a patch touches, using the document's
// field names.
func patchUpdates(patch domain.BookingPatch) []fs.Update {
	updates := []fs.Update{{Path: "updatedAt", Value: patch.UpdatedAt}}
	if patch.Status != nil {
		updates = append(updates, fs.Update{Path: "status", Value: string(*patch.Status)})
	}
	if patch.Advances != nil {
		updates = append(updates, fs.Update{Path: "advances", Value: patch.Advances})
	}
	if patch.Totals != nil {
		updates = append(updates, fs.Update{Path: "totals", Value: *patch.Totals})
	}
	return updates
}
