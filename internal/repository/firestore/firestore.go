// Package firestore stores bookings, inventory and customers as Firestore
// documents, one collection each. Document ids are the domain ids.
package firestore

import (
	"context"
	"errors"
	"fmt"

	fs "cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"wardrobe-rental-backend/internal/domain"
	"wardrobe-rental-backend/internal/logger"
	"wardrobe-rental-backend/internal/repository"
)

const (
	bookingsCollection  = "bookings"
	inventoryCollection = "inventory"
	customersCollection = "customers"
)

type Config struct {
	ProjectID       string
	CredentialsFile string
}

type Store struct {
	client    *fs.Client
	bookings  repository.BookingRepository
	items     repository.ItemRepository
	customers repository.CustomerRepository
}

// NewClient boots a Firebase app and returns its Firestore client. With no
// credentials file the application default credentials (or the emulator named
// by FIRESTORE_EMULATOR_HOST) are used.
func NewClient(ctx context.Context, cfg Config) (*fs.Client, error) {
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	logger.ExternalServiceCall("firebase", "NewApp", "projectID", cfg.ProjectID)
	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.ProjectID}, opts...)
	if err != nil {
		logger.ExternalServiceResult("firebase", "NewApp", err)
		return nil, fmt.Errorf("failed to initialize firebase app: %w", err)
	}

	client, err := app.Firestore(ctx)
	logger.ExternalServiceResult("firebase", "Firestore", err)
	if err != nil {
		return nil, fmt.Errorf("failed to create firestore client: %w", err)
	}
	return client, nil
}

func NewStore(client *fs.Client) *Store {
	return &Store{
		client:    client,
		bookings:  &bookingRepository{col: client.Collection(bookingsCollection)},
		items:     &itemRepository{col: client.Collection(inventoryCollection)},
		customers: &customerRepository{col: client.Collection(customersCollection)},
	}
}

func (s *Store) Bookings() repository.BookingRepository { return s.bookings }

func (s *Store) Items() repository.ItemRepository { return s.items }

func (s *Store) Customers() repository.CustomerRepository { return s.customers }

func (s *Store) Close() error { return s.client.Close() }

// mapErr turns Firestore's NotFound status into domain.ErrNotFound.
func mapErr(err error, kind, id string) error {
	if err == nil {
		return nil
	}
	if status.Code(err) == codes.NotFound {
		return fmt.Errorf("%s %s: %w", kind, id, domain.ErrNotFound)
	}
	return fmt.Errorf("%s %s: %w", kind, id, err)
}

func loadAll[T any](ctx context.Context, col *fs.CollectionRef, setID func(*T, string)) (map[string]T, error) {
	logger.ExternalServiceCall("firestore", "Documents", "collection", col.ID)
	iter := col.Documents(ctx)
	defer iter.Stop()

	out := make(map[string]T)
	for {
		doc, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			logger.ExternalServiceResult("firestore", "Documents", err, "collection", col.ID)
			return nil, fmt.Errorf("failed to read %s: %w", col.ID, err)
		}
		var v T
		if err := doc.DataTo(&v); err != nil {
			return nil, fmt.Errorf("failed to decode %s/%s: %w", col.ID, doc.Ref.ID, err)
		}
		setID(&v, doc.Ref.ID)
		out[doc.Ref.ID] = v
	}
	logger.ExternalServiceResult("firestore", "Documents", nil, "collection", col.ID, "count", len(out))
	return out, nil
}

func loadOne[T any](ctx context.Context, col *fs.CollectionRef, kind, id string, setID func(*T, string)) (*T, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: %s id is required", domain.ErrInvalidInput, kind)
	}
	doc, err := col.Doc(id).Get(ctx)
	if err != nil {
		return nil, mapErr(err, kind, id)
	}
	var v T
	if err := doc.DataTo(&v); err != nil {
		return nil, fmt.Errorf("failed to decode %s %s: %w", kind, id, err)
	}
	setID(&v, id)
	return &v, nil
}
