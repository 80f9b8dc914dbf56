// Package app wires configuration, persistence and services for the binaries.
package app

import (
	"context"
	"fmt"
	"time"

	"wardrobe-rental-backend/internal/config"
	"wardrobe-rental-backend/internal/logger"
	"wardrobe-rental-backend/internal/repository"
	"wardrobe-rental-backend/internal/repository/firestore"
	"wardrobe-rental-backend/internal/repository/postgres"
	"wardrobe-rental-backend/internal/service"
)

// Services holds every service built on top of one store.
type Services struct {
	Bookings  service.BookingService
	Items     service.ItemService
	Customers service.CustomerService
	Stats     service.CustomerStatsService
	Partners  service.PartnerService
	Reminders service.ReminderService
}

// OpenStore connects to the backend named by store.driver.
func OpenStore(ctx context.Context, cfg *config.Config) (repository.Store, error) {
	switch cfg.Store.Driver {
	case config.DriverPostgres:
		logger.Info("Connecting to database...", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database)
		db, err := postgres.Open(ctx, cfg.GetDatabaseConnectionString(),
			cfg.Database.MaxOpenConns,
			cfg.Database.MaxIdleConns,
			time.Duration(cfg.Database.ConnMaxLifetime)*time.Second,
		)
		if err != nil {
			return nil, err
		}
		if cfg.Database.AutoMigrate {
			if err := postgres.Migrate(ctx, db); err != nil {
				db.Close()
				return nil, err
			}
			logger.Info("Database schema applied")
		}
		logger.Info("Database connection established")
		return postgres.NewStore(db), nil

	case config.DriverFirestore:
		logger.Info("Connecting to Firestore...", "project_id", cfg.Firebase.ProjectID)
		client, err := firestore.NewClient(ctx, firestore.Config{
			ProjectID:       cfg.Firebase.ProjectID,
			CredentialsFile: cfg.Firebase.CredentialsFile,
		})
		if err != nil {
			return nil, err
		}
		logger.Info("Firestore client ready")
		return firestore.NewStore(client), nil

	default:
		return nil, fmt.Errorf("unknown store driver: %q", cfg.Store.Driver)
	}
}

// NewEmailService sends through SendGrid when an API key is configured and
// only logs otherwise.
func NewEmailService(cfg *config.Config) service.EmailService {
	if cfg.SendGrid.APIKey == "" {
		logger.Warn("SendGrid API key not set, reminder e-mails will only be logged")
		return service.NewLogEmailService()
	}
	return service.NewSendGridEmailService(cfg.SendGrid.APIKey, cfg.SendGrid.FromEmail, cfg.SendGrid.FromName)
}

// NewServices builds the services. metrics may be nil.
func NewServices(cfg *config.Config, store repository.Store, metrics service.Metrics, email service.EmailService) (*Services, error) {
	stats, err := service.NewCustomerStatsService(
		store.Bookings(),
		store.Customers(),
		service.ActivePolicy(cfg.Engine.ActiveBookingPolicy),
	)
	if err != nil {
		return nil, err
	}

	bookings := service.NewBookingService(
		store.Bookings(),
		store.Items(),
		stats,
		metrics,
		service.EngineOptions{
			ActivePolicy:     service.ActivePolicy(cfg.Engine.ActiveBookingPolicy),
			IncludeCompleted: cfg.Engine.AvailabilityIncludeCompleted,
		},
	)

	businessName := cfg.Settings.BusinessName
	if businessName == "" {
		businessName = cfg.SendGrid.FromName
	}
	reminders := service.NewReminderService(
		store.Bookings(),
		store.Customers(),
		email,
		metrics,
		service.ReminderFormat{
			BusinessName:   businessName,
			CurrencySymbol: cfg.Settings.CurrencySymbol,
			DateFormat:     cfg.Settings.DateFormat,
		},
	)

	return &Services{
		Bookings:  bookings,
		Items:     service.NewItemService(store.Items()),
		Customers: service.NewCustomerService(store.Customers()),
		Stats:     stats,
		Partners:  service.NewPartnerService(store.Items(), store.Bookings()),
		Reminders: reminders,
	}, nil
}
