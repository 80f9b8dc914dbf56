package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"wardrobe-rental-backend/internal/domain"
	"wardrobe-rental-backend/internal/logger"
	"wardrobe-rental-backend/internal/repository"
	"wardrobe-rental-backend/internal/utils"
)

type ReminderKind string

const (
	ReminderDelivery ReminderKind = "delivery"
	ReminderReturn   ReminderKind = "return"
)

// Reminder is a booking whose delivery or return falls on the next calendar day.
type Reminder struct {
	Kind      ReminderKind
	BookingID string
	Customer  domain.Customer
	Date      time.Time
	ItemNames []string
	DueAmount float64
}

// DueReminders picks bookings waiting for delivery whose delivery date is
// tomorrow, and bookings waiting for return whose return date is tomorrow.
// Bookings whose customer is unknown are skipped.
func DueReminders(now time.Time, kind ReminderKind, bookings map[string]domain.Booking, customers map[string]domain.Customer) []Reminder {
	tomorrow := now.UTC().AddDate(0, 0, 1)

	var out []Reminder
	for id, b := range bookings {
		var date *time.Time
		switch {
		case kind == ReminderDelivery && b.Status == domain.BookingStatusWaitingForDelivery:
			date = b.DeliveryDate
		case kind == ReminderReturn && b.Status == domain.BookingStatusWaitingForReturn:
			date = b.ReturnDate
		}
		if date == nil || !utils.SameDay(*date, tomorrow) {
			continue
		}
		c, ok := customers[b.CustomerID]
		if !ok {
			continue
		}
		c.ID = b.CustomerID

		names := make([]string, 0, len(b.Items))
		for _, li := range b.Items {
			names = append(names, li.ItemName)
		}
		out = append(out, Reminder{
			Kind:      kind,
			BookingID: id,
			Customer:  c,
			Date:      *date,
			ItemNames: names,
			DueAmount: b.Totals.DueAmount,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].BookingID < out[j].BookingID })
	return out
}

// ReminderFormat is how dates and money appear in reminder e-mails.
type ReminderFormat struct {
	BusinessName   string
	CurrencySymbol string
	DateFormat     string
}

type reminderService struct {
	bookingRepo  repository.BookingRepository
	customerRepo repository.CustomerRepository
	emailSvc     EmailService
	metrics      Metrics
	format       ReminderFormat
	now          func() time.Time
}

func NewReminderService(
	bookingRepo repository.BookingRepository,
	customerRepo repository.CustomerRepository,
	emailSvc EmailService,
	metrics Metrics,
	format ReminderFormat,
) ReminderService {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	return &reminderService{
		bookingRepo:  bookingRepo,
		customerRepo: customerRepo,
		emailSvc:     emailSvc,
		metrics:      metrics,
		format:       format,
		now:          time.Now,
	}
}

// SendDue e-mails every due reminder of the given kind and returns how many
// were sent. Customers without an e-mail address are skipped.
func (s *reminderService) SendDue(ctx context.Context, kind ReminderKind) (int, error) {
	logger.EnterMethod("reminderService.SendDue", "kind", kind)

	bookings, err := s.bookingRepo.ListAll(ctx)
	if err != nil {
		logger.ExitMethodWithError("reminderService.SendDue", err)
		return 0, fmt.Errorf("failed to load bookings: %w", err)
	}
	customers, err := s.customerRepo.ListAll(ctx)
	if err != nil {
		logger.ExitMethodWithError("reminderService.SendDue", err)
		return 0, fmt.Errorf("failed to load customers: %w", err)
	}

	sent := 0
	var firstErr error
	for _, r := range DueReminders(s.now(), kind, bookings, customers) {
		if r.Customer.Email == "" {
			logger.Debug("Skipping reminder, customer has no email", "bookingID", r.BookingID, "customerID", r.Customer.ID)
			continue
		}
		subject, body := s.compose(r)
		err := s.emailSvc.SendEmail(ctx, r.Customer.Email, r.Customer.Name, subject, body, "")
		s.metrics.ReminderSent(string(kind), err)
		if err != nil {
			logger.Error("Failed to send reminder", "bookingID", r.BookingID, "error", err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		sent++
	}

	logger.ExitMethod("reminderService.SendDue", "kind", kind, "sent", sent)
	return sent, firstErr
}

func (s *reminderService) compose(r Reminder) (string, string) {
	date := utils.FormatDate(r.Date, s.format.DateFormat)
	items := strings.Join(r.ItemNames, ", ")

	var subject, action string
	switch r.Kind {
	case ReminderDelivery:
		subject = fmt.Sprintf("Your rental will be delivered on %s", date)
		action = "will be delivered"
	default:
		subject = fmt.Sprintf("Your rental is due back on %s", date)
		action = "are due back"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Hello %s,\n\n", r.Customer.Name)
	fmt.Fprintf(&b, "This is a reminder that the following items %s on %s: %s.\n", action, date, items)
	if r.DueAmount > 0 {
		fmt.Fprintf(&b, "\nAmount due: %s\n", utils.FormatCurrency(r.DueAmount, s.format.CurrencySymbol))
	}
	if s.format.BusinessName != "" {
		fmt.Fprintf(&b, "\nThank you,\n%s", s.format.BusinessName)
	}
	return subject, b.String()
}
