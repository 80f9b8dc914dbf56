package jobs

import (
	"context"

	"wardrobe-rental-backend/internal/logger"
	"wardrobe-rental-backend/internal/service"
)

// RecomputeCustomerStats repairs every customer's cached counters from their bookings.
// It catches stats that drifted when a refresh after a booking write failed.
func (jr *JobRunner) RecomputeCustomerStats() error {
	return jr.runWithRecovery("RecomputeCustomerStats", func(ctx context.Context) error {
		updated, err := jr.services.Stats.RecomputeAll(ctx)
		logger.Info("Customer stats repaired", "updated", updated)
		return err
	})
}

// SendDeliveryReminders e-mails customers whose rental is delivered tomorrow
func (jr *JobRunner) SendDeliveryReminders() error {
	return jr.runWithRecovery("SendDeliveryReminders", func(ctx context.Context) error {
		sent, err := jr.services.Reminders.SendDue(ctx, service.ReminderDelivery)
		logger.Info("Delivery reminders sent", "count", sent)
		return err
	})
}

// SendReturnReminders e-mails customers whose rental is due back tomorrow
func (jr *JobRunner) SendReturnReminders() error {
	return jr.runWithRecovery("SendReturnReminders", func(ctx context.Context) error {
		sent, err := jr.services.Reminders.SendDue(ctx, service.ReminderReturn)
		logger.Info("Return reminders sent", "count", sent)
		return err
	})
}
