package scheduler

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"wardrobe-rental-backend/internal/jobs"
	"wardrobe-rental-backend/internal/logger"
)

// Scheduler manages cron job scheduling
type Scheduler struct {
	cron *cron.Cron
	jobs *jobs.JobRunner
}

// NewScheduler creates a new scheduler with the provided job runner.
// An invalid cron expression fails construction.
func NewScheduler(jobRunner *jobs.JobRunner) (*Scheduler, error) {
	// Create cron with UTC timezone and seconds precision
	c := cron.New(
		cron.WithLocation(time.UTC),
		cron.WithSeconds(),
	)

	s := &Scheduler{
		cron: c,
		jobs: jobRunner,
	}

	if err := s.registerJobs(); err != nil {
		return nil, err
	}
	return s, nil
}

// registerJobs registers all scheduled jobs with the cron scheduler
func (s *Scheduler) registerJobs() error {
	cfg := s.jobs.Config().Scheduler

	entries := []struct {
		name string
		spec string
		run  func() error
	}{
		{"RecomputeCustomerStats", cfg.RecomputeCustomerStats, s.jobs.RecomputeCustomerStats},
		{"SendDeliveryReminders", cfg.SendDeliveryReminders, s.jobs.SendDeliveryReminders},
		{"SendReturnReminders", cfg.SendReturnReminders, s.jobs.SendReturnReminders},
	}

	for _, e := range entries {
		run := e.run
		if _, err := s.cron.AddFunc(e.spec, func() { _ = run() }); err != nil {
			logger.Error("Failed to register job", "job", e.name, "schedule", e.spec, "error", err)
			return fmt.Errorf("failed to register %s: %w", e.name, err)
		}
		logger.Debug("Registered job", "job", e.name, "schedule", e.spec)
	}

	logger.Info("All cron jobs registered successfully", "count", len(entries))
	return nil
}

// Start begins the cron scheduler
func (s *Scheduler) Start() {
	logger.Info("Starting cron scheduler...")
	s.cron.Start()
	logger.Info("Cron scheduler started successfully")
}

// Stop gracefully stops the cron scheduler, waiting for running jobs
func (s *Scheduler) Stop() {
	logger.Info("Stopping cron scheduler...")
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.Info("Cron scheduler stopped")
}

// Entries returns the number of registered jobs
func (s *Scheduler) Entries() int {
	return len(s.cron.Entries())
}
