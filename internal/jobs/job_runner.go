package jobs

import (
	"context"
	"fmt"
	"time"

	"wardrobe-rental-backend/internal/config"
	"wardrobe-rental-backend/internal/logger"
	"wardrobe-rental-backend/internal/service"
)

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	services *Services
	config   *config.Config
	observer Observer
	timeout  time.Duration
}

// Services holds all service dependencies needed by jobs
type Services struct {
	Stats     service.CustomerStatsService
	Reminders service.ReminderService
}

// Observer receives the outcome of every job run.
type Observer interface {
	ObserveJob(job string, elapsed time.Duration, err error)
}

// NewJobRunner creates a new job runner with all dependencies. observer may be nil.
func NewJobRunner(services *Services, cfg *config.Config, observer Observer) *JobRunner {
	return &JobRunner{
		services: services,
		config:   cfg,
		observer: observer,
		timeout:  10 * time.Minute,
	}
}

// Config returns the configuration the jobs were built with
func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// runWithRecovery wraps job execution with panic recovery, a deadline and reporting
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func(ctx context.Context) error) (err error) {
	start := time.Now()
	ctx, cancel := context.WithTimeout(context.Background(), jr.timeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panicked", "job", jobName, "panic", r)
			err = fmt.Errorf("job %s panicked: %v", jobName, r)
		}
		elapsed := time.Since(start)
		logger.JobRun(jobName, elapsed, err)
		if jr.observer != nil {
			jr.observer.ObserveJob(jobName, elapsed, err)
		}
	}()

	logger.Info("Starting job", "job", jobName)
	return jobFunc(ctx)
}

// RunAllNightlyJobs runs all daily jobs (for manual execution)
func (jr *JobRunner) RunAllNightlyJobs() error {
	var firstErr error
	for _, job := range []func() error{
		jr.RecomputeCustomerStats,
		jr.SendDeliveryReminders,
		jr.SendReturnReminders,
	} {
		if err := job(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
