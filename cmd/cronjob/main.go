package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"wardrobe-rental-backend/internal/app"
	"wardrobe-rental-backend/internal/config"
	"wardrobe-rental-backend/internal/jobs"
	"wardrobe-rental-backend/internal/logger"
	"wardrobe-rental-backend/internal/metrics"
	"wardrobe-rental-backend/internal/scheduler"
	"wardrobe-rental-backend/internal/service"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file (.yaml or .toml)")
	runOnce := flag.String("run-once", "", "Run a specific job once and exit (e.g., 'recompute-customer-stats', 'all-nightly')")
	metricsAddr := flag.String("metrics-addr", "", "Serve Prometheus metrics on this address (e.g. ':9091')")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Wardrobe Cronjob Runner...", "log_level", cfg.Log.Level, "store", cfg.Store.Driver)

	// Initialize Store
	store, err := app.OpenStore(context.Background(), cfg)
	if err != nil {
		logger.Error("Failed to open store", "error", err)
		log.Fatalf("Failed to open store: %v", err)
	}
	defer store.Close()

	// Initialize Metrics
	var (
		svcMetrics service.Metrics
		jobObs     jobs.Observer
	)
	if cfg.Metrics.Enabled {
		m := metrics.New(prometheus.DefaultRegisterer, cfg.Metrics.Namespace)
		svcMetrics = m
		jobObs = m
		if *metricsAddr != "" {
			go func() {
				mux := http.NewServeMux()
				mux.Handle(cfg.Metrics.Path, promhttp.Handler())
				logger.Info("Metrics endpoint listening", "address", *metricsAddr, "path", cfg.Metrics.Path)
				if err := http.ListenAndServe(*metricsAddr, mux); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Error("Metrics server error", "error", err)
				}
			}()
		}
	}

	// Initialize Services
	svcs, err := app.NewServices(cfg, store, svcMetrics, app.NewEmailService(cfg))
	if err != nil {
		logger.Error("Failed to build services", "error", err)
		log.Fatalf("Failed to build services: %v", err)
	}

	// Initialize Job Runner
	jobRunner := jobs.NewJobRunner(&jobs.Services{
		Stats:     svcs.Stats,
		Reminders: svcs.Reminders,
	}, cfg, jobObs)

	// Check if running a single job
	if *runOnce != "" {
		logger.Info("Running job once", "job", *runOnce)
		if err := runJobOnce(jobRunner, *runOnce); err != nil {
			logger.Error("Job execution failed", "job", *runOnce, "error", err)
			os.Exit(1)
		}
		logger.Info("Job execution completed", "job", *runOnce)
		return
	}

	// Initialize Scheduler
	cronScheduler, err := scheduler.NewScheduler(jobRunner)
	if err != nil {
		log.Fatalf("Failed to create scheduler: %v", err)
	}

	// Start scheduler
	cronScheduler.Start()
	logger.Info("Cronjob scheduler is running. Press Ctrl+C to stop.")

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	// Graceful shutdown
	logger.Info("Shutting down cronjob scheduler...")
	cronScheduler.Stop()
	logger.Info("Cronjob scheduler stopped. Goodbye!")
}

// runJobOnce runs a specific job once
func runJobOnce(jobRunner *jobs.JobRunner, jobName string) error {
	switch jobName {
	case "recompute-customer-stats":
		return jobRunner.RecomputeCustomerStats()
	case "send-delivery-reminders":
		return jobRunner.SendDeliveryReminders()
	case "send-return-reminders":
		return jobRunner.SendReturnReminders()
	case "all-nightly":
		return jobRunner.RunAllNightlyJobs()
	default:
		fmt.Printf("Available jobs:\n")
		fmt.Printf("  - recompute-customer-stats\n")
		fmt.Printf("  - send-delivery-reminders\n")
		fmt.Printf("  - send-return-reminders\n")
		fmt.Printf("  - all-nightly\n")
		return fmt.Errorf("unknown job name: %q", jobName)
	}
}
