package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	httpapi "wardrobe-rental-backend/internal/api/http"
	"wardrobe-rental-backend/internal/app"
	"wardrobe-rental-backend/internal/config"
	"wardrobe-rental-backend/internal/logger"
	"wardrobe-rental-backend/internal/metrics"
	"wardrobe-rental-backend/internal/security"
	"wardrobe-rental-backend/internal/service"
)

const healthServiceName = "wardrobe.api.v1"

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file (.yaml or .toml)")
	hashPassword := flag.String("hash-password", "", "Print the bcrypt hash of an operator password and exit")
	flag.Parse()

	if *hashPassword != "" {
		hash, err := security.HashPassword(*hashPassword)
		if err != nil {
			log.Fatalf("Failed to hash password: %v", err)
		}
		fmt.Println(hash)
		return
	}

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Wardrobe Rental Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress(), "store", cfg.Store.Driver)

	ctx := context.Background()

	// Initialize Store
	store, err := app.OpenStore(ctx, cfg)
	if err != nil {
		logger.Error("Failed to open store", "error", err)
		log.Fatalf("Failed to open store: %v", err)
	}
	defer store.Close()

	// Initialize Metrics
	var (
		svcMetrics   service.Metrics
		httpObserver httpapi.HTTPObserver
		metricsPath  string
		metricsH     http.Handler
	)
	if cfg.Metrics.Enabled {
		m := metrics.New(prometheus.DefaultRegisterer, cfg.Metrics.Namespace)
		svcMetrics = m
		httpObserver = m
		metricsPath = cfg.Metrics.Path
		metricsH = promhttp.Handler()
		logger.Info("Metrics enabled", "path", cfg.Metrics.Path)
	}

	// Initialize Services
	svcs, err := app.NewServices(cfg, store, svcMetrics, app.NewEmailService(cfg))
	if err != nil {
		logger.Error("Failed to build services", "error", err)
		log.Fatalf("Failed to build services: %v", err)
	}

	// Initialize Security
	tokenManager := security.NewTokenManager(cfg.JWT.Secret, time.Duration(cfg.JWT.AccessTokenExpiry)*time.Minute)
	if len(cfg.Auth.Operators) == 0 {
		logger.Warn("No operators configured, no API tokens can be issued")
	}

	// Set up HTTP API
	handler := httpapi.NewHandler(httpapi.Dependencies{
		Bookings:  svcs.Bookings,
		Items:     svcs.Items,
		Customers: svcs.Customers,
		Stats:     svcs.Stats,
		Partners:  svcs.Partners,
		Tokens:    tokenManager,
		Operators: cfg.Auth.Operators,
		Settings:  cfg.Settings,
	})
	router := httpapi.NewRouter(handler, httpapi.RouterOptions{
		Observer:       httpObserver,
		MetricsPath:    metricsPath,
		MetricsHandler: metricsH,
	})

	srv := &http.Server{
		Addr:         cfg.GetServerAddress(),
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server error", "error", err)
			log.Fatalf("HTTP server failed: %v", err)
		}
	}()

	// Set up gRPC health server
	var (
		grpcServer   *grpc.Server
		healthServer *health.Server
	)
	if cfg.GRPC.Enabled {
		lis, err := net.Listen("tcp", cfg.GetGRPCAddress())
		if err != nil {
			logger.Error("Failed to listen", "error", err, "address", cfg.GetGRPCAddress())
			log.Fatalf("Failed to listen: %v", err)
		}

		grpcServer = grpc.NewServer()
		healthServer = health.NewServer()
		healthpb.RegisterHealthServer(grpcServer, healthServer)
		healthServer.SetServingStatus(healthServiceName, healthpb.HealthCheckResponse_SERVING)

		// Register reflection service for grpcurl
		reflection.Register(grpcServer)

		go func() {
			logger.Info("gRPC health server listening", "address", cfg.GetGRPCAddress())
			if err := grpcServer.Serve(lis); err != nil {
				logger.Error("Failed to serve gRPC", "error", err)
			}
		}()
	}

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	if healthServer != nil {
		healthServer.Shutdown()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}
	if grpcServer != nil {
		grpcServer.GracefulStop()
	}

	logger.Info("Server stopped gracefully")
}
