package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"golang.org/x/sync/errgroup"

	grpcapi "libratrack-admin-backend/internal/api/grpc"
	httpapi "libratrack-admin-backend/internal/api/http"
	"libratrack-admin-backend/internal/config"
	"libratrack-admin-backend/internal/logger"
	"libratrack-admin-backend/internal/repository/postgres"
	"libratrack-admin-backend/internal/repository/restapi"
	"libratrack-admin-backend/internal/security"
	"libratrack-admin-backend/internal/service"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		log.Fatalf("Server stopped with error: %v", err)
	}
	logger.Info("Server stopped")
}

// run wires the server and blocks until it shuts down. Resources it opens are
// released before it returns.
func run(configPath string) error {
	// Load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting LibraTrack Admin Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "http_address", cfg.GetServerAddress(), "grpc_address", cfg.GetGRPCAddress())
	logger.Info("Library API configuration", "base_url", cfg.API.BaseURL, "timeout_seconds", cfg.API.TimeoutSeconds)
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)

	// Initialize Database
	logger.Debug("Connecting to database...", "connection_string", fmt.Sprintf("%s@%s:%d/%s", cfg.Database.User, cfg.Database.Host, cfg.Database.Port, cfg.Database.Database))
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	// Test database connection
	if err := db.Ping(); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}
	logger.Info("Database connection established")

	if err := postgres.EnsureSchema(context.Background(), db); err != nil {
		return fmt.Errorf("prepare schema: %w", err)
	}

	// Initialize Repositories
	backend := restapi.NewStore(cfg.API.BaseURL, cfg.ClientTimeout())
	outbox := postgres.NewStore(db)

	// Initialize Security
	tokenManager := security.NewTokenManager(cfg.JWT.Secret)

	// Initialize Services
	snapshotSvc := service.NewSnapshotService(
		backend.BookRepository,
		backend.MemberRepository,
		backend.LendingRepository,
		backend.FineRepository,
		cfg.FetchTimeout(),
	)
	activitySvc := service.NewActivityService(snapshotSvc)
	dashboardSvc := service.NewDashboardService(snapshotSvc, cfg.DailyRate(), cfg.FinesLocation())
	returnSvc := service.NewReturnService(
		backend.LendingRepository,
		backend.FineRepository,
		outbox.PendingFineRepository,
		service.ReturnConfig{
			DailyRate:    cfg.DailyRate(),
			Location:     cfg.FinesLocation(),
			Timeout:      cfg.ReturnTimeout(),
			MaxAttempts:  cfg.Fines.MaxAttempts,
			RetryBackoff: cfg.RetryBackoff(),
		},
	)
	lendingSvc := service.NewLendingService(backend.LendingRepository, backend.MemberRepository, backend.BookRepository)
	fineSvc := service.NewFineService(
		backend.FineRepository,
		backend.LendingRepository,
		outbox.PendingFineRepository,
		service.FineConfig{
			MaxAttempts:   cfg.Fines.MaxReconcileAttempts,
			LandingWindow: cfg.FineLandingWindow(),
		},
	)

	// Initialize HTTP handlers
	handler := httpapi.NewHandler(&httpapi.Services{
		Activity:  activitySvc,
		Dashboard: dashboardSvc,
		Return:    returnSvc,
		Lending:   lendingSvc,
		Fine:      fineSvc,
	}, cfg.FinesLocation())
	router := httpapi.NewRouter(handler, httpapi.NewAuthMiddleware(tokenManager))

	httpServer := &http.Server{
		Addr:              cfg.GetServerAddress(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Set up gRPC health server
	healthServer := grpcapi.NewHealthServer()
	lis, err := net.Listen("tcp", cfg.GetGRPCAddress())
	if err != nil {
		return fmt.Errorf("listen on %s: %w", cfg.GetGRPCAddress(), err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("HTTP server listening", "address", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		return healthServer.Serve(lis)
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down...")
		healthServer.SetServing(false)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		err := httpServer.Shutdown(shutdownCtx)
		healthServer.Stop()
		return err
	})

	healthServer.SetServing(true)

	return g.Wait()
}
