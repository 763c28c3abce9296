package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/lib/pq"

	"libratrack-admin-backend/internal/config"
	"libratrack-admin-backend/internal/jobs"
	"libratrack-admin-backend/internal/logger"
	"libratrack-admin-backend/internal/repository/postgres"
	"libratrack-admin-backend/internal/repository/restapi"
	"libratrack-admin-backend/internal/scheduler"
	"libratrack-admin-backend/internal/security"
	"libratrack-admin-backend/internal/service"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	runOnce := flag.String("run-once", "", "Run a specific job once and exit (e.g., 'retry-pending-fines', 'send-overdue-digest', 'all')")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting LibraTrack Cronjob Runner...", "log_level", cfg.Log.Level)

	// Initialize Database
	logger.Info("Connecting to database...", "host", cfg.Database.Host, "port", cfg.Database.Port)
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Test database connection
	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	if err := postgres.EnsureSchema(context.Background(), db); err != nil {
		logger.Error("Failed to prepare schema", "error", err)
		log.Fatalf("Failed to prepare schema: %v", err)
	}

	// Initialize Repositories
	backend := restapi.NewStore(cfg.API.BaseURL, cfg.ClientTimeout())
	outbox := postgres.NewStore(db)

	// Initialize Services
	snapshotService := service.NewSnapshotService(
		backend.BookRepository,
		backend.MemberRepository,
		backend.LendingRepository,
		backend.FineRepository,
		cfg.FetchTimeout(),
	)

	jobServices := &jobs.Services{
		Fine: service.NewFineService(
			backend.FineRepository,
			backend.LendingRepository,
			outbox.PendingFineRepository,
			service.FineConfig{
				MaxAttempts:   cfg.Fines.MaxReconcileAttempts,
				LandingWindow: cfg.FineLandingWindow(),
			},
		),
		Dashboard: service.NewDashboardService(snapshotService, cfg.DailyRate(), cfg.FinesLocation()),
		Email:     service.NewEmailService(cfg.SendGrid.APIKey, cfg.SendGrid.FromEmail, cfg.SendGrid.FromName),
	}

	// Initialize Job Runner
	jobRunner := jobs.NewJobRunner(jobServices, security.NewTokenManager(cfg.JWT.Secret), cfg)

	// Check if running a single job
	if *runOnce != "" {
		logger.Info("Running job once", "job", *runOnce)
		runJobOnce(jobRunner, *runOnce)
		logger.Info("Job execution completed", "job", *runOnce)
		return
	}

	// Initialize Scheduler
	cronScheduler, err := scheduler.NewScheduler(jobRunner)
	if err != nil {
		logger.Error("Failed to register jobs", "error", err)
		log.Fatalf("Failed to register jobs: %v", err)
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

// runJobOnce runs a specific job once and exits
func runJobOnce(jobRunner *jobs.JobRunner, jobName string) {
	switch jobName {
	case "retry-pending-fines":
		jobRunner.RetryPendingFines()
	case "send-overdue-digest":
		jobRunner.SendOverdueDigest()
	case "all":
		jobRunner.RunAll()
	default:
		logger.Error("Unknown job name", "job", jobName)
		fmt.Printf("Available jobs:\n")
		fmt.Printf("  - retry-pending-fines\n")
		fmt.Printf("  - send-overdue-digest\n")
		fmt.Printf("  - all\n")
		os.Exit(1)
	}
}
