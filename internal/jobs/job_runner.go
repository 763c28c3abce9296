package jobs

import (
	"context"
	"time"

	"libratrack-admin-backend/internal/config"
	"libratrack-admin-backend/internal/domain"
	"libratrack-admin-backend/internal/logger"
	"libratrack-admin-backend/internal/security"
	"libratrack-admin-backend/internal/service"
)

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	services *Services
	tokens   security.TokenManager
	config   *config.Config
	now      func() time.Time
}

// Services holds all service dependencies needed by jobs
type Services struct {
	Fine      service.FineService
	Dashboard service.DashboardService
	Email     service.EmailService
}

// NewJobRunner creates a new job runner with all dependencies
func NewJobRunner(services *Services, tokens security.TokenManager, cfg *config.Config) *JobRunner {
	return &JobRunner{
		services: services,
		tokens:   tokens,
		config:   cfg,
		now:      time.Now,
	}
}

// Config exposes the configuration the scheduler reads its cron specs from
func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// runWithRecovery wraps job execution with panic recovery
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panicked", "job", jobName, "panic", r)
		}
	}()

	logger.Info("Starting job", "job", jobName)
	jobFunc()
	logger.Info("Job completed", "job", jobName)
}

// serviceAuth mints a short-lived service token so jobs can call the
// library backend without a librarian session.
func (jr *JobRunner) serviceAuth() (domain.AuthContext, error) {
	subject := jr.config.JWT.ServiceSubject
	ttl := time.Duration(jr.config.JWT.ServiceTokenExpiryMin) * time.Minute
	token, err := jr.tokens.GenerateServiceToken(subject, ttl)
	if err != nil {
		return domain.AuthContext{}, err
	}
	return domain.AuthContext{Token: token, Subject: subject}, nil
}

// jobContext bounds a single job run.
func (jr *JobRunner) jobContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 5*time.Minute)
}

// RunAll runs every job once (for manual execution)
func (jr *JobRunner) RunAll() {
	jr.RetryPendingFines()
	jr.SendOverdueDigest()
}
