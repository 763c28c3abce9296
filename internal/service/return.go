package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"libratrack-admin-backend/internal/domain"
	"libratrack-admin-backend/internal/logger"
	"libratrack-admin-backend/internal/repository"
	"libratrack-admin-backend/internal/utils"
)

// outboxWriteTimeout bounds the outbox insert, which runs even after the
// return deadline has passed.
const outboxWriteTimeout = 5 * time.Second

// ReturnConfig holds the settings of the return flow. Now defaults to
// time.Now and Location to UTC.
type ReturnConfig struct {
	DailyRate    decimal.Decimal
	Location     *time.Location
	Timeout      time.Duration
	MaxAttempts  int
	RetryBackoff time.Duration
	Now          func() time.Time
}

type returnService struct {
	lendingRepo repository.LendingRepository
	fineRepo    repository.FineRepository
	outboxRepo  repository.PendingFineRepository
	cfg         ReturnConfig
}

func NewReturnService(
	lendingRepo repository.LendingRepository,
	fineRepo repository.FineRepository,
	outboxRepo repository.PendingFineRepository,
	cfg ReturnConfig,
) ReturnService {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 1
	}
	return &returnService{
		lendingRepo: lendingRepo,
		fineRepo:    fineRepo,
		outboxRepo:  outboxRepo,
		cfg:         cfg,
	}
}

func (s *returnService) now() time.Time {
	return s.cfg.Now().In(s.cfg.Location)
}

func (s *returnService) PreviewReturn(ctx context.Context, auth domain.AuthContext, lendingID int32) (*domain.ReturnOutcome, error) {
	if lendingID <= 0 {
		return nil, fmt.Errorf("lending id %d: %w", lendingID, domain.ErrInvalidInput)
	}
	loan, err := s.lendingRepo.GetByID(ctx, auth, lendingID)
	if err != nil {
		return nil, err
	}
	return utils.ComputeReturn(*loan, s.now(), s.cfg.DailyRate)
}

// ProcessReturn marks the loan returned, then creates its late fine. The
// return is never rolled back: when the fine cannot be created it is queued
// in the outbox and a *domain.PartialFailureError accompanies the outcome.
func (s *returnService) ProcessReturn(ctx context.Context, auth domain.AuthContext, lendingID int32) (*domain.ReturnOutcome, error) {
	logger.EnterMethod("returnService.ProcessReturn", "lendingID", lendingID, "userID", auth.UserID)

	if lendingID <= 0 {
		return nil, fmt.Errorf("lending id %d: %w", lendingID, domain.ErrInvalidInput)
	}
	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}

	loan, err := s.lendingRepo.GetByID(ctx, auth, lendingID)
	if err != nil {
		logger.ExitMethodWithError("returnService.ProcessReturn", err, "lendingID", lendingID, "step", "load")
		return nil, err
	}
	outcome, err := utils.ComputeReturn(*loan, s.now(), s.cfg.DailyRate)
	if err != nil {
		logger.ExitMethodWithError("returnService.ProcessReturn", err, "lendingID", lendingID, "step", "compute")
		return nil, err
	}

	if err := s.lendingRepo.MarkReturned(ctx, auth, lendingID); err != nil {
		err = fmt.Errorf("mark lending %d returned: %w", lendingID, err)
		if outcome.Fine == nil || !mayHaveLanded(err) {
			logger.ExitMethodWithError("returnService.ProcessReturn", err, "lendingID", lendingID, "step", domain.StepMarkReturned)
			return nil, err
		}

		// The backend may have applied the return. Queue the fine unconfirmed;
		// reconciliation posts it only once the lending shows as returned.
		pending := &domain.PendingFine{
			Draft:          *outcome.Fine,
			IdempotencyKey: uuid.NewString(),
			LastError:      err.Error(),
			Unconfirmed:    true,
		}
		partial := &domain.PartialFailureError{
			LendingID: lendingID,
			Step:      domain.StepMarkReturned,
			Queued:    s.enqueue(ctx, pending),
			Err:       err,
		}
		logger.ExitMethodWithError("returnService.ProcessReturn", partial, "lendingID", lendingID, "pendingFineID", pending.ID)
		return nil, partial
	}

	// This call applied the return, so fines queued by an earlier ambiguous
	// attempt are void.
	if n, err := s.outboxRepo.CancelUnconfirmed(ctx, lendingID); err != nil {
		logger.Error("Failed to cancel unconfirmed fines", "lendingID", lendingID, "error", err)
	} else if n > 0 {
		logger.Info("Cancelled unconfirmed fines", "lendingID", lendingID, "count", n)
	}

	if outcome.Fine == nil {
		logger.ExitMethod("returnService.ProcessReturn", "lendingID", lendingID, "late", false)
		return outcome, nil
	}

	key := uuid.NewString()
	attempts, fineErr := s.createFineWithRetry(ctx, auth, *outcome.Fine, key)
	if fineErr == nil {
		logger.ExitMethod("returnService.ProcessReturn", "lendingID", lendingID, "late", true, "daysLate", outcome.DaysLate)
		return outcome, nil
	}

	pending := &domain.PendingFine{
		Draft:          *outcome.Fine,
		IdempotencyKey: key,
		Attempts:       int32(attempts),
		LastError:      fineErr.Error(),
	}
	partial := &domain.PartialFailureError{
		LendingID: lendingID,
		Step:      domain.StepCreateFine,
		Queued:    s.enqueue(ctx, pending),
		Err:       fineErr,
	}
	logger.ExitMethodWithError("returnService.ProcessReturn", partial, "lendingID", lendingID, "pendingFineID", pending.ID)
	return outcome, partial
}

// enqueue writes pf to the outbox even when ctx is already done and reports
// whether it was stored.
func (s *returnService) enqueue(ctx context.Context, pf *domain.PendingFine) bool {
	octx, cancel := context.WithTimeout(context.WithoutCancel(ctx), outboxWriteTimeout)
	defer cancel()
	if err := s.outboxRepo.Create(octx, pf); err != nil {
		logger.Error("Failed to queue late fine", "lendingID", pf.Draft.LendingID, "unconfirmed", pf.Unconfirmed, "error", err)
		return false
	}
	return true
}

// createFineWithRetry posts the fine up to MaxAttempts times with a linearly
// growing pause. It reports how many attempts were made.
func (s *returnService) createFineWithRetry(ctx context.Context, auth domain.AuthContext, draft domain.FineDraft, key string) (int, error) {
	var lastErr error
	for attempt := 1; attempt <= s.cfg.MaxAttempts; attempt++ {
		_, err := s.fineRepo.Create(ctx, auth, draft, key)
		if err == nil {
			return attempt, nil
		}
		lastErr = err
		logger.Warn("Late fine creation failed", "lendingID", draft.LendingID, "attempt", attempt, "error", err)

		if !retryable(err) || attempt == s.cfg.MaxAttempts {
			return attempt, lastErr
		}

		timer := time.NewTimer(time.Duration(attempt) * s.cfg.RetryBackoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return attempt, lastErr
		case <-timer.C:
		}
	}
	return s.cfg.MaxAttempts, lastErr
}

// retryable reports whether a failed backend call may succeed when repeated.
// Transport failures, timeouts, throttling and 5xx answers qualify.
func retryable(err error) bool {
	var depErr *domain.DependencyError
	if !errors.As(err, &depErr) {
		return false
	}
	if depErr.Timeout() || !depErr.Rejected() {
		return true
	}
	return depErr.Status >= http.StatusInternalServerError || depErr.Status == http.StatusTooManyRequests
}

// mayHaveLanded reports whether a failed write could still have been applied
// by the backend: no answer arrived, or the answer was a server error.
func mayHaveLanded(err error) bool {
	var depErr *domain.DependencyError
	if !errors.As(err, &depErr) {
		return errors.Is(err, context.DeadlineExceeded)
	}
	return !depErr.Rejected() || depErr.Status >= http.StatusInternalServerError
}
