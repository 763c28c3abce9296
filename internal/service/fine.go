package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"libratrack-admin-backend/internal/domain"
	"libratrack-admin-backend/internal/logger"
	"libratrack-admin-backend/internal/repository"
)

// DefaultPendingLimit caps one listing or reconciliation pass over the outbox.
const DefaultPendingLimit int32 = 100

const (
	defaultMaxReconcileAttempts = 10
	defaultLandingWindow        = time.Minute
)

// FineConfig tunes outbox reconciliation.
//
// MaxAttempts is the number of failed deliveries, in-process attempts
// included, after which an entry is parked as FAILED. LandingWindow is how
// long before an entry was queued a matching backend fine may have been
// created and still count as that entry's fine.
type FineConfig struct {
	MaxAttempts   int
	LandingWindow time.Duration
}

// ReconcileReport summarizes one pass over the outbox.
type ReconcileReport struct {
	Checked   int
	Resolved  int
	Failed    int
	Abandoned int
	Cancelled int
}

type fineService struct {
	fineRepo    repository.FineRepository
	lendingRepo repository.LendingRepository
	outboxRepo  repository.PendingFineRepository
	cfg         FineConfig
}

func NewFineService(
	fineRepo repository.FineRepository,
	lendingRepo repository.LendingRepository,
	outboxRepo repository.PendingFineRepository,
	cfg FineConfig,
) FineService {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = defaultMaxReconcileAttempts
	}
	if cfg.LandingWindow <= 0 {
		cfg.LandingWindow = defaultLandingWindow
	}
	return &fineService{
		fineRepo:    fineRepo,
		lendingRepo: lendingRepo,
		outboxRepo:  outboxRepo,
		cfg:         cfg,
	}
}

// CreateFine records a fine entered by a librarian, typically damage or other.
func (s *fineService) CreateFine(ctx context.Context, auth domain.AuthContext, draft domain.FineDraft) (*domain.Fine, error) {
	if draft.MemberID <= 0 {
		return nil, fmt.Errorf("member id %d: %w", draft.MemberID, domain.ErrInvalidInput)
	}
	if !draft.Kind.Valid() {
		return nil, fmt.Errorf("fine kind %q: %w", draft.Kind, domain.ErrInvalidInput)
	}
	if !draft.Amount.IsPositive() {
		return nil, fmt.Errorf("fine amount %s must be positive: %w", draft.Amount, domain.ErrInvalidInput)
	}
	draft.Description = strings.TrimSpace(draft.Description)
	if draft.Description == "" {
		return nil, fmt.Errorf("fine description is required: %w", domain.ErrInvalidInput)
	}
	if draft.BookID != nil && *draft.BookID <= 0 {
		return nil, fmt.Errorf("book id %d: %w", *draft.BookID, domain.ErrInvalidInput)
	}

	return s.fineRepo.Create(ctx, auth, draft, uuid.NewString())
}

func (s *fineService) ListPendingFines(ctx context.Context) ([]domain.PendingFine, error) {
	pending, err := s.outboxRepo.ListPending(ctx, DefaultPendingLimit)
	if err != nil {
		return nil, err
	}
	if pending == nil {
		pending = []domain.PendingFine{}
	}
	return pending, nil
}

// ReconcilePendingFines delivers queued late fines. An entry whose fine is
// already present on the backend (an earlier attempt that landed without an
// answer) is resolved without posting again; each backend fine can account
// for one entry only.
func (s *fineService) ReconcilePendingFines(ctx context.Context, auth domain.AuthContext, limit int32) (*ReconcileReport, error) {
	logger.EnterMethod("fineService.ReconcilePendingFines", "limit", limit)

	if limit <= 0 {
		limit = DefaultPendingLimit
	}
	pending, err := s.outboxRepo.ListPending(ctx, limit)
	if err != nil {
		logger.ExitMethodWithError("fineService.ReconcilePendingFines", err, "reason", "failed to list outbox")
		return nil, err
	}
	report := &ReconcileReport{}
	if len(pending) == 0 {
		logger.ExitMethod("fineService.ReconcilePendingFines", "checked", 0)
		return report, nil
	}

	existing, err := s.fineRepo.List(ctx, auth)
	if err != nil {
		logger.ExitMethodWithError("fineService.ReconcilePendingFines", err, "reason", "failed to list backend fines")
		return nil, err
	}

	claimed := make(map[int]bool)
	for _, pf := range pending {
		report.Checked++
		s.reconcileOne(ctx, auth, pf, existing, claimed, report)
	}

	logger.ExitMethod("fineService.ReconcilePendingFines",
		"checked", report.Checked,
		"resolved", report.Resolved,
		"failed", report.Failed,
		"abandoned", report.Abandoned,
		"cancelled", report.Cancelled)
	return report, nil
}

func (s *fineService) reconcileOne(ctx context.Context, auth domain.AuthContext, pf domain.PendingFine, existing []domain.Fine, claimed map[int]bool, report *ReconcileReport) {
	if pf.Unconfirmed {
		loan, err := s.lendingRepo.GetByID(ctx, auth, pf.Draft.LendingID)
		switch {
		case errors.Is(err, domain.ErrNotFound):
			s.cancel(ctx, pf, "lending no longer exists", report)
			return
		case err != nil:
			s.recordFailure(ctx, pf, err, report)
			return
		case !loan.Returned:
			s.cancel(ctx, pf, "return was not applied", report)
			return
		}
	}

	if i, ok := landedFine(existing, pf, claimed, s.cfg.LandingWindow); ok {
		claimed[i] = true
		logger.Info("Pending fine already on backend", "pendingFineID", pf.ID, "fineID", existing[i].ID, "lendingID", pf.Draft.LendingID)
	} else if _, err := s.fineRepo.Create(ctx, auth, pf.Draft, pf.IdempotencyKey); err != nil {
		s.recordFailure(ctx, pf, err, report)
		return
	}

	if err := s.outboxRepo.MarkResolved(ctx, pf.ID); err != nil {
		report.Failed++
		logger.Error("Failed to resolve pending fine", "pendingFineID", pf.ID, "error", err)
		return
	}
	report.Resolved++
}

// recordFailure counts a failed delivery and parks the entry as FAILED once
// it has used up its attempts.
func (s *fineService) recordFailure(ctx context.Context, pf domain.PendingFine, cause error, report *ReconcileReport) {
	attempts := int(pf.Attempts) + 1
	if attempts >= s.cfg.MaxAttempts {
		report.Abandoned++
		logger.Error("Pending fine abandoned", "pendingFineID", pf.ID, "lendingID", pf.Draft.LendingID, "attempts", attempts, "error", cause)
		if err := s.outboxRepo.MarkFailed(ctx, pf.ID, cause.Error()); err != nil {
			logger.Error("Failed to park pending fine", "pendingFineID", pf.ID, "error", err)
		}
		return
	}

	report.Failed++
	logger.Warn("Pending fine still failing", "pendingFineID", pf.ID, "lendingID", pf.Draft.LendingID, "attempts", attempts, "error", cause)
	if err := s.outboxRepo.RecordFailure(ctx, pf.ID, cause.Error()); err != nil {
		logger.Error("Failed to record pending fine failure", "pendingFineID", pf.ID, "error", err)
	}
}

func (s *fineService) cancel(ctx context.Context, pf domain.PendingFine, reason string, report *ReconcileReport) {
	if err := s.outboxRepo.Cancel(ctx, pf.ID, reason); err != nil {
		report.Failed++
		logger.Error("Failed to cancel pending fine", "pendingFineID", pf.ID, "error", err)
		return
	}
	report.Cancelled++
	logger.Info("Pending fine cancelled", "pendingFineID", pf.ID, "lendingID", pf.Draft.LendingID, "reason", reason)
}

// landedFine finds the unclaimed backend fine that an earlier delivery of pf
// produced. A fine that names its lending must name pf's; one that does not
// must have been created no earlier than window before pf was queued, since
// the same member can be fined the same amount for the same book on
// another lending.
func landedFine(existing []domain.Fine, pf domain.PendingFine, claimed map[int]bool, window time.Duration) (int, bool) {
	for i, f := range existing {
		if claimed[i] || !sameFine(f, pf.Draft) {
			continue
		}
		if f.LendingID != nil {
			if *f.LendingID == pf.Draft.LendingID {
				return i, true
			}
			continue
		}
		if pf.CreatedOn.IsZero() || f.CreatedAt.IsZero() {
			continue
		}
		if !f.CreatedAt.Before(pf.CreatedOn.Add(-window)) {
			return i, true
		}
	}
	return 0, false
}

func sameFine(f domain.Fine, draft domain.FineDraft) bool {
	if f.Kind != draft.Kind || f.MemberID != draft.MemberID || f.Description != draft.Description {
		return false
	}
	if !f.Amount.Equal(draft.Amount) {
		return false
	}
	if (f.BookID == nil) != (draft.BookID == nil) {
		return false
	}
	return f.BookID == nil || *f.BookID == *draft.BookID
}
