package service

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"libratrack-admin-backend/internal/domain"
	"libratrack-admin-backend/internal/logger"
	"libratrack-admin-backend/internal/repository"
)

type snapshotService struct {
	bookRepo    repository.BookRepository
	memberRepo  repository.MemberRepository
	lendingRepo repository.LendingRepository
	fineRepo    repository.FineRepository
	timeout     time.Duration
}

// NewSnapshotService fetches the four collections concurrently. A zero
// timeout leaves the caller's deadline in charge.
func NewSnapshotService(
	bookRepo repository.BookRepository,
	memberRepo repository.MemberRepository,
	lendingRepo repository.LendingRepository,
	fineRepo repository.FineRepository,
	timeout time.Duration,
) SnapshotService {
	return &snapshotService{
		bookRepo:    bookRepo,
		memberRepo:  memberRepo,
		lendingRepo: lendingRepo,
		fineRepo:    fineRepo,
		timeout:     timeout,
	}
}

// FetchSnapshot fails as a whole: the first failing fetch cancels the others
// and no partial snapshot is returned.
func (s *snapshotService) FetchSnapshot(ctx context.Context, auth domain.AuthContext) (*domain.Snapshot, error) {
	logger.EnterMethod("snapshotService.FetchSnapshot", "userID", auth.UserID)

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	var snap domain.Snapshot
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		books, err := s.bookRepo.List(gctx, auth)
		if err != nil {
			return fmt.Errorf("fetch books: %w", err)
		}
		snap.Books = books
		return nil
	})
	g.Go(func() error {
		members, err := s.memberRepo.List(gctx, auth)
		if err != nil {
			return fmt.Errorf("fetch members: %w", err)
		}
		snap.Members = members
		return nil
	})
	g.Go(func() error {
		lendings, err := s.lendingRepo.List(gctx, auth)
		if err != nil {
			return fmt.Errorf("fetch lendings: %w", err)
		}
		snap.Lendings = lendings
		return nil
	})
	g.Go(func() error {
		fines, err := s.fineRepo.List(gctx, auth)
		if err != nil {
			return fmt.Errorf("fetch fines: %w", err)
		}
		snap.Fines = fines
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.ExitMethodWithError("snapshotService.FetchSnapshot", err)
		return nil, err
	}

	logger.ExitMethod("snapshotService.FetchSnapshot",
		"books", len(snap.Books), "members", len(snap.Members), "lendings", len(snap.Lendings), "fines", len(snap.Fines))
	return &snap, nil
}
