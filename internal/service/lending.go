package service

import (
	"context"
	"fmt"
	"time"

	"libratrack-admin-backend/internal/domain"
	"libratrack-admin-backend/internal/logger"
	"libratrack-admin-backend/internal/repository"
	"libratrack-admin-backend/internal/utils"
)

type lendingService struct {
	lendingRepo repository.LendingRepository
	memberRepo  repository.MemberRepository
	bookRepo    repository.BookRepository
}

func NewLendingService(
	lendingRepo repository.LendingRepository,
	memberRepo repository.MemberRepository,
	bookRepo repository.BookRepository,
) LendingService {
	return &lendingService{
		lendingRepo: lendingRepo,
		memberRepo:  memberRepo,
		bookRepo:    bookRepo,
	}
}

func (s *lendingService) CreateLending(ctx context.Context, auth domain.AuthContext, memberID, bookID int32, borrowDate, dueDate time.Time) (*domain.Lending, error) {
	logger.EnterMethod("lendingService.CreateLending", "memberID", memberID, "bookID", bookID)

	if memberID <= 0 || bookID <= 0 {
		return nil, fmt.Errorf("member %d, book %d: %w", memberID, bookID, domain.ErrInvalidInput)
	}
	if borrowDate.IsZero() || dueDate.IsZero() {
		return nil, fmt.Errorf("borrow and due dates are required: %w", domain.ErrInvalidInput)
	}
	if utils.DaysLate(borrowDate, dueDate) < 0 {
		return nil, fmt.Errorf("due date %s is before borrow date %s: %w",
			dueDate.Format(time.DateOnly), borrowDate.Format(time.DateOnly), domain.ErrInvalidInput)
	}

	if _, err := s.memberRepo.GetByID(ctx, auth, memberID); err != nil {
		logger.ExitMethodWithError("lendingService.CreateLending", err, "reason", "member lookup failed")
		return nil, err
	}
	book, err := s.bookRepo.GetByID(ctx, auth, bookID)
	if err != nil {
		logger.ExitMethodWithError("lendingService.CreateLending", err, "reason", "book lookup failed")
		return nil, err
	}
	if book.Stock <= 0 {
		return nil, fmt.Errorf("book %d is out of stock: %w", bookID, domain.ErrInvalidState)
	}

	lending, err := s.lendingRepo.Create(ctx, auth, domain.LendingDraft{
		MemberID:   memberID,
		BookID:     bookID,
		BorrowDate: borrowDate,
		DueDate:    dueDate,
	})
	if err != nil {
		logger.ExitMethodWithError("lendingService.CreateLending", err)
		return nil, err
	}
	logger.ExitMethod("lendingService.CreateLending", "lendingID", lending.ID)
	return lending, nil
}
