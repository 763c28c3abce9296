package utils

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"libratrack-admin-backend/internal/domain"
)

// DefaultDailyRate is the late fee per day, in minor currency units.
var DefaultDailyRate = decimal.NewFromInt(1000)

// DaysLate returns the number of calendar days between due and now.
// Times of day are ignored: due is read as the date it carries in its own
// location, now as the date in its location. A loan returned on its due
// date is 0 days late; returned before it, negative.
func DaysLate(due, now time.Time) int {
	dueDay := time.Date(due.Year(), due.Month(), due.Day(), 0, 0, 0, 0, time.UTC)
	nowDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return int(nowDay.Sub(dueDay) / (24 * time.Hour))
}

// LateFineDescription formats the description stored with a late fine.
func LateFineDescription(memberID, bookID int32, daysLate int) string {
	return fmt.Sprintf("member %d returned book %d %d days late.", memberID, bookID, daysLate)
}

// ComputeReturn decides the outcome of returning loan at now.
// It performs no I/O; the caller persists the loan update and the fine.
func ComputeReturn(loan domain.Lending, now time.Time, dailyRate decimal.Decimal) (*domain.ReturnOutcome, error) {
	if loan.Returned {
		return nil, fmt.Errorf("lending %d is already returned: %w", loan.ID, domain.ErrInvalidState)
	}
	if loan.DueDate.IsZero() {
		return nil, fmt.Errorf("lending %d has no due date: %w", loan.ID, domain.ErrInvalidInput)
	}
	if dailyRate.IsNegative() {
		return nil, fmt.Errorf("daily rate %s is negative: %w", dailyRate, domain.ErrInvalidInput)
	}

	daysLate := DaysLate(loan.DueDate, now)
	outcome := &domain.ReturnOutcome{
		LendingID: loan.ID,
		Returned:  true,
		Late:      daysLate > 0,
		DaysLate:  daysLate,
	}
	if !outcome.Late {
		return outcome, nil
	}

	bookID := loan.BookID
	outcome.Fine = &domain.FineDraft{
		LendingID:   loan.ID,
		MemberID:    loan.MemberID,
		BookID:      &bookID,
		Amount:      decimal.NewFromInt(int64(daysLate)).Mul(dailyRate),
		Kind:        domain.FineKindLate,
		Description: LateFineDescription(loan.MemberID, loan.BookID, daysLate),
	}
	return outcome, nil
}

// AccruedFine is the fine an unreturned loan would incur if returned at now.
// Returned loans, loans without a due date and loans not yet late accrue nothing.
func AccruedFine(loan domain.Lending, now time.Time, dailyRate decimal.Decimal) decimal.Decimal {
	if loan.Returned || loan.DueDate.IsZero() {
		return decimal.Zero
	}
	days := DaysLate(loan.DueDate, now)
	if days <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(days)).Mul(dailyRate)
}

// IsOverdue reports whether an unreturned loan is past its due date at now.
func IsOverdue(loan domain.Lending, now time.Time) bool {
	return !loan.Returned && !loan.DueDate.IsZero() && DaysLate(loan.DueDate, now) > 0
}
