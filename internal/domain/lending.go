package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Lending is a member's loan of one book. DueDate is fixed at creation;
// lateness is always derived from it and never stored.
type Lending struct {
	ID         int32     `json:"id"`
	MemberID   int32     `json:"member_id"`
	BookID     int32     `json:"book_id"`
	BorrowDate time.Time `json:"borrow_date"`
	DueDate    time.Time `json:"due_date"`
	Returned   bool      `json:"returned"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ReturnOutcome is the result of processing a return at a given instant.
type ReturnOutcome struct {
	LendingID int32      `json:"lending_id"`
	Returned  bool       `json:"returned"`
	Late      bool       `json:"late"`
	DaysLate  int        `json:"days_late"`
	Fine      *FineDraft `json:"fine,omitempty"`
}

// LendingDraft carries the fields needed to record a new borrow.
type LendingDraft struct {
	MemberID   int32     `json:"member_id"`
	BookID     int32     `json:"book_id"`
	BorrowDate time.Time `json:"borrow_date"`
	DueDate    time.Time `json:"due_date"`
}

// OverdueLending is one line of the overdue digest.
type OverdueLending struct {
	LendingID   int32           `json:"lending_id"`
	MemberName  string          `json:"member_name"`
	BookTitle   string          `json:"book_title"`
	DueDate     time.Time       `json:"due_date"`
	DaysLate    int             `json:"days_late"`
	AccruedFine decimal.Decimal `json:"accrued_fine"`
}
