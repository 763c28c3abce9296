package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type ActivityType string

const (
	ActivityTypeBorrow    ActivityType = "borrow"
	ActivityTypeReturn    ActivityType = "return"
	ActivityTypeFine      ActivityType = "fine"
	ActivityTypeAddBook   ActivityType = "add-book"
	ActivityTypeNewMember ActivityType = "new-member"
)

// ActivityEvent is one row of the dashboard activity feed.
type ActivityEvent struct {
	Type     ActivityType     `json:"type"`
	Time     time.Time        `json:"time"`
	User     string           `json:"user,omitempty"`
	Book     string           `json:"book,omitempty"`
	MemberID *int32           `json:"member_id,omitempty"`
	BookID   *int32           `json:"book_id,omitempty"`
	Amount   *decimal.Decimal `json:"amount,omitempty"`
}

// Snapshot holds the four collections fetched together for one screen.
type Snapshot struct {
	Members  []Member
	Books    []Book
	Lendings []Lending
	Fines    []Fine
}

// DashboardSummary backs the dashboard statistic cards.
type DashboardSummary struct {
	TotalBooks      int32           `json:"total_books"`
	TotalStock      int32           `json:"total_stock"`
	TotalMembers    int32           `json:"total_members"`
	ActiveLendings  int32           `json:"active_lendings"`
	OverdueLendings int32           `json:"overdue_lendings"`
	FinesTotal      decimal.Decimal `json:"fines_total"`
	AccruedFines    decimal.Decimal `json:"accrued_fines"`
	RecentActivity  []ActivityEvent `json:"recent_activity"`
}
