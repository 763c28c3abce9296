package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type FineKind string

const (
	FineKindLate   FineKind = "late"
	FineKindDamage FineKind = "damage"
	FineKindOther  FineKind = "other"
)

// Valid reports whether k is one of the known fine kinds.
func (k FineKind) Valid() bool {
	switch k {
	case FineKindLate, FineKindDamage, FineKindOther:
		return true
	}
	return false
}

type Fine struct {
	ID int32 `json:"id"`
	// LendingID is set when the backend echoes the lending a fine was raised for.
	LendingID   *int32          `json:"lending_id,omitempty"`
	MemberID    int32           `json:"member_id"`
	BookID      *int32          `json:"book_id,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	Kind        FineKind        `json:"kind"`
	Description string          `json:"description"`
	CreatedAt   time.Time       `json:"created_at"`
}

// FineDraft is a fine that has been decided but not yet written to the backend.
type FineDraft struct {
	LendingID   int32           `json:"lending_id,omitempty"`
	MemberID    int32           `json:"member_id"`
	BookID      *int32          `json:"book_id,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	Kind        FineKind        `json:"kind"`
	Description string          `json:"description"`
}

// PendingFineStatus tracks an outbox entry.
type PendingFineStatus string

const (
	PendingFineStatusPending  PendingFineStatus = "PENDING"
	PendingFineStatusResolved PendingFineStatus = "RESOLVED"
	// Failed entries ran out of attempts and need a librarian.
	PendingFineStatusFailed PendingFineStatus = "FAILED"
	// Cancelled entries belonged to a return the backend never applied.
	PendingFineStatusCancelled PendingFineStatus = "CANCELLED"
)

// PendingFine is a late fine that could not be written together with its
// return. It is retried until the backend accepts it or attempts run out.
//
// Unconfirmed entries were queued when the mark-returned call itself failed
// without a definite answer; they are only posted once the lending is seen
// returned on the backend.
type PendingFine struct {
	ID             string            `json:"id"`
	Draft          FineDraft         `json:"draft"`
	IdempotencyKey string            `json:"idempotency_key"`
	Attempts       int32             `json:"attempts"`
	LastError      string            `json:"last_error,omitempty"`
	Unconfirmed    bool              `json:"unconfirmed"`
	Status         PendingFineStatus `json:"status"`
	CreatedOn      time.Time         `json:"created_on"`
	UpdatedOn      time.Time         `json:"updated_on"`
}
