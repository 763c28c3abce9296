package repository

import (
	"context"

	"libratrack-admin-backend/internal/domain"
)

// Repositories backed by the library REST backend. Every call carries the
// caller's AuthContext explicitly.

type BookRepository interface {
	List(ctx context.Context, auth domain.AuthContext) ([]domain.Book, error)
	GetByID(ctx context.Context, auth domain.AuthContext, id int32) (*domain.Book, error)
}

type MemberRepository interface {
	List(ctx context.Context, auth domain.AuthContext) ([]domain.Member, error)
	GetByID(ctx context.Context, auth domain.AuthContext, id int32) (*domain.Member, error)
}

type LendingRepository interface {
	List(ctx context.Context, auth domain.AuthContext) ([]domain.Lending, error)
	GetByID(ctx context.Context, auth domain.AuthContext, id int32) (*domain.Lending, error)
	Create(ctx context.Context, auth domain.AuthContext, draft domain.LendingDraft) (*domain.Lending, error)
	MarkReturned(ctx context.Context, auth domain.AuthContext, id int32) error
}

type FineRepository interface {
	List(ctx context.Context, auth domain.AuthContext) ([]domain.Fine, error)
	// Create posts a fine. idempotencyKey is forwarded so a retried request
	// can be recognised by the backend.
	Create(ctx context.Context, auth domain.AuthContext, draft domain.FineDraft, idempotencyKey string) (*domain.Fine, error)
}

// PendingFineRepository is the local outbox of late fines that could not be
// written to the backend.
type PendingFineRepository interface {
	Create(ctx context.Context, pf *domain.PendingFine) error
	ListPending(ctx context.Context, limit int32) ([]domain.PendingFine, error)
	MarkResolved(ctx context.Context, id string) error
	RecordFailure(ctx context.Context, id string, lastError string) error
	// MarkFailed records the last failure and parks the entry for a librarian.
	MarkFailed(ctx context.Context, id string, lastError string) error
	Cancel(ctx context.Context, id string, reason string) error
	// CancelUnconfirmed drops the pending unconfirmed entries of a lending and
	// reports how many there were.
	CancelUnconfirmed(ctx context.Context, lendingID int32) (int64, error)
}
