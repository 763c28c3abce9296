package service

import (
	"context"
	"time"

	"libratrack-admin-backend/internal/domain"
)

type SnapshotService interface {
	FetchSnapshot(ctx context.Context, auth domain.AuthContext) (*domain.Snapshot, error)
}

type ActivityService interface {
	GetActivityFeed(ctx context.Context, auth domain.AuthContext, limit int) ([]domain.ActivityEvent, error)
}

type DashboardService interface {
	GetSummary(ctx context.Context, auth domain.AuthContext, now time.Time) (*domain.DashboardSummary, error)
	ListOverdue(ctx context.Context, auth domain.AuthContext, now time.Time) ([]domain.OverdueLending, error)
}

type ReturnService interface {
	PreviewReturn(ctx context.Context, auth domain.AuthContext, lendingID int32) (*domain.ReturnOutcome, error)
	// ProcessReturn returns the outcome together with a *domain.PartialFailureError
	// when the loan was marked returned but its fine could not be created.
	ProcessReturn(ctx context.Context, auth domain.AuthContext, lendingID int32) (*domain.ReturnOutcome, error)
}

type LendingService interface {
	CreateLending(ctx context.Context, auth domain.AuthContext, memberID, bookID int32, borrowDate, dueDate time.Time) (*domain.Lending, error)
}

type FineService interface {
	CreateFine(ctx context.Context, auth domain.AuthContext, draft domain.FineDraft) (*domain.Fine, error)
	ListPendingFines(ctx context.Context) ([]domain.PendingFine, error)
	ReconcilePendingFines(ctx context.Context, auth domain.AuthContext, limit int32) (*ReconcileReport, error)
}

type EmailService interface {
	SendOverdueDigest(ctx context.Context, to string, lines []domain.OverdueLending, asOf time.Time) error
}
