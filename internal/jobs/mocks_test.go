package jobs

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"libratrack-admin-backend/internal/domain"
	"libratrack-admin-backend/internal/service"
)

type MockFineService struct {
	mock.Mock
}

func (m *MockFineService) CreateFine(ctx context.Context, auth domain.AuthContext, draft domain.FineDraft) (*domain.Fine, error) {
	args := m.Called(ctx, auth, draft)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Fine), args.Error(1)
}

func (m *MockFineService) ListPendingFines(ctx context.Context) ([]domain.PendingFine, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PendingFine), args.Error(1)
}

func (m *MockFineService) ReconcilePendingFines(ctx context.Context, auth domain.AuthContext, limit int32) (*service.ReconcileReport, error) {
	args := m.Called(ctx, auth, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ReconcileReport), args.Error(1)
}

type MockDashboardService struct {
	mock.Mock
}

func (m *MockDashboardService) GetSummary(ctx context.Context, auth domain.AuthContext, now time.Time) (*domain.DashboardSummary, error) {
	args := m.Called(ctx, auth, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DashboardSummary), args.Error(1)
}

func (m *MockDashboardService) ListOverdue(ctx context.Context, auth domain.AuthContext, now time.Time) ([]domain.OverdueLending, error) {
	args := m.Called(ctx, auth, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.OverdueLending), args.Error(1)
}

type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendOverdueDigest(ctx context.Context, to string, lines []domain.OverdueLending, asOf time.Time) error {
	args := m.Called(ctx, to, lines, asOf)
	return args.Error(0)
}
