package http

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"libratrack-admin-backend/internal/domain"
	"libratrack-admin-backend/internal/service"
)

// MockActivityService
type MockActivityService struct {
	mock.Mock
}

func (m *MockActivityService) GetActivityFeed(ctx context.Context, auth domain.AuthContext, limit int) ([]domain.ActivityEvent, error) {
	args := m.Called(ctx, auth, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ActivityEvent), args.Error(1)
}

// MockDashboardService
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

// MockReturnService
type MockReturnService struct {
	mock.Mock
}

func (m *MockReturnService) PreviewReturn(ctx context.Context, auth domain.AuthContext, lendingID int32) (*domain.ReturnOutcome, error) {
	args := m.Called(ctx, auth, lendingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReturnOutcome), args.Error(1)
}
func (m *MockReturnService) ProcessReturn(ctx context.Context, auth domain.AuthContext, lendingID int32) (*domain.ReturnOutcome, error) {
	args := m.Called(ctx, auth, lendingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReturnOutcome), args.Error(1)
}

// MockLendingService
type MockLendingService struct {
	mock.Mock
}

func (m *MockLendingService) CreateLending(ctx context.Context, auth domain.AuthContext, memberID, bookID int32, borrowDate, dueDate time.Time) (*domain.Lending, error) {
	args := m.Called(ctx, auth, memberID, bookID, borrowDate, dueDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Lending), args.Error(1)
}

// MockFineService
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
