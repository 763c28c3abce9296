package service_test

import (
	"context"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/stretchr/testify/mock"

	"libratrack-admin-backend/internal/domain"
)

// MockBookRepo
type MockBookRepo struct {
	mock.Mock
}

func (m *MockBookRepo) List(ctx context.Context, auth domain.AuthContext) ([]domain.Book, error) {
	args := m.Called(ctx, auth)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Book), args.Error(1)
}
func (m *MockBookRepo) GetByID(ctx context.Context, auth domain.AuthContext, id int32) (*domain.Book, error) {
	args := m.Called(ctx, auth, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Book), args.Error(1)
}

// MockMemberRepo
type MockMemberRepo struct {
	mock.Mock
}

func (m *MockMemberRepo) List(ctx context.Context, auth domain.AuthContext) ([]domain.Member, error) {
	args := m.Called(ctx, auth)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Member), args.Error(1)
}
func (m *MockMemberRepo) GetByID(ctx context.Context, auth domain.AuthContext, id int32) (*domain.Member, error) {
	args := m.Called(ctx, auth, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Member), args.Error(1)
}

// MockLendingRepo
type MockLendingRepo struct {
	mock.Mock
}

func (m *MockLendingRepo) List(ctx context.Context, auth domain.AuthContext) ([]domain.Lending, error) {
	args := m.Called(ctx, auth)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Lending), args.Error(1)
}
func (m *MockLendingRepo) GetByID(ctx context.Context, auth domain.AuthContext, id int32) (*domain.Lending, error) {
	args := m.Called(ctx, auth, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Lending), args.Error(1)
}
func (m *MockLendingRepo) Create(ctx context.Context, auth domain.AuthContext, draft domain.LendingDraft) (*domain.Lending, error) {
	args := m.Called(ctx, auth, draft)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Lending), args.Error(1)
}
func (m *MockLendingRepo) MarkReturned(ctx context.Context, auth domain.AuthContext, id int32) error {
	args := m.Called(ctx, auth, id)
	return args.Error(0)
}

// MockFineRepo
type MockFineRepo struct {
	mock.Mock
}

func (m *MockFineRepo) List(ctx context.Context, auth domain.AuthContext) ([]domain.Fine, error) {
	args := m.Called(ctx, auth)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Fine), args.Error(1)
}
func (m *MockFineRepo) Create(ctx context.Context, auth domain.AuthContext, draft domain.FineDraft, idempotencyKey string) (*domain.Fine, error) {
	args := m.Called(ctx, auth, draft, idempotencyKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Fine), args.Error(1)
}

// MockPendingFineRepo
type MockPendingFineRepo struct {
	mock.Mock
}

func (m *MockPendingFineRepo) Create(ctx context.Context, pf *domain.PendingFine) error {
	args := m.Called(ctx, pf)
	return args.Error(0)
}
func (m *MockPendingFineRepo) ListPending(ctx context.Context, limit int32) ([]domain.PendingFine, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PendingFine), args.Error(1)
}
func (m *MockPendingFineRepo) MarkResolved(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockPendingFineRepo) RecordFailure(ctx context.Context, id string, lastError string) error {
	args := m.Called(ctx, id, lastError)
	return args.Error(0)
}
func (m *MockPendingFineRepo) MarkFailed(ctx context.Context, id string, lastError string) error {
	args := m.Called(ctx, id, lastError)
	return args.Error(0)
}
func (m *MockPendingFineRepo) Cancel(ctx context.Context, id string, reason string) error {
	args := m.Called(ctx, id, reason)
	return args.Error(0)
}
func (m *MockPendingFineRepo) CancelUnconfirmed(ctx context.Context, lendingID int32) (int64, error) {
	args := m.Called(ctx, lendingID)
	return args.Get(0).(int64), args.Error(1)
}

// MockSnapshotService
type MockSnapshotService struct {
	mock.Mock
}

func (m *MockSnapshotService) FetchSnapshot(ctx context.Context, auth domain.AuthContext) (*domain.Snapshot, error) {
	args := m.Called(ctx, auth)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Snapshot), args.Error(1)
}

// MockMailSender
type MockMailSender struct {
	mock.Mock
}

func (m *MockMailSender) SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*rest.Response), args.Error(1)
}
