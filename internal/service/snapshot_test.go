package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"libratrack-admin-backend/internal/domain"
	"libratrack-admin-backend/internal/service"
)

var auth = domain.AuthContext{Token: "tok", UserID: 1}

type snapshotRepos struct {
	books    *MockBookRepo
	members  *MockMemberRepo
	lendings *MockLendingRepo
	fines    *MockFineRepo
}

func newSnapshotRepos() snapshotRepos {
	return snapshotRepos{
		books:    new(MockBookRepo),
		members:  new(MockMemberRepo),
		lendings: new(MockLendingRepo),
		fines:    new(MockFineRepo),
	}
}

func (r snapshotRepos) service(timeout time.Duration) service.SnapshotService {
	return service.NewSnapshotService(r.books, r.members, r.lendings, r.fines, timeout)
}

func TestSnapshotService_FetchSnapshot(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		repos := newSnapshotRepos()
		repos.books.On("List", mock.Anything, auth).Return([]domain.Book{{ID: 1}, {ID: 2}}, nil)
		repos.members.On("List", mock.Anything, auth).Return([]domain.Member{{ID: 1}}, nil)
		repos.lendings.On("List", mock.Anything, auth).Return([]domain.Lending{{ID: 1}}, nil)
		repos.fines.On("List", mock.Anything, auth).Return([]domain.Fine{}, nil)

		snap, err := repos.service(time.Second).FetchSnapshot(context.Background(), auth)
		require.NoError(t, err)
		assert.Len(t, snap.Books, 2)
		assert.Len(t, snap.Members, 1)
		assert.Len(t, snap.Lendings, 1)
		assert.Empty(t, snap.Fines)
	})

	t.Run("OneFetchFails", func(t *testing.T) {
		repos := newSnapshotRepos()
		backendErr := &domain.DependencyError{Op: "GET /member", Status: 500, Err: errors.New("boom")}
		repos.books.On("List", mock.Anything, auth).Return([]domain.Book{}, nil).Maybe()
		repos.members.On("List", mock.Anything, auth).Return(nil, backendErr)
		repos.lendings.On("List", mock.Anything, auth).Return([]domain.Lending{}, nil).Maybe()
		repos.fines.On("List", mock.Anything, auth).Return([]domain.Fine{}, nil).Maybe()

		snap, err := repos.service(time.Second).FetchSnapshot(context.Background(), auth)
		assert.Nil(t, snap)
		var depErr *domain.DependencyError
		require.True(t, errors.As(err, &depErr))
		assert.Equal(t, 500, depErr.Status)
	})

	t.Run("Timeout", func(t *testing.T) {
		repos := newSnapshotRepos()
		repos.books.On("List", mock.Anything, auth).Return([]domain.Book{}, nil).Maybe()
		repos.members.On("List", mock.Anything, auth).Return([]domain.Member{}, nil).Maybe()
		repos.lendings.On("List", mock.Anything, auth).
			Run(func(args mock.Arguments) {
				<-args.Get(0).(context.Context).Done()
			}).
			Return(nil, &domain.DependencyError{Op: "GET /peminjaman", Err: context.DeadlineExceeded})
		repos.fines.On("List", mock.Anything, auth).Return([]domain.Fine{}, nil).Maybe()

		started := time.Now()
		snap, err := repos.service(20*time.Millisecond).FetchSnapshot(context.Background(), auth)
		assert.Nil(t, snap)
		assert.Less(t, time.Since(started), time.Second)

		var depErr *domain.DependencyError
		require.True(t, errors.As(err, &depErr))
		assert.True(t, depErr.Timeout())
	})
}
