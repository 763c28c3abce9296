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

func manyBooks(n int) []domain.Book {
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	books := make([]domain.Book, 0, n)
	for i := 0; i < n; i++ {
		books = append(books, domain.Book{ID: int32(i + 1), Title: "Book", CreatedAt: base.Add(time.Duration(i) * time.Minute)})
	}
	return books
}

func TestActivityService_GetActivityFeed(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		snaps := new(MockSnapshotService)
		snaps.On("FetchSnapshot", ctx, auth).Return(&domain.Snapshot{
			Members: []domain.Member{{ID: 1, Name: "Ani", CreatedAt: time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)}},
			Books:   manyBooks(3),
		}, nil)

		feed, err := service.NewActivityService(snaps).GetActivityFeed(ctx, auth, 2)
		require.NoError(t, err)
		require.Len(t, feed, 2)
		assert.Equal(t, domain.ActivityTypeNewMember, feed[0].Type)
		assert.Equal(t, "Ani", feed[0].User)
	})

	t.Run("ZeroLimitSkipsFetch", func(t *testing.T) {
		snaps := new(MockSnapshotService)

		feed, err := service.NewActivityService(snaps).GetActivityFeed(ctx, auth, 0)
		require.NoError(t, err)
		assert.Empty(t, feed)
		snaps.AssertNotCalled(t, "FetchSnapshot", mock.Anything, mock.Anything)
	})

	t.Run("NegativeLimit", func(t *testing.T) {
		_, err := service.NewActivityService(new(MockSnapshotService)).GetActivityFeed(ctx, auth, -1)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("ClampsLimit", func(t *testing.T) {
		snaps := new(MockSnapshotService)
		snaps.On("FetchSnapshot", ctx, auth).Return(&domain.Snapshot{Books: manyBooks(150)}, nil)

		feed, err := service.NewActivityService(snaps).GetActivityFeed(ctx, auth, 500)
		require.NoError(t, err)
		assert.Len(t, feed, service.MaxFeedLimit)
	})

	t.Run("FetchFails", func(t *testing.T) {
		snaps := new(MockSnapshotService)
		snaps.On("FetchSnapshot", ctx, auth).Return(nil, errors.New("backend down"))

		feed, err := service.NewActivityService(snaps).GetActivityFeed(ctx, auth, 5)
		assert.Error(t, err)
		assert.Nil(t, feed)
	})
}
