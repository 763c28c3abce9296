package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"libratrack-admin-backend/internal/domain"
	"libratrack-admin-backend/internal/service"
)

func dashboardSnapshot() *domain.Snapshot {
	day := func(d int) time.Time { return time.Date(2024, 3, d, 0, 0, 0, 0, time.UTC) }
	bookID := int32(1)
	return &domain.Snapshot{
		Members: []domain.Member{{ID: 1, Name: "Ani", CreatedAt: day(1)}, {ID: 2, Name: "Budi", CreatedAt: day(1)}},
		Books: []domain.Book{
			{ID: 1, Title: "Laskar Pelangi", Stock: 3, CreatedAt: day(1)},
			{ID: 2, Title: "Bumi Manusia", Stock: 2, CreatedAt: day(1)},
		},
		Lendings: []domain.Lending{
			{ID: 1, MemberID: 1, BookID: 1, DueDate: day(8), CreatedAt: day(1)},
			{ID: 2, MemberID: 2, BookID: 2, DueDate: day(10), CreatedAt: day(2)},
			{ID: 3, MemberID: 2, BookID: 1, DueDate: day(20), CreatedAt: day(3)},
			{ID: 4, MemberID: 9, BookID: 2, DueDate: day(5), Returned: true, CreatedAt: day(1), UpdatedAt: day(6)},
		},
		Fines: []domain.Fine{
			{ID: 1, MemberID: 1, BookID: &bookID, Amount: decimal.NewFromInt(2000), Kind: domain.FineKindLate, CreatedAt: day(4)},
			{ID: 2, MemberID: 2, Amount: decimal.NewFromInt(500), Kind: domain.FineKindOther, CreatedAt: day(4)},
		},
	}
}

func TestDashboardService_GetSummary(t *testing.T) {
	ctx := context.Background()
	snaps := new(MockSnapshotService)
	snaps.On("FetchSnapshot", ctx, auth).Return(dashboardSnapshot(), nil)

	svc := service.NewDashboardService(snaps, decimal.NewFromInt(1000), time.UTC)
	now := time.Date(2024, 3, 11, 15, 0, 0, 0, time.UTC)

	summary, err := svc.GetSummary(ctx, auth, now)
	require.NoError(t, err)
	assert.Equal(t, int32(2), summary.TotalBooks)
	assert.Equal(t, int32(5), summary.TotalStock)
	assert.Equal(t, int32(2), summary.TotalMembers)
	assert.Equal(t, int32(3), summary.ActiveLendings)
	assert.Equal(t, int32(2), summary.OverdueLendings)
	assert.True(t, summary.FinesTotal.Equal(decimal.NewFromInt(2500)))
	// lending 1 is 3 days late, lending 2 is 1 day late
	assert.True(t, summary.AccruedFines.Equal(decimal.NewFromInt(4000)), summary.AccruedFines.String())
	assert.Len(t, summary.RecentActivity, service.DefaultFeedLimit)
	assert.Equal(t, domain.ActivityTypeReturn, summary.RecentActivity[0].Type)
}

func TestDashboardService_ListOverdue(t *testing.T) {
	ctx := context.Background()
	snaps := new(MockSnapshotService)
	snaps.On("FetchSnapshot", ctx, auth).Return(dashboardSnapshot(), nil)

	svc := service.NewDashboardService(snaps, decimal.NewFromInt(1000), time.UTC)
	lines, err := svc.ListOverdue(ctx, auth, time.Date(2024, 3, 11, 8, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, lines, 2)

	assert.Equal(t, int32(1), lines[0].LendingID)
	assert.Equal(t, "Ani", lines[0].MemberName)
	assert.Equal(t, "Laskar Pelangi", lines[0].BookTitle)
	assert.Equal(t, 3, lines[0].DaysLate)
	assert.True(t, lines[0].AccruedFine.Equal(decimal.NewFromInt(3000)))

	assert.Equal(t, int32(2), lines[1].LendingID)
	assert.Equal(t, 1, lines[1].DaysLate)
}
