package service

import (
	"cmp"
	"context"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"libratrack-admin-backend/internal/domain"
	"libratrack-admin-backend/internal/utils"
)

type dashboardService struct {
	snapshots SnapshotService
	dailyRate decimal.Decimal
	location  *time.Location
}

func NewDashboardService(snapshots SnapshotService, dailyRate decimal.Decimal, location *time.Location) DashboardService {
	if location == nil {
		location = time.UTC
	}
	return &dashboardService{
		snapshots: snapshots,
		dailyRate: dailyRate,
		location:  location,
	}
}

func (s *dashboardService) GetSummary(ctx context.Context, auth domain.AuthContext, now time.Time) (*domain.DashboardSummary, error) {
	snap, err := s.snapshots.FetchSnapshot(ctx, auth)
	if err != nil {
		return nil, err
	}
	now = now.In(s.location)

	summary := &domain.DashboardSummary{
		TotalBooks:   int32(len(snap.Books)),
		TotalMembers: int32(len(snap.Members)),
		FinesTotal:   decimal.Zero,
		AccruedFines: decimal.Zero,
	}
	for _, b := range snap.Books {
		summary.TotalStock += b.Stock
	}
	for _, l := range snap.Lendings {
		if l.Returned {
			continue
		}
		summary.ActiveLendings++
		if utils.IsOverdue(l, now) {
			summary.OverdueLendings++
			summary.AccruedFines = summary.AccruedFines.Add(utils.AccruedFine(l, now, s.dailyRate))
		}
	}
	for _, f := range snap.Fines {
		summary.FinesTotal = summary.FinesTotal.Add(f.Amount)
	}

	summary.RecentActivity, err = utils.BuildActivityFeed(snap.Members, snap.Books, snap.Lendings, snap.Fines, DefaultFeedLimit)
	if err != nil {
		return nil, err
	}
	return summary, nil
}

// ListOverdue returns unreturned lendings past their due date, most overdue first.
func (s *dashboardService) ListOverdue(ctx context.Context, auth domain.AuthContext, now time.Time) ([]domain.OverdueLending, error) {
	snap, err := s.snapshots.FetchSnapshot(ctx, auth)
	if err != nil {
		return nil, err
	}
	now = now.In(s.location)

	members := make(map[int32]string, len(snap.Members))
	for _, m := range snap.Members {
		members[m.ID] = m.Name
	}
	books := make(map[int32]string, len(snap.Books))
	for _, b := range snap.Books {
		books[b.ID] = b.Title
	}

	lines := []domain.OverdueLending{}
	for _, l := range snap.Lendings {
		if !utils.IsOverdue(l, now) {
			continue
		}
		line := domain.OverdueLending{
			LendingID:   l.ID,
			MemberName:  utils.UnknownMember,
			BookTitle:   utils.UnknownBook,
			DueDate:     l.DueDate,
			DaysLate:    utils.DaysLate(l.DueDate, now),
			AccruedFine: utils.AccruedFine(l, now, s.dailyRate),
		}
		if name, ok := members[l.MemberID]; ok {
			line.MemberName = name
		}
		if title, ok := books[l.BookID]; ok {
			line.BookTitle = title
		}
		lines = append(lines, line)
	}

	slices.SortFunc(lines, func(a, b domain.OverdueLending) int {
		if c := cmp.Compare(b.DaysLate, a.DaysLate); c != 0 {
			return c
		}
		return cmp.Compare(a.LendingID, b.LendingID)
	})
	return lines, nil
}
