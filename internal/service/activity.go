package service

import (
	"context"
	"fmt"

	"libratrack-admin-backend/internal/domain"
	"libratrack-admin-backend/internal/utils"
)

const (
	DefaultFeedLimit = 5
	MaxFeedLimit     = 100
)

type activityService struct {
	snapshots SnapshotService
}

func NewActivityService(snapshots SnapshotService) ActivityService {
	return &activityService{snapshots: snapshots}
}

// GetActivityFeed returns the newest limit events. Limits above MaxFeedLimit
// are clamped; a zero limit yields an empty feed without touching the backend.
func (s *activityService) GetActivityFeed(ctx context.Context, auth domain.AuthContext, limit int) ([]domain.ActivityEvent, error) {
	if limit < 0 {
		return nil, fmt.Errorf("feed limit %d: %w", limit, domain.ErrInvalidInput)
	}
	if limit == 0 {
		return []domain.ActivityEvent{}, nil
	}
	if limit > MaxFeedLimit {
		limit = MaxFeedLimit
	}

	snap, err := s.snapshots.FetchSnapshot(ctx, auth)
	if err != nil {
		return nil, err
	}
	return utils.BuildActivityFeed(snap.Members, snap.Books, snap.Lendings, snap.Fines, limit)
}
