package user

import (
	"context"
	"fmt"

	"github.com/mkravchenko/notekeep-backend/internal/domain"
	"github.com/mkravchenko/notekeep-backend/pkg/ctxutil"
)

// GetProfile returns the acting user's own account.
func (s *Service) GetProfile(ctx context.Context) (*domain.User, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("fetch user: %w", err)
	}

	return u, nil
}

// Stats returns aggregate entity counts. Admin-only.
func (s *Service) Stats(ctx context.Context) (domain.Stats, error) {
	if _, ok := ctxutil.UserIDFromCtx(ctx); !ok {
		return domain.Stats{}, domain.ErrUnauthorized
	}
	if !ctxutil.IsAdminCtx(ctx) {
		return domain.Stats{}, domain.ErrForbidden
	}

	stats, err := s.stats.Counts(ctx)
	if err != nil {
		return domain.Stats{}, fmt.Errorf("aggregate stats: %w", err)
	}

	return stats, nil
}

const maxRecentActivity = 100

// RecentActivity returns the newest activity-log entries, capped at
// maxRecentActivity. Admin-only.
func (s *Service) RecentActivity(ctx context.Context, limit int) ([]domain.DomainEvent, error) {
	if _, ok := ctxutil.UserIDFromCtx(ctx); !ok {
		return nil, domain.ErrUnauthorized
	}
	if !ctxutil.IsAdminCtx(ctx) {
		return nil, domain.ErrForbidden
	}

	if limit <= 0 || limit > maxRecentActivity {
		limit = maxRecentActivity
	}

	entries, err := s.activity.ListRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list activity: %w", err)
	}

	return entries, nil
}
