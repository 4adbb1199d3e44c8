package share

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/mkravchenko/notekeep-backend/internal/domain"
	"github.com/mkravchenko/notekeep-backend/pkg/ctxutil"
)

// ListShares returns every recipient of a note with their permission and
// grant time. Only the owner may list shares; anyone else gets ErrNotFound.
func (s *Service) ListShares(ctx context.Context, noteID uuid.UUID) ([]domain.ShareInfo, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	acc, err := s.resolver.Resolve(ctx, noteID, userID)
	if err != nil {
		return nil, err
	}
	if !acc.CanManage() {
		return nil, domain.ErrNotFound
	}

	infos, err := s.shares.ListByNote(ctx, noteID)
	if err != nil {
		return nil, fmt.Errorf("list shares: %w", err)
	}

	return infos, nil
}

// ListSharedWithMe returns all non-archived notes shared with the acting
// user, regardless of owner.
func (s *Service) ListSharedWithMe(ctx context.Context) ([]domain.Note, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	notes, err := s.shares.ListNotesSharedWith(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list shared notes: %w", err)
	}

	return notes, nil
}
