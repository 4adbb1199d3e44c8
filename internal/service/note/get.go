package note

import (
	"context"

	"github.com/google/uuid"

	"github.com/mkravchenko/notekeep-backend/internal/domain"
	"github.com/mkravchenko/notekeep-backend/pkg/ctxutil"
)

// GetByID returns a note the acting user may read: their own or one shared
// with them, archived or not. Missing notes and notes the user has no
// relation to both return ErrNotFound.
func (s *Service) GetByID(ctx context.Context, noteID uuid.UUID) (*domain.Note, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	acc, err := s.resolver.Resolve(ctx, noteID, userID)
	if err != nil {
		return nil, err
	}
	if !acc.CanRead() {
		return nil, domain.ErrNotFound
	}

	return acc.Note, nil
}
