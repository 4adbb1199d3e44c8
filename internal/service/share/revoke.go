package share

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mkravchenko/notekeep-backend/internal/domain"
	"github.com/mkravchenko/notekeep-backend/pkg/ctxutil"
)

// Revoke removes the target user's share on a note. Only the owner may
// revoke. Revoking a share that does not exist returns false, not an
// error. A missing or not-owned note yields ErrNotFound.
func (s *Service) Revoke(ctx context.Context, input RevokeInput) (bool, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return false, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return false, err
	}

	revoked := false

	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		acc, err := s.resolver.Resolve(txCtx, input.NoteID, userID)
		if err != nil {
			return err
		}
		if !acc.CanManage() {
			return domain.ErrNotFound
		}

		revoked, err = s.shares.Delete(txCtx, input.NoteID, input.TargetUserID)
		if err != nil {
			return fmt.Errorf("delete share: %w", err)
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	if !revoked {
		return false, nil
	}

	s.events.Publish(domain.NewEvent(
		domain.EventActionRevokeShareNote, userID, domain.EntityTypeShare, input.NoteID,
		"revoked note share",
	))

	s.log.InfoContext(ctx, "share revoked",
		slog.String("user_id", userID.String()),
		slog.String("note_id", input.NoteID.String()),
		slog.String("target_user_id", input.TargetUserID.String()),
	)

	return true, nil
}
