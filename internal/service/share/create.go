package share

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mkravchenko/notekeep-backend/internal/domain"
	"github.com/mkravchenko/notekeep-backend/pkg/ctxutil"
)

// Share grants the target user access to a note. Only the owner may share.
// Expected business rejections return false without an error: an unknown
// target username, sharing with oneself, and a share that already exists
// for the pair (re-sharing with a different permission requires revoke
// then share). A missing or not-owned note yields ErrNotFound.
func (s *Service) Share(ctx context.Context, input ShareInput) (bool, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return false, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return false, err
	}

	targetUsername := strings.TrimSpace(input.TargetUsername)

	shared := false

	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		acc, err := s.resolver.Resolve(txCtx, input.NoteID, userID)
		if err != nil {
			return err
		}
		if !acc.CanManage() {
			return domain.ErrNotFound
		}

		target, err := s.users.GetByUsername(txCtx, targetUsername)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil
			}
			return fmt.Errorf("resolve share target: %w", err)
		}
		if target.ID == acc.Note.OwnerUserID {
			return nil
		}

		// The unique (note_id, shared_with_user_id) constraint makes the
		// duplicate check atomic with the insert.
		shared, err = s.shares.Insert(txCtx, &domain.NoteShare{
			ID:               uuid.New(),
			NoteID:           input.NoteID,
			SharedWithUserID: target.ID,
			SharedByUserID:   userID,
			Permission:       input.Permission,
			CreatedAt:        time.Now().UTC(),
		})
		if err != nil {
			return fmt.Errorf("insert share: %w", err)
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	if !shared {
		return false, nil
	}

	s.events.Publish(domain.NewEvent(
		domain.EventActionShareNote, userID, domain.EntityTypeShare, input.NoteID,
		fmt.Sprintf("shared note with %q (%s)", targetUsername, input.Permission),
	))

	s.log.InfoContext(ctx, "note shared",
		slog.String("user_id", userID.String()),
		slog.String("note_id", input.NoteID.String()),
		slog.String("permission", input.Permission.String()),
	)

	return true, nil
}
