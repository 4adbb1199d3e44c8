package note

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/mkravchenko/notekeep-backend/internal/domain"
	"github.com/mkravchenko/notekeep-backend/pkg/ctxutil"
)

// Archive marks a note as archived, removing it from default listings while
// keeping it readable to its participants. Archiving is owner-only: it
// changes visibility for every share recipient at once.
//
// Returns false without an error when the note is missing or not owned by
// the acting user; both look the same to the caller.
func (s *Service) Archive(ctx context.Context, noteID uuid.UUID) (bool, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return false, domain.ErrUnauthorized
	}

	archived := false
	alreadyArchived := false

	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		acc, err := s.resolver.Resolve(txCtx, noteID, userID)
		if err != nil {
			return err
		}
		if !acc.CanManage() {
			return nil
		}
		if acc.Note.Archived {
			// Nothing to do, report success without a second event.
			archived = true
			alreadyArchived = true
			return nil
		}

		if err := s.notes.Archive(txCtx, noteID, acc.Note.Version); err != nil {
			return fmt.Errorf("archive note: %w", err)
		}
		archived = true
		return nil
	})
	if err != nil {
		return false, err
	}
	if !archived {
		return false, nil
	}
	if alreadyArchived {
		return true, nil
	}

	s.events.Publish(domain.NewEvent(
		domain.EventActionArchiveNote, userID, domain.EntityTypeNote, noteID,
		"archived note",
	))

	s.log.InfoContext(ctx, "note archived",
		slog.String("user_id", userID.String()),
		slog.String("note_id", noteID.String()),
	)

	return true, nil
}
