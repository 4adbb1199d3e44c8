package note

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/mkravchenko/notekeep-backend/internal/domain"
	"github.com/mkravchenko/notekeep-backend/pkg/ctxutil"
)

// Update rewrites a note's title, content and due date. The acting user
// must hold write access (owner or an edit share); a read share or no
// relation yields ErrNotFound, indistinguishable from a missing note.
// Content is re-sanitized on every write regardless of its prior state.
// A concurrent modification surfaces as ErrConflict.
func (s *Service) Update(ctx context.Context, input UpdateInput) (*domain.Note, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	var updated *domain.Note

	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		// Access check and mutation share the transaction, so a revoke
		// between check and write cannot slip through.
		acc, err := s.resolver.Resolve(txCtx, input.NoteID, userID)
		if err != nil {
			return err
		}
		if !acc.CanWrite() {
			return domain.ErrNotFound
		}

		n := *acc.Note
		n.Title = strings.TrimSpace(input.Title)
		n.Content = s.sanitizer.Sanitize(input.Content)
		n.DueDate = input.DueDate
		n.UpdatedAt = time.Now().UTC()

		updated, err = s.notes.Update(txCtx, &n)
		if err != nil {
			return fmt.Errorf("update note: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.events.Publish(domain.NewEvent(
		domain.EventActionUpdateNote, userID, domain.EntityTypeNote, updated.ID,
		fmt.Sprintf("updated note %q", updated.Title),
	))

	s.log.InfoContext(ctx, "note updated",
		slog.String("user_id", userID.String()),
		slog.String("note_id", updated.ID.String()),
	)

	return updated, nil
}
