package note

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mkravchenko/notekeep-backend/internal/domain"
	"github.com/mkravchenko/notekeep-backend/pkg/ctxutil"
)

// Create makes a new note owned by the acting user. Content is sanitized
// before it is stored.
func (s *Service) Create(ctx context.Context, input CreateInput) (*domain.Note, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	created, err := s.notes.Create(ctx, &domain.Note{
		ID:          uuid.New(),
		Title:       strings.TrimSpace(input.Title),
		Content:     s.sanitizer.Sanitize(input.Content),
		OwnerUserID: userID,
		Archived:    false,
		DueDate:     input.DueDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return nil, fmt.Errorf("create note: %w", err)
	}

	s.events.Publish(domain.NewEvent(
		domain.EventActionCreateNote, userID, domain.EntityTypeNote, created.ID,
		fmt.Sprintf("created note %q", created.Title),
	))

	s.log.InfoContext(ctx, "note created",
		slog.String("user_id", userID.String()),
		slog.String("note_id", created.ID.String()),
	)

	return created, nil
}
