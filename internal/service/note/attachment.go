package note

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mkravchenko/notekeep-backend/internal/domain"
	"github.com/mkravchenko/notekeep-backend/internal/upload"
	"github.com/mkravchenko/notekeep-backend/pkg/ctxutil"
)

// UploadAttachmentInput holds the parameters for attaching a file to a note.
type UploadAttachmentInput struct {
	NoteID      uuid.UUID
	Filename    string
	ContentType string
	Data        []byte
}

// UploadAttachment validates an uploaded file and stores it against a note.
// The acting user needs write access; anything less yields ErrNotFound. The
// file must pass the upload safety checks: a rejection surfaces as a
// *upload.RejectionError and is never downgraded to an accept. The stored
// filename is the sanitized form.
func (s *Service) UploadAttachment(ctx context.Context, input UploadAttachmentInput) (*domain.NoteAttachment, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if input.NoteID == uuid.Nil {
		return nil, domain.NewValidationError("note_id", "required")
	}

	if err := s.validator.Validate(upload.Upload{
		Filename:    input.Filename,
		ContentType: input.ContentType,
		Size:        int64(len(input.Data)),
		Data:        input.Data,
	}); err != nil {
		return nil, err
	}

	var created *domain.NoteAttachment

	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		acc, err := s.resolver.Resolve(txCtx, input.NoteID, userID)
		if err != nil {
			return err
		}
		if !acc.CanWrite() {
			return domain.ErrNotFound
		}

		created, err = s.attachments.Create(txCtx, &domain.NoteAttachment{
			ID:          uuid.New(),
			NoteID:      input.NoteID,
			Filename:    upload.SanitizeFilename(input.Filename),
			ContentType: input.ContentType,
			FileSize:    int64(len(input.Data)),
			Data:        input.Data,
			CreatedAt:   time.Now().UTC(),
		})
		if err != nil {
			return fmt.Errorf("create attachment: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.events.Publish(domain.NewEvent(
		domain.EventActionUploadAttachment, userID, domain.EntityTypeAttachment, created.ID,
		fmt.Sprintf("uploaded attachment %q", created.Filename),
	))

	s.log.InfoContext(ctx, "attachment uploaded",
		slog.String("user_id", userID.String()),
		slog.String("note_id", input.NoteID.String()),
		slog.String("attachment_id", created.ID.String()),
		slog.Int64("size", created.FileSize),
	)

	return created, nil
}

// DownloadAttachment returns the full attachment, blob included. The acting
// user needs read access to the owning note. Downloads are recorded in the
// activity log.
func (s *Service) DownloadAttachment(ctx context.Context, attachmentID uuid.UUID) (*domain.NoteAttachment, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	att, err := s.attachments.GetByID(ctx, attachmentID)
	if err != nil {
		return nil, err
	}

	acc, err := s.resolver.Resolve(ctx, att.NoteID, userID)
	if err != nil {
		return nil, err
	}
	if !acc.CanRead() {
		return nil, domain.ErrNotFound
	}

	s.events.Publish(domain.NewEvent(
		domain.EventActionDownloadAttachment, userID, domain.EntityTypeAttachment, att.ID,
		fmt.Sprintf("downloaded attachment %q", att.Filename),
	))

	return att, nil
}

// DeleteAttachment removes an attachment. The acting user needs write
// access to the owning note. A concurrent modification surfaces as
// ErrConflict.
func (s *Service) DeleteAttachment(ctx context.Context, attachmentID uuid.UUID) error {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return domain.ErrUnauthorized
	}

	var deleted *domain.NoteAttachment

	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		att, err := s.attachments.GetByID(txCtx, attachmentID)
		if err != nil {
			return err
		}

		acc, err := s.resolver.Resolve(txCtx, att.NoteID, userID)
		if err != nil {
			return err
		}
		if !acc.CanWrite() {
			return domain.ErrNotFound
		}

		if err := s.attachments.Delete(txCtx, att.ID, att.Version); err != nil {
			return fmt.Errorf("delete attachment: %w", err)
		}
		deleted = att
		return nil
	})
	if err != nil {
		return err
	}

	s.events.Publish(domain.NewEvent(
		domain.EventActionDeleteAttachment, userID, domain.EntityTypeAttachment, deleted.ID,
		fmt.Sprintf("deleted attachment %q", deleted.Filename),
	))

	s.log.InfoContext(ctx, "attachment deleted",
		slog.String("user_id", userID.String()),
		slog.String("attachment_id", attachmentID.String()),
	)

	return nil
}

// ListAttachments returns attachment metadata for a note, without blobs.
// The acting user needs read access.
func (s *Service) ListAttachments(ctx context.Context, noteID uuid.UUID) ([]domain.AttachmentInfo, error) {
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

	infos, err := s.attachments.ListByNote(ctx, noteID)
	if err != nil {
		return nil, fmt.Errorf("list attachments: %w", err)
	}

	return infos, nil
}
