// Package note implements the note lifecycle: create, update, archive,
// read, and search. Every write re-sanitizes content; every operation on an
// existing note resolves the caller's access first, inside the same
// transaction as the mutation.
package note

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/mkravchenko/notekeep-backend/internal/access"
	"github.com/mkravchenko/notekeep-backend/internal/domain"
	"github.com/mkravchenko/notekeep-backend/internal/events"
	"github.com/mkravchenko/notekeep-backend/internal/upload"
)

// noteRepo defines the note repository interface needed by this service.
type noteRepo interface {
	Create(ctx context.Context, n *domain.Note) (*domain.Note, error)
	// Update persists title/content/due date guarded by the optimistic
	// version; the stored version is bumped on success.
	Update(ctx context.Context, n *domain.Note) (*domain.Note, error)
	// Archive sets archived/archived_at guarded by the optimistic version.
	Archive(ctx context.Context, noteID uuid.UUID, version int64) error
	Search(ctx context.Context, f domain.NoteFilter) ([]domain.Note, error)
}

// attachmentRepo defines the attachment repository interface needed by
// this service.
type attachmentRepo interface {
	Create(ctx context.Context, a *domain.NoteAttachment) (*domain.NoteAttachment, error)
	// GetByID loads the full attachment including the blob.
	GetByID(ctx context.Context, attachmentID uuid.UUID) (*domain.NoteAttachment, error)
	// Delete removes an attachment guarded by the optimistic version.
	Delete(ctx context.Context, attachmentID uuid.UUID, version int64) error
	ListByNote(ctx context.Context, noteID uuid.UUID) ([]domain.AttachmentInfo, error)
}

// uploadValidator screens uploaded files before persistence.
type uploadValidator interface {
	Validate(u upload.Upload) error
}

// accessResolver resolves the caller's effective permission on a note.
type accessResolver interface {
	Resolve(ctx context.Context, noteID, userID uuid.UUID) (access.Access, error)
}

// contentSanitizer strips unsafe markup from note bodies.
type contentSanitizer interface {
	Sanitize(raw string) string
}

// txManager defines the transaction manager interface needed by this service.
type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Service provides note lifecycle and attachment operations.
type Service struct {
	log         *slog.Logger
	notes       noteRepo
	attachments attachmentRepo
	resolver    accessResolver
	sanitizer   contentSanitizer
	validator   uploadValidator
	events      events.Publisher
	tx          txManager
}

// NewService creates a new note service.
func NewService(
	logger *slog.Logger,
	notes noteRepo,
	attachments attachmentRepo,
	resolver accessResolver,
	sanitizer contentSanitizer,
	validator uploadValidator,
	publisher events.Publisher,
	tx txManager,
) *Service {
	return &Service{
		log:         logger.With("service", "note"),
		notes:       notes,
		attachments: attachments,
		resolver:    resolver,
		sanitizer:   sanitizer,
		validator:   validator,
		events:      publisher,
		tx:          tx,
	}
}
