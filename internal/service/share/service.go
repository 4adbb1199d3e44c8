// Package share implements note sharing: granting, revoking and listing
// shares. Only the note owner may manage sharing; an edit share grants
// content access, never the right to re-share.
package share

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/mkravchenko/notekeep-backend/internal/access"
	"github.com/mkravchenko/notekeep-backend/internal/domain"
	"github.com/mkravchenko/notekeep-backend/internal/events"
)

// shareRepo defines the share repository interface needed by this service.
type shareRepo interface {
	// Insert adds a share unless one already exists for the (note, user)
	// pair. Reports whether a row was inserted. The duplicate check and
	// the insert are a single atomic operation.
	Insert(ctx context.Context, sh *domain.NoteShare) (bool, error)
	// Delete removes the share for the pair. Reports whether a row existed.
	Delete(ctx context.Context, noteID, sharedWithUserID uuid.UUID) (bool, error)
	ListByNote(ctx context.Context, noteID uuid.UUID) ([]domain.ShareInfo, error)
	// ListNotesSharedWith returns non-archived notes shared with the user.
	ListNotesSharedWith(ctx context.Context, userID uuid.UUID) ([]domain.Note, error)
}

// userGetter resolves share recipients by username.
type userGetter interface {
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
}

// accessResolver resolves the caller's effective permission on a note.
type accessResolver interface {
	Resolve(ctx context.Context, noteID, userID uuid.UUID) (access.Access, error)
}

// txManager defines the transaction manager interface needed by this service.
type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Service provides sharing operations.
type Service struct {
	log      *slog.Logger
	shares   shareRepo
	users    userGetter
	resolver accessResolver
	events   events.Publisher
	tx       txManager
}

// NewService creates a new sharing service.
func NewService(
	logger *slog.Logger,
	shares shareRepo,
	users userGetter,
	resolver accessResolver,
	publisher events.Publisher,
	tx txManager,
) *Service {
	return &Service{
		log:      logger.With("service", "share"),
		shares:   shares,
		users:    users,
		resolver: resolver,
		events:   publisher,
		tx:       tx,
	}
}
