// Package user implements account management: registration, authentication,
// password changes and admin operations.
package user

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/mkravchenko/notekeep-backend/internal/domain"
	"github.com/mkravchenko/notekeep-backend/internal/events"
)

// userRepo defines the user repository interface needed by this service.
type userRepo interface {
	Create(ctx context.Context, u *domain.User) (*domain.User, error)
	GetByID(ctx context.Context, userID uuid.UUID) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	// Update persists password/enabled/must-change fields guarded by the
	// optimistic version; the stored version is bumped on success.
	Update(ctx context.Context, u *domain.User) (*domain.User, error)
}

// statsRepo aggregates entity counts for the admin dashboard.
type statsRepo interface {
	Counts(ctx context.Context) (domain.Stats, error)
}

// activityReader lists persisted activity events.
type activityReader interface {
	ListRecent(ctx context.Context, limit int) ([]domain.DomainEvent, error)
}

// passwordHasher abstracts bcrypt so tests can swap in a cheap hasher.
type passwordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// Service provides account operations. User mutations touch a single row,
// so the optimistic version check alone is enough; no transaction manager
// is needed here.
type Service struct {
	log            *slog.Logger
	users          userRepo
	stats          statsRepo
	activity       activityReader
	hasher         passwordHasher
	events         events.Publisher
	minPasswordLen int
}

// NewService creates a new user service.
func NewService(
	logger *slog.Logger,
	users userRepo,
	stats statsRepo,
	activity activityReader,
	hasher passwordHasher,
	publisher events.Publisher,
	minPasswordLen int,
) *Service {
	return &Service{
		log:            logger.With("service", "user"),
		users:          users,
		stats:          stats,
		activity:       activity,
		hasher:         hasher,
		events:         publisher,
		minPasswordLen: minPasswordLen,
	}
}
