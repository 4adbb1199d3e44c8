package user

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

// RegisterResult carries the new account and its generated password. The
// plaintext password exists only here; it is never stored or logged.
type RegisterResult struct {
	User            *domain.User
	InitialPassword string
}

// Register creates an account with a random initial password and a forced
// password change on first login. Admin-only. A taken username surfaces as
// ErrAlreadyExists.
func (s *Service) Register(ctx context.Context, input RegisterInput) (*RegisterResult, error) {
	actingID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if !ctxutil.IsAdminCtx(ctx) {
		return nil, domain.ErrForbidden
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	password, err := generateInitialPassword()
	if err != nil {
		return nil, err
	}
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	role := input.Role
	if role == "" {
		role = domain.UserRoleUser
	}

	now := time.Now().UTC()
	created, err := s.users.Create(ctx, &domain.User{
		ID:                 uuid.New(),
		Username:           strings.TrimSpace(input.Username),
		PasswordHash:       hash,
		MustChangePassword: true,
		Role:               role,
		Enabled:            true,
		CreatedAt:          now,
		UpdatedAt:          now,
	})
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.log.InfoContext(ctx, "user registered",
		slog.String("acting_user_id", actingID.String()),
		slog.String("user_id", created.ID.String()),
		slog.String("username", created.Username),
		slog.String("role", created.Role.String()),
	)

	return &RegisterResult{User: created, InitialPassword: password}, nil
}
