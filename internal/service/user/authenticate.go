package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mkravchenko/notekeep-backend/internal/domain"
)

// Authenticate verifies a username/password pair and returns the account.
// A wrong username, a wrong password and a disabled account all surface as
// ErrUnauthorized; none of them is distinguishable to the caller. A
// successful login is recorded in the activity log.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	u, err := s.users.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, fmt.Errorf("fetch user: %w", err)
	}

	if err := s.hasher.Compare(u.PasswordHash, password); err != nil {
		return nil, domain.ErrUnauthorized
	}
	if !u.Enabled {
		return nil, domain.ErrUnauthorized
	}

	s.events.Publish(domain.NewEvent(
		domain.EventActionLogin, u.ID, domain.EntityTypeUser, u.ID,
		fmt.Sprintf("user %q logged in", u.Username),
	))

	s.log.InfoContext(ctx, "user authenticated",
		slog.String("user_id", u.ID.String()),
	)

	return u, nil
}
