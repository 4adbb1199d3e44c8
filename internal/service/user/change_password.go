package user

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mkravchenko/notekeep-backend/internal/domain"
	"github.com/mkravchenko/notekeep-backend/pkg/ctxutil"
)

// ChangePassword sets a new password for the acting user. The old password
// must verify unless the account is under a forced change, where the user
// only proved the generated password at login and is not asked for it
// again. The forced-change flag is cleared on success.
func (s *Service) ChangePassword(ctx context.Context, input ChangePasswordInput) error {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return domain.ErrUnauthorized
	}

	if len(input.NewPassword) < s.minPasswordLen {
		return domain.NewValidationError("new_password",
			fmt.Sprintf("must be at least %d characters", s.minPasswordLen))
	}

	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("fetch user: %w", err)
	}

	if !u.MustChangePassword {
		if err := s.hasher.Compare(u.PasswordHash, input.OldPassword); err != nil {
			return domain.ErrUnauthorized
		}
	}

	hash, err := s.hasher.Hash(input.NewPassword)
	if err != nil {
		return err
	}

	updated := *u
	updated.PasswordHash = hash
	updated.MustChangePassword = false
	updated.UpdatedAt = time.Now().UTC()

	if _, err := s.users.Update(ctx, &updated); err != nil {
		return fmt.Errorf("update user: %w", err)
	}

	s.events.Publish(domain.NewEvent(
		domain.EventActionChangePassword, userID, domain.EntityTypeUser, userID,
		"changed password",
	))

	s.log.InfoContext(ctx, "password changed",
		slog.String("user_id", userID.String()),
	)

	return nil
}
