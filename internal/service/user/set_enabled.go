package user

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mkravchenko/notekeep-backend/internal/domain"
	"github.com/mkravchenko/notekeep-backend/pkg/ctxutil"
)

// SetEnabled enables or disables an account. Admin-only. ADMIN accounts
// cannot be disabled. Setting the current state again is a no-op that
// emits no event.
func (s *Service) SetEnabled(ctx context.Context, targetID uuid.UUID, enabled bool) error {
	actingID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return domain.ErrUnauthorized
	}
	if !ctxutil.IsAdminCtx(ctx) {
		return domain.ErrForbidden
	}

	u, err := s.users.GetByID(ctx, targetID)
	if err != nil {
		return fmt.Errorf("fetch user: %w", err)
	}
	if !enabled && u.IsAdmin() {
		return domain.NewValidationError("enabled", "administrator accounts cannot be disabled")
	}
	if u.Enabled == enabled {
		return nil
	}

	updated := *u
	updated.Enabled = enabled
	updated.UpdatedAt = time.Now().UTC()

	if _, err := s.users.Update(ctx, &updated); err != nil {
		return fmt.Errorf("update user: %w", err)
	}

	action := domain.EventActionUserDisabled
	verb := "disabled"
	if enabled {
		action = domain.EventActionUserEnabled
		verb = "enabled"
	}
	s.events.Publish(domain.NewEvent(
		action, actingID, domain.EntityTypeUser, u.ID,
		fmt.Sprintf("%s user %q", verb, u.Username),
	))

	s.log.InfoContext(ctx, "user state changed",
		slog.String("acting_user_id", actingID.String()),
		slog.String("user_id", u.ID.String()),
		slog.Bool("enabled", enabled),
	)

	return nil
}
