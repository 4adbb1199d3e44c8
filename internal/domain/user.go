package domain

import (
	"time"

	"github.com/google/uuid"
)

// User represents an application account.
//
// Accounts are never hard-deleted; an administrator disables them instead.
// A freshly registered user carries a generated password and
// MustChangePassword=true until the first password change.
type User struct {
	ID                 uuid.UUID
	Username           string
	PasswordHash       string
	MustChangePassword bool
	Role               UserRole
	Enabled            bool
	CreatedAt          time.Time
	UpdatedAt          time.Time
	Version            int64
}

// IsAdmin returns true for administrator accounts.
func (u *User) IsAdmin() bool {
	return u.Role == UserRoleAdmin
}
