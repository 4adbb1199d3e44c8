package user

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/mkravchenko/notekeep-backend/internal/domain"
)

const (
	minUsernameLength = 3
	maxUsernameLength = 64
)

var usernameRe = regexp.MustCompile(`^[a-zA-Z0-9._-]+$`)

// RegisterInput holds the parameters for creating an account.
type RegisterInput struct {
	Username string
	Role     domain.UserRole
}

// Validate checks all fields and collects all errors.
func (i RegisterInput) Validate() error {
	var errs []domain.FieldError
	name := strings.TrimSpace(i.Username)
	if n := utf8.RuneCountInString(name); n < minUsernameLength || n > maxUsernameLength {
		errs = append(errs, domain.FieldError{Field: "username", Message: "must be 3 to 64 characters"})
	} else if !usernameRe.MatchString(name) {
		errs = append(errs, domain.FieldError{Field: "username", Message: "allowed characters: letters, digits, . _ -"})
	}
	if i.Role != "" && !i.Role.IsValid() {
		errs = append(errs, domain.FieldError{Field: "role", Message: "must be USER or ADMIN"})
	}
	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// ChangePasswordInput holds the parameters for a password change.
type ChangePasswordInput struct {
	OldPassword string
	NewPassword string
}
