package share

import (
	"strings"

	"github.com/google/uuid"

	"github.com/mkravchenko/notekeep-backend/internal/domain"
)

// ShareInput holds the parameters for granting a share.
type ShareInput struct {
	NoteID         uuid.UUID
	TargetUsername string
	Permission     domain.SharePermission
}

// Validate checks all fields and collects all errors.
func (i ShareInput) Validate() error {
	var errs []domain.FieldError
	if i.NoteID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "note_id", Message: "required"})
	}
	if strings.TrimSpace(i.TargetUsername) == "" {
		errs = append(errs, domain.FieldError{Field: "target_username", Message: "required"})
	}
	if !i.Permission.IsValid() {
		errs = append(errs, domain.FieldError{Field: "permission", Message: "must be READ or EDIT"})
	}
	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// RevokeInput holds the parameters for revoking a share.
type RevokeInput struct {
	NoteID       uuid.UUID
	TargetUserID uuid.UUID
}

// Validate checks all fields and collects all errors.
func (i RevokeInput) Validate() error {
	var errs []domain.FieldError
	if i.NoteID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "note_id", Message: "required"})
	}
	if i.TargetUserID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "target_user_id", Message: "required"})
	}
	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}
