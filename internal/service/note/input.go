package note

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/mkravchenko/notekeep-backend/internal/domain"
)

// CreateInput holds the parameters for creating a note.
type CreateInput struct {
	Title   string
	Content string
	DueDate *time.Time
}

// Validate checks all fields and collects all errors.
func (i CreateInput) Validate() error {
	var errs []domain.FieldError
	errs = append(errs, validateTitle(i.Title)...)
	errs = append(errs, validateContent(i.Content)...)
	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// UpdateInput holds the parameters for updating a note.
type UpdateInput struct {
	NoteID  uuid.UUID
	Title   string
	Content string
	DueDate *time.Time
}

// Validate checks all fields and collects all errors.
func (i UpdateInput) Validate() error {
	var errs []domain.FieldError
	if i.NoteID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "note_id", Message: "required"})
	}
	errs = append(errs, validateTitle(i.Title)...)
	errs = append(errs, validateContent(i.Content)...)
	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// SearchInput holds the parameters for searching notes.
type SearchInput struct {
	Query     string
	Scope     domain.SearchScope
	SortBy    string
	SortOrder string
}

// Validate checks all fields and collects all errors.
func (i SearchInput) Validate() error {
	var errs []domain.FieldError

	if i.Scope != "" && !i.Scope.IsValid() {
		errs = append(errs, domain.FieldError{Field: "scope", Message: "must be OWN or ACCESSIBLE"})
	}

	switch i.SortBy {
	case "", "title", "created_at", "updated_at":
	default:
		errs = append(errs, domain.FieldError{Field: "sort_by", Message: "must be title, created_at or updated_at"})
	}

	switch strings.ToUpper(i.SortOrder) {
	case "", "ASC", "DESC":
	default:
		errs = append(errs, domain.FieldError{Field: "sort_order", Message: "must be ASC or DESC"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

func validateTitle(title string) []domain.FieldError {
	var errs []domain.FieldError
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		errs = append(errs, domain.FieldError{Field: "title", Message: "required"})
	}
	if utf8.RuneCountInString(trimmed) > domain.MaxNoteTitleLength {
		errs = append(errs, domain.FieldError{Field: "title", Message: "max 255 characters"})
	}
	return errs
}

// validateContent limits the raw, pre-sanitization length: sanitization can
// only shrink content, so the bound holds for the stored form too.
func validateContent(content string) []domain.FieldError {
	if utf8.RuneCountInString(content) > domain.MaxNoteContentLength {
		return []domain.FieldError{{Field: "content", Message: "max 10000 characters"}}
	}
	return nil
}
