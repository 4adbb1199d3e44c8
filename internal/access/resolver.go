// Package access resolves what a principal may do with a note.
//
// Resolution is deliberately lossy for outsiders: a missing note and a note
// the principal has no relation to both resolve to LevelNone, so callers
// can return the same not-found outcome for both and never disclose whether
// a note ID exists.
package access

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/mkravchenko/notekeep-backend/internal/domain"
)

// Level is the effective permission a principal holds on a note.
type Level int

const (
	LevelNone Level = iota
	LevelSharedRead
	LevelSharedEdit
	LevelOwner
)

func (l Level) String() string {
	switch l {
	case LevelSharedRead:
		return "shared-read"
	case LevelSharedEdit:
		return "shared-edit"
	case LevelOwner:
		return "owner"
	default:
		return "none"
	}
}

// Access is the result of resolving (note, principal).
type Access struct {
	Level Level
	// Note is the resolved note, nil when Level is LevelNone.
	Note *domain.Note
}

// CanRead reports whether the principal may read the note. Archived notes
// stay readable to participants; listing queries filter them separately.
func (a Access) CanRead() bool { return a.Level >= LevelSharedRead }

// CanWrite reports whether the principal may modify note content.
func (a Access) CanWrite() bool { return a.Level >= LevelSharedEdit }

// CanManage reports whether the principal may grant or revoke shares.
// Only the owner can; an edit share does not confer re-sharing.
func (a Access) CanManage() bool { return a.Level == LevelOwner }

// noteGetter is the note read-model the resolver needs.
type noteGetter interface {
	GetByID(ctx context.Context, noteID uuid.UUID) (*domain.Note, error)
}

// shareGetter is the share read-model the resolver needs.
type shareGetter interface {
	Get(ctx context.Context, noteID, userID uuid.UUID) (*domain.NoteShare, error)
}

// Resolver determines the effective permission of a user on a note.
type Resolver struct {
	notes  noteGetter
	shares shareGetter
}

// NewResolver creates a Resolver over the given read-models.
func NewResolver(notes noteGetter, shares shareGetter) *Resolver {
	return &Resolver{notes: notes, shares: shares}
}

// Resolve returns the effective access of userID on noteID.
// LevelNone covers both "note does not exist" and "no relation"; the two
// cases are indistinguishable on purpose. Storage failures are returned
// as errors and never downgraded to LevelNone.
func (r *Resolver) Resolve(ctx context.Context, noteID, userID uuid.UUID) (Access, error) {
	note, err := r.notes.GetByID(ctx, noteID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return Access{Level: LevelNone}, nil
		}
		return Access{}, fmt.Errorf("resolve note %s: %w", noteID, err)
	}

	if note.OwnerUserID == userID {
		return Access{Level: LevelOwner, Note: note}, nil
	}

	share, err := r.shares.Get(ctx, noteID, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return Access{Level: LevelNone}, nil
		}
		return Access{}, fmt.Errorf("resolve share %s/%s: %w", noteID, userID, err)
	}

	level := LevelSharedRead
	if share.Permission == domain.SharePermissionEdit {
		level = LevelSharedEdit
	}
	return Access{Level: level, Note: note}, nil
}
