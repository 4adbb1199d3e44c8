package domain

import (
	"time"

	"github.com/google/uuid"
)

// Limits applied to note fields before sanitization.
const (
	MaxNoteTitleLength   = 255
	MaxNoteContentLength = 10000
)

// Note is a rich-text note. Content is stored already sanitized; every
// write path re-sanitizes, nothing is ever trusted from a prior state.
//
// Invariant: Archived=false ⇔ ArchivedAt=nil. The owner never changes and
// archiving is the only form of deletion.
type Note struct {
	ID          uuid.UUID
	Title       string
	Content     string
	OwnerUserID uuid.UUID
	Archived    bool
	ArchivedAt  *time.Time
	DueDate     *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Version     int64
}

// NoteShare grants one recipient read or edit access to a note.
// At most one share exists per (note, recipient) pair, and a note is never
// shared with its owner.
type NoteShare struct {
	ID               uuid.UUID
	NoteID           uuid.UUID
	SharedWithUserID uuid.UUID
	SharedByUserID   uuid.UUID
	Permission       SharePermission
	CreatedAt        time.Time
}

// ShareInfo is a share row joined with the recipient's username,
// as returned by SharingService.ListShares.
type ShareInfo struct {
	NoteID     uuid.UUID
	UserID     uuid.UUID
	Username   string
	Permission SharePermission
	CreatedAt  time.Time
}
