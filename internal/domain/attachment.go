package domain

import (
	"time"

	"github.com/google/uuid"
)

// NoteAttachment is a binary file attached to a note. The blob lives in the
// same row as its metadata; attachments are owned exclusively by their note.
type NoteAttachment struct {
	ID          uuid.UUID
	NoteID      uuid.UUID
	Filename    string
	ContentType string
	FileSize    int64
	Data        []byte
	CreatedAt   time.Time
	Version     int64
}

// AttachmentInfo is attachment metadata without the blob, for listings.
type AttachmentInfo struct {
	ID          uuid.UUID
	NoteID      uuid.UUID
	Filename    string
	ContentType string
	FileSize    int64
	CreatedAt   time.Time
}
