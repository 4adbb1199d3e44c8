package domain

import "github.com/google/uuid"

// SearchScope selects which visible set a note search runs over.
type SearchScope string

const (
	// ScopeOwn restricts the search to notes the user owns.
	ScopeOwn SearchScope = "OWN"
	// ScopeAccessible covers owned notes plus notes shared with the user.
	ScopeAccessible SearchScope = "ACCESSIBLE"
)

func (s SearchScope) String() string { return string(s) }

func (s SearchScope) IsValid() bool {
	switch s {
	case ScopeOwn, ScopeAccessible:
		return true
	}
	return false
}

// NoteFilter contains search parameters for note queries. Archived notes
// are always excluded; ties are broken by id ascending for determinism.
type NoteFilter struct {
	UserID    uuid.UUID
	Query     string
	Scope     SearchScope
	SortBy    string
	SortOrder string
}
