package note

import (
	"context"
	"fmt"
	"strings"

	"github.com/mkravchenko/notekeep-backend/internal/domain"
	"github.com/mkravchenko/notekeep-backend/pkg/ctxutil"
)

// Search finds non-archived notes visible to the acting user whose title or
// content contains the query, case-insensitively. An empty query matches
// everything in scope. Results are ordered by the requested column with id
// ascending as the tiebreak.
func (s *Service) Search(ctx context.Context, input SearchInput) ([]domain.Note, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	scope := input.Scope
	if scope == "" {
		scope = domain.ScopeAccessible
	}
	sortBy := input.SortBy
	if sortBy == "" {
		sortBy = "updated_at"
	}
	sortOrder := strings.ToUpper(input.SortOrder)
	if sortOrder == "" {
		sortOrder = "DESC"
	}

	notes, err := s.notes.Search(ctx, domain.NoteFilter{
		UserID:    userID,
		Query:     strings.TrimSpace(input.Query),
		Scope:     scope,
		SortBy:    sortBy,
		SortOrder: sortOrder,
	})
	if err != nil {
		return nil, fmt.Errorf("search notes: %w", err)
	}

	return notes, nil
}
