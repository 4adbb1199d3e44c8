// Package share implements the NoteShare repository using PostgreSQL.
package share

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/mkravchenko/notekeep-backend/internal/adapter/postgres"
	"github.com/mkravchenko/notekeep-backend/internal/domain"
)

// Repo provides share persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new share repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Get returns the share for the (note, recipient) pair.
func (r *Repo) Get(ctx context.Context, noteID, userID uuid.UUID) (*domain.NoteShare, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var (
		sh         domain.NoteShare
		permission string
	)
	err := q.QueryRow(ctx, `
		SELECT id, note_id, shared_with_user_id, shared_by_user_id, permission, created_at
		FROM note_shares
		WHERE note_id = $1 AND shared_with_user_id = $2`,
		noteID, userID,
	).Scan(&sh.ID, &sh.NoteID, &sh.SharedWithUserID, &sh.SharedByUserID, &permission, &sh.CreatedAt)
	if err != nil {
		return nil, postgres.MapError(err, "share", noteID)
	}
	sh.Permission = domain.SharePermission(permission)
	return &sh, nil
}

// Insert adds a share unless one already exists for the (note, recipient)
// pair. The unique constraint plus ON CONFLICT DO NOTHING make the
// duplicate check atomic under concurrent share attempts. Reports whether
// a row was inserted.
func (r *Repo) Insert(ctx context.Context, sh *domain.NoteShare) (bool, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := q.Exec(ctx, `
		INSERT INTO note_shares (id, note_id, shared_with_user_id, shared_by_user_id, permission, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (note_id, shared_with_user_id) DO NOTHING`,
		sh.ID, sh.NoteID, sh.SharedWithUserID, sh.SharedByUserID, sh.Permission.String(), sh.CreatedAt,
	)
	if err != nil {
		return false, postgres.MapError(err, "share", sh.NoteID)
	}
	return tag.RowsAffected() == 1, nil
}

// Delete removes the share for the pair. Reports whether a row existed.
func (r *Repo) Delete(ctx context.Context, noteID, sharedWithUserID uuid.UUID) (bool, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := q.Exec(ctx, `
		DELETE FROM note_shares
		WHERE note_id = $1 AND shared_with_user_id = $2`,
		noteID, sharedWithUserID,
	)
	if err != nil {
		return false, postgres.MapError(err, "share", noteID)
	}
	return tag.RowsAffected() == 1, nil
}

// ListByNote returns every recipient of a note with their permission,
// ordered by grant time.
func (r *Repo) ListByNote(ctx context.Context, noteID uuid.UUID) ([]domain.ShareInfo, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx, `
		SELECT s.note_id, s.shared_with_user_id, u.username, s.permission, s.created_at
		FROM note_shares s
		JOIN users u ON u.id = s.shared_with_user_id
		WHERE s.note_id = $1
		ORDER BY s.created_at, s.id`,
		noteID,
	)
	if err != nil {
		return nil, postgres.MapError(err, "share", noteID)
	}
	defer rows.Close()

	var infos []domain.ShareInfo
	for rows.Next() {
		var (
			info       domain.ShareInfo
			permission string
		)
		if err := rows.Scan(&info.NoteID, &info.UserID, &info.Username, &permission, &info.CreatedAt); err != nil {
			return nil, postgres.MapError(err, "share", noteID)
		}
		info.Permission = domain.SharePermission(permission)
		infos = append(infos, info)
	}
	if err := rows.Err(); err != nil {
		return nil, postgres.MapError(err, "share", noteID)
	}
	return infos, nil
}

// ListNotesSharedWith returns the non-archived notes shared with the user,
// newest grant first.
func (r *Repo) ListNotesSharedWith(ctx context.Context, userID uuid.UUID) ([]domain.Note, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx, `
		SELECT n.id, n.title, n.content, n.owner_user_id, n.archived, n.archived_at,
		       n.due_date, n.created_at, n.updated_at, n.version
		FROM notes n
		JOIN note_shares s ON s.note_id = n.id
		WHERE s.shared_with_user_id = $1 AND n.archived = FALSE
		ORDER BY s.created_at DESC, n.id`,
		userID,
	)
	if err != nil {
		return nil, postgres.MapError(err, "share", userID)
	}
	defer rows.Close()

	var notes []domain.Note
	for rows.Next() {
		var n domain.Note
		if err := rows.Scan(&n.ID, &n.Title, &n.Content, &n.OwnerUserID, &n.Archived,
			&n.ArchivedAt, &n.DueDate, &n.CreatedAt, &n.UpdatedAt, &n.Version); err != nil {
			return nil, postgres.MapError(err, "share", userID)
		}
		notes = append(notes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, postgres.MapError(err, "share", userID)
	}
	return notes, nil
}
