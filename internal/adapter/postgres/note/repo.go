// Package note implements the Note repository using PostgreSQL.
package note

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/mkravchenko/notekeep-backend/internal/adapter/postgres"
	"github.com/mkravchenko/notekeep-backend/internal/domain"
)

const noteColumns = `id, title, content, owner_user_id, archived, archived_at, due_date, created_at, updated_at, version`

// sortColumns maps the service-level sort keys to real columns. Anything
// else falls back to updated_at.
var sortColumns = map[string]string{
	"title":      "title",
	"created_at": "created_at",
	"updated_at": "updated_at",
}

// Repo provides note persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new note repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// GetByID returns a note by primary key.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Note, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	row := q.QueryRow(ctx, `SELECT `+noteColumns+` FROM notes WHERE id = $1`, id)
	n, err := scanNote(row)
	if err != nil {
		return nil, postgres.MapError(err, "note", id)
	}
	return n, nil
}

// Create inserts a new note.
func (r *Repo) Create(ctx context.Context, n *domain.Note) (*domain.Note, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	row := q.QueryRow(ctx, `
		INSERT INTO notes (id, title, content, owner_user_id, archived, archived_at, due_date, created_at, updated_at, version)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, 1)
		RETURNING `+noteColumns,
		n.ID, n.Title, n.Content, n.OwnerUserID, n.Archived, n.ArchivedAt, n.DueDate, n.CreatedAt, n.UpdatedAt,
	)
	created, err := scanNote(row)
	if err != nil {
		return nil, postgres.MapError(err, "note", n.ID)
	}
	return created, nil
}

// Update persists title, content and due_date, guarded by the optimistic
// version. A stale version on an existing row maps to domain.ErrConflict.
func (r *Repo) Update(ctx context.Context, n *domain.Note) (*domain.Note, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	row := q.QueryRow(ctx, `
		UPDATE notes
		SET title = $1, content = $2, due_date = $3, updated_at = $4, version = version + 1
		WHERE id = $5 AND version = $6
		RETURNING `+noteColumns,
		n.Title, n.Content, n.DueDate, n.UpdatedAt, n.ID, n.Version,
	)
	updated, err := scanNote(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, r.staleOrMissing(ctx, n.ID)
		}
		return nil, postgres.MapError(err, "note", n.ID)
	}
	return updated, nil
}

// Archive marks the note archived, guarded by the optimistic version.
// archived and archived_at move together, keeping the pairing invariant
// inside the single statement.
func (r *Repo) Archive(ctx context.Context, id uuid.UUID, version int64) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := q.Exec(ctx, `
		UPDATE notes
		SET archived = TRUE, archived_at = $1, updated_at = $1, version = version + 1
		WHERE id = $2 AND version = $3 AND archived = FALSE`,
		time.Now().UTC(), id, version,
	)
	if err != nil {
		return postgres.MapError(err, "note", id)
	}
	if tag.RowsAffected() == 0 {
		return r.staleOrMissing(ctx, id)
	}
	return nil
}

// Search returns non-archived notes visible to the filter's user, matched
// case-insensitively against title and content. Scope OWN restricts to
// owned notes; ACCESSIBLE adds notes shared with the user. Ties are broken
// by id ascending.
func (r *Repo) Search(ctx context.Context, f domain.NoteFilter) ([]domain.Note, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	builder := squirrel.Select(
		"n.id", "n.title", "n.content", "n.owner_user_id", "n.archived",
		"n.archived_at", "n.due_date", "n.created_at", "n.updated_at", "n.version",
	).
		From("notes n").
		Where(squirrel.Eq{"n.archived": false}).
		PlaceholderFormat(squirrel.Dollar)

	if f.Scope == domain.ScopeOwn {
		builder = builder.Where(squirrel.Eq{"n.owner_user_id": f.UserID})
	} else {
		builder = builder.Where(squirrel.Or{
			squirrel.Eq{"n.owner_user_id": f.UserID},
			squirrel.Expr(
				"EXISTS (SELECT 1 FROM note_shares s WHERE s.note_id = n.id AND s.shared_with_user_id = ?)",
				f.UserID,
			),
		})
	}

	if f.Query != "" {
		pattern := "%" + f.Query + "%"
		builder = builder.Where(squirrel.Or{
			squirrel.ILike{"n.title": pattern},
			squirrel.ILike{"n.content": pattern},
		})
	}

	col, ok := sortColumns[f.SortBy]
	if !ok {
		col = "updated_at"
	}
	dir := "DESC"
	if f.SortOrder == "ASC" {
		dir = "ASC"
	}
	builder = builder.OrderBy(fmt.Sprintf("n.%s %s", col, dir), "n.id ASC")

	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build search query: %w", err)
	}

	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, postgres.MapError(err, "note", f.UserID)
	}
	defer rows.Close()

	var notes []domain.Note
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, postgres.MapError(err, "note", f.UserID)
		}
		notes = append(notes, *n)
	}
	if err := rows.Err(); err != nil {
		return nil, postgres.MapError(err, "note", f.UserID)
	}
	return notes, nil
}

func (r *Repo) staleOrMissing(ctx context.Context, id uuid.UUID) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var exists bool
	if err := q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM notes WHERE id = $1)`, id).Scan(&exists); err != nil {
		return postgres.MapError(err, "note", id)
	}
	if exists {
		return fmt.Errorf("note %s: %w", id, domain.ErrConflict)
	}
	return fmt.Errorf("note %s: %w", id, domain.ErrNotFound)
}

func scanNote(row pgx.Row) (*domain.Note, error) {
	var n domain.Note
	err := row.Scan(&n.ID, &n.Title, &n.Content, &n.OwnerUserID, &n.Archived,
		&n.ArchivedAt, &n.DueDate, &n.CreatedAt, &n.UpdatedAt, &n.Version)
	if err != nil {
		return nil, err
	}
	return &n, nil
}
