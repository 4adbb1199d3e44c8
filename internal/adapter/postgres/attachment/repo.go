// Package attachment implements the NoteAttachment repository using PostgreSQL.
package attachment

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/mkravchenko/notekeep-backend/internal/adapter/postgres"
	"github.com/mkravchenko/notekeep-backend/internal/domain"
)

// Repo provides attachment persistence backed by PostgreSQL. Blobs live in
// the same table; metadata queries never select the data column.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new attachment repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Create inserts a new attachment including its blob.
func (r *Repo) Create(ctx context.Context, a *domain.NoteAttachment) (*domain.NoteAttachment, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	row := q.QueryRow(ctx, `
		INSERT INTO note_attachments (id, note_id, filename, content_type, file_size, data, created_at, version)
		VALUES ($1, $2, $3, $4, $5, $6, $7, 1)
		RETURNING id, note_id, filename, content_type, file_size, data, created_at, version`,
		a.ID, a.NoteID, a.Filename, a.ContentType, a.FileSize, a.Data, a.CreatedAt,
	)
	created, err := scanAttachment(row)
	if err != nil {
		return nil, postgres.MapError(err, "attachment", a.ID)
	}
	return created, nil
}

// GetByID loads the full attachment including the blob.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.NoteAttachment, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	row := q.QueryRow(ctx, `
		SELECT id, note_id, filename, content_type, file_size, data, created_at, version
		FROM note_attachments
		WHERE id = $1`,
		id,
	)
	a, err := scanAttachment(row)
	if err != nil {
		return nil, postgres.MapError(err, "attachment", id)
	}
	return a, nil
}

// Delete removes an attachment guarded by the optimistic version. A stale
// version on an existing row maps to domain.ErrConflict.
func (r *Repo) Delete(ctx context.Context, id uuid.UUID, version int64) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := q.Exec(ctx, `
		DELETE FROM note_attachments
		WHERE id = $1 AND version = $2`,
		id, version,
	)
	if err != nil {
		return postgres.MapError(err, "attachment", id)
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if err := q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM note_attachments WHERE id = $1)`, id).Scan(&exists); err != nil {
			return postgres.MapError(err, "attachment", id)
		}
		if exists {
			return fmt.Errorf("attachment %s: %w", id, domain.ErrConflict)
		}
		return fmt.Errorf("attachment %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// ListByNote returns attachment metadata for a note, without blobs, in
// upload order.
func (r *Repo) ListByNote(ctx context.Context, noteID uuid.UUID) ([]domain.AttachmentInfo, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx, `
		SELECT id, note_id, filename, content_type, file_size, created_at
		FROM note_attachments
		WHERE note_id = $1
		ORDER BY created_at, id`,
		noteID,
	)
	if err != nil {
		return nil, postgres.MapError(err, "attachment", noteID)
	}
	defer rows.Close()

	var infos []domain.AttachmentInfo
	for rows.Next() {
		var info domain.AttachmentInfo
		if err := rows.Scan(&info.ID, &info.NoteID, &info.Filename, &info.ContentType,
			&info.FileSize, &info.CreatedAt); err != nil {
			return nil, postgres.MapError(err, "attachment", noteID)
		}
		infos = append(infos, info)
	}
	if err := rows.Err(); err != nil {
		return nil, postgres.MapError(err, "attachment", noteID)
	}
	return infos, nil
}

func scanAttachment(row pgx.Row) (*domain.NoteAttachment, error) {
	var a domain.NoteAttachment
	err := row.Scan(&a.ID, &a.NoteID, &a.Filename, &a.ContentType, &a.FileSize,
		&a.Data, &a.CreatedAt, &a.Version)
	if err != nil {
		return nil, err
	}
	return &a, nil
}
