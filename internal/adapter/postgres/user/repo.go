// Package user implements the User repository using PostgreSQL.
package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/mkravchenko/notekeep-backend/internal/adapter/postgres"
	"github.com/mkravchenko/notekeep-backend/internal/domain"
)

const userColumns = `id, username, password_hash, must_change_password, role, enabled, created_at, updated_at, version`

// Repo provides user persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new user repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// GetByID returns a user by primary key.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	row := q.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	u, err := scanUser(row)
	if err != nil {
		return nil, postgres.MapError(err, "user", id)
	}
	return u, nil
}

// GetByUsername returns a user by unique username.
func (r *Repo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	row := q.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
	u, err := scanUser(row)
	if err != nil {
		return nil, postgres.MapError(err, "user", uuid.Nil)
	}
	return u, nil
}

// Create inserts a new user. A taken username maps to domain.ErrAlreadyExists
// via the unique constraint.
func (r *Repo) Create(ctx context.Context, u *domain.User) (*domain.User, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	row := q.QueryRow(ctx, `
		INSERT INTO users (id, username, password_hash, must_change_password, role, enabled, created_at, updated_at, version)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 1)
		RETURNING `+userColumns,
		u.ID, u.Username, u.PasswordHash, u.MustChangePassword, u.Role.String(), u.Enabled, u.CreatedAt, u.UpdatedAt,
	)
	created, err := scanUser(row)
	if err != nil {
		return nil, postgres.MapError(err, "user", u.ID)
	}
	return created, nil
}

// Update persists password_hash, must_change_password and enabled, guarded
// by the optimistic version. A stale version on an existing row maps to
// domain.ErrConflict.
func (r *Repo) Update(ctx context.Context, u *domain.User) (*domain.User, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	row := q.QueryRow(ctx, `
		UPDATE users
		SET password_hash = $1, must_change_password = $2, enabled = $3,
		    updated_at = $4, version = version + 1
		WHERE id = $5 AND version = $6
		RETURNING `+userColumns,
		u.PasswordHash, u.MustChangePassword, u.Enabled, u.UpdatedAt, u.ID, u.Version,
	)
	updated, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, r.staleOrMissing(ctx, u.ID)
		}
		return nil, postgres.MapError(err, "user", u.ID)
	}
	return updated, nil
}

// Counts returns the aggregate entity totals for the admin dashboard.
func (r *Repo) Counts(ctx context.Context) (domain.Stats, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var s domain.Stats
	err := q.QueryRow(ctx, `
		SELECT
			(SELECT count(*) FROM users),
			(SELECT count(*) FROM notes),
			(SELECT count(*) FROM note_shares),
			(SELECT count(*) FROM note_attachments)`,
	).Scan(&s.Users, &s.Notes, &s.Shares, &s.Attachments)
	if err != nil {
		return domain.Stats{}, fmt.Errorf("count entities: %w", err)
	}
	return s, nil
}

// staleOrMissing distinguishes a version mismatch from a row that does not
// exist: the former is a conflict the caller may retry, the latter is not
// found.
func (r *Repo) staleOrMissing(ctx context.Context, id uuid.UUID) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var exists bool
	if err := q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`, id).Scan(&exists); err != nil {
		return postgres.MapError(err, "user", id)
	}
	if exists {
		return fmt.Errorf("user %s: %w", id, domain.ErrConflict)
	}
	return fmt.Errorf("user %s: %w", id, domain.ErrNotFound)
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var (
		u    domain.User
		role string
	)
	err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.MustChangePassword,
		&role, &u.Enabled, &u.CreatedAt, &u.UpdatedAt, &u.Version)
	if err != nil {
		return nil, err
	}
	u.Role = domain.UserRole(role)
	return &u, nil
}
