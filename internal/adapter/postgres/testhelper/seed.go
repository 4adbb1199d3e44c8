package testhelper

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mkravchenko/notekeep-backend/internal/domain"
)

// uniqueSuffix returns a short unique string for generating non-conflicting test data.
func uniqueSuffix() string {
	return uuid.New().String()[:8]
}

// SeedUser inserts an enabled user account and returns it.
func SeedUser(t *testing.T, pool *pgxpool.Pool) domain.User {
	t.Helper()
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Microsecond)
	user := domain.User{
		ID:           uuid.New(),
		Username:     "testuser-" + uniqueSuffix(),
		PasswordHash: "$2a$10$seeded.hash.not.a.real.one.aaaaaaaaaaaaaaaaaaaaaaaaa",
		Role:         domain.UserRoleUser,
		Enabled:      true,
		CreatedAt:    now,
		UpdatedAt:    now,
		Version:      1,
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO users (id, username, password_hash, must_change_password, role, enabled, created_at, updated_at, version)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		user.ID, user.Username, user.PasswordHash, user.MustChangePassword,
		user.Role.String(), user.Enabled, user.CreatedAt, user.UpdatedAt, user.Version,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedUser insert: %v", err)
	}

	return user
}

// SeedNote inserts a non-archived note owned by the given user and returns it.
func SeedNote(t *testing.T, pool *pgxpool.Pool, ownerID uuid.UUID) domain.Note {
	t.Helper()
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Microsecond)
	note := domain.Note{
		ID:          uuid.New(),
		Title:       "note-" + uniqueSuffix(),
		Content:     "<p>seeded content</p>",
		OwnerUserID: ownerID,
		CreatedAt:   now,
		UpdatedAt:   now,
		Version:     1,
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO notes (id, title, content, owner_user_id, archived, archived_at, due_date, created_at, updated_at, version)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		note.ID, note.Title, note.Content, note.OwnerUserID, note.Archived,
		note.ArchivedAt, note.DueDate, note.CreatedAt, note.UpdatedAt, note.Version,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedNote insert: %v", err)
	}

	return note
}

// SeedShare inserts a share of the note with the given recipient and returns it.
func SeedShare(t *testing.T, pool *pgxpool.Pool, noteID, ownerID, recipientID uuid.UUID, permission domain.SharePermission) domain.NoteShare {
	t.Helper()
	ctx := context.Background()

	sh := domain.NoteShare{
		ID:               uuid.New(),
		NoteID:           noteID,
		SharedWithUserID: recipientID,
		SharedByUserID:   ownerID,
		Permission:       permission,
		CreatedAt:        time.Now().UTC().Truncate(time.Microsecond),
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO note_shares (id, note_id, shared_with_user_id, shared_by_user_id, permission, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		sh.ID, sh.NoteID, sh.SharedWithUserID, sh.SharedByUserID, sh.Permission.String(), sh.CreatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedShare insert: %v", err)
	}

	return sh
}
