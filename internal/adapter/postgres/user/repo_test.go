package user_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mkravchenko/notekeep-backend/internal/adapter/postgres/testhelper"
	"github.com/mkravchenko/notekeep-backend/internal/adapter/postgres/user"
	"github.com/mkravchenko/notekeep-backend/internal/domain"
)

func newRepo(t *testing.T) (*user.Repo, *pgxpool.Pool) {
	t.Helper()
	pool := testhelper.SetupTestDB(t)
	return user.New(pool), pool
}

func TestRepo_Create_AndLookups(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Microsecond)
	created, err := repo.Create(ctx, &domain.User{
		ID:                 uuid.New(),
		Username:           "lookup-" + uuid.New().String()[:8],
		PasswordHash:       "hash",
		MustChangePassword: true,
		Role:               domain.UserRoleUser,
		Enabled:            true,
		CreatedAt:          now,
		UpdatedAt:          now,
	})
	if err != nil {
		t.Fatalf("Create: unexpected error: %v", err)
	}
	if created.Version != 1 {
		t.Errorf("Version mismatch: got %d, want 1", created.Version)
	}

	byID, err := repo.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID: unexpected error: %v", err)
	}
	if byID.Username != created.Username {
		t.Errorf("Username mismatch: got %q, want %q", byID.Username, created.Username)
	}

	byName, err := repo.GetByUsername(ctx, created.Username)
	if err != nil {
		t.Fatalf("GetByUsername: unexpected error: %v", err)
	}
	if byName.ID != created.ID {
		t.Errorf("ID mismatch: got %s, want %s", byName.ID, created.ID)
	}
}

func TestRepo_Create_DuplicateUsername(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	existing := testhelper.SeedUser(t, pool)

	now := time.Now().UTC()
	_, err := repo.Create(ctx, &domain.User{
		ID:           uuid.New(),
		Username:     existing.Username,
		PasswordHash: "hash",
		Role:         domain.UserRoleUser,
		Enabled:      true,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestRepo_Update_VersionGuard(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	seeded := testhelper.SeedUser(t, pool)

	seeded.PasswordHash = "new-hash"
	seeded.MustChangePassword = false
	seeded.UpdatedAt = time.Now().UTC().Truncate(time.Microsecond)

	updated, err := repo.Update(ctx, &seeded)
	if err != nil {
		t.Fatalf("Update: unexpected error: %v", err)
	}
	if updated.Version != seeded.Version+1 {
		t.Errorf("Version mismatch: got %d, want %d", updated.Version, seeded.Version+1)
	}
	if updated.PasswordHash != "new-hash" {
		t.Errorf("PasswordHash mismatch: got %q", updated.PasswordHash)
	}

	// Stale version on an existing row.
	_, err = repo.Update(ctx, &seeded)
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected ErrConflict for stale version, got %v", err)
	}
}

func TestRepo_Counts(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	before, err := repo.Counts(ctx)
	if err != nil {
		t.Fatalf("Counts: unexpected error: %v", err)
	}

	owner := testhelper.SeedUser(t, pool)
	testhelper.SeedNote(t, pool, owner.ID)

	after, err := repo.Counts(ctx)
	if err != nil {
		t.Fatalf("Counts: unexpected error: %v", err)
	}
	if after.Users < before.Users+1 {
		t.Errorf("Users count did not grow: before %d, after %d", before.Users, after.Users)
	}
	if after.Notes < before.Notes+1 {
		t.Errorf("Notes count did not grow: before %d, after %d", before.Notes, after.Notes)
	}
}
