package note

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkravchenko/notekeep-backend/internal/access"
	"github.com/mkravchenko/notekeep-backend/internal/domain"
	"github.com/mkravchenko/notekeep-backend/internal/upload"
	"github.com/mkravchenko/notekeep-backend/pkg/ctxutil"
)

// ---------------------------------------------------------------------------
// Manual mocks (moq-style with func fields)
// ---------------------------------------------------------------------------

type mockNoteRepo struct {
	CreateFunc  func(ctx context.Context, n *domain.Note) (*domain.Note, error)
	UpdateFunc  func(ctx context.Context, n *domain.Note) (*domain.Note, error)
	ArchiveFunc func(ctx context.Context, noteID uuid.UUID, version int64) error
	SearchFunc  func(ctx context.Context, f domain.NoteFilter) ([]domain.Note, error)
}

func (m *mockNoteRepo) Create(ctx context.Context, n *domain.Note) (*domain.Note, error) {
	return m.CreateFunc(ctx, n)
}

func (m *mockNoteRepo) Update(ctx context.Context, n *domain.Note) (*domain.Note, error) {
	return m.UpdateFunc(ctx, n)
}

func (m *mockNoteRepo) Archive(ctx context.Context, noteID uuid.UUID, version int64) error {
	return m.ArchiveFunc(ctx, noteID, version)
}

func (m *mockNoteRepo) Search(ctx context.Context, f domain.NoteFilter) ([]domain.Note, error) {
	return m.SearchFunc(ctx, f)
}

type mockAttachmentRepo struct {
	CreateFunc     func(ctx context.Context, a *domain.NoteAttachment) (*domain.NoteAttachment, error)
	GetByIDFunc    func(ctx context.Context, attachmentID uuid.UUID) (*domain.NoteAttachment, error)
	DeleteFunc     func(ctx context.Context, attachmentID uuid.UUID, version int64) error
	ListByNoteFunc func(ctx context.Context, noteID uuid.UUID) ([]domain.AttachmentInfo, error)
}

func (m *mockAttachmentRepo) Create(ctx context.Context, a *domain.NoteAttachment) (*domain.NoteAttachment, error) {
	return m.CreateFunc(ctx, a)
}

func (m *mockAttachmentRepo) GetByID(ctx context.Context, attachmentID uuid.UUID) (*domain.NoteAttachment, error) {
	return m.GetByIDFunc(ctx, attachmentID)
}

func (m *mockAttachmentRepo) Delete(ctx context.Context, attachmentID uuid.UUID, version int64) error {
	return m.DeleteFunc(ctx, attachmentID, version)
}

func (m *mockAttachmentRepo) ListByNote(ctx context.Context, noteID uuid.UUID) ([]domain.AttachmentInfo, error) {
	return m.ListByNoteFunc(ctx, noteID)
}

type mockResolver struct {
	ResolveFunc func(ctx context.Context, noteID, userID uuid.UUID) (access.Access, error)
}

func (m *mockResolver) Resolve(ctx context.Context, noteID, userID uuid.UUID) (access.Access, error) {
	return m.ResolveFunc(ctx, noteID, userID)
}

type mockTxManager struct {
	RunInTxFunc func(ctx context.Context, fn func(ctx context.Context) error) error
}

func (m *mockTxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if m.RunInTxFunc != nil {
		return m.RunInTxFunc(ctx, fn)
	}
	// Default: pass-through (no real transaction).
	return fn(ctx)
}

// markerSanitizer tags sanitized content so tests can verify every write
// went through sanitization.
type markerSanitizer struct{}

func (markerSanitizer) Sanitize(raw string) string {
	return "clean:" + strings.ReplaceAll(raw, "<script>", "")
}

// capturePublisher records published events.
type capturePublisher struct {
	mu     sync.Mutex
	events []domain.DomainEvent
}

func (p *capturePublisher) Publish(event domain.DomainEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func (p *capturePublisher) actions() []domain.EventAction {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]domain.EventAction, len(p.events))
	for i, e := range p.events {
		out[i] = e.Action
	}
	return out
}

func newTestService(notes *mockNoteRepo, resolver *mockResolver, pub *capturePublisher) *Service {
	if pub == nil {
		pub = &capturePublisher{}
	}
	return NewService(slog.Default(), notes, &mockAttachmentRepo{}, resolver,
		markerSanitizer{}, upload.NewValidator(upload.DefaultPolicy()), pub, &mockTxManager{})
}

func newAttachmentTestService(atts *mockAttachmentRepo, resolver *mockResolver, pub *capturePublisher) *Service {
	if pub == nil {
		pub = &capturePublisher{}
	}
	return NewService(slog.Default(), &mockNoteRepo{}, atts, resolver,
		markerSanitizer{}, upload.NewValidator(upload.DefaultPolicy()), pub, &mockTxManager{})
}

func ownerAccess(n *domain.Note) access.Access {
	return access.Access{Level: access.LevelOwner, Note: n}
}

// ---------------------------------------------------------------------------
// Create tests
// ---------------------------------------------------------------------------

func TestCreate_Success(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	ctx := ctxutil.WithUserID(context.Background(), userID)

	notes := &mockNoteRepo{
		CreateFunc: func(ctx context.Context, n *domain.Note) (*domain.Note, error) {
			assert.Equal(t, userID, n.OwnerUserID)
			assert.Equal(t, "Groceries", n.Title)
			assert.Equal(t, "clean:<p>milk</p>", n.Content, "content must be sanitized before persistence")
			assert.False(t, n.Archived)
			assert.Nil(t, n.ArchivedAt)
			return n, nil
		},
	}
	pub := &capturePublisher{}

	svc := newTestService(notes, nil, pub)
	created, err := svc.Create(ctx, CreateInput{Title: "  Groceries ", Content: "<p>milk</p>"})

	require.NoError(t, err)
	assert.Equal(t, "Groceries", created.Title)
	assert.Equal(t, []domain.EventAction{domain.EventActionCreateNote}, pub.actions())
}

func TestCreate_NoPrincipal(t *testing.T) {
	t.Parallel()

	svc := newTestService(&mockNoteRepo{}, nil, nil)
	_, err := svc.Create(context.Background(), CreateInput{Title: "x", Content: ""})

	require.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestCreate_ValidationErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input CreateInput
		field string
	}{
		{"blank title", CreateInput{Title: "   ", Content: "x"}, "title"},
		{"title too long", CreateInput{Title: strings.Repeat("a", 256), Content: "x"}, "title"},
		{"content too long", CreateInput{Title: "ok", Content: strings.Repeat("b", 10001)}, "content"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctx := ctxutil.WithUserID(context.Background(), uuid.New())
			svc := newTestService(&mockNoteRepo{}, nil, nil)

			_, err := svc.Create(ctx, tt.input)

			var ve *domain.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Errors[0].Field)
		})
	}
}

func TestCreate_TitleAtLimit(t *testing.T) {
	t.Parallel()

	ctx := ctxutil.WithUserID(context.Background(), uuid.New())
	notes := &mockNoteRepo{
		CreateFunc: func(ctx context.Context, n *domain.Note) (*domain.Note, error) { return n, nil },
	}
	svc := newTestService(notes, nil, nil)

	_, err := svc.Create(ctx, CreateInput{Title: strings.Repeat("a", 255), Content: "x"})
	require.NoError(t, err)
}

func TestCreate_LimitsCountCharactersNotBytes(t *testing.T) {
	t.Parallel()

	ctx := ctxutil.WithUserID(context.Background(), uuid.New())
	notes := &mockNoteRepo{
		CreateFunc: func(ctx context.Context, n *domain.Note) (*domain.Note, error) { return n, nil },
	}
	svc := newTestService(notes, nil, nil)

	// 255 Cyrillic characters are 510 bytes but still a valid title.
	_, err := svc.Create(ctx, CreateInput{
		Title:   strings.Repeat("ж", 255),
		Content: strings.Repeat("ж", 10000),
	})
	require.NoError(t, err)

	_, err = svc.Create(ctx, CreateInput{Title: strings.Repeat("ж", 256), Content: "x"})
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "title", ve.Errors[0].Field)
}

func TestCreate_NoEventOnRepoError(t *testing.T) {
	t.Parallel()

	ctx := ctxutil.WithUserID(context.Background(), uuid.New())
	repoErr := errors.New("insert failed")
	notes := &mockNoteRepo{
		CreateFunc: func(ctx context.Context, n *domain.Note) (*domain.Note, error) { return nil, repoErr },
	}
	pub := &capturePublisher{}
	svc := newTestService(notes, nil, pub)

	_, err := svc.Create(ctx, CreateInput{Title: "t", Content: "c"})

	require.ErrorIs(t, err, repoErr)
	assert.Empty(t, pub.actions(), "no event without a committed write")
}

// ---------------------------------------------------------------------------
// Update tests
// ---------------------------------------------------------------------------

func TestUpdate_OwnerSuccess(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	ctx := ctxutil.WithUserID(context.Background(), userID)
	existing := &domain.Note{ID: uuid.New(), Title: "old", Content: "clean:old", OwnerUserID: userID, Version: 3}

	resolver := &mockResolver{
		ResolveFunc: func(ctx context.Context, noteID, uid uuid.UUID) (access.Access, error) {
			return ownerAccess(existing), nil
		},
	}
	notes := &mockNoteRepo{
		UpdateFunc: func(ctx context.Context, n *domain.Note) (*domain.Note, error) {
			assert.Equal(t, existing.ID, n.ID)
			assert.Equal(t, int64(3), n.Version, "update targets the version read in the same tx")
			assert.Equal(t, "new title", n.Title)
			assert.Equal(t, "clean:<p>body</p>", n.Content)
			out := *n
			out.Version = 4
			return &out, nil
		},
	}
	pub := &capturePublisher{}

	svc := newTestService(notes, resolver, pub)
	updated, err := svc.Update(ctx, UpdateInput{NoteID: existing.ID, Title: "new title", Content: "<p>body</p>"})

	require.NoError(t, err)
	assert.Equal(t, int64(4), updated.Version)
	assert.Equal(t, []domain.EventAction{domain.EventActionUpdateNote}, pub.actions())
}

func TestUpdate_EditShareSucceeds(t *testing.T) {
	t.Parallel()

	editor := uuid.New()
	ctx := ctxutil.WithUserID(context.Background(), editor)
	existing := &domain.Note{ID: uuid.New(), OwnerUserID: uuid.New(), Version: 1}

	resolver := &mockResolver{
		ResolveFunc: func(ctx context.Context, noteID, uid uuid.UUID) (access.Access, error) {
			return access.Access{Level: access.LevelSharedEdit, Note: existing}, nil
		},
	}
	notes := &mockNoteRepo{
		UpdateFunc: func(ctx context.Context, n *domain.Note) (*domain.Note, error) { return n, nil },
	}

	svc := newTestService(notes, resolver, nil)
	_, err := svc.Update(ctx, UpdateInput{NoteID: existing.ID, Title: "t", Content: "c"})

	require.NoError(t, err)
}

func TestUpdate_ReadShareAndStrangerGetNotFound(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		acc  access.Access
	}{
		{"read share", access.Access{Level: access.LevelSharedRead, Note: &domain.Note{}}},
		{"no relation", access.Access{Level: access.LevelNone}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctx := ctxutil.WithUserID(context.Background(), uuid.New())
			resolver := &mockResolver{
				ResolveFunc: func(ctx context.Context, noteID, uid uuid.UUID) (access.Access, error) {
					return tt.acc, nil
				},
			}
			pub := &capturePublisher{}
			svc := newTestService(&mockNoteRepo{}, resolver, pub)

			_, err := svc.Update(ctx, UpdateInput{NoteID: uuid.New(), Title: "t", Content: "c"})

			require.ErrorIs(t, err, domain.ErrNotFound)
			assert.Empty(t, pub.actions())
		})
	}
}

func TestUpdate_ConflictPropagates(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	ctx := ctxutil.WithUserID(context.Background(), userID)
	existing := &domain.Note{ID: uuid.New(), OwnerUserID: userID, Version: 2}

	resolver := &mockResolver{
		ResolveFunc: func(ctx context.Context, noteID, uid uuid.UUID) (access.Access, error) {
			return ownerAccess(existing), nil
		},
	}
	notes := &mockNoteRepo{
		UpdateFunc: func(ctx context.Context, n *domain.Note) (*domain.Note, error) {
			return nil, domain.ErrConflict
		},
	}

	svc := newTestService(notes, resolver, nil)
	_, err := svc.Update(ctx, UpdateInput{NoteID: existing.ID, Title: "t", Content: "c"})

	require.ErrorIs(t, err, domain.ErrConflict)
}

// ---------------------------------------------------------------------------
// Archive tests
// ---------------------------------------------------------------------------

func TestArchive_OwnerSuccess(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	ctx := ctxutil.WithUserID(context.Background(), userID)
	existing := &domain.Note{ID: uuid.New(), OwnerUserID: userID, Version: 1}

	resolver := &mockResolver{
		ResolveFunc: func(ctx context.Context, noteID, uid uuid.UUID) (access.Access, error) {
			return ownerAccess(existing), nil
		},
	}
	notes := &mockNoteRepo{
		ArchiveFunc: func(ctx context.Context, noteID uuid.UUID, version int64) error {
			assert.Equal(t, existing.ID, noteID)
			assert.Equal(t, int64(1), version)
			return nil
		},
	}
	pub := &capturePublisher{}

	svc := newTestService(notes, resolver, pub)
	ok, err := svc.Archive(ctx, existing.ID)

	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []domain.EventAction{domain.EventActionArchiveNote}, pub.actions())
}

func TestArchive_NonOwnerReturnsFalse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		acc  access.Access
	}{
		{"missing note", access.Access{Level: access.LevelNone}},
		{"edit share is not enough", access.Access{Level: access.LevelSharedEdit, Note: &domain.Note{}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctx := ctxutil.WithUserID(context.Background(), uuid.New())
			resolver := &mockResolver{
				ResolveFunc: func(ctx context.Context, noteID, uid uuid.UUID) (access.Access, error) {
					return tt.acc, nil
				},
			}
			pub := &capturePublisher{}
			svc := newTestService(&mockNoteRepo{}, resolver, pub)

			ok, err := svc.Archive(ctx, uuid.New())

			require.NoError(t, err, "not-owned is a false, not an error")
			assert.False(t, ok)
			assert.Empty(t, pub.actions())
		})
	}
}

func TestArchive_AlreadyArchivedIsTrueWithoutEvent(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	ctx := ctxutil.WithUserID(context.Background(), userID)
	archivedAt := time.Now().UTC()
	existing := &domain.Note{ID: uuid.New(), OwnerUserID: userID, Archived: true, ArchivedAt: &archivedAt}

	resolver := &mockResolver{
		ResolveFunc: func(ctx context.Context, noteID, uid uuid.UUID) (access.Access, error) {
			return ownerAccess(existing), nil
		},
	}
	pub := &capturePublisher{}
	svc := newTestService(&mockNoteRepo{}, resolver, pub)

	ok, err := svc.Archive(ctx, existing.ID)

	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, pub.actions())
}

// ---------------------------------------------------------------------------
// GetByID tests
// ---------------------------------------------------------------------------

func TestGetByID_AccessIsolation(t *testing.T) {
	t.Parallel()

	owner := uuid.New()
	note := &domain.Note{ID: uuid.New(), OwnerUserID: owner}

	resolver := &mockResolver{
		ResolveFunc: func(ctx context.Context, noteID, uid uuid.UUID) (access.Access, error) {
			if uid == owner && noteID == note.ID {
				return ownerAccess(note), nil
			}
			return access.Access{Level: access.LevelNone}, nil
		},
	}
	svc := newTestService(&mockNoteRepo{}, resolver, nil)

	// Owner sees the note.
	got, err := svc.GetByID(ctxutil.WithUserID(context.Background(), owner), note.ID)
	require.NoError(t, err)
	assert.Same(t, note, got)

	// A stranger gets the same outcome for an existing and a missing note.
	strangerCtx := ctxutil.WithUserID(context.Background(), uuid.New())
	_, errExisting := svc.GetByID(strangerCtx, note.ID)
	_, errMissing := svc.GetByID(strangerCtx, uuid.New())

	require.ErrorIs(t, errExisting, domain.ErrNotFound)
	require.ErrorIs(t, errMissing, domain.ErrNotFound)
	assert.Equal(t, errMissing, errExisting)
}

// ---------------------------------------------------------------------------
// Search tests
// ---------------------------------------------------------------------------

func TestSearch_DefaultsApplied(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	ctx := ctxutil.WithUserID(context.Background(), userID)

	notes := &mockNoteRepo{
		SearchFunc: func(ctx context.Context, f domain.NoteFilter) ([]domain.Note, error) {
			assert.Equal(t, userID, f.UserID)
			assert.Equal(t, domain.ScopeAccessible, f.Scope)
			assert.Equal(t, "updated_at", f.SortBy)
			assert.Equal(t, "DESC", f.SortOrder)
			assert.Equal(t, "milk", f.Query)
			return []domain.Note{{ID: uuid.New()}}, nil
		},
	}
	svc := newTestService(notes, nil, nil)

	results, err := svc.Search(ctx, SearchInput{Query: "  milk  "})

	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestSearch_InvalidSort(t *testing.T) {
	t.Parallel()

	ctx := ctxutil.WithUserID(context.Background(), uuid.New())
	svc := newTestService(&mockNoteRepo{}, nil, nil)

	_, err := svc.Search(ctx, SearchInput{SortBy: "color"})

	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "sort_by", ve.Errors[0].Field)
}

func TestSearch_EmptyQueryPassesThrough(t *testing.T) {
	t.Parallel()

	ctx := ctxutil.WithUserID(context.Background(), uuid.New())
	notes := &mockNoteRepo{
		SearchFunc: func(ctx context.Context, f domain.NoteFilter) ([]domain.Note, error) {
			assert.Equal(t, "", f.Query)
			return nil, nil
		},
	}
	svc := newTestService(notes, nil, nil)

	_, err := svc.Search(ctx, SearchInput{Scope: domain.ScopeOwn})
	require.NoError(t, err)
}
