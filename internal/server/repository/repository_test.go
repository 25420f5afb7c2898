package repository

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chdeepakkumar/portfolio/internal/common"
	"github.com/chdeepakkumar/portfolio/internal/logging"
	"github.com/chdeepakkumar/portfolio/internal/storage"
)

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewJSONHandler(io.Discard, nil)))
}

func newTestRepo(t *testing.T) (*Repository, storage.Backend) {
	t.Helper()
	store, err := storage.NewLocal(t.TempDir(), testLogger())
	require.NoError(t, err)
	return New(store, "admin@example.com", testLogger()), store
}

func TestReadPortfolio_SynthesizesDefault(t *testing.T) {
	t.Parallel()

	repo, store := newTestRepo(t)
	ctx := context.Background()

	doc, err := repo.ReadPortfolio(ctx)
	require.NoError(t, err)

	for _, id := range []string{"hero", "about", "skills", "experience", "education", "achievements", "contact"} {
		assert.Contains(t, doc.Sections, id)
	}
	assert.Equal(t, []string{"about", "skills", "experience", "education", "achievements", "contact"}, doc.SectionOrder)
	assert.NotContains(t, doc.SectionOrder, "hero")

	// The default is persisted so subsequent reads hit the stored document.
	ok, err := store.Exists(ctx, PortfolioPath)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestReadPortfolio_MalformedContentIsPreserved(t *testing.T) {
	t.Parallel()

	repo, store := newTestRepo(t)
	ctx := context.Background()

	corrupt := `{"sections": {unclosed`
	require.NoError(t, store.Write(ctx, PortfolioPath, corrupt, true))

	doc, err := repo.ReadPortfolio(ctx)
	require.NoError(t, err)
	assert.Empty(t, doc.Sections)
	assert.Empty(t, doc.SectionOrder)

	// The corrupt bytes stay on disk for manual recovery.
	raw, err := store.Read(ctx, PortfolioPath)
	require.NoError(t, err)
	assert.Equal(t, corrupt, raw)
}

func TestReadPortfolio_RoundtripAfterWrite(t *testing.T) {
	t.Parallel()

	repo, _ := newTestRepo(t)
	ctx := context.Background()

	doc, err := repo.ReadPortfolio(ctx)
	require.NoError(t, err)

	doc.Sections["custom"] = map[string]any{"visible": true, "content": map[string]any{"k": "v"}}
	doc.SectionOrder = append(doc.SectionOrder, "custom")
	require.NoError(t, repo.WritePortfolio(ctx, doc))

	got, err := repo.ReadPortfolio(ctx)
	require.NoError(t, err)
	assert.Contains(t, got.Sections, "custom")
	assert.Contains(t, got.SectionOrder, "custom")
}

func TestReadUsers_CreatesDefaultAdmin(t *testing.T) {
	t.Parallel()

	repo, store := newTestRepo(t)
	ctx := context.Background()

	doc, err := repo.ReadUsers(ctx)
	require.NoError(t, err)
	require.Len(t, doc.Users, 1)

	admin := doc.Admin()
	require.NotNil(t, admin)
	assert.Equal(t, "admin", admin.Username)
	assert.Equal(t, "admin@example.com", admin.Email)

	ok, err := store.Exists(ctx, UsersPath)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestReadUsers_DefaultRequiresAdminEmail(t *testing.T) {
	t.Parallel()

	store, err := storage.NewLocal(t.TempDir(), testLogger())
	require.NoError(t, err)
	repo := New(store, "", testLogger())

	_, err = repo.ReadUsers(context.Background())
	assert.True(t, errors.Is(err, common.ErrConfig), "got %v", err)
}

func TestReadUsers_MalformedContentIsPreserved(t *testing.T) {
	t.Parallel()

	repo, store := newTestRepo(t)
	ctx := context.Background()

	corrupt := `not json at all`
	require.NoError(t, store.Write(ctx, UsersPath, corrupt, true))

	doc, err := repo.ReadUsers(ctx)
	require.NoError(t, err)
	assert.Empty(t, doc.Users)

	raw, err := store.Read(ctx, UsersPath)
	require.NoError(t, err)
	assert.Equal(t, corrupt, raw)
}

func TestReadResumeMetadata_DefaultIsNotPersisted(t *testing.T) {
	t.Parallel()

	repo, store := newTestRepo(t)
	ctx := context.Background()

	md, err := repo.ReadResumeMetadata(ctx)
	require.NoError(t, err)
	assert.Nil(t, md.ActiveResume)
	assert.NotNil(t, md.Resumes)

	// Nothing is written until a resume operation records state.
	ok, err := store.Exists(ctx, ResumeMetadataPath)
	require.NoError(t, err)
	assert.False(t, ok)
}
