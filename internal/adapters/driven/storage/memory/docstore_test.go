package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arbor-labs/folderctx/internal/core/domain"
)

func saveTestDocument(t *testing.T, store *DocumentStore, scope domain.Scope, id, name string) *domain.Document {
	t.Helper()
	doc := &domain.Document{
		ID:      id,
		Scope:   scope,
		Name:    name,
		Type:    domain.DocumentTypeText,
		Content: "content of " + name,
		Size:    len("content of " + name),
	}
	require.NoError(t, store.SaveDocument(context.Background(), doc))
	return doc
}

func TestDocumentStore_SaveAndGet(t *testing.T) {
	store := NewDocumentStore()
	scope := domain.NewScope("f1", "o1")

	doc := saveTestDocument(t, store, scope, "doc-1", "notes.txt")
	assert.False(t, doc.CreatedAt.IsZero())

	got, err := store.GetDocument(context.Background(), scope, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, "notes.txt", got.Name)
	assert.Equal(t, scope, got.Scope)
}

func TestDocumentStore_GetMissing(t *testing.T) {
	store := NewDocumentStore()
	scope := domain.NewScope("f1", "o1")

	_, err := store.GetDocument(context.Background(), scope, "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDocumentStore_SaveInvalidScope(t *testing.T) {
	store := NewDocumentStore()

	err := store.SaveDocument(context.Background(), &domain.Document{ID: "doc-1"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestDocumentStore_ListOrderedByCreation(t *testing.T) {
	store := NewDocumentStore()
	scope := domain.NewScope("f1", "o1")
	ctx := context.Background()

	older := &domain.Document{
		ID: "doc-1", Scope: scope, Name: "older.txt",
		CreatedAt: time.Now().Add(-time.Hour),
	}
	require.NoError(t, store.SaveDocument(ctx, older))
	saveTestDocument(t, store, scope, "doc-2", "newer.txt")

	docs, err := store.ListDocuments(ctx, scope)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "older.txt", docs[0].Name)
	assert.Equal(t, "newer.txt", docs[1].Name)
}

func TestDocumentStore_ScopeIsolation(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	scopeA := domain.NewScope("folder-a", "owner-1")
	otherOwner := domain.NewScope("folder-a", "owner-2")

	saveTestDocument(t, store, scopeA, "doc-1", "a.txt")

	docs, err := store.ListDocuments(ctx, otherOwner)
	require.NoError(t, err)
	assert.Empty(t, docs)

	_, err = store.GetDocument(ctx, otherOwner, "doc-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDocumentStore_ChunksAndEmbeddings(t *testing.T) {
	store := NewDocumentStore()
	scope := domain.NewScope("f1", "o1")
	ctx := context.Background()

	saveTestDocument(t, store, scope, "doc-1", "notes.txt")

	chunks := []domain.Chunk{
		{ID: "c2", DocumentID: "doc-1", Scope: scope, Content: "second", Index: 1},
		{ID: "c1", DocumentID: "doc-1", Scope: scope, Content: "first", Index: 0},
	}
	require.NoError(t, store.SaveChunks(ctx, chunks))

	got, err := store.GetChunks(ctx, scope, "doc-1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "c1", got[0].ID)
	assert.Equal(t, "c2", got[1].ID)

	chunk, err := store.GetChunk(ctx, scope, "c2")
	require.NoError(t, err)
	assert.Equal(t, "second", chunk.Content)

	_, err = store.GetChunk(ctx, scope, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, store.SaveEmbeddings(ctx, []domain.Embedding{
		{ChunkID: "c1", Scope: scope, Vector: []float32{1, 0}, Model: "hash-256"},
		{ChunkID: "c2", Scope: scope, Vector: []float32{0, 1}, Model: "hash-256"},
	}))

	embeddings, err := store.ListEmbeddings(ctx, scope)
	require.NoError(t, err)
	assert.Len(t, embeddings, 2)
}

func TestDocumentStore_DeleteDocumentCascades(t *testing.T) {
	store := NewDocumentStore()
	scope := domain.NewScope("f1", "o1")
	ctx := context.Background()

	saveTestDocument(t, store, scope, "doc-1", "notes.txt")
	require.NoError(t, store.SaveChunks(ctx, []domain.Chunk{
		{ID: "c1", DocumentID: "doc-1", Scope: scope, Content: "chunk"},
	}))
	require.NoError(t, store.SaveEmbeddings(ctx, []domain.Embedding{
		{ChunkID: "c1", Scope: scope, Vector: []float32{1}, Model: "hash-256"},
	}))

	require.NoError(t, store.DeleteDocument(ctx, scope, "doc-1"))

	_, err := store.GetDocument(ctx, scope, "doc-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	chunks, err := store.GetChunks(ctx, scope, "doc-1")
	require.NoError(t, err)
	assert.Empty(t, chunks)

	embeddings, err := store.ListEmbeddings(ctx, scope)
	require.NoError(t, err)
	assert.Empty(t, embeddings)
}

func TestDocumentStore_DeleteScopeAndStats(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()
	scopeA := domain.NewScope("folder-a", "o1")
	scopeB := domain.NewScope("folder-b", "o1")

	saveTestDocument(t, store, scopeA, "doc-1", "a.txt")
	require.NoError(t, store.SaveChunks(ctx, []domain.Chunk{
		{ID: "c1", DocumentID: "doc-1", Scope: scopeA, Content: "chunk"},
	}))
	saveTestDocument(t, store, scopeB, "doc-2", "b.txt")

	stats, err := store.Stats(ctx, scopeA)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Documents)
	assert.Equal(t, 1, stats.Chunks)

	require.NoError(t, store.DeleteScope(ctx, scopeA))

	stats, err = store.Stats(ctx, scopeA)
	require.NoError(t, err)
	assert.Zero(t, stats.Documents)

	// Other scopes are untouched.
	docs, err := store.ListDocuments(ctx, scopeB)
	require.NoError(t, err)
	assert.Len(t, docs, 1)
}
