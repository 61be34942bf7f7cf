package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arbor-labs/folderctx/internal/adapters/driven/embedding/hash"
	"github.com/arbor-labs/folderctx/internal/adapters/driven/storage/memory"
	"github.com/arbor-labs/folderctx/internal/adapters/driven/vector/bruteforce"
	"github.com/arbor-labs/folderctx/internal/core/domain"
	"github.com/arbor-labs/folderctx/internal/core/ports/driven"
)

// --- Mock implementations ---

// mockEmbeddingService implements driven.EmbeddingService for testing.
type mockEmbeddingService struct {
	embedding []float32
	embedErr  error
}

func (m *mockEmbeddingService) Embed(_ context.Context, _ string) ([]float32, error) {
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	return m.embedding, nil
}

func (m *mockEmbeddingService) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	result := make([][]float32, len(texts))
	for i := range texts {
		result[i] = m.embedding
	}
	return result, nil
}

func (m *mockEmbeddingService) Dimensions() int { return len(m.embedding) }

func (m *mockEmbeddingService) ModelName() string { return "mock-embed" }

func (m *mockEmbeddingService) Ping(_ context.Context) error { return nil }

func (m *mockEmbeddingService) Close() error { return nil }

// mockVectorIndex implements driven.VectorIndex for testing.
type mockVectorIndex struct {
	hits      []driven.VectorHit
	searchErr error
}

func (m *mockVectorIndex) Add(_ context.Context, _ domain.Scope, _ string, _ []float32) error {
	return nil
}

func (m *mockVectorIndex) Delete(_ context.Context, _ domain.Scope, _ string) error {
	return nil
}

func (m *mockVectorIndex) DeleteScope(_ context.Context, _ domain.Scope) error {
	return nil
}

func (m *mockVectorIndex) Search(_ context.Context, _ domain.Scope, _ []float32, k int) ([]driven.VectorHit, error) {
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	if k > len(m.hits) {
		return m.hits, nil
	}
	return m.hits[:k], nil
}

func (m *mockVectorIndex) Close() error { return nil }

// --- Test helpers ---

// seedScope stores and indexes one single-chunk document per content string.
func seedScope(t *testing.T, store *memory.DocumentStore, index driven.VectorIndex,
	embedder driven.EmbeddingService, scope domain.Scope, contents map[string]string,
) {
	t.Helper()
	ctx := context.Background()

	for name, content := range contents {
		doc := &domain.Document{
			ID:      "doc-" + name,
			Scope:   scope,
			Name:    name,
			Type:    domain.DocumentTypeText,
			Content: content,
		}
		require.NoError(t, store.SaveDocument(ctx, doc))

		chunk := domain.Chunk{
			ID:         "chunk-" + name,
			DocumentID: doc.ID,
			Scope:      scope,
			Content:    content,
			EndOffset:  len(content),
			TokenCount: domain.EstimateTokens(content),
		}
		require.NoError(t, store.SaveChunks(ctx, []domain.Chunk{chunk}))

		vec, err := embedder.Embed(ctx, content)
		require.NoError(t, err)
		require.NoError(t, store.SaveEmbeddings(ctx, []domain.Embedding{{
			ChunkID: chunk.ID, Scope: scope, Vector: vec, Model: embedder.ModelName(),
		}}))
		require.NoError(t, index.Add(ctx, scope, chunk.ID, vec))
	}
}

func newHashEmbedder(t *testing.T) driven.EmbeddingService {
	t.Helper()
	embedder, err := hash.NewService("hash-256")
	require.NoError(t, err)
	return embedder
}

// --- Tests ---

func TestSearchService_EmptyQuery(t *testing.T) {
	service := NewSearchService(memory.NewDocumentStore(), bruteforce.NewIndex(), newHashEmbedder(t))

	results, err := service.SearchSimilarContent(context.Background(),
		domain.NewScope("f1", "o1"), "   \t ", 5)

	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearchService_NonPositiveK(t *testing.T) {
	service := NewSearchService(memory.NewDocumentStore(), bruteforce.NewIndex(), newHashEmbedder(t))

	results, err := service.SearchSimilarContent(context.Background(),
		domain.NewScope("f1", "o1"), "query", 0)

	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearchService_InvalidScope(t *testing.T) {
	service := NewSearchService(memory.NewDocumentStore(), bruteforce.NewIndex(), newHashEmbedder(t))

	_, err := service.SearchSimilarContent(context.Background(), domain.Scope{}, "query", 5)

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSearchService_RanksBySimilarity(t *testing.T) {
	store := memory.NewDocumentStore()
	index := bruteforce.NewIndex()
	embedder := newHashEmbedder(t)
	scope := domain.NewScope("f1", "o1")

	seedScope(t, store, index, embedder, scope, map[string]string{
		"cats":    "The cat sat on the mat and the cat purred",
		"dogs":    "The dog slept in the yard all afternoon",
		"weather": "Heavy rain fell across the valley overnight",
	})

	service := NewSearchService(store, index, embedder)
	results, err := service.SearchSimilarContent(context.Background(), scope, "cat purred", 3)

	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Contains(t, results[0].Chunk.Content, "cat")
	for i := 1; i < len(results); i++ {
		assert.GreaterOrEqual(t, results[i-1].Similarity, results[i].Similarity)
	}
}

func TestSearchService_ScopeIsolation(t *testing.T) {
	store := memory.NewDocumentStore()
	index := bruteforce.NewIndex()
	embedder := newHashEmbedder(t)

	scopeA := domain.NewScope("folder-a", "owner-1")
	scopeB := domain.NewScope("folder-b", "owner-1")

	seedScope(t, store, index, embedder, scopeA, map[string]string{
		"invoice": "Total amount due: $500",
	})
	seedScope(t, store, index, embedder, scopeB, map[string]string{
		"recipe": "Mix flour and sugar",
	})

	service := NewSearchService(store, index, embedder)

	resultsA, err := service.SearchSimilarContent(context.Background(), scopeA, "flour and sugar", 10)
	require.NoError(t, err)
	for _, r := range resultsA {
		assert.Equal(t, scopeA, r.Chunk.Scope)
		assert.NotContains(t, r.Chunk.Content, "flour")
	}

	resultsB, err := service.SearchSimilarContent(context.Background(), scopeB, "total amount due", 10)
	require.NoError(t, err)
	for _, r := range resultsB {
		assert.Equal(t, scopeB, r.Chunk.Scope)
		assert.NotContains(t, r.Chunk.Content, "$500")
	}
}

func TestSearchService_EmbedderFailureDegrades(t *testing.T) {
	embedder := &mockEmbeddingService{embedErr: errors.New("provider down")}
	service := NewSearchService(memory.NewDocumentStore(), bruteforce.NewIndex(), embedder)

	results, err := service.SearchSimilarContent(context.Background(),
		domain.NewScope("f1", "o1"), "query", 5)

	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearchService_IndexFailureDegrades(t *testing.T) {
	index := &mockVectorIndex{searchErr: errors.New("index down")}
	service := NewSearchService(memory.NewDocumentStore(), index, newHashEmbedder(t))

	results, err := service.SearchSimilarContent(context.Background(),
		domain.NewScope("f1", "o1"), "query", 5)

	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearchService_SkipsDanglingChunks(t *testing.T) {
	// The index knows a chunk the store no longer has.
	index := &mockVectorIndex{hits: []driven.VectorHit{
		{ChunkID: "gone", Similarity: 0.9},
	}}
	service := NewSearchService(memory.NewDocumentStore(), index, newHashEmbedder(t))

	results, err := service.SearchSimilarContent(context.Background(),
		domain.NewScope("f1", "o1"), "query", 5)

	require.NoError(t, err)
	assert.Empty(t, results)
}
