package services

import (
	"context"
	"errors"
	"strings"

	"github.com/arbor-labs/folderctx/internal/core/domain"
	"github.com/arbor-labs/folderctx/internal/core/ports/driven"
	"github.com/arbor-labs/folderctx/internal/core/ports/driving"
	"github.com/arbor-labs/folderctx/internal/logger"
)

// Ensure SearchService implements the interface.
var _ driving.SearchService = (*SearchService)(nil)

// SearchService ranks a scope's chunks against text queries. Failures on
// this read path degrade to empty results rather than propagating, so a
// broken embedder or index never blocks a conversation.
type SearchService struct {
	docStore driven.DocumentStore
	index    driven.VectorIndex
	embedder driven.EmbeddingService
}

// NewSearchService creates a new search service.
func NewSearchService(
	docStore driven.DocumentStore,
	index driven.VectorIndex,
	embedder driven.EmbeddingService,
) *SearchService {
	return &SearchService{
		docStore: docStore,
		index:    index,
		embedder: embedder,
	}
}

// SearchSimilarContent embeds the query and returns the scope's top-k chunks
// ranked by cosine similarity, hydrated from the document store.
func (s *SearchService) SearchSimilarContent(
	ctx context.Context, scope domain.Scope, query string, k int,
) ([]domain.SearchResult, error) {
	if err := scope.Validate(); err != nil {
		return nil, err
	}

	query = strings.TrimSpace(query)
	if query == "" || k <= 0 {
		return []domain.SearchResult{}, nil
	}

	logger.Section("Similarity Search")
	logger.Debug("Scope: %s, query: %q, k: %d", scope, query, k)

	vector, err := s.embedder.Embed(ctx, query)
	if err != nil {
		logger.Warn("Query embedding failed: %v", err)
		return []domain.SearchResult{}, nil
	}

	hits, err := s.index.Search(ctx, scope, vector, k)
	if err != nil {
		logger.Warn("Vector search failed: %v", err)
		return []domain.SearchResult{}, nil
	}
	logger.Debug("Vector search: %d hits", len(hits))

	results := make([]domain.SearchResult, 0, len(hits))
	for _, hit := range hits {
		chunk, err := s.docStore.GetChunk(ctx, scope, hit.ChunkID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				// Chunk deleted since indexing; skip it.
				continue
			}
			logger.Warn("Hydrating chunk %s failed: %v", hit.ChunkID, err)
			continue
		}
		results = append(results, domain.SearchResult{
			Chunk:      *chunk,
			Similarity: hit.Similarity,
		})
	}

	logger.Info("Search returned %d results", len(results))
	return results, nil
}
