// Package bruteforce provides an in-memory vector index that scans every
// vector in a scope on each query. Exact and simple; fine for the corpus
// sizes a single folder holds. An approximate index can replace it behind
// the same port if scopes grow past tens of thousands of chunks.
package bruteforce

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/arbor-labs/folderctx/internal/core/domain"
	"github.com/arbor-labs/folderctx/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// Index holds vectors partitioned by scope key.
type Index struct {
	mu      sync.RWMutex
	vectors map[string]map[string][]float32 // scope key -> chunk ID -> vector
}

// NewIndex creates an empty index.
func NewIndex() *Index {
	return &Index{
		vectors: make(map[string]map[string][]float32),
	}
}

// Load rebuilds the index from all embeddings stored for a scope. Called on
// startup so previously ingested documents stay searchable across runs.
func (idx *Index) Load(ctx context.Context, scope domain.Scope, store driven.DocumentStore) error {
	embeddings, err := store.ListEmbeddings(ctx, scope)
	if err != nil {
		return err
	}
	for _, emb := range embeddings {
		if err := idx.Add(ctx, scope, emb.ChunkID, emb.Vector); err != nil {
			return err
		}
	}
	return nil
}

// Add inserts or replaces a chunk's vector.
func (idx *Index) Add(_ context.Context, scope domain.Scope, chunkID string, vector []float32) error {
	if err := scope.Validate(); err != nil {
		return err
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()

	scoped, ok := idx.vectors[scope.Key()]
	if !ok {
		scoped = make(map[string][]float32)
		idx.vectors[scope.Key()] = scoped
	}
	scoped[chunkID] = append([]float32(nil), vector...)
	return nil
}

// Delete removes a chunk's vector. Deleting an absent chunk is a no-op.
func (idx *Index) Delete(_ context.Context, scope domain.Scope, chunkID string) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	if scoped, ok := idx.vectors[scope.Key()]; ok {
		delete(scoped, chunkID)
	}
	return nil
}

// DeleteScope removes every vector in a scope.
func (idx *Index) DeleteScope(_ context.Context, scope domain.Scope) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	delete(idx.vectors, scope.Key())
	return nil
}

// Search returns the k most similar chunks in a scope, ordered by cosine
// similarity descending. Only vectors in the given scope are considered.
func (idx *Index) Search(_ context.Context, scope domain.Scope, query []float32, k int) ([]driven.VectorHit, error) {
	if k <= 0 {
		return nil, nil
	}

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	scoped, ok := idx.vectors[scope.Key()]
	if !ok {
		return nil, nil
	}

	hits := make([]driven.VectorHit, 0, len(scoped))
	for chunkID, vector := range scoped {
		hits = append(hits, driven.VectorHit{
			ChunkID:    chunkID,
			Similarity: cosineSimilarity(query, vector),
		})
	}

	sort.Slice(hits, func(i, j int) bool {
		return hits[i].Similarity > hits[j].Similarity
	})
	if len(hits) > k {
		hits = hits[:k]
	}
	return hits, nil
}

// Close releases resources.
func (idx *Index) Close() error {
	return nil
}

// cosineSimilarity computes the cosine of the angle between two vectors.
// Mismatched dimensions or a zero-magnitude operand score 0 rather than
// failing, so one bad vector cannot break a whole search.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, magA, magB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		magA += float64(a[i]) * float64(a[i])
		magB += float64(b[i]) * float64(b[i])
	}
	if magA == 0 || magB == 0 {
		return 0
	}
	return dot / (math.Sqrt(magA) * math.Sqrt(magB))
}
