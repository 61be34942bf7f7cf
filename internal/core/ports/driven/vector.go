package driven

import (
	"context"

	"github.com/arbor-labs/folderctx/internal/core/domain"
)

// VectorIndex provides scoped cosine-similarity ranking over chunk vectors.
//
// The default implementation is a full scan, O(n) per query over the
// scope's vectors. An approximate-nearest-neighbour index may be
// substituted behind this contract without behaviour change.
type VectorIndex interface {
	// Add inserts a vector for the given chunk ID within a scope.
	Add(ctx context.Context, scope domain.Scope, chunkID string, vector []float32) error

	// Delete removes a chunk's vector from the scope.
	Delete(ctx context.Context, scope domain.Scope, chunkID string) error

	// DeleteScope removes every vector in the scope.
	DeleteScope(ctx context.Context, scope domain.Scope) error

	// Search returns the top-k hits ranked by descending cosine
	// similarity, restricted strictly to the given scope. k <= 0 or an
	// unknown scope yields an empty result.
	Search(ctx context.Context, scope domain.Scope, query []float32, k int) ([]VectorHit, error)

	// Close releases resources.
	Close() error
}

// VectorHit represents a similarity search result.
type VectorHit struct {
	// ChunkID is the matched chunk.
	ChunkID string

	// Similarity is the cosine similarity score.
	Similarity float64
}
