package driven

import (
	"context"

	"github.com/arbor-labs/folderctx/internal/core/domain"
)

// DocumentStore persists documents, chunks and embeddings.
// All lookups are keyed by (folder, owner) scope; implementations must
// never return entities from a different scope.
//
// Two implementations exist with identical shape: a SQLite-backed store
// and an in-memory fallback.
type DocumentStore interface {
	// SaveDocument stores or updates a document.
	SaveDocument(ctx context.Context, doc *domain.Document) error

	// GetDocument retrieves a document by ID within a scope.
	GetDocument(ctx context.Context, scope domain.Scope, id string) (*domain.Document, error)

	// ListDocuments returns all documents in a scope.
	ListDocuments(ctx context.Context, scope domain.Scope) ([]domain.Document, error)

	// DeleteDocument removes a document together with its chunks and
	// embeddings.
	DeleteDocument(ctx context.Context, scope domain.Scope, id string) error

	// SaveChunks stores chunks for a document.
	SaveChunks(ctx context.Context, chunks []domain.Chunk) error

	// GetChunks retrieves a document's chunks ordered by index.
	GetChunks(ctx context.Context, scope domain.Scope, documentID string) ([]domain.Chunk, error)

	// GetChunk retrieves a specific chunk by ID within a scope.
	GetChunk(ctx context.Context, scope domain.Scope, id string) (*domain.Chunk, error)

	// SaveEmbeddings stores embeddings for previously saved chunks.
	SaveEmbeddings(ctx context.Context, embeddings []domain.Embedding) error

	// ListEmbeddings returns all embeddings in a scope.
	ListEmbeddings(ctx context.Context, scope domain.Scope) ([]domain.Embedding, error)

	// DeleteScope removes every document, chunk and embedding in a scope.
	DeleteScope(ctx context.Context, scope domain.Scope) error

	// Stats reports entity counts for a scope.
	Stats(ctx context.Context, scope domain.Scope) (*domain.ScopeStats, error)

	// Close releases resources.
	Close() error
}
