package driving

import (
	"context"

	"github.com/arbor-labs/folderctx/internal/core/domain"
)

// AddDocumentInput describes a document to ingest into a scope.
type AddDocumentInput struct {
	Scope    domain.Scope
	Name     string
	Type     domain.DocumentType
	Content  string
	Metadata domain.DocumentMeta
}

// DocumentService manages the document lifecycle within scopes.
//
// AddDocument stores the document durably and returns; chunking,
// embedding and graph building run in a detached background pipeline.
// Callers needing completion must poll or use Wait.
type DocumentService interface {
	// AddDocument ingests a document into a scope.
	AddDocument(ctx context.Context, in AddDocumentInput) (*domain.Document, error)

	// GetDocuments lists the documents in a scope.
	GetDocuments(ctx context.Context, scope domain.Scope) ([]domain.Document, error)

	// GetDocument retrieves one document.
	GetDocument(ctx context.Context, scope domain.Scope, id string) (*domain.Document, error)

	// DeleteDocument removes a document, its chunks, embeddings and
	// graph nodes.
	DeleteDocument(ctx context.Context, scope domain.Scope, id string) error

	// CleanupScope removes everything a scope holds.
	CleanupScope(ctx context.Context, scope domain.Scope) error

	// Stats reports entity counts for a scope.
	Stats(ctx context.Context, scope domain.Scope) (*domain.ScopeStats, error)

	// Wait blocks until all in-flight ingestion pipelines finish.
	Wait()
}
