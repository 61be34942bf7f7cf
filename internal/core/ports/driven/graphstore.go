package driven

import (
	"context"

	"github.com/arbor-labs/folderctx/internal/core/domain"
)

// GraphStore persists the per-scope knowledge graph.
type GraphStore interface {
	// MergeGraph appends the nodes and edges of a document's graph into
	// the scope's graph.
	MergeGraph(ctx context.Context, scope domain.Scope, graph domain.KnowledgeGraph) error

	// GetGraph returns the full graph for a scope.
	GetGraph(ctx context.Context, scope domain.Scope) (*domain.KnowledgeGraph, error)

	// DeleteDocumentGraph prunes nodes derived from a document, along
	// with edges touching them.
	DeleteDocumentGraph(ctx context.Context, scope domain.Scope, documentID string) error

	// DeleteScope removes the scope's entire graph.
	DeleteScope(ctx context.Context, scope domain.Scope) error
}
