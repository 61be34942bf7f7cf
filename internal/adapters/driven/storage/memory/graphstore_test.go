package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arbor-labs/folderctx/internal/core/domain"
)

func testGraph(scope domain.Scope, documentID, suffix string) domain.KnowledgeGraph {
	docNode := domain.KnowledgeNode{
		ID: "node-doc-" + suffix, Scope: scope,
		Kind: domain.NodeKindDocument, Label: "doc" + suffix, DocumentID: documentID,
	}
	concept := domain.KnowledgeNode{
		ID: "node-concept-" + suffix, Scope: scope,
		Kind: domain.NodeKindConcept, Label: "concept" + suffix, DocumentID: documentID,
	}
	return domain.KnowledgeGraph{
		Nodes: []domain.KnowledgeNode{docNode, concept},
		Edges: []domain.KnowledgeEdge{{
			ID: "edge-" + suffix, Scope: scope,
			SourceID: docNode.ID, TargetID: concept.ID,
			Kind: domain.EdgeKindContains, Weight: 1,
		}},
	}
}

func TestGraphStore_MergeAndGet(t *testing.T) {
	store := NewGraphStore()
	scope := domain.NewScope("f1", "o1")
	ctx := context.Background()

	require.NoError(t, store.MergeGraph(ctx, scope, testGraph(scope, "doc-1", "1")))
	require.NoError(t, store.MergeGraph(ctx, scope, testGraph(scope, "doc-2", "2")))

	graph, err := store.GetGraph(ctx, scope)
	require.NoError(t, err)
	assert.Len(t, graph.Nodes, 4)
	assert.Len(t, graph.Edges, 2)
}

func TestGraphStore_EmptyScope(t *testing.T) {
	store := NewGraphStore()

	graph, err := store.GetGraph(context.Background(), domain.NewScope("f1", "o1"))
	require.NoError(t, err)
	assert.Empty(t, graph.Nodes)
	assert.Empty(t, graph.Edges)
}

func TestGraphStore_DeleteDocumentGraph(t *testing.T) {
	store := NewGraphStore()
	scope := domain.NewScope("f1", "o1")
	ctx := context.Background()

	require.NoError(t, store.MergeGraph(ctx, scope, testGraph(scope, "doc-1", "1")))
	require.NoError(t, store.MergeGraph(ctx, scope, testGraph(scope, "doc-2", "2")))

	require.NoError(t, store.DeleteDocumentGraph(ctx, scope, "doc-1"))

	graph, err := store.GetGraph(ctx, scope)
	require.NoError(t, err)
	require.Len(t, graph.Nodes, 2)
	require.Len(t, graph.Edges, 1)
	for _, node := range graph.Nodes {
		assert.Equal(t, "doc-2", node.DocumentID)
	}
}

func TestGraphStore_ScopeIsolation(t *testing.T) {
	store := NewGraphStore()
	ctx := context.Background()
	scopeA := domain.NewScope("folder-a", "o1")
	scopeB := domain.NewScope("folder-b", "o1")

	require.NoError(t, store.MergeGraph(ctx, scopeA, testGraph(scopeA, "doc-1", "1")))

	graph, err := store.GetGraph(ctx, scopeB)
	require.NoError(t, err)
	assert.Empty(t, graph.Nodes)

	require.NoError(t, store.DeleteScope(ctx, scopeA))
	graph, err = store.GetGraph(ctx, scopeA)
	require.NoError(t, err)
	assert.Empty(t, graph.Nodes)
}
