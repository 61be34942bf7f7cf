package memory

import (
	"context"
	"sync"

	"github.com/arbor-labs/folderctx/internal/core/domain"
	"github.com/arbor-labs/folderctx/internal/core/ports/driven"
)

// Ensure GraphStore implements the interface.
var _ driven.GraphStore = (*GraphStore)(nil)

// GraphStore is an in-memory implementation of driven.GraphStore.
type GraphStore struct {
	mu     sync.RWMutex
	graphs map[string]*domain.KnowledgeGraph
}

// NewGraphStore creates a new in-memory graph store.
func NewGraphStore() *GraphStore {
	return &GraphStore{
		graphs: make(map[string]*domain.KnowledgeGraph),
	}
}

// MergeGraph appends a document graph into the scope's graph.
func (s *GraphStore) MergeGraph(_ context.Context, scope domain.Scope, graph domain.KnowledgeGraph) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.graphs[scope.Key()]
	if !ok {
		existing = &domain.KnowledgeGraph{}
		s.graphs[scope.Key()] = existing
	}
	existing.Nodes = append(existing.Nodes, graph.Nodes...)
	existing.Edges = append(existing.Edges, graph.Edges...)
	return nil
}

// GetGraph returns the full graph for a scope.
func (s *GraphStore) GetGraph(_ context.Context, scope domain.Scope) (*domain.KnowledgeGraph, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	graph, ok := s.graphs[scope.Key()]
	if !ok {
		return &domain.KnowledgeGraph{}, nil
	}

	out := &domain.KnowledgeGraph{
		Nodes: append([]domain.KnowledgeNode(nil), graph.Nodes...),
		Edges: append([]domain.KnowledgeEdge(nil), graph.Edges...),
	}
	return out, nil
}

// DeleteDocumentGraph prunes nodes derived from a document and the edges
// touching them.
func (s *GraphStore) DeleteDocumentGraph(_ context.Context, scope domain.Scope, documentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	graph, ok := s.graphs[scope.Key()]
	if !ok {
		return nil
	}

	removed := make(map[string]bool)
	nodes := graph.Nodes[:0]
	for _, node := range graph.Nodes {
		if node.DocumentID == documentID {
			removed[node.ID] = true
			continue
		}
		nodes = append(nodes, node)
	}
	graph.Nodes = nodes

	edges := graph.Edges[:0]
	for _, edge := range graph.Edges {
		if removed[edge.SourceID] || removed[edge.TargetID] {
			continue
		}
		edges = append(edges, edge)
	}
	graph.Edges = edges
	return nil
}

// DeleteScope removes the scope's entire graph.
func (s *GraphStore) DeleteScope(_ context.Context, scope domain.Scope) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.graphs, scope.Key())
	return nil
}
