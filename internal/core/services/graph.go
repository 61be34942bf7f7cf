package services

import (
	"strings"
	"unicode"

	"github.com/google/uuid"

	"github.com/arbor-labs/folderctx/internal/core/domain"
)

// Concept extraction parameters.
const (
	maxConceptsPerChunk = 5
	minConceptLength    = 5
	containsEdgeWeight  = 1.0
)

// conceptStopWords excludes common words that carry no topical signal.
var conceptStopWords = map[string]bool{
	"about": true, "above": true, "after": true, "again": true,
	"before": true, "being": true, "below": true, "between": true,
	"could": true, "doing": true, "during": true, "every": true,
	"first": true, "other": true, "should": true, "their": true,
	"there": true, "these": true, "thing": true, "those": true,
	"through": true, "under": true, "where": true, "which": true,
	"while": true, "would": true,
}

// GraphBuilder derives a lightweight knowledge graph from a document's
// chunks. The extraction is a frequency-free heuristic: distinct long tokens
// become concept nodes linked to the document node. A stronger extractor can
// replace it behind the same nodes-and-edges contract.
type GraphBuilder struct{}

// NewGraphBuilder creates a graph builder.
func NewGraphBuilder() *GraphBuilder {
	return &GraphBuilder{}
}

// BuildDocumentGraph produces the graph fragment for one document: a
// document node plus up to maxConceptsPerChunk concept nodes per chunk,
// each connected by a contains edge. Concepts repeated across chunks yield
// a single node.
func (b *GraphBuilder) BuildDocumentGraph(doc *domain.Document, chunks []domain.Chunk) domain.KnowledgeGraph {
	docNode := domain.KnowledgeNode{
		ID:         uuid.New().String(),
		Scope:      doc.Scope,
		Kind:       domain.NodeKindDocument,
		Label:      doc.Name,
		DocumentID: doc.ID,
	}

	graph := domain.KnowledgeGraph{
		Nodes: []domain.KnowledgeNode{docNode},
	}

	seen := make(map[string]bool)
	for _, chunk := range chunks {
		for _, concept := range extractConcepts(chunk.Content, seen) {
			node := domain.KnowledgeNode{
				ID:         uuid.New().String(),
				Scope:      doc.Scope,
				Kind:       domain.NodeKindConcept,
				Label:      concept,
				DocumentID: doc.ID,
			}
			graph.Nodes = append(graph.Nodes, node)
			graph.Edges = append(graph.Edges, domain.KnowledgeEdge{
				ID:       uuid.New().String(),
				Scope:    doc.Scope,
				SourceID: docNode.ID,
				TargetID: node.ID,
				Kind:     domain.EdgeKindContains,
				Weight:   containsEdgeWeight,
			})
		}
	}

	return graph
}

// extractConcepts picks up to maxConceptsPerChunk new concept tokens from a
// chunk, recording them in seen so later chunks skip duplicates.
func extractConcepts(content string, seen map[string]bool) []string {
	tokens := strings.FieldsFunc(strings.ToLower(content), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	var concepts []string
	for _, token := range tokens {
		if len(token) < minConceptLength || conceptStopWords[token] || seen[token] {
			continue
		}
		seen[token] = true
		concepts = append(concepts, token)
		if len(concepts) >= maxConceptsPerChunk {
			break
		}
	}
	return concepts
}
