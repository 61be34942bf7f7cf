package domain

// NodeKind classifies a knowledge graph node.
type NodeKind string

// Knowledge node kinds.
const (
	NodeKindDocument NodeKind = "document"
	NodeKindConcept  NodeKind = "concept"
	NodeKindEntity   NodeKind = "entity"
	NodeKindTopic    NodeKind = "topic"
)

// EdgeKind classifies a knowledge graph edge.
type EdgeKind string

// Knowledge edge kinds.
const (
	EdgeKindContains    EdgeKind = "contains"
	EdgeKindRelatesTo   EdgeKind = "relates_to"
	EdgeKindReferences  EdgeKind = "references"
	EdgeKindDerivedFrom EdgeKind = "derived_from"
)

// KnowledgeNode is a scope-scoped node in the per-folder knowledge graph.
type KnowledgeNode struct {
	// ID is the unique node identifier.
	ID string

	// Scope is the (folder, owner) pair the node belongs to.
	Scope Scope

	// Kind classifies the node.
	Kind NodeKind

	// Label is the display label (document name, concept term, ...).
	Label string

	// DocumentID links the node to the document it was derived from.
	DocumentID string
}

// KnowledgeEdge is a weighted, scope-scoped edge between two nodes.
type KnowledgeEdge struct {
	// ID is the unique edge identifier.
	ID string

	// Scope is the (folder, owner) pair the edge belongs to.
	Scope Scope

	// SourceID and TargetID reference KnowledgeNode IDs.
	SourceID string
	TargetID string

	// Kind classifies the edge.
	Kind EdgeKind

	// Weight is the edge strength in [0,1].
	Weight float64
}

// KnowledgeGraph is the {nodes, edges} contract produced by the graph
// builder and append-merged per scope across documents.
type KnowledgeGraph struct {
	Nodes []KnowledgeNode
	Edges []KnowledgeEdge
}
