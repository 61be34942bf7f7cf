package domain

// SearchResult represents a matching chunk with a similarity score.
type SearchResult struct {
	// Chunk is the matched chunk.
	Chunk Chunk

	// Similarity is the cosine similarity against the query vector.
	Similarity float64
}

// ScopeConfig is the per-scope retrieval configuration. Each field can be
// overridden per folder; zero values fall back to the defaults below.
type ScopeConfig struct {
	// IncludeRAGData enables retrieval augmentation for the scope.
	IncludeRAGData bool

	// MaxRAGTokens caps the estimated tokens of retrieved content.
	MaxRAGTokens int

	// SimilarityThreshold drops chunks scoring below it even when the
	// token budget has room left.
	SimilarityThreshold float64

	// MaxConversationTokens caps the history portion of the window.
	MaxConversationTokens int
}

// DefaultScopeConfig returns the retrieval defaults for a scope with no
// overrides.
func DefaultScopeConfig() ScopeConfig {
	return ScopeConfig{
		IncludeRAGData:        true,
		MaxRAGTokens:          2000,
		SimilarityThreshold:   0.7,
		MaxConversationTokens: 4000,
	}
}

// ScopeStats summarises what a scope currently holds.
type ScopeStats struct {
	Documents  int
	Chunks     int
	Embeddings int
	GraphNodes int
	GraphEdges int
}
