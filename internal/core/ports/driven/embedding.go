package driven

import "context"

// EmbeddingService generates vector embeddings from text.
//
// Callers depend only on the dimension and the normalisation contract:
// returned vectors have length Dimensions() and are L2-normalised.
// Implementations are swappable between a deterministic seeded stub (for
// tests and offline use) and a real model call; timeout and retry policy
// for remote backends is the adapter's own responsibility.
type EmbeddingService interface {
	// Embed generates a vector embedding for the given text.
	// Text whose feature vector has zero magnitude yields
	// domain.ErrZeroVector.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts efficiently.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the embedding vector size.
	Dimensions() int

	// ModelName returns the name of the embedding model being used.
	ModelName() string

	// Ping validates the service is reachable.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
