package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input,
	// including malformed scopes.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnknownModel indicates an embedding or chat model name that is
	// not present in the model registry.
	ErrUnknownModel = errors.New("unknown model")

	// ErrZeroVector indicates a vector with zero magnitude where a
	// normalised vector is required. Similarity against such a vector
	// has an undefined denominator.
	ErrZeroVector = errors.New("zero-magnitude vector")

	// ErrStorageUnavailable indicates the backing store cannot be reached.
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrEmbeddingUnavailable indicates the embedding service is not
	// configured. Semantic retrieval is disabled without embeddings.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrVectorIndexUnavailable indicates the vector index is not
	// configured. Similarity search is disabled.
	ErrVectorIndexUnavailable = errors.New("vector index unavailable")
)
