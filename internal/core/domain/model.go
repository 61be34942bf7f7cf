package domain

import "fmt"

// EmbeddingModel describes a named embedding model.
type EmbeddingModel struct {
	// Name is the model identifier.
	Name string

	// Dimensions is the declared vector length. Every embedding produced
	// for this model must have exactly this length.
	Dimensions int

	// MaxInputTokens is the model's input window (estimated tokens).
	MaxInputTokens int

	// CostPerKTokens is the cost in USD per thousand input tokens.
	CostPerKTokens float64
}

// embeddingModels is the registry of known embedding models.
var embeddingModels = map[string]EmbeddingModel{
	"text-embedding-3-small": {Name: "text-embedding-3-small", Dimensions: 1536, MaxInputTokens: 8191, CostPerKTokens: 0.00002},
	"text-embedding-3-large": {Name: "text-embedding-3-large", Dimensions: 3072, MaxInputTokens: 8191, CostPerKTokens: 0.00013},
	"text-embedding-ada-002": {Name: "text-embedding-ada-002", Dimensions: 1536, MaxInputTokens: 8191, CostPerKTokens: 0.0001},
	"nomic-embed-text":       {Name: "nomic-embed-text", Dimensions: 768, MaxInputTokens: 8192, CostPerKTokens: 0},
	"hash-64":                {Name: "hash-64", Dimensions: 64, MaxInputTokens: 1 << 20, CostPerKTokens: 0},
	"hash-256":               {Name: "hash-256", Dimensions: 256, MaxInputTokens: 1 << 20, CostPerKTokens: 0},
}

// LookupEmbeddingModel resolves a model name against the registry.
// An unknown name is a validation error.
func LookupEmbeddingModel(name string) (EmbeddingModel, error) {
	m, ok := embeddingModels[name]
	if !ok {
		return EmbeddingModel{}, fmt.Errorf("%w: embedding model %q", ErrUnknownModel, name)
	}
	return m, nil
}

// EmbeddingModelNames returns the registered model names.
func EmbeddingModelNames() []string {
	names := make([]string, 0, len(embeddingModels))
	for name := range embeddingModels {
		names = append(names, name)
	}
	return names
}
