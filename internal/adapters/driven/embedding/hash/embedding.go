// Package hash provides a deterministic, offline embedding service based on
// feature hashing of token bigrams and unigrams. It needs no network access
// and always produces the same vector for the same text, which makes it the
// default for local use and tests.
package hash

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"strings"
	"unicode"

	"github.com/arbor-labs/folderctx/internal/core/domain"
	"github.com/arbor-labs/folderctx/internal/core/ports/driven"
)

// Ensure Service implements the interface.
var _ driven.EmbeddingService = (*Service)(nil)

// Service embeds text by hashing tokens into a fixed-size vector.
type Service struct {
	model domain.EmbeddingModel
}

// NewService creates a hashing embedder for the given registered model
// (for example "hash-256").
func NewService(modelName string) (*Service, error) {
	model, err := domain.LookupEmbeddingModel(modelName)
	if err != nil {
		return nil, fmt.Errorf("hash embedder: %w", err)
	}
	return &Service{model: model}, nil
}

// Embed converts text into a normalized fixed-dimension vector.
func (s *Service) Embed(_ context.Context, text string) ([]float32, error) {
	vec := make([]float32, s.model.Dimensions)

	tokens := tokenize(text)
	for _, token := range tokens {
		vec[bucket(token, s.model.Dimensions)]++
	}
	// Bigrams keep some word order information in the vector.
	for i := 0; i+1 < len(tokens); i++ {
		vec[bucket(tokens[i]+" "+tokens[i+1], s.model.Dimensions)]++
	}

	if err := normalize(vec); err != nil {
		return nil, err
	}
	return vec, nil
}

// EmbedBatch embeds multiple texts, preserving order.
func (s *Service) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vec, err := s.Embed(ctx, text)
		if err != nil {
			return nil, fmt.Errorf("embedding text %d: %w", i, err)
		}
		vectors[i] = vec
	}
	return vectors, nil
}

// Dimensions returns the vector dimensionality.
func (s *Service) Dimensions() int {
	return s.model.Dimensions
}

// ModelName returns the registered model name.
func (s *Service) ModelName() string {
	return s.model.Name
}

// Ping always succeeds; there is no remote service.
func (s *Service) Ping(_ context.Context) error {
	return nil
}

// Close releases resources.
func (s *Service) Close() error {
	return nil
}

func bucket(token string, dims int) int {
	h := fnv.New32a()
	h.Write([]byte(token))
	return int(h.Sum32() % uint32(dims))
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// normalize scales vec to unit length in place. A zero-magnitude vector is
// rejected so it can never be stored or searched against.
func normalize(vec []float32) error {
	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	if sum == 0 {
		return domain.ErrZeroVector
	}
	mag := float32(math.Sqrt(sum))
	for i := range vec {
		vec[i] /= mag
	}
	return nil
}
