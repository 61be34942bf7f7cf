package hash

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arbor-labs/folderctx/internal/core/domain"
)

func TestNewService_UnknownModel(t *testing.T) {
	_, err := NewService("no-such-model")
	assert.ErrorIs(t, err, domain.ErrUnknownModel)
}

func TestEmbed_Deterministic(t *testing.T) {
	s, err := NewService("hash-256")
	require.NoError(t, err)

	a, err := s.Embed(context.Background(), "the quick brown fox")
	require.NoError(t, err)
	b, err := s.Embed(context.Background(), "the quick brown fox")
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestEmbed_DimensionAndNormalization(t *testing.T) {
	s, err := NewService("hash-64")
	require.NoError(t, err)

	vec, err := s.Embed(context.Background(), "some input text to embed")
	require.NoError(t, err)
	require.Len(t, vec, s.Dimensions())

	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	assert.InDelta(t, 1.0, math.Sqrt(sum), 1e-5)
}

func TestEmbed_NoTokensIsZeroVector(t *testing.T) {
	s, err := NewService("hash-256")
	require.NoError(t, err)

	_, err = s.Embed(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrZeroVector)

	_, err = s.Embed(context.Background(), "  \t \n ...!!! ")
	assert.ErrorIs(t, err, domain.ErrZeroVector)
}

func TestEmbed_SimilarTextsCloser(t *testing.T) {
	s, err := NewService("hash-256")
	require.NoError(t, err)
	ctx := context.Background()

	cat1, err := s.Embed(ctx, "the cat sat on the mat")
	require.NoError(t, err)
	cat2, err := s.Embed(ctx, "the cat slept on the mat")
	require.NoError(t, err)
	other, err := s.Embed(ctx, "quarterly financial projections exceeded estimates")
	require.NoError(t, err)

	assert.Greater(t, dot(cat1, cat2), dot(cat1, other))
}

func TestEmbedBatch_PreservesOrder(t *testing.T) {
	s, err := NewService("hash-256")
	require.NoError(t, err)
	ctx := context.Background()

	texts := []string{"first text", "second text", "third text"}
	batch, err := s.EmbedBatch(ctx, texts)
	require.NoError(t, err)
	require.Len(t, batch, 3)

	for i, text := range texts {
		single, err := s.Embed(ctx, text)
		require.NoError(t, err)
		assert.Equal(t, single, batch[i])
	}
}

func TestEmbedBatch_FailsOnZeroVector(t *testing.T) {
	s, err := NewService("hash-256")
	require.NoError(t, err)

	_, err = s.EmbedBatch(context.Background(), []string{"fine", ""})
	assert.ErrorIs(t, err, domain.ErrZeroVector)
}

// dot computes the inner product; inputs are already unit length.
func dot(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}
