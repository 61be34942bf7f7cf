package driven

import (
	"context"

	"github.com/arbor-labs/folderctx/internal/core/domain"
)

// PostProcessor transforms a document's chunks during ingestion.
// The first processor in a pipeline receives nil chunks and creates them;
// later processors receive and may modify the chunks.
type PostProcessor interface {
	// Name returns a unique processor name for config and logs.
	Name() string

	// Process transforms the chunks for the given document.
	Process(ctx context.Context, doc *domain.Document, chunks []domain.Chunk) ([]domain.Chunk, error)
}

// PostProcessorPipeline chains processors in order.
type PostProcessorPipeline interface {
	Process(ctx context.Context, doc *domain.Document) ([]domain.Chunk, error)
}
