package postprocessors

import (
	"github.com/arbor-labs/folderctx/internal/postprocessors/chunker"
)

// DefaultRegistry returns a registry with all built-in processors.
func DefaultRegistry() *Registry {
	r := NewRegistry()

	r.Register("chunker", chunker.Builder)

	return r
}

// DefaultPipeline returns the standard ingestion pipeline: a sentence
// chunker with default limits.
func DefaultPipeline() *Pipeline {
	return NewPipeline(chunker.New())
}
