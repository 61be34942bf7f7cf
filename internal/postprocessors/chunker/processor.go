// Package chunker provides a sentence-aware, token-budgeted chunking processor.
package chunker

import (
	"context"

	"github.com/google/uuid"

	"github.com/arbor-labs/folderctx/internal/core/domain"
	"github.com/arbor-labs/folderctx/internal/core/ports/driven"
	"github.com/arbor-labs/folderctx/internal/logger"
)

// DefaultMaxTokens is the default estimated-token budget per chunk.
const DefaultMaxTokens = 512

// DefaultOverlap is the default overlap window in sentences.
// Note the unit: the chunk budget is token-estimated, the overlap window
// is sentence-counted.
const DefaultOverlap = 50

// DefaultMinChunkSize is the minimum estimated-token size for the final
// trailing chunk. Smaller remainders are dropped.
const DefaultMinChunkSize = 100

// Processor splits document content into sentence-aligned chunks bounded
// by an estimated token budget, with a sentence-counted overlap between
// consecutive chunks. It implements the PostProcessor interface.
type Processor struct {
	maxTokens    int
	overlap      int
	minChunkSize int
	estimate     domain.TokenEstimator
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithMaxTokens sets the estimated-token budget per chunk.
func WithMaxTokens(n int) Option {
	return func(p *Processor) {
		if n > 0 {
			p.maxTokens = n
		}
	}
}

// WithOverlap sets the overlap window in sentences.
func WithOverlap(n int) Option {
	return func(p *Processor) {
		if n >= 0 {
			p.overlap = n
		}
	}
}

// WithMinChunkSize sets the minimum estimated-token size of the trailing chunk.
func WithMinChunkSize(n int) Option {
	return func(p *Processor) {
		if n >= 0 {
			p.minChunkSize = n
		}
	}
}

// WithEstimator replaces the token estimator.
func WithEstimator(fn domain.TokenEstimator) Option {
	return func(p *Processor) {
		if fn != nil {
			p.estimate = fn
		}
	}
}

// New creates a new chunker processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{
		maxTokens:    DefaultMaxTokens,
		overlap:      DefaultOverlap,
		minChunkSize: DefaultMinChunkSize,
		estimate:     domain.EstimateTokens,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Builder creates a chunker from generic registry config.
func Builder(cfg map[string]any) (driven.PostProcessor, error) {
	var opts []Option
	if v, ok := cfg["max_tokens"].(int); ok {
		opts = append(opts, WithMaxTokens(v))
	}
	if v, ok := cfg["overlap"].(int); ok {
		opts = append(opts, WithOverlap(v))
	}
	if v, ok := cfg["min_chunk_size"].(int); ok {
		opts = append(opts, WithMinChunkSize(v))
	}
	return New(opts...), nil
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "chunker"
}

// segment is a sentence-like span of the source content.
type segment struct {
	start int
	end   int
}

// Process splits the document content into chunks.
// Input chunks are ignored; this processor creates new chunks from document content.
func (p *Processor) Process(_ context.Context, doc *domain.Document, _ []domain.Chunk) ([]domain.Chunk, error) {
	segs := segments(doc.Content)
	if len(segs) == 0 {
		return nil, nil
	}

	var chunks []domain.Chunk
	first := 0 // index of the first segment in the open buffer

	for i := 1; i <= len(segs); i++ {
		if i < len(segs) {
			candidate := doc.Content[segs[first].start:segs[i].end]
			if p.estimate(candidate) <= p.maxTokens {
				continue
			}
			// Adding segment i would blow the budget; close the buffer.
			chunks = append(chunks, p.emit(doc, segs, first, i-1, len(chunks)))

			// Seed the next buffer with the last overlap sentences of the
			// closed chunk plus the triggering segment. The window is
			// clamped so the buffer start always advances.
			next := i - p.overlap
			if next <= first {
				next = first + 1
			}
			if next > i {
				next = i
			}
			first = next
			continue
		}

		// End of input: flush the remainder only if it is large enough.
		tail := doc.Content[segs[first].start:segs[len(segs)-1].end]
		if p.estimate(tail) >= p.minChunkSize {
			chunks = append(chunks, p.emit(doc, segs, first, len(segs)-1, len(chunks)))
		} else {
			logger.Warn("chunker: dropping trailing remainder of %q (%d est. tokens < %d)",
				doc.Name, p.estimate(tail), p.minChunkSize)
		}
	}

	return chunks, nil
}

// emit builds a chunk covering segments [from..to].
func (p *Processor) emit(doc *domain.Document, segs []segment, from, to, index int) domain.Chunk {
	start := segs[from].start
	end := segs[to].end
	content := doc.Content[start:end]

	return domain.Chunk{
		ID:          uuid.New().String(),
		DocumentID:  doc.ID,
		Scope:       doc.Scope,
		Content:     content,
		StartOffset: start,
		EndOffset:   end,
		Index:       index,
		TokenCount:  p.estimate(content),
		Metadata:    domain.ChunkMeta{DocumentName: doc.Name},
	}
}

// segments splits content into contiguous sentence-like spans. A span ends
// after a run of terminal punctuation (. ! ?) and the whitespace that
// follows it; a trailing span without terminal punctuation is kept. The
// spans cover the content exactly, so concatenating chunk contents in
// index order reconstructs the document modulo overlap duplication.
func segments(content string) []segment {
	var segs []segment
	start := 0
	i := 0
	n := len(content)

	for i < n {
		c := content[i]
		if c == '.' || c == '!' || c == '?' {
			// Consume the punctuation run.
			for i < n && (content[i] == '.' || content[i] == '!' || content[i] == '?') {
				i++
			}
			// Consume following whitespace into the same span.
			for i < n && (content[i] == ' ' || content[i] == '\t' || content[i] == '\n' || content[i] == '\r') {
				i++
			}
			segs = append(segs, segment{start: start, end: i})
			start = i
			continue
		}
		i++
	}

	if start < n {
		if !isBlank(content[start:]) {
			segs = append(segs, segment{start: start, end: n})
		} else if len(segs) > 0 {
			// Fold trailing whitespace into the last span.
			segs[len(segs)-1].end = n
		}
	}

	return segs
}

func isBlank(s string) bool {
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case ' ', '\t', '\n', '\r':
		default:
			return false
		}
	}
	return true
}
