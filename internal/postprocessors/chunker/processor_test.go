package chunker

import (
	"context"
	"strings"
	"testing"

	"github.com/arbor-labs/folderctx/internal/core/domain"
)

func testDocument(content string) *domain.Document {
	return &domain.Document{
		ID:      "doc-1",
		Scope:   domain.NewScope("f1", "o1"),
		Name:    "test.txt",
		Type:    domain.DocumentTypeText,
		Content: content,
	}
}

func TestProcess_EmptyContent(t *testing.T) {
	p := New()

	chunks, err := p.Process(context.Background(), testDocument(""), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 0 {
		t.Errorf("expected no chunks, got %d", len(chunks))
	}
}

func TestProcess_SingleChunk(t *testing.T) {
	p := New(WithMinChunkSize(1))

	content := "One sentence. Another sentence. A third one."
	chunks, err := p.Process(context.Background(), testDocument(content), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0].Content != content {
		t.Errorf("chunk content = %q, want %q", chunks[0].Content, content)
	}
	if chunks[0].StartOffset != 0 || chunks[0].EndOffset != len(content) {
		t.Errorf("offsets = [%d,%d], want [0,%d]",
			chunks[0].StartOffset, chunks[0].EndOffset, len(content))
	}
}

func TestProcess_ReconstructionWithoutOverlap(t *testing.T) {
	p := New(WithMaxTokens(10), WithOverlap(0), WithMinChunkSize(1))

	var b strings.Builder
	for i := 0; i < 20; i++ {
		b.WriteString("This sentence fills the chunk budget nicely. ")
	}
	content := b.String()

	doc := testDocument(content)
	chunks, err := p.Process(context.Background(), doc, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}

	var rebuilt strings.Builder
	for i, chunk := range chunks {
		if chunk.Index != i {
			t.Errorf("chunk %d has index %d", i, chunk.Index)
		}
		rebuilt.WriteString(chunk.Content)
	}
	if rebuilt.String() != content {
		t.Errorf("concatenated chunks do not reconstruct the document")
	}
}

func TestProcess_OffsetsContiguousWithoutOverlap(t *testing.T) {
	p := New(WithMaxTokens(8), WithOverlap(0), WithMinChunkSize(1))

	content := "Alpha beta gamma. Delta epsilon zeta. Eta theta iota. Kappa lambda mu."
	chunks, err := p.Process(context.Background(), testDocument(content), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}

	for i := 1; i < len(chunks); i++ {
		if chunks[i].StartOffset != chunks[i-1].EndOffset {
			t.Errorf("chunk %d starts at %d, previous ended at %d",
				i, chunks[i].StartOffset, chunks[i-1].EndOffset)
		}
	}
	if chunks[len(chunks)-1].EndOffset != len(content) {
		t.Errorf("last chunk ends at %d, want %d",
			chunks[len(chunks)-1].EndOffset, len(content))
	}
}

func TestProcess_TokenBudgetRespected(t *testing.T) {
	maxTokens := 12
	p := New(WithMaxTokens(maxTokens), WithOverlap(0), WithMinChunkSize(1))

	var b strings.Builder
	for i := 0; i < 30; i++ {
		b.WriteString("Short sentence here. ")
	}

	chunks, err := p.Process(context.Background(), testDocument(b.String()), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i, chunk := range chunks {
		if chunk.TokenCount > maxTokens {
			t.Errorf("chunk %d estimates %d tokens, budget is %d",
				i, chunk.TokenCount, maxTokens)
		}
	}
}

func TestProcess_OversizedSingleSegment(t *testing.T) {
	p := New(WithMaxTokens(5), WithOverlap(0), WithMinChunkSize(1))

	// One unsplittable sentence far beyond the budget.
	content := strings.Repeat("word ", 40) + "end."
	chunks, err := p.Process(context.Background(), testDocument(content), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 1 {
		t.Fatalf("expected 1 oversized chunk, got %d", len(chunks))
	}
	if chunks[0].TokenCount <= 5 {
		t.Errorf("expected chunk above budget, got %d tokens", chunks[0].TokenCount)
	}
}

func TestProcess_OverlapDuplicatesSentences(t *testing.T) {
	p := New(WithMaxTokens(15), WithOverlap(1), WithMinChunkSize(1))

	content := "First sentence is here. Second sentence is here. Third sentence is here. Fourth sentence is here."
	chunks, err := p.Process(context.Background(), testDocument(content), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}

	for i := 1; i < len(chunks); i++ {
		if chunks[i].StartOffset >= chunks[i-1].EndOffset {
			t.Errorf("chunk %d does not overlap its predecessor", i)
		}
		if chunks[i].StartOffset <= chunks[i-1].StartOffset {
			t.Errorf("chunk %d does not advance past its predecessor", i)
		}
	}
}

func TestProcess_OverlapLargerThanBufferStillAdvances(t *testing.T) {
	p := New(WithMaxTokens(10), WithOverlap(100), WithMinChunkSize(1))

	var b strings.Builder
	for i := 0; i < 15; i++ {
		b.WriteString("This sentence fills the chunk budget nicely. ")
	}

	chunks, err := p.Process(context.Background(), testDocument(b.String()), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	for i := 1; i < len(chunks); i++ {
		if chunks[i].StartOffset <= chunks[i-1].StartOffset {
			t.Fatalf("chunk %d start %d did not advance past %d",
				i, chunks[i].StartOffset, chunks[i-1].StartOffset)
		}
	}
}

func TestProcess_SmallTailDropped(t *testing.T) {
	p := New(WithMaxTokens(10), WithOverlap(0), WithMinChunkSize(8))

	// Two budget-filling sentences then a tiny remainder.
	content := "This opening sentence uses the budget. This second sentence also uses budget. Tiny end."
	chunks, err := p.Process(context.Background(), testDocument(content), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}

	for i, chunk := range chunks {
		if strings.Contains(chunk.Content, "Tiny end.") {
			t.Errorf("chunk %d kept the undersized tail: %q", i, chunk.Content)
		}
	}
}

func TestProcess_ChunkMetadata(t *testing.T) {
	p := New(WithMinChunkSize(1))

	chunks, err := p.Process(context.Background(), testDocument("Some sentence content here."), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}

	chunk := chunks[0]
	if chunk.ID == "" {
		t.Error("chunk ID is empty")
	}
	if chunk.DocumentID != "doc-1" {
		t.Errorf("chunk document ID = %q", chunk.DocumentID)
	}
	if chunk.Metadata.DocumentName != "test.txt" {
		t.Errorf("chunk metadata document name = %q", chunk.Metadata.DocumentName)
	}
	if chunk.TokenCount != domain.EstimateTokens(chunk.Content) {
		t.Errorf("token count %d does not match estimate", chunk.TokenCount)
	}
}

func TestBuilder(t *testing.T) {
	proc, err := Builder(map[string]any{
		"max_tokens":     64,
		"overlap":        2,
		"min_chunk_size": 4,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if proc.Name() != "chunker" {
		t.Errorf("processor name = %q", proc.Name())
	}

	p, ok := proc.(*Processor)
	if !ok {
		t.Fatalf("Builder returned %T", proc)
	}
	if p.maxTokens != 64 || p.overlap != 2 || p.minChunkSize != 4 {
		t.Errorf("options not applied: max=%d overlap=%d min=%d",
			p.maxTokens, p.overlap, p.minChunkSize)
	}
}
