package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/arbor-labs/folderctx/internal/core/domain"
	"github.com/arbor-labs/folderctx/internal/core/ports/driven"
	"github.com/arbor-labs/folderctx/internal/core/ports/driving"
	"github.com/arbor-labs/folderctx/internal/logger"
)

// Ensure DocumentService implements the interface.
var _ driving.DocumentService = (*DocumentService)(nil)

// Ingestion pipeline parameters.
const (
	embedBatchSize = 32
	embedWorkers   = 4
)

// DocumentService manages the document lifecycle within scopes. Documents
// are stored synchronously; chunking, embedding and graph building run in a
// detached background pipeline per document.
type DocumentService struct {
	docStore     driven.DocumentStore
	graphStore   driven.GraphStore
	embedder     driven.EmbeddingService
	index        driven.VectorIndex
	pipeline     driven.PostProcessorPipeline
	graphBuilder *GraphBuilder

	wg sync.WaitGroup
}

// NewDocumentService creates a new document service.
func NewDocumentService(
	docStore driven.DocumentStore,
	graphStore driven.GraphStore,
	embedder driven.EmbeddingService,
	index driven.VectorIndex,
	pipeline driven.PostProcessorPipeline,
) *DocumentService {
	return &DocumentService{
		docStore:     docStore,
		graphStore:   graphStore,
		embedder:     embedder,
		index:        index,
		pipeline:     pipeline,
		graphBuilder: NewGraphBuilder(),
	}
}

// AddDocument validates and durably stores a document, then kicks off the
// background pipeline. There is no synchronous guarantee that chunks or
// embeddings exist when this returns; use Wait or poll Stats.
func (s *DocumentService) AddDocument(ctx context.Context, in driving.AddDocumentInput) (*domain.Document, error) {
	if err := in.Scope.Validate(); err != nil {
		return nil, err
	}
	if in.Name == "" {
		return nil, fmt.Errorf("document name is required: %w", domain.ErrInvalidInput)
	}
	if in.Content == "" {
		return nil, fmt.Errorf("document content is required: %w", domain.ErrInvalidInput)
	}
	if in.Type == "" {
		in.Type = domain.DocumentTypeText
	}
	if !in.Type.Valid() {
		return nil, fmt.Errorf("unknown document type %q: %w", in.Type, domain.ErrInvalidInput)
	}

	now := time.Now().UTC()
	doc := &domain.Document{
		ID:        uuid.New().String(),
		Scope:     in.Scope,
		Name:      in.Name,
		Type:      in.Type,
		Content:   in.Content,
		Size:      len(in.Content),
		Metadata:  in.Metadata,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.docStore.SaveDocument(ctx, doc); err != nil {
		return nil, fmt.Errorf("save document: %w", err)
	}

	logger.Info("Document %s (%s) stored in %s", doc.ID, doc.Name, doc.Scope)

	// Detached from the caller's context: ingestion continues after the
	// request that triggered it returns.
	pipelineDoc := *doc
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.processDocument(context.Background(), &pipelineDoc)
	}()

	return doc, nil
}

// processDocument runs the chunk, embed and graph stages for one document.
// Each stage failure is logged and stops only its own downstream work;
// completed stages are never rolled back.
func (s *DocumentService) processDocument(ctx context.Context, doc *domain.Document) {
	logger.Section("Ingestion Pipeline")
	logger.Debug("Processing document %s (%s)", doc.ID, doc.Name)

	chunks, err := s.pipeline.Process(ctx, doc)
	if err != nil {
		logger.Warn("Chunking failed for document %s: %v", doc.ID, err)
		return
	}
	if len(chunks) == 0 {
		logger.Debug("Document %s produced no chunks", doc.ID)
		return
	}

	if err := s.docStore.SaveChunks(ctx, chunks); err != nil {
		logger.Warn("Saving chunks for document %s failed: %v", doc.ID, err)
		return
	}
	logger.Debug("Saved %d chunks for document %s", len(chunks), doc.ID)

	embeddings := s.embedChunks(ctx, chunks)
	if len(embeddings) > 0 {
		if err := s.docStore.SaveEmbeddings(ctx, embeddings); err != nil {
			logger.Warn("Saving embeddings for document %s failed: %v", doc.ID, err)
		} else {
			for _, emb := range embeddings {
				if err := s.index.Add(ctx, emb.Scope, emb.ChunkID, emb.Vector); err != nil {
					logger.Warn("Indexing chunk %s failed: %v", emb.ChunkID, err)
				}
			}
			logger.Debug("Indexed %d embeddings for document %s", len(embeddings), doc.ID)
		}
	}

	graph := s.graphBuilder.BuildDocumentGraph(doc, chunks)
	if err := s.graphStore.MergeGraph(ctx, doc.Scope, graph); err != nil {
		logger.Warn("Graph merge for document %s failed: %v", doc.ID, err)
		return
	}
	logger.Debug("Merged %d graph nodes for document %s", len(graph.Nodes), doc.ID)
}

// embedChunks embeds chunks in bounded parallel batches. A failed batch
// loses only its own chunks; the rest of the document stays searchable.
func (s *DocumentService) embedChunks(ctx context.Context, chunks []domain.Chunk) []domain.Embedding {
	var mu sync.Mutex
	var embeddings []domain.Embedding

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(embedWorkers)

	for start := 0; start < len(chunks); start += embedBatchSize {
		end := start + embedBatchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		batch := chunks[start:end]

		g.Go(func() error {
			texts := make([]string, len(batch))
			for i, chunk := range batch {
				texts[i] = chunk.Content
			}

			vectors, err := s.embedder.EmbedBatch(ctx, texts)
			if err != nil {
				logger.Warn("Embedding batch of %d chunks failed: %v", len(batch), err)
				return nil
			}

			now := time.Now().UTC()
			mu.Lock()
			for i, vec := range vectors {
				embeddings = append(embeddings, domain.Embedding{
					ChunkID:   batch[i].ID,
					Scope:     batch[i].Scope,
					Vector:    vec,
					Model:     s.embedder.ModelName(),
					CreatedAt: now,
				})
			}
			mu.Unlock()
			return nil
		})
	}

	_ = g.Wait()
	return embeddings
}

// GetDocuments lists the documents in a scope.
func (s *DocumentService) GetDocuments(ctx context.Context, scope domain.Scope) ([]domain.Document, error) {
	if err := scope.Validate(); err != nil {
		return nil, err
	}
	return s.docStore.ListDocuments(ctx, scope)
}

// GetDocument retrieves one document.
func (s *DocumentService) GetDocument(ctx context.Context, scope domain.Scope, id string) (*domain.Document, error) {
	if err := scope.Validate(); err != nil {
		return nil, err
	}
	return s.docStore.GetDocument(ctx, scope, id)
}

// DeleteDocument removes a document and everything derived from it: chunks,
// embeddings, index entries and graph nodes.
func (s *DocumentService) DeleteDocument(ctx context.Context, scope domain.Scope, id string) error {
	if err := scope.Validate(); err != nil {
		return err
	}

	chunks, err := s.docStore.GetChunks(ctx, scope, id)
	if err != nil {
		return fmt.Errorf("get chunks: %w", err)
	}
	for _, chunk := range chunks {
		if err := s.index.Delete(ctx, scope, chunk.ID); err != nil {
			return fmt.Errorf("remove chunk %s from index: %w", chunk.ID, err)
		}
	}

	if err := s.graphStore.DeleteDocumentGraph(ctx, scope, id); err != nil {
		return fmt.Errorf("delete document graph: %w", err)
	}

	if err := s.docStore.DeleteDocument(ctx, scope, id); err != nil {
		return fmt.Errorf("delete document: %w", err)
	}

	logger.Info("Document %s deleted from %s", id, scope)
	return nil
}

// CleanupScope removes everything a scope holds across all stores.
func (s *DocumentService) CleanupScope(ctx context.Context, scope domain.Scope) error {
	if err := scope.Validate(); err != nil {
		return err
	}

	if err := s.index.DeleteScope(ctx, scope); err != nil {
		return fmt.Errorf("cleanup index: %w", err)
	}
	if err := s.graphStore.DeleteScope(ctx, scope); err != nil {
		return fmt.Errorf("cleanup graph: %w", err)
	}
	if err := s.docStore.DeleteScope(ctx, scope); err != nil {
		return fmt.Errorf("cleanup store: %w", err)
	}

	logger.Info("Scope %s cleaned up", scope)
	return nil
}

// Stats reports entity counts for a scope.
func (s *DocumentService) Stats(ctx context.Context, scope domain.Scope) (*domain.ScopeStats, error) {
	if err := scope.Validate(); err != nil {
		return nil, err
	}

	stats, err := s.docStore.Stats(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("scope stats: %w", err)
	}

	graph, err := s.graphStore.GetGraph(ctx, scope)
	if err != nil {
		logger.Warn("Graph stats for %s unavailable: %v", scope, err)
		return stats, nil
	}
	stats.GraphNodes = len(graph.Nodes)
	stats.GraphEdges = len(graph.Edges)
	return stats, nil
}

// Wait blocks until all in-flight ingestion pipelines finish.
func (s *DocumentService) Wait() {
	s.wg.Wait()
}
