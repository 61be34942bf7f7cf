// Package memory provides in-memory implementations of the scoped stores,
// shaped identically to the SQLite store for tests and offline use.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/arbor-labs/folderctx/internal/core/domain"
	"github.com/arbor-labs/folderctx/internal/core/ports/driven"
)

// Ensure DocumentStore implements the interface.
var _ driven.DocumentStore = (*DocumentStore)(nil)

// scopeData holds one scope's documents, chunks and embeddings.
type scopeData struct {
	documents  map[string]domain.Document
	chunks     map[string][]domain.Chunk   // by document ID
	embeddings map[string]domain.Embedding // by chunk ID
}

func newScopeData() *scopeData {
	return &scopeData{
		documents:  make(map[string]domain.Document),
		chunks:     make(map[string][]domain.Chunk),
		embeddings: make(map[string]domain.Embedding),
	}
}

// DocumentStore is an in-memory implementation of driven.DocumentStore.
// All data is partitioned by scope key; nothing crosses the boundary.
type DocumentStore struct {
	mu     sync.RWMutex
	scopes map[string]*scopeData
}

// NewDocumentStore creates a new in-memory document store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		scopes: make(map[string]*scopeData),
	}
}

// scope returns the data for a scope, creating it if needed.
// Caller must hold the write lock.
func (s *DocumentStore) scope(scope domain.Scope) *scopeData {
	data, ok := s.scopes[scope.Key()]
	if !ok {
		data = newScopeData()
		s.scopes[scope.Key()] = data
	}
	return data
}

// SaveDocument stores or updates a document.
func (s *DocumentStore) SaveDocument(_ context.Context, doc *domain.Document) error {
	if err := doc.Scope.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = now
	}
	doc.UpdatedAt = now

	s.scope(doc.Scope).documents[doc.ID] = *doc
	return nil
}

// GetDocument retrieves a document by ID within a scope.
func (s *DocumentStore) GetDocument(_ context.Context, scope domain.Scope, id string) (*domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.scopes[scope.Key()]
	if !ok {
		return nil, domain.ErrNotFound
	}
	doc, ok := data.documents[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &doc, nil
}

// ListDocuments returns all documents in a scope ordered by creation time.
func (s *DocumentStore) ListDocuments(_ context.Context, scope domain.Scope) ([]domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.scopes[scope.Key()]
	if !ok {
		return nil, nil
	}

	docs := make([]domain.Document, 0, len(data.documents))
	for _, doc := range data.documents {
		docs = append(docs, doc)
	}
	sort.Slice(docs, func(i, j int) bool {
		return docs[i].CreatedAt.Before(docs[j].CreatedAt)
	})
	return docs, nil
}

// DeleteDocument removes a document together with its chunks and embeddings.
func (s *DocumentStore) DeleteDocument(_ context.Context, scope domain.Scope, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, ok := s.scopes[scope.Key()]
	if !ok {
		return nil
	}

	for _, chunk := range data.chunks[id] {
		delete(data.embeddings, chunk.ID)
	}
	delete(data.chunks, id)
	delete(data.documents, id)
	return nil
}

// SaveChunks stores chunks for a document.
func (s *DocumentStore) SaveChunks(_ context.Context, chunks []domain.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data := s.scope(chunks[0].Scope)
	data.chunks[chunks[0].DocumentID] = append([]domain.Chunk(nil), chunks...)
	return nil
}

// GetChunks retrieves a document's chunks ordered by index.
func (s *DocumentStore) GetChunks(_ context.Context, scope domain.Scope, documentID string) ([]domain.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.scopes[scope.Key()]
	if !ok {
		return nil, nil
	}

	chunks := append([]domain.Chunk(nil), data.chunks[documentID]...)
	sort.Slice(chunks, func(i, j int) bool {
		return chunks[i].Index < chunks[j].Index
	})
	return chunks, nil
}

// GetChunk retrieves a specific chunk by ID within a scope.
func (s *DocumentStore) GetChunk(_ context.Context, scope domain.Scope, id string) (*domain.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.scopes[scope.Key()]
	if !ok {
		return nil, domain.ErrNotFound
	}
	for _, chunks := range data.chunks {
		for _, chunk := range chunks {
			if chunk.ID == id {
				return &chunk, nil
			}
		}
	}
	return nil, domain.ErrNotFound
}

// SaveEmbeddings stores embeddings for previously saved chunks.
func (s *DocumentStore) SaveEmbeddings(_ context.Context, embeddings []domain.Embedding) error {
	if len(embeddings) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, emb := range embeddings {
		if emb.CreatedAt.IsZero() {
			emb.CreatedAt = time.Now().UTC()
		}
		s.scope(emb.Scope).embeddings[emb.ChunkID] = emb
	}
	return nil
}

// ListEmbeddings returns all embeddings in a scope.
func (s *DocumentStore) ListEmbeddings(_ context.Context, scope domain.Scope) ([]domain.Embedding, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.scopes[scope.Key()]
	if !ok {
		return nil, nil
	}

	embeddings := make([]domain.Embedding, 0, len(data.embeddings))
	for _, emb := range data.embeddings {
		embeddings = append(embeddings, emb)
	}
	return embeddings, nil
}

// DeleteScope removes every document, chunk and embedding in a scope.
func (s *DocumentStore) DeleteScope(_ context.Context, scope domain.Scope) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.scopes, scope.Key())
	return nil
}

// Stats reports entity counts for a scope.
func (s *DocumentStore) Stats(_ context.Context, scope domain.Scope) (*domain.ScopeStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := &domain.ScopeStats{}
	data, ok := s.scopes[scope.Key()]
	if !ok {
		return stats, nil
	}

	stats.Documents = len(data.documents)
	for _, chunks := range data.chunks {
		stats.Chunks += len(chunks)
	}
	stats.Embeddings = len(data.embeddings)
	return stats, nil
}

// Close releases resources.
func (s *DocumentStore) Close() error {
	return nil
}
