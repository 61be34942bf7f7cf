// Package sqlite provides the persistent scoped store backed by SQLite.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/arbor-labs/folderctx/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/arbor-labs/folderctx/internal/core/domain"
	"github.com/arbor-labs/folderctx/internal/core/ports/driven"
)

// Ensure the store implements the ports.
var (
	_ driven.DocumentStore = (*Store)(nil)
	_ driven.GraphStore    = (*Store)(nil)
)

// Store is a SQLite-backed implementation of the scoped document and
// graph stores. Every query filters on (folder_id, owner_id); foreign
// keys cascade document deletion to chunks and embeddings.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.folderctx/data/folderctx.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".folderctx", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "folderctx.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	// Run migrations
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	// Sort and run migrations
	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		// Read and execute migration
		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}

		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Document Store ====================

// SaveDocument stores or updates a document.
func (s *Store) SaveDocument(ctx context.Context, doc *domain.Document) error {
	if err := doc.Scope.Validate(); err != nil {
		return err
	}

	metadataJSON, err := json.Marshal(doc.Metadata)
	if err != nil {
		return fmt.Errorf("marshalling metadata: %w", err)
	}

	now := time.Now().UTC()
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = now
	}
	doc.UpdatedAt = now

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO documents (id, folder_id, owner_id, name, type, content, size, metadata, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			type = excluded.type,
			content = excluded.content,
			size = excluded.size,
			metadata = excluded.metadata,
			updated_at = excluded.updated_at
	`, doc.ID, doc.Scope.FolderID, doc.Scope.OwnerID, doc.Name, string(doc.Type),
		doc.Content, doc.Size, string(metadataJSON), doc.CreatedAt, doc.UpdatedAt)

	if err != nil {
		return fmt.Errorf("saving document: %w", err)
	}
	return nil
}

// GetDocument retrieves a document by ID within a scope.
func (s *Store) GetDocument(ctx context.Context, scope domain.Scope, id string) (*domain.Document, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, folder_id, owner_id, name, type, content, size, metadata, created_at, updated_at
		FROM documents WHERE id = ? AND folder_id = ? AND owner_id = ?
	`, id, scope.FolderID, scope.OwnerID)

	return scanDocument(row)
}

// ListDocuments returns all documents in a scope.
func (s *Store) ListDocuments(ctx context.Context, scope domain.Scope) ([]domain.Document, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, folder_id, owner_id, name, type, content, size, metadata, created_at, updated_at
		FROM documents WHERE folder_id = ? AND owner_id = ?
		ORDER BY created_at
	`, scope.FolderID, scope.OwnerID)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	var docs []domain.Document //nolint:prealloc // size unknown from query
	for rows.Next() {
		doc, err := scanDocumentRows(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, *doc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating documents: %w", err)
	}

	return docs, nil
}

// DeleteDocument removes a document; chunks and embeddings cascade.
func (s *Store) DeleteDocument(ctx context.Context, scope domain.Scope, id string) error {
	_, err := s.db.ExecContext(ctx,
		"DELETE FROM documents WHERE id = ? AND folder_id = ? AND owner_id = ?",
		id, scope.FolderID, scope.OwnerID)
	if err != nil {
		return fmt.Errorf("deleting document: %w", err)
	}
	return nil
}

// SaveChunks stores chunks for a document.
func (s *Store) SaveChunks(ctx context.Context, chunks []domain.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks (id, document_id, folder_id, owner_id, content, start_offset, end_offset, position, token_count, metadata)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			content = excluded.content,
			start_offset = excluded.start_offset,
			end_offset = excluded.end_offset,
			position = excluded.position,
			token_count = excluded.token_count,
			metadata = excluded.metadata
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, chunk := range chunks {
		metadataJSON, err := json.Marshal(chunk.Metadata)
		if err != nil {
			return fmt.Errorf("marshalling chunk metadata: %w", err)
		}

		if _, err := stmt.ExecContext(ctx, chunk.ID, chunk.DocumentID,
			chunk.Scope.FolderID, chunk.Scope.OwnerID, chunk.Content,
			chunk.StartOffset, chunk.EndOffset, chunk.Index, chunk.TokenCount,
			string(metadataJSON)); err != nil {
			return fmt.Errorf("saving chunk: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// GetChunks retrieves a document's chunks ordered by index.
func (s *Store) GetChunks(ctx context.Context, scope domain.Scope, documentID string) ([]domain.Chunk, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, document_id, folder_id, owner_id, content, start_offset, end_offset, position, token_count, metadata
		FROM chunks WHERE document_id = ? AND folder_id = ? AND owner_id = ?
		ORDER BY position
	`, documentID, scope.FolderID, scope.OwnerID)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	var chunks []domain.Chunk //nolint:prealloc // size unknown from query
	for rows.Next() {
		chunk, err := scanChunk(rows)
		if err != nil {
			return nil, err
		}
		chunks = append(chunks, *chunk)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chunks: %w", err)
	}

	return chunks, nil
}

// GetChunk retrieves a specific chunk by ID within a scope.
func (s *Store) GetChunk(ctx context.Context, scope domain.Scope, id string) (*domain.Chunk, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, document_id, folder_id, owner_id, content, start_offset, end_offset, position, token_count, metadata
		FROM chunks WHERE id = ? AND folder_id = ? AND owner_id = ?
	`, id, scope.FolderID, scope.OwnerID)

	return scanChunkRow(row)
}

// SaveEmbeddings stores embeddings for previously saved chunks.
func (s *Store) SaveEmbeddings(ctx context.Context, embeddings []domain.Embedding) error {
	if len(embeddings) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO embeddings (chunk_id, folder_id, owner_id, vector, model, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(chunk_id) DO UPDATE SET
			vector = excluded.vector,
			model = excluded.model,
			created_at = excluded.created_at
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, emb := range embeddings {
		createdAt := emb.CreatedAt
		if createdAt.IsZero() {
			createdAt = time.Now().UTC()
		}
		if _, err := stmt.ExecContext(ctx, emb.ChunkID, emb.Scope.FolderID,
			emb.Scope.OwnerID, float32SliceToBytes(emb.Vector), emb.Model,
			createdAt); err != nil {
			return fmt.Errorf("saving embedding: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// ListEmbeddings returns all embeddings in a scope.
func (s *Store) ListEmbeddings(ctx context.Context, scope domain.Scope) ([]domain.Embedding, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT chunk_id, folder_id, owner_id, vector, model, created_at
		FROM embeddings WHERE folder_id = ? AND owner_id = ?
	`, scope.FolderID, scope.OwnerID)
	if err != nil {
		return nil, fmt.Errorf("querying embeddings: %w", err)
	}
	defer rows.Close()

	var embeddings []domain.Embedding //nolint:prealloc // size unknown from query
	for rows.Next() {
		var emb domain.Embedding
		var blob []byte
		var createdAt sql.NullTime
		if err := rows.Scan(&emb.ChunkID, &emb.Scope.FolderID, &emb.Scope.OwnerID,
			&blob, &emb.Model, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning embedding: %w", err)
		}
		emb.Vector = bytesToFloat32Slice(blob)
		if createdAt.Valid {
			emb.CreatedAt = createdAt.Time
		}
		embeddings = append(embeddings, emb)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating embeddings: %w", err)
	}

	return embeddings, nil
}

// DeleteScope removes everything a scope holds: documents (chunks and
// embeddings cascade) plus the knowledge graph.
func (s *Store) DeleteScope(ctx context.Context, scope domain.Scope) error {
	for _, query := range []string{
		"DELETE FROM documents WHERE folder_id = ? AND owner_id = ?",
		"DELETE FROM graph_edges WHERE folder_id = ? AND owner_id = ?",
		"DELETE FROM graph_nodes WHERE folder_id = ? AND owner_id = ?",
	} {
		if _, err := s.db.ExecContext(ctx, query, scope.FolderID, scope.OwnerID); err != nil {
			return fmt.Errorf("cleaning scope: %w", err)
		}
	}
	return nil
}

// Stats reports entity counts for a scope.
func (s *Store) Stats(ctx context.Context, scope domain.Scope) (*domain.ScopeStats, error) {
	stats := &domain.ScopeStats{}

	counts := []struct {
		query string
		dst   *int
	}{
		{"SELECT COUNT(*) FROM documents WHERE folder_id = ? AND owner_id = ?", &stats.Documents},
		{"SELECT COUNT(*) FROM chunks WHERE folder_id = ? AND owner_id = ?", &stats.Chunks},
		{"SELECT COUNT(*) FROM embeddings WHERE folder_id = ? AND owner_id = ?", &stats.Embeddings},
		{"SELECT COUNT(*) FROM graph_nodes WHERE folder_id = ? AND owner_id = ?", &stats.GraphNodes},
		{"SELECT COUNT(*) FROM graph_edges WHERE folder_id = ? AND owner_id = ?", &stats.GraphEdges},
	}

	for _, c := range counts {
		if err := s.db.QueryRowContext(ctx, c.query, scope.FolderID, scope.OwnerID).Scan(c.dst); err != nil {
			return nil, fmt.Errorf("counting scope entities: %w", err)
		}
	}

	return stats, nil
}

// ==================== Graph Store ====================

// MergeGraph appends a document graph into the scope's graph.
func (s *Store) MergeGraph(ctx context.Context, scope domain.Scope, graph domain.KnowledgeGraph) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	for _, node := range graph.Nodes {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO graph_nodes (id, folder_id, owner_id, kind, label, document_id)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				kind = excluded.kind,
				label = excluded.label,
				document_id = excluded.document_id
		`, node.ID, scope.FolderID, scope.OwnerID, string(node.Kind), node.Label,
			node.DocumentID); err != nil {
			return fmt.Errorf("saving graph node: %w", err)
		}
	}

	for _, edge := range graph.Edges {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO graph_edges (id, folder_id, owner_id, source_id, target_id, kind, weight)
			VALUES (?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				source_id = excluded.source_id,
				target_id = excluded.target_id,
				kind = excluded.kind,
				weight = excluded.weight
		`, edge.ID, scope.FolderID, scope.OwnerID, edge.SourceID, edge.TargetID,
			string(edge.Kind), edge.Weight); err != nil {
			return fmt.Errorf("saving graph edge: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// GetGraph returns the full graph for a scope.
func (s *Store) GetGraph(ctx context.Context, scope domain.Scope) (*domain.KnowledgeGraph, error) {
	graph := &domain.KnowledgeGraph{}

	nodeRows, err := s.db.QueryContext(ctx, `
		SELECT id, folder_id, owner_id, kind, label, COALESCE(document_id, '')
		FROM graph_nodes WHERE folder_id = ? AND owner_id = ?
	`, scope.FolderID, scope.OwnerID)
	if err != nil {
		return nil, fmt.Errorf("querying graph nodes: %w", err)
	}
	defer nodeRows.Close()

	for nodeRows.Next() {
		var node domain.KnowledgeNode
		var kind string
		if err := nodeRows.Scan(&node.ID, &node.Scope.FolderID, &node.Scope.OwnerID,
			&kind, &node.Label, &node.DocumentID); err != nil {
			return nil, fmt.Errorf("scanning graph node: %w", err)
		}
		node.Kind = domain.NodeKind(kind)
		graph.Nodes = append(graph.Nodes, node)
	}
	if err := nodeRows.Err(); err != nil {
		return nil, fmt.Errorf("iterating graph nodes: %w", err)
	}

	edgeRows, err := s.db.QueryContext(ctx, `
		SELECT id, folder_id, owner_id, source_id, target_id, kind, weight
		FROM graph_edges WHERE folder_id = ? AND owner_id = ?
	`, scope.FolderID, scope.OwnerID)
	if err != nil {
		return nil, fmt.Errorf("querying graph edges: %w", err)
	}
	defer edgeRows.Close()

	for edgeRows.Next() {
		var edge domain.KnowledgeEdge
		var kind string
		if err := edgeRows.Scan(&edge.ID, &edge.Scope.FolderID, &edge.Scope.OwnerID,
			&edge.SourceID, &edge.TargetID, &kind, &edge.Weight); err != nil {
			return nil, fmt.Errorf("scanning graph edge: %w", err)
		}
		edge.Kind = domain.EdgeKind(kind)
		graph.Edges = append(graph.Edges, edge)
	}
	if err := edgeRows.Err(); err != nil {
		return nil, fmt.Errorf("iterating graph edges: %w", err)
	}

	return graph, nil
}

// DeleteDocumentGraph prunes nodes derived from a document and the edges
// touching them.
func (s *Store) DeleteDocumentGraph(ctx context.Context, scope domain.Scope, documentID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	_, err = tx.ExecContext(ctx, `
		DELETE FROM graph_edges WHERE folder_id = ? AND owner_id = ? AND (
			source_id IN (SELECT id FROM graph_nodes WHERE document_id = ?) OR
			target_id IN (SELECT id FROM graph_nodes WHERE document_id = ?)
		)
	`, scope.FolderID, scope.OwnerID, documentID, documentID)
	if err != nil {
		return fmt.Errorf("deleting graph edges: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		"DELETE FROM graph_nodes WHERE folder_id = ? AND owner_id = ? AND document_id = ?",
		scope.FolderID, scope.OwnerID, documentID)
	if err != nil {
		return fmt.Errorf("deleting graph nodes: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// ==================== Helper Functions ====================

// scanner abstracts sql.Row and sql.Rows for shared scan helpers.
type scanner interface {
	Scan(dest ...any) error
}

func scanDocumentFields(sc scanner) (*domain.Document, error) {
	var doc domain.Document
	var docType, metadataJSON string
	var createdAt, updatedAt sql.NullTime
	if err := sc.Scan(&doc.ID, &doc.Scope.FolderID, &doc.Scope.OwnerID, &doc.Name,
		&docType, &doc.Content, &doc.Size, &metadataJSON, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning document: %w", err)
	}

	doc.Type = domain.DocumentType(docType)
	if metadataJSON != "" {
		if err := json.Unmarshal([]byte(metadataJSON), &doc.Metadata); err != nil {
			return nil, fmt.Errorf("unmarshaling metadata: %w", err)
		}
	}
	if createdAt.Valid {
		doc.CreatedAt = createdAt.Time
	}
	if updatedAt.Valid {
		doc.UpdatedAt = updatedAt.Time
	}

	return &doc, nil
}

func scanDocument(row *sql.Row) (*domain.Document, error) {
	return scanDocumentFields(row)
}

func scanDocumentRows(rows *sql.Rows) (*domain.Document, error) {
	return scanDocumentFields(rows)
}

func scanChunkFields(sc scanner) (*domain.Chunk, error) {
	var chunk domain.Chunk
	var metadataJSON string
	if err := sc.Scan(&chunk.ID, &chunk.DocumentID, &chunk.Scope.FolderID,
		&chunk.Scope.OwnerID, &chunk.Content, &chunk.StartOffset, &chunk.EndOffset,
		&chunk.Index, &chunk.TokenCount, &metadataJSON); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning chunk: %w", err)
	}

	if metadataJSON != "" {
		if err := json.Unmarshal([]byte(metadataJSON), &chunk.Metadata); err != nil {
			return nil, fmt.Errorf("unmarshaling chunk metadata: %w", err)
		}
	}

	return &chunk, nil
}

func scanChunk(rows *sql.Rows) (*domain.Chunk, error) {
	return scanChunkFields(rows)
}

func scanChunkRow(row *sql.Row) (*domain.Chunk, error) {
	return scanChunkFields(row)
}

// float32SliceToBytes converts a []float32 to a byte slice for storage.
func float32SliceToBytes(floats []float32) []byte {
	if len(floats) == 0 {
		return nil
	}
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a stored byte slice back to []float32.
func bytesToFloat32Slice(buf []byte) []float32 {
	if len(buf) < 4 {
		return nil
	}
	floats := make([]float32, len(buf)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(buf[i*4:]))
	}
	return floats
}
