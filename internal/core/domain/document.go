package domain

import "time"

// DocumentType classifies the source format of an ingested document.
type DocumentType string

// Supported document types.
const (
	DocumentTypeText     DocumentType = "text"
	DocumentTypeCode     DocumentType = "code"
	DocumentTypeMarkdown DocumentType = "markdown"
	DocumentTypeJSON     DocumentType = "json"
	DocumentTypeURL      DocumentType = "url"
	DocumentTypePDF      DocumentType = "pdf"
)

// Valid reports whether the document type is one of the supported values.
func (t DocumentType) Valid() bool {
	switch t {
	case DocumentTypeText, DocumentTypeCode, DocumentTypeMarkdown,
		DocumentTypeJSON, DocumentTypeURL, DocumentTypePDF:
		return true
	}
	return false
}

// DocumentMeta carries the known metadata fields of a document plus a
// bounded escape hatch for extension data.
type DocumentMeta struct {
	// Source describes where the content came from (file path, URL, ...).
	Source string

	// Language is an optional language or syntax hint.
	Language string

	// Extra holds extension key-value pairs not covered by known fields.
	Extra map[string]string
}

// Document represents an ingested document within a scope.
// Deleting a document cascades to its chunks, embeddings and graph nodes.
type Document struct {
	// ID is the unique identifier for the document.
	ID string

	// Scope is the (folder, owner) pair the document belongs to.
	Scope Scope

	// Name is the human-readable document name.
	Name string

	// Type classifies the source format.
	Type DocumentType

	// Content is the full text content before chunking.
	Content string

	// Size is the content length in bytes.
	Size int

	// Metadata contains document metadata.
	Metadata DocumentMeta

	// CreatedAt is when the document was first ingested.
	CreatedAt time.Time

	// UpdatedAt is when the document was last updated.
	UpdatedAt time.Time
}

// ChunkMeta carries the known metadata fields of a chunk plus a bounded
// escape hatch for extension data.
type ChunkMeta struct {
	// DocumentName is denormalised from the parent document for display.
	DocumentName string

	// Extra holds extension key-value pairs not covered by known fields.
	Extra map[string]string
}

// Chunk is a bounded, possibly-overlapping span of a document's text and
// the unit of retrieval. Offsets are monotonic per document; content after
// the first chunk includes an overlap region shared with its predecessor.
type Chunk struct {
	// ID is the unique identifier for the chunk.
	ID string

	// DocumentID links to the parent Document.
	DocumentID string

	// Scope mirrors the parent document's scope.
	Scope Scope

	// Content is the text content of this chunk.
	Content string

	// StartOffset is the byte offset of the chunk start in the source content.
	StartOffset int

	// EndOffset is the byte offset just past the chunk end.
	EndOffset int

	// Index is the emission order of the chunk within its document.
	Index int

	// TokenCount is the estimated token count of Content.
	TokenCount int

	// Metadata contains chunk metadata.
	Metadata ChunkMeta
}

// Embedding is the fixed-dimension normalised vector for a chunk.
// It shares its identifier with the chunk (1:1).
type Embedding struct {
	// ChunkID identifies both the embedding and its chunk.
	ChunkID string

	// Scope mirrors the chunk's scope.
	Scope Scope

	// Vector is L2-normalised and has length equal to the model's
	// declared dimension.
	Vector []float32

	// Model is the identifier of the model that produced the vector.
	Model string

	// CreatedAt is when the embedding was computed.
	CreatedAt time.Time
}
