package domain

import "time"

// Document represents a source document loaded from a knowledge domain's
// document directory. It is the canonical representation before chunking.
type Document struct {
	// ID is the unique identifier for the document.
	ID string

	// Domain is the business domain this document belongs to.
	Domain string

	// FileName is the base name of the originating file.
	// It is carried into chunk metadata for source attribution.
	FileName string

	// Path is the absolute path of the originating file, empty for
	// synthesised documents.
	Path string

	// Content is the full text content.
	Content string

	// Synthesised marks documents generated from business configuration
	// rather than loaded from disk.
	Synthesised bool

	// Size is the file size in bytes.
	Size int64

	// ModTime is the file's last modification time.
	ModTime time.Time

	// Metadata contains arbitrary key-value pairs.
	Metadata map[string]any
}

// Chunk represents an embedded unit within a document.
// Documents are split into chunks before indexing.
type Chunk struct {
	// ID is the unique identifier for the chunk.
	ID string

	// DocumentID links to the parent Document.
	DocumentID string

	// Content is the text content of this chunk.
	Content string

	// Position is the ordinal position within the document.
	Position int

	// Embedding is the vector representation for similarity search.
	Embedding []float32

	// Metadata contains chunk-specific key-value pairs.
	// The "file_name" key identifies the originating file.
	Metadata map[string]any
}

// FileName returns the originating file name recorded in chunk metadata.
func (c Chunk) FileName() string {
	if c.Metadata == nil {
		return ""
	}
	if name, ok := c.Metadata["file_name"].(string); ok {
		return name
	}
	return ""
}

// ImportMetadata records the outcome of the most recent bulk import
// into a domain. It is advisory only; freshness decisions use file
// modification times, not this record.
type ImportMetadata struct {
	LastImport ImportRecord `json:"last_import"`
}

// ImportRecord holds the details of a single import run.
type ImportRecord struct {
	Timestamp      time.Time `json:"timestamp"`
	FilesCount     int       `json:"files_count"`
	BusinessDomain string    `json:"business_domain"`
}

// FileReport describes the validation outcome for a single source file.
type FileReport struct {
	// Path is the file location.
	Path string

	// FileType is the extension without the leading dot.
	FileType string

	// SizeBytes is the file size.
	SizeBytes int64

	// Valid is true when the file passed all checks.
	Valid bool

	// Reason explains why the file was rejected.
	Reason string
}

// BusinessInfo carries the minimal business facts needed to synthesise
// a fallback document when a domain has no source documents.
type BusinessInfo struct {
	Name        string
	Description string
	Services    []string
}
