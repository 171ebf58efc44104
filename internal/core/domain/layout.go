package domain

import (
	"path/filepath"
	"strings"
)

// File names inside a domain's directories. These are load-bearing for
// compatibility with previously persisted data.
const (
	// DocstoreFile holds chunk metadata for a persisted index. Its
	// modification time is the index build timestamp used by freshness
	// checks, and its "docstore/metadata" key count is the indexed
	// document count reported by health checks.
	DocstoreFile = "docstore.json"

	// VectorDBFile is the vector storage file inside an index directory.
	VectorDBFile = "chroma.sqlite3"

	// ImportMetadataFile records the last bulk import into a domain.
	ImportMetadataFile = "_import_metadata.json"

	// DocstoreMetadataKey is the top-level docstore.json key mapping
	// chunk ID to metadata.
	DocstoreMetadataKey = "docstore/metadata"
)

// Layout derives the on-disk location of a domain's documents and index
// from a base data directory. It is pure path arithmetic.
type Layout struct {
	// DataDir is the base directory, typically "data".
	DataDir string
}

// DomainDir returns the source-document directory for a domain.
func (l Layout) DomainDir(domain string) string {
	return filepath.Join(l.DataDir, domain)
}

// IndexesDir returns the directory holding all persisted indexes.
func (l Layout) IndexesDir() string {
	return filepath.Join(l.DataDir, "indexes")
}

// IndexDir returns the persisted index directory for a domain.
func (l Layout) IndexDir(domain string) string {
	return filepath.Join(l.IndexesDir(), domain+"_index")
}

// DocstorePath returns the docstore.json path for a domain's index.
func (l Layout) DocstorePath(domain string) string {
	return filepath.Join(l.IndexDir(domain), DocstoreFile)
}

// VectorDBPath returns the vector storage path for a domain's index.
func (l Layout) VectorDBPath(domain string) string {
	return filepath.Join(l.IndexDir(domain), VectorDBFile)
}

// ImportMetadataPath returns the import metadata path for a domain.
func (l Layout) ImportMetadataPath(domain string) string {
	return filepath.Join(l.DomainDir(domain), ImportMetadataFile)
}

// IsInternalFile reports whether a file name is internal bookkeeping
// (metadata, backups, skip markers) rather than a source document.
// Internal files are prefixed with an underscore and excluded from
// document counts and indexing.
func IsInternalFile(name string) bool {
	return strings.HasPrefix(filepath.Base(name), "_")
}
