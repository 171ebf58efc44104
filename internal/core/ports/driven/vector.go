package driven

import (
	"context"

	"github.com/conversate-labs/conversate/internal/core/domain"
)

// VectorStore opens persistent vector storage rooted at a directory.
// Storage survives process restarts; a store opened on an existing
// directory sees collections written by previous runs.
type VectorStore interface {
	// Open returns a handle on the storage inside dir, creating the
	// storage file if it does not exist.
	Open(dir string) (VectorStorage, error)
}

// VectorStorage is an open handle on one index directory's vectors.
type VectorStorage interface {
	// GetOrCreateCollection returns the named collection, creating it
	// if absent.
	GetOrCreateCollection(ctx context.Context, name string) (Collection, error)

	// GetCollection returns the named collection or domain.ErrNotFound.
	GetCollection(ctx context.Context, name string) (Collection, error)

	// Close releases the storage handle.
	Close() error
}

// Collection is a named set of embedded chunks for one domain.
type Collection interface {
	// Name returns the collection name.
	Name() string

	// Insert writes chunks with their embeddings and metadata.
	Insert(ctx context.Context, chunks []domain.Chunk) error

	// Count returns the number of stored vectors.
	Count(ctx context.Context) (int, error)

	// Query returns the k nearest chunks to the query vector, most
	// similar first.
	Query(ctx context.Context, vector []float32, k int) ([]VectorHit, error)
}

// VectorHit is one similarity search result.
type VectorHit struct {
	// Chunk is the matched chunk with its metadata.
	Chunk domain.Chunk

	// Similarity is the cosine similarity score (0-1).
	Similarity float64
}
