// Package sqlite provides a persistent vector store backed by SQLite.
//
// Each index directory holds one storage file, chroma.sqlite3, with a
// collections table and an embeddings table. Collections are addressed
// by name; similarity search is exact cosine similarity over the
// collection's vectors, which is comfortably fast at per-domain corpus
// sizes.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/conversate-labs/conversate/internal/core/domain"
	"github.com/conversate-labs/conversate/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.VectorStore = (*Store)(nil)

const schema = `
CREATE TABLE IF NOT EXISTS collections (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL UNIQUE,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE IF NOT EXISTS embeddings (
	id TEXT PRIMARY KEY,
	collection_id INTEGER NOT NULL REFERENCES collections(id) ON DELETE CASCADE,
	document_id TEXT NOT NULL,
	content TEXT NOT NULL,
	position INTEGER NOT NULL,
	embedding BLOB NOT NULL,
	metadata TEXT NOT NULL DEFAULT '{}'
);
CREATE INDEX IF NOT EXISTS idx_embeddings_collection ON embeddings(collection_id);
`

// Store opens SQLite-backed vector storage inside index directories.
type Store struct{}

// NewStore creates a new SQLite vector store.
func NewStore() *Store {
	return &Store{}
}

// Open returns a storage handle on dir, creating the storage file and
// schema if they do not exist.
func (s *Store) Open(dir string) (driven.VectorStorage, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	dbPath := filepath.Join(dir, domain.VectorDBFile)

	// WAL mode so health checks can read during writes
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening vector database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &storage{db: db, path: dbPath}, nil
}

// storage implements driven.VectorStorage over one database file.
type storage struct {
	db   *sql.DB
	path string
}

// GetOrCreateCollection returns the named collection, creating it if absent.
func (st *storage) GetOrCreateCollection(ctx context.Context, name string) (driven.Collection, error) {
	_, err := st.db.ExecContext(ctx,
		"INSERT INTO collections (name) VALUES (?) ON CONFLICT(name) DO NOTHING", name)
	if err != nil {
		return nil, fmt.Errorf("creating collection %s: %w", name, err)
	}
	return st.GetCollection(ctx, name)
}

// GetCollection returns the named collection or domain.ErrNotFound.
func (st *storage) GetCollection(ctx context.Context, name string) (driven.Collection, error) {
	var id int64
	row := st.db.QueryRowContext(ctx, "SELECT id FROM collections WHERE name = ?", name)
	if err := row.Scan(&id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("collection %s: %w", name, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("looking up collection %s: %w", name, err)
	}
	return &collection{db: st.db, id: id, name: name}, nil
}

// Close closes the database connection.
func (st *storage) Close() error {
	return st.db.Close()
}

// collection implements driven.Collection.
type collection struct {
	db   *sql.DB
	id   int64
	name string
}

// Name returns the collection name.
func (c *collection) Name() string {
	return c.name
}

// Insert writes chunks with their embeddings and metadata.
func (c *collection) Insert(ctx context.Context, chunks []domain.Chunk) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO embeddings (id, collection_id, document_id, content, position, embedding, metadata)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			document_id = excluded.document_id,
			content = excluded.content,
			position = excluded.position,
			embedding = excluded.embedding,
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

		if _, err := stmt.ExecContext(ctx, chunk.ID, c.id, chunk.DocumentID, chunk.Content,
			chunk.Position, float32SliceToBytes(chunk.Embedding), string(metadataJSON)); err != nil {
			return fmt.Errorf("inserting chunk %s: %w", chunk.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// Count returns the number of stored vectors.
func (c *collection) Count(ctx context.Context) (int, error) {
	var count int
	row := c.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM embeddings WHERE collection_id = ?", c.id)
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("counting embeddings: %w", err)
	}
	return count, nil
}

// Query returns the k nearest chunks by cosine similarity.
func (c *collection) Query(ctx context.Context, vector []float32, k int) ([]driven.VectorHit, error) {
	if k <= 0 {
		return nil, domain.ErrInvalidInput
	}

	rows, err := c.db.QueryContext(ctx, `
		SELECT id, document_id, content, position, embedding, metadata
		FROM embeddings WHERE collection_id = ?
	`, c.id)
	if err != nil {
		return nil, fmt.Errorf("querying embeddings: %w", err)
	}
	defer rows.Close()

	var hits []driven.VectorHit
	for rows.Next() {
		var chunk domain.Chunk
		var blob []byte
		var metadataJSON string
		if err := rows.Scan(&chunk.ID, &chunk.DocumentID, &chunk.Content,
			&chunk.Position, &blob, &metadataJSON); err != nil {
			return nil, fmt.Errorf("scanning embedding: %w", err)
		}
		if err := json.Unmarshal([]byte(metadataJSON), &chunk.Metadata); err != nil {
			return nil, fmt.Errorf("unmarshaling chunk metadata: %w", err)
		}
		chunk.Embedding = bytesToFloat32Slice(blob)

		hits = append(hits, driven.VectorHit{
			Chunk:      chunk,
			Similarity: cosineSimilarity(vector, chunk.Embedding),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating embeddings: %w", err)
	}

	sort.Slice(hits, func(i, j int) bool {
		return hits[i].Similarity > hits[j].Similarity
	})
	if len(hits) > k {
		hits = hits[:k]
	}
	return hits, nil
}

// cosineSimilarity returns the cosine similarity of two vectors,
// 0 for mismatched or zero-length inputs.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
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

// bytesToFloat32Slice converts a byte slice back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	if len(data) == 0 {
		return nil
	}
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}
