package services

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/conversate-labs/conversate/internal/core/domain"
	"github.com/conversate-labs/conversate/internal/core/ports/driven"
)

// mockEmbedder returns deterministic vectors from a lookup table, with
// a stable fallback so every text embeds successfully. batchDelay
// makes EmbedBatch slow and context-aware, like a remote backend.
type mockEmbedder struct {
	vectors    map[string][]float32
	err        error
	batchDelay time.Duration

	mu    sync.Mutex
	calls int
}

func (m *mockEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	if vec, ok := m.vectors[text]; ok {
		return vec, nil
	}
	// Stable fallback derived from the text length.
	return []float32{float32(len(text)%7 + 1), 1, 0.5}, nil
}

func (m *mockEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if m.batchDelay > 0 {
		select {
		case <-time.After(m.batchDelay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	out := make([][]float32, len(texts))
	for i, text := range texts {
		vec, err := m.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		out[i] = vec
	}
	return out, nil
}

func (m *mockEmbedder) Dimensions() int                { return 3 }
func (m *mockEmbedder) ModelName() string              { return "mock-embed" }
func (m *mockEmbedder) Ping(ctx context.Context) error { return nil }
func (m *mockEmbedder) Close() error                   { return nil }

// mockCompleter returns a canned completion or blocks until the
// context is cancelled.
type mockCompleter struct {
	response string
	err      error
	hang     bool

	mu          sync.Mutex
	lastContext string
	lastQuery   string
}

func (m *mockCompleter) Complete(ctx context.Context, contextText, query string, opts driven.CompleteOptions) (string, error) {
	m.mu.Lock()
	m.lastContext = contextText
	m.lastQuery = query
	m.mu.Unlock()

	if m.hang {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return m.response, m.err
}

func (m *mockCompleter) ModelName() string              { return "mock-complete" }
func (m *mockCompleter) Ping(ctx context.Context) error { return nil }
func (m *mockCompleter) Close() error                   { return nil }

// fileVectorStore is an in-memory-free vector store for tests: it
// persists collections as JSON inside the index directory, so atomic
// directory swaps and restarts behave like the real storage. The file
// is named like the production storage file so existence checks hold.
type fileVectorStore struct{}

type fileVectorData map[string][]domain.Chunk

func (s *fileVectorStore) Open(dir string) (driven.VectorStorage, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, err
	}
	path := filepath.Join(dir, domain.VectorDBFile)
	data := fileVectorData{}
	if raw, err := os.ReadFile(path); err == nil {
		if err := json.Unmarshal(raw, &data); err != nil {
			return nil, err
		}
	}
	return &fileVectorStorage{path: path, data: data}, nil
}

type fileVectorStorage struct {
	mu   sync.Mutex
	path string
	data fileVectorData
}

func (s *fileVectorStorage) GetOrCreateCollection(ctx context.Context, name string) (driven.Collection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data[name]; !ok {
		s.data[name] = nil
		if err := s.flush(); err != nil {
			return nil, err
		}
	}
	return &fileVectorCollection{storage: s, name: name}, nil
}

func (s *fileVectorStorage) GetCollection(ctx context.Context, name string) (driven.Collection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data[name]; !ok {
		return nil, fmt.Errorf("collection %s: %w", name, domain.ErrNotFound)
	}
	return &fileVectorCollection{storage: s, name: name}, nil
}

func (s *fileVectorStorage) Close() error { return nil }

func (s *fileVectorStorage) flush() error {
	raw, err := json.Marshal(s.data)
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, raw, 0o600)
}

type fileVectorCollection struct {
	storage *fileVectorStorage
	name    string
}

func (c *fileVectorCollection) Name() string { return c.name }

func (c *fileVectorCollection) Insert(ctx context.Context, chunks []domain.Chunk) error {
	c.storage.mu.Lock()
	defer c.storage.mu.Unlock()
	c.storage.data[c.name] = append(c.storage.data[c.name], chunks...)
	return c.storage.flush()
}

func (c *fileVectorCollection) Count(ctx context.Context) (int, error) {
	c.storage.mu.Lock()
	defer c.storage.mu.Unlock()
	return len(c.storage.data[c.name]), nil
}

func (c *fileVectorCollection) Query(ctx context.Context, vector []float32, k int) ([]driven.VectorHit, error) {
	c.storage.mu.Lock()
	defer c.storage.mu.Unlock()

	var hits []driven.VectorHit
	for _, chunk := range c.storage.data[c.name] {
		hits = append(hits, driven.VectorHit{
			Chunk:      chunk,
			Similarity: testCosine(vector, chunk.Embedding),
		})
	}
	sort.Slice(hits, func(i, j int) bool { return hits[i].Similarity > hits[j].Similarity })
	if len(hits) > k {
		hits = hits[:k]
	}
	return hits, nil
}

func testCosine(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// mockRetriever feeds canned hits to the knowledge service.
type mockRetriever struct {
	hits  []driven.VectorHit
	err   error
	lastK int
}

func (m *mockRetriever) Retrieve(ctx context.Context, dom, query string, k int) ([]driven.VectorHit, error) {
	m.lastK = k
	if m.err != nil {
		return nil, m.err
	}
	return m.hits, nil
}

// mockIndexManager records invalidations for watcher tests.
type mockIndexManager struct {
	mu          sync.Mutex
	invalidated []string
}

func (m *mockIndexManager) NeedsRebuild(dom string) (bool, error) { return false, nil }
func (m *mockIndexManager) EnsureIndex(ctx context.Context, dom string) (*domain.IndexInfo, error) {
	return &domain.IndexInfo{Domain: dom}, nil
}
func (m *mockIndexManager) Rebuild(ctx context.Context, dom string) (*domain.IndexInfo, error) {
	return &domain.IndexInfo{Domain: dom}, nil
}
func (m *mockIndexManager) Invalidate(dom string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.invalidated = append(m.invalidated, dom)
}

func (m *mockIndexManager) invalidations() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.invalidated...)
}

// hits collects retrieval hits for literal test setup.
func hits(hs ...driven.VectorHit) []driven.VectorHit {
	return hs
}

// hitFor builds a retrieval hit with file attribution.
func hitFor(content, fileName string, score float64) driven.VectorHit {
	return driven.VectorHit{
		Chunk: domain.Chunk{
			ID:       content,
			Content:  content,
			Metadata: map[string]any{"file_name": fileName},
		},
		Similarity: score,
	}
}
