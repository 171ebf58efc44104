package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conversate-labs/conversate/internal/core/domain"
	"github.com/conversate-labs/conversate/internal/core/ports/driven"
)

func TestStoreOpenCreatesDatabaseFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "farm_index")

	storage, err := NewStore().Open(dir)
	require.NoError(t, err)
	defer storage.Close()

	_, err = os.Stat(filepath.Join(dir, domain.VectorDBFile))
	assert.NoError(t, err)
}

func TestGetCollectionMissing(t *testing.T) {
	storage := openTestStorage(t)

	_, err := storage.GetCollection(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGetOrCreateCollectionIsIdempotent(t *testing.T) {
	storage := openTestStorage(t)
	ctx := context.Background()

	first, err := storage.GetOrCreateCollection(ctx, "agriculture")
	require.NoError(t, err)
	second, err := storage.GetOrCreateCollection(ctx, "agriculture")
	require.NoError(t, err)

	assert.Equal(t, "agriculture", first.Name())
	assert.Equal(t, "agriculture", second.Name())
}

func TestInsertAndCount(t *testing.T) {
	storage := openTestStorage(t)
	ctx := context.Background()

	coll, err := storage.GetOrCreateCollection(ctx, "restaurant")
	require.NoError(t, err)

	chunks := []domain.Chunk{
		testChunk("c1", "doc1", "shawarma with garlic sauce", []float32{1, 0, 0}),
		testChunk("c2", "doc1", "open seven days a week", []float32{0, 1, 0}),
	}
	require.NoError(t, coll.Insert(ctx, chunks))

	count, err := coll.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestInsertUpsertsExistingChunk(t *testing.T) {
	storage := openTestStorage(t)
	ctx := context.Background()

	coll, err := storage.GetOrCreateCollection(ctx, "restaurant")
	require.NoError(t, err)

	require.NoError(t, coll.Insert(ctx, []domain.Chunk{
		testChunk("c1", "doc1", "old content", []float32{1, 0, 0}),
	}))
	require.NoError(t, coll.Insert(ctx, []domain.Chunk{
		testChunk("c1", "doc1", "new content", []float32{1, 0, 0}),
	}))

	count, err := coll.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	hits, err := coll.Query(ctx, []float32{1, 0, 0}, 1)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "new content", hits[0].Chunk.Content)
}

func TestQueryReturnsNearestFirst(t *testing.T) {
	storage := openTestStorage(t)
	ctx := context.Background()

	coll, err := storage.GetOrCreateCollection(ctx, "agriculture")
	require.NoError(t, err)

	require.NoError(t, coll.Insert(ctx, []domain.Chunk{
		testChunk("c1", "doc1", "wheat planting season", []float32{1, 0, 0}),
		testChunk("c2", "doc1", "rice irrigation", []float32{0, 1, 0}),
		testChunk("c3", "doc2", "cotton pest control", []float32{0.9, 0.1, 0}),
	}))

	hits, err := coll.Query(ctx, []float32{1, 0, 0}, 2)
	require.NoError(t, err)
	require.Len(t, hits, 2)

	assert.Equal(t, "c1", hits[0].Chunk.ID)
	assert.Equal(t, "c3", hits[1].Chunk.ID)
	assert.Greater(t, hits[0].Similarity, hits[1].Similarity)
}

func TestQueryPreservesMetadata(t *testing.T) {
	storage := openTestStorage(t)
	ctx := context.Background()

	coll, err := storage.GetOrCreateCollection(ctx, "agriculture")
	require.NoError(t, err)

	chunk := testChunk("c1", "doc1", "wheat facts", []float32{1, 0})
	chunk.Metadata = map[string]any{"file_name": "crops.txt"}
	require.NoError(t, coll.Insert(ctx, []domain.Chunk{chunk}))

	hits, err := coll.Query(ctx, []float32{1, 0}, 1)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "crops.txt", hits[0].Chunk.FileName())
}

func TestQueryInvalidK(t *testing.T) {
	storage := openTestStorage(t)
	ctx := context.Background()

	coll, err := storage.GetOrCreateCollection(ctx, "agriculture")
	require.NoError(t, err)

	_, err = coll.Query(ctx, []float32{1}, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestQueryMoreThanStored(t *testing.T) {
	storage := openTestStorage(t)
	ctx := context.Background()

	coll, err := storage.GetOrCreateCollection(ctx, "agriculture")
	require.NoError(t, err)

	require.NoError(t, coll.Insert(ctx, []domain.Chunk{
		testChunk("c1", "doc1", "only chunk", []float32{1, 0}),
	}))

	hits, err := coll.Query(ctx, []float32{1, 0}, 10)
	require.NoError(t, err)
	assert.Len(t, hits, 1)
}

func TestFloat32RoundTrip(t *testing.T) {
	original := []float32{0.1, -2.5, 3.14159, 0, 1e-7}
	assert.Equal(t, original, bytesToFloat32Slice(float32SliceToBytes(original)))
	assert.Nil(t, float32SliceToBytes(nil))
	assert.Nil(t, bytesToFloat32Slice(nil))
}

func TestCosineSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, cosineSimilarity([]float32{1, 0}, []float32{1, 0}), 1e-9)
	assert.InDelta(t, 0.0, cosineSimilarity([]float32{1, 0}, []float32{0, 1}), 1e-9)
	assert.InDelta(t, -1.0, cosineSimilarity([]float32{1, 0}, []float32{-1, 0}), 1e-9)
	assert.Equal(t, 0.0, cosineSimilarity([]float32{1, 0}, []float32{1}))
	assert.Equal(t, 0.0, cosineSimilarity(nil, nil))
}

func openTestStorage(t *testing.T) driven.VectorStorage {
	t.Helper()
	storage, err := NewStore().Open(filepath.Join(t.TempDir(), "test_index"))
	require.NoError(t, err)
	t.Cleanup(func() { storage.Close() })
	return storage
}

func testChunk(id, docID, content string, embedding []float32) domain.Chunk {
	return domain.Chunk{
		ID:         id,
		DocumentID: docID,
		Content:    content,
		Position:   0,
		Embedding:  embedding,
		Metadata:   map[string]any{},
	}
}
