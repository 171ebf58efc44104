package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conversate-labs/conversate/internal/core/domain"
	"github.com/conversate-labs/conversate/internal/core/ports/driven"
)

func newTestHealthService(t *testing.T) (*HealthService, domain.Layout) {
	t.Helper()
	layout := domain.Layout{DataDir: t.TempDir()}
	return NewHealthService(layout, &fileVectorStore{}), layout
}

func TestCheckMissingDomainDirectory(t *testing.T) {
	svc, _ := newTestHealthService(t)

	report := svc.Check(context.Background(), "agriculture")

	assert.Equal(t, domain.HealthError, report.Status)
	assert.Contains(t, report.Issues, "Documents directory does not exist")
	assert.Equal(t, -1, report.EmbeddingCount)
}

func TestCheckNoDocuments(t *testing.T) {
	svc, layout := newTestHealthService(t)
	require.NoError(t, os.MkdirAll(layout.DomainDir("agriculture"), 0o700))

	report := svc.Check(context.Background(), "agriculture")

	assert.Equal(t, domain.HealthWarning, report.Status)
	assert.Contains(t, report.Issues, "No documents found")
	assert.Zero(t, report.DocumentCount)
}

func TestCheckIndexNotBuilt(t *testing.T) {
	svc, layout := newTestHealthService(t)
	writeDomainFile(t, layout, "agriculture", "crops.txt", "wheat", time.Now())

	report := svc.Check(context.Background(), "agriculture")

	assert.Equal(t, domain.HealthWarning, report.Status)
	assert.Contains(t, report.Issues, "Index has not been built")
	assert.Equal(t, 1, report.DocumentCount)
}

func TestCheckMissingIndexFiles(t *testing.T) {
	svc, layout := newTestHealthService(t)
	writeDomainFile(t, layout, "agriculture", "crops.txt", "wheat", time.Now())
	require.NoError(t, os.MkdirAll(layout.IndexDir("agriculture"), 0o700))

	report := svc.Check(context.Background(), "agriculture")

	assert.Equal(t, domain.HealthError, report.Status)
	assert.Contains(t, report.Issues, "Missing index file: docstore.json")
	assert.Contains(t, report.Issues, "Missing index file: chroma.sqlite3")
}

func TestCheckDocumentCountMismatch(t *testing.T) {
	svc, layout := newTestHealthService(t)
	for i := 0; i < 5; i++ {
		writeDomainFile(t, layout, "agriculture", fmt.Sprintf("doc%d.txt", i), "content", time.Now())
	}
	writeIndexFixture(t, layout, "agriculture", 3)

	report := svc.Check(context.Background(), "agriculture")

	assert.Equal(t, domain.HealthWarning, report.Status)
	assert.Contains(t, report.Issues, "Document count mismatch: 5 docs but 3 in index")
	assert.Equal(t, 5, report.DocumentCount)
	assert.Equal(t, 3, report.IndexDocumentCount)
}

func TestCheckHealthyDomain(t *testing.T) {
	svc, layout := newTestHealthService(t)
	writeDomainFile(t, layout, "agriculture", "crops.txt", "wheat", time.Now())
	writeIndexFixture(t, layout, "agriculture", 1)

	report := svc.Check(context.Background(), "agriculture")

	assert.Equal(t, domain.HealthHealthy, report.Status)
	assert.Empty(t, report.Issues)
	assert.Equal(t, 1, report.DocumentCount)
	assert.Equal(t, 1, report.IndexDocumentCount)
	assert.Equal(t, 1, report.EmbeddingCount)
}

func TestCheckMissingCollection(t *testing.T) {
	svc, layout := newTestHealthService(t)
	writeDomainFile(t, layout, "agriculture", "crops.txt", "wheat", time.Now())
	// Index fixture written under the wrong collection name.
	writeIndexFixtureCollection(t, layout, "agriculture", "other", 1)

	report := svc.Check(context.Background(), "agriculture")

	assert.Equal(t, domain.HealthError, report.Status)
	assert.Contains(t, report.Issues, `Vector collection "agriculture" missing`)
	assert.Equal(t, -1, report.EmbeddingCount)
}

func TestCheckEmptyCollection(t *testing.T) {
	svc, layout := newTestHealthService(t)
	writeDomainFile(t, layout, "agriculture", "crops.txt", "wheat", time.Now())
	writeIndexFixture(t, layout, "agriculture", 0)

	report := svc.Check(context.Background(), "agriculture")

	assert.Equal(t, domain.HealthWarning, report.Status)
	assert.Contains(t, report.Issues, "Vector collection is empty")
	assert.Equal(t, 0, report.EmbeddingCount)
}

func TestCheckIgnoresInternalFiles(t *testing.T) {
	svc, layout := newTestHealthService(t)
	writeDomainFile(t, layout, "agriculture", "crops.txt", "wheat", time.Now())
	writeDomainFile(t, layout, "agriculture", "_import_metadata.json", "{}", time.Now())
	writeDomainFile(t, layout, "agriculture", "_backup_old.txt", "stale", time.Now())
	writeIndexFixture(t, layout, "agriculture", 1)

	report := svc.Check(context.Background(), "agriculture")

	assert.Equal(t, 1, report.DocumentCount)
	assert.Equal(t, domain.HealthHealthy, report.Status)
}

func TestCheckAllAndDomains(t *testing.T) {
	svc, layout := newTestHealthService(t)
	writeDomainFile(t, layout, "restaurant", "menu.txt", "shawarma", time.Now())
	writeDomainFile(t, layout, "agriculture", "crops.txt", "wheat", time.Now())
	require.NoError(t, os.MkdirAll(layout.IndexesDir(), 0o700))
	require.NoError(t, os.MkdirAll(filepath.Join(layout.DataDir, "_scratch"), 0o700))

	domains, err := svc.Domains()
	require.NoError(t, err)
	assert.Equal(t, []string{"agriculture", "restaurant"}, domains)

	reports, err := svc.CheckAll(context.Background())
	require.NoError(t, err)
	require.Len(t, reports, 2)
	assert.Equal(t, "agriculture", reports[0].Domain)
	assert.Equal(t, "restaurant", reports[1].Domain)
}

func TestDomainsMissingDataDir(t *testing.T) {
	svc := NewHealthService(domain.Layout{DataDir: filepath.Join(t.TempDir(), "absent")}, &fileVectorStore{})

	domains, err := svc.Domains()
	require.NoError(t, err)
	assert.Empty(t, domains)
}

// writeIndexFixture builds a minimal on-disk index: a docstore with n
// entries and a vector collection named after the domain holding n
// chunks.
func writeIndexFixture(t *testing.T, layout domain.Layout, dom string, n int) {
	t.Helper()
	writeIndexFixtureCollection(t, layout, dom, dom, n)
}

func writeIndexFixtureCollection(t *testing.T, layout domain.Layout, dom, collection string, n int) {
	t.Helper()

	chunks := make([]domain.Chunk, n)
	for i := range chunks {
		chunks[i] = domain.Chunk{
			ID:        fmt.Sprintf("chunk-%d", i),
			Content:   fmt.Sprintf("content %d", i),
			Embedding: []float32{1, 0, 0},
			Metadata:  map[string]any{"file_name": fmt.Sprintf("doc%d.txt", i)},
		}
	}

	storage, err := (&fileVectorStore{}).Open(layout.IndexDir(dom))
	require.NoError(t, err)
	defer storage.Close()

	var coll driven.Collection
	coll, err = storage.GetOrCreateCollection(context.Background(), collection)
	require.NoError(t, err)
	require.NoError(t, coll.Insert(context.Background(), chunks))

	require.NoError(t, writeDocstore(layout.DocstorePath(dom), chunks))
}
