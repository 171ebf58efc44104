package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/conversate-labs/conversate/internal/chunker"
	"github.com/conversate-labs/conversate/internal/core/domain"
	"github.com/conversate-labs/conversate/internal/core/ports/driven"
	"github.com/conversate-labs/conversate/internal/logger"
)

// sampleDocumentName is the file synthesised into an empty domain
// directory so the index always has at least one document.
const sampleDocumentName = "sample_info.txt"

// indexBuilder constructs a persisted index for one domain: load,
// chunk, embed, store. Builds go into a scratch directory that is
// atomically swapped into place, so a crash mid-build never corrupts
// the previous index.
type indexBuilder struct {
	layout   domain.Layout
	loader   driven.DocumentLoader
	embedder driven.EmbeddingService
	vectors  driven.VectorStore
	splitter *chunker.Processor
	business domain.BusinessInfo
}

func newIndexBuilder(
	layout domain.Layout,
	loader driven.DocumentLoader,
	embedder driven.EmbeddingService,
	vectors driven.VectorStore,
	splitter *chunker.Processor,
	business domain.BusinessInfo,
) *indexBuilder {
	return &indexBuilder{
		layout:   layout,
		loader:   loader,
		embedder: embedder,
		vectors:  vectors,
		splitter: splitter,
		business: business,
	}
}

// Build constructs a fresh index for dom and swaps it into place.
// The caller holds the domain lock.
func (b *indexBuilder) Build(ctx context.Context, dom string) (*domain.IndexInfo, error) {
	logger.Section("Index Build: " + dom)

	docDir := b.layout.DomainDir(dom)
	if err := os.MkdirAll(docDir, 0o700); err != nil {
		return nil, fmt.Errorf("%w: creating document directory: %v", domain.ErrBuild, err)
	}

	docs, err := b.loadDocuments(ctx, dom, docDir)
	if err != nil {
		return nil, err
	}
	logger.Debug("Loaded %d documents for %s", len(docs), dom)

	chunks := make([]domain.Chunk, 0, len(docs))
	for i := range docs {
		chunks = append(chunks, b.splitter.Split(&docs[i])...)
	}

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Content
	}
	embeddings, err := b.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("%w: embedding %d chunks: %v", domain.ErrBuild, len(chunks), err)
	}
	for i := range chunks {
		chunks[i].Embedding = embeddings[i]
	}

	finalDir := b.layout.IndexDir(dom)
	buildDir := finalDir + ".build"
	if err := b.writeIndex(ctx, dom, buildDir, chunks); err != nil {
		os.RemoveAll(buildDir)
		return nil, err
	}

	if err := swapIndexDir(buildDir, finalDir); err != nil {
		os.RemoveAll(buildDir)
		return nil, fmt.Errorf("%w: swapping index into place: %v", domain.ErrBuild, err)
	}

	logger.Info("Built index for %s: %d documents, %d chunks", dom, len(docs), len(chunks))
	return &domain.IndexInfo{
		Domain:        dom,
		Dir:           finalDir,
		DocumentCount: len(docs),
		ChunkCount:    len(chunks),
		BuiltAt:       time.Now(),
		State:         domain.IndexPresent,
	}, nil
}

// loadDocuments reads the domain's documents, synthesising a sample
// document first when the directory has no source documents at all.
func (b *indexBuilder) loadDocuments(ctx context.Context, dom, docDir string) ([]domain.Document, error) {
	if err := b.ensureSampleDocument(dom, docDir); err != nil {
		return nil, err
	}

	result, err := b.loader.Load(ctx, docDir)
	if err != nil {
		return nil, fmt.Errorf("%w: loading documents: %v", domain.ErrBuild, err)
	}
	for _, failure := range result.Failures {
		logger.Warn("document skipped during build: %s (%s)", failure.Path, failure.Reason)
	}

	if len(result.Documents) > 0 {
		return result.Documents, nil
	}

	// Every file failed validation. Fall back to an in-memory document
	// so the domain still answers basic questions about the business.
	logger.Warn("no loadable documents in %s, indexing business summary only", docDir)
	doc := b.synthesiseDocument(dom)
	return []domain.Document{doc}, nil
}

// ensureSampleDocument writes a starter document into a domain
// directory that has no source documents.
func (b *indexBuilder) ensureSampleDocument(dom, docDir string) error {
	entries, err := os.ReadDir(docDir)
	if err != nil {
		return fmt.Errorf("%w: reading document directory: %v", domain.ErrBuild, err)
	}
	for _, entry := range entries {
		if !entry.IsDir() && !domain.IsInternalFile(entry.Name()) {
			return nil
		}
	}

	doc := b.synthesiseDocument(dom)
	path := filepath.Join(docDir, sampleDocumentName)
	if err := os.WriteFile(path, []byte(doc.Content), 0o600); err != nil {
		return fmt.Errorf("%w: writing sample document: %v", domain.ErrBuild, err)
	}
	logger.Info("Created sample document for empty domain %s", dom)
	return nil
}

// synthesiseDocument builds a document from the business configuration.
func (b *indexBuilder) synthesiseDocument(dom string) domain.Document {
	var sb strings.Builder
	name := b.business.Name
	if name == "" {
		name = dom
	}

	fmt.Fprintf(&sb, "About %s\n\n", name)
	if b.business.Description != "" {
		fmt.Fprintf(&sb, "%s\n\n", b.business.Description)
	}
	if len(b.business.Services) > 0 {
		sb.WriteString("Services offered:\n")
		for _, service := range b.business.Services {
			fmt.Fprintf(&sb, "- %s\n", service)
		}
	}

	return domain.Document{
		ID:          uuid.New().String(),
		Domain:      dom,
		FileName:    sampleDocumentName,
		Content:     sb.String(),
		Synthesised: true,
		Metadata:    map[string]any{"file_name": sampleDocumentName},
	}
}

// writeIndex persists chunks into a scratch index directory: the
// vector storage plus the docstore metadata file.
func (b *indexBuilder) writeIndex(ctx context.Context, dom, dir string, chunks []domain.Chunk) error {
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("%w: clearing build directory: %v", domain.ErrBuild, err)
	}

	storage, err := b.vectors.Open(dir)
	if err != nil {
		return fmt.Errorf("%w: opening vector storage: %v", domain.ErrBuild, err)
	}
	defer storage.Close()

	coll, err := storage.GetOrCreateCollection(ctx, dom)
	if err != nil {
		return fmt.Errorf("%w: creating collection %s: %v", domain.ErrBuild, dom, err)
	}
	if err := coll.Insert(ctx, chunks); err != nil {
		return fmt.Errorf("%w: inserting %d chunks: %v", domain.ErrBuild, len(chunks), err)
	}

	if err := writeDocstore(filepath.Join(dir, domain.DocstoreFile), chunks); err != nil {
		return fmt.Errorf("%w: writing docstore: %v", domain.ErrBuild, err)
	}
	return nil
}

// writeDocstore writes the chunk metadata map. Its key count is the
// indexed document count reported by health checks, and its mtime is
// the index build timestamp used by freshness checks, so it is written
// last.
func writeDocstore(path string, chunks []domain.Chunk) error {
	metadata := make(map[string]map[string]any, len(chunks))
	for _, chunk := range chunks {
		entry := map[string]any{
			"document_id": chunk.DocumentID,
			"position":    chunk.Position,
		}
		for k, v := range chunk.Metadata {
			entry[k] = v
		}
		metadata[chunk.ID] = entry
	}

	data, err := json.MarshalIndent(map[string]any{domain.DocstoreMetadataKey: metadata}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// readDocstoreCount returns the number of entries in a docstore file.
func readDocstoreCount(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}

	var docstore map[string]map[string]json.RawMessage
	if err := json.Unmarshal(data, &docstore); err != nil {
		return 0, fmt.Errorf("parsing %s: %w", path, err)
	}
	return len(docstore[domain.DocstoreMetadataKey]), nil
}

// readDocstoreDocumentCount returns the number of distinct source
// documents recorded in a docstore file. Entries are keyed by chunk,
// so this deduplicates on document_id.
func readDocstoreDocumentCount(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}

	var docstore map[string]map[string]struct {
		DocumentID string `json:"document_id"`
	}
	if err := json.Unmarshal(data, &docstore); err != nil {
		return 0, fmt.Errorf("parsing %s: %w", path, err)
	}

	seen := make(map[string]struct{})
	for _, entry := range docstore[domain.DocstoreMetadataKey] {
		seen[entry.DocumentID] = struct{}{}
	}
	return len(seen), nil
}

// swapIndexDir atomically replaces the live index directory with the
// freshly built one. The old index is kept aside until the rename
// succeeds, then discarded.
func swapIndexDir(buildDir, finalDir string) error {
	oldDir := finalDir + ".old"
	os.RemoveAll(oldDir)

	hadPrevious := false
	if _, err := os.Stat(finalDir); err == nil {
		hadPrevious = true
		if err := os.Rename(finalDir, oldDir); err != nil {
			return fmt.Errorf("moving previous index aside: %w", err)
		}
	}

	if err := os.Rename(buildDir, finalDir); err != nil {
		if hadPrevious {
			os.Rename(oldDir, finalDir)
		}
		return fmt.Errorf("activating new index: %w", err)
	}

	os.RemoveAll(oldDir)
	return nil
}
