package services

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/conversate-labs/conversate/internal/chunker"
	"github.com/conversate-labs/conversate/internal/core/domain"
	"github.com/conversate-labs/conversate/internal/core/ports/driven"
	"github.com/conversate-labs/conversate/internal/core/ports/driving"
	"github.com/conversate-labs/conversate/internal/logger"
)

// Ensure IndexService implements the interface.
var _ driving.IndexManager = (*IndexService)(nil)

// validationQuery is the synthetic probe run against a freshly loaded
// index before it is trusted for retrieval.
const validationQuery = "test"

// loadedIndex is a validated, cached handle on one domain's index.
type loadedIndex struct {
	storage    driven.VectorStorage
	collection driven.Collection
	info       *domain.IndexInfo
}

// IndexService owns the per-domain index lifecycle: freshness checks,
// builds, loading and validation. Operations on the same domain
// serialise on a per-domain lock; different domains proceed
// concurrently.
type IndexService struct {
	layout   domain.Layout
	builder  *indexBuilder
	embedder driven.EmbeddingService
	vectors  driven.VectorStore
	locks    *domainLocks

	mu     sync.RWMutex
	loaded map[string]*loadedIndex
}

// NewIndexService creates a new index lifecycle service.
func NewIndexService(
	layout domain.Layout,
	loader driven.DocumentLoader,
	embedder driven.EmbeddingService,
	vectors driven.VectorStore,
	splitter *chunker.Processor,
	business domain.BusinessInfo,
) *IndexService {
	return &IndexService{
		layout:   layout,
		builder:  newIndexBuilder(layout, loader, embedder, vectors, splitter, business),
		embedder: embedder,
		vectors:  vectors,
		locks:    newDomainLocks(),
		loaded:   make(map[string]*loadedIndex),
	}
}

// Rebuild unconditionally rebuilds the domain's index and loads it.
func (s *IndexService) Rebuild(ctx context.Context, dom string) (*domain.IndexInfo, error) {
	lock := s.locks.Get(dom)
	lock.Lock()
	defer lock.Unlock()

	s.dropLoaded(dom)

	if _, err := s.builder.Build(context.WithoutCancel(ctx), dom); err != nil {
		return nil, err
	}
	loaded, err := s.openAndValidate(ctx, dom)
	if err != nil {
		return nil, fmt.Errorf("%w: rebuilt index failed validation: %v", domain.ErrIndexUnavailable, err)
	}
	s.storeLoaded(dom, loaded)
	return loaded.info, nil
}

// NeedsRebuild reports whether the domain's index is missing or older
// than its source documents. It reads mtimes only.
func (s *IndexService) NeedsRebuild(dom string) (bool, error) {
	return needsRebuild(s.layout, dom)
}

// EnsureIndex returns a usable index for the domain, rebuilding when it
// is missing, stale or fails validation. At most one build attempt is
// made per call; when that fails the domain is unavailable.
func (s *IndexService) EnsureIndex(ctx context.Context, dom string) (*domain.IndexInfo, error) {
	if cached := s.getLoaded(dom); cached != nil {
		return cached.info, nil
	}

	lock := s.locks.Get(dom)
	lock.Lock()
	defer lock.Unlock()

	// A concurrent caller may have loaded it while we waited.
	if cached := s.getLoaded(dom); cached != nil {
		return cached.info, nil
	}

	stale, err := needsRebuild(s.layout, dom)
	if err != nil {
		return nil, err
	}

	built := false
	if stale {
		logger.Debug("index for %s is missing or stale, rebuilding", dom)
		// Builds are bulk work and outlive any query deadline on ctx:
		// a timed-out query still leaves a finished index behind for
		// the next call.
		if _, err := s.builder.Build(context.WithoutCancel(ctx), dom); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrIndexUnavailable, err)
		}
		built = true
	}

	loaded, err := s.openAndValidate(ctx, dom)
	if err != nil && !built {
		// Persisted index exists but does not answer. One rebuild.
		logger.Warn("index for %s failed validation (%v), rebuilding", dom, err)
		s.dropLoaded(dom)
		if _, buildErr := s.builder.Build(context.WithoutCancel(ctx), dom); buildErr != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrIndexUnavailable, buildErr)
		}
		loaded, err = s.openAndValidate(ctx, dom)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrIndexUnavailable, err)
	}

	s.storeLoaded(dom, loaded)
	return loaded.info, nil
}

// Invalidate drops any cached handle for the domain so the next
// EnsureIndex re-runs the full state machine.
func (s *IndexService) Invalidate(dom string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cached, ok := s.loaded[dom]; ok {
		cached.storage.Close()
		delete(s.loaded, dom)
	}
}

// Retrieve embeds the query and returns the k most similar chunks from
// the domain's index, ensuring the index is usable first.
func (s *IndexService) Retrieve(ctx context.Context, dom, query string, k int) ([]driven.VectorHit, error) {
	if _, err := s.EnsureIndex(ctx, dom); err != nil {
		return nil, err
	}

	cached := s.getLoaded(dom)
	if cached == nil {
		return nil, fmt.Errorf("%w: index handle lost for %s", domain.ErrIndexUnavailable, dom)
	}

	vector, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: embedding query: %v", domain.ErrBackendUnavailable, err)
	}
	return cached.collection.Query(ctx, vector, k)
}

// openAndValidate opens the persisted index and runs the synthetic
// query probe. The caller holds the domain lock.
func (s *IndexService) openAndValidate(ctx context.Context, dom string) (*loadedIndex, error) {
	indexDir := s.layout.IndexDir(dom)
	if _, err := os.Stat(indexDir); err != nil {
		return nil, fmt.Errorf("index directory missing: %w", err)
	}

	storage, err := s.vectors.Open(indexDir)
	if err != nil {
		return nil, fmt.Errorf("opening index storage: %w", err)
	}

	coll, err := storage.GetCollection(ctx, dom)
	if err != nil {
		storage.Close()
		return nil, fmt.Errorf("%w: collection %s missing", domain.ErrValidation, dom)
	}

	info, err := s.describe(ctx, dom, coll)
	if err != nil {
		storage.Close()
		return nil, err
	}

	info.State = domain.IndexValidating
	if err := s.validate(ctx, coll); err != nil {
		storage.Close()
		return nil, err
	}
	info.State = domain.IndexValid

	logger.Debug("index for %s validated: %d documents, %d chunks", dom, info.DocumentCount, info.ChunkCount)
	return &loadedIndex{storage: storage, collection: coll, info: info}, nil
}

// validate runs the synthetic query probe: embed a trivial query and
// require at least one hit. A broken or empty index fails here.
func (s *IndexService) validate(ctx context.Context, coll driven.Collection) error {
	vector, err := s.embedder.Embed(ctx, validationQuery)
	if err != nil {
		return fmt.Errorf("%w: embedding probe query: %v", domain.ErrBackendUnavailable, err)
	}

	hits, err := coll.Query(ctx, vector, 1)
	if err != nil {
		return fmt.Errorf("%w: probe query: %v", domain.ErrValidation, err)
	}
	if len(hits) == 0 {
		return fmt.Errorf("%w: probe query returned no results", domain.ErrValidation)
	}
	return nil
}

// describe assembles IndexInfo from the persisted artifacts.
func (s *IndexService) describe(ctx context.Context, dom string, coll driven.Collection) (*domain.IndexInfo, error) {
	info := &domain.IndexInfo{
		Domain: dom,
		Dir:    s.layout.IndexDir(dom),
		State:  domain.IndexPresent,
	}

	if builtAt, ok := indexBuildTime(s.layout, dom); ok {
		info.BuiltAt = builtAt
	}
	if count, err := readDocstoreDocumentCount(s.layout.DocstorePath(dom)); err == nil {
		info.DocumentCount = count
	}
	chunks, err := coll.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("counting chunks: %w", err)
	}
	info.ChunkCount = chunks
	return info, nil
}

func (s *IndexService) getLoaded(dom string) *loadedIndex {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded[dom]
}

func (s *IndexService) storeLoaded(dom string, loaded *loadedIndex) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.loaded[dom]; ok {
		existing.storage.Close()
	}
	s.loaded[dom] = loaded
}

func (s *IndexService) dropLoaded(dom string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cached, ok := s.loaded[dom]; ok {
		cached.storage.Close()
		delete(s.loaded, dom)
	}
}

// Close releases every cached index handle.
func (s *IndexService) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for dom, cached := range s.loaded {
		cached.storage.Close()
		delete(s.loaded, dom)
	}
	return nil
}
