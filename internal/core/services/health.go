package services

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/conversate-labs/conversate/internal/core/domain"
	"github.com/conversate-labs/conversate/internal/core/ports/driven"
	"github.com/conversate-labs/conversate/internal/core/ports/driving"
)

// Ensure HealthService implements the interface.
var _ driving.HealthChecker = (*HealthService)(nil)

// HealthService diagnoses per-domain knowledge-base state. Checks are
// strictly read only: they open storage but never build, repair or
// delete anything. Sub-checks run independently and degrade the report
// instead of aborting it; the worst finding determines the status.
type HealthService struct {
	layout  domain.Layout
	vectors driven.VectorStore
}

// NewHealthService creates a new health diagnostics service.
func NewHealthService(layout domain.Layout, vectors driven.VectorStore) *HealthService {
	return &HealthService{layout: layout, vectors: vectors}
}

// Check diagnoses one domain.
func (h *HealthService) Check(ctx context.Context, dom string) domain.HealthReport {
	report := domain.HealthReport{
		Domain:         dom,
		Status:         domain.HealthHealthy,
		EmbeddingCount: -1,
	}

	docDir := h.layout.DomainDir(dom)
	if _, err := os.Stat(docDir); err != nil {
		report.Degrade(domain.HealthError, "Documents directory does not exist")
		return report
	}

	report.DocumentCount = countDocuments(docDir)
	if report.DocumentCount == 0 {
		report.Degrade(domain.HealthWarning, "No documents found")
	}

	indexDir := h.layout.IndexDir(dom)
	if _, err := os.Stat(indexDir); err != nil {
		report.Degrade(domain.HealthWarning, "Index has not been built")
		return report
	}

	h.checkIndexFiles(dom, &report)
	h.checkCollection(ctx, dom, indexDir, &report)
	return report
}

// checkIndexFiles verifies the persisted index artifacts and compares
// the docstore entry count against the live document count.
func (h *HealthService) checkIndexFiles(dom string, report *domain.HealthReport) {
	docstorePath := h.layout.DocstorePath(dom)
	if _, err := os.Stat(docstorePath); err != nil {
		report.Degrade(domain.HealthError, fmt.Sprintf("Missing index file: %s", domain.DocstoreFile))
	} else {
		count, err := readDocstoreCount(docstorePath)
		if err != nil {
			report.Degrade(domain.HealthError, fmt.Sprintf("Unreadable index file: %s", domain.DocstoreFile))
		} else {
			report.IndexDocumentCount = count
			if report.DocumentCount > 0 && count != report.DocumentCount {
				report.Degrade(domain.HealthWarning, fmt.Sprintf(
					"Document count mismatch: %d docs but %d in index",
					report.DocumentCount, count))
			}
		}
	}

	if _, err := os.Stat(h.layout.VectorDBPath(dom)); err != nil {
		report.Degrade(domain.HealthError, fmt.Sprintf("Missing index file: %s", domain.VectorDBFile))
	}
}

// checkCollection inspects the vector storage for the domain's
// collection and records the stored embedding count.
func (h *HealthService) checkCollection(ctx context.Context, dom, indexDir string, report *domain.HealthReport) {
	if _, err := os.Stat(h.layout.VectorDBPath(dom)); err != nil {
		return
	}

	storage, err := h.vectors.Open(indexDir)
	if err != nil {
		report.Degrade(domain.HealthError, fmt.Sprintf("Vector storage unreadable: %v", err))
		return
	}
	defer storage.Close()

	coll, err := storage.GetCollection(ctx, dom)
	if err != nil {
		report.Degrade(domain.HealthError, fmt.Sprintf("Vector collection %q missing", dom))
		return
	}

	count, err := coll.Count(ctx)
	if err != nil {
		report.Degrade(domain.HealthError, fmt.Sprintf("Vector collection unreadable: %v", err))
		return
	}

	report.EmbeddingCount = count
	if count == 0 {
		report.Degrade(domain.HealthWarning, "Vector collection is empty")
	}
}

// CheckAll diagnoses every known domain.
func (h *HealthService) CheckAll(ctx context.Context) ([]domain.HealthReport, error) {
	domains, err := h.Domains()
	if err != nil {
		return nil, err
	}

	reports := make([]domain.HealthReport, 0, len(domains))
	for _, dom := range domains {
		reports = append(reports, h.Check(ctx, dom))
	}
	return reports, nil
}

// Domains lists the domains that have a document directory, sorted.
func (h *HealthService) Domains() ([]string, error) {
	entries, err := os.ReadDir(h.layout.DataDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading data directory: %w", err)
	}

	var domains []string
	for _, entry := range entries {
		name := entry.Name()
		if !entry.IsDir() || name == "indexes" || domain.IsInternalFile(name) {
			continue
		}
		domains = append(domains, name)
	}
	sort.Strings(domains)
	return domains, nil
}

// countDocuments counts source documents directly under a domain
// directory, excluding internal bookkeeping files and subdirectories.
func countDocuments(dir string) int {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0
	}

	count := 0
	for _, entry := range entries {
		if entry.IsDir() || domain.IsInternalFile(entry.Name()) {
			continue
		}
		count++
	}
	return count
}
