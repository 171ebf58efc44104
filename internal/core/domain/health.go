package domain

// HealthStatus grades a domain's knowledge-base health.
type HealthStatus string

const (
	// HealthHealthy means documents and index are consistent.
	HealthHealthy HealthStatus = "healthy"

	// HealthWarning means the domain works but something is off
	// (no documents, count mismatch, empty collection).
	HealthWarning HealthStatus = "warning"

	// HealthError means the domain or its index is broken.
	HealthError HealthStatus = "error"
)

// severity orders statuses so the worst finding wins.
func (s HealthStatus) severity() int {
	switch s {
	case HealthError:
		return 2
	case HealthWarning:
		return 1
	default:
		return 0
	}
}

// Worst returns the more severe of the two statuses.
func (s HealthStatus) Worst(other HealthStatus) HealthStatus {
	if other.severity() > s.severity() {
		return other
	}
	return s
}

// HealthReport is the read-only diagnostic result for one domain.
// Sub-checks run independently; a failing check records an issue and
// degrades the status without aborting the others.
type HealthReport struct {
	// Domain is the checked domain.
	Domain string `json:"domain"`

	// Status is the overall grade, worst finding wins.
	Status HealthStatus `json:"status"`

	// DocumentCount is the live document count in the domain directory.
	DocumentCount int `json:"document_count"`

	// IndexDocumentCount is the docstore/metadata key count.
	IndexDocumentCount int `json:"index_document_count"`

	// EmbeddingCount is the stored vector count in the collection,
	// -1 when the collection could not be inspected.
	EmbeddingCount int `json:"embedding_count"`

	// Issues lists every finding in evaluation order.
	Issues []string `json:"issues"`
}

// Degrade records an issue and lowers the status if needed.
func (r *HealthReport) Degrade(status HealthStatus, issue string) {
	r.Status = r.Status.Worst(status)
	r.Issues = append(r.Issues, issue)
}
