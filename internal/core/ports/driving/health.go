package driving

import (
	"context"

	"github.com/conversate-labs/conversate/internal/core/domain"
)

// HealthChecker reports per-domain knowledge-base diagnostics.
// Checks are read only and never mutate documents or indexes.
type HealthChecker interface {
	// Check diagnoses one domain. Sub-check failures degrade the report
	// instead of aborting it.
	Check(ctx context.Context, dom string) domain.HealthReport

	// CheckAll diagnoses every known domain.
	CheckAll(ctx context.Context) ([]domain.HealthReport, error)

	// Domains lists the domains that have a document directory.
	Domains() ([]string, error)
}
