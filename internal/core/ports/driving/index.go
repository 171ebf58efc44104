package driving

import (
	"context"

	"github.com/conversate-labs/conversate/internal/core/domain"
)

// IndexManager owns the per-domain index lifecycle: freshness checks,
// builds, loads and validation.
type IndexManager interface {
	// NeedsRebuild reports whether any source document is newer than
	// the persisted index, or the index is missing. Pure read.
	NeedsRebuild(dom string) (bool, error)

	// EnsureIndex loads the domain's index, rebuilding it when missing,
	// stale or invalid. At most one build attempt per call; a failed
	// build returns domain.ErrIndexUnavailable.
	EnsureIndex(ctx context.Context, dom string) (*domain.IndexInfo, error)

	// Rebuild unconditionally rebuilds the domain's index.
	Rebuild(ctx context.Context, dom string) (*domain.IndexInfo, error)

	// Invalidate drops any cached handle so the next EnsureIndex
	// re-runs the full state machine.
	Invalidate(dom string)
}
