package driven

import (
	"context"

	"github.com/conversate-labs/conversate/internal/core/domain"
)

// DocumentLoader reads source documents from a directory.
//
// Per-file failures must not abort the batch: unreadable or rejected
// files are reported in LoadResult.Failures and the remaining documents
// are returned in order.
type DocumentLoader interface {
	// Load reads every eligible file under dir. Files whose names start
	// with an underscore are internal and skipped. The returned error is
	// reserved for directory-level failures (dir unreadable).
	Load(ctx context.Context, dir string) (*LoadResult, error)

	// SupportedExtensions returns the file extensions this loader
	// accepts, including the leading dot.
	SupportedExtensions() []string
}

// LoadResult is the outcome of loading one directory.
type LoadResult struct {
	// Documents are the successfully loaded documents, in directory order.
	Documents []domain.Document

	// Failures record per-file load errors that were skipped.
	Failures []LoadFailure
}

// LoadFailure describes one file that could not be loaded.
type LoadFailure struct {
	// Path is the file that failed.
	Path string

	// Reason is the human-readable cause.
	Reason string
}
