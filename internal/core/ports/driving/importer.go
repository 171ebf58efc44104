package driving

import (
	"context"

	"github.com/conversate-labs/conversate/internal/core/domain"
)

// Importer copies external documents into a domain's directory and
// maintains the domain's bookkeeping files.
type Importer interface {
	// Import copies files and directory contents from sources into the
	// domain, validating each file. Invalid files are skipped, not fatal.
	Import(ctx context.Context, dom string, sources []string, opts ImportOptions) (*ImportResult, error)

	// Validate checks every document in the domain for indexability
	// without changing anything.
	Validate(ctx context.Context, dom string) ([]domain.FileReport, error)

	// Clean backs up and removes problematic files, and writes skip
	// markers for oversized ones.
	Clean(ctx context.Context, dom string) (*CleanResult, error)
}

// ImportOptions tunes an import run.
type ImportOptions struct {
	// ClearExisting removes the domain's current documents first.
	ClearExisting bool
}

// ImportResult summarises an import run.
type ImportResult struct {
	// Added are the destination paths of imported files.
	Added []string

	// Skipped are the rejected files with reasons.
	Skipped []domain.FileReport
}

// CleanResult summarises a cleanup run.
type CleanResult struct {
	FilesChecked   int
	FilesRemoved   int
	MarkersWritten int
	IssuesFound    int
}
