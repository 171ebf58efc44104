// Package filesystem loads source documents from a domain's document
// directory on local disk.
package filesystem

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/conversate-labs/conversate/internal/core/domain"
	"github.com/conversate-labs/conversate/internal/core/ports/driven"
	"github.com/conversate-labs/conversate/internal/logger"
)

// Ensure Loader implements the interface.
var _ driven.DocumentLoader = (*Loader)(nil)

// MaxFileSize is the largest source file the loader will read.
const MaxFileSize = 10 * 1024 * 1024

var supportedExtensions = []string{".txt", ".md", ".markdown", ".csv", ".json"}

// Loader reads supported text files from a single directory.
// It does not recurse into subdirectories.
type Loader struct{}

// NewLoader creates a new filesystem document loader.
func NewLoader() *Loader {
	return &Loader{}
}

// SupportedExtensions returns the accepted file extensions.
func (l *Loader) SupportedExtensions() []string {
	out := make([]string, len(supportedExtensions))
	copy(out, supportedExtensions)
	return out
}

// Load reads every supported file directly under dir. Internal files
// (underscore prefix) and subdirectories are skipped. Per-file errors
// are collected as failures; only an unreadable directory is an error.
func (l *Loader) Load(ctx context.Context, dir string) (*driven.LoadResult, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading document directory %s: %w", dir, err)
	}

	domainName := filepath.Base(dir)
	result := &driven.LoadResult{}

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		name := entry.Name()
		if entry.IsDir() || domain.IsInternalFile(name) || !l.supported(name) {
			continue
		}

		path := filepath.Join(dir, name)
		doc, reason := l.loadFile(path, domainName)
		if reason != "" {
			logger.Warn("skipping %s: %s", path, reason)
			result.Failures = append(result.Failures, driven.LoadFailure{Path: path, Reason: reason})
			continue
		}
		result.Documents = append(result.Documents, *doc)
	}

	return result, nil
}

func (l *Loader) supported(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, s := range supportedExtensions {
		if ext == s {
			return true
		}
	}
	return false
}

// loadFile reads one file, returning a rejection reason instead of a
// document when the file fails validation.
func (l *Loader) loadFile(path, domainName string) (*domain.Document, string) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Sprintf("stat failed: %v", err)
	}
	if info.Size() > MaxFileSize {
		return nil, fmt.Sprintf("file too large (%d bytes, limit %d)", info.Size(), MaxFileSize)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Sprintf("read failed: %v", err)
	}

	content := string(data)
	if strings.TrimSpace(content) == "" {
		return nil, "file is empty"
	}
	if !utf8.ValidString(content) {
		return nil, "file is not valid UTF-8"
	}

	return &domain.Document{
		ID:       uuid.New().String(),
		Domain:   domainName,
		FileName: info.Name(),
		Path:     path,
		Content:  content,
		Size:     info.Size(),
		ModTime:  info.ModTime(),
		Metadata: map[string]any{"file_name": info.Name()},
	}, ""
}
