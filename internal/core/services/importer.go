package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/conversate-labs/conversate/internal/core/domain"
	"github.com/conversate-labs/conversate/internal/core/ports/driving"
	"github.com/conversate-labs/conversate/internal/logger"
)

// Ensure ImportService implements the interface.
var _ driving.Importer = (*ImportService)(nil)

// maxImportFileSize is the largest file accepted into a domain.
const maxImportFileSize = 10 * 1024 * 1024

// importExtensions are the file types accepted into a domain.
var importExtensions = map[string]bool{
	".txt":      true,
	".md":       true,
	".markdown": true,
	".csv":      true,
	".json":     true,
}

// ImportService copies external documents into a domain's directory,
// validates what is already there, and cleans up problem files.
type ImportService struct {
	layout domain.Layout
}

// NewImportService creates a new document import service.
func NewImportService(layout domain.Layout) *ImportService {
	return &ImportService{layout: layout}
}

// Import copies files and directory contents from sources into the
// domain directory. Each file is validated before copying; rejected
// files are reported, not fatal. A summary record is written to the
// domain's import metadata file.
func (s *ImportService) Import(ctx context.Context, dom string, sources []string, opts driving.ImportOptions) (*driving.ImportResult, error) {
	if dom == "" {
		return nil, fmt.Errorf("%w: domain is required", domain.ErrInvalidInput)
	}

	docDir := s.layout.DomainDir(dom)
	if err := os.MkdirAll(docDir, 0o700); err != nil {
		return nil, fmt.Errorf("creating domain directory: %w", err)
	}

	if opts.ClearExisting {
		if err := clearDocuments(docDir); err != nil {
			return nil, fmt.Errorf("clearing existing documents: %w", err)
		}
		logger.Info("Cleared existing documents in %s", docDir)
	}

	result := &driving.ImportResult{}
	for _, source := range sources {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := s.importSource(source, docDir, result); err != nil {
			return nil, err
		}
	}

	record := domain.ImportMetadata{
		LastImport: domain.ImportRecord{
			Timestamp:      time.Now().UTC(),
			FilesCount:     len(result.Added),
			BusinessDomain: dom,
		},
	}
	if err := writeImportMetadata(s.layout.ImportMetadataPath(dom), record); err != nil {
		return nil, fmt.Errorf("writing import metadata: %w", err)
	}

	logger.Info("Imported %d files into %s (%d skipped)", len(result.Added), dom, len(result.Skipped))
	return result, nil
}

// importSource imports one file, or every file directly inside one
// directory.
func (s *ImportService) importSource(source, docDir string, result *driving.ImportResult) error {
	info, err := os.Stat(source)
	if err != nil {
		result.Skipped = append(result.Skipped, domain.FileReport{
			Path:   source,
			Reason: fmt.Sprintf("not accessible: %v", err),
		})
		return nil
	}

	if !info.IsDir() {
		s.importFile(source, docDir, result)
		return nil
	}

	entries, err := os.ReadDir(source)
	if err != nil {
		return fmt.Errorf("reading source directory %s: %w", source, err)
	}
	for _, entry := range entries {
		if entry.IsDir() || domain.IsInternalFile(entry.Name()) {
			continue
		}
		s.importFile(filepath.Join(source, entry.Name()), docDir, result)
	}
	return nil
}

// importFile validates one file and copies it into the domain.
func (s *ImportService) importFile(path, docDir string, result *driving.ImportResult) {
	report := validateFile(path)
	if !report.Valid {
		logger.Warn("skipping %s: %s", path, report.Reason)
		result.Skipped = append(result.Skipped, report)
		return
	}

	dest := filepath.Join(docDir, sanitiseFileName(filepath.Base(path)))
	if err := copyFile(path, dest); err != nil {
		report.Valid = false
		report.Reason = fmt.Sprintf("copy failed: %v", err)
		result.Skipped = append(result.Skipped, report)
		return
	}
	result.Added = append(result.Added, dest)
}

// Validate checks every document in the domain for indexability
// without changing anything.
func (s *ImportService) Validate(ctx context.Context, dom string) ([]domain.FileReport, error) {
	docDir := s.layout.DomainDir(dom)
	entries, err := os.ReadDir(docDir)
	if err != nil {
		return nil, fmt.Errorf("reading domain directory: %w", err)
	}

	var reports []domain.FileReport
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if entry.IsDir() || domain.IsInternalFile(entry.Name()) {
			continue
		}
		reports = append(reports, validateFile(filepath.Join(docDir, entry.Name())))
	}
	return reports, nil
}

// Clean repairs a domain directory: invalid files are copied to a
// backup and removed, oversized files get a skip marker and stay in
// place.
func (s *ImportService) Clean(ctx context.Context, dom string) (*driving.CleanResult, error) {
	reports, err := s.Validate(ctx, dom)
	if err != nil {
		return nil, err
	}

	docDir := s.layout.DomainDir(dom)
	result := &driving.CleanResult{FilesChecked: len(reports)}

	for _, report := range reports {
		if report.Valid {
			continue
		}
		result.IssuesFound++
		name := filepath.Base(report.Path)

		if report.SizeBytes > maxImportFileSize {
			marker := filepath.Join(docDir, "_skip_"+name+".marker")
			if err := os.WriteFile(marker, []byte(report.Reason+"\n"), 0o600); err != nil {
				return nil, fmt.Errorf("writing skip marker: %w", err)
			}
			result.MarkersWritten++
			logger.Info("Marked oversized file %s with skip marker", name)
			continue
		}

		backup := filepath.Join(docDir, "_backup_"+name)
		if err := copyFile(report.Path, backup); err != nil {
			return nil, fmt.Errorf("backing up %s: %w", name, err)
		}
		if err := os.Remove(report.Path); err != nil {
			return nil, fmt.Errorf("removing %s: %w", name, err)
		}
		result.FilesRemoved++
		logger.Info("Removed invalid file %s (backup kept)", name)
	}

	return result, nil
}

// validateFile runs every indexability check on one file.
func validateFile(path string) domain.FileReport {
	ext := strings.ToLower(filepath.Ext(path))
	report := domain.FileReport{
		Path:     path,
		FileType: strings.TrimPrefix(ext, "."),
	}

	if !importExtensions[ext] {
		report.Reason = fmt.Sprintf("unsupported file type %q", ext)
		return report
	}

	info, err := os.Stat(path)
	if err != nil {
		report.Reason = fmt.Sprintf("not accessible: %v", err)
		return report
	}
	report.SizeBytes = info.Size()

	if info.Size() > maxImportFileSize {
		report.Reason = fmt.Sprintf("file too large (%d bytes, limit %d)", info.Size(), maxImportFileSize)
		return report
	}

	data, err := os.ReadFile(path)
	if err != nil {
		report.Reason = fmt.Sprintf("read failed: %v", err)
		return report
	}
	if strings.TrimSpace(string(data)) == "" {
		report.Reason = "file is empty"
		return report
	}
	if !utf8.Valid(data) {
		report.Reason = "file is not valid UTF-8"
		return report
	}
	if ext == ".json" && !json.Valid(data) {
		report.Reason = "file is not valid JSON"
		return report
	}

	report.Valid = true
	return report
}

// sanitiseFileName maps a file name to a safe destination name:
// letters, digits, dot, dash and underscore pass through, everything
// else becomes an underscore.
func sanitiseFileName(name string) string {
	var sb strings.Builder
	for _, r := range name {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			sb.WriteRune(r)
		case r == '.' || r == '-' || r == '_':
			sb.WriteRune(r)
		default:
			sb.WriteRune('_')
		}
	}
	return sb.String()
}

// clearDocuments removes every source document from a domain
// directory, leaving internal bookkeeping files in place.
func clearDocuments(docDir string) error {
	entries, err := os.ReadDir(docDir)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || domain.IsInternalFile(entry.Name()) {
			continue
		}
		if err := os.Remove(filepath.Join(docDir, entry.Name())); err != nil {
			return err
		}
	}
	return nil
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func writeImportMetadata(path string, record domain.ImportMetadata) error {
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}
