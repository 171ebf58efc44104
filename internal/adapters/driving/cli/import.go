package cli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/conversate-labs/conversate/internal/core/ports/driving"
)

var importClear bool

var importCmd = &cobra.Command{
	Use:   "import [domain] [sources...]",
	Short: "Import documents into a domain",
	Long: `Copies files, or the contents of directories, into the domain's
document directory. Each file is validated first; rejected files are
reported and skipped.`,
	Args: cobra.MinimumNArgs(2),
	RunE: runImport,
}

var validateCmd = &cobra.Command{
	Use:   "validate [domain]",
	Short: "Check every document in a domain for indexability",
	Args:  cobra.ExactArgs(1),
	RunE:  runValidate,
}

var cleanCmd = &cobra.Command{
	Use:   "clean [domain]",
	Short: "Back up and remove problem documents",
	Long: `Removes invalid documents after copying them to a backup, and
writes skip markers for oversized files so imports can avoid them.`,
	Args: cobra.ExactArgs(1),
	RunE: runClean,
}

func init() {
	importCmd.Flags().BoolVar(&importClear, "clear", false, "remove existing documents first")
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(cleanCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	if importService == nil {
		return errors.New("import service not configured")
	}

	dom := args[0]
	result, err := importService.Import(context.Background(), dom, args[1:], driving.ImportOptions{
		ClearExisting: importClear,
	})
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	cmd.Printf("Imported %d files into %s.\n", len(result.Added), dom)
	for _, report := range result.Skipped {
		cmd.Printf("  skipped %s: %s\n", filepath.Base(report.Path), report.Reason)
	}
	return nil
}

func runValidate(cmd *cobra.Command, args []string) error {
	if importService == nil {
		return errors.New("import service not configured")
	}

	reports, err := importService.Validate(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	invalid := 0
	for _, report := range reports {
		if report.Valid {
			continue
		}
		invalid++
		cmd.Printf("INVALID %s: %s\n", filepath.Base(report.Path), report.Reason)
	}

	cmd.Printf("%d files checked, %d invalid.\n", len(reports), invalid)
	return nil
}

func runClean(cmd *cobra.Command, args []string) error {
	if importService == nil {
		return errors.New("import service not configured")
	}

	result, err := importService.Clean(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("clean failed: %w", err)
	}

	cmd.Printf("%d files checked, %d issues found.\n", result.FilesChecked, result.IssuesFound)
	if result.FilesRemoved > 0 {
		cmd.Printf("%d invalid files removed (backups kept).\n", result.FilesRemoved)
	}
	if result.MarkersWritten > 0 {
		cmd.Printf("%d skip markers written for oversized files.\n", result.MarkersWritten)
	}
	return nil
}
