package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/conversate-labs/conversate/internal/core/domain"
)

var healthJSON bool

var (
	healthyStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	issueStyle   = lipgloss.NewStyle().Faint(true)
)

var healthCmd = &cobra.Command{
	Use:   "health [domain]",
	Short: "Diagnose knowledge-base health",
	Long: `Checks documents, index files and the vector collection for one
domain, or for every domain when none is given. Checks are read only.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHealth,
}

func init() {
	healthCmd.Flags().BoolVar(&healthJSON, "json", false, "output reports as JSON")
	rootCmd.AddCommand(healthCmd)
}

func runHealth(cmd *cobra.Command, args []string) error {
	if healthChecker == nil {
		return errors.New("health checker not configured")
	}

	ctx := context.Background()
	var reports []domain.HealthReport
	if len(args) == 1 {
		reports = []domain.HealthReport{healthChecker.Check(ctx, args[0])}
	} else {
		var err error
		reports, err = healthChecker.CheckAll(ctx)
		if err != nil {
			return fmt.Errorf("health check failed: %w", err)
		}
	}

	if healthJSON {
		data, err := json.MarshalIndent(reports, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal reports: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if len(reports) == 0 {
		cmd.Println("No domains found.")
		return nil
	}

	for _, report := range reports {
		printReport(cmd, report)
	}
	return nil
}

func printReport(cmd *cobra.Command, report domain.HealthReport) {
	cmd.Printf("%s  %s\n", statusBadge(report.Status), report.Domain)
	cmd.Printf("   documents: %d", report.DocumentCount)
	if report.IndexDocumentCount > 0 || report.DocumentCount > 0 {
		cmd.Printf("  indexed: %d", report.IndexDocumentCount)
	}
	if report.EmbeddingCount >= 0 {
		cmd.Printf("  embeddings: %d", report.EmbeddingCount)
	}
	cmd.Println()

	for _, issue := range report.Issues {
		cmd.Printf("   %s\n", issueStyle.Render("- "+issue))
	}
}

func statusBadge(status domain.HealthStatus) string {
	switch status {
	case domain.HealthHealthy:
		return healthyStyle.Render("HEALTHY")
	case domain.HealthWarning:
		return warningStyle.Render("WARNING")
	default:
		return errorStyle.Render("ERROR")
	}
}
