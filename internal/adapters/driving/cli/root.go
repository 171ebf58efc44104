// Package cli provides the command line interface for the Conversate
// knowledge backend.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/conversate-labs/conversate/internal/config"
	"github.com/conversate-labs/conversate/internal/core/ports/driving"
	"github.com/conversate-labs/conversate/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Services wired in by the composition root before Execute runs.
var (
	snapshot         *config.Snapshot
	knowledgeService driving.KnowledgeService
	indexManager     driving.IndexManager
	healthChecker    driving.HealthChecker
	importService    driving.Importer
	assistantService driving.Assistant
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "conversate",
	Short: "Domain knowledge backend for voice assistants",
	Long: `Conversate manages per-domain document indexes and answers
natural-language questions from them. Documents live under data/<domain>/,
persisted indexes under data/indexes/<domain>_index/.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// Deps bundles everything the commands need.
type Deps struct {
	Snapshot  *config.Snapshot
	Knowledge driving.KnowledgeService
	Indexes   driving.IndexManager
	Health    driving.HealthChecker
	Importer  driving.Importer
	Assistant driving.Assistant
	Version   string
}

// Configure injects the services the commands run against.
func Configure(deps Deps) {
	snapshot = deps.Snapshot
	knowledgeService = deps.Knowledge
	indexManager = deps.Indexes
	healthChecker = deps.Health
	importService = deps.Importer
	assistantService = deps.Assistant
	if deps.Version != "" {
		version = deps.Version
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
