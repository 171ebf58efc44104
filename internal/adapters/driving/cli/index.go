package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Manage per-domain document indexes",
}

var indexRebuildCmd = &cobra.Command{
	Use:   "rebuild [domain]",
	Short: "Rebuild a domain's index from its documents",
	Args:  cobra.ExactArgs(1),
	RunE:  runIndexRebuild,
}

var indexCheckCmd = &cobra.Command{
	Use:   "check [domain]",
	Short: "Report whether a domain's index is up to date",
	Args:  cobra.ExactArgs(1),
	RunE:  runIndexCheck,
}

var indexEnsureCmd = &cobra.Command{
	Use:   "ensure [domain]",
	Short: "Load a domain's index, rebuilding if missing or stale",
	Args:  cobra.ExactArgs(1),
	RunE:  runIndexEnsure,
}

func init() {
	indexCmd.AddCommand(indexRebuildCmd)
	indexCmd.AddCommand(indexCheckCmd)
	indexCmd.AddCommand(indexEnsureCmd)
	rootCmd.AddCommand(indexCmd)
}

func runIndexRebuild(cmd *cobra.Command, args []string) error {
	if indexManager == nil {
		return errors.New("index manager not configured")
	}

	dom := args[0]
	cmd.Printf("Rebuilding index for %s...\n", dom)

	info, err := indexManager.Rebuild(context.Background(), dom)
	if err != nil {
		return fmt.Errorf("rebuild failed: %w", err)
	}

	cmd.Printf("Index rebuilt: %d documents, %d chunks in %s\n",
		info.DocumentCount, info.ChunkCount, info.Dir)
	return nil
}

func runIndexCheck(cmd *cobra.Command, args []string) error {
	if indexManager == nil {
		return errors.New("index manager not configured")
	}

	dom := args[0]
	stale, err := indexManager.NeedsRebuild(dom)
	if err != nil {
		return fmt.Errorf("freshness check failed: %w", err)
	}

	if stale {
		cmd.Printf("Index for %s is missing or stale.\n", dom)
	} else {
		cmd.Printf("Index for %s is up to date.\n", dom)
	}
	return nil
}

func runIndexEnsure(cmd *cobra.Command, args []string) error {
	if indexManager == nil {
		return errors.New("index manager not configured")
	}

	dom := args[0]
	info, err := indexManager.EnsureIndex(context.Background(), dom)
	if err != nil {
		return fmt.Errorf("index unavailable: %w", err)
	}

	cmd.Printf("Index for %s is %s: %d documents, %d chunks\n",
		dom, info.State, info.DocumentCount, info.ChunkCount)
	return nil
}
