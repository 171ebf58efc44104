package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/conversate-labs/conversate/internal/adapters/driving/console"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the assistant conversation loop on the terminal",
	Long: `Starts an interactive session: each line you type is treated as a
committed utterance and answered from static business facts or the
knowledge base. Type "quit" to end the session.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if assistantService == nil {
		return errors.New("assistant not configured")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	session := console.NewSession(cmd.InOrStdin(), cmd.OutOrStdout())
	defer session.Close()

	err := assistantService.Run(ctx, session)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
