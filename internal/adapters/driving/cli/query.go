package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/conversate-labs/conversate/internal/core/domain"
	"github.com/conversate-labs/conversate/internal/core/ports/driving"
)

var (
	queryDomain  string
	queryTopK    int
	queryTimeout time.Duration
	queryJSON    bool
)

var queryCmd = &cobra.Command{
	Use:   "query [question]",
	Short: "Ask the knowledge base a question",
	Long: `Retrieves the most relevant document chunks for the question and
synthesises a short spoken-style answer with source attributions.`,
	Args: cobra.ExactArgs(1),
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().StringVarP(&queryDomain, "domain", "d", "", "business domain to query (defaults to the configured domain)")
	queryCmd.Flags().IntVarP(&queryTopK, "top-k", "k", 0, "number of chunks to retrieve")
	queryCmd.Flags().DurationVar(&queryTimeout, "timeout", 0, "query timeout")
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "output the answer as JSON")
	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	if knowledgeService == nil {
		return errors.New("knowledge service not configured")
	}

	dom := queryDomain
	if dom == "" && snapshot != nil {
		dom = snapshot.Business.Domain
	}
	if dom == "" {
		return errors.New("no domain given and none configured")
	}

	answer := knowledgeService.Answer(context.Background(), dom, args[0], driving.QueryOptions{
		TopK:    queryTopK,
		Timeout: queryTimeout,
	})

	if queryJSON {
		data, err := json.MarshalIndent(answer, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal answer: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	switch answer.Status {
	case domain.AnswerSuccess:
		cmd.Println(answer.Text)
		if len(answer.Sources) > 0 {
			cmd.Printf("\nSources: %s\n", strings.Join(answer.Sources, ", "))
		}
	default:
		cmd.Println(answer.Message)
	}
	return nil
}
