package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/conversate-labs/conversate/internal/business"
)

var domainsCmd = &cobra.Command{
	Use:   "domains",
	Short: "List known business domains",
	RunE:  runDomains,
}

func init() {
	rootCmd.AddCommand(domainsCmd)
}

func runDomains(cmd *cobra.Command, _ []string) error {
	if healthChecker == nil {
		return errors.New("health checker not configured")
	}

	domains, err := healthChecker.Domains()
	if err != nil {
		return fmt.Errorf("listing domains failed: %w", err)
	}

	if len(domains) == 0 {
		cmd.Println("No domains found. Import documents with 'conversate import <domain> <files...>'.")
		return nil
	}

	profiles := make(map[string]bool)
	for _, tag := range business.Registered() {
		profiles[tag] = true
	}

	for _, dom := range domains {
		if profiles[dom] {
			cmd.Printf("%s (static facts available)\n", dom)
		} else {
			cmd.Println(dom)
		}
	}
	return nil
}
