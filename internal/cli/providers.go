package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/ppiankov/parallax/internal/model"
	"github.com/ppiankov/parallax/internal/pipeline"
	"github.com/spf13/cobra"
)

// providersCmd represents the providers command
var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "Inspect configured search providers",
}

var providersHealthCmd = &cobra.Command{
	Use:   "health",
	Short: "Probe each configured provider with a test query",
	Long: `Health sends one probe query to every configured provider and reports
whether it responded, timed out, rate limited, or failed. Probes count
against provider quotas.

Example:
  parallax providers health
  BRAVE_API_KEY=... parallax providers health`,
	RunE: runProvidersHealth,
}

func init() {
	rootCmd.AddCommand(providersCmd)
	providersCmd.AddCommand(providersHealthCmd)
}

func runProvidersHealth(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	cfg.Mode = model.ModeLive

	p, err := pipeline.New(cfg)
	if err != nil {
		return fmt.Errorf("build pipeline: %w", err)
	}

	registry := p.Registry()
	if registry.Empty() {
		fmt.Println("No search providers configured.")
		fmt.Println("Set BRAVE_API_KEY or SERPER_API_KEY, or enable Wikipedia in the config.")
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	fmt.Fprintf(os.Stderr, "Probing %d providers...\n\n", len(registry.Providers()))

	const probeQuery = "world population estimate"
	for _, provider := range registry.Providers() {
		start := time.Now()
		results, err := provider.Search(ctx, probeQuery, 3)
		registry.Record(provider.Name(), len(results), err)
		elapsed := time.Since(start).Round(time.Millisecond)

		switch {
		case err != nil:
			fmt.Printf("✗ %-12s %v (%v)\n", provider.Name(), err, elapsed)
		case len(results) == 0:
			fmt.Printf("~ %-12s responded with 0 results (%v)\n", provider.Name(), elapsed)
		default:
			fmt.Printf("✓ %-12s %d results (%v)\n", provider.Name(), len(results), elapsed)
		}
	}

	return nil
}
