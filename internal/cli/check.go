package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ppiankov/parallax/internal/model"
	"github.com/ppiankov/parallax/internal/pipeline"
	"github.com/ppiankov/parallax/internal/search"
	"github.com/spf13/cobra"
)

var (
	outJSON      string
	outMD        string
	checkTimeout time.Duration
	mode         string
	noCache      bool
	noFooter     bool
	noWikipedia  bool
	withSnapshot bool
	assistOn     bool
	assistModel  string
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check <text>",
	Short: "Check a claim against two adversarial search arms",
	Long: `Check extracts factual claims from the given text, plans a confirming
and a scrutinizing search arm for each, gathers evidence from the
configured providers, and composes a scored verdict with a full
methodology trail.

Live mode requires at least one provider: set BRAVE_API_KEY or
SERPER_API_KEY, or leave Wikipedia enabled (the default, keyless).
Offline mode uses deterministic synthetic providers and never touches
the network.

Example:
  parallax check "Unemployment fell to 3.9 percent in 2024."
  parallax check --mode offline "The dam produces 22,500 megawatts."
  parallax check "Turnout rose by 12 points." --json verdict.json --md verdict.md
  parallax check "..." --assist --assist-model gpt-4o-mini`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	// Output flags
	checkCmd.Flags().StringVar(&outJSON, "json", "", "output JSON path (optional)")
	checkCmd.Flags().StringVar(&outMD, "md", "", "output Markdown path (optional)")
	checkCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")

	// Execution flags
	checkCmd.Flags().StringVar(&mode, "mode", "live", "execution mode: live or offline")
	checkCmd.Flags().DurationVar(&checkTimeout, "timeout", 3*time.Minute, "overall check timeout")
	checkCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable provider response cache")
	checkCmd.Flags().BoolVar(&noWikipedia, "no-wikipedia", false, "disable the keyless Wikipedia provider")
	checkCmd.Flags().BoolVar(&withSnapshot, "snapshot", false, "fetch and hash page snapshots (respects robots.txt)")

	// Assist flags
	checkCmd.Flags().BoolVar(&assistOn, "assist", false, "enable LLM query refinement and explanation drafting")
	checkCmd.Flags().StringVar(&assistModel, "assist-model", "gpt-4o-mini", "assist model name")
}

func runCheck(cmd *cobra.Command, args []string) error {
	text := strings.Join(args, " ")
	ctx, cancel := context.WithTimeout(context.Background(), checkTimeout)
	defer cancel()

	cfg, err := configFromFlags()
	if err != nil {
		return err
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Mode: %s\n", cfg.Mode)
		fmt.Fprintf(os.Stderr, "Timeout: %v\n", checkTimeout)
		fmt.Fprintf(os.Stderr, "Cache: %v\n", cfg.Cache.Enabled)
		fmt.Fprintln(os.Stderr)
	}

	p, err := pipeline.New(cfg)
	if err != nil {
		return fmt.Errorf("build pipeline: %w", err)
	}

	verdict, err := p.Check(ctx, text)
	if err != nil {
		if errors.Is(err, search.ErrNoProviders) {
			return fmt.Errorf("%w\nSet BRAVE_API_KEY or SERPER_API_KEY, enable Wikipedia, or use --mode offline", err)
		}
		return fmt.Errorf("check failed: %w", err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "✓ Checked %d claims\n", len(verdict.Claims))
		for _, h := range p.Registry().Snapshot() {
			fmt.Fprintf(os.Stderr, "  provider %s: %d ok, %d empty, %d timeout, %d rate-limited, %d failed\n",
				h.Provider, h.Successes, h.Empties, h.Timeouts, h.RateLimited, h.Failures)
		}
		fmt.Fprintln(os.Stderr)
	}

	if err := p.RenderVerdict(verdict, outJSON, outMD, verbose); err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	return nil
}

// configFromFlags layers the check command's flags over the loaded config
func configFromFlags() (*model.Config, error) {
	cfg := loadConfig()

	switch mode {
	case "live":
		cfg.Mode = model.ModeLive
	case "offline":
		cfg.Mode = model.ModeOffline
	default:
		return nil, fmt.Errorf("unknown mode: %q (supported: offline, live)", mode)
	}

	cfg.Cache.Enabled = cfg.Cache.Enabled && !noCache
	cfg.Snapshot.Enabled = cfg.Snapshot.Enabled || withSnapshot
	cfg.Search.Wikipedia = cfg.Search.Wikipedia && !noWikipedia
	cfg.Output.Verbose = verbose
	cfg.Output.IncludeFooter = !noFooter

	if assistOn {
		cfg.Assist.Provider = "openai"
		cfg.Assist.Model = assistModel
		if cfg.Assist.APIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
	}

	return cfg, nil
}
