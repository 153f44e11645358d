package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/ppiankov/claimguard/internal/model"
	"github.com/ppiankov/claimguard/internal/pipeline"
	"github.com/ppiankov/claimguard/internal/router"
	"github.com/spf13/cobra"
)

var (
	outJSON      string
	outMD        string
	askTimeout   time.Duration
	noCache      bool
	noFooter     bool
	providerName string
	forceTier    string
	showStats    bool
	rendering    string
)

// askCmd represents the ask command
var askCmd = &cobra.Command{
	Use:   "ask <query>",
	Short: "Answer a query with claim-level verification",
	Long: `Ask routes a query through the verification pipeline:
- Generate a draft with a cheap fast-tier model
- Extract factual claims and retrieve evidence for each
- Verify claims against the evidence
- Escalate to a premium-tier model if the draft looks unreliable
- Accept, correct, remove, or flag each claim in the final answer

Example:
  claimguard ask "What is the capital of France?"
  claimguard ask "When was the treaty signed?" --json report.json --md report.md
  claimguard ask "Who founded the company?" --tier premium --stats`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)

	// Output flags
	askCmd.Flags().StringVar(&outJSON, "json", "", "output JSON report path (optional)")
	askCmd.Flags().StringVar(&outMD, "md", "", "output Markdown report path (optional)")
	askCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")
	askCmd.Flags().BoolVar(&showStats, "stats", false, "print ledger statistics after the run")

	// Run flags
	askCmd.Flags().DurationVar(&askTimeout, "timeout", 2*time.Minute, "overall run timeout")
	askCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable evidence and decision caching")
	askCmd.Flags().StringVar(&providerName, "provider", "", "restrict generation to the named provider (openai, groq, anthropic, ollama)")
	askCmd.Flags().StringVar(&forceTier, "tier", "", "force a tier (premium skips the fast tier entirely)")
	askCmd.Flags().StringVar(&rendering, "abstain", "", "abstained claim rendering: remove or annotate")
}

func runAsk(cmd *cobra.Command, args []string) error {
	query := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), askTimeout)
	defer cancel()

	cfg, err := buildConfig()
	if err != nil {
		return err
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Query: %s\n", query)
		fmt.Fprintf(os.Stderr, "Timeout: %v\n", askTimeout)
		fmt.Fprintf(os.Stderr, "Cache: %v\n", cfg.Cache.Enabled)
		fmt.Fprintln(os.Stderr)
	}

	ledger := router.NewLedger()
	p, err := pipeline.FromConfig(cfg, ledger)
	if err != nil {
		return err
	}

	opts := pipeline.Options{ProviderOverride: providerName}
	switch forceTier {
	case "", string(model.TierFast):
	case string(model.TierPremium):
		opts.ForcePremium = true
	default:
		return fmt.Errorf("unknown tier %q (use fast or premium)", forceTier)
	}

	report, err := p.AnswerWithOptions(ctx, query, opts)
	if err != nil {
		return fmt.Errorf("ask failed: %w", err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "✓ Extracted %d claims\n", len(report.Claims))
		fmt.Fprintf(os.Stderr, "✓ Verified via %s tier (%s/%s)\n", report.TierUsed, report.Provider, report.Model)
		if report.Escalated {
			fmt.Fprintf(os.Stderr, "✓ Escalated: %s\n", report.EscalationReason)
		}
		fmt.Fprintln(os.Stderr)
	}

	renderer := pipeline.NewRenderer(cfg.Output.IncludeFooter)
	if outJSON != "" {
		if err := renderer.RenderJSON(report, outJSON); err != nil {
			return fmt.Errorf("render JSON: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote JSON: %s\n", outJSON)
		}
	}
	if outMD != "" {
		if err := renderer.RenderMarkdown(report, outMD); err != nil {
			return fmt.Errorf("render markdown: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote Markdown: %s\n", outMD)
		}
	}

	renderer.RenderSummary(report)

	if showStats {
		printStats(ledger)
	}

	return nil
}

// buildConfig assembles run configuration from defaults plus flags
func buildConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()
	cfg.Cache.Enabled = !noCache
	cfg.Output.Verbose = verbose
	cfg.Output.IncludeFooter = !noFooter

	switch rendering {
	case "":
	case string(model.RenderRemove):
		cfg.Policy.Rendering = model.RenderRemove
	case string(model.RenderAnnotate):
		cfg.Policy.Rendering = model.RenderAnnotate
	default:
		return nil, fmt.Errorf("unknown abstain rendering %q (use remove or annotate)", rendering)
	}

	return cfg, nil
}

// printStats renders the process ledger snapshot to stderr
func printStats(ledger *router.Ledger) {
	s := ledger.Snapshot()
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "───────────────────────────────────────────────────────────\n")
	fmt.Fprintf(os.Stderr, "  Ledger\n")
	fmt.Fprintf(os.Stderr, "───────────────────────────────────────────────────────────\n")
	fmt.Fprintf(os.Stderr, "  Fast-tier calls:     %d\n", s.SLMCalls)
	fmt.Fprintf(os.Stderr, "  Premium-tier calls:  %d\n", s.LLMCalls)
	fmt.Fprintf(os.Stderr, "  Escalations:         %d (rate %.2f)\n", s.Escalations, s.EscalationRate)
	fmt.Fprintf(os.Stderr, "  Total cost:          $%.6f\n", s.TotalCost)
	fmt.Fprintf(os.Stderr, "  Cost saved:          $%.6f\n", s.CostSaved)
	fmt.Fprintf(os.Stderr, "  Avg cost per call:   $%.6f\n", s.AvgCostPerQuery)
}
