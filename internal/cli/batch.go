package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ppiankov/claimguard/internal/pipeline"
	"github.com/ppiankov/claimguard/internal/router"
	"github.com/ppiankov/claimguard/internal/worker"
	"github.com/spf13/cobra"
)

var (
	concurrency  int
	outputDir    string
	batchTimeout time.Duration
	// noCache and noFooter are defined in ask.go and shared here
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Answer multiple queries from a file in parallel",
	Long: `Batch processes multiple queries concurrently:
- Read queries from input file (one per line, # comments skipped)
- Answer queries in parallel with configurable worker count
- Each run retrieves and verifies evidence concurrently
- Generate individual reports for each query

Example:
  claimguard batch queries.txt
  claimguard batch queries.txt --concurrency 5 --output-dir ./reports
  claimguard batch queries.txt --timeout 10m`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&concurrency, "concurrency", 3, "number of concurrent query runs")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./claimguard-reports", "output directory for reports")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")
	batchCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable evidence and decision caching")
	batchCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")
}

func runBatch(cmd *cobra.Command, args []string) error {
	file := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  ClaimGuard Batch Processing\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Input file:   %s\n", file)
	fmt.Fprintf(os.Stderr, "  Workers:      %d\n", concurrency)
	fmt.Fprintf(os.Stderr, "  Output dir:   %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "  Timeout:      %v\n", batchTimeout)
	fmt.Fprintf(os.Stderr, "\n")

	cfg, err := buildConfig()
	if err != nil {
		return err
	}
	cfg.Concurrency.BatchWorkers = concurrency

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	ledger := router.NewLedger()
	p, err := pipeline.FromConfig(cfg, ledger)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "⚙️  Reading queries from file...\n")
	queries, err := worker.ReadQueriesFromFile(file)
	if err != nil {
		return fmt.Errorf("read queries: %w", err)
	}

	fmt.Fprintf(os.Stderr, "✓ Loaded %d queries\n", len(queries))
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "⚙️  Processing queries with %d workers...\n", concurrency)
	fmt.Fprintf(os.Stderr, "\n")

	processor := worker.NewBatchProcessor(p, concurrency)
	results := processor.ProcessQueries(ctx, queries)

	renderer := pipeline.NewRenderer(cfg.Output.IncludeFooter)
	successCount := 0
	failureCount := 0

	for i, result := range results {
		if result.Error != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %q: %v\n", result.Query, result.Error)
			continue
		}

		successCount++

		slug := sanitizeFilename(result.Query)
		jsonPath := filepath.Join(outputDir, fmt.Sprintf("%03d-%s.json", i+1, slug))
		mdPath := filepath.Join(outputDir, fmt.Sprintf("%03d-%s.md", i+1, slug))

		if err := renderer.RenderJSON(result.Report, jsonPath); err != nil {
			fmt.Fprintf(os.Stderr, "✗ %q: failed to write JSON: %v\n", result.Query, err)
			continue
		}
		if err := renderer.RenderMarkdown(result.Report, mdPath); err != nil {
			fmt.Fprintf(os.Stderr, "✗ %q: failed to write Markdown: %v\n", result.Query, err)
			continue
		}

		escalated := ""
		if result.Report.Escalated {
			escalated = " [escalated]"
		}
		fmt.Fprintf(os.Stderr, "✓ %q (confidence: %.2f)%s\n", result.Query, result.Report.Confidence, escalated)
	}

	snapshot := ledger.Snapshot()

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Batch Complete\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Total:        %d queries\n", len(results))
	fmt.Fprintf(os.Stderr, "  Success:      %d\n", successCount)
	fmt.Fprintf(os.Stderr, "  Failures:     %d\n", failureCount)
	fmt.Fprintf(os.Stderr, "  Escalations:  %d (rate %.2f)\n", snapshot.Escalations, snapshot.EscalationRate)
	fmt.Fprintf(os.Stderr, "  Total cost:   $%.6f (saved $%.6f)\n", snapshot.TotalCost, snapshot.CostSaved)
	fmt.Fprintf(os.Stderr, "  Output:       %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "\n")

	return nil
}

// sanitizeFilename turns a query into a safe, bounded file name stem
func sanitizeFilename(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			out = append(out, r)
		case r == ' ', r == '/', r == '\\', r == ':', r == '?':
			out = append(out, '-')
		}
	}

	stem := string(out)
	if len(stem) > 60 {
		stem = stem[:60]
	}
	if stem == "" {
		stem = "query"
	}
	return stem
}
