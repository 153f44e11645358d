package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/ppiankov/claimguard/internal/model"
)

// Renderer writes reports as JSON, Markdown, and a stdout summary
type Renderer struct {
	includeFooter bool
}

// NewRenderer creates a renderer
func NewRenderer(includeFooter bool) *Renderer {
	return &Renderer{includeFooter: includeFooter}
}

// RenderJSON writes the full report as indented JSON
func (r *Renderer) RenderJSON(report *model.Report, path string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// RenderMarkdown writes a human-readable report
func (r *Renderer) RenderMarkdown(report *model.Report, path string) error {
	var b strings.Builder

	b.WriteString("# ClaimGuard Report\n\n")
	b.WriteString(fmt.Sprintf("**Query:** %s\n\n", report.Query))
	b.WriteString(fmt.Sprintf("**Answered:** %s\n\n", report.AnsweredAt.Format("2006-01-02 15:04:05 UTC")))
	b.WriteString(fmt.Sprintf("**Tier:** %s (%s/%s)\n\n", report.TierUsed, report.Provider, report.Model))
	if report.Escalated {
		b.WriteString(fmt.Sprintf("**Escalated:** yes (%s)\n\n", report.EscalationReason))
	}

	b.WriteString("## Answer\n\n")
	b.WriteString(report.FinalAnswer)
	b.WriteString("\n\n")

	b.WriteString("## Verification\n\n")
	b.WriteString(fmt.Sprintf("- Claims checked: %d\n", report.Breakdown.Total))
	b.WriteString(fmt.Sprintf("- Accepted: %d\n", report.Breakdown.Accepted))
	b.WriteString(fmt.Sprintf("- Corrected: %d\n", report.Breakdown.Corrected))
	b.WriteString(fmt.Sprintf("- Abstained: %d\n", report.Breakdown.Abstained))
	b.WriteString(fmt.Sprintf("- Flagged: %d\n", report.Breakdown.Flagged))
	b.WriteString(fmt.Sprintf("- Hallucination score: %.2f\n", report.HallucinationScore))
	b.WriteString(fmt.Sprintf("- Confidence: %.2f\n\n", report.Confidence))

	if len(report.Decisions) > 0 {
		b.WriteString("## Claims\n\n")
		b.WriteString("| Claim | Action | Confidence | Reasoning |\n")
		b.WriteString("|-------|--------|------------|----------|\n")
		for _, d := range report.Decisions {
			b.WriteString(fmt.Sprintf("| %s | %s | %.2f | %s |\n",
				escapeCell(d.Claim), d.Action, d.Confidence, escapeCell(d.Reasoning)))
		}
		b.WriteString("\n")
	}

	if len(report.Errors) > 0 {
		b.WriteString("## Degradations\n\n")
		for _, e := range report.Errors {
			b.WriteString(fmt.Sprintf("- `%s` %s: %s\n", e.Stage, e.ClaimID, e.Message))
		}
		b.WriteString("\n")
	}

	b.WriteString(fmt.Sprintf("**Processing time:** %.2fs | **Estimated cost:** $%.6f\n", report.ProcessingTime, report.CostEstimate))

	if r.includeFooter {
		b.WriteString("\n---\n\n")
		b.WriteString("*Generated by ClaimGuard. Verification reflects retrieved evidence, not ground truth.*\n")
	}

	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// RenderSummary prints a short result summary to stdout
func (r *Renderer) RenderSummary(report *model.Report) {
	fmt.Println()
	fmt.Println(report.FinalAnswer)
	fmt.Println()
	fmt.Printf("───────────────────────────────────────────────────────────\n")
	fmt.Printf("Tier: %s (%s/%s)", report.TierUsed, report.Provider, report.Model)
	if report.Escalated {
		fmt.Printf("  [escalated: %s]", report.EscalationReason)
	}
	fmt.Println()
	fmt.Printf("Claims: %d checked, %d accepted, %d corrected, %d abstained, %d flagged\n",
		report.Breakdown.Total, report.Breakdown.Accepted, report.Breakdown.Corrected,
		report.Breakdown.Abstained, report.Breakdown.Flagged)
	fmt.Printf("Confidence: %.2f  Cost: $%.6f  Time: %.2fs\n",
		report.Confidence, report.CostEstimate, report.ProcessingTime)
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	return strings.ReplaceAll(s, "\n", " ")
}
