// Package gate decides whether a fast-tier draft must be discarded in
// favor of a premium-tier regeneration.
package gate

import (
	"fmt"
	"strings"

	"github.com/ppiankov/claimguard/internal/model"
)

// Gate evaluates the escalation triggers for one pipeline run.
// Triggers are OR-combined: any single one forces escalation. The gate
// runs exactly once per query; the regenerated answer is never gated
// again, so a run makes at most one escalation hop.
type Gate struct {
	cfg model.EscalationConfig
}

// New creates a gate with the given thresholds
func New(cfg model.EscalationConfig) *Gate {
	return &Gate{cfg: cfg}
}

// ShouldEscalate evaluates the draft answer and its claim verifications.
// It returns the decision and a human-readable reason for the report.
//
// Zero claims never trigger the ratio or confidence rules: a claim-free
// answer of reasonable length is an acceptable outcome, not a defect.
func (g *Gate) ShouldEscalate(draft string, claims []model.Claim, verifications map[string]model.VerificationResult) (bool, string) {
	lower := strings.ToLower(draft)
	for _, phrase := range g.cfg.UncertaintyPhrases {
		if strings.Contains(lower, phrase) {
			return true, fmt.Sprintf("draft expressed uncertainty: %q", phrase)
		}
	}

	if words := len(strings.Fields(draft)); words < g.cfg.MinAnswerWords {
		return true, fmt.Sprintf("draft too brief (%d words), may lack real content", words)
	}

	if len(verifications) > 0 {
		contradicted := 0
		confidenceSum := 0.0
		for _, v := range verifications {
			if v.Label == model.LabelContradicted {
				contradicted++
			}
			confidenceSum += v.Confidence
		}

		ratio := float64(contradicted) / float64(len(verifications))
		if ratio > g.cfg.MaxContradictedRatio {
			return true, fmt.Sprintf("contradicted claim ratio %.2f exceeds %.2f", ratio, g.cfg.MaxContradictedRatio)
		}

		mean := confidenceSum / float64(len(verifications))
		if mean < g.cfg.MinMeanConfidence {
			return true, fmt.Sprintf("mean verification confidence %.2f below %.2f", mean, g.cfg.MinMeanConfidence)
		}
	}

	return false, ""
}
