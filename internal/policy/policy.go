// Package policy maps verification outcomes to per-claim actions and
// assembles the final answer text from them.
package policy

import (
	"strings"

	"github.com/ppiankov/claimguard/internal/model"
)

// Policy decides the action for each verified claim
type Policy struct {
	cfg model.PolicyConfig
}

// New creates a policy with the given thresholds
func New(cfg model.PolicyConfig) *Policy {
	return &Policy{cfg: cfg}
}

// Decide maps one claim's verification outcome to an action. Applied
// independently per claim, in the claim's original order.
func (p *Policy) Decide(claim model.Claim, verification model.VerificationResult) model.Decision {
	d := model.Decision{
		ClaimID:    claim.ID,
		Claim:      claim.Text,
		Confidence: verification.Confidence,
	}
	for _, ev := range verification.EvidenceUsed {
		d.EvidenceURLs = append(d.EvidenceURLs, ev.SourceURL)
	}

	switch verification.Label {
	case model.LabelSupported:
		if verification.Confidence >= p.cfg.AcceptConfidence {
			d.Action = model.ActionAccept
			d.Reasoning = "evidence supports the claim"
		} else if verification.Confidence >= p.cfg.TrustConfidence {
			// Weakly supported and unopposed: keep it
			d.Action = model.ActionAccept
			d.Reasoning = "weak but unopposed support"
		} else {
			d.Action = model.ActionAbstain
			d.Reasoning = "support too weak to trust"
		}

	case model.LabelContradicted:
		replacement := deriveReplacement(verification)
		if verification.Confidence >= p.cfg.CorrectConfidence && replacement != "" {
			d.Action = model.ActionCorrect
			d.Replacement = replacement
			d.Reasoning = "evidence contradicts the claim"
		} else {
			// Contradicted but nothing usable to ground a correction
			d.Action = model.ActionFlagForHuman
			d.Reasoning = "contradiction without usable correction"
		}

	case model.LabelNeutral:
		if verification.Confidence < p.cfg.TrustConfidence {
			d.Action = model.ActionAbstain
			d.Reasoning = "insufficient evidence confidence"
		} else {
			d.Action = model.ActionAccept
			d.Reasoning = "weak but unopposed claim"
		}
	}

	return d
}

// DecisionFromCache rebuilds a decision for a claim whose verification
// was settled in a previous run
func DecisionFromCache(claim model.Claim, cached model.CachedDecision) model.Decision {
	return model.Decision{
		ClaimID:      claim.ID,
		Action:       cached.Action,
		Claim:        claim.Text,
		Replacement:  cached.Replacement,
		EvidenceURLs: cached.EvidenceURLs,
		Confidence:   cached.Confidence,
		Reasoning:    "from cache",
		FromCache:    true,
	}
}

// deriveReplacement produces a short fact substitution from the most
// informative evidence item: its first sentence, not a full rewrite.
func deriveReplacement(verification model.VerificationResult) string {
	for _, ev := range verification.EvidenceUsed {
		snippet := strings.TrimSpace(ev.Snippet)
		if snippet == "" {
			continue
		}
		return firstSentence(snippet)
	}
	return ""
}

func firstSentence(text string) string {
	for i := 0; i < len(text); i++ {
		c := text[i]
		if c != '.' && c != '!' && c != '?' {
			continue
		}
		if i+1 == len(text) || text[i+1] == ' ' {
			return text[:i+1]
		}
	}
	if !strings.HasSuffix(text, ".") {
		return text + "."
	}
	return text
}
