// Package verify scores claims against retrieved evidence using a
// natural-language-inference style reasoning call per evidence item.
package verify

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/ppiankov/claimguard/internal/llm"
	"github.com/ppiankov/claimguard/internal/model"
)

// Reasoner is the minimal generation capability the verifier needs.
// Satisfied by any llm.Provider.
type Reasoner interface {
	Name() string
	Generate(ctx context.Context, req llm.GenerateRequest) (*llm.GenerateResponse, error)
}

// Verifier scores (claim, evidence) pairs for entailment, contradiction,
// or neutrality
type Verifier struct {
	reasoner Reasoner
	cfg      model.VerifierConfig
}

// New creates a verifier backed by the given reasoner
func New(reasoner Reasoner, cfg model.VerifierConfig) *Verifier {
	return &Verifier{
		reasoner: reasoner,
		cfg:      cfg,
	}
}

// verdict is the JSON shape the reasoner is asked to return
type verdict struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
	Reasoning  string  `json:"reasoning"`
}

type scoredEvidence struct {
	evidence model.Evidence
	label    model.Label
	conf     float64
	reason   string
}

// Verify scores one claim against its evidence. Each evidence item is
// scored independently, and the single most informative item determines
// the claim's label: one decisive contradiction must not be diluted by
// several weak supporting snippets.
//
// The returned error is recoverable. The VerificationResult is always
// usable; a non-nil error reports reasoning-call failures that degraded
// the result toward NEUTRAL.
func (v *Verifier) Verify(ctx context.Context, claim model.Claim, evidence []model.Evidence) (model.VerificationResult, error) {
	if len(evidence) == 0 {
		// Unverifiable, not necessarily false
		return model.VerificationResult{
			ClaimID:    claim.ID,
			Label:      model.LabelNeutral,
			Confidence: v.cfg.NoEvidenceConfidence,
			Reasoning:  "no evidence retrieved",
		}, nil
	}

	var scored []scoredEvidence
	var callErrs []string

	for _, ev := range evidence {
		s, err := v.scoreEvidence(ctx, claim, ev)
		if err != nil {
			callErrs = append(callErrs, err.Error())
			continue
		}
		scored = append(scored, s)
	}

	if len(scored) == 0 {
		// All reasoning calls failed; degrade rather than fail the run
		return model.VerificationResult{
			ClaimID:    claim.ID,
			Label:      model.LabelNeutral,
			Confidence: 0.0,
			Reasoning:  "verification unavailable",
		}, fmt.Errorf("all reasoning calls failed: %s", strings.Join(callErrs, "; "))
	}

	v.sortByStrength(scored)

	used := make([]model.Evidence, len(scored))
	for i, s := range scored {
		used[i] = s.evidence
	}

	best := scored[0]
	result := model.VerificationResult{
		ClaimID:      claim.ID,
		Label:        best.label,
		Confidence:   best.conf,
		EvidenceUsed: used,
		Reasoning:    best.reason,
	}

	if len(callErrs) > 0 {
		return result, fmt.Errorf("%d of %d reasoning calls failed: %s", len(callErrs), len(evidence), strings.Join(callErrs, "; "))
	}
	return result, nil
}

// scoreEvidence issues one NLI-style reasoning call for a single
// (claim, evidence) pair
func (v *Verifier) scoreEvidence(ctx context.Context, claim model.Claim, ev model.Evidence) (scoredEvidence, error) {
	if v.reasoner == nil {
		return scoredEvidence{}, fmt.Errorf("no reasoner configured")
	}

	timeout := time.Duration(v.cfg.Timeout) * time.Second
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	resp, err := v.reasoner.Generate(ctx, llm.GenerateRequest{
		Prompt:      buildPrompt(claim.Text, ev),
		MaxTokens:   v.cfg.MaxTokens,
		Temperature: 0.0,
	})
	if err != nil {
		return scoredEvidence{}, fmt.Errorf("reasoning call (%s): %w", v.reasoner.Name(), err)
	}

	verdict, err := parseVerdict(resp.Text)
	if err != nil {
		return scoredEvidence{}, fmt.Errorf("parse verdict: %w", err)
	}

	return scoredEvidence{
		evidence: ev,
		label:    normalizeLabel(verdict.Label),
		conf:     clamp01(verdict.Confidence),
		reason:   verdict.Reasoning,
	}, nil
}

// sortByStrength orders scored evidence most informative first: highest
// confidence wins, with CONTRADICTED breaking exact ties over SUPPORTED
// when configured (the conservative default).
func (v *Verifier) sortByStrength(scored []scoredEvidence) {
	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].conf != scored[j].conf {
			return scored[i].conf > scored[j].conf
		}
		if v.cfg.PreferContradiction {
			return scored[i].label == model.LabelContradicted && scored[j].label != model.LabelContradicted
		}
		return false
	})
}

func buildPrompt(claim string, ev model.Evidence) string {
	return fmt.Sprintf(`You are a fact-verification expert. Analyze whether the evidence supports, contradicts, or is neutral to the claim.

CLAIM: %s

EVIDENCE (%s):
%s

Return ONLY a JSON object with this exact structure (no markdown, no code blocks):
{
  "label": "SUPPORTED" | "CONTRADICTED" | "NEUTRAL",
  "confidence": 0.0-1.0,
  "reasoning": "brief explanation"
}`, claim, ev.SourceURL, ev.Snippet)
}

var jsonObjectRe = regexp.MustCompile(`(?s)\{.*\}`)

// parseVerdict decodes the reasoner's JSON output, tolerating models
// that wrap the object in prose or code fences
func parseVerdict(text string) (*verdict, error) {
	var v verdict
	if err := json.Unmarshal([]byte(text), &v); err == nil {
		return &v, nil
	}

	match := jsonObjectRe.FindString(text)
	if match == "" {
		return nil, fmt.Errorf("no JSON object in response")
	}
	if err := json.Unmarshal([]byte(match), &v); err != nil {
		return nil, fmt.Errorf("malformed verdict JSON: %w", err)
	}
	return &v, nil
}

func normalizeLabel(label string) model.Label {
	switch strings.ToUpper(strings.TrimSpace(label)) {
	case "SUPPORTED":
		return model.LabelSupported
	case "CONTRADICTED":
		return model.LabelContradicted
	default:
		return model.LabelNeutral
	}
}

func clamp01(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
