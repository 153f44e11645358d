package gate

import (
	"strings"
	"testing"

	"github.com/ppiankov/claimguard/internal/model"
)

func testConfig() model.EscalationConfig {
	return model.EscalationConfig{
		UncertaintyPhrases:   []string{"i'm not sure", "i don't know", "cannot verify"},
		MaxContradictedRatio: 0.30,
		MinMeanConfidence:    0.50,
		MinAnswerWords:       10,
	}
}

func verification(label model.Label, confidence float64) model.VerificationResult {
	return model.VerificationResult{Label: label, Confidence: confidence}
}

func TestGate_UncertaintyPhraseTriggers(t *testing.T) {
	g := New(testConfig())

	draft := "I'm not sure about the exact date, but it was probably sometime around the early twentieth century."

	escalate, reason := g.ShouldEscalate(draft, nil, nil)
	if !escalate {
		t.Fatal("Expected escalation on uncertainty phrase")
	}
	if !strings.Contains(reason, "uncertainty") {
		t.Errorf("Expected reason to mention uncertainty, got %q", reason)
	}
}

func TestGate_UncertaintyPhraseCaseInsensitive(t *testing.T) {
	g := New(testConfig())

	draft := "I DON'T KNOW the answer to that question, though several sources discuss the broader topic in detail."

	escalate, _ := g.ShouldEscalate(draft, nil, nil)
	if !escalate {
		t.Error("Expected case-insensitive phrase matching to trigger escalation")
	}
}

func TestGate_DefaultPhrasesReportMostSpecificMatch(t *testing.T) {
	g := New(model.DefaultConfig().Escalation)

	draft := "I cannot confirm the signing date from the material that was available to me during this search."

	escalate, reason := g.ShouldEscalate(draft, nil, nil)
	if !escalate {
		t.Fatal("Expected escalation on uncertainty phrase")
	}
	if !strings.Contains(reason, `"i cannot confirm"`) {
		t.Errorf("Expected reason to name the full phrase, got %q", reason)
	}
}

func TestGate_ShortAnswerTriggers(t *testing.T) {
	g := New(testConfig())

	escalate, reason := g.ShouldEscalate("Paris.", nil, nil)
	if !escalate {
		t.Fatal("Expected escalation on very short answer")
	}
	if !strings.Contains(reason, "brief") {
		t.Errorf("Expected reason to mention brevity, got %q", reason)
	}
}

func TestGate_ContradictedRatioTriggers(t *testing.T) {
	g := New(testConfig())

	draft := "The first fact is stated here and the second fact is stated there with plenty of words."
	verifications := map[string]model.VerificationResult{
		"a": verification(model.LabelContradicted, 0.9),
		"b": verification(model.LabelContradicted, 0.9),
		"c": verification(model.LabelSupported, 0.9),
	}

	escalate, reason := g.ShouldEscalate(draft, nil, verifications)
	if !escalate {
		t.Fatal("Expected escalation at 2/3 contradicted")
	}
	if !strings.Contains(reason, "contradicted") {
		t.Errorf("Expected reason to mention contradiction, got %q", reason)
	}
}

func TestGate_ContradictedRatioAtThresholdDoesNotTrigger(t *testing.T) {
	cfg := testConfig()
	cfg.MaxContradictedRatio = 0.50
	g := New(cfg)

	draft := "A long enough answer with exactly the right number of words to pass the brevity check here."
	verifications := map[string]model.VerificationResult{
		"a": verification(model.LabelContradicted, 0.9),
		"b": verification(model.LabelSupported, 0.9),
	}

	// Ratio is exactly 0.50; the trigger requires strictly greater
	escalate, _ := g.ShouldEscalate(draft, nil, verifications)
	if escalate {
		t.Error("Expected no escalation at exactly the threshold ratio")
	}
}

func TestGate_LowMeanConfidenceTriggers(t *testing.T) {
	g := New(testConfig())

	draft := "This answer has enough words to pass the brevity check without any uncertainty phrases at all."
	verifications := map[string]model.VerificationResult{
		"a": verification(model.LabelNeutral, 0.3),
		"b": verification(model.LabelNeutral, 0.4),
	}

	escalate, reason := g.ShouldEscalate(draft, nil, verifications)
	if !escalate {
		t.Fatal("Expected escalation on low mean confidence")
	}
	if !strings.Contains(reason, "confidence") {
		t.Errorf("Expected reason to mention confidence, got %q", reason)
	}
}

func TestGate_ZeroClaimsNeverTriggersRatioRules(t *testing.T) {
	g := New(testConfig())

	draft := "A reasonable answer of sufficient length that simply contains no independently checkable factual assertions."

	escalate, _ := g.ShouldEscalate(draft, nil, map[string]model.VerificationResult{})
	if escalate {
		t.Error("Expected no escalation for a claim-free answer of reasonable length")
	}
}

func TestGate_ConfidentDraftPasses(t *testing.T) {
	g := New(testConfig())

	draft := "The answer is well grounded and every claim it makes has been checked against multiple sources."
	verifications := map[string]model.VerificationResult{
		"a": verification(model.LabelSupported, 0.9),
		"b": verification(model.LabelSupported, 0.85),
		"c": verification(model.LabelNeutral, 0.6),
	}

	escalate, reason := g.ShouldEscalate(draft, nil, verifications)
	if escalate {
		t.Errorf("Expected no escalation for a confident draft, got reason %q", reason)
	}
}

func TestGate_MoreContradictionsNeverPreventEscalation(t *testing.T) {
	g := New(testConfig())

	draft := "An answer that is long enough for the brevity trigger not to fire during this particular test."

	base := map[string]model.VerificationResult{
		"a": verification(model.LabelContradicted, 0.9),
		"b": verification(model.LabelContradicted, 0.9),
		"c": verification(model.LabelSupported, 0.9),
	}
	escalate, _ := g.ShouldEscalate(draft, nil, base)
	if !escalate {
		t.Fatal("Expected escalation with 2/3 contradicted")
	}

	// Flipping the remaining supported claim to contradicted keeps it
	worse := map[string]model.VerificationResult{
		"a": verification(model.LabelContradicted, 0.9),
		"b": verification(model.LabelContradicted, 0.9),
		"c": verification(model.LabelContradicted, 0.9),
	}
	escalate, _ = g.ShouldEscalate(draft, nil, worse)
	if !escalate {
		t.Error("Expected escalation to be monotonic in contradicted count")
	}
}
