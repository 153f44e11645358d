package model

import "time"

// Tier identifies the cost/latency class of a text-generation call
type Tier string

const (
	TierFast    Tier = "fast"    // Cheap, lower accuracy (SLM class)
	TierPremium Tier = "premium" // Expensive, higher accuracy (LLM class)
)

// Report is the complete, externally visible result of one pipeline run.
// It is always fully populated, even when individual stages degraded;
// only full provider-tier exhaustion aborts a run without a report.
type Report struct {
	Query      string    `json:"query"`
	AnsweredAt time.Time `json:"answered_at"`

	TierUsed Tier   `json:"tier_used"` // Tier that produced the final answer
	Provider string `json:"provider"`  // Provider that produced the final answer
	Model    string `json:"model,omitempty"`

	DraftAnswer string `json:"draft_answer"`
	FinalAnswer string `json:"final_answer"`

	Claims        []Claim                       `json:"claims"`
	Verifications map[string]VerificationResult `json:"verifications"` // Keyed by claim ID
	Decisions     []Decision                    `json:"decisions"`

	Escalated        bool   `json:"escalated"`
	EscalationReason string `json:"escalation_reason,omitempty"`

	Breakdown          ClaimBreakdown `json:"claim_breakdown"`
	HallucinationScore float64        `json:"hallucination_score"` // problematic / total claims
	Confidence         float64        `json:"confidence"`          // 1 - hallucination score

	Errors []RunError `json:"errors,omitempty"`

	ProcessingTime float64 `json:"processing_time_seconds"`
	CostEstimate   float64 `json:"cost_estimate"`
}

// ClaimBreakdown counts decisions per action
type ClaimBreakdown struct {
	Total     int `json:"total"`
	Accepted  int `json:"accepted"`
	Corrected int `json:"corrected"`
	Abstained int `json:"abstained"`
	Flagged   int `json:"flagged"`
}

// RunError records a recoverable, component-level degradation during a run.
// These never abort the pipeline; they are surfaced in the report so the
// caller can see which claims were verified on degraded inputs.
type RunError struct {
	Stage   string `json:"stage"`              // "retrieve", "verify", "cache", ...
	ClaimID string `json:"claim_id,omitempty"` // Empty for run-level errors
	Message string `json:"message"`
}

// CountDecisions tallies decisions into a breakdown
func CountDecisions(decisions []Decision) ClaimBreakdown {
	b := ClaimBreakdown{Total: len(decisions)}
	for _, d := range decisions {
		switch d.Action {
		case ActionAccept:
			b.Accepted++
		case ActionCorrect:
			b.Corrected++
		case ActionAbstain:
			b.Abstained++
		case ActionFlagForHuman:
			b.Flagged++
		}
	}
	return b
}
