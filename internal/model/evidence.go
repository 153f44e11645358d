package model

// Evidence represents a retrieved snippet that may support or refute a claim
type Evidence struct {
	Snippet     string  `json:"snippet"`                // The evidence text itself
	SourceURL   string  `json:"source_url"`             // Where the snippet came from
	Rank        int     `json:"rank"`                   // Retrieval rank, 0 = best
	Relevance   float64 `json:"relevance,omitempty"`    // Backend relevance estimate
	Credibility float64 `json:"credibility,omitempty"`  // Source credibility estimate
	PublishDate string  `json:"publish_date,omitempty"` // If the backend reports one
}

// Label classifies the relationship between a claim and its evidence
type Label string

const (
	LabelSupported    Label = "SUPPORTED"
	LabelContradicted Label = "CONTRADICTED"
	LabelNeutral      Label = "NEUTRAL"
)

// VerificationResult holds the outcome of verifying one claim.
// Produced exactly once per claim per pipeline pass; never mutated after.
type VerificationResult struct {
	ClaimID      string     `json:"claim_id"`
	Label        Label      `json:"label"`
	Confidence   float64    `json:"confidence"` // [0,1], from the most informative evidence item
	EvidenceUsed []Evidence `json:"evidence_used,omitempty"`
	Reasoning    string     `json:"reasoning,omitempty"`
}
