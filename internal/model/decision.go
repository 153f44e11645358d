package model

// Action is the closed set of per-claim outcomes
type Action string

const (
	ActionAccept       Action = "ACCEPT"
	ActionCorrect      Action = "CORRECT"
	ActionAbstain      Action = "ABSTAIN"
	ActionFlagForHuman Action = "FLAG_FOR_HUMAN"
)

// Decision records the action taken on a single claim during answer assembly
type Decision struct {
	ClaimID      string   `json:"claim_id"`
	Action       Action   `json:"action"`
	Claim        string   `json:"claim"`                 // Original claim text
	Replacement  string   `json:"replacement,omitempty"` // Present only for CORRECT
	EvidenceURLs []string `json:"evidence_urls,omitempty"`
	Confidence   float64  `json:"confidence"`
	Reasoning    string   `json:"reasoning,omitempty"`
	FromCache    bool     `json:"from_cache,omitempty"` // Reused from a previous run
}

// CachedDecision is the persisted form of a decision, keyed by normalized
// claim text so later runs can skip retrieval and verification for claims
// that were already settled.
type CachedDecision struct {
	Action       Action   `json:"action"`
	Replacement  string   `json:"replacement,omitempty"`
	EvidenceURLs []string `json:"evidence_urls,omitempty"`
	Confidence   float64  `json:"confidence"`
}
