package model

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Claim represents an atomic factual assertion extracted from a generated answer
type Claim struct {
	ID          string    `json:"id"`                     // Short hash of the normalized claim text
	Text        string    `json:"text"`                   // The claim text itself
	Type        ClaimType `json:"type,omitempty"`         // Inferred claim category
	Span        Span      `json:"span"`                   // Byte offsets into the draft answer
	SubjectHint string    `json:"subject_hint,omitempty"` // Leading subject, used for search query formulation
	Sentence    int       `json:"sentence"`               // Sentence index in the draft (0-based)
}

// Span marks a half-open byte range [Start, End) inside the draft answer.
// Reconstruction splices replacement text over this range, so spans must
// stay valid for the exact draft string they were extracted from.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Len returns the span length in bytes
func (s Span) Len() int {
	return s.End - s.Start
}

// ClaimType categorizes the nature of the claim
type ClaimType string

const (
	ClaimTypeNumerical ClaimType = "numerical" // Quantities, percentages, money
	ClaimTypeTemporal  ClaimType = "temporal"  // Dates, years, relative time
	ClaimTypeEntity    ClaimType = "entity"    // Places, locations, affiliations
	ClaimTypeEvent     ClaimType = "event"     // Everything else that is checkable
)

// NormalizeClaimText produces the canonical form used for cache keys:
// case-folded with whitespace collapsed to single spaces.
func NormalizeClaimText(text string) string {
	return strings.ToLower(strings.Join(strings.Fields(text), " "))
}

// ClaimID derives a stable short identifier from the normalized claim text
func ClaimID(text string) string {
	sum := sha256.Sum256([]byte(NormalizeClaimText(text)))
	return hex.EncodeToString(sum[:8])
}
