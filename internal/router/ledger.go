package router

import (
	"sync"

	"github.com/ppiankov/claimguard/internal/model"
)

// Ledger tracks process-wide call counters and cost accounting.
// One Ledger is shared by every concurrent pipeline run; it is injected
// rather than ambient so tests can start from a fresh zero state.
type Ledger struct {
	mu          sync.Mutex
	slmCalls    int64
	llmCalls    int64
	escalations int64
	totalCost   float64
	costSaved   float64
}

// NewLedger creates a zeroed ledger
func NewLedger() *Ledger {
	return &Ledger{}
}

// RecordCall records one successful generation call for a tier
func (l *Ledger) RecordCall(tier model.Tier, cost float64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	switch tier {
	case model.TierFast:
		l.slmCalls++
	case model.TierPremium:
		l.llmCalls++
	}
	l.totalCost += cost
}

// RecordEscalation records one escalation and the cost avoided by having
// tried the fast tier first
func (l *Ledger) RecordEscalation(costSaved float64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.escalations++
	l.costSaved += costSaved
}

// Snapshot is a read-only view of the ledger with derived rates
type Snapshot struct {
	SLMCalls        int64   `json:"slm_calls"`
	LLMCalls        int64   `json:"llm_calls"`
	TotalCalls      int64   `json:"total_calls"`
	Escalations     int64   `json:"escalations"`
	EscalationRate  float64 `json:"escalation_rate"`
	TotalCost       float64 `json:"total_cost"`
	CostSaved       float64 `json:"cost_saved"`
	AvgCostPerQuery float64 `json:"avg_cost_per_query"`
}

// Snapshot returns the current counters. Derived rates are defined as 0
// when no calls have been made.
func (l *Ledger) Snapshot() Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()

	s := Snapshot{
		SLMCalls:    l.slmCalls,
		LLMCalls:    l.llmCalls,
		TotalCalls:  l.slmCalls + l.llmCalls,
		Escalations: l.escalations,
		TotalCost:   l.totalCost,
		CostSaved:   l.costSaved,
	}
	// Every run makes exactly one fast-tier call, so slm_calls equals the
	// number of queries served; escalation rate is per query, not per call.
	if s.SLMCalls > 0 {
		s.EscalationRate = float64(s.Escalations) / float64(s.SLMCalls)
	}
	if s.TotalCalls > 0 {
		s.AvgCostPerQuery = s.TotalCost / float64(s.TotalCalls)
	}
	return s
}
