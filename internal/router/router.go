package router

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ppiankov/claimguard/internal/llm"
	"github.com/ppiankov/claimguard/internal/model"
)

// ErrTierExhausted is returned when every candidate provider in the
// requested tier has failed. The router never falls back to the other
// tier: tier selection is an explicit caller decision tied to cost
// accounting.
var ErrTierExhausted = errors.New("all providers in tier exhausted")

// Result is the outcome of one routed generation call
type Result struct {
	Text     string
	Provider string
	Model    string
	Tier     model.Tier
	Tokens   int
	Cost     float64
}

// Router routes generation requests to an ordered list of candidate
// providers per tier, falling back within the tier on provider failure.
type Router struct {
	fast    []llm.Provider
	premium []llm.Provider

	cost        model.CostConfig
	ledger      *Ledger
	maxTokens   int
	temperature float64
}

// New creates a router over pre-built provider candidate lists.
// Candidate order is preference order.
func New(fast, premium []llm.Provider, cost model.CostConfig, ledger *Ledger) *Router {
	return &Router{
		fast:      fast,
		premium:   premium,
		cost:      cost,
		ledger:    ledger,
		maxTokens: 2000,
	}
}

// FromConfig builds the candidate lists from configuration. Providers
// that fail to construct (e.g. missing API key) are skipped so a
// partially configured environment still routes to what is available.
func FromConfig(cfg *model.Config, ledger *Ledger) (*Router, error) {
	fast := buildCandidates(cfg.Providers.Fast, cfg)
	premium := buildCandidates(cfg.Providers.Premium, cfg)

	if len(fast) == 0 && len(premium) == 0 {
		return nil, fmt.Errorf("no providers configured: set GROQ_API_KEY, OPENAI_API_KEY, ANTHROPIC_API_KEY or run Ollama locally")
	}

	r := New(fast, premium, cfg.Cost, ledger)
	r.maxTokens = cfg.Providers.MaxTokens
	r.temperature = cfg.Providers.Temperature
	return r, nil
}

func buildCandidates(configs []model.ProviderConfig, cfg *model.Config) []llm.Provider {
	var providers []llm.Provider
	for _, pc := range configs {
		p, err := llm.NewProvider(llm.ConfigFromModel(pc, cfg.Proxy, cfg.Providers.MaxTokens))
		if err != nil {
			continue
		}
		providers = append(providers, p)
	}
	return providers
}

// Generate sends the prompt to the requested tier, trying candidates in
// configured order. A non-empty override restricts the attempt to the
// named provider within that tier. Every successful call is recorded in
// the ledger with its tier and estimated cost.
func (r *Router) Generate(ctx context.Context, tier model.Tier, prompt string, override string) (*Result, error) {
	candidates := r.candidates(tier)
	if override != "" {
		candidates = filterByName(candidates, override)
		if len(candidates) == 0 {
			return nil, fmt.Errorf("provider %q not configured in %s tier", override, tier)
		}
	}
	if len(candidates) == 0 {
		return nil, fmt.Errorf("%s tier: %w", tier, ErrTierExhausted)
	}

	req := llm.GenerateRequest{
		Prompt:      prompt,
		System:      "You are a helpful assistant. Provide accurate, concise answers. If you're unsure about something, clearly state your uncertainty.",
		MaxTokens:   r.maxTokens,
		Temperature: r.temperature,
	}

	var attemptErrs []string
	for _, p := range candidates {
		resp, err := p.Generate(ctx, req)
		if err != nil {
			attemptErrs = append(attemptErrs, fmt.Sprintf("%s: %v", p.Name(), err))
			continue
		}

		cost := r.EstimateCost(tier, resp.Model, resp.TokensUsed)
		r.ledger.RecordCall(tier, cost)

		return &Result{
			Text:     resp.Text,
			Provider: p.Name(),
			Model:    resp.Model,
			Tier:     tier,
			Tokens:   resp.TokensUsed,
			Cost:     cost,
		}, nil
	}

	return nil, fmt.Errorf("%s tier (%s): %w", tier, strings.Join(attemptErrs, "; "), ErrTierExhausted)
}

// EstimateCost converts a token count into approximate USD for the tier
func (r *Router) EstimateCost(tier model.Tier, modelName string, tokens int) float64 {
	perMTok := r.cost.PremiumProPerMTok
	switch {
	case tier == model.TierFast:
		perMTok = r.cost.FastPerMTok
	case isFlashClass(modelName):
		perMTok = r.cost.PremiumFlashPerMTok
	}
	return float64(tokens) / 1_000_000 * perMTok
}

// EstimatePremiumCost projects what a premium-pro call of the given size
// would have cost; used for cost-saved accounting on escalation.
func (r *Router) EstimatePremiumCost(tokens int) float64 {
	return float64(tokens) / 1_000_000 * r.cost.PremiumProPerMTok
}

// Ledger exposes the shared stats ledger
func (r *Router) Ledger() *Ledger {
	return r.ledger
}

func (r *Router) candidates(tier model.Tier) []llm.Provider {
	if tier == model.TierPremium {
		return r.premium
	}
	return r.fast
}

func filterByName(providers []llm.Provider, name string) []llm.Provider {
	var out []llm.Provider
	for _, p := range providers {
		if strings.EqualFold(p.Name(), name) {
			out = append(out, p)
		}
	}
	return out
}

// isFlashClass reports whether the model belongs to the cheaper premium
// cost class
func isFlashClass(modelName string) bool {
	lower := strings.ToLower(modelName)
	return strings.Contains(lower, "flash") || strings.Contains(lower, "haiku") || strings.Contains(lower, "mini")
}
