// Package pipeline orchestrates the verification-and-escalation engine:
// fast-tier draft, claim extraction, evidence retrieval, verification,
// the escalation gate, per-claim decisions, and answer assembly.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/ppiankov/claimguard/internal/cache"
	"github.com/ppiankov/claimguard/internal/extract"
	"github.com/ppiankov/claimguard/internal/gate"
	"github.com/ppiankov/claimguard/internal/llm"
	"github.com/ppiankov/claimguard/internal/model"
	"github.com/ppiankov/claimguard/internal/policy"
	"github.com/ppiankov/claimguard/internal/retrieve"
	"github.com/ppiankov/claimguard/internal/router"
	"github.com/ppiankov/claimguard/internal/search"
	"github.com/ppiankov/claimguard/internal/verify"
	"github.com/ppiankov/claimguard/internal/worker"
)

// Pipeline runs queries through the full engine. One Pipeline serves many
// concurrent runs; the ledger and cache are the only shared state.
type Pipeline struct {
	router    *router.Router
	extractor *extract.ClaimExtractor
	retriever *retrieve.Retriever
	verifier  *verify.Verifier
	gate      *gate.Gate
	policy    *policy.Policy
	memory    cache.Cache // Settled-decision store; may be nil
	cfg       *model.Config
}

// Options adjust a single run
type Options struct {
	// ProviderOverride restricts the initial generation call to the named
	// provider within its tier. A premium regeneration after escalation
	// uses the default candidate order.
	ProviderOverride string

	// ForcePremium skips the fast tier entirely
	ForcePremium bool
}

// New creates a pipeline from pre-built components
func New(cfg *model.Config, rt *router.Router, retriever *retrieve.Retriever, verifier *verify.Verifier, memory cache.Cache) *Pipeline {
	return &Pipeline{
		router:    rt,
		extractor: extract.NewClaimExtractor(),
		retriever: retriever,
		verifier:  verifier,
		gate:      gate.New(cfg.Escalation),
		policy:    policy.New(cfg.Policy),
		memory:    memory,
		cfg:       cfg,
	}
}

// FromConfig wires the pipeline from configuration: providers from env
// keys, search backends, the layered cache, and the shared ledger.
func FromConfig(cfg *model.Config, ledger *router.Ledger) (*Pipeline, error) {
	rt, err := router.FromConfig(cfg, ledger)
	if err != nil {
		return nil, fmt.Errorf("build router: %w", err)
	}

	var store cache.Cache
	if cfg.Cache.Enabled {
		store = cache.NewLayeredCache(cfg.Cache.MemoryTTL, cfg.Cache.Dir, cfg.Cache.DiskTTL)
	}

	var web search.Searcher
	if apiKey := os.Getenv("BRAVE_SEARCH_API_KEY"); apiKey != "" {
		brave, err := search.NewBraveSearch(search.BraveConfig{
			APIKey:     apiKey,
			Timeout:    cfg.Retrieval.Timeout,
			HTTPProxy:  cfg.Proxy.HTTPProxy,
			HTTPSProxy: cfg.Proxy.HTTPSProxy,
			NoProxy:    cfg.Proxy.NoProxy,
		})
		if err == nil {
			web = brave
		}
	}
	wiki := search.NewWikipediaSearch(search.WikipediaConfig{
		UserAgent:  cfg.Retrieval.UserAgent,
		Timeout:    cfg.Retrieval.Timeout,
		HTTPProxy:  cfg.Proxy.HTTPProxy,
		HTTPSProxy: cfg.Proxy.HTTPSProxy,
		NoProxy:    cfg.Proxy.NoProxy,
	})

	limiter := worker.NewLimiter(cfg.Retrieval.RatePerHost, cfg.Retrieval.Burst)
	retriever := retrieve.New(web, wiki, store, limiter, cfg.Retrieval, cfg.Concurrency.RetrievalWorkers)

	verifier := verify.New(buildReasoner(cfg), cfg.Verifier)

	return New(cfg, rt, retriever, verifier, store), nil
}

// buildReasoner picks the provider for verification calls: the
// configured reasoner, or the first constructible premium candidate.
func buildReasoner(cfg *model.Config) verify.Reasoner {
	candidates := cfg.Providers.Premium
	if cfg.Providers.Reasoner != nil {
		candidates = append([]model.ProviderConfig{*cfg.Providers.Reasoner}, candidates...)
	}

	for _, pc := range candidates {
		p, err := llm.NewProvider(llm.ConfigFromModel(pc, cfg.Proxy, cfg.Verifier.MaxTokens))
		if err != nil {
			continue
		}
		return p
	}
	return nil
}

// Answer runs one query through the engine with default options
func (p *Pipeline) Answer(ctx context.Context, query string) (*model.Report, error) {
	return p.AnswerWithOptions(ctx, query, Options{})
}

// AnswerWithOptions runs one query through the engine.
//
// Recoverable degradations (failed retrievals, failed reasoning calls)
// are collected in the report's error list; the report is always fully
// populated when the call succeeds. The only terminal failures are full
// tier exhaustion and a broken extractor span contract.
func (p *Pipeline) AnswerWithOptions(ctx context.Context, query string, opts Options) (*model.Report, error) {
	start := time.Now()

	tier := model.TierFast
	if opts.ForcePremium {
		tier = model.TierPremium
	}

	gen, err := p.router.Generate(ctx, tier, query, opts.ProviderOverride)
	if err != nil {
		return nil, fmt.Errorf("generate draft: %w", err)
	}

	report := &model.Report{
		Query:        query,
		AnsweredAt:   time.Now().UTC(),
		TierUsed:     gen.Tier,
		Provider:     gen.Provider,
		Model:        gen.Model,
		DraftAnswer:  gen.Text,
		CostEstimate: gen.Cost,
	}

	run := p.analyze(ctx, gen.Text, report)

	// The gate runs once per query: a regenerated answer is trusted as-is
	// rather than gated again, so there is no retry loop.
	if tier == model.TierFast {
		escalate, reason := p.gate.ShouldEscalate(gen.Text, run.claims, run.verifications)
		if escalate {
			p.router.Ledger().RecordEscalation(p.router.EstimatePremiumCost(gen.Tokens) - gen.Cost)

			regen, err := p.router.Generate(ctx, model.TierPremium, query, "")
			if err != nil {
				return nil, fmt.Errorf("escalated regeneration: %w", err)
			}

			// The old draft's claims, verifications, and decisions are
			// invalid against the new answer text; rebuild everything.
			// Degradation records stay: they narrate the whole run, and
			// the first pass's failures fed the escalation decision.
			report.TierUsed = regen.Tier
			report.Provider = regen.Provider
			report.Model = regen.Model
			report.DraftAnswer = regen.Text
			report.Escalated = true
			report.EscalationReason = reason
			report.CostEstimate += regen.Cost

			run = p.analyze(ctx, regen.Text, report)
		}
	}

	decisions := make([]model.Decision, len(run.claims))
	for i, claim := range run.claims {
		if cached, ok := run.cached[i]; ok {
			decisions[i] = policy.DecisionFromCache(claim, cached)
			continue
		}
		decisions[i] = p.policy.Decide(claim, run.verifications[claim.ID])
	}

	final, err := policy.Assemble(report.DraftAnswer, run.claims, decisions, p.cfg.Policy.Rendering)
	if err != nil {
		// Broken span contract: reconstruction cannot be trusted
		return nil, fmt.Errorf("assemble answer: %w", err)
	}

	p.storeDecisions(run, decisions)

	report.Claims = run.claims
	report.Verifications = run.verifications
	report.Decisions = decisions
	report.FinalAnswer = final
	report.Breakdown = model.CountDecisions(decisions)
	if report.Breakdown.Total > 0 {
		problematic := report.Breakdown.Corrected + report.Breakdown.Flagged
		report.HallucinationScore = float64(problematic) / float64(report.Breakdown.Total)
	}
	report.Confidence = 1.0 - report.HallucinationScore
	report.ProcessingTime = time.Since(start).Seconds()

	return report, nil
}

// runState carries one analysis pass over a draft answer
type runState struct {
	claims        []model.Claim
	cached        map[int]model.CachedDecision // By claim index; IDs can repeat
	verifications map[string]model.VerificationResult
}

// analyze extracts claims from a draft and verifies the ones without a
// cached decision. Recoverable errors are appended to the report.
func (p *Pipeline) analyze(ctx context.Context, draft string, report *model.Report) runState {
	run := runState{
		claims:        p.extractor.Extract(draft),
		cached:        make(map[int]model.CachedDecision),
		verifications: make(map[string]model.VerificationResult),
	}

	var fresh []model.Claim
	for i, claim := range run.claims {
		if cached, ok := p.lookupDecision(claim); ok {
			run.cached[i] = cached
			continue
		}
		fresh = append(fresh, claim)
	}

	if len(fresh) == 0 {
		return run
	}

	evidenceMap, retrieveErrs := p.retriever.RetrieveAll(ctx, fresh)
	report.Errors = append(report.Errors, retrieveErrs...)

	for _, claim := range fresh {
		result, err := p.verifier.Verify(ctx, claim, evidenceMap[claim.ID])
		if err != nil {
			report.Errors = append(report.Errors, model.RunError{
				Stage:   "verify",
				ClaimID: claim.ID,
				Message: err.Error(),
			})
		}
		run.verifications[claim.ID] = result
	}

	return run
}

func (p *Pipeline) lookupDecision(claim model.Claim) (model.CachedDecision, bool) {
	if p.memory == nil {
		return model.CachedDecision{}, false
	}

	data, found := p.memory.Get(cache.DecisionKey(claim.Text))
	if !found {
		return model.CachedDecision{}, false
	}

	var cached model.CachedDecision
	if err := json.Unmarshal(data, &cached); err != nil {
		return model.CachedDecision{}, false
	}
	return cached, true
}

// storeDecisions persists freshly decided claims so later runs can skip
// retrieval and verification for them
func (p *Pipeline) storeDecisions(run runState, decisions []model.Decision) {
	if p.memory == nil {
		return
	}

	for i, d := range decisions {
		if _, wasCached := run.cached[i]; wasCached {
			continue
		}
		data, err := json.Marshal(model.CachedDecision{
			Action:       d.Action,
			Replacement:  d.Replacement,
			EvidenceURLs: d.EvidenceURLs,
			Confidence:   d.Confidence,
		})
		if err != nil {
			continue
		}
		_ = p.memory.Set(cache.DecisionKey(run.claims[i].Text), data, 0)
	}
}
