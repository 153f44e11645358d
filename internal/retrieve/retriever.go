// Package retrieve gathers evidence snippets for claims from external
// search backends, with claim-text-keyed caching. Retrieval never fails a
// pipeline run: errors degrade to empty evidence, which verification
// treats as a first-class low-confidence NEUTRAL case.
package retrieve

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/ppiankov/claimguard/internal/cache"
	"github.com/ppiankov/claimguard/internal/model"
	"github.com/ppiankov/claimguard/internal/search"
	"github.com/ppiankov/claimguard/internal/worker"
	"golang.org/x/sync/errgroup"
)

// Retriever retrieves evidence for claims
type Retriever struct {
	web     search.Searcher // May be nil when no web API key is configured
	wiki    search.Searcher
	cache   cache.Cache // May be nil when caching is disabled
	limiter *worker.Limiter
	cfg     model.RetrievalConfig
	workers int
}

// New creates a retriever over the given backends
func New(web, wiki search.Searcher, c cache.Cache, limiter *worker.Limiter, cfg model.RetrievalConfig, workers int) *Retriever {
	if workers <= 0 {
		workers = 4
	}
	return &Retriever{
		web:     web,
		wiki:    wiki,
		cache:   c,
		limiter: limiter,
		cfg:     cfg,
		workers: workers,
	}
}

// Retrieve returns evidence for one claim, best first, capped at the
// configured top-K. The returned error is recoverable: the evidence slice
// is always usable, and an empty slice with a non-nil error means the
// backends failed rather than found nothing.
func (r *Retriever) Retrieve(ctx context.Context, claim model.Claim) ([]model.Evidence, error) {
	key := cache.EvidenceKey(claim.Text)

	if r.cache != nil {
		if data, found := r.cache.Get(key); found {
			var cached []model.Evidence
			if err := json.Unmarshal(data, &cached); err == nil {
				return cached, nil
			}
		}
	}

	if r.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.cfg.Timeout)
		defer cancel()
	}

	var evidence []model.Evidence
	var firstErr error

	webCount := min(r.cfg.WebResults, r.cfg.TopK)
	if results, err := r.searchBackend(ctx, r.web, claim.Text, webCount); err != nil {
		firstErr = err
	} else {
		evidence = append(evidence, results...)
	}

	wikiCount := min(r.cfg.WikiResults, r.cfg.TopK-len(evidence))
	if results, err := r.searchBackend(ctx, r.wiki, claim.Text, wikiCount); err != nil {
		if firstErr == nil {
			firstErr = err
		}
	} else {
		evidence = append(evidence, results...)
	}

	evidence = rankEvidence(evidence, r.cfg.TopK)

	// Cache only non-empty successful retrievals, so transient backend
	// failures do not pin an empty result.
	if r.cache != nil && len(evidence) > 0 {
		if data, err := json.Marshal(evidence); err == nil {
			_ = r.cache.Set(key, data, 0)
		}
	}

	if len(evidence) == 0 && firstErr != nil {
		return nil, firstErr
	}
	return evidence, nil
}

// RetrieveAll fans out retrieval across claims with a bounded number of
// concurrent units. A failure on one claim degrades that claim only; it
// never cancels the others. Returned map is keyed by claim ID.
func (r *Retriever) RetrieveAll(ctx context.Context, claims []model.Claim) (map[string][]model.Evidence, []model.RunError) {
	evidenceMap := make(map[string][]model.Evidence, len(claims))
	var runErrs []model.RunError
	var mu sync.Mutex

	var g errgroup.Group
	g.SetLimit(r.workers)

	for _, claim := range claims {
		claim := claim
		g.Go(func() error {
			evidence, err := r.Retrieve(ctx, claim)

			mu.Lock()
			defer mu.Unlock()
			evidenceMap[claim.ID] = evidence
			if err != nil {
				runErrs = append(runErrs, model.RunError{
					Stage:   "retrieve",
					ClaimID: claim.ID,
					Message: err.Error(),
				})
			}
			return nil
		})
	}

	_ = g.Wait()
	return evidenceMap, runErrs
}

func (r *Retriever) searchBackend(ctx context.Context, backend search.Searcher, query string, limit int) ([]model.Evidence, error) {
	if backend == nil || limit <= 0 {
		return nil, nil
	}

	if r.limiter != nil {
		if err := r.limiter.Wait(ctx, backend.Name()); err != nil {
			return nil, fmt.Errorf("%s rate limit: %w", backend.Name(), err)
		}
	}

	results, err := backend.Search(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", backend.Name(), err)
	}
	return results, nil
}

// rankEvidence orders evidence best-first by relevance weighted with
// source credibility, then assigns retrieval ranks and caps the list.
func rankEvidence(evidence []model.Evidence, topK int) []model.Evidence {
	sort.SliceStable(evidence, func(i, j int) bool {
		return evidence[i].Relevance*evidence[i].Credibility > evidence[j].Relevance*evidence[j].Credibility
	})

	if topK > 0 && len(evidence) > topK {
		evidence = evidence[:topK]
	}
	for i := range evidence {
		evidence[i].Rank = i
	}
	return evidence
}
