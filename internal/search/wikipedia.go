package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ppiankov/claimguard/internal/model"
	"github.com/ppiankov/claimguard/internal/util"
)

// WikipediaSearch implements Searcher over the Wikipedia search API.
// It needs no API key, which makes it a useful second opinion next to
// the web backend.
type WikipediaSearch struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
}

// WikipediaConfig holds Wikipedia search configuration
type WikipediaConfig struct {
	BaseURL    string
	UserAgent  string
	Timeout    time.Duration
	HTTPProxy  string
	HTTPSProxy string
	NoProxy    string
}

type wikipediaResponse struct {
	Query struct {
		Search []struct {
			Title   string `json:"title"`
			Snippet string `json:"snippet"`
		} `json:"search"`
	} `json:"query"`
}

// NewWikipediaSearch creates a Wikipedia search backend
func NewWikipediaSearch(cfg WikipediaConfig) *WikipediaSearch {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://en.wikipedia.org/w/api.php"
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	return &WikipediaSearch{
		baseURL:   baseURL,
		userAgent: cfg.UserAgent,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy: util.NewProxyFunc(cfg.HTTPProxy, cfg.HTTPSProxy, cfg.NoProxy),
			},
		},
	}
}

// Name returns the backend name
func (s *WikipediaSearch) Name() string {
	return "wikipedia"
}

// Search queries the Wikipedia search API
func (s *WikipediaSearch) Search(ctx context.Context, query string, limit int) ([]model.Evidence, error) {
	if limit <= 0 {
		return nil, nil
	}

	params := url.Values{}
	params.Set("action", "query")
	params.Set("list", "search")
	params.Set("srsearch", query)
	params.Set("format", "json")
	params.Set("utf8", "1")
	params.Set("srlimit", fmt.Sprintf("%d", limit))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if s.userAgent != "" {
		req.Header.Set("User-Agent", s.userAgent)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("wikipedia search: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	var data wikipediaResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	var results []model.Evidence
	for _, item := range data.Query.Search {
		if len(results) >= limit {
			break
		}
		snippet := stripMarkup(item.Snippet)
		if item.Title == "" || snippet == "" {
			continue
		}
		results = append(results, model.Evidence{
			Snippet:     snippet,
			SourceURL:   "https://en.wikipedia.org/wiki/" + strings.ReplaceAll(item.Title, " ", "_"),
			Relevance:   0.65,
			Credibility: 0.8,
		})
	}

	return results, nil
}
