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

// BraveSearch implements Searcher over the Brave web search API
type BraveSearch struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// BraveConfig holds Brave search configuration
type BraveConfig struct {
	APIKey     string
	BaseURL    string
	Timeout    time.Duration
	HTTPProxy  string
	HTTPSProxy string
	NoProxy    string
}

type braveResponse struct {
	Web struct {
		Results []struct {
			URL         string `json:"url"`
			Description string `json:"description"`
			Age         string `json:"age,omitempty"`
		} `json:"results"`
	} `json:"web"`
}

// NewBraveSearch creates a Brave search backend
func NewBraveSearch(cfg BraveConfig) (*BraveSearch, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("Brave search API key is required")
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://api.search.brave.com/res/v1/web/search"
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	return &BraveSearch{
		apiKey:  cfg.APIKey,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy: util.NewProxyFunc(cfg.HTTPProxy, cfg.HTTPSProxy, cfg.NoProxy),
			},
		},
	}, nil
}

// Name returns the backend name
func (s *BraveSearch) Name() string {
	return "brave"
}

// Search queries the Brave web search API
func (s *BraveSearch) Search(ctx context.Context, query string, limit int) ([]model.Evidence, error) {
	if limit <= 0 {
		return nil, nil
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("count", fmt.Sprintf("%d", limit))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Subscription-Token", s.apiKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("brave search: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	var data braveResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	var results []model.Evidence
	for _, item := range data.Web.Results {
		if len(results) >= limit {
			break
		}
		snippet := strings.TrimSpace(item.Description)
		if item.URL == "" || snippet == "" {
			continue
		}
		results = append(results, model.Evidence{
			Snippet:     stripMarkup(snippet),
			SourceURL:   item.URL,
			Relevance:   0.75,
			Credibility: 0.7,
			PublishDate: item.Age,
		})
	}

	return results, nil
}
