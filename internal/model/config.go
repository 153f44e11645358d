package model

import (
	"os"
	"path/filepath"
	"time"
)

// Config is the complete claimguard configuration.
// Hierarchy (highest to lowest priority): CLI flags, CLAIMGUARD_* env vars,
// ~/.claimguard/config.yaml, then these defaults.
type Config struct {
	Providers   ProvidersConfig   `yaml:"providers" json:"providers"`
	Retrieval   RetrievalConfig   `yaml:"retrieval" json:"retrieval"`
	Verifier    VerifierConfig    `yaml:"verifier" json:"verifier"`
	Escalation  EscalationConfig  `yaml:"escalation" json:"escalation"`
	Policy      PolicyConfig      `yaml:"policy" json:"policy"`
	Cost        CostConfig        `yaml:"cost" json:"cost"`
	Cache       CacheConfig       `yaml:"cache" json:"cache"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" json:"concurrency"`
	Output      OutputConfig      `yaml:"output" json:"output"`
	Proxy       ProxyConfig       `yaml:"proxy" json:"proxy"`
}

// ProviderConfig describes one text-generation provider candidate
type ProviderConfig struct {
	Name    string `yaml:"name" json:"name"`       // openai, groq, anthropic, ollama
	Model   string `yaml:"model" json:"model"`     // Provider-specific model name
	APIKey  string `yaml:"-" json:"-"`             // From env only, never persisted
	BaseURL string `yaml:"base_url,omitempty" json:"base_url,omitempty"`
	Timeout int    `yaml:"timeout" json:"timeout"` // Seconds
}

// ProvidersConfig holds the ordered candidate lists per tier.
// Order is preference order: the router tries candidates left to right
// and never falls back across tiers.
type ProvidersConfig struct {
	Fast    []ProviderConfig `yaml:"fast" json:"fast"`
	Premium []ProviderConfig `yaml:"premium" json:"premium"`

	// Reasoner is the provider used for verification calls. If empty,
	// the first premium candidate is used.
	Reasoner *ProviderConfig `yaml:"reasoner,omitempty" json:"reasoner,omitempty"`

	MaxTokens   int     `yaml:"max_tokens" json:"max_tokens"`
	Temperature float64 `yaml:"temperature" json:"temperature"`
}

// RetrievalConfig controls evidence retrieval
type RetrievalConfig struct {
	TopK        int           `yaml:"top_k" json:"top_k"`               // Evidence cap per claim
	WebResults  int           `yaml:"web_results" json:"web_results"`   // Web search share of TopK
	WikiResults int           `yaml:"wiki_results" json:"wiki_results"` // Wikipedia share of TopK
	Timeout     time.Duration `yaml:"timeout" json:"timeout"`           // Per-claim retrieval deadline
	RatePerHost float64       `yaml:"rate_per_host" json:"rate_per_host"`
	Burst       int           `yaml:"burst" json:"burst"`
	UserAgent   string        `yaml:"user_agent" json:"user_agent"`
}

// VerifierConfig controls claim verification
type VerifierConfig struct {
	// NoEvidenceConfidence is the fixed confidence assigned when a claim
	// has no evidence at all: NEUTRAL, but not necessarily false.
	NoEvidenceConfidence float64 `yaml:"no_evidence_confidence" json:"no_evidence_confidence"`

	// PreferContradiction breaks confidence ties in favor of CONTRADICTED,
	// so one decisive contradiction is never diluted by weak support.
	PreferContradiction bool `yaml:"prefer_contradiction" json:"prefer_contradiction"`

	MaxTokens int `yaml:"max_tokens" json:"max_tokens"`
	Timeout   int `yaml:"timeout" json:"timeout"` // Seconds, per reasoning call
}

// EscalationConfig holds the OR-combined escalation triggers.
// Any single trigger forces one premium-tier regeneration.
type EscalationConfig struct {
	UncertaintyPhrases   []string `yaml:"uncertainty_phrases" json:"uncertainty_phrases"`
	MaxContradictedRatio float64  `yaml:"max_contradicted_ratio" json:"max_contradicted_ratio"`
	MinMeanConfidence    float64  `yaml:"min_mean_confidence" json:"min_mean_confidence"`
	MinAnswerWords       int      `yaml:"min_answer_words" json:"min_answer_words"`
}

// AbstainRendering selects how ABSTAIN/FLAG_FOR_HUMAN spans appear in the
// final answer
type AbstainRendering string

const (
	RenderRemove   AbstainRendering = "remove"   // Silently drop the clause
	RenderAnnotate AbstainRendering = "annotate" // Keep the clause with a visible marker
)

// PolicyConfig holds per-claim decision thresholds
type PolicyConfig struct {
	AcceptConfidence  float64          `yaml:"accept_confidence" json:"accept_confidence"`   // SUPPORTED floor for ACCEPT
	CorrectConfidence float64          `yaml:"correct_confidence" json:"correct_confidence"` // CONTRADICTED floor for CORRECT
	TrustConfidence   float64          `yaml:"trust_confidence" json:"trust_confidence"`     // NEUTRAL floor to keep a claim
	Rendering         AbstainRendering `yaml:"rendering" json:"rendering"`
}

// CostConfig is the approximate cost table, USD per 1M tokens
type CostConfig struct {
	FastPerMTok         float64 `yaml:"fast_per_mtok" json:"fast_per_mtok"`
	PremiumFlashPerMTok float64 `yaml:"premium_flash_per_mtok" json:"premium_flash_per_mtok"`
	PremiumProPerMTok   float64 `yaml:"premium_pro_per_mtok" json:"premium_pro_per_mtok"`
}

// CacheConfig controls the layered evidence/decision cache
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" json:"enabled"`
	Dir       string        `yaml:"dir" json:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl" json:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl" json:"disk_ttl"`
}

// ConcurrencyConfig bounds fan-out
type ConcurrencyConfig struct {
	RetrievalWorkers int `yaml:"retrieval_workers" json:"retrieval_workers"` // Per-run evidence fan-out
	BatchWorkers     int `yaml:"batch_workers" json:"batch_workers"`         // Concurrent pipeline runs in batch mode
}

// OutputConfig controls report rendering
type OutputConfig struct {
	Verbose       bool `yaml:"verbose" json:"verbose"`
	IncludeFooter bool `yaml:"include_footer" json:"include_footer"`
}

// ProxyConfig holds outbound proxy settings
type ProxyConfig struct {
	HTTPProxy  string `yaml:"http_proxy,omitempty" json:"http_proxy,omitempty"`
	HTTPSProxy string `yaml:"https_proxy,omitempty" json:"https_proxy,omitempty"`
	NoProxy    string `yaml:"no_proxy,omitempty" json:"no_proxy,omitempty"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Providers: ProvidersConfig{
			Fast: []ProviderConfig{
				{Name: "groq", Model: "llama-3.3-70b-versatile", Timeout: 30},
				{Name: "ollama", Model: "mistral", Timeout: 60},
			},
			Premium: []ProviderConfig{
				{Name: "anthropic", Model: "claude-sonnet-4-20250514", Timeout: 60},
				{Name: "openai", Model: "gpt-4o", Timeout: 60},
			},
			MaxTokens:   2000,
			Temperature: 0.0,
		},
		Retrieval: RetrievalConfig{
			TopK:        5,
			WebResults:  3,
			WikiResults: 2,
			Timeout:     10 * time.Second,
			RatePerHost: 2.0,
			Burst:       5,
			UserAgent:   "Claimguard/0.1 (+https://github.com/ppiankov/claimguard)",
		},
		Verifier: VerifierConfig{
			NoEvidenceConfidence: 0.3,
			PreferContradiction:  true,
			MaxTokens:            1000,
			Timeout:              30,
		},
		Escalation: EscalationConfig{
			// Most specific first, so reason strings name the full phrase
			UncertaintyPhrases: []string{
				"i don't know",
				"i'm not sure",
				"i cannot confirm",
				"i cannot",
				"i don't have",
				"unclear",
				"uncertain",
			},
			MaxContradictedRatio: 0.30,
			MinMeanConfidence:    0.50,
			MinAnswerWords:       10,
		},
		Policy: PolicyConfig{
			AcceptConfidence:  0.85,
			CorrectConfidence: 0.70,
			TrustConfidence:   0.40,
			Rendering:         RenderAnnotate,
		},
		Cost: CostConfig{
			FastPerMTok:         0.10,
			PremiumFlashPerMTok: 0.50,
			PremiumProPerMTok:   2.00,
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       defaultCacheDir(),
			MemoryTTL: 30 * time.Minute,
			DiskTTL:   24 * time.Hour,
		},
		Concurrency: ConcurrencyConfig{
			RetrievalWorkers: 4,
			BatchWorkers:     3,
		},
		Output: OutputConfig{
			Verbose:       false,
			IncludeFooter: true,
		},
	}
}

func defaultCacheDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".claimguard-cache"
	}
	return filepath.Join(home, ".claimguard", "cache")
}
