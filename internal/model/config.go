package model

import "time"

// Mode selects between deterministic offline execution and live providers.
// The two must never blend: offline uses only the stub provider, live never
// falls back to synthetic evidence.
type Mode string

const (
	ModeOffline Mode = "offline"
	ModeLive    Mode = "live"
)

// Config is the single explicit configuration for a check run. It is built
// once in the CLI layer and passed by reference into the pipeline; no
// component reads ambient environment state directly.
type Config struct {
	Mode Mode `yaml:"mode" mapstructure:"mode"`

	Search      SearchConfig      `yaml:"search" mapstructure:"search"`
	Snapshot    SnapshotConfig    `yaml:"snapshot" mapstructure:"snapshot"`
	Normalize   NormalizeConfig   `yaml:"normalize" mapstructure:"normalize"`
	Rank        RankConfig        `yaml:"rank" mapstructure:"rank"`
	Analysis    AnalysisConfig    `yaml:"analysis" mapstructure:"analysis"`
	Guardrails  GuardrailConfig   `yaml:"guardrails" mapstructure:"guardrails"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	Cache       CacheConfig       `yaml:"cache" mapstructure:"cache"`
	Assist      AssistConfig      `yaml:"assist" mapstructure:"assist"`
	Output      OutputConfig      `yaml:"output" mapstructure:"output"`
}

// SearchConfig configures the provider adapters
type SearchConfig struct {
	BraveAPIKey  string        `yaml:"-" mapstructure:"brave_api_key"`
	SerperAPIKey string        `yaml:"-" mapstructure:"serper_api_key"`
	Wikipedia    bool          `yaml:"wikipedia" mapstructure:"wikipedia"` // Keyless provider
	MaxResults   int           `yaml:"max_results" mapstructure:"max_results"`
	Timeout      time.Duration `yaml:"timeout" mapstructure:"timeout"`
	RatePerHost  float64       `yaml:"rate_per_host" mapstructure:"rate_per_host"`
	RateBurst    int           `yaml:"rate_burst" mapstructure:"rate_burst"`
	UserAgent    string        `yaml:"user_agent" mapstructure:"user_agent"`
}

// SnapshotConfig configures best-effort page snapshotting
type SnapshotConfig struct {
	Enabled      bool          `yaml:"enabled" mapstructure:"enabled"`
	Timeout      time.Duration `yaml:"timeout" mapstructure:"timeout"`
	MaxBodyBytes int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	HTTPProxy    string        `yaml:"http_proxy,omitempty" mapstructure:"http_proxy"`
	HTTPSProxy   string        `yaml:"https_proxy,omitempty" mapstructure:"https_proxy"`
	NoProxy      string        `yaml:"no_proxy,omitempty" mapstructure:"no_proxy"`
}

// NormalizeConfig holds deduplication thresholds (tunable, see DESIGN.md)
type NormalizeConfig struct {
	PerDomainCap    int     `yaml:"per_domain_cap" mapstructure:"per_domain_cap"`
	TitleSimilarity float64 `yaml:"title_similarity" mapstructure:"title_similarity"`
}

// RankConfig holds ranking weights and cut-off
type RankConfig struct {
	TopK int `yaml:"top_k" mapstructure:"top_k"`
}

// AnalysisConfig holds numeric/temporal comparison thresholds
type AnalysisConfig struct {
	PercentGapPoints float64 `yaml:"percent_gap_points" mapstructure:"percent_gap_points"`
	AbsoluteGapRatio float64 `yaml:"absolute_gap_ratio" mapstructure:"absolute_gap_ratio"`
	StaleAfterDays   int     `yaml:"stale_after_days" mapstructure:"stale_after_days"`
}

// GuardrailConfig holds diversity enforcement parameters
type GuardrailConfig struct {
	PerDomainKeep int `yaml:"per_domain_keep" mapstructure:"per_domain_keep"`
	MinTotal      int `yaml:"min_total" mapstructure:"min_total"`
}

// ConcurrencyConfig bounds the only concurrent region (gather) and the
// per-claim orchestration.
type ConcurrencyConfig struct {
	GatherWorkers  int           `yaml:"gather_workers" mapstructure:"gather_workers"`
	ClaimsInFlight int           `yaml:"claims_in_flight" mapstructure:"claims_in_flight"`
	ClaimBudget    time.Duration `yaml:"claim_budget" mapstructure:"claim_budget"`
}

// CacheConfig configures the layered provider response cache
type CacheConfig struct {
	Enabled bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir     string        `yaml:"dir" mapstructure:"dir"`
	TTL     time.Duration `yaml:"ttl" mapstructure:"ttl"`
}

// AssistConfig configures the optional LLM assist layer
type AssistConfig struct {
	Provider  string `yaml:"provider" mapstructure:"provider"` // "openai" or "" (disabled)
	Model     string `yaml:"model" mapstructure:"model"`
	APIKey    string `yaml:"-" mapstructure:"api_key"`
	BaseURL   string `yaml:"base_url,omitempty" mapstructure:"base_url"`
	Timeout   int    `yaml:"timeout" mapstructure:"timeout"` // seconds
	MaxTokens int    `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// OutputConfig controls report rendering
type OutputConfig struct {
	Verbose       bool `yaml:"verbose" mapstructure:"verbose"`
	IncludeFooter bool `yaml:"include_footer" mapstructure:"include_footer"`
}

// DefaultConfig returns the built-in defaults. Thresholds here are tunable
// constants, not hard requirements.
func DefaultConfig() *Config {
	return &Config{
		Mode: ModeLive,
		Search: SearchConfig{
			Wikipedia:   true,
			MaxResults:  8,
			Timeout:     10 * time.Second,
			RatePerHost: 2,
			RateBurst:   4,
			UserAgent:   "Parallax/0.2 (+https://github.com/ppiankov/parallax)",
		},
		Snapshot: SnapshotConfig{
			Enabled:      false,
			Timeout:      10 * time.Second,
			MaxBodyBytes: 2_000_000,
		},
		Normalize: NormalizeConfig{
			PerDomainCap:    3,
			TitleSimilarity: 0.80,
		},
		Rank: RankConfig{
			TopK: 8,
		},
		Analysis: AnalysisConfig{
			PercentGapPoints: 3.0,
			AbsoluteGapRatio: 0.05,
			StaleAfterDays:   365,
		},
		Guardrails: GuardrailConfig{
			PerDomainKeep: 1,
			MinTotal:      2,
		},
		Concurrency: ConcurrencyConfig{
			GatherWorkers:  6,
			ClaimsInFlight: 3,
			ClaimBudget:    45 * time.Second,
		},
		Cache: CacheConfig{
			Enabled: true,
			TTL:     30 * time.Minute,
		},
		Assist: AssistConfig{
			Provider:  "",
			Timeout:   30,
			MaxTokens: 700,
		},
		Output: OutputConfig{
			IncludeFooter: true,
		},
	}
}
