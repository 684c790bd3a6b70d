// Package llm is the optional assist layer: it may refine search queries
// and draft a natural-language explanation of a verdict. The core pipeline
// is correct without it, and its output never feeds back into scoring.
package llm

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/ppiankov/parallax/internal/model"
)

// Assistant is the interface the core may optionally call
type Assistant interface {
	// Name returns the provider name
	Name() string

	// RefineQueries rewrites search queries for precision. Must return the
	// same number of queries with neutral wording; callers validate.
	RefineQueries(ctx context.Context, claim model.Claim, queries []string) ([]string, error)

	// Explain drafts a short explanation of the verdict, citing only URLs
	// from the evidence allowlist.
	Explain(ctx context.Context, verdict *model.Verdict) (*model.AssistNote, error)
}

// Config holds assist layer configuration
type Config struct {
	Provider  string
	Model     string
	APIKey    string
	BaseURL   string
	Timeout   int // seconds
	MaxTokens int
}

// ConfigFromModel converts the pipeline config section
func ConfigFromModel(c model.AssistConfig) Config {
	return Config{
		Provider:  c.Provider,
		Model:     c.Model,
		APIKey:    c.APIKey,
		BaseURL:   c.BaseURL,
		Timeout:   c.Timeout,
		MaxTokens: c.MaxTokens,
	}
}

// buildExplainPrompt constructs the explanation prompt with the strict URL
// allowlist. The assistant describes evidence support, never truth.
func buildExplainPrompt(verdict *model.Verdict, allowed []string) string {
	var b strings.Builder

	fmt.Fprintf(&b, `You are drafting a methodology explanation for an automated fact-check.

RULES:
1. Cite ONLY URLs from this list:
%s
2. Do not speculate or reference outside sources.
3. Describe evidence support and methodology, never assert truth yourself.
4. If evidence is thin or conflicting, say so plainly.

Verdict: %s (score %d/100)
Claims checked: %d
`, joinAllowed(allowed), verdict.Label, verdict.OverallScore, len(verdict.Claims))

	for i, cv := range verdict.Claims {
		if i >= 3 {
			break
		}
		fmt.Fprintf(&b, "- [%s] %q → %s (support %d / refute %d / neutral %d)\n",
			cv.Claim.Tier, truncate(cv.Claim.Text, 120), cv.Label,
			cv.Methodology.Balance.Support, cv.Methodology.Balance.Refute, cv.Methodology.Balance.Neutral)
	}

	b.WriteString("\nWrite a 3-5 sentence explanation of how the evidence supports this verdict.")
	return b.String()
}

func joinAllowed(urls []string) string {
	if len(urls) == 0 {
		return "(no evidence URLs available)"
	}
	var b strings.Builder
	for i, u := range urls {
		if i >= 20 {
			fmt.Fprintf(&b, "\n... and %d more", len(urls)-20)
			break
		}
		b.WriteString("\n- ")
		b.WriteString(u)
	}
	return b.String()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "…"
}

var urlRe = regexp.MustCompile(`https?://[^\s\)]+`)

// citedURLs extracts deduplicated URLs from generated text
func citedURLs(text string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, raw := range urlRe.FindAllString(text, -1) {
		u := strings.TrimRight(raw, ".,;:!?")
		if !seen[u] {
			seen[u] = true
			out = append(out, u)
		}
	}
	return out
}

// leakWarnings flags citations outside the evidence allowlist
func leakWarnings(cited, allowed []string) []string {
	allowedSet := make(map[string]bool, len(allowed))
	for _, u := range allowed {
		allowedSet[u] = true
	}
	var warnings []string
	for _, u := range cited {
		if !allowedSet[u] {
			warnings = append(warnings, "citation outside evidence allowlist: "+u)
		}
	}
	return warnings
}

// EvidenceAllowlist collects every evidence URL across the verdict's claims
func EvidenceAllowlist(verdict *model.Verdict) []string {
	seen := make(map[string]bool)
	var out []string
	for _, cv := range verdict.Claims {
		for _, item := range cv.Evidence {
			if !seen[item.CanonicalURL] {
				seen[item.CanonicalURL] = true
				out = append(out, item.CanonicalURL)
			}
		}
	}
	return out
}
