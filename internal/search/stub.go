package search

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// StubProvider serves deterministic synthetic results for offline mode. It
// is never registered in live mode; the two modes must not blend.
type StubProvider struct {
	name string
	// Fixed, when non-nil, overrides the generated results per query.
	Fixed map[string][]Result
}

// NewStubProvider creates a named offline provider
func NewStubProvider(name string) *StubProvider {
	return &StubProvider{name: name}
}

// Name returns the provider name
func (p *StubProvider) Name() string { return p.name }

// Search returns stable synthetic results derived from the query text.
// The same query always yields the same results, so offline runs are
// reproducible end to end.
func (p *StubProvider) Search(_ context.Context, query string, max int) ([]Result, error) {
	if p.Fixed != nil {
		return clip(p.Fixed[query], max), nil
	}

	slug := querySlug(query)
	hash := sha256.Sum256([]byte(p.name + ":" + query))
	tag := hex.EncodeToString(hash[:4])

	results := []Result{
		{
			URL:     fmt.Sprintf("https://%s-press.example.org/reports/%s", p.name, slug),
			Title:   "Report: " + query,
			Snippet: fmt.Sprintf("Official figures confirm the reported numbers for %s (ref %s).", query, tag),
		},
		{
			URL:     fmt.Sprintf("https://%s-journal.example.com/articles/%s", p.name, slug),
			Title:   "Analysis of " + query,
			Snippet: fmt.Sprintf("Independent analysis reviews the data behind %s.", query),
		},
	}
	return clip(results, max), nil
}

func querySlug(query string) string {
	slug := strings.ToLower(strings.Join(strings.Fields(query), "-"))
	if len(slug) > 60 {
		slug = slug[:60]
	}
	return strings.Trim(slug, "-")
}
