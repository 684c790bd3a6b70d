// Package search adapts independent web search providers behind a uniform
// interface. Providers are configured via distinct credentials and may be
// independently absent; absence degrades to zero results, never a hard error
// above the gatherer boundary.
package search

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/ppiankov/parallax/internal/model"
)

// Sentinel errors recovered at the gatherer boundary.
var (
	ErrNoProviders = errors.New("no search providers configured")
	ErrRateLimited = errors.New("provider rate limited")
	ErrTimeout     = errors.New("provider timeout")
)

// Result is one raw provider hit
type Result struct {
	URL     string
	Title   string
	Snippet string
}

// Provider is the uniform adapter over one search backend
type Provider interface {
	// Name identifies the backend (e.g. "brave", "serper", "wikipedia")
	Name() string

	// Search runs one query and returns up to max results
	Search(ctx context.Context, query string, max int) ([]Result, error)
}

// Health holds per-provider liveness counters, updated by the registry
type Health struct {
	Provider    string    `json:"provider"`
	Configured  bool      `json:"configured"`
	Successes   int       `json:"successes"`
	Empties     int       `json:"empties"`
	Timeouts    int       `json:"timeouts"`
	RateLimited int       `json:"rate_limited"`
	Failures    int       `json:"failures"`
	LastUsed    time.Time `json:"last_used,omitempty"`
}

// Registry holds the configured providers and their shared health state.
// Health counters are the only cross-claim mutable state besides the cache
// and rate limiter, so access is synchronized.
type Registry struct {
	providers []Provider
	mu        sync.Mutex
	health    map[string]*Health
}

// NewRegistry creates a registry over the given providers.
func NewRegistry(providers []Provider) *Registry {
	health := make(map[string]*Health, len(providers))
	for _, p := range providers {
		health[p.Name()] = &Health{Provider: p.Name(), Configured: true}
	}
	return &Registry{providers: providers, health: health}
}

// Providers returns the configured providers in registration order.
func (r *Registry) Providers() []Provider {
	return r.providers
}

// Empty reports whether no providers are configured at all.
func (r *Registry) Empty() bool {
	return len(r.providers) == 0
}

// Record updates health counters for one provider call.
func (r *Registry) Record(name string, results int, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	h, ok := r.health[name]
	if !ok {
		h = &Health{Provider: name, Configured: true}
		r.health[name] = h
	}
	h.LastUsed = time.Now().UTC()

	switch {
	case errors.Is(err, ErrTimeout):
		h.Timeouts++
	case errors.Is(err, ErrRateLimited):
		h.RateLimited++
	case err != nil:
		h.Failures++
	case results == 0:
		h.Empties++
	default:
		h.Successes++
	}
}

// Snapshot returns a copy of all health counters in registration order.
func (r *Registry) Snapshot() []Health {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Health, 0, len(r.providers))
	for _, p := range r.providers {
		if h, ok := r.health[p.Name()]; ok {
			out = append(out, *h)
		}
	}
	return out
}

// Candidates converts raw results into arm-tagged evidence candidates.
func Candidates(results []Result, provider string, arm model.Arm, query string) []model.EvidenceCandidate {
	out := make([]model.EvidenceCandidate, 0, len(results))
	for _, res := range results {
		if res.URL == "" {
			continue
		}
		out = append(out, model.EvidenceCandidate{
			URL:      res.URL,
			Title:    res.Title,
			Snippet:  res.Snippet,
			Provider: provider,
			Arm:      arm,
			Query:    query,
		})
	}
	return out
}
