package search

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ppiankov/parallax/internal/cache"
)

// CachedProvider wraps a provider with the layered response cache. The cache
// is shared across concurrent gathers; synchronization lives inside the
// cache implementations.
type CachedProvider struct {
	inner Provider
	cache cache.Cache
	ttl   time.Duration
}

// NewCachedProvider wraps inner with a TTL cache
func NewCachedProvider(inner Provider, c cache.Cache, ttl time.Duration) *CachedProvider {
	return &CachedProvider{inner: inner, cache: c, ttl: ttl}
}

// Name returns the wrapped provider's name
func (p *CachedProvider) Name() string { return p.inner.Name() }

// Search serves from cache when possible; only successful non-empty results
// are cached so transient failures are retried on the next run.
func (p *CachedProvider) Search(ctx context.Context, query string, max int) ([]Result, error) {
	key := cache.Key(fmt.Sprintf("%s:%d:%s", p.inner.Name(), max, query))

	if raw, found := p.cache.Get(key); found {
		var results []Result
		if err := json.Unmarshal(raw, &results); err == nil {
			return results, nil
		}
		// Corrupt entry: drop it and fall through to a live call
		_ = p.cache.Delete(key)
	}

	results, err := p.inner.Search(ctx, query, max)
	if err != nil {
		return nil, err
	}

	if len(results) > 0 {
		if raw, err := json.Marshal(results); err == nil {
			_ = p.cache.Set(key, raw, p.ttl)
		}
	}
	return results, nil
}
