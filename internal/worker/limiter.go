package worker

import (
	"context"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limiter enforces a per-host request budget for snapshot fetches. Hosts
// get independent token buckets created on first use; the port is stripped
// so http and https fetches against one host share a budget.
type Limiter struct {
	buckets map[string]*rate.Limiter
	mu      sync.RWMutex
	rps     rate.Limit
	burst   int
}

// NewLimiter creates a limiter with the given per-host rate and burst
func NewLimiter(requestsPerSecond float64, burst int) *Limiter {
	if burst <= 0 {
		burst = 5
	}

	return &Limiter{
		buckets: make(map[string]*rate.Limiter),
		rps:     rate.Limit(requestsPerSecond),
		burst:   burst,
	}
}

// Wait blocks until the host's budget allows one request
func (l *Limiter) Wait(ctx context.Context, rawURL string) error {
	host, err := hostOf(rawURL)
	if err != nil {
		return err
	}
	return l.bucket(host).Wait(ctx)
}

// WaitWithDelay waits for the host budget and then an extra politeness
// delay, typically the robots.txt crawl delay.
func (l *Limiter) WaitWithDelay(ctx context.Context, rawURL string, extra time.Duration) error {
	if err := l.Wait(ctx, rawURL); err != nil {
		return err
	}

	if extra > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(extra):
		}
	}
	return nil
}

// Allow reports whether a request would pass right now, consuming a token
// when it would. Malformed URLs are never allowed.
func (l *Limiter) Allow(rawURL string) bool {
	host, err := hostOf(rawURL)
	if err != nil {
		return false
	}
	return l.bucket(host).Allow()
}

func (l *Limiter) bucket(host string) *rate.Limiter {
	l.mu.RLock()
	b, ok := l.buckets[host]
	l.mu.RUnlock()
	if ok {
		return b
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if b, ok := l.buckets[host]; ok {
		return b
	}
	b = rate.NewLimiter(l.rps, l.burst)
	l.buckets[host] = b
	return b
}

func hostOf(rawURL string) (string, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	host := parsed.Host
	if i := strings.LastIndex(host, ":"); i > 0 && !strings.Contains(host[i:], "]") {
		host = host[:i]
	}
	return host, nil
}
