package util

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/temoto/robotstxt"
)

// RobotsChecker gates snapshot fetches on robots.txt. Evidence pages are
// only ever hashed, never crawled, so an unreachable robots.txt defaults
// to allow: the single GET is the same load a citing reader would cause.
type RobotsChecker struct {
	byHost map[string]*robotstxt.RobotsData
	mu     sync.RWMutex
	client *http.Client
	agent  string
}

// NewRobotsChecker creates a checker identifying itself with the given
// user agent
func NewRobotsChecker(userAgent string, timeout time.Duration) *RobotsChecker {
	return &RobotsChecker{
		byHost: make(map[string]*robotstxt.RobotsData),
		client: &http.Client{Timeout: timeout},
		agent:  userAgent,
	}
}

// CanFetch reports whether the URL may be fetched and the crawl delay the
// host requests. robots.txt failures allow with zero delay.
func (r *RobotsChecker) CanFetch(ctx context.Context, rawURL string) (bool, time.Duration, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false, 0, fmt.Errorf("parse URL: %w", err)
	}

	data, err := r.forHost(ctx, parsed.Scheme, parsed.Host)
	if err != nil {
		return true, 0, nil
	}

	// Match on the product token; full UA strings with versions and URLs
	// rarely match robots.txt group names
	token := NormalizeUserAgent(r.agent)
	allowed := data.TestAgent(parsed.Path, token)

	var delay time.Duration
	if group := data.FindGroup(token); group != nil {
		delay = group.CrawlDelay
	}
	return allowed, delay, nil
}

// forHost returns the parsed robots.txt for a host, fetching on first use
func (r *RobotsChecker) forHost(ctx context.Context, scheme, host string) (*robotstxt.RobotsData, error) {
	r.mu.RLock()
	data, ok := r.byHost[host]
	r.mu.RUnlock()
	if ok {
		return data, nil
	}

	robotsURL := fmt.Sprintf("%s://%s/robots.txt", scheme, host)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build robots request: %w", err)
	}
	req.Header.Set("User-Agent", r.agent)

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch robots.txt: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err = robotstxt.FromResponse(resp)
	if err != nil {
		return nil, fmt.Errorf("parse robots.txt: %w", err)
	}

	r.mu.Lock()
	r.byHost[host] = data
	r.mu.Unlock()
	return data, nil
}

// Clear drops all cached robots.txt data
func (r *RobotsChecker) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byHost = make(map[string]*robotstxt.RobotsData)
}

// NormalizeUserAgent reduces a full user-agent string to its product
// token, the form robots.txt groups are written against.
func NormalizeUserAgent(ua string) string {
	parts := strings.Fields(ua)
	if len(parts) == 0 {
		return ua
	}
	return strings.Split(parts[0], "/")[0]
}
