package search

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"
)

const serperEndpoint = "https://google.serper.dev/search"

// SerperProvider adapts the Serper.dev search API
type SerperProvider struct {
	apiKey     string
	httpClient *http.Client
	userAgent  string
	endpoint   string
}

// NewSerperProvider creates a Serper adapter. The key comes from
// configuration (sourced from SERPER_API_KEY by the CLI layer).
func NewSerperProvider(apiKey string, timeout time.Duration, userAgent string) *SerperProvider {
	return &SerperProvider{
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
		userAgent:  userAgent,
		endpoint:   serperEndpoint,
	}
}

// Name returns the provider name
func (p *SerperProvider) Name() string { return "serper" }

// Search runs one web search query against Serper
func (p *SerperProvider) Search(ctx context.Context, query string, max int) ([]Result, error) {
	payload, err := json.Marshal(map[string]any{"q": query, "num": max})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-KEY", p.apiKey)
	req.Header.Set("User-Agent", p.userAgent)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, classifyTransportError(err)
	}
	defer func() { _ = resp.Body.Close() }()

	if err := classifyStatus(resp.StatusCode); err != nil {
		return nil, err
	}

	var body struct {
		Organic []struct {
			Link    string `json:"link"`
			Title   string `json:"title"`
			Snippet string `json:"snippet"`
		} `json:"organic"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	results := make([]Result, 0, len(body.Organic))
	for _, r := range body.Organic {
		results = append(results, Result{URL: r.Link, Title: r.Title, Snippet: r.Snippet})
	}
	return clip(results, max), nil
}

// classifyStatus maps HTTP status codes onto the provider error taxonomy
func classifyStatus(code int) error {
	switch {
	case code == http.StatusTooManyRequests:
		return ErrRateLimited
	case code >= 200 && code < 300:
		return nil
	default:
		return fmt.Errorf("unexpected status: %d", code)
	}
}

// classifyTransportError maps network failures onto the error taxonomy
func classifyTransportError(err error) error {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	return fmt.Errorf("request failed: %w", err)
}

// clip bounds a result list to max entries
func clip(results []Result, max int) []Result {
	if max > 0 && len(results) > max {
		return results[:max]
	}
	return results
}
