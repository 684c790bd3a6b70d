package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const braveEndpoint = "https://api.search.brave.com/res/v1/web/search"

// BraveProvider adapts the Brave Search API
type BraveProvider struct {
	apiKey     string
	httpClient *http.Client
	userAgent  string
	endpoint   string
}

// NewBraveProvider creates a Brave adapter. The key comes from configuration
// (sourced from BRAVE_API_KEY by the CLI layer).
func NewBraveProvider(apiKey string, timeout time.Duration, userAgent string) *BraveProvider {
	return &BraveProvider{
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
		userAgent:  userAgent,
		endpoint:   braveEndpoint,
	}
}

// Name returns the provider name
func (p *BraveProvider) Name() string { return "brave" }

// Search runs one web search query against Brave
func (p *BraveProvider) Search(ctx context.Context, query string, max int) ([]Result, error) {
	endpoint := p.endpoint + "?q=" + url.QueryEscape(query) + "&count=" + strconv.Itoa(max)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Subscription-Token", p.apiKey)
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
		Web struct {
			Results []struct {
				URL         string `json:"url"`
				Title       string `json:"title"`
				Description string `json:"description"`
			} `json:"results"`
		} `json:"web"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	results := make([]Result, 0, len(body.Web.Results))
	for _, r := range body.Web.Results {
		results = append(results, Result{URL: r.URL, Title: r.Title, Snippet: r.Description})
	}
	return clip(results, max), nil
}
