package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const wikipediaEndpoint = "https://en.wikipedia.org/w/api.php"

// WikipediaProvider adapts the MediaWiki search API. It needs no credentials
// and serves as the always-available third provider.
type WikipediaProvider struct {
	httpClient *http.Client
	userAgent  string
	endpoint   string
}

// NewWikipediaProvider creates a Wikipedia adapter
func NewWikipediaProvider(timeout time.Duration, userAgent string) *WikipediaProvider {
	return &WikipediaProvider{
		httpClient: &http.Client{Timeout: timeout},
		userAgent:  userAgent,
		endpoint:   wikipediaEndpoint,
	}
}

// Name returns the provider name
func (p *WikipediaProvider) Name() string { return "wikipedia" }

// Search runs one full-text search query against the MediaWiki API
func (p *WikipediaProvider) Search(ctx context.Context, query string, max int) ([]Result, error) {
	params := url.Values{}
	params.Set("action", "query")
	params.Set("list", "search")
	params.Set("srsearch", query)
	params.Set("srlimit", strconv.Itoa(max))
	params.Set("format", "json")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
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
		Query struct {
			Search []struct {
				Title   string `json:"title"`
				Snippet string `json:"snippet"`
			} `json:"search"`
		} `json:"query"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	results := make([]Result, 0, len(body.Query.Search))
	for _, r := range body.Query.Search {
		results = append(results, Result{
			URL:     "https://en.wikipedia.org/wiki/" + url.PathEscape(r.Title),
			Title:   r.Title,
			Snippet: stripSearchMarkup(r.Snippet),
		})
	}
	return clip(results, max), nil
}

var searchMarkupReplacer = strings.NewReplacer(
	`<span class="searchmatch">`, "",
	"</span>", "",
	"&quot;", `"`,
	"&amp;", "&",
)

// stripSearchMarkup removes the highlight spans MediaWiki embeds in snippets
func stripSearchMarkup(snippet string) string {
	return searchMarkupReplacer.Replace(snippet)
}
