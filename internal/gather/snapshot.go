package gather

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"strings"

	"github.com/ppiankov/parallax/internal/model"
	"github.com/ppiankov/parallax/internal/util"
	"github.com/ppiankov/parallax/internal/worker"
	"golang.org/x/net/html"
)

// Snapshotter fetches full page content for evidence items, best effort.
// A snapshot failure never fails the item; the hash simply stays empty.
type Snapshotter struct {
	httpClient *http.Client
	robots     *util.RobotsChecker
	limiter    *worker.Limiter
	userAgent  string
	maxBytes   int64
}

// NewSnapshotter creates a snapshotter. The limiter is shared with other
// fetching components so per-domain limits hold process-wide.
func NewSnapshotter(cfg *model.Config, limiter *worker.Limiter) *Snapshotter {
	return &Snapshotter{
		httpClient: &http.Client{
			Timeout: cfg.Snapshot.Timeout,
			Transport: &http.Transport{
				Proxy: util.NewProxyFunc(cfg.Snapshot.HTTPProxy, cfg.Snapshot.HTTPSProxy, cfg.Snapshot.NoProxy),
			},
		},
		robots:    util.NewRobotsChecker(cfg.Search.UserAgent, cfg.Snapshot.Timeout),
		limiter:   limiter,
		userAgent: cfg.Search.UserAgent,
		maxBytes:  cfg.Snapshot.MaxBodyBytes,
	}
}

// Snapshot fetches each item's page and records a content fingerprint over
// the visible text. Items are processed in order; failures are skipped.
func (s *Snapshotter) Snapshot(ctx context.Context, items []model.EvidenceItem) []model.EvidenceItem {
	for i := range items {
		if ctx.Err() != nil {
			break
		}
		hash, ok := s.snapshotOne(ctx, items[i].CanonicalURL)
		if ok {
			items[i].SnapshotHash = hash
		}
	}
	return items
}

func (s *Snapshotter) snapshotOne(ctx context.Context, rawURL string) (string, bool) {
	allowed, crawlDelay, err := s.robots.CanFetch(ctx, rawURL)
	if err != nil || !allowed {
		return "", false
	}
	if err := s.limiter.WaitWithDelay(ctx, rawURL, crawlDelay); err != nil {
		return "", false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", false
	}
	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", false
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", false
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, s.maxBytes))
	if err != nil {
		return "", false
	}

	text := visibleText(string(body))
	if text == "" {
		return "", false
	}

	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:]), true
}

// visibleText extracts text nodes from HTML, skipping scripts and styles
func visibleText(htmlContent string) string {
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return ""
	}

	var buf strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "iframe":
				return
			}
		}
		if n.Type == html.TextNode {
			text := strings.TrimSpace(n.Data)
			if text != "" {
				buf.WriteString(text)
				buf.WriteString(" ")
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return strings.TrimSpace(buf.String())
}
