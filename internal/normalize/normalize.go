// Package normalize consolidates raw candidates into deduplicated evidence
// items. The stages run in a fixed order: canonicalize, fingerprint, domain
// cap, near-duplicate prune, exact-URL dedup. The whole pass is pure and
// idempotent: running it on its own output yields the same list.
package normalize

import (
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"sort"
	"strings"

	"github.com/ppiankov/parallax/internal/model"
)

// trackingParams are stripped during URL canonicalization
var trackingParams = map[string]bool{
	"utm_source": true, "utm_medium": true, "utm_campaign": true,
	"utm_term": true, "utm_content": true, "gclid": true, "fbclid": true,
	"ref": true, "mc_cid": true, "mc_eid": true,
}

// Normalizer applies the consolidated dedup pipeline
type Normalizer struct {
	perDomainCap    int
	titleSimilarity float64
}

// New creates a normalizer with the configured thresholds
func New(cfg *model.Config) *Normalizer {
	return &Normalizer{
		perDomainCap:    cfg.Normalize.PerDomainCap,
		titleSimilarity: cfg.Normalize.TitleSimilarity,
	}
}

// Normalize converts candidates into evidence items and deduplicates them.
// Input order is preserved for surviving items. The domain cap runs before
// near-duplicate pruning so within-domain near-duplicates are capped too.
func (n *Normalizer) Normalize(candidates []model.EvidenceCandidate) []model.EvidenceItem {
	items := make([]model.EvidenceItem, 0, len(candidates))
	for _, c := range candidates {
		canonical, domain, ok := canonicalURL(c.URL)
		if !ok {
			continue
		}
		items = append(items, model.EvidenceItem{
			EvidenceCandidate: c,
			CanonicalURL:      canonical,
			Domain:            domain,
			Fingerprint:       fingerprint(c.Title, c.Snippet),
			Temporal:          model.TemporalSignals{AgeDays: -1},
		})
	}

	items = capPerDomain(items, n.perDomainCap)
	items = pruneNearDuplicates(items, n.titleSimilarity)
	items = dedupeExactURL(items)
	return items
}

// NormalizeItems re-runs the dedup stages over already-normalized items.
// Used by tests to assert idempotence.
func (n *Normalizer) NormalizeItems(items []model.EvidenceItem) []model.EvidenceItem {
	items = capPerDomain(items, n.perDomainCap)
	items = pruneNearDuplicates(items, n.titleSimilarity)
	return dedupeExactURL(items)
}

// canonicalURL lowercases scheme and host, strips tracking params and the
// fragment, and returns the registrable host for domain grouping.
func canonicalURL(rawURL string) (canonical, domain string, ok bool) {
	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || parsed.Host == "" {
		return "", "", false
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", "", false
	}

	parsed.Scheme = strings.ToLower(parsed.Scheme)
	parsed.Host = strings.ToLower(parsed.Host)
	parsed.Fragment = ""

	query := parsed.Query()
	for param := range query {
		if trackingParams[strings.ToLower(param)] {
			query.Del(param)
		}
	}
	parsed.RawQuery = encodeSorted(query)

	host := parsed.Host
	if idx := strings.Index(host, ":"); idx > 0 {
		host = host[:idx]
	}
	host = strings.TrimPrefix(host, "www.")

	return parsed.String(), host, true
}

// encodeSorted renders query params in sorted key order so canonicalization
// is stable regardless of the provider's param ordering.
func encodeSorted(query url.Values) string {
	if len(query) == 0 {
		return ""
	}
	keys := make([]string, 0, len(query))
	for k := range query {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		for _, v := range query[k] {
			if b.Len() > 0 {
				b.WriteByte('&')
			}
			b.WriteString(url.QueryEscape(k))
			b.WriteByte('=')
			b.WriteString(url.QueryEscape(v))
		}
	}
	return b.String()
}

// fingerprint hashes the normalized title+snippet token stream
func fingerprint(title, snippet string) string {
	tokens := Tokenize(title + " " + snippet)
	sum := sha256.Sum256([]byte(strings.Join(tokens, " ")))
	return hex.EncodeToString(sum[:])
}

// capPerDomain keeps at most limit items per domain, preserving input order
func capPerDomain(items []model.EvidenceItem, limit int) []model.EvidenceItem {
	if limit <= 0 {
		return items
	}
	counts := make(map[string]int)
	out := make([]model.EvidenceItem, 0, len(items))
	for _, item := range items {
		if counts[item.Domain] >= limit {
			continue
		}
		counts[item.Domain]++
		out = append(out, item)
	}
	return out
}

// pruneNearDuplicates drops items whose title token-Jaccard similarity with
// an earlier kept item meets the threshold
func pruneNearDuplicates(items []model.EvidenceItem, threshold float64) []model.EvidenceItem {
	if threshold <= 0 {
		return items
	}
	out := make([]model.EvidenceItem, 0, len(items))
	for _, item := range items {
		dup := false
		for _, kept := range out {
			if TokenJaccard(Tokenize(item.Title), Tokenize(kept.Title)) >= threshold {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, item)
		}
	}
	return out
}

// dedupeExactURL removes later occurrences of the same canonical URL
func dedupeExactURL(items []model.EvidenceItem) []model.EvidenceItem {
	seen := make(map[string]bool)
	out := make([]model.EvidenceItem, 0, len(items))
	for _, item := range items {
		if seen[item.CanonicalURL] {
			continue
		}
		seen[item.CanonicalURL] = true
		out = append(out, item)
	}
	return out
}

// Tokenize lowercases text and splits it into alphanumeric tokens
func Tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !((r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'))
	})
	out := fields[:0]
	for _, f := range fields {
		if len(f) > 1 {
			out = append(out, f)
		}
	}
	return out
}

// TokenJaccard computes token-set Jaccard similarity between two token lists
func TokenJaccard(a, b []string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	setA := make(map[string]bool, len(a))
	for _, t := range a {
		setA[t] = true
	}
	setB := make(map[string]bool, len(b))
	for _, t := range b {
		setB[t] = true
	}

	intersection := 0
	for t := range setA {
		if setB[t] {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}
