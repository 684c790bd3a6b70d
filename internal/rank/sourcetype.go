package rank

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/ppiankov/parallax/internal/model"
)

// Source typing is structural only: URL shape, TLD and path patterns.
// No site registry, no domain-name literals in decision logic.

var (
	doiRe        = regexp.MustCompile(`\b10\.\d{4,9}/\S+`)
	datePathRe   = regexp.MustCompile(`/20\d{2}/\d{1,2}/`)
	abstractRe   = regexp.MustCompile(`/(abs|abstract|paper|pmc|pubmed)(/|$)`)
	socialPathRe = regexp.MustCompile(`/(status|statuses|r|reel|shorts)/|^/@[a-z0-9_]`)
)

// InferSourceType classifies a URL into a structural source type
func InferSourceType(rawURL string) model.SourceType {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return model.SourceWeb
	}

	host := strings.ToLower(parsed.Hostname())
	path := strings.ToLower(parsed.Path)

	switch {
	case isPeerReviewed(host, path):
		return model.SourcePeerReviewed
	case isGovernment(host, path):
		return model.SourceGovernment
	case isSocial(host, path):
		return model.SourceSocial
	case isNews(path):
		return model.SourceNews
	case isBlog(host, path):
		return model.SourceBlog
	default:
		return model.SourceWeb
	}
}

// isPeerReviewed matches DOI identifiers and preprint/abstract path shapes
func isPeerReviewed(host, path string) bool {
	if doiRe.MatchString(path) || strings.Contains(path, "/doi/") {
		return true
	}
	if abstractRe.MatchString(path) {
		return true
	}
	return strings.HasSuffix(host, ".edu") && strings.Contains(path, "/research")
}

// isGovernment matches government TLDs and official-body host labels
func isGovernment(host, path string) bool {
	if strings.HasSuffix(host, ".gov") || strings.Contains(host, ".gov.") {
		return true
	}
	if strings.HasSuffix(host, ".mil") {
		return true
	}
	for _, label := range strings.Split(host, ".") {
		switch label {
		case "ministry", "bureau", "agency", "parliament", "senate":
			return true
		}
	}
	return strings.Contains(path, "/official-release")
}

// isSocial matches platform-shaped paths: status IDs, handles, subreddits
func isSocial(host, path string) bool {
	if socialPathRe.MatchString(path) {
		return true
	}
	// Handle-rooted profile paths on very short hosts (t.co-style shorteners)
	hostBase := strings.TrimSuffix(host, ".com")
	return len(hostBase) <= 4 && strings.Count(host, ".") == 1 && len(path) > 1 && !strings.Contains(path[1:], "/")
}

// isNews matches dated article paths and newsroom path segments
func isNews(path string) bool {
	if datePathRe.MatchString(path) {
		return true
	}
	for _, cue := range []string{"/news/", "/article", "/story/", "/politics/", "/world/", "/business/"} {
		if strings.Contains(path, cue) {
			return true
		}
	}
	return false
}

// isBlog matches blog path and host-label cues
func isBlog(host, path string) bool {
	if strings.Contains(path, "/blog") || strings.Contains(path, "/posts/") {
		return true
	}
	return strings.HasPrefix(host, "blog.")
}

// typePriors is the fixed relevance prior per structural source type, in [0,1]
var typePriors = map[model.SourceType]float64{
	model.SourcePeerReviewed: 1.00,
	model.SourceGovernment:   0.90,
	model.SourceNews:         0.75,
	model.SourceWeb:          0.55,
	model.SourceBlog:         0.40,
	model.SourceSocial:       0.25,
}

// TypePrior returns the ranking prior for a source type
func TypePrior(t model.SourceType) float64 {
	if prior, ok := typePriors[t]; ok {
		return prior
	}
	return typePriors[model.SourceWeb]
}
