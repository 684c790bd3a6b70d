package guard

import (
	"github.com/ppiankov/parallax/internal/model"
	"github.com/ppiankov/parallax/internal/normalize"
)

// MeasureAgreement computes cross-arm consensus: token overlap between the
// arms' top items, shared domains and identical URLs appearing in both.
// Contradiction fields are filled separately by DetectContradiction.
func MeasureAgreement(armA, armB []model.EvidenceItem) model.ConsensusMetrics {
	var metrics model.ConsensusMetrics

	metrics.TokenOverlapJaccard = normalize.TokenJaccard(armTokens(armA), armTokens(armB))

	domainsA := make(map[string]bool)
	urlsA := make(map[string]bool)
	for _, item := range armA {
		domainsA[item.Domain] = true
		urlsA[item.CanonicalURL] = true
	}

	seenDomain := make(map[string]bool)
	seenURL := make(map[string]bool)
	for _, item := range armB {
		if domainsA[item.Domain] && !seenDomain[item.Domain] {
			seenDomain[item.Domain] = true
			metrics.SharedDomains++
		}
		if urlsA[item.CanonicalURL] && !seenURL[item.CanonicalURL] {
			seenURL[item.CanonicalURL] = true
			metrics.ExactURLMatches++
		}
	}

	return metrics
}

func armTokens(items []model.EvidenceItem) []string {
	var tokens []string
	for _, item := range items {
		tokens = append(tokens, normalize.Tokenize(item.Title+" "+item.Snippet)...)
	}
	return tokens
}
