package guard

import (
	"strings"

	"github.com/ppiankov/parallax/internal/model"
)

// Base credibility by structural source type. Same rules for every source;
// no registry of site names.
var credibilityBase = map[model.SourceType]int{
	model.SourcePeerReviewed: 85,
	model.SourceGovernment:   80,
	model.SourceNews:         70,
	model.SourceWeb:          60,
	model.SourceBlog:         55,
	model.SourceSocial:       45,
}

// ScoreCredibility assigns each item a credibility score in [0,100] from
// structural signals: source type base, TLD bonus, recency tier and snippet
// quality. Returns the enriched items and the average.
func ScoreCredibility(items []model.EvidenceItem) ([]model.EvidenceItem, float64) {
	if len(items) == 0 {
		return items, 0
	}

	total := 0
	for i := range items {
		score := credibilityOne(&items[i])
		items[i].CredibilityScore = score
		total += score
	}
	return items, float64(total) / float64(len(items))
}

func credibilityOne(item *model.EvidenceItem) int {
	score, ok := credibilityBase[item.SourceType]
	if !ok {
		score = credibilityBase[model.SourceWeb]
	}

	score += tldBonus(item.Domain)
	score += recencyBonus(item.Temporal.AgeDays)
	score += snippetAdjustment(item.Snippet)

	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

func tldBonus(domain string) int {
	switch {
	case strings.HasSuffix(domain, ".gov") || strings.Contains(domain, ".gov."):
		return 8
	case strings.HasSuffix(domain, ".edu") || strings.HasSuffix(domain, ".ac.uk"):
		return 6
	case strings.HasSuffix(domain, ".org"):
		return 2
	default:
		return 0
	}
}

// recencyBonus rewards fresher evidence in tiers by age in days. Unknown
// age (-1) earns nothing either way.
func recencyBonus(ageDays int) int {
	switch {
	case ageDays < 0:
		return 0
	case ageDays <= 90:
		return 6
	case ageDays <= 365:
		return 4
	case ageDays <= 365*3:
		return 0
	default:
		return -4
	}
}

// snippetAdjustment penalizes very short snippets and rewards substantial
// ones; thin snippets carry too little context to audit.
func snippetAdjustment(snippet string) int {
	n := len(strings.TrimSpace(snippet))
	switch {
	case n < 40:
		return -5
	case n < 80:
		return 0
	case n <= 400:
		return 3
	default:
		return 1
	}
}
