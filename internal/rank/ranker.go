// Package rank orders normalized evidence by lexical relevance, structural
// source type and recency. Deterministic: identical input yields identical
// order.
package rank

import (
	"regexp"
	"sort"
	"strconv"
	"time"

	"github.com/ppiankov/parallax/internal/model"
	"github.com/ppiankov/parallax/internal/normalize"
)

// Scoring weights per the documented formula: 0.55 lexical, 0.30 type
// prior, 0.15 recency, scaled to 0-100.
const (
	weightLexical = 0.55
	weightType    = 0.30
	weightRecency = 0.15
)

var yearInTextRe = regexp.MustCompile(`\b(19[89]\d|20\d{2})\b`)

// Ranker scores and orders evidence items per arm
type Ranker struct {
	topK int
	now  time.Time // fixed reference time, keeps recency deterministic
}

// New creates a ranker. now anchors recency scoring for the whole run.
func New(cfg *model.Config, now time.Time) *Ranker {
	return &Ranker{topK: cfg.Rank.TopK, now: now}
}

// Rank scores every item and returns the top-k in descending score order.
// Ties break on higher lexical score, then on original (arm/query) order.
func (r *Ranker) Rank(items []model.EvidenceItem) []model.EvidenceItem {
	type scored struct {
		item    model.EvidenceItem
		lexical float64
		orig    int
	}

	scoredItems := make([]scored, len(items))
	for i, item := range items {
		item.SourceType = InferSourceType(item.CanonicalURL)

		lexical := lexicalScore(item.Query, item.Title, item.Snippet)
		recency, ageDays := recencyScore(item.Title+" "+item.Snippet, r.now)
		if ageDays >= 0 {
			item.Temporal.AgeDays = ageDays
		}

		total := weightLexical*lexical + weightType*TypePrior(item.SourceType) + weightRecency*recency
		item.RelevanceScore = total * 100

		scoredItems[i] = scored{item: item, lexical: lexical, orig: i}
	}

	sort.SliceStable(scoredItems, func(a, b int) bool {
		if scoredItems[a].item.RelevanceScore != scoredItems[b].item.RelevanceScore {
			return scoredItems[a].item.RelevanceScore > scoredItems[b].item.RelevanceScore
		}
		if scoredItems[a].lexical != scoredItems[b].lexical {
			return scoredItems[a].lexical > scoredItems[b].lexical
		}
		return scoredItems[a].orig < scoredItems[b].orig
	})

	n := len(scoredItems)
	if r.topK > 0 && n > r.topK {
		n = r.topK
	}
	out := make([]model.EvidenceItem, n)
	for i := 0; i < n; i++ {
		out[i] = scoredItems[i].item
	}
	return out
}

// lexicalScore is token-Jaccard between the producing query and the item's
// title plus snippet
func lexicalScore(query, title, snippet string) float64 {
	return normalize.TokenJaccard(normalize.Tokenize(query), normalize.Tokenize(title+" "+snippet))
}

// recencyScore estimates freshness from the newest year mentioned in the
// item text. Unknown age scores neutral. Returns the score and the derived
// age in days (-1 when unknown).
func recencyScore(text string, now time.Time) (float64, int) {
	newest := 0
	for _, m := range yearInTextRe.FindAllString(text, -1) {
		if y, err := strconv.Atoi(m); err == nil && y <= now.Year() && y > newest {
			newest = y
		}
	}
	if newest == 0 {
		return 0.5, -1
	}

	ageYears := now.Year() - newest
	ageDays := ageYears * 365
	switch {
	case ageYears <= 0:
		return 1.0, ageDays
	case ageYears == 1:
		return 0.8, ageDays
	case ageYears <= 3:
		return 0.5, ageDays
	case ageYears <= 7:
		return 0.3, ageDays
	default:
		return 0.1, ageDays
	}
}
