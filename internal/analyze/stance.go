package analyze

import (
	"strings"

	"github.com/ppiankov/parallax/internal/model"
)

// Stance scoring deltas. Items start neutral at 50 and move by fixed,
// auditable steps; the result is clamped to [0,100].
const (
	stanceStart          = 50
	negationPenalty      = 20
	adversativePenalty   = 5
	supportBonus         = 20
	numericConflictHit   = 25
	numbersAgreeBonus    = 10
	supportBand          = 65 // >= support
	refuteBand           = 35 // <= refute
)

var (
	refuteCues = []string{
		"false", "debunked", "refuted", "denies", "denied", "no evidence",
		"misleading", "incorrect", "not true", "disputed", "myth", "hoax",
		"never happened", "contradicts",
	}
	supportCues = []string{
		"confirmed", "confirms", "verified", "shows", "showed", "according to",
		"reported", "official", "data show", "statistics", "evidence that",
		"corroborated", "consistent with",
	}
	adversatives = []string{"but ", "however", "although", "despite", "yet ", "nevertheless"}
)

// StanceAnalyzer classifies each evidence item relative to its claim
type StanceAnalyzer struct{}

// NewStanceAnalyzer creates a stance analyzer
func NewStanceAnalyzer() *StanceAnalyzer {
	return &StanceAnalyzer{}
}

// Classify scores and bands every item. Requires numeric enrichment to have
// run first; the conflict flag feeds the score.
func (a *StanceAnalyzer) Classify(items []model.EvidenceItem) []model.EvidenceItem {
	for i := range items {
		score := a.scoreOne(&items[i])
		items[i].StanceScore = score
		items[i].Stance = band(score)
	}
	return items
}

func (a *StanceAnalyzer) scoreOne(item *model.EvidenceItem) int {
	text := strings.ToLower(item.Title + " " + item.Snippet)
	score := stanceStart

	if containsAnyCue(text, refuteCues) {
		score -= negationPenalty
	}
	if containsAnyCue(text, adversatives) {
		score -= adversativePenalty
	}
	if containsAnyCue(text, supportCues) {
		score += supportBonus
	}

	hasNumbers := len(item.Numeric.Percents) > 0 || len(item.Numeric.Absolutes) > 0
	if item.Numeric.Conflict {
		score -= numericConflictHit
	} else if hasNumbers {
		score += numbersAgreeBonus
	}

	return clamp(score)
}

func band(score int) model.Stance {
	switch {
	case score >= supportBand:
		return model.StanceSupport
	case score <= refuteBand:
		return model.StanceRefute
	default:
		return model.StanceNeutral
	}
}

func containsAnyCue(text string, cues []string) bool {
	for _, cue := range cues {
		if strings.Contains(text, cue) {
			return true
		}
	}
	return false
}

func clamp(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
