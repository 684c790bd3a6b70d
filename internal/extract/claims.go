package extract

import (
	"strings"
	"unicode"

	"github.com/ppiankov/parallax/internal/model"
)

// ClaimExtractor splits free text into tiered claims
type ClaimExtractor struct {
	causalWords []string
	copulaWords []string
}

// NewClaimExtractor creates a new claim extractor
func NewClaimExtractor() *ClaimExtractor {
	return &ClaimExtractor{
		causalWords: []string{
			"because", "therefore", "due to", "as a result", "consequently",
			"which led to", "which means", "so that", "thus", "hence",
		},
		copulaWords: []string{
			" is ", " are ", " was ", " were ", " has ", " have ",
			" fell ", " rose ", " increased ", " decreased ", " reached ",
		},
	}
}

// Extract splits text into sentences, filters non-substantive fragments and
// classifies each surviving sentence into a tier. Empty or non-substantive
// input yields zero claims; the pipeline reports that honestly rather than
// fabricating one.
func (e *ClaimExtractor) Extract(text string) []model.Claim {
	sentences := splitSentences(text)
	if len(sentences) == 0 {
		return nil
	}

	claims := make([]model.Claim, 0, len(sentences))
	for i, sentence := range sentences {
		claims = append(claims, model.Claim{
			Text:     sentence,
			Tier:     e.classifyTier(sentence, i),
			Sentence: i,
			Entities: extractEntities(sentence),
		})
	}

	claims = dedupeClaims(claims)
	e.ensureTierCoverage(claims)
	return claims
}

// classifyTier applies the structural tier heuristics: early position plus a
// copula or number plus minimum length means primary; causal connectives mean
// secondary; everything else tertiary.
func (e *ClaimExtractor) classifyTier(sentence string, position int) model.ClaimTier {
	lower := strings.ToLower(sentence)

	if position <= 1 && len(sentence) >= 40 && (containsAny(lower, e.copulaWords) || containsDigit(sentence)) {
		return model.TierPrimary
	}
	if containsAny(lower, e.causalWords) {
		return model.TierSecondary
	}
	return model.TierTertiary
}

// ensureTierCoverage guarantees at least one claim per tier when the
// sentence count allows, re-tiering the least tier-specific candidates.
// The pass is deterministic and order-stable: it scans in sentence order and
// re-tiers the first eligible candidate only.
func (e *ClaimExtractor) ensureTierCoverage(claims []model.Claim) {
	if len(claims) < 3 {
		return
	}

	counts := map[model.ClaimTier]int{}
	for _, c := range claims {
		counts[c.Tier]++
	}

	for _, tier := range []model.ClaimTier{model.TierPrimary, model.TierSecondary, model.TierTertiary} {
		if counts[tier] > 0 {
			continue
		}
		donor := donorTier(counts)
		if donor == "" {
			continue
		}
		for i := range claims {
			if claims[i].Tier == donor && counts[donor] > 1 {
				claims[i].Tier = tier
				counts[donor]--
				counts[tier]++
				break
			}
		}
	}
}

// donorTier picks the most populated tier as re-tier donor. Ties go to
// tertiary, which carries the least structural signal.
func donorTier(counts map[model.ClaimTier]int) model.ClaimTier {
	best := model.ClaimTier("")
	bestCount := 1 // donor must keep at least one member
	for _, tier := range []model.ClaimTier{model.TierTertiary, model.TierSecondary, model.TierPrimary} {
		if counts[tier] > bestCount {
			best = tier
			bestCount = counts[tier]
		}
	}
	return best
}

// splitSentences splits text on terminal punctuation and filters fragments
// that are too short or too long to be substantive claims.
func splitSentences(text string) []string {
	text = strings.ReplaceAll(text, "\n", " ")

	var sentences []string
	var current strings.Builder

	runes := []rune(text)
	for i, r := range runes {
		current.WriteRune(r)

		if r == '.' || r == '!' || r == '?' {
			// Only split when followed by whitespace or end of input, so
			// decimals like "3.5" stay intact
			if i+1 >= len(runes) || runes[i+1] == ' ' || runes[i+1] == '\t' {
				appendIfSubstantive(&sentences, current.String())
				current.Reset()
			}
		}
	}
	appendIfSubstantive(&sentences, current.String())

	return sentences
}

func appendIfSubstantive(sentences *[]string, raw string) {
	sentence := strings.TrimSpace(raw)
	if len(sentence) >= 25 && len(sentence) <= 500 && strings.Contains(sentence, " ") {
		*sentences = append(*sentences, sentence)
	}
}

// extractEntities collects runs of up to 4 capitalized tokens, joined
// across short lowercase connectors so names like "Department of Labor"
// stay whole. Deduplicated in order of first appearance.
func extractEntities(sentence string) []string {
	words := strings.Fields(sentence)
	var entities []string
	seen := make(map[string]bool)

	var run []string
	caps := 0
	flush := func() {
		if len(run) == 0 {
			return
		}
		entity := strings.Join(run, " ")
		entity = strings.Trim(entity, ".,;:!?\"'")
		key := strings.ToLower(entity)
		if len(entity) > 1 && !seen[key] {
			seen[key] = true
			entities = append(entities, entity)
		}
		run = nil
		caps = 0
	}

	for i, word := range words {
		trimmed := strings.Trim(word, ".,;:!?\"'()")
		if isCapitalizedToken(trimmed) && caps < 4 {
			// Sentence-leading capitals on ordinary words are not entities
			if i == 0 && isCommonSentenceStart(trimmed) {
				flush()
				continue
			}
			run = append(run, trimmed)
			caps++
			// Clause punctuation ends the run: "Santos, the Central Bank"
			// is two entities, not one
			if endsClause(word) {
				flush()
			}
			continue
		}
		// A connector only continues a run when a capitalized token follows
		if len(run) > 0 && caps < 4 && isConnector(trimmed) && !endsClause(word) && i+1 < len(words) {
			if next := strings.Trim(words[i+1], ".,;:!?\"'()"); isCapitalizedToken(next) {
				run = append(run, strings.ToLower(trimmed))
				continue
			}
		}
		flush()
	}
	flush()

	return entities
}

// isConnector matches the short lowercase words that commonly join the
// capitalized parts of organization and place names
func isConnector(word string) bool {
	switch strings.ToLower(word) {
	case "of", "and", "the", "for":
		return true
	}
	return false
}

func endsClause(word string) bool {
	return word != "" && strings.ContainsAny(word[len(word)-1:], ".,;:!?")
}

func isCapitalizedToken(word string) bool {
	if word == "" {
		return false
	}
	r := []rune(word)[0]
	return unicode.IsUpper(r) && unicode.IsLetter(r)
}

// isCommonSentenceStart filters determiners and pronouns that only carry a
// capital because they open the sentence.
func isCommonSentenceStart(word string) bool {
	switch strings.ToLower(word) {
	case "the", "a", "an", "this", "that", "these", "those", "it", "they",
		"he", "she", "we", "in", "on", "at", "by", "for", "according":
		return true
	}
	return false
}

func containsAny(lower string, words []string) bool {
	for _, w := range words {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}

func containsDigit(s string) bool {
	for _, r := range s {
		if unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

// dedupeClaims removes duplicate claims by normalized text
func dedupeClaims(claims []model.Claim) []model.Claim {
	seen := make(map[string]bool)
	var unique []model.Claim

	for _, claim := range claims {
		key := strings.ToLower(strings.TrimSpace(claim.Text))
		if !seen[key] {
			seen[key] = true
			unique = append(unique, claim)
		}
	}

	return unique
}
