package extract

import (
	"regexp"
	"strings"

	"github.com/ppiankov/parallax/internal/model"
)

var (
	percentRe    = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(?:%|percent|per cent)`)
	yearRe       = regexp.MustCompile(`\b(1[89]\d{2}|20\d{2})\b`)
	numberUnitRe = regexp.MustCompile(`(?i)\b(\d+(?:[.,]\d+)?)\s*(thousand|million|billion|trillion|people|jobs|cases|deaths|dollars|euros|tons|units)\b`)
)

// Interpreter enriches extracted claims with numbers, cues and scope hints
type Interpreter struct {
	negationWords    []string
	comparisonWords  []string
	attributionWords []string
}

// NewInterpreter creates a new claim interpreter
func NewInterpreter() *Interpreter {
	return &Interpreter{
		negationWords: []string{
			"not", "no ", "never", "denies", "denied", "false", "untrue",
			"debunked", "refuted", "disputed", "without",
		},
		comparisonWords: []string{
			"more than", "less than", "higher", "lower", "compared to",
			"versus", "vs", "fastest", "largest", "smallest", "most", "least",
		},
		attributionWords: []string{
			"according to", "said", "says", "stated", "reported", "claims",
			"announced", "told", "per the",
		},
	}
}

// Interpret fills in the numbers, cues, scope and kind of a claim. The input
// claim is copied; extraction output stays immutable.
func (in *Interpreter) Interpret(claim model.Claim) model.Claim {
	lower := strings.ToLower(claim.Text)

	claim.Numbers = extractNumbers(claim.Text)
	claim.Cues = model.Cues{
		Negation:    containsAny(lower, in.negationWords),
		Comparison:  containsAny(lower, in.comparisonWords),
		Attribution: containsAny(lower, in.attributionWords),
	}

	if len(claim.Numbers.Years) > 0 {
		claim.Scope.YearHint = claim.Numbers.Years[0]
	}
	if len(claim.Entities) > 0 {
		// Prefer a multi-word entity: "Department of Labor" scopes a claim
		// far better than a lone capitalized sentence opener.
		claim.Scope.GeoHint = claim.Entities[0]
		for _, e := range claim.Entities {
			if strings.Contains(e, " ") {
				claim.Scope.GeoHint = e
				break
			}
		}
	}

	claim.Kind = classifyKind(claim.Cues)

	return claim
}

// InterpretAll interprets a batch of claims in order.
func (in *Interpreter) InterpretAll(claims []model.Claim) []model.Claim {
	out := make([]model.Claim, len(claims))
	for i, c := range claims {
		out[i] = in.Interpret(c)
	}
	return out
}

// extractNumbers pulls percentages, years and number+unit pairs from text
func extractNumbers(text string) model.Numbers {
	var n model.Numbers

	for _, m := range percentRe.FindAllStringSubmatch(text, -1) {
		n.Percents = append(n.Percents, m[1])
	}
	for _, m := range yearRe.FindAllStringSubmatch(text, -1) {
		n.Years = append(n.Years, m[1])
	}
	for _, m := range numberUnitRe.FindAllStringSubmatch(text, -1) {
		n.NumberUnits = append(n.NumberUnits, m[1]+" "+strings.ToLower(m[2]))
	}

	return n
}

// classifyKind derives the coarse claim kind from detected cues. Attribution
// wins over comparison: "X said Y is bigger than Z" is still an attributed
// statement.
func classifyKind(cues model.Cues) model.ClaimKind {
	if cues.Attribution {
		return model.KindAttribution
	}
	if cues.Comparison {
		return model.KindComparative
	}
	return model.KindStatement
}
