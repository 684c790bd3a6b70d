// Package plan turns an interpreted claim into two opposing search arms.
// The planner diversifies search angles only; it never injects a stance
// into the claim wording itself.
package plan

import (
	"context"
	"strings"

	"github.com/ppiankov/parallax/internal/model"
)

const maxQueriesPerArm = 3

// QueryRefiner is the optional assist hook. A refiner may rewrite queries
// for precision but must preserve count and neutral wording; the planner
// validates and discards refinements that break the arm contract.
type QueryRefiner interface {
	RefineQueries(ctx context.Context, claim model.Claim, queries []string) ([]string, error)
}

// Planner generates a two-arm search plan for a claim
type Planner struct {
	refiner QueryRefiner // nil means plain planning
}

// NewPlanner creates a planner. refiner may be nil.
func NewPlanner(refiner QueryRefiner) *Planner {
	return &Planner{refiner: refiner}
}

// Plan builds the two arms for a claim. Arm A probes a confirmation-leaning
// angle, arm B a scrutiny-leaning angle; both keep the claim wording neutral.
func (p *Planner) Plan(ctx context.Context, claim model.Claim) model.SearchPlan {
	core := coreQuery(claim)

	armA := buildArmA(claim, core)
	armB := buildArmB(claim, core)

	if p.refiner != nil {
		armA = p.refine(ctx, claim, armA)
		armB = p.refine(ctx, claim, armB)
	}

	return model.SearchPlan{
		Claim:    claim,
		QueriesA: capQueries(armA),
		QueriesB: capQueries(armB),
	}
}

// refine runs the assist refiner and keeps the result only when it preserves
// the query count. Any failure falls back to the plain queries.
func (p *Planner) refine(ctx context.Context, claim model.Claim, queries []string) []string {
	refined, err := p.refiner.RefineQueries(ctx, claim, queries)
	if err != nil || len(refined) != len(queries) {
		return queries
	}
	for _, q := range refined {
		if strings.TrimSpace(q) == "" {
			return queries
		}
	}
	return refined
}

// coreQuery condenses the claim into a compact search phrase: entities plus
// quantities plus the year hint, falling back to a trimmed claim text.
func coreQuery(claim model.Claim) string {
	var parts []string

	for i, e := range claim.Entities {
		if i >= 2 {
			break
		}
		parts = append(parts, e)
	}
	for i, p := range claim.Numbers.Percents {
		if i >= 1 {
			break
		}
		parts = append(parts, p+"%")
	}
	if claim.Scope.YearHint != "" {
		parts = append(parts, claim.Scope.YearHint)
	}

	if len(parts) < 2 {
		return trimWords(claim.Text, 10)
	}
	return strings.Join(parts, " ")
}

func buildArmA(claim model.Claim, core string) []string {
	queries := []string{
		trimWords(claim.Text, 12),
		core,
	}
	if claim.Kind == model.KindAttribution && len(claim.Entities) > 0 {
		queries = append(queries, claim.Entities[0]+" statement "+firstOr(claim.Numbers.Years, ""))
	} else if claim.Scope.YearHint != "" {
		queries = append(queries, core+" official statistics")
	}
	return queries
}

func buildArmB(claim model.Claim, core string) []string {
	queries := []string{
		core + " fact check",
		core + " disputed evidence",
	}
	if claim.Kind == model.KindComparative {
		queries = append(queries, core+" methodology criticism")
	} else {
		queries = append(queries, trimWords(claim.Text, 8)+" alternative data")
	}
	return queries
}

func capQueries(queries []string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, q := range queries {
		q = strings.Join(strings.Fields(q), " ")
		if q == "" {
			continue
		}
		key := strings.ToLower(q)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, q)
		if len(out) == maxQueriesPerArm {
			break
		}
	}
	return out
}

func trimWords(text string, n int) string {
	words := strings.Fields(text)
	if len(words) > n {
		words = words[:n]
	}
	return strings.Trim(strings.Join(words, " "), ".,;: ")
}

func firstOr(values []string, fallback string) string {
	if len(values) > 0 {
		return values[0]
	}
	return fallback
}
