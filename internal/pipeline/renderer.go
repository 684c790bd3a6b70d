package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/ppiankov/parallax/internal/model"
)

// Renderer writes verdicts to JSON, Markdown, and a stdout summary
type Renderer struct {
	includeFooter bool
}

func NewRenderer(includeFooter bool) *Renderer {
	return &Renderer{includeFooter: includeFooter}
}

// RenderJSON writes the full verdict, methodology included, to path
func (r *Renderer) RenderJSON(v *model.Verdict, path string) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal verdict: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// RenderMarkdown writes a human-readable report to path
func (r *Renderer) RenderMarkdown(v *model.Verdict, path string) error {
	var b strings.Builder

	b.WriteString("# Fact-Check Report\n\n")
	fmt.Fprintf(&b, "**Checked:** %s\n\n", v.CheckedAt.Format("2006-01-02 15:04 UTC"))
	fmt.Fprintf(&b, "**Overall:** %s (%d/100)\n\n", v.Label, v.OverallScore)
	fmt.Fprintf(&b, "> %s\n\n", truncate(v.Input, 300))

	for i, cv := range v.Claims {
		fmt.Fprintf(&b, "## Claim %d — %s (%d/100)\n\n", i+1, cv.Label, cv.Score)
		fmt.Fprintf(&b, "%s\n\n", cv.Claim.Text)

		m := cv.Methodology
		fmt.Fprintf(&b, "- Tier: %s, kind: %s\n", cv.Claim.Tier, cv.Claim.Kind)
		fmt.Fprintf(&b, "- Evidence: %d kept (%d support / %d refute / %d neutral)\n",
			len(cv.Evidence), m.Balance.Support, m.Balance.Refute, m.Balance.Neutral)
		fmt.Fprintf(&b, "- Credibility avg: %.1f\n", m.CredibilityAvg)
		fmt.Fprintf(&b, "- Cross-arm agreement: jaccard %.2f, %d shared domains, %d exact URL matches\n",
			m.Agreement.TokenOverlapJaccard, m.Agreement.SharedDomains, m.Agreement.ExactURLMatches)
		if m.Agreement.PairsTotal > 0 {
			fmt.Fprintf(&b, "- Opposition: %d/%d pairs (%.2f)\n",
				m.Agreement.PairsOpposed, m.Agreement.PairsTotal, m.Agreement.OppositionRatio)
		}
		for _, note := range m.Notes {
			fmt.Fprintf(&b, "- Note: %s\n", note)
		}
		b.WriteString("\n")

		if len(cv.Evidence) > 0 {
			b.WriteString("| Source | Type | Stance | Cred | Rank |\n")
			b.WriteString("|--------|------|--------|------|------|\n")
			for _, e := range cv.Evidence {
				fmt.Fprintf(&b, "| [%s](%s) | %s | %s (%d) | %d | %.0f |\n",
					escapePipes(truncate(e.Title, 70)), e.CanonicalURL,
					e.SourceType, e.Stance, e.StanceScore, e.CredibilityScore, e.RelevanceScore)
			}
			b.WriteString("\n")
		}

		for _, pair := range m.Agreement.Samples {
			fmt.Fprintf(&b, "- Contradicting pair: %q vs %q\n", pair.TitleA, pair.TitleB)
		}
	}

	if v.Assist != nil {
		b.WriteString("## Drafted Explanation\n\n")
		b.WriteString("_Generated by an assist model; the score above was computed without it._\n\n")
		b.WriteString(v.Assist.Explanation)
		b.WriteString("\n\n")
		for _, w := range v.Assist.Warnings {
			fmt.Fprintf(&b, "⚠️ %s\n", w)
		}
	}

	if r.includeFooter {
		b.WriteString("\n---\n")
		b.WriteString("_Generated by parallax. Scores are heuristic signals over public search results, not editorial judgments._\n")
	}

	return os.WriteFile(path, []byte(b.String()), 0o644)
}

// RenderSummary prints a compact result to stdout
func (r *Renderer) RenderSummary(v *model.Verdict) {
	fmt.Println()
	fmt.Printf("Verdict: %s (%d/100)\n", v.Label, v.OverallScore)
	if len(v.Claims) == 0 {
		fmt.Println("No checkable claims found in input.")
		return
	}

	for i, cv := range v.Claims {
		m := cv.Methodology
		fmt.Printf("  [%d] %-14s %3d/100  %s\n", i+1, cv.Label, cv.Score, truncate(cv.Claim.Text, 72))
		if m.GatherStatus == model.GatherNoProviders {
			fmt.Println("      no search providers configured")
			continue
		}
		fmt.Printf("      evidence %d (↑%d ↓%d =%d), cred %.0f, opposition %.2f\n",
			len(cv.Evidence), m.Balance.Support, m.Balance.Refute, m.Balance.Neutral,
			m.CredibilityAvg, m.Agreement.OppositionRatio)
	}

	if v.Assist != nil && len(v.Assist.Warnings) > 0 {
		for _, w := range v.Assist.Warnings {
			fmt.Printf("  ⚠️  %s\n", w)
		}
	}
}

func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}

func escapePipes(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}
