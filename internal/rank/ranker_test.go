package rank

import (
	"testing"
	"time"

	"github.com/ppiankov/parallax/internal/model"
)

var testNow = time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

func TestInferSourceType(t *testing.T) {
	tests := []struct {
		url  string
		want model.SourceType
	}{
		{"https://journals.example.org/doi/10.1234/abcd.5678", model.SourcePeerReviewed},
		{"https://archive.example.org/abs/2101.00001", model.SourcePeerReviewed},
		{"https://lab.university.edu/research/output", model.SourcePeerReviewed},
		{"https://stats.example.gov/releases/q1", model.SourceGovernment},
		{"https://census.example.gov.uk/tables", model.SourceGovernment},
		{"https://bureau.example.org/figures", model.SourceGovernment},
		{"https://daily.example.com/2024/03/rates-fall", model.SourceNews},
		{"https://daily.example.com/news/economy", model.SourceNews},
		{"https://platform.example.com/status/12345", model.SourceSocial},
		{"https://blog.example.net/why-i-think-this", model.SourceBlog},
		{"https://example.com/posts/my-take", model.SourceBlog},
		{"https://example.com/about", model.SourceWeb},
	}

	for _, tt := range tests {
		if got := InferSourceType(tt.url); got != tt.want {
			t.Errorf("InferSourceType(%q) = %s, want %s", tt.url, got, tt.want)
		}
	}
}

func TestTypePrior_Ordering(t *testing.T) {
	order := []model.SourceType{
		model.SourcePeerReviewed,
		model.SourceGovernment,
		model.SourceNews,
		model.SourceWeb,
		model.SourceBlog,
		model.SourceSocial,
	}
	for i := 1; i < len(order); i++ {
		if TypePrior(order[i-1]) <= TypePrior(order[i]) {
			t.Errorf("prior for %s must exceed %s", order[i-1], order[i])
		}
	}
}

func TestRanker_PrefersAuthoritativeAndRelevant(t *testing.T) {
	r := New(model.DefaultConfig(), testNow)

	items := []model.EvidenceItem{
		{
			EvidenceCandidate: model.EvidenceCandidate{
				Query:   "unemployment rate 2024",
				Title:   "Random page about gardening",
				Snippet: "Flowers and soil.",
			},
			CanonicalURL: "https://hobby.example.com/garden",
		},
		{
			EvidenceCandidate: model.EvidenceCandidate{
				Query:   "unemployment rate 2024",
				Title:   "Unemployment rate 2024 statistics",
				Snippet: "Official unemployment rate figures for 2024.",
			},
			CanonicalURL: "https://stats.example.gov/unemployment",
		},
	}

	ranked := r.Rank(items)

	if ranked[0].CanonicalURL != "https://stats.example.gov/unemployment" {
		t.Errorf("expected the relevant government source first, got %s", ranked[0].CanonicalURL)
	}
	if ranked[0].SourceType != model.SourceGovernment {
		t.Errorf("source type not inferred during ranking: %s", ranked[0].SourceType)
	}
	if ranked[0].RelevanceScore <= ranked[1].RelevanceScore {
		t.Error("scores not in descending order")
	}
}

func TestRanker_TopK(t *testing.T) {
	cfg := model.DefaultConfig()
	cfg.Rank.TopK = 2
	r := New(cfg, testNow)

	items := make([]model.EvidenceItem, 5)
	for i := range items {
		items[i] = model.EvidenceItem{
			EvidenceCandidate: model.EvidenceCandidate{Query: "q", Title: "unrelated"},
			CanonicalURL:      "https://example.com/x",
		}
	}

	ranked := r.Rank(items)
	if len(ranked) != 2 {
		t.Errorf("expected top-2 cut, got %d", len(ranked))
	}
}

func TestRanker_Deterministic(t *testing.T) {
	r := New(model.DefaultConfig(), testNow)

	items := []model.EvidenceItem{
		{EvidenceCandidate: model.EvidenceCandidate{Query: "q", Title: "same title"}, CanonicalURL: "https://a.example.com/1"},
		{EvidenceCandidate: model.EvidenceCandidate{Query: "q", Title: "same title"}, CanonicalURL: "https://b.example.com/2"},
	}

	first := r.Rank(items)
	second := r.Rank(items)

	for i := range first {
		if first[i].CanonicalURL != second[i].CanonicalURL {
			t.Errorf("rank order not deterministic at %d", i)
		}
	}
	// Equal scores keep original order
	if first[0].CanonicalURL != "https://a.example.com/1" {
		t.Error("tie must preserve input order")
	}
}

func TestRanker_RecencySetsAge(t *testing.T) {
	r := New(model.DefaultConfig(), testNow)

	items := []model.EvidenceItem{
		{
			EvidenceCandidate: model.EvidenceCandidate{Query: "q", Title: "Figures for 2025 published", Snippet: ""},
			CanonicalURL:      "https://a.example.com/1",
			Temporal:          model.TemporalSignals{AgeDays: -1},
		},
		{
			EvidenceCandidate: model.EvidenceCandidate{Query: "q", Title: "Undated page"},
			CanonicalURL:      "https://b.example.com/2",
			Temporal:          model.TemporalSignals{AgeDays: -1},
		},
	}

	ranked := r.Rank(items)

	var dated, undated *model.EvidenceItem
	for i := range ranked {
		if ranked[i].CanonicalURL == "https://a.example.com/1" {
			dated = &ranked[i]
		} else {
			undated = &ranked[i]
		}
	}

	if dated.Temporal.AgeDays != 365 {
		t.Errorf("expected age 365 days for last year's item, got %d", dated.Temporal.AgeDays)
	}
	if undated.Temporal.AgeDays != -1 {
		t.Errorf("undated item must keep unknown age, got %d", undated.Temporal.AgeDays)
	}
}

func TestRecencyScore(t *testing.T) {
	tests := []struct {
		text string
		want float64
	}{
		{"report for 2026 quarter", 1.0},
		{"report for 2025", 0.8},
		{"data from 2024", 0.5},
		{"survey from 2020", 0.3},
		{"archive from 1995", 0.1},
		{"no year mentioned", 0.5},
		{"future projections for 2050", 0.5}, // future years ignored, neutral
	}

	for _, tt := range tests {
		got, _ := recencyScore(tt.text, testNow)
		if got != tt.want {
			t.Errorf("recencyScore(%q) = %f, want %f", tt.text, got, tt.want)
		}
	}
}
