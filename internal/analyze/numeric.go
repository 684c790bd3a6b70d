// Package analyze adds numeric/temporal signals and stance classification
// to ranked evidence. Both stages are deterministic heuristics; auditable
// reasoning is a hard requirement here, so no learned model is involved.
package analyze

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/ppiankov/parallax/internal/model"
)

var (
	percentValRe  = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(?:%|percent|per cent)`)
	scaledValRe   = regexp.MustCompile(`(?i)\b(\d+(?:[.,]\d+)?)\s*(thousand|million|billion|trillion)\b`)
	yearValRe     = regexp.MustCompile(`\b(19[89]\d|20\d{2})\b`)
	increaseWords = []string{"increase", "increased", "rose", "rise", "grew", "growth", "up ", "climbed", "jumped", "gained"}
	decreaseWords = []string{"decrease", "decreased", "fell", "fall", "dropped", "decline", "declined", "down ", "shrank", "lost"}
)

var unitScale = map[string]float64{
	"thousand": 1e3,
	"million":  1e6,
	"billion":  1e9,
	"trillion": 1e12,
}

// Enricher compares quantities and dates between claim and evidence
type Enricher struct {
	percentGap float64 // conflict when percentage points differ by at least this
	ratioGap   float64 // conflict when absolute values differ by at least this ratio
	staleDays  int
	now        time.Time
}

// NewEnricher creates an enricher with the configured thresholds
func NewEnricher(cfg *model.Config, now time.Time) *Enricher {
	return &Enricher{
		percentGap: cfg.Analysis.PercentGapPoints,
		ratioGap:   cfg.Analysis.AbsoluteGapRatio,
		staleDays:  cfg.Analysis.StaleAfterDays,
		now:        now,
	}
}

// Enrich annotates each item with numeric and temporal signals relative to
// the claim. Signals only annotate; credibility handling happens in the
// guardrail chain.
func (e *Enricher) Enrich(claim model.Claim, items []model.EvidenceItem) []model.EvidenceItem {
	claimQ := quantitiesFrom(claim.Text)

	for i := range items {
		text := items[i].Title + " " + items[i].Snippet
		evQ := quantitiesFrom(text)

		items[i].Numeric = e.compare(claimQ, evQ)
		items[i].Temporal = e.temporal(claim, text, items[i].Temporal)
	}
	return items
}

type quantities struct {
	percents  []float64
	absolutes []float64
	trend     string
}

func quantitiesFrom(text string) quantities {
	var q quantities

	for _, m := range percentValRe.FindAllStringSubmatch(text, -1) {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			q.percents = append(q.percents, v)
		}
	}
	for _, m := range scaledValRe.FindAllStringSubmatch(text, -1) {
		raw := strings.ReplaceAll(m[1], ",", "")
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			q.absolutes = append(q.absolutes, v*unitScale[strings.ToLower(m[2])])
		}
	}
	q.trend = trendOf(text)
	return q
}

func trendOf(text string) string {
	lower := strings.ToLower(text)
	for _, w := range increaseWords {
		if strings.Contains(lower, w) {
			return "increase"
		}
	}
	for _, w := range decreaseWords {
		if strings.Contains(lower, w) {
			return "decrease"
		}
	}
	return ""
}

// compare flags a conflict on percentage-point gaps, absolute ratio gaps or
// opposed trends between claim and evidence quantities
func (e *Enricher) compare(claim, evidence quantities) model.NumericSignals {
	sig := model.NumericSignals{
		Percents:  evidence.percents,
		Absolutes: evidence.absolutes,
		Trend:     evidence.trend,
	}

	if gap, ok := closestGap(claim.percents, evidence.percents); ok && gap >= e.percentGap {
		sig.Conflict = true
		sig.Reason = fmt.Sprintf("percentage gap %.1fpp >= %.1fpp", gap, e.percentGap)
		return sig
	}

	if ratio, ok := closestRatioGap(claim.absolutes, evidence.absolutes); ok && ratio >= e.ratioGap {
		sig.Conflict = true
		sig.Reason = fmt.Sprintf("absolute value gap %.1f%% >= %.1f%%", ratio*100, e.ratioGap*100)
		return sig
	}

	if claim.trend != "" && evidence.trend != "" && claim.trend != evidence.trend {
		sig.Conflict = true
		sig.Reason = fmt.Sprintf("stated trend %q opposes claim trend %q", evidence.trend, claim.trend)
	}
	return sig
}

// closestGap returns the smallest pairwise distance in percentage points
func closestGap(claim, evidence []float64) (float64, bool) {
	if len(claim) == 0 || len(evidence) == 0 {
		return 0, false
	}
	best := -1.0
	for _, c := range claim {
		for _, ev := range evidence {
			gap := c - ev
			if gap < 0 {
				gap = -gap
			}
			if best < 0 || gap < best {
				best = gap
			}
		}
	}
	return best, true
}

// closestRatioGap returns the smallest pairwise relative difference
func closestRatioGap(claim, evidence []float64) (float64, bool) {
	if len(claim) == 0 || len(evidence) == 0 {
		return 0, false
	}
	best := -1.0
	for _, c := range claim {
		if c == 0 {
			continue
		}
		for _, ev := range evidence {
			gap := (c - ev) / c
			if gap < 0 {
				gap = -gap
			}
			if best < 0 || gap < best {
				best = gap
			}
		}
	}
	return best, best >= 0
}

// temporal extracts years and flags staleness against the claim's year hint.
// Without claim temporal context the window triples: absent an anchor year,
// only clearly old evidence gets the soft stale flag.
func (e *Enricher) temporal(claim model.Claim, text string, prior model.TemporalSignals) model.TemporalSignals {
	sig := prior
	sig.Years = nil

	newest := 0
	for _, m := range yearValRe.FindAllString(text, -1) {
		sig.Years = append(sig.Years, m)
		if y, _ := strconv.Atoi(m); y <= e.now.Year() && y > newest {
			newest = y
		}
	}

	if newest > 0 {
		sig.AgeDays = (e.now.Year() - newest) * 365
	}

	if sig.AgeDays < 0 {
		return sig
	}

	if claim.Scope.YearHint != "" {
		claimYear, err := strconv.Atoi(claim.Scope.YearHint)
		if err == nil && newest > 0 {
			sig.Stale = (claimYear-newest)*365 > e.staleDays
			return sig
		}
	}
	sig.Stale = sig.AgeDays > e.staleDays*3
	return sig
}
