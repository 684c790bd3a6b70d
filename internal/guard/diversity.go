// Package guard implements the deterministic guardrail chain applied to
// evidence before verdict composition: domain diversity, stance balance,
// credibility scoring, cross-arm agreement and contradiction detection.
package guard

import (
	"sort"

	"github.com/ppiankov/parallax/internal/model"
)

// Diversity enforces per-domain caps with backfill to a minimum total
type Diversity struct {
	perDomainKeep int
	minTotal      int
}

// NewDiversity creates the diversity guardrail
func NewDiversity(cfg *model.Config) *Diversity {
	return &Diversity{
		perDomainKeep: cfg.Guardrails.PerDomainKeep,
		minTotal:      cfg.Guardrails.MinTotal,
	}
}

// Enforce groups items by domain, keeps the top-N per domain by relevance
// and backfills from the dropped pool up to the minimum total, preferring
// domains not yet represented. Never returns fewer than
// min(minTotal, len(items)) items.
func (d *Diversity) Enforce(arm model.Arm, items []model.EvidenceItem) model.GuardrailReport {
	report := model.GuardrailReport{Arm: arm}
	if len(items) == 0 {
		return report
	}

	// Stable order by relevance inside each domain group
	ordered := make([]model.EvidenceItem, len(items))
	copy(ordered, items)
	sort.SliceStable(ordered, func(a, b int) bool {
		return ordered[a].RelevanceScore > ordered[b].RelevanceScore
	})

	perDomain := make(map[string]int)
	var kept, dropped []model.EvidenceItem
	for _, item := range ordered {
		if perDomain[item.Domain] < d.perDomainKeep {
			perDomain[item.Domain]++
			kept = append(kept, item)
		} else {
			dropped = append(dropped, item)
		}
	}

	// Backfill: unrepresented domains would already be kept, so the pool is
	// over-capped domains ordered by score; take until the minimum holds.
	backfilled := 0
	for len(kept) < d.minTotal && len(dropped) > 0 {
		next := dropped[0]
		dropped = dropped[1:]
		perDomain[next.Domain]++
		kept = append(kept, next)
		backfilled++
	}

	report.Kept = kept
	report.Dropped = dropped
	report.Stats = model.DiversityStats{
		Domains:    len(perDomain),
		KeptCount:  len(kept),
		DropCount:  len(dropped),
		Backfilled: backfilled,
	}
	return report
}
