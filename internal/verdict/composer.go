// Package verdict combines guardrail signals into a scored, IFCN-style
// labeled outcome with an auditable methodology trail.
package verdict

import (
	"time"

	"github.com/ppiankov/parallax/internal/guard"
	"github.com/ppiankov/parallax/internal/model"
)

// Component weights for the claim score. Stance balance dominates;
// credibility, cross-arm agreement and diversity compliance temper it.
const (
	weightStance    = 0.50
	weightCred      = 0.25
	weightAgreement = 0.15
	weightDiversity = 0.10

	contradictionPenaltyMax = 25
)

// Inputs carries everything the composer needs for one claim
type Inputs struct {
	Claim        model.Claim
	GatherStatus model.GatherStatus
	Reports      []model.GuardrailReport // One per arm
	Balance      guard.Balance
	CredAvg      float64
	Consensus    model.ConsensusMetrics
	Evidence     []model.EvidenceItem // Post-guardrail, both arms
}

// Composer builds claim verdicts and aggregates them into the run verdict
type Composer struct{}

// NewComposer creates a verdict composer
func NewComposer() *Composer {
	return &Composer{}
}

// Compose walks the claim through scoring into its terminal labeled state.
// Degraded evidence is labeled honestly rather than forced into a binary
// call: zero post-guardrail evidence is unverifiable, full cross-arm
// opposition is conflicting.
func (c *Composer) Compose(in Inputs) model.ClaimVerdict {
	cv := model.ClaimVerdict{
		Claim:    in.Claim,
		State:    model.StateScoring,
		Evidence: in.Evidence,
		Methodology: model.Methodology{
			Guardrails:     in.Reports,
			Balance:        in.Balance.Combined,
			CredibilityAvg: in.CredAvg,
			Agreement:      in.Consensus,
			GatherStatus:   in.GatherStatus,
		},
	}

	switch {
	case in.GatherStatus == model.GatherNoProviders:
		cv.Score = 0
		cv.Label = model.LabelUnverifiable
		cv.Methodology.Notes = append(cv.Methodology.Notes, "no search providers configured")

	case len(in.Evidence) == 0:
		cv.Score = 0
		cv.Label = model.LabelLowCredibility
		if in.GatherStatus == model.GatherEmpty {
			cv.Methodology.Notes = append(cv.Methodology.Notes, "providers returned no candidates")
		} else {
			cv.Methodology.Notes = append(cv.Methodology.Notes, "guardrails left no usable evidence")
		}

	case in.Consensus.PairsTotal > 0 && in.Consensus.OppositionRatio >= 1.0:
		cv.Score = 50
		cv.Label = model.LabelConflicting
		cv.Methodology.Notes = append(cv.Methodology.Notes, "every sampled cross-arm pair is opposed")

	default:
		cv.Score = c.score(in)
		cv.Label = bandLabel(cv.Score)
	}

	cv.State = model.StateLabeled
	return cv
}

// score blends the guardrail signals into a 0-100 value
func (c *Composer) score(in Inputs) int {
	stance := stanceComponent(in.Balance.Combined)
	agreement := in.Consensus.TokenOverlapJaccard * 100
	diversity := diversityComponent(in.Reports)

	raw := weightStance*stance +
		weightCred*in.CredAvg +
		weightAgreement*agreement +
		weightDiversity*diversity

	raw -= in.Consensus.OppositionRatio * contradictionPenaltyMax

	score := int(raw + 0.5)
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score
}

// stanceComponent maps the support/refute balance onto 0-100, 50 neutral
func stanceComponent(balance model.BalanceStats) float64 {
	total := balance.Total()
	if total == 0 {
		return 50
	}
	lean := float64(balance.Support-balance.Refute) / float64(total)
	return 50 + 50*lean
}

// diversityComponent is the kept ratio across arms, 0-100
func diversityComponent(reports []model.GuardrailReport) float64 {
	kept, total := 0, 0
	for _, r := range reports {
		kept += r.Stats.KeptCount
		total += r.Stats.KeptCount + r.Stats.DropCount
	}
	if total == 0 {
		return 0
	}
	return float64(kept) / float64(total) * 100
}

func bandLabel(score int) model.VerdictLabel {
	switch {
	case score >= 80:
		return model.LabelTrue
	case score >= 60:
		return model.LabelMostlyTrue
	case score >= 40:
		return model.LabelMixed
	case score >= 20:
		return model.LabelMostlyFalse
	default:
		return model.LabelFalse
	}
}

// Aggregate folds per-claim verdicts into the run verdict. Claims weigh in
// by tier (primary 3, secondary 2, tertiary 1); unverifiable claims carry
// no weight so they cannot drag a scored claim toward zero.
func (c *Composer) Aggregate(input string, claims []model.ClaimVerdict) *model.Verdict {
	v := &model.Verdict{
		Input:     input,
		CheckedAt: time.Now().UTC(),
		Claims:    claims,
	}

	weighted, weights := 0.0, 0.0
	for _, cv := range claims {
		if cv.Label == model.LabelUnverifiable || cv.Label == model.LabelLowCredibility {
			continue
		}
		w := tierWeight(cv.Claim.Tier)
		weighted += float64(cv.Score) * w
		weights += w
	}

	if weights == 0 {
		v.OverallScore = 0
		v.Label = model.LabelUnverifiable
		return v
	}

	v.OverallScore = int(weighted/weights + 0.5)
	v.Label = bandLabel(v.OverallScore)
	return v
}

func tierWeight(tier model.ClaimTier) float64 {
	switch tier {
	case model.TierPrimary:
		return 3
	case model.TierSecondary:
		return 2
	default:
		return 1
	}
}
