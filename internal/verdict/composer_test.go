package verdict

import (
	"testing"

	"github.com/ppiankov/parallax/internal/guard"
	"github.com/ppiankov/parallax/internal/model"
)

func testClaim(tier model.ClaimTier) model.Claim {
	return model.Claim{Text: "unemployment fell to 3.5 percent in 2024", Tier: tier}
}

func TestCompose_NoProviders(t *testing.T) {
	c := NewComposer()
	cv := c.Compose(Inputs{
		Claim:        testClaim(model.TierPrimary),
		GatherStatus: model.GatherNoProviders,
	})

	if cv.Label != model.LabelUnverifiable {
		t.Errorf("label = %q, want unverifiable", cv.Label)
	}
	if cv.Score != 0 {
		t.Errorf("score = %d, want 0", cv.Score)
	}
	if cv.State != model.StateLabeled {
		t.Errorf("state = %q, want labeled", cv.State)
	}
	if len(cv.Methodology.Notes) != 1 {
		t.Errorf("notes = %v, want the missing-provider note", cv.Methodology.Notes)
	}
	if cv.Methodology.GatherStatus != model.GatherNoProviders {
		t.Errorf("methodology gather status = %q", cv.Methodology.GatherStatus)
	}
}

func TestCompose_NoEvidence(t *testing.T) {
	c := NewComposer()
	cv := c.Compose(Inputs{
		Claim:        testClaim(model.TierPrimary),
		GatherStatus: model.GatherOK,
		Evidence:     nil,
	})

	if cv.Label != model.LabelLowCredibility {
		t.Errorf("label = %q, want low credibility when guardrails strip everything", cv.Label)
	}
	if cv.Score != 0 {
		t.Errorf("score = %d, want 0", cv.Score)
	}
	if len(cv.Methodology.Notes) != 1 || cv.Methodology.Notes[0] != "guardrails left no usable evidence" {
		t.Errorf("notes = %v", cv.Methodology.Notes)
	}
}

func TestCompose_EmptyGatherNote(t *testing.T) {
	c := NewComposer()
	cv := c.Compose(Inputs{
		Claim:        testClaim(model.TierPrimary),
		GatherStatus: model.GatherEmpty,
	})

	if cv.Label != model.LabelLowCredibility {
		t.Errorf("label = %q, want low credibility", cv.Label)
	}
	// Providers searched and found nothing; guardrails never ran, and the
	// audit trail must not claim they did.
	if len(cv.Methodology.Notes) != 1 || cv.Methodology.Notes[0] != "providers returned no candidates" {
		t.Errorf("notes = %v, want the empty-gather note", cv.Methodology.Notes)
	}
}

func TestCompose_FullOpposition(t *testing.T) {
	c := NewComposer()
	cv := c.Compose(Inputs{
		Claim:        testClaim(model.TierPrimary),
		GatherStatus: model.GatherOK,
		Evidence:     []model.EvidenceItem{{Domain: "a.com"}, {Domain: "b.com"}},
		Consensus: model.ConsensusMetrics{
			PairsTotal:      4,
			PairsOpposed:    4,
			OppositionRatio: 1.0,
		},
	})

	if cv.Label != model.LabelConflicting {
		t.Errorf("label = %q, want conflicting", cv.Label)
	}
	if cv.Score != 50 {
		t.Errorf("score = %d, want the conflicting midpoint 50", cv.Score)
	}
}

func TestCompose_Scored(t *testing.T) {
	// All-support balance (stance 100), high credibility, full agreement
	// and nothing dropped should land well inside the true band.
	c := NewComposer()
	in := Inputs{
		Claim:        testClaim(model.TierPrimary),
		GatherStatus: model.GatherOK,
		Evidence:     []model.EvidenceItem{{Domain: "a.gov"}, {Domain: "b.org"}},
		Balance: guard.Balance{
			Combined: model.BalanceStats{Support: 4},
		},
		CredAvg: 90,
		Consensus: model.ConsensusMetrics{
			TokenOverlapJaccard: 0.8,
		},
		Reports: []model.GuardrailReport{
			{Stats: model.DiversityStats{KeptCount: 2, DropCount: 0}},
			{Stats: model.DiversityStats{KeptCount: 2, DropCount: 0}},
		},
	}

	cv := c.Compose(in)
	// 0.50*100 + 0.25*90 + 0.15*80 + 0.10*100 = 94.5 -> 95
	if cv.Score != 95 {
		t.Errorf("score = %d, want 95", cv.Score)
	}
	if cv.Label != model.LabelTrue {
		t.Errorf("label = %q, want true", cv.Label)
	}
}

func TestCompose_OppositionPenalty(t *testing.T) {
	c := NewComposer()
	in := Inputs{
		Claim:        testClaim(model.TierPrimary),
		GatherStatus: model.GatherOK,
		Evidence:     []model.EvidenceItem{{Domain: "a.com"}},
		Balance:      guard.Balance{Combined: model.BalanceStats{Support: 4}},
		CredAvg:      90,
		Consensus: model.ConsensusMetrics{
			TokenOverlapJaccard: 0.8,
			PairsTotal:          4,
			PairsOpposed:        2,
			OppositionRatio:     0.5,
		},
		Reports: []model.GuardrailReport{
			{Stats: model.DiversityStats{KeptCount: 2}},
		},
	}

	cv := c.Compose(in)
	// 94.5 minus 0.5*25 = 82 -> 82
	if cv.Score != 82 {
		t.Errorf("score = %d, want 82 after the opposition penalty", cv.Score)
	}
}

func TestCompose_RefuteDominatedLandsLow(t *testing.T) {
	c := NewComposer()
	in := Inputs{
		Claim:        testClaim(model.TierPrimary),
		GatherStatus: model.GatherOK,
		Evidence:     []model.EvidenceItem{{Domain: "a.com"}},
		Balance:      guard.Balance{Combined: model.BalanceStats{Refute: 5}},
		CredAvg:      40,
		Reports: []model.GuardrailReport{
			{Stats: model.DiversityStats{KeptCount: 1, DropCount: 3}},
		},
	}

	cv := c.Compose(in)
	// 0.50*0 + 0.25*40 + 0.15*0 + 0.10*25 = 12.5 -> 13
	if cv.Score != 13 {
		t.Errorf("score = %d, want 13", cv.Score)
	}
	if cv.Label != model.LabelFalse {
		t.Errorf("label = %q, want false", cv.Label)
	}
}

func TestBandLabel(t *testing.T) {
	tests := []struct {
		score int
		want  model.VerdictLabel
	}{
		{100, model.LabelTrue},
		{80, model.LabelTrue},
		{79, model.LabelMostlyTrue},
		{60, model.LabelMostlyTrue},
		{59, model.LabelMixed},
		{40, model.LabelMixed},
		{39, model.LabelMostlyFalse},
		{20, model.LabelMostlyFalse},
		{19, model.LabelFalse},
		{0, model.LabelFalse},
	}
	for _, tt := range tests {
		if got := bandLabel(tt.score); got != tt.want {
			t.Errorf("bandLabel(%d) = %q, want %q", tt.score, got, tt.want)
		}
	}
}

func TestStanceComponent(t *testing.T) {
	if got := stanceComponent(model.BalanceStats{}); got != 50 {
		t.Errorf("empty balance = %v, want neutral 50", got)
	}
	if got := stanceComponent(model.BalanceStats{Support: 3, Refute: 1}); got != 75 {
		t.Errorf("3v1 support = %v, want 75", got)
	}
	if got := stanceComponent(model.BalanceStats{Refute: 2}); got != 0 {
		t.Errorf("all refute = %v, want 0", got)
	}
}

func TestAggregate_TierWeights(t *testing.T) {
	c := NewComposer()
	claims := []model.ClaimVerdict{
		{Claim: testClaim(model.TierPrimary), Label: model.LabelTrue, Score: 90},
		{Claim: testClaim(model.TierSecondary), Label: model.LabelMixed, Score: 45},
		{Claim: testClaim(model.TierTertiary), Label: model.LabelFalse, Score: 10},
	}

	v := c.Aggregate("input text", claims)
	// (90*3 + 45*2 + 10*1) / 6 = 61.67 -> 62
	if v.OverallScore != 62 {
		t.Errorf("overall = %d, want 62", v.OverallScore)
	}
	if v.Label != model.LabelMostlyTrue {
		t.Errorf("label = %q, want mostly true", v.Label)
	}
	if v.Input != "input text" || len(v.Claims) != 3 {
		t.Errorf("verdict carries wrong input or claims: %+v", v)
	}
	if v.CheckedAt.IsZero() {
		t.Error("CheckedAt not set")
	}
}

func TestAggregate_SkipsUnscoredClaims(t *testing.T) {
	c := NewComposer()
	claims := []model.ClaimVerdict{
		{Claim: testClaim(model.TierPrimary), Label: model.LabelUnverifiable, Score: 0},
		{Claim: testClaim(model.TierTertiary), Label: model.LabelTrue, Score: 85},
		{Claim: testClaim(model.TierPrimary), Label: model.LabelLowCredibility, Score: 0},
	}

	v := c.Aggregate("x", claims)
	if v.OverallScore != 85 {
		t.Errorf("overall = %d, want 85: unverifiable claims must carry no weight", v.OverallScore)
	}
}

func TestAggregate_AllUnverifiable(t *testing.T) {
	c := NewComposer()
	claims := []model.ClaimVerdict{
		{Claim: testClaim(model.TierPrimary), Label: model.LabelUnverifiable},
	}

	v := c.Aggregate("x", claims)
	if v.Label != model.LabelUnverifiable || v.OverallScore != 0 {
		t.Errorf("got %q/%d, want unverifiable/0", v.Label, v.OverallScore)
	}
}
