package model

import "time"

// GuardrailReport is the output of diversity enforcement for one arm
type GuardrailReport struct {
	Arm     Arm            `json:"arm"`
	Kept    []EvidenceItem `json:"kept"`
	Dropped []EvidenceItem `json:"dropped"`
	Stats   DiversityStats `json:"stats"`
}

// DiversityStats summarizes the diversity enforcement pass
type DiversityStats struct {
	Domains    int `json:"domains"`
	KeptCount  int `json:"kept"`
	DropCount  int `json:"dropped"`
	Backfilled int `json:"backfilled"`
}

// BalanceStats counts stance classifications per arm and combined
type BalanceStats struct {
	Support int `json:"support"`
	Refute  int `json:"refute"`
	Neutral int `json:"neutral"`
}

// Add folds another balance count into this one.
func (b *BalanceStats) Add(o BalanceStats) {
	b.Support += o.Support
	b.Refute += o.Refute
	b.Neutral += o.Neutral
}

// Total returns the number of classified items.
func (b BalanceStats) Total() int {
	return b.Support + b.Refute + b.Neutral
}

// ConsensusMetrics measures cross-arm agreement and contradiction
type ConsensusMetrics struct {
	TokenOverlapJaccard float64     `json:"token_overlap_jaccard"`
	SharedDomains       int         `json:"shared_domains"`
	ExactURLMatches     int         `json:"exact_url_matches"`
	PairsOpposed        int         `json:"pairs_opposed"`
	PairsTotal          int         `json:"pairs_total"`
	OppositionRatio     float64     `json:"opposition_ratio"`
	Samples             []TitlePair `json:"samples,omitempty"` // ≤3, for transparency
}

// TitlePair is a sampled contradicting title pair across arms
type TitlePair struct {
	TitleA string `json:"title_a"`
	TitleB string `json:"title_b"`
}

// VerdictLabel is an IFCN-style rating band
type VerdictLabel string

const (
	LabelTrue         VerdictLabel = "True"
	LabelMostlyTrue   VerdictLabel = "Mostly True"
	LabelMixed        VerdictLabel = "Mixed"
	LabelMostlyFalse  VerdictLabel = "Mostly False"
	LabelFalse        VerdictLabel = "False"
	LabelUnverifiable VerdictLabel = "Unverifiable"

	// Degraded-evidence terminals
	LabelLowCredibility VerdictLabel = "Unverifiable — Low-Credibility Evidence"
	LabelConflicting    VerdictLabel = "Mixed — Conflicting Evidence"
)

// VerdictState tracks the per-claim composition state machine
type VerdictState string

const (
	StateGathering  VerdictState = "gathering"
	StateRanking    VerdictState = "ranking"
	StateGuardrails VerdictState = "guardrails"
	StateScoring    VerdictState = "scoring"
	StateLabeled    VerdictState = "labeled" // Terminal
)

// Methodology is the auditable trail attached to every claim verdict
type Methodology struct {
	Guardrails     []GuardrailReport `json:"guardrails"`
	Balance        BalanceStats      `json:"balance"`
	CredibilityAvg float64           `json:"credibility_avg"`
	Agreement      ConsensusMetrics  `json:"agreement"`
	GatherStatus   GatherStatus      `json:"gather_status"`
	Notes          []string          `json:"notes,omitempty"`
}

// ClaimVerdict is the scored, labeled outcome for a single claim
type ClaimVerdict struct {
	Claim       Claim          `json:"claim"`
	Score       int            `json:"score"` // 0-100
	Label       VerdictLabel   `json:"label"`
	State       VerdictState   `json:"state"`
	Evidence    []EvidenceItem `json:"evidence"`
	Methodology Methodology    `json:"methodology"`
}

// Verdict is the terminal artifact of a check run; immutable once emitted.
type Verdict struct {
	Input        string         `json:"input"`
	CheckedAt    time.Time      `json:"checked_at"`
	OverallScore int            `json:"overall_score"` // 0-100
	Label        VerdictLabel   `json:"label"`
	Claims       []ClaimVerdict `json:"claims"`

	// Assist is the optional LLM-drafted explanation. It is produced after
	// scoring and never feeds back into it.
	Assist *AssistNote `json:"assist,omitempty"`
}

// AssistNote is the optional LLM output, clearly separated from scoring
type AssistNote struct {
	Provider    string   `json:"provider,omitempty"`
	Model       string   `json:"model,omitempty"`
	Explanation string   `json:"explanation,omitempty"`
	Warnings    []string `json:"warnings,omitempty"` // e.g. citation outside evidence allowlist
}
