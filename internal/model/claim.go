package model

// ClaimTier classifies the importance of an extracted claim
type ClaimTier string

const (
	TierPrimary   ClaimTier = "primary"   // Lead factual assertion (early, numeric, copular)
	TierSecondary ClaimTier = "secondary" // Causal or connective elaboration
	TierTertiary  ClaimTier = "tertiary"  // Supporting context
)

// ClaimKind is a coarse classification of what the claim asserts
type ClaimKind string

const (
	KindComparative ClaimKind = "comparative" // Compares quantities or states
	KindAttribution ClaimKind = "attribution" // Attributes a statement to a source
	KindStatement   ClaimKind = "statement"   // Plain factual statement
)

// Numbers holds the quantities extracted from a claim sentence
type Numbers struct {
	Percents    []string `json:"percents,omitempty"`     // e.g. "3.5"
	Years       []string `json:"years,omitempty"`        // e.g. "2024"
	NumberUnits []string `json:"number_units,omitempty"` // e.g. "8 million"
}

// Cues records rhetorical markers detected in the claim text
type Cues struct {
	Negation    bool `json:"negation"`
	Comparison  bool `json:"comparison"`
	Attribution bool `json:"attribution"`
}

// Scope holds temporal and geographic hints derived from the claim
type Scope struct {
	YearHint string `json:"year_hint,omitempty"` // First extracted year
	GeoHint  string `json:"geo_hint,omitempty"`  // First extracted entity
}

// Claim represents a factual assertion extracted from the input text.
// Immutable once produced by the extractor.
type Claim struct {
	Text     string    `json:"text"`
	Tier     ClaimTier `json:"tier"`
	Kind     ClaimKind `json:"kind"`
	Sentence int       `json:"sentence"` // Sentence index in source (0-based)
	Entities []string  `json:"entities,omitempty"`
	Numbers  Numbers   `json:"numbers"`
	Cues     Cues      `json:"cues"`
	Scope    Scope     `json:"scope"`
}

// Arm identifies one of the two opposing search framings for a claim
type Arm string

const (
	ArmA Arm = "A" // Confirmation-leaning framing
	ArmB Arm = "B" // Scrutiny-leaning framing
)

// SearchPlan holds the two bounded query lists generated for a single claim.
// Owned by one pipeline run; discarded after gathering.
type SearchPlan struct {
	Claim    Claim    `json:"claim"`
	QueriesA []string `json:"queries_a"` // ≤3 queries, arm A
	QueriesB []string `json:"queries_b"` // ≤3 queries, arm B
}

// Queries returns the query list for the given arm.
func (p *SearchPlan) Queries(arm Arm) []string {
	if arm == ArmB {
		return p.QueriesB
	}
	return p.QueriesA
}
