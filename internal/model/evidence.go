package model

// SourceType is inferred purely from URL and document structure, never from
// a registry of site names.
type SourceType string

const (
	SourcePeerReviewed SourceType = "peer_reviewed" // DOI/arXiv patterns
	SourceGovernment   SourceType = "government"    // .gov TLD or official-document cues
	SourceNews         SourceType = "news"          // Article path/byline cues
	SourceSocial       SourceType = "social"        // Platform host shape
	SourceBlog         SourceType = "blog"          // Blog path cues
	SourceWeb          SourceType = "web"           // Default
)

// Stance classifies an evidence item relative to its claim
type Stance string

const (
	StanceSupport Stance = "support"
	StanceRefute  Stance = "refute"
	StanceNeutral Stance = "neutral"
)

// EvidenceCandidate is raw provider output, not yet trusted.
type EvidenceCandidate struct {
	URL      string `json:"url"`
	Title    string `json:"title"`
	Snippet  string `json:"snippet"`
	Provider string `json:"provider"`
	Arm      Arm    `json:"arm"`
	Query    string `json:"query,omitempty"` // The query that produced this hit
}

// NumericSignals records quantity comparison between claim and evidence
type NumericSignals struct {
	Percents  []float64 `json:"percents,omitempty"`
	Absolutes []float64 `json:"absolutes,omitempty"`
	Trend     string    `json:"trend,omitempty"` // "increase", "decrease" or ""
	Conflict  bool      `json:"conflict"`
	Reason    string    `json:"reason,omitempty"`
}

// TemporalSignals records date comparison between claim and evidence
type TemporalSignals struct {
	Years   []string `json:"years,omitempty"`
	AgeDays int      `json:"age_days"` // -1 when unknown
	Stale   bool     `json:"stale"`
}

// EvidenceItem is a candidate enriched by the deterministic stages. Each
// stage adds fields without invalidating earlier ones.
type EvidenceItem struct {
	EvidenceCandidate

	CanonicalURL string     `json:"canonical_url"`
	Domain       string     `json:"domain"`
	Fingerprint  string     `json:"fingerprint"`
	SourceType   SourceType `json:"source_type"`

	RelevanceScore   float64 `json:"relevance_score"`   // 0-100, ranker output
	StanceScore      int     `json:"stance_score"`      // 0-100, 50 = neutral
	Stance           Stance  `json:"stance"`
	CredibilityScore int     `json:"credibility_score"` // 0-100

	Numeric  NumericSignals  `json:"numeric"`
	Temporal TemporalSignals `json:"temporal"`

	SnapshotHash string `json:"snapshot_hash,omitempty"` // Content hash when snapshotted
}

// GatherStatus distinguishes structural emptiness from empty search results
type GatherStatus string

const (
	GatherOK          GatherStatus = "ok"
	GatherEmpty       GatherStatus = "empty"        // Providers attempted, nothing returned
	GatherNoProviders GatherStatus = "no_providers" // Nothing configured at all
)

// ArmEvidence is the gatherer output for one claim
type ArmEvidence struct {
	A      []EvidenceCandidate `json:"a"`
	B      []EvidenceCandidate `json:"b"`
	Status GatherStatus        `json:"status"`
}

// Total returns the combined candidate count across both arms.
func (e *ArmEvidence) Total() int {
	return len(e.A) + len(e.B)
}
