package guard

import (
	"strings"

	"github.com/ppiankov/parallax/internal/model"
)

const (
	contradictionTopN   = 5
	contradictionSample = 3
)

var negationMarkers = []string{
	"not ", "no ", "never", "false", "denies", "denied", "debunked",
	"refuted", "disputed", "incorrect", "misleading", "myth", "hoax",
}

// DetectContradiction infers pro/contra polarity for the top items of each
// arm from negation cues and counts opposing pairs across arms. A small
// sample of opposing title pairs is kept for the methodology trail.
func DetectContradiction(armA, armB []model.EvidenceItem, metrics model.ConsensusMetrics) model.ConsensusMetrics {
	topA := top(armA, contradictionTopN)
	topB := top(armB, contradictionTopN)

	for _, a := range topA {
		polarityA := negated(a)
		for _, b := range topB {
			metrics.PairsTotal++
			if polarityA != negated(b) {
				metrics.PairsOpposed++
				if len(metrics.Samples) < contradictionSample {
					metrics.Samples = append(metrics.Samples, model.TitlePair{
						TitleA: a.Title,
						TitleB: b.Title,
					})
				}
			}
		}
	}

	if metrics.PairsTotal > 0 {
		metrics.OppositionRatio = float64(metrics.PairsOpposed) / float64(metrics.PairsTotal)
	}
	return metrics
}

func top(items []model.EvidenceItem, n int) []model.EvidenceItem {
	if len(items) > n {
		return items[:n]
	}
	return items
}

// negated reports whether an item's title+snippet carries negation cues
func negated(item model.EvidenceItem) bool {
	text := strings.ToLower(item.Title + " " + item.Snippet)
	for _, marker := range negationMarkers {
		if strings.Contains(text, marker) {
			return true
		}
	}
	return false
}
