package guard

import "github.com/ppiankov/parallax/internal/model"

// Balance summarizes stance classifications per arm and combined
type Balance struct {
	A        model.BalanceStats `json:"a"`
	B        model.BalanceStats `json:"b"`
	Combined model.BalanceStats `json:"combined"`
}

// CountBalance tallies support/refute/neutral across both arms
func CountBalance(armA, armB []model.EvidenceItem) Balance {
	var b Balance
	b.A = countArm(armA)
	b.B = countArm(armB)
	b.Combined = b.A
	b.Combined.Add(b.B)
	return b
}

func countArm(items []model.EvidenceItem) model.BalanceStats {
	var stats model.BalanceStats
	for _, item := range items {
		switch item.Stance {
		case model.StanceSupport:
			stats.Support++
		case model.StanceRefute:
			stats.Refute++
		default:
			stats.Neutral++
		}
	}
	return stats
}
