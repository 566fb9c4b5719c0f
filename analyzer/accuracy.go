package analyzer

import "math"

// Per-tier accuracy weights. Database answers count in full, model estimates
// and category defaults progressively less, and each user-touched item earns
// a small bonus on top.
const (
	usdaWeight          = 1.0
	geminiWeight        = 0.7
	defaultWeight       = 0.4
	userCorrectionBonus = 0.1
)

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// accuracyScore blends the tier counts into a single 0 to 100 confidence
// number, capped at 100 so the user bonus cannot push an all-USDA meal over.
func accuracyScore(counts SourceCounts) float64 {
	if counts.TotalItems == 0 {
		return 0
	}
	total := float64(counts.TotalItems)
	base := (float64(counts.USDAItems)*usdaWeight +
		float64(counts.GeminiEstimated)*geminiWeight +
		float64(counts.DefaultEstimated)*defaultWeight) / total
	bonus := float64(counts.UserCorrected) * userCorrectionBonus / total
	return round1(math.Min(100, (base+bonus)*100))
}

// accuracyBreakdown reports the USDA share and the user-touched share of the
// meal as percentages.
func accuracyBreakdown(counts SourceCounts) AccuracyBreakdown {
	if counts.TotalItems == 0 {
		return AccuracyBreakdown{}
	}
	total := float64(counts.TotalItems)
	return AccuracyBreakdown{
		USDAAccuracy:    round1(float64(counts.USDAItems) / total * 100),
		UserEnhancement: round1(float64(counts.UserCorrected) / total * 100),
	}
}
